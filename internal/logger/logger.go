// Package logger writes keptword's structured log. Every line that concerns
// a storage slot carries slot=<key>, every journal mutation carries op=<op>.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/keptword/internal/constants"
)

// Logger is the global logger instance. Nil until Init.
var Logger *log.Logger

var logFile *lumberjack.Logger

// Config holds logger configuration
type Config struct {
	Debug     bool
	ConfigDir string
	Backend   string    // added to every line when set
	Stderr    io.Writer // debug mirror, os.Stderr when nil
}

// Path is the log file for a config directory
func Path(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

// Init opens the rotating log file. Mutations are recorded at info level;
// debug mode lowers the level and mirrors every line to stderr.
func Init(cfg Config) error {
	path := Path(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	if err := Close(); err != nil {
		return err
	}
	logFile = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     90, // days
		Compress:   true,
	}

	var w io.Writer = logFile
	level := log.InfoLevel
	if cfg.Debug {
		stderr := cfg.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		w = io.MultiWriter(stderr, logFile)
		level = log.DebugLevel
	}

	l := log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	if cfg.Backend != "" {
		l = l.With("backend", cfg.Backend)
	}
	Logger = l
	return nil
}

// Close flushes and closes the log file
func Close() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// Scope is a set of fields prepended to every line it logs
type Scope struct {
	fields []any
}

// Slot scopes log lines to one storage key
func Slot(key string) Scope {
	return Scope{fields: []any{"slot", key}}
}

// Op scopes log lines to one journal operation
func Op(op string) Scope {
	return Scope{fields: []any{"op", op}}
}

// With returns a copy of the scope with more fields
func (s Scope) With(keyvals ...any) Scope {
	fields := make([]any, 0, len(s.fields)+len(keyvals))
	return Scope{fields: append(append(fields, s.fields...), keyvals...)}
}

func (s Scope) Debug(msg string, keyvals ...any) { Debug(msg, s.With(keyvals...).fields...) }
func (s Scope) Info(msg string, keyvals ...any)  { Info(msg, s.With(keyvals...).fields...) }
func (s Scope) Warn(msg string, keyvals ...any)  { Warn(msg, s.With(keyvals...).fields...) }
func (s Scope) Error(msg string, keyvals ...any) { Error(msg, s.With(keyvals...).fields...) }

func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
