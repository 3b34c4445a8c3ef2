package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/keptword/internal/backup"
	"github.com/julianstephens/keptword/internal/config"
	"github.com/julianstephens/keptword/internal/constants"
	"github.com/julianstephens/keptword/internal/journal"
	"github.com/julianstephens/keptword/internal/keyring"
	"github.com/julianstephens/keptword/internal/logger"
	"github.com/julianstephens/keptword/internal/schema"
	"github.com/julianstephens/keptword/internal/storage"
	"github.com/julianstephens/keptword/internal/storage/file"
	"github.com/julianstephens/keptword/internal/storage/postgres"
	"github.com/julianstephens/keptword/internal/storage/sqlite"
	"github.com/julianstephens/keptword/internal/utils"
)

// Context is passed to every command's Run method
type Context struct {
	Config  *config.Config
	Journal *journal.Journal
	Backend storage.Backend

	Out io.Writer
	In  io.Reader
}

// OpenBackend opens the durable medium selected by cfg
func OpenBackend(cfg *config.Config) (storage.Backend, error) {
	switch cfg.Backend {
	case constants.BackendSQLite:
		return sqlite.Open(cfg.DataPath)
	case constants.BackendFile:
		return file.New(cfg.DataPath)
	case constants.BackendPostgres:
		connStr, err := keyring.ResolveConnectionString(cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		return postgres.Open(connStr)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// NewContext wires a journal over backend. The journal clock follows the
// configured timezone.
func NewContext(cfg *config.Config, backend storage.Backend, opts ...journal.Option) (*Context, error) {
	clock, err := utils.ClockInTimezone(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	store := storage.New(backend, storage.WithValidator(constants.KeyPromises, schema.Promises()))
	opts = append([]journal.Option{journal.WithClock(clock)}, opts...)

	return &Context{
		Config:  cfg,
		Journal: journal.New(store, opts...),
		Backend: backend,
		Out:     os.Stdout,
		In:      os.Stdin,
	}, nil
}

// Close closes the backend, if one was opened
func (c *Context) Close() error {
	if c.Journal != nil {
		return c.Journal.Store().Close()
	}
	if c.Backend != nil {
		return c.Backend.Close()
	}
	return nil
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Stdout(), args...)
}

// Stdout is where command output goes
func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Confirm asks a yes/no question and reports whether the answer was yes
func (c *Context) Confirm(prompt string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}

	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// SQLitePath returns the database path when the sqlite backend is in use
func (c *Context) SQLitePath() (string, bool) {
	s, ok := c.Backend.(*sqlite.Store)
	if !ok {
		return "", false
	}
	return s.Location(), true
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if c.Config != nil && !c.Config.AutoBackup {
		return
	}
	path, ok := c.SQLitePath()
	if !ok {
		return
	}

	mgr := backup.NewManager(path)
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}
