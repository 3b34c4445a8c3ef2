// Package config loads keptword settings from config.yaml, the environment
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/keptword/internal/constants"
	"github.com/julianstephens/keptword/internal/storage/postgres"
	"github.com/julianstephens/keptword/internal/utils"
)

const (
	EnvPrefix   = "KEPTWORD"
	FileName    = "config"
	FileType    = "yaml"
	ExportXLSX  = "xlsx"
	ExportJSON  = "json"
	defaultFile = FileName + "." + FileType
)

type Config struct {
	Backend    string         `yaml:"backend" mapstructure:"backend"`
	DataPath   string         `yaml:"data_path" mapstructure:"data_path"`
	Timezone   string         `yaml:"timezone" mapstructure:"timezone"`
	Debug      bool           `yaml:"debug" mapstructure:"debug"`
	AutoBackup bool           `yaml:"auto_backup" mapstructure:"auto_backup"`
	Postgres   PostgresConfig `yaml:"postgres" mapstructure:"postgres"`
	Export     ExportConfig   `yaml:"export" mapstructure:"export"`

	// path of the file the values were read from, empty when none was found
	source string
}

type PostgresConfig struct {
	// URL must not carry a password; leave empty to use the OS keyring
	URL string `yaml:"url" mapstructure:"url"`
}

type ExportConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
}

// Options control where Load looks
type Options struct {
	// ConfigFile is an explicit config path; a missing file is not an error
	ConfigFile string
	// EnvFile is a dotenv file to load first; when empty ".env" is tried
	EnvFile string
}

func DefaultConfig() *Config {
	return &Config{
		Backend:    constants.BackendSQLite,
		DataPath:   filepath.Join(Dir(), constants.AppName+".db"),
		Timezone:   "Local",
		AutoBackup: true,
		Export:     ExportConfig{Format: ExportXLSX},
	}
}

// Dir returns the directory keptword keeps its config in
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, constants.AppName)
	}
	return utils.ExpandHome(constants.DefaultConfigDir)
}

// DefaultPath returns the config file path used when none is given
func DefaultPath() string {
	return filepath.Join(Dir(), defaultFile)
}

// Load reads configuration with precedence env > config file > defaults
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := DefaultConfig()
	v := viper.New()
	v.SetConfigType(FileType)

	v.SetDefault("backend", cfg.Backend)
	v.SetDefault("data_path", cfg.DataPath)
	v.SetDefault("timezone", cfg.Timezone)
	v.SetDefault("debug", cfg.Debug)
	v.SetDefault("auto_backup", cfg.AutoBackup)
	v.SetDefault("postgres.url", cfg.Postgres.URL)
	v.SetDefault("export.format", cfg.Export.Format)

	if opts.ConfigFile != "" {
		v.SetConfigFile(utils.ExpandHome(opts.ConfigFile))
	} else {
		v.SetConfigName(FileName)
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, constants.AppName))
		}
		v.AddConfigPath(utils.ExpandHome(constants.DefaultConfigDir))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		cfg.source = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.Export.Format = strings.ToLower(strings.TrimSpace(cfg.Export.Format))
	cfg.DataPath = utils.ExpandHome(cfg.DataPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Source returns the config file that was read, if any
func (c *Config) Source() string {
	return c.source
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Backend {
	case constants.BackendSQLite, constants.BackendFile, constants.BackendPostgres:
	default:
		return fmt.Errorf("config: backend %q is not one of sqlite, postgres, file", c.Backend)
	}

	if c.Backend != constants.BackendPostgres && strings.TrimSpace(c.DataPath) == "" {
		return fmt.Errorf("config: data_path is required for the %s backend", c.Backend)
	}

	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("config: invalid timezone %q", c.Timezone)
	}

	switch c.Export.Format {
	case ExportXLSX, ExportJSON:
	default:
		return fmt.Errorf("config: export.format %q is not one of xlsx, json", c.Export.Format)
	}

	if c.Postgres.URL != "" && postgres.HasEmbeddedCredentials(c.Postgres.URL) {
		return fmt.Errorf("config: postgres.url: %w", postgres.ErrEmbeddedCredentials)
	}
	return nil
}

// Write saves cfg as YAML, creating parent directories as needed
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	path = utils.ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// YAML renders cfg the way Write would store it
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
