// Package config loads the application configuration from flags, the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
)

// Prefix is the environment variable prefix, e.g. ETIQUETAS_HOME.
const Prefix = "ETIQUETAS"

// homeName is the default home directory inside the user's documents.
const homeName = "Gerador de Etiquetas"

// Config holds all configuration for the application. Empty paths are
// derived from Home.
type Config struct {
	conf.Version
	Args conf.Args

	Home        string `conf:"help:directory holding data backups and output"`
	DataDir     string `conf:"help:store catalogs directory (default: <home>/data)"`
	BackupDir   string `conf:"help:catalog backups directory (default: <home>/backups)"`
	OutputDir   string `conf:"help:label sheet directory (default: <home>/etiquetas)"`
	ConfigPath  string `conf:"help:store list file (default: <home>/config.json)"`
	JournalPath string `conf:"help:SQLite journal (default: <home>/etiquetas.db)"`

	Assets struct {
		Dir         string `conf:"help:artwork and fonts directory (default: <home>/assets)"`
		Background  string `conf:"default:etiqueta.png"`
		Banner      string `conf:"default:faixa.png"`
		NameFont    string `conf:"default:Lato-Black.ttf"`
		PriceFont   string `conf:"default:Gotham-Black.ttf"`
		MeasureFont string `conf:"default:DancingScript-Bold.ttf"`
	}

	Log struct {
		Level string `conf:"default:info,help:debug|info|warn|error"`
		Path  string `conf:"help:also write all log lines to this file"`
	}

	HTTP struct {
		Addr string `conf:"default:127.0.0.1:8080"`
	}

	DefaultStore struct {
		ID   string `conf:"default:matriz"`
		Name string `conf:"default:Cotia"`
	}
}

// ErrHelpWanted is returned by Load when usage or version output was
// requested. The text is in the error message.
var ErrHelpWanted = conf.ErrHelpWanted

// HelpError carries the usage or version text.
type HelpError struct {
	Text string
}

func (e *HelpError) Error() string { return e.Text }

func (e *HelpError) Unwrap() error { return ErrHelpWanted }

// Load reads the configuration from os.Args, the environment and a .env file
// in the working directory.
func Load(build string) (*Config, error) {
	var cfg Config
	cfg.Version = conf.Version{Build: build, Desc: "price tag sheet generator"}

	_ = godotenv.Load()
	help, err := conf.Parse(Prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			return nil, &HelpError{Text: help}
		}
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolve fills empty paths from Home and checks the log level.
func (c *Config) resolve() error {
	if c.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		c.Home = filepath.Join(home, "Documents", homeName)
	}

	defaults := []struct {
		field *string
		name  string
	}{
		{&c.DataDir, "data"},
		{&c.BackupDir, "backups"},
		{&c.OutputDir, "etiquetas"},
		{&c.ConfigPath, "config.json"},
		{&c.JournalPath, "etiquetas.db"},
		{&c.Assets.Dir, "assets"},
	}
	for _, d := range defaults {
		if *d.field == "" {
			*d.field = filepath.Join(c.Home, d.name)
		}
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() slog.Level {
	l, _ := ParseLevel(c.Log.Level)
	return l
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// String renders the configuration for logging.
func (c *Config) String() string {
	out, err := conf.String(c)
	if err != nil {
		return err.Error()
	}
	return out
}
