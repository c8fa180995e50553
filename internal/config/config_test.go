package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// withArgs runs Load with the given command line.
func withArgs(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"etiquetas"}, args...)
	t.Cleanup(func() { os.Args = old })
	t.Chdir(t.TempDir())
	return Load("test")
}

func TestLoadDerivesPathsFromHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("ETIQUETAS_HOME", home)

	cfg, err := withArgs(t)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tests := map[string]string{
		cfg.DataDir:     filepath.Join(home, "data"),
		cfg.BackupDir:   filepath.Join(home, "backups"),
		cfg.OutputDir:   filepath.Join(home, "etiquetas"),
		cfg.ConfigPath:  filepath.Join(home, "config.json"),
		cfg.JournalPath: filepath.Join(home, "etiquetas.db"),
		cfg.Assets.Dir:  filepath.Join(home, "assets"),
	}
	for got, want := range tests {
		if got != want {
			t.Errorf("got path %s, want %s", got, want)
		}
	}
	if cfg.DefaultStore.ID != "matriz" || cfg.DefaultStore.Name != "Cotia" {
		t.Errorf("unexpected default store %+v", cfg.DefaultStore)
	}
	if cfg.Assets.PriceFont != "Gotham-Black.ttf" {
		t.Errorf("unexpected price font %s", cfg.Assets.PriceFont)
	}
}

func TestLoadFlagsAndArgs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("ETIQUETAS_HOME", home)
	t.Setenv("ETIQUETAS_LOG_LEVEL", "debug")

	cfg, err := withArgs(t, "--data-dir", "/srv/data", "generate", "matriz")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/srv/data" {
		t.Errorf("flag not applied: %s", cfg.DataDir)
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("env not applied: %s", cfg.Log.Level)
	}
	if len(cfg.Args) != 2 || cfg.Args.Num(0) != "generate" || cfg.Args.Num(1) != "matriz" {
		t.Errorf("unexpected args %v", cfg.Args)
	}
}

func TestLoadRejectsBadLevel(t *testing.T) {
	t.Setenv("ETIQUETAS_HOME", t.TempDir())
	t.Setenv("ETIQUETAS_LOG_LEVEL", "loud")
	if _, err := withArgs(t); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestLoadHelp(t *testing.T) {
	t.Setenv("ETIQUETAS_HOME", t.TempDir())
	_, err := withArgs(t, "--help")
	var he *HelpError
	if !errors.As(err, &he) || !errors.Is(err, ErrHelpWanted) {
		t.Fatalf("expected HelpError, got %v", err)
	}
	if he.Text == "" {
		t.Error("expected usage text")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"":      slog.LevelInfo,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}
