package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/etiquetas/internal/api"
	"github.com/erazemk/etiquetas/internal/app"
	"github.com/erazemk/etiquetas/internal/catalog"
	"github.com/erazemk/etiquetas/internal/config"
	"github.com/erazemk/etiquetas/internal/db"
	"github.com/erazemk/etiquetas/internal/model"
	"github.com/erazemk/etiquetas/internal/render"
)

// build is set at link time.
var build = "dev"

const usage = `Usage: etiquetas [flags] <command> [args]

Commands:
  serve                          run the local HTTP API
  stores                         list stores
  stores add <id> <name>         add a store
  stores remove <id>             remove a store (its catalog file is kept)
  stores select <id>             make a store the active one
  products <store> [term]        list active and trashed products
  add <store>                    add a product with default values
  toggle <store> <codigo>        toggle a product inactive
  delete <store> <codigo>        move a product to the trash
  undelete <store> <codigo>      restore a product from the trash
  save <store> <file.json>       replace a catalog with a JSON document
  generate <store> <codigo[:n]>  print n labels (default 1) of stored products
  export <store> <file.xlsx>     export a catalog with its price history
  backups <store>                list backups, newest first
  restore <store> <backup>       restore a backup
  runs [store]                   list generated label sheets

Run "etiquetas --help" for flags and environment variables.
`

func main() {
	cfg, err := config.Load(build)
	if err != nil {
		var he *config.HelpError
		if errors.As(err, &he) {
			fmt.Fprint(os.Stdout, usage, "\n", he.Text, "\n")
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := setupLogger(cfg.LogLevel(), cfg.Log.Path, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	if err := run(cfg); err != nil {
		slog.Error("command failed", "kind", app.Kind(err), "error", err)
		if closeLog != nil {
			closeLog()
		}
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if len(cfg.Args) == 0 {
		fmt.Fprint(os.Stdout, usage)
		return nil
	}

	slog.Debug("configuration", "config", cfg.String())

	repo, err := catalog.New(catalog.Options{
		DataDir:    cfg.DataDir,
		BackupDir:  cfg.BackupDir,
		ConfigPath: cfg.ConfigPath,
	})
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.JournalPath)
	if err != nil {
		return err
	}
	defer database.Close()
	if err := db.Migrate(database); err != nil {
		return err
	}

	assets := render.AssetFiles{
		Dir:         cfg.Assets.Dir,
		Background:  cfg.Assets.Background,
		Banner:      cfg.Assets.Banner,
		NameFont:    cfg.Assets.NameFont,
		PriceFont:   cfg.Assets.PriceFont,
		MeasureFont: cfg.Assets.MeasureFont,
	}
	a := app.New(app.Options{
		Repo:         repo,
		DB:           database,
		Assets:       assets,
		OutputDir:    cfg.OutputDir,
		DefaultStore: model.Store{ID: cfg.DefaultStore.ID, Name: cfg.DefaultStore.Name},
		Logger:       slog.Default(),
	})
	if err := a.Init(); err != nil {
		return err
	}

	ctx := context.Background()
	args := []string(cfg.Args)
	if args[0] == "serve" {
		return serve(a, cfg.HTTP.Addr)
	}
	return runCommand(ctx, a, os.Stdout, args[0], args[1:])
}

func serve(a *app.App, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           api.LoggingMiddleware(api.NewRouter(a)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serving: %w", err)
	}

	slog.Info("server stopped, closing journal")
	return nil
}
