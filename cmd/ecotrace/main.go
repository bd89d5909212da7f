// Command ecotrace runs the EcoTrace catalog service and its maintenance
// subcommands.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/ecotrace/internal/catalog"
	"github.com/HerbHall/ecotrace/internal/compare"
	"github.com/HerbHall/ecotrace/internal/config"
	"github.com/HerbHall/ecotrace/internal/impact"
	"github.com/HerbHall/ecotrace/internal/plugin"
	"github.com/HerbHall/ecotrace/internal/server"
	"github.com/HerbHall/ecotrace/internal/store"
	"github.com/HerbHall/ecotrace/internal/version"
)

const usage = `usage: ecotrace <command> [flags]

commands:
  serve     run the HTTP API (default)
  export    write a catalog query as CSV
  backup    archive a file-backed tracker database
  restore   restore a backup archive
  version   print build information
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := "serve"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = runServe(args)
	case "export":
		err = runExport(args, stdout)
	case "backup":
		err = runBackup(args, stdout)
	case "restore":
		err = runRestore(args, stdout)
	case "version":
		fmt.Fprintln(stdout, version.Info())
	case "help":
		fmt.Fprint(stdout, usage)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "%s failed: %v\n", cmd, err)
		return 1
	}
	return 0
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("EcoTrace server starting", zap.String("version", version.Short()))

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	st, err := openStore(cfg.GetString("store.path"))
	if err != nil {
		return err
	}
	defer st.Close()

	registry := plugin.NewRegistry(logger)

	// Compile-time composition.
	plugins := []plugin.Plugin{
		catalog.New(),
		compare.New(),
		impact.New(st),
	}
	for _, p := range plugins {
		if err := registry.Register(p); err != nil {
			return err
		}
	}

	if err := registry.InitAll(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := registry.StartAll(ctx); err != nil {
		return err
	}
	defer registry.StopAll()

	srv := server.New(server.OptionsFromConfig(cfg), registry, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("EcoTrace server stopped")
	return nil
}

// openStore opens the tracker database, creating the parent directory of a
// file-backed path.
func openStore(path string) (*store.SQLiteStore, error) {
	if path == "" {
		path = store.MemoryPath
	}
	if path != store.MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	return store.New(path)
}
