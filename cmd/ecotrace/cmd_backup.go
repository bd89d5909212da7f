package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/HerbHall/ecotrace/internal/backup"
	"github.com/HerbHall/ecotrace/internal/config"
)

func runBackup(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	output := fs.String("output", "", "output file path (default: ecotrace-backup-{timestamp}.tar.gz)")
	dbPath := fs.String("db", "", "tracker database path (default: store.path from config)")
	configFile := fs.String("config", "", "config file to read store.path from and include in the backup")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *dbPath == "" {
		cfg, err := config.Load(*configFile)
		if err != nil {
			return err
		}
		*dbPath = cfg.GetString("store.path")
	}

	if *output == "" {
		*output = fmt.Sprintf("ecotrace-backup-%s.tar.gz", time.Now().Format("20060102-150405"))
	}

	m, err := backup.Backup(context.Background(), *dbPath, *configFile, *output)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Backup created: %s (%d files)\n", *output, len(m.Files))
	return nil
}
