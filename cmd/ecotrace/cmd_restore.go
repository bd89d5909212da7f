package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/HerbHall/ecotrace/internal/backup"
)

func runRestore(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	input := fs.String("input", "", "backup archive to restore (required)")
	dataDir := fs.String("data-dir", ".", "target directory for restored files")
	force := fs.Bool("force", false, "overwrite existing files")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *input == "" {
		fs.Usage()
		return errors.New("-input is required")
	}

	m, err := backup.Restore(context.Background(), *input, *dataDir, *force)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Restore complete: %d files from %s (version %s) restored to %s\n",
		len(m.Files), m.CreatedAt.Format("2006-01-02 15:04:05"), m.Version, *dataDir)
	return nil
}
