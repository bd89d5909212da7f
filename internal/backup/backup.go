// Package backup provides tar.gz-based backup and restore for the EcoTrace
// tracker database.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/HerbHall/ecotrace/internal/store"
	"github.com/HerbHall/ecotrace/internal/version"
)

// ManifestName is the archive entry describing the backup contents.
const ManifestName = "manifest.json"

// ErrInMemoryDatabase is returned when asked to back up a database that
// only exists inside a running process.
var ErrInMemoryDatabase = errors.New("in-memory database cannot be backed up")

// ErrExists is returned by Restore when a target file exists and force is off.
var ErrExists = errors.New("file already exists")

// Manifest records what an archive contains.
type Manifest struct {
	CreatedAt time.Time `json:"created_at"`
	Version   string    `json:"version"`
	Files     []string  `json:"files"`
}

// Backup creates a tar.gz archive containing the SQLite database, an
// optional config file, and a manifest. It checkpoints the WAL before
// copying the database.
func Backup(ctx context.Context, dbPath, configPath, outputPath string) (Manifest, error) {
	if dbPath == "" || dbPath == store.MemoryPath {
		return Manifest{}, ErrInMemoryDatabase
	}
	if _, err := os.Stat(dbPath); err != nil {
		return Manifest{}, fmt.Errorf("database file not found: %w", err)
	}

	if err := checkpointWAL(ctx, dbPath); err != nil {
		return Manifest{}, fmt.Errorf("WAL checkpoint failed: %w", err)
	}

	files := []string{dbPath}
	if configPath != "" {
		// A missing config file is skipped.
		if _, err := os.Stat(configPath); err == nil {
			files = append(files, configPath)
		}
	}

	m := Manifest{
		CreatedAt: time.Now().UTC(),
		Version:   version.Short(),
	}
	for _, f := range files {
		m.Files = append(m.Files, filepath.Base(f))
	}

	if err := writeArchive(outputPath, m, files); err != nil {
		// Do not leave a truncated archive behind.
		_ = os.Remove(outputPath)
		return Manifest{}, err
	}
	return m, nil
}

func writeArchive(outputPath string, m Manifest, files []string) error {
	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer outFile.Close()

	gw := gzip.NewWriter(outFile)
	tw := tar.NewWriter(gw)

	manifest, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := tw.WriteHeader(&tar.Header{
		Name:    ManifestName,
		Mode:    0o644,
		Size:    int64(len(manifest)),
		ModTime: m.CreatedAt,
	}); err != nil {
		return fmt.Errorf("writing manifest header: %w", err)
	}
	if _, err := tw.Write(manifest); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	for _, f := range files {
		if err := addFileToTar(tw, f, filepath.Base(f)); err != nil {
			return fmt.Errorf("adding %s to archive: %w", f, err)
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("closing tar: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("closing gzip: %w", err)
	}
	return outFile.Close()
}

// Restore extracts an archive made by Backup into dataDir. Existing files
// are only replaced when force is set.
func Restore(_ context.Context, inputPath, dataDir string, force bool) (Manifest, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return Manifest{}, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return Manifest{}, fmt.Errorf("reading gzip: %w", err)
	}
	defer gr.Close()

	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return Manifest{}, fmt.Errorf("creating data dir: %w", err)
	}

	var m Manifest
	tr := tar.NewReader(gr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Manifest{}, fmt.Errorf("reading archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		if hdr.Name == ManifestName {
			if err := json.NewDecoder(tr).Decode(&m); err != nil {
				return Manifest{}, fmt.Errorf("decoding manifest: %w", err)
			}
			continue
		}

		target, err := safeJoin(dataDir, hdr.Name)
		if err != nil {
			return Manifest{}, err
		}
		if err := extractFile(tr, target, hdr, force); err != nil {
			return Manifest{}, err
		}
	}

	if m.Version == "" {
		return Manifest{}, fmt.Errorf("archive %s has no manifest", inputPath)
	}
	return m, nil
}

// safeJoin rejects archive entries that would escape dir.
func safeJoin(dir, name string) (string, error) {
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry %q escapes the data directory", name)
	}
	return filepath.Join(dir, clean), nil
}

func extractFile(r io.Reader, target string, hdr *tar.Header, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	out, err := os.OpenFile(target, flags, os.FileMode(hdr.Mode).Perm())
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s (use force to overwrite)", ErrExists, target)
		}
		return fmt.Errorf("creating %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return out.Close()
}

// checkpointWAL opens the database, runs a TRUNCATE checkpoint to flush the
// WAL, and closes the connection.
func checkpointWAL(ctx context.Context, dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}

// addFileToTar adds a single file to the tar archive under the given name.
func addFileToTar(tw *tar.Writer, filePath, archiveName string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = archiveName

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}

	_, err = io.Copy(tw, f)
	return err
}
