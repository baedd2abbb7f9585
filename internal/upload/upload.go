// Package upload sends Alpha Progression exports from a local folder to a
// basicfit server, skipping files that were already delivered.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Worcesters/basicfit/internal/ingest/alpha"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	SessionsSent     int
	SessionsInserted int
	RecordsSet       int
}

// Uploader walks an export directory and POSTs each new .csv file.
type Uploader struct {
	client *Client
	state  *StateDB
	dir    string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader. client may be nil in dry-run mode.
func New(client *Client, state *StateDB, dir string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		dir:    dir,
		dryRun: dryRun,
		log:    log,
	}
}

// Run uploads every export under the directory in lexical path order.
// Files that fail to parse locally are counted and skipped; a server error
// stops the run so the state DB never gets ahead of the server.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	files, err := findExports(u.dir)
	if err != nil {
		return &u.stats, err
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &u.stats, err
		}
		if err := u.processFile(ctx, f); err != nil {
			return &u.stats, err
		}
	}
	return &u.stats, nil
}

func (u *Uploader) processFile(ctx context.Context, path string) error {
	u.stats.FilesTotal++

	relPath, _ := filepath.Rel(u.dir, path)
	hash, err := HashFile(path)
	if err != nil {
		u.log.Warn("hash failed", "file", relPath, "error", err)
		u.stats.FilesErrored++
		return nil
	}

	uploaded, err := u.state.IsUploaded(ctx, relPath, hash)
	if err != nil {
		u.log.Warn("state check failed", "file", relPath, "error", err)
		u.stats.FilesErrored++
		return nil
	}
	if uploaded {
		u.stats.FilesSkipped++
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		u.log.Warn("read failed", "file", relPath, "error", err)
		u.stats.FilesErrored++
		return nil
	}

	// Malformed files are rejected here rather than by the server.
	sessions, err := alpha.Parse(bytes.NewReader(data))
	if err != nil {
		u.log.Warn("parse failed", "file", relPath, "error", err)
		u.stats.FilesErrored++
		return nil
	}
	if len(sessions) == 0 {
		u.stats.FilesSkipped++
		_ = u.state.MarkUploaded(ctx, relPath, hash, 0)
		return nil
	}

	if u.dryRun {
		u.log.Info("dry-run: would send", "file", relPath, "sessions", len(sessions))
		u.stats.SessionsSent += len(sessions)
		return nil
	}

	result, err := u.client.SendExport(ctx, data)
	if err != nil {
		return fmt.Errorf("sending %s: %w", relPath, err)
	}

	u.stats.FilesUploaded++
	u.stats.SessionsSent += result.SessionsReceived
	u.stats.SessionsInserted += result.SessionsInserted
	u.stats.RecordsSet += result.RecordsSet

	if err := u.state.MarkUploaded(ctx, relPath, hash, result.SessionsInserted); err != nil {
		u.log.Warn("failed to mark uploaded", "file", relPath, "error", err)
	}

	u.log.Info("uploaded export",
		"file", relPath,
		"sessions", result.SessionsReceived,
		"inserted", result.SessionsInserted,
		"records", result.RecordsSet,
	)
	return nil
}

// findExports returns every .csv file below dir, sorted by path.
func findExports(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
