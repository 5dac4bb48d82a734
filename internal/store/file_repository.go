/**
 * @description
 * This file implements the JSON file backend for the ledger Document. The file is
 * read in full on every Load and rewritten in full on every Save, formatted with a
 * two-space indent so operators can inspect it by hand.
 */

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ayush-bhatt-07/klix-marketplace/internal/domain"
)

// FileRepository persists the document as one JSON file.
type FileRepository struct {
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// NewFileRepository creates a repository for the document at path.
func NewFileRepository(path string, logger *slog.Logger) *FileRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileRepository{path: path, logger: logger, now: time.Now}
}

// Path returns the document location.
func (r *FileRepository) Path() string { return r.path }

// Load reads the document. A missing file yields an empty document. A malformed file
// is moved aside to <path>.corrupt-<unix> before an empty document is returned, so the
// next Save does not overwrite the only copy of the bad data.
func (r *FileRepository) Load(ctx context.Context) *domain.Document {
	content, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Info("ledger document not found; starting fresh", "path", r.path)
		} else {
			r.logger.Error("failed to read ledger document; starting fresh", "path", r.path, "error", err)
		}
		return domain.NewDocument()
	}

	var doc domain.Document
	if err := json.Unmarshal(content, &doc); err != nil {
		r.logger.Error("ledger document is malformed; starting fresh", "path", r.path, "error", err)
		r.quarantine()
		return domain.NewDocument()
	}
	doc.Normalize()
	return &doc
}

func (r *FileRepository) quarantine() {
	target := fmt.Sprintf("%s.corrupt-%d", r.path, r.now().Unix())
	if err := os.Rename(r.path, target); err != nil {
		r.logger.Error("failed to move malformed ledger document aside", "path", r.path, "error", err)
		return
	}
	r.logger.Warn("malformed ledger document preserved", "path", target)
}

// Save writes the document to a temp file next to the target and renames it into place.
func (r *FileRepository) Save(ctx context.Context, doc *domain.Document) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	doc.Normalize()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrSaveFailed, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create dir: %v", ErrSaveFailed, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrSaveFailed, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write: %v", ErrSaveFailed, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync: %v", ErrSaveFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", ErrSaveFailed, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		r.logger.Error("failed to write ledger document", "path", r.path, "error", err)
		return fmt.Errorf("%w: rename: %v", ErrSaveFailed, err)
	}
	return nil
}
