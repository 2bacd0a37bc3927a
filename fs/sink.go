// Package fs provides a filesystem implementation of pagewalk.Sink that
// writes each batch as one JSON file.
package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/pagewalk"
)

// Ensure Sink implements pagewalk.Sink at compile time.
var _ pagewalk.Sink = (*Sink)(nil)

// Sink stores batches as <label>.json files in a directory. Writes go to a
// temporary file first and are renamed into place, so a crash never leaves
// a truncated batch behind.
type Sink struct {
	dir string
}

// NewSink creates a Sink writing into dir. The directory is created on the
// first Store call.
func NewSink(dir string) *Sink {
	return &Sink{dir: dir}
}

// batchFile is the on-disk shape of one stored batch.
type batchFile struct {
	Label    string                 `json:"label"`
	StoredAt time.Time              `json:"storedAt"`
	Pages    []*pagewalk.PageResult `json:"pages"`
}

// Store writes the batch to <dir>/<label>.json.
func (s *Sink) Store(ctx context.Context, batch []*pagewalk.PageResult, label string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(batchFile{
		Label:    label,
		StoredAt: time.Now().UTC(),
		Pages:    batch,
	}, "", "  ")
	if err != nil {
		return err
	}

	final := filepath.Join(s.dir, label+".json")
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, final)
}
