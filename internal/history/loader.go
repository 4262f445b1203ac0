// Package history reads the editor's local-history store and selects
// snapshots from it.
package history

import (
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jonathancaudill/nook/internal/model"
	"github.com/jonathancaudill/nook/internal/pathutil"
)

// indexName is the per-file index record the store keeps next to the
// content blobs (VS Code / Cursor local-history layout).
const indexName = "entries.json"

// blobSubdir is the secondary folder some store versions keep blobs in.
const blobSubdir = "entries"

// Record pairs a tracked file with the store folder holding its blobs.
type Record struct {
	Dir  string
	File model.TrackedFile
}

type indexFile struct {
	Resource string           `json:"resource"`
	Entries  []model.Snapshot `json:"entries"`
}

// LoadAll walks the history store under root and returns every usable
// per-file record. Malformed records are skipped with a warning; records
// with no entries are skipped silently. Order is walk order and carries
// no meaning.
func LoadAll(root string, logger *slog.Logger) ([]Record, error) {
	var records []Record
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != indexName {
			return nil
		}
		rec, ok := loadOne(path, logger)
		if ok {
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func loadOne(path string, logger *slog.Logger) (Record, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("could not read history record", "path", path, "error", err)
		return Record{}, false
	}
	var idx indexFile
	if err := json.Unmarshal(data, &idx); err != nil {
		logger.Warn("could not parse history record", "path", path, "error", err)
		return Record{}, false
	}
	if idx.Resource == "" {
		logger.Warn("history record missing resource", "path", path)
		return Record{}, false
	}
	if len(idx.Entries) == 0 {
		return Record{}, false
	}
	resource, err := pathutil.ResourcePath(idx.Resource)
	if err != nil {
		logger.Warn("bad resource locator in history record", "path", path, "error", err)
		return Record{}, false
	}
	return Record{
		Dir: filepath.Dir(path),
		File: model.TrackedFile{
			Resource: resource,
			Entries:  idx.Entries,
		},
	}, true
}

// BlobPath resolves a snapshot's content blob inside the record folder,
// trying the primary location then the store's fallback subfolder.
func BlobPath(dir, id string) (string, bool) {
	p := filepath.Join(dir, id)
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	alt := filepath.Join(dir, blobSubdir, id)
	if _, err := os.Stat(alt); err == nil {
		return alt, true
	}
	return "", false
}
