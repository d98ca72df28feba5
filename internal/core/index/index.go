// Package index tracks source ids already embedded in files under the download root.
package index

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"songfetch/internal/interfaces"
)

// IDReader reads the hidden source id out of a media file
type IDReader interface {
	ReadID(path string) (string, error)
}

// Index is an in-memory set of source ids. Only the orchestrator's commit step adds to it.
type Index struct {
	ids map[string]struct{}
}

// New returns an empty index
func New() *Index {
	return &Index{ids: make(map[string]struct{})}
}

// Build walks root and collects the source id of every file whose extension is in exts.
// Unreadable files and directories are skipped.
func Build(root string, exts []string, reader IDReader, logger interfaces.LoggerService) *Index {
	idx := New()

	wanted := make(map[string]bool, len(exts))
	for _, ext := range exts {
		wanted["."+strings.TrimPrefix(strings.ToLower(ext), ".")] = true
	}

	scanned := 0
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Debug("Skipping %s: %v", path, err)
			return nil
		}
		if d.IsDir() || !wanted[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		scanned++
		id, err := readID(reader, path)
		if err != nil {
			logger.Debug("Could not read id from %s: %v", path, err)
			return nil
		}
		if id != "" {
			idx.Add(id)
		}
		return nil
	})

	logger.Debug("Indexed %d ids from %d files under %s", idx.Len(), scanned, root)
	return idx
}

// readID turns a reader panic on a damaged file into an error for that file
func readID(reader IDReader, path string) (id string, err error) {
	defer func() {
		if r := recover(); r != nil {
			id, err = "", fmt.Errorf("panic reading %s: %v", filepath.Base(path), r)
		}
	}()
	return reader.ReadID(path)
}

// Contains reports whether id is present
func (i *Index) Contains(id string) bool {
	if id == "" {
		return false
	}
	_, ok := i.ids[id]
	return ok
}

func (i *Index) Add(id string) {
	if id != "" {
		i.ids[id] = struct{}{}
	}
}

func (i *Index) Len() int {
	return len(i.ids)
}

// Snapshot returns a copy of the id set
func (i *Index) Snapshot() map[string]struct{} {
	out := make(map[string]struct{}, len(i.ids))
	for id := range i.ids {
		out[id] = struct{}{}
	}
	return out
}
