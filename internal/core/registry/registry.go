// Package registry persists which queries and source ids were already acquired.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"songfetch/internal/core/source"
	"songfetch/internal/interfaces"
	"songfetch/internal/shared"
)

// record is the on-disk shape
type record struct {
	IDs     []string          `json:"ids"`
	Queries map[string]string `json:"queries"`
}

// Entry is one query to id mapping
type Entry struct {
	Query string
	ID    string
}

// Registry is the dedup record for one download root. It is not safe for
// concurrent use and is not shared between processes.
type Registry struct {
	path    string
	ids     []string
	idSet   map[string]struct{}
	queries map[string]string
}

// New returns an empty registry that saves to path
func New(path string) *Registry {
	return &Registry{
		path:    path,
		idSet:   make(map[string]struct{}),
		queries: make(map[string]string),
	}
}

// Load reads the registry at path. A missing or unreadable file yields an
// empty registry; the problem is reported through logger.
func Load(path string, logger interfaces.LoggerService) *Registry {
	r := New(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warning("Could not read registry %s, starting empty: %v", path, err)
		}
		return r
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		logger.Warning("Registry %s is corrupt, starting empty: %v", path, err)
		return r
	}

	for _, id := range rec.IDs {
		r.addID(id)
	}
	for q, id := range rec.Queries {
		r.queries[q] = id
	}
	logger.Debug("Loaded registry %s: %d ids, %d queries", path, len(r.ids), len(r.queries))
	return r
}

// Path returns the file the registry saves to
func (r *Registry) Path() string {
	return r.path
}

// IsDownloaded reports whether key was seen as a query or an id, or whether id was already acquired.
func (r *Registry) IsDownloaded(key, id string) bool {
	if _, ok := r.queries[key]; ok {
		return true
	}
	if _, ok := r.idSet[key]; ok {
		return true
	}
	if id != "" {
		if _, ok := r.idSet[id]; ok {
			return true
		}
	}
	return false
}

// Add records that key produced id
func (r *Registry) Add(key, id string) {
	r.addID(id)
	r.queries[key] = id
}

func (r *Registry) addID(id string) {
	if _, ok := r.idSet[id]; ok {
		return
	}
	r.idSet[id] = struct{}{}
	r.ids = append(r.ids, id)
}

// SyncWithDisk drops ids not present on disk, queries pointing at them and
// every playlist query. It saves when anything was removed and returns the
// number of removed ids and queries.
func (r *Registry) SyncWithDisk(present map[string]struct{}) (int, error) {
	removed := 0

	kept := r.ids[:0]
	for _, id := range r.ids {
		if _, ok := present[id]; ok {
			kept = append(kept, id)
			continue
		}
		delete(r.idSet, id)
		removed++
	}
	r.ids = kept

	for q, id := range r.queries {
		_, onDisk := present[id]
		// Playlists grow over time, so their query must never short-circuit a rerun
		if !onDisk || source.IsPlaylist(q) {
			delete(r.queries, q)
			removed++
		}
	}

	if removed == 0 {
		return 0, nil
	}
	return removed, r.Save()
}

// Save writes the registry atomically. In-memory state is kept on failure.
func (r *Registry) Save() error {
	rec := record{IDs: r.ids, Queries: r.queries}
	if rec.IDs == nil {
		rec.IDs = []string{}
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	if err := shared.WriteFileAtomic(r.path, data, uuid.NewString()); err != nil {
		return fmt.Errorf("failed to write registry: %w", err)
	}
	return nil
}

// IDCount returns the number of recorded ids
func (r *Registry) IDCount() int {
	return len(r.ids)
}

// QueryCount returns the number of recorded queries
func (r *Registry) QueryCount() int {
	return len(r.queries)
}

// Entries returns query mappings sorted by query
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, len(r.queries))
	for q, id := range r.queries {
		entries = append(entries, Entry{Query: q, ID: id})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Query < entries[j].Query })
	return entries
}
