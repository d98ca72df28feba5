package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"songfetch/internal/shared"
)

func set(ids ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func TestIsDownloadedThreeWays(t *testing.T) {
	r := New(filepath.Join(t.TempDir(), ".registry.json"))
	r.Add("queen bohemian rhapsody", "fJ9rUzIMcZQ")

	assert.True(t, r.IsDownloaded("queen bohemian rhapsody", ""), "known query")
	assert.True(t, r.IsDownloaded("fJ9rUzIMcZQ", ""), "key is a known id")
	assert.True(t, r.IsDownloaded("https://youtu.be/fJ9rUzIMcZQ", "fJ9rUzIMcZQ"), "id argument known")
	assert.False(t, r.IsDownloaded("something else", ""))
	assert.False(t, r.IsDownloaded("something else", "otherid"))
}

func TestAddIsIdempotent(t *testing.T) {
	r := New(filepath.Join(t.TempDir(), ".registry.json"))
	r.Add("a", "id1")
	r.Add("a", "id1")
	r.Add("b", "id1")
	assert.Equal(t, 1, r.IDCount())
	assert.Equal(t, 2, r.QueryCount())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".registry.json")
	r := New(path)
	r.Add("query", "id1")
	require.NoError(t, r.Save())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var rec record
	require.NoError(t, json.Unmarshal(raw, &rec))
	assert.Equal(t, []string{"id1"}, rec.IDs)
	assert.Equal(t, map[string]string{"query": "id1"}, rec.Queries)

	loaded := Load(path, shared.NopLogger{})
	assert.True(t, loaded.IsDownloaded("query", ""))

	matches, err := filepath.Glob(path + ".*.tmp")
	require.NoError(t, err)
	assert.Empty(t, matches, "temp file left behind")
}

func TestEmptyRegistrySavesEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".registry.json")
	require.NoError(t, New(path).Save())
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"ids": []`)
}

func TestLoadMissingOrCorrupt(t *testing.T) {
	dir := t.TempDir()
	r := Load(filepath.Join(dir, "missing.json"), shared.NopLogger{})
	assert.Equal(t, 0, r.IDCount())

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0644))
	r = Load(corrupt, shared.NopLogger{})
	assert.Equal(t, 0, r.IDCount())
	assert.Equal(t, 0, r.QueryCount())
}

func TestSyncWithDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".registry.json")
	r := New(path)
	r.Add("kept query", "a")
	r.Add("gone query", "b")
	r.Add("https://www.youtube.com/playlist?list=PL123", "a")
	r.Add("https://www.youtube.com/watch?v=a&list=PL9", "a")

	removed, err := r.SyncWithDisk(set("a", "c"))
	require.NoError(t, err)
	assert.Equal(t, 4, removed) // id b, "gone query", two playlist queries

	assert.Equal(t, []Entry{{Query: "kept query", ID: "a"}}, r.Entries())
	assert.False(t, r.IsDownloaded("gone query", "b"))
	assert.True(t, r.IsDownloaded("a", ""))

	persisted := Load(path, shared.NopLogger{})
	assert.Equal(t, r.Entries(), persisted.Entries())
	assert.Equal(t, 1, persisted.IDCount())
}

func TestSyncIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".registry.json")
	r := New(path)
	r.Add("q", "a")
	r.Add("p", "b")

	_, err := r.SyncWithDisk(set("a"))
	require.NoError(t, err)
	before := r.Entries()

	removed, err := r.SyncWithDisk(set("a"))
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Equal(t, before, r.Entries())
}

func TestSyncWithoutChangesDoesNotWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".registry.json")
	r := New(path)
	r.Add("q", "a")

	removed, err := r.SyncWithDisk(set("a"))
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.NoFileExists(t, path)
}

func TestQueryValuesAreIDsAfterSync(t *testing.T) {
	r := New(filepath.Join(t.TempDir(), ".registry.json"))
	r.Add("x", "1")
	r.Add("y", "2")
	r.Add("z", "3")
	_, err := r.SyncWithDisk(set("1", "3"))
	require.NoError(t, err)

	for _, e := range r.Entries() {
		assert.True(t, r.IsDownloaded(e.ID, ""), "query %q points at dropped id %q", e.Query, e.ID)
	}
}
