package index

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"songfetch/internal/shared"
)

// fileContentReader treats the file body as the embedded id
type fileContentReader struct {
	calls []string
}

func (r *fileContentReader) ReadID(path string) (string, error) {
	r.calls = append(r.calls, filepath.Base(path))
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if string(data) == "broken" {
		return "", errors.New("bad tags")
	}
	return string(data), nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestBuild(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.mp3"), "id-a")
	writeFile(t, filepath.Join(root, "Rock", "Classic", "b.MP4"), "id-b")
	writeFile(t, filepath.Join(root, "c.mp3"), "broken")
	writeFile(t, filepath.Join(root, "d.mp3"), "")
	writeFile(t, filepath.Join(root, "e.txt"), "id-e")

	reader := &fileContentReader{}
	idx := Build(root, []string{"mp3", ".mp4"}, reader, shared.NopLogger{})

	assert.True(t, idx.Contains("id-a"))
	assert.True(t, idx.Contains("id-b"))
	assert.False(t, idx.Contains("id-e"))
	assert.False(t, idx.Contains(""))
	assert.Equal(t, 2, idx.Len())
	assert.NotContains(t, reader.calls, "e.txt")
}

// panickyReader panics on files whose body is "corrupt"
type panickyReader struct{ fileContentReader }

func (r *panickyReader) ReadID(path string) (string, error) {
	if data, _ := os.ReadFile(path); string(data) == "corrupt" {
		var frames []byte
		_ = frames[0]
	}
	return r.fileContentReader.ReadID(path)
}

func TestBuildSurvivesReaderPanic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.flac"), "corrupt")
	writeFile(t, filepath.Join(root, "b.flac"), "id-b")

	var idx *Index
	require.NotPanics(t, func() {
		idx = Build(root, []string{"flac"}, &panickyReader{}, shared.NopLogger{})
	})
	assert.True(t, idx.Contains("id-b"))
	assert.Equal(t, 1, idx.Len())
}

func TestBuildMissingRoot(t *testing.T) {
	idx := Build(filepath.Join(t.TempDir(), "nope"), []string{"mp3"}, &fileContentReader{}, shared.NopLogger{})
	assert.Zero(t, idx.Len())
}

func TestSnapshotIsACopy(t *testing.T) {
	idx := New()
	idx.Add("x")
	snap := idx.Snapshot()
	snap["y"] = struct{}{}
	assert.False(t, idx.Contains("y"))

	idx.Add("z")
	_, ok := snap["z"]
	assert.False(t, ok)
}
