package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"songfetch/internal/shared"
)

type memTagger struct {
	tags     map[string]*shared.FileTags
	embedded map[string][]shared.EmbedData
}

func newMemTagger() *memTagger {
	return &memTagger{tags: map[string]*shared.FileTags{}, embedded: map[string][]shared.EmbedData{}}
}

func (m *memTagger) Embed(path string, data shared.EmbedData) error {
	m.embedded[path] = append(m.embedded[path], data)
	return nil
}

func (m *memTagger) ReadID(string) (string, error) { return "", nil }

func (m *memTagger) HasCover(path string) bool {
	t, ok := m.tags[path]
	return ok && t.HasCover
}

func (m *memTagger) ReadTags(path string) (*shared.FileTags, error) {
	if t, ok := m.tags[path]; ok {
		return t, nil
	}
	return &shared.FileTags{}, nil
}

func (m *memTagger) Supports(string) bool { return true }

type recordingLyrics struct {
	text    string
	queries []shared.Metadata
}

func (l *recordingLyrics) Search(_ context.Context, artist, title string, _ int) (string, bool) {
	l.queries = append(l.queries, shared.Metadata{Artist: artist, Title: title})
	return l.text, l.text != ""
}

type staticCovers struct{ queries []shared.CoverQuery }

func (c *staticCovers) GetCover(_ context.Context, q shared.CoverQuery) *shared.CoverResult {
	c.queries = append(c.queries, q)
	return &shared.CoverResult{Data: []byte("jpeg")}
}

func touch(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

const lyricText = "[00:02.00]Hello\n"

func TestRepairUsesLocalLRCForMissingSRT(t *testing.T) {
	root := t.TempDir()
	song := filepath.Join(root, "Rock", "Queen - Song.mp3")
	touch(t, song, "x")
	touch(t, filepath.Join(root, "Rock", "Queen - Song.lrc"), lyricText)

	tagger := newMemTagger()
	lyrics := &recordingLyrics{text: "online"}
	r := NewRepairer(tagger, lyrics, nil, shared.NopLogger{}, nil, Options{Lyrics: true})

	report, err := r.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.LyricsFixed)
	assert.Empty(t, lyrics.queries)

	srt, err := os.ReadFile(filepath.Join(root, "Rock", "Queen - Song.srt"))
	require.NoError(t, err)
	assert.Equal(t, "1\n00:00:02,000 --> 00:00:06,000\nHello\n", string(srt))
	assert.Equal(t, []shared.EmbedData{{Lyrics: lyricText}}, tagger.embedded[song])
}

func TestRepairPrefersEmbeddedLyrics(t *testing.T) {
	root := t.TempDir()
	song := filepath.Join(root, "track.flac")
	touch(t, song, "x")

	tagger := newMemTagger()
	tagger.tags[song] = &shared.FileTags{Artist: "A", Title: "T", Lyrics: lyricText}
	lyrics := &recordingLyrics{text: "online"}
	r := NewRepairer(tagger, lyrics, nil, shared.NopLogger{}, nil, Options{Lyrics: true})

	_, err := r.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, lyrics.queries)

	data, err := os.ReadFile(filepath.Join(root, "track.lrc"))
	require.NoError(t, err)
	assert.Equal(t, lyricText, string(data))
}

func TestRepairSearchesOnlineWithFilenameFallback(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "Adele - Hello.mp3"), "x")

	lyrics := &recordingLyrics{text: "plain words"}
	r := NewRepairer(newMemTagger(), lyrics, nil, shared.NopLogger{}, nil, Options{Lyrics: true})

	report, err := r.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []shared.Metadata{{Artist: "Adele", Title: "Hello"}}, lyrics.queries)
	assert.Equal(t, 1, report.LyricsFixed)
	assert.FileExists(t, filepath.Join(root, "Adele - Hello.lrc"))
	// plain text has no timestamps, so there is nothing to convert
	assert.NoFileExists(t, filepath.Join(root, "Adele - Hello.srt"))
}

func TestRepairSkipsCompleteFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.mp3"), "x")
	touch(t, filepath.Join(root, "a.lrc"), lyricText)
	touch(t, filepath.Join(root, "a.srt"), "srt")
	touch(t, filepath.Join(root, "notes.txt"), "ignored")

	lyrics := &recordingLyrics{text: "online"}
	tagger := newMemTagger()
	r := NewRepairer(tagger, lyrics, nil, shared.NopLogger{}, nil, Options{Lyrics: true})

	report, err := r.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Zero(t, report.LyricsFixed)
	assert.Empty(t, tagger.embedded)
}

func TestRepairEmbedsMissingCovers(t *testing.T) {
	root := t.TempDir()
	bare := filepath.Join(root, "bare.mp3")
	dressed := filepath.Join(root, "dressed.mp3")
	touch(t, bare, "x")
	touch(t, dressed, "x")

	tagger := newMemTagger()
	tagger.tags[bare] = &shared.FileTags{Artist: "Queen", Title: "Song", Album: "Opera"}
	tagger.tags[dressed] = &shared.FileTags{HasCover: true}
	covers := &staticCovers{}
	r := NewRepairer(tagger, nil, covers, shared.NopLogger{}, nil, Options{Covers: true})

	report, err := r.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, report.CoversFixed)
	require.Len(t, covers.queries, 1)
	assert.Equal(t, shared.CoverQuery{Artist: "Queen", Title: "Song", Album: "Opera", Folder: root}, covers.queries[0])
	assert.Equal(t, []shared.EmbedData{{Cover: []byte("jpeg")}}, tagger.embedded[bare])
	assert.Empty(t, tagger.embedded[dressed])
}

func TestRepairMissingRoot(t *testing.T) {
	r := NewRepairer(newMemTagger(), nil, nil, shared.NopLogger{}, nil, Options{Lyrics: true})
	report, err := r.Run(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Zero(t, report.Scanned)
}
