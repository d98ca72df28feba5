package ytdlp

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"songfetch/internal/shared"
)

func TestSearchTarget(t *testing.T) {
	assert.Equal(t, "ytsearch1:queen bohemian rhapsody", SearchTarget(" queen bohemian rhapsody "))
	assert.Equal(t, "https://youtu.be/abc", SearchTarget("https://youtu.be/abc"))
}

func TestParseFlatPlaylist(t *testing.T) {
	data := []byte(`{"_type":"playlist","id":"PL1","title":"Mix","entries":[
		{"id":"a1","title":"First","url":"https://www.youtube.com/watch?v=a1"},
		null,
		{"id":"b2","title":"[Private video]","url":"b2"},
		{"id":"","title":"nothing"}
	]}`)
	got, err := ParseFlat(data)
	require.NoError(t, err)
	assert.Equal(t, []shared.Candidate{
		{ID: "a1", Title: "First", URL: "https://www.youtube.com/watch?v=a1"},
		{ID: "b2", Title: "[Private video]", URL: "https://www.youtube.com/watch?v=b2"},
	}, got)
}

func TestParseFlatSingleVideo(t *testing.T) {
	got, err := ParseFlat([]byte(`{"id":"x9","title":"Solo","webpage_url":"https://www.youtube.com/watch?v=x9"}`))
	require.NoError(t, err)
	assert.Equal(t, []shared.Candidate{{ID: "x9", Title: "Solo", URL: "https://www.youtube.com/watch?v=x9"}}, got)
}

func TestParseFlatEmpty(t *testing.T) {
	_, err := ParseFlat([]byte("  "))
	assert.ErrorIs(t, err, ErrEmptyResult)

	got, err := ParseFlat([]byte(`{"_type":"playlist","entries":[]}`))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseInfo(t *testing.T) {
	info, err := ParseInfo([]byte(`{"id":"fJ9rUzIMcZQ","title":"Queen – Bohemian Rhapsody (Official Video Remastered)",
		"artist":"Queen","track":"Bohemian Rhapsody","uploader":"Queen Official","album":"A Night at the Opera",
		"duration":354.0,"thumbnail":"https://i.ytimg.com/vi/fJ9rUzIMcZQ/maxresdefault.webp",
		"webpage_url":"https://www.youtube.com/watch?v=fJ9rUzIMcZQ"}`))
	require.NoError(t, err)
	assert.Equal(t, "Queen", info.Artist)
	assert.Equal(t, "Bohemian Rhapsody", info.Track)
	assert.Equal(t, 354.0, info.Duration)
	assert.Equal(t, "A Night at the Opera", info.Album)

	_, err = ParseInfo([]byte(`{}`))
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestPredictFilename(t *testing.T) {
	f := New(shared.NopLogger{}, false)
	info := &shared.TrackInfo{ID: "x", Title: `AC/DC: Back in Black?`}
	got := f.PredictFilename(info, shared.FormatSpec{Ext: "mp3", Folder: "/music/Rock"})
	assert.Equal(t, filepath.Join("/music/Rock", "AC_DC_ Back in Black_.mp3"), got)
}
