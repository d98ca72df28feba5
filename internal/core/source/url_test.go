package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractID(t *testing.T) {
	cases := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":         "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ":                        "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?t=10":                   "dQw4w9WgXcQ",
		"https://music.youtube.com/watch?v=abc123&feature=sh": "abc123",
		"https://www.youtube.com/embed/xyz":                   "xyz",
		"https://www.youtube.com/shorts/short1":               "short1",
		"https://www.youtube.com/playlist?list=PL123":         "",
		"Queen - Bohemian Rhapsody":                           "",
		"https://example.com/watch?v=nope":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, ExtractID(in), in)
	}
}

func TestIsPlaylist(t *testing.T) {
	assert.True(t, IsPlaylist("https://www.youtube.com/playlist?list=PL123"))
	assert.True(t, IsPlaylist("https://www.youtube.com/watch?v=a&list=PL123"))
	assert.False(t, IsPlaylist("https://www.youtube.com/watch?v=a"))
	assert.False(t, IsPlaylist("Playlist by someone"))
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://youtu.be/x"))
	assert.True(t, IsURL("  HTTP://example.com"))
	assert.False(t, IsURL("ytsearch1:queen"))
}
