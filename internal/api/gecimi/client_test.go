package gecimi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"songfetch/internal/api/httpclient"
	"songfetch/internal/shared"
)

func newClient(base string) *Client {
	return New(httpclient.New(httpclient.Config{MaxRetries: 1, RateLimit: time.Millisecond}), base+"/api/lyric/")
}

func TestFetchLyricsFollowsFirstLink(t *testing.T) {
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/api/lyric/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/lyric/Hello World/Some Artist", r.URL.Path)
		w.Write([]byte(`{"count":2,"result":[{"lrc":"` + srv.URL + `/files/1.lrc"},{"lrc":"` + srv.URL + `/files/2.lrc"}]}`))
	})
	mux.HandleFunc("/files/1.lrc", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[00:00.50]first"))
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	got, err := newClient(srv.URL).FetchLyrics(context.Background(), "Some Artist", "Hello World", 0)
	require.NoError(t, err)
	assert.Equal(t, "[00:00.50]first", got)
}

func TestFetchLyricsEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count":0,"result":[]}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).FetchLyrics(context.Background(), "a", "b", 0)
	assert.ErrorIs(t, err, shared.ErrLyricsNotFound)
}
