package lyricsovh

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
	return New(httpclient.New(httpclient.Config{MaxRetries: 1, RateLimit: time.Millisecond}), base+"/v1")
}

func TestFetchLyrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/Daft Punk/One More Time", r.URL.Path)
		w.Write([]byte(`{"lyrics":"One more time\nWe're gonna celebrate"}`))
	}))
	defer srv.Close()

	got, err := newClient(srv.URL).FetchLyrics(context.Background(), "Daft Punk", "One More Time", 0)
	require.NoError(t, err)
	assert.Contains(t, got, "celebrate")
}

func TestFetchLyricsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"lyrics":"  "}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).FetchLyrics(context.Background(), "a", "b", 0)
	assert.ErrorIs(t, err, shared.ErrLyricsNotFound)
}
