// Package lrclib queries the LRCLIB lyrics database.
package lrclib

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"songfetch/internal/api/httpclient"
	"songfetch/internal/shared"
)

type getResponse struct {
	SyncedLyrics string `json:"syncedLyrics"`
	PlainLyrics  string `json:"plainLyrics"`
}

// Client looks up lyrics by exact artist, title and duration
type Client struct {
	http    *httpclient.Client
	baseURL string
}

func New(http *httpclient.Client, baseURL string) *Client {
	return &Client{http: http, baseURL: baseURL}
}

func (c *Client) Name() string { return "LRCLIB" }

// FetchLyrics prefers time-synced lyrics and falls back to plain text
func (c *Client) FetchLyrics(ctx context.Context, artist, title string, duration int) (string, error) {
	params := url.Values{
		"artist_name": {artist},
		"track_name":  {title},
	}
	// Without a known length the server matches on names alone
	if duration > 0 {
		params.Set("duration", strconv.Itoa(duration))
	}

	var resp getResponse
	if err := c.http.GetJSON(ctx, c.baseURL, params, nil, &resp); err != nil {
		return "", fmt.Errorf("lrclib lookup failed: %w", err)
	}
	if resp.SyncedLyrics != "" {
		return resp.SyncedLyrics, nil
	}
	if resp.PlainLyrics != "" {
		return resp.PlainLyrics, nil
	}
	return "", shared.ErrLyricsNotFound
}
