// Package lyricsovh queries the lyrics.ovh API.
package lyricsovh

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"songfetch/internal/api/httpclient"
	"songfetch/internal/shared"
)

type Client struct {
	http    *httpclient.Client
	baseURL string
}

func New(http *httpclient.Client, baseURL string) *Client {
	return &Client{http: http, baseURL: strings.TrimRight(baseURL, "/")}
}

func (c *Client) Name() string { return "Lyrics.ovh" }

func (c *Client) FetchLyrics(ctx context.Context, artist, title string, _ int) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(artist), url.PathEscape(title))

	var resp struct {
		Lyrics string `json:"lyrics"`
	}
	if err := c.http.GetJSON(ctx, endpoint, nil, nil, &resp); err != nil {
		return "", fmt.Errorf("lyrics.ovh lookup failed: %w", err)
	}
	if strings.TrimSpace(resp.Lyrics) == "" {
		return "", shared.ErrLyricsNotFound
	}
	return resp.Lyrics, nil
}
