// Package megalyrics reads lyrics from the Megalyrics XML service.
package megalyrics

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"songfetch/internal/api/httpclient"
	"songfetch/internal/shared"
)

type response struct {
	Lyrics []struct {
		Type string `xml:"type,attr"`
		Text string `xml:",chardata"`
	} `xml:"lyric"`
}

type Client struct {
	http    *httpclient.Client
	baseURL string
}

func New(http *httpclient.Client, baseURL string) *Client {
	return &Client{http: http, baseURL: baseURL}
}

func (c *Client) Name() string { return "Megalyrics" }

// FetchLyrics prefers an lrc typed entry and otherwise takes the first non-empty one
func (c *Client) FetchLyrics(ctx context.Context, artist, title string, _ int) (string, error) {
	params := url.Values{
		"action": {"findLyric"},
		"artist": {artist},
		"title":  {title},
	}
	body, err := c.http.Get(ctx, c.baseURL, params, nil)
	if err != nil {
		return "", fmt.Errorf("megalyrics lookup failed: %w", err)
	}

	var resp response
	if err := xml.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode megalyrics response: %w", err)
	}

	fallback := ""
	for _, l := range resp.Lyrics {
		text := strings.TrimSpace(l.Text)
		if text == "" {
			continue
		}
		if l.Type == "lrc" {
			return text, nil
		}
		if fallback == "" {
			fallback = text
		}
	}
	if fallback == "" {
		return "", shared.ErrLyricsNotFound
	}
	return fallback, nil
}
