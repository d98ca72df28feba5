// Package gecimi looks up LRC files on gecimi.com.
package gecimi

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"songfetch/internal/api/httpclient"
	"songfetch/internal/shared"
)

type response struct {
	Count  int `json:"count"`
	Result []struct {
		LRC string `json:"lrc"`
	} `json:"result"`
}

type Client struct {
	http    *httpclient.Client
	baseURL string
}

func New(http *httpclient.Client, baseURL string) *Client {
	return &Client{http: http, baseURL: strings.TrimRight(baseURL, "/")}
}

func (c *Client) Name() string { return "Gecimi" }

// FetchLyrics resolves title/artist to a list of LRC links and downloads the first one
func (c *Client) FetchLyrics(ctx context.Context, artist, title string, _ int) (string, error) {
	lookup := fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(title), url.PathEscape(artist))

	var resp response
	if err := c.http.GetJSON(ctx, lookup, nil, nil, &resp); err != nil {
		return "", fmt.Errorf("gecimi lookup failed: %w", err)
	}
	if len(resp.Result) == 0 || resp.Result[0].LRC == "" {
		return "", shared.ErrLyricsNotFound
	}

	body, err := c.http.Get(ctx, resp.Result[0].LRC, nil, nil)
	if err != nil {
		return "", fmt.Errorf("gecimi lrc download failed: %w", err)
	}
	if strings.TrimSpace(string(body)) == "" {
		return "", shared.ErrLyricsNotFound
	}
	return string(body), nil
}
