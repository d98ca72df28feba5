// Package netease searches NetEase Cloud Music for LRC lyrics.
package netease

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"songfetch/internal/api/httpclient"
	"songfetch/internal/shared"
)

type searchResponse struct {
	Result struct {
		Songs []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"songs"`
	} `json:"result"`
}

type lyricResponse struct {
	Lrc struct {
		Lyric string `json:"lyric"`
	} `json:"lrc"`
}

type Client struct {
	http      *httpclient.Client
	searchURL string
	lyricURL  string
}

func New(http *httpclient.Client, searchURL, lyricURL string) *Client {
	return &Client{http: http, searchURL: searchURL, lyricURL: lyricURL}
}

func (c *Client) Name() string { return "NetEase" }

// FetchLyrics takes the top search hit and returns its LRC text
func (c *Client) FetchLyrics(ctx context.Context, artist, title string, _ int) (string, error) {
	form := url.Values{
		"s":     {artist + " " + title},
		"type":  {"1"},
		"limit": {"1"},
	}
	body, err := c.http.PostForm(ctx, c.searchURL, form, nil)
	if err != nil {
		return "", fmt.Errorf("netease search failed: %w", err)
	}

	var search searchResponse
	if err := json.Unmarshal(body, &search); err != nil {
		return "", fmt.Errorf("failed to decode netease search: %w", err)
	}
	if len(search.Result.Songs) == 0 {
		return "", shared.ErrLyricsNotFound
	}

	params := url.Values{
		"os": {"pc"},
		"id": {strconv.FormatInt(search.Result.Songs[0].ID, 10)},
		"lv": {"-1"},
		"kv": {"-1"},
		"tv": {"-1"},
	}
	var lyric lyricResponse
	if err := c.http.GetJSON(ctx, c.lyricURL, params, nil, &lyric); err != nil {
		return "", fmt.Errorf("netease lyric fetch failed: %w", err)
	}
	if lyric.Lrc.Lyric == "" {
		return "", shared.ErrLyricsNotFound
	}
	return lyric.Lrc.Lyric, nil
}
