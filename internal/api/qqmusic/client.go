// Package qqmusic fetches lyrics from QQ Music's public endpoints.
package qqmusic

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"

	"songfetch/internal/api/httpclient"
	"songfetch/internal/shared"
)

// QQ rejects requests without a y.qq.com referer
var headers = map[string]string{"Referer": "https://y.qq.com/"}

type searchResponse struct {
	Data struct {
		Song struct {
			List []struct {
				SongMID  string `json:"songmid"`
				SongName string `json:"songname"`
			} `json:"list"`
		} `json:"song"`
	} `json:"data"`
}

type lyricResponse struct {
	Lyric string `json:"lyric"`
}

type Client struct {
	http      *httpclient.Client
	searchURL string
	lyricURL  string
}

func New(http *httpclient.Client, searchURL, lyricURL string) *Client {
	return &Client{http: http, searchURL: searchURL, lyricURL: lyricURL}
}

func (c *Client) Name() string { return "QQ Music" }

func (c *Client) FetchLyrics(ctx context.Context, artist, title string, _ int) (string, error) {
	params := url.Values{
		"w":      {artist + " " + title},
		"format": {"json"},
		"n":      {"1"},
	}
	var search searchResponse
	if err := c.http.GetJSON(ctx, c.searchURL, params, headers, &search); err != nil {
		return "", fmt.Errorf("qq search failed: %w", err)
	}
	if len(search.Data.Song.List) == 0 {
		return "", shared.ErrLyricsNotFound
	}

	params = url.Values{
		"songmid":  {search.Data.Song.List[0].SongMID},
		"format":   {"json"},
		"nobase64": {"0"},
	}
	var lyric lyricResponse
	if err := c.http.GetJSON(ctx, c.lyricURL, params, headers, &lyric); err != nil {
		return "", fmt.Errorf("qq lyric fetch failed: %w", err)
	}
	if lyric.Lyric == "" {
		return "", shared.ErrLyricsNotFound
	}

	decoded, err := base64.StdEncoding.DecodeString(lyric.Lyric)
	if err != nil {
		return "", fmt.Errorf("failed to decode qq lyric: %w", err)
	}
	return string(decoded), nil
}
