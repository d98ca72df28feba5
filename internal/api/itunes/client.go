// Package itunes searches the iTunes catalog for album artwork.
package itunes

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"songfetch/internal/api/httpclient"
	"songfetch/internal/shared"
)

const (
	thumbSize = "100x100bb"
	fullSize  = "1000x1000bb"
)

type searchResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		ArtistName     string `json:"artistName"`
		TrackName      string `json:"trackName"`
		CollectionName string `json:"collectionName"`
		ArtworkURL100  string `json:"artworkUrl100"`
	} `json:"results"`
}

// Client runs music searches against the iTunes Search API
type Client struct {
	http    *httpclient.Client
	baseURL string
	limit   int
}

func New(http *httpclient.Client, baseURL string) *Client {
	return &Client{http: http, baseURL: baseURL, limit: 1}
}

// SearchArtwork returns matching tracks with their artwork URL upgraded to 1000x1000
func (c *Client) SearchArtwork(ctx context.Context, term string) ([]shared.ArtworkHit, error) {
	params := url.Values{
		"term":  {term},
		"media": {"music"},
		"limit": {strconv.Itoa(c.limit)},
	}

	var resp searchResponse
	if err := c.http.GetJSON(ctx, c.baseURL, params, nil, &resp); err != nil {
		return nil, fmt.Errorf("itunes search failed: %w", err)
	}

	hits := make([]shared.ArtworkHit, 0, len(resp.Results))
	for _, r := range resp.Results {
		hits = append(hits, shared.ArtworkHit{
			ArtistName: r.ArtistName,
			TrackName:  r.TrackName,
			AlbumName:  r.CollectionName,
			ArtworkURL: HighResArtwork(r.ArtworkURL100),
		})
	}
	return hits, nil
}

// FetchImage downloads artwork bytes
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	return c.http.FetchImage(ctx, imageURL)
}

// HighResArtwork rewrites a 100px artwork URL to the 1000px variant
func HighResArtwork(artworkURL string) string {
	return strings.Replace(artworkURL, thumbSize, fullSize, 1)
}
