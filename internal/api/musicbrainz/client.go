package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"songfetch/internal/shared"
)

const (
	defaultBaseURL      = "https://musicbrainz.org/ws/2/"
	defaultCoverArtURL  = "https://coverartarchive.org"
	defaultUserAgent    = "songfetch/1.0 ( https://github.com/songfetch/songfetch )"
	defaultTimeout      = 15 * time.Second
	defaultRateLimit    = time.Second // MusicBrainz asks for at most one request per second
	defaultBurstLimit   = 1
	defaultMaxRetries   = 3
	defaultInitialDelay = 2 * time.Second
	defaultMaxDelay     = 30 * time.Second
)

// ErrNoRelease is returned when a release search has no hits
var ErrNoRelease = errors.New("no matching release")

// Config holds configuration for the MusicBrainz and Cover Art Archive client
type Config struct {
	BaseURL      string        `json:"base_url"`
	CoverArtURL  string        `json:"cover_art_url"`
	UserAgent    string        `json:"user_agent"`
	Timeout      time.Duration `json:"timeout"`
	MaxRetries   int           `json:"max_retries"`
	InitialDelay time.Duration `json:"initial_delay"`
	MaxDelay     time.Duration `json:"max_delay"`
	RateLimit    time.Duration `json:"rate_limit"`
	BurstLimit   int           `json:"burst_limit"`
	Debug        bool          `json:"debug"`
}

// Client looks up releases on MusicBrainz and their front covers on the Cover Art Archive
type Client struct {
	httpClient  *http.Client
	config      Config
	rateLimiter *rate.Limiter
}

// DefaultConfig returns sensible defaults for the MusicBrainz client
func DefaultConfig() Config {
	return Config{
		BaseURL:      defaultBaseURL,
		CoverArtURL:  defaultCoverArtURL,
		UserAgent:    defaultUserAgent,
		Timeout:      defaultTimeout,
		MaxRetries:   defaultMaxRetries,
		InitialDelay: defaultInitialDelay,
		MaxDelay:     defaultMaxDelay,
		RateLimit:    defaultRateLimit,
		BurstLimit:   defaultBurstLimit,
	}
}

// NewClient creates a client with default configuration
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client with custom configuration
func NewClientWithConfig(config Config) *Client {
	if !strings.HasSuffix(config.BaseURL, "/") {
		config.BaseURL += "/"
	}
	config.CoverArtURL = strings.TrimRight(config.CoverArtURL, "/")
	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config:      config,
		rateLimiter: rate.NewLimiter(rate.Every(config.RateLimit), config.BurstLimit),
	}
}

// GetConfig returns the current client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// get makes a single rate limited GET
func (c *Client) get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("%w: %v", shared.ErrTimeout, err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &shared.HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    shared.TruncateString(string(body), 200),
		}
	}
	return body, nil
}

func (c *Client) getWithRetry(ctx context.Context, rawURL, accept string) ([]byte, error) {
	var result []byte
	retryErr := shared.RetryWithBackoffForHTTPWithDebug(
		c.config.MaxRetries,
		c.config.InitialDelay,
		c.config.MaxDelay,
		func() error {
			var err error
			result, err = c.get(ctx, rawURL, accept)
			return err
		},
		c.config.Debug,
	)
	if retryErr != nil {
		return nil, retryErr
	}
	return result, nil
}

// SearchRelease returns the best scoring release for artist and album
func (c *Client) SearchRelease(ctx context.Context, artist, album string) (*Release, error) {
	if artist == "" || album == "" {
		return nil, fmt.Errorf("artist and album cannot be empty")
	}

	query := fmt.Sprintf("artist:\"%s\" AND release:\"%s\"", artist, album)
	endpoint := fmt.Sprintf("%srelease?query=%s&limit=1&fmt=json", c.config.BaseURL, url.QueryEscape(query))

	body, err := c.getWithRetry(ctx, endpoint, "application/json")
	if err != nil {
		return nil, fmt.Errorf("failed to search release: %w", err)
	}

	var searchResult struct {
		Releases []Release `json:"releases"`
	}
	if err := json.Unmarshal(body, &searchResult); err != nil {
		return nil, fmt.Errorf("failed to unmarshal release search result: %w", err)
	}
	if len(searchResult.Releases) == 0 {
		return nil, fmt.Errorf("%w: %s - %s", ErrNoRelease, artist, album)
	}
	return &searchResult.Releases[0], nil
}

// FrontCover downloads the front cover of a release by MBID
func (c *Client) FrontCover(ctx context.Context, artist, album string) ([]byte, error) {
	release, err := c.SearchRelease(ctx, artist, album)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/release/%s/front", c.config.CoverArtURL, url.PathEscape(release.ID))
	data, err := c.getWithRetry(ctx, endpoint, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch front cover for release %s: %w", release.ID, err)
	}
	return data, nil
}

// Artist represents a MusicBrainz artist
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ArtistCredit represents artist credit information
type ArtistCredit struct {
	Name   string `json:"name"`
	Artist Artist `json:"artist"`
}

// Release represents a MusicBrainz release (album)
type Release struct {
	ID           string         `json:"id"`
	Score        int            `json:"score"`
	Title        string         `json:"title"`
	Status       string         `json:"status"`
	Date         string         `json:"date"`
	ArtistCredit []ArtistCredit `json:"artist-credit"`
}
