// Package navidrome tells a Subsonic compatible server to pick up new files.
package navidrome

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	subsonic "github.com/delucks/go-subsonic"

	"songfetch/internal/interfaces"
)

const clientName = "songfetch"

// ErrNotConfigured is returned when no server URL was given
var ErrNotConfigured = errors.New("navidrome is not configured")

// NavidromeClient holds the navidrome client and other required fields
type NavidromeClient struct {
	URL      string
	Username string
	Password string
	Client   subsonic.Client

	logger        interfaces.LoggerService
	authenticated bool
}

// NewNavidromeClient creates a new navidrome client
func NewNavidromeClient(url, username, password string, timeout time.Duration, logger interfaces.LoggerService) *NavidromeClient {
	return &NavidromeClient{
		URL:      strings.TrimRight(url, "/"),
		Username: username,
		Password: password,
		Client: subsonic.Client{
			Client:     &http.Client{Timeout: timeout},
			BaseUrl:    strings.TrimRight(url, "/"),
			User:       username,
			ClientName: clientName,
		},
		logger: logger,
	}
}

// Configured reports whether a server URL and user were supplied
func (n *NavidromeClient) Configured() bool {
	return n.URL != "" && n.Username != ""
}

// Authenticate authenticates the client with the navidrome api using
// salted token auth
func (n *NavidromeClient) Authenticate() error {
	if !n.Configured() {
		return ErrNotConfigured
	}
	if err := n.Client.Authenticate(n.Password); err != nil {
		return fmt.Errorf("navidrome authentication failed: %w", err)
	}
	n.authenticated = true
	return nil
}

// StartScan asks the server to rescan its library
func (n *NavidromeClient) StartScan() error {
	if !n.authenticated {
		if err := n.Authenticate(); err != nil {
			return err
		}
	}
	status, err := n.Client.StartScan()
	if err != nil {
		return fmt.Errorf("failed to start library scan: %w", err)
	}
	if status != nil {
		n.logger.Info("📚 Navidrome scan started (scanning: %t, %d items known)", status.Scanning, status.Count)
	}
	return nil
}
