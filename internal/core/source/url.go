// Package source recognizes request strings without touching the network.
package source

import (
	"net/url"
	"regexp"
	"strings"
)

var playlistMarker = regexp.MustCompile(`(?i)[?&]list=|/playlist`)

// IsURL reports whether query looks like a link rather than a search phrase
func IsURL(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	return strings.HasPrefix(q, "http://") || strings.HasPrefix(q, "https://")
}

// IsPlaylist reports whether query references a playlist
func IsPlaylist(query string) bool {
	return playlistMarker.MatchString(query)
}

// ExtractID returns the video id embedded in a YouTube link, or "" if there is none.
func ExtractID(query string) string {
	if !IsURL(query) {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(query))
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Host)

	if strings.Contains(host, "youtu.be") {
		return strings.Trim(u.Path, "/")
	}

	if strings.Contains(host, "youtube.com") {
		switch {
		case strings.HasPrefix(u.Path, "/watch"):
			return u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			return strings.Trim(strings.TrimPrefix(u.Path, "/embed/"), "/")
		case strings.HasPrefix(u.Path, "/shorts/"):
			return strings.Trim(strings.TrimPrefix(u.Path, "/shorts/"), "/")
		case strings.HasPrefix(u.Path, "/v/"):
			return strings.Trim(strings.TrimPrefix(u.Path, "/v/"), "/")
		}
	}
	return ""
}

// WatchURL builds a canonical link for a bare id
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
}
