// Package spotify expands Spotify links into plain "Artist - Title" searches.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"songfetch/internal/interfaces"
	"songfetch/internal/shared"
)

// ErrNotAuthenticated is returned when a lookup runs before Authenticate
var ErrNotAuthenticated = errors.New("spotify client is not authenticated")

// SpotifyClient holds the spotify client and other required fields
type SpotifyClient struct {
	client *spotify.Client
	ID     string
	Secret string
	logger interfaces.LoggerService
}

// NewSpotifyClient creates a new spotify client
func NewSpotifyClient(id, secret string, logger interfaces.LoggerService) *SpotifyClient {
	return &SpotifyClient{ID: id, Secret: secret, logger: logger}
}

// Configured reports whether credentials were supplied
func (s *SpotifyClient) Configured() bool {
	return s.ID != "" && s.Secret != ""
}

// Authenticate authenticates the client with the spotify api
func (s *SpotifyClient) Authenticate() error {
	ctx := context.Background()
	config := &clientcredentials.Config{
		ClientID:     s.ID,
		ClientSecret: s.Secret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := config.Token(ctx)
	if err != nil {
		return fmt.Errorf("spotify authentication failed: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	s.client = spotify.New(httpClient)
	return nil
}

// IsSpotifyURL reports whether query is an open.spotify.com link
func IsSpotifyURL(query string) bool {
	_, _, err := parseURL(query)
	return err == nil
}

// parseURL returns the resource kind ("track", "album" or "playlist") and id.
// Locale prefixes such as /intl-de/ are ignored.
func parseURL(raw string) (string, spotify.ID, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !strings.EqualFold(u.Host, "open.spotify.com") {
		return "", "", fmt.Errorf("not a spotify link: %s", raw)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) > 0 && strings.HasPrefix(parts[0], "intl-") {
		parts = parts[1:]
	}
	if len(parts) < 2 || parts[1] == "" {
		return "", "", fmt.Errorf("invalid spotify link: %s", raw)
	}
	switch parts[0] {
	case "track", "album", "playlist":
		return parts[0], spotify.ID(parts[1]), nil
	}
	return "", "", fmt.Errorf("unsupported spotify link type %q", parts[0])
}

// Expand resolves any supported link into tracks plus a collection name
// (empty for single tracks).
func (s *SpotifyClient) Expand(link string) ([]shared.SpotifyTrack, string, error) {
	kind, _, err := parseURL(link)
	if err != nil {
		return nil, "", err
	}
	switch kind {
	case "playlist":
		return s.GetPlaylistTracks(link)
	case "album":
		return s.GetAlbumTracks(link)
	default:
		track, err := s.GetTrack(link)
		if err != nil {
			return nil, "", err
		}
		return []shared.SpotifyTrack{*track}, "", nil
	}
}

// GetPlaylistTracks gets every track of a spotify playlist, following pagination
func (s *SpotifyClient) GetPlaylistTracks(playlistURL string) ([]shared.SpotifyTrack, string, error) {
	id, err := s.idFor(playlistURL, "playlist")
	if err != nil {
		return nil, "", err
	}
	ctx := context.Background()

	s.logger.Debug("Fetching tracks from playlist: %s", id)
	playlist, err := s.client.GetPlaylist(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get playlist %s: %w", id, err)
	}
	s.logger.Info("Spotify playlist: %s", playlist.Name)

	var tracks []shared.SpotifyTrack
	page := &playlist.Tracks
	for {
		for _, item := range page.Tracks {
			tracks = append(tracks, fromFull(&item.Track))
		}
		err := s.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to page playlist %s: %w", id, err)
		}
	}
	return tracks, playlist.Name, nil
}

// GetAlbumTracks gets the tracks from a spotify album
func (s *SpotifyClient) GetAlbumTracks(albumURL string) ([]shared.SpotifyTrack, string, error) {
	id, err := s.idFor(albumURL, "album")
	if err != nil {
		return nil, "", err
	}
	ctx := context.Background()

	s.logger.Debug("Fetching tracks from album: %s", id)
	album, err := s.client.GetAlbum(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get album %s: %w", id, err)
	}
	s.logger.Info("Spotify album: %s", album.Name)

	albumArtist := firstArtist(album.Artists)
	var tracks []shared.SpotifyTrack
	page := &album.Tracks
	for {
		for _, t := range page.Tracks {
			tracks = append(tracks, shared.SpotifyTrack{
				Name:        t.Name,
				Artist:      firstArtist(t.Artists),
				AlbumName:   album.Name,
				AlbumArtist: albumArtist,
			})
		}
		err := s.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to page album %s: %w", id, err)
		}
	}
	return tracks, album.Name, nil
}

// GetTrack gets a single track from a spotify track url
func (s *SpotifyClient) GetTrack(trackURL string) (*shared.SpotifyTrack, error) {
	id, err := s.idFor(trackURL, "track")
	if err != nil {
		return nil, err
	}
	track, err := s.client.GetTrack(context.Background(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get track %s: %w", id, err)
	}
	t := fromFull(track)
	return &t, nil
}

func (s *SpotifyClient) idFor(link, want string) (spotify.ID, error) {
	if s.client == nil {
		return "", ErrNotAuthenticated
	}
	kind, id, err := parseURL(link)
	if err != nil {
		return "", err
	}
	if kind != want {
		return "", fmt.Errorf("invalid %s URL: %s", want, link)
	}
	return id, nil
}

func fromFull(t *spotify.FullTrack) shared.SpotifyTrack {
	return shared.SpotifyTrack{
		Name:        t.Name,
		Artist:      firstArtist(t.Artists),
		AlbumName:   t.Album.Name,
		AlbumArtist: firstArtist(t.Album.Artists),
	}
}

func firstArtist(artists []spotify.SimpleArtist) string {
	if len(artists) == 0 {
		return ""
	}
	return artists[0].Name
}
