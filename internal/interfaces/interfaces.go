package interfaces

import (
	"context"

	"songfetch/internal/config"
	"songfetch/internal/shared"
)

// MediaFetcher resolves requests into source items and downloads them
type MediaFetcher interface {
	// Expand turns a URL or free-text search into candidates without downloading anything
	Expand(ctx context.Context, query string) ([]shared.Candidate, error)

	// FetchInfo returns full metadata for a single item
	FetchInfo(ctx context.Context, url string) (*shared.TrackInfo, error)

	// Download writes the item in the given format and returns the produced path
	Download(ctx context.Context, info *shared.TrackInfo, spec shared.FormatSpec) (string, error)

	// PredictFilename returns the path Download would produce
	PredictFilename(info *shared.TrackInfo, spec shared.FormatSpec) string
}

// TagEmbedder writes and reads metadata inside finished media files
type TagEmbedder interface {
	// Embed writes lyrics, the hidden source id and cover art. Empty fields are left alone.
	Embed(path string, data shared.EmbedData) error

	// ReadID returns the hidden source id, or "" when none is present
	ReadID(path string) (string, error)

	// HasCover reports whether the file carries embedded artwork
	HasCover(path string) bool

	// ReadTags returns artist, title, album, lyrics and cover presence
	ReadTags(path string) (*shared.FileTags, error)

	// Supports reports whether files with this extension can be tagged
	Supports(ext string) bool
}

// ImageCodec normalizes raw image bytes into a square JPEG
type ImageCodec interface {
	SquareJPEG(data []byte) ([]byte, error)
}

// LyricsProvider is a single lyrics source
type LyricsProvider interface {
	Name() string
	FetchLyrics(ctx context.Context, artist, title string, duration int) (string, error)
}

// LyricsSearcher runs the provider chain. Absence is reported by ok == false, never by error.
type LyricsSearcher interface {
	Search(ctx context.Context, artist, title string, duration int) (lyrics string, ok bool)
}

// CoverFinder resolves cover art for a track. A nil result means nothing was found.
type CoverFinder interface {
	GetCover(ctx context.Context, query shared.CoverQuery) *shared.CoverResult
}

// ImageSearcher is an artwork search backend
type ImageSearcher interface {
	SearchArtwork(ctx context.Context, term string) ([]shared.ArtworkHit, error)
}

// ImageFetcher downloads raw image bytes
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// ArtworkArchive looks up front covers by release
type ArtworkArchive interface {
	FrontCover(ctx context.Context, artist, album string) ([]byte, error)
}

// ConfigService defines the interface for configuration management
type ConfigService interface {
	// LoadConfig loads configuration from file
	LoadConfig(configFile string) (*config.Config, error)

	// SaveConfig saves configuration to file
	SaveConfig(configFile string, config *config.Config) error

	// ValidateConfig validates configuration settings
	ValidateConfig(config *config.Config) error

	// GetDefaultConfig returns a default configuration
	GetDefaultConfig() *config.Config

	// EnsureConfigExists creates a default config file if it doesn't exist
	EnsureConfigExists(configFile string) error
}

// SpotifyService expands Spotify links into searchable tracks
type SpotifyService interface {
	// Authenticate authenticates with Spotify API
	Authenticate() error

	// GetPlaylistTracks retrieves tracks from a Spotify playlist
	GetPlaylistTracks(playlistURL string) ([]shared.SpotifyTrack, string, error)

	// GetAlbumTracks retrieves tracks from a Spotify album
	GetAlbumTracks(albumURL string) ([]shared.SpotifyTrack, string, error)

	// GetTrack retrieves a single Spotify track
	GetTrack(trackURL string) (*shared.SpotifyTrack, error)
}

// NavidromeService notifies a Subsonic compatible server about new files
type NavidromeService interface {
	// Authenticate authenticates with Navidrome server
	Authenticate() error

	// StartScan asks the server to rescan its library
	StartScan() error
}

// LoggerService defines the interface for logging operations
type LoggerService interface {
	// Critical logs a message that is always shown unless logging is off
	Critical(message string, args ...interface{})

	// Error logs an error message
	Error(message string, args ...interface{})

	// Warning logs a warning message
	Warning(message string, args ...interface{})

	// Info logs an informational message
	Info(message string, args ...interface{})

	// Success logs a success message
	Success(message string, args ...interface{})

	// Debug logs a debug message
	Debug(message string, args ...interface{})

	// SetDebugMode enables or disables debug logging
	SetDebugMode(enabled bool)

	// SetLevel sets the verbosity threshold
	SetLevel(level shared.LogLevel)

	// Level returns the current threshold
	Level() shared.LogLevel
}

// WarningCollectorService defines the interface for warning collection
type WarningCollectorService interface {
	AddWarning(warningType shared.WarningType, context, message, details string)
	AddLyricsNotFoundWarning(artist, title string)
	AddCoverNotFoundWarning(artist, title string)
	AddEmbedFailedWarning(path, details string)
	AddCandidateFailedWarning(title, details string)
	AddRequestFailedWarning(query, details string)
	AddRegistryWarning(path, details string)
	AddUnavailableWarning(title string)

	// HasWarnings returns true if there are any warnings
	HasWarnings() bool

	// GetWarningCount returns the total number of warnings
	GetWarningCount() int

	// PrintSummary prints a formatted summary of all warnings
	PrintSummary()
}
