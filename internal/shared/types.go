package shared

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects which output formats a request produces
type Mode string

const (
	ModeAudio Mode = "audio"
	ModeVideo Mode = "video"
	ModeBoth  Mode = "both"
)

// ParseMode converts a user supplied mode string into a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeAudio, "":
		return ModeAudio, nil
	case ModeVideo:
		return ModeVideo, nil
	case ModeBoth:
		return ModeBoth, nil
	}
	return "", fmt.Errorf("unknown mode %q (expected audio, video or both)", s)
}

// Request is one line of work: a URL or free-text search and where its output goes.
type Request struct {
	Query        string
	TargetFolder string
	Mode         Mode
}

// Candidate is one item produced by expanding a request in flat mode
type Candidate struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// TrackInfo holds the full metadata of a single source item.
// Field names follow the yt-dlp info JSON.
type TrackInfo struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	Track      string  `json:"track"`
	AltTitle   string  `json:"alt_title"`
	Uploader   string  `json:"uploader"`
	Album      string  `json:"album"`
	Duration   float64 `json:"duration"`
	Thumbnail  string  `json:"thumbnail"`
	WebpageURL string  `json:"webpage_url"`
	Ext        string  `json:"ext"`
}

// UnknownArtist is only ever rendered for display and tag output
const UnknownArtist = "Unknown"

// Metadata is a normalized artist/title pair. An empty Artist means the artist is absent.
type Metadata struct {
	Artist string
	Title  string
}

// HasArtist reports whether an artist was recovered
func (m Metadata) HasArtist() bool {
	return m.Artist != ""
}

// DisplayArtist returns the artist, or UnknownArtist when absent
func (m Metadata) DisplayArtist() string {
	if m.HasArtist() {
		return m.Artist
	}
	return UnknownArtist
}

func (m Metadata) String() string {
	return fmt.Sprintf("%s - %s", m.DisplayArtist(), m.Title)
}

// CoverResult carries resolved cover art bytes
type CoverResult struct {
	Data    []byte
	Generic bool
}

// FormatSpec describes one output format pass. Built once per pass and never mutated.
type FormatSpec struct {
	Ext          string
	Folder       string
	Video        bool
	AudioQuality string
}

// EmbedData is what gets written into a finished media file
type EmbedData struct {
	Lyrics   string
	SourceID string
	Cover    []byte
}

// FileTags is the subset of tags read back from a media file
type FileTags struct {
	Artist   string
	Title    string
	Album    string
	Lyrics   string
	SourceID string
	HasCover bool
}

// Outcome is the terminal state of one request
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Download statistics
type DownloadStats struct {
	SuccessCount int
	SkippedCount int
	FailedCount  int
	FailedItems  []string
	BytesWritten int64
}

// Add folds other into s
func (s *DownloadStats) Add(other *DownloadStats) {
	if other == nil {
		return
	}
	s.SuccessCount += other.SuccessCount
	s.SkippedCount += other.SkippedCount
	s.FailedCount += other.FailedCount
	s.FailedItems = append(s.FailedItems, other.FailedItems...)
	s.BytesWritten += other.BytesWritten
}

// ErrNoItemsSelected is returned when no items are selected for download.
var ErrNoItemsSelected = errors.New("no items selected for download")

// ErrLyricsNotFound is returned by a lyrics provider that has nothing for a track.
var ErrLyricsNotFound = errors.New("lyrics not found")

// CoverQuery is the input of a cover art lookup
type CoverQuery struct {
	Artist       string
	Title        string
	Album        string
	Folder       string
	ThumbnailURL string
}

// ArtworkHit is one result of an image search
type ArtworkHit struct {
	ArtistName string
	TrackName  string
	AlbumName  string
	ArtworkURL string
}

// Spotify types
type SpotifyTrack struct {
	Name        string
	Artist      string
	AlbumName   string
	AlbumArtist string
}

// SearchQuery renders the track as a free-text search
func (t SpotifyTrack) SearchQuery() string {
	if t.Artist == "" {
		return t.Name
	}
	return t.Artist + " - " + t.Name
}
