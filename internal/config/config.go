package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultTimeoutSeconds    = 10
	DefaultPacingDelayMillis = 1500
	DefaultImageSize         = 600
	DefaultImageQuality      = 80
	DefaultMaxRetries        = 3
	DefaultRegistryFile      = ".registry.json"
	DefaultLogFile           = "debug.log"
	DefaultUserAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Endpoints holds the base URL of every external provider
type Endpoints struct {
	LRCLib          string `json:"LRCLib"`
	NetEaseSearch   string `json:"NetEaseSearch"`
	NetEaseLyric    string `json:"NetEaseLyric"`
	QQSearch        string `json:"QQSearch"`
	QQLyric         string `json:"QQLyric"`
	Megalyrics      string `json:"Megalyrics"`
	Gecimi          string `json:"Gecimi"`
	LyricsOVH       string `json:"LyricsOVH"`
	ITunesSearch    string `json:"ITunesSearch"`
	MusicBrainz     string `json:"MusicBrainz"`
	CoverArtArchive string `json:"CoverArtArchive"`
}

// DefaultEndpoints returns the public endpoints of all providers
func DefaultEndpoints() Endpoints {
	return Endpoints{
		LRCLib:          "https://lrclib.net/api/get",
		NetEaseSearch:   "http://music.163.com/api/search/get/web",
		NetEaseLyric:    "http://music.163.com/api/song/lyric",
		QQSearch:        "https://c.y.qq.com/soso/fcgi-bin/client_search_cp",
		QQLyric:         "https://c.y.qq.com/lyric/fcgi-bin/fcg_query_lyric_new.fcg",
		Megalyrics:      "http://api.megalyrics.net/xmlserver.php",
		Gecimi:          "https://gecimi.com/api/lyric",
		LyricsOVH:       "https://api.lyrics.ovh/v1",
		ITunesSearch:    "https://itunes.apple.com/search",
		MusicBrainz:     "https://musicbrainz.org/ws/2/",
		CoverArtArchive: "https://coverartarchive.org",
	}
}

// Configuration structure
type Config struct {
	DownloadLocation    string    `json:"DownloadLocation"`
	SongList            string    `json:"SongList"`
	Mode                string    `json:"Mode"`         // "audio", "video" or "both"
	AudioFormat         string    `json:"AudioFormat"`  // "mp3", "m4a" or "flac"
	AudioQuality        string    `json:"AudioQuality"` // passed to the transcoder, e.g. "192"
	VideoFormat         string    `json:"VideoFormat"`
	UserAgent           string    `json:"UserAgent"`
	TimeoutSeconds      int       `json:"TimeoutSeconds"`
	PacingDelayMillis   int       `json:"PacingDelayMillis"`
	ImageSize           int       `json:"ImageSize"`
	ImageQuality        int       `json:"ImageQuality"`
	LogLevel            string    `json:"LogLevel"`
	LogFile             string    `json:"LogFile"` // relative to DownloadLocation, empty disables the file log
	RegistryFile        string    `json:"RegistryFile"`
	SkipLibraryScan     bool      `json:"SkipLibraryScan"`
	RepairLyrics        bool      `json:"RepairLyrics"`
	RepairCovers        bool      `json:"RepairCovers"`
	CoverArtArchive     bool      `json:"CoverArtArchive"`
	ProgressBars        bool      `json:"ProgressBars"`
	AutoInstallYtDlp    bool      `json:"AutoInstallYtDlp"`
	MaxRetryAttempts    int       `json:"MaxRetryAttempts"`
	WarningBehavior     string    `json:"WarningBehavior"` // "immediate", "summary", or "silent"
	SpotifyClientID     string    `json:"SpotifyClientID"`
	SpotifyClientSecret string    `json:"SpotifyClientSecret"`
	NavidromeURL        string    `json:"NavidromeURL"`
	NavidromeUsername   string    `json:"NavidromeUsername"`
	NavidromePassword   string    `json:"NavidromePassword"`
	Endpoints           Endpoints `json:"Endpoints"`
}

// GetDefaultConfig returns a configuration with every field set
func GetDefaultConfig() *Config {
	cfg := &Config{
		DownloadLocation:  "./downloads",
		SongList:          "songs.txt",
		Mode:              "audio",
		AudioFormat:       "mp3",
		AudioQuality:      "192",
		VideoFormat:       "mp4",
		PacingDelayMillis: DefaultPacingDelayMillis,
		LogLevel:          "info",
		LogFile:           DefaultLogFile,
		RepairCovers:      true,
		ProgressBars:      true,
		WarningBehavior:   "summary",
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields
func (cfg *Config) ApplyDefaults() {
	if cfg.Mode == "" {
		cfg.Mode = "audio"
	}
	if cfg.AudioFormat == "" {
		cfg.AudioFormat = "mp3"
	}
	if cfg.AudioQuality == "" {
		cfg.AudioQuality = "192"
	}
	if cfg.VideoFormat == "" {
		cfg.VideoFormat = "mp4"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.PacingDelayMillis < 0 {
		cfg.PacingDelayMillis = 0
	}
	if cfg.ImageSize <= 0 {
		cfg.ImageSize = DefaultImageSize
	}
	if cfg.ImageQuality <= 0 || cfg.ImageQuality > 100 {
		cfg.ImageQuality = DefaultImageQuality
	}
	if cfg.RegistryFile == "" {
		cfg.RegistryFile = DefaultRegistryFile
	}
	if cfg.MaxRetryAttempts <= 0 {
		cfg.MaxRetryAttempts = DefaultMaxRetries
	}
	if cfg.WarningBehavior == "" {
		cfg.WarningBehavior = "summary"
	}

	defaults := DefaultEndpoints()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&cfg.Endpoints.LRCLib, defaults.LRCLib)
	fill(&cfg.Endpoints.NetEaseSearch, defaults.NetEaseSearch)
	fill(&cfg.Endpoints.NetEaseLyric, defaults.NetEaseLyric)
	fill(&cfg.Endpoints.QQSearch, defaults.QQSearch)
	fill(&cfg.Endpoints.QQLyric, defaults.QQLyric)
	fill(&cfg.Endpoints.Megalyrics, defaults.Megalyrics)
	fill(&cfg.Endpoints.Gecimi, defaults.Gecimi)
	fill(&cfg.Endpoints.LyricsOVH, defaults.LyricsOVH)
	fill(&cfg.Endpoints.ITunesSearch, defaults.ITunesSearch)
	fill(&cfg.Endpoints.MusicBrainz, defaults.MusicBrainz)
	fill(&cfg.Endpoints.CoverArtArchive, defaults.CoverArtArchive)
}

// ValidateConfig checks settings that cannot be defaulted
func ValidateConfig(cfg *Config) error {
	if cfg.DownloadLocation == "" {
		return fmt.Errorf("download location is required")
	}
	switch strings.ToLower(cfg.Mode) {
	case "audio", "video", "both":
	default:
		return fmt.Errorf("invalid mode %q", cfg.Mode)
	}
	switch strings.ToLower(cfg.AudioFormat) {
	case "mp3", "m4a", "flac":
	default:
		return fmt.Errorf("unsupported audio format %q", cfg.AudioFormat)
	}
	switch strings.ToLower(cfg.VideoFormat) {
	case "mp4", "mkv", "webm":
	default:
		return fmt.Errorf("unsupported video format %q", cfg.VideoFormat)
	}
	switch strings.ToLower(cfg.WarningBehavior) {
	case "summary", "immediate", "silent":
	default:
		return fmt.Errorf("invalid warning behavior %q", cfg.WarningBehavior)
	}
	return nil
}

// Timeout is the per-call network timeout
func (cfg *Config) Timeout() time.Duration {
	return time.Duration(cfg.TimeoutSeconds) * time.Second
}

// PacingDelay is the pause after each candidate that produced output
func (cfg *Config) PacingDelay() time.Duration {
	return time.Duration(cfg.PacingDelayMillis) * time.Millisecond
}

// RegistryPath is where the dedup registry lives
func (cfg *Config) RegistryPath() string {
	if filepath.IsAbs(cfg.RegistryFile) {
		return cfg.RegistryFile
	}
	return filepath.Join(cfg.DownloadLocation, cfg.RegistryFile)
}

// LogFilePath returns "" when file logging is disabled
func (cfg *Config) LogFilePath() string {
	if cfg.LogFile == "" {
		return ""
	}
	if filepath.IsAbs(cfg.LogFile) {
		return cfg.LogFile
	}
	return filepath.Join(cfg.DownloadLocation, cfg.LogFile)
}

// CreateDirIfNotExists creates a directory if it does not exist
func CreateDirIfNotExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// LoadConfig loads configuration from a JSON file. Keys missing from the
// file keep whatever value config already holds.
func LoadConfig(filePath string, config *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.ApplyDefaults()
	return nil
}

// SaveConfig saves configuration to a JSON file
func SaveConfig(filePath string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	dir := filepath.Dir(filePath)
	if err := CreateDirIfNotExists(dir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
