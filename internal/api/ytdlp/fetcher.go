// Package ytdlp implements media retrieval on top of the yt-dlp binary.
package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/lrstanley/go-ytdlp"

	"songfetch/internal/core/source"
	"songfetch/internal/interfaces"
	"songfetch/internal/shared"
)

const (
	searchPrefix   = "ytsearch1:"
	audioFormat    = "bestaudio/best"
	videoFormat    = "bestvideo+bestaudio/best"
	progressPeriod = 250 * time.Millisecond
	barTemplate    = `{{ string . "prefix" }} {{ bar . }} {{ percent . }} | {{ speed . "%s/s" }} | ETA {{ rtime . "%s" }}`
)

// ErrEmptyResult is returned when yt-dlp produced no usable JSON
var ErrEmptyResult = errors.New("yt-dlp returned no data")

// flatEntry is one item of a flat playlist or search result
type flatEntry struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	WebpageURL string `json:"webpage_url"`
}

type flatResult struct {
	flatEntry
	Type    string       `json:"_type"`
	Entries []*flatEntry `json:"entries"`
}

// Fetcher runs yt-dlp for expansion, metadata and downloads
type Fetcher struct {
	logger       interfaces.LoggerService
	progressBars bool
}

func New(logger interfaces.LoggerService, progressBars bool) *Fetcher {
	return &Fetcher{logger: logger, progressBars: progressBars && shared.IsTTY()}
}

// Install makes sure a yt-dlp binary is available, downloading one if needed
func Install(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	return nil
}

// SearchTarget turns free text into a single-result search; URLs pass through
func SearchTarget(query string) string {
	if source.IsURL(query) {
		return strings.TrimSpace(query)
	}
	return searchPrefix + strings.TrimSpace(query)
}

// Expand lists the items behind query without downloading them
func (f *Fetcher) Expand(ctx context.Context, query string) ([]shared.Candidate, error) {
	return f.expand(ctx, SearchTarget(query))
}

// SearchN lists the top n search results for text
func (f *Fetcher) SearchN(ctx context.Context, text string, n int) ([]shared.Candidate, error) {
	return f.expand(ctx, fmt.Sprintf("ytsearch%d:%s", n, strings.TrimSpace(text)))
}

func (f *Fetcher) expand(ctx context.Context, target string) ([]shared.Candidate, error) {
	f.logger.Debug("Expanding %s", target)
	res, err := ytdlp.New().
		FlatPlaylist().
		DumpSingleJSON().
		SkipDownload().
		IgnoreErrors().
		NoWarnings().
		Run(ctx, target)
	if err != nil && (res == nil || res.Stdout == "") {
		return nil, fmt.Errorf("failed to expand %s: %w", target, err)
	}
	return ParseFlat([]byte(res.Stdout))
}

// FetchInfo returns the full metadata of a single item
func (f *Fetcher) FetchInfo(ctx context.Context, url string) (*shared.TrackInfo, error) {
	res, err := ytdlp.New().
		NoPlaylist().
		DumpSingleJSON().
		SkipDownload().
		NoWarnings().
		Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch info for %s: %w", url, err)
	}
	return ParseInfo([]byte(res.Stdout))
}

// baseName is the file name, without extension, used for every format of info
func baseName(info *shared.TrackInfo) string {
	return shared.SanitizeFileName(info.Title)
}

// PredictFilename returns where Download will write info in spec's format
func (f *Fetcher) PredictFilename(info *shared.TrackInfo, spec shared.FormatSpec) string {
	return filepath.Join(spec.Folder, baseName(info)+"."+spec.Ext)
}

// Download fetches info in spec's format and returns the produced path
func (f *Fetcher) Download(ctx context.Context, info *shared.TrackInfo, spec shared.FormatSpec) (string, error) {
	if err := shared.CreateDirIfNotExists(spec.Folder); err != nil {
		return "", err
	}

	// yt-dlp expands % sequences in the template, so literal ones are doubled
	template := filepath.Join(spec.Folder, strings.ReplaceAll(baseName(info), "%", "%%")) + ".%(ext)s"

	cmd := ytdlp.New().
		NoPlaylist().
		NoWarnings().
		Output(template)
	if spec.Video {
		cmd = cmd.Format(videoFormat).MergeOutputFormat(spec.Ext)
	} else {
		cmd = cmd.Format(audioFormat).ExtractAudio().AudioFormat(spec.Ext)
		if spec.AudioQuality != "" {
			cmd = cmd.AudioQuality(spec.AudioQuality)
		}
	}

	var bar *pb.ProgressBar
	if f.progressBars {
		bar = pb.New(0)
		bar.SetWriter(os.Stdout)
		bar.SetTemplateString(barTemplate)
		bar.Set(pb.Bytes, true)
		bar.Set("prefix", fmt.Sprintf("Downloading %-40s: ", shared.TruncateString(info.Title, 40)))
		bar.Start()
		cmd = cmd.ProgressFunc(progressPeriod, func(update ytdlp.ProgressUpdate) {
			if update.TotalBytes > 0 {
				bar.SetTotal(int64(update.TotalBytes))
			}
			bar.SetCurrent(int64(update.DownloadedBytes))
		})
	}

	target := info.WebpageURL
	if target == "" {
		target = source.WatchURL(info.ID)
	}
	_, err := cmd.Run(ctx, target)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return "", fmt.Errorf("download failed for %s: %w", info.Title, err)
	}

	path := f.PredictFilename(info, spec)
	if !shared.FileExists(path) {
		return "", fmt.Errorf("download completed but file not found on disk: %s", path)
	}
	return path, nil
}

// ParseFlat decodes flat-playlist JSON into candidates. A single video
// yields one candidate; null entries are dropped.
func ParseFlat(data []byte) ([]shared.Candidate, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyResult
	}
	var res flatResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to decode yt-dlp output: %w", err)
	}

	if res.Type != "playlist" && res.Entries == nil {
		return []shared.Candidate{candidate(&res.flatEntry)}, nil
	}

	out := make([]shared.Candidate, 0, len(res.Entries))
	for _, e := range res.Entries {
		if e == nil || (e.ID == "" && e.URL == "") {
			continue
		}
		out = append(out, candidate(e))
	}
	return out, nil
}

func candidate(e *flatEntry) shared.Candidate {
	url := e.WebpageURL
	if url == "" {
		url = e.URL
	}
	if url == "" || !source.IsURL(url) {
		url = source.WatchURL(e.ID)
	}
	return shared.Candidate{ID: e.ID, Title: e.Title, URL: url}
}

// ParseInfo decodes single-item JSON
func ParseInfo(data []byte) (*shared.TrackInfo, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyResult
	}
	var info shared.TrackInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to decode yt-dlp info: %w", err)
	}
	if info.ID == "" {
		return nil, ErrEmptyResult
	}
	return &info, nil
}
