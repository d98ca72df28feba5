// Package downloader turns requests into tagged media files on disk.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"songfetch/internal/core/index"
	"songfetch/internal/core/lrc"
	"songfetch/internal/core/metadata"
	"songfetch/internal/core/registry"
	"songfetch/internal/core/source"
	"songfetch/internal/interfaces"
	"songfetch/internal/shared"
)

// DefaultPacingDelay is the pause after each candidate that produced output
const DefaultPacingDelay = 1500 * time.Millisecond

var errNoInfo = errors.New("no metadata returned")

// Deps are the collaborators of an Orchestrator. Lyrics and Covers may be nil.
type Deps struct {
	Fetcher  interfaces.MediaFetcher
	Tagger   interfaces.TagEmbedder
	Lyrics   interfaces.LyricsSearcher
	Covers   interfaces.CoverFinder
	Registry *registry.Registry
	Index    *index.Index
	Logger   interfaces.LoggerService
	Warnings interfaces.WarningCollectorService
}

// Options control the output formats and pacing
type Options struct {
	AudioFormat  string
	VideoFormat  string
	AudioQuality string
	PacingDelay  time.Duration
}

// Orchestrator runs the skip, fetch, enrich, embed and commit pipeline
// for one request at a time.
type Orchestrator struct {
	Deps
	opts Options
}

func New(deps Deps, opts Options) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = shared.NopLogger{}
	}
	if deps.Warnings == nil {
		deps.Warnings = shared.NewWarningCollector(false)
	}
	if deps.Index == nil {
		deps.Index = index.New()
	}
	if opts.AudioFormat == "" {
		opts.AudioFormat = "mp3"
	}
	if opts.VideoFormat == "" {
		opts.VideoFormat = "mp4"
	}
	return &Orchestrator{Deps: deps, opts: opts}
}

// FormatSpecs lists the format passes for mode, audio first
func (o *Orchestrator) FormatSpecs(mode shared.Mode, folder string) []shared.FormatSpec {
	audio := shared.FormatSpec{Ext: o.opts.AudioFormat, Folder: folder, AudioQuality: o.opts.AudioQuality}
	video := shared.FormatSpec{Ext: o.opts.VideoFormat, Folder: folder, Video: true}
	switch mode {
	case shared.ModeVideo:
		return []shared.FormatSpec{video}
	case shared.ModeBoth:
		return []shared.FormatSpec{audio, video}
	default:
		return []shared.FormatSpec{audio}
	}
}

// OutputExts lists the extensions a mode produces, audio first. The library
// index only looks at these, so a file in another format never blocks a download.
func OutputExts(mode shared.Mode, audioFormat, videoFormat string) []string {
	switch mode {
	case shared.ModeVideo:
		return []string{videoFormat}
	case shared.ModeBoth:
		return []string{audioFormat, videoFormat}
	default:
		return []string{audioFormat}
	}
}

// RunBatch processes requests in order and aggregates their stats.
// It stops early only when ctx is cancelled.
func (o *Orchestrator) RunBatch(ctx context.Context, requests []shared.Request) *shared.DownloadStats {
	total := &shared.DownloadStats{}
	for i, req := range requests {
		if ctx.Err() != nil {
			o.Logger.Warning("Cancelled, %d request(s) not processed", len(requests)-i)
			break
		}
		o.Logger.Info("[%d/%d] %s", i+1, len(requests), req.Query)
		_, stats := o.Process(ctx, req)
		total.Add(stats)
	}
	return total
}

// Process handles one request
func (o *Orchestrator) Process(ctx context.Context, req shared.Request) (shared.Outcome, *shared.DownloadStats) {
	stats := &shared.DownloadStats{}
	playlist := source.IsPlaylist(req.Query)

	if !playlist && o.fastSkip(req.Query) {
		o.Logger.Info("⏭️ Already downloaded: %s", req.Query)
		stats.SkippedCount++
		return shared.OutcomeSkipped, stats
	}

	candidates, err := o.Fetcher.Expand(ctx, req.Query)
	if err != nil {
		o.Logger.Error("Could not access %s: %v", req.Query, err)
		o.Warnings.AddRequestFailedWarning(req.Query, err.Error())
		stats.FailedCount++
		stats.FailedItems = append(stats.FailedItems, req.Query)
		return shared.OutcomeFailed, stats
	}
	o.Logger.Debug("Found %d potential track(s) for %s", len(candidates), req.Query)

	for _, c := range candidates {
		if ctx.Err() != nil {
			break
		}
		produced, bytes, err := o.processCandidate(ctx, req, c, playlist)
		switch {
		case err != nil:
			o.Logger.Error("Track error for %s: %v", c.Title, err)
			o.Warnings.AddCandidateFailedWarning(c.Title, err.Error())
			stats.FailedCount++
			stats.FailedItems = append(stats.FailedItems, c.Title)
		case produced:
			stats.SuccessCount++
			stats.BytesWritten += bytes
		default:
			stats.SkippedCount++
		}
	}

	switch {
	case stats.SuccessCount > 0:
		return shared.OutcomeCompleted, stats
	case stats.FailedCount > 0:
		return shared.OutcomeFailed, stats
	default:
		return shared.OutcomeSkipped, stats
	}
}

// fastSkip decides from the query text alone, without any network call
func (o *Orchestrator) fastSkip(query string) bool {
	id := source.ExtractID(query)
	if o.Registry != nil && o.Registry.IsDownloaded(query, id) {
		return true
	}
	return o.Index.Contains(id)
}

func (o *Orchestrator) processCandidate(ctx context.Context, req shared.Request, c shared.Candidate, playlist bool) (produced bool, written int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			produced, written, err = false, 0, fmt.Errorf("panic: %v", r)
		}
	}()

	if metadata.IsUnavailableTitle(c.Title) {
		o.Logger.Warning("Unavailable: %s", c.Title)
		o.Warnings.AddUnavailableWarning(c.Title)
		return false, 0, nil
	}
	if o.Index.Contains(c.ID) || (o.Registry != nil && o.Registry.IsDownloaded(c.ID, c.ID)) {
		o.Logger.Debug("Skipping %s, id %s already in library", c.Title, c.ID)
		return false, 0, nil
	}

	info, err := o.Fetcher.FetchInfo(ctx, c.URL)
	if err != nil {
		return false, 0, err
	}
	if info == nil || info.ID == "" {
		return false, 0, errNoInfo
	}
	md := metadata.Extract(info)

	var (
		paths    []string
		enriched bool
		embed    shared.EmbedData
	)
	for _, spec := range o.FormatSpecs(req.Mode, req.TargetFolder) {
		target := o.Fetcher.PredictFilename(info, spec)
		if shared.FileExists(target) {
			o.Logger.Info("⏭️ Skipping: '%s' already exists", filepath.Base(target))
			continue
		}

		o.Logger.Info("⬇️ Downloading: %s (%s)", md, spec.Ext)
		path, err := o.Fetcher.Download(ctx, info, spec)
		if err != nil {
			return false, written, err
		}
		if fi, statErr := os.Stat(path); statErr == nil {
			written += fi.Size()
		}
		paths = append(paths, path)

		if !enriched {
			embed = o.enrich(ctx, info, md, req.TargetFolder, path)
			enriched = true
		}
		o.embed(path, embed)
	}

	if len(paths) == 0 {
		return false, 0, nil
	}
	o.commit(ctx, req, info.ID, playlist)
	o.Logger.Success("Done: %s (%s)", md, humanize.Bytes(uint64(written)))
	return true, written, nil
}

// enrich resolves lyrics and cover art once per candidate and writes the lyric sidecars
func (o *Orchestrator) enrich(ctx context.Context, info *shared.TrackInfo, md shared.Metadata, folder, path string) shared.EmbedData {
	data := shared.EmbedData{SourceID: info.ID}

	if o.Lyrics != nil {
		if text, ok := o.Lyrics.Search(ctx, md.Artist, md.Title, int(info.Duration)); ok {
			data.Lyrics = text
			o.writeSidecars(shared.TrimExt(path), text)
		} else {
			o.Logger.Info("No lyrics found for: %s", md.Title)
		}
	}

	if o.Covers != nil {
		cover := o.Covers.GetCover(ctx, shared.CoverQuery{
			Artist:       md.Artist,
			Title:        md.Title,
			Album:        info.Album,
			Folder:       folder,
			ThumbnailURL: info.Thumbnail,
		})
		if cover != nil {
			data.Cover = cover.Data
		}
	}
	return data
}

func (o *Orchestrator) writeSidecars(base, lyrics string) {
	if err := os.WriteFile(base+".lrc", []byte(lyrics), 0644); err != nil {
		o.Logger.Warning("Failed to write %s.lrc: %v", base, err)
	}
	if srt := lrc.ToSRT(lyrics); srt != "" {
		if err := os.WriteFile(base+".srt", []byte(srt), 0644); err != nil {
			o.Logger.Warning("Failed to write %s.srt: %v", base, err)
		}
	}
}

func (o *Orchestrator) embed(path string, data shared.EmbedData) {
	if o.Tagger == nil || !o.Tagger.Supports(filepath.Ext(path)) {
		o.Logger.Debug("No tag support for %s, metadata kept in sidecars", filepath.Base(path))
		return
	}
	if err := o.Tagger.Embed(path, data); err != nil {
		o.Logger.Warning("Failed to embed metadata into %s: %v", filepath.Base(path), err)
		o.Warnings.AddEmbedFailedWarning(path, err.Error())
	}
}

// commit records a produced candidate so later runs skip it
func (o *Orchestrator) commit(ctx context.Context, req shared.Request, id string, playlist bool) {
	o.Index.Add(id)
	if o.Registry != nil {
		key := req.Query
		if playlist {
			key = id
		}
		o.Registry.Add(key, id)
		if err := o.Registry.Save(); err != nil {
			o.Logger.Error("Failed to save registry: %v", err)
			o.Warnings.AddRegistryWarning(o.Registry.Path(), err.Error())
		}
	}
	o.pause(ctx)
}

func (o *Orchestrator) pause(ctx context.Context) {
	if o.opts.PacingDelay <= 0 {
		return
	}
	timer := time.NewTimer(o.opts.PacingDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
