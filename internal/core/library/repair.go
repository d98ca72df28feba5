// Package library repairs files already on disk: missing lyric sidecars
// and missing embedded cover art.
package library

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"songfetch/internal/core/lrc"
	"songfetch/internal/core/metadata"
	"songfetch/internal/interfaces"
	"songfetch/internal/shared"
)

// DefaultAudioExts are the files the repair pass looks at
var DefaultAudioExts = []string{"mp3", "flac", "m4a"}

// Options select which repairs run
type Options struct {
	Lyrics      bool
	Covers      bool
	Exts        []string
	OnlinePause time.Duration
}

// Report counts what a pass changed
type Report struct {
	Scanned     int
	LyricsFixed int
	CoversFixed int
}

type Repairer struct {
	tagger   interfaces.TagEmbedder
	lyrics   interfaces.LyricsSearcher
	covers   interfaces.CoverFinder
	logger   interfaces.LoggerService
	warnings interfaces.WarningCollectorService
	opts     Options
}

func NewRepairer(tagger interfaces.TagEmbedder, lyrics interfaces.LyricsSearcher, covers interfaces.CoverFinder,
	logger interfaces.LoggerService, warnings interfaces.WarningCollectorService, opts Options) *Repairer {
	if len(opts.Exts) == 0 {
		opts.Exts = DefaultAudioExts
	}
	if warnings == nil {
		warnings = shared.NewWarningCollector(false)
	}
	return &Repairer{tagger: tagger, lyrics: lyrics, covers: covers, logger: logger, warnings: warnings, opts: opts}
}

// Run walks root recursively. A missing root is not an error.
func (r *Repairer) Run(ctx context.Context, root string) (*Report, error) {
	report := &Report{}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return report, nil
	}

	r.logger.Info("🔎 Scanning existing library in %s", root)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil || d.IsDir() || !r.wanted(path) {
			return nil
		}
		report.Scanned++
		r.repairFile(ctx, path, report)
		return nil
	})
	r.logger.Info("Library scan finished: %d files, %d lyrics fixed, %d covers fixed",
		report.Scanned, report.LyricsFixed, report.CoversFixed)
	return report, err
}

func (r *Repairer) wanted(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range r.opts.Exts {
		if strings.TrimPrefix(strings.ToLower(e), ".") == ext {
			return true
		}
	}
	return false
}

func (r *Repairer) repairFile(ctx context.Context, path string, report *Report) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Repair of %s panicked: %v", filepath.Base(path), rec)
		}
	}()

	base := shared.TrimExt(path)
	lrcPath, srtPath := base+".lrc", base+".srt"
	missingLRC := !shared.FileExists(lrcPath)
	missingSRT := !shared.FileExists(srtPath)

	needLyrics := r.opts.Lyrics && (missingLRC || missingSRT)
	needCover := r.opts.Covers && !r.tagger.HasCover(path)
	if !needLyrics && !needCover {
		return
	}

	tags, err := r.tagger.ReadTags(path)
	if err != nil {
		r.logger.Debug("Unreadable tags in %s: %v", filepath.Base(path), err)
		tags = &shared.FileTags{}
	}
	md := r.identify(path, tags)

	if needLyrics {
		r.logger.Info("[Library Check]: %s", filepath.Base(path))
		if text := r.findLyrics(ctx, lrcPath, missingLRC, tags, md); text != "" {
			if missingLRC {
				r.write(lrcPath, text)
			}
			if srt := lrc.ToSRT(text); missingSRT && srt != "" {
				r.write(srtPath, srt)
			}
			if err := r.tagger.Embed(path, shared.EmbedData{Lyrics: text}); err != nil {
				r.warnings.AddEmbedFailedWarning(path, err.Error())
			}
			report.LyricsFixed++
			r.logger.Success("Fixed missing lyrics for %s", filepath.Base(path))
		}
	}

	if needCover && r.covers != nil {
		cover := r.covers.GetCover(ctx, shared.CoverQuery{
			Artist: md.Artist,
			Title:  md.Title,
			Album:  tags.Album,
			Folder: filepath.Dir(path),
		})
		if cover == nil {
			return
		}
		if err := r.tagger.Embed(path, shared.EmbedData{Cover: cover.Data}); err != nil {
			r.warnings.AddEmbedFailedWarning(path, err.Error())
			return
		}
		report.CoversFixed++
		r.logger.Success("Embedded cover into %s", filepath.Base(path))
	}
}

// identify prefers embedded tags and falls back to the file name
func (r *Repairer) identify(path string, tags *shared.FileTags) shared.Metadata {
	if tags.Artist != "" && tags.Title != "" {
		return shared.Metadata{Artist: tags.Artist, Title: tags.Title}
	}
	return metadata.ParseFilename(filepath.Base(path))
}

// findLyrics tries the local .lrc, then the embedded text, then the providers
func (r *Repairer) findLyrics(ctx context.Context, lrcPath string, missingLRC bool, tags *shared.FileTags, md shared.Metadata) string {
	if !missingLRC {
		if data, err := os.ReadFile(lrcPath); err == nil && strings.TrimSpace(string(data)) != "" {
			return string(data)
		}
	}
	if strings.TrimSpace(tags.Lyrics) != "" {
		return tags.Lyrics
	}
	if r.lyrics == nil {
		return ""
	}
	text, ok := r.lyrics.Search(ctx, md.Artist, md.Title, 0)
	if !ok {
		return ""
	}
	r.pause(ctx)
	return text
}

func (r *Repairer) write(path, content string) {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		r.logger.Warning("Failed to write %s: %v", filepath.Base(path), err)
	}
}

func (r *Repairer) pause(ctx context.Context) {
	if r.opts.OnlinePause <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(r.opts.OnlinePause):
	}
}
