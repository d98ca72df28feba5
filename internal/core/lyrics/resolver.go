// Package lyrics runs the ranked provider chain for a track.
package lyrics

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"songfetch/internal/core/metadata"
	"songfetch/internal/interfaces"
	"songfetch/internal/shared"
)

// Resolver asks each provider in order and returns the first non-empty result
type Resolver struct {
	providers []interfaces.LyricsProvider
	logger    interfaces.LoggerService
	warnings  interfaces.WarningCollectorService
}

// NewResolver builds a resolver. warnings may be nil.
func NewResolver(providers []interfaces.LyricsProvider, logger interfaces.LoggerService, warnings interfaces.WarningCollectorService) *Resolver {
	return &Resolver{providers: providers, logger: logger, warnings: warnings}
}

// Providers returns the chain in query order
func (r *Resolver) Providers() []interfaces.LyricsProvider {
	return r.providers
}

// Search returns lyrics for the track. A miss on every provider is reported
// as ok == false and recorded as a warning.
func (r *Resolver) Search(ctx context.Context, artist, title string, duration int) (string, bool) {
	artist, title = normalizeQuery(artist, title)
	r.logger.Info("   - [Lyrics] Searching for: '%s - %s' (%ds)", displayArtist(artist), title, duration)

	for _, p := range r.providers {
		if ctx.Err() != nil {
			return "", false
		}
		r.logger.Debug("     > Checking %s...", p.Name())

		text, err := r.try(ctx, p, artist, title, duration)
		if err != nil {
			if errors.Is(err, shared.ErrLyricsNotFound) {
				r.logger.Debug("     %s: no lyrics", p.Name())
			} else {
				r.logger.Debug("     %s failed: %v", p.Name(), err)
			}
			continue
		}
		if strings.TrimSpace(text) != "" {
			r.logger.Debug("     Found lyrics on %s", p.Name())
			return text, true
		}
	}

	r.logger.Warning("No lyrics found for %s - %s", displayArtist(artist), title)
	if r.warnings != nil {
		r.warnings.AddLyricsNotFoundWarning(displayArtist(artist), title)
	}
	return "", false
}

// try isolates one provider so a panic inside it only skips that provider
func (r *Resolver) try(ctx context.Context, p interfaces.LyricsProvider, artist, title string, duration int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("provider %s panicked: %v", p.Name(), rec)
		}
	}()
	return p.FetchLyrics(ctx, artist, title, duration)
}

// normalizeQuery drops a repeated artist from the title, or recovers the
// artist from an "Artist - Title" string when it is absent.
func normalizeQuery(artist, title string) (string, string) {
	if artist != "" {
		return artist, metadata.StripArtist(artist, title)
	}
	if md, ok := metadata.SplitArtistTitle(title); ok {
		return md.Artist, md.Title
	}
	return artist, title
}

func displayArtist(artist string) string {
	return shared.Metadata{Artist: artist}.DisplayArtist()
}
