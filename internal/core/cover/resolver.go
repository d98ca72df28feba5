// Package cover finds, squares and caches album artwork.
package cover

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"songfetch/internal/core/metadata"
	"songfetch/internal/interfaces"
	"songfetch/internal/shared"
)

const folderIcon = "cover.jpg"

// ErrNoArtwork is returned when a search produced no usable hit
var ErrNoArtwork = errors.New("no artwork found")

var genericAlbums = map[string]bool{"": true, "unknown": true, "album": true, "video": true}

// Resolver tries the album cache, artwork search, the optional release
// archive and finally the source thumbnail.
type Resolver struct {
	searcher interfaces.ImageSearcher
	fetcher  interfaces.ImageFetcher
	codec    interfaces.ImageCodec
	archive  interfaces.ArtworkArchive
	logger   interfaces.LoggerService
	warnings interfaces.WarningCollectorService
}

func NewResolver(searcher interfaces.ImageSearcher, fetcher interfaces.ImageFetcher, codec interfaces.ImageCodec, logger interfaces.LoggerService) *Resolver {
	return &Resolver{searcher: searcher, fetcher: fetcher, codec: codec, logger: logger}
}

// SetArchive enables release archive lookups for non-generic albums
func (r *Resolver) SetArchive(archive interfaces.ArtworkArchive) {
	r.archive = archive
}

func (r *Resolver) SetWarningCollector(warnings interfaces.WarningCollectorService) {
	r.warnings = warnings
}

// ClassifyAlbum strips the album to filename-safe characters and reports
// whether it is too vague to share artwork across tracks.
func ClassifyAlbum(album string) (string, bool) {
	var b strings.Builder
	for _, c := range album {
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == ' ' || c == '-' || c == '_' {
			b.WriteRune(c)
		}
	}
	clean := strings.TrimSpace(b.String())
	generic := genericAlbums[strings.ToLower(clean)] || utf8.RuneCountInString(clean) < 3
	return clean, generic
}

// CachePath is where artwork for a non-generic album is stored inside folder
func CachePath(folder, cleanAlbum string) string {
	return filepath.Join(folder, fmt.Sprintf("Album - %s.jpg", cleanAlbum))
}

// GetCover returns artwork for the track, or nil when every source failed
func (r *Resolver) GetCover(ctx context.Context, q shared.CoverQuery) *shared.CoverResult {
	artist := metadata.Clean(q.Artist)
	title := metadata.Clean(q.Title)
	if artist == "" {
		if md, ok := metadata.SplitArtistTitle(title); ok {
			artist, title = md.Artist, md.Title
		}
	}

	album, generic := ClassifyAlbum(q.Album)

	if !generic {
		if data, err := os.ReadFile(CachePath(q.Folder, album)); err == nil {
			r.logger.Debug("Using cached album art for '%s'", album)
			return &shared.CoverResult{Data: data}
		}
	}

	data, err := r.searchArtwork(ctx, artist, title)
	if err != nil {
		r.logger.Debug("Artwork search: %v", err)
	}

	if data == nil && r.archive != nil && !generic && artist != "" {
		data = r.fromArchive(ctx, artist, album)
	}

	if data == nil && q.ThumbnailURL != "" {
		data = r.fromThumbnail(ctx, q.ThumbnailURL)
	}

	if data == nil {
		r.logger.Warning("No cover art found for %s - %s", shared.Metadata{Artist: artist}.DisplayArtist(), title)
		if r.warnings != nil {
			r.warnings.AddCoverNotFoundWarning(shared.Metadata{Artist: artist}.DisplayArtist(), title)
		}
		return nil
	}

	if !generic {
		r.persist(q.Folder, album, data)
	}
	return &shared.CoverResult{Data: data, Generic: generic}
}

// searchArtwork runs the strict artist+title search and, only when that
// finds nothing, a title-only search validated against the artist.
func (r *Resolver) searchArtwork(ctx context.Context, artist, title string) ([]byte, error) {
	hits, err := r.searcher.SearchArtwork(ctx, strings.TrimSpace(artist+" "+title))
	if err != nil {
		r.logger.Debug("Strict artwork search failed: %v", err)
	}
	if len(hits) > 0 {
		return r.fetchSquare(ctx, hits[0].ArtworkURL)
	}

	if artist == "" {
		return nil, ErrNoArtwork
	}

	r.logger.Debug("     > Strict search failed, trying relaxed search for '%s'...", title)
	hits, err = r.searcher.SearchArtwork(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("relaxed artwork search failed: %w", err)
	}
	if len(hits) == 0 {
		return nil, ErrNoArtwork
	}

	found := hits[0].ArtistName
	if !metadata.ContainsFold(found, artist) && !metadata.ContainsFold(artist, found) {
		r.logger.Debug("     > Validation failed: search found '%s' but we wanted '%s'", found, artist)
		return nil, ErrNoArtwork
	}
	return r.fetchSquare(ctx, hits[0].ArtworkURL)
}

func (r *Resolver) fromArchive(ctx context.Context, artist, album string) []byte {
	raw, err := r.archive.FrontCover(ctx, artist, album)
	if err != nil {
		r.logger.Debug("Cover archive lookup failed for %s - %s: %v", artist, album, err)
		return nil
	}
	data, err := r.codec.SquareJPEG(raw)
	if err != nil {
		r.logger.Debug("Cover archive image unusable: %v", err)
		return nil
	}
	return data
}

func (r *Resolver) fromThumbnail(ctx context.Context, thumbnailURL string) []byte {
	data, err := r.fetchSquare(ctx, thumbnailURL)
	if err != nil {
		r.logger.Debug("Thumbnail fallback failed: %v", err)
		return nil
	}
	return data
}

func (r *Resolver) fetchSquare(ctx context.Context, imageURL string) ([]byte, error) {
	if imageURL == "" {
		return nil, ErrNoArtwork
	}
	raw, err := r.fetcher.FetchImage(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", imageURL, err)
	}
	data, err := r.codec.SquareJPEG(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to process %s: %w", imageURL, err)
	}
	return data, nil
}

// persist writes the album cache and, if missing, the folder icon
func (r *Resolver) persist(folder, album string, data []byte) {
	if err := os.WriteFile(CachePath(folder, album), data, 0644); err != nil {
		r.logger.Warning("Could not cache album art: %v", err)
		return
	}
	icon := filepath.Join(folder, folderIcon)
	if shared.FileExists(icon) {
		return
	}
	if err := os.WriteFile(icon, data, 0644); err != nil {
		r.logger.Warning("Could not write %s: %v", icon, err)
	}
}
