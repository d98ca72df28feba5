// Package tagger embeds lyrics, cover art and the hidden source id into media files.
package tagger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"songfetch/internal/interfaces"
	"songfetch/internal/shared"
)

const (
	// SourceIDKey names the hidden id field in every container
	SourceIDKey = "YTID"

	// sourceIDPrefix marks the id inside MP4 comment atoms
	sourceIDPrefix = SourceIDKey + ":"
)

// ErrUnsupportedFormat is returned for extensions no backend can tag
var ErrUnsupportedFormat = errors.New("unsupported media format")

// Tagger picks a backend by file extension
type Tagger struct {
	logger interfaces.LoggerService
	ffmpeg string
}

func New(logger interfaces.LoggerService) *Tagger {
	return &Tagger{logger: logger, ffmpeg: "ffmpeg"}
}

func ext(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// Supports reports whether files with ext (with or without the dot) can be tagged
func (t *Tagger) Supports(extension string) bool {
	switch strings.TrimPrefix(strings.ToLower(extension), ".") {
	case "mp3", "flac", "m4a", "mp4":
		return true
	}
	return false
}

// Embed writes the non-empty fields of data into the file at path
func (t *Tagger) Embed(path string, data shared.EmbedData) error {
	if data.Lyrics == "" && data.SourceID == "" && len(data.Cover) == 0 {
		return nil
	}

	var err error
	switch ext(path) {
	case "mp3":
		err = embedID3(path, data)
	case "flac":
		err = embedFLAC(path, data)
	case "m4a":
		err = t.embedMP4(path, data, false)
	case "mp4":
		err = t.embedMP4(path, data, true)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to tag %s: %w", filepath.Base(path), err)
	}
	t.logger.Debug("Embedded tags into %s (lyrics=%t cover=%t id=%q)", filepath.Base(path), data.Lyrics != "", len(data.Cover) > 0, data.SourceID)
	return nil
}

// ReadID returns the hidden source id, or "" when the file has none
func (t *Tagger) ReadID(path string) (string, error) {
	switch ext(path) {
	case "mp3":
		return readID3SourceID(path)
	case "flac":
		return readFLACSourceID(path)
	case "m4a", "mp4":
		tags, err := t.ReadTags(path)
		if err != nil {
			return "", err
		}
		return tags.SourceID, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// HasCover reports whether the file carries embedded artwork
func (t *Tagger) HasCover(path string) bool {
	tags, err := t.ReadTags(path)
	return err == nil && tags.HasCover
}

// ReadTags reads the common tags of any supported container. A file
// without tags yields empty FileTags.
func (t *Tagger) ReadTags(path string) (*shared.FileTags, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if errors.Is(err, tag.ErrNoTagsFound) {
		return &shared.FileTags{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tags from %s: %w", filepath.Base(path), err)
	}

	tags := &shared.FileTags{
		Artist:   strings.TrimSpace(m.Artist()),
		Title:    strings.TrimSpace(m.Title()),
		Album:    strings.TrimSpace(m.Album()),
		Lyrics:   m.Lyrics(),
		HasCover: m.Picture() != nil,
	}

	switch m.FileType() {
	case tag.MP3:
		tags.SourceID = rawUserText(m.Raw(), SourceIDKey)
		if tags.Lyrics == "" {
			tags.Lyrics = rawUserText(m.Raw(), "LYRICS")
		}
	case tag.FLAC:
		tags.SourceID = rawString(m.Raw(), strings.ToLower(SourceIDKey), "sourceid")
	default:
		if id, ok := strings.CutPrefix(strings.TrimSpace(m.Comment()), sourceIDPrefix); ok {
			tags.SourceID = id
		}
	}
	return tags, nil
}

// rawUserText finds an ID3 TXXX frame by description in dhowden/tag's raw map
func rawUserText(raw map[string]interface{}, description string) string {
	for key, v := range raw {
		if !strings.HasPrefix(key, "TXXX") {
			continue
		}
		if c, ok := v.(*tag.Comm); ok && strings.EqualFold(c.Description, description) {
			return c.Text
		}
	}
	return ""
}

func rawString(raw map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := raw[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
