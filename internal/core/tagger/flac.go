package tagger

import (
	"fmt"
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"songfetch/internal/shared"
)

const (
	vorbisLyrics         = "LYRICS"
	vorbisUnsyncedLyrics = "UNSYNCEDLYRICS"
	vorbisSourceID       = "SOURCEID"
)

// parseFLAC wraps flac.ParseFile, which panics on streams that end after the metadata
func parseFLAC(path string) (f *flac.File, err error) {
	defer func() {
		if r := recover(); r != nil {
			f, err = nil, fmt.Errorf("failed to parse FLAC file: truncated stream: %v", r)
		}
	}()
	f, err = flac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse FLAC file: %w", err)
	}
	return f, nil
}

func embedFLAC(path string, data shared.EmbedData) error {
	f, err := parseFLAC(path)
	if err != nil {
		return err
	}

	comment, err := vorbisComment(f)
	if err != nil {
		return err
	}

	drop := map[string]bool{}
	if data.Lyrics != "" {
		drop[vorbisLyrics] = true
		drop[vorbisUnsyncedLyrics] = true
	}
	if data.SourceID != "" {
		drop[vorbisSourceID] = true
		drop[SourceIDKey] = true
	}
	kept := comment.Comments[:0]
	for _, c := range comment.Comments {
		key, _, _ := strings.Cut(c, "=")
		if !drop[strings.ToUpper(key)] {
			kept = append(kept, c)
		}
	}
	comment.Comments = kept

	if data.Lyrics != "" {
		comment.Add(vorbisLyrics, data.Lyrics)
		comment.Add(vorbisUnsyncedLyrics, data.Lyrics)
	}
	if data.SourceID != "" {
		comment.Add(vorbisSourceID, data.SourceID)
		comment.Add(SourceIDKey, data.SourceID)
	}

	// Rebuild the block list so the comment and picture are written once
	var meta []*flac.MetaDataBlock
	for _, block := range f.Meta {
		if block.Type == flac.VorbisComment {
			continue
		}
		if block.Type == flac.Picture && len(data.Cover) > 0 {
			continue
		}
		meta = append(meta, block)
	}
	commentBlock := comment.Marshal()
	meta = append(meta, &commentBlock)

	if len(data.Cover) > 0 {
		picture, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "Front Cover", data.Cover, "image/jpeg")
		if err != nil {
			return fmt.Errorf("failed to create picture metadata: %w", err)
		}
		pictureBlock := picture.Marshal()
		meta = append(meta, &pictureBlock)
	}
	f.Meta = meta

	if err := f.Save(path); err != nil {
		return fmt.Errorf("failed to save FLAC file with metadata: %w", err)
	}
	return nil
}

// vorbisComment returns the file's comment block, or a fresh one
func vorbisComment(f *flac.File) (*flacvorbis.MetaDataBlockVorbisComment, error) {
	for _, block := range f.Meta {
		if block.Type == flac.VorbisComment {
			comment, err := flacvorbis.ParseFromMetaDataBlock(*block)
			if err != nil {
				return nil, fmt.Errorf("failed to parse vorbis comment: %w", err)
			}
			return comment, nil
		}
	}
	return flacvorbis.New(), nil
}

func readFLACSourceID(path string) (string, error) {
	f, err := parseFLAC(path)
	if err != nil {
		return "", err
	}
	comment, err := vorbisComment(f)
	if err != nil {
		return "", err
	}
	for _, key := range []string{vorbisSourceID, SourceIDKey} {
		values, err := comment.Get(key)
		if err == nil && len(values) > 0 {
			return values[0], nil
		}
	}
	return "", nil
}
