package tagger

import (
	"strings"

	"github.com/bogem/id3v2/v2"

	"songfetch/internal/shared"
)

const (
	frameUserText = "TXXX"
	frameLyrics   = "USLT"
	framePicture  = "APIC"
)

func embedID3(path string, data shared.EmbedData) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	replace := map[string]bool{}
	if data.Lyrics != "" {
		replace["LYRICS"] = true
	}
	if data.SourceID != "" {
		replace[SourceIDKey] = true
	}
	keepUserText(tag, replace)

	if data.Lyrics != "" {
		tag.DeleteFrames(frameLyrics)
		tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding:          id3v2.EncodingUTF8,
			Language:          "eng",
			ContentDescriptor: "lyrics",
			Lyrics:            data.Lyrics,
		})
		tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
			Encoding:    id3v2.EncodingUTF8,
			Description: "LYRICS",
			Value:       data.Lyrics,
		})
	}

	if data.SourceID != "" {
		tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
			Encoding:    id3v2.EncodingUTF8,
			Description: SourceIDKey,
			Value:       data.SourceID,
		})
	}

	if len(data.Cover) > 0 {
		tag.DeleteFrames(framePicture)
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Front cover",
			Picture:     data.Cover,
		})
	}

	return tag.Save()
}

// keepUserText drops the TXXX frames whose description is in replace and keeps the rest
func keepUserText(tag *id3v2.Tag, replace map[string]bool) {
	if len(replace) == 0 {
		return
	}
	var kept []id3v2.UserDefinedTextFrame
	for _, f := range tag.GetFrames(frameUserText) {
		udtf, ok := f.(id3v2.UserDefinedTextFrame)
		if !ok || replace[strings.ToUpper(udtf.Description)] {
			continue
		}
		kept = append(kept, udtf)
	}
	tag.DeleteFrames(frameUserText)
	for _, f := range kept {
		tag.AddUserDefinedTextFrame(f)
	}
}

func readID3SourceID(path string) (string, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return "", err
	}
	defer tag.Close()

	for _, f := range tag.GetFrames(frameUserText) {
		if udtf, ok := f.(id3v2.UserDefinedTextFrame); ok && strings.EqualFold(udtf.Description, SourceIDKey) {
			return strings.TrimRight(udtf.Value, "\x00"), nil
		}
	}
	return "", nil
}
