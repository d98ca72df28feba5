package tagger

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"songfetch/internal/shared"
)

// CheckFFmpeg checks if ffmpeg is installed and available in the system's PATH.
func CheckFFmpeg() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// embedMP4 remuxes the file with ffmpeg, adding lyrics, the id comment and
// an attached picture, then swaps the result into place.
func (t *Tagger) embedMP4(path string, data shared.EmbedData, video bool) error {
	extension := filepath.Ext(path)
	tmp := strings.TrimSuffix(path, extension) + "." + uuid.NewString() + ".tagging" + extension
	defer os.Remove(tmp)

	args := []string{"-y", "-loglevel", "error", "-i", path}

	if len(data.Cover) > 0 {
		coverPath := tmp + ".jpg"
		if err := os.WriteFile(coverPath, data.Cover, 0644); err != nil {
			return fmt.Errorf("failed to stage cover: %w", err)
		}
		defer os.Remove(coverPath)

		args = append(args, "-i", coverPath)
		if video {
			// 0:V excludes pictures already attached to the source
			args = append(args, "-map", "0:V", "-map", "0:a", "-map", "1", "-disposition:v:1", "attached_pic")
		} else {
			args = append(args, "-map", "0:a", "-map", "1", "-disposition:v:0", "attached_pic")
		}
	} else {
		args = append(args, "-map", "0")
	}

	args = append(args, "-c", "copy", "-map_metadata", "0")
	if data.Lyrics != "" {
		args = append(args, "-metadata", "lyrics="+data.Lyrics)
	}
	if data.SourceID != "" {
		args = append(args, "-metadata", "comment="+sourceIDPrefix+data.SourceID)
	}
	args = append(args, tmp)

	cmd := exec.Command(t.ffmpeg, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w\nffmpeg output: %s", err, shared.TruncateString(string(output), 500))
	}

	if _, err := os.Stat(tmp); os.IsNotExist(err) {
		return fmt.Errorf("tagged file not found after remux")
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
