// Package lrc converts line-timestamped lyrics into SRT subtitles.
package lrc

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// lastLineDuration is how long the final line stays on screen
const lastLineDuration = 4.0

var linePattern = regexp.MustCompile(`^\[(\d+):(\d+\.\d+)\](.*)`)

// Line is one timestamped lyric line
type Line struct {
	Start float64 // seconds
	Text  string
}

// Parse extracts timestamped lines, skipping metadata tags and empty lyrics.
func Parse(text string) []Line {
	var lines []Line
	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		m := linePattern.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		lyric := strings.TrimSpace(m[3])
		if lyric == "" {
			continue
		}
		minutes, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		seconds, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		lines = append(lines, Line{Start: float64(minutes)*60 + seconds, Text: lyric})
	}
	return lines
}

// ToSRT converts LRC text into numbered SRT blocks. Input without any
// timestamped line yields "".
func ToSRT(text string) string {
	lines := Parse(text)
	if len(lines) == 0 {
		return ""
	}

	var out []string
	for i, line := range lines {
		end := line.Start + lastLineDuration
		if i+1 < len(lines) {
			end = lines[i+1].Start
		}
		out = append(out,
			strconv.Itoa(i+1),
			fmt.Sprintf("%s --> %s", formatTimestamp(line.Start), formatTimestamp(end)),
			line.Text,
			"",
		)
	}
	return strings.Join(out, "\n")
}

// IsSynced reports whether text carries at least one LRC timestamp
func IsSynced(text string) bool {
	return len(Parse(text)) > 0
}

func formatTimestamp(seconds float64) string {
	totalMillis := int64(math.Round(seconds * 1000))
	hours := totalMillis / 3_600_000
	minutes := (totalMillis / 60_000) % 60
	secs := (totalMillis / 1000) % 60
	millis := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
