// Package metadata recovers a clean artist/title pair from noisy source tags.
package metadata

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"songfetch/internal/shared"
)

// separatorGlyphs are trimmed from both ends of every cleaned value
const separatorGlyphs = " -–—|"

var (
	// titleSeparator splits "Artist - Title" style display titles
	titleSeparator = regexp.MustCompile(` [-–—|:] `)

	// filenameSeparator is the same without the colon, which never survives in a filename
	filenameSeparator = regexp.MustCompile(` [-–—|] `)
)

// DenyRule is one named pattern removed by Clean
type DenyRule struct {
	Name    string
	Pattern *regexp.Regexp
}

func rule(name, pattern string) DenyRule {
	return DenyRule{Name: name, Pattern: regexp.MustCompile(`(?i)` + pattern)}
}

// DenyList is applied in order. Specific parentheticals run before the
// catch-all bracket rules so their names show up in traces.
var DenyList = []DenyRule{
	rule("official-music-video", `\(Official Music Video\)`),
	rule("official-video", `\(Official Video\)`),
	rule("official-audio", `\(Official Audio\)`),
	rule("lyric-video", `\(Lyric Video\)`),
	rule("lyrics", `\(Lyrics\)`),
	rule("hq", `\[HQ\]`),
	rule("hd", `\[HD\]`),
	rule("4k", `\[4K\]`),
	rule("remastered", `\(Remastered\)`),
	rule("live", `\(Live\)`),
	rule("video", `\(Video\)`),
	rule("official-music-video-bare", `Official Music Video`),
	rule("official-video-bare", `Official Video`),
	rule("vevo", `VEVO`),
	rule("topic", `- Topic`),
	rule("arranged-by", `\barranged\s+by\b`),
	rule("performed-by", `\bperformed\s+by\b`),
	rule("by", `\bby\b`),
	rule("par", `\bpar\b`),
	rule("8bit", `\b8\s?bit\b`),
	rule("ft", `\bft\b`),
	rule("feat", `\bfeat\b`),
	rule("version", `\bversion\b`),
	rule("ost", `\bost\b`),
	rule("soundtrack", `\bsoundtrack\b`),
	rule("theme", `\btheme\b`),
	rule("parenthetical", `\(.*?\)`),
	rule("bracketed", `\[.*?\]`),
}

// JunkUploaders are substrings that mark an uploader name as a channel brand rather than an artist
var JunkUploaders = []string{"vevo", "official", "records", "music", "video", "stereo", "channel", "topic"}

// unavailableTitles are placeholder titles for entries that cannot be fetched
var unavailableTitles = []string{"[private video]", "[deleted video]", "[unavailable video]", "[removed video]"}

// Normalizer holds the tables used for cleaning. The zero value is not usable; use New.
type Normalizer struct {
	rules         []DenyRule
	junkUploaders []string
}

// New returns a normalizer over the given tables. Nil tables fall back to the package defaults.
func New(rules []DenyRule, junkUploaders []string) *Normalizer {
	if rules == nil {
		rules = DenyList
	}
	if junkUploaders == nil {
		junkUploaders = JunkUploaders
	}
	return &Normalizer{rules: rules, junkUploaders: junkUploaders}
}

// Rules returns the deny table in application order
func (n *Normalizer) Rules() []DenyRule {
	return n.rules
}

var defaultNormalizer = New(nil, nil)

// Clean strips deny-listed tokens, collapses whitespace and trims separators.
func Clean(text string) string { return defaultNormalizer.Clean(text) }

// Extract recovers artist and title from full track info.
func Extract(info *shared.TrackInfo) shared.Metadata { return defaultNormalizer.Extract(info) }

func (n *Normalizer) Clean(text string) string {
	if text == "" {
		return ""
	}
	for _, r := range n.rules {
		text = r.Pattern.ReplaceAllString(text, "")
	}
	return strings.Trim(strings.Join(strings.Fields(text), " "), separatorGlyphs)
}

func (n *Normalizer) Extract(info *shared.TrackInfo) shared.Metadata {
	if info == nil {
		return shared.Metadata{}
	}

	artist := info.Artist
	title := info.Track
	if title == "" {
		title = info.AltTitle
	}

	if artist == "" || title == "" {
		if a, t, ok := splitOnce(titleSeparator, info.Title); ok {
			artist, title = a, t
		} else {
			artist, title = info.Uploader, info.Title
		}
	}

	// The chosen artist may be a channel name, or the title may still carry "Artist - Title"
	if a, t, ok := splitOnce(titleSeparator, title); ok {
		resplit := artist == "" || n.IsJunkUploader(artist) ||
			(strings.Contains(title, " - ") && ContainsFold(title, artist))
		if resplit {
			artist, title = a, t
		}
	}

	return shared.Metadata{Artist: n.Clean(artist), Title: n.Clean(title)}
}

// IsJunkUploader reports whether name looks like a channel brand
func (n *Normalizer) IsJunkUploader(name string) bool {
	folded := fold(name)
	for _, token := range n.junkUploaders {
		if strings.Contains(folded, token) {
			return true
		}
	}
	return false
}

// ParseFilename guesses artist and title from a bare file name.
// The artist is absent when no separator is found.
func ParseFilename(name string) shared.Metadata {
	name = strings.TrimSuffix(name, filepath.Ext(name))

	if parts := filenameSeparator.Split(name, -1); len(parts) >= 2 {
		return shared.Metadata{
			Artist: strings.TrimSpace(parts[0]),
			Title:  strings.TrimSpace(strings.Join(parts[1:], " ")),
		}
	}

	if parts := strings.Split(name, "-"); len(parts) == 2 {
		return shared.Metadata{Artist: strings.TrimSpace(parts[0]), Title: strings.TrimSpace(parts[1])}
	}

	return shared.Metadata{Title: name}
}

// SplitArtistTitle splits "Artist - Title" on the first plain hyphen separator
func SplitArtistTitle(text string) (shared.Metadata, bool) {
	artist, title, ok := strings.Cut(text, " - ")
	if !ok {
		return shared.Metadata{Title: text}, false
	}
	return shared.Metadata{Artist: artist, Title: title}, true
}

// StripArtist removes every case-insensitive occurrence of artist from title
// and trims leftover separators. Titles that do not mention the artist are returned unchanged.
func StripArtist(artist, title string) string {
	if artist == "" || !ContainsFold(title, artist) {
		return title
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(artist))
	return strings.Trim(re.ReplaceAllString(title, ""), separatorGlyphs)
}

// ContainsFold is a case-insensitive strings.Contains
func ContainsFold(s, substr string) bool {
	return strings.Contains(fold(s), fold(substr))
}

// IsUnavailableTitle reports whether a flat entry is a private/deleted placeholder
func IsUnavailableTitle(title string) bool {
	t := fold(strings.TrimSpace(title))
	for _, sentinel := range unavailableTitles {
		if t == sentinel {
			return true
		}
	}
	return false
}

// fold builds a fresh Caser per call; Casers carry state and must not be shared.
func fold(s string) string {
	return cases.Fold().String(s)
}

func splitOnce(sep *regexp.Regexp, s string) (string, string, bool) {
	loc := sep.FindStringIndex(s)
	if loc == nil {
		return "", "", false
	}
	return s[:loc[0]], s[loc[1]:], true
}
