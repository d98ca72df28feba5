package shared

import (
	"fmt"
	"sort"
	"strings"
)

// WarningType represents different types of warnings
type WarningType int

const (
	LyricsNotFoundWarning WarningType = iota
	CoverNotFoundWarning
	EmbedFailedWarning
	CandidateFailedWarning
	RequestFailedWarning
	RegistryWarning
	UnavailableWarning
)

// Warning represents a single warning with context
type Warning struct {
	Type    WarningType
	Message string
	Context string // Track/request context
	Details string // Additional details like error message
}

// WarningCollector collects warnings during a run
type WarningCollector struct {
	warnings  []Warning
	enabled   bool
	immediate bool
}

// NewWarningCollector creates a new warning collector
func NewWarningCollector(enabled bool) *WarningCollector {
	return &WarningCollector{
		warnings: make([]Warning, 0),
		enabled:  enabled,
	}
}

// NewWarningCollectorForBehavior maps the WarningBehavior setting
// ("summary", "immediate" or "silent") onto a collector.
func NewWarningCollectorForBehavior(behavior string) *WarningCollector {
	switch strings.ToLower(behavior) {
	case "silent":
		return NewWarningCollector(false)
	case "immediate":
		wc := NewWarningCollector(true)
		wc.immediate = true
		return wc
	default:
		return NewWarningCollector(true)
	}
}

// AddWarning adds a warning to the collector
func (wc *WarningCollector) AddWarning(warningType WarningType, context, message, details string) {
	if !wc.enabled {
		return
	}

	warning := Warning{
		Type:    warningType,
		Message: message,
		Context: context,
		Details: details,
	}
	wc.warnings = append(wc.warnings, warning)

	if wc.immediate {
		if details != "" {
			ColorWarning.Printf("⚠️  %s: %s (%s)\n", message, context, details)
		} else {
			ColorWarning.Printf("⚠️  %s: %s\n", message, context)
		}
	}
}

func (wc *WarningCollector) AddLyricsNotFoundWarning(artist, title string) {
	wc.AddWarning(LyricsNotFoundWarning, fmt.Sprintf("%s - %s", artist, title), "No lyrics found", "")
}

func (wc *WarningCollector) AddCoverNotFoundWarning(artist, title string) {
	wc.AddWarning(CoverNotFoundWarning, fmt.Sprintf("%s - %s", artist, title), "No cover art found", "")
}

func (wc *WarningCollector) AddEmbedFailedWarning(path, details string) {
	wc.AddWarning(EmbedFailedWarning, path, "Failed to embed tags", details)
}

func (wc *WarningCollector) AddCandidateFailedWarning(title, details string) {
	wc.AddWarning(CandidateFailedWarning, title, "Track failed", details)
}

func (wc *WarningCollector) AddRequestFailedWarning(query, details string) {
	wc.AddWarning(RequestFailedWarning, query, "Request failed", details)
}

func (wc *WarningCollector) AddRegistryWarning(path, details string) {
	wc.AddWarning(RegistryWarning, path, "Registry problem", details)
}

func (wc *WarningCollector) AddUnavailableWarning(title string) {
	wc.AddWarning(UnavailableWarning, title, "Item unavailable", "")
}

// HasWarnings returns true if there are any warnings
func (wc *WarningCollector) HasWarnings() bool {
	return len(wc.warnings) > 0
}

// GetWarningCount returns the total number of warnings
func (wc *WarningCollector) GetWarningCount() int {
	return len(wc.warnings)
}

// GetWarningsByType returns warnings grouped by type
func (wc *WarningCollector) GetWarningsByType() map[WarningType][]Warning {
	grouped := make(map[WarningType][]Warning)
	for _, warning := range wc.warnings {
		grouped[warning.Type] = append(grouped[warning.Type], warning)
	}
	return grouped
}

// PrintSummary prints a formatted summary of all warnings
func (wc *WarningCollector) PrintSummary() {
	if !wc.HasWarnings() {
		return
	}

	ColorWarning.Printf("\n⚠️  Warning Summary (%d warnings):\n", len(wc.warnings))
	ColorWarning.Println(strings.Repeat("─", 50))

	grouped := wc.GetWarningsByType()

	var types []WarningType
	for warningType := range grouped {
		types = append(types, warningType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	for _, warningType := range types {
		wc.printWarningTypeSection(warningType, grouped[warningType])
	}
}

func (wc *WarningCollector) printWarningTypeSection(warningType WarningType, warnings []Warning) {
	if len(warnings) == 0 {
		return
	}

	ColorWarning.Printf("\n%s (%d):\n", warningTypeTitle(warningType), len(warnings))

	// Collapse repeats of the same context into one line
	contextCounts := make(map[string]int)
	for _, warning := range warnings {
		contextCounts[warning.Context]++
	}

	var contexts []string
	for context := range contextCounts {
		contexts = append(contexts, context)
	}
	sort.Strings(contexts)

	for _, context := range contexts {
		if count := contextCounts[context]; count > 1 {
			ColorWarning.Printf("  • %s (×%d)\n", context, count)
		} else {
			ColorWarning.Printf("  • %s\n", context)
		}
	}
}

func warningTypeTitle(warningType WarningType) string {
	switch warningType {
	case LyricsNotFoundWarning:
		return "Lyrics Not Found"
	case CoverNotFoundWarning:
		return "Cover Art Not Found"
	case EmbedFailedWarning:
		return "Tag Embedding Failures"
	case CandidateFailedWarning:
		return "Track Failures"
	case RequestFailedWarning:
		return "Request Failures"
	case RegistryWarning:
		return "Registry Problems"
	case UnavailableWarning:
		return "Unavailable Items"
	default:
		return "Other Warnings"
	}
}
