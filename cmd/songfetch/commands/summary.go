package commands

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"songfetch/internal/config"
	"songfetch/internal/services"
	"songfetch/internal/shared"
)

// finish prints collected warnings, then the download summary
func finish(sc *services.ServiceContainer, cfg *config.Config, stats *shared.DownloadStats) {
	if sc.WarningCollector.HasWarnings() {
		sc.WarningCollector.PrintSummary()
	}
	printSummary(stats, cfg.DownloadLocation)
	shared.ColorSuccess.Println("🎉 All tasks complete")
}

func printSummary(stats *shared.DownloadStats, location string) {
	if stats == nil || (stats.SuccessCount == 0 && stats.FailedCount == 0 && stats.SkippedCount == 0) {
		return
	}

	fmt.Printf("\n")
	shared.ColorInfo.Println("📊 Download Summary:")

	if stats.SuccessCount > 0 {
		shared.ColorSuccess.Printf("✅ Successfully downloaded: %d items (%s)\n", stats.SuccessCount, humanize.Bytes(uint64(stats.BytesWritten)))
	}

	if stats.SkippedCount > 0 {
		shared.ColorWarning.Printf("⏭️  Skipped (already exists): %d items\n", stats.SkippedCount)
	}

	if stats.FailedCount > 0 {
		shared.ColorError.Printf("❌ Failed downloads: %d items\n", stats.FailedCount)
		if len(stats.FailedItems) > 0 {
			shared.ColorError.Printf("   Failed items: %s\n", strings.Join(stats.FailedItems, ", "))
		}
	}

	shared.ColorSuccess.Printf("📁 Downloaded to: %s\n", location)
}
