package commands

import (
	"github.com/spf13/cobra"
)

// NewRepairCommand runs only the library repair pass
func NewRepairCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair [folder]",
		Short: "Add missing lyrics and covers to files already on disk.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRepairCommand,
	}
	cmd.Flags().Bool("lyrics", true, "Repair missing .lrc/.srt sidecars and embedded lyrics")
	cmd.Flags().Bool("covers", true, "Embed missing cover art")
	return cmd
}

func runRepairCommand(cmd *cobra.Command, args []string) error {
	cfg, sc, err := initConfigAndServices(cmd)
	if err != nil {
		return err
	}
	defer sc.Close()

	ctx, cancel := commandContext()
	defer cancel()

	// Flags win only when given, otherwise the config decides
	if cmd.Flags().Changed("lyrics") {
		cfg.RepairLyrics, _ = cmd.Flags().GetBool("lyrics")
	}
	if cmd.Flags().Changed("covers") {
		cfg.RepairCovers, _ = cmd.Flags().GetBool("covers")
	}

	root := cfg.DownloadLocation
	if len(args) == 1 {
		root = args[0]
	}

	report, err := sc.NewRepairer().Run(ctx, root)
	if err != nil {
		return err
	}
	if sc.WarningCollector.HasWarnings() {
		sc.WarningCollector.PrintSummary()
	}
	sc.Logger.Success("Repaired %d lyrics and %d covers across %d files", report.LyricsFixed, report.CoversFixed, report.Scanned)
	return nil
}
