package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"songfetch/internal/shared"
)

// NewGetCommand downloads links or search phrases given on the command line
func NewGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [url or \"artist - title\"]...",
		Short: "Download one or more links or search phrases.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runGetCommand,
	}
	cmd.Flags().String("folder", "", "Subfolder of the download location to save into")
	return cmd
}

func runGetCommand(cmd *cobra.Command, args []string) error {
	cfg, sc, err := initConfigAndServices(cmd)
	if err != nil {
		return err
	}
	defer sc.Close()

	ctx, cancel := commandContext()
	defer cancel()

	mode, err := shared.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	folder := targetFolder(cmd, cfg.DownloadLocation)

	checkTools(sc)
	sc.InstallFetcher(ctx)
	if err := sc.LoadLibrary(); err != nil {
		return err
	}

	requests := make([]shared.Request, 0, len(args))
	for _, arg := range args {
		if q := strings.TrimSpace(arg); q != "" {
			requests = append(requests, shared.Request{Query: q, TargetFolder: folder, Mode: mode})
		}
	}
	requests = sc.ExpandSpotify(requests)

	stats := sc.Orchestrator.RunBatch(ctx, requests)
	sc.NotifyNavidrome(stats)
	finish(sc, cfg, stats)
	return nil
}
