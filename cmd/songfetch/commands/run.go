package commands

import (
	"github.com/spf13/cobra"

	"songfetch/internal/core/songlist"
	"songfetch/internal/shared"
)

// NewRunCommand creates the song list command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process the song list, then repair the existing library.",
		Args:  cobra.NoArgs,
		RunE:  runRunCommand,
	}
	addRunFlags(cmd)
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("list", "", "Song list file (defaults to SongList from the config)")
	cmd.Flags().Bool("skip-library-scan", false, "Do not repair lyrics and covers of existing files")
}

func runRunCommand(cmd *cobra.Command, args []string) error {
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
	listPath, _ := cmd.Flags().GetString("list")
	if listPath == "" {
		listPath = cfg.SongList
	}
	if skip, _ := cmd.Flags().GetBool("skip-library-scan"); skip {
		cfg.SkipLibraryScan = true
	}

	checkTools(sc)
	sc.InstallFetcher(ctx)
	if err := sc.LoadLibrary(); err != nil {
		return err
	}

	stats := &shared.DownloadStats{}
	if shared.FileExists(listPath) {
		requests, err := songlist.ParseFile(listPath, cfg.DownloadLocation, mode)
		if err != nil {
			return err
		}
		requests = sc.ExpandSpotify(requests)
		sc.Logger.Info("Found %d items to process.", len(requests))
		stats = sc.Orchestrator.RunBatch(ctx, requests)
	} else {
		sc.Logger.Warning("%s not found.", listPath)
	}

	if !cfg.SkipLibraryScan && ctx.Err() == nil {
		if _, err := sc.Repairer.Run(ctx, cfg.DownloadLocation); err != nil {
			sc.Logger.Error("Library scan stopped: %v", err)
		}
	}

	sc.NotifyNavidrome(stats)
	finish(sc, cfg, stats)
	return nil
}
