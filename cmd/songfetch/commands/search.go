package commands

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"songfetch/internal/core/search"
	"songfetch/internal/shared"
)

// NewSearchCommand lists search results and downloads the picked ones
func NewSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search and pick what to download.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearchCommand,
	}
	cmd.Flags().Int("limit", search.DefaultLimit, "Number of results to list")
	cmd.Flags().Bool("auto", false, "Download the first result without asking")
	cmd.Flags().String("folder", "", "Subfolder of the download location to save into")
	return cmd
}

func runSearchCommand(cmd *cobra.Command, args []string) error {
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
	searcher, ok := sc.Fetcher.(search.Searcher)
	if !ok {
		return errors.New("the configured fetcher cannot search")
	}
	limit, _ := cmd.Flags().GetInt("limit")
	auto, _ := cmd.Flags().GetBool("auto")

	sc.InstallFetcher(ctx)
	picked, err := search.HandleSearch(ctx, searcher, strings.Join(args, " "), search.Options{Limit: limit, Auto: auto})
	if err != nil {
		return err
	}
	if len(picked) == 0 {
		sc.Logger.Warning("%v", shared.ErrNoItemsSelected)
		return nil
	}

	checkTools(sc)
	if err := sc.LoadLibrary(); err != nil {
		return err
	}
	stats := sc.Orchestrator.RunBatch(ctx, search.Requests(picked, targetFolder(cmd, cfg.DownloadLocation), mode))
	sc.NotifyNavidrome(stats)
	finish(sc, cfg, stats)
	return nil
}

// targetFolder resolves the --folder flag under the download location
func targetFolder(cmd *cobra.Command, root string) string {
	folder, _ := cmd.Flags().GetString("folder")
	if folder == "" {
		return root
	}
	if filepath.IsAbs(folder) {
		return folder
	}
	return filepath.Join(root, folder)
}
