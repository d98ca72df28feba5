package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"songfetch/internal/config"
	"songfetch/internal/core/tagger"
	"songfetch/internal/services"
	"songfetch/internal/shared"
)

// NewRootCommand builds the songfetch command tree
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:     "songfetch",
		Version: version,
		Short:   "Download songs with synced lyrics and cover art.",
		Long: fmt.Sprintf(`songfetch (v%s)

Downloads audio and video from a plain-text song list, search phrases or links,
then adds what a music library needs:
- Time-synced lyrics as .lrc and .srt sidecars and embedded tags.
- Square cover art, embedded and cached per album.
- A hidden source id so nothing is downloaded twice.

Running without a subcommand is the same as "songfetch run".`, version),
		SilenceUsage: true,
		RunE:         runRunCommand,
	}

	flags := root.PersistentFlags()
	flags.String("config", "config.json", "Path to the configuration file")
	flags.String("download-location", "", "Directory to save downloads")
	flags.String("mode", "", "What to download: audio, video or both")
	flags.String("log-level", "", "Verbosity: off, critical, error, warning, info or debug")
	flags.Bool("debug", false, "Enable debug logging")

	addRunFlags(root)

	root.AddCommand(
		NewRunCommand(),
		NewGetCommand(),
		NewSearchCommand(),
		NewRepairCommand(),
		NewRegistryCommand(),
		NewLyricsCommand(),
		NewSrtCommand(),
	)
	return root
}

// commandContext is cancelled on Ctrl-C
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// loadConfig reads the config file, creating it on first run, and applies flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cs := services.NewConfigService()

	if !shared.FileExists(configFile) {
		shared.ColorInfo.Println("✨ Welcome to songfetch! Let's set up your configuration.")
		cfg := cs.GetDefaultConfig()
		if shared.IsTTY() {
			cfg.DownloadLocation = shared.GetUserInput(
				fmt.Sprintf("Enter download location (e.g., %s)", cfg.DownloadLocation), cfg.DownloadLocation)
			cfg.RepairLyrics = shared.GetYesNoInput("Also fetch missing lyrics for songs already in the library? (y/n)", "n")
		}
		if err := cs.SaveConfig(configFile, cfg); err != nil {
			shared.ColorError.Printf("❌ Failed to save initial config: %v\n", err)
		} else {
			shared.ColorSuccess.Println("✅ Configuration saved to", configFile)
		}
	}

	cfg, err := cs.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configFile, err)
	}

	if v, _ := cmd.Flags().GetString("download-location"); v != "" {
		cfg.DownloadLocation = v
	}
	if v, _ := cmd.Flags().GetString("mode"); v != "" {
		cfg.Mode = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.LogLevel = shared.LevelDebug.String()
	}

	if _, err := shared.ParseLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if err := cs.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initConfigAndServices loads the config and builds the service container.
// Callers must Close the container.
func initConfigAndServices(cmd *cobra.Command) (*config.Config, *services.ServiceContainer, error) {
	shared.InitializeColors()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	sc := services.NewServiceContainer(cfg)
	if path := cfg.LogFilePath(); path != "" {
		if err := sc.Logger.OpenLogFile(path); err != nil {
			sc.Logger.Warning("File logging disabled: %v", err)
		}
	}
	sc.Logger.Debug("Loaded configuration (run %s)", sc.Logger.RunID())
	return cfg, sc, nil
}

// checkTools warns about missing external programs
func checkTools(sc *services.ServiceContainer) {
	if !tagger.CheckFFmpeg() {
		sc.Logger.Warning("ffmpeg not found in PATH: audio extraction and MP4 tagging will fail")
		printInstallInstructions()
	}
}

func printInstallInstructions() {
	shared.ColorInfo.Println("Install ffmpeg from https://ffmpeg.org/download.html or your package manager:")
	fmt.Println("  macOS:   brew install ffmpeg")
	fmt.Println("  Debian:  sudo apt install ffmpeg")
	fmt.Println("  Windows: winget install ffmpeg")
}
