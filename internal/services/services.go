package services

import (
	"context"
	"time"

	"songfetch/internal/api/gecimi"
	"songfetch/internal/api/httpclient"
	"songfetch/internal/api/itunes"
	"songfetch/internal/api/lrclib"
	"songfetch/internal/api/lyricsovh"
	"songfetch/internal/api/megalyrics"
	"songfetch/internal/api/musicbrainz"
	"songfetch/internal/api/navidrome"
	"songfetch/internal/api/netease"
	"songfetch/internal/api/qqmusic"
	"songfetch/internal/api/spotify"
	"songfetch/internal/api/ytdlp"
	"songfetch/internal/config"
	"songfetch/internal/core/cover"
	"songfetch/internal/core/downloader"
	"songfetch/internal/core/imaging"
	"songfetch/internal/core/index"
	"songfetch/internal/core/library"
	"songfetch/internal/core/lyrics"
	"songfetch/internal/core/registry"
	"songfetch/internal/core/tagger"
	"songfetch/internal/interfaces"
	"songfetch/internal/shared"
)

// libraryPause follows each online lyrics hit during repair
const libraryPause = time.Second

// ServiceContainer holds all application services
type ServiceContainer struct {
	Config           interfaces.ConfigService
	Settings         *config.Config
	Logger           *ConsoleLogger
	WarningCollector interfaces.WarningCollectorService
	Fetcher          interfaces.MediaFetcher
	Tagger           *tagger.Tagger
	Lyrics           *lyrics.Resolver
	Covers           *cover.Resolver
	SpotifyService   *spotify.SpotifyClient
	NavidromeService *navidrome.NavidromeClient

	// Set by LoadLibrary
	Registry     *registry.Registry
	Index        *index.Index
	Orchestrator *downloader.Orchestrator
	Repairer     *library.Repairer
}

// NewServiceContainer creates a new service container with all services initialized
func NewServiceContainer(cfg *config.Config) *ServiceContainer {
	// Create logger first as other services may need it
	logger := NewConsoleLogger()
	if level, err := shared.ParseLogLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	warningCollector := shared.NewWarningCollectorForBehavior(cfg.WarningBehavior)

	http := httpclient.New(httpclient.Config{
		UserAgent:  cfg.UserAgent,
		Timeout:    cfg.Timeout(),
		MaxRetries: cfg.MaxRetryAttempts,
		Debug:      logger.Level() == shared.LevelDebug,
	})

	ep := cfg.Endpoints
	lyricsResolver := lyrics.NewResolver([]interfaces.LyricsProvider{
		lrclib.New(http, ep.LRCLib),
		netease.New(http, ep.NetEaseSearch, ep.NetEaseLyric),
		qqmusic.New(http, ep.QQSearch, ep.QQLyric),
		megalyrics.New(http, ep.Megalyrics),
		gecimi.New(http, ep.Gecimi),
		lyricsovh.New(http, ep.LyricsOVH),
	}, logger, warningCollector)

	itunesClient := itunes.New(http, ep.ITunesSearch)
	coverResolver := cover.NewResolver(itunesClient, itunesClient, imaging.NewCodec(cfg.ImageSize, cfg.ImageQuality), logger)
	coverResolver.SetWarningCollector(warningCollector)
	if cfg.CoverArtArchive {
		mb := musicbrainz.DefaultConfig()
		mb.BaseURL = ep.MusicBrainz
		mb.CoverArtURL = ep.CoverArtArchive
		mb.Timeout = cfg.Timeout()
		mb.Debug = logger.Level() == shared.LevelDebug
		coverResolver.SetArchive(musicbrainz.NewClientWithConfig(mb))
	}

	return &ServiceContainer{
		Config:           NewConfigService(),
		Settings:         cfg,
		Logger:           logger,
		WarningCollector: warningCollector,
		Fetcher:          ytdlp.New(logger, cfg.ProgressBars),
		Tagger:           tagger.New(logger),
		Lyrics:           lyricsResolver,
		Covers:           coverResolver,
		SpotifyService:   spotify.NewSpotifyClient(cfg.SpotifyClientID, cfg.SpotifyClientSecret, logger),
		NavidromeService: navidrome.NewNavidromeClient(cfg.NavidromeURL, cfg.NavidromeUsername, cfg.NavidromePassword, cfg.Timeout(), logger),
	}
}

// LoadLibrary scans the download root, loads the registry and syncs it with
// what is on disk, then wires the orchestrator and repairer.
func (sc *ServiceContainer) LoadLibrary() error {
	cfg := sc.Settings
	if err := shared.CreateDirIfNotExists(cfg.DownloadLocation); err != nil {
		return err
	}

	mode, err := shared.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	exts := downloader.OutputExts(mode, cfg.AudioFormat, cfg.VideoFormat)
	sc.Index = index.Build(cfg.DownloadLocation, exts, sc.Tagger, sc.Logger)
	sc.Logger.Info("📂 %d tracks already in library", sc.Index.Len())

	sc.Registry = registry.Load(cfg.RegistryPath(), sc.Logger)
	removed, err := sc.Registry.SyncWithDisk(sc.Index.Snapshot())
	if err != nil {
		sc.Logger.Error("Failed to save registry: %v", err)
		sc.WarningCollector.AddRegistryWarning(sc.Registry.Path(), err.Error())
	}
	if removed > 0 {
		sc.Logger.Info("Removed %d stale registry entries", removed)
	}

	sc.Orchestrator = downloader.New(downloader.Deps{
		Fetcher:  sc.Fetcher,
		Tagger:   sc.Tagger,
		Lyrics:   sc.Lyrics,
		Covers:   sc.Covers,
		Registry: sc.Registry,
		Index:    sc.Index,
		Logger:   sc.Logger,
		Warnings: sc.WarningCollector,
	}, downloader.Options{
		AudioFormat:  cfg.AudioFormat,
		VideoFormat:  cfg.VideoFormat,
		AudioQuality: cfg.AudioQuality,
		PacingDelay:  cfg.PacingDelay(),
	})
	sc.Repairer = sc.NewRepairer()
	return nil
}

// NewRepairer builds a library repairer from the current settings
func (sc *ServiceContainer) NewRepairer() *library.Repairer {
	return library.NewRepairer(sc.Tagger, sc.Lyrics, sc.Covers, sc.Logger, sc.WarningCollector, library.Options{
		Lyrics:      sc.Settings.RepairLyrics,
		Covers:      sc.Settings.RepairCovers,
		OnlinePause: libraryPause,
	})
}

// ExpandSpotify replaces Spotify links with one search request per track.
// Links that cannot be expanded are dropped with a warning.
func (sc *ServiceContainer) ExpandSpotify(requests []shared.Request) []shared.Request {
	out := make([]shared.Request, 0, len(requests))
	authenticated := false
	for _, req := range requests {
		if !spotify.IsSpotifyURL(req.Query) {
			out = append(out, req)
			continue
		}
		if !sc.SpotifyService.Configured() {
			sc.Logger.Error("Spotify link %s needs SpotifyClientID and SpotifyClientSecret", req.Query)
			sc.WarningCollector.AddRequestFailedWarning(req.Query, "spotify credentials missing")
			continue
		}
		if !authenticated {
			if err := sc.SpotifyService.Authenticate(); err != nil {
				sc.Logger.Error("%v", err)
				sc.WarningCollector.AddRequestFailedWarning(req.Query, err.Error())
				continue
			}
			authenticated = true
		}

		tracks, name, err := sc.SpotifyService.Expand(req.Query)
		if err != nil {
			sc.Logger.Error("Failed to expand %s: %v", req.Query, err)
			sc.WarningCollector.AddRequestFailedWarning(req.Query, err.Error())
			continue
		}
		if name != "" {
			sc.Logger.Info("🎧 %s: %d tracks", name, len(tracks))
		}
		for _, t := range tracks {
			out = append(out, shared.Request{Query: t.SearchQuery(), TargetFolder: req.TargetFolder, Mode: req.Mode})
		}
	}
	return out
}

// NotifyNavidrome triggers a rescan when a run produced new files
func (sc *ServiceContainer) NotifyNavidrome(stats *shared.DownloadStats) {
	if stats == nil || stats.SuccessCount == 0 || !sc.NavidromeService.Configured() {
		return
	}
	if err := sc.NavidromeService.StartScan(); err != nil {
		sc.Logger.Warning("Navidrome rescan failed: %v", err)
	}
}

// InstallFetcher makes sure yt-dlp is present when AutoInstallYtDlp is set
func (sc *ServiceContainer) InstallFetcher(ctx context.Context) {
	if !sc.Settings.AutoInstallYtDlp {
		return
	}
	if err := ytdlp.Install(ctx); err != nil {
		sc.Logger.Warning("%v", err)
	}
}

// Close flushes the log file, if any
func (sc *ServiceContainer) Close() error {
	return sc.Logger.Close()
}

// ConfigService implementation
type ConfigService struct{}

func NewConfigService() *ConfigService {
	return &ConfigService{}
}

// LoadConfig reads configFile on top of the defaults
func (cs *ConfigService) LoadConfig(configFile string) (*config.Config, error) {
	cfg := cs.GetDefaultConfig()
	if err := config.LoadConfig(configFile, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cs *ConfigService) SaveConfig(configFile string, cfg *config.Config) error {
	return config.SaveConfig(configFile, cfg)
}

func (cs *ConfigService) ValidateConfig(cfg *config.Config) error {
	return config.ValidateConfig(cfg)
}

func (cs *ConfigService) GetDefaultConfig() *config.Config {
	return config.GetDefaultConfig()
}

func (cs *ConfigService) EnsureConfigExists(configFile string) error {
	if !shared.FileExists(configFile) {
		defaultConfig := cs.GetDefaultConfig()
		return cs.SaveConfig(configFile, defaultConfig)
	}
	return nil
}
