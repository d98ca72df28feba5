package services

import (
	"os"
	"path/filepath"
	"testing"

	"songfetch/internal/api/navidrome"
	"songfetch/internal/api/spotify"
	"songfetch/internal/config"
	"songfetch/internal/core/tagger"
	"songfetch/internal/interfaces"
	"songfetch/internal/shared"
)

var (
	_ interfaces.ConfigService    = (*ConfigService)(nil)
	_ interfaces.LoggerService    = (*ConsoleLogger)(nil)
	_ interfaces.SpotifyService   = (*spotify.SpotifyClient)(nil)
	_ interfaces.NavidromeService = (*navidrome.NavidromeClient)(nil)
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.GetDefaultConfig()
	cfg.DownloadLocation = t.TempDir()
	cfg.LogFile = ""
	cfg.PacingDelayMillis = 0
	cfg.ProgressBars = false
	cfg.MaxRetryAttempts = 1
	return cfg
}

func TestNewServiceContainer(t *testing.T) {
	container := NewServiceContainer(testConfig(t))

	if container.Config == nil {
		t.Error("Config service not initialized")
	}
	if container.Logger == nil {
		t.Error("Logger service not initialized")
	}
	if container.WarningCollector == nil {
		t.Error("WarningCollector service not initialized")
	}
	if container.Fetcher == nil {
		t.Error("Fetcher not initialized")
	}
	if container.Tagger == nil {
		t.Error("Tagger not initialized")
	}
	if container.Lyrics == nil || len(container.Lyrics.Providers()) != 6 {
		t.Error("Lyrics resolver should carry all six providers")
	}
	if container.Covers == nil {
		t.Error("Cover resolver not initialized")
	}
	if container.SpotifyService == nil {
		t.Error("SpotifyService not initialized")
	}
	if container.NavidromeService == nil {
		t.Error("NavidromeService not initialized")
	}
	if container.Orchestrator != nil || container.Registry != nil {
		t.Error("Library state must wait for LoadLibrary")
	}
}

func TestLoggerLevelFromConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogLevel = "error"
	container := NewServiceContainer(cfg)
	if container.Logger.Level() != shared.LevelError {
		t.Errorf("expected error level, got %v", container.Logger.Level())
	}
}

func TestConfigService(t *testing.T) {
	cs := NewConfigService()

	defaultConfig := cs.GetDefaultConfig()
	if defaultConfig.DownloadLocation == "" {
		t.Error("Default config should have a download location")
	}
	if err := cs.ValidateConfig(defaultConfig); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}

	configFile := filepath.Join(t.TempDir(), "config", "config.json")
	if err := cs.EnsureConfigExists(configFile); err != nil {
		t.Fatalf("EnsureConfigExists failed: %v", err)
	}
	if !shared.FileExists(configFile) {
		t.Fatal("EnsureConfigExists should create the file")
	}

	if err := os.WriteFile(configFile, []byte(`{"DownloadLocation":"/music","Mode":"video"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := cs.EnsureConfigExists(configFile); err != nil {
		t.Fatalf("EnsureConfigExists on existing file failed: %v", err)
	}

	loaded, err := cs.LoadConfig(configFile)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.DownloadLocation != "/music" || loaded.Mode != "video" {
		t.Errorf("file values not applied: %+v", loaded)
	}
	if loaded.AudioFormat != "mp3" || loaded.Endpoints.LRCLib == "" {
		t.Error("missing keys should keep their defaults")
	}

	if _, err := cs.LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing config file")
	}

	bad := cs.GetDefaultConfig()
	bad.Mode = "karaoke"
	if err := cs.ValidateConfig(bad); err == nil {
		t.Error("expected invalid mode to fail validation")
	}
}

func TestLoadLibrarySyncsRegistry(t *testing.T) {
	cfg := testConfig(t)
	registryPath := cfg.RegistryPath()
	stale := `{"ids":["gone"],"queries":{"old query":"gone","https://www.youtube.com/playlist?list=PL1":"gone"}}`
	if err := os.WriteFile(registryPath, []byte(stale), 0644); err != nil {
		t.Fatal(err)
	}

	container := NewServiceContainer(cfg)
	if err := container.LoadLibrary(); err != nil {
		t.Fatalf("LoadLibrary failed: %v", err)
	}
	if container.Orchestrator == nil || container.Repairer == nil || container.Index == nil {
		t.Fatal("LoadLibrary should wire the orchestrator, repairer and index")
	}
	if container.Registry.IDCount() != 0 || container.Registry.QueryCount() != 0 {
		t.Errorf("stale entries should be dropped, got %d ids and %d queries",
			container.Registry.IDCount(), container.Registry.QueryCount())
	}

	data, err := os.ReadFile(registryPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == stale {
		t.Error("synced registry should be written back")
	}
}

// taggedMP3 writes a minimal MP3 carrying id in the library root
func taggedMP3(t *testing.T, root, name, id string) {
	t.Helper()
	path := filepath.Join(root, name)
	body := append([]byte{0xFF, 0xFB, 0x90, 0x64}, make([]byte, 413)...)
	if err := os.WriteFile(path, body, 0644); err != nil {
		t.Fatal(err)
	}
	if err := tagger.New(shared.NopLogger{}).Embed(path, shared.EmbedData{SourceID: id}); err != nil {
		t.Fatalf("embed id: %v", err)
	}
}

func TestLoadLibraryIndexesOnlyConfiguredFormats(t *testing.T) {
	cfg := testConfig(t)
	taggedMP3(t, cfg.DownloadLocation, "Song.mp3", "abc")
	registryJSON := `{"ids":["abc"],"queries":{"some song":"abc"}}`
	if err := os.WriteFile(cfg.RegistryPath(), []byte(registryJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg.Mode = "video"
	container := NewServiceContainer(cfg)
	if err := container.LoadLibrary(); err != nil {
		t.Fatalf("LoadLibrary failed: %v", err)
	}
	if container.Index.Contains("abc") {
		t.Error("an audio file should not mark the id as present for a video run")
	}
	if container.Registry.IsDownloaded("some song", "abc") {
		t.Error("registry entries for the missing format should be dropped by the sync")
	}

	cfg = testConfig(t)
	taggedMP3(t, cfg.DownloadLocation, "Song.mp3", "abc")
	container = NewServiceContainer(cfg)
	if err := container.LoadLibrary(); err != nil {
		t.Fatalf("LoadLibrary failed: %v", err)
	}
	if !container.Index.Contains("abc") {
		t.Error("an mp3 should count for an audio run")
	}
}

func TestExpandSpotifyWithoutCredentials(t *testing.T) {
	container := NewServiceContainer(testConfig(t))
	requests := []shared.Request{
		{Query: "Queen - Bohemian Rhapsody", TargetFolder: "/m", Mode: shared.ModeAudio},
		{Query: "https://open.spotify.com/album/6i6folBtxKV28WX3msQ4FE", TargetFolder: "/m", Mode: shared.ModeAudio},
		{Query: "https://youtu.be/abc", TargetFolder: "/m", Mode: shared.ModeVideo},
	}

	got := container.ExpandSpotify(requests)
	if len(got) != 2 || got[0] != requests[0] || got[1] != requests[2] {
		t.Errorf("unexpected requests: %+v", got)
	}
	if container.WarningCollector.GetWarningCount() != 1 {
		t.Errorf("expected one warning for the unexpandable link, got %d", container.WarningCollector.GetWarningCount())
	}
}

func TestNotifyNavidromeSkipsWithoutServer(t *testing.T) {
	container := NewServiceContainer(testConfig(t))
	// Must be a no-op: no server is configured
	container.NotifyNavidrome(&shared.DownloadStats{SuccessCount: 3})
	container.NotifyNavidrome(nil)
}
