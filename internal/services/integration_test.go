package services

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"songfetch/internal/core/registry"
	"songfetch/internal/shared"
)

const integrationLyrics = "[00:01.00]Is this the real life\n[00:05.00]Is this just fantasy\n"

// stubFetcher stands in for yt-dlp and writes a minimal MPEG stream
type stubFetcher struct {
	info      shared.TrackInfo
	downloads int
}

func (f *stubFetcher) Expand(_ context.Context, query string) ([]shared.Candidate, error) {
	return []shared.Candidate{{ID: f.info.ID, Title: f.info.Title, URL: f.info.WebpageURL}}, nil
}

func (f *stubFetcher) FetchInfo(context.Context, string) (*shared.TrackInfo, error) {
	info := f.info
	return &info, nil
}

func (f *stubFetcher) PredictFilename(info *shared.TrackInfo, spec shared.FormatSpec) string {
	return filepath.Join(spec.Folder, shared.SanitizeFileName(info.Title)+"."+spec.Ext)
}

func (f *stubFetcher) Download(_ context.Context, info *shared.TrackInfo, spec shared.FormatSpec) (string, error) {
	f.downloads++
	path := f.PredictFilename(info, spec)
	if err := os.MkdirAll(spec.Folder, 0755); err != nil {
		return "", err
	}
	body := append([]byte{0xFF, 0xFB, 0x90, 0x64}, make([]byte, 413)...)
	return path, os.WriteFile(path, body, 0644)
}

func noisyPNG(t *testing.T) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func providerServer(t *testing.T) *httptest.Server {
	t.Helper()
	art := noisyPNG(t)
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/lrclib", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"syncedLyrics": integrationLyrics})
	})
	mux.HandleFunc("/itunes", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"resultCount": 1,
			"results": []map[string]string{{
				"artistName":     "Queen",
				"trackName":      "Bohemian Rhapsody",
				"collectionName": "A Night at the Opera",
				"artworkUrl100":  srv.URL + "/art/100x100bb.png",
			}},
		})
	})
	mux.HandleFunc("/art/1000x1000bb.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(art)
	})
	srv = httptest.NewServer(mux)
	return srv
}

func TestServiceIntegration(t *testing.T) {
	srv := providerServer(t)
	defer srv.Close()

	cfg := testConfig(t)
	cfg.Endpoints.LRCLib = srv.URL + "/lrclib"
	cfg.Endpoints.ITunesSearch = srv.URL + "/itunes"

	fetcher := &stubFetcher{info: shared.TrackInfo{
		ID:         "fJ9rUzIMcZQ",
		Title:      "Queen - Bohemian Rhapsody (Official Video Remastered)",
		Artist:     "Queen",
		Track:      "Bohemian Rhapsody",
		Album:      "A Night at the Opera",
		Duration:   354,
		WebpageURL: "https://www.youtube.com/watch?v=fJ9rUzIMcZQ",
	}}

	container := NewServiceContainer(cfg)
	container.Fetcher = fetcher
	if err := container.LoadLibrary(); err != nil {
		t.Fatalf("LoadLibrary failed: %v", err)
	}

	folder := filepath.Join(cfg.DownloadLocation, "Rock")
	query := "queen bohemian rhapsody"
	stats := container.Orchestrator.RunBatch(context.Background(), []shared.Request{
		{Query: query, TargetFolder: folder, Mode: shared.ModeAudio},
	})
	if stats.SuccessCount != 1 || stats.FailedCount != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	base := filepath.Join(folder, "Queen - Bohemian Rhapsody (Official Video Remastered)")
	for _, ext := range []string{".mp3", ".lrc", ".srt"} {
		if !shared.FileExists(base + ext) {
			t.Errorf("expected %s to exist", base+ext)
		}
	}
	if !shared.FileExists(filepath.Join(folder, "Album - A Night at the Opera.jpg")) {
		t.Error("expected album cover cache")
	}
	if !shared.FileExists(filepath.Join(folder, "cover.jpg")) {
		t.Error("expected folder icon")
	}

	tags, err := container.Tagger.ReadTags(base + ".mp3")
	if err != nil {
		t.Fatalf("ReadTags failed: %v", err)
	}
	if tags.SourceID != "fJ9rUzIMcZQ" {
		t.Errorf("expected embedded source id, got %q", tags.SourceID)
	}
	if tags.Lyrics != integrationLyrics {
		t.Errorf("expected embedded lyrics, got %q", tags.Lyrics)
	}
	if !tags.HasCover {
		t.Error("expected embedded cover")
	}

	reg := registry.Load(cfg.RegistryPath(), shared.NopLogger{})
	if !reg.IsDownloaded(query, "fJ9rUzIMcZQ") {
		t.Error("registry should record the query")
	}

	// A fresh run finds the id on disk and skips without downloading again
	second := NewServiceContainer(cfg)
	second.Fetcher = fetcher
	if err := second.LoadLibrary(); err != nil {
		t.Fatalf("second LoadLibrary failed: %v", err)
	}
	if !second.Index.Contains("fJ9rUzIMcZQ") {
		t.Error("index should pick up the embedded id")
	}
	stats = second.Orchestrator.RunBatch(context.Background(), []shared.Request{
		{Query: query, TargetFolder: folder, Mode: shared.ModeAudio},
		{Query: "https://youtu.be/fJ9rUzIMcZQ", TargetFolder: folder, Mode: shared.ModeAudio},
	})
	if stats.SkippedCount != 2 || fetcher.downloads != 1 {
		t.Errorf("expected both requests skipped, got %+v after %d downloads", stats, fetcher.downloads)
	}
	if second.WarningCollector.HasWarnings() {
		t.Error("a clean run should not produce warnings")
	}
}
