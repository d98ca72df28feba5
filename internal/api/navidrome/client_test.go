package navidrome

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"songfetch/internal/shared"
)

func TestUnconfiguredClient(t *testing.T) {
	n := NewNavidromeClient("", "", "", time.Second, shared.NopLogger{})
	if n.Configured() {
		t.Fatal("expected empty client to be unconfigured")
	}
	if err := n.StartScan(); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestTrailingSlashTrimmed(t *testing.T) {
	n := NewNavidromeClient("http://music.local:4533/", "admin", "pw", time.Second, shared.NopLogger{})
	if n.URL != "http://music.local:4533" || n.Client.BaseUrl != "http://music.local:4533" {
		t.Errorf("unexpected base URL %q / %q", n.URL, n.Client.BaseUrl)
	}
	if n.Client.ClientName != clientName {
		t.Errorf("unexpected client name %q", n.Client.ClientName)
	}
}

func TestAuthenticateFailsOnServerError(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewNavidromeClient(srv.URL, "admin", "pw", time.Second, shared.NopLogger{})
	if err := n.StartScan(); err == nil {
		t.Fatal("expected an error from a failing server")
	}
	if hits == 0 {
		t.Error("expected the server to be contacted")
	}
}
