package search

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"songfetch/internal/shared"
)

type stubSearcher struct {
	results []shared.Candidate
	err     error
	gotN    int
}

func (s *stubSearcher) SearchN(_ context.Context, _ string, n int) ([]shared.Candidate, error) {
	s.gotN = n
	return s.results, s.err
}

func candidates() []shared.Candidate {
	return []shared.Candidate{
		{ID: "a", Title: "One", URL: "https://www.youtube.com/watch?v=a"},
		{ID: "x", Title: "[Private video]", URL: "https://www.youtube.com/watch?v=x"},
		{ID: "b", Title: "Two", URL: "https://www.youtube.com/watch?v=b"},
		{ID: "c", Title: "Three", URL: "https://www.youtube.com/watch?v=c"},
	}
}

func answer(s string) Prompt {
	return func(string, string) string { return s }
}

func TestHandleSearchSelection(t *testing.T) {
	s := &stubSearcher{results: candidates()}
	var out bytes.Buffer

	got, err := HandleSearch(context.Background(), s, "q", Options{Prompt: answer("3, 1"), Out: &out})
	if err != nil {
		t.Fatalf("HandleSearch returned error: %v", err)
	}
	if s.gotN != DefaultLimit {
		t.Errorf("expected limit %d, got %d", DefaultLimit, s.gotN)
	}
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "a" {
		t.Errorf("unexpected selection: %+v", got)
	}
	if bytes.Contains(out.Bytes(), []byte("Private")) {
		t.Errorf("unavailable entries should not be listed:\n%s", out.String())
	}
}

func TestHandleSearchAuto(t *testing.T) {
	s := &stubSearcher{results: candidates()}
	got, err := HandleSearch(context.Background(), s, "q", Options{Auto: true, Limit: 3, Out: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("expected first result, got %+v", got)
	}
	if s.gotN != 3 {
		t.Errorf("expected limit 3, got %d", s.gotN)
	}
}

func TestHandleSearchQuit(t *testing.T) {
	got, err := HandleSearch(context.Background(), &stubSearcher{results: candidates()}, "q", Options{Prompt: answer("q"), Out: &bytes.Buffer{}})
	if err != nil || got != nil {
		t.Errorf("expected nothing selected, got %+v, %v", got, err)
	}
}

func TestHandleSearchInvalidSelection(t *testing.T) {
	_, err := HandleSearch(context.Background(), &stubSearcher{results: candidates()}, "q", Options{Prompt: answer("one"), Out: &bytes.Buffer{}})
	if err == nil {
		t.Error("expected an error for a non-numeric selection")
	}
}

func TestHandleSearchError(t *testing.T) {
	boom := errors.New("boom")
	_, err := HandleSearch(context.Background(), &stubSearcher{err: boom}, "q", Options{Out: &bytes.Buffer{}})
	if !errors.Is(err, boom) {
		t.Errorf("expected searcher error, got %v", err)
	}
}

func TestRequests(t *testing.T) {
	reqs := Requests(candidates()[:1], "/music", shared.ModeVideo)
	want := shared.Request{Query: "https://www.youtube.com/watch?v=a", TargetFolder: "/music", Mode: shared.ModeVideo}
	if len(reqs) != 1 || reqs[0] != want {
		t.Errorf("unexpected requests: %+v", reqs)
	}
}
