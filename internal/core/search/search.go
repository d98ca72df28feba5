package search

import (
	"context"
	"fmt"
	"io"
	"os"

	"songfetch/internal/core/metadata"
	"songfetch/internal/shared"
)

// DefaultLimit is how many results a search lists
const DefaultLimit = 10

// Searcher returns the top n results for free text
type Searcher interface {
	SearchN(ctx context.Context, text string, n int) ([]shared.Candidate, error)
}

// Prompt asks the user for a line of input
type Prompt func(prompt, defaultValue string) string

// Options tune HandleSearch. Zero values mean interactive output on stdout.
type Options struct {
	Limit  int
	Auto   bool
	Prompt Prompt
	Out    io.Writer
}

// HandleSearch lists results for query and returns the ones the user picked.
// With Auto the first result is picked without asking.
func HandleSearch(ctx context.Context, searcher Searcher, query string, opts Options) ([]shared.Candidate, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Prompt == nil {
		opts.Prompt = shared.GetUserInput
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	shared.ColorInfo.Fprintf(opts.Out, "🔎 Searching for '%s'...\n", query)

	found, err := searcher.SearchN(ctx, query, opts.Limit)
	if err != nil {
		return nil, err
	}

	var results []shared.Candidate
	for _, c := range found {
		if !metadata.IsUnavailableTitle(c.Title) {
			results = append(results, c)
		}
	}
	if len(results) == 0 {
		shared.ColorWarning.Fprintln(opts.Out, "No results found.")
		return nil, nil
	}

	if opts.Auto {
		return results[:1], nil
	}

	shared.ColorInfo.Fprintf(opts.Out, "Found %d results:\n", len(results))
	for i, c := range results {
		fmt.Fprintf(opts.Out, "%d. %s (%s)\n", i+1, c.Title, c.URL)
	}

	selectionStr := opts.Prompt("\nEnter numbers to download (e.g., '1,3,5-7' or 'q' to quit)", "")
	if selectionStr == "q" || selectionStr == "" {
		return nil, nil
	}

	selectedIndices, err := shared.ParseSelectionInput(selectionStr, len(results))
	if err != nil {
		return nil, fmt.Errorf("invalid selection: %w", err)
	}

	selected := make([]shared.Candidate, 0, len(selectedIndices))
	for _, idx := range selectedIndices {
		selected = append(selected, results[idx-1])
	}
	return selected, nil
}

// Requests turns picked results into direct-link requests
func Requests(picked []shared.Candidate, folder string, mode shared.Mode) []shared.Request {
	requests := make([]shared.Request, 0, len(picked))
	for _, c := range picked {
		requests = append(requests, shared.Request{Query: c.URL, TargetFolder: folder, Mode: mode})
	}
	return requests
}
