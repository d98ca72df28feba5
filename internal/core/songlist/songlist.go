// Package songlist parses the plain-text list of things to download.
//
// Lines starting with one or more '#' open a folder at that depth, "//"
// starts a comment and every other non-blank line is a request.
package songlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"songfetch/internal/shared"
)

// comment matches "//" at line start or after whitespace, so URLs survive
var comment = regexp.MustCompile(`(^|\s)//`)

// Parse reads requests from r. Folders are joined under root.
func Parse(r io.Reader, root string, mode shared.Mode) ([]shared.Request, error) {
	var (
		requests []shared.Request
		stack    []string
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if loc := comment.FindStringIndex(line); loc != nil {
			line = line[:loc[0]]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			name := strings.TrimLeft(line, "#")
			depth := len(line) - len(name)
			if depth-1 < len(stack) {
				stack = stack[:depth-1]
			}
			stack = append(stack, strings.TrimSpace(name))
			continue
		}

		requests = append(requests, shared.Request{
			Query:        line,
			TargetFolder: filepath.Join(append([]string{root}, stack...)...),
			Mode:         mode,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read song list: %w", err)
	}
	return requests, nil
}

// ParseFile opens path and parses it
func ParseFile(path, root string, mode shared.Mode) ([]shared.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open song list: %w", err)
	}
	defer f.Close()
	return Parse(f, root, mode)
}
