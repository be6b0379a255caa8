// Package extract turns fetched web pages into plain article text.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"github.com/ekisa-team/narrate/internal/fetch"
)

// ErrNoContent is returned when a page yields no readable text.
var ErrNoContent = errors.New("no readable content")

var (
	blankLines = regexp.MustCompile(`\n\s*\n+`)
	spaceRuns  = regexp.MustCompile(`[ \t\f\v]+`)
)

// Extractor converts a fetched page to plain text.
type Extractor interface {
	Extract(ctx context.Context, page *fetch.Page) (string, error)
}

// Readability extracts the main article with Mozilla's Readability heuristics,
// dropping navigation, ads and comment sections.
type Readability struct{}

// NewReadability returns a Readability extractor.
func NewReadability() *Readability {
	return &Readability{}
}

// Extract returns the article text of page.
func (r *Readability) Extract(ctx context.Context, page *fetch.Page) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if page == nil || len(bytes.TrimSpace(page.Body)) == 0 {
		return "", ErrNoContent
	}

	article, err := readability.FromReader(bytes.NewReader(page.Body), page.URL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoContent, err)
	}

	text := Normalize(article.TextContent)
	if text == "" {
		return "", ErrNoContent
	}

	return text, nil
}

// Normalize trims every line, collapses runs of spaces and squeezes blank lines
// so the synthesizer does not read long silences.
func Normalize(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))
	}

	return strings.TrimSpace(blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}
