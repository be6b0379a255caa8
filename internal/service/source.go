package service

import "strings"

// SourceKind tells where the text of a conversion comes from.
type SourceKind int

const (
	SourceText SourceKind = iota + 1
	SourceURL
)

func (k SourceKind) String() string {
	switch k {
	case SourceText:
		return "text"
	case SourceURL:
		return "url"
	default:
		return "unknown"
	}
}

// Source is either a URL to read or literal text to speak.
type Source struct {
	Kind  SourceKind
	Value string
}

// NewSource builds a Source from the raw url and text parameters.
// A URL wins when both are given.
func NewSource(rawURL, text string) (Source, error) {
	if u := strings.TrimSpace(rawURL); u != "" {
		return Source{Kind: SourceURL, Value: u}, nil
	}
	if t := strings.TrimSpace(text); t != "" {
		return Source{Kind: SourceText, Value: t}, nil
	}
	return Source{}, newError(ErrInvalidInput, "Either 'url' or 'text' parameter is required", nil)
}
