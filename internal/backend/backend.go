package backend

import (
	"context"
	"time"

	"github.com/ekisa-team/narrate/internal/voice"
)

// Provider is a string identifier for a synthesis backend.
type Provider string

const (
	ProviderEdge  Provider = "edge"
	ProviderPolly Provider = "polly"
)

// Backend defines the core interface for all speech synthesis backends.
type Backend interface {
	// Provider returns the backend identifier.
	Provider() Provider

	// Synthesize renders req.Text with req.Voice as MP3 into req.OutputPath.
	Synthesize(ctx context.Context, req *Request) (*Response, error)

	// Catalog returns the voices this backend advertises.
	Catalog() voice.Catalog

	// Close cleans up resources.
	Close() error
}

// Request encapsulates all parameters for a synthesis call.
type Request struct {
	// Text is the plain text to speak.
	Text string

	// Voice selects the synthetic voice.
	Voice string

	// OutputPath is an existing, empty file the audio is written to.
	OutputPath string

	// Parameters contains backend-specific options.
	Parameters map[string]any
}

// Response contains the result of a synthesis call.
type Response struct {
	Metadata *ResponseMetadata
}

// ResponseMetadata contains metadata about the response.
type ResponseMetadata struct {
	Provider        Provider       `json:"provider"`
	Voice           string         `json:"voice"`
	Timestamp       time.Time      `json:"timestamp"`
	Duration        time.Duration  `json:"duration"`
	OutputBytes     int64          `json:"output_bytes"`
	BackendSpecific map[string]any `json:"backend_specific,omitempty"`
}
