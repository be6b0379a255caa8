package edge

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ekisa-team/narrate/internal/backend"
	"github.com/ekisa-team/narrate/internal/voice"
	"github.com/ekisa-team/narrate/mapsafe"
)

// Backend implements backend.Backend on top of the edge-tts command line tool,
// which speaks through Microsoft Edge's online neural voices.
type Backend struct {
	executor *backend.Executor
	options  map[string]any
}

// NewBackend creates a new edge-tts backend.
// Options may hold "rate", "volume" and "pitch" in edge-tts notation (e.g. "+10%").
func NewBackend(binPath string, timeout time.Duration, options map[string]any) (*Backend, error) {
	executor, err := backend.NewExecutor(binPath, timeout)
	if err != nil {
		return nil, err
	}

	return NewBackendWithExecutor(executor, options), nil
}

// NewBackendWithExecutor creates a backend around an existing executor.
func NewBackendWithExecutor(executor *backend.Executor, options map[string]any) *Backend {
	return &Backend{
		executor: executor,
		options:  options,
	}
}

// Provider returns the backend provider.
func (b *Backend) Provider() backend.Provider {
	return backend.ProviderEdge
}

// Catalog returns the advertised edge voices.
func (b *Backend) Catalog() voice.Catalog {
	return voice.Edge
}

// Synthesize renders speech into req.OutputPath.
// Input: text on stdin.
// Output: MP3 audio written by edge-tts.
func (b *Backend) Synthesize(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, backend.ErrEmptyText
	}
	if req.OutputPath == "" {
		return nil, backend.ErrOutputPathEmpty
	}

	start := time.Now()
	args := b.buildArgs(req)

	stdout, stderr, err := b.executor.Execute(ctx, args, strings.NewReader(req.Text))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("edge-tts interrupted: %w", ctxErr)
		}
		return nil, fmt.Errorf("execution failed: %w\nstderr: %s", err, strings.TrimSpace(string(stderr)))
	}

	info, err := os.Stat(req.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat audio file: %w", err)
	}
	if info.Size() == 0 {
		return nil, backend.ErrEmptyOutput
	}

	return &backend.Response{
		Metadata: &backend.ResponseMetadata{
			Provider:    b.Provider(),
			Voice:       req.Voice,
			Timestamp:   time.Now(),
			Duration:    time.Since(start),
			OutputBytes: info.Size(),
			BackendSpecific: map[string]any{
				"stdout": string(stdout),
				"stderr": string(stderr),
			},
		},
	}, nil
}

// buildArgs builds edge-tts command-line arguments.
func (b *Backend) buildArgs(req *backend.Request) []string {
	args := []string{
		"--file", "-",
		"--write-media", req.OutputPath,
	}

	if req.Voice != "" {
		args = append(args, "--voice", req.Voice)
	}

	// Request parameters win over configured options.
	// The key=value form keeps values such as "-10%" from being read as flags.
	for _, key := range []string{"rate", "volume", "pitch"} {
		v := mapsafe.Lookup(key, "", req.Parameters, b.options)
		if v != "" {
			args = append(args, fmt.Sprintf("--%s=%s", key, v))
		}
	}

	return args
}

// Close cleans up resources. edge-tts does not have any resources to clean up.
func (b *Backend) Close() error {
	return nil
}
