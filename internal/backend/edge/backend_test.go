package edge

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/narrate/internal/backend"
)

// fakeEdge mimics edge-tts: it writes fake MP3 bytes to the --write-media path.
type fakeEdge struct {
	args  []string
	stdin string
	audio []byte
	err   error
}

func (f *fakeEdge) Run(_ context.Context, _ string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	f.args = args
	b, _ := io.ReadAll(stdin)
	f.stdin = string(b)

	if f.err != nil {
		return nil, []byte("No audio was received"), f.err
	}

	for i, a := range args {
		if a == "--write-media" {
			if err := os.WriteFile(args[i+1], f.audio, 0o600); err != nil {
				return nil, nil, err
			}
		}
	}
	return nil, nil, nil
}

func newTestBackend(runner backend.CommandRunner, options map[string]any) *Backend {
	return NewBackendWithExecutor(backend.NewExecutorWithRunner("edge-tts", time.Second, runner), options)
}

func tempOutput(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "out.mp3")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	return path
}

func TestBackend_Synthesize(t *testing.T) {
	runner := &fakeEdge{audio: []byte("ID3fake-mp3")}
	b := newTestBackend(runner, map[string]any{"rate": "-10%"})
	out := tempOutput(t)

	resp, err := b.Synthesize(context.Background(), &backend.Request{
		Text:       "Hello world",
		Voice:      "en-GB-SoniaNeural",
		OutputPath: out,
		Parameters: map[string]any{"pitch": "+5Hz"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello world", runner.stdin)
	assert.Equal(t, []string{
		"--file", "-",
		"--write-media", out,
		"--voice", "en-GB-SoniaNeural",
		"--rate=-10%",
		"--pitch=+5Hz",
	}, runner.args)

	assert.Equal(t, backend.ProviderEdge, resp.Metadata.Provider)
	assert.Equal(t, int64(len("ID3fake-mp3")), resp.Metadata.OutputBytes)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "ID3fake-mp3", string(data))
}

func TestBackend_SynthesizeFailure(t *testing.T) {
	b := newTestBackend(&fakeEdge{err: errors.New("exit status 1")}, nil)

	_, err := b.Synthesize(context.Background(), &backend.Request{Text: "Hi", OutputPath: tempOutput(t)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No audio was received")
}

func TestBackend_EmptyOutput(t *testing.T) {
	b := newTestBackend(&fakeEdge{}, nil)

	_, err := b.Synthesize(context.Background(), &backend.Request{Text: "Hi", OutputPath: tempOutput(t)})
	assert.ErrorIs(t, err, backend.ErrEmptyOutput)
}

func TestBackend_InvalidRequest(t *testing.T) {
	b := newTestBackend(&fakeEdge{}, nil)

	_, err := b.Synthesize(context.Background(), &backend.Request{Text: "  ", OutputPath: "x.mp3"})
	assert.ErrorIs(t, err, backend.ErrEmptyText)

	_, err = b.Synthesize(context.Background(), &backend.Request{Text: "Hi"})
	assert.ErrorIs(t, err, backend.ErrOutputPathEmpty)
}

func TestBackend_Catalog(t *testing.T) {
	b := newTestBackend(&fakeEdge{}, nil)
	assert.Equal(t, "en-US-AriaNeural", b.Catalog().Default)
	assert.NoError(t, b.Close())
}
