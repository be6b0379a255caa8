// Package polly implements speech synthesis with Amazon Polly.
package polly

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/polly"
	"github.com/aws/aws-sdk-go/service/polly/pollyiface"
	"golang.org/x/sync/errgroup"

	"github.com/ekisa-team/narrate/internal/backend"
	"github.com/ekisa-team/narrate/internal/voice"
)

// MaxCharactersPerRequest stays under Polly's per-request text limit.
const MaxCharactersPerRequest = 2800

// maxInFlight bounds concurrent Polly requests for one synthesis.
const maxInFlight = 4

var (
	newlines = regexp.MustCompile(`\n+`)
	spaces   = regexp.MustCompile(` +`)
)

// Ensure backend implements interface.
var _ backend.Backend = &Backend{}

// Backend implements backend.Backend for Amazon Polly.
type Backend struct {
	client pollyiface.PollyAPI
	engine string
}

// NewBackend creates a Polly backend bound to sess.
func NewBackend(sess *session.Session, engine string) *Backend {
	return NewBackendWithClient(polly.New(sess), engine)
}

// NewBackendWithClient creates a backend around an existing Polly client.
func NewBackendWithClient(client pollyiface.PollyAPI, engine string) *Backend {
	if engine == "" {
		engine = polly.EngineNeural
	}
	return &Backend{client: client, engine: engine}
}

// Provider returns the backend provider.
func (b *Backend) Provider() backend.Provider {
	return backend.ProviderPolly
}

// Catalog returns the advertised Polly voices.
func (b *Backend) Catalog() voice.Catalog {
	return voice.Polly
}

// Synthesize encodes text to speech.
// Long text is split into chunks that are synthesized in parallel and
// appended to req.OutputPath in order; MP3 frame streams concatenate cleanly.
func (b *Backend) Synthesize(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, backend.ErrEmptyText
	}
	if req.OutputPath == "" {
		return nil, backend.ErrOutputPathEmpty
	}

	start := time.Now()
	chunks := splitTextOnParagraphs(req.Text, MaxCharactersPerRequest)
	audio := make([][]byte, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInFlight)
	for i, chunk := range chunks {
		slog.Debug("Synthesizing chunk", "provider", b.Provider(), "index", i, "len", len(chunk))

		g.Go(func() error {
			data, err := b.synthesizeChunk(gctx, chunk, req.Voice)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			audio[i] = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(req.OutputPath, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	var written int64
	for _, data := range audio {
		n, err := f.Write(data)
		written += int64(n)
		if err != nil {
			return nil, fmt.Errorf("failed to write audio file: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close audio file: %w", err)
	}
	if written == 0 {
		return nil, backend.ErrEmptyOutput
	}

	return &backend.Response{
		Metadata: &backend.ResponseMetadata{
			Provider:    b.Provider(),
			Voice:       req.Voice,
			Timestamp:   time.Now(),
			Duration:    time.Since(start),
			OutputBytes: written,
			BackendSpecific: map[string]any{
				"engine": b.engine,
				"chunks": len(chunks),
			},
		},
	}, nil
}

// synthesizeChunk synthesizes a single chunk of text in memory.
func (b *Backend) synthesizeChunk(ctx context.Context, text, voiceID string) ([]byte, error) {
	resp, err := b.client.SynthesizeSpeechWithContext(ctx, &polly.SynthesizeSpeechInput{
		Engine:       aws.String(b.engine),
		OutputFormat: aws.String(polly.OutputFormatMp3),
		VoiceId:      aws.String(voiceID),
		Text:         aws.String(text),
	})
	if err != nil {
		return nil, err
	}
	defer resp.AudioStream.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.AudioStream); err != nil {
		return nil, fmt.Errorf("failed to read audio stream: %w", err)
	}
	return buf.Bytes(), nil
}

// Close cleans up resources. The Polly client holds none.
func (b *Backend) Close() error {
	return nil
}

// splitTextOnParagraphs splits into chunks of at most maxChars bytes.
func splitTextOnParagraphs(text string, maxChars int) []string {
	var chunks []string
	for _, line := range newlines.Split(strings.TrimSpace(text), -1) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// If line is too large for one chunk then split on words.
		if len(line) > maxChars {
			chunks = append(chunks, splitTextOnWords(line, maxChars)...)
			continue
		}

		// Start a new chunk when this is the first line or adding it would exceed max.
		if len(chunks) == 0 || len(chunks[len(chunks)-1])+1+len(line) > maxChars {
			chunks = append(chunks, line)
			continue
		}

		// Append to last chunk.
		chunks[len(chunks)-1] += "\n" + line
	}

	return chunks
}

// splitTextOnWords splits into max length chunks at word boundaries.
// A single word longer than maxChars is cut.
func splitTextOnWords(text string, maxChars int) []string {
	var chunks []string
	for _, word := range spaces.Split(text, -1) {
		for len(word) > maxChars {
			cut := maxChars
			for cut > 1 && !utf8.RuneStart(word[cut]) {
				cut--
			}
			chunks = append(chunks, word[:cut])
			word = word[cut:]
		}
		if word == "" {
			continue
		}

		if len(chunks) == 0 || len(chunks[len(chunks)-1])+1+len(word) > maxChars {
			chunks = append(chunks, word)
			continue
		}

		chunks[len(chunks)-1] += " " + word
	}

	return chunks
}
