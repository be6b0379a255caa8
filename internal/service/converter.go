package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/ekisa-team/narrate/internal/backend"
	"github.com/ekisa-team/narrate/internal/config"
	"github.com/ekisa-team/narrate/internal/extract"
	"github.com/ekisa-team/narrate/internal/fetch"
	"github.com/ekisa-team/narrate/internal/voice"
)

const extractionHint = "Could not extract text from URL. " +
	"The page may be paywalled, require a login, or be rendered with JavaScript."

// Request is a conversion request as received from the caller.
type Request struct {
	URL        string
	Text       string
	Voice      string
	Parameters map[string]any
}

// settings is an immutable snapshot of the values a conversion depends on.
type settings struct {
	maxTextLength    int
	fetchTimeout     time.Duration
	synthesisTimeout time.Duration
	defaultVoice     string
	tempDir          string
	backend          backend.Backend
	fetcher          fetch.Fetcher
}

// Converter turns text or a web page into an MP3 file.
type Converter struct {
	backends   *backend.Registry
	extractor  extract.Extractor
	newFetcher func(*config.Config) fetch.Fetcher
	sem        *semaphore.Weighted
	settings   atomic.Pointer[settings]
}

// Option configures a Converter.
type Option func(*Converter)

// WithFetcher makes the converter use f instead of an HTTP fetcher built from config.
func WithFetcher(f fetch.Fetcher) Option {
	return func(c *Converter) {
		c.newFetcher = func(*config.Config) fetch.Fetcher { return f }
	}
}

// WithExtractor replaces the default readability extractor.
func WithExtractor(e extract.Extractor) Option {
	return func(c *Converter) { c.extractor = e }
}

// NewConverter creates a Converter using the backend named in cfg.
// The synthesis concurrency limit is fixed for the lifetime of the converter.
func NewConverter(backends *backend.Registry, cfg *config.Config, opts ...Option) (*Converter, error) {
	c := &Converter{
		backends:   backends,
		extractor:  extract.NewReadability(),
		newFetcher: newHTTPFetcher,
		sem:        semaphore.NewWeighted(int64(max(cfg.Limits.MaxConcurrentSyntheses, 1))),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.Apply(cfg); err != nil {
		return nil, err
	}

	return c, nil
}

func newHTTPFetcher(cfg *config.Config) fetch.Fetcher {
	return fetch.NewHTTPFetcher(cfg.FetchTimeout(),
		fetch.WithUserAgent(cfg.Fetch.UserAgent),
		fetch.WithMaxBytes(cfg.Fetch.MaxBytes),
	)
}

// Apply swaps in the limits and backend of cfg. In-flight conversions keep
// the snapshot they started with.
func (c *Converter) Apply(cfg *config.Config) error {
	b, err := c.backends.MustGet(backend.Provider(cfg.Synthesis.Backend))
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrUnknownBackend, err)
	}

	defaultVoice := cfg.Synthesis.DefaultVoice
	if defaultVoice == "" {
		defaultVoice = b.Catalog().Default
	}

	c.settings.Store(&settings{
		maxTextLength:    cfg.Limits.MaxTextLength,
		fetchTimeout:     cfg.FetchTimeout(),
		synthesisTimeout: cfg.SynthesisTimeout(),
		defaultVoice:     defaultVoice,
		tempDir:          cfg.Synthesis.TempDir,
		backend:          b,
		fetcher:          c.newFetcher(cfg),
	})

	slog.Info("Converter configured",
		"backend", b.Provider(),
		"default_voice", defaultVoice,
		"max_text_length", cfg.Limits.MaxTextLength,
	)

	return nil
}

// Voices returns the catalog of the active backend.
func (c *Converter) Voices() voice.Catalog {
	s := c.settings.Load()
	return s.backend.Catalog().WithDefault(s.defaultVoice)
}

// DefaultVoice returns the voice used when a request names none.
func (c *Converter) DefaultVoice() string {
	return c.settings.Load().defaultVoice
}

// Provider returns the active backend provider.
func (c *Converter) Provider() backend.Provider {
	return c.settings.Load().backend.Provider()
}

// MaxTextLength returns the configured text limit in characters.
func (c *Converter) MaxTextLength() int {
	return c.settings.Load().maxTextLength
}

// Convert resolves the text of req and synthesizes it. On success the caller
// owns the returned Audio and must Close it once the file has been sent.
// Every error is a *Error whose Kind is one of the Err* values of this package.
func (c *Converter) Convert(ctx context.Context, req *Request) (*Audio, error) {
	src, err := NewSource(req.URL, req.Text)
	if err != nil {
		return nil, err
	}

	s := c.settings.Load()
	id := uuid.NewString()
	log := slog.With("conversion_id", id, "source", src.Kind)

	text := src.Value
	if src.Kind == SourceURL {
		text, err = c.resolveURL(ctx, s, src.Value)
		if err != nil {
			log.Warn("Failed to resolve URL", "url", src.Value, "error", err)
			return nil, err
		}
	}

	if n := utf8.RuneCountInString(text); n > s.maxTextLength {
		return nil, newError(ErrTextTooLong,
			fmt.Sprintf("Text too long (%d chars). Maximum is %d characters.", n, s.maxTextLength), nil)
	}

	voiceID := strings.TrimSpace(req.Voice)
	if voiceID == "" {
		voiceID = s.defaultVoice
	}

	audio, err := c.synthesize(ctx, s, id, text, voiceID, req.Parameters)
	if err != nil {
		log.Error("Failed to synthesize", "voice", voiceID, "error", err)
		return nil, err
	}

	log.Info("Conversion completed",
		"voice", voiceID,
		"chars", utf8.RuneCountInString(text),
		"bytes", audio.Size,
		"provider", s.backend.Provider(),
	)

	return audio, nil
}

// resolveURL fetches rawURL and extracts its article text.
func (c *Converter) resolveURL(ctx context.Context, s *settings, rawURL string) (string, error) {
	page, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		switch {
		case errors.Is(err, fetch.ErrInvalidURL):
			return "", newError(ErrInvalidInput, fmt.Sprintf("Invalid URL: %s", rawURL), err)
		case errors.Is(err, fetch.ErrTimeout):
			return "", newError(ErrFetchTimeout,
				fmt.Sprintf("Timed out fetching URL after %s: %s", s.fetchTimeout, rawURL), err)
		default:
			return "", newError(ErrFetchFailed, fmt.Sprintf("Could not fetch URL: %s (%v)", rawURL, err), err)
		}
	}

	text, err := c.extractor.Extract(ctx, page)
	if err != nil {
		return "", newError(ErrExtractionFailed, extractionHint, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", newError(ErrExtractionFailed, extractionHint, extract.ErrNoContent)
	}

	return text, nil
}

// synthesize renders text into a fresh temporary file. The file is removed on
// every failure path; on success ownership moves to the returned Audio.
func (c *Converter) synthesize(ctx context.Context, s *settings, id, text, voiceID string, params map[string]any) (_ *Audio, err error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, newError(ErrSynthesisFailed, fmt.Sprintf("Failed to generate audio: %v", err), err)
	}
	defer c.sem.Release(1)

	f, err := os.CreateTemp(s.tempDir, "narrate-"+id+"-*.mp3")
	if err != nil {
		return nil, newError(ErrSynthesisFailed, fmt.Sprintf("Failed to generate audio: %v", err), err)
	}
	audio := &Audio{ID: id, Path: f.Name(), Voice: voiceID}
	defer func() {
		if err != nil {
			audio.Close()
		}
	}()

	if err := f.Close(); err != nil {
		return nil, newError(ErrSynthesisFailed, fmt.Sprintf("Failed to generate audio: %v", err), err)
	}

	sctx, cancel := context.WithTimeout(ctx, s.synthesisTimeout)
	defer cancel()

	resp, err := s.backend.Synthesize(sctx, &backend.Request{
		Text:       text,
		Voice:      voiceID,
		OutputPath: audio.Path,
		Parameters: params,
	})
	if err != nil {
		if errors.Is(sctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", s.synthesisTimeout, err)
		}
		return nil, newError(ErrSynthesisFailed, fmt.Sprintf("Failed to generate audio: %v", err), err)
	}

	info, err := os.Stat(audio.Path)
	if err == nil && info.Size() == 0 {
		err = backend.ErrEmptyOutput
	}
	if err != nil {
		return nil, newError(ErrSynthesisFailed, fmt.Sprintf("Failed to generate audio: %v", err), err)
	}

	audio.Size = info.Size()
	if resp != nil {
		audio.Metadata = resp.Metadata
	}

	return audio, nil
}
