package config

import (
	"errors"
	"time"
)

// Config holds the main configuration for the application.
type Config struct {
	Version   string          `json:"version"             yaml:"version"`
	Server    ServerConfig    `json:"server,omitempty"    yaml:"server,omitempty"`
	Limits    LimitsConfig    `json:"limits,omitempty"    yaml:"limits,omitempty"`
	Fetch     FetchConfig     `json:"fetch,omitempty"     yaml:"fetch,omitempty"`
	Synthesis SynthesisConfig `json:"synthesis,omitempty" yaml:"synthesis,omitempty"`
}

// ServerConfig holds configuration for the HTTP listener.
type ServerConfig struct {
	Port                     int   `json:"port,omitempty"                        yaml:"port,omitempty"`
	ReadHeaderTimeoutSeconds int   `json:"read_header_timeout_seconds,omitempty" yaml:"read_header_timeout_seconds,omitempty"`
	ShutdownTimeoutSeconds   int   `json:"shutdown_timeout_seconds,omitempty"    yaml:"shutdown_timeout_seconds,omitempty"`
	MaxBodyBytes             int64 `json:"max_body_bytes,omitempty"              yaml:"max_body_bytes,omitempty"`
}

// LimitsConfig holds per-request and process-wide limits.
type LimitsConfig struct {
	MaxTextLength          int `json:"max_text_length,omitempty"          yaml:"max_text_length,omitempty"`
	MaxConcurrentSyntheses int `json:"max_concurrent_syntheses,omitempty" yaml:"max_concurrent_syntheses,omitempty"`
}

// FetchConfig holds configuration for retrieving URLs.
type FetchConfig struct {
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
	UserAgent      string `json:"user_agent,omitempty"      yaml:"user_agent,omitempty"`
	MaxBytes       int64  `json:"max_bytes,omitempty"       yaml:"max_bytes,omitempty"`
}

// SynthesisConfig selects and configures the speech backend.
type SynthesisConfig struct {
	Backend        string      `json:"backend,omitempty"         yaml:"backend,omitempty"`
	DefaultVoice   string      `json:"default_voice,omitempty"   yaml:"default_voice,omitempty"`
	TimeoutSeconds int         `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
	TempDir        string      `json:"temp_dir,omitempty"        yaml:"temp_dir,omitempty"`
	Edge           EdgeConfig  `json:"edge,omitempty"            yaml:"edge,omitempty"`
	Polly          PollyConfig `json:"polly,omitempty"           yaml:"polly,omitempty"`
}

// EdgeConfig configures the edge-tts command line backend.
type EdgeConfig struct {
	BinPath string         `json:"bin_path,omitempty" yaml:"bin_path,omitempty"`
	Options map[string]any `json:"options,omitempty"  yaml:"options,omitempty"`
}

// PollyConfig configures the Amazon Polly backend.
type PollyConfig struct {
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
	Engine string `json:"engine,omitempty" yaml:"engine,omitempty"`
}

// ErrUnknownBackend is returned when synthesis.backend names no known backend.
var ErrUnknownBackend = errors.New("unknown synthesis backend")

// FetchTimeout returns the URL fetch timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// SynthesisTimeout returns the synthesis timeout.
func (c *Config) SynthesisTimeout() time.Duration {
	return time.Duration(c.Synthesis.TimeoutSeconds) * time.Second
}

// ReadHeaderTimeout returns the HTTP read header timeout.
func (c *Config) ReadHeaderTimeout() time.Duration {
	return time.Duration(c.Server.ReadHeaderTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}
