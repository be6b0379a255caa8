package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Built-in defaults, used for every key the config file leaves out.
const (
	DefaultPort                   = 5000
	DefaultMaxTextLength          = 500_000
	DefaultMaxConcurrentSyntheses = 4
	DefaultFetchTimeoutSeconds    = 30
	DefaultFetchMaxBytes          = 10 << 20
	DefaultSynthesisTimeout       = 300
	DefaultBackend                = "edge"
	DefaultEdgeBinPath            = "edge-tts"
	DefaultPollyEngine            = "neural"
	DefaultUserAgent              = "Mozilla/5.0 (compatible; narrate/1.0; +https://github.com/ekisa-team/narrate)"
)

// Default returns a configuration populated with built-in defaults.
func Default() *Config {
	cfg := &Config{Version: "1"}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills zero values with built-in defaults.
func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadHeaderTimeoutSeconds == 0 {
		c.Server.ReadHeaderTimeoutSeconds = 10
	}
	if c.Server.ShutdownTimeoutSeconds == 0 {
		c.Server.ShutdownTimeoutSeconds = 15
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 4 << 20
	}
	if c.Limits.MaxTextLength == 0 {
		c.Limits.MaxTextLength = DefaultMaxTextLength
	}
	if c.Limits.MaxConcurrentSyntheses == 0 {
		c.Limits.MaxConcurrentSyntheses = DefaultMaxConcurrentSyntheses
	}
	if c.Fetch.TimeoutSeconds == 0 {
		c.Fetch.TimeoutSeconds = DefaultFetchTimeoutSeconds
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = DefaultUserAgent
	}
	if c.Fetch.MaxBytes == 0 {
		c.Fetch.MaxBytes = DefaultFetchMaxBytes
	}
	if c.Synthesis.Backend == "" {
		c.Synthesis.Backend = DefaultBackend
	}
	if c.Synthesis.TimeoutSeconds == 0 {
		c.Synthesis.TimeoutSeconds = DefaultSynthesisTimeout
	}
	if c.Synthesis.Edge.BinPath == "" {
		c.Synthesis.Edge.BinPath = DefaultEdgeBinPath
	}
	if c.Synthesis.Polly.Engine == "" {
		c.Synthesis.Polly.Engine = DefaultPollyEngine
	}
}

// DefaultConfigPath returns the default path for the narrate config directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "narrate", "config")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "narrate")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "narrate")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "narrate")
		}
		return filepath.Join(home, ".config", "narrate")
	}
}
