package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.yaml.in/yaml/v3"

	"github.com/ekisa-team/narrate/internal/envvar"
	"github.com/ekisa-team/narrate/internal/xfs"
)

const schemaURL = "narrate.v1.schema.json"

//go:embed schema.json
var schemaJSON []byte

// Schema returns the compiled configuration schema.
func Schema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("config: failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("config: failed to compile schema: %w", err)
	}

	return schema, nil
}

// Load reads the config at path, falling back to defaults when the file does not exist.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	path = xfs.ExpandTilde(path)

	cfg, err := LoadAndValidate(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadAndValidate loads and validates the configuration.
func LoadAndValidate(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read config: %w", err)
	}

	return Parse(data)
}

// Parse validates raw YAML against the schema and decodes it.
func Parse(data []byte) (*Config, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: invalid YAML: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	schema, err := Schema()
	if err != nil {
		return nil, err
	}

	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal into Config struct: %w", err)
	}

	config.applyDefaults()
	config.Synthesis.TempDir = xfs.ExpandTilde(config.Synthesis.TempDir)

	return &config, nil
}

// ApplyEnv applies environment overrides. PORT wins over server.port.
func (c *Config) ApplyEnv() error {
	v := os.Getenv(envvar.Port)
	if v == "" {
		return nil
	}

	port, err := strconv.Atoi(v)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("config: invalid %s %q", envvar.Port, v)
	}
	c.Server.Port = port

	return nil
}
