package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogs_DefaultIsAdvertised(t *testing.T) {
	for name, c := range map[string]Catalog{"edge": Edge, "polly": Polly} {
		assert.True(t, c.Contains(c.Default), name)
		assert.NotEmpty(t, c.Popular.Female, name)
		assert.NotEmpty(t, c.Popular.Male, name)
	}
}

func TestCatalog_Contains(t *testing.T) {
	assert.True(t, Edge.Contains("en-GB-RyanNeural"))
	assert.False(t, Edge.Contains("Joanna"))
	assert.False(t, Edge.Contains(""))
}

func TestCatalog_WithDefault(t *testing.T) {
	c := Edge.WithDefault("en-US-GuyNeural")
	assert.Equal(t, "en-US-GuyNeural", c.Default)
	assert.Equal(t, "en-US-AriaNeural", Edge.Default)

	c.Popular.Male[0].ID = "changed"
	assert.Equal(t, "en-US-AndrewNeural", Edge.Popular.Male[0].ID)

	assert.Equal(t, Edge, Edge.WithDefault(""))
}
