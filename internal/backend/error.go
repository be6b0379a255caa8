package backend

import "errors"

// Error definitions for the backend package.
var (
	ErrNotFound          = errors.New("backend not found in registry")
	ErrAlreadyRegistered = errors.New("backend is already registered in the registry")
	ErrEmptyText         = errors.New("text cannot be empty")
	ErrEmptyOutput       = errors.New("backend produced no audio")
	ErrOutputPathEmpty   = errors.New("output path cannot be empty")
)
