package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ekisa-team/narrate/internal/service"
)

type (
	ParameterDescriptor map[string]string

	EndpointDescriptor struct {
		Description string              `json:"description"`
		Parameters  ParameterDescriptor `json:"parameters,omitempty"`
	}

	ServiceDescriptorDTO struct {
		Service   string         `json:"service"`
		Endpoints map[string]any `json:"endpoints"`
	}

	HealthDTO struct {
		Status  string `json:"status"`
		Backend string `json:"backend"`
	}
)

type (
	IndexOutput struct {
		Body ServiceDescriptorDTO
	}

	HealthOutput struct {
		Body HealthDTO
	}
)

// IndexHandler describes the service.
type IndexHandler struct {
	service *service.Converter
}

// NewIndexHandler creates a new IndexHandler instance.
func NewIndexHandler(api huma.API, service *service.Converter) *IndexHandler {
	h := &IndexHandler{service: service}

	huma.Register(api, huma.Operation{
		OperationID: "index",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Describe the service endpoints",
		Tags:        []string{"meta"},
	}, h.handleIndex)

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Report service health",
		Tags:        []string{"meta"},
	}, h.handleHealth)

	return h
}

// handleIndex handles the index operation.
func (h *IndexHandler) handleIndex(_ context.Context, _ *struct{}) (*IndexOutput, error) {
	return &IndexOutput{
		Body: ServiceDescriptorDTO{
			Service: "Text-to-Speech API",
			Endpoints: map[string]any{
				"POST /tts": EndpointDescriptor{
					Description: "Convert text or URL to audio",
					Parameters: ParameterDescriptor{
						"url":   "URL to extract text from (optional)",
						"text":  "Raw text to convert (optional, use either url or text)",
						"voice": fmt.Sprintf("Voice to use (default: %s)", h.service.DefaultVoice()),
					},
				},
				"GET /voices": "List available voices",
			},
		},
	}, nil
}

// handleHealth handles the health operation.
func (h *IndexHandler) handleHealth(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	return &HealthOutput{
		Body: HealthDTO{
			Status:  "ok",
			Backend: string(h.service.Provider()),
		},
	}, nil
}
