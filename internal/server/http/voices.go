package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ekisa-team/narrate/internal/service"
	"github.com/ekisa-team/narrate/internal/voice"
)

// VoicesOutput is the voice catalog response.
type VoicesOutput struct {
	Body voice.Catalog
}

// VoicesHandler handles HTTP requests for the voice catalog.
type VoicesHandler struct {
	service *service.Converter
}

// NewVoicesHandler creates a new VoicesHandler instance.
func NewVoicesHandler(api huma.API, service *service.Converter) *VoicesHandler {
	h := &VoicesHandler{service: service}

	huma.Register(api, huma.Operation{
		OperationID: "list-voices",
		Method:      http.MethodGet,
		Path:        "/voices",
		Summary:     "List available voices",
		Tags:        []string{"tts"},
	}, h.handleListVoices)

	return h
}

// handleListVoices handles the list-voices operation.
func (h *VoicesHandler) handleListVoices(_ context.Context, _ *struct{}) (*VoicesOutput, error) {
	return &VoicesOutput{Body: h.service.Voices()}, nil
}
