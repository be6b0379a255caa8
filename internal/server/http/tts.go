package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ekisa-team/narrate/internal/service"
)

const (
	audioContentType = "audio/mpeg"
	audioFilename    = "audio.mp3"
	maxFormMemory    = 8 << 20
)

var errUnsupportedMediaType = errors.New("unsupported content type")

// parameterKeys are the synthesis parameters a form body may carry as plain fields.
var parameterKeys = []string{"rate", "volume", "pitch"}

type (
	// ConvertRequestDTO holds the parameters of a conversion, from either a JSON or a form body.
	ConvertRequestDTO struct {
		URL        string         `json:"url,omitempty"        doc:"URL to extract text from (optional)"`
		Text       string         `json:"text,omitempty"       doc:"Raw text to convert (optional, use either url or text)"`
		Voice      string         `json:"voice,omitempty"      doc:"Voice to use"`
		Accent     string         `json:"accent,omitempty"     doc:"Alias of voice"`
		Parameters map[string]any `json:"parameters,omitempty" doc:"Backend parameters such as rate, volume and pitch (e.g. +10%)"`
	}
)

type (
	// ConvertInput carries the undecoded body; decodeConvertRequest picks the format.
	ConvertInput struct {
		ContentType string `header:"Content-Type"`
		RawBody     []byte
	}
)

// TTSHandler handles HTTP requests for TTS.
type TTSHandler struct {
	service *service.Converter
}

// NewTTSHandler creates a new TTSHandler instance.
func NewTTSHandler(api huma.API, service *service.Converter, maxBodyBytes int64) *TTSHandler {
	h := &TTSHandler{service: service}

	schema := api.OpenAPI().Components.Schemas.Schema(reflectType[ConvertRequestDTO](), true, "ConvertRequest")

	huma.Register(api, huma.Operation{
		OperationID:   "convert",
		Method:        http.MethodPost,
		Path:          "/tts",
		Summary:       "Convert text or URL to audio",
		Tags:          []string{"tts"},
		DefaultStatus: http.StatusOK,
		MaxBodyBytes:  maxBodyBytes,

		// The body is JSON or a form; huma can only validate the former.
		SkipValidateBody: true,

		RequestBody: &huma.RequestBody{
			Description: "Either url or text is required.",
			Content: map[string]*huma.MediaType{
				"application/json":                  {Schema: schema},
				"application/x-www-form-urlencoded": {Schema: schema},
				"multipart/form-data":               {Schema: schema},
			},
		},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "MP3 audio attachment",
				Content: map[string]*huma.MediaType{
					audioContentType: {Schema: &huma.Schema{Type: huma.TypeString, Format: "binary"}},
				},
			},
		},
	}, h.handleConvert)

	return h
}

// handleConvert handles the convert operation.
func (h *TTSHandler) handleConvert(ctx context.Context, input *ConvertInput) (*huma.StreamResponse, error) {
	dto, err := decodeConvertRequest(input.ContentType, input.RawBody)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	voiceID := dto.Voice
	if strings.TrimSpace(voiceID) == "" {
		voiceID = dto.Accent
	}

	audio, err := h.service.Convert(ctx, &service.Request{
		URL:   dto.URL,
		Text:  dto.Text,
		Voice:      voiceID,
		Parameters: dto.Parameters,
	})
	if err != nil {
		return nil, convertError(err)
	}

	return &huma.StreamResponse{
		Body: func(hctx huma.Context) {
			// The file goes away once the body is sent, even if sending fails.
			defer audio.Close()

			f, err := audio.Open()
			if err != nil {
				slog.Error("Failed to open audio file", "conversion_id", audio.ID, "error", err)
				hctx.SetHeader("Content-Type", "application/json")
				hctx.SetStatus(http.StatusInternalServerError)
				_ = json.NewEncoder(hctx.BodyWriter()).Encode(&ErrorBody{Message: "Failed to generate audio: audio file unavailable"})
				return
			}
			defer f.Close()

			hctx.SetHeader("Content-Type", audioContentType)
			hctx.SetHeader("Content-Disposition", fmt.Sprintf("attachment; filename=%q", audioFilename))
			hctx.SetHeader("Content-Length", strconv.FormatInt(audio.Size, 10))
			hctx.SetStatus(http.StatusOK)

			if _, err := io.Copy(hctx.BodyWriter(), f); err != nil {
				slog.Warn("Failed to send audio", "conversion_id", audio.ID, "error", err)
			}
		},
	}, nil
}

// decodeConvertRequest reads the parameters from a JSON or form body.
func decodeConvertRequest(contentType string, body []byte) (ConvertRequestDTO, error) {
	var dto ConvertRequestDTO

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = ""
	}

	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		return decodeJSON(body)

	case mediaType == "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return dto, fmt.Errorf("invalid form body: %w", err)
		}
		return fromValues(values), nil

	case mediaType == "multipart/form-data":
		form, err := multipart.NewReader(bytes.NewReader(body), params["boundary"]).ReadForm(maxFormMemory)
		if err != nil {
			return dto, fmt.Errorf("invalid multipart body: %w", err)
		}
		defer form.RemoveAll()
		return fromValues(form.Value), nil

	case mediaType == "" || mediaType == "text/plain":
		// Clients that omit the content type get a best-effort guess.
		trimmed := bytes.TrimSpace(body)
		if len(trimmed) == 0 {
			return dto, nil
		}
		if trimmed[0] == '{' {
			return decodeJSON(trimmed)
		}
		values, err := url.ParseQuery(string(trimmed))
		if err != nil {
			return dto, fmt.Errorf("invalid form body: %w", err)
		}
		return fromValues(values), nil

	default:
		return dto, fmt.Errorf("%w %q: use application/json or a form body", errUnsupportedMediaType, mediaType)
	}
}

func decodeJSON(body []byte) (ConvertRequestDTO, error) {
	var dto ConvertRequestDTO
	if len(bytes.TrimSpace(body)) == 0 {
		return dto, nil
	}
	if err := json.Unmarshal(body, &dto); err != nil {
		return dto, fmt.Errorf("invalid JSON body: %w", err)
	}
	return dto, nil
}

func fromValues(values map[string][]string) ConvertRequestDTO {
	get := func(key string) string {
		if v := values[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	dto := ConvertRequestDTO{
		URL:    get("url"),
		Text:   get("text"),
		Voice:  get("voice"),
		Accent: get("accent"),
	}

	for _, key := range parameterKeys {
		if v := get(key); v != "" {
			if dto.Parameters == nil {
				dto.Parameters = make(map[string]any, len(parameterKeys))
			}
			dto.Parameters[key] = v
		}
	}

	return dto
}
