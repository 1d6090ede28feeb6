package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/book-expert/logger"

	"github.com/kentarow/yadori-sub004/internal/core"
	"github.com/kentarow/yadori-sub004/internal/species"
)

// API endpoints and paths of the local StyleTTS2 server.
const (
	apiGenerateSpeech = "/v1/generate/speech"
	apiHealth         = "/health"
)

// HTTP headers.
const (
	headerContentType = "Content-Type"
	headerAccept      = "Accept"
	contentTypeJSON   = "application/json"
	contentTypeWAV    = "audio/wav"
)

const styleTTS2DefaultURL = "http://localhost:8001"

// styleTTS2Request is the JSON payload sent to the synthesis server. The
// fields carry the computed acoustic parameters in the server's native
// ranges; each map from the computed value is monotonic.
type styleTTS2Request struct {
	Text    string  `json:"text"`
	Pitch   float64 `json:"pitch"`
	Speed   float64 `json:"speed"`
	Volume  float64 `json:"volume"`
	Variant string  `json:"variant"`
}

// styleTTS2ErrorResponse is the structured error body of a failed request.
type styleTTS2ErrorResponse struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code,omitempty"`
}

// StyleTTS2Backend synthesizes speech through a local StyleTTS2-style HTTP
// server. It is the heavy local tier; when the server cannot be reached the
// selection controller falls back to the piper tier.
type StyleTTS2Backend struct {
	httpClient     *http.Client
	baseURL        string
	defaultSpecies species.Species
	healthTimeout  time.Duration
	maxAudioBytes  int64
	log            *logger.Logger
}

// NewStyleTTS2Backend creates a styletts2-class backend.
func NewStyleTTS2Backend(opts Options, log *logger.Logger) *StyleTTS2Backend {
	baseURL := opts.StyleTTS2URL
	if baseURL == "" {
		baseURL = styleTTS2DefaultURL
	}

	timeout := opts.GenerateTimeout
	if timeout <= 0 {
		timeout = DefaultGenerateTimeout
	}

	return &StyleTTS2Backend{
		httpClient:     &http.Client{Timeout: timeout},
		baseURL:        baseURL,
		defaultSpecies: opts.DefaultSpecies,
		healthTimeout:  opts.HealthTimeout,
		maxAudioBytes:  opts.maxBytes(),
		log:            log,
	}
}

// Name identifies the backend variant.
func (b *StyleTTS2Backend) Name() string {
	return "styletts2"
}

// Initialize verifies the synthesis server is reachable and healthy.
func (b *StyleTTS2Backend) Initialize(ctx context.Context) error {
	health := b.CheckHealth(ctx)
	if !health.Available {
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, health.Detail)
	}

	return nil
}

// CheckHealth probes the server's health endpoint. Always returns a result
// value.
func (b *StyleTTS2Backend) CheckHealth(ctx context.Context) core.HealthResult {
	timeout := b.healthTimeout
	if timeout <= 0 {
		timeout = DefaultHealthTimeout
	}

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := b.baseURL + apiHealth

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return core.HealthResult{Available: false, Detail: err.Error()}
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return core.HealthResult{Available: false, Detail: err.Error()}
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return core.HealthResult{
			Available: false,
			Detail:    fmt.Sprintf("health endpoint returned %s", resp.Status),
		}
	}

	return core.HealthResult{Available: true, Detail: ""}
}

// GetCapabilities reports the capability snapshot for the backend's default
// species at a growth day.
func (b *StyleTTS2Backend) GetCapabilities(growthDay int) core.VoiceCapabilities {
	return CapabilitiesFor(growthDay, b.defaultSpecies)
}

// Generate synthesizes one utterance through the HTTP server and applies
// maturity degradation to the returned waveform.
func (b *StyleTTS2Backend) Generate(ctx context.Context, req core.VoiceRequest) (*core.VoiceResponse, error) {
	prep, err := prepareRequest(req)
	if err != nil {
		return nil, err
	}

	raw, genErr := b.requestSpeech(ctx, prep, req.Species)
	if genErr != nil {
		return nil, genErr
	}

	return finalizeResponse(raw, prep)
}

// Shutdown closes idle connections. Safe to call repeatedly.
func (b *StyleTTS2Backend) Shutdown() error {
	b.httpClient.CloseIdleConnections()

	return nil
}

// requestSpeech performs the synthesis POST and returns the raw waveform.
func (b *StyleTTS2Backend) requestSpeech(
	ctx context.Context,
	prep preparedRequest,
	s species.Species,
) ([]byte, error) {
	payload := styleTTS2Request{
		Text:    prep.text,
		Pitch:   prep.params.Pitch,
		Speed:   prep.params.Speed,
		Volume:  prep.params.Volume,
		Variant: variantFor(s),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	runCtx, cancel := generateContext(ctx, b.httpClient.Timeout)
	defer cancel()

	url := b.baseURL + apiGenerateSpeech

	httpReq, err := http.NewRequestWithContext(runCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesis request: %w", err)
	}

	httpReq.Header.Set(headerContentType, contentTypeJSON)
	httpReq.Header.Set(headerAccept, contentTypeWAV)

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrMechanismTimeout, b.baseURL)
		}

		return nil, fmt.Errorf("%w: %s", ErrMechanismFailure, err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, b.parseErrorResponse(resp)
	}

	contentType := resp.Header.Get(headerContentType)
	if contentType != contentTypeWAV {
		return nil, fmt.Errorf("%w: unexpected content type %q", ErrMalformedOutput, contentType)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, b.maxAudioBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %s", ErrMechanismFailure, err)
	}

	if int64(len(raw)) > b.maxAudioBytes {
		return nil, fmt.Errorf("%w: server produced more than %d bytes", ErrOutputTooLarge, b.maxAudioBytes)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty response body", ErrMalformedOutput)
	}

	return raw, nil
}

// parseErrorResponse decodes a structured JSON error from the server,
// falling back to the raw body so diagnostics are preserved.
func (b *StyleTTS2Backend) parseErrorResponse(resp *http.Response) error {
	var errorResp styleTTS2ErrorResponse

	err := json.NewDecoder(resp.Body).Decode(&errorResp)
	if err == nil && errorResp.Detail != "" {
		return fmt.Errorf(
			"%w: %s: %s (code: %s)",
			ErrMechanismFailure, resp.Status, errorResp.Detail, errorResp.ErrorCode,
		)
	}

	body, _ := io.ReadAll(resp.Body)

	return fmt.Errorf("%w: %s: %s", ErrMechanismFailure, resp.Status, string(body))
}
