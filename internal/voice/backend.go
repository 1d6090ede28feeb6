package voice

import (
	"context"
	"fmt"
	"time"

	"github.com/kentarow/yadori-sub004/internal/core"
	"github.com/kentarow/yadori-sub004/internal/growth"
	"github.com/kentarow/yadori-sub004/internal/species"
	"github.com/kentarow/yadori-sub004/internal/voice/degrade"
	"github.com/kentarow/yadori-sub004/internal/voice/wav"
)

// Operation bounds applied when options leave them unset.
const (
	DefaultGenerateTimeout = 15 * time.Second
	DefaultHealthTimeout   = 5 * time.Second

	// DefaultMaxAudioBytes bounds the waveform a backend may return,
	// protecting the process from a misbehaving mechanism.
	DefaultMaxAudioBytes = 16 << 20
)

// WAVFormat tags every response produced by the local backends.
const WAVFormat = "wav"

// preparedRequest is the validated, parameter-mapped form of a VoiceRequest.
type preparedRequest struct {
	text     string
	params   Params
	maturity int
}

// prepareRequest validates a request and computes its acoustic parameters.
// Generation before the entity's maturity leaves zero fails with
// ErrPreVoiceStage.
func prepareRequest(req core.VoiceRequest) (preparedRequest, error) {
	text := normalizeText(req.Text)
	if text == "" {
		return preparedRequest{}, ErrEmptyText
	}

	maturity := growth.Maturity(req.GrowthDay, req.Species)
	if maturity == 0 {
		return preparedRequest{}, fmt.Errorf("%w: growth day %d", ErrPreVoiceStage, req.GrowthDay)
	}

	profile, err := species.ProfileFor(req.Species)
	if err != nil {
		return preparedRequest{}, err
	}

	return preparedRequest{
		text:     text,
		params:   MapParams(profile, req.Status),
		maturity: maturity,
	}, nil
}

// finalizeResponse validates the raw mechanism output as a waveform, applies
// maturity degradation, and assembles the response. Malformed output is a
// generation failure, never degraded audio.
func finalizeResponse(raw []byte, prep preparedRequest) (*core.VoiceResponse, error) {
	info, err := wav.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedOutput, err)
	}

	audio := degrade.Apply(raw, prep.maturity)

	return &core.VoiceResponse{
		Audio:      audio,
		Format:     WAVFormat,
		DurationMs: info.DurationMs(),
		Metadata: core.ResponseMetadata{
			Pitch:              prep.params.Pitch,
			Speed:              prep.params.Speed,
			EmotionalIntensity: prep.params.EmotionalIntensity,
		},
	}, nil
}

// generateContext derives the bounded context every generate call runs under.
func generateContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultGenerateTimeout
	}

	return context.WithTimeout(ctx, timeout)
}
