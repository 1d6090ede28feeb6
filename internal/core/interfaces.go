// Package core defines the shared types and contracts of the voice pipeline.
package core

import (
	"context"

	"github.com/kentarow/yadori-sub004/internal/species"
)

// ObjectStore defines the interface for interacting with a key-value blob store.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte) error
}

// StatusScaleMax is the upper bound of every emotional scalar.
const StatusScaleMax = 100

// LanguageLevelMax is the upper bound of the coarse language level.
const LanguageLevelMax = 5

// EmotionalStatus is the subset of the entity's state consumed by the voice
// pipeline. Each scalar is clamped to [0,100] before use; the pipeline never
// mutates the caller's copy.
type EmotionalStatus struct {
	Mood    int `json:"mood"`
	Energy  int `json:"energy"`
	Comfort int `json:"comfort"`
}

// Clamped returns a copy with every scalar forced into [0,100].
func (s EmotionalStatus) Clamped() EmotionalStatus {
	return EmotionalStatus{
		Mood:    clampInt(s.Mood, 0, StatusScaleMax),
		Energy:  clampInt(s.Energy, 0, StatusScaleMax),
		Comfort: clampInt(s.Comfort, 0, StatusScaleMax),
	}
}

// VoiceRequest carries everything a backend needs to synthesize one
// utterance. Requests are independent: backends hold no state between calls.
type VoiceRequest struct {
	Text          string          `json:"text"`
	Status        EmotionalStatus `json:"status"`
	Species       species.Species `json:"species"`
	GrowthDay     int             `json:"growthDay"`
	LanguageLevel int             `json:"languageLevel"`
}

// ResponseMetadata describes the acoustic parameters a response was
// synthesized with.
type ResponseMetadata struct {
	Pitch              float64 `json:"pitch"`
	Speed              float64 `json:"speed"`
	EmotionalIntensity int     `json:"emotionalIntensity"`
}

// VoiceResponse is the result of one successful generation.
type VoiceResponse struct {
	Audio      []byte           `json:"-"`
	Format     string           `json:"format"`
	DurationMs int              `json:"durationMs"`
	Metadata   ResponseMetadata `json:"metadata"`
}

// VoiceCapabilities is an advertised capability snapshot derived from the
// entity's maturity, used for status display rather than gating generation.
type VoiceCapabilities struct {
	CanSpeak       bool `json:"canSpeak"`
	MaxDurationMs  int  `json:"maxDurationMs"`
	EmotionalRange int  `json:"emotionalRange"`
	Clarity        int  `json:"clarity"`
	Uniqueness     int  `json:"uniqueness"`
}

// HealthResult is the outcome of a backend health probe. Probes always
// return a result value; they never panic or propagate an error.
type HealthResult struct {
	Available bool
	Detail    string
}

// VoiceBackend is the uniform adapter contract implemented by every synthesis
// variant, including the no-voice variant. Implementations are stateless
// between calls, so independent requests may be served concurrently and in
// any order.
type VoiceBackend interface {
	// Initialize verifies the backend is actually usable, for example by
	// probing the external synthesis tool for a version response.
	Initialize(ctx context.Context) error

	// CheckHealth is a fast non-destructive availability probe.
	CheckHealth(ctx context.Context) HealthResult

	// GetCapabilities computes a capability snapshot for a growth day.
	GetCapabilities(growthDay int) VoiceCapabilities

	// Generate synthesizes one utterance, applying maturity degradation
	// to the produced waveform.
	Generate(ctx context.Context, req VoiceRequest) (*VoiceResponse, error)

	// Shutdown releases held resources. Safe to call repeatedly.
	Shutdown() error

	// Name identifies the backend variant for logs and status display.
	Name() string
}

func clampInt(v, low, high int) int {
	if v < low {
		return low
	}

	if v > high {
		return high
	}

	return v
}
