package voice

import (
	"context"
	"fmt"

	"github.com/kentarow/yadori-sub004/internal/core"
)

// NoneBackend is the terminal no-voice variant. It always reports that the
// entity cannot speak, fails every generation attempt, and never touches an
// underlying mechanism. Landing here is a valid quiet state, not an error
// state.
type NoneBackend struct {
	reason string
}

// NewNoneBackend creates the no-voice variant. The reason describes why the
// host ended up without a voice and is surfaced in health probes.
func NewNoneBackend(reason string) *NoneBackend {
	return &NoneBackend{reason: reason}
}

// Name identifies the backend variant.
func (b *NoneBackend) Name() string {
	return "none"
}

// Initialize always succeeds; there is nothing to set up.
func (b *NoneBackend) Initialize(_ context.Context) error {
	return nil
}

// CheckHealth reports the backend as unavailable with its settling reason.
func (b *NoneBackend) CheckHealth(_ context.Context) core.HealthResult {
	return core.HealthResult{Available: false, Detail: b.reason}
}

// GetCapabilities always reports a mute entity regardless of growth day.
func (b *NoneBackend) GetCapabilities(_ int) core.VoiceCapabilities {
	return core.VoiceCapabilities{
		CanSpeak:       false,
		MaxDurationMs:  0,
		EmotionalRange: 0,
		Clarity:        0,
		Uniqueness:     0,
	}
}

// Generate always fails with ErrVoiceUnavailable.
func (b *NoneBackend) Generate(_ context.Context, _ core.VoiceRequest) (*core.VoiceResponse, error) {
	return nil, fmt.Errorf("%w: %s", ErrVoiceUnavailable, b.reason)
}

// Shutdown is a no-op.
func (b *NoneBackend) Shutdown() error {
	return nil
}
