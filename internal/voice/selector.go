package voice

import (
	"context"
	"time"

	"github.com/book-expert/logger"

	"github.com/kentarow/yadori-sub004/internal/core"
	"github.com/kentarow/yadori-sub004/internal/hardware"
	"github.com/kentarow/yadori-sub004/internal/species"
)

// Concurrent synthesis bounds per tier. Heavier backends get fewer slots.
const (
	espeakMaxConcurrent    = 4
	piperMaxConcurrent     = 2
	styletts2MaxConcurrent = 1
)

// Options configures backend construction. Zero values select defaults.
type Options struct {
	// DefaultSpecies is the entity's species, fixed at genesis. It drives
	// capability snapshots and backend voice variants.
	DefaultSpecies species.Species

	// EspeakBinary overrides the PATH lookup of espeak-ng/espeak.
	EspeakBinary string

	// PiperBinary and PiperModelPath locate the piper tool and its voice
	// model.
	PiperBinary    string
	PiperModelPath string

	// StyleTTS2URL is the base URL of the local StyleTTS2 server.
	StyleTTS2URL string

	GenerateTimeout time.Duration
	HealthTimeout   time.Duration

	// MaxAudioBytes bounds the waveform a backend may return.
	MaxAudioBytes int64

	// MaxConcurrent bounds simultaneous synthesis invocations. Zero sizes
	// the bound to the hardware tier.
	MaxConcurrent int64

	// tier is set by the selection controller before construction.
	tier hardware.Tier
}

func (o Options) maxBytes() int64 {
	if o.MaxAudioBytes <= 0 {
		return DefaultMaxAudioBytes
	}

	return o.MaxAudioBytes
}

func (o Options) maxConcurrent() int64 {
	if o.MaxConcurrent > 0 {
		return o.MaxConcurrent
	}

	switch o.tier {
	case hardware.TierPiper:
		return piperMaxConcurrent
	case hardware.TierStyleTTS2:
		return styletts2MaxConcurrent
	default:
		return espeakMaxConcurrent
	}
}

// CreateAdapter runs the capacity estimate and settles on the process's
// active backend. The decision is made once: the estimated tier is attempted
// first, then each lighter tier at most once, never upward and never on a
// timer. When every local tier fails to load, the no-voice variant is the
// terminal result.
func CreateAdapter(
	ctx context.Context,
	body hardware.Body,
	opts Options,
	log *logger.Logger,
) core.VoiceBackend {
	capacity := hardware.EstimateCapacity(body)
	if !capacity.CanRunLocal {
		log.Info("No local synthesis capacity: %s", capacity.Reason)

		return NewNoneBackend(capacity.Reason)
	}

	log.Info("Estimated synthesis tier %s: %s", capacity.Tier, capacity.Reason)

	for tier := capacity.Tier; tier != hardware.TierNone; tier = hardware.FallbackTier(tier) {
		backend := newBackendForTier(tier, opts, log)

		err := backend.Initialize(ctx)
		if err == nil {
			log.Info("Voice backend %s ready", backend.Name())

			return backend
		}

		log.Warn("Voice backend %s failed to load: %v", backend.Name(), err)
	}

	return NewNoneBackend("every local synthesis backend failed to load")
}

// newBackendForTier constructs the unloaded backend matching a tier.
func newBackendForTier(tier hardware.Tier, opts Options, log *logger.Logger) core.VoiceBackend {
	opts.tier = tier

	switch tier {
	case hardware.TierStyleTTS2:
		return NewStyleTTS2Backend(opts, log)
	case hardware.TierPiper:
		return NewPiperBackend(opts, log)
	case hardware.TierEspeak:
		return NewEspeakBackend(opts, log)
	case hardware.TierNone:
		return NewNoneBackend("no synthesis tier available")
	default:
		return NewNoneBackend("no synthesis tier available")
	}
}
