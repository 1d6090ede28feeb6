package voice

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/book-expert/logger"
	"golang.org/x/sync/semaphore"

	"github.com/kentarow/yadori-sub004/internal/core"
	"github.com/kentarow/yadori-sub004/internal/species"
)

const piperDefaultBinary = "piper"

// Piper reads text on stdin and emits a WAV container on stdout when the
// output file is "-". Speaking rate is controlled through length scale,
// the inverse of speed: the map stays monotonic in the computed parameter.
const (
	piperStdoutPath    = "-"
	piperMinLength     = 0.5
	piperMaxLength     = 2.0
	piperLengthDigits  = 3
	piperLengthBitSize = 64
)

// PiperBackend synthesizes speech through the piper neural TTS command line.
// It is the medium local tier.
type PiperBackend struct {
	binary          string
	modelPath       string
	defaultSpecies  species.Species
	generateTimeout time.Duration
	healthTimeout   time.Duration
	maxAudioBytes   int64
	workers         *semaphore.Weighted
	log             *logger.Logger
}

// NewPiperBackend creates a piper-class backend.
func NewPiperBackend(opts Options, log *logger.Logger) *PiperBackend {
	binary := opts.PiperBinary
	if binary == "" {
		binary = piperDefaultBinary
	}

	return &PiperBackend{
		binary:          binary,
		modelPath:       opts.PiperModelPath,
		defaultSpecies:  opts.DefaultSpecies,
		generateTimeout: opts.GenerateTimeout,
		healthTimeout:   opts.HealthTimeout,
		maxAudioBytes:   opts.maxBytes(),
		workers:         semaphore.NewWeighted(opts.maxConcurrent()),
		log:             log,
	}
}

// Name identifies the backend variant.
func (b *PiperBackend) Name() string {
	return "piper"
}

// Initialize verifies both the piper binary and its voice model are present.
func (b *PiperBackend) Initialize(ctx context.Context) error {
	path, err := exec.LookPath(b.binary)
	if err != nil {
		return fmt.Errorf("%w: %s not found on PATH", ErrBackendUnavailable, b.binary)
	}

	b.binary = path

	if b.modelPath == "" {
		return fmt.Errorf("%w: no piper voice model configured", ErrBackendUnavailable)
	}

	_, statErr := os.Stat(b.modelPath)
	if statErr != nil {
		return fmt.Errorf("%w: voice model %s: %s", ErrBackendUnavailable, b.modelPath, statErr)
	}

	probeCtx, cancel := context.WithTimeout(ctx, b.probeTimeout())
	defer cancel()

	return probeMechanism(probeCtx, b.binary, "--version")
}

// CheckHealth probes the binary without synthesizing. Always returns a
// result value.
func (b *PiperBackend) CheckHealth(ctx context.Context) core.HealthResult {
	probeCtx, cancel := context.WithTimeout(ctx, b.probeTimeout())
	defer cancel()

	err := probeMechanism(probeCtx, b.binary, "--version")
	if err != nil {
		return core.HealthResult{Available: false, Detail: err.Error()}
	}

	return core.HealthResult{Available: true, Detail: ""}
}

// GetCapabilities reports the capability snapshot for the backend's default
// species at a growth day.
func (b *PiperBackend) GetCapabilities(growthDay int) core.VoiceCapabilities {
	return CapabilitiesFor(growthDay, b.defaultSpecies)
}

// Generate synthesizes one utterance and applies maturity degradation.
func (b *PiperBackend) Generate(ctx context.Context, req core.VoiceRequest) (*core.VoiceResponse, error) {
	prep, err := prepareRequest(req)
	if err != nil {
		return nil, err
	}

	acquireErr := b.workers.Acquire(ctx, 1)
	if acquireErr != nil {
		return nil, fmt.Errorf("%w: %s", ErrMechanismFailure, acquireErr)
	}

	defer b.workers.Release(1)

	runCtx, cancel := generateContext(ctx, b.generateTimeout)
	defer cancel()

	args := []string{
		"--model", b.modelPath,
		"--output_file", piperStdoutPath,
		"--length-scale", lengthScale(prep.params.Speed, req.Species),
	}

	raw, runErr := runMechanism(runCtx, b.maxAudioBytes, b.binary, args, strings.NewReader(prep.text))
	if runErr != nil {
		return nil, runErr
	}

	return finalizeResponse(raw, prep)
}

// Shutdown releases resources. The subprocess model holds none.
func (b *PiperBackend) Shutdown() error {
	return nil
}

func (b *PiperBackend) probeTimeout() time.Duration {
	if b.healthTimeout <= 0 {
		return DefaultHealthTimeout
	}

	return b.healthTimeout
}

// lengthScale converts a words-per-minute speed into piper's length scale,
// where 1.0 is the model's native rate and larger values slow speech down.
func lengthScale(speedWPM float64, s species.Species) string {
	scale := 1.0

	profile, err := species.ProfileFor(s)
	if err == nil && speedWPM > 0 {
		scale = profile.BaseSpeed / speedWPM
	}

	if scale < piperMinLength {
		scale = piperMinLength
	}

	if scale > piperMaxLength {
		scale = piperMaxLength
	}

	return strconv.FormatFloat(scale, 'f', piperLengthDigits, piperLengthBitSize)
}
