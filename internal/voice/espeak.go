package voice

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"time"

	"github.com/book-expert/logger"
	"golang.org/x/sync/semaphore"

	"github.com/kentarow/yadori-sub004/internal/core"
	"github.com/kentarow/yadori-sub004/internal/species"
)

// espeak-ng is preferred; plain espeak accepts the same flags.
var espeakBinaries = []string{"espeak-ng", "espeak"}

// Native value ranges of the espeak command line. The maps from computed
// parameters into these ranges are monotonic: a higher computed pitch always
// yields a higher native pitch value.
const (
	espeakPitchMax     = 99
	espeakSpeedMin     = 80
	espeakSpeedMax     = 450
	espeakAmplitudeMax = 200

	// Computed pitch is Hz-like; espeak's 0-99 pitch scale is mapped
	// linearly from this band.
	pitchHzFloor = 80.0
	pitchHzCeil  = 600.0

	amplitudePerVolumePoint = 2
)

// Voice variants by species timbre. The base voice stays constant; the
// variant shifts the formant character.
var espeakVariants = map[string]string{
	"hum":    "en+m1",
	"murmur": "en+m2",
	"click":  "en+m4",
	"chime":  "en+f3",
	"breath": "en+f4",
	"pulse":  "en+m5",
}

const espeakDefaultVariant = "en"

// EspeakBackend synthesizes speech by invoking the espeak command line with
// waveform output on stdout. It is the lightest local tier.
type EspeakBackend struct {
	binary          string
	defaultSpecies  species.Species
	generateTimeout time.Duration
	healthTimeout   time.Duration
	maxAudioBytes   int64
	workers         *semaphore.Weighted
	log             *logger.Logger
}

// NewEspeakBackend creates an espeak-class backend. An empty binary selects
// the first of espeak-ng/espeak found on PATH during Initialize.
func NewEspeakBackend(opts Options, log *logger.Logger) *EspeakBackend {
	return &EspeakBackend{
		binary:          opts.EspeakBinary,
		defaultSpecies:  opts.DefaultSpecies,
		generateTimeout: opts.GenerateTimeout,
		healthTimeout:   opts.HealthTimeout,
		maxAudioBytes:   opts.maxBytes(),
		workers:         semaphore.NewWeighted(opts.maxConcurrent()),
		log:             log,
	}
}

// Name identifies the backend variant.
func (b *EspeakBackend) Name() string {
	return "espeak"
}

// Initialize locates the espeak binary and verifies it responds to a version
// probe. Fails with ErrBackendUnavailable when the tool is absent or mute.
func (b *EspeakBackend) Initialize(ctx context.Context) error {
	if b.binary == "" {
		for _, candidate := range espeakBinaries {
			path, err := exec.LookPath(candidate)
			if err == nil {
				b.binary = path

				break
			}
		}
	}

	if b.binary == "" {
		return fmt.Errorf("%w: neither espeak-ng nor espeak found on PATH", ErrBackendUnavailable)
	}

	probeCtx, cancel := context.WithTimeout(ctx, b.probeTimeout())
	defer cancel()

	return probeMechanism(probeCtx, b.binary, "--version")
}

// CheckHealth probes the binary without synthesizing. Always returns a
// result value.
func (b *EspeakBackend) CheckHealth(ctx context.Context) core.HealthResult {
	if b.binary == "" {
		return core.HealthResult{Available: false, Detail: "backend not initialized"}
	}

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
func (b *EspeakBackend) GetCapabilities(growthDay int) core.VoiceCapabilities {
	return CapabilitiesFor(growthDay, b.defaultSpecies)
}

// Generate synthesizes one utterance and applies maturity degradation.
func (b *EspeakBackend) Generate(ctx context.Context, req core.VoiceRequest) (*core.VoiceResponse, error) {
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

	args := b.commandArgs(prep, req.Species)

	raw, runErr := runMechanism(runCtx, b.maxAudioBytes, b.binary, args, nil)
	if runErr != nil {
		return nil, runErr
	}

	return finalizeResponse(raw, prep)
}

// Shutdown releases resources. The subprocess model holds none, so this is
// a no-op that stays safe to call repeatedly.
func (b *EspeakBackend) Shutdown() error {
	return nil
}

// commandArgs builds the espeak invocation for a prepared request.
func (b *EspeakBackend) commandArgs(prep preparedRequest, s species.Species) []string {
	return []string{
		"-p", strconv.Itoa(nativePitch(prep.params.Pitch)),
		"-s", strconv.Itoa(nativeSpeed(prep.params.Speed)),
		"-a", strconv.Itoa(nativeAmplitude(prep.params.Volume)),
		"-v", variantFor(s),
		"--stdout",
		prep.text,
	}
}

func (b *EspeakBackend) probeTimeout() time.Duration {
	if b.healthTimeout <= 0 {
		return DefaultHealthTimeout
	}

	return b.healthTimeout
}

// nativePitch maps a Hz-like pitch onto espeak's 0-99 scale, monotonically.
func nativePitch(pitchHz float64) int {
	fraction := (pitchHz - pitchHzFloor) / (pitchHzCeil - pitchHzFloor)

	return clampNative(int(math.Round(fraction*espeakPitchMax)), 0, espeakPitchMax)
}

// nativeSpeed clamps a words-per-minute rate into espeak's accepted range.
func nativeSpeed(wpm float64) int {
	return clampNative(int(math.Round(wpm)), espeakSpeedMin, espeakSpeedMax)
}

// nativeAmplitude maps a 0-100 volume onto espeak's 0-200 amplitude scale.
func nativeAmplitude(volume float64) int {
	return clampNative(int(math.Round(volume))*amplitudePerVolumePoint, 0, espeakAmplitudeMax)
}

// variantFor selects the espeak voice variant from the species timbre.
func variantFor(s species.Species) string {
	profile, err := species.ProfileFor(s)
	if err != nil {
		return espeakDefaultVariant
	}

	variant, ok := espeakVariants[profile.Timbre]
	if !ok {
		return espeakDefaultVariant
	}

	return variant
}

func clampNative(v, low, high int) int {
	if v < low {
		return low
	}

	if v > high {
		return high
	}

	return v
}
