// Package voice_test tests backend selection and the fallback chain.
package voice_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/book-expert/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kentarow/yadori-sub004/internal/core"
	"github.com/kentarow/yadori-sub004/internal/hardware"
	"github.com/kentarow/yadori-sub004/internal/species"
	"github.com/kentarow/yadori-sub004/internal/voice"
	"github.com/kentarow/yadori-sub004/internal/voice/wav"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.New(t.TempDir(), "test-log.log")
	require.NoError(t, err)

	return log
}

func testBody(memoryGB int) hardware.Body {
	return hardware.Body{
		Platform:      "linux",
		Arch:          "arm64",
		TotalMemoryGB: memoryGB,
		CPUModel:      "test",
		StorageGB:     32,
	}
}

// writeStubSynth writes an executable script that answers a version probe
// and otherwise streams a fixture file to stdout, standing in for the
// external synthesis binary.
func writeStubSynth(t *testing.T, fixture []byte) string {
	t.Helper()

	dir := t.TempDir()

	fixturePath := filepath.Join(dir, "fixture.bin")
	require.NoError(t, os.WriteFile(fixturePath, fixture, 0o600))

	script := "#!/bin/sh\n" +
		"case \"$1\" in\n" +
		"--version) echo stub 1.0 ;;\n" +
		"*) cat \"" + fixturePath + "\" ;;\n" +
		"esac\n"

	scriptPath := filepath.Join(dir, "stub-synth")
	require.NoError(t, os.WriteFile(scriptPath, []byte(script), 0o700))

	return scriptPath
}

func testWaveform(t *testing.T) []byte {
	t.Helper()

	pcm := make([]byte, 2000)
	for i := range pcm {
		pcm[i] = byte(i % 7)
	}

	return wav.Encode(pcm, 22050)
}

func TestCreateAdapter_LowMemoryHostGetsNoVoice(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	backend := voice.CreateAdapter(ctx, testBody(1), voice.Options{
		DefaultSpecies: species.Geometric,
	}, testLogger(t))

	assert.Equal(t, "none", backend.Name())

	health := backend.CheckHealth(ctx)
	assert.False(t, health.Available)
	assert.NotEmpty(t, health.Detail)

	snapshot := backend.GetCapabilities(200)
	assert.False(t, snapshot.CanSpeak)

	_, err := backend.Generate(ctx, core.VoiceRequest{
		Text:          "hello",
		Status:        core.EmotionalStatus{Mood: 50, Energy: 50, Comfort: 50},
		Species:       species.Geometric,
		GrowthDay:     200,
		LanguageLevel: 1,
	})
	require.ErrorIs(t, err, voice.ErrVoiceUnavailable)

	require.NoError(t, backend.Shutdown())
	require.NoError(t, backend.Shutdown(), "shutdown must stay idempotent")
}

func TestCreateAdapter_EspeakTierLoadsStub(t *testing.T) {
	t.Parallel()

	stub := writeStubSynth(t, testWaveform(t))

	backend := voice.CreateAdapter(context.Background(), testBody(2), voice.Options{
		DefaultSpecies: species.Geometric,
		EspeakBinary:   stub,
	}, testLogger(t))

	assert.Equal(t, "espeak", backend.Name())
	assert.True(t, backend.CheckHealth(context.Background()).Available)
}

func TestCreateAdapter_FallsBackFromPiperToEspeak(t *testing.T) {
	t.Parallel()

	stub := writeStubSynth(t, testWaveform(t))

	// The piper tier is estimated but its binary does not exist, so the
	// chain settles one tier down.
	backend := voice.CreateAdapter(context.Background(), testBody(4), voice.Options{
		DefaultSpecies: species.Geometric,
		PiperBinary:    filepath.Join(t.TempDir(), "missing-piper"),
		PiperModelPath: filepath.Join(t.TempDir(), "missing-model.onnx"),
		EspeakBinary:   stub,
	}, testLogger(t))

	assert.Equal(t, "espeak", backend.Name())
}

func TestCreateAdapter_SettlesOnNoneWhenEveryTierFails(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing-espeak")

	backend := voice.CreateAdapter(context.Background(), testBody(2), voice.Options{
		DefaultSpecies: species.Geometric,
		EspeakBinary:   missing,
	}, testLogger(t))

	assert.Equal(t, "none", backend.Name())

	_, err := backend.Generate(context.Background(), core.VoiceRequest{
		Text:          "hello",
		Status:        core.EmotionalStatus{Mood: 50, Energy: 50, Comfort: 50},
		Species:       species.Geometric,
		GrowthDay:     200,
		LanguageLevel: 1,
	})
	require.ErrorIs(t, err, voice.ErrVoiceUnavailable)
}
