// voicectl exercises the voice pipeline one-shot: synthesize an utterance to
// a WAV file, probe backend health, or print the capability snapshot.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/book-expert/logger"

	"github.com/kentarow/yadori-sub004/internal/core"
	"github.com/kentarow/yadori-sub004/internal/hardware"
	"github.com/kentarow/yadori-sub004/internal/species"
	"github.com/kentarow/yadori-sub004/internal/voice"
)

// Flag descriptions.
const (
	flagTextDesc    = "Text to synthesize"
	flagOutputDesc  = "Output file path (.wav)"
	flagSpeciesDesc = "Species tag (vibration|chemical|geometric|chromatic|thermal|temporal)"
	flagMoodDesc    = "Mood scalar [0,100]"
	flagEnergyDesc  = "Energy scalar [0,100]"
	flagComfortDesc = "Comfort scalar [0,100]"
	flagDayDesc     = "Growth day (days since genesis)"
	flagHealthDesc  = "Check backend health and exit"
	flagCapsDesc    = "Print the capability snapshot and exit"
	flagMemoryDesc  = "Override detected memory (GB) for tier selection"
)

// Error and log messages.
const (
	errTextRequired       = "Either --text with --output, --health, or --capabilities must be provided"
	errFailedToInitLogger = "Failed to initialize logger: %v"
	errFailedToGenerate   = "Failed to generate speech: %v"
	errFailedToWrite      = "Failed to write audio file: %v"
	logBackendSelected    = "Backend: %s\n"
	logGenerated          = "Generated: %s (%d ms, pitch %.1f, speed %.1f wpm)\n"
)

const (
	neutralScalar     = 50
	outputPermissions = 0o600
	selectTimeout     = 30 * time.Second
	defaultGrowthDay  = 30
	memoryUnset       = -1
)

func main() {
	text := flag.String("text", "", flagTextDesc)
	output := flag.String("output", "voice.wav", flagOutputDesc)
	speciesTag := flag.String("species", string(species.Geometric), flagSpeciesDesc)
	mood := flag.Int("mood", neutralScalar, flagMoodDesc)
	energy := flag.Int("energy", neutralScalar, flagEnergyDesc)
	comfort := flag.Int("comfort", neutralScalar, flagComfortDesc)
	day := flag.Int("day", defaultGrowthDay, flagDayDesc)
	health := flag.Bool("health", false, flagHealthDesc)
	capabilities := flag.Bool("capabilities", false, flagCapsDesc)
	memoryGB := flag.Int("memory-gb", memoryUnset, flagMemoryDesc)
	flag.Parse()

	if *text == "" && !*health && !*capabilities {
		log.Fatal(errTextRequired)
	}

	voiceLog, err := logger.New(os.TempDir(), "voicectl.log")
	if err != nil {
		log.Fatalf(errFailedToInitLogger, err)
	}

	defer func() { _ = voiceLog.Close() }()

	body := hardware.Detect()
	if *memoryGB != memoryUnset {
		body.TotalMemoryGB = *memoryGB
	}

	ctx, cancel := context.WithTimeout(context.Background(), selectTimeout)
	defer cancel()

	backend := voice.CreateAdapter(ctx, body, voice.Options{
		DefaultSpecies: species.Species(*speciesTag),
	}, voiceLog)

	defer func() { _ = backend.Shutdown() }()

	fmt.Printf(logBackendSelected, backend.Name())

	switch {
	case *health:
		runHealth(ctx, backend)
	case *capabilities:
		runCapabilities(backend, *day)
	default:
		runGenerate(ctx, backend, core.VoiceRequest{
			Text: *text,
			Status: core.EmotionalStatus{
				Mood:    *mood,
				Energy:  *energy,
				Comfort: *comfort,
			},
			Species:       species.Species(*speciesTag),
			GrowthDay:     *day,
			LanguageLevel: 0,
		}, *output)
	}
}

func runHealth(ctx context.Context, backend core.VoiceBackend) {
	result := backend.CheckHealth(ctx)
	if !result.Available {
		fmt.Printf("Backend unavailable: %s\n", result.Detail)
		os.Exit(1)
	}

	fmt.Println("Backend healthy")
}

func runCapabilities(backend core.VoiceBackend, day int) {
	snapshot := backend.GetCapabilities(day)

	encoded, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode capabilities: %v", err)
	}

	fmt.Println(string(encoded))
}

func runGenerate(ctx context.Context, backend core.VoiceBackend, req core.VoiceRequest, output string) {
	response, err := backend.Generate(ctx, req)
	if err != nil {
		log.Fatalf(errFailedToGenerate, err)
	}

	writeErr := os.WriteFile(output, response.Audio, outputPermissions)
	if writeErr != nil {
		log.Fatalf(errFailedToWrite, writeErr)
	}

	fmt.Printf(
		logGenerated,
		output, response.DurationMs, response.Metadata.Pitch, response.Metadata.Speed,
	)
}
