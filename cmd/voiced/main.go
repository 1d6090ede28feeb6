// main package for the voiced service
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/book-expert/logger"
	"github.com/nats-io/nats.go"

	"github.com/kentarow/yadori-sub004/internal/config"
	"github.com/kentarow/yadori-sub004/internal/events"
	"github.com/kentarow/yadori-sub004/internal/hardware"
	"github.com/kentarow/yadori-sub004/internal/objectstore"
	"github.com/kentarow/yadori-sub004/internal/species"
	"github.com/kentarow/yadori-sub004/internal/voice"
	"github.com/kentarow/yadori-sub004/internal/worker"
)

func setupLogger(logPath string) (*logger.Logger, error) {
	log, err := logger.New(logPath, "voiced-bootstrap.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create bootstrap logger: %w", err)
	}

	return log, nil
}

func run() error {
	// 1. Create a temporary logger for the bootstrap process
	bootstrapLog, err := setupLogger(os.TempDir())
	if err != nil {
		// If bootstrap logger fails, we can only print to stderr
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	bootstrapLog.Info("Bootstrap logger created.")

	// 2. Load configuration using the central configurator
	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	bootstrapLog.Info("Configuration loaded successfully.")

	// 3. Initialize the final logger based on the loaded configuration
	finalLog, err := setupLogger(cfg.Paths.BaseLogsDir)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := finalLog.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing final logger: %v\n", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, finalLog)
}

// serve wires the hardware snapshot, backend selection, NATS transport, and
// worker together, then blocks until shutdown.
func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	body := hardwareBody(cfg)
	log.System(
		"Genesis hardware: platform=%s arch=%s memory=%dGB cpu=%q",
		body.Platform, body.Arch, body.TotalMemoryGB, body.CPUModel,
	)

	backend := voice.CreateAdapter(ctx, body, voiceOptions(cfg), log)

	defer func() {
		shutdownErr := backend.Shutdown()
		if shutdownErr != nil {
			log.Warn("Backend shutdown reported: %v", shutdownErr)
		}
	}()

	natsConnection, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATS.URL, err)
	}

	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		return fmt.Errorf("failed to open JetStream context: %w", err)
	}

	bucket := cfg.NATS.AudioObjectStoreBucket
	if bucket == "" {
		bucket = events.AudioBucket
	}

	store, err := objectstore.New(jetstreamContext, bucket)
	if err != nil {
		return fmt.Errorf("failed to open audio object store: %w", err)
	}

	subject := cfg.NATS.SpeechRequestedSubject
	if subject == "" {
		subject = events.SpeechRequestedSubject
	}

	natsWorker, err := worker.NewNatsWorker(natsConnection, subject, store, backend, log)
	if err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}

	log.System("Voice service ready: backend=%s subject=%s", backend.Name(), subject)

	runErr := natsWorker.Run(ctx)
	if runErr != nil {
		return fmt.Errorf("worker stopped with error: %w", runErr)
	}

	return nil
}

// hardwareBody returns the configured snapshot when pinned, otherwise probes
// the host once.
func hardwareBody(cfg *config.Config) hardware.Body {
	if cfg.Hardware.UseSnapshot {
		return hardware.Body{
			Platform:      cfg.Hardware.Platform,
			Arch:          cfg.Hardware.Arch,
			TotalMemoryGB: cfg.Hardware.TotalMemoryGB,
			CPUModel:      cfg.Hardware.CPUModel,
			StorageGB:     cfg.Hardware.StorageGB,
		}
	}

	return hardware.Detect()
}

func voiceOptions(cfg *config.Config) voice.Options {
	return voice.Options{
		DefaultSpecies:  species.Species(cfg.Voice.Species),
		EspeakBinary:    cfg.Voice.EspeakBinary,
		PiperBinary:     cfg.Voice.PiperBinary,
		PiperModelPath:  cfg.Voice.PiperModelPath,
		StyleTTS2URL:    cfg.Voice.StyleTTS2URL,
		GenerateTimeout: time.Duration(cfg.Voice.GenerateTimeoutSeconds) * time.Second,
		HealthTimeout:   time.Duration(cfg.Voice.HealthTimeoutSeconds) * time.Second,
		MaxAudioBytes:   int64(cfg.Voice.MaxAudioMB) << 20,
		MaxConcurrent:   int64(cfg.Voice.Workers),
	}
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}
