// Package config provides the configuration structure for the voice service.
package config

import (
	"fmt"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
)

// NATSConfig holds the configuration for NATS.
type NATSConfig struct {
	URL                      string `toml:"url"`
	SpeechRequestedSubject   string `toml:"speech_requested_subject"`
	SpeechSynthesizedSubject string `toml:"speech_synthesized_subject"`
	AudioObjectStoreBucket   string `toml:"audio_object_store_bucket"`
}

// VoiceConfig holds the synthesis backend configuration.
type VoiceConfig struct {
	Species                string `toml:"species"`
	EspeakBinary           string `toml:"espeak_binary"`
	PiperBinary            string `toml:"piper_binary"`
	PiperModelPath         string `toml:"piper_model_path"`
	StyleTTS2URL           string `toml:"styletts2_url"`
	GenerateTimeoutSeconds int    `toml:"generate_timeout_seconds"`
	HealthTimeoutSeconds   int    `toml:"health_timeout_seconds"`
	MaxAudioMB             int    `toml:"max_audio_mb"`
	Workers                int    `toml:"workers"`
}

// HardwareConfig optionally pins the genesis hardware snapshot instead of
// probing the host.
type HardwareConfig struct {
	Platform      string `toml:"platform"`
	Arch          string `toml:"arch"`
	TotalMemoryGB int    `toml:"total_memory_gb"`
	CPUModel      string `toml:"cpu_model"`
	StorageGB     int    `toml:"storage_gb"`
	UseSnapshot   bool   `toml:"use_snapshot"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir"`
}

// Config is the root configuration structure.
type Config struct {
	NATS     NATSConfig     `toml:"nats"`
	Voice    VoiceConfig    `toml:"voice"`
	Hardware HardwareConfig `toml:"hardware"`
	Paths    PathsConfig    `toml:"paths"`
}

// Load loads the configuration for the voice service.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	return &cfg, nil
}
