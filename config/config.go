package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sceneweave/sceneweave/pipeline"
)

// Version is the config file layout version this package understands.
const Version = 1

// ModelConfig selects the language model used for extraction, scene
// design, and narration text.
type ModelConfig struct {
	// Provider is "openai" or "anthropic".
	Provider string `yaml:"provider"`

	// Name is the provider-specific model identifier. Empty uses the
	// provider default.
	Name string `yaml:"name"`

	Temperature float64 `yaml:"temperature"`
}

// SpeechConfig selects the text-to-speech voice. An empty VoiceID
// disables audio synthesis; narration text is still generated.
type SpeechConfig struct {
	VoiceID string `yaml:"voice_id"`
	ModelID string `yaml:"model_id"`
}

// StorageConfig names the Cloud Storage buckets backing the asset
// catalog and the artifact store. Empty bucket names select the
// in-memory equivalents.
type StorageConfig struct {
	CatalogBucket  string `yaml:"catalog_bucket"`
	ArtifactBucket string `yaml:"artifact_bucket"`

	// CDNDomain, when set, replaces the storage.googleapis.com host in
	// public artifact URLs.
	CDNDomain string `yaml:"cdn_domain"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `yaml:"level"`

	// Format is "text" or "json".
	Format string `yaml:"format"`
}

// File is the full on-disk configuration.
type File struct {
	Version  int             `yaml:"version"`
	Pipeline pipeline.Config `yaml:"pipeline"`
	Model    ModelConfig     `yaml:"model"`
	Speech   SpeechConfig    `yaml:"speech"`
	Storage  StorageConfig   `yaml:"storage"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// Load reads and parses the YAML file at path. Settings the file omits
// keep their defaults.
func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes raw YAML bytes into a File.
func Parse(b []byte) (*File, error) {
	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Version != Version {
		return nil, fmt.Errorf("unsupported config version: %d", cfg.Version)
	}

	return cfg, nil
}

// Default returns a File populated with production defaults.
func Default() *File {
	return &File{
		Version:  Version,
		Pipeline: pipeline.DefaultConfig(),
		Model: ModelConfig{
			Provider:    "openai",
			Temperature: 0.7,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
