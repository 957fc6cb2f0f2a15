package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sceneweave/sceneweave/strategy"
)

func TestLoadFullFile(t *testing.T) {
	path := writeConfig(t, `
version: 1
pipeline:
  preferred_strategy: specialized-generator
  worker_pool_size: 8
  retry_backoff: 2s
  min_separation: 3.5
  max_model_calls: 20
model:
  provider: anthropic
  name: claude-3-5-sonnet-20241022
  temperature: 0.4
speech:
  voice_id: voice-1
  model_id: eleven_monolingual_v1
storage:
  catalog_bucket: assets
  artifact_bucket: artifacts
  cdn_domain: cdn.example.com
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, strategy.ModeSpecialized, cfg.Pipeline.PreferredStrategy)
	assert.Equal(t, 8, cfg.Pipeline.WorkerPoolSize)
	assert.Equal(t, 2*time.Second, cfg.Pipeline.RetryBackoff)
	assert.Equal(t, 3.5, cfg.Pipeline.MinSeparation)
	assert.Equal(t, 20, cfg.Pipeline.MaxModelCalls)

	assert.Equal(t, "anthropic", cfg.Model.Provider)
	assert.Equal(t, "claude-3-5-sonnet-20241022", cfg.Model.Name)
	assert.Equal(t, 0.4, cfg.Model.Temperature)

	assert.Equal(t, "voice-1", cfg.Speech.VoiceID)
	assert.Equal(t, "assets", cfg.Storage.CatalogBucket)
	assert.Equal(t, "cdn.example.com", cfg.Storage.CDNDomain)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
version: 1
pipeline:
  worker_pool_size: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Pipeline.WorkerPoolSize)
	assert.Equal(t, strategy.ModeCatalog, cfg.Pipeline.PreferredStrategy)
	assert.Equal(t, time.Second, cfg.Pipeline.RetryBackoff)
	assert.Equal(t, "openai", cfg.Model.Provider)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	path := writeConfig(t, "version: 2\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config version")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("version: [unclosed"))
	require.Error(t, err)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sceneweave.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}
