package pipeline

import (
	"time"

	"github.com/sceneweave/sceneweave/strategy"
)

// Config is the explicit per-controller configuration. It is threaded into
// the controller at construction rather than read from ambient process state
// so runs stay independently testable and reproducible.
type Config struct {
	// PreferredStrategy is the scene-design mode requested from the
	// registry. The registry may still fall back to primitive-synthesis.
	PreferredStrategy strategy.Mode `yaml:"preferred_strategy"`

	// WorkerPoolSize bounds concurrent narration/synthesis jobs. It is a
	// fixed value, never derived from input size.
	WorkerPoolSize int `yaml:"worker_pool_size"`

	// RetryBackoff is the pause before the single retry of a failed
	// narration or synthesis call.
	RetryBackoff time.Duration `yaml:"retry_backoff"`

	// MinSeparation is the minimum pairwise distance between scene nodes.
	MinSeparation float64 `yaml:"min_separation"`

	// MaxModelCalls caps outbound model calls per run. Zero means
	// unlimited.
	MaxModelCalls int `yaml:"max_model_calls"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		PreferredStrategy: strategy.ModeCatalog,
		WorkerPoolSize:    4,
		RetryBackoff:      time.Second,
		MinSeparation:     2,
		MaxModelCalls:     0,
	}
}

// normalize patches zero values so a partially filled Config stays usable.
func (c Config) normalize() Config {
	if c.PreferredStrategy == "" {
		c.PreferredStrategy = strategy.ModePrimitive
	}
	if c.WorkerPoolSize < 1 {
		c.WorkerPoolSize = 4
	}
	if c.RetryBackoff < 0 {
		c.RetryBackoff = 0
	}
	if c.MinSeparation < 0 {
		c.MinSeparation = 0
	}
	return c
}
