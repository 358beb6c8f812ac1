package config

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/mxtop/internal/errors"
)

// MaxChunkSize bounds chunk_size. Frames larger than a chunk are fine; this
// only stops a typo from allocating gigabytes.
const MaxChunkSize = 1 << 20

// MaxBuffer bounds the snapshot stack depth.
const MaxBuffer = 1024

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try running the command again.")
	}

	if cfg.Sampler.Path == "" {
		return errors.New(errors.ErrConfig,
			"sampler.path is empty",
			"Remove it to use "+DefaultSamplerPath+", or point it at powermetrics.")
	}

	if err := validatePositive("sampler.grace", cfg.Sampler.Grace); err != nil {
		return err
	}
	if err := validatePositive("timeout", cfg.Timeout); err != nil {
		return err
	}

	if cfg.Buffer < 1 || cfg.Buffer > MaxBuffer {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("buffer must be between 1 and %d, got %d", MaxBuffer, cfg.Buffer),
			fmt.Sprintf("The default is %d.", DefaultBuffer))
	}

	if cfg.ChunkSize < 1 || cfg.ChunkSize > MaxChunkSize {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("chunk_size must be between 1 and %d, got %d", MaxChunkSize, cfg.ChunkSize),
			fmt.Sprintf("The default is %d.", DefaultChunkSize))
	}

	return validateThresholds(cfg.Thresholds)
}

func validatePositive(key string, d time.Duration) error {
	if d <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("%s must be positive, got %s", key, d),
			"Use a duration like '30s' or '2m'.")
	}
	return nil
}

func validateThresholds(t Thresholds) error {
	if t.Warning <= 0 || t.Warning > 100 || t.Critical <= 0 || t.Critical > 100 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("thresholds must be percentages (1-100), got warning=%d critical=%d", t.Warning, t.Critical),
			"Check the 'thresholds' section in your config.")
	}
	if t.Warning >= t.Critical {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("thresholds.warning (%d) must be below thresholds.critical (%d)", t.Warning, t.Critical),
			"Check the 'thresholds' section in your config.")
	}
	return nil
}
