package config

import "time"

// Config is the effective mxtop configuration: defaults, then the config
// file, then MXTOP_* environment variables, then command-line flags.
type Config struct {
	Sampler    SamplerConfig `yaml:"sampler" mapstructure:"sampler"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Buffer     int           `yaml:"buffer" mapstructure:"buffer"`
	ChunkSize  int           `yaml:"chunk_size" mapstructure:"chunk_size"`
	LogFile    string        `yaml:"log_file" mapstructure:"log_file"`
	Plain      bool          `yaml:"plain" mapstructure:"plain"`
	Thresholds Thresholds    `yaml:"thresholds" mapstructure:"thresholds"`
}

// SamplerConfig locates the sampler binary. Its arguments are fixed.
type SamplerConfig struct {
	// Path to powermetrics. Overridable for packaging and tests.
	Path string `yaml:"path" mapstructure:"path"`

	// Grace is how long to wait after SIGTERM before SIGKILL.
	Grace time.Duration `yaml:"grace" mapstructure:"grace"`
}

// Thresholds are the percentages where gauges turn amber and red.
type Thresholds struct {
	Warning  int `yaml:"warning" mapstructure:"warning"`
	Critical int `yaml:"critical" mapstructure:"critical"`
}

// Default values.
const (
	DefaultSamplerPath = "/usr/bin/powermetrics"
	DefaultGrace       = 2 * time.Second
	DefaultTimeout     = 30 * time.Second
	DefaultBuffer      = 8
	DefaultChunkSize   = 1024
	DefaultWarning     = 70
	DefaultCritical    = 90
)

// DefaultConfig returns a config with every default applied.
func DefaultConfig() *Config {
	return &Config{
		Sampler: SamplerConfig{
			Path:  DefaultSamplerPath,
			Grace: DefaultGrace,
		},
		Timeout:   DefaultTimeout,
		Buffer:    DefaultBuffer,
		ChunkSize: DefaultChunkSize,
		Thresholds: Thresholds{
			Warning:  DefaultWarning,
			Critical: DefaultCritical,
		},
	}
}
