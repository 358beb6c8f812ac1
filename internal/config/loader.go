package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rileyhilliard/mxtop/internal/errors"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. MXTOP_TIMEOUT=10s.
	EnvPrefix = "MXTOP"
	// GlobalConfigDir is the directory for the config file, under $HOME.
	GlobalConfigDir = ".config/mxtop"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yaml"
)

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"timeout":  "timeout",
	"sampler":  "sampler.path",
	"plain":    "plain",
	"log-file": "log_file",
}

// DefaultPath returns ~/.config/mxtop/config.yaml, or "" if there is no home
// directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// Load builds the effective config. An explicit path must exist; with an
// empty path the default location is read if present. Flags that were set
// on the command line override everything else. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file, err := resolve(path)
	if err != nil {
		return nil, err
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check that "+file+" is valid YAML")
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Couldn't apply --"+name,
					"")
			}
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Durations look like '30s' or '2m'. Numbers must be whole numbers.")
	}

	cfg.Sampler.Path = ExpandTilde(cfg.Sampler.Path)
	cfg.LogFile = ExpandTilde(cfg.LogFile)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolve returns the config file to read, or "" for none.
func resolve(explicit string) (string, error) {
	if explicit != "" {
		explicit = ExpandTilde(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	def := DefaultPath()
	if def == "" {
		return "", nil
	}
	if _, err := os.Stat(def); err != nil {
		return "", nil
	}
	return def, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sampler.path", DefaultSamplerPath)
	v.SetDefault("sampler.grace", DefaultGrace.String())
	v.SetDefault("timeout", DefaultTimeout.String())
	v.SetDefault("buffer", DefaultBuffer)
	v.SetDefault("chunk_size", DefaultChunkSize)
	v.SetDefault("log_file", "")
	v.SetDefault("plain", false)
	v.SetDefault("thresholds.warning", DefaultWarning)
	v.SetDefault("thresholds.critical", DefaultCritical)
}

// fileConfig mirrors Config with durations as strings so a dump reads the
// way the file is written.
type fileConfig struct {
	Sampler struct {
		Path  string `yaml:"path"`
		Grace string `yaml:"grace"`
	} `yaml:"sampler"`
	Timeout    string     `yaml:"timeout"`
	Buffer     int        `yaml:"buffer"`
	ChunkSize  int        `yaml:"chunk_size"`
	LogFile    string     `yaml:"log_file"`
	Plain      bool       `yaml:"plain"`
	Thresholds Thresholds `yaml:"thresholds"`
}

// MarshalYAML implements yaml.Marshaler.
func (c Config) MarshalYAML() (interface{}, error) {
	var out fileConfig
	out.Sampler.Path = c.Sampler.Path
	out.Sampler.Grace = c.Sampler.Grace.String()
	out.Timeout = c.Timeout.String()
	out.Buffer = c.Buffer
	out.ChunkSize = c.ChunkSize
	out.LogFile = c.LogFile
	out.Plain = c.Plain
	out.Thresholds = c.Thresholds
	return out, nil
}
