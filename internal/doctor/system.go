package doctor

import (
	"fmt"
	"os"
	"runtime"

	"github.com/rileyhilliard/mxtop/internal/config"
	"github.com/rileyhilliard/mxtop/internal/errors"
)

// PlatformCheck passes on macOS with Apple Silicon, the only place
// powermetrics reports per-cluster CPU and GPU residency.
type PlatformCheck struct {
	GOOS   string
	GOARCH string
	Chip   string
}

func (c *PlatformCheck) Name() string     { return "platform" }
func (c *PlatformCheck) Category() string { return CategoryPlatform }

func (c *PlatformCheck) Run() CheckResult {
	desc := c.GOOS + "/" + c.GOARCH
	if c.Chip != "" {
		desc += " (" + c.Chip + ")"
	}

	switch {
	case c.GOOS == "darwin" && c.GOARCH == "arm64":
		return CheckResult{Status: StatusPass, Message: "Apple Silicon Mac: " + desc}
	case c.GOOS == "darwin":
		return CheckResult{
			Status:     StatusWarn,
			Message:    "Intel Mac or Rosetta: " + desc,
			Suggestion: "powermetrics on Intel Macs has no cluster or GPU idle data, so most gauges stay empty",
		}
	default:
		return CheckResult{
			Status:     StatusFail,
			Message:    "Unsupported platform: " + desc,
			Suggestion: "mxtop reads powermetrics, which only exists on macOS",
		}
	}
}

// PrivilegeCheck warns when not running as root. Doctor itself works
// without root, but the dashboard won't start.
type PrivilegeCheck struct {
	EUID func() int
}

func (c *PrivilegeCheck) Name() string     { return "privilege" }
func (c *PrivilegeCheck) Category() string { return CategoryPrivilege }

func (c *PrivilegeCheck) Run() CheckResult {
	euid := c.EUID()
	if euid == 0 {
		return CheckResult{Status: StatusPass, Message: "Running as root"}
	}
	return CheckResult{
		Status:     StatusWarn,
		Message:    fmt.Sprintf("Running as uid %d", euid),
		Suggestion: "powermetrics needs superuser access. Start the dashboard with: sudo mxtop",
	}
}

// SamplerCheck verifies the sampler binary exists and is executable.
type SamplerCheck struct {
	Path string
}

func (c *SamplerCheck) Name() string     { return "sampler" }
func (c *SamplerCheck) Category() string { return CategorySampler }

func (c *SamplerCheck) Run() CheckResult {
	info, err := os.Stat(c.Path)
	switch {
	case os.IsNotExist(err):
		return CheckResult{
			Status:     StatusFail,
			Message:    "Sampler not found: " + c.Path,
			Suggestion: "Set sampler.path in the config, or pass --sampler",
		}
	case err != nil:
		return CheckResult{
			Status:     StatusFail,
			Message:    "Can't inspect sampler: " + c.Path,
			Suggestion: err.Error(),
		}
	case info.IsDir():
		return CheckResult{
			Status:     StatusFail,
			Message:    "Sampler path is a directory: " + c.Path,
			Suggestion: "Point sampler.path at the powermetrics binary",
		}
	case info.Mode().Perm()&0o111 == 0:
		return CheckResult{
			Status:     StatusFail,
			Message:    "Sampler is not executable: " + c.Path,
			Suggestion: "Check the file mode, e.g. chmod +x " + c.Path,
		}
	}
	return CheckResult{Status: StatusPass, Message: "Sampler found: " + c.Path}
}

// ConfigCheck reports the outcome of loading the config. Cfg is nil when
// Err is set.
type ConfigCheck struct {
	Path string
	Cfg  *config.Config
	Err  error
}

func (c *ConfigCheck) Name() string     { return "config" }
func (c *ConfigCheck) Category() string { return CategoryConfig }

func (c *ConfigCheck) Run() CheckResult {
	if c.Err != nil {
		r := CheckResult{Status: StatusFail, Message: "Config invalid", Suggestion: c.Err.Error()}
		var mxErr *errors.Error
		if errors.As(c.Err, &mxErr) {
			r.Message = mxErr.Summary()
			r.Suggestion = mxErr.Suggestion
		}
		return r
	}

	source := "built-in defaults"
	if c.Path != "" {
		source = c.Path
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("Config valid (%s): timeout %s, buffer %d", source, c.Cfg.Timeout, c.Cfg.Buffer),
	}
}

// LogFileCheck verifies the log file can be opened for append.
type LogFileCheck struct {
	Path string
}

func (c *LogFileCheck) Name() string     { return "log_file" }
func (c *LogFileCheck) Category() string { return CategoryLogging }

func (c *LogFileCheck) Run() CheckResult {
	f, err := os.OpenFile(c.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    "Log file not writable: " + c.Path,
			Suggestion: "Set log_file or --log-file to a writable path",
		}
	}
	_ = f.Close()
	return CheckResult{Status: StatusPass, Message: "Logging to " + c.Path}
}

// Options describes the environment the standard checks inspect.
type Options struct {
	GOOS, GOARCH string
	Chip         string
	EUID         func() int
	ConfigPath   string
	Config       *config.Config
	ConfigErr    error
}

// NewChecks returns the standard checks in report order. Sampler and log
// checks use the loaded config, or the defaults when it failed to load.
func NewChecks(opts Options) []Check {
	if opts.GOOS == "" {
		opts.GOOS, opts.GOARCH = runtime.GOOS, runtime.GOARCH
	}
	if opts.EUID == nil {
		opts.EUID = os.Geteuid
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return []Check{
		&PlatformCheck{GOOS: opts.GOOS, GOARCH: opts.GOARCH, Chip: opts.Chip},
		&PrivilegeCheck{EUID: opts.EUID},
		&SamplerCheck{Path: cfg.Sampler.Path},
		&ConfigCheck{Path: opts.ConfigPath, Cfg: opts.Config, Err: opts.ConfigErr},
		&LogFileCheck{Path: cfg.LogPath()},
	}
}
