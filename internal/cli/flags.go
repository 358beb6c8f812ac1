package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/mxtop/internal/config"
	"github.com/rileyhilliard/mxtop/internal/logger"
)

// RootFlags holds the persistent flags shared by every command.
type RootFlags struct {
	Config  string
	Timeout time.Duration
	Sampler string
	Plain   bool
	LogFile string
	Debug   bool
}

var rootFlags RootFlags

// addRootFlags registers the persistent flags on cmd. Defaults only show in
// help text; config.Load applies a flag only when it was set.
func addRootFlags(cmd *cobra.Command, flags *RootFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.Config, "config", "", "config file (default ~/.config/mxtop/config.yaml)")
	pf.DurationVar(&flags.Timeout, "timeout", config.DefaultTimeout, "stop when no sample arrives for this long (e.g., 10s, 1m)")
	pf.StringVar(&flags.Sampler, "sampler", config.DefaultSamplerPath, "path to the powermetrics binary")
	pf.BoolVar(&flags.Plain, "plain", false, "print one line per sample instead of the dashboard")
	pf.StringVar(&flags.LogFile, "log-file", "", "log file (default $TMPDIR/mxtop.log)")
	pf.BoolVar(&flags.Debug, "debug", false, "log debug messages")
}

// loadConfig resolves the effective config from the flags parsed for cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path, cmd.Flags())
}

// debugEnabled reports whether --debug or MXTOP_DEBUG asks for debug logs.
func debugEnabled(cmd *cobra.Command) bool {
	debug, _ := cmd.Flags().GetBool("debug")
	return debug || logger.DebugEnabled()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
