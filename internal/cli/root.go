package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/mxtop/internal/errors"
)

// rootCmd runs the dashboard when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "mxtop",
	Short: "Apple Silicon CPU and GPU monitor",
	Long: `mxtop runs powermetrics and shows per-core CPU utilization, GPU
utilization, and the busiest process coalitions in a live terminal dashboard.

powermetrics needs superuser access, so mxtop must run as root.

Examples:
  sudo mxtop
  sudo mxtop --timeout 10s
  sudo mxtop --plain | tee samples.log`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd)
	},
}

func init() {
	addRootFlags(rootCmd, &rootFlags)
}

// Execute runs the root command. Any error is printed to stderr and the
// process exits with status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

// formatError renders err as a single diagnostic line.
func formatError(err error) string {
	var mxErr *errors.Error
	if errors.As(err, &mxErr) {
		line := mxErr.Summary()
		if mxErr.Suggestion != "" {
			line += " (" + mxErr.Suggestion + ")"
		}
		return "mxtop: " + line
	}
	if isUnknownCommandError(err) {
		if name := extractUnknownCommand(err); name != "" {
			return fmt.Sprintf("mxtop: unknown command %q (run 'mxtop --help' for usage)", name)
		}
	}
	return "mxtop: " + err.Error()
}

// isUnknownCommandError reports whether cobra rejected the command line.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the quoted name out of cobra's
// `unknown command "foo" for "mxtop"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
