// Package cli implements the mxtop command-line interface.
//
// The root command runs the monitor. It loads the config, opens the log
// file, and starts the sampler pipeline:
//
//	powermetrics -> stream.Reader -> delivery.Stack -> monitor.Model
//
// The reader runs in its own goroutine and the Bubble Tea program runs on
// the calling goroutine. SIGINT and SIGTERM cancel the run context, which
// terminates the sampler and is forwarded to the dashboard as an interrupt.
// When stdout is not a terminal, or with --plain, the dashboard is replaced
// by one line of text per sample.
//
// # Command Structure
//
//	mxtop                       - Live dashboard (requires root)
//	mxtop config                - Print the effective configuration as YAML
//	mxtop doctor                - Preflight checks (runs without root)
//	mxtop version               - Print version information
//	mxtop completion <shell>    - Generate a shell completion script
//
// # Exit Status
//
// mxtop exits 0 when the dashboard stops on its own: the user quit, no sample
// arrived within --timeout, or the sampler stream ended. Every error,
// including running without root, prints one line to stderr and exits 1.
package cli
