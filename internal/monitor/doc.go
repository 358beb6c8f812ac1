// Package monitor implements the mxtop dashboard: the gauge and workload
// model built from sampler snapshots, and the Bubble Tea program that
// renders it.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm Architecture
// (Model-Update-View pattern):
//
//   - Model: lifecycle state, gauges, the workload table, layout
//   - Update: keystrokes, receive results from the delivery stack, clock ticks
//   - View: renders the current state to a string for display
//
// # Message Flow
//
// The dashboard is driven by the sampler, not by a timer:
//
//  1. Init issues receiveCmd, which blocks on the delivery stack
//  2. frameMsg arrives with a snapshot, a trailing fragment, a timeout, or close
//  3. A snapshot updates Gauges and rebuilds the workload rows, then the
//     next receiveCmd is issued
//  4. A timeout, close, quit key, or InterruptMsg stops the dashboard once:
//     the stop hook runs and the program quits
//
// # Gauges
//
// Gauges are keyed by CoreKey (cluster name and CPU number) and created on
// first sight. A core that drops out of the sampler output keeps its last
// value.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	s           - Cycle workload sort order
//	j/k, ↑/↓    - Move through the workload table
//	?           - Toggle help overlay
package monitor
