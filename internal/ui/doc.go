// Package ui holds small terminal widgets used by the dashboard: a bounded
// sample history with its sparkline, and the spinner shown while waiting for
// the first sample.
package ui
