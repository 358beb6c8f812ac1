package monitor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/rileyhilliard/mxtop/internal/snapshot"
)

// WorkloadRow is one coalition projected onto the five table columns.
type WorkloadRow struct {
	CPUTime      float64 // ms/s
	GPUTime      float64 // ms/s
	BytesRead    float64
	BytesWritten float64
	Name         string
}

// BuildWorkloadTable returns one row per coalition in snapshot order.
// Missing numeric fields read as 0. The result shares nothing with earlier
// tables.
func BuildWorkloadTable(snap *snapshot.Snapshot) []WorkloadRow {
	if snap == nil || len(snap.Coalitions) == 0 {
		return nil
	}
	rows := make([]WorkloadRow, 0, len(snap.Coalitions))
	for _, c := range snap.Coalitions {
		rows = append(rows, WorkloadRow{
			CPUTime:      c.CPUTime(),
			GPUTime:      c.GPUTime(),
			BytesRead:    c.BytesRead(),
			BytesWritten: c.BytesWritten(),
			Name:         c.Name,
		})
	}
	return rows
}

// Cells formats the row for display.
func (r WorkloadRow) Cells() table.Row {
	return table.Row{
		fmt.Sprintf("%.1f", r.CPUTime),
		fmt.Sprintf("%.1f", r.GPUTime),
		formatBytes(r.BytesRead),
		formatBytes(r.BytesWritten),
		r.Name,
	}
}

func formatBytes(b float64) string {
	if b <= 0 {
		return "0 B"
	}
	return humanize.Bytes(uint64(b))
}

// SortOrder defines how the workload table is ordered on screen.
type SortOrder int

const (
	SortBySnapshot SortOrder = iota
	SortByCPU
	SortByGPU
	SortByRead
	SortByWritten
	SortByName

	sortOrderCount
)

// String returns a human-readable label for the sort order.
func (s SortOrder) String() string {
	switch s {
	case SortBySnapshot:
		return "sampler"
	case SortByCPU:
		return "CPU"
	case SortByGPU:
		return "GPU"
	case SortByRead:
		return "read"
	case SortByWritten:
		return "written"
	case SortByName:
		return "name"
	default:
		return "sampler"
	}
}

// Next cycles to the next sort order.
func (s SortOrder) Next() SortOrder {
	return SortOrder((int(s) + 1) % int(sortOrderCount))
}

// SortRows returns a sorted copy of rows. Numeric orders are descending,
// name is ascending, and ties keep snapshot order.
func SortRows(rows []WorkloadRow, order SortOrder) []WorkloadRow {
	out := append([]WorkloadRow(nil), rows...)

	var less func(a, b WorkloadRow) bool
	switch order {
	case SortByCPU:
		less = func(a, b WorkloadRow) bool { return a.CPUTime > b.CPUTime }
	case SortByGPU:
		less = func(a, b WorkloadRow) bool { return a.GPUTime > b.GPUTime }
	case SortByRead:
		less = func(a, b WorkloadRow) bool { return a.BytesRead > b.BytesRead }
	case SortByWritten:
		less = func(a, b WorkloadRow) bool { return a.BytesWritten > b.BytesWritten }
	case SortByName:
		less = func(a, b WorkloadRow) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// workloadColumns follows the sampler's field order with the name last.
func workloadColumns(width int) []table.Column {
	const numeric = 10
	name := width - 4*numeric - 10 // cell padding
	if name < 12 {
		name = 12
	}
	return []table.Column{
		{Title: "CPU ms/s", Width: numeric},
		{Title: "GPU ms/s", Width: numeric},
		{Title: "Read", Width: numeric},
		{Title: "Written", Width: numeric},
		{Title: "Name", Width: name},
	}
}

// newWorkloadTable creates the table widget with dashboard styling.
func newWorkloadTable(width, height int) table.Model {
	t := table.New(
		table.WithColumns(workloadColumns(width)),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorAccent)
	s.Cell = s.Cell.
		Foreground(ColorTextPrimary)
	s.Selected = s.Selected.
		Foreground(ColorTextPrimary).
		Background(ColorAccentDim).
		Bold(false)

	t.SetStyles(s)
	return t
}

// toTableRows formats rows for the table widget.
func toTableRows(rows []WorkloadRow) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = r.Cells()
	}
	return out
}
