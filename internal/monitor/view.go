package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/mxtop/internal/ui"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	minTableRows  = 3
	coreCellWidth = 34
	coreLabelSize = 12
)

// tableHeaderLines is the table widget's column header and its border.
const tableHeaderLines = 2

// View renders the dashboard.
func (m Model) View() string {
	if m.state == StateStopped {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// size returns the terminal size, or a default before the first resize.
func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.state == StateStarting {
		b.WriteString(m.renderWaiting())
	} else {
		b.WriteString(m.renderClusters())
		b.WriteString(m.renderGPU())
		b.WriteString(m.renderWorkloads())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader shows the title, chip, power, thermal pressure, memory and
// clock.
func (m Model) renderHeader() string {
	parts := []string{TitleStyle.Render("mxtop") + " Apple Silicon"}

	chip := m.opts.Host.Summary()
	if chip == "" && m.last != nil {
		chip = m.last.HWModel
	}
	if chip != "" {
		parts = append(parts, chip)
	}

	if cpuMW, gpuMW, ok := m.last.Power(); ok {
		parts = append(parts, fmt.Sprintf("CPU %.2f W · GPU %.2f W", cpuMW/1000, gpuMW/1000))
	}
	if total, ok := m.last.CombinedPower(); ok {
		parts = append(parts, fmt.Sprintf("package %.2f W", total/1000))
	}
	if m.last != nil && m.last.ThermalPressure != "" {
		parts = append(parts, "thermal "+m.last.ThermalPressure)
	}
	if m.hasMemory {
		parts = append(parts, "mem "+m.memory.String())
	}
	clock := m.clock.Format("15:04:05")
	if d, ok := m.last.Interval(); ok {
		clock += fmt.Sprintf(" (%.1fs sample)", d.Seconds())
	}
	parts = append(parts, clock)

	sep := LabelStyle.Render(" | ")
	return HeaderStyle.Render(strings.Join(parts, sep))
}

func (m Model) renderWaiting() string {
	return m.waiting.View() + LabelStyle.Render(fmt.Sprintf(" (up to %s)...", m.opts.Timeout)) + "\n"
}

// coreColumns is how many core cells fit side by side in one panel.
func (m Model) coreColumns() int {
	w, _ := m.size()
	cols := (w - 4) / coreCellWidth
	if cols < 1 {
		cols = 1
	}
	return cols
}

func (m Model) renderCore(key CoreKey, width int) string {
	v, _ := m.gauges.Core(key)
	label := LabelStyle.Render(padRight(key.String(), coreLabelSize))
	pct := ValueStyle.Render(fmt.Sprintf("%5.1f%%", v*100))
	barWidth := width - coreLabelSize - 8
	return label + " " + ProgressBarWithThresholds(barWidth, v*100, m.opts.Thresholds) + " " + pct
}

// renderClusters draws one panel per cluster, cores in first-seen order.
func (m Model) renderClusters() string {
	w, _ := m.size()
	cols := m.coreColumns()
	cell := (w - 4) / cols

	var b strings.Builder
	for _, cluster := range m.gauges.Clusters() {
		var sum float64
		for _, k := range cluster.Cores {
			v, _ := m.gauges.Core(k)
			sum += v
		}
		avg := sum / float64(len(cluster.Cores))

		b.WriteString(SectionHeader(cluster.Name, fmt.Sprintf("%.0f%%", avg*100), w))
		b.WriteString("\n")
		for i := 0; i < len(cluster.Cores); i += cols {
			end := i + cols
			if end > len(cluster.Cores) {
				end = len(cluster.Cores)
			}
			var cells []string
			for _, k := range cluster.Cores[i:end] {
				cells = append(cells, padRight(m.renderCore(k, cell-1), cell))
			}
			b.WriteString(SectionContentLine(strings.Join(cells, ""), w))
			b.WriteString("\n")
		}
		b.WriteString(SectionFooter(w))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderGPU() string {
	w, _ := m.size()
	v := m.gauges.GPU()

	var b strings.Builder
	value := fmt.Sprintf("%.0f%%", v*100)
	if mhz, ok := m.last.GPUFreqMHz(); ok {
		value = fmt.Sprintf("%.0f MHz · %s", mhz, value)
	}
	b.WriteString(SectionHeader("GPU", value, w))
	b.WriteString("\n")
	line := ProgressBarWithThresholds(w-14, v*100, m.opts.Thresholds) + " " +
		ValueStyle.Render(fmt.Sprintf("%5.1f%%", v*100))
	b.WriteString(SectionContentLine(line, w))
	b.WriteString("\n")
	b.WriteString(SectionContentLine(m.renderTrend("GPU", m.gpuHistory.Values(), w-4), w))
	b.WriteString("\n")
	b.WriteString(SectionContentLine(m.renderTrend("CPU", m.cpuHistory.Values(), w-4), w))
	b.WriteString("\n")
	b.WriteString(SectionFooter(w))
	b.WriteString("\n")
	return b.String()
}

// renderTrend draws one labelled sparkline colored by its newest value.
func (m Model) renderTrend(label string, values []float64, width int) string {
	spark := ui.RenderSparkline(values, width-6)
	var last float64
	if len(values) > 0 {
		last = values[len(values)-1]
	}
	color := MetricColorWithThresholds(last*100, m.opts.Thresholds.Warning, m.opts.Thresholds.Critical)
	return LabelStyle.Render(padRight(label, 6)) + lipgloss.NewStyle().Foreground(color).Render(spark)
}

func (m Model) renderWorkloads() string {
	w, _ := m.size()
	var b strings.Builder
	b.WriteString(SectionHeader("Workloads", fmt.Sprintf("%d · sort %s", len(m.rows), m.sortOrder), w))
	b.WriteString("\n")
	if len(m.rows) == 0 {
		b.WriteString(MutedStyle.Render("  no coalitions reported"))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(m.table.View())
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderFooter() string {
	return FooterStyle.Render(m.help.ShortHelpView(keys.ShortHelp()))
}

// tableHeight is the number of workload rows that fit under the gauge
// panels, not counting the table's own column header.
func (m Model) tableHeight() int {
	_, h := m.size()
	used := 2 + 5 + 1 + tableHeaderLines + 2 // header, GPU panel, table title, column header, footer
	cols := m.coreColumns()
	for _, c := range m.gauges.Clusters() {
		used += 2 + (len(c.Cores)+cols-1)/cols
	}
	if rows := h - used; rows > minTableRows {
		return rows
	}
	return minTableRows
}

// padRight pads s with spaces to the given display width.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
