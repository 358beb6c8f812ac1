package monitor

import (
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestMetricColor_DefaultThresholds(t *testing.T) {
	tests := []struct {
		percent float64
		want    lipgloss.Color
	}{
		{0, ColorHealthy},
		{69.9, ColorHealthy},
		{70, ColorWarning},
		{89.9, ColorWarning},
		{90, ColorCritical},
		{100, ColorCritical},
	}
	for _, tt := range tests {
		d := DefaultThresholds()
		assert.Equal(t, tt.want, MetricColorWithThresholds(tt.percent, d.Warning, d.Critical), "percent %v", tt.percent)
	}
}

func TestMetricColorWithThresholds(t *testing.T) {
	assert.Equal(t, ColorWarning, MetricColorWithThresholds(50, 40, 60))
	assert.Equal(t, ColorCritical, MetricColorWithThresholds(60, 40, 60))
	assert.Equal(t, ColorHealthy, MetricColorWithThresholds(39, 40, 60))
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		percent float64
		filled  int
	}{
		{"empty", 10, 0, 0},
		{"half", 10, 50, 5},
		{"full", 10, 100, 10},
		{"over", 10, 150, 10},
		{"negative", 10, -5, 0},
		{"zero width", 0, 50, 0},
		{"nan", 10, math.NaN(), 0},
		{"inf", 10, math.Inf(1), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := ProgressBarWithThresholds(tt.width, tt.percent, DefaultThresholds())
			width := tt.width
			if width < 1 {
				width = 1
			}
			assert.Equal(t, width, lipgloss.Width(bar))
			assert.Equal(t, tt.filled, strings.Count(bar, "▰"))
			assert.Equal(t, width-tt.filled, strings.Count(bar, "▱"))
		})
	}
}

func TestSectionHeader_Width(t *testing.T) {
	h := SectionHeader("GPU", "75%", 40)
	assert.Equal(t, 40, lipgloss.Width(h))
	assert.Contains(t, h, "GPU")
	assert.Contains(t, h, "75%")
}

func TestSectionFooter_Width(t *testing.T) {
	assert.Equal(t, 40, lipgloss.Width(SectionFooter(40)))
	assert.Equal(t, 2, lipgloss.Width(SectionFooter(0)))
}

func TestSectionContentLine_Pads(t *testing.T) {
	line := SectionContentLine("hello", 20)
	assert.Equal(t, 20, lipgloss.Width(line))
	assert.True(t, strings.HasPrefix(line, "│ hello"))
	assert.True(t, strings.HasSuffix(line, " │"))
}
