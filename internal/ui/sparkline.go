package ui

import (
	"strings"
)

// Sparkline block characters representing 8 vertical levels (lowest to highest).
const sparklineBlocks = "▁▂▃▄▅▆▇█"

var sparklineBlockRunes = []rune(sparklineBlocks)

// RenderSparkline draws the most recent width values as block characters.
// Values are fractions on a fixed 0 to 1 scale, so a flat line at 0.2 stays
// low instead of being stretched to fill the range. Out-of-range values are
// clamped. The result is unstyled.
func RenderSparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	if len(data) > width {
		data = data[len(data)-width:]
	}

	var sb strings.Builder
	sb.Grow(len(data) * 3)

	top := len(sparklineBlockRunes) - 1
	for _, v := range data {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		level := int(v*float64(top) + 0.5)
		sb.WriteRune(sparklineBlockRunes[level])
	}
	return sb.String()
}

// History keeps the last N samples of one gauge, oldest first.
type History struct {
	values []float64
	size   int
}

// NewHistory creates a history holding up to size samples. Sizes below one
// are raised to one.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{values: make([]float64, 0, size), size: size}
}

// Push appends v, dropping the oldest sample when full.
func (h *History) Push(v float64) {
	if len(h.values) == h.size {
		copy(h.values, h.values[1:])
		h.values = h.values[:h.size-1]
	}
	h.values = append(h.values, v)
}

// Values returns a copy of the samples, oldest first.
func (h *History) Values() []float64 {
	return append([]float64(nil), h.values...)
}

// Len returns the number of samples held.
func (h *History) Len() int { return len(h.values) }

// Last returns the newest sample, or 0 when empty.
func (h *History) Last() float64 {
	if len(h.values) == 0 {
		return 0
	}
	return h.values[len(h.values)-1]
}
