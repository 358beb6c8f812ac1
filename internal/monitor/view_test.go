package monitor

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/mxtop/internal/sysinfo"
)

func TestView_WaitingForFirstSnapshot(t *testing.T) {
	m := NewModel(context.Background(), newScriptSource(), Options{Timeout: 5 * time.Second})

	view := m.View()

	assert.Contains(t, view, "mxtop")
	assert.Contains(t, view, "Waiting for powermetrics (up to 5s)...")
	assert.NotContains(t, view, "Workloads")
	assert.Contains(t, view, "quit")
}

func TestView_Running(t *testing.T) {
	m := newTestModel(newScriptSource(), &stopRecorder{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = update(t, m, frameMsg{delivered(decode(t, fullDoc))})

	view := m.View()

	for _, want := range []string{
		"Mac14,9",
		"GPU 0.21 W",
		"package 1.44 W",
		"thermal Nominal",
		"09:12:44 (1.0s sample)",
		"444 MHz · 75%",
		"E-Cluster",
		"P0-Cluster",
		"E-Cluster_0",
		"P0-Cluster_2",
		"GPU",
		"75.0%",
		"Workloads",
		"3 · sort sampler",
		"WindowServer",
		"kernel_task",
	} {
		assert.Contains(t, view, want)
	}
}

func TestView_NonFiniteSampleRenders(t *testing.T) {
	m := newTestModel(newScriptSource(), &stopRecorder{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = update(t, m, frameMsg{delivered(decode(t, nanDoc))})

	var view string
	require.NotPanics(t, func() { view = m.View() })
	assert.Contains(t, view, "E-Cluster_0")
	assert.NotContains(t, view, "NaN")
}

func TestView_HostSummaryReplacesModel(t *testing.T) {
	m := NewModel(context.Background(), newScriptSource(), Options{
		Host: sysinfo.Info{Chip: "Apple M2 Pro", Cores: 12},
	})
	m, _ = update(t, m, frameMsg{delivered(decode(t, fullDoc))})

	view := m.View()

	assert.Contains(t, view, "Apple M2 Pro")
	assert.NotContains(t, view, "Mac14,9")
}

func TestView_MemoryInHeader(t *testing.T) {
	m := NewModel(context.Background(), newScriptSource(), Options{
		Memory: func() (sysinfo.Memory, error) {
			return sysinfo.Memory{Used: 4 << 30, Total: 16 << 30}, nil
		},
	})
	m, _ = update(t, m, clockMsg(time.Now()))

	assert.Contains(t, m.View(), "mem 4.0 GiB / 16 GiB")
}

func TestView_NoCoalitions(t *testing.T) {
	m := newTestModel(newScriptSource(), &stopRecorder{})
	m, _ = update(t, m, frameMsg{delivered(decode(t, `{"gpu":{"idle_ratio":0.5}}`))})

	view := m.View()

	assert.Contains(t, view, "no coalitions reported")
	assert.Contains(t, view, "50.0%")
}

func TestView_HelpOverlay(t *testing.T) {
	m := newTestModel(newScriptSource(), &stopRecorder{})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})

	view := m.View()

	assert.Contains(t, view, "Keyboard Shortcuts")
	assert.Contains(t, view, "Sort order: sampler")
	assert.Contains(t, view, "Press ? to close")
	assert.NotContains(t, view, "Waiting for powermetrics")
}

func TestView_StoppedIsEmpty(t *testing.T) {
	m := newTestModel(newScriptSource(), &stopRecorder{})
	m, _ = update(t, m, frameMsg{delivered(decode(t, fullDoc))})
	m, _ = update(t, m, InterruptMsg{})

	require.Equal(t, StateStopped, m.State())
	assert.Empty(t, m.View())
}

func TestView_NarrowTerminal(t *testing.T) {
	m := newTestModel(newScriptSource(), &stopRecorder{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 10})
	m, _ = update(t, m, frameMsg{delivered(decode(t, fullDoc))})

	assert.NotPanics(t, func() { _ = m.View() })
	assert.Equal(t, 1, m.coreColumns())
	assert.Equal(t, minTableRows, m.tableHeight())
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
}
