package ui

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestSpinnerFrames(t *testing.T) {
	assert.Equal(t, []string{"◐", "◓", "◑", "◒"}, SpinnerFrames.Frames)
	assert.Equal(t, time.Second/10, SpinnerFrames.FPS)
}

func TestWaitSpinner_View(t *testing.T) {
	s := NewWaitSpinner("Waiting", lipgloss.NewStyle())

	assert.Contains(t, s.View(), "Waiting")
	assert.Contains(t, s.View(), "◐")
	assert.True(t, s.Active())
	assert.NotNil(t, s.Tick())
}

func TestWaitSpinner_AdvancesOnTick(t *testing.T) {
	s := NewWaitSpinner("Waiting", lipgloss.NewStyle())

	msg := s.Tick()()
	tick, ok := msg.(spinner.TickMsg)
	assert.True(t, ok)

	s, cmd := s.Update(tick)
	assert.NotNil(t, cmd, "animation keeps ticking")
	assert.Contains(t, s.View(), "◓")
}

func TestWaitSpinner_IgnoresOtherMessages(t *testing.T) {
	s := NewWaitSpinner("Waiting", lipgloss.NewStyle())

	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestWaitSpinner_DoneStopsTicking(t *testing.T) {
	s := NewWaitSpinner("Waiting", lipgloss.NewStyle())
	tick := s.Tick()()

	s.Done()
	s, cmd := s.Update(tick)

	assert.False(t, s.Active())
	assert.Nil(t, cmd)
}
