package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SpinnerFrames defines the animation frames (◐ ◓ ◑ ◒).
var SpinnerFrames = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 10,
}

// WaitSpinner is a Bubble Tea component for a labelled wait. It stops
// animating once Done is called.
type WaitSpinner struct {
	spinner spinner.Model
	Label   string
	done    bool
}

// NewWaitSpinner creates a spinner with the given label and style.
func NewWaitSpinner(label string, style lipgloss.Style) WaitSpinner {
	sp := spinner.New()
	sp.Spinner = SpinnerFrames
	sp.Style = style
	return WaitSpinner{spinner: sp, Label: label}
}

// Tick returns the command that starts the animation.
func (s WaitSpinner) Tick() tea.Cmd {
	return s.spinner.Tick
}

// Update advances the animation on its own tick messages. Other messages,
// and every message after Done, are ignored.
func (s WaitSpinner) Update(msg tea.Msg) (WaitSpinner, tea.Cmd) {
	if s.done {
		return s, nil
	}
	tick, ok := msg.(spinner.TickMsg)
	if !ok {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(tick)
	return s, cmd
}

// Done stops the animation.
func (s *WaitSpinner) Done() { s.done = true }

// Active reports whether the spinner is still animating.
func (s WaitSpinner) Active() bool { return !s.done }

// View renders the current frame and label.
func (s WaitSpinner) View() string {
	return s.spinner.View() + " " + s.Label
}
