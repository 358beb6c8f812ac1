package monitor

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestKeyMap_Help(t *testing.T) {
	assert.Len(t, keys.ShortHelp(), 4)
	assert.Len(t, keys.FullHelp(), 3)

	for _, group := range keys.FullHelp() {
		for _, b := range group {
			assert.NotEmpty(t, b.Help().Key)
			assert.NotEmpty(t, b.Help().Desc)
		}
	}
}

func TestKeyMap_Matches(t *testing.T) {
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, keys.Quit))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlC}, keys.Quit))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")}, keys.CycleSort))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyDown}, keys.RowDown))
	assert.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, keys.Quit))
}

func TestHandleKeyMsg_Unhandled(t *testing.T) {
	m := newTestModel(newScriptSource(), &stopRecorder{})

	handled, cmd := m.HandleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	assert.False(t, handled)
	assert.Nil(t, cmd)
	assert.Equal(t, StateStarting, m.State())
}

func TestHandleKeyMsg_EscOnlyClosesHelp(t *testing.T) {
	m := newTestModel(newScriptSource(), &stopRecorder{})

	handled, _ := m.HandleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, handled, "esc does nothing without the overlay")
}

func TestHandleKeyMsg_TableNavigation(t *testing.T) {
	m := newTestModel(newScriptSource(), &stopRecorder{})
	m, _ = update(t, m, frameMsg{delivered(decode(t, fullDoc))})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	assert.Equal(t, 2, m.table.Cursor())
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, m.table.Cursor())
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	assert.Equal(t, 0, m.table.Cursor())
}
