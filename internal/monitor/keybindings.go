package monitor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMap lists the dashboard's key bindings. It implements help.KeyMap.
type keyMap struct {
	Quit       key.Binding
	CycleSort  key.Binding
	RowUp      key.Binding
	RowDown    key.Binding
	Top        key.Binding
	Bottom     key.Binding
	ToggleHelp key.Binding
	Close      key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	CycleSort: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sort"),
	),
	RowUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	RowDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Top: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("home", "first workload"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("end", "last workload"),
	),
	ToggleHelp: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close help"),
	),
}

// ShortHelp returns the footer bindings.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.CycleSort, k.RowDown, k.ToggleHelp}
}

// FullHelp returns the bindings shown in the help overlay, one column each.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.ToggleHelp, k.Close},
		{k.CycleSort},
		{k.RowUp, k.RowDown, k.Top, k.Bottom},
	}
}

// HandleKeyMsg processes keyboard input.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	// Help toggle takes priority
	if key.Matches(msg, keys.ToggleHelp) {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key.Matches(msg, keys.Close) {
		m.showHelp = false
		return true, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		cmd := m.stop(ReasonInterrupted)
		return true, cmd

	case key.Matches(msg, keys.CycleSort):
		m.sortOrder = m.sortOrder.Next()
		m.refreshTable()
		m.table.GotoTop()
		return true, nil

	case key.Matches(msg, keys.RowUp):
		m.table.MoveUp(1)
		return true, nil

	case key.Matches(msg, keys.RowDown):
		m.table.MoveDown(1)
		return true, nil

	case key.Matches(msg, keys.Top):
		m.table.GotoTop()
		return true, nil

	case key.Matches(msg, keys.Bottom):
		m.table.GotoBottom()
		return true, nil
	}

	return false, nil
}
