package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keyboard shortcuts for the dashboard
type KeyMap struct {
	// Global
	Quit      key.Binding
	ForceQuit key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	GoTo      key.Binding
	Help      key.Binding

	// Visualize
	Instrument key.Binding
	Earlier    key.Binding
	Later      key.Binding
	Widen      key.Binding
	Narrow     key.Binding
	Reset      key.Binding

	// Auto mode
	Toggle    key.Binding
	Direction key.Binding
	StakeUp   key.Binding
	StakeDown key.Binding
	Open      key.Binding

	// Positions
	Close    key.Binding
	CloseAll key.Binding

	// Funds
	Switch key.Binding
	Submit key.Binding
	Clear  key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev page"),
		),
		GoTo: key.NewBinding(
			key.WithKeys("1", "2", "3", "4"),
			key.WithHelp("1-4", "go to page"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),

		Instrument: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "switch index"),
		),
		Earlier: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "earlier"),
		),
		Later: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "later"),
		),
		Widen: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more days"),
		),
		Narrow: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "fewer days"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "full range"),
		),

		Toggle: key.NewBinding(
			key.WithKeys("a", " "),
			key.WithHelp("a/space", "toggle auto mode"),
		),
		Direction: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "long/short"),
		),
		StakeUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "stake +100"),
		),
		StakeDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "stake -100"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "o"),
			key.WithHelp("enter", "open position"),
		),

		Close: key.NewBinding(
			key.WithKeys("c", "enter"),
			key.WithHelp("c/enter", "close position"),
		),
		CloseAll: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close all"),
		),

		Switch: key.NewBinding(
			key.WithKeys("up", "down"),
			key.WithHelp("↑/↓", "switch field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "update balance"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
	}
}

// pageHelp adapts the key map to bubbles/help for one page.
type pageHelp struct {
	keys KeyMap
	page page
}

func (h pageHelp) ShortHelp() []key.Binding {
	k := h.keys
	switch h.page {
	case pageVisualize:
		return []key.Binding{k.Instrument, k.Earlier, k.Later, k.NextPage, k.Quit}
	case pageAuto:
		return []key.Binding{k.Toggle, k.Direction, k.StakeUp, k.Open, k.NextPage, k.Quit}
	case pagePositions:
		return []key.Binding{k.Close, k.CloseAll, k.NextPage, k.Quit}
	case pageFunds:
		return []key.Binding{k.Switch, k.Submit, k.NextPage, k.ForceQuit}
	}
	return []key.Binding{k.NextPage, k.Quit}
}

func (h pageHelp) FullHelp() [][]key.Binding {
	k := h.keys
	global := []key.Binding{k.NextPage, k.PrevPage, k.GoTo, k.Help, k.Quit}
	switch h.page {
	case pageVisualize:
		return [][]key.Binding{{k.Instrument, k.Earlier, k.Later, k.Widen, k.Narrow, k.Reset}, global}
	case pageAuto:
		return [][]key.Binding{{k.Toggle, k.Direction, k.StakeUp, k.StakeDown, k.Open}, global}
	case pagePositions:
		return [][]key.Binding{{k.Close, k.CloseAll}, global}
	case pageFunds:
		return [][]key.Binding{{k.Switch, k.Submit, k.Clear}, {k.NextPage, k.PrevPage, k.ForceQuit}}
	}
	return [][]key.Binding{global}
}
