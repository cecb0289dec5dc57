package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up            key.Binding
	Down          key.Binding
	Select        key.Binding
	Search        key.Binding
	Category      key.Binding
	NextKind      key.Binding
	ToggleKind    key.Binding
	ClearFilters  key.Binding
	Categorize    key.Binding
	Clone         key.Binding
	ViewDashboard key.Binding
	Install       key.Binding
	Run           key.Binding
	ViewReadme    key.Binding
	Copy          key.Binding
	ScrollUp      key.Binding
	ScrollDown    key.Binding
	Help          key.Binding
	Quit          key.Binding
}

var defaultKeyMap = keyMap{
	Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Select:        key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select app")),
	Search:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Category:      key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6"), key.WithHelp("1-6", "toggle category")),
	NextKind:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next kind")),
	ToggleKind:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle kind")),
	ClearFilters:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filters")),
	Categorize:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "categorize")),
	Clone:         key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "clone")),
	ViewDashboard: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "dashboard")),
	Install:       key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "install deps")),
	Run:           key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "run")),
	ViewReadme:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "readme")),
	Copy:          key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy output")),
	ScrollUp:      key.NewBinding(key.WithKeys("pgup", "K"), key.WithHelp("pgup", "scroll output")),
	ScrollDown:    key.NewBinding(key.WithKeys("pgdown", "J"), key.WithHelp("pgdn", "scroll output")),
	Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp satisfies help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Categorize, k.Clone, k.Install, k.Run, k.ViewReadme, k.Search, k.Help, k.Quit}
}

// FullHelp satisfies help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.ScrollUp, k.ScrollDown},
		{k.Search, k.Category, k.NextKind, k.ToggleKind, k.ClearFilters},
		{k.Categorize, k.Clone, k.ViewDashboard, k.Install, k.Run, k.ViewReadme},
		{k.Copy, k.Help, k.Quit},
	}
}
