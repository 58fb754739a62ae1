package browser

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	SelectAll key.Binding
	ClearPage key.Binding
	Next      key.Binding
	Prev      key.Binding
	First     key.Binding
	Bulk      key.Binding
	Reload    key.Binding
	Submit    key.Binding
	Cancel    key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		SelectAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select page")),
		ClearPage: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear page")),
		Next:      key.NewBinding(key.WithKeys("right", "n"), key.WithHelp("→/n", "next page")),
		Prev:      key.NewBinding(key.WithKeys("left", "p"), key.WithHelp("←/p", "prev page")),
		First:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first page")),
		Bulk:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "select first N")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.SelectAll, k.ClearPage, k.Bulk, k.Prev, k.Next, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.SelectAll, k.ClearPage},
		{k.Prev, k.Next, k.First, k.Reload},
		{k.Bulk, k.Quit},
	}
}

// bulkKeyMap is shown while the count prompt is open.
type bulkKeyMap struct {
	keyMap
}

func (k bulkKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel}
}

func (k bulkKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Submit, k.Cancel}}
}
