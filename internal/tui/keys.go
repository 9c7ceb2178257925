package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Tab        key.Binding
	ShiftTab   key.Binding
	Quit       key.Binding
	Up         key.Binding
	Down       key.Binding
	PrevDay    key.Binding
	NextDay    key.Binding
	Today      key.Binding
	Toggle     key.Binding
	Stop       key.Binding
	Help       key.Binding
	Add        key.Binding
	Edit       key.Binding
	Deactivate key.Binding
	Restore    key.Binding
	Range      key.Binding
	Refresh    key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Quit, k.Help, k.Refresh},
		{k.Up, k.Down, k.PrevDay, k.NextDay, k.Today},
		{k.Toggle, k.Stop, k.Add, k.Edit, k.Deactivate, k.Restore, k.Range},
	}
}

// bind creates a binding whose help label is its first key unless label is set.
func bind(desc, label string, keys ...string) key.Binding {
	if label == "" {
		label = keys[0]
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab:        bind("next tab", "", "tab"),
		ShiftTab:   bind("prev tab", "", "shift+tab"),
		Quit:       bind("quit", "q", "q", "ctrl+c"),
		Up:         bind("up", "↑/k", "up", "k"),
		Down:       bind("down", "↓/j", "down", "j"),
		PrevDay:    bind("previous day", "←/h", "left", "h"),
		NextDay:    bind("next day", "→/l", "right", "l"),
		Today:      bind("today", "", "t"),
		Toggle:     bind("start/stop", "enter", "enter", " "),
		Stop:       bind("stop", "", "s"),
		Help:       bind("toggle help", "", "?"),
		Add:        bind("add plan", "", "a"),
		Edit:       bind("edit", "", "e"),
		Deactivate: bind("deactivate plan", "", "d"),
		Restore:    bind("restore plan", "", "r"),
		Range:      bind("rolling/calendar", "", "w"),
		Refresh:    bind("refresh", "", "ctrl+r"),
	}
}
