package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start   key.Binding
	Pause   key.Binding
	Menu    key.Binding
	Made    key.Binding
	Perfect key.Binding
	Bank    key.Binding
	Swish   key.Binding
	Miss    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Start:   key.NewBinding(key.WithKeys("enter", "s"), key.WithHelp("enter", "play")),
		Pause:   key.NewBinding(key.WithKeys("p", "esc"), key.WithHelp("p", "pause/resume")),
		Menu:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "menu")),
		Made:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "shot")),
		Perfect: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "perfect")),
		Bank:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bank shot")),
		Swish:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "perfect bank")),
		Miss:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "miss")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	bindings := []key.Binding{k.Start, k.Made, k.Perfect, k.Bank, k.Swish, k.Miss, k.Pause, k.Menu, k.Quit}
	out := bindings[:0]
	for _, b := range bindings {
		if b.Enabled() {
			out = append(out, b)
		}
	}
	return out
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
