package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit           key.Binding
	Submit         key.Binding
	NextField      key.Binding
	PrevField      key.Binding
	ToggleRegister key.Binding
	Easy           key.Binding
	Moderate       key.Binding
	Advanced       key.Binding
	Logout         key.Binding
	Commit         key.Binding
	Pause          key.Binding
	Edit           key.Binding
	Stop           key.Binding
	Save           key.Binding
	Randomize      key.Binding
	Cancel         key.Binding
	Dismiss        key.Binding
	Scroll         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:           key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Submit:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		NextField:      key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField:      key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		ToggleRegister: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "login/register")),
		Easy:           key.NewBinding(key.WithKeys("1", "e"), key.WithHelp("1", "easy")),
		Moderate:       key.NewBinding(key.WithKeys("2", "m"), key.WithHelp("2", "moderate")),
		Advanced:       key.NewBinding(key.WithKeys("3", "a"), key.WithHelp("3", "advanced")),
		Logout:         key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "logout")),
		Commit:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("space/enter", "submit word")),
		Pause:          key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "pause/resume")),
		Edit:           key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "edit paragraph")),
		Stop:           key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "stop")),
		Save:           key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save & reset")),
		Randomize:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "randomize")),
		Cancel:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Dismiss:        key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "ok")),
		Scroll:         key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll text")),
	}
}

// bindings adapts a list of bindings to help.KeyMap.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding { return b }

func (b bindings) FullHelp() [][]key.Binding { return [][]key.Binding{b} }

func (k keyMap) authHelp() bindings {
	return bindings{k.Submit, k.NextField, k.ToggleRegister, k.Quit}
}

func (k keyMap) menuHelp() bindings {
	return bindings{k.Easy, k.Moderate, k.Advanced, k.Logout, k.Quit}
}

func (k keyMap) gameHelp() bindings {
	return bindings{k.Commit, k.Pause, k.Edit, k.Stop, k.Scroll, k.Logout}
}

func (k keyMap) editorHelp() bindings {
	return bindings{k.Save, k.Randomize, k.Cancel}
}

func (k keyMap) noticeHelp() bindings {
	return bindings{k.Dismiss}
}
