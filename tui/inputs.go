package tui

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	credentialCharLimit = 64
	answerCharLimit     = 500
	titleCharLimit      = 120
	inputWidth          = 48
)

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = inputWidth
	in.PlaceholderStyle = helpStyle.UnsetMarginTop()
	in.Cursor.SetMode(cursor.CursorStatic)
	return in
}

func newPasswordInput() textinput.Model {
	in := newInput("", credentialCharLimit)
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '•'
	return in
}

// focusOnly focuses inputs[i] and blurs the rest.
func focusOnly(i int, inputs ...*textinput.Model) {
	for n, in := range inputs {
		if n == i {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// edit feeds a key to in and reports whether its value changed.
func edit(in *textinput.Model, msg tea.KeyMsg) (tea.Cmd, bool) {
	before := in.Value()
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return cmd, in.Value() != before
}
