package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	msgUsernameRequired = "Le nom d'utilisateur est requis"
	msgPasswordRequired = "Le mot de passe est requis"
)

// authForm backs both the login and the registration views.
type authForm struct {
	register bool
	username textinput.Model
	password textinput.Model
	focus    int
	localErr string
	pending  bool
}

func newAuthForm(register bool) authForm {
	f := authForm{
		register: register,
		username: newInput("", credentialCharLimit),
		password: newPasswordInput(),
	}
	f.focusField(0)
	return f
}

func (f *authForm) focusField(i int) {
	f.focus = i
	focusOnly(i, &f.username, &f.password)
}

func (m *Model) updateAuth(msg tea.KeyMsg) tea.Cmd {
	f := &m.auth
	if f.pending {
		return nil
	}
	switch msg.Type {
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		f.focusField(1 - f.focus)
		return nil
	case tea.KeyEnter:
		return m.submitAuth()
	}

	in := &f.username
	if f.focus == 1 {
		in = &f.password
	}
	cmd, _ := edit(in, msg)
	return cmd
}

func (m *Model) submitAuth() tea.Cmd {
	f := &m.auth
	username, password := strings.TrimSpace(f.username.Value()), f.password.Value()
	switch {
	case username == "":
		f.localErr = msgUsernameRequired
		return nil
	case password == "":
		f.localErr = msgPasswordRequired
		return nil
	}
	f.localErr = ""
	f.pending = true

	ctx, sess := m.ctx, m.deps.Session
	register := f.register
	return func() tea.Msg {
		var err error
		if register {
			_, err = sess.Register(ctx, username, password)
		} else {
			_, err = sess.Login(ctx, username, password)
		}
		return authDoneMsg{err: err}
	}
}

func (m *Model) viewAuth() string {
	f := m.auth
	title := "Connexion"
	if f.register {
		title = "Inscription"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if snap := m.deps.Session.Snapshot(); snap.Error != "" && !f.pending {
		b.WriteString(errorStyle.Render(snap.Error))
		b.WriteString("\n\n")
	}

	b.WriteString(field("Nom d'utilisateur", f.username.View(), f.focus == 0))
	b.WriteString(field("Mot de passe", f.password.View(), f.focus == 1))

	if f.localErr != "" {
		b.WriteString(errorStyle.Render(f.localErr))
		b.WriteString("\n")
	}
	if f.pending {
		b.WriteString(labelStyle.Render("Connexion en cours..."))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("tab: champ suivant • entrée: valider • ctrl+c: quitter"))
	return b.String()
}

func field(label, value string, focused bool) string {
	cursor := " "
	style := labelStyle
	if focused {
		cursor = ">"
		style = focusStyle
	}
	return style.Render(cursor+" "+label+": ") + value + "\n"
}
