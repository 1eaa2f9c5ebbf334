package ui

import (
	"context"

	"github.com/gabrielcapilla/songdash/internal/ports"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type LoginModel struct {
	auth    ports.AuthService
	session ports.SessionService
	form    formModel
	busy    bool
	err     error
	notice  string
	styles  Styles
}

func NewLoginModel(auth ports.AuthService, session ports.SessionService, styles Styles) LoginModel {
	return LoginModel{
		auth:    auth,
		session: session,
		form: newFormModel(styles,
			[]string{"Username", "Password"},
			[]string{"Type your username", "Type your password"},
			map[int]bool{1: true}),
		styles: styles,
	}
}

func (m *LoginModel) Focus() tea.Cmd {
	m.err = nil
	return m.form.Focus()
}

func (m *LoginModel) SetNotice(notice string) { m.notice = notice }

// loginCmd runs the credential exchange and starts the session with the
// returned token.
func loginCmd(auth ports.AuthService, session ports.SessionService, username, password string) tea.Cmd {
	return func() tea.Msg {
		token, err := auth.Login(context.Background(), username, password)
		if err != nil {
			return ports.LoginFailedMsg{Err: err}
		}
		if err := session.Login(token); err != nil {
			return ports.LoginFailedMsg{Err: err}
		}
		return ports.LoginSucceededMsg{Username: username}
	}
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ports.LoginSucceededMsg:
		m.busy = false
		m.notice = ""
		m.form.Reset()
		return m, nil
	case ports.LoginFailedMsg:
		m.busy = false
		m.err = msg.Err
		return m, nil
	}

	if m.busy {
		return m, nil
	}

	var cmd tea.Cmd
	var submitted bool
	m.form, cmd, submitted = m.form.Update(msg)
	if submitted {
		m.busy = true
		m.err = nil
		return m, loginCmd(m.auth, m.session, m.form.Value(0), m.form.Value(1))
	}
	return m, cmd
}

func (m LoginModel) View() string {
	rows := []string{m.styles.Title.Render("Login"), ""}
	if m.notice != "" {
		rows = append(rows, m.styles.SuccessText.Render(m.notice), "")
	}
	rows = append(rows, m.form.View())
	switch {
	case m.busy:
		rows = append(rows, m.styles.Muted.Render("Logging in..."))
	case m.err != nil:
		rows = append(rows, m.styles.ErrorText.Render(describeError(m.err)))
	}
	rows = append(rows, "", m.styles.Help.Render("[enter] next/submit · [ctrl+r] register · [esc] home"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
