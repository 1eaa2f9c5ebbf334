package ui

import (
	"context"

	"github.com/gabrielcapilla/songdash/internal/domain"
	"github.com/gabrielcapilla/songdash/internal/ports"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type RegisterModel struct {
	auth   ports.AuthService
	form   formModel
	busy   bool
	err    error
	styles Styles
}

func NewRegisterModel(auth ports.AuthService, styles Styles) RegisterModel {
	form := newFormModel(styles,
		[]string{"Full Name", "Email", "Username", "Password"},
		[]string{"Type your full name", "Type your email", "Type your username", "Type your password"},
		map[int]bool{3: true},
	).withChoice("What option best defines you?", domain.Roles)

	return RegisterModel{auth: auth, form: form, styles: styles}
}

func (m *RegisterModel) Focus() tea.Cmd {
	m.err = nil
	return m.form.Focus()
}

func registerCmd(auth ports.AuthService, r domain.Registration) tea.Cmd {
	return func() tea.Msg {
		if err := auth.Register(context.Background(), r); err != nil {
			return ports.RegisterFailedMsg{Err: err}
		}
		return ports.RegisterSucceededMsg{}
	}
}

func (m RegisterModel) Update(msg tea.Msg) (RegisterModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ports.RegisterSucceededMsg:
		m.busy = false
		m.form.Reset()
		return m, nil
	case ports.RegisterFailedMsg:
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
		return m, registerCmd(m.auth, domain.Registration{
			FullName: m.form.Value(0),
			Email:    m.form.Value(1),
			Username: m.form.Value(2),
			Password: m.form.inputs[3].Value(),
			Role:     m.form.Choice(),
		})
	}
	return m, cmd
}

func (m RegisterModel) View() string {
	rows := []string{m.styles.Title.Render("Register"), "", m.form.View()}
	switch {
	case m.busy:
		rows = append(rows, m.styles.Muted.Render("Registering..."))
	case m.err != nil:
		rows = append(rows, m.styles.ErrorText.Render(describeError(m.err)))
	}
	rows = append(rows, "", m.styles.Help.Render("[enter] next/submit · [←/→] choose status · [ctrl+l] login · [esc] home"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
