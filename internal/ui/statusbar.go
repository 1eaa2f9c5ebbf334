package ui

import (
	"github.com/charmbracelet/lipgloss"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusError
)

type StatusBarModel struct {
	width, height int
	user          string
	authenticated bool
	message       string
	kind          statusKind
	styles        Styles
}

func NewStatusBarModel(styles Styles) StatusBarModel {
	return StatusBarModel{styles: styles}
}

func (m *StatusBarModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *StatusBarModel) SetSession(authenticated bool, user string) {
	m.authenticated = authenticated
	m.user = user
}

func (m *StatusBarModel) SetMessage(kind statusKind, message string) {
	m.kind = kind
	m.message = message
}

func (m StatusBarModel) View() string {
	session := m.styles.StatusArtist.Render("not logged in")
	if m.authenticated {
		who := "logged in"
		if m.user != "" {
			who = "logged in as " + m.user
		}
		session = m.styles.StatusTitle.Render(who)
	}

	var message string
	switch m.kind {
	case statusError:
		message = m.styles.ErrorText.Render(m.message)
	case statusSuccess:
		message = m.styles.SuccessText.Render(m.message)
	default:
		message = m.styles.Muted.Render(m.message)
	}

	content := session
	if m.message != "" {
		content = lipgloss.JoinHorizontal(lipgloss.Left, session, " · ", message)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Center, content)
}
