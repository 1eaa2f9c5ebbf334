package ui

import (
	"github.com/gabrielcapilla/songdash/internal/domain"
	"github.com/gabrielcapilla/songdash/internal/guard"
	"github.com/gabrielcapilla/songdash/internal/logger"
	"github.com/gabrielcapilla/songdash/internal/ports"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	MIN_WIDTH  = 50
	MIN_HEIGHT = 15

	HomePath         = "/"
	RegistrationPath = "/registration"
)

// Deps are the services the UI drives.
type Deps struct {
	Auth     ports.AuthService
	Session  ports.SessionService
	Searcher Searcher
	History  ports.HistoryStore
	Opener   ports.URLOpener
	Config   domain.Config
	// StartPath is the first view requested; the guard may redirect it.
	StartPath string
}

type AppModel struct {
	width, height int
	deps          Deps
	path          string
	focus         ports.FocusState
	tabs          TabModel
	search        listAndFilterModel
	recent        listAndFilterModel
	login         LoginModel
	register      RegisterModel
	status        StatusBarModel
	styles        Styles
}

func InitialModel(deps Deps) AppModel {
	styles := DefaultStyles()
	if deps.StartPath == "" {
		deps.StartPath = guard.DashboardPath
	}
	m := AppModel{
		deps:     deps,
		path:     HomePath,
		focus:    ports.ComponentFocus,
		tabs:     NewTabModel(),
		search:   NewSearchModel(deps.Searcher, styles),
		recent:   NewRecentModel(deps.History, deps.Config.HistoryLimit, styles),
		login:    NewLoginModel(deps.Auth, deps.Session, styles),
		register: NewRegisterModel(deps.Auth, styles),
		status:   NewStatusBarModel(styles),
		styles:   styles,
	}
	m.status.SetSession(deps.Session.IsAuthenticated(), "")
	return m
}

// SessionListener re-runs the guard on every login and logout. send is
// normally tea.Program.Send.
func SessionListener(send func(tea.Msg)) func(authenticated bool) {
	return func(bool) {
		send(ports.NavigateMsg{Path: guard.DashboardPath})
	}
}

func navigate(path string) tea.Cmd {
	return func() tea.Msg { return ports.NavigateMsg{Path: path} }
}

func (m AppModel) Init() tea.Cmd { return navigate(m.deps.StartPath) }

// enter runs the guard and mounts the resulting view.
func (m AppModel) enter(requested string) (AppModel, tea.Cmd) {
	decision := guard.Decide(requested, m.deps.Session)
	target := guard.Clean(requested)
	if !decision.Allow {
		logger.Log.Info().Str("path", target).Str("redirect", decision.RedirectTo).Msg("Navigation redirected")
		m.login.SetNotice("Please log in to open the dashboard.")
		target = decision.RedirectTo
	}
	m.path = target
	m.status.SetSession(m.deps.Session.IsAuthenticated(), m.status.user)

	switch m.path {
	case guard.LoginPath:
		return m, m.login.Focus()
	case RegistrationPath:
		return m, m.register.Focus()
	case guard.DashboardPath:
		m.focus = ports.ComponentFocus
		m.recent.Blur()
		if m.tabs.ActiveTab == recentTab {
			return m, tea.Batch(m.recent.Init(), m.recent.Focus())
		}
		return m, m.search.Focus()
	}
	return m, nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case ports.NavigateMsg:
		return m.enter(msg.Path)
	case ports.LoginSucceededMsg:
		m.status.SetSession(true, msg.Username)
		m.status.SetMessage(statusSuccess, "Welcome back.")
		m.login, cmd = m.login.Update(msg)
		return m, cmd
	case ports.RegisterSucceededMsg:
		m.register, cmd = m.register.Update(msg)
		m.login.SetNotice("Registration successful. Please log in.")
		return m, tea.Batch(cmd, navigate(guard.LoginPath))
	case ports.LoggedOutMsg:
		m.status.SetSession(false, "")
		m.status.SetMessage(statusInfo, "Logged out.")
		return m, nil
	case ports.ResultsUpdatedMsg:
		if msg.Err != nil {
			m.status.SetMessage(statusError, describeError(msg.Err))
		} else {
			m.status.SetMessage(statusInfo, "")
		}
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	case ports.OpenURLMsg:
		if err := m.deps.Opener.Open(msg.URL); err != nil {
			m.status.SetMessage(statusError, err.Error())
		}
		return m, nil
	case ports.RunSearchMsg:
		m.tabs.ActiveTab = searchTab
		m.recent.Blur()
		m.focus = ports.ComponentFocus
		focusCmd := m.search.Focus()
		m.search.textInput.SetValue(msg.Query)
		m.search, cmd = m.search.Update(tea.KeyMsg{Type: tea.KeyEnter})
		return m, tea.Batch(focusCmd, cmd)
	case ports.DeleteFromHistoryMsg:
		if err := m.deps.History.DeleteSearches(msg.Queries); err != nil {
			m.status.SetMessage(statusError, err.Error())
		}
		return m, m.recent.Init()
	case ports.ChangeFocusMsg:
		m.focus = msg.NewFocus
		if m.focus == ports.GlobalFocus {
			m.search.Blur()
			m.recent.Blur()
		}
		return m, nil
	}

	switch m.path {
	case guard.LoginPath:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "esc":
				return m, navigate(HomePath)
			case "ctrl+r":
				return m, navigate(RegistrationPath)
			}
		}
		m.login, cmd = m.login.Update(msg)
		cmds = append(cmds, cmd)
	case RegistrationPath:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "esc":
				return m, navigate(HomePath)
			case "ctrl+l":
				return m, navigate(guard.LoginPath)
			}
		}
		m.register, cmd = m.register.Update(msg)
		cmds = append(cmds, cmd)
	case guard.DashboardPath:
		return m.updateDashboard(msg)
	default:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "q":
				return m, tea.Quit
			case "l":
				return m, navigate(guard.LoginPath)
			case "r":
				return m, navigate(RegistrationPath)
			case "d", "enter":
				return m, navigate(guard.DashboardPath)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m AppModel) logout() tea.Cmd {
	session := m.deps.Session
	return func() tea.Msg {
		if err := session.Logout(); err != nil {
			logger.Log.Error().Err(err).Msg("Logout could not clear storage")
		}
		return ports.LoggedOutMsg{}
	}
}

func (m AppModel) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if key, ok := msg.(tea.KeyMsg); ok {
		if key.String() == "ctrl+o" {
			return m, m.logout()
		}
		if m.focus == ports.GlobalFocus {
			switch key.String() {
			case "q":
				return m, tea.Quit
			case "o":
				return m, m.logout()
			case "right", "l":
				m.tabs.Next()
				return m, nil
			case "left", "h":
				m.tabs.Prev()
				return m, nil
			case "enter", "tab":
				m.focus = ports.ComponentFocus
				if m.tabs.ActiveTab == recentTab {
					return m, tea.Batch(m.recent.Init(), m.recent.Focus())
				}
				return m, m.search.Focus()
			}
			return m, nil
		}
	}

	// Loading state and non-key messages reach both lists; keys only the
	// active one.
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		var cmdSearch, cmdRecent tea.Cmd
		m.search, cmdSearch = m.search.Update(msg)
		m.recent, cmdRecent = m.recent.Update(msg)
		return m, tea.Batch(cmdSearch, cmdRecent)
	}

	if m.tabs.ActiveTab == recentTab {
		m.recent, cmd = m.recent.Update(msg)
	} else {
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

func (m AppModel) View() string {
	if m.width < MIN_WIDTH || m.height < MIN_HEIGHT {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, "Terminal too small")
	}

	availableWidth := m.width - m.styles.App.GetHorizontalFrameSize()
	statusHeight := 1
	helpHeight := 1
	mainHeight := m.height - statusHeight - helpHeight - m.styles.App.GetVerticalFrameSize() - 2

	m.status.SetSize(availableWidth, statusHeight)

	var content, help string
	switch m.path {
	case guard.LoginPath:
		content = m.login.View()
	case RegistrationPath:
		content = m.register.View()
	case guard.DashboardPath:
		tabsView := m.tabs.View()
		innerHeight := mainHeight - lipgloss.Height(tabsView)
		m.search.SetSize(availableWidth-2, innerHeight)
		m.recent.SetSize(availableWidth-2, innerHeight)

		body := m.search.View()
		if m.tabs.ActiveTab == recentTab {
			body = m.recent.View()
		}
		content = lipgloss.JoinVertical(lipgloss.Left, tabsView, body)
		if m.focus == ports.GlobalFocus {
			help = "[←/→] tabs · [enter] focus · [o] logout · [q] quit"
		} else {
			help = "[tab] input/list · [enter] search/open · [x/d] mark/delete · [esc] tabs · [ctrl+o] logout"
		}
	default:
		content = lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Title.Render("songdash"),
			"",
			"Search the song catalog.",
			"",
			m.styles.Help.Render("[l] login · [r] register · [d] dashboard · [q] quit"),
		)
	}

	mainPanel := m.styles.Box.Width(availableWidth - 2).Height(mainHeight).Render(content)
	helpView := m.styles.Help.Width(availableWidth).Render(help)

	return m.styles.App.Render(lipgloss.JoinVertical(lipgloss.Top,
		mainPanel,
		m.status.View(),
		helpView,
	))
}
