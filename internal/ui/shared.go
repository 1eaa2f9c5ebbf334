package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/gabrielcapilla/songdash/internal/ports"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type componentFocus int

const (
	inputFocus componentFocus = iota
	listFocus
)

type listItem interface {
	list.Item
	ID() string
	Label() string
	// Activate is the message sent when the item is chosen with enter.
	Activate() tea.Msg
}

type listDataSource interface {
	Fetch(query string) tea.Msg
}

type listMode int

const (
	// submitMode sends the input to the data source on enter.
	submitMode listMode = iota
	// filterMode loads once and filters the loaded items while typing.
	filterMode
)

type listAndFilterModel struct {
	mode              listMode
	dataSource        listDataSource
	styles            Styles
	focus             componentFocus
	textInput         textinput.Model
	resultsList       list.Model
	spinner           spinner.Model
	isLoading         bool
	err               error
	notice            string
	fullList          []list.Item
	markedForDeletion map[string]struct{}
}

type itemDelegate struct {
	styles            Styles
	markedForDeletion *map[string]struct{}
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	listItem, ok := item.(listItem)
	if !ok {
		return
	}

	itemStyle := d.styles.ListNormal
	pointer := "  "
	if index == m.Index() {
		itemStyle = d.styles.ListSelected
		pointer = d.styles.ListPointer.String()
	}

	var lineBuilder strings.Builder
	if _, isMarked := (*d.markedForDeletion)[listItem.ID()]; isMarked {
		lineBuilder.WriteString("x ")
		itemStyle = itemStyle.Strikethrough(true).Faint(true)
	}

	lineBuilder.WriteString(listItem.Label())
	line := lineBuilder.String()

	if m.Width() > 0 {
		lineWidth := m.Width() - lipgloss.Width(pointer)
		line = truncate(line, lineWidth)
	}
	fmt.Fprint(w, itemStyle.Render(pointer+line))
}

func newListAndFilterModel(mode listMode, placeholder string, source listDataSource, styles Styles) listAndFilterModel {
	m := listAndFilterModel{
		mode:              mode,
		dataSource:        source,
		styles:            styles,
		focus:             inputFocus,
		markedForDeletion: make(map[string]struct{}),
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = 156
	m.textInput = ti

	delegate := itemDelegate{
		styles:            styles,
		markedForDeletion: &m.markedForDeletion,
	}
	li := list.New([]list.Item{}, delegate, 0, 0)
	li.SetShowTitle(false)
	li.SetShowStatusBar(false)
	li.SetShowPagination(false)
	li.SetShowHelp(false)
	li.SetFilteringEnabled(false)
	m.resultsList = li

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner
	m.spinner = s

	return m
}

// Init loads the list in filterMode. A submit list starts empty.
func (m *listAndFilterModel) Init() tea.Cmd {
	if m.mode != filterMode {
		return nil
	}
	m.isLoading = true
	clear(m.markedForDeletion)
	source := m.dataSource
	fetchCmd := func() tea.Msg {
		return source.Fetch("")
	}
	return tea.Batch(m.spinner.Tick, fetchCmd)
}

func (m *listAndFilterModel) Focus() tea.Cmd {
	m.focus = inputFocus
	return m.textInput.Focus()
}

func (m *listAndFilterModel) Blur() {
	m.focus = inputFocus
	m.textInput.Blur()
}

func (m *listAndFilterModel) GetFocus() componentFocus { return m.focus }
func (m *listAndFilterModel) SetSize(w, h int) {
	m.textInput.Width = w - 4
	m.resultsList.SetSize(w-2, h-3)
}

func (m *listAndFilterModel) setItems(items []list.Item) tea.Cmd {
	m.fullList = items
	return m.resultsList.SetItems(items)
}

func (m listAndFilterModel) Update(msg tea.Msg) (listAndFilterModel, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case ports.ResultsUpdatedMsg:
		if m.mode != submitMode {
			return m, nil
		}
		m.isLoading = false
		m.err = msg.Err
		m.notice = ""
		items := make([]list.Item, len(msg.Songs))
		for i, song := range msg.Songs {
			items[i] = songItem{index: i, song: song}
		}
		if msg.Err == nil && len(items) == 0 {
			m.notice = "No songs found."
		}
		return m, m.setItems(items)
	case ports.SearchRejectedMsg:
		if m.mode != submitMode {
			return m, nil
		}
		m.isLoading = false
		m.err = msg.Err
		m.focus = inputFocus
		return m, m.textInput.Focus()
	case ports.HistoryLoadedMsg:
		if m.mode != filterMode {
			return m, nil
		}
		m.isLoading = false
		m.err = nil
		clear(m.markedForDeletion)
		items := make([]list.Item, len(msg.Entries))
		for i, entry := range msg.Entries {
			items[i] = recentItem{entry: entry}
		}
		m.fullList = items
		return m, m.resultsList.SetItems(m.filtered())
	case ports.HistoryErrorMsg:
		if m.mode != filterMode {
			return m, nil
		}
		m.isLoading = false
		m.err = msg.Err
		return m, nil
	}

	if m.isLoading {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if _, isKey := msg.(tea.KeyMsg); !isKey || m.mode == filterMode {
			return m, tea.Batch(cmds...)
		}
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, func() tea.Msg { return ports.ChangeFocusMsg{NewFocus: ports.GlobalFocus} }
		case "tab":
			if m.focus == inputFocus {
				m.focus = listFocus
				m.textInput.Blur()
			} else {
				m.focus = inputFocus
				cmds = append(cmds, m.textInput.Focus())
			}
			return m, tea.Batch(cmds...)
		}
	}

	switch m.focus {
	case inputFocus:
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" && m.mode == submitMode {
			query := m.textInput.Value()
			m.isLoading = true
			m.err = nil
			m.notice = ""
			source := m.dataSource
			cmds = append(cmds, m.spinner.Tick, func() tea.Msg {
				return source.Fetch(query)
			})
			return m, tea.Batch(cmds...)
		}

		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
		if m.mode == filterMode {
			cmds = append(cmds, m.resultsList.SetItems(m.filtered()))
		}

	case listFocus:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "enter":
				if selectedItem, ok := m.resultsList.SelectedItem().(listItem); ok {
					return m, selectedItem.Activate
				}
			case "x":
				if m.mode == filterMode {
					if selectedItem, ok := m.resultsList.SelectedItem().(listItem); ok {
						id := selectedItem.ID()
						if _, isMarked := m.markedForDeletion[id]; isMarked {
							delete(m.markedForDeletion, id)
						} else {
							m.markedForDeletion[id] = struct{}{}
						}
						return m, m.resultsList.SetItems(m.resultsList.Items())
					}
				}
			case "d":
				if m.mode == filterMode && len(m.markedForDeletion) > 0 {
					ids := make([]string, 0, len(m.markedForDeletion))
					for id := range m.markedForDeletion {
						ids = append(ids, id)
					}
					return m, func() tea.Msg { return ports.DeleteFromHistoryMsg{Queries: ids} }
				}
			}
		}
		m.resultsList, cmd = m.resultsList.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m listAndFilterModel) filtered() []list.Item {
	filterTerm := strings.ToLower(m.textInput.Value())
	if filterTerm == "" {
		return m.fullList
	}
	var filteredItems []list.Item
	for _, item := range m.fullList {
		if strings.Contains(strings.ToLower(item.FilterValue()), filterTerm) {
			filteredItems = append(filteredItems, item)
		}
	}
	return filteredItems
}

func (m listAndFilterModel) View() string {
	var mainView string
	switch {
	case m.isLoading:
		mainView = m.spinner.View() + " Searching..."
	case m.err != nil:
		mainView = m.styles.ErrorText.Render(describeError(m.err))
	case m.notice != "":
		mainView = m.styles.Muted.Render(m.notice)
	default:
		mainView = m.resultsList.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.textInput.View(),
		"",
		mainView,
	)
}
