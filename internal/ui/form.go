package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// formModel is a vertical stack of labelled inputs. The last field may be a
// choice cycled with left/right instead of typed.
type formModel struct {
	labels  []string
	inputs  []textinput.Model
	choices []string
	choice  int
	focused int
	styles  Styles
}

func newFormModel(styles Styles, labels, placeholders []string, secret map[int]bool) formModel {
	f := formModel{labels: labels, styles: styles, choice: -1}
	for i := range labels {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 128
		ti.Width = 40
		if i < len(placeholders) {
			ti.Placeholder = placeholders[i]
		}
		if secret[i] {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.inputs = append(f.inputs, ti)
	}
	return f
}

// withChoice appends a field whose value is one of choices.
func (f formModel) withChoice(label string, choices []string) formModel {
	f.labels = append(f.labels, label)
	f.choices = choices
	return f
}

func (f *formModel) fieldCount() int {
	if f.choices != nil {
		return len(f.inputs) + 1
	}
	return len(f.inputs)
}

func (f *formModel) onChoice() bool {
	return f.choices != nil && f.focused == len(f.inputs)
}

func (f *formModel) Focus() tea.Cmd {
	f.focused = 0
	return f.focusCurrent()
}

func (f *formModel) focusCurrent() tea.Cmd {
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focused {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f *formModel) Reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.choice = -1
	f.focused = 0
	f.focusCurrent()
}

func (f *formModel) Value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f *formModel) Choice() string {
	if f.choice < 0 || f.choice >= len(f.choices) {
		return ""
	}
	return f.choices[f.choice]
}

// Update moves focus and edits fields. submitted is true when enter is
// pressed on the last field.
func (f formModel) Update(msg tea.Msg) (formModel, tea.Cmd, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			f.focused = (f.focused + 1) % f.fieldCount()
			return f, f.focusCurrent(), false
		case "shift+tab", "up":
			f.focused = (f.focused - 1 + f.fieldCount()) % f.fieldCount()
			return f, f.focusCurrent(), false
		case "enter":
			if f.focused == f.fieldCount()-1 {
				return f, nil, true
			}
			f.focused++
			return f, f.focusCurrent(), false
		case "left", "right":
			if f.onChoice() {
				if key.String() == "right" {
					f.choice = (f.choice + 1) % len(f.choices)
				} else if f.choice <= 0 {
					f.choice = len(f.choices) - 1
				} else {
					f.choice--
				}
				return f, nil, false
			}
		}
	}

	if f.onChoice() {
		return f, nil, false
	}
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return f, cmd, false
}

func (f formModel) View() string {
	var rows []string
	for i, label := range f.labels {
		labelStyle := f.styles.Label
		if i == f.focused {
			labelStyle = f.styles.FocusedLabel
		}
		rows = append(rows, labelStyle.Render(label))

		if i < len(f.inputs) {
			rows = append(rows, f.inputs[i].View(), "")
			continue
		}
		value := f.styles.Muted.Render("← select your current status →")
		if c := f.Choice(); c != "" {
			value = "‹ " + c + " ›"
		}
		rows = append(rows, value, "")
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
