package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/knotsanimation/kenvmanager/internal/app"
	"github.com/knotsanimation/kenvmanager/internal/ui"
)

var errAborted = errors.New("user aborted")

// --- inputModel: text input with validation ---

type inputModel struct {
	textInput textinput.Model
	title     string
	validate  func(string) error
	errMsg    string
	done      bool
	aborted   bool
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			if m.validate != nil {
				if err := m.validate(m.value()); err != nil {
					m.errMsg = err.Error()
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		}
	}
	m.errMsg = ""
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// value returns the typed text, or the placeholder when nothing was typed.
func (m inputModel) value() string {
	if v := m.textInput.Value(); v != "" {
		return v
	}
	return m.textInput.Placeholder
}

func (m inputModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render(m.title) + "\n")
	b.WriteString(m.textInput.View() + "\n")
	if m.errMsg != "" {
		b.WriteString(ui.ErrorStyle.Render(m.errMsg) + "\n")
	}
	return b.String()
}

// --- confirmModel: yes/no confirmation ---

type confirmModel struct {
	title   string
	value   bool
	done    bool
	aborted bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			m.done = true
			return m, tea.Quit
		case "y", "Y":
			m.value = true
			m.done = true
			return m, tea.Quit
		case "n", "N":
			m.value = false
			m.done = true
			return m, tea.Quit
		case "left", "right", "tab", "h", "l":
			m.value = !m.value
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	yes := " Yes "
	no := " No "
	if m.value {
		yes = ui.SelectedStyle.Render(" Yes ")
	} else {
		no = ui.SelectedStyle.Render(" No ")
	}
	return fmt.Sprintf("%s %s / %s\n", ui.TitleStyle.Render(m.title), yes, no)
}

// --- selectModel: pick one entry of a list ---

type selectModel struct {
	title   string
	items   []string
	cursor  int
	done    bool
	aborted bool
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			m.done = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m selectModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render(m.title) + "\n")
	for i, item := range m.items {
		if i == m.cursor {
			b.WriteString("> " + ui.SelectedStyle.Render(item) + "\n")
			continue
		}
		b.WriteString("  " + item + "\n")
	}
	b.WriteString(ui.FaintStyle.Render("↑/↓ to move, enter to select, esc to quit") + "\n")
	return b.String()
}

// --- prompt helpers ---

func promptInput(title, placeholder string, validate func(string) error) (string, error) {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	m := inputModel{
		textInput: ti,
		title:     title,
		validate:  validate,
	}

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", err
	}
	rm := result.(inputModel)
	if rm.aborted {
		return "", errAborted
	}
	return rm.value(), nil
}

func promptConfirm(title string) (bool, error) {
	result, err := tea.NewProgram(confirmModel{title: title}).Run()
	if err != nil {
		return false, err
	}
	rm := result.(confirmModel)
	if rm.aborted {
		return false, errAborted
	}
	return rm.value, nil
}

func promptSelect(title string, items []string) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("nothing to select")
	}
	result, err := tea.NewProgram(selectModel{title: title, items: items}).Run()
	if err != nil {
		return "", err
	}
	rm := result.(selectModel)
	if rm.aborted {
		return "", errAborted
	}
	return rm.items[rm.cursor], nil
}

// pickProfile lets the user choose one of the valid profiles.
func pickProfile(actx *app.Context) (string, error) {
	ids, err := profileIdentifiers(actx)
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("no profile found in %s", strings.Join(actx.Locations, ", "))
	}
	return promptSelect("Select a profile", ids)
}
