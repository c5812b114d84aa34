package main

import (
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/knotsanimation/kenvmanager/internal/app"
	"github.com/knotsanimation/kenvmanager/internal/config"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSelectModel(t *testing.T) {
	var m tea.Model = selectModel{title: "Select a profile", items: []string{"a", "b", "c"}}
	for _, k := range []string{"down", "down", "down", "up", "enter"} {
		m, _ = m.Update(key(k))
	}
	sm := m.(selectModel)
	if !sm.done || sm.aborted {
		t.Fatalf("done = %v, aborted = %v", sm.done, sm.aborted)
	}
	if got := sm.items[sm.cursor]; got != "b" {
		t.Errorf("selected %q, want b", got)
	}
	if sm.View() != "" {
		t.Error("view must be empty once done")
	}

	m, _ = selectModel{items: []string{"a"}}.Update(key("esc"))
	if !m.(selectModel).aborted {
		t.Error("esc must abort")
	}
}

func TestConfirmModel(t *testing.T) {
	m, _ := confirmModel{title: "Overwrite?"}.Update(key("y"))
	if cm := m.(confirmModel); !cm.done || !cm.value {
		t.Errorf("y must confirm: %+v", cm)
	}

	var tm tea.Model = confirmModel{}
	tm, _ = tm.Update(key("tab"))
	tm, _ = tm.Update(key("enter"))
	if cm := tm.(confirmModel); !cm.value {
		t.Error("tab must toggle the answer")
	}
}

func TestInputModel_placeholderIsDefault(t *testing.T) {
	ti := textinput.New()
	ti.Placeholder = defaultProfileVersion
	ti.Focus()
	m, _ := inputModel{textInput: ti}.Update(key("enter"))
	im := m.(inputModel)
	if !im.done || im.value() != defaultProfileVersion {
		t.Errorf("value = %q, want placeholder", im.value())
	}
}

func TestInputModel_validation(t *testing.T) {
	ti := textinput.New()
	ti.Focus()
	m := inputModel{
		textInput: ti,
		validate: func(s string) error {
			if s == "" {
				return errors.New("identifier is required")
			}
			return nil
		},
	}
	next, _ := m.Update(key("enter"))
	im := next.(inputModel)
	if im.done || im.errMsg != "identifier is required" {
		t.Errorf("empty input must be rejected: %+v", im.errMsg)
	}

	next, _ = im.Update(key("x"))
	next, _ = next.Update(key("enter"))
	if im := next.(inputModel); !im.done || im.value() != "x" {
		t.Errorf("value = %q, done = %v", im.value(), im.done)
	}
}

func TestValidators(t *testing.T) {
	isolateEnv(t)
	dir := setupProfiles(t)
	actx := app.New(config.Default(), app.Options{ProfilePaths: []string{dir}})

	validateID := identifierValidator(actx, dir+"/new.yml")
	if err := validateID("lxm"); err == nil {
		t.Error("an identifier used by another file must be rejected")
	}
	if err := validateID(" "); err == nil {
		t.Error("an empty identifier must be rejected")
	}
	if err := validateID("fresh"); err != nil {
		t.Errorf("fresh identifier rejected: %v", err)
	}
	if err := identifierValidator(actx, dir+"/lxm.yml")("lxm"); err != nil {
		t.Errorf("rewriting a file under its own identifier rejected: %v", err)
	}

	validateBase := baseValidator(actx)
	if err := validateBase(""); err != nil {
		t.Errorf("empty base rejected: %v", err)
	}
	if err := validateBase("studio"); err != nil {
		t.Errorf("existing base rejected: %v", err)
	}
	if err := validateBase("ghost"); err == nil {
		t.Error("missing base must be rejected")
	}
}
