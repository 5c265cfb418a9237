package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"go-notegrid/midi"
	"go-notegrid/notemap"
	"go-notegrid/play"
	"go-notegrid/theme"
)

func newTestModel() Model {
	th := theme.New(theme.DefaultPalette())
	s := play.NewSession(notemap.New(notemap.DefaultGeometry()), th)
	return NewModel(s, nil, th)
}

func press(m Model, msg tea.KeyMsg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestKeysReachSession(t *testing.T) {
	m := newTestModel()

	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}})
	if got := m.Session.Settings().Scale; got != "Minor" {
		t.Errorf("Expected Minor, got %s", got)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyUp})
	if got := m.Session.Settings().Octave; got != 1 {
		t.Errorf("Expected octave 1, got %d", got)
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel()
	if strings.Contains(m.View(), "circle of fifths") {
		t.Error("Expected help hidden by default")
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if !strings.Contains(m.View(), "circle of fifths") {
		t.Error("Expected help after ?")
	}
}

func TestViewShowsState(t *testing.T) {
	m := newTestModel()
	view := m.View()
	for _, want := range []string{"go-notegrid", "session " + m.Session.ShortID(), "Major", "4th ^", "C1 to C5", "◆", "●"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if next.(Model).View() != "" {
		t.Error("Expected empty view after quit")
	}
}

func TestDisconnectClearsController(t *testing.T) {
	m := newTestModel()
	m.controller = &midi.LaunchpadController{}
	m.handleDevice(midi.DeviceEvent{Type: midi.DeviceDisconnected, ID: ""})
	if m.controller != nil {
		t.Error("Expected controller cleared on disconnect")
	}
}
