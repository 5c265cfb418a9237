package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-notegrid/midi"
	"go-notegrid/notemap"
	"go-notegrid/play"
	"go-notegrid/theme"
	"go-notegrid/widgets"
)

type Model struct {
	Session   *play.Session
	DeviceMgr *midi.DeviceManager
	Theme     *theme.Theme

	// Keyboard encoders are routed to the session when set
	Encoders bool

	quitting   bool
	showHelp   bool
	controller midi.Controller // current grid controller (may be nil)
	keyboards  int
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

func NewModel(session *play.Session, deviceMgr *midi.DeviceManager, th *theme.Theme) Model {
	return Model{
		Session:   session,
		DeviceMgr: deviceMgr,
		Theme:     th,
	}
}

func ListenForUpdates(session *play.Session) tea.Cmd {
	return func() tea.Msg {
		<-session.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForUpdates(m.Session)}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.Session.Panic()
			return m, tea.Quit
		case "?":
			m.showHelp = !m.showHelp
		default:
			m.Session.HandleKey(msg.String())
		}

	case UpdateMsg:
		return m, ListenForUpdates(m.Session)

	case DeviceEventMsg:
		m.handleDevice(midi.DeviceEvent(msg))
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m *Model) handleDevice(event midi.DeviceEvent) {
	switch event.Type {
	case midi.DeviceConnected:
		c := event.Controller
		switch c.Type() {
		case midi.ControllerLaunchpad:
			m.controller = c
			m.Session.SetController(c)
			go func() {
				for pad := range c.PadEvents() {
					m.Session.HandlePad(pad.Row, pad.Col, pad.Velocity)
				}
			}()
		case midi.ControllerKeyboard:
			m.keyboards++
			go func() {
				for ev := range c.NoteEvents() {
					m.Session.HandleNote(ev)
				}
			}()
			if kb, ok := c.(*midi.KeyboardController); ok && m.Encoders {
				go func() {
					for ev := range kb.ControlEvents() {
						m.Session.HandleControl(ev.Controller, ev.Value)
					}
				}()
			}
		}
	case midi.DeviceDisconnected:
		if m.controller != nil && m.controller.ID() == event.ID {
			m.controller = nil
			m.Session.SetController(nil)
		} else if m.keyboards > 0 {
			m.keyboards--
		}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	textStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	deviceStatus := ""
	if m.controller != nil {
		deviceStatus += "  LP:X"
	}
	if m.keyboards > 0 {
		deviceStatus += fmt.Sprintf("  KB:%d", m.keyboards)
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render("go-notegrid" + deviceStatus))
	out.WriteString(dimStyle.Render("  session " + m.Session.ShortID()))
	out.WriteString("\n")
	out.WriteString(textStyle.Render(m.Session.Status()))
	out.WriteString("\n\n")
	out.WriteString(m.gridView())
	out.WriteString("\n\n")
	out.WriteString(textStyle.Render(m.Session.Notification()))
	out.WriteString("\n\n")

	if m.showHelp {
		out.WriteString(m.legend())
		out.WriteString("\n\n")
		out.WriteString(dimStyle.Render(widgets.RenderKeyHelp(keyHelp)))
	} else {
		out.WriteString(dimStyle.Render("←/→:key  ↑/↓:octave  [/]:scale  ,/.:layout  c:chromatic  m:mode  ?:help  q:quit"))
	}

	return out.String()
}

// gridView mirrors the pad grid with the LED colors
func (m Model) gridView() string {
	cells := m.Session.Cells()
	pads := make([]widgets.Pad, len(cells))
	rows, cols := 0, 0
	for i, c := range cells {
		p := widgets.Pad{
			Color:  m.Theme.PadColor(c.Color),
			Symbol: m.Theme.PadSymbol(c.Color),
		}
		if c.Pressed {
			p.Color = m.Theme.PressedColor()
			p.Symbol = m.Theme.Symbols.PadPressed
		}
		pads[i] = p
		rows = max(rows, c.Row+1)
		cols = max(cols, c.Col+1)
	}
	return widgets.RenderPadGrid(pads, rows, cols)
}

func (m Model) legend() string {
	item := func(c notemap.Color, name, desc string) string {
		return widgets.RenderLegendItem(widgets.Pad{Color: m.Theme.PadColor(c), Symbol: m.Theme.PadSymbol(c)}, name, desc)
	}
	pressed := widgets.Pad{Color: m.Theme.PressedColor(), Symbol: m.Theme.Symbols.PadPressed}
	return strings.Join([]string{
		item(notemap.Octave, "Root", "key note in every octave"),
		item(notemap.Note, "Note", "in scale"),
		item(notemap.OutOfScale, "Outside", "chromatic mode, not in scale"),
		widgets.RenderLegendItem(pressed, "Held", "sounding"),
	}, "\n")
}

var keyHelp = []widgets.KeySection{
	{
		Title: "Notes",
		Keys: []widgets.KeyBinding{
			{Key: "← →", Desc: "previous / next key (circle of fifths)"},
			{Key: "↑ ↓", Desc: "octave up / down"},
			{Key: "[ ]", Desc: "previous / next scale"},
			{Key: ", .", Desc: "previous / next layout"},
			{Key: "c", Desc: "toggle chromatic"},
		},
	},
	{
		Title: "Pads",
		Keys: []widgets.KeyBinding{
			{Key: "1-4", Desc: "scale, chord, piano, drum mode"},
			{Key: "m / tab", Desc: "next mode"},
			{Key: "k", Desc: "next drum kit"},
			{Key: "0", Desc: "all notes off"},
		},
	},
}
