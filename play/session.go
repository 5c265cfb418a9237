// Package play drives one pad grid: it turns pad presses into notes on the
// synth output and keeps the controller LEDs in step with the note mapping.
package play

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"go-notegrid/control"
	"go-notegrid/debug"
	"go-notegrid/midi"
	"go-notegrid/notemap"
	"go-notegrid/theme"
)

// topRow is the Launchpad function row above the grid
const topRow = 8

// Top row buttons
const (
	btnOctaveUp = iota
	btnOctaveDown
	btnKeyPrev
	btnKeyNext
	btnModeFirst // four mode buttons follow
)

// Cell is one pad of the grid as currently mapped
type Cell struct {
	Row, Col int
	Note     int
	Color    notemap.Color
	Pressed  bool
}

// Encoders assigns relative controllers to settings. A zero CC is unassigned.
type Encoders struct {
	Changer     control.ValueChanger
	Sensitivity int
	ScaleCC     uint8
	KeyCC       uint8
	LayoutCC    uint8
}

// Session is the play state of one grid controller
type Session struct {
	ID string

	mu      sync.Mutex
	mapper  *notemap.Mapper
	theme   *theme.Theme
	mode    Mode
	kit     string
	table   [128]int
	send    midi.Sender
	channel uint8

	held     map[[2]int][]int // pad -> sounding notes
	heldKeys map[uint8]int    // keyboard note -> sounding note

	encoders Encoders
	steppers map[uint8]*control.Stepper

	notification string

	// LED state, touched by the LED loop
	controller midi.Controller
	prevLEDs   map[[2]int]LEDState
	ledDirty   bool

	// UpdateChan signals the TUI after any change
	UpdateChan chan struct{}
}

// NewSession creates a session for a mapper. The mapper must not be used
// elsewhere afterwards.
func NewSession(m *notemap.Mapper, th *theme.Theme) *Session {
	s := &Session{
		ID:         uuid.NewString(),
		mapper:     m,
		theme:      th,
		held:       make(map[[2]int][]int),
		heldKeys:   make(map[uint8]int),
		steppers:   make(map[uint8]*control.Stepper),
		prevLEDs:   make(map[[2]int]LEDState),
		UpdateChan: make(chan struct{}, 1),
	}
	s.rebuild()
	s.notification = s.rangeText()
	debug.Log("play", "%s: session created", s.ShortID())
	return s
}

// ShortID is the first block of the session ID, used in logs and the TUI
func (s *Session) ShortID() string {
	if i := strings.IndexByte(s.ID, '-'); i > 0 {
		return s.ID[:i]
	}
	return s.ID
}

// SetSender sets the synth output. channel is 0-based.
func (s *Session) SetSender(send midi.Sender, channel uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = send
	s.channel = channel & 0x0F
}

// SetEncoders assigns relative controllers to scale, key and layout
func (s *Session) SetEncoders(e Encoders) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.encoders = e
	s.steppers = make(map[uint8]*control.Stepper)
	if e.Changer == nil {
		return
	}
	for _, cc := range []uint8{e.ScaleCC, e.KeyCC, e.LayoutCC} {
		if cc != 0 {
			s.steppers[cc] = control.NewStepper(e.Changer, e.Sensitivity)
		}
	}
}

// Mode returns the current pad mode
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode switches the pad mode, releasing held pads first
func (s *Session) SetMode(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setMode(mode)
	s.changed()
}

func (s *Session) setMode(mode Mode) {
	if mode < 0 || int(mode) >= ModeCount {
		return
	}
	s.releaseAll()
	s.mode = mode
	s.rebuild()
	s.notification = fmt.Sprintf("%s: %s", mode, s.rangeText())
}

// Settings returns the persisted note settings
func (s *Session) Settings() notemap.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mapper.Snapshot()
}

// ApplySettings restores note settings, returning names that were not found
func (s *Session) ApplySettings(ns notemap.Settings) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	unknown := s.mapper.Apply(ns)
	s.rebuild()
	s.notification = s.rangeText()
	s.changed()
	return unknown
}

// Restore applies persisted note settings, pad mode and drum kit, as loaded
// at startup or on a config reload. Mode and kit only change when they
// differ, so a reload of unrelated settings keeps held notes. An empty
// mode keeps the current one. Returns the names that were not found.
func (s *Session) Restore(ns notemap.Settings, mode, kit string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	unknown := s.mapper.Apply(ns)
	if kit != s.kit && !s.setDrumKit(kit) {
		unknown = append(unknown, "drum kit "+kit)
	}
	if mode != "" {
		md, ok := ModeByName(mode)
		switch {
		case !ok:
			unknown = append(unknown, "mode "+mode)
		case md != s.mode:
			s.setMode(md)
		}
	}

	s.rebuild()
	s.notification = fmt.Sprintf("%s: %s", s.mode, s.rangeText())
	s.changed()
	for _, u := range unknown {
		debug.Log("play", "%s: restore: unknown %s", s.ShortID(), u)
	}
	return unknown
}

// Notification returns the last status message
func (s *Session) Notification() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notification
}

// Status describes the mapping state in one line
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	chroma := ""
	if s.mapper.IsChromatic() {
		chroma = " chromatic"
	}
	status := fmt.Sprintf("%s | %s %s%s | %s | octave %+d",
		s.mode, s.mapper.KeyName(), s.mapper.Scale().Name(), chroma,
		s.mapper.Layout().Name(), s.octave())
	if s.mode == ModeDrum {
		status += " | " + s.kitName()
	}
	return status
}

// Table returns a copy of the current note table
func (s *Session) Table() [128]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// Cells returns every grid pad, row 0 first
func (s *Session) Cells() []Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cells()
}

func (s *Session) cells() []Cell {
	geo := s.mapper.Geometry()
	cells := make([]Cell, 0, geo.Size())
	for row := 0; row < geo.Rows; row++ {
		for col := 0; col < geo.Cols; col++ {
			addr := s.address(row, col)
			c := Cell{Row: row, Col: col, Note: notemap.NoNote}
			if addr >= 0 {
				c.Note = s.table[addr]
				c.Color = s.mapper.Color(s.table, addr)
			}
			_, c.Pressed = s.held[[2]int{row, col}]
			cells = append(cells, c)
		}
	}
	return cells
}

// isFunctionRow reports whether row is the Launchpad function row rather
// than a pad row of the grid
func (s *Session) isFunctionRow(row int) bool {
	return row == topRow && row >= s.mapper.Geometry().Rows
}

// address returns the note table index of a pad, or -1
func (s *Session) address(row, col int) int {
	geo := s.mapper.Geometry()
	if row < 0 || row >= geo.Rows || col < 0 || col >= geo.Cols {
		return -1
	}
	addr := geo.StartNote + row*geo.Cols + col
	if addr >= geo.EndNote || addr > 127 {
		return -1
	}
	return addr
}

func (s *Session) rebuild() {
	m := s.mapper
	switch s.mode {
	case ModeChord:
		s.table = m.NoteMatrix(m.ChordMatrix())
	case ModePiano:
		geo := m.Geometry()
		s.table = m.PianoMatrix(geo.Rows, geo.Cols)
	case ModeDrum:
		s.table = m.DrumMatrix()
	default:
		s.table = m.NoteMatrix(m.ActiveMatrix())
	}
}

func (s *Session) rangeText() string {
	m := s.mapper
	switch s.mode {
	case ModeChord:
		return notemap.TableRangeText(s.table)
	case ModePiano:
		geo := m.Geometry()
		return m.PianoRangeText(geo.Rows, geo.Cols)
	case ModeDrum:
		return m.DrumRangeText()
	default:
		return m.RangeText()
	}
}

// octave returns the transposition relevant to the current mode
func (s *Session) octave() int {
	switch s.mode {
	case ModePiano:
		return s.mapper.PianoOctave()
	case ModeDrum:
		return s.mapper.DrumOctave()
	default:
		return s.mapper.Octave()
	}
}

// changed marks LEDs dirty and wakes the TUI. Caller holds mu.
func (s *Session) changed() {
	s.ledDirty = true
	select {
	case s.UpdateChan <- struct{}{}:
	default:
	}
}
