package play

import (
	"fmt"

	"go-notegrid/debug"
	"go-notegrid/midi"
	"go-notegrid/notemap"
)

// HandlePad plays or releases the note under a pad. Velocity 0 is a release.
// Presses on the function row above the grid change settings instead.
func (s *Session) HandlePad(row, col int, velocity uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isFunctionRow(row) {
		if velocity > 0 {
			s.handleTopRow(col)
		}
		return
	}

	key := [2]int{row, col}
	if velocity == 0 {
		if notes, ok := s.held[key]; ok {
			delete(s.held, key)
			s.noteOff(notes...)
			s.changed()
		}
		return
	}

	addr := s.address(row, col)
	if addr < 0 || s.table[addr] == notemap.NoNote {
		return
	}
	note := s.table[addr]

	notes := []int{note}
	if s.mode == ModeChord {
		for _, n := range s.mapper.ThirdChord(note) {
			if n != notemap.NoNote {
				notes = append(notes, n)
			}
		}
	}

	if prev, ok := s.held[key]; ok {
		s.noteOff(prev...)
	}
	s.held[key] = notes
	s.noteOn(velocity, notes...)
	if s.mode == ModeDrum && s.kit != "" {
		if slot := DrumSlot(row, col); slot != "" {
			s.notification = fmt.Sprintf("%s: %s", slot, notemap.FormatNote(note))
		}
	}
	s.changed()
}

func (s *Session) handleTopRow(col int) {
	switch {
	case col == btnOctaveUp:
		s.handleKey("up")
	case col == btnOctaveDown:
		s.handleKey("down")
	case col == btnKeyPrev:
		s.handleKey("left")
	case col == btnKeyNext:
		s.handleKey("right")
	case col >= btnModeFirst && col < btnModeFirst+ModeCount:
		s.setMode(Mode(col - btnModeFirst))
		s.changed()
	}
}

// HandleNote passes keyboard notes through to the synth. In scale mode
// without chromatic they are moved to the nearest scale note.
func (s *Session) HandleNote(ev midi.NoteEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !ev.On {
		if n, ok := s.heldKeys[ev.Note]; ok {
			delete(s.heldKeys, ev.Note)
			s.noteOff(n)
		}
		return
	}

	note := int(ev.Note)
	if s.mode == ModeScale && !s.mapper.IsChromatic() {
		note = s.mapper.NearestNoteInScale(note)
	}
	if note == notemap.NoNote {
		return
	}
	if prev, ok := s.heldKeys[ev.Note]; ok {
		s.noteOff(prev)
	}
	s.heldKeys[ev.Note] = note
	s.noteOn(ev.Velocity, note)
}

// HandleControl applies a relative controller assigned with SetEncoders
func (s *Session) HandleControl(cc, value uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.steppers[cc]
	if !ok {
		return
	}

	m := s.mapper
	var msg string
	switch cc {
	case s.encoders.ScaleCC:
		m.ChangeScale(st, int(value))
		msg = "Scale " + m.Scale().Name()
	case s.encoders.KeyCC:
		m.ChangeKeyOffset(st, int(value))
		msg = "Key " + m.KeyName()
	case s.encoders.LayoutCC:
		m.ChangeLayout(st, int(value))
		msg = "Layout " + m.Layout().Name()
	}
	s.refresh(msg)
}

// HandleKey applies a TUI key. Returns false for keys it does not use.
func (s *Session) HandleKey(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handleKey(key)
}

// handleKey is HandleKey for callers already holding the session lock
func (s *Session) handleKey(key string) bool {
	m := s.mapper
	switch key {
	case "up":
		s.shiftOctave(1)
		s.refresh(fmt.Sprintf("Octave %+d", s.octave()))
	case "down":
		s.shiftOctave(-1)
		s.refresh(fmt.Sprintf("Octave %+d", s.octave()))
	case "left":
		m.PrevKeyOffset()
		s.refresh("Key " + m.KeyName())
	case "right":
		m.NextKeyOffset()
		s.refresh("Key " + m.KeyName())
	case "[":
		m.PrevScale()
		s.refresh("Scale " + m.Scale().Name())
	case "]":
		m.NextScale()
		s.refresh("Scale " + m.Scale().Name())
	case ",":
		m.PrevLayout()
		s.refresh("Layout " + m.Layout().Name())
	case ".":
		m.NextLayout()
		s.refresh("Layout " + m.Layout().Name())
	case "c":
		m.ToggleChromatic()
		if m.IsChromatic() {
			s.refresh("Chromatic on")
		} else {
			s.refresh("Chromatic off")
		}
	case "k":
		s.nextKit()
	case "m", "tab":
		s.setMode(s.mode.Next())
		s.changed()
	case "1", "2", "3", "4":
		s.setMode(Mode(key[0] - '1'))
		s.changed()
	case "0":
		s.releaseAll()
		s.notification = "All notes off"
		s.changed()
	default:
		return false
	}
	return true
}

func (s *Session) shiftOctave(delta int) {
	m := s.mapper
	switch s.mode {
	case ModePiano:
		if delta > 0 {
			m.IncPianoOctave()
		} else {
			m.DecPianoOctave()
		}
	case ModeDrum:
		if delta > 0 {
			m.IncDrumOctave()
		} else {
			m.DecDrumOctave()
		}
	default:
		if delta > 0 {
			m.IncOctave()
		} else {
			m.DecOctave()
		}
	}
}

// refresh rebuilds the note table after a mapping change. Held pads keep
// sounding their old notes until released.
func (s *Session) refresh(msg string) {
	s.rebuild()
	s.notification = msg + ": " + s.rangeText()
	s.changed()
}

// Panic releases every held pad and key
func (s *Session) Panic() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseAll()
	s.changed()
}

func (s *Session) releaseAll() {
	for key, notes := range s.held {
		s.noteOff(notes...)
		delete(s.held, key)
	}
	for k, n := range s.heldKeys {
		s.noteOff(n)
		delete(s.heldKeys, k)
	}
}

func (s *Session) noteOn(velocity uint8, notes ...int) {
	if s.send == nil {
		debug.LogEvery(20, "play", "%s: no synth output, dropped %d notes", s.ShortID(), len(notes))
		return
	}
	for _, n := range notes {
		if err := s.send(midi.NoteOn(s.channel, n, velocity)); err != nil {
			debug.Log("play", "%s: note on %d: %v", s.ShortID(), n, err)
		}
	}
}

func (s *Session) noteOff(notes ...int) {
	if s.send == nil {
		return
	}
	for _, n := range notes {
		if err := s.send(midi.NoteOff(s.channel, n)); err != nil {
			debug.Log("play", "%s: note off %d: %v", s.ShortID(), n, err)
		}
	}
}
