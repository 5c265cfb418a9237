package play

import (
	"context"
	"fmt"
	"time"

	"go-notegrid/debug"
	"go-notegrid/midi"
	"go-notegrid/notemap"
	"go-notegrid/theme"
)

// LED refresh rate
const ledFPS = 30

// LEDState is the color of one controller LED
type LEDState struct {
	Row, Col int
	Color    [3]uint8
	Channel  uint8
}

// SetController sets the controller for LED feedback and forces a full redraw
func (s *Session) SetController(c midi.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	debug.Log("led", "%s: controller set, resetting diff state", s.ShortID())
	s.controller = c
	s.prevLEDs = make(map[[2]int]LEDState)
	if c != nil {
		rows, cols := c.GridSize()
		geo := s.mapper.Geometry()
		if rows < geo.Rows || cols < geo.Cols {
			s.notification = fmt.Sprintf("%s has %dx%d pads, grid is %dx%d: outer pads unreachable",
				c.ID(), rows, cols, geo.Rows, geo.Cols)
			debug.Log("led", "%s: %s", s.ShortID(), s.notification)
		}
	}
	s.changed()
}

// RenderLEDs returns the color of every lit LED, grid and function row.
// Held pads pulse.
func (s *Session) RenderLEDs() []LEDState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderLEDs()
}

func (s *Session) renderLEDs() []LEDState {
	var leds []LEDState
	for _, c := range s.cells() {
		led := LEDState{Row: c.Row, Col: c.Col, Color: s.theme.PadColor(c.Color)}
		if c.Pressed {
			led.Color = s.theme.PressedColor()
			led.Channel = midi.ChannelPulse
		}
		if led.Color == ([3]uint8{}) {
			continue
		}
		leds = append(leds, led)
	}
	return append(leds, s.functionLEDs()...)
}

func (s *Session) functionLEDs() []LEDState {
	if !s.isFunctionRow(topRow) {
		return nil
	}
	m := s.mapper
	th := s.theme
	muted := th.Palette.Lookup(theme.RoleMuted)
	accent := th.Palette.Lookup(theme.RoleAccent)

	arrow := func(col int, enabled bool) LEDState {
		c := muted
		if enabled {
			c = accent
		}
		return LEDState{Row: topRow, Col: col, Color: c}
	}

	var up, down bool
	switch s.mode {
	case ModePiano:
		up = m.PianoOctave() < notemap.PianoOctaveRange
		down = m.PianoOctave() > -notemap.PianoOctaveRange
	case ModeDrum:
		up = m.DrumOffset() < notemap.DrumOffsetMax
		down = m.DrumOffset() > notemap.DrumOffsetMin
	default:
		up = m.Octave() < notemap.OctaveRange
		down = m.Octave() > -notemap.OctaveRange
	}

	leds := []LEDState{
		arrow(btnOctaveUp, up),
		arrow(btnOctaveDown, down),
		arrow(btnKeyPrev, m.KeyOffsetIndex() > 0),
		arrow(btnKeyNext, m.KeyOffsetIndex() < len(notemap.Bases)-1),
	}
	for i := 0; i < ModeCount; i++ {
		led := LEDState{Row: topRow, Col: btnModeFirst + i, Color: muted}
		if Mode(i) == s.mode {
			led.Color = th.Palette.Lookup(theme.RoleOctave)
		}
		leds = append(leds, led)
	}
	return leds
}

// Run refreshes controller LEDs at a fixed rate until ctx is done
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / ledFPS)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Panic()
			return
		case <-ticker.C:
			s.flushLEDs()
		}
	}
}

// flushLEDs sends only changed LEDs to the controller
func (s *Session) flushLEDs() {
	s.mu.Lock()
	if !s.ledDirty || s.controller == nil {
		s.mu.Unlock()
		return
	}
	s.ledDirty = false
	ctrl := s.controller
	leds := s.renderLEDs()
	prev := s.prevLEDs
	s.mu.Unlock()

	next := make(map[[2]int]LEDState, len(leds))
	var updates []midi.LEDUpdate
	for _, led := range leds {
		key := [2]int{led.Row, led.Col}
		next[key] = led
		if p, ok := prev[key]; !ok || p != led {
			updates = append(updates, midi.LEDUpdate{Row: led.Row, Col: led.Col, Color: led.Color, Channel: led.Channel})
		}
	}
	for key := range prev {
		if _, ok := next[key]; !ok {
			updates = append(updates, midi.LEDUpdate{Row: key[0], Col: key[1]})
		}
	}

	var err error
	if len(updates) > 0 {
		debug.Log("led", "%s: flush: batch=%d prev=%d", s.ShortID(), len(updates), len(prev))
		err = ctrl.SetLEDBatch(updates)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.controller != ctrl {
		return
	}
	if err != nil {
		// keep the old state so the next tick resends
		debug.LogEvery(30, "led", "%s: flush: %v", s.ShortID(), err)
		s.ledDirty = true
		return
	}
	s.prevLEDs = next
}
