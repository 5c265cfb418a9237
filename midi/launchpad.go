package midi

import (
	"fmt"
	"sync/atomic"

	"github.com/lucasb-eyer/go-colorful"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-notegrid/debug"
)

var ledSendCount uint64

// Launchpad X playing surface
const (
	LaunchpadRows = 8
	LaunchpadCols = 8
)

// SysEx header for Launchpad X, without the F0/F7 framing
var lpxHeader = []byte{0x00, 0x20, 0x29, 0x02, 0x0C}

// LaunchpadController handles a Novation Launchpad X in programmer mode
type LaunchpadController struct {
	id       string
	outPort  drivers.Out
	inPort   drivers.In
	send     Sender
	stopFunc func()

	padChan  chan PadEvent
	noteChan chan NoteEvent
}

// NewLaunchpadController opens the ports and switches the device to programmer mode
func NewLaunchpadController(id string, inPort drivers.In, outPort drivers.Out) (*LaunchpadController, error) {
	lp := &LaunchpadController{
		id:       id,
		inPort:   inPort,
		outPort:  outPort,
		padChan:  make(chan PadEvent, 64),
		noteChan: make(chan NoteEvent, 1),
	}

	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output %s: %w", id, err)
		}
		lp.send = send

		for _, msg := range setupMessages() {
			if err := lp.send(msg); err != nil {
				return nil, fmt.Errorf("programmer mode %s: %w", id, err)
			}
		}
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			ev, ok := padEventFromMessage(msg)
			if !ok {
				return
			}
			select {
			case lp.padChan <- ev:
			default:
				debug.Log("device", "%s: pad event dropped", lp.id)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("open input %s: %w", id, err)
		}
		lp.stopFunc = stop
	}

	debug.Log("device", "launchpad %s ready", id)
	return lp, nil
}

// setupMessages switches to programmer mode, full brightness and external LED feedback
func setupMessages() []gomidi.Message {
	return []gomidi.Message{
		gomidi.SysEx(sysex(0x00, 0x7F)),
		gomidi.SysEx(sysex(0x08, 0x7F)),
		gomidi.SysEx(sysex(0x0A, 0x01, 0x01)),
	}
}

func sysex(data ...byte) []byte {
	b := make([]byte, 0, len(lpxHeader)+len(data))
	b = append(b, lpxHeader...)
	return append(b, data...)
}

// padEventFromMessage decodes grid notes and top-row CCs. Note-on with
// velocity 0 counts as a release.
func padEventFromMessage(msg gomidi.Message) (PadEvent, bool) {
	var channel, key, velocity uint8
	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		row, col := noteToRowCol(key)
		if row < 0 {
			return PadEvent{}, false
		}
		return PadEvent{Row: row, Col: col, Velocity: velocity, Pressed: velocity > 0}, true
	case msg.GetNoteOff(&channel, &key, &velocity):
		row, col := noteToRowCol(key)
		if row < 0 {
			return PadEvent{}, false
		}
		return PadEvent{Row: row, Col: col}, true
	case msg.GetControlChange(&channel, &key, &velocity):
		row, col := ccToRowCol(key)
		if row < 0 {
			return PadEvent{}, false
		}
		return PadEvent{Row: row, Col: col, Velocity: velocity, Pressed: velocity > 0}, true
	}
	return PadEvent{}, false
}

func (lp *LaunchpadController) ID() string {
	return lp.id
}

func (lp *LaunchpadController) Type() ControllerType {
	return ControllerLaunchpad
}

func (lp *LaunchpadController) GridSize() (int, int) {
	return LaunchpadRows, LaunchpadCols
}

func (lp *LaunchpadController) PadEvents() <-chan PadEvent {
	return lp.padChan
}

func (lp *LaunchpadController) NoteEvents() <-chan NoteEvent {
	return lp.noteChan
}

func (lp *LaunchpadController) SetLEDRGB(row, col int, rgb [3]uint8, channel uint8) error {
	return lp.SetLEDBatch([]LEDUpdate{{Row: row, Col: col, Color: rgb, Channel: channel}})
}

// SetLEDBatch sends static colors as one RGB lighting SysEx and
// flashing/pulsing colors as palette note-ons on their channel
func (lp *LaunchpadController) SetLEDBatch(updates []LEDUpdate) error {
	if lp.send == nil || len(updates) == 0 {
		return nil
	}

	static, animated := splitUpdates(updates)
	if len(static) > 0 {
		if err := lp.send(gomidi.SysEx(rgbSysEx(static))); err != nil {
			return fmt.Errorf("led sysex: %w", err)
		}
	}
	for _, u := range animated {
		msg := gomidi.NoteOn(u.Channel, rowColToNote(u.Row, u.Col), nearestPaletteColor(u.Color))
		if err := lp.send(msg); err != nil {
			return fmt.Errorf("led note: %w", err)
		}
	}

	count := atomic.AddUint64(&ledSendCount, uint64(len(updates)))
	if count%100 < uint64(len(updates)) {
		debug.Log("led", "sent=%d (this batch=%d)", count, len(updates))
	}
	return nil
}

func splitUpdates(updates []LEDUpdate) (static, animated []LEDUpdate) {
	for _, u := range updates {
		if u.Channel == ChannelStatic {
			static = append(static, u)
		} else {
			animated = append(animated, u)
		}
	}
	return static, animated
}

// rgbSysEx builds a lighting message with one RGB entry per LED.
// Launchpad RGB components are 7-bit.
func rgbSysEx(updates []LEDUpdate) []byte {
	b := sysex(0x03)
	for _, u := range updates {
		b = append(b, 0x03, rowColToNote(u.Row, u.Col), u.Color[0]>>1, u.Color[1]>>1, u.Color[2]>>1)
	}
	return b
}

// lpxPalette holds approximate RGB values for a subset of the Launchpad X
// palette, used for flashing and pulsing LEDs which only take palette indices
var lpxPalette = []struct {
	index uint8
	hex   string
}{
	{0, "#000000"},
	{3, "#ffffff"},
	{5, "#ff0000"},
	{7, "#b43c3c"},
	{9, "#ff6400"},
	{11, "#b45028"},
	{13, "#ffc800"},
	{17, "#00b400"},
	{21, "#00ff00"},
	{37, "#00c8c8"},
	{43, "#283c78"},
	{45, "#0064ff"},
	{49, "#9600c8"},
	{53, "#ff50b4"},
	{84, "#ff9632"},
	{87, "#96ff64"},
	{97, "#b4b43c"},
}

// nearestPaletteColor finds the closest palette entry in Lab space
func nearestPaletteColor(rgb [3]uint8) uint8 {
	target := colorful.Color{R: float64(rgb[0]) / 255, G: float64(rgb[1]) / 255, B: float64(rgb[2]) / 255}

	best := uint8(0)
	bestDist := -1.0
	for _, p := range lpxPalette {
		c, err := colorful.Hex(p.hex)
		if err != nil {
			continue
		}
		d := target.DistanceLab(c)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = p.index
		}
	}
	return best
}

func (lp *LaunchpadController) Close() error {
	if lp.send != nil {
		var updates []LEDUpdate
		for row := 0; row < 9; row++ {
			for col := 0; col < 9; col++ {
				if row == 8 && col == 8 {
					continue
				}
				updates = append(updates, LEDUpdate{Row: row, Col: col})
			}
		}
		if err := lp.SetLEDBatch(updates); err != nil {
			debug.Log("device", "%s: clear on close: %v", lp.id, err)
		}
	}
	if lp.stopFunc != nil {
		lp.stopFunc()
	}
	close(lp.padChan)
	close(lp.noteChan)
	return nil
}

// Launchpad X programmer-mode layout:
//   grid:     row 0 (bottom) = notes 11-18, row 7 = notes 81-88
//   side col: col 8 = notes 19, 29 ... 89
//   top row:  row 8 = CC 91-98

func rowColToNote(row, col int) uint8 {
	if row == 8 {
		return uint8(91 + col)
	}
	return uint8((row+1)*10 + col + 1)
}

func noteToRowCol(note uint8) (row, col int) {
	if note >= 91 && note <= 98 {
		return 8, int(note - 91)
	}
	row = int(note/10) - 1
	col = int(note%10) - 1
	if row < 0 || row > 7 || col < 0 || col > 8 {
		return -1, -1
	}
	return row, col
}

func ccToRowCol(cc uint8) (row, col int) {
	if cc >= 91 && cc <= 98 {
		return 8, int(cc - 91)
	}
	return -1, -1
}
