package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-notegrid/debug"
)

// KeyboardController handles a standard MIDI keyboard (input only)
type KeyboardController struct {
	id       string
	inPort   drivers.In
	stopFunc func()

	padChan  chan PadEvent
	noteChan chan NoteEvent
	ccChan   chan ControlEvent
}

// ControlEvent is a control change from a keyboard knob or encoder
type ControlEvent struct {
	Channel    uint8
	Controller uint8
	Value      uint8
}

func NewKeyboardController(id string, inPort drivers.In) (*KeyboardController, error) {
	kb := &KeyboardController{
		id:       id,
		inPort:   inPort,
		padChan:  make(chan PadEvent, 1),
		noteChan: make(chan NoteEvent, 64),
		ccChan:   make(chan ControlEvent, 64),
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			var cc ControlEvent
			if msg.GetControlChange(&cc.Channel, &cc.Controller, &cc.Value) {
				select {
				case kb.ccChan <- cc:
				default:
					debug.Log("device", "%s: control event dropped", kb.id)
				}
				return
			}
			ev, ok := noteEventFromMessage(msg)
			if !ok {
				return
			}
			select {
			case kb.noteChan <- ev:
			default:
				debug.Log("device", "%s: note event dropped", kb.id)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("open input %s: %w", id, err)
		}
		kb.stopFunc = stop
	}

	debug.Log("device", "keyboard %s ready", id)
	return kb, nil
}

func noteEventFromMessage(msg gomidi.Message) (NoteEvent, bool) {
	var channel, note, velocity uint8
	switch {
	case msg.GetNoteOn(&channel, &note, &velocity):
		return NoteEvent{Note: note, Velocity: velocity, Channel: channel, On: velocity > 0}, true
	case msg.GetNoteOff(&channel, &note, &velocity):
		return NoteEvent{Note: note, Channel: channel}, true
	}
	return NoteEvent{}, false
}

func (kb *KeyboardController) ID() string {
	return kb.id
}

func (kb *KeyboardController) Type() ControllerType {
	return ControllerKeyboard
}

func (kb *KeyboardController) GridSize() (int, int) {
	return 0, 0
}

func (kb *KeyboardController) PadEvents() <-chan PadEvent {
	return kb.padChan
}

func (kb *KeyboardController) NoteEvents() <-chan NoteEvent {
	return kb.noteChan
}

// ControlEvents delivers control changes, used for relative encoders
func (kb *KeyboardController) ControlEvents() <-chan ControlEvent {
	return kb.ccChan
}

// SetLEDRGB is a no-op, keyboards have no pads
func (kb *KeyboardController) SetLEDRGB(row, col int, rgb [3]uint8, channel uint8) error {
	return nil
}

func (kb *KeyboardController) SetLEDBatch(updates []LEDUpdate) error {
	return nil
}

func (kb *KeyboardController) Close() error {
	if kb.stopFunc != nil {
		kb.stopFunc()
	}
	close(kb.padChan)
	close(kb.noteChan)
	close(kb.ccChan)
	return nil
}
