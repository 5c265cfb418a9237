package midi

import gomidi "gitlab.com/gomidi/midi/v2"

// Sender writes one message to an output port
type Sender func(msg gomidi.Message) error

// NoteOn builds a note-on message, clamping out-of-range values
func NoteOn(channel uint8, note int, velocity uint8) gomidi.Message {
	return gomidi.NoteOn(channel&0x0F, clamp7(note), velocity&0x7F)
}

// NoteOff builds a note-off message
func NoteOff(channel uint8, note int) gomidi.Message {
	return gomidi.NoteOff(channel&0x0F, clamp7(note))
}

// AllNotesOff builds the channel-mode message silencing a channel
func AllNotesOff(channel uint8) gomidi.Message {
	return gomidi.ControlChange(channel&0x0F, 123, 0)
}

func clamp7(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}
