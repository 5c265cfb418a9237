package midi

import (
	"bytes"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestRowColRoundTrip(t *testing.T) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 9; col++ {
			note := rowColToNote(row, col)
			r, c := noteToRowCol(note)
			if r != row || c != col {
				t.Errorf("(%d,%d) -> %d -> (%d,%d)", row, col, note, r, c)
			}
		}
	}

	if rowColToNote(0, 0) != 11 || rowColToNote(7, 7) != 88 {
		t.Error("Expected grid corners at notes 11 and 88")
	}
	if rowColToNote(8, 2) != 93 {
		t.Error("Expected top row to use 91-98")
	}
}

func TestNoteToRowColRejectsOutside(t *testing.T) {
	for _, note := range []uint8{0, 10, 20, 99, 127} {
		if r, _ := noteToRowCol(note); r != -1 {
			t.Errorf("Expected note %d to be rejected, got row %d", note, r)
		}
	}
	if r, _ := ccToRowCol(90); r != -1 {
		t.Error("Expected CC 90 to be rejected")
	}
}

func TestPadEventFromMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  gomidi.Message
		ok   bool
		want PadEvent
	}{
		{"press", gomidi.NoteOn(0, 34, 100), true, PadEvent{Row: 2, Col: 3, Velocity: 100, Pressed: true}},
		{"release", gomidi.NoteOff(0, 34), true, PadEvent{Row: 2, Col: 3}},
		{"top row", gomidi.ControlChange(0, 95, 127), true, PadEvent{Row: 8, Col: 4, Velocity: 127, Pressed: true}},
		{"outside", gomidi.NoteOn(0, 5, 100), false, PadEvent{}},
		{"other", gomidi.ProgramChange(0, 3), false, PadEvent{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := padEventFromMessage(tt.msg)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestRGBSysEx(t *testing.T) {
	got := rgbSysEx([]LEDUpdate{
		{Row: 0, Col: 0, Color: [3]uint8{255, 0, 128}},
		{Row: 1, Col: 2, Color: [3]uint8{2, 4, 6}},
	})
	want := []byte{
		0x00, 0x20, 0x29, 0x02, 0x0C, 0x03,
		0x03, 11, 127, 0, 64,
		0x03, 23, 1, 2, 3,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Expected % x, got % x", want, got)
	}
}

func TestSplitUpdates(t *testing.T) {
	static, animated := splitUpdates([]LEDUpdate{
		{Channel: ChannelStatic},
		{Channel: ChannelPulse},
		{Channel: ChannelStatic},
	})
	if len(static) != 2 || len(animated) != 1 {
		t.Errorf("Expected 2 static and 1 animated, got %d and %d", len(static), len(animated))
	}
}

func TestNearestPaletteColor(t *testing.T) {
	tests := []struct {
		rgb  [3]uint8
		want uint8
	}{
		{[3]uint8{0, 0, 0}, 0},
		{[3]uint8{255, 255, 255}, 3},
		{[3]uint8{250, 5, 5}, 5},
		{[3]uint8{0, 250, 0}, 21},
	}
	for _, tt := range tests {
		if got := nearestPaletteColor(tt.rgb); got != tt.want {
			t.Errorf("%v: expected palette %d, got %d", tt.rgb, tt.want, got)
		}
	}
}

func TestSetLEDBatchWithoutOutput(t *testing.T) {
	lp := &LaunchpadController{}
	if err := lp.SetLEDBatch([]LEDUpdate{{Row: 1, Col: 1}}); err != nil {
		t.Errorf("Expected no error without an output port, got %v", err)
	}
}

func TestSetLEDBatchSends(t *testing.T) {
	var sent []gomidi.Message
	lp := &LaunchpadController{send: func(msg gomidi.Message) error {
		sent = append(sent, msg)
		return nil
	}}

	err := lp.SetLEDBatch([]LEDUpdate{
		{Row: 0, Col: 0, Color: [3]uint8{255, 0, 0}},
		{Row: 0, Col: 1, Color: [3]uint8{255, 0, 0}},
		{Row: 0, Col: 2, Color: [3]uint8{255, 0, 0}, Channel: ChannelPulse},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(sent) != 2 {
		t.Fatalf("Expected one sysex and one note, got %d messages", len(sent))
	}

	var ch, key, vel uint8
	if !sent[1].GetNoteOn(&ch, &key, &vel) {
		t.Fatal("Expected pulse LED as a note-on")
	}
	if ch != ChannelPulse || key != 13 || vel != 5 {
		t.Errorf("Expected ch=2 key=13 vel=5, got ch=%d key=%d vel=%d", ch, key, vel)
	}
}
