package notemap

import (
	"strconv"

	"go-notegrid/scale"
)

// Bases lists the selectable keys in circle-of-fifths order
var Bases = [12]string{"C", "G", "D", "A", "E", "B", "F#", "Db", "Ab", "Eb", "Bb", "F"}

// Offsets holds the semitone offset of each entry in Bases
var Offsets = [12]int{0, 7, 2, 9, 4, 11, 6, 1, 8, 3, 10, 5}

// NoteNames is indexed by pitch class
var NoteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// FormatNote renders a MIDI note as name plus octave, MIDI 60 = C3.
// The sentinel -1 renders as "-".
func FormatNote(note int) string {
	if note < 0 || note > 127 {
		return "-"
	}
	return NoteNames[scale.PitchClass(note)] + strconv.Itoa(note/12-2)
}

// KeyIndexByName returns the position of a key name in Bases
func KeyIndexByName(name string) (int, bool) {
	for i, b := range Bases {
		if b == name {
			return i, true
		}
	}
	return 0, false
}
