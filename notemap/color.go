package notemap

import "go-notegrid/scale"

// Color classifies a pad for LED feedback
type Color int

const (
	Off        Color = iota // no note
	Octave                  // the key's pitch class
	Note                    // playable note
	OutOfScale              // chromatic mode only: note outside the scale
)

var colorNames = []string{"off", "octave", "note", "out-of-scale"}

func (c Color) String() string {
	if int(c) >= 0 && int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "unknown"
}

// Color classifies entry index of a note table built by one of the matrix
// methods. Scale-mode pads are always in scale, so only chromatic mode
// reports OutOfScale.
func (m *Mapper) Color(noteMap [128]int, index int) Color {
	if index < 0 || index >= len(noteMap) {
		return Off
	}
	note := noteMap[index]
	if note == NoNote {
		return Off
	}
	rel := scale.PitchClass(note - m.KeyOffset())
	if rel == 0 {
		return Octave
	}
	if m.chromatic && !m.scale.IsInScale(rel) {
		return OutOfScale
	}
	return Note
}
