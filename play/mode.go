package play

// Mode selects how the pad grid is mapped to notes
type Mode int

const (
	ModeScale Mode = iota // isomorphic scale grid
	ModeChord             // one scale degree per column, pads play triads
	ModePiano             // chromatic piano keyboard rows
	ModeDrum              // 4x4 drum pads
)

var modeNames = []string{"Scale", "Chord", "Piano", "Drum"}

// ModeCount is the number of modes
var ModeCount = len(modeNames)

func (m Mode) String() string {
	if int(m) >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "Unknown"
}

// Next cycles to the following mode
func (m Mode) Next() Mode {
	return Mode((int(m) + 1) % ModeCount)
}

// ModeByName finds a mode by its display name
func ModeByName(name string) (Mode, bool) {
	for i, n := range modeNames {
		if n == name {
			return Mode(i), true
		}
	}
	return ModeScale, false
}
