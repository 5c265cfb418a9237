package notemap

// lowest and highest mapped note of a table, or NoNote twice
func noteRange(notes []int) (lo, hi int) {
	lo, hi = NoNote, NoNote
	for _, n := range notes {
		if n == NoNote {
			continue
		}
		if lo == NoNote || n < lo {
			lo = n
		}
		if hi == NoNote || n > hi {
			hi = n
		}
	}
	return lo, hi
}

func rangeText(notes []int) string {
	lo, hi := noteRange(notes)
	if lo == NoNote {
		return "-"
	}
	return FormatNote(lo) + " to " + FormatNote(hi)
}

// RangeText describes the notes the grid currently plays, e.g. "C1 to D#6"
func (m *Mapper) RangeText() string {
	t := m.NoteMatrix(m.ActiveMatrix())
	return rangeText(t[:])
}

// DrumRangeText describes the notes of the drum pads
func (m *Mapper) DrumRangeText() string {
	t := m.DrumMatrix()
	return rangeText(t[:])
}

// PianoRangeText describes the notes of a rows x cols piano layout
func (m *Mapper) PianoRangeText(rows, cols int) string {
	t := m.PianoMatrix(rows, cols)
	return rangeText(t[:])
}

// SequencerRangeText describes the notes of a sequencer row
func (m *Mapper) SequencerRangeText(length, noteOffset int) string {
	return rangeText(m.SequencerMatrix(length, noteOffset))
}

// TableRangeText describes the notes of any 128-entry note table
func TableRangeText(table [128]int) string {
	return rangeText(table[:])
}
