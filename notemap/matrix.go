package notemap

import (
	"go-notegrid/control"
	"go-notegrid/scale"
)

// Piano key template: even rows white keys, odd rows the black keys between
var (
	pianoWhite = [7]int{0, 2, 4, 5, 7, 9, 11}
	pianoBlack = [7]int{NoNote, 1, 3, NoNote, 6, 8, 10}
)

// pianoBase is the lowest piano note at piano octave 0 (C1)
const pianoBase = 36

// EmptyMatrix returns a 128-entry note table with every entry unmapped
func EmptyMatrix() [128]int {
	var t [128]int
	for i := range t {
		t[i] = NoNote
	}
	return t
}

func clip(note int) int {
	if note < 0 || note > 127 {
		return NoNote
	}
	return note
}

// ScaleMatrix returns the scale-quantized offsets of the selected scale
func (m *Mapper) ScaleMatrix() []int {
	return m.cache[m.scale.Ordinal()].scale.ScaleMatrix()
}

// ChromaticMatrix returns the chromatic offsets of the selected scale's grid
func (m *Mapper) ChromaticMatrix() []int {
	return m.cache[m.scale.Ordinal()].scale.ChromaticMatrix()
}

// ChordMatrix returns the chord-row offsets of the selected scale
func (m *Mapper) ChordMatrix() []int {
	return m.cache[m.scale.Ordinal()].chord.Matrix()
}

// ActiveMatrix returns the chromatic or scale matrix, depending on the
// chromatic flag.
func (m *Mapper) ActiveMatrix() []int {
	if m.chromatic {
		return m.ChromaticMatrix()
	}
	return m.ScaleMatrix()
}

// NoteMatrix turns raw grid offsets into a note table addressed by MIDI
// note number. Every address in [StartNote, EndNote) gets its offset plus
// key, start note and octave; everything else stays unmapped.
func (m *Mapper) NoteMatrix(raw []int) [128]int {
	table := EmptyMatrix()
	for addr := m.geo.StartNote; addr < m.geo.EndNote; addr++ {
		i := addr - m.geo.StartNote
		if i >= len(raw) || raw[i] == NoNote {
			continue
		}
		table[addr] = clip(raw[i] + m.KeyOffset() + m.geo.StartNote + m.octave*12)
	}
	return table
}

// SequencerMatrix returns length notes for a sequencer row starting near
// noteOffset. Chromatic mode counts semitones; scale mode starts on the
// scale degree nearest to noteOffset and walks the scale upwards.
func (m *Mapper) SequencerMatrix(length, noteOffset int) []int {
	if length < 0 {
		length = 0
	}
	notes := make([]int, length)

	if m.chromatic {
		for i := range notes {
			notes[i] = clip(noteOffset + i)
		}
		return notes
	}

	key := m.KeyOffset()
	rel := noteOffset - key
	octave := scale.OctaveOf(rel)
	start := m.nearestIndex(scale.PitchClass(rel))
	n := m.scale.Len()
	for i := range notes {
		step := start + i
		notes[i] = clip(key + (octave+step/n)*12 + m.scale.Interval(step%n))
	}
	return notes
}

// PianoMatrix returns a chromatic keyboard layout for a rows x cols grid.
// Row pairs hold white keys below black keys, seven columns per octave;
// each further row pair and each further seven-column group is one octave
// higher. The selected scale and key are ignored.
func (m *Mapper) PianoMatrix(rows, cols int) [128]int {
	table := EmptyMatrix()
	base := pianoBase + m.pianoOctave*12
	for row := 0; row < rows; row++ {
		keys := pianoWhite
		if row%2 == 1 {
			keys = pianoBlack
		}
		for col := 0; col < cols; col++ {
			addr := m.geo.StartNote + row*cols + col
			if addr < 0 || addr > 127 {
				continue
			}
			k := keys[col%7]
			if k == NoNote {
				continue
			}
			table[addr] = clip(base + (row/2+col/7)*12 + k)
		}
	}
	return table
}

// DrumMatrix maps the drum template onto the drum note window. Template
// cells hold pad numbers relative to the drum offset; NoNote passes through.
func (m *Mapper) DrumMatrix() [128]int {
	table := EmptyMatrix()
	for addr := m.drumStart; addr < m.drumEnd; addr++ {
		i := addr - m.drumStart
		if i >= len(m.drumMatrix) || m.drumMatrix[i] == NoNote {
			continue
		}
		table[addr] = clip(m.drumMatrix[i] + m.drumOffset)
	}
	return table
}

// defaultDrumMatrix fills a 4x4 block in the lower left of the grid
func defaultDrumMatrix(size, cols int) []int {
	if size < 0 {
		size = 0
	}
	tmpl := make([]int, size)
	for i := range tmpl {
		row, col := i/cols, i%cols
		if row < 4 && col < 4 {
			tmpl[i] = row*4 + col
		} else {
			tmpl[i] = NoNote
		}
	}
	return tmpl
}

// Drum

// DrumOffset returns the note of drum pad 0
func (m *Mapper) DrumOffset() int {
	return m.drumOffset
}

// SetDrumOffset sets the note of drum pad 0, clamped to [4,100]
func (m *Mapper) SetDrumOffset(offset int) {
	m.drumOffset = control.Clamp(offset, DrumOffsetMin, DrumOffsetMax)
}

// SetDrumPage sets the step of IncDrumOctave and DecDrumOctave
func (m *Mapper) SetDrumPage(step int) {
	if step < 1 {
		step = 1
	}
	m.drumPage = step
}

// DrumPage returns the drum page step
func (m *Mapper) DrumPage() int {
	return m.drumPage
}

// IncDrumOctave moves the drum pads up one page
func (m *Mapper) IncDrumOctave() { m.SetDrumOffset(m.drumOffset + m.drumPage) }

// DecDrumOctave moves the drum pads down one page
func (m *Mapper) DecDrumOctave() { m.SetDrumOffset(m.drumOffset - m.drumPage) }

// DrumOctave returns the page number relative to the start offset
func (m *Mapper) DrumOctave() int {
	d := m.drumOffset - DrumOffsetStart
	if d < 0 {
		return -((-d + m.drumPage - 1) / m.drumPage)
	}
	return d / m.drumPage
}

// SetDrumMatrix replaces the drum template. Cells are pad numbers or NoNote.
// A nil template restores the default 4x4 block.
func (m *Mapper) SetDrumMatrix(template []int) {
	if template == nil {
		m.drumMatrix = defaultDrumMatrix(m.drumEnd-m.drumStart, m.geo.Cols)
		return
	}
	m.drumMatrix = append([]int(nil), template...)
}

// SetDrumNoteWindow sets the MIDI address range the drum template covers
func (m *Mapper) SetDrumNoteWindow(start, end int) {
	m.drumStart = control.Clamp(start, 0, 128)
	m.drumEnd = control.Clamp(end, m.drumStart, 128)
}

// Piano

// PianoOctave returns the piano octave shift
func (m *Mapper) PianoOctave() int {
	return m.pianoOctave
}

// SetPianoOctave sets the piano octave shift, clamped to ±PianoOctaveRange
func (m *Mapper) SetPianoOctave(octave int) {
	m.pianoOctave = control.Clamp(octave, -PianoOctaveRange, PianoOctaveRange)
}

// IncPianoOctave raises the piano octave by one
func (m *Mapper) IncPianoOctave() { m.SetPianoOctave(m.pianoOctave + 1) }

// DecPianoOctave lowers the piano octave by one
func (m *Mapper) DecPianoOctave() { m.SetPianoOctave(m.pianoOctave - 1) }
