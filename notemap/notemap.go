// Package notemap turns scale, key, layout and transposition state into the
// MIDI notes and LED color tags of a pad grid.
//
// A Mapper belongs to one hardware session and is not safe for concurrent
// use; callers serialise access.
package notemap

import (
	"go-notegrid/control"
	"go-notegrid/debug"
	"go-notegrid/grid"
	"go-notegrid/layout"
	"go-notegrid/scale"
)

// NoNote marks a pad or table entry without a note
const NoNote = -1

// Transposition limits
const (
	OctaveRange      = 4
	PianoOctaveRange = 3
	DrumOffsetMin    = 4
	DrumOffsetMax    = 100
	DrumOffsetStart  = 36
	DrumPageDefault  = 16
)

// Geometry is the pad grid a Mapper serves. Pads map to the contiguous MIDI
// address window [StartNote, EndNote), row 0 first.
type Geometry struct {
	Rows      int
	Cols      int
	StartNote int
	EndNote   int
}

// DefaultGeometry is an 8x8 grid on notes 36-99
func DefaultGeometry() Geometry {
	return Geometry{Rows: 8, Cols: 8, StartNote: 36, EndNote: 100}
}

func (g Geometry) normalize() Geometry {
	if g.Rows < 1 {
		g.Rows = 1
	}
	if g.Cols < 1 {
		g.Cols = 1
	}
	g.StartNote = control.Clamp(g.StartNote, 0, 128)
	g.EndNote = control.Clamp(g.EndNote, g.StartNote, 128)
	return g
}

// Size returns the number of cells
func (g Geometry) Size() int {
	return g.Rows * g.Cols
}

type cacheEntry struct {
	scale *grid.ScaleGrid
	chord *grid.ChordGrid
}

// Mapper holds the note-mapping state of one session
type Mapper struct {
	geo Geometry

	scale     *scale.Scale
	layout    *layout.Layout
	keyIndex  int
	octave    int
	chromatic bool

	orientation   layout.Orientation
	scaleShift    int
	semitoneShift int

	// one entry per catalog scale, for the current layout
	cache [scale.Count]cacheEntry

	drumOffset  int
	drumPage    int
	drumStart   int
	drumEnd     int
	drumMatrix  []int
	pianoOctave int
}

// New creates a mapper for a fixed grid geometry with default settings:
// first catalog scale, key C, first layout, octave 0.
func New(geo Geometry) *Mapper {
	geo = geo.normalize()
	m := &Mapper{
		geo:        geo,
		scale:      scale.Default(),
		drumOffset: DrumOffsetStart,
		drumPage:   DrumPageDefault,
		drumStart:  geo.StartNote,
		drumEnd:    geo.EndNote,
	}
	m.drumMatrix = defaultDrumMatrix(geo.EndNote-geo.StartNote, geo.Cols)
	m.SetLayout(layout.Default())
	return m
}

// Geometry returns the grid the mapper was built for
func (m *Mapper) Geometry() Geometry {
	return m.geo
}

// Scale

// Scale returns the selected scale
func (m *Mapper) Scale() *scale.Scale {
	return m.scale
}

// SetScale selects a scale. Grids for every scale are already cached.
func (m *Mapper) SetScale(s *scale.Scale) {
	if s == nil {
		return
	}
	m.scale = s
}

// SetScaleByName selects a scale by name; unknown names leave it unchanged
func (m *Mapper) SetScaleByName(name string) bool {
	s, ok := scale.ByName(name)
	if ok {
		m.SetScale(s)
	}
	return ok
}

// HasPrevScale reports whether PrevScale would change the selection
func (m *Mapper) HasPrevScale() bool { return m.scale.HasPrev() }

// HasNextScale reports whether NextScale would change the selection
func (m *Mapper) HasNextScale() bool { return m.scale.HasNext() }

// PrevScale selects the preceding catalog scale
func (m *Mapper) PrevScale() { m.SetScale(m.scale.Prev()) }

// NextScale selects the following catalog scale
func (m *Mapper) NextScale() { m.SetScale(m.scale.Next()) }

// Layout

// Layout returns the selected layout
func (m *Mapper) Layout() *layout.Layout {
	return m.layout
}

// Orientation returns the orientation derived from the selected layout
func (m *Mapper) Orientation() layout.Orientation {
	return m.orientation
}

// Shifts returns the current (scaleShift, semitoneShift)
func (m *Mapper) Shifts() (scaleShift, semitoneShift int) {
	return m.scaleShift, m.semitoneShift
}

// SetLayout selects a layout and rebuilds the grids of every catalog scale
func (m *Mapper) SetLayout(l *layout.Layout) {
	if l == nil {
		return
	}
	m.layout = l
	m.orientation = l.Orientation()
	m.scaleShift, m.semitoneShift = l.Shifts(m.geo.Rows, m.geo.Cols)
	m.regenerate()
}

// SetLayoutByName selects a layout by name; unknown names leave it unchanged
func (m *Mapper) SetLayoutByName(name string) bool {
	l, ok := layout.ByName(name)
	if ok {
		m.SetLayout(l)
	}
	return ok
}

// HasPrevLayout reports whether PrevLayout would change the selection
func (m *Mapper) HasPrevLayout() bool { return m.layout.HasPrev() }

// HasNextLayout reports whether NextLayout would change the selection
func (m *Mapper) HasNextLayout() bool { return m.layout.HasNext() }

// PrevLayout selects the preceding layout
func (m *Mapper) PrevLayout() {
	if m.layout.HasPrev() {
		m.SetLayout(m.layout.Prev())
	}
}

// NextLayout selects the following layout
func (m *Mapper) NextLayout() {
	if m.layout.HasNext() {
		m.SetLayout(m.layout.Next())
	}
}

func (m *Mapper) regenerate() {
	for i, s := range scale.All {
		m.cache[i] = cacheEntry{
			scale: grid.NewScaleGrid(grid.Params{
				Intervals:     s.Intervals(),
				Orientation:   m.orientation,
				Rows:          m.geo.Rows,
				Cols:          m.geo.Cols,
				ScaleShift:    m.scaleShift,
				SemitoneShift: m.semitoneShift,
				CenterOffset:  m.layout.CenterOffset(),
				Staggered:     m.layout.Dynamic(),
			}),
			chord: grid.NewChordGrid(s.Intervals(), m.geo.Rows, m.geo.Cols),
		}
	}
	debug.Log("grid", "layout %q: rebuilt %d scales (%dx%d, shift %d/%d)",
		m.layout.Name(), len(scale.All), m.geo.Rows, m.geo.Cols, m.scaleShift, m.semitoneShift)
}

// Key

// KeyOffsetIndex returns the selected position in Bases
func (m *Mapper) KeyOffsetIndex() int {
	return m.keyIndex
}

// KeyOffset returns the selected key in semitones above C
func (m *Mapper) KeyOffset() int {
	return Offsets[m.keyIndex]
}

// KeyName returns the selected key's name from Bases
func (m *Mapper) KeyName() string {
	return Bases[m.keyIndex]
}

// SetKeyOffsetByIndex selects a key, clamped to [0,11]
func (m *Mapper) SetKeyOffsetByIndex(i int) {
	m.keyIndex = control.Clamp(i, 0, len(Bases)-1)
}

// SetKeyOffsetByName selects a key by name; unknown names leave it unchanged
func (m *Mapper) SetKeyOffsetByName(name string) bool {
	i, ok := KeyIndexByName(name)
	if ok {
		m.keyIndex = i
	}
	return ok
}

// PrevKeyOffset moves one step back in the circle of fifths, stopping at C
func (m *Mapper) PrevKeyOffset() { m.SetKeyOffsetByIndex(m.keyIndex - 1) }

// NextKeyOffset moves one step forward in the circle of fifths, stopping at F
func (m *Mapper) NextKeyOffset() { m.SetKeyOffsetByIndex(m.keyIndex + 1) }

// Octave

// Octave returns the global octave shift
func (m *Mapper) Octave() int {
	return m.octave
}

// SetOctave sets the global octave shift, clamped to ±OctaveRange
func (m *Mapper) SetOctave(octave int) {
	m.octave = control.Clamp(octave, -OctaveRange, OctaveRange)
}

// IncOctave raises the octave shift by one
func (m *Mapper) IncOctave() { m.SetOctave(m.octave + 1) }

// DecOctave lowers the octave shift by one
func (m *Mapper) DecOctave() { m.SetOctave(m.octave - 1) }

// Chromatic

// IsChromatic reports whether pads play every semitone
func (m *Mapper) IsChromatic() bool {
	return m.chromatic
}

// SetChromatic switches between scale and chromatic matrices
func (m *Mapper) SetChromatic(on bool) {
	m.chromatic = on
}

// ToggleChromatic flips the chromatic flag
func (m *Mapper) ToggleChromatic() {
	m.chromatic = !m.chromatic
}
