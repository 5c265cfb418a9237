package grid

import (
	"fmt"
	"slices"

	"go-notegrid/layout"
)

// Params describes one scale grid. Matrices are built without key, octave
// or start-note bias; the note mapper applies those afterwards.
type Params struct {
	Intervals     []int
	Orientation   layout.Orientation
	Rows, Cols    int
	ScaleShift    int
	SemitoneShift int
	CenterOffset  int // scale steps added to every cell (centered layouts)
	Staggered     bool
}

// ScaleGrid holds the scale-quantized and chromatic offsets for every cell.
// Cell index is row*Cols + col, row 0 at the bottom.
type ScaleGrid struct {
	rows, cols int
	scale      []int
	chromatic  []int
}

// StaggeredStep returns the row step of a staggered layout for a scale of
// length n: n-2 halved while it stays even and above one, so the result is
// odd and the tiling reaches every degree.
func StaggeredStep(n int) (int, error) {
	if n < 3 {
		return 0, fmt.Errorf("staggered step: scale length %d below 3", n)
	}
	dy := n - 2
	for dy%2 == 0 && dy > 1 {
		dy /= 2
	}
	return dy, nil
}

// NewScaleGrid builds both matrices for p
func NewScaleGrid(p Params) *ScaleGrid {
	size := p.Rows * p.Cols
	g := &ScaleGrid{
		rows:      p.Rows,
		cols:      p.Cols,
		scale:     make([]int, size),
		chromatic: make([]int, size),
	}

	n := len(p.Intervals)
	if n == 0 {
		return g
	}

	dx := 1
	dy := p.ScaleShift
	if dy == 7 {
		// a full scale octave, whatever the number of degrees
		dy = n
	}
	if p.Staggered {
		dx = 2
		if step, err := StaggeredStep(n); err == nil {
			dy = step
		}
	}

	for row := 0; row < p.Rows; row++ {
		for col := 0; col < p.Cols; col++ {
			y, x := row, col
			if p.Orientation == layout.Right {
				y, x = col, row
			}

			offset := y*dy + x*dx + p.CenterOffset
			corrections := 0
			for offset < 0 {
				offset += n
				corrections++
			}
			octave := offset/n - corrections

			cell := row*p.Cols + col
			g.scale[cell] = octave*12 + p.Intervals[offset%n]
			g.chromatic[cell] = y*p.SemitoneShift + x
		}
	}
	return g
}

// Rows returns the grid height
func (g *ScaleGrid) Rows() int { return g.rows }

// Cols returns the grid width
func (g *ScaleGrid) Cols() int { return g.cols }

// ScaleMatrix returns a copy of the scale-quantized offsets
func (g *ScaleGrid) ScaleMatrix() []int {
	return slices.Clone(g.scale)
}

// ChromaticMatrix returns a copy of the plain semitone offsets
func (g *ScaleGrid) ChromaticMatrix() []int {
	return slices.Clone(g.chromatic)
}

// Equal reports whether both grids hold identical matrices
func (g *ScaleGrid) Equal(o *ScaleGrid) bool {
	if g == nil || o == nil {
		return g == o
	}
	return g.rows == o.rows && g.cols == o.cols &&
		slices.Equal(g.scale, o.scale) && slices.Equal(g.chromatic, o.chromatic)
}

// ChordGrid repeats one ascending run through the scale on every row, so a
// column always plays the same degree.
type ChordGrid struct {
	rows, cols int
	matrix     []int
}

// NewChordGrid builds the chord matrix for a scale
func NewChordGrid(intervals []int, rows, cols int) *ChordGrid {
	g := &ChordGrid{
		rows:   rows,
		cols:   cols,
		matrix: make([]int, rows*cols),
	}
	n := len(intervals)
	if n == 0 {
		return g
	}
	for col := 0; col < cols; col++ {
		note := (col/n)*12 + intervals[col%n]
		for row := 0; row < rows; row++ {
			g.matrix[row*cols+col] = note
		}
	}
	return g
}

// Matrix returns a copy of the chord offsets
func (g *ChordGrid) Matrix() []int {
	return slices.Clone(g.matrix)
}

// Equal reports whether both grids hold identical matrices
func (g *ChordGrid) Equal(o *ChordGrid) bool {
	if g == nil || o == nil {
		return g == o
	}
	return g.rows == o.rows && g.cols == o.cols && slices.Equal(g.matrix, o.matrix)
}
