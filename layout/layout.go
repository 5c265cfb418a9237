package layout

// Orientation is the axis along which consecutive scale steps run
type Orientation int

const (
	Up    Orientation = iota // rows advance by the row shift, columns by one step
	Right                    // axes swapped: columns advance by the row shift
)

func (o Orientation) String() string {
	if o == Right {
		return "right"
	}
	return "up"
}

type kind int

const (
	kindFourth kind = iota
	kindThird
	kindSequent
	kindEighth
	kindEighthCentered
	kindStaggered
)

// Layout is a geometric rule mapping grid coordinates to scale steps
type Layout struct {
	name    string
	ordinal int
	kind    kind
}

// All holds the layouts in catalog order. Even ordinals are Up, odd are Right.
var All = []*Layout{
	{name: "4th ^", kind: kindFourth},
	{name: "4th >", kind: kindFourth},
	{name: "3rd ^", kind: kindThird},
	{name: "3rd >", kind: kindThird},
	{name: "Sequent ^", kind: kindSequent},
	{name: "Sequent >", kind: kindSequent},
	{name: "8th ^", kind: kindEighth},
	{name: "8th >", kind: kindEighth},
	{name: "8th ^ centered", kind: kindEighthCentered},
	{name: "8th > centered", kind: kindEighthCentered},
	{name: "Staggered ^", kind: kindStaggered},
	{name: "Staggered >", kind: kindStaggered},
}

// Count is the number of layouts in the catalog
var Count = len(All)

// centerOffset moves the centered layouts down so the root sits mid-grid
const centerOffset = -3

func init() {
	for i, l := range All {
		l.ordinal = i
	}
}

// Name returns the display name
func (l *Layout) Name() string {
	return l.name
}

// Ordinal returns the catalog position
func (l *Layout) Ordinal() int {
	return l.ordinal
}

// Orientation is derived from ordinal parity
func (l *Layout) Orientation() Orientation {
	if l.ordinal%2 == 0 {
		return Up
	}
	return Right
}

// Dynamic reports whether the row step is computed from the scale length
// instead of the nominal scale shift.
func (l *Layout) Dynamic() bool {
	return l.kind == kindStaggered
}

// Centered reports whether the layout shifts the root towards the grid middle
func (l *Layout) Centered() bool {
	return l.kind == kindEighthCentered
}

// CenterOffset returns the scale-step offset applied to every cell
func (l *Layout) CenterOffset() int {
	if l.Centered() {
		return centerOffset
	}
	return 0
}

// Shifts returns the nominal (scaleShift, semitoneShift) pair for a grid.
// Sequent layouts run through the whole row (or column) before wrapping.
func (l *Layout) Shifts(rows, cols int) (scaleShift, semitoneShift int) {
	switch l.kind {
	case kindFourth:
		return 3, 5
	case kindThird:
		return 2, 4
	case kindSequent:
		if l.Orientation() == Up {
			return cols, cols
		}
		return rows, rows
	case kindStaggered:
		return 7, 7
	default:
		return 7, 12
	}
}

func (l *Layout) String() string {
	return l.name
}

// HasNext reports whether a layout follows in catalog order
func (l *Layout) HasNext() bool {
	return l.ordinal < len(All)-1
}

// HasPrev reports whether a layout precedes in catalog order
func (l *Layout) HasPrev() bool {
	return l.ordinal > 0
}

// Next returns the following layout, or l itself at the end
func (l *Layout) Next() *Layout {
	if !l.HasNext() {
		return l
	}
	return All[l.ordinal+1]
}

// Prev returns the preceding layout, or l itself at the start
func (l *Layout) Prev() *Layout {
	if !l.HasPrev() {
		return l
	}
	return All[l.ordinal-1]
}

// ByName looks a layout up by its display name
func ByName(name string) (*Layout, bool) {
	for _, l := range All {
		if l.name == name {
			return l, true
		}
	}
	return nil, false
}

// ByOrdinal returns the layout at the catalog position, clamped
func ByOrdinal(i int) *Layout {
	if i < 0 {
		i = 0
	}
	if i >= len(All) {
		i = len(All) - 1
	}
	return All[i]
}

// Default is the layout a new session starts with
func Default() *Layout {
	return All[0]
}

// Names returns all layout names in catalog order
func Names() []string {
	names := make([]string, len(All))
	for i, l := range All {
		names[i] = l.name
	}
	return names
}
