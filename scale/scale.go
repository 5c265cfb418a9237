package scale

import "fmt"

// Scale is a named set of semitone offsets within one octave.
// Intervals ascend, start at 0 and stay below 12.
type Scale struct {
	name      string
	ordinal   int
	intervals []int
	member    [12]bool
	position  [12]int
}

// Catalog order is navigation order (prev/next, knob cycling)
var catalog = []struct {
	name      string
	intervals []int
}{
	{"Major", []int{0, 2, 4, 5, 7, 9, 11}},
	{"Minor", []int{0, 2, 3, 5, 7, 8, 10}},
	{"Dorian", []int{0, 2, 3, 5, 7, 9, 10}},
	{"Mixolydian", []int{0, 2, 4, 5, 7, 9, 10}},
	{"Lydian", []int{0, 2, 4, 6, 7, 9, 11}},
	{"Phrygian", []int{0, 1, 3, 5, 7, 8, 10}},
	{"Locrian", []int{0, 1, 3, 5, 6, 8, 10}},
	{"Whole Tone", []int{0, 2, 4, 6, 8, 10}},
	{"Whole Half", []int{0, 2, 3, 5, 6, 8, 9, 11}},
	{"Half Whole", []int{0, 1, 3, 4, 6, 7, 9, 10}},
	{"Blues", []int{0, 3, 5, 6, 7, 10}},
	{"Minor Pentatonic", []int{0, 3, 5, 7, 10}},
	{"Major Pentatonic", []int{0, 2, 4, 7, 9}},
	{"Harmonic Minor", []int{0, 2, 3, 5, 7, 8, 11}},
	{"Melodic Minor", []int{0, 2, 3, 5, 7, 9, 11}},
	{"Super Locrian", []int{0, 1, 3, 4, 6, 8, 10}},
	{"Bhairav", []int{0, 1, 4, 5, 7, 8, 11}},
	{"Hungarian Minor", []int{0, 2, 3, 6, 7, 8, 11}},
	{"Minor Gypsy", []int{0, 1, 4, 5, 7, 8, 10}},
	{"Hirajoshi", []int{0, 2, 3, 7, 8}},
	{"In Sen", []int{0, 1, 5, 7, 10}},
	{"Iwato", []int{0, 1, 5, 6, 10}},
	{"Kumoi", []int{0, 2, 3, 7, 9}},
	{"Pelog", []int{0, 1, 3, 7, 8}},
	{"Spanish", []int{0, 1, 3, 4, 5, 6, 8, 10}},
	{"Bebop Dominant", []int{0, 2, 4, 5, 7, 9, 10, 11}},
	{"Bebop Major", []int{0, 2, 4, 5, 7, 8, 9, 11}},
	{"Bebop Dorian", []int{0, 2, 3, 4, 5, 7, 9, 10}},
	{"Bebop Melodic Minor", []int{0, 2, 3, 5, 7, 8, 9, 11}},
	{"Lydian Dominant", []int{0, 2, 4, 6, 7, 9, 10}},
	{"Lydian Augmented", []int{0, 2, 4, 6, 8, 9, 11}},
	{"Neapolitan Major", []int{0, 1, 3, 5, 7, 9, 11}},
	{"Neapolitan Minor", []int{0, 1, 3, 5, 7, 8, 11}},
	{"Enigmatic", []int{0, 1, 4, 6, 8, 10, 11}},
	{"Prometheus", []int{0, 2, 4, 6, 9, 10}},
	{"Augmented", []int{0, 3, 4, 7, 8, 11}},
	{"Messiaen 3", []int{0, 2, 3, 4, 6, 7, 8, 10, 11}},
	{"Messiaen 7", []int{0, 1, 2, 3, 5, 6, 7, 8, 9, 11}},
}

// All holds every scale in catalog order. Index equals Ordinal().
var All []*Scale

// Count is the number of scales in the catalog
const Count = 38

var byName map[string]*Scale

func init() {
	if len(catalog) != Count {
		panic(fmt.Sprintf("scale catalog has %d entries, Count is %d", len(catalog), Count))
	}
	All = make([]*Scale, len(catalog))
	byName = make(map[string]*Scale, len(catalog))
	for i, c := range catalog {
		s, err := newScale(c.name, i, c.intervals)
		if err != nil {
			panic(err)
		}
		All[i] = s
		byName[s.name] = s
	}
}

func newScale(name string, ordinal int, intervals []int) (*Scale, error) {
	if len(intervals) < 5 || len(intervals) > 10 {
		return nil, fmt.Errorf("scale %q: %d intervals, want 5-10", name, len(intervals))
	}
	if intervals[0] != 0 {
		return nil, fmt.Errorf("scale %q: first interval is %d, want 0", name, intervals[0])
	}

	s := &Scale{
		name:      name,
		ordinal:   ordinal,
		intervals: append([]int(nil), intervals...),
	}
	for i := range s.position {
		s.position[i] = -1
	}
	prev := -1
	for i, iv := range intervals {
		if iv <= prev || iv > 11 {
			return nil, fmt.Errorf("scale %q: interval %d at %d not ascending in [0,11]", name, iv, i)
		}
		s.member[iv] = true
		s.position[iv] = i
		prev = iv
	}
	return s, nil
}

// Name returns the display name, also used for persisted settings
func (s *Scale) Name() string {
	return s.name
}

// Ordinal returns the catalog position
func (s *Scale) Ordinal() int {
	return s.ordinal
}

// Intervals returns a copy of the ascending interval list
func (s *Scale) Intervals() []int {
	return append([]int(nil), s.intervals...)
}

// Interval returns the i-th interval without copying
func (s *Scale) Interval(i int) int {
	return s.intervals[i]
}

// Len returns the number of degrees in the scale
func (s *Scale) Len() int {
	return len(s.intervals)
}

// IsInScale reports whether the pitch class belongs to the scale.
// Any note value is accepted and reduced to its pitch class first.
func (s *Scale) IsInScale(pitchClass int) bool {
	return s.member[PitchClass(pitchClass)]
}

// IndexInScale returns the position of the pitch class in the interval list
func (s *Scale) IndexInScale(pitchClass int) (int, bool) {
	idx := s.position[PitchClass(pitchClass)]
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// HasNext reports whether a scale follows in catalog order
func (s *Scale) HasNext() bool {
	return s.ordinal < len(All)-1
}

// HasPrev reports whether a scale precedes in catalog order
func (s *Scale) HasPrev() bool {
	return s.ordinal > 0
}

// Next returns the following scale, or s itself at the end of the catalog
func (s *Scale) Next() *Scale {
	if !s.HasNext() {
		return s
	}
	return All[s.ordinal+1]
}

// Prev returns the preceding scale, or s itself at the start of the catalog
func (s *Scale) Prev() *Scale {
	if !s.HasPrev() {
		return s
	}
	return All[s.ordinal-1]
}

func (s *Scale) String() string {
	return s.name
}

// ByName looks a scale up by its display name
func ByName(name string) (*Scale, bool) {
	s, ok := byName[name]
	return s, ok
}

// ByOrdinal returns the scale at the catalog position, clamped to the catalog
func ByOrdinal(i int) *Scale {
	if i < 0 {
		i = 0
	}
	if i >= len(All) {
		i = len(All) - 1
	}
	return All[i]
}

// Default is the scale a new session starts with
func Default() *Scale {
	return All[0]
}

// Names returns all scale names in catalog order
func Names() []string {
	names := make([]string, len(All))
	for i, s := range All {
		names[i] = s.name
	}
	return names
}

// PitchClass reduces a note to [0,11], also for negative values
func PitchClass(note int) int {
	pc := note % 12
	if pc < 0 {
		pc += 12
	}
	return pc
}

// OctaveOf returns the floored octave of a note (note = OctaveOf*12 + PitchClass)
func OctaveOf(note int) int {
	if note < 0 {
		return -((-note + 11) / 12)
	}
	return note / 12
}
