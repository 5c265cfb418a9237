package notemap

import "go-notegrid/scale"

// nearestIndex returns the scale position closest to a pitch class relative
// to the key. Ties go to the earlier interval.
func (m *Mapper) nearestIndex(pc int) int {
	best, bestDist := 0, 12
	for i := 0; i < m.scale.Len(); i++ {
		d := m.scale.Interval(i) - pc
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// NearestNoteInScale snaps a MIDI note to the closest note of the selected
// scale in the selected key. Results are kept inside [0,127]; notes outside
// that range return NoNote.
func (m *Mapper) NearestNoteInScale(note int) int {
	if note < 0 || note > 127 {
		return NoNote
	}
	pc := scale.PitchClass(note - m.KeyOffset())
	n := note - pc + m.scale.Interval(m.nearestIndex(pc))
	// the snapped degree may cross the MIDI range; fold back by an octave
	if n > 127 {
		n -= 12
	}
	if n < 0 {
		n += 12
	}
	return n
}

// IsInScale reports whether a note belongs to the selected scale and key
func (m *Mapper) IsInScale(note int) bool {
	return m.scale.IsInScale(note - m.KeyOffset())
}

// IsKeyRoot reports whether a note's pitch class is the selected key
func (m *Mapper) IsKeyRoot(note int) bool {
	return scale.PitchClass(note-m.KeyOffset()) == 0
}

// Chord stacks scale degrees on baseNote. Degrees count from 1 (the base
// itself), so 3 is the third above and 5 the fifth. A base outside the
// selected scale yields an empty chord. Notes past the MIDI range are NoNote.
func (m *Mapper) Chord(baseNote int, degrees []int) []int {
	rel := baseNote - m.KeyOffset()
	idx, ok := m.scale.IndexInScale(rel)
	if !ok {
		return []int{}
	}

	n := m.scale.Len()
	root := baseNote - scale.PitchClass(rel)
	chord := make([]int, 0, len(degrees))
	for _, d := range degrees {
		step := idx + d - 1
		octave := step / n
		if step < 0 {
			// floor, so degrees below 1 reach down
			octave = -((-step + n - 1) / n)
		}
		pos := step - octave*n
		chord = append(chord, clip(root+octave*12+m.scale.Interval(pos)))
	}
	return chord
}

// ThirdChord returns the third and fifth above baseNote (a stacked triad
// without its root).
func (m *Mapper) ThirdChord(baseNote int) []int {
	return m.Chord(baseNote, []int{3, 5})
}
