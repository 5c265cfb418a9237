package notemap

import "go-notegrid/control"

// Settings is the persisted, name-based part of the mapper state
type Settings struct {
	Scale     string
	Key       string
	Layout    string
	Chromatic bool
	Octave    int
}

// Snapshot captures the current settings
func (m *Mapper) Snapshot() Settings {
	return Settings{
		Scale:     m.scale.Name(),
		Key:       m.KeyName(),
		Layout:    m.layout.Name(),
		Chromatic: m.chromatic,
		Octave:    m.octave,
	}
}

// Apply restores settings. Unknown names keep the current value and are
// returned so the caller can report them. The layout is only rebuilt when
// it actually changes.
func (m *Mapper) Apply(s Settings) (unknown []string) {
	if !m.SetScaleByName(s.Scale) {
		unknown = append(unknown, "scale "+s.Scale)
	}
	if !m.SetKeyOffsetByName(s.Key) {
		unknown = append(unknown, "key "+s.Key)
	}
	if s.Layout != m.layout.Name() && !m.SetLayoutByName(s.Layout) {
		unknown = append(unknown, "layout "+s.Layout)
	}
	m.SetChromatic(s.Chromatic)
	m.SetOctave(s.Octave)
	return unknown
}

// ChangeScale steps the scale by one relative control movement
func (m *Mapper) ChangeScale(changer control.ValueChanger, value int) {
	switch d := changer.Delta(value); {
	case d > 0:
		m.NextScale()
	case d < 0:
		m.PrevScale()
	}
}

// ChangeLayout steps the layout by one relative control movement
func (m *Mapper) ChangeLayout(changer control.ValueChanger, value int) {
	switch d := changer.Delta(value); {
	case d > 0:
		m.NextLayout()
	case d < 0:
		m.PrevLayout()
	}
}

// ChangeKeyOffset steps the key by one relative control movement
func (m *Mapper) ChangeKeyOffset(changer control.ValueChanger, value int) {
	switch d := changer.Delta(value); {
	case d > 0:
		m.NextKeyOffset()
	case d < 0:
		m.PrevKeyOffset()
	}
}
