package play

import (
	"slices"

	"go-notegrid/notemap"
)

// DrumKit maps the 16 drum slots to the notes a drum machine expects
type DrumKit struct {
	Name  string
	Notes [16]int
}

// SlotNames labels the drum slots; slot i sits on pad row i/4, column i%4
var SlotNames = [16]string{
	"Kick", "Snare", "Closed HH", "Open HH",
	"Low Tom", "Mid Tom", "High Tom", "Crash",
	"Ride", "Clap", "Rimshot", "Cowbell",
	"Clave", "Maracas", "Low Conga", "High Conga",
}

// Kits holds the built-in kits by key
var Kits = map[string]DrumKit{
	"gm": {
		Name:  "General MIDI",
		Notes: [16]int{36, 38, 42, 46, 41, 43, 45, 49, 51, 39, 37, 56, 75, 70, 64, 63},
	},
	// RD-8 snare is on 40 and toms sit higher than GM
	"rd8": {
		Name:  "Behringer RD-8",
		Notes: [16]int{36, 40, 42, 46, 45, 48, 50, 49, 51, 39, 37, 56, 75, 70, 64, 63},
	},
	"tr8s": {
		Name:  "Roland TR-8S",
		Notes: [16]int{36, 38, 42, 46, 41, 43, 45, 49, 51, 39, 37, 56, 75, 70, 62, 63},
	},
}

// KitNames returns the kit keys in sorted order
func KitNames() []string {
	names := make([]string, 0, len(Kits))
	for k := range Kits {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// kitTemplate lays a kit on the lower-left 4x4 pads of a grid, as drum pad
// numbers relative to offset
func kitTemplate(kit DrumKit, size, cols, offset int) []int {
	tmpl := make([]int, size)
	for i := range tmpl {
		tmpl[i] = notemap.NoNote
		row, col := i/cols, i%cols
		if row < 4 && col < 4 {
			tmpl[i] = kit.Notes[row*4+col] - offset
		}
	}
	return tmpl
}

// SetDrumKit loads a kit onto the drum pads. An empty name restores the
// chromatic drum block. Returns false for unknown kits.
func (s *Session) SetDrumKit(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setDrumKit(name)
}

func (s *Session) setDrumKit(name string) bool {
	m := s.mapper
	if name == "" {
		m.SetDrumOffset(notemap.DrumOffsetStart)
		m.SetDrumMatrix(nil)
		s.kit = ""
	} else {
		kit, ok := Kits[name]
		if !ok {
			return false
		}
		// kits address absolute notes, so pin the page to the start offset
		m.SetDrumOffset(notemap.DrumOffsetStart)
		geo := m.Geometry()
		m.SetDrumMatrix(kitTemplate(kit, geo.EndNote-geo.StartNote, geo.Cols, m.DrumOffset()))
		s.kit = name
	}

	s.rebuild()
	s.notification = "Kit " + s.kitName() + ": " + m.DrumRangeText()
	s.changed()
	return true
}

// DrumKit returns the loaded kit key, empty for the chromatic block
func (s *Session) DrumKit() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kit
}

func (s *Session) kitName() string {
	if kit, ok := Kits[s.kit]; ok {
		return kit.Name
	}
	return "Chromatic"
}

// nextKit cycles chromatic block, then each kit in name order
func (s *Session) nextKit() {
	names := append([]string{""}, KitNames()...)
	i := slices.Index(names, s.kit)
	s.setDrumKit(names[(i+1)%len(names)])
}

// DrumSlot names the drum slot under a pad, or "" outside the drum block
func DrumSlot(row, col int) string {
	if row < 0 || row >= 4 || col < 0 || col >= 4 {
		return ""
	}
	return SlotNames[row*4+col]
}
