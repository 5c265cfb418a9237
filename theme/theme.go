package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"go-notegrid/notemap"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	PadOff        rune // · no note
	PadOctave     rune // ◆ key root
	PadNote       rune // ● in scale
	PadOutOfScale rune // ○ chromatic, outside scale
	PadPressed    rune // ■ currently held
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			PadOff:        '·',
			PadOctave:     '◆',
			PadNote:       '●',
			PadOutOfScale: '○',
			PadPressed:    '■',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG         = 0.0 // deep purple
	RoleSurface    = 0.1 // dark purple
	RoleMuted      = 0.2 // purple-magenta
	RoleOutOfScale = 0.3 // dim magenta pad
	RoleFG         = 0.4 // pink-purple (readable)
	RoleAccent     = 0.5 // vivid magenta
	RoleNote       = 0.6 // rose pink pad
	RolePressed    = 0.8 // orange
	RoleOctave     = 1.0 // bright yellow
)

// outOfScaleLevel keeps out-of-scale pads visibly darker than scale pads
const outOfScaleLevel = 0.35

// PadColor returns the LED color for a pad classification
func (t *Theme) PadColor(c notemap.Color) RGB {
	switch c {
	case notemap.Octave:
		return t.Palette.Lookup(RoleOctave)
	case notemap.Note:
		return t.Palette.Lookup(RoleNote)
	case notemap.OutOfScale:
		return Dim(t.Palette.Lookup(RoleOutOfScale), outOfScaleLevel)
	default:
		return RGB{0, 0, 0}
	}
}

// PressedColor is shown while a pad is held
func (t *Theme) PressedColor() RGB {
	return t.Palette.Lookup(RolePressed)
}

// PadSymbol returns the TUI glyph for a pad classification
func (t *Theme) PadSymbol(c notemap.Color) rune {
	switch c {
	case notemap.Octave:
		return t.Symbols.PadOctave
	case notemap.Note:
		return t.Symbols.PadNote
	case notemap.OutOfScale:
		return t.Symbols.PadOutOfScale
	default:
		return t.Symbols.PadOff
	}
}

// Style helpers

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
