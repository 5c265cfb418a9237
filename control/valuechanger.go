package control

// ValueChanger decodes a relative encoder value (a CC data byte) into a
// signed movement.
type ValueChanger interface {
	Delta(value int) int
	IsIncrease(value int) bool
}

// Encoding identifies a relative CC encoding
type Encoding int

const (
	TwosComplement Encoding = iota // 1..63 up, 127..65 down
	SignedBit                      // 1..63 up, 65..127 down (bit 6 = sign)
	BinOffset                      // 64 is zero, above up, below down
)

var encodingNames = []string{"twos-complement", "signed-bit", "bin-offset"}

func (e Encoding) String() string {
	if int(e) >= 0 && int(e) < len(encodingNames) {
		return encodingNames[e]
	}
	return "unknown"
}

// EncodingByName parses a persisted encoding name
func EncodingByName(name string) (Encoding, bool) {
	for i, n := range encodingNames {
		if n == name {
			return Encoding(i), true
		}
	}
	return TwosComplement, false
}

// Delta implements ValueChanger
func (e Encoding) Delta(value int) int {
	value &= 0x7F
	switch e {
	case SignedBit:
		if value >= 64 {
			return -(value - 64)
		}
		return value
	case BinOffset:
		return value - 64
	default:
		if value >= 64 {
			return value - 128
		}
		return value
	}
}

// IsIncrease implements ValueChanger
func (e Encoding) IsIncrease(value int) bool {
	return e.Delta(value) > 0
}

// Stepper turns continuous knob movement into single catalog steps.
// Movement accumulates until it passes Sensitivity, then one step is emitted.
type Stepper struct {
	Changer     ValueChanger
	Sensitivity int

	acc int
}

// NewStepper creates a stepper; sensitivity below 1 means every tick steps
func NewStepper(changer ValueChanger, sensitivity int) *Stepper {
	if sensitivity < 1 {
		sensitivity = 1
	}
	return &Stepper{Changer: changer, Sensitivity: sensitivity}
}

// Step feeds one relative value and returns -1, 0 or +1
func (s *Stepper) Step(value int) int {
	d := s.Changer.Delta(value)
	if d == 0 {
		return 0
	}
	// direction change drops whatever was accumulated the other way
	if (d > 0) != (s.acc > 0) && s.acc != 0 {
		s.acc = 0
	}
	s.acc += d
	switch {
	case s.acc >= s.Sensitivity:
		s.acc = 0
		return 1
	case s.acc <= -s.Sensitivity:
		s.acc = 0
		return -1
	}
	return 0
}

// Delta implements ValueChanger by stepping, so a Stepper can be handed to
// anything that takes a ValueChanger.
func (s *Stepper) Delta(value int) int {
	return s.Step(value)
}

// IsIncrease reports the direction of value without accumulating it
func (s *Stepper) IsIncrease(value int) bool {
	return s.Changer.IsIncrease(value)
}

// Reset drops accumulated movement
func (s *Stepper) Reset() {
	s.acc = 0
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
