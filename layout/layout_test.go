package layout

import "testing"

func TestCatalog(t *testing.T) {
	if Count != 12 {
		t.Fatalf("Expected 12 layouts, got %d", Count)
	}
	for i, l := range All {
		if l.Ordinal() != i {
			t.Errorf("%s: expected ordinal %d, got %d", l.Name(), i, l.Ordinal())
		}
		want := Up
		if i%2 == 1 {
			want = Right
		}
		if l.Orientation() != want {
			t.Errorf("%s: expected orientation %s, got %s", l.Name(), want, l.Orientation())
		}
	}
}

func TestShifts(t *testing.T) {
	tests := []struct {
		name      string
		rows      int
		cols      int
		scale     int
		semitone  int
		dynamic   bool
		centerOff int
	}{
		{"4th ^", 8, 8, 3, 5, false, 0},
		{"4th >", 8, 8, 3, 5, false, 0},
		{"3rd ^", 8, 8, 2, 4, false, 0},
		{"Sequent ^", 4, 6, 6, 6, false, 0},
		{"Sequent >", 4, 6, 4, 4, false, 0},
		{"8th ^", 8, 8, 7, 12, false, 0},
		{"8th > centered", 8, 8, 7, 12, false, -3},
		{"Staggered ^", 8, 8, 7, 7, true, 0},
		{"Staggered >", 8, 8, 7, 7, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, ok := ByName(tt.name)
			if !ok {
				t.Fatalf("Expected layout %q", tt.name)
			}
			sc, st := l.Shifts(tt.rows, tt.cols)
			if sc != tt.scale || st != tt.semitone {
				t.Errorf("Expected shifts (%d,%d), got (%d,%d)", tt.scale, tt.semitone, sc, st)
			}
			if l.Dynamic() != tt.dynamic {
				t.Errorf("Expected Dynamic() = %v", tt.dynamic)
			}
			if l.CenterOffset() != tt.centerOff {
				t.Errorf("Expected center offset %d, got %d", tt.centerOff, l.CenterOffset())
			}
		})
	}
}

func TestNavigation(t *testing.T) {
	first, last := All[0], All[len(All)-1]
	if first.Prev() != first || first.HasPrev() {
		t.Error("Expected first layout to be a lower bound")
	}
	if last.Next() != last || last.HasNext() {
		t.Error("Expected last layout to be an upper bound")
	}
	if first.Next().Name() != "4th >" {
		t.Errorf("Expected 4th > after 4th ^, got %s", first.Next().Name())
	}
	if _, ok := ByName("5th ^"); ok {
		t.Error("Expected unknown layout lookup to fail")
	}
}
