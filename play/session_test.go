package play

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-notegrid/control"
	"go-notegrid/debug"
	"go-notegrid/midi"
	"go-notegrid/notemap"
	"go-notegrid/theme"
)

type sent struct {
	on   bool
	note uint8
	vel  uint8
}

type fakeSynth struct {
	mu   sync.Mutex
	msgs []sent
}

func (f *fakeSynth) send(msg gomidi.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ch, key, vel uint8
	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		f.msgs = append(f.msgs, sent{on: true, note: key, vel: vel})
	case msg.GetNoteOff(&ch, &key, &vel):
		f.msgs = append(f.msgs, sent{note: key})
	}
	return nil
}

func (f *fakeSynth) take() []sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.msgs
	f.msgs = nil
	return out
}

type fakeController struct {
	batches [][]midi.LEDUpdate
	err     error
}

func (f *fakeController) ID() string { return "fake" }
func (f *fakeController) Type() midi.ControllerType { return midi.ControllerLaunchpad }
func (f *fakeController) GridSize() (int, int) { return 8, 8 }
func (f *fakeController) PadEvents() <-chan midi.PadEvent { return nil }
func (f *fakeController) NoteEvents() <-chan midi.NoteEvent { return nil }
func (f *fakeController) SetLEDRGB(int, int, [3]uint8, uint8) error { return nil }
func (f *fakeController) Close() error { return nil }
func (f *fakeController) SetLEDBatch(updates []midi.LEDUpdate) error {
	f.batches = append(f.batches, updates)
	return f.err
}

func newTestSession(t *testing.T) (*Session, *fakeSynth) {
	t.Helper()
	s := NewSession(notemap.New(notemap.DefaultGeometry()), theme.New(theme.DefaultPalette()))
	synth := &fakeSynth{}
	s.SetSender(synth.send, 0)
	return s, synth
}

func notesOf(msgs []sent, on bool) []int {
	var notes []int
	for _, m := range msgs {
		if m.on == on {
			notes = append(notes, int(m.note))
		}
	}
	return notes
}

func TestSessionID(t *testing.T) {
	a, _ := newTestSession(t)
	b, _ := newTestSession(t)
	if _, err := uuid.Parse(a.ID); err != nil {
		t.Errorf("Expected a uuid, got %q", a.ID)
	}
	if a.ID == b.ID {
		t.Error("Expected distinct session IDs")
	}
}

func TestHandlePadScale(t *testing.T) {
	tests := []struct {
		name     string
		row, col int
		want     uint8
	}{
		{"First pad", 0, 0, 36},
		{"Second pad", 0, 1, 38},
		{"Row above", 1, 0, 41},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, synth := newTestSession(t)
			s.HandlePad(tt.row, tt.col, 100)
			s.HandlePad(tt.row, tt.col, 0)

			msgs := synth.take()
			if len(msgs) != 2 {
				t.Fatalf("Expected on and off, got %+v", msgs)
			}
			if !msgs[0].on || msgs[0].note != tt.want || msgs[0].vel != 100 {
				t.Errorf("Expected note on %d vel 100, got %+v", tt.want, msgs[0])
			}
			if msgs[1].on || msgs[1].note != tt.want {
				t.Errorf("Expected note off %d, got %+v", tt.want, msgs[1])
			}
		})
	}
}

func TestHandlePadOutsideGrid(t *testing.T) {
	s, synth := newTestSession(t)
	s.HandlePad(0, 8, 100) // side column
	s.HandlePad(-1, 0, 100)
	if msgs := synth.take(); len(msgs) != 0 {
		t.Errorf("Expected no notes, got %+v", msgs)
	}
}

func TestReleaseAfterMappingChange(t *testing.T) {
	s, synth := newTestSession(t)
	s.HandlePad(0, 0, 100)
	s.HandleKey("up")
	s.HandlePad(0, 0, 0)

	msgs := synth.take()
	if off := notesOf(msgs, false); len(off) != 1 || off[0] != 36 {
		t.Errorf("Expected release of the originally played note 36, got %v", off)
	}

	s.HandlePad(0, 0, 100)
	if on := notesOf(synth.take(), true); len(on) != 1 || on[0] != 48 {
		t.Errorf("Expected 48 after octave up, got %v", on)
	}
}

func TestChordMode(t *testing.T) {
	s, synth := newTestSession(t)
	s.SetMode(ModeChord)
	s.HandlePad(3, 0, 90)

	on := notesOf(synth.take(), true)
	if len(on) != 3 || on[0] != 36 || on[1] != 40 || on[2] != 43 {
		t.Errorf("Expected C major triad 36 40 43, got %v", on)
	}

	s.HandlePad(3, 0, 0)
	if off := notesOf(synth.take(), false); len(off) != 3 {
		t.Errorf("Expected three note offs, got %v", off)
	}
}

func TestDrumModeFromFunctionRow(t *testing.T) {
	s, synth := newTestSession(t)
	s.HandlePad(topRow, btnModeFirst+int(ModeDrum), 127)
	if s.Mode() != ModeDrum {
		t.Fatalf("Expected drum mode, got %s", s.Mode())
	}

	s.HandlePad(1, 0, 100)
	if on := notesOf(synth.take(), true); len(on) != 1 || on[0] != 40 {
		t.Errorf("Expected drum pad 4 at note 40, got %v", on)
	}

	s.HandlePad(0, 5, 100)
	if on := notesOf(synth.take(), true); len(on) != 0 {
		t.Errorf("Expected no note outside the drum block, got %v", on)
	}
}

func TestModeSwitchReleasesHeldPads(t *testing.T) {
	s, synth := newTestSession(t)
	s.HandlePad(0, 0, 100)
	s.HandlePad(0, 1, 100)
	synth.take()

	s.SetMode(ModePiano)
	if off := notesOf(synth.take(), false); len(off) != 2 {
		t.Errorf("Expected both held notes released, got %v", off)
	}
}

func TestHandleNoteSnapsToScale(t *testing.T) {
	s, synth := newTestSession(t)
	s.HandleNote(midi.NoteEvent{Note: 66, Velocity: 80, On: true})
	s.HandleNote(midi.NoteEvent{Note: 66})

	msgs := synth.take()
	if len(msgs) != 2 || msgs[0].note != 65 || msgs[1].note != 65 {
		t.Errorf("Expected F# to play and release F, got %+v", msgs)
	}

	s.HandleKey("c")
	s.HandleNote(midi.NoteEvent{Note: 66, Velocity: 80, On: true})
	if on := notesOf(synth.take(), true); len(on) != 1 || on[0] != 66 {
		t.Errorf("Expected chromatic pass-through, got %v", on)
	}
}

func TestHandleKeyNotifications(t *testing.T) {
	s, _ := newTestSession(t)

	tests := []struct {
		key  string
		want string
	}{
		{"up", "Octave +1: C2 to C6"},
		{"down", "Octave +0: C1 to C5"},
		{"]", "Scale Minor"},
		{"right", "Key G"},
		{".", "Layout 4th >"},
		{"c", "Chromatic on"},
		{"0", "All notes off"},
	}
	for _, tt := range tests {
		if !s.HandleKey(tt.key) {
			t.Fatalf("Expected key %q to be handled", tt.key)
		}
		if got := s.Notification(); !strings.HasPrefix(got, tt.want) {
			t.Errorf("%q: expected notification %q, got %q", tt.key, tt.want, got)
		}
	}

	if s.HandleKey("z") {
		t.Error("Expected unknown key to be ignored")
	}
}

func TestModeKeys(t *testing.T) {
	s, _ := newTestSession(t)
	s.HandleKey("3")
	if s.Mode() != ModePiano {
		t.Errorf("Expected piano mode, got %s", s.Mode())
	}
	s.HandleKey("tab")
	if s.Mode() != ModeDrum {
		t.Errorf("Expected drum mode, got %s", s.Mode())
	}
	s.HandleKey("m")
	if s.Mode() != ModeScale {
		t.Errorf("Expected mode to wrap to scale, got %s", s.Mode())
	}
}

func TestHandleControl(t *testing.T) {
	s, _ := newTestSession(t)
	s.SetEncoders(Encoders{Changer: control.TwosComplement, Sensitivity: 1, ScaleCC: 20, KeyCC: 21})

	s.HandleControl(20, 1)
	if got := s.Settings().Scale; got != "Minor" {
		t.Errorf("Expected Minor, got %s", got)
	}
	s.HandleControl(21, 127)
	if got := s.Settings().Key; got != "C" {
		t.Errorf("Expected key to stay at C, got %s", got)
	}
	s.HandleControl(21, 1)
	if got := s.Settings().Key; got != "G" {
		t.Errorf("Expected G, got %s", got)
	}
	s.HandleControl(22, 1)
	if got := s.Settings().Layout; got != "4th ^" {
		t.Errorf("Expected unassigned CC to be ignored, got layout %s", got)
	}
}

func TestApplySettings(t *testing.T) {
	s, _ := newTestSession(t)
	unknown := s.ApplySettings(notemap.Settings{Scale: "Dorian", Key: "H", Layout: "3rd ^", Octave: 1})
	if len(unknown) != 1 || unknown[0] != "key H" {
		t.Errorf("Expected key H to be reported, got %v", unknown)
	}
	if !strings.Contains(s.Status(), "Dorian") || !strings.Contains(s.Status(), "3rd ^") {
		t.Errorf("Unexpected status %q", s.Status())
	}
	if s.Table()[36] != 48 {
		t.Errorf("Expected octave applied to table, got %d", s.Table()[36])
	}
}

func TestCells(t *testing.T) {
	s, _ := newTestSession(t)
	cells := s.Cells()
	if len(cells) != 64 {
		t.Fatalf("Expected 64 cells, got %d", len(cells))
	}
	if cells[0].Note != 36 || cells[0].Color != notemap.Octave {
		t.Errorf("Expected first cell to be the key root, got %+v", cells[0])
	}
	if cells[1].Color != notemap.Note {
		t.Errorf("Expected second cell to be a scale note, got %s", cells[1].Color)
	}

	s.HandlePad(0, 1, 100)
	if !s.Cells()[1].Pressed {
		t.Error("Expected held pad to be pressed")
	}
}

func TestFlushLEDsDiffs(t *testing.T) {
	s, _ := newTestSession(t)
	ctrl := &fakeController{}
	s.SetController(ctrl)

	s.flushLEDs()
	if len(ctrl.batches) != 1 {
		t.Fatalf("Expected one batch, got %d", len(ctrl.batches))
	}
	if got := len(ctrl.batches[0]); got != 64+4+ModeCount {
		t.Errorf("Expected every pad and function LED, got %d", got)
	}

	s.flushLEDs()
	if len(ctrl.batches) != 1 {
		t.Error("Expected no batch without changes")
	}

	s.HandlePad(0, 0, 100)
	s.flushLEDs()
	if len(ctrl.batches) != 2 || len(ctrl.batches[1]) != 1 {
		t.Fatalf("Expected a single changed LED, got %v", ctrl.batches)
	}
	u := ctrl.batches[1][0]
	if u.Row != 0 || u.Col != 0 || u.Color != [3]uint8(s.theme.PressedColor()) {
		t.Errorf("Expected pressed color on pad 0,0, got %+v", u)
	}
	if u.Channel != midi.ChannelPulse {
		t.Errorf("Expected held pad to pulse, got channel %d", u.Channel)
	}

	s.HandlePad(0, 0, 0)
	s.flushLEDs()
	if u := ctrl.batches[2][0]; u.Channel != midi.ChannelStatic {
		t.Errorf("Expected released pad back to static, got %+v", u)
	}
}

func TestFlushLEDsRetriesAfterError(t *testing.T) {
	s, _ := newTestSession(t)
	ctrl := &fakeController{err: errors.New("port gone")}
	s.SetController(ctrl)

	s.flushLEDs()
	s.mu.Lock()
	dirty, kept := s.ledDirty, len(s.prevLEDs)
	s.mu.Unlock()
	if !dirty || kept != 0 {
		t.Fatalf("Expected failed flush to stay dirty with no recorded LEDs, dirty=%v kept=%d", dirty, kept)
	}

	ctrl.err = nil
	s.flushLEDs()
	if len(ctrl.batches) != 2 || len(ctrl.batches[1]) != len(ctrl.batches[0]) {
		t.Errorf("Expected the full batch resent, got %d batches", len(ctrl.batches))
	}
	s.flushLEDs()
	if len(ctrl.batches) != 2 {
		t.Error("Expected no batch after a successful resend")
	}
}

func TestFlushLEDsClearsUnlitPads(t *testing.T) {
	s, _ := newTestSession(t)
	ctrl := &fakeController{}
	s.SetController(ctrl)
	s.flushLEDs()

	s.SetMode(ModeDrum)
	s.flushLEDs()
	if len(ctrl.batches) != 2 {
		t.Fatalf("Expected two batches, got %d", len(ctrl.batches))
	}
	cleared := 0
	for _, u := range ctrl.batches[1] {
		if u.Row < topRow && u.Color == ([3]uint8{}) {
			cleared++
		}
	}
	if cleared != 64-16 {
		t.Errorf("Expected 48 pads cleared outside the drum block, got %d", cleared)
	}
}

func TestModeNames(t *testing.T) {
	for i := 0; i < ModeCount; i++ {
		m, ok := ModeByName(Mode(i).String())
		if !ok || m != Mode(i) {
			t.Errorf("Expected round trip for mode %d", i)
		}
	}
	if _, ok := ModeByName("Looper"); ok {
		t.Error("Expected unknown mode to fail")
	}
}

func TestDrumKit(t *testing.T) {
	s, synth := newTestSession(t)
	s.SetMode(ModeDrum)

	if !s.SetDrumKit("rd8") {
		t.Fatal("Expected rd8 kit")
	}
	s.HandlePad(0, 1, 100)
	if on := notesOf(synth.take(), true); len(on) != 1 || on[0] != 40 {
		t.Errorf("Expected RD-8 snare on 40, got %v", on)
	}
	if !strings.HasPrefix(s.Notification(), "Kit Behringer RD-8") {
		t.Errorf("Unexpected notification %q", s.Notification())
	}

	if s.SetDrumKit("808") {
		t.Error("Expected unknown kit to be rejected")
	}
	if s.DrumKit() != "rd8" {
		t.Error("Expected kit unchanged after a rejected name")
	}

	s.SetDrumKit("")
	s.HandlePad(0, 1, 0)
	synth.take()
	s.HandlePad(0, 1, 100)
	if on := notesOf(synth.take(), true); len(on) != 1 || on[0] != 37 {
		t.Errorf("Expected chromatic block pad 1 on 37, got %v", on)
	}
}

func TestKitCycle(t *testing.T) {
	s, _ := newTestSession(t)
	var seen []string
	for i := 0; i < len(Kits)+1; i++ {
		s.HandleKey("k")
		seen = append(seen, s.DrumKit())
	}
	want := []string{"gm", "rd8", "tr8s", ""}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("Expected kit order %v, got %v", want, seen)
		}
	}
	if DrumSlot(0, 0) != "Kick" || DrumSlot(3, 3) != "High Conga" || DrumSlot(4, 0) != "" {
		t.Error("Unexpected drum slot names")
	}
}

func TestDrumSlotNotification(t *testing.T) {
	s, _ := newTestSession(t)
	s.SetMode(ModeDrum)
	s.SetDrumKit("rd8")

	s.HandlePad(0, 1, 100)
	if got := s.Notification(); got != "Snare: E1" {
		t.Errorf("Expected slot name, got %q", got)
	}

	s.SetDrumKit("")
	s.HandlePad(0, 0, 100)
	if got := s.Notification(); strings.HasPrefix(got, "Kick") {
		t.Errorf("Expected no slot names without a kit, got %q", got)
	}
}

func TestRestore(t *testing.T) {
	s, synth := newTestSession(t)

	unknown := s.Restore(notemap.Settings{Scale: "Dorian", Key: "D", Layout: "3rd ^"}, "Drum", "gm")
	if len(unknown) != 0 {
		t.Fatalf("Expected all names known, got %v", unknown)
	}
	if s.Mode() != ModeDrum || s.DrumKit() != "gm" || s.Settings().Scale != "Dorian" {
		t.Errorf("Unexpected state %s %q %+v", s.Mode(), s.DrumKit(), s.Settings())
	}

	// same mode and kit: held pads keep sounding
	s.HandlePad(0, 0, 100)
	synth.take()
	s.Restore(notemap.Settings{Scale: "Minor", Key: "D", Layout: "3rd ^"}, "Drum", "gm")
	if off := notesOf(synth.take(), false); len(off) != 0 {
		t.Errorf("Expected no release on an unrelated reload, got %v", off)
	}

	unknown = s.Restore(notemap.Settings{Scale: "Minor", Key: "D", Layout: "3rd ^"}, "Looper", "909")
	if len(unknown) != 2 || unknown[0] != "drum kit 909" || unknown[1] != "mode Looper" {
		t.Errorf("Expected kit and mode reported, got %v", unknown)
	}
	if s.Mode() != ModeDrum || s.DrumKit() != "gm" {
		t.Error("Expected unknown names to keep mode and kit")
	}

	s.Restore(notemap.Settings{Scale: "Minor", Key: "D", Layout: "3rd ^"}, "", "")
	if s.Mode() != ModeDrum || s.DrumKit() != "" {
		t.Errorf("Expected empty mode kept and kit cleared, got %s %q", s.Mode(), s.DrumKit())
	}
}

func TestTallGridHasNoFunctionRow(t *testing.T) {
	geo := notemap.Geometry{Rows: 10, Cols: 8, StartNote: 20, EndNote: 100}
	s := NewSession(notemap.New(geo), theme.New(theme.DefaultPalette()))
	synth := &fakeSynth{}
	s.SetSender(synth.send, 0)

	s.HandlePad(topRow, btnModeFirst+int(ModeDrum), 100)
	if s.Mode() != ModeScale {
		t.Errorf("Expected row 8 to be a pad row, mode changed to %s", s.Mode())
	}
	if on := notesOf(synth.take(), true); len(on) != 1 {
		t.Errorf("Expected row 8 to play a note, got %v", on)
	}

	ctrl := &fakeController{}
	s.SetController(ctrl)
	if !strings.Contains(s.Notification(), "outer pads unreachable") {
		t.Errorf("Expected a grid size warning, got %q", s.Notification())
	}
	s.mu.Lock()
	fn := s.functionLEDs()
	s.mu.Unlock()
	if len(fn) != 0 {
		t.Errorf("Expected no function LEDs over pad rows, got %+v", fn)
	}
}

func TestLogsTaggedWithSession(t *testing.T) {
	var buf bytes.Buffer
	debug.SetOutput(&buf)
	defer debug.SetOutput(nil)

	s, _ := newTestSession(t)
	s.SetController(&fakeController{})
	if !strings.Contains(buf.String(), s.ShortID()+": controller set") {
		t.Errorf("Expected session tag in log, got %q", buf.String())
	}
	if len(s.ShortID()) != 8 || !strings.HasPrefix(s.ID, s.ShortID()) {
		t.Errorf("Unexpected short ID %q for %q", s.ShortID(), s.ID)
	}
}
