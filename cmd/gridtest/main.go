package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go-notegrid/debug"
	"go-notegrid/layout"
	"go-notegrid/midi"
	"go-notegrid/notemap"
	"go-notegrid/play"
	"go-notegrid/scale"
	"go-notegrid/theme"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "list":
		err = listPorts()
	case "table":
		err = printTable(os.Stdout, os.Args[2:])
	case "leds":
		err = lightLaunchpad(os.Args[2:])
	case "poll":
		pollDevices()
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("go-notegrid test tools")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list    - List all MIDI ports")
	fmt.Println("  table   - Print the note grid for -scale -key -layout -octave -chromatic -mode")
	fmt.Println("  leds    - Light a connected Launchpad with the same flags")
	fmt.Println("  poll    - Watch controllers connect and disconnect")
}

func listPorts() error {
	fmt.Println("(waiting up to 3 seconds...)")
	ports, err := midi.ScanPorts(context.Background())
	if err != nil {
		if errors.Is(err, midi.ErrPortTimeout) {
			fmt.Println("Fix on macOS: sudo killall coreaudiod midiserver")
		}
		return err
	}

	fmt.Println("=== MIDI Input Ports ===")
	for i, p := range ports.In {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, p := range ports.Out {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	return nil
}

// sessionFromFlags builds a session from command line settings
func sessionFromFlags(name string, args []string) (*play.Session, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	scaleName := fs.String("scale", "Major", "scale: "+strings.Join(scale.Names(), ", "))
	key := fs.String("key", "C", "key, circle-of-fifths name")
	layoutName := fs.String("layout", "4th ^", "layout: "+strings.Join(layout.Names(), ", "))
	octave := fs.Int("octave", 0, "octave shift")
	chromatic := fs.Bool("chromatic", false, "chromatic mode")
	modeName := fs.String("mode", "Scale", "Scale, Chord, Piano or Drum")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	mode, ok := play.ModeByName(*modeName)
	if !ok {
		return nil, fmt.Errorf("unknown mode %q", *modeName)
	}

	s := play.NewSession(notemap.New(notemap.DefaultGeometry()), theme.New(theme.DefaultPalette()))
	unknown := s.ApplySettings(notemap.Settings{
		Scale:     *scaleName,
		Key:       *key,
		Layout:    *layoutName,
		Chromatic: *chromatic,
		Octave:    *octave,
	})
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown %s", strings.Join(unknown, ", "))
	}
	s.SetMode(mode)
	return s, nil
}

func printTable(w io.Writer, args []string) error {
	s, err := sessionFromFlags("table", args)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, s.Status())
	fmt.Fprintln(w, s.Notification())
	fmt.Fprintln(w)
	fmt.Fprint(w, formatCells(s.Cells()))
	return nil
}

// formatCells prints note names with the top row first. Roots are marked
// with *, out-of-scale notes with ().
func formatCells(cells []play.Cell) string {
	rows := 0
	for _, c := range cells {
		rows = max(rows, c.Row+1)
	}

	lines := make([][]string, rows)
	for _, c := range cells {
		name := notemap.FormatNote(c.Note)
		switch c.Color {
		case notemap.Octave:
			name += "*"
		case notemap.OutOfScale:
			name = "(" + name + ")"
		}
		lines[c.Row] = append(lines[c.Row], fmt.Sprintf("%-6s", name))
	}

	var b strings.Builder
	for row := rows - 1; row >= 0; row-- {
		b.WriteString(strings.TrimRight(strings.Join(lines[row], ""), " "))
		b.WriteString("\n")
	}
	return b.String()
}

func lightLaunchpad(args []string) error {
	s, err := sessionFromFlags("leds", args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dm := midi.NewDeviceManager()
	go dm.Run(ctx)

	fmt.Println("Looking for Launchpad X...")
	lp, err := waitForLaunchpad(dm, 5*time.Second)
	if err != nil {
		return err
	}

	s.SetController(lp)
	go s.Run(ctx)
	go func() {
		for pad := range lp.PadEvents() {
			s.HandlePad(pad.Row, pad.Col, pad.Velocity)
			fmt.Printf("\r%-60s", s.Notification())
		}
	}()

	fmt.Println(s.Status())
	fmt.Println("Press Enter to clear...")
	fmt.Scanln()

	// give the device manager time to clear the pads
	cancel()
	time.Sleep(200 * time.Millisecond)
	return nil
}

func waitForLaunchpad(dm *midi.DeviceManager, timeout time.Duration) (midi.Controller, error) {
	deadline := time.After(timeout)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case _, ok := <-dm.Events():
			if !ok {
				return nil, fmt.Errorf("device manager stopped")
			}
		case <-tick.C:
			if lp := dm.GetLaunchpad(); lp != nil {
				fmt.Printf("Found %s\n", lp.ID())
				return lp, nil
			}
		case <-deadline:
			return nil, fmt.Errorf("no Launchpad found")
		}
	}
}

func pollDevices() {
	fmt.Println("Watching for controllers. Ctrl+C to exit.")
	if err := debug.Enable(); err == nil {
		defer debug.Disable()
	}

	dm := midi.NewDeviceManager()
	go dm.Run(context.Background())

	for ev := range dm.Events() {
		stamp := time.Now().Format("15:04:05")
		switch ev.Type {
		case midi.DeviceConnected:
			fmt.Printf("[%s] connected: %s (%s)\n", stamp, ev.ID, ev.Controller.Type())
		case midi.DeviceDisconnected:
			fmt.Printf("[%s] disconnected: %s\n", stamp, ev.ID)
		}
		fmt.Printf("           %d connected\n", len(dm.Controllers()))
	}
}
