package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"go-notegrid/config"
	"go-notegrid/debug"
	"go-notegrid/midi"
	"go-notegrid/notemap"
	"go-notegrid/play"
	"go-notegrid/theme"
	"go-notegrid/tui"
)

func main() {
	debugFlag := flag.Bool("debug", false, "write a debug log to ~/.config/go-notegrid/debug.log")
	flag.Parse()

	if *debugFlag {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	palette, err := theme.LoadOrDefault(cfg.Theme.Palette)
	if err != nil {
		debug.Log("config", "palette: %v, using default", err)
		palette = theme.DefaultPalette()
	}
	th := theme.New(palette)

	session := play.NewSession(notemap.New(cfg.Geometry()), th)
	session.Restore(cfg.Notes.Settings(), cfg.Notes.Mode, cfg.Notes.DrumKit)

	encoders := false
	if changer, err := cfg.Encoders.Changer(); err != nil {
		debug.Log("config", "encoders disabled: %v", err)
	} else {
		session.SetEncoders(play.Encoders{
			Changer:     changer,
			Sensitivity: cfg.Encoders.Sensitivity,
			ScaleCC:     uint8(cfg.Encoders.ScaleCC),
			KeyCC:       uint8(cfg.Encoders.KeyCC),
			LayoutCC:    uint8(cfg.Encoders.LayoutCC),
		})
		encoders = true
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.SynthOutput.PortName != "" {
		send, err := midi.OpenSender(ctx, cfg.SynthOutput.PortName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Synth output: %v\n", err)
		} else {
			session.SetSender(send, cfg.SynthChannel())
		}
	}

	// latest holds the config as last read from disk
	var cfgMu sync.Mutex
	latest := cfg

	deviceMgr := midi.NewDeviceManager()
	deviceMgr.WatchKeyboards(cfg.KeyboardPorts()...)
	deviceMgr.SetAutoConnect(func(port string) bool {
		cfgMu.Lock()
		defer cfgMu.Unlock()
		return latest.AutoConnect(port)
	})
	go deviceMgr.Run(ctx)
	go session.Run(ctx)

	path, pathErr := config.ConfigPath()
	if pathErr == nil {
		go func() {
			err := config.Watch(ctx, path, func(c *config.Config) {
				cfgMu.Lock()
				latest = c
				cfgMu.Unlock()
				session.Restore(c.Notes.Settings(), c.Notes.Mode, c.Notes.DrumKit)
			})
			if err != nil {
				debug.Log("config", "%v", err)
			}
		}()
	}

	m := tui.NewModel(session, deviceMgr, th)
	m.Encoders = encoders
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	connected := deviceMgr.Controllers()
	cancel()

	if pathErr != nil {
		return
	}
	err = config.Update(path, func(c *config.Config) {
		c.Notes = config.NotesFromSettings(session.Settings())
		c.Notes.Mode = session.Mode().String()
		c.Notes.DrumKit = session.DrumKit()
		for id, ctrl := range connected {
			if ctrl.Type() == midi.ControllerLaunchpad && c.Remember(id, config.ControllerLaunchpadX) {
				debug.Log("config", "remembered %s", id)
			}
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Saving config: %v\n", err)
	}
}
