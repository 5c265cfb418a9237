package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go-notegrid/control"
	"go-notegrid/debug"
	"go-notegrid/notemap"
)

// ControllerType identifies the kind of controller
type ControllerType string

const (
	ControllerLaunchpadX ControllerType = "launchpad-x"
	ControllerKeyboard   ControllerType = "keyboard"
)

// ControllerConfig defines a saved controller configuration
type ControllerConfig struct {
	PortName    string         `json:"portName"`
	Type        ControllerType `json:"type"`
	AutoConnect bool           `json:"autoConnect"`
}

// SynthOutputConfig defines the synth MIDI output
type SynthOutputConfig struct {
	PortName string `json:"portName,omitempty"`
	Channel  int    `json:"channel,omitempty"` // 1-16
}

// GridConfig is the pad geometry and its MIDI address window
type GridConfig struct {
	Rows      int `json:"rows"`
	Cols      int `json:"cols"`
	StartNote int `json:"startNote"`
	EndNote   int `json:"endNote"`
}

// NotesConfig holds the persisted note-mapping settings
type NotesConfig struct {
	Scale     string `json:"scale"`
	Key       string `json:"key"`
	Layout    string `json:"layout"`
	Chromatic bool   `json:"chromatic,omitempty"`
	Octave    int    `json:"octave,omitempty"`
	Mode      string `json:"mode,omitempty"`
	DrumKit   string `json:"drumKit,omitempty"`
}

// EncoderConfig assigns relative CCs on keyboards to settings
type EncoderConfig struct {
	Encoding    string `json:"encoding,omitempty"`
	Sensitivity int    `json:"sensitivity,omitempty"`
	ScaleCC     int    `json:"scaleCC,omitempty"`
	KeyCC       int    `json:"keyCC,omitempty"`
	LayoutCC    int    `json:"layoutCC,omitempty"`
}

// ThemeConfig selects the color palette
type ThemeConfig struct {
	Palette string `json:"palette,omitempty"` // GIMP .gpl file, empty for built-in
}

// Config is the main configuration structure
type Config struct {
	Controllers []ControllerConfig `json:"controllers,omitempty"`
	SynthOutput SynthOutputConfig  `json:"synthOutput,omitempty"`
	Grid        GridConfig         `json:"grid"`
	Notes       NotesConfig        `json:"notes"`
	Encoders    EncoderConfig      `json:"encoders,omitempty"`
	Theme       ThemeConfig        `json:"theme,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	geo := notemap.DefaultGeometry()
	m := notemap.New(geo)
	return &Config{
		Controllers: []ControllerConfig{
			{
				PortName:    "Launchpad X LPX MIDI",
				Type:        ControllerLaunchpadX,
				AutoConnect: true,
			},
		},
		SynthOutput: SynthOutputConfig{Channel: 1},
		Grid: GridConfig{
			Rows:      geo.Rows,
			Cols:      geo.Cols,
			StartNote: geo.StartNote,
			EndNote:   geo.EndNote,
		},
		Notes: CaptureNotes(m),
		Encoders: EncoderConfig{
			Encoding:    control.TwosComplement.String(),
			Sensitivity: 4,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-notegrid"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file. Fields missing from the file keep their defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			debug.Log("config", "%s not found, using defaults", path)
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if c.SynthOutput.Channel < 1 || c.SynthOutput.Channel > 16 {
		debug.Log("config", "synth channel %d out of range, using 1", c.SynthOutput.Channel)
		c.SynthOutput.Channel = 1
	}
	if c.Grid.Rows < 1 || c.Grid.Cols < 1 {
		debug.Log("config", "grid %dx%d invalid, using default", c.Grid.Rows, c.Grid.Cols)
		geo := notemap.DefaultGeometry()
		c.Grid = GridConfig{Rows: geo.Rows, Cols: geo.Cols, StartNote: geo.StartNote, EndNote: geo.EndNote}
	}
}

// Update reloads the config at path, lets fn change it and writes it back,
// so sections edited on disk since startup are kept. A file that does not
// parse is left alone.
func Update(path string, fn func(*Config)) error {
	cfg, err := LoadFrom(path)
	if err != nil {
		return err
	}
	fn(cfg)
	return cfg.SaveTo(path)
}

// SaveTo writes the config to path, creating its directory
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Geometry returns the grid section as mapper geometry
func (c *Config) Geometry() notemap.Geometry {
	return notemap.Geometry{
		Rows:      c.Grid.Rows,
		Cols:      c.Grid.Cols,
		StartNote: c.Grid.StartNote,
		EndNote:   c.Grid.EndNote,
	}
}

// SynthChannel returns the 0-based MIDI channel of the synth output
func (c *Config) SynthChannel() uint8 {
	return uint8(control.Clamp(c.SynthOutput.Channel, 1, 16) - 1)
}

// Settings converts the notes section for notemap.Mapper.Apply
func (n NotesConfig) Settings() notemap.Settings {
	return notemap.Settings{
		Scale:     n.Scale,
		Key:       n.Key,
		Layout:    n.Layout,
		Chromatic: n.Chromatic,
		Octave:    n.Octave,
	}
}

// CaptureNotes returns the notes section for the mapper's current state
func CaptureNotes(m *notemap.Mapper) NotesConfig {
	return NotesFromSettings(m.Snapshot())
}

// NotesFromSettings builds a notes section from mapper settings
func NotesFromSettings(s notemap.Settings) NotesConfig {
	return NotesConfig{
		Scale:     s.Scale,
		Key:       s.Key,
		Layout:    s.Layout,
		Chromatic: s.Chromatic,
		Octave:    s.Octave,
	}
}

// Changer returns the configured relative encoding
func (e EncoderConfig) Changer() (control.ValueChanger, error) {
	enc, ok := control.EncodingByName(e.Encoding)
	if !ok {
		return nil, fmt.Errorf("unknown encoder encoding %q", e.Encoding)
	}
	return enc, nil
}

// FindController finds a controller config by port name
func (c *Config) FindController(portName string) *ControllerConfig {
	for i := range c.Controllers {
		if c.Controllers[i].PortName == portName {
			return &c.Controllers[i]
		}
	}
	return nil
}

// AddController adds or updates a controller config
func (c *Config) AddController(ctrl ControllerConfig) {
	for i := range c.Controllers {
		if c.Controllers[i].PortName == ctrl.PortName {
			c.Controllers[i] = ctrl
			return
		}
	}
	c.Controllers = append(c.Controllers, ctrl)
}

// AutoConnect reports whether a controller on portName should be opened.
// Ports without an entry connect.
func (c *Config) AutoConnect(portName string) bool {
	if ctrl := c.FindController(portName); ctrl != nil {
		return ctrl.AutoConnect
	}
	return true
}

// Remember adds an auto-connecting entry for a port seen for the first time.
// Existing entries are kept as the user left them.
func (c *Config) Remember(portName string, t ControllerType) bool {
	if c.FindController(portName) != nil {
		return false
	}
	c.AddController(ControllerConfig{PortName: portName, Type: t, AutoConnect: true})
	return true
}

// KeyboardPorts returns the port names of auto-connecting keyboards
func (c *Config) KeyboardPorts() []string {
	var result []string
	for _, ctrl := range c.Controllers {
		if ctrl.AutoConnect && ctrl.Type == ControllerKeyboard {
			result = append(result, ctrl.PortName)
		}
	}
	return result
}
