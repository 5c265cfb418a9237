package midi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-notegrid/debug"
)

// ErrPortTimeout is returned when the MIDI backend does not answer a port scan
var ErrPortTimeout = errors.New("midi: port scan timed out")

const scanTimeout = 3 * time.Second

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// Ports is one snapshot of the available MIDI ports
type Ports struct {
	In  []drivers.In
	Out []drivers.Out
}

// ScanPorts lists MIDI ports. Some backends hang while enumerating,
// so the scan gives up after a timeout or when ctx is done.
func ScanPorts(ctx context.Context) (Ports, error) {
	ch := make(chan Ports, 1)
	go func() {
		ch <- Ports{In: gomidi.GetInPorts(), Out: gomidi.GetOutPorts()}
	}()

	select {
	case p := <-ch:
		return p, nil
	case <-ctx.Done():
		return Ports{}, ctx.Err()
	case <-time.After(scanTimeout):
		return Ports{}, ErrPortTimeout
	}
}

// OutPort returns the output port whose name matches exactly, or failing
// that the first one containing name (case-insensitive)
func (p Ports) OutPort(name string) drivers.Out {
	want := strings.ToLower(name)
	for _, op := range p.Out {
		if strings.ToLower(op.String()) == want {
			return op
		}
	}
	for _, op := range p.Out {
		if strings.Contains(strings.ToLower(op.String()), want) {
			return op
		}
	}
	return nil
}

// OpenSender opens the named output port for sending
func OpenSender(ctx context.Context, portName string) (Sender, error) {
	if portName == "" {
		return nil, errors.New("midi: no output port configured")
	}
	ports, err := ScanPorts(ctx)
	if err != nil {
		return nil, err
	}
	out := ports.OutPort(portName)
	if out == nil {
		return nil, fmt.Errorf("midi: output port %q not found", portName)
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", out.String(), err)
	}
	debug.Log("device", "synth output %s open", out.String())
	return send, nil
}

// DeviceManager handles hot-plug detection of MIDI controllers
type DeviceManager struct {
	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration

	// keyboards lists lowercase substrings of input ports to open as keyboards
	keyboards []string

	// autoConnect vetoes Launchpad ports, nil opens all
	autoConnect func(portName string) bool
}

func NewDeviceManager() *DeviceManager {
	return &DeviceManager{
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
	}
}

// WatchKeyboards opens input ports containing any of the given names as keyboards
func (dm *DeviceManager) WatchKeyboards(names ...string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, n := range names {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			dm.keyboards = append(dm.keyboards, n)
		}
	}
}

// SetAutoConnect installs a check consulted before opening a Launchpad port
func (dm *DeviceManager) SetAutoConnect(fn func(portName string) bool) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.autoConnect = fn
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controllers returns a snapshot of connected controllers
func (dm *DeviceManager) Controllers() map[string]Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	snapshot := make(map[string]Controller, len(dm.controllers))
	for k, v := range dm.controllers {
		snapshot[k] = v
	}
	return snapshot
}

// GetLaunchpad returns the first connected Launchpad (or nil)
func (dm *DeviceManager) GetLaunchpad() Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	for _, c := range dm.controllers {
		if c.Type() == ControllerLaunchpad {
			return c
		}
	}
	return nil
}

// Run polls for devices until ctx is done. Blocking, run in a goroutine.
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan(ctx)
		}
	}
}

func (dm *DeviceManager) scan(ctx context.Context) {
	ports, err := ScanPorts(ctx)
	if err != nil {
		debug.LogEvery(10, "device", "scan skipped: %v", err)
		return
	}

	seen := make(map[string]bool)
	for _, in := range ports.In {
		id := in.String()
		kind := dm.classify(id)
		if kind == ControllerUnknown {
			continue
		}
		seen[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		c, err := dm.open(kind, in, ports)
		if err != nil {
			debug.Log("device", "open %s: %v", id, err)
			continue
		}

		dm.mu.Lock()
		dm.controllers[id] = c
		dm.mu.Unlock()
		dm.emit(ctx, DeviceEvent{Type: DeviceConnected, Controller: c, ID: id})
	}

	dm.mu.Lock()
	var gone []string
	for id, c := range dm.controllers {
		if !seen[id] {
			c.Close()
			delete(dm.controllers, id)
			gone = append(gone, id)
		}
	}
	dm.mu.Unlock()

	for _, id := range gone {
		debug.Log("device", "%s disconnected", id)
		dm.emit(ctx, DeviceEvent{Type: DeviceDisconnected, ID: id})
	}
}

func (dm *DeviceManager) emit(ctx context.Context, ev DeviceEvent) {
	select {
	case dm.events <- ev:
	case <-ctx.Done():
	}
}

func (dm *DeviceManager) open(kind ControllerType, in drivers.In, ports Ports) (Controller, error) {
	switch kind {
	case ControllerLaunchpad:
		return NewLaunchpadController(in.String(), in, ports.OutPort(in.String()))
	case ControllerKeyboard:
		return NewKeyboardController(in.String(), in)
	}
	return nil, fmt.Errorf("unsupported controller %s", kind)
}

func (dm *DeviceManager) classify(portName string) ControllerType {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	if isLaunchpad(portName) {
		if dm.autoConnect != nil && !dm.autoConnect(portName) {
			debug.LogEvery(30, "device", "%s: auto-connect off, skipping", portName)
			return ControllerUnknown
		}
		return ControllerLaunchpad
	}
	name := strings.ToLower(portName)
	for _, k := range dm.keyboards {
		if strings.Contains(name, k) {
			return ControllerKeyboard
		}
	}
	return ControllerUnknown
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}

// isLaunchpad matches the Launchpad X MIDI port, not its DAW port
func isLaunchpad(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "launchpad") && strings.Contains(name, "midi")
}
