// Package status provides a thread-safe status tracker for the
// cage-controller daemon. It is the read-only display boundary: HTTP
// handlers and the websocket pusher read snapshots, the control loop
// writes.
package status

import (
	"sync"
	"time"

	"github.com/hartono/smartcage-controller/internal/logic"
)

// NetworkInfo contains network state as reported by the pi-helper
// environment.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	DebounceMs  int64
	HoldMs      int64
	ReportMs    int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
}

// Update carries the per-tick state written by the control loop.
type Update struct {
	Temp       logic.TempReading
	Gas        logic.GasReading
	Band       logic.LightBand
	LampManual bool
	Door       logic.DoorState
	Outputs    logic.Outputs
	Counts     logic.Counters
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Temp          logic.TempReading
	Gas           logic.GasReading
	TempUpdatedAt time.Time
	GasUpdatedAt  time.Time
	Band          logic.LightBand
	LampManual    bool
	Door          logic.DoorState
	Outputs       logic.Outputs
	Counts        logic.Counters
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// TempAge returns how long ago the temperature classification arrived,
// or zero if none has. Classifications never expire; the age is
// exposed so the display layer can surface staleness.
func (s Snapshot) TempAge() time.Duration {
	if s.TempUpdatedAt.IsZero() {
		return 0
	}
	return s.Now.Sub(s.TempUpdatedAt)
}

// GasAge returns how long ago the gas classification arrived, or zero
// if none has.
func (s Snapshot) GasAge() time.Duration {
	if s.GasUpdatedAt.IsZero() {
		return 0
	}
	return s.Now.Sub(s.GasUpdatedAt)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Temp:      logic.TempReading{Class: logic.TempWaiting},
			Gas:       logic.GasReading{Class: logic.GasWaiting},
			Band:      logic.BandBright,
			Door:      logic.DoorClosed,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the arbitration state. Called from the control loop on
// every tick.
func (t *Tracker) Update(u Update) {
	t.mu.Lock()
	t.snap.Temp = u.Temp
	t.snap.Gas = u.Gas
	t.snap.Band = u.Band
	t.snap.LampManual = u.LampManual
	t.snap.Door = u.Door
	t.snap.Outputs = u.Outputs
	t.snap.Counts = u.Counts
	t.mu.Unlock()
}

// MarkTempUpdate records the arrival time of a temperature
// classification.
func (t *Tracker) MarkTempUpdate(at time.Time) {
	t.mu.Lock()
	t.snap.TempUpdatedAt = at
	t.mu.Unlock()
}

// MarkGasUpdate records the arrival time of a gas classification.
func (t *Tracker) MarkGasUpdate(at time.Time) {
	t.mu.Lock()
	t.snap.GasUpdatedAt = at
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
