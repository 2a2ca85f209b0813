package logic

import "time"

// EngineConfig holds the tunables for the arbitration engine.
type EngineConfig struct {
	Debounce time.Duration
	Hold     time.Duration
	Light    LightThresholds
	Door     DoorConfig
}

// DefaultDebounce is the button debounce window.
const DefaultDebounce = 50 * time.Millisecond

// DefaultHold is the long-press threshold that releases a manual
// override back to automatic mode.
const DefaultHold = 3 * time.Second

// Engine is the per-tick arbitration core. It owns the two debounced
// buttons, the lamp override cell, the hazard resolver and the door,
// and holds the most recent classifications. Within one tick, input
// sampling happens before arbitration, which happens before the output
// vector is assembled, so every tick sees a consistent snapshot.
//
// Classifications are set between ticks by the ingestion layer on the
// same goroutine; the engine itself is not safe for concurrent use.
type Engine struct {
	lampButton *Button
	doorButton *Button
	lamp       OverrideCell
	resolver   *Resolver
	door       *Door
	light      LightThresholds

	temp TempReading
	gas  GasReading
	band LightBand

	counts Counters
}

// NewEngine creates an Engine. Zero config fields fall back to the
// package defaults.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Hold <= 0 {
		cfg.Hold = DefaultHold
	}
	if cfg.Light == (LightThresholds{}) {
		cfg.Light = DefaultLightThresholds
	}
	if cfg.Door == (DoorConfig{}) {
		cfg.Door = DefaultDoorConfig
	}
	return &Engine{
		lampButton: NewButton(cfg.Debounce, cfg.Hold),
		doorButton: NewButton(cfg.Debounce, cfg.Hold),
		resolver:   NewResolver(),
		door:       NewDoor(cfg.Door),
		light:      cfg.Light,
		temp:       TempReading{Class: TempWaiting},
		gas:        GasReading{Class: GasWaiting},
		band:       BandBright,
	}
}

// SetTemperature replaces the current temperature classification.
// The value persists until the next update; there is no staleness
// timeout.
func (e *Engine) SetTemperature(r TempReading) {
	e.temp = r
	e.counts.TempUpdates++
}

// SetGas replaces the current gas classification.
func (e *Engine) SetGas(r GasReading) {
	e.gas = r
	e.counts.GasUpdates++
}

// NoteDiscard counts a malformed inbound message that was dropped with
// the prior classification retained.
func (e *Engine) NoteDiscard() {
	e.counts.Discarded++
}

// Tick runs one arbitration pass and returns the output vector.
func (e *Engine) Tick(in Input) Outputs {
	// Buttons first: a press in this sample takes effect in this tick.
	switch e.lampButton.Poll(in.LampButton, in.Time) {
	case ShortPress:
		e.lamp.Toggle()
		e.counts.LampToggles++
	case LongPress:
		e.lamp.Release()
		e.counts.LampReleases++
	}

	if e.doorButton.Poll(in.DoorButton, in.Time) == ShortPress {
		if e.door.RequestToggle() {
			e.counts.DoorToggles++
		} else {
			e.counts.DoorRejected++
		}
	}

	e.band = ClassifyLight(in.Light, e.light)
	e.lamp.SetAuto(e.band.LampOn())

	cmd := e.resolver.Resolve(e.temp.Class, e.gas.Class, in.Time)
	if cmd.Emergency && e.door.RequestEmergencyOpen() {
		e.counts.EmergencyOpens++
	}
	e.door.Step()

	return Outputs{
		LEDRed:       cmd.LEDRed,
		LEDGreen:     cmd.LEDGreen,
		LEDAmber:     cmd.LEDAmber,
		Buzzer:       cmd.Buzzer,
		ClimateRelay: cmd.ClimateRelay,
		LampRelay:    e.lamp.Value(),
		DoorAngle:    e.door.Angle(),
	}
}

// Temperature returns the current temperature classification.
func (e *Engine) Temperature() TempReading {
	return e.temp
}

// Gas returns the current gas classification.
func (e *Engine) Gas() GasReading {
	return e.gas
}

// Band returns the light band from the last tick.
func (e *Engine) Band() LightBand {
	return e.band
}

// LampManual reports whether the lamp relay is manually overridden.
func (e *Engine) LampManual() bool {
	return e.lamp.Manual()
}

// DoorState returns the current door state.
func (e *Engine) DoorState() DoorState {
	return e.door.State()
}

// CountersSnapshot returns a copy of the event counters.
func (e *Engine) CountersSnapshot() Counters {
	return e.counts
}
