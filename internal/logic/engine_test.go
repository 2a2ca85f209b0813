package logic

import (
	"testing"
	"time"
)

const testTick = 50 * time.Millisecond

// engineHarness drives an Engine tick by tick with a monotonic clock.
type engineHarness struct {
	e    *Engine
	now  time.Time
	last Outputs
}

func newEngineHarness() *engineHarness {
	return &engineHarness{
		e:   NewEngine(EngineConfig{Door: DoorConfig{ClosedAngle: 0, OpenAngle: 90, StepPerTick: 10}}),
		now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

// tick advances one control tick with the given inputs.
func (h *engineHarness) tick(lampBtn, doorBtn bool, light int) Outputs {
	h.now = h.now.Add(testTick)
	h.last = h.e.Tick(Input{LampButton: lampBtn, DoorButton: doorBtn, Light: light, Time: h.now})
	return h.last
}

// settle runs n ticks with no buttons pressed.
func (h *engineHarness) settle(n int, light int) Outputs {
	for i := 0; i < n; i++ {
		h.tick(false, false, light)
	}
	return h.last
}

const (
	brightReading = 4000
	darkReading   = 100
)

func TestEngineWaitingIsInert(t *testing.T) {
	h := newEngineHarness()
	out := h.settle(10, brightReading)

	want := Outputs{} // everything off, door closed at angle 0
	if out != want {
		t.Errorf("waiting outputs: got %+v, want %+v", out, want)
	}
	if h.e.DoorState() != DoorClosed {
		t.Errorf("door: got %s, want CLOSED", h.e.DoorState())
	}
}

func TestEngineHotOpensDoorAndKeepsFanRunning(t *testing.T) {
	h := newEngineHarness()
	h.settle(5, brightReading)

	h.e.SetTemperature(TempReading{Class: TempHot, Confidence: 92.5})
	out := h.tick(false, false, brightReading)

	if out.ClimateRelay {
		t.Error("hot must keep the climate relay off (fan cooling)")
	}
	if h.e.DoorState() != DoorOpening {
		t.Errorf("door: got %s, want OPENING", h.e.DoorState())
	}

	// Door sweeps to the open endpoint without blocking the loop.
	out = h.settle(20, brightReading)
	if h.e.DoorState() != DoorOpen {
		t.Errorf("door: got %s, want OPEN", h.e.DoorState())
	}
	if out.DoorAngle != 90 {
		t.Errorf("door angle: got %d, want 90", out.DoorAngle)
	}

	if got := h.e.CountersSnapshot().EmergencyOpens; got != 1 {
		t.Errorf("emergency opens: got %d, want 1", got)
	}
}

func TestEngineHotBlinkTiming(t *testing.T) {
	h := newEngineHarness()
	h.settle(2, brightReading)
	h.e.SetTemperature(TempReading{Class: TempHot, Confidence: 90})

	// Sample red LED and buzzer across 1.5s of 50ms ticks and count
	// phase flips: 300ms blink gives a flip every 6 ticks, 500ms pulse
	// every 10 ticks.
	var redFlips, buzzFlips int
	var red, buzz bool
	for i := 0; i < 30; i++ {
		out := h.tick(false, false, brightReading)
		if out.LEDRed != red {
			redFlips++
			red = out.LEDRed
		}
		if out.Buzzer != buzz {
			buzzFlips++
			buzz = out.Buzzer
		}
	}
	if redFlips < 4 || redFlips > 5 {
		t.Errorf("red flips over 1.5s at 300ms: got %d, want 4-5", redFlips)
	}
	if buzzFlips < 2 || buzzFlips > 3 {
		t.Errorf("buzzer flips over 1.5s at 500ms: got %d, want 2-3", buzzFlips)
	}
}

func TestEngineGasDangerMasksTemperature(t *testing.T) {
	h := newEngineHarness()
	h.settle(2, brightReading)
	h.e.SetTemperature(TempReading{Class: TempIdeal, Confidence: 99})
	h.e.SetGas(GasReading{Class: GasDanger, Confidence: 88})

	out := h.tick(false, false, brightReading)
	if out.LEDGreen {
		t.Error("danger must mask the ideal green LED")
	}
	if !out.Buzzer {
		t.Error("danger buzzer must be continuous")
	}
	if !out.ClimateRelay {
		t.Error("danger must force the climate relay on")
	}
	if h.e.DoorState() != DoorOpening {
		t.Errorf("danger must trigger an emergency open, door=%s", h.e.DoorState())
	}
}

func TestEngineManualLampOverridePersists(t *testing.T) {
	h := newEngineHarness()
	out := h.settle(5, brightReading)
	if out.LampRelay {
		t.Fatal("lamp should be off in bright light")
	}

	// Short press: hold the button across the debounce window.
	h.tick(true, false, darkReading)
	out = h.tick(true, false, darkReading)
	if !out.LampRelay {
		t.Fatal("short press must turn the lamp on")
	}
	if !h.e.LampManual() {
		t.Fatal("short press must enter manual mode")
	}
	h.tick(false, false, darkReading)
	h.tick(false, false, darkReading)

	// Light transitions back to bright: the manual value must persist.
	out = h.settle(10, brightReading)
	if !out.LampRelay {
		t.Error("manual lamp must stay on when the band changes")
	}

	// Hold for 3 seconds: long press releases the override, and the
	// automatic value (bright, lamp off) is authoritative again.
	for i := 0; i < 62; i++ { // 50ms debounce + 3s hold at 50ms ticks
		out = h.tick(true, false, brightReading)
	}
	if h.e.LampManual() {
		t.Error("long press must release manual mode")
	}
	if out.LampRelay {
		t.Error("after release the lamp follows the bright band (off)")
	}

	// Two toggles: the first short press, plus the press edge of the
	// hold itself (a long press still begins with a press).
	c := h.e.CountersSnapshot()
	if c.LampToggles != 2 {
		t.Errorf("lamp toggles: got %d, want 2", c.LampToggles)
	}
	if c.LampReleases != 1 {
		t.Errorf("lamp releases: got %d, want 1", c.LampReleases)
	}
}

func TestEngineAutoLampFollowsBand(t *testing.T) {
	h := newEngineHarness()
	h.settle(3, brightReading)

	out := h.settle(3, darkReading)
	if !out.LampRelay {
		t.Error("dark band must turn the lamp on automatically")
	}
	if h.e.Band() != BandDark {
		t.Errorf("band: got %s, want DARK", h.e.Band())
	}

	out = h.settle(3, brightReading)
	if out.LampRelay {
		t.Error("bright band must turn the lamp off automatically")
	}
}

func TestEngineDoorButtonRejectedWhileMoving(t *testing.T) {
	h := newEngineHarness()
	h.settle(5, brightReading)

	// Press accepted: door starts opening.
	h.tick(false, true, brightReading)
	h.tick(false, true, brightReading)
	if h.e.DoorState() != DoorOpening {
		t.Fatalf("door: got %s, want OPENING", h.e.DoorState())
	}
	h.tick(false, false, brightReading)
	h.tick(false, false, brightReading)

	// Second press while moving: rejected, target endpoint unchanged.
	h.tick(false, true, brightReading)
	h.tick(false, true, brightReading)
	h.settle(20, brightReading)
	if h.e.DoorState() != DoorOpen {
		t.Errorf("door: got %s, want OPEN", h.e.DoorState())
	}

	c := h.e.CountersSnapshot()
	if c.DoorToggles != 1 {
		t.Errorf("door toggles: got %d, want 1", c.DoorToggles)
	}
	if c.DoorRejected != 1 {
		t.Errorf("door rejected: got %d, want 1", c.DoorRejected)
	}
}

func TestEngineCountsClassificationUpdates(t *testing.T) {
	h := newEngineHarness()
	h.e.SetTemperature(TempReading{Class: TempIdeal, Confidence: 97})
	h.e.SetGas(GasReading{Class: GasSafe, Confidence: 95})
	h.e.SetGas(GasReading{Class: GasSafe, Confidence: 96})
	h.e.NoteDiscard()

	c := h.e.CountersSnapshot()
	if c.TempUpdates != 1 || c.GasUpdates != 2 || c.Discarded != 1 {
		t.Errorf("counters: got %+v", c)
	}
	if h.e.Temperature().Confidence != 97 {
		t.Errorf("temp confidence: got %v, want 97", h.e.Temperature().Confidence)
	}
}
