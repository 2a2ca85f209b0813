// Package logic contains the pure arbitration logic for the cage controller.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// TempClass is the temperature/humidity classification category.
type TempClass string

const (
	TempWaiting TempClass = "WAITING"
	TempIdeal   TempClass = "IDEAL"
	TempHot     TempClass = "HOT"
	TempCold    TempClass = "COLD"
)

// GasClass is the gas-hazard classification category.
type GasClass string

const (
	GasWaiting GasClass = "WAITING"
	GasSafe    GasClass = "SAFE"
	GasCaution GasClass = "CAUTION"
	GasDanger  GasClass = "DANGER"
)

// LightBand is the ambient-light level band.
type LightBand string

const (
	BandBright LightBand = "BRIGHT"
	BandDim    LightBand = "DIM"
	BandDark   LightBand = "DARK"
)

// LampOn reports whether the lamp relay should be on automatically
// for this band. Only full darkness turns the lamp on.
func (b LightBand) LampOn() bool {
	return b == BandDark
}

// DoorState is the door actuator state. Opening and Closing are the
// transient motion states; requests arriving during either are rejected.
type DoorState string

const (
	DoorClosed  DoorState = "CLOSED"
	DoorOpen    DoorState = "OPEN"
	DoorOpening DoorState = "OPENING"
	DoorClosing DoorState = "CLOSING"
)

// TempReading is the most recent temperature classification with its
// predictor confidence (0-100).
type TempReading struct {
	Class      TempClass
	Confidence float64
}

// GasReading is the most recent gas classification with its
// predictor confidence (0-100).
type GasReading struct {
	Class      GasClass
	Confidence float64
}

// ButtonEvent is the debounced event emitted by a Button poll.
type ButtonEvent int

const (
	NoEvent ButtonEvent = iota
	// ShortPress fires on the stable press edge.
	ShortPress
	// LongPress fires once per continuous hold after the hold threshold.
	LongPress
)

func (e ButtonEvent) String() string {
	switch e {
	case ShortPress:
		return "SHORT_PRESS"
	case LongPress:
		return "LONG_PRESS"
	default:
		return "NONE"
	}
}

// Input is a single per-tick sample of the physical inputs.
// Button levels are logical (already inverted from the active-low lines).
type Input struct {
	LampButton bool
	DoorButton bool
	Light      int
	Time       time.Time
}

// Outputs is the full output vector the engine produces each tick.
// ClimateRelay energized means the fan is stopped.
type Outputs struct {
	LEDRed       bool
	LEDGreen     bool
	LEDAmber     bool
	Buzzer       bool
	ClimateRelay bool
	LampRelay    bool
	DoorAngle    int
}

// Counters tracks arbitration events since startup.
type Counters struct {
	LampToggles    int
	LampReleases   int
	DoorToggles    int
	DoorRejected   int
	EmergencyOpens int
	TempUpdates    int
	GasUpdates     int
	Discarded      int
}
