package logic

import "time"

// Blink and pulse periods per hazard mode.
const (
	DangerBlinkPeriod  = 100 * time.Millisecond
	CautionBlinkPeriod = 400 * time.Millisecond
	CautionBeepPeriod  = 800 * time.Millisecond
	TempBlinkPeriod    = 300 * time.Millisecond
	TempBeepPeriod     = 500 * time.Millisecond
)

// hazardMode collapses the gas x temperature product into the active
// presentation mode. Gas strictly dominates: any non-safe gas class
// suppresses the temperature presentation entirely.
type hazardMode int

const (
	modeOff hazardMode = iota
	modeDanger
	modeCaution
	modeIdeal
	modeHot
	modeCold
)

// Command is the LED/buzzer/relay decision produced by the resolver.
// Emergency asks the door controller for an automatic open.
type Command struct {
	LEDRed       bool
	LEDGreen     bool
	LEDAmber     bool
	Buzzer       bool
	ClimateRelay bool
	Emergency    bool
}

// Resolver combines the temperature and gas classifications into one
// output command with gas hazard always pre-empting temperature
// signaling. It is deterministic given the two classes and the tick
// time; its only state is the pair of blink/pulse timers it owns,
// which restart from phase off whenever the active mode changes.
type Resolver struct {
	led    *Pulse
	buzzer *Pulse
	mode   hazardMode
}

// NewResolver creates a Resolver with both timers inactive.
func NewResolver() *Resolver {
	return &Resolver{
		led:    NewPulse(TempBlinkPeriod),
		buzzer: NewPulse(TempBeepPeriod),
	}
}

func resolveMode(temp TempClass, gas GasClass) hazardMode {
	switch gas {
	case GasDanger:
		return modeDanger
	case GasCaution:
		return modeCaution
	}
	// Gas safe or not yet classified: delegate to temperature.
	switch temp {
	case TempIdeal:
		return modeIdeal
	case TempHot:
		return modeHot
	case TempCold:
		return modeCold
	default:
		return modeOff
	}
}

// Resolve returns the output command for the current classifications.
func (r *Resolver) Resolve(temp TempClass, gas GasClass, now time.Time) Command {
	mode := resolveMode(temp, gas)
	if mode != r.mode {
		r.mode = mode
		switch mode {
		case modeDanger:
			r.led.SetPeriod(DangerBlinkPeriod)
			r.buzzer.Reset()
		case modeCaution:
			r.led.SetPeriod(CautionBlinkPeriod)
			r.buzzer.SetPeriod(CautionBeepPeriod)
		case modeHot, modeCold:
			r.led.SetPeriod(TempBlinkPeriod)
			r.buzzer.SetPeriod(TempBeepPeriod)
		default:
			r.led.Reset()
			r.buzzer.Reset()
		}
	}

	var cmd Command
	switch mode {
	case modeDanger:
		cmd.LEDRed = r.led.Tick(now)
		cmd.Buzzer = true
		cmd.ClimateRelay = true
		cmd.Emergency = true
	case modeCaution:
		cmd.LEDAmber = r.led.Tick(now)
		cmd.Buzzer = r.buzzer.Tick(now)
	case modeIdeal:
		cmd.LEDGreen = true
	case modeHot:
		cmd.LEDRed = r.led.Tick(now)
		cmd.Buzzer = r.buzzer.Tick(now)
		cmd.Emergency = true
	case modeCold:
		cmd.LEDAmber = r.led.Tick(now)
		cmd.Buzzer = r.buzzer.Tick(now)
		cmd.ClimateRelay = true
	}
	return cmd
}
