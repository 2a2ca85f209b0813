package logic

import "time"

// Pulse is a non-blocking on/off toggler used for blinking LEDs and
// pulsing the buzzer. The phase flips at most once per period. A Pulse
// that has been Reset starts its next activation from phase off, so a
// mode that was inactive never resumes a stale phase.
type Pulse struct {
	period  time.Duration
	phase   bool
	last    time.Time
	running bool
}

// NewPulse creates a Pulse with the given period.
func NewPulse(period time.Duration) *Pulse {
	return &Pulse{period: period}
}

// Tick advances the pulse and returns the current phase. The first
// Tick after construction or Reset anchors the period at now and
// returns off.
func (p *Pulse) Tick(now time.Time) bool {
	if !p.running {
		p.running = true
		p.phase = false
		p.last = now
		return false
	}
	if now.Sub(p.last) >= p.period {
		p.phase = !p.phase
		p.last = now
	}
	return p.phase
}

// Reset deactivates the pulse. The next Tick restarts from phase off.
func (p *Pulse) Reset() {
	p.running = false
	p.phase = false
}

// SetPeriod changes the period and resets the pulse.
func (p *Pulse) SetPeriod(period time.Duration) {
	p.period = period
	p.Reset()
}

// Phase returns the current phase without advancing the pulse.
func (p *Pulse) Phase() bool {
	return p.phase
}
