package logic

// DoorConfig bounds the servo sweep. Angles are in degrees; StepPerTick
// is how far the actuator travels each control tick, so the travel time
// is the mechanical distance divided by the step and tick rates.
type DoorConfig struct {
	ClosedAngle int
	OpenAngle   int
	StepPerTick int
}

// DefaultDoorConfig sweeps a quarter turn one degree per tick.
var DefaultDoorConfig = DoorConfig{ClosedAngle: 0, OpenAngle: 90, StepPerTick: 1}

// Door is the two-position actuator driver. Only one motion may be in
// flight: any request received while Opening or Closing is rejected,
// not queued. The sweep is a stepped state machine serviced once per
// tick, so the control loop never blocks for the travel time.
type Door struct {
	cfg   DoorConfig
	state DoorState
	angle int
}

// NewDoor creates a Door resting at the closed position.
func NewDoor(cfg DoorConfig) *Door {
	if cfg.StepPerTick <= 0 {
		cfg.StepPerTick = 1
	}
	return &Door{cfg: cfg, state: DoorClosed, angle: cfg.ClosedAngle}
}

// RequestToggle asks the door to move to the opposite resting position.
// It reports whether the request was accepted; requests while moving
// are dropped.
func (d *Door) RequestToggle() bool {
	switch d.state {
	case DoorClosed:
		d.state = DoorOpening
		return true
	case DoorOpen:
		d.state = DoorClosing
		return true
	}
	return false
}

// RequestEmergencyOpen asks for an automatic open. It only takes effect
// from the closed resting state: it never forces a close and never
// retargets an in-progress motion.
func (d *Door) RequestEmergencyOpen() bool {
	if d.state != DoorClosed {
		return false
	}
	d.state = DoorOpening
	return true
}

// Step advances an in-progress motion by one tick. It is a no-op in the
// resting states.
func (d *Door) Step() {
	switch d.state {
	case DoorOpening:
		d.angle = stepToward(d.angle, d.cfg.OpenAngle, d.cfg.StepPerTick)
		if d.angle == d.cfg.OpenAngle {
			d.state = DoorOpen
		}
	case DoorClosing:
		d.angle = stepToward(d.angle, d.cfg.ClosedAngle, d.cfg.StepPerTick)
		if d.angle == d.cfg.ClosedAngle {
			d.state = DoorClosed
		}
	}
}

// State returns the current door state.
func (d *Door) State() DoorState {
	return d.state
}

// Angle returns the current actuator position in degrees.
func (d *Door) Angle() int {
	return d.angle
}

// Moving reports whether a motion is in flight.
func (d *Door) Moving() bool {
	return d.state == DoorOpening || d.state == DoorClosing
}

func stepToward(current, target, step int) int {
	if current < target {
		current += step
		if current > target {
			current = target
		}
	} else if current > target {
		current -= step
		if current < target {
			current = target
		}
	}
	return current
}
