package logic

// OverrideCell arbitrates between an automatic decision and a manually
// forced decision for one actuator. The authoritative output is the
// manual value while manual mode is active, otherwise the automatic
// value. Toggle enters manual mode and flips the authoritative value in
// one step; Release returns to automatic, so the output reverts to the
// last automatic value with no intermediate glitch.
type OverrideCell struct {
	manual      bool
	manualValue bool
	autoValue   bool
}

// SetAuto updates the automatic-mode value. It has no visible effect
// while manual mode is active.
func (c *OverrideCell) SetAuto(v bool) {
	c.autoValue = v
}

// Toggle flips the authoritative value and enters manual mode.
func (c *OverrideCell) Toggle() {
	c.manualValue = !c.Value()
	c.manual = true
}

// Release leaves manual mode; the automatic value becomes
// authoritative again.
func (c *OverrideCell) Release() {
	c.manual = false
}

// Value returns the authoritative output.
func (c *OverrideCell) Value() bool {
	if c.manual {
		return c.manualValue
	}
	return c.autoValue
}

// Manual reports whether manual mode is active.
func (c *OverrideCell) Manual() bool {
	return c.manual
}
