// Package gpio provides the hardware boundary with abstraction for
// testing. The real implementation uses the Linux GPIO character
// device for the digital lines, sysfs IIO for the analog light channel
// and sysfs PWM for the door servo. The fake implementation allows
// testing without hardware.
package gpio

// Inputs is one sample of the physical input lines. Button levels are
// logical: the lines are active-low, and the reader inverts them.
type Inputs struct {
	LampButton bool
	DoorButton bool
	GasAlert   bool
	Light      int
}

// Outputs is the physical output vector written each tick.
type Outputs struct {
	LEDRed       bool
	LEDGreen     bool
	LEDAmber     bool
	Buzzer       bool
	ClimateRelay bool
	LampRelay    bool
	DoorAngle    int
}

// Reader samples the input lines.
type Reader interface {
	// Read returns the logical states of both buttons, the hazard
	// line, and the raw light reading.
	Read() (Inputs, error)

	// Close releases input resources.
	Close() error
}

// Writer drives the output lines.
type Writer interface {
	// Write applies the output vector. Implementations only touch
	// lines whose value changed since the previous write.
	Write(Outputs) error

	// Close releases output resources.
	Close() error
}

// Pins holds the BCM line numbers for the digital lines.
type Pins struct {
	LampButton   int
	DoorButton   int
	GasAlert     int
	LEDRed       int
	LEDGreen     int
	LEDAmber     int
	Buzzer       int
	ClimateRelay int
	LampRelay    int
}

// DefaultPins is the reference wiring (BCM numbering).
var DefaultPins = Pins{
	LampButton:   17,
	DoorButton:   27,
	GasAlert:     22,
	LEDRed:       5,
	LEDGreen:     6,
	LEDAmber:     13,
	Buzzer:       19,
	ClimateRelay: 20,
	LampRelay:    21,
}

// Default sysfs paths for the non-GPIO channels.
const (
	DefaultLightPath = "/sys/bus/iio/devices/iio:device0/in_voltage0_raw"
	DefaultPWMDir    = "/sys/class/pwm/pwmchip0/pwm0"
)
