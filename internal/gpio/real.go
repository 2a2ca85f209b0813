//go:build linux

package gpio

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/warthog618/go-gpiocdev"
)

// Servo timing for a standard 50Hz hobby servo: 0 degrees maps to a
// 0.5ms pulse, 180 degrees to 2.5ms.
const (
	pwmPeriodNs  = 20_000_000
	pwmMinDutyNs = 500_000
	pwmMaxDutyNs = 2_500_000
)

// RealIO drives actual hardware: gpiocdev lines on gpiochip0, the IIO
// sysfs file for the analog light channel, and a sysfs PWM channel for
// the door servo.
type RealIO struct {
	chip *gpiocdev.Chip

	lampBtn *gpiocdev.Line
	doorBtn *gpiocdev.Line
	gas     *gpiocdev.Line

	outLines map[string]*gpiocdev.Line

	lightPath string
	pwmDir    string

	last    Outputs
	haveOut bool
}

// NewRealIO requests all lines and enables the PWM channel. Buttons and
// the hazard line are inputs with pull-up (the switches pull to
// ground); outputs start low.
func NewRealIO(pins Pins, lightPath, pwmDir string) (*RealIO, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	io := &RealIO{
		chip:      chip,
		outLines:  make(map[string]*gpiocdev.Line),
		lightPath: lightPath,
		pwmDir:    pwmDir,
	}

	reqInput := func(pin int, name string) (*gpiocdev.Line, error) {
		line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			return nil, fmt.Errorf("request %s pin %d: %w", name, pin, err)
		}
		return line, nil
	}

	if io.lampBtn, err = reqInput(pins.LampButton, "lamp button"); err != nil {
		io.Close()
		return nil, err
	}
	if io.doorBtn, err = reqInput(pins.DoorButton, "door button"); err != nil {
		io.Close()
		return nil, err
	}
	if io.gas, err = reqInput(pins.GasAlert, "gas alert"); err != nil {
		io.Close()
		return nil, err
	}

	outs := map[string]int{
		"led-red":       pins.LEDRed,
		"led-green":     pins.LEDGreen,
		"led-amber":     pins.LEDAmber,
		"buzzer":        pins.Buzzer,
		"climate-relay": pins.ClimateRelay,
		"lamp-relay":    pins.LampRelay,
	}
	for name, pin := range outs {
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			io.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", name, pin, err)
		}
		io.outLines[name] = line
	}

	if err := io.initPWM(); err != nil {
		io.Close()
		return nil, err
	}

	return io, nil
}

func (io *RealIO) initPWM() error {
	if io.pwmDir == "" {
		return nil
	}
	if err := writeSysfs(filepath.Join(io.pwmDir, "period"), pwmPeriodNs); err != nil {
		return fmt.Errorf("set pwm period: %w", err)
	}
	if err := writeSysfs(filepath.Join(io.pwmDir, "duty_cycle"), angleToDuty(0)); err != nil {
		return fmt.Errorf("set pwm duty: %w", err)
	}
	if err := writeSysfs(filepath.Join(io.pwmDir, "enable"), 1); err != nil {
		return fmt.Errorf("enable pwm: %w", err)
	}
	return nil
}

// Read samples the input lines. Buttons and the hazard line are
// active-low: raw 0 means pressed/alerting.
func (io *RealIO) Read() (Inputs, error) {
	var in Inputs

	lamp, err := io.lampBtn.Value()
	if err != nil {
		return in, fmt.Errorf("read lamp button: %w", err)
	}
	door, err := io.doorBtn.Value()
	if err != nil {
		return in, fmt.Errorf("read door button: %w", err)
	}
	gas, err := io.gas.Value()
	if err != nil {
		return in, fmt.Errorf("read gas alert: %w", err)
	}

	in.LampButton = lamp == 0
	in.DoorButton = door == 0
	in.GasAlert = gas == 0

	if io.lightPath != "" {
		raw, err := os.ReadFile(io.lightPath)
		if err != nil {
			return in, fmt.Errorf("read light channel: %w", err)
		}
		v, err := strconv.Atoi(string(bytes.TrimSpace(raw)))
		if err != nil {
			return in, fmt.Errorf("parse light channel: %w", err)
		}
		in.Light = v
	}

	return in, nil
}

// Write applies the output vector, touching only lines whose value
// changed since the last write.
func (io *RealIO) Write(out Outputs) error {
	set := func(name string, prev, next bool) error {
		if io.haveOut && prev == next {
			return nil
		}
		v := 0
		if next {
			v = 1
		}
		if err := io.outLines[name].SetValue(v); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
		return nil
	}

	if err := set("led-red", io.last.LEDRed, out.LEDRed); err != nil {
		return err
	}
	if err := set("led-green", io.last.LEDGreen, out.LEDGreen); err != nil {
		return err
	}
	if err := set("led-amber", io.last.LEDAmber, out.LEDAmber); err != nil {
		return err
	}
	if err := set("buzzer", io.last.Buzzer, out.Buzzer); err != nil {
		return err
	}
	if err := set("climate-relay", io.last.ClimateRelay, out.ClimateRelay); err != nil {
		return err
	}
	if err := set("lamp-relay", io.last.LampRelay, out.LampRelay); err != nil {
		return err
	}

	if io.pwmDir != "" && (!io.haveOut || out.DoorAngle != io.last.DoorAngle) {
		if err := writeSysfs(filepath.Join(io.pwmDir, "duty_cycle"), angleToDuty(out.DoorAngle)); err != nil {
			return fmt.Errorf("set door angle: %w", err)
		}
	}

	io.last = out
	io.haveOut = true
	return nil
}

// Close drops all outputs, disables the PWM channel and releases the
// GPIO lines. Inputs are left as-is: pull-up inputs match the Pi boot
// defaults for these pins.
func (io *RealIO) Close() error {
	var errs []error

	for name, line := range io.outLines {
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear %s: %w", name, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	if io.pwmDir != "" {
		if err := writeSysfs(filepath.Join(io.pwmDir, "enable"), 0); err != nil {
			errs = append(errs, fmt.Errorf("disable pwm: %w", err))
		}
	}

	for _, line := range []*gpiocdev.Line{io.lampBtn, io.doorBtn, io.gas} {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close input: %w", err))
		}
	}
	if io.chip != nil {
		if err := io.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func angleToDuty(angle int) int {
	if angle < 0 {
		angle = 0
	}
	if angle > 180 {
		angle = 180
	}
	return pwmMinDutyNs + (pwmMaxDutyNs-pwmMinDutyNs)*angle/180
}

func writeSysfs(path string, v int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(v)), 0o644)
}
