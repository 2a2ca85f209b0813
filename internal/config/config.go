// Package config loads the controller configuration from YAML with
// sensible defaults for every field, so an empty or missing file still
// yields a runnable setup.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hartono/smartcage-controller/internal/gpio"
)

// Config is the root configuration structure. Durations are expressed
// in milliseconds to keep the YAML plain.
type Config struct {
	Broker   string      `yaml:"broker"`
	ClientID string      `yaml:"client_id"`
	HTTPAddr string      `yaml:"http_addr"`
	Timing   Timing      `yaml:"timing"`
	Light    LightConfig `yaml:"light"`
	Door     DoorConfig  `yaml:"door"`
	Pins     PinsConfig  `yaml:"pins"`
	Paths    PathsConfig `yaml:"paths"`
}

// Timing groups the loop cadence and debounce knobs.
type Timing struct {
	PollMs      int `yaml:"poll_ms"`
	DebounceMs  int `yaml:"debounce_ms"`
	HoldMs      int `yaml:"hold_ms"`
	ReportMs    int `yaml:"report_ms"`
	HeartbeatMs int `yaml:"heartbeat_ms"`
}

// LightConfig holds the band thresholds for the analog light channel.
// The defaults assume a 12-bit ADC.
type LightConfig struct {
	BrightThreshold int `yaml:"bright_threshold"`
	DimThreshold    int `yaml:"dim_threshold"`
}

// DoorConfig bounds the servo sweep.
type DoorConfig struct {
	ClosedAngle int `yaml:"closed_angle"`
	OpenAngle   int `yaml:"open_angle"`
	StepPerTick int `yaml:"step_per_tick"`
}

// PinsConfig holds the BCM line numbers.
type PinsConfig struct {
	LampButton   int `yaml:"lamp_button"`
	DoorButton   int `yaml:"door_button"`
	GasAlert     int `yaml:"gas_alert"`
	LEDRed       int `yaml:"led_red"`
	LEDGreen     int `yaml:"led_green"`
	LEDAmber     int `yaml:"led_amber"`
	Buzzer       int `yaml:"buzzer"`
	ClimateRelay int `yaml:"climate_relay"`
	LampRelay    int `yaml:"lamp_relay"`
}

// PathsConfig holds the sysfs paths for the non-GPIO channels.
type PathsConfig struct {
	Light string `yaml:"light"`
	PWM   string `yaml:"pwm"`
}

// Default returns the reference configuration.
func Default() Config {
	p := gpio.DefaultPins
	return Config{
		Broker:   "tcp://broker.hivemq.com:1883",
		ClientID: "cage-controller",
		HTTPAddr: ":8080",
		Timing: Timing{
			PollMs:      20,
			DebounceMs:  50,
			HoldMs:      3000,
			ReportMs:    5000,
			HeartbeatMs: 900000, // 15 minutes
		},
		Light: LightConfig{BrightThreshold: 2800, DimThreshold: 1200},
		Door:  DoorConfig{ClosedAngle: 0, OpenAngle: 90, StepPerTick: 1},
		Pins: PinsConfig{
			LampButton:   p.LampButton,
			DoorButton:   p.DoorButton,
			GasAlert:     p.GasAlert,
			LEDRed:       p.LEDRed,
			LEDGreen:     p.LEDGreen,
			LEDAmber:     p.LEDAmber,
			Buzzer:       p.Buzzer,
			ClimateRelay: p.ClimateRelay,
			LampRelay:    p.LampRelay,
		},
		Paths: PathsConfig{
			Light: gpio.DefaultLightPath,
			PWM:   gpio.DefaultPWMDir,
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations that cannot run.
func (c *Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("broker must not be empty")
	}
	if c.Timing.PollMs <= 0 {
		return fmt.Errorf("timing.poll_ms must be positive, got %d", c.Timing.PollMs)
	}
	if c.Timing.DebounceMs <= 0 {
		return fmt.Errorf("timing.debounce_ms must be positive, got %d", c.Timing.DebounceMs)
	}
	if c.Timing.HoldMs <= c.Timing.DebounceMs {
		return fmt.Errorf("timing.hold_ms (%d) must exceed timing.debounce_ms (%d)", c.Timing.HoldMs, c.Timing.DebounceMs)
	}
	if c.Light.DimThreshold > c.Light.BrightThreshold {
		return fmt.Errorf("light.dim_threshold (%d) must not exceed light.bright_threshold (%d)", c.Light.DimThreshold, c.Light.BrightThreshold)
	}
	if c.Door.StepPerTick <= 0 {
		return fmt.Errorf("door.step_per_tick must be positive, got %d", c.Door.StepPerTick)
	}
	if c.Door.OpenAngle == c.Door.ClosedAngle {
		return fmt.Errorf("door.open_angle must differ from door.closed_angle")
	}
	return nil
}

// GPIOPins converts the pin configuration to the gpio package type.
func (c *Config) GPIOPins() gpio.Pins {
	return gpio.Pins{
		LampButton:   c.Pins.LampButton,
		DoorButton:   c.Pins.DoorButton,
		GasAlert:     c.Pins.GasAlert,
		LEDRed:       c.Pins.LEDRed,
		LEDGreen:     c.Pins.LEDGreen,
		LEDAmber:     c.Pins.LEDAmber,
		Buzzer:       c.Pins.Buzzer,
		ClimateRelay: c.Pins.ClimateRelay,
		LampRelay:    c.Pins.LampRelay,
	}
}
