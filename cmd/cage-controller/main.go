// Command cage-controller arbitrates the smart cage actuators: it polls
// the panel buttons and light sensor, ingests temperature and gas
// classifications from MQTT, and drives the LEDs, buzzer, relays and
// door servo from a single control loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hartono/smartcage-controller/internal/config"
	"github.com/hartono/smartcage-controller/internal/gpio"
	"github.com/hartono/smartcage-controller/internal/logic"
	"github.com/hartono/smartcage-controller/internal/mqtt"
	"github.com/hartono/smartcage-controller/internal/status"
	"github.com/hartono/smartcage-controller/internal/web"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (empty for built-in defaults)")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	poll := flag.Duration("poll", 0, "Polling interval (overrides config)")
	httpAddr := flag.String("http", "", `HTTP status address (overrides config, "off" disables)`)
	printState := flag.Bool("print-state", false, "Print current input state and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	applyFlagOverrides(&cfg, *broker, *poll, *httpAddr)

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// applyFlagOverrides layers the non-empty command line flags over the
// loaded configuration. "off" for the HTTP address disables the server.
func applyFlagOverrides(cfg *config.Config, broker string, poll time.Duration, httpAddr string) {
	if broker != "" {
		cfg.Broker = broker
	}
	if poll > 0 {
		cfg.Timing.PollMs = int(poll.Milliseconds())
	}
	switch httpAddr {
	case "":
	case "off":
		cfg.HTTPAddr = ""
	default:
		cfg.HTTPAddr = httpAddr
	}
}

func run(cfg config.Config, printState bool) error {
	io, err := gpio.NewRealIO(cfg.GPIOPins(), cfg.Paths.Light, cfg.Paths.PWM)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer io.Close()

	if printState {
		in, err := io.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Printf("lamp_button: %s, door_button: %s, gas_alert: %s, light: %d\n",
			stateString(in.LampButton), stateString(in.DoorButton), stateString(in.GasAlert), in.Light)
		return nil
	}

	client, err := mqtt.NewRealClient(cfg.Broker, cfg.ClientID)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer client.Close()

	// Tracker first so the STARTUP event carries a full snapshot.
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      int64(cfg.Timing.PollMs),
		DebounceMs:  int64(cfg.Timing.DebounceMs),
		HoldMs:      int64(cfg.Timing.HoldMs),
		ReportMs:    int64(cfg.Timing.ReportMs),
		HeartbeatMs: int64(cfg.Timing.HeartbeatMs),
		Broker:      cfg.Broker,
		HTTPAddr:    cfg.HTTPAddr,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := client.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	poll := time.Duration(cfg.Timing.PollMs) * time.Millisecond
	log.Printf("started: poll=%v debounce=%dms broker=%s", poll, cfg.Timing.DebounceMs, cfg.Broker)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	engCfg := logic.EngineConfig{
		Debounce: time.Duration(cfg.Timing.DebounceMs) * time.Millisecond,
		Hold:     time.Duration(cfg.Timing.HoldMs) * time.Millisecond,
		Light: logic.LightThresholds{
			Bright: cfg.Light.BrightThreshold,
			Dim:    cfg.Light.DimThreshold,
		},
		Door: logic.DoorConfig{
			ClosedAngle: cfg.Door.ClosedAngle,
			OpenAngle:   cfg.Door.OpenAngle,
			StepPerTick: cfg.Door.StepPerTick,
		},
	}
	report := time.Duration(cfg.Timing.ReportMs) * time.Millisecond
	heartbeat := time.Duration(cfg.Timing.HeartbeatMs) * time.Millisecond

	return runLoop(io, io, client, client, tracker, engCfg, report, heartbeat, time.Now, ticker.C, sigCh)
}

// runLoop is the single writer of all actuator state. Classification
// updates and ticks arrive on the same select, so the engine is only
// ever touched from this goroutine.
func runLoop(reader gpio.Reader, writer gpio.Writer, client mqtt.Client, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, engCfg logic.EngineConfig, report, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	engine := logic.NewEngine(engCfg)

	var (
		lastOut       logic.Outputs
		haveOut       bool
		lastDoor      = engine.DoorState()
		lastReport    = startTime
		lastHeartbeat = startTime
	)

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := client.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case u := <-client.Updates():
			t := now()
			if u.Err != nil {
				log.Printf("discarded classification: %v", u.Err)
				engine.NoteDiscard()
				break
			}
			if u.Temp != nil {
				engine.SetTemperature(*u.Temp)
				if tracker != nil {
					tracker.MarkTempUpdate(t)
				}
				log.Printf("temperature: %s (%.0f%%)", u.Temp.Class, u.Temp.Confidence)
			}
			if u.Gas != nil {
				engine.SetGas(*u.Gas)
				if tracker != nil {
					tracker.MarkGasUpdate(t)
				}
				log.Printf("gas: %s (%.0f%%)", u.Gas.Class, u.Gas.Confidence)
			}

		case <-tick:
			t := now()
			in, err := reader.Read()
			if err != nil {
				log.Printf("gpio read error: %v", err)
				continue
			}

			out := engine.Tick(logic.Input{
				LampButton: in.LampButton,
				DoorButton: in.DoorButton,
				Light:      in.Light,
				Time:       t,
			})

			if door := engine.DoorState(); door != lastDoor {
				log.Printf("door: %s -> %s", lastDoor, door)
				lastDoor = door
			}

			if !haveOut || out != lastOut {
				if err := writer.Write(toHardware(out)); err != nil {
					log.Printf("gpio write error: %v", err)
				}
				lastOut = out
				haveOut = true
			}

			if tracker != nil {
				tracker.Update(status.Update{
					Temp:       engine.Temperature(),
					Gas:        engine.Gas(),
					Band:       engine.Band(),
					LampManual: engine.LampManual(),
					Door:       engine.DoorState(),
					Outputs:    out,
					Counts:     engine.CountersSnapshot(),
				})
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			if report > 0 && t.Sub(lastReport) >= report {
				lastReport = t
				r := mqtt.Report{Timestamp: t, GasAlert: in.GasAlert, Light: in.Light}
				if err := client.PublishReport(r); err != nil {
					log.Printf("report publish error: %v", err)
				}
			}

			if heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				hbEvent := mqtt.SystemEvent{
					Timestamp: t,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					// Refresh network info for heartbeat.
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := client.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

func toHardware(out logic.Outputs) gpio.Outputs {
	return gpio.Outputs{
		LEDRed:       out.LEDRed,
		LEDGreen:     out.LEDGreen,
		LEDAmber:     out.LEDAmber,
		Buzzer:       out.Buzzer,
		ClimateRelay: out.ClimateRelay,
		LampRelay:    out.LampRelay,
		DoorAngle:    out.DoorAngle,
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

func stateString(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
