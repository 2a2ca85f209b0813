// Package mqtt provides classification ingestion and sensor publishing
// with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hartono/smartcage-controller/internal/logic"
)

// Topics used by the smart cage system. The predictor publishes
// classifications on the prediction topics; the controller publishes
// raw sensor reports on the data topic for upstream classification.
const (
	TopicData     = "final-project/Mahasiswa-Berpola-Pikir/smartcage/data"
	TopicTempPred = "final-project/Mahasiswa-Berpola-Pikir/smartcage/prediction"
	TopicGasPred  = "final-project/Mahasiswa-Berpola-Pikir/smartcage/gas"
	TopicSystem   = "final-project/Mahasiswa-Berpola-Pikir/smartcage/system"
)

// Update is one classification message delivered from the broker.
// Exactly one of Temp and Gas is set; Err marks a malformed payload
// that was discarded (the prior classification is retained).
type Update struct {
	Temp *logic.TempReading
	Gas  *logic.GasReading
	Err  error
}

// Client is the transport boundary of the controller.
type Client interface {
	// Updates delivers parsed classification messages. The channel is
	// drained by the control loop, which applies values between ticks.
	Updates() <-chan Update

	// PublishReport sends a raw sensor report upstream for
	// classification. Returns error if publishing fails (should not
	// crash the process).
	PublishReport(r Report) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Report is one raw sensor sample forwarded upstream.
type Report struct {
	Timestamp time.Time
	GasAlert  bool
	Light     int
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// predictionPayload is the wire format published by the ML dashboard.
type predictionPayload struct {
	Kondisi    string  `json:"kondisi"`
	Confidence float64 `json:"confidence"`
	Timestamp  string  `json:"timestamp"`
}

// ReportPayload is the wire format of a sensor report.
type ReportPayload struct {
	GasAlert  bool   `json:"gas_alert"`
	Light     int    `json:"light"`
	Timestamp string `json:"timestamp"`
}

// ParseTempPrediction parses a temperature classification message. The
// predictor labels the categories in Indonesian (Ideal/Panas/Dingin);
// English aliases are accepted as well.
func ParseTempPrediction(data []byte) (logic.TempReading, error) {
	var p predictionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return logic.TempReading{}, fmt.Errorf("decode temp prediction: %w", err)
	}
	if err := validConfidence(p.Confidence); err != nil {
		return logic.TempReading{}, err
	}

	var class logic.TempClass
	switch strings.ToLower(p.Kondisi) {
	case "ideal":
		class = logic.TempIdeal
	case "panas", "hot":
		class = logic.TempHot
	case "dingin", "cold":
		class = logic.TempCold
	default:
		return logic.TempReading{}, fmt.Errorf("unknown temp category %q", p.Kondisi)
	}
	return logic.TempReading{Class: class, Confidence: p.Confidence}, nil
}

// ParseGasPrediction parses a gas classification message.
func ParseGasPrediction(data []byte) (logic.GasReading, error) {
	var p predictionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return logic.GasReading{}, fmt.Errorf("decode gas prediction: %w", err)
	}
	if err := validConfidence(p.Confidence); err != nil {
		return logic.GasReading{}, err
	}

	var class logic.GasClass
	switch strings.ToLower(p.Kondisi) {
	case "safe", "aman":
		class = logic.GasSafe
	case "caution", "waspada":
		class = logic.GasCaution
	case "danger", "bahaya":
		class = logic.GasDanger
	default:
		return logic.GasReading{}, fmt.Errorf("unknown gas category %q", p.Kondisi)
	}
	return logic.GasReading{Class: class, Confidence: p.Confidence}, nil
}

func validConfidence(c float64) error {
	if c < 0 || c > 100 {
		return fmt.Errorf("confidence %v out of range", c)
	}
	return nil
}

// FormatReport creates the JSON payload for a sensor report.
func FormatReport(r Report) ([]byte, error) {
	return json.Marshal(ReportPayload{
		GasAlert:  r.GasAlert,
		Light:     r.Light,
		Timestamp: r.Timestamp.UTC().Format(time.RFC3339),
	})
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
