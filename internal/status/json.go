package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string             `json:"event,omitempty"`
	Reason        string             `json:"reason,omitempty"`
	Temperature   ClassificationJSON `json:"temperature"`
	Gas           ClassificationJSON `json:"gas"`
	Light         LightJSON          `json:"light"`
	Climate       ClimateJSON        `json:"climate"`
	Door          DoorJSON           `json:"door"`
	Alerts        AlertsJSON         `json:"alerts"`
	UptimeSeconds int64              `json:"uptime_seconds"`
	StartTime     string             `json:"start_time"`
	Timestamp     string             `json:"timestamp"`
	MQTT          MQTTStatus         `json:"mqtt"`
	Counts        CountsJSON         `json:"event_counts"`
	Network       *NetworkJSON       `json:"network,omitempty"`
	Config        ConfigJSON         `json:"config"`
}

// ClassificationJSON is the JSON representation of one classification.
type ClassificationJSON struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	AgeSeconds int64   `json:"age_seconds"`
}

// LightJSON reports the light band and lamp relay state.
type LightJSON struct {
	Band   string `json:"band"`
	Lamp   string `json:"lamp"`
	Manual bool   `json:"manual"`
}

// ClimateJSON reports the climate relay state.
type ClimateJSON struct {
	Relay string `json:"relay"`
}

// DoorJSON reports the door state and actuator angle.
type DoorJSON struct {
	State string `json:"state"`
	Angle int    `json:"angle"`
}

// AlertsJSON reports the signaling outputs.
type AlertsJSON struct {
	LEDRed   bool `json:"led_red"`
	LEDGreen bool `json:"led_green"`
	LEDAmber bool `json:"led_amber"`
	Buzzer   bool `json:"buzzer"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	LampToggles    int `json:"lamp_toggles"`
	LampReleases   int `json:"lamp_releases"`
	DoorToggles    int `json:"door_toggles"`
	DoorRejected   int `json:"door_rejected"`
	EmergencyOpens int `json:"emergency_opens"`
	TempUpdates    int `json:"temp_updates"`
	GasUpdates     int `json:"gas_updates"`
	Discarded      int `json:"discarded"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	HoldMs      int64  `json:"hold_ms"`
	ReportMs    int64  `json:"report_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		Temperature: ClassificationJSON{
			Class:      string(snap.Temp.Class),
			Confidence: snap.Temp.Confidence,
			AgeSeconds: int64(snap.TempAge().Truncate(time.Second).Seconds()),
		},
		Gas: ClassificationJSON{
			Class:      string(snap.Gas.Class),
			Confidence: snap.Gas.Confidence,
			AgeSeconds: int64(snap.GasAge().Truncate(time.Second).Seconds()),
		},
		Light: LightJSON{
			Band:   string(snap.Band),
			Lamp:   onOff(snap.Outputs.LampRelay),
			Manual: snap.LampManual,
		},
		Climate: ClimateJSON{Relay: onOff(snap.Outputs.ClimateRelay)},
		Door:    DoorJSON{State: string(snap.Door), Angle: snap.Outputs.DoorAngle},
		Alerts: AlertsJSON{
			LEDRed:   snap.Outputs.LEDRed,
			LEDGreen: snap.Outputs.LEDGreen,
			LEDAmber: snap.Outputs.LEDAmber,
			Buzzer:   snap.Outputs.Buzzer,
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			LampToggles:    snap.Counts.LampToggles,
			LampReleases:   snap.Counts.LampReleases,
			DoorToggles:    snap.Counts.DoorToggles,
			DoorRejected:   snap.Counts.DoorRejected,
			EmergencyOpens: snap.Counts.EmergencyOpens,
			TempUpdates:    snap.Counts.TempUpdates,
			GasUpdates:     snap.Counts.GasUpdates,
			Discarded:      snap.Counts.Discarded,
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			DebounceMs:  snap.Config.DebounceMs,
			HoldMs:      snap.Config.HoldMs,
			ReportMs:    snap.Config.ReportMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
