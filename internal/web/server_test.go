package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hartono/smartcage-controller/internal/logic"
	"github.com/hartono/smartcage-controller/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker, *Server) {
	t.Helper()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		PollMs:      20,
		DebounceMs:  50,
		HoldMs:      3000,
		ReportMs:    5000,
		HeartbeatMs: 900000,
		Broker:      "tcp://192.168.1.200:1883",
		HTTPAddr:    ":8080",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr, srv
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr, _ := newTestServer(t)
	tr.Update(status.Update{
		Temp:    logic.TempReading{Class: logic.TempHot, Confidence: 92},
		Gas:     logic.GasReading{Class: logic.GasSafe, Confidence: 85},
		Band:    logic.BandDark,
		Door:    logic.DoorOpen,
		Outputs: logic.Outputs{LEDRed: true, Buzzer: true, LampRelay: true, DoorAngle: 90},
		Counts:  logic.Counters{EmergencyOpens: 1, TempUpdates: 3},
	})
	tr.SetMQTTConnected(true)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.Temperature.Class != "Hot" {
		t.Errorf("temperature: got %q, want Hot", sj.Status.Temperature.Class)
	}
	if sj.Status.Light.Band != "Dark" || sj.Status.Light.Lamp != "ON" {
		t.Errorf("light: got %+v", sj.Status.Light)
	}
	if sj.Status.Door.State != "Open" || sj.Status.Door.Angle != 90 {
		t.Errorf("door: got %+v", sj.Status.Door)
	}
	if !sj.Status.Alerts.LEDRed || !sj.Status.Alerts.Buzzer {
		t.Errorf("alerts: got %+v", sj.Status.Alerts)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.Counts.EmergencyOpens != 1 {
		t.Errorf("counts: got %+v", sj.Status.Counts)
	}
	if sj.Status.Config.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("config broker: got %q", sj.Status.Config.Broker)
	}
}

func TestJSONWaitingBeforeFirstClassification(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	var sj status.StatusJSON
	json.NewDecoder(resp.Body).Decode(&sj)

	if sj.Status.Temperature.Class != "Waiting" {
		t.Errorf("temperature before first update: got %q, want Waiting", sj.Status.Temperature.Class)
	}
	if sj.Status.Gas.Class != "Waiting" {
		t.Errorf("gas before first update: got %q, want Waiting", sj.Status.Gas.Class)
	}
}

func TestJSONNetworkInfo(t *testing.T) {
	ts, tr, _ := newTestServer(t)
	tr.SetNetwork(&status.NetworkInfo{
		Type:   "wifi",
		IP:     "192.168.1.42",
		Status: "connected",
		SSID:   "CageNet",
	})

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	var sj status.StatusJSON
	json.NewDecoder(resp.Body).Decode(&sj)

	if sj.Status.Network == nil {
		t.Fatal("expected Network in JSON")
	}
	if sj.Status.Network.IP != "192.168.1.42" {
		t.Errorf("Network.IP: got %q, want 192.168.1.42", sj.Status.Network.IP)
	}
}

func TestHTMLEndpointRoot(t *testing.T) {
	ts, tr, _ := newTestServer(t)
	tr.Update(status.Update{
		Temp: logic.TempReading{Class: logic.TempIdeal, Confidence: 95},
		Gas:  logic.GasReading{Class: logic.GasSafe, Confidence: 90},
		Band: logic.BandBright,
		Door: logic.DoorClosed,
	})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}
}

func TestHTMLEndpointIndexHTML(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/index.html")
	if err != nil {
		t.Fatalf("GET /index.html: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nonexistent")
	if err != nil {
		t.Fatalf("GET /nonexistent: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestWebsocketPushesSnapshots(t *testing.T) {
	ts, tr, srv := newTestServer(t)
	srv.SetPushInterval(20 * time.Millisecond)

	tr.Update(status.Update{
		Temp: logic.TempReading{Class: logic.TempCold, Confidence: 77},
		Gas:  logic.GasReading{Class: logic.GasSafe, Confidence: 90},
		Band: logic.BandDim,
		Door: logic.DoorClosed,
	})

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	defer conn.Close()

	// First frame is the immediate snapshot.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read first frame: %v", err)
	}
	var sj status.StatusJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		t.Fatalf("first frame is not JSON: %v", err)
	}
	if sj.Status.Temperature.Class != "Cold" {
		t.Errorf("first frame temperature: got %q, want Cold", sj.Status.Temperature.Class)
	}

	// A later frame reflects a state change made after connect.
	tr.Update(status.Update{
		Temp: logic.TempReading{Class: logic.TempHot, Confidence: 88},
		Gas:  logic.GasReading{Class: logic.GasSafe, Confidence: 90},
		Band: logic.BandDim,
		Door: logic.DoorOpening,
	})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read pushed frame: %v", err)
		}
		if err := json.Unmarshal(data, &sj); err != nil {
			t.Fatalf("pushed frame is not JSON: %v", err)
		}
		if sj.Status.Temperature.Class == "Hot" {
			if sj.Status.Door.State != "Opening" {
				t.Errorf("door in pushed frame: got %q, want Opening", sj.Status.Door.State)
			}
			return
		}
	}
	t.Fatal("state change never appeared on the websocket")
}
