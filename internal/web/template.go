package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/hartono/smartcage-controller/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"onOff": func(b bool) string {
		if b {
			return "ON"
		}
		return "OFF"
	},
	"age": func(d time.Duration) string {
		if d == 0 {
			return "never"
		}
		return fmt.Sprintf("%ds ago", int(d.Truncate(time.Second).Seconds()))
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Smart Cage</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.danger { color: red; font-weight: bold; }
.caution { color: orange; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
</style>
</head>
<body>
<h1>Smart Cage<span id="live-dot" class="live-dot pending" title="connecting"></span></h1>

<h2>Environment</h2>
<table>
<tr><th>Temperature</th><td id="temp-class">{{.Temp.Class}} ({{printf "%.0f" .Temp.Confidence}}%, {{age .TempAge}})</td></tr>
<tr><th>Gas</th><td id="gas-class">{{.Gas.Class}} ({{printf "%.0f" .Gas.Confidence}}%, {{age .GasAge}})</td></tr>
<tr><th>Light</th><td id="light-band">{{.Band}}</td></tr>
</table>

<h2>Actuators</h2>
<table>
<tr><th>Lamp</th><td id="lamp-relay">{{onOff .Outputs.LampRelay}}{{if .LampManual}} (manual){{end}}</td></tr>
<tr><th>Climate Relay</th><td id="climate-relay">{{onOff .Outputs.ClimateRelay}}</td></tr>
<tr><th>Door</th><td id="door-state">{{.Door}} ({{.Outputs.DoorAngle}}&deg;)</td></tr>
<tr><th>Buzzer</th><td id="buzzer">{{onOff .Outputs.Buzzer}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}} &mdash; {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Lamp toggles</th><td>{{.Counts.LampToggles}}</td></tr>
<tr><th>Lamp releases</th><td>{{.Counts.LampReleases}}</td></tr>
<tr><th>Door toggles</th><td>{{.Counts.DoorToggles}}</td></tr>
<tr><th>Door rejected</th><td>{{.Counts.DoorRejected}}</td></tr>
<tr><th>Emergency opens</th><td>{{.Counts.EmergencyOpens}}</td></tr>
<tr><th>Discarded messages</th><td>{{.Counts.Discarded}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Hold</th><td>{{.Config.HoldMs}}ms</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
<script>
(function() {
  var dot = document.getElementById("live-dot");

  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }

  function setText(id, text) {
    document.getElementById(id).textContent = text;
  }

  function connect() {
    var proto = location.protocol === "https:" ? "wss:" : "ws:";
    var ws = new WebSocket(proto + "//" + location.host + "/ws");

    ws.onopen = function() { setDot("ok", "live"); };
    ws.onclose = function() {
      setDot("err", "disconnected");
      setTimeout(connect, 5000);
    };
    ws.onerror = function() { setDot("err", "error"); };

    ws.onmessage = function(ev) {
      try {
        var s = JSON.parse(ev.data).status;
        setText("temp-class", s.temperature.class + " (" + Math.round(s.temperature.confidence) + "%, " + s.temperature.age_seconds + "s ago)");
        setText("gas-class", s.gas.class + " (" + Math.round(s.gas.confidence) + "%, " + s.gas.age_seconds + "s ago)");
        setText("light-band", s.light.band);
        setText("lamp-relay", s.light.lamp + (s.light.manual ? " (manual)" : ""));
        setText("climate-relay", s.climate.relay);
        setText("door-state", s.door.state + " (" + s.door.angle + "°)");
        setText("buzzer", s.alerts.buzzer ? "ON" : "OFF");
      } catch (e) {}
    };
  }

  connect();
})();
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() etc. as methods; html/template can call
	// them directly, so the snapshot is passed as-is.
	indexTmpl.Execute(w, snap)
}
