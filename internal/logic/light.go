package logic

// LightThresholds splits the raw analog range into three bands.
// Readings at or above Bright are BandBright, at or above Dim are
// BandDim, below Dim are BandDark. The values depend on the sensor's
// bit depth and wiring, so they are configuration, not constants.
type LightThresholds struct {
	Bright int
	Dim    int
}

// DefaultLightThresholds assumes a 12-bit ADC channel (0-4095).
var DefaultLightThresholds = LightThresholds{Bright: 2800, Dim: 1200}

// ClassifyLight maps a raw light reading into a band.
func ClassifyLight(reading int, t LightThresholds) LightBand {
	switch {
	case reading >= t.Bright:
		return BandBright
	case reading >= t.Dim:
		return BandDim
	default:
		return BandDark
	}
}
