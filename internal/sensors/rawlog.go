// Package sensors provides the raw measurement sources the walls detector
// reads from: the on-board ADS1115 ADC, an off-board serial stream, and a
// mock for development without hardware.
package sensors

import "math"

// LogRatio converts an emitter-on/emitter-off sample pair into the
// dimensionless log ratio the distance curve expects. The off sample
// cancels ambient light.
//
// A pair with on at or below off carries no reflected signal; the
// difference is clamped so the ratio stays strictly positive and the
// resulting distance saturates far instead of blowing up the division.
func LogRatio(on, off uint16) float64 {
	diff := int(on) - int(off)
	if diff < 2 {
		diff = 2
	}
	return math.Log(float64(diff))
}
