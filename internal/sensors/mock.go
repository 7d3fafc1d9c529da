package sensors

import (
	"math"
	"time"

	"github.com/mazerunner-tech/maze_computer/internal/walls"
)

// mock transfer constants, same shape as the fitted curves in the walls
// package: front sensors see ratios around 10, side sensors around 7.
var mockCurveA = [4]float64{1500.462, 1378.603, 2.806, 2.327}
var mockCurveB = [4]float64{138.777, 124.503, 0.287, 0.231}

var mockAmbient = [4]uint16{1000, 1100, 400, 380}

// MockAcquirer synthesizes smooth, slowly drifting wall distances and
// inverts them through the transfer function, so the whole pipeline runs
// end to end without hardware.
type MockAcquirer struct {
	start time.Time
}

// NewMockAcquirer creates a mock measurement source.
func NewMockAcquirer() *MockAcquirer {
	return &MockAcquirer{start: time.Now()}
}

// distanceAt is the synthetic ground truth: fronts sweep toward and away
// from a wall, sides wobble around the corridor center.
func (m *MockAcquirer) distanceAt(s walls.Sensor, elapsed float64) float64 {
	switch s {
	case walls.SensorFrontLeft:
		return 0.30 + 0.12*math.Sin(elapsed*0.5)
	case walls.SensorFrontRight:
		return 0.30 + 0.12*math.Sin(elapsed*0.5+0.1)
	case walls.SensorSideLeft:
		return walls.MiddleMazeDistance + 0.02*math.Sin(elapsed)
	default:
		return walls.MiddleMazeDistance - 0.02*math.Sin(elapsed)
	}
}

// ValueOn returns a synthetic emitter-on sample for the current time.
func (m *MockAcquirer) ValueOn(s walls.Sensor) uint16 {
	elapsed := time.Since(m.start).Seconds()
	dist := m.distanceAt(s, elapsed)

	// Invert distance = a/ratio - b, then ratio = ln(on - off).
	ratio := mockCurveA[s] / (dist + mockCurveB[s])
	diff := math.Exp(ratio)
	if diff > 64000 {
		diff = 64000
	}
	return mockAmbient[s] + uint16(diff)
}

// ValueOff returns the synthetic ambient level.
func (m *MockAcquirer) ValueOff(s walls.Sensor) uint16 {
	return mockAmbient[s]
}

// RawLog implements the walls.Acquirer log transform.
func (m *MockAcquirer) RawLog(on, off uint16) float64 {
	return LogRatio(on, off)
}
