package walls

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAcquirer serves canned on/off pairs and a configurable log transform.
type stubAcquirer struct {
	on     [sensorCount]uint16
	off    [sensorCount]uint16
	rawLog func(on, off uint16) float64
}

func (a *stubAcquirer) ValueOn(s Sensor) uint16  { return a.on[s] }
func (a *stubAcquirer) ValueOff(s Sensor) uint16 { return a.off[s] }
func (a *stubAcquirer) RawLog(on, off uint16) float64 {
	return a.rawLog(on, off)
}

// ratioFromDiff is a simple stand-in transform: ratio = (on - off) / 100.
func ratioFromDiff(on, off uint16) float64 {
	return float64(on-off) / 100.
}

func TestUpdateDistanceReadingsAppliesCalibrationCurve(t *testing.T) {
	acq := &stubAcquirer{
		on:     [sensorCount]uint16{40000, 38000, 1500, 1400},
		off:    [sensorCount]uint16{1000, 1100, 400, 380},
		rawLog: ratioFromDiff,
	}
	d := New(acq, 0)
	d.UpdateDistanceReadings()

	for s := SensorFrontLeft; s < sensorCount; s++ {
		ratio := ratioFromDiff(acq.on[s], acq.off[s])
		want := sensorsCalibrationA[s]/ratio - sensorsCalibrationB[s]
		assert.InDelta(t, want, d.get(s), 1e-12, "sensor %s", s)
	}
}

func TestUpdateDistanceReadingsSubtractsSideOffsets(t *testing.T) {
	acq := &stubAcquirer{
		on:     [sensorCount]uint16{40000, 38000, 1500, 1400},
		off:    [sensorCount]uint16{1000, 1100, 400, 380},
		rawLog: ratioFromDiff,
	}
	d := New(acq, 0)
	d.factor[SensorSideLeft] = 0.01
	d.factor[SensorSideRight] = -0.02
	d.UpdateDistanceReadings()

	leftRatio := ratioFromDiff(acq.on[SensorSideLeft], acq.off[SensorSideLeft])
	rightRatio := ratioFromDiff(acq.on[SensorSideRight], acq.off[SensorSideRight])
	wantLeft := sensorsCalibrationA[SensorSideLeft]/leftRatio - sensorsCalibrationB[SensorSideLeft] - 0.01
	wantRight := sensorsCalibrationA[SensorSideRight]/rightRatio - sensorsCalibrationB[SensorSideRight] + 0.02

	assert.InDelta(t, wantLeft, d.SideLeftDistance(), 1e-12)
	assert.InDelta(t, wantRight, d.SideRightDistance(), 1e-12)

	// Front sensors never get an offset applied.
	frontRatio := ratioFromDiff(acq.on[SensorFrontLeft], acq.off[SensorFrontLeft])
	wantFront := sensorsCalibrationA[SensorFrontLeft]/frontRatio - sensorsCalibrationB[SensorFrontLeft]
	assert.InDelta(t, wantFront, d.FrontLeftDistance(), 1e-12)
}

func TestSideWallDetectionThresholdIsStrict(t *testing.T) {
	d := New(nil, 0)

	d.distance[SensorSideLeft] = sideWallDetection
	assert.False(t, d.LeftWallDetection(), "distance at threshold is no wall")

	d.distance[SensorSideLeft] = sideWallDetection - 1e-9
	assert.True(t, d.LeftWallDetection())

	d.distance[SensorSideRight] = sideWallDetection
	assert.False(t, d.RightWallDetection())

	d.distance[SensorSideRight] = 0.05
	assert.True(t, d.RightWallDetection())
}

func TestFrontWallDetectionNeedsBothSensors(t *testing.T) {
	d := New(nil, 0)

	d.distance[SensorFrontLeft] = 0.10
	d.distance[SensorFrontRight] = 0.10
	assert.True(t, d.FrontWallDetection())

	d.distance[SensorFrontRight] = frontWallDetection
	assert.False(t, d.FrontWallDetection(), "one sensor at threshold breaks detection")

	d.distance[SensorFrontLeft] = frontWallDetection + 1
	d.distance[SensorFrontRight] = 0.10
	assert.False(t, d.FrontWallDetection())
}

func TestReadWallsReflectsDistancesAtCallTime(t *testing.T) {
	d := New(nil, 0)
	d.distance[SensorSideLeft] = 0.05
	d.distance[SensorSideRight] = 1.0
	d.distance[SensorFrontLeft] = 0.10
	d.distance[SensorFrontRight] = 0.10

	assert.Equal(t, Walls{Left: true, Front: true, Right: false}, d.ReadWalls())

	d.distance[SensorSideRight] = 0.05
	d.distance[SensorFrontLeft] = 1.0
	assert.Equal(t, Walls{Left: true, Front: false, Right: true}, d.ReadWalls())
}

func TestSideSensorsCloseError(t *testing.T) {
	d := New(nil, 0)

	// Drifted toward the left wall: left too far, right too close.
	d.distance[SensorSideLeft] = 0.12
	d.distance[SensorSideRight] = 0.07
	assert.InDelta(t, -0.015, d.SideSensorsCloseError(), 1e-12)

	// Symmetric case.
	d.distance[SensorSideLeft] = 0.07
	d.distance[SensorSideRight] = 0.12
	assert.InDelta(t, 0.015, d.SideSensorsCloseError(), 1e-12)

	// Both sides beyond nominal reads as consistent, no correction.
	d.distance[SensorSideLeft] = 0.12
	d.distance[SensorSideRight] = 0.10
	assert.Zero(t, d.SideSensorsCloseError())

	// Both sides closer than nominal.
	d.distance[SensorSideLeft] = 0.07
	d.distance[SensorSideRight] = 0.06
	assert.Zero(t, d.SideSensorsCloseError())

	// An exactly nominal side never fires.
	d.distance[SensorSideLeft] = MiddleMazeDistance
	d.distance[SensorSideRight] = 0.07
	assert.Zero(t, d.SideSensorsCloseError())
}

func TestSideSensorsFarError(t *testing.T) {
	d := New(nil, 0)

	// Left wall clearly absent, right wall near nominal.
	d.distance[SensorSideLeft] = 0.20  // error 0.115 > 0.1
	d.distance[SensorSideRight] = 0.10 // error 0.015 < 0.04
	assert.InDelta(t, 0.015, d.SideSensorsFarError(), 1e-12)

	// Mirrored.
	d.distance[SensorSideLeft] = 0.10
	d.distance[SensorSideRight] = 0.20
	assert.InDelta(t, -0.015, d.SideSensorsFarError(), 1e-12)

	// Small fluctuations on both sides stay quiet.
	d.distance[SensorSideLeft] = 0.09
	d.distance[SensorSideRight] = 0.11
	assert.Zero(t, d.SideSensorsFarError())
}

func TestFrontSensorsErrorRequiresFrontWall(t *testing.T) {
	d := New(nil, 0)

	d.distance[SensorFrontLeft] = 0.50
	d.distance[SensorFrontRight] = 0.10
	assert.Zero(t, d.FrontSensorsError(), "no front wall, no heading error")

	d.distance[SensorFrontLeft] = 0.12
	d.distance[SensorFrontRight] = 0.10
	assert.InDelta(t, 0.02, d.FrontSensorsError(), 1e-12)
}

func TestDiagonalSensorsErrorRightPriority(t *testing.T) {
	d := New(nil, 0)

	// Both below the minimum clearance: right wins.
	d.distance[SensorFrontLeft] = 0.20
	d.distance[SensorFrontRight] = 0.22
	assert.InDelta(t, 0.22-diagonalMinDistance, d.DiagonalSensorsError(), 1e-12)

	// Only left violates: negated deficit.
	d.distance[SensorFrontLeft] = 0.20
	d.distance[SensorFrontRight] = 0.30
	assert.InDelta(t, -(0.20 - diagonalMinDistance), d.DiagonalSensorsError(), 1e-12)

	// Clear on both sides.
	d.distance[SensorFrontLeft] = 0.30
	d.distance[SensorFrontRight] = 0.30
	assert.Zero(t, d.DiagonalSensorsError())
}

func TestFrontWallDistanceIsMeanOfFronts(t *testing.T) {
	d := New(nil, 0)
	d.distance[SensorFrontLeft] = 0.30
	d.distance[SensorFrontRight] = 0.10
	assert.InDelta(t, 0.20, d.FrontWallDistance(), 1e-12)
}

func TestSideSensorsCalibrationAccumulatesOffset(t *testing.T) {
	d := New(nil, 0)
	d.distance[SensorSideLeft] = 0.09
	d.distance[SensorSideRight] = MiddleMazeDistance

	require.NoError(t, d.SideSensorsCalibration(context.Background()))
	left, right := d.CalibrationFactors()
	assert.InDelta(t, 0.005, left, 1e-12)
	assert.InDelta(t, 0., right, 1e-12)

	// A second run compounds the correction instead of replacing it.
	require.NoError(t, d.SideSensorsCalibration(context.Background()))
	left, _ = d.CalibrationFactors()
	assert.InDelta(t, 0.010, left, 1e-12)
}

func TestSideSensorsCalibrationCancellation(t *testing.T) {
	d := New(nil, 0)
	d.distance[SensorSideLeft] = 0.09

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.SideSensorsCalibration(ctx)
	require.ErrorIs(t, err, context.Canceled)

	left, right := d.CalibrationFactors()
	assert.Zero(t, left, "cancelled calibration must not touch offsets")
	assert.Zero(t, right)
}

func TestReadersAreIdempotentBetweenUpdates(t *testing.T) {
	acq := &stubAcquirer{
		on:     [sensorCount]uint16{40000, 38000, 1500, 1400},
		off:    [sensorCount]uint16{1000, 1100, 400, 380},
		rawLog: ratioFromDiff,
	}
	d := New(acq, 0)
	d.UpdateDistanceReadings()

	assert.Equal(t, d.FrontLeftDistance(), d.FrontLeftDistance())
	assert.Equal(t, d.SideSensorsCloseError(), d.SideSensorsCloseError())
	assert.Equal(t, d.SideSensorsFarError(), d.SideSensorsFarError())
	assert.Equal(t, d.FrontSensorsError(), d.FrontSensorsError())
	assert.Equal(t, d.DiagonalSensorsError(), d.DiagonalSensorsError())
	assert.Equal(t, d.ReadWalls(), d.ReadWalls())
}
