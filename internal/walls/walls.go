// Copyright (c) 2026 Mazerunner Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package walls converts raw IR sensor readings into calibrated distances
// and derives the wall detections and steering error signals the motion
// controller consumes.
package walls

import (
	"context"
	"sync"
	"time"
)

// Walls holds one left/front/right wall detection snapshot.
type Walls struct {
	Left  bool `json:"left"`
	Front bool `json:"front"`
	Right bool `json:"right"`
}

// Detector owns the current distance readings and the side-sensor
// calibration offsets. UpdateDistanceReadings is the only writer of the
// distance array; every other method is a read. A single RWMutex keeps the
// array consistent when the update loop and the consumers run on different
// goroutines.
type Detector struct {
	acq    Acquirer
	period time.Duration

	mu       sync.RWMutex
	distance [sensorCount]float64
	factor   [sensorCount]float64
}

// New returns a Detector reading from acq. period is the sensor sampling
// period; the side-sensor calibration routine uses it as the inter-sample
// delay.
func New(acq Acquirer, period time.Duration) *Detector {
	return &Detector{acq: acq, period: period}
}

// UpdateDistanceReadings takes a fresh on/off measurement pair for every
// sensor and overwrites the current distances, from the center of the
// robot, in meters. Raw readings are not validated: a bad sample simply
// becomes a bad distance, which keeps the update latency constant.
func (d *Detector) UpdateDistanceReadings() {
	var fresh [sensorCount]float64
	for s := SensorFrontLeft; s < sensorCount; s++ {
		on := d.acq.ValueOn(s)
		off := d.acq.ValueOff(s)
		fresh[s] = sensorsCalibrationA[s]/d.acq.RawLog(on, off) - sensorsCalibrationB[s]
	}

	d.mu.Lock()
	for s := SensorFrontLeft; s < sensorCount; s++ {
		d.distance[s] = fresh[s]
		if s == SensorSideLeft || s == SensorSideRight {
			d.distance[s] -= d.factor[s]
		}
	}
	d.mu.Unlock()
}

func (d *Detector) get(s Sensor) float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.distance[s]
}

// FrontLeftDistance returns the current front left sensor distance.
func (d *Detector) FrontLeftDistance() float64 {
	return d.get(SensorFrontLeft)
}

// FrontRightDistance returns the current front right sensor distance.
func (d *Detector) FrontRightDistance() float64 {
	return d.get(SensorFrontRight)
}

// SideLeftDistance returns the current side left sensor distance.
func (d *Detector) SideLeftDistance() float64 {
	return d.get(SensorSideLeft)
}

// SideRightDistance returns the current side right sensor distance.
func (d *Detector) SideRightDistance() float64 {
	return d.get(SensorSideRight)
}

// LeftWallDetection reports whether a wall is present on the left side.
func (d *Detector) LeftWallDetection() bool {
	return d.get(SensorSideLeft) < sideWallDetection
}

// RightWallDetection reports whether a wall is present on the right side.
func (d *Detector) RightWallDetection() bool {
	return d.get(SensorSideRight) < sideWallDetection
}

// FrontWallDetection reports whether a wall is present in front. Both front
// sensors have to agree so a pillar clipped by one sensor does not read as
// a wall.
func (d *Detector) FrontWallDetection() bool {
	return d.get(SensorFrontLeft) < frontWallDetection &&
		d.get(SensorFrontRight) < frontWallDetection
}

// ReadWalls returns the left, front and right wall detections at call time.
func (d *Detector) ReadWalls() Walls {
	return Walls{
		Left:  d.LeftWallDetection(),
		Front: d.FrontWallDetection(),
		Right: d.RightWallDetection(),
	}
}

// SideSensorsCloseError returns how far the robot has drifted off the
// corridor center, assuming the walls are parallel to the robot. It only
// fires on asymmetric readings: one side closer than nominal while the
// other is farther. Consistent readings on both sides return 0.
func (d *Detector) SideSensorsCloseError() float64 {
	leftError := d.get(SensorSideLeft) - MiddleMazeDistance
	rightError := d.get(SensorSideRight) - MiddleMazeDistance

	if leftError > 0. && rightError < 0. {
		return rightError
	}
	if rightError > 0. && leftError < 0. {
		return -leftError
	}
	return 0.
}

// SideSensorsFarError returns the centering error for the case where one
// lateral wall is clearly absent while the other is near nominal. The
// asymmetric margins keep normal corridor jitter from triggering it.
func (d *Detector) SideSensorsFarError() float64 {
	leftError := d.get(SensorSideLeft) - MiddleMazeDistance
	rightError := d.get(SensorSideRight) - MiddleMazeDistance

	if leftError > 0.1 && rightError < 0.04 {
		return rightError
	}
	if rightError > 0.1 && leftError < 0.04 {
		return -leftError
	}
	return 0.
}

// FrontSensorsError returns the heading skew against a perpendicular front
// wall, as the difference between the two front distances. Without a front
// wall detected it returns 0.
func (d *Detector) FrontSensorsError() float64 {
	if !d.FrontWallDetection() {
		return 0.
	}
	return d.get(SensorFrontLeft) - d.get(SensorFrontRight)
}

// DiagonalSensorsError returns the clearance deficit when the robot gets
// too close to a pillar while running diagonals. The right sensor is
// checked first, so only one side's violation is ever reported.
func (d *Detector) DiagonalSensorsError() float64 {
	leftError := d.get(SensorFrontLeft) - diagonalMinDistance
	rightError := d.get(SensorFrontRight) - diagonalMinDistance

	if rightError < 0. {
		return rightError
	}
	if leftError < 0. {
		return -leftError
	}
	return 0.
}

// FrontWallDistance returns the front wall distance, in meters.
func (d *Detector) FrontWallDistance() float64 {
	return (d.get(SensorFrontLeft) + d.get(SensorFrontRight)) / 2.
}

// SideSensorsCalibration samples the side distances over 20 sensor periods
// and adds the average deviation from MiddleMazeDistance to each side's
// calibration offset. Run it with the robot stationary and centered in a
// corridor. The correction accumulates across invocations rather than
// replacing the previous offset.
//
// The routine blocks for sideCalibrationReadings periods; ctx cancels it
// early, in which case the offsets are left untouched and ctx.Err() is
// returned.
func (d *Detector) SideSensorsCalibration(ctx context.Context) error {
	var leftSum, rightSum float64

	for i := 0; i < sideCalibrationReadings; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		d.mu.RLock()
		leftSum += d.distance[SensorSideLeft]
		rightSum += d.distance[SensorSideRight]
		d.mu.RUnlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.period):
		}
	}

	d.mu.Lock()
	d.factor[SensorSideLeft] += leftSum/sideCalibrationReadings - MiddleMazeDistance
	d.factor[SensorSideRight] += rightSum/sideCalibrationReadings - MiddleMazeDistance
	d.mu.Unlock()
	return nil
}

// CalibrationFactors returns the current side-sensor calibration offsets.
func (d *Detector) CalibrationFactors() (left, right float64) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.factor[SensorSideLeft], d.factor[SensorSideRight]
}
