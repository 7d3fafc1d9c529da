// Package telemetry defines the JSON payloads published over MQTT.
package telemetry

import "github.com/mazerunner-tech/maze_computer/internal/walls"

// Distances is one calibrated distance set, in meters from the center of
// the robot.
type Distances struct {
	FrontLeft  float64 `json:"front_left"`
	FrontRight float64 `json:"front_right"`
	SideLeft   float64 `json:"side_left"`
	SideRight  float64 `json:"side_right"`
}

// ErrorSignals bundles the steering error values the motion controller
// consumes. Positive means drift to the right of center.
type ErrorSignals struct {
	SideClose         float64 `json:"side_close"`
	SideFar           float64 `json:"side_far"`
	Front             float64 `json:"front"`
	Diagonal          float64 `json:"diagonal"`
	FrontWallDistance float64 `json:"front_wall_distance"`
}

// Snapshot is the combined per-tick reading set, used by the web live view.
type Snapshot struct {
	Distances Distances    `json:"distances"`
	Walls     walls.Walls  `json:"walls"`
	Errors    ErrorSignals `json:"errors"`
}

// Collect assembles a snapshot from the detector's current state.
func Collect(d *walls.Detector) Snapshot {
	return Snapshot{
		Distances: Distances{
			FrontLeft:  d.FrontLeftDistance(),
			FrontRight: d.FrontRightDistance(),
			SideLeft:   d.SideLeftDistance(),
			SideRight:  d.SideRightDistance(),
		},
		Walls: d.ReadWalls(),
		Errors: ErrorSignals{
			SideClose:         d.SideSensorsCloseError(),
			SideFar:           d.SideSensorsFarError(),
			Front:             d.FrontSensorsError(),
			Diagonal:          d.DiagonalSensorsError(),
			FrontWallDistance: d.FrontWallDistance(),
		},
	}
}
