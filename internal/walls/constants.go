package walls

// Calibration constants for sensors, fitted per unit on the bench. They map
// the log ratio to a distance from the center of the robot, in meters:
//
//	distance = a/ratio - b
const (
	sensorFrontLeftA  = 1500.462
	sensorFrontLeftB  = 138.777
	sensorFrontRightA = 1378.603
	sensorFrontRightB = 124.503

	sensorSideLeftA  = 2.806
	sensorSideLeftB  = 0.287
	sensorSideRightA = 2.327
	sensorSideRightB = 0.231
)

var sensorsCalibrationA = [sensorCount]float64{
	sensorFrontLeftA, sensorFrontRightA,
	sensorSideLeftA, sensorSideRightA,
}

var sensorsCalibrationB = [sensorCount]float64{
	sensorFrontLeftB, sensorFrontRightB,
	sensorSideLeftB, sensorSideRightB,
}

// Maze geometry, in meters.
const (
	// CellDimension is the physical size of one maze cell.
	CellDimension = 0.18

	// MiddleMazeDistance is the distance from the center of the robot to a
	// side wall when the robot is exactly centered in a corridor.
	MiddleMazeDistance = 0.085
)

// Distance thresholds.
const (
	sideWallDetection  = CellDimension * 0.90
	frontWallDetection = CellDimension * 1.5

	diagonalMinDistance = 0.24

	sideCalibrationReadings = 20
)
