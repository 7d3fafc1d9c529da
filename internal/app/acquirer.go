package app

import (
	"fmt"
	"time"

	"github.com/mazerunner-tech/maze_computer/internal/config"
	"github.com/mazerunner-tech/maze_computer/internal/sensors"
	"github.com/mazerunner-tech/maze_computer/internal/walls"
)

// newAcquirer builds the measurement source selected by SENSOR_SOURCE.
func newAcquirer(cfg *config.Config) (walls.Acquirer, error) {
	switch cfg.SensorSource {
	case config.SourceADS1115:
		return sensors.NewADS1115Acquirer()
	case config.SourceSerial:
		return sensors.NewSerialAcquirer()
	case config.SourceMock:
		return sensors.NewMockAcquirer(), nil
	}
	return nil, fmt.Errorf("unsupported sensor source %q", cfg.SensorSource)
}

// sensorPeriod returns the configured sampling period as a duration.
func sensorPeriod(cfg *config.Config) time.Duration {
	return time.Duration(cfg.SensorPeriodUS) * time.Microsecond
}
