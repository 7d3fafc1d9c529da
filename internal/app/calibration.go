// Copyright (c) 2026 Mazerunner Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mazerunner-tech/maze_computer/internal/config"
	"github.com/mazerunner-tech/maze_computer/internal/walls"
)

// CalibrationReport is the JSON summary written after a side-sensor
// calibration run. It is informational only; the offsets live in the
// detector process and are never loaded back.
type CalibrationReport struct {
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`

	LeftOffset  float64 `json:"left_offset"`
	RightOffset float64 `json:"right_offset"`

	SideLeftDistance  float64 `json:"side_left_distance"`
	SideRightDistance float64 `json:"side_right_distance"`
	PeriodUS          int     `json:"period_us"`
}

// RunSideCalibration owns the sensor source for the duration of the run:
// it spins the update loop in the background, executes the blocking
// side-sensor calibration routine and reports the resulting offsets.
//
// Place the robot stationary and centered in a corridor before starting.
// Ctrl-C aborts the run without touching the offsets.
func RunSideCalibration() error {
	cfg := config.Get()

	acq, err := newAcquirer(cfg)
	if err != nil {
		return fmt.Errorf("sensor source: %w", err)
	}

	det := walls.New(acq, sensorPeriod(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Update loop, same cadence the robot uses.
	go func() {
		ticker := time.NewTicker(sensorPeriod(cfg))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				det.UpdateDistanceReadings()
			}
		}
	}()

	// Let the readings settle before sampling.
	time.Sleep(500 * time.Millisecond)
	log.Printf("calibration: side distances before: SL=%.4f SR=%.4f",
		det.SideLeftDistance(), det.SideRightDistance())

	if err := det.SideSensorsCalibration(ctx); err != nil {
		log.Printf("calibration: aborted: %v", err)
		return err
	}

	left, right := det.CalibrationFactors()
	log.Printf("calibration: offsets now left=%.4f right=%.4f", left, right)

	report := CalibrationReport{
		Version:           1,
		Timestamp:         time.Now(),
		LeftOffset:        left,
		RightOffset:       right,
		SideLeftDistance:  det.SideLeftDistance(),
		SideRightDistance: det.SideRightDistance(),
		PeriodUS:          cfg.SensorPeriodUS,
	}

	filename := fmt.Sprintf("side_sensors_%d_calibration.json", time.Now().Unix())
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal calibration report: %w", err)
	}
	path := filepath.Join(cwd, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write calibration report: %w", err)
	}

	log.Printf("calibration: saved report to %s", path)
	return nil
}
