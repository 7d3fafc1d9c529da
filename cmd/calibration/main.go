// Copyright (c) 2026 Mazerunner Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/mazerunner-tech/maze_computer/internal/app"
	"github.com/mazerunner-tech/maze_computer/internal/config"
)

func main() {
	configPath := flag.String("config", "./maze_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting maze-computer side-sensor calibration")
	log.Println("place the robot stationary and centered in a corridor")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunSideCalibration(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
