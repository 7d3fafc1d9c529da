package main

import (
	"log"

	"github.com/mazerunner-tech/maze_computer/internal/app"
	"github.com/mazerunner-tech/maze_computer/internal/config"
)

func main() {
	log.Println("starting maze-computer status display (MQTT subscriber)")

	// Load configuration
	if err := config.InitGlobal("maze_config.txt"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunDisplay(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
