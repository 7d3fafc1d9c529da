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

	log.Println("starting maze-computer raw ADC dump")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunADCDebug(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
