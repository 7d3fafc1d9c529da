// Copyright (c) 2026 Mazerunner Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/mazerunner-tech/maze_computer/internal/config"
	"github.com/mazerunner-tech/maze_computer/internal/telemetry"
	"github.com/mazerunner-tech/maze_computer/internal/walls"
)

// RunWallProducer runs the periodic distance update loop and publishes the
// resulting distances, wall detections and error signals to MQTT.
func RunWallProducer() error {
	log.Println("starting maze-computer wall producer (sensors → MQTT)")

	cfg := config.Get()

	acq, err := newAcquirer(cfg)
	if err != nil {
		log.Fatalf("failed to initialize sensor source: %v", err)
		return err
	}
	log.Printf("producer: sensor source %q ready", cfg.SensorSource)

	det := walls.New(acq, sensorPeriod(cfg))

	// --- connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDProducer)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("MQTT connect error: %v", token.Error())
		return token.Error()
	}
	defer client.Disconnect(250)

	log.Println("producer: connected to MQTT, starting update loop")

	ticker := time.NewTicker(sensorPeriod(cfg))
	defer ticker.Stop()

	tick := 0
	for range ticker.C {
		det.UpdateDistanceReadings()
		snap := telemetry.Collect(det)

		publishJSON(client, cfg.TopicDistances, snap.Distances)
		publishJSON(client, cfg.TopicWalls, snap.Walls)
		publishJSON(client, cfg.TopicErrors, snap.Errors)

		// One status line per ~100 ticks keeps the journal readable at
		// millisecond periods.
		tick++
		if tick%100 == 0 {
			log.Printf("producer: FL=%.3f FR=%.3f SL=%.3f SR=%.3f walls=%+v",
				snap.Distances.FrontLeft, snap.Distances.FrontRight,
				snap.Distances.SideLeft, snap.Distances.SideRight, snap.Walls)
		}
	}
	return nil
}

func publishJSON(client mqtt.Client, topic string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("producer: json marshal error on %s: %v", topic, err)
		return
	}
	token := client.Publish(topic, 0, true, payload)
	token.Wait()
	if token.Error() != nil {
		log.Printf("producer: publish error on %s: %v", topic, token.Error())
	}
}
