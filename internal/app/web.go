// Copyright (c) 2026 Mazerunner Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/mazerunner-tech/maze_computer/internal/config"
	"github.com/mazerunner-tech/maze_computer/internal/telemetry"
	"github.com/mazerunner-tech/maze_computer/internal/walls"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// RunWeb serves the latest wall telemetry over HTTP: JSON endpoints for
// scripts, a websocket stream for the live view, static files from ./web.
func RunWeb() error {
	cfg := config.Get()

	var (
		mu       sync.RWMutex
		snap     telemetry.Snapshot
		haveData bool
	)

	// 1) Connect to MQTT and mirror the producer topics into snap.
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	subscribe := func(topic string, handler mqtt.MessageHandler) error {
		token := client.Subscribe(topic, 0, handler)
		token.Wait()
		if token.Error() != nil {
			return token.Error()
		}
		log.Printf("web: subscribed to %s", topic)
		return nil
	}

	if err := subscribe(cfg.TopicDistances, func(_ mqtt.Client, msg mqtt.Message) {
		var d telemetry.Distances
		if err := json.Unmarshal(msg.Payload(), &d); err != nil {
			log.Printf("web: distances unmarshal error: %v", err)
			return
		}
		mu.Lock()
		snap.Distances = d
		haveData = true
		mu.Unlock()
	}); err != nil {
		return err
	}

	if err := subscribe(cfg.TopicWalls, func(_ mqtt.Client, msg mqtt.Message) {
		var w walls.Walls
		if err := json.Unmarshal(msg.Payload(), &w); err != nil {
			log.Printf("web: walls unmarshal error: %v", err)
			return
		}
		mu.Lock()
		snap.Walls = w
		mu.Unlock()
	}); err != nil {
		return err
	}

	if err := subscribe(cfg.TopicErrors, func(_ mqtt.Client, msg mqtt.Message) {
		var e telemetry.ErrorSignals
		if err := json.Unmarshal(msg.Payload(), &e); err != nil {
			log.Printf("web: errors unmarshal error: %v", err)
			return
		}
		mu.Lock()
		snap.Errors = e
		mu.Unlock()
	}); err != nil {
		return err
	}

	// 2) JSON API endpoints.
	http.HandleFunc("/api/distances", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveData {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snap.Distances); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	http.HandleFunc("/api/walls", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveData {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snap.Walls); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 3) Websocket live stream: pushes the snapshot ten times a second.
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}
		defer conn.Close()

		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for range ticker.C {
			mu.RLock()
			current := snap
			ready := haveData
			mu.RUnlock()

			if !ready {
				continue
			}
			if err := conn.WriteJSON(current); err != nil {
				log.Printf("web: websocket write error: %v", err)
				return
			}
		}
	})

	// 4) Static files from ./web as the root.
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web: server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
