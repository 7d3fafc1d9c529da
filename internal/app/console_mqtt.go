package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/mazerunner-tech/maze_computer/internal/config"
	"github.com/mazerunner-tech/maze_computer/internal/telemetry"
	"github.com/mazerunner-tech/maze_computer/internal/walls"
)

// RunConsoleMQTT subscribes to the wall telemetry topics and prints them.
func RunConsoleMQTT() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	distToken := client.Subscribe(cfg.TopicDistances, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var d telemetry.Distances
		if err := json.Unmarshal(msg.Payload(), &d); err != nil {
			log.Printf("console: distances unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[DIST]  FL=%6.3f  FR=%6.3f  SL=%6.3f  SR=%6.3f\n",
			d.FrontLeft, d.FrontRight, d.SideLeft, d.SideRight,
		)
	})
	distToken.Wait()
	if distToken.Error() != nil {
		return distToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicDistances)

	wallToken := client.Subscribe(cfg.TopicWalls, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var w walls.Walls
		if err := json.Unmarshal(msg.Payload(), &w); err != nil {
			log.Printf("console: walls unmarshal error: %v", err)
			return
		}

		fmt.Printf("[WALL]  L=%-5v  F=%-5v  R=%-5v\n", w.Left, w.Front, w.Right)
	})
	wallToken.Wait()
	if wallToken.Error() != nil {
		return wallToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicWalls)

	errToken := client.Subscribe(cfg.TopicErrors, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var e telemetry.ErrorSignals
		if err := json.Unmarshal(msg.Payload(), &e); err != nil {
			log.Printf("console: errors unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[ERR]   close=%7.4f  far=%7.4f  front=%7.4f  diag=%7.4f  fwd=%6.3f\n",
			e.SideClose, e.SideFar, e.Front, e.Diagonal, e.FrontWallDistance,
		)
	})
	errToken.Wait()
	if errToken.Error() != nil {
		return errToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicErrors)

	// Block until interrupted.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	client.Disconnect(250)
	log.Println("console: shutting down")
	return nil
}
