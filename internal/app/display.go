package app

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/mazerunner-tech/maze_computer/internal/config"
	"github.com/mazerunner-tech/maze_computer/internal/telemetry"
	"github.com/mazerunner-tech/maze_computer/internal/walls"
)

// displayData holds the latest telemetry for the status OLED.
type displayData struct {
	mu sync.RWMutex

	dist     telemetry.Distances
	haveDist bool
	walls    walls.Walls
}

// RunDisplay drives a 128x64 SSD1306 status display with live distances and
// wall detections received over MQTT.
func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Println("display: SSD1306 initialized")

	data := &displayData{}

	// MQTT subscriptions feed the display data.
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDDisplay)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	distToken := client.Subscribe(cfg.TopicDistances, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var d telemetry.Distances
		if err := json.Unmarshal(msg.Payload(), &d); err != nil {
			log.Printf("display: distances unmarshal error: %v", err)
			return
		}
		data.mu.Lock()
		data.dist = d
		data.haveDist = true
		data.mu.Unlock()
	})
	distToken.Wait()
	if distToken.Error() != nil {
		return distToken.Error()
	}

	wallToken := client.Subscribe(cfg.TopicWalls, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var w walls.Walls
		if err := json.Unmarshal(msg.Payload(), &w); err != nil {
			log.Printf("display: walls unmarshal error: %v", err)
			return
		}
		data.mu.Lock()
		data.walls = w
		data.mu.Unlock()
	})
	wallToken.Wait()
	if wallToken.Error() != nil {
		return wallToken.Error()
	}

	interval := time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		data.mu.RLock()
		dist := data.dist
		w := data.walls
		ready := data.haveDist
		data.mu.RUnlock()

		img := image1bit.NewVerticalLSB(dev.Bounds())
		drawer := font.Drawer{
			Dst:  img,
			Src:  &image.Uniform{image1bit.On},
			Face: basicfont.Face7x13,
		}

		if !ready {
			drawer.Dot = fixed.P(4, 30)
			drawer.DrawString("waiting for data")
		} else {
			lines := []string{
				fmt.Sprintf("FL %5.3f FR %5.3f", dist.FrontLeft, dist.FrontRight),
				fmt.Sprintf("SL %5.3f SR %5.3f", dist.SideLeft, dist.SideRight),
				fmt.Sprintf("walls %s %s %s", wallMark(w.Left, "L"), wallMark(w.Front, "F"), wallMark(w.Right, "R")),
			}
			for i, line := range lines {
				drawer.Dot = fixed.P(2, 14+i*18)
				drawer.DrawString(line)
			}
		}

		if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
			log.Printf("display: draw error: %v", err)
		}
	}
	return nil
}

func wallMark(present bool, label string) string {
	if present {
		return label
	}
	return "-"
}
