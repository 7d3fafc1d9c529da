// Copyright (c) 2026 Mazerunner Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"

	"github.com/mazerunner-tech/maze_computer/internal/config"
	"github.com/mazerunner-tech/maze_computer/internal/walls"
)

// ADS1115Acquirer reads the four IR receivers through an ADS1115 ADC over
// I2C and drives one emitter GPIO pin per sensor around the on/off sample
// pair. Read errors are logged and the last good sample is served again, so
// the update loop keeps its latency and never sees an error path.
type ADS1115Acquirer struct {
	pins     [4]analog.PinADC
	emitters [4]gpio.PinIO
	settle   time.Duration

	lastOn  [4]uint16
	lastOff [4]uint16
}

// NewADS1115Acquirer initializes the periph host, opens the configured I2C
// bus and maps ADC channel N to sensor N (front-left, front-right,
// side-left, side-right).
func NewADS1115Acquirer() (*ADS1115Acquirer, error) {
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	bus, err := i2creg.Open(cfg.ADCI2CBus)
	if err != nil {
		return nil, fmt.Errorf("ADC I2C open: %w", err)
	}

	adc, err := ads1x15.NewADS1115(bus, &ads1x15.Opts{I2cAddress: cfg.ADCI2CAddr})
	if err != nil {
		return nil, fmt.Errorf("ADS1115 init: %w", err)
	}

	a := &ADS1115Acquirer{
		settle: time.Duration(cfg.EmitterSettleUS) * time.Microsecond,
	}

	channels := [4]ads1x15.Channel{
		ads1x15.Channel0, ads1x15.Channel1, ads1x15.Channel2, ads1x15.Channel3,
	}
	emitterPins := [4]string{
		cfg.EmitterPinFrontLeft, cfg.EmitterPinFrontRight,
		cfg.EmitterPinSideLeft, cfg.EmitterPinSideRight,
	}

	for s := walls.SensorFrontLeft; s <= walls.SensorSideRight; s++ {
		pin, err := adc.PinForChannel(channels[s], 3300*physic.MilliVolt, 860*physic.Hertz, ads1x15.SaveEnergy)
		if err != nil {
			return nil, fmt.Errorf("%s sensor: ADC channel %d: %w", s, s, err)
		}
		a.pins[s] = pin

		emitter := gpioreg.ByName(emitterPins[s])
		if emitter == nil {
			return nil, fmt.Errorf("%s sensor: emitter pin %q not found", s, emitterPins[s])
		}
		if err := emitter.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("%s sensor: emitter pin %q: %w", s, emitterPins[s], err)
		}
		a.emitters[s] = emitter

		log.Printf("sensors: %s on ADC channel %d, emitter pin %s", s, s, emitterPins[s])
	}

	return a, nil
}

// ValueOn samples sensor s with its IR emitter lit.
func (a *ADS1115Acquirer) ValueOn(s walls.Sensor) uint16 {
	if err := a.emitters[s].Out(gpio.High); err != nil {
		log.Printf("sensors: %s emitter on: %v", s, err)
		return a.lastOn[s]
	}
	time.Sleep(a.settle)
	a.lastOn[s] = a.sample(s, a.lastOn[s])
	if err := a.emitters[s].Out(gpio.Low); err != nil {
		log.Printf("sensors: %s emitter off: %v", s, err)
	}
	return a.lastOn[s]
}

// ValueOff samples sensor s with its emitter dark, picking up ambient light
// only.
func (a *ADS1115Acquirer) ValueOff(s walls.Sensor) uint16 {
	a.lastOff[s] = a.sample(s, a.lastOff[s])
	return a.lastOff[s]
}

// RawLog implements the walls.Acquirer log transform.
func (a *ADS1115Acquirer) RawLog(on, off uint16) float64 {
	return LogRatio(on, off)
}

func (a *ADS1115Acquirer) sample(s walls.Sensor, last uint16) uint16 {
	reading, err := a.pins[s].Read()
	if err != nil {
		log.Printf("sensors: %s ADC read: %v", s, err)
		return last
	}
	raw := reading.Raw
	if raw < 0 {
		raw = 0
	}
	if raw > 0xFFFF {
		raw = 0xFFFF
	}
	return uint16(raw)
}

// Halt releases the ADC channels.
func (a *ADS1115Acquirer) Halt() {
	for s := range a.pins {
		if a.pins[s] != nil {
			if err := a.pins[s].Halt(); err != nil {
				log.Printf("sensors: halt ADC channel %d: %v", s, err)
			}
		}
	}
}
