// Copyright (c) 2026 Mazerunner Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/mazerunner-tech/maze_computer/internal/config"
	"github.com/mazerunner-tech/maze_computer/internal/walls"
)

// frame is one raw measurement set for all four sensors, as streamed by the
// robot firmware: on/off pairs in sensor order.
type frame struct {
	on  [4]uint16
	off [4]uint16
}

// SerialAcquirer feeds the detector from a robot streaming raw on/off
// frames over UART, one CSV line per update tick:
//
//	flOn,flOff,frOn,frOff,slOn,slOff,srOn,srOff
//
// The reader goroutine keeps only the most recent frame; consumers always
// get the latest complete measurement set.
type SerialAcquirer struct {
	port io.ReadCloser

	mu      sync.RWMutex
	current frame
}

// NewSerialAcquirer opens the configured serial port and starts the reader.
func NewSerialAcquirer() (*SerialAcquirer, error) {
	cfg := config.Get()

	opts := serial.OpenOptions{
		PortName:        cfg.SensorSerialPort,
		BaudRate:        uint(cfg.SensorBaudRate),
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("sensor serial open %s: %w", cfg.SensorSerialPort, err)
	}
	log.Printf("sensors: serial port opened on %s at %d baud", cfg.SensorSerialPort, cfg.SensorBaudRate)

	a := &SerialAcquirer{port: port}
	go a.readLoop()
	return a, nil
}

func (a *SerialAcquirer) readLoop() {
	scanner := bufio.NewScanner(a.port)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		f, err := parseFrame(line)
		if err != nil {
			// Partial lines are expected right after opening mid-stream.
			log.Printf("sensors: serial frame skipped: %v", err)
			continue
		}
		a.mu.Lock()
		a.current = f
		a.mu.Unlock()
	}
	if err := scanner.Err(); err != nil {
		log.Printf("sensors: serial read stopped: %v", err)
	}
}

// parseFrame decodes one CSV frame line.
func parseFrame(line string) (frame, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 8 {
		return frame{}, fmt.Errorf("want 8 fields, got %d in %q", len(fields), line)
	}

	var f frame
	for i, field := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(field), 10, 16)
		if err != nil {
			return frame{}, fmt.Errorf("field %d in %q: %w", i, line, err)
		}
		if i%2 == 0 {
			f.on[i/2] = uint16(v)
		} else {
			f.off[i/2] = uint16(v)
		}
	}
	return f, nil
}

// ValueOn returns the emitter-on sample of the latest frame.
func (a *SerialAcquirer) ValueOn(s walls.Sensor) uint16 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current.on[s]
}

// ValueOff returns the emitter-off sample of the latest frame.
func (a *SerialAcquirer) ValueOff(s walls.Sensor) uint16 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current.off[s]
}

// RawLog implements the walls.Acquirer log transform.
func (a *SerialAcquirer) RawLog(on, off uint16) float64 {
	return LogRatio(on, off)
}

// Close stops the reader by closing the port.
func (a *SerialAcquirer) Close() error {
	return a.port.Close()
}
