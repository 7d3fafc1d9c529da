package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Sensor source selection values for SENSOR_SOURCE.
const (
	SourceADS1115 = "ads1115"
	SourceSerial  = "serial"
	SourceMock    = "mock"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker              string
	MQTTClientIDProducer    string
	MQTTClientIDConsole     string
	MQTTClientIDWeb         string
	MQTTClientIDDisplay     string
	MQTTClientIDCalibration string

	// Topics
	TopicDistances string
	TopicWalls     string
	TopicErrors    string

	// Sensor source: "ads1115", "serial" or "mock"
	SensorSource string

	// On-board ADC hardware
	ADCI2CBus            string
	ADCI2CAddr           uint16
	EmitterPinFrontLeft  string
	EmitterPinFrontRight string
	EmitterPinSideLeft   string
	EmitterPinSideRight  string
	EmitterSettleUS      int // microseconds between emitter switch and sample

	// Off-board serial stream
	SensorSerialPort string
	SensorBaudRate   int

	// Timing
	SensorPeriodUS int // sensor sampling period, microseconds

	// Web Server
	WebServerPort int

	// Display
	DisplayUpdateInterval int // milliseconds
}

// Package-level unexported variables for singleton pattern. External code
// must use InitGlobal() to set and Get() to read, ensuring thread safety.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value
	case "MQTT_CLIENT_ID_CALIBRATION":
		c.MQTTClientIDCalibration = value

	// Topics
	case "TOPIC_DISTANCES":
		c.TopicDistances = value
	case "TOPIC_WALLS":
		c.TopicWalls = value
	case "TOPIC_ERRORS":
		c.TopicErrors = value

	// Sensor source
	case "SENSOR_SOURCE":
		switch value {
		case SourceADS1115, SourceSerial, SourceMock:
			c.SensorSource = value
		default:
			return fmt.Errorf("SENSOR_SOURCE must be %q, %q or %q, got %q",
				SourceADS1115, SourceSerial, SourceMock, value)
		}

	// On-board ADC hardware
	case "ADC_I2C_BUS":
		c.ADCI2CBus = value
	case "ADC_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid ADC_I2C_ADDR %q: %w", value, err)
		}
		c.ADCI2CAddr = uint16(addr)
	case "EMITTER_PIN_FRONT_LEFT":
		c.EmitterPinFrontLeft = value
	case "EMITTER_PIN_FRONT_RIGHT":
		c.EmitterPinFrontRight = value
	case "EMITTER_PIN_SIDE_LEFT":
		c.EmitterPinSideLeft = value
	case "EMITTER_PIN_SIDE_RIGHT":
		c.EmitterPinSideRight = value
	case "EMITTER_SETTLE_US":
		settle, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid EMITTER_SETTLE_US %q: %w", value, err)
		}
		if settle < 0 {
			return fmt.Errorf("EMITTER_SETTLE_US must be >= 0, got %d", settle)
		}
		c.EmitterSettleUS = settle

	// Off-board serial stream
	case "SENSOR_SERIAL_PORT":
		c.SensorSerialPort = value
	case "SENSOR_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SENSOR_BAUD_RATE %q: %w", value, err)
		}
		c.SensorBaudRate = rate

	// Timing
	case "SENSOR_PERIOD_US":
		period, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SENSOR_PERIOD_US %q: %w", value, err)
		}
		if period <= 0 {
			return fmt.Errorf("SENSOR_PERIOD_US must be > 0, got %d", period)
		}
		c.SensorPeriodUS = period

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Display
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicDistances == "" {
		return fmt.Errorf("TOPIC_DISTANCES is required")
	}
	if c.TopicWalls == "" {
		return fmt.Errorf("TOPIC_WALLS is required")
	}
	if c.TopicErrors == "" {
		return fmt.Errorf("TOPIC_ERRORS is required")
	}
	if c.SensorSource == "" {
		return fmt.Errorf("SENSOR_SOURCE is required")
	}
	if c.SensorPeriodUS == 0 {
		return fmt.Errorf("SENSOR_PERIOD_US is required")
	}

	switch c.SensorSource {
	case SourceADS1115:
		if c.EmitterPinFrontLeft == "" || c.EmitterPinFrontRight == "" ||
			c.EmitterPinSideLeft == "" || c.EmitterPinSideRight == "" {
			return fmt.Errorf("all four EMITTER_PIN_* keys are required for SENSOR_SOURCE=%s", SourceADS1115)
		}
		if c.ADCI2CAddr == 0 {
			return fmt.Errorf("ADC_I2C_ADDR is required for SENSOR_SOURCE=%s", SourceADS1115)
		}
	case SourceSerial:
		if c.SensorSerialPort == "" {
			return fmt.Errorf("SENSOR_SERIAL_PORT is required for SENSOR_SOURCE=%s", SourceSerial)
		}
		if c.SensorBaudRate == 0 {
			return fmt.Errorf("SENSOR_BAUD_RATE is required for SENSOR_SOURCE=%s", SourceSerial)
		}
	}

	return nil
}

// InitGlobal initializes the global configuration from file. Uses sync.Once
// so this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must be called
// first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
