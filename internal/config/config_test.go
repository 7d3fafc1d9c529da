package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "maze_config.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validMock = `# maze computer test config
MQTT_BROKER = tcp://localhost:1883
TOPIC_DISTANCES = maze/distances
TOPIC_WALLS = maze/walls
TOPIC_ERRORS = maze/errors
SENSOR_SOURCE = mock
SENSOR_PERIOD_US = 1000
`

func TestLoadMockConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validMock))
	require.NoError(t, err)

	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	assert.Equal(t, "maze/distances", cfg.TopicDistances)
	assert.Equal(t, SourceMock, cfg.SensorSource)
	assert.Equal(t, 1000, cfg.SensorPeriodUS)
}

func TestLoadADS1115Config(t *testing.T) {
	cfg, err := Load(writeConfig(t, `MQTT_BROKER = tcp://localhost:1883
TOPIC_DISTANCES = maze/distances
TOPIC_WALLS = maze/walls
TOPIC_ERRORS = maze/errors
SENSOR_SOURCE = ads1115
SENSOR_PERIOD_US = 1000
ADC_I2C_BUS =
ADC_I2C_ADDR = 0x48
EMITTER_PIN_FRONT_LEFT = GPIO17
EMITTER_PIN_FRONT_RIGHT = GPIO27
EMITTER_PIN_SIDE_LEFT = GPIO22
EMITTER_PIN_SIDE_RIGHT = GPIO23
EMITTER_SETTLE_US = 120
`))
	require.NoError(t, err)
	assert.Equal(t, uint16(0x48), cfg.ADCI2CAddr)
	assert.Equal(t, "GPIO22", cfg.EmitterPinSideLeft)
	assert.Equal(t, 120, cfg.EmitterSettleUS)
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	_, err := Load(writeConfig(t, validMock+"NOT_A_KEY = 1\n"))
	assert.ErrorContains(t, err, "unknown config key")
}

func TestLoadRejectsBadSensorSource(t *testing.T) {
	_, err := Load(writeConfig(t, `MQTT_BROKER = tcp://localhost:1883
SENSOR_SOURCE = lidar
`))
	assert.ErrorContains(t, err, "SENSOR_SOURCE")
}

func TestValidateRequiredFields(t *testing.T) {
	_, err := Load(writeConfig(t, "SENSOR_SOURCE = mock\n"))
	assert.ErrorContains(t, err, "MQTT_BROKER is required")

	_, err = Load(writeConfig(t, `MQTT_BROKER = tcp://localhost:1883
TOPIC_DISTANCES = maze/distances
TOPIC_WALLS = maze/walls
TOPIC_ERRORS = maze/errors
SENSOR_SOURCE = serial
SENSOR_PERIOD_US = 1000
`))
	assert.ErrorContains(t, err, "SENSOR_SERIAL_PORT is required")
}
