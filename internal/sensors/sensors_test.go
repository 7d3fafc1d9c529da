package sensors

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazerunner-tech/maze_computer/internal/walls"
)

func TestLogRatio(t *testing.T) {
	assert.InDelta(t, math.Log(400), LogRatio(1400, 1000), 1e-12)

	// No reflected signal must not produce a zero or negative ratio.
	assert.Equal(t, math.Log(2), LogRatio(1000, 1000))
	assert.Equal(t, math.Log(2), LogRatio(900, 1000))
	assert.Equal(t, math.Log(2), LogRatio(1001, 1000))
	assert.Greater(t, LogRatio(0, 0), 0.)
}

func TestParseFrame(t *testing.T) {
	f, err := parseFrame("40000,1000,38000,1100,1500,400,1400,380")
	require.NoError(t, err)
	assert.Equal(t, uint16(40000), f.on[walls.SensorFrontLeft])
	assert.Equal(t, uint16(1000), f.off[walls.SensorFrontLeft])
	assert.Equal(t, uint16(1400), f.on[walls.SensorSideRight])
	assert.Equal(t, uint16(380), f.off[walls.SensorSideRight])
}

func TestParseFrameTolerantOfSpaces(t *testing.T) {
	f, err := parseFrame("1, 2, 3, 4, 5, 6, 7, 8")
	require.NoError(t, err)
	assert.Equal(t, uint16(5), f.on[walls.SensorSideLeft])
}

func TestParseFrameRejectsMalformedLines(t *testing.T) {
	_, err := parseFrame("1,2,3")
	assert.Error(t, err)

	_, err = parseFrame("a,b,c,d,e,f,g,h")
	assert.Error(t, err)

	// Out of uint16 range.
	_, err = parseFrame("70000,1,2,3,4,5,6,7")
	assert.Error(t, err)
}

func TestMockAcquirerRoundTrip(t *testing.T) {
	m := NewMockAcquirer()

	for s := walls.SensorFrontLeft; s <= walls.SensorSideRight; s++ {
		on := m.ValueOn(s)
		off := m.ValueOff(s)
		got := mockCurveA[s]/LogRatio(on, off) - mockCurveB[s]
		want := m.distanceAt(s, time.Since(m.start).Seconds())
		assert.InDelta(t, want, got, 0.01, "sensor %s", s)
	}
}
