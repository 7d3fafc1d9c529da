package walls

// Sensor identifies one of the four IR wall sensors. The values double as
// array indices, so the order is fixed: front pair first, then side pair.
type Sensor int

const (
	SensorFrontLeft Sensor = iota
	SensorFrontRight
	SensorSideLeft
	SensorSideRight

	sensorCount
)

func (s Sensor) String() string {
	switch s {
	case SensorFrontLeft:
		return "front-left"
	case SensorFrontRight:
		return "front-right"
	case SensorSideLeft:
		return "side-left"
	case SensorSideRight:
		return "side-right"
	}
	return "unknown"
}

// Acquirer is the raw measurement collaborator. For each sensor it provides
// one sample taken with the IR emitter on and one with it off, so ambient
// light can be cancelled, plus the logarithmic ratio transform that is the
// sole nonlinearity of the distance pipeline.
//
// RawLog must stay usable for the whole sensor operating range, including
// on == off (no reflected signal).
type Acquirer interface {
	ValueOn(s Sensor) uint16
	ValueOff(s Sensor) uint16
	RawLog(on, off uint16) float64
}
