package progress

import (
	"math/rand"
	"time"
)

// MeasurementProvider fills in values for attempts recorded without
// instrumentation. The values are placeholders, not measurements.
type MeasurementProvider interface {
	Accuracy() int
	TimeSpentSeconds() int
}

// RandomMeasurements draws plausible placeholder values: accuracy in
// [70,100) and time spent in [30,90) seconds.
type RandomMeasurements struct {
	rnd *rand.Rand
}

// NewRandomMeasurements returns a provider seeded with the current time.
func NewRandomMeasurements() *RandomMeasurements {
	return &RandomMeasurements{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Accuracy implements MeasurementProvider.
func (m *RandomMeasurements) Accuracy() int {
	return 70 + m.rnd.Intn(30)
}

// TimeSpentSeconds implements MeasurementProvider.
func (m *RandomMeasurements) TimeSpentSeconds() int {
	return 30 + m.rnd.Intn(60)
}

// FixedMeasurements always returns the same values.
type FixedMeasurements struct {
	AccuracyValue int
	SecondsValue  int
}

// Accuracy implements MeasurementProvider.
func (m FixedMeasurements) Accuracy() int {
	return m.AccuracyValue
}

// TimeSpentSeconds implements MeasurementProvider.
func (m FixedMeasurements) TimeSpentSeconds() int {
	return m.SecondsValue
}
