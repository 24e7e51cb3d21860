package simulator

import "math/rand/v2"

// A Source yields bounded random samples. The simulator uses it everywhere a
// real deployment would read a sensor, so tests can substitute a
// deterministic source and assert exact post-tick values.
type Source interface {
	Float64In(minValue, maxValue float64) float64
	IntIn(minValue, maxValue int) int
}

type randomSource struct{}

var _ Source = randomSource{}

func (randomSource) Float64In(minValue, maxValue float64) float64 {
	return minValue + rand.Float64()*(maxValue-minValue)
}

// IntIn returns a random integer in [minValue,maxValue], bounds included.
func (randomSource) IntIn(minValue, maxValue int) int {
	return minValue + rand.IntN(maxValue-minValue+1)
}
