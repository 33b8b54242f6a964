package evaluation

import (
	"math"

	"interviewcheck/pkg/contracts/domain"
)

// RoundHalfEven rounds f to the given number of decimal places, ties to even.
func RoundHalfEven(f float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(f*p) / p
}

// AveragePositive averages the strictly positive values, rounded half-even to
// two places. Zeros mean "not scored" and are left out; no positive values
// averages to 0.
func AveragePositive(values []float64) float64 {
	var sum float64
	var n int
	for _, v := range values {
		if v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return RoundHalfEven(sum/float64(n), 2)
}

// AutoAverage is the average of the category scores that were given.
func AutoAverage(s domain.Scores) float64 {
	vals := s.Values()
	floats := make([]float64, len(vals))
	for i, v := range vals {
		floats[i] = float64(v)
	}
	return AveragePositive(floats)
}

// Overall is the manual overall score when one was given, else the auto average.
func Overall(manual int, s domain.Scores) float64 {
	if manual > 0 {
		return float64(manual)
	}
	return AutoAverage(s)
}
