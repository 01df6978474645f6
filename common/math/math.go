package math

import (
	"math"
)

// RoundFloat rounds your floating point number to the desired decimal place
func RoundFloat(x float64, prec int) float64 {
	pow := math.Pow(10, float64(prec))
	return math.Round(x*pow) / pow
}

// Clamp restricts v to [lower, upper]. NaN passes through untouched.
func Clamp(v, lower, upper float64) float64 {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}

// Slope returns the angle of rise over run normalised to [-1, 1], where 1 is
// a vertical rise and 0 is flat
func Slope(rise, run float64) float64 {
	return math.Atan(rise/run) / (math.Pi / 2)
}

// PercentChange returns the fractional move from then to now
func PercentChange(then, now float64) float64 {
	return now/then - 1
}

// PopulationStandardDeviation calculates standard deviation using population based calculation
func PopulationStandardDeviation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	avg := ArithmeticAverage(values)
	diffs := make([]float64, len(values))
	for x := range values {
		diffs[x] = math.Pow(values[x]-avg, 2)
	}
	return math.Sqrt(ArithmeticAverage(diffs))
}

// SampleStandardDeviation standard deviation is a statistic that
// measures the dispersion of a dataset relative to its mean and
// is calculated as the square root of the variance
func SampleStandardDeviation(vals []float64) float64 {
	if len(vals) <= 1 {
		return 0
	}
	mean := ArithmeticAverage(vals)
	var combined float64
	for i := range vals {
		combined += math.Pow(vals[i]-mean, 2)
	}
	return math.Sqrt(combined / float64(len(vals)-1))
}

// ArithmeticAverage is the basic form of calculating an average.
// Divide the sum of all values by the length of values
func ArithmeticAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumOfValues float64
	for x := range values {
		sumOfValues += values[x]
	}
	return sumOfValues / float64(len(values))
}

// CalculateSharpeRatio returns the sharpe ratio of a series of movements
// compared to a risk-free rate
func CalculateSharpeRatio(movementPerCandle []float64, riskFreeRate, average float64) float64 {
	if len(movementPerCandle) <= 1 {
		return 0
	}
	excessReturns := make([]float64, len(movementPerCandle))
	for i := range movementPerCandle {
		excessReturns[i] = movementPerCandle[i] - riskFreeRate
	}
	standardDeviation := SampleStandardDeviation(excessReturns)
	if standardDeviation == 0 {
		return 0
	}
	return (average - riskFreeRate) / standardDeviation
}

// MaxDrawdown returns the largest peak to trough decline of a value series as
// a positive fraction of the peak
func MaxDrawdown(values []float64) float64 {
	var peak, worst float64
	for i := range values {
		if i == 0 || values[i] > peak {
			peak = values[i]
			continue
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - values[i]) / peak; dd > worst {
			worst = dd
		}
	}
	return worst
}
