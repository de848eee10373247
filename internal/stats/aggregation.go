package stats

import (
	"math"
	"sort"
)

// Sum calculates the sum of all values
func Sum(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum
}

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sum(values) / float64(len(values))
}

// Min returns the minimum value
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the maximum value
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Median calculates the median value
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

// Quantile calculates the q-th quantile (0 <= q <= 1) with linear interpolation
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q = Clamp(q, 0, 1)
	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}

	weight := pos - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Normalize scales values to [0, 1]. A constant slice maps to all zeros.
func Normalize(values []float64) []float64 {
	result := make([]float64, len(values))
	if len(values) == 0 {
		return result
	}

	min, max := Min(values), Max(values)
	span := max - min
	if span == 0 {
		return result
	}

	for i, v := range values {
		result[i] = (v - min) / span
	}
	return result
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Interpolate maps v linearly from [x0, x1] onto [y0, y1], clamping outside
// the input range
func Interpolate(v, x0, x1, y0, y1 float64) float64 {
	if x1 == x0 {
		return y0
	}
	t := Clamp((v-x0)/(x1-x0), 0, 1)
	return y0 + t*(y1-y0)
}
