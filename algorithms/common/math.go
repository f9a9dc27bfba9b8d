package common

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Numeric helpers shared by the preprocessing and rendering code

// Clamp constrains a value to a range
func Clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// ClampInt constrains an integer to a range
func ClampInt(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// NextPowerOfTwo finds the next power of 2 >= n
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}

	power := 1
	for power < n {
		power <<= 1
	}
	return power
}

// CeilDiv returns ceil(a/b) for a > 0, b > 0
func CeilDiv(a, b int) int {
	return (a-1)/b + 1
}

// MinMax32 returns the smallest and largest value of data.
// ok is false for an empty slice.
func MinMax32(data []float32) (lo, hi float32, ok bool) {
	if len(data) == 0 {
		return 0, 0, false
	}
	lo, hi = data[0], data[0]
	for _, v := range data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, true
}

// ScaleInPlace multiplies every element of data by s
func ScaleInPlace(s float64, data []float64) {
	floats.Scale(s, data)
}

// FiniteQuantiles returns the empirical quantiles ps (each in [0,1]) over the
// finite values in data. ok is false when data holds no finite value.
func FiniteQuantiles(data []float32, ps ...float64) (qs []float64, ok bool) {
	finite := make([]float64, 0, len(data))
	for _, v := range data {
		f := float64(v)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			continue
		}
		finite = append(finite, f)
	}
	if len(finite) == 0 {
		return nil, false
	}
	sort.Float64s(finite)

	qs = make([]float64, len(ps))
	for i, p := range ps {
		qs[i] = stat.Quantile(Clamp(p, 0, 1), stat.Empirical, finite, nil)
	}
	return qs, true
}
