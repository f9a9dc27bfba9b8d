package common

import (
	"math"
	"testing"
)

func TestNextPowerOfTwo(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want int }{
		{-3, 1}, {0, 1}, {1, 1}, {2, 2}, {3, 4}, {4, 4}, {5, 8}, {44100, 65536}, {65536, 65536},
	}
	for _, tt := range tests {
		if got := NextPowerOfTwo(tt.in); got != tt.want {
			t.Errorf("NextPowerOfTwo(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCeilDiv(t *testing.T) {
	t.Parallel()

	tests := []struct{ a, b, want int }{
		{1, 2, 1}, {2, 2, 1}, {3, 2, 2}, {11, 4, 3}, {12, 4, 3}, {13, 4, 4},
	}
	for _, tt := range tests {
		if got := CeilDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("CeilDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMinMax32(t *testing.T) {
	t.Parallel()

	lo, hi, ok := MinMax32([]float32{0.25, -0.5, 0.75, 0})
	if !ok || lo != -0.5 || hi != 0.75 {
		t.Errorf("MinMax32() = (%v, %v, %v), want (-0.5, 0.75, true)", lo, hi, ok)
	}
	if _, _, ok := MinMax32(nil); ok {
		t.Error("MinMax32(nil) ok = true, want false")
	}
}

func TestFiniteQuantiles_SkipsInfinities(t *testing.T) {
	t.Parallel()

	inf := float32(math.Inf(-1))
	data := []float32{inf, 1, 2, 3, 4, inf, float32(math.NaN())}

	qs, ok := FiniteQuantiles(data, 0, 1)
	if !ok {
		t.Fatal("FiniteQuantiles() ok = false, want true")
	}
	if qs[0] != 1 || qs[1] != 4 {
		t.Errorf("FiniteQuantiles() = %v, want [1 4]", qs)
	}

	if _, ok := FiniteQuantiles([]float32{inf, inf}, 0.5); ok {
		t.Error("FiniteQuantiles(all -Inf) ok = true, want false")
	}
}

func TestScaleInPlace(t *testing.T) {
	t.Parallel()

	data := []float64{1, -2, 0.5}
	ScaleInPlace(2, data)
	want := []float64{2, -4, 1}
	for i := range data {
		if data[i] != want[i] {
			t.Errorf("data[%d] = %v, want %v", i, data[i], want[i])
		}
	}
}
