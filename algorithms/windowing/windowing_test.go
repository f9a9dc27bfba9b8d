package windowing

import (
	"math"
	"testing"
)

func TestGaussianWindow_PeakAtCenter(t *testing.T) {
	t.Parallel()

	for _, n := range []int{2, 8, 64, 4096} {
		w := GaussianWindow(n, 0.2)
		if len(w) != n {
			t.Fatalf("len(GaussianWindow(%d)) = %d", n, len(w))
		}
		if math.Abs(w[n/2]-1) > 1e-12 {
			t.Errorf("GaussianWindow(%d)[%d] = %v, want 1", n, n/2, w[n/2])
		}
		for i, v := range w {
			if v > w[n/2] {
				t.Errorf("GaussianWindow(%d)[%d] = %v exceeds the center value", n, i, v)
			}
		}
	}
}

func TestGaussianWindow_Formula(t *testing.T) {
	t.Parallel()

	n, sigma := 16, 0.3
	w := GaussianWindow(n, sigma)
	for i, got := range w {
		x := (float64(i) - 8) / (sigma * 8)
		want := math.Exp(-0.5 * x * x)
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("w[%d] = %v, want %v", i, got, want)
		}
	}
	// symmetric around n/2
	for k := 1; k < n/2; k++ {
		if math.Abs(w[n/2-k]-w[n/2+k]) > 1e-12 {
			t.Errorf("w[%d] = %v, w[%d] = %v, want equal", n/2-k, w[n/2-k], n/2+k, w[n/2+k])
		}
	}
}

func TestGaussian_ApplyInPlace(t *testing.T) {
	t.Parallel()

	g := NewGaussian(4, 0.5)
	if g.GetType() != "gaussian" || g.GetSize() != 4 || g.GetSigma() != 0.5 {
		t.Fatalf("unexpected window metadata: %s %d %v", g.GetType(), g.GetSize(), g.GetSigma())
	}

	sig := []float64{1, 1, 1, 1}
	if err := g.ApplyInPlace(sig); err != nil {
		t.Fatalf("ApplyInPlace() error = %v", err)
	}
	coeffs := g.GetCoefficients()
	for i := range sig {
		if sig[i] != coeffs[i] {
			t.Errorf("sig[%d] = %v, want %v", i, sig[i], coeffs[i])
		}
	}

	if err := g.ApplyInPlace(make([]float64, 3)); err == nil {
		t.Error("ApplyInPlace() with wrong length error = nil, want error")
	}
	if got := g.Apply(make([]float64, 5)); got != nil {
		t.Errorf("Apply() with wrong length = %v, want nil", got)
	}
}

func TestCopyCentered(t *testing.T) {
	t.Parallel()

	data := []float32{1, 2, 3, 4, 5, 6, 7, 8}

	tests := []struct {
		name   string
		data   []float32
		center int
		size   int
		want   []float32
	}{
		{"inside", data, 4, 4, []float32{3, 4, 5, 6}},
		{"tail past end", data, 7, 4, []float32{6, 7, 8, 0}},
		{"head before start", data, 1, 4, []float32{0, 1, 2, 3}},
		{"surrounds data", []float32{1, 2, 3}, 1, 8, []float32{0, 0, 0, 1, 2, 3, 0, 0}},
		{"exact fit", []float32{1, 2, 3, 4}, 2, 4, []float32{1, 2, 3, 4}},
		{"center zero", data, 0, 6, []float32{0, 0, 0, 1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := make([]float32, tt.size)
			for i := range out {
				out[i] = -99 // stale values must be overwritten
			}
			CopyCentered(tt.center, tt.data, out)
			for i := range out {
				if out[i] != tt.want[i] {
					t.Errorf("out = %v, want %v", out, tt.want)
					break
				}
			}
		})
	}
}

func TestCopyCentered_OverlapCopiedVerbatim(t *testing.T) {
	t.Parallel()

	data := make([]float32, 37)
	for i := range data {
		data[i] = float32(i + 1)
	}

	for _, size := range []int{2, 8, 16, 64, 100} {
		out := make([]float64, size)
		for center := range data {
			CopyCentered(center, data, out)
			if len(out) != size {
				t.Fatalf("len(out) = %d, want %d", len(out), size)
			}
			start := center - size/2
			for i, v := range out {
				j := start + i
				if j >= 0 && j < len(data) {
					if v != float64(data[j]) {
						t.Fatalf("size %d center %d: out[%d] = %v, want %v", size, center, i, v, data[j])
					}
				} else if v != 0 {
					t.Fatalf("size %d center %d: out[%d] = %v, want 0", size, center, i, v)
				}
			}
		}
	}
}

func TestCopyCentered_PanicsOutOfRange(t *testing.T) {
	t.Parallel()

	for _, center := range []int{-1, 3} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("CopyCentered(%d) did not panic", center)
				}
			}()
			CopyCentered(center, []float32{1, 2, 3}, make([]float32, 2))
		}()
	}
}
