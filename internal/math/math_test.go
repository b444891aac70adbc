package math

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPrime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want bool
	}{
		{-3, false},
		{0, false},
		{1, false},
		{2, true},
		{3, true},
		{4, false},
		{17, true},
		{33, false},
		{97, true},
		{1021, true},
		{1024, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, IsPrime(tc.n), "IsPrime(%d)", tc.n)
	}
}

func TestSmallestPrimeFactor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want int
	}{
		{2, 2},
		{3, 3},
		{4, 2},
		{9, 3},
		{15, 3},
		{35, 5},
		{97, 97},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, SmallestPrimeFactor(tc.n), "SmallestPrimeFactor(%d)", tc.n)
	}
}

func TestBalancedFactor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want int
	}{
		{1, 1},
		{2, 1},
		{4, 2},
		{12, 3},
		{36, 6},
		{96, 8},
		{195, 13},
		{1024, 32},
		{17, 1},
	}
	for _, tc := range tests {
		got := BalancedFactor(tc.n)
		assert.Equal(t, tc.want, got, "BalancedFactor(%d)", tc.n)
		if tc.n > 1 && got > 1 {
			assert.Zero(t, tc.n%got)
			assert.LessOrEqual(t, got, tc.n/got, "smaller factor first")
		}
	}
}

func TestLargestDivisorAtMost(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 96, LargestDivisorAtMost(96, 100))
	assert.Equal(t, 48, LargestDivisorAtMost(96, 50))
	assert.Equal(t, 32, LargestDivisorAtMost(96, 32))
	assert.Equal(t, 1, LargestDivisorAtMost(17, 16))
}

func TestDivideCeil(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, DivideCeil(0, 4))
	assert.Equal(t, 1, DivideCeil(1, 4))
	assert.Equal(t, 1, DivideCeil(4, 4))
	assert.Equal(t, 2, DivideCeil(5, 4))
}

// ramp returns a deterministic, non-symmetric test signal.
func ramp(n int) []complex128 {
	x := make([]complex128, n)
	for i := range n {
		x[i] = complex(0.3*float64(i), 0.7*float64((n-i)%11))
	}
	return x
}

func TestFFTMatchesNaiveDFT(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 2, 3, 8, 12, 33, 64, 97, 195} {
		for _, inverse := range []bool{false, true} {
			x := ramp(n)
			got := FFT(x, inverse)
			want := NaiveDFT(x, inverse)
			require.Len(t, got, n)
			for k := range n {
				assert.InDelta(t, 0, cmplx.Abs(got[k]-want[k]), 1e-8*float64(n),
					"n=%d inverse=%v k=%d", n, inverse, k)
			}
		}
	}
}

func TestFFTRoundTrip(t *testing.T) {
	t.Parallel()

	const n = 60
	x := ramp(n)
	back := FFT(FFT(x, false), true)
	for i := range n {
		assert.InDelta(t, 0, cmplx.Abs(back[i]/complex(float64(n), 0)-x[i]), 1e-10, "i=%d", i)
	}
}

func TestComplexTranspose(t *testing.T) {
	t.Parallel()

	const rows, cols = 3, 4
	a := make([]float64, 2*rows*cols)
	for i := range rows * cols {
		a[2*i] = float64(i)
		a[2*i+1] = -float64(i)
	}

	b := make([]float64, 2*rows*cols)
	ComplexTranspose(a, b, rows, cols)

	for i := range rows {
		for j := range cols {
			assert.Equal(t, a[2*(i*cols+j)], b[2*(j*rows+i)])
			assert.Equal(t, a[2*(i*cols+j)+1], b[2*(j*rows+i)+1])
		}
	}
}
