package kernels

import (
	stdmath "math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/parfft/device"
	"github.com/cwbudde/parfft/internal/fftypes"
	"github.com/cwbudde/parfft/internal/math"
)

func root(num, den int) complex128 {
	theta := -2 * stdmath.Pi * float64(num%den) / float64(den)
	return complex(stdmath.Cos(theta), stdmath.Sin(theta))
}

func testSignal(n int) []complex128 {
	x := make([]complex128, n)
	for i := range n {
		x[i] = complex(0.3*float64(i), 0.7*float64((n-i)%7))
	}
	return x
}

func assertClose(t *testing.T, want, got []complex128, tol float64) {
	t.Helper()
	require.Equal(t, len(want), len(got))
	for k := range want {
		assert.InDelta(t, 0, cmplx.Abs(got[k]-want[k]), tol, "k=%d", k)
	}
}

func TestDirectDFT(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 2, 3, 4, 8, 13, 32} {
		for _, conj := range []bool{false, true} {
			x := testSignal(n)
			got := append([]complex128(nil), x...)
			directDFT(got, conj)
			assertClose(t, math.NaiveDFT(x, conj), got, 1e-9*float64(n))
		}
	}
}

// subgroupTable builds the split-plane A x B matrix the subgroup leaf
// consumes: real parts at [sub*a + k0], imaginary parts at [(sub+b)*a + k0].
func subgroupTable(a, b int) []float64 {
	tw := make([]float64, 2*a*b)
	for sub := range b {
		for k0 := range a {
			v := root(k0*sub, a*b)
			tw[sub*a+k0] = real(v)
			tw[(sub+b)*a+k0] = imag(v)
		}
	}
	return tw
}

func TestSubgroupDFT(t *testing.T) {
	t.Parallel()

	tests := []struct{ a, b int }{
		{2, 2}, {3, 4}, {4, 8}, {8, 12},
	}
	for _, tc := range tests {
		tw := subgroupTable(tc.a, tc.b)
		n := tc.a * tc.b
		for _, conj := range []bool{false, true} {
			x := testSignal(n)
			got := append([]complex128(nil), x...)
			subgroupDFT(got, tc.a, tc.b, tw, 0, conj)
			assertClose(t, math.NaiveDFT(x, conj), got, 1e-9*float64(n))
		}
	}
}

// workgroupTable builds the workgroup leaf's three tables: W_n roots, W_m
// roots, and the combined matrix transposed to [b*n + k0].
func workgroupTable(n, m int) []float64 {
	tw := make([]float64, 2*(n*m+n+m))
	for j := range n {
		v := root(j, n)
		tw[2*j], tw[2*j+1] = real(v), imag(v)
	}
	for j := range m {
		v := root(j, m)
		tw[2*n+2*j], tw[2*n+2*j+1] = real(v), imag(v)
	}
	for b := range m {
		for k0 := range n {
			v := root(k0*b, n*m)
			at := 2*n + 2*m + 2*(b*n+k0)
			tw[at], tw[at+1] = real(v), imag(v)
		}
	}
	return tw
}

func TestWorkgroupDFT(t *testing.T) {
	t.Parallel()

	tests := []struct{ n, m int }{
		{2, 2}, {3, 4}, {8, 8}, {32, 32},
	}
	for _, tc := range tests {
		tw := workgroupTable(tc.n, tc.m)
		size := tc.n * tc.m
		for _, conj := range []bool{false, true} {
			x := testSignal(size)
			got := append([]complex128(nil), x...)
			workgroupDFT(got, tc.n, tc.m, tw, 0, conj)
			assertClose(t, math.NaiveDFT(x, conj), got, 1e-8*float64(size))
		}
	}
}

func TestTransposeKernelInterleaved(t *testing.T) {
	t.Parallel()

	q := device.NewHostQueue[float64]()
	desc := fftypes.TransposeDesc{Rows: 3, Cols: 4, Submatrices: 2}
	const batches = 2
	total := desc.Submatrices * desc.Rows * desc.Cols
	stride := 2 * total

	in, err := q.Alloc(batches * stride)
	require.NoError(t, err)
	out, err := q.Alloc(batches * stride)
	require.NoError(t, err)

	src := make([]float64, batches*stride)
	for i := range src {
		src[i] = float64(i) + 0.5
	}
	require.NoError(t, q.CopyIn(in, 0, src, nil).Wait())

	ev := TransposeKernel[float64]{}.Execute(q, desc, device.TransposeArgs[float64]{
		In: in, Out: out,
		InBatchStr: stride, OutBatchStr: stride,
		ElemWidth:      2,
		StoreModOffset: -1,
		Batch:          device.BatchRange{Begin: 0, End: batches},
	}, nil)
	require.NoError(t, ev.Wait())

	got := make([]float64, batches*stride)
	require.NoError(t, q.CopyOut(got, out, 0, nil).Wait())

	// Each submatrix transposes independently; check against the plain
	// matrix transpose.
	rc := desc.Rows * desc.Cols
	for b := range batches {
		for s := range desc.Submatrices {
			want := make([]float64, 2*rc)
			base := b*stride + 2*s*rc
			math.ComplexTranspose(src[base:base+2*rc], want, desc.Rows, desc.Cols)
			assert.Equal(t, want, got[base:base+2*rc], "batch=%d submatrix=%d", b, s)
		}
	}
}

func TestTransposeKernelSinglePlane(t *testing.T) {
	t.Parallel()

	q := device.NewHostQueue[float32]()
	desc := fftypes.TransposeDesc{Rows: 4, Cols: 5, Submatrices: 1}
	total := desc.Rows * desc.Cols

	in, err := q.Alloc(total)
	require.NoError(t, err)
	out, err := q.Alloc(total)
	require.NoError(t, err)

	src := make([]float32, total)
	for i := range src {
		src[i] = float32(i)
	}
	require.NoError(t, q.CopyIn(in, 0, src, nil).Wait())

	ev := TransposeKernel[float32]{}.Execute(q, desc, device.TransposeArgs[float32]{
		In: in, Out: out,
		InBatchStr: total, OutBatchStr: total,
		ElemWidth:      1,
		StoreModOffset: -1,
		Batch:          device.BatchRange{Begin: 0, End: 1},
	}, nil)
	require.NoError(t, ev.Wait())

	got := make([]float32, total)
	require.NoError(t, q.CopyOut(got, out, 0, nil).Wait())

	for r := range desc.Rows {
		for c := range desc.Cols {
			assert.Equal(t, src[r*desc.Cols+c], got[c*desc.Rows+r], "r=%d c=%d", r, c)
		}
	}
}
