package math

import "math"

// NaiveDFT computes the O(n^2) discrete Fourier transform of x. With
// inverse set, the exponent sign is flipped; no 1/n scaling is applied.
// It serves as the independent oracle in tests and as the leaf of FFT.
func NaiveDFT(x []complex128, inverse bool) []complex128 {
	n := len(x)
	out := make([]complex128, n)
	sign := -1.0
	if inverse {
		sign = 1.0
	}

	for k := range n {
		var sum complex128
		for j := range n {
			theta := sign * 2 * math.Pi * float64((j*k)%n) / float64(n)
			sum += x[j] * complex(math.Cos(theta), math.Sin(theta))
		}
		out[k] = sum
	}

	return out
}

// FFT computes the unscaled DFT of x by recursive mixed-radix decimation,
// falling back to NaiveDFT for prime lengths. It runs on the host at plan
// time (Bluestein chirp spectrum) and in tests.
func FFT(x []complex128, inverse bool) []complex128 {
	n := len(x)
	if n <= 1 {
		out := make([]complex128, n)
		copy(out, x)
		return out
	}

	p := SmallestPrimeFactor(n)
	if p == n {
		return NaiveDFT(x, inverse)
	}

	m := n / p
	sign := -1.0
	if inverse {
		sign = 1.0
	}

	// Decimate into p subsequences and transform each.
	sub := make([][]complex128, p)
	for r := range p {
		s := make([]complex128, m)
		for j := range m {
			s[j] = x[j*p+r]
		}
		sub[r] = FFT(s, inverse)
	}

	out := make([]complex128, n)
	for k := range n {
		var sum complex128
		for r := range p {
			theta := sign * 2 * math.Pi * float64((r*k)%n) / float64(n)
			sum += sub[r][k%m] * complex(math.Cos(theta), math.Sin(theta))
		}
		out[k] = sum
	}

	return out
}
