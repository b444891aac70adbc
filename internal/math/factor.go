package math

// BalancedFactor returns the largest divisor of n that does not exceed
// the integer square root of n, so that (d, n/d) is the most balanced
// factor pair. Returns 1 for primes and for n <= 1.
func BalancedFactor(n int) int {
	if n <= 1 {
		return 1
	}

	best := 1
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			best = d
		}
	}

	return best
}

// LargestDivisorAtMost returns the largest divisor of n that is <= limit,
// or 1 if no divisor other than 1 qualifies.
func LargestDivisorAtMost(n, limit int) int {
	if limit >= n {
		return n
	}
	for d := limit; d >= 2; d-- {
		if n%d == 0 {
			return d
		}
	}

	return 1
}

// DivideCeil returns ceil(a / b) for positive b.
func DivideCeil(a, b int) int {
	return (a + b - 1) / b
}
