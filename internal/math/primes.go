package math

// IsPrime reports whether n is prime, by trial division. It is only called
// at plan time, never on a hot path.
func IsPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := 3; d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}

	return true
}

// SmallestPrimeFactor returns the smallest prime factor of n (n >= 2).
func SmallestPrimeFactor(n int) int {
	if n%2 == 0 {
		return 2
	}
	for d := 3; d*d <= n; d += 2 {
		if n%d == 0 {
			return d
		}
	}

	return n
}
