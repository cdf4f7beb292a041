// Package prime decides which list positions get the decorative prime badge.
package prime

// IsPrime reports whether n is a prime number using trial division by
// 6k±1 candidates up to sqrt(n). The bound is checked as i <= n/i so it
// cannot overflow near math.MaxInt.
func IsPrime(n int) bool {
	if n <= 1 {
		return false
	}
	if n <= 3 {
		return true
	}
	if n%2 == 0 || n%3 == 0 {
		return false
	}
	for i := 5; i <= n/i; i += 6 {
		if n%i == 0 || n%(i+2) == 0 {
			return false
		}
	}
	return true
}
