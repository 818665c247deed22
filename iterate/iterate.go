// Package iterate runs the quadratic map z ← z² + c from z₀ = 0.
//
// All functions are pure and safe to call from any number of goroutines.
package iterate

// Escape iterates c for at most maxIter steps and returns the 1-based step
// at which |z|² first exceeds threshold. diverged is false when no step did.
func Escape(c complex128, maxIter int, threshold float64) (n int, diverged bool) {
	x0, y0 := real(c), imag(c)
	var x, y float64
	for i := range maxIter {
		x, y = x*x-y*y+x0, 2*x*y+y0
		if x*x+y*y > threshold {
			return i + 1, true
		}
	}
	return 0, false
}

// Orbit iterates c like Escape and records every z that stayed within the
// threshold. When the orbit diverges at step k, the k-1 recorded points are
// appended to buf and returned. A bounded orbit yields (nil, false) and buf is
// not retained.
func Orbit(c complex128, maxIter int, threshold float64, buf []complex128) ([]complex128, bool) {
	zs := buf[:0]
	x0, y0 := real(c), imag(c)
	var x, y float64
	for range maxIter {
		x, y = x*x-y*y+x0, 2*x*y+y0
		if x*x+y*y > threshold {
			return zs, true
		}
		zs = append(zs, complex(x, y))
	}
	return nil, false
}
