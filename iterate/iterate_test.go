package iterate

import (
	"math/cmplx"
	"testing"
)

func TestEscapeInsideCardioid(t *testing.T) {
	seeds := []complex128{0, 0.1, -0.1, 0.2i, -0.2i, 0.15 + 0.15i, -0.25, 0.24}
	for _, c := range seeds {
		for _, budget := range []int{1, 2, 10, 1000} {
			if n, diverged := Escape(c, budget, 4); diverged {
				t.Errorf("Escape(%v, %d) diverged at %d, want bounded", c, budget, n)
			}
		}
	}
}

func TestEscapeFirstStep(t *testing.T) {
	seeds := []complex128{2.0001, 2.5, -3, 2i + 1, -2 - 2i}
	for _, c := range seeds {
		n, diverged := Escape(c, 50, 4)
		if !diverged || n != 1 {
			t.Errorf("Escape(%v) = %d, %v; want 1, true", c, n, diverged)
		}
	}
}

func TestEscapeMatchesComplexArithmetic(t *testing.T) {
	seeds := []complex128{0.3 + 0.5i, -0.75 + 0.1i, 0.26, 0.4 - 0.3i}
	for _, c := range seeds {
		want := 0
		var z complex128
		for i := 0; i < 500; i++ {
			z = z*z + c
			if real(z)*real(z)+imag(z)*imag(z) > 16 {
				want = i + 1
				break
			}
		}
		got, diverged := Escape(c, 500, 16)
		if got != want || diverged != (want != 0) {
			t.Errorf("Escape(%v) = %d, %v; want %d", c, got, diverged, want)
		}
	}
}

func TestOrbit(t *testing.T) {
	c := complex(0.5, 0.5)
	zs, diverged := Orbit(c, 100, 4, nil)
	if !diverged {
		t.Fatalf("Orbit(%v) bounded, want diverged", c)
	}
	n, _ := Escape(c, 100, 4)
	if len(zs) != n-1 {
		t.Fatalf("len(orbit) = %d, want %d", len(zs), n-1)
	}
	var z complex128
	for i, got := range zs {
		z = z*z + c
		if cmplx.Abs(got-z) > 1e-12 {
			t.Errorf("orbit[%d] = %v, want %v", i, got, z)
		}
		if cmplx.Abs(got) > 2 {
			t.Errorf("orbit[%d] = %v beyond the threshold", i, got)
		}
	}
}

func TestOrbitBoundedIsDiscarded(t *testing.T) {
	zs, diverged := Orbit(-1, 100, 4, make([]complex128, 0, 8))
	if diverged || zs != nil {
		t.Errorf("Orbit(-1) = %v, %v; want nil, false", zs, diverged)
	}
}

func TestOrbitImmediateEscape(t *testing.T) {
	zs, diverged := Orbit(3, 10, 4, nil)
	if !diverged || len(zs) != 0 {
		t.Errorf("Orbit(3) = %v, %v; want empty, true", zs, diverged)
	}
}
