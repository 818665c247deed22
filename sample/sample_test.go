package sample

import (
	"math"
	"math/cmplx"
	"testing"

	fractal "github.com/lesguillemets/rgae"
)

func TestPixelsRowMajor(t *testing.T) {
	view := fractal.Viewport{Left: -2, Top: -1, Width: 4, Height: 2, ImgWidth: 4, ImgHeight: 2}
	p := Pixels{View: view}
	want := []complex128{
		complex(-2, -1), complex(-1, -1), complex(0, -1), complex(1, -1),
		complex(-2, 0), complex(-1, 0), complex(0, 0), complex(1, 0),
	}
	if p.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", p.Len(), len(want))
	}
	for pass := 0; pass < 2; pass++ {
		for i, w := range want {
			s := p.At(i)
			if s.C != w || s.Random {
				t.Errorf("pass %d: At(%d) = %+v, want %v", pass, i, s, w)
			}
		}
	}
}

func TestDrawerDeterministic(t *testing.T) {
	view := fractal.Buddha.Viewport(10, 10)
	for _, dist := range []fractal.Distribution{fractal.Rectangle, fractal.Polar} {
		a := NewDrawer(42, dist, view, 2).Draw(100)
		b := NewDrawer(42, dist, view, 2).Draw(100)
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("%v: seed 42 draw %d differs: %v vs %v", dist, i, a[i], b[i])
			}
		}
		c := NewDrawer(43, dist, view, 2).Draw(100)
		same := 0
		for i := range a {
			if a[i] == c[i] {
				same++
			}
		}
		if same == len(a) {
			t.Errorf("%v: different seeds drew identical sequences", dist)
		}
	}
}

func TestDrawerBounds(t *testing.T) {
	view := fractal.Viewport{Left: -2, Top: -1.5, Width: 3, Height: 3, ImgWidth: 3, ImgHeight: 3}
	for _, c := range NewDrawer(7, fractal.Rectangle, view, 0).Draw(1000) {
		if real(c) < -2 || real(c) >= 1 || imag(c) < -1.5 || imag(c) >= 1.5 {
			t.Errorf("rect draw %v outside %v", c, view)
		}
	}
	for _, c := range NewDrawer(7, fractal.Polar, view, 1.5).Draw(1000) {
		if cmplx.Abs(c) > 1.5+1e-12 || imag(c) < 0 {
			t.Errorf("polar draw %v outside upper half disk of radius 1.5", c)
		}
		if a := cmplx.Phase(c); a < 0 || a > math.Pi {
			t.Errorf("polar draw %v has angle %v", c, a)
		}
	}
}

func TestForConfig(t *testing.T) {
	cfg := fractal.DefaultConfig(fractal.OrbitDensity)
	cfg.Samples = 17
	sp, err := ForConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if sp.Len() != 17 || !sp.At(3).Random {
		t.Errorf("orbit space: Len() = %d, At(3) = %+v", sp.Len(), sp.At(3))
	}

	cfg = fractal.DefaultConfig(fractal.EscapeTime)
	cfg.View = fractal.Full.Viewport(5, 3)
	sp, err = ForConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if sp.Len() != 15 || sp.At(0).Random {
		t.Errorf("escape space: Len() = %d, At(0) = %+v", sp.Len(), sp.At(0))
	}
}
