package grid

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	fractal "github.com/lesguillemets/rgae"
	"github.com/lesguillemets/rgae/iterate"
)

func TestSetEscape(t *testing.T) {
	a := NewAccumulator(fractal.Full.Viewport(3, 2))
	if err := a.SetEscape(4, 7); err != nil {
		t.Fatal(err)
	}
	if got := a.Grid().At(1, 1); got != 7 {
		t.Errorf("At(1,1) = %d, want 7", got)
	}
	if got := a.Grid().Max(); got != 7 {
		t.Errorf("Max() = %d, want 7", got)
	}
	for _, idx := range []int{-1, 6} {
		if err := a.SetEscape(idx, 1); !errors.Is(err, fractal.ErrOutOfGrid) {
			t.Errorf("SetEscape(%d) = %v, want ErrOutOfGrid", idx, err)
		}
	}
}

func TestAddOrbitConjugate(t *testing.T) {
	// 4x4 cells of size 1 over [-2,2]x[-2,2]
	a := NewAccumulator(fractal.Buddha.Viewport(4, 4))
	if err := a.AddOrbit([]complex128{complex(0.5, 1.5), complex(-1.5, -0.5)}); err != nil {
		t.Fatal(err)
	}
	want := map[[2]int]uint32{
		{2, 3}: 1, {2, 0}: 1, // 0.5±1.5i
		{0, 1}: 1, {0, 2}: 1, // -1.5∓0.5i
	}
	g := a.Grid()
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if got := g.At(x, y); got != want[[2]int{x, y}] {
				t.Errorf("At(%d,%d) = %d, want %d", x, y, got, want[[2]int{x, y}])
			}
		}
	}
}

func TestAddOrbitRealAxisCountsTwice(t *testing.T) {
	a := NewAccumulator(fractal.Buddha.Viewport(4, 4))
	if err := a.AddOrbit([]complex128{complex(-0.5, 0)}); err != nil {
		t.Fatal(err)
	}
	if got := a.Grid().At(1, 2); got != 2 {
		t.Errorf("At(1,2) = %d, want 2", got)
	}
}

func TestAddOrbitOutOfGrid(t *testing.T) {
	a := NewAccumulator(fractal.Full.Viewport(4, 4))
	err := a.AddOrbit([]complex128{complex(1.9, 0.1)})
	if !errors.Is(err, fractal.ErrOutOfGrid) {
		t.Errorf("AddOrbit outside view = %v, want ErrOutOfGrid", err)
	}
}

func TestAddOrbitEscapeCircle(t *testing.T) {
	cfg := fractal.DefaultConfig(fractal.OrbitDensity)
	a := NewAccumulator(cfg.View)
	edge := []complex128{
		complex(2, 0),
		complex(0, 1.9999999999999998),
		complex(-2, -2),
		complex(2, 2),
	}
	if err := a.AddOrbit(edge); err != nil {
		t.Fatalf("AddOrbit on the view edge: %v", err)
	}
	for _, c := range []complex128{1, complex(0, -2)} {
		zs, diverged := iterate.Orbit(c, cfg.MaxIterations, cfg.Threshold, nil)
		if !diverged {
			t.Fatalf("Orbit(%v) stayed bounded", c)
		}
		if err := a.AddOrbit(zs); err != nil {
			t.Errorf("AddOrbit(Orbit(%v)) = %v", c, err)
		}
	}
	if err := a.AddOrbit([]complex128{complex(2.01, 0)}); !errors.Is(err, fractal.ErrOutOfGrid) {
		t.Errorf("AddOrbit past the edge = %v, want ErrOutOfGrid", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	g := New(5, 3)
	for i := range g.Cells {
		g.Cells[i] = uint32(i * i * 1000)
	}
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, g); err != nil {
		t.Fatal(err)
	}
	got, err := ReadSnapshot(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(g) {
		t.Errorf("ReadSnapshot = %+v, want %+v", got, g)
	}

	path := filepath.Join(t.TempDir(), "run.grid.zst")
	if err := SaveSnapshot(path, g); err != nil {
		t.Fatal(err)
	}
	got, err = LoadSnapshot(path)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(g) {
		t.Errorf("LoadSnapshot = %+v, want %+v", got, g)
	}
}

func TestReadSnapshotRejectsGarbage(t *testing.T) {
	if _, err := ReadSnapshot(bytes.NewReader([]byte("definitely not zstd"))); err == nil {
		t.Error("ReadSnapshot(garbage) succeeded")
	}
}
