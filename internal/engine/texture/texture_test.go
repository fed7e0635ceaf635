package texture

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestOceanTiles(t *testing.T) {
	const size = 64
	img := Ocean(size)
	if img.Bounds().Dx() != size || img.Bounds().Dy() != size {
		t.Fatalf("Ocean(%d) bounds = %v", size, img.Bounds())
	}

	for y := 0; y < size; y++ {
		if a := img.RGBAAt(0, y).A; a != 255 {
			t.Fatalf("row %d: alpha = %d, want 255", y, a)
		}
	}
}

func TestSwellWraps(t *testing.T) {
	for _, v := range []float64{0, 0.13, 0.5, 0.97} {
		if d := swell(0, v) - swell(1, v); d > 1e-9 || d < -1e-9 {
			t.Errorf("swell(0,%v) - swell(1,%v) = %v", v, v, d)
		}
		if d := swell(v, 0) - swell(v, 1); d > 1e-9 || d < -1e-9 {
			t.Errorf("swell(%v,0) - swell(%v,1) = %v", v, v, d)
		}
	}
	for u := 0.0; u < 1; u += 0.01 {
		if h := swell(u, 0.3); h < -1-1e-9 || h > 1+1e-9 {
			t.Fatalf("swell(%v, 0.3) = %v out of range", u, h)
		}
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ocean.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, Ocean(16)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Errorf("width = %d, want 16", img.Bounds().Dx())
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Load() of a missing file succeeded")
	}
}
