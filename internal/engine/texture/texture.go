// Package texture provides the images the surface viewer drapes over its
// tiles.
package texture

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	gomath "math"
	"os"
)

// Ocean returns a size by size tileable water texture: a deep blue base
// with a few interfering swell bands and brighter crests.
func Ocean(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	deep := [3]float64{12, 46, 92}
	crest := [3]float64{70, 140, 190}

	for y := range size {
		for x := range size {
			h := swell(float64(x)/float64(size), float64(y)/float64(size))
			t := gomath.Pow(min(max((h+1)/2, 0), 1), 2.2)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(deep[0] + t*(crest[0]-deep[0])),
				G: uint8(deep[1] + t*(crest[1]-deep[1])),
				B: uint8(deep[2] + t*(crest[2]-deep[2])),
				A: 255,
			})
		}
	}
	return img
}

// Integer wave numbers keep the pattern seamless across tile edges.
var waves = []struct{ kx, ky, amp float64 }{
	{3, 1, 0.45},
	{-2, 5, 0.30},
	{7, -4, 0.15},
	{11, 9, 0.10},
}

// swell returns the wave height in [-1, 1] at texture coordinate u, v.
func swell(u, v float64) float64 {
	var h float64
	for _, w := range waves {
		h += w.amp * gomath.Sin(2*gomath.Pi*(w.kx*u+w.ky*v))
	}
	return h
}

// Load decodes a PNG or JPEG file.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening texture: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding texture %s: %w", path, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("texture %s (%s) is empty", path, format)
	}
	return img, nil
}
