package canvas

import (
	"image"
	"image/color"
	"testing"

	"github.com/mhuebner/videowall/pkg/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		wantErr bool
	}{
		{name: "Valid", spec: Spec{Width: 1920, Height: 1080}},
		{name: "ZeroWidth", spec: Spec{Width: 0, Height: 1080}, wantErr: true},
		{name: "NegativeHeight", spec: Spec{Width: 640, Height: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidCanvas) {
				t.Errorf("Validate() code = %q, want INVALID_CANVAS", errors.GetCode(err))
			}
		})
	}
}

func whiteTile(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	return img
}

func TestBlitInBounds(t *testing.T) {
	cv := Spec{Width: 10, Height: 10}
	dst := cv.NewBuffer()

	Blit(dst, whiteTile(4, 4), 3, 3)

	if got := dst.RGBAAt(3, 3); got.R != 255 {
		t.Errorf("pixel (3,3) = %v, want white", got)
	}
	if got := dst.RGBAAt(6, 6); got.R != 255 {
		t.Errorf("pixel (6,6) = %v, want white", got)
	}
	if got := dst.RGBAAt(2, 3); got.R != 0 {
		t.Errorf("pixel (2,3) = %v, want untouched", got)
	}
	if got := dst.RGBAAt(7, 7); got.R != 0 {
		t.Errorf("pixel (7,7) = %v, want untouched", got)
	}
}

func TestBlitClipsAtEdge(t *testing.T) {
	cv := Spec{Width: 10, Height: 10}
	dst := cv.NewBuffer()

	// Tile extends 2px past the right and bottom edges.
	Blit(dst, whiteTile(4, 4), 8, 8)

	if got := dst.RGBAAt(9, 9); got.R != 255 {
		t.Errorf("pixel (9,9) = %v, want white (overlap written)", got)
	}
	if got := dst.RGBAAt(7, 8); got.R != 0 {
		t.Errorf("pixel (7,8) = %v, want untouched", got)
	}
}

func TestBlitNegativeOrigin(t *testing.T) {
	cv := Spec{Width: 10, Height: 10}
	dst := cv.NewBuffer()

	// Top-left corner clipped; the source must be shifted by the same amount
	// so the visible part comes from the tile's lower-right region.
	tile := image.NewRGBA(image.Rect(0, 0, 4, 4))
	tile.SetRGBA(3, 3, color.RGBA{R: 255, A: 255})
	Blit(dst, tile, -3, -3)

	if got := dst.RGBAAt(0, 0); got.R != 255 {
		t.Errorf("pixel (0,0) = %v, want tile pixel (3,3)", got)
	}
}

func TestBlitFullyOutside(t *testing.T) {
	cv := Spec{Width: 10, Height: 10}
	dst := cv.NewBuffer()

	Blit(dst, whiteTile(4, 4), 50, 50)
	Blit(dst, whiteTile(4, 4), -20, -20)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if dst.RGBAAt(x, y).R != 0 {
				t.Fatalf("pixel (%d,%d) written by out-of-bounds blit", x, y)
			}
		}
	}
}
