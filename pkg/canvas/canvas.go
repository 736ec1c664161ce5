// Package canvas defines the shared display surface that composited
// container tiles are blitted onto.
//
// A [Spec] describes the fixed pixel dimensions of the canvas. It is owned by
// the caller and passed by value into the planner and compositor; neither
// mutates it. [Blit] implements the caller contract for writing composited
// sub-images: destination and source are clipped identically so containers
// jittered against the canvas edge never write out of bounds.
package canvas

import (
	"image"
	"image/draw"

	"github.com/mhuebner/videowall/pkg/errors"
)

// Spec holds the immutable pixel dimensions of the display canvas.
type Spec struct {
	Width  int
	Height int
}

// Validate returns an error unless both dimensions are positive.
func (s Spec) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidCanvas, "canvas %dx%d: dimensions must be positive", s.Width, s.Height)
	}
	return nil
}

// Bounds returns the canvas rectangle anchored at the origin.
func (s Spec) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

// NewBuffer allocates a zeroed (black, opaque alpha unset) RGBA buffer
// matching the canvas dimensions.
func (s Spec) NewBuffer() *image.RGBA {
	return image.NewRGBA(s.Bounds())
}

// Blit writes src onto dst with its top-left corner at (x, y), clipping the
// destination rectangle to the canvas bounds and the source identically.
// Only the overlapping region is written; a placement fully outside the
// canvas is a no-op. dst must have the canvas dimensions.
func Blit(dst *image.RGBA, src image.Image, x, y int) {
	sb := src.Bounds()
	target := image.Rect(x, y, x+sb.Dx(), y+sb.Dy())

	clipped := target.Intersect(dst.Bounds())
	if clipped.Empty() {
		return
	}

	// Shift the source origin by the same amount the destination was clipped.
	srcPt := sb.Min.Add(image.Pt(clipped.Min.X-target.Min.X, clipped.Min.Y-target.Min.Y))
	draw.Draw(dst, clipped, src, srcPt, draw.Src)
}
