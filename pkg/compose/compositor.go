// Package compose implements the frame compositor.
//
// [Composite] transforms an arbitrary source frame into an image of exactly
// one container's target pixel dimensions through a fixed pipeline: rotate,
// cutout pre-crop, aspect-fill resize, center-crop. The pipeline is
// deterministic (all randomness lives in the planned container) and total:
// degenerate inputs such as nil frames, zero dimensions, or zero-size crops
// degrade to a solid black tile of the correct size instead of propagating
// an error. A broken container renders as a black rectangle; it never aborts
// the caller's per-container loop.
package compose

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/mhuebner/videowall/pkg/canvas"
	"github.com/mhuebner/videowall/pkg/layout"
)

// cutoutWiden stretches the cutout window along the container's orientation
// axis: taller for vertical containers, wider for horizontal ones.
const cutoutWiden = 1.5

// Composite renders frame into spec's container on cv, returning an image of
// exactly PixelWidth×PixelHeight. It never fails: any degenerate input
// yields a solid black tile of the exact target size. Identical inputs
// always produce identical output.
func Composite(frame image.Image, spec layout.Container, cv canvas.Spec) image.Image {
	img, _ := CompositeWithFallback(frame, spec, cv)
	return img
}

// CompositeWithFallback is Composite plus a flag reporting whether the black
// fallback tile was substituted. The playback driver uses the flag for
// observability hooks.
func CompositeWithFallback(frame image.Image, spec layout.Container, cv canvas.Spec) (image.Image, bool) {
	tw := spec.PixelWidth(cv)
	th := spec.PixelHeight(cv)

	if frame == nil {
		return blackTile(tw, th), true
	}
	if b := frame.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return blackTile(tw, th), true
	}

	rotated := rotate(frame, spec.Rotation)

	cut, ok := cutout(rotated, spec)
	if !ok {
		return blackTile(tw, th), true
	}

	// Aspect-fill: uniform scale so the crop covers the target on both axes,
	// then trim the excess symmetrically from the center.
	out := imaging.Fill(cut, tw, th, imaging.Center, imaging.Lanczos)
	if out.Bounds().Dx() != tw || out.Bounds().Dy() != th {
		return blackTile(tw, th), true
	}
	return out, false
}

// rotate turns the whole frame by an exact multiple of 90° clockwise.
// imaging rotates counter-clockwise, so 90 and 270 are swapped.
func rotate(frame image.Image, degrees int) image.Image {
	switch degrees {
	case layout.Rotate90:
		return imaging.Rotate270(frame)
	case layout.Rotate180:
		return imaging.Rotate180(frame)
	case layout.Rotate270:
		return imaging.Rotate90(frame)
	default:
		return frame
	}
}

// cutout extracts the pre-crop sampling window from the (rotated) frame. The
// window is sized as CutoutFrac of the frame's shorter side, widened along
// the orientation axis, clamped to the frame, and anchored within the
// remaining slack by the normalized CutoutX/CutoutY coordinates. It reports
// false when the window would be empty.
func cutout(frame image.Image, spec layout.Container) (image.Image, bool) {
	fw := frame.Bounds().Dx()
	fh := frame.Bounds().Dy()

	side := spec.CutoutFrac * float64(min(fw, fh))
	cw, ch := side, side
	if spec.Vertical {
		ch *= cutoutWiden
	} else {
		cw *= cutoutWiden
	}

	cwi := min(int(cw), fw)
	chi := min(int(ch), fh)
	if cwi < 1 || chi < 1 {
		return nil, false
	}

	x0 := int(float64(fw-cwi) * spec.CutoutX)
	y0 := int(float64(fh-chi) * spec.CutoutY)
	return imaging.Crop(frame, image.Rect(x0, y0, x0+cwi, y0+chi)), true
}

func blackTile(w, h int) image.Image {
	return imaging.New(w, h, color.NRGBA{A: 255})
}
