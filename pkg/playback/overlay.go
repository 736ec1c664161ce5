package playback

import (
	"fmt"
	"image"
	"image/draw"
	"math/rand/v2"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mhuebner/videowall/pkg/canvas"
	"github.com/mhuebner/videowall/pkg/scene"
)

// renderDecor draws the static background ornaments for a scene: a faint
// full-canvas grid, a wireframe cube, and a hexagon outline. The decor is
// derived from the scene seed, so it is stable for the scene's lifetime and
// rendered once.
func renderDecor(cv canvas.Spec, seed uint64) *image.RGBA {
	rng := rand.New(rand.NewPCG(seed, seed^0x2545f4914f6cdd1d))
	dc := gg.NewContext(cv.Width, cv.Height)
	dc.SetLineWidth(1)

	// Grid.
	spacing := float64(30 + rng.IntN(21))
	dc.SetRGBA(1, 1, 1, 0.1+rng.Float64()*0.2)
	for x := spacing; x < float64(cv.Width); x += spacing {
		dc.DrawLine(x, 0, x, float64(cv.Height))
	}
	for y := spacing; y < float64(cv.Height); y += spacing {
		dc.DrawLine(0, y, float64(cv.Width), y)
	}
	dc.Stroke()

	// Wireframe cube.
	size := float64(40 + rng.IntN(41))
	cx := rng.Float64() * (float64(cv.Width) - 2*size)
	cy := rng.Float64() * (float64(cv.Height) - 2*size)
	dc.SetRGBA(1, 1, 1, 0.1+rng.Float64()*0.2)
	drawCube(dc, cx, cy, size)

	// Hexagon outline.
	r := float64(30 + rng.IntN(31))
	hx := r + rng.Float64()*(float64(cv.Width)-2*r)
	hy := r + rng.Float64()*(float64(cv.Height)-2*r)
	dc.SetRGBA(1, 1, 1, 0.1+rng.Float64()*0.2)
	dc.DrawRegularPolygon(6, hx, hy, r, 0)
	dc.Stroke()

	out := image.NewRGBA(image.Rect(0, 0, cv.Width, cv.Height))
	draw.Draw(out, out.Bounds(), dc.Image(), image.Point{}, draw.Src)
	return out
}

// drawCube strokes a simple two-square wireframe cube with its front face
// anchored at (x, y).
func drawCube(dc *gg.Context, x, y, size float64) {
	off := size * 0.35

	dc.DrawRectangle(x, y, size, size)
	dc.DrawRectangle(x+off, y-off, size, size)
	dc.DrawLine(x, y, x+off, y-off)
	dc.DrawLine(x+size, y, x+size+off, y-off)
	dc.DrawLine(x, y+size, x+off, y+size-off)
	dc.DrawLine(x+size, y+size, x+size+off, y+size-off)
	dc.Stroke()
}

// caption is one telemetry line attached to a container. The label and value
// range are fixed per scene; the displayed value tracks the rendered pixels.
type caption struct {
	x, y   int
	format string
	lo, hi float64
}

var captionKinds = []struct {
	format string
	lo, hi float64
}{
	{format: "QUANTUM FLUX %.3f QF", lo: 0.001, hi: 9.999},
	{format: "CONDENSATION %.1f %%", lo: 20, hi: 99.9},
	{format: "TEMPERATURE %.2f °K", lo: -273.15, hi: 100},
}

// planCaptions assigns each container a telemetry kind and a text anchor
// just inside its top-left corner, seeded from the scene.
func planCaptions(scn *scene.Scene) []caption {
	rng := rand.New(rand.NewPCG(scn.Seed, scn.Seed^0x94d049bb133111eb))
	out := make([]caption, len(scn.Containers))
	for i, c := range scn.Containers {
		kind := captionKinds[rng.IntN(len(captionKinds))]
		out[i] = caption{
			x:      c.X + 4,
			y:      c.Y + 14,
			format: kind.format,
			lo:     kind.lo,
			hi:     kind.hi,
		}
	}
	return out
}

// drawCaptions renders the telemetry lines onto the finished frame. Each
// value is derived from the pixel under the caption anchor, so the readout
// flickers with the underlying video.
func drawCaptions(buf *image.RGBA, caps []caption) {
	d := &font.Drawer{
		Dst:  buf,
		Src:  image.White,
		Face: basicfont.Face7x13,
	}
	for _, c := range caps {
		px := buf.RGBAAt(c.x, c.y)
		norm := float64(int(px.R)+int(px.G)+int(px.B)) / 765
		v := c.lo + norm*(c.hi-c.lo)

		d.Dot = fixed.P(c.x, c.y)
		d.DrawString(fmt.Sprintf(c.format, v))
	}
}
