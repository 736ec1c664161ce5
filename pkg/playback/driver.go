// Package playback renders scenes into canvas frames.
//
// The Driver owns the per-frame loop: it pulls the next source frame,
// composites every container against that shared frame in parallel, blits
// the tiles onto a black canvas, and finishes with the decorative overlay
// and telemetry captions. One Driver serves one scene; plan a new scene and
// build a new Driver to change the layout.
package playback

import (
	"context"
	"image"
	"image/draw"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/mhuebner/videowall/pkg/canvas"
	"github.com/mhuebner/videowall/pkg/compose"
	"github.com/mhuebner/videowall/pkg/observability"
	"github.com/mhuebner/videowall/pkg/scene"
	"github.com/mhuebner/videowall/pkg/source"
)

// Options tune the playback driver.
type Options struct {
	// Workers bounds concurrent per-container compositing. Zero or negative
	// means one worker per container.
	Workers int

	// Decor enables the translucent background ornaments.
	Decor bool

	// Telemetry enables the per-container caption lines.
	Telemetry bool

	// Logger receives debug-level render diagnostics. Nil disables logging.
	Logger *log.Logger
}

// Driver renders a scene frame by frame.
type Driver struct {
	scn  *scene.Scene
	src  source.Source
	cv   canvas.Spec
	opts Options

	buf   *image.RGBA
	decor *image.RGBA
	caps  []caption
}

// New builds a driver for the given scene and frame source. The scene is
// validated once here; RenderFrame trusts it afterwards.
func New(scn *scene.Scene, src source.Source, opts Options) (*Driver, error) {
	if err := scn.Validate(); err != nil {
		return nil, err
	}

	d := &Driver{
		scn:  scn,
		src:  src,
		cv:   scn.Canvas(),
		opts: opts,
		buf:  scn.Canvas().NewBuffer(),
	}
	if opts.Decor {
		d.decor = renderDecor(d.cv, scn.Seed)
	}
	if opts.Telemetry {
		d.caps = planCaptions(scn)
	}
	if opts.Logger != nil {
		opts.Logger.Debugf("playback driver for scene %s: %d containers on %dx%d",
			scn.ID, len(scn.Containers), d.cv.Width, d.cv.Height)
	}
	return d, nil
}

// RenderFrame produces the next full canvas frame. The returned buffer is
// reused across calls; callers that keep frames must copy them.
//
// A failing source pull degrades the pass to black tiles; only a canceled
// context aborts the frame.
func (d *Driver) RenderFrame(ctx context.Context) (*image.RGBA, error) {
	n := len(d.scn.Containers)
	observability.Playback().OnFrameStart(ctx, n)
	start := time.Now()

	// One frame per pass: every container composites a fragment of the same
	// source frame. The compositor only reads it, so the parallel pass can
	// share it without copying.
	frame, err := d.src.Next(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		frame = nil
	}

	workers := d.opts.Workers
	if workers < 1 {
		workers = n
	}

	tiles := make([]image.Image, n)
	fallbacks := make([]bool, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range d.scn.Containers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t0 := time.Now()
			tile, fallback := compose.CompositeWithFallback(frame, d.scn.Containers[i], d.cv)
			observability.Compositor().OnComposite(gctx, i, time.Since(t0), fallback)
			tiles[i] = tile
			fallbacks[i] = fallback
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if d.opts.Logger != nil {
		for i, fb := range fallbacks {
			if fb {
				d.opts.Logger.Debugf("container %d degraded to black tile", i)
			}
		}
	}

	clear(d.buf.Pix)
	setOpaque(d.buf)
	if d.decor != nil {
		draw.Draw(d.buf, d.buf.Bounds(), d.decor, image.Point{}, draw.Over)
	}
	for i, c := range d.scn.Containers {
		canvas.Blit(d.buf, tiles[i], c.X, c.Y)
	}
	if d.opts.Telemetry {
		drawCaptions(d.buf, d.caps)
	}

	observability.Playback().OnFrameComplete(ctx, n, time.Since(start))
	return d.buf, nil
}

// Scene returns the scene this driver renders.
func (d *Driver) Scene() *scene.Scene { return d.scn }

// Close releases the driver's frame source.
func (d *Driver) Close() error { return d.src.Close() }

// setOpaque restores full alpha after the pixel buffer was zeroed.
func setOpaque(img *image.RGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
}
