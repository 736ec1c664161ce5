package layout

import (
	"math/rand/v2"

	"github.com/mhuebner/videowall/pkg/canvas"
)

// Options tune the planner. The zero value is not useful; pass nil to Plan
// for the defaults.
type Options struct {
	// GridCols and GridRows set the coarse placement grid resolution,
	// independent of canvas pixel size.
	GridCols int
	GridRows int

	// Spacing is the pixel margin kept between container edges and around
	// the canvas border.
	Spacing int

	// MaxAttempts is the per-container share of the global attempt budget:
	// a Plan call for n containers tries at most n*MaxAttempts placements.
	MaxAttempts int

	// SizeJitter scales final pixel dimensions by a uniform factor in
	// [1-SizeJitter, 1+SizeJitter] for visual variety.
	SizeJitter float64

	// WidenChance is the probability of widening a span by one cell on its
	// minor axis.
	WidenChance float64

	// Type selection weights. They are used relative to their sum.
	SquareWeight           float64
	VerticalStripeWeight   float64
	HorizontalStripeWeight float64

	// Cutout window size range, as fractions of the source frame's shorter
	// side.
	CutoutMin float64
	CutoutMax float64
}

var defaultOpts = Options{
	GridCols:               12,
	GridRows:               8,
	Spacing:                4,
	MaxAttempts:            12,
	SizeJitter:             0.10,
	WidenChance:            0.25,
	SquareWeight:           0.50,
	VerticalStripeWeight:   0.25,
	HorizontalStripeWeight: 0.25,
	CutoutMin:              0.3,
	CutoutMax:              0.7,
}

// placement pairs a planned container with the grid span it occupies.
// The span exists only for planning-time bookkeeping and tests.
type placement struct {
	container Container
	anchor    cell
	wCells    int
	hCells    int
}

// Plan synthesizes a container layout for cv with a target count drawn
// uniformly from [minCount, maxCount]. The same canvas, counts, seed, and
// options always produce the same layout.
//
// Plan may return fewer containers than requested when the attempt budget is
// exhausted; this is a documented degradation, not an error. It never blocks
// indefinitely and never emits a partial or out-of-bounds container. Counts
// are normalized so that 1 <= minCount <= maxCount.
func Plan(cv canvas.Spec, minCount, maxCount int, seed uint64, opts *Options) []Container {
	placements := plan(cv, minCount, maxCount, seed, opts)
	out := make([]Container, len(placements))
	for i, p := range placements {
		out[i] = p.container
	}
	return out
}

func plan(cv canvas.Spec, minCount, maxCount int, seed uint64, opts *Options) []placement {
	if opts == nil {
		opts = &defaultOpts
	}
	if cv.Validate() != nil {
		return nil
	}
	minCount = max(1, minCount)
	maxCount = max(minCount, maxCount)

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	target := minCount + rng.IntN(maxCount-minCount+1)
	grid := newOccupancy(opts.GridCols, opts.GridRows)

	// Grid-to-pixel conversion truncates; the remainder is absorbed by the
	// right/bottom canvas margin.
	cellW := cv.Width / opts.GridCols
	cellH := cv.Height / opts.GridRows

	out := make([]placement, 0, target)
	for budget := target * opts.MaxAttempts; len(out) < target && budget > 0; budget-- {
		typ := pickType(rng, opts)
		wCells, hCells, vertical := spanFor(typ, rng, opts)

		cands := grid.candidates(wCells, hCells)
		if len(cands) == 0 {
			// Failed attempt: retry with a fresh type and size on the next
			// iteration, consuming one unit of the budget.
			continue
		}
		anchor := cands[rng.IntN(len(cands))]
		grid.mark(anchor.col, anchor.row, wCells, hCells)

		c := buildContainer(cv, rng, opts, typ, vertical, anchor, wCells, hCells, cellW, cellH)
		out = append(out, placement{container: c, anchor: anchor, wCells: wCells, hCells: hCells})
	}
	return out
}

// pickType selects a container type by weighted random choice.
func pickType(rng *rand.Rand, opts *Options) Type {
	total := opts.SquareWeight + opts.VerticalStripeWeight + opts.HorizontalStripeWeight
	if total <= 0 {
		return TypeSquare
	}
	r := rng.Float64() * total
	if r < opts.SquareWeight {
		return TypeSquare
	}
	if r < opts.SquareWeight+opts.VerticalStripeWeight {
		return TypeVerticalStripe
	}
	return TypeHorizontalStripe
}

// spanFor derives a randomized grid-cell span for the given type. Vertical
// stripes are narrow and tall, horizontal stripes wide and short, squares
// roughly equal on both axes. With a small probability the minor axis is
// widened by one cell for extra variety.
func spanFor(typ Type, rng *rand.Rand, opts *Options) (wCells, hCells int, vertical bool) {
	switch typ {
	case TypeVerticalStripe:
		wCells = 1 + rng.IntN(2)
		hCells = 3 + rng.IntN(4)
		vertical = true
	case TypeHorizontalStripe:
		wCells = 3 + rng.IntN(4)
		hCells = 1 + rng.IntN(2)
	default:
		n := 2 + rng.IntN(3)
		wCells, hCells = n, n
		vertical = rng.Float64() < 0.5
	}

	if rng.Float64() < opts.WidenChance {
		if vertical {
			wCells++
		} else {
			hCells++
		}
	}
	wCells = min(wCells, opts.GridCols)
	hCells = min(hCells, opts.GridRows)
	return wCells, hCells, vertical
}

func buildContainer(cv canvas.Spec, rng *rand.Rand, opts *Options, typ Type, vertical bool, anchor cell, wCells, hCells, cellW, cellH int) Container {
	jitter := 1 + (rng.Float64()*2-1)*opts.SizeJitter
	pw := sizePixels(wCells*cellW, jitter, opts.Spacing, cv.Width)
	ph := sizePixels(hCells*cellH, jitter, opts.Spacing, cv.Height)

	x := positionPixels(rng, anchor.col*cellW, pw, opts.Spacing, cv.Width)
	y := positionPixels(rng, anchor.row*cellH, ph, opts.Spacing, cv.Height)

	return Container{
		WidthFrac:  float64(pw) / float64(cv.Width),
		HeightFrac: float64(ph) / float64(cv.Height),
		X:          x,
		Y:          y,
		Type:       typ,
		Vertical:   vertical,
		Rotation:   pickRotation(rng, typ),
		CutoutFrac: opts.CutoutMin + rng.Float64()*(opts.CutoutMax-opts.CutoutMin),
		CutoutX:    rng.Float64(),
		CutoutY:    rng.Float64(),
	}
}

// sizePixels turns a raw pixel span into the jittered final size, keeping
// the spacing margin on both sides and never exceeding the canvas dimension.
func sizePixels(spanPx int, jitter float64, spacing, canvasDim int) int {
	px := int(float64(spanPx-2*spacing) * jitter)
	return clamp(px, 1, max(1, canvasDim-2*spacing))
}

// positionPixels jitters the anchor position by up to one spacing unit in
// each direction and clamps the result to [spacing, canvasDim-size-spacing],
// collapsing to [0, canvasDim-size] when the container nearly fills the
// canvas. Coordinates are never negative and the container always fits.
func positionPixels(rng *rand.Rand, base, size, spacing, canvasDim int) int {
	px := base + spacing
	if spacing > 0 {
		px += rng.IntN(2*spacing+1) - spacing
	}
	lo, hi := spacing, canvasDim-size-spacing
	if hi < lo {
		lo, hi = 0, max(0, canvasDim-size)
	}
	return clamp(px, lo, hi)
}

// pickRotation assigns a rotation consistent with the container type:
// stripes only rotate by axis-preserving amounts, squares rotate freely.
func pickRotation(rng *rand.Rand, typ Type) int {
	if typ == TypeSquare {
		return []int{Rotate0, Rotate90, Rotate180, Rotate270}[rng.IntN(4)]
	}
	return []int{Rotate0, Rotate180}[rng.IntN(2)]
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
