package layout

import (
	"math"

	"github.com/mhuebner/videowall/pkg/canvas"
)

// Container types. The type drives the aspect-ratio skew of the planned
// rectangle: stripes span few cells on one axis and many on the other,
// squares span roughly equal cell counts.
const (
	TypeSquare           Type = "square"
	TypeVerticalStripe   Type = "vertical_stripe"
	TypeHorizontalStripe Type = "horizontal_stripe"
)

// Type classifies the shape of a planned container.
type Type string

// Rotations applied to the source frame before compositing, in degrees
// clockwise. Stripes keep their axis alignment ({0, 180}); squares may use
// all four.
const (
	Rotate0   = 0
	Rotate90  = 90
	Rotate180 = 180
	Rotate270 = 270
)

// Container is one planned rectangle of the scene layout. A set of
// containers is created once per scene change and is immutable for the
// scene's duration; the frame compositor only reads it.
type Container struct {
	// Target size as fractions of the canvas, in (0, 1].
	WidthFrac  float64 `json:"width_frac"`
	HeightFrac float64 `json:"height_frac"`

	// Top-left pixel position on the canvas. The planner guarantees
	// X + round(WidthFrac*canvas.Width) <= canvas.Width (and likewise for Y)
	// at creation time; it is not re-checked later.
	X int `json:"x"`
	Y int `json:"y"`

	Type Type `json:"type"`

	// Vertical is the orientation flag, independent of Type. It selects the
	// axis along which the compositor widens the cutout window.
	Vertical bool `json:"vertical"`

	// Rotation is one of 0, 90, 180, 270 degrees clockwise.
	Rotation int `json:"rotation"`

	// Cutout window: CutoutFrac in [0,1] is the fraction of the source
	// frame's shorter side used as the pre-crop window size; CutoutX/Y in
	// [0,1] are normalized anchors within the remaining slack.
	CutoutFrac float64 `json:"cutout_frac"`
	CutoutX    float64 `json:"cutout_x"`
	CutoutY    float64 `json:"cutout_y"`
}

// PixelWidth returns the container's target width in pixels on cv,
// rounded and clamped to at least 1.
func (c Container) PixelWidth(cv canvas.Spec) int {
	return max(1, int(math.Round(c.WidthFrac*float64(cv.Width))))
}

// PixelHeight returns the container's target height in pixels on cv,
// rounded and clamped to at least 1.
func (c Container) PixelHeight(cv canvas.Spec) int {
	return max(1, int(math.Round(c.HeightFrac*float64(cv.Height))))
}
