// Package scene ties a planned layout to a canvas and makes it durable.
//
// A Scene is the unit the rest of the system works with: the canvas
// dimensions, the seed the layout was planned from, and the planned
// containers. Scenes serialize to JSON so a layout can be rendered, served,
// or inspected long after it was planned, and round-trip losslessly because
// the planner stores sizes as exact pixel-derived fractions.
package scene

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/mhuebner/videowall/pkg/canvas"
	"github.com/mhuebner/videowall/pkg/errors"
	"github.com/mhuebner/videowall/pkg/layout"
	"github.com/mhuebner/videowall/pkg/observability"
)

// Scene is a planned container layout bound to a canvas.
type Scene struct {
	ID         uuid.UUID          `json:"id"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	Seed       uint64             `json:"seed"`
	CreatedAt  time.Time          `json:"created_at"`
	Containers []layout.Container `json:"containers"`
}

// New plans a fresh scene for the given canvas. It validates its inputs,
// runs the layout planner, and reports the outcome through the registered
// planner hooks. The result may hold fewer containers than maxCount when
// placement attempts ran out; it always holds at least one.
func New(ctx context.Context, cv canvas.Spec, minCount, maxCount int, seed uint64, opts *layout.Options) (*Scene, error) {
	if err := cv.Validate(); err != nil {
		return nil, err
	}
	if minCount < 1 || maxCount < minCount {
		return nil, errors.New(errors.ErrCodeInvalidCounts, "container counts %d..%d must satisfy 1 <= min <= max", minCount, maxCount)
	}

	observability.Planner().OnPlanStart(ctx, cv.Width, cv.Height, minCount, maxCount)
	start := time.Now()

	containers := layout.Plan(cv, minCount, maxCount, seed, opts)

	observability.Planner().OnPlanComplete(ctx, len(containers), maxCount, time.Since(start))

	return &Scene{
		ID:         uuid.New(),
		Width:      cv.Width,
		Height:     cv.Height,
		Seed:       seed,
		CreatedAt:  time.Now().UTC(),
		Containers: containers,
	}, nil
}

// Canvas returns the canvas spec the scene was planned for.
func (s *Scene) Canvas() canvas.Spec {
	return canvas.Spec{Width: s.Width, Height: s.Height}
}

// Validate checks the scene's structural invariants: a positive canvas, at
// least one container, and every container fully inside the canvas with its
// parameters in range.
func (s *Scene) Validate() error {
	cv := s.Canvas()
	if err := cv.Validate(); err != nil {
		return err
	}
	if len(s.Containers) == 0 {
		return errors.New(errors.ErrCodeInvalidScene, "scene %s has no containers", s.ID)
	}
	for i, c := range s.Containers {
		if err := validateContainer(c, cv); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "container %d", i)
		}
	}
	return nil
}

func validateContainer(c layout.Container, cv canvas.Spec) error {
	if c.WidthFrac <= 0 || c.WidthFrac > 1 || c.HeightFrac <= 0 || c.HeightFrac > 1 {
		return errors.New(errors.ErrCodeInvalidScene, "size fractions %.4fx%.4f outside (0, 1]", c.WidthFrac, c.HeightFrac)
	}
	if c.X < 0 || c.Y < 0 {
		return errors.New(errors.ErrCodeInvalidScene, "negative position (%d, %d)", c.X, c.Y)
	}
	if c.X+c.PixelWidth(cv) > cv.Width || c.Y+c.PixelHeight(cv) > cv.Height {
		return errors.New(errors.ErrCodeInvalidScene, "container at (%d, %d) exceeds %dx%d canvas", c.X, c.Y, cv.Width, cv.Height)
	}
	switch c.Type {
	case layout.TypeSquare, layout.TypeVerticalStripe, layout.TypeHorizontalStripe:
	default:
		return errors.New(errors.ErrCodeInvalidScene, "unknown container type %q", c.Type)
	}
	switch c.Rotation {
	case layout.Rotate0, layout.Rotate90, layout.Rotate180, layout.Rotate270:
	default:
		return errors.New(errors.ErrCodeInvalidScene, "rotation %d not a right angle", c.Rotation)
	}
	if c.CutoutFrac < 0 || c.CutoutFrac > 1 {
		return errors.New(errors.ErrCodeInvalidScene, "cutout fraction %.4f outside [0, 1]", c.CutoutFrac)
	}
	if c.CutoutX < 0 || c.CutoutX > 1 || c.CutoutY < 0 || c.CutoutY > 1 {
		return errors.New(errors.ErrCodeInvalidScene, "cutout anchor (%.4f, %.4f) outside [0, 1]", c.CutoutX, c.CutoutY)
	}
	return nil
}

// Marshal serializes the scene to indented JSON after validating it.
func (s *Scene) Marshal() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal scene %s", s.ID)
	}
	return data, nil
}

// Unmarshal parses and validates a serialized scene.
func Unmarshal(data []byte) (*Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "parse scene JSON")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// WriteFile validates the scene and writes it to path as JSON.
func (s *Scene) WriteFile(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write scene file %s", path)
	}
	return nil
}

// ReadFile loads and validates a scene from a JSON file.
func ReadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read scene file %s", path)
	}
	return Unmarshal(data)
}
