package playback

import (
	"context"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/mhuebner/videowall/pkg/canvas"
	"github.com/mhuebner/videowall/pkg/observability"
	"github.com/mhuebner/videowall/pkg/scene"
	"github.com/mhuebner/videowall/pkg/source"
)

var testCanvas = canvas.Spec{Width: 400, Height: 300}

func newTestScene(t *testing.T) *scene.Scene {
	t.Helper()

	s, err := scene.New(context.Background(), testCanvas, 2, 5, 42, nil)
	if err != nil {
		t.Fatalf("scene.New: %v", err)
	}
	return s
}

func whiteSource() source.Source {
	return &source.Uniform{W: 100, H: 100, Color: color.NRGBA{R: 255, G: 255, B: 255, A: 255}}
}

func TestRenderFrameDimensions(t *testing.T) {
	d, err := New(newTestScene(t), whiteSource(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()

	frame, err := d.RenderFrame(context.Background())
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if frame.Bounds().Dx() != testCanvas.Width || frame.Bounds().Dy() != testCanvas.Height {
		t.Errorf("frame %dx%d, want %dx%d", frame.Bounds().Dx(), frame.Bounds().Dy(), testCanvas.Width, testCanvas.Height)
	}
}

func TestRenderFrameTilesAndBackground(t *testing.T) {
	scn := newTestScene(t)
	d, err := New(scn, whiteSource(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()

	frame, err := d.RenderFrame(context.Background())
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}

	// Every container center shows the white source frame.
	for i, c := range scn.Containers {
		x := c.X + c.PixelWidth(testCanvas)/2
		y := c.Y + c.PixelHeight(testCanvas)/2
		if px := frame.RGBAAt(x, y); px.R != 255 || px.G != 255 || px.B != 255 {
			t.Errorf("container %d center (%d,%d) = %v, want white", i, x, y, px)
		}
	}

	// Pixels outside every container stay black.
	inside := func(x, y int) bool {
		for _, c := range scn.Containers {
			if x >= c.X && x < c.X+c.PixelWidth(testCanvas) && y >= c.Y && y < c.Y+c.PixelHeight(testCanvas) {
				return true
			}
		}
		return false
	}
	checked := 0
	for y := 0; y < testCanvas.Height; y += 17 {
		for x := 0; x < testCanvas.Width; x += 17 {
			if inside(x, y) {
				continue
			}
			checked++
			if px := frame.RGBAAt(x, y); px.R != 0 || px.G != 0 || px.B != 0 || px.A != 255 {
				t.Fatalf("background (%d,%d) = %v, want opaque black", x, y, px)
			}
		}
	}
	if checked == 0 {
		t.Fatal("no background pixels sampled")
	}
}

// steppingSource returns a differently colored frame on every pull.
type steppingSource struct {
	pulls int
}

func (s *steppingSource) Next(ctx context.Context) (image.Image, error) {
	s.pulls++
	c := color.NRGBA{R: uint8(40 * s.pulls), G: uint8(255 - 40*s.pulls), B: 128, A: 255}
	return imaging.New(64, 64, c), nil
}

func (s *steppingSource) Close() error { return nil }

func TestRenderFrameSharesOneSourceFrame(t *testing.T) {
	scn := newTestScene(t)
	src := &steppingSource{}
	d, err := New(scn, src, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()

	frame, err := d.RenderFrame(context.Background())
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}

	// One pass pulls exactly one frame and every container shows it.
	if src.pulls != 1 {
		t.Errorf("source pulled %d times, want 1", src.pulls)
	}
	want := color.RGBA{R: 40, G: 215, B: 128, A: 255}
	for i, c := range scn.Containers {
		x := c.X + c.PixelWidth(testCanvas)/2
		y := c.Y + c.PixelHeight(testCanvas)/2
		if px := frame.RGBAAt(x, y); px != want {
			t.Errorf("container %d center = %v, want %v from the shared frame", i, px, want)
		}
	}

	// The next pass advances to the next frame for all containers.
	frame, err = d.RenderFrame(context.Background())
	if err != nil {
		t.Fatalf("second RenderFrame: %v", err)
	}
	if src.pulls != 2 {
		t.Errorf("source pulled %d times after two passes, want 2", src.pulls)
	}
	want = color.RGBA{R: 80, G: 175, B: 128, A: 255}
	for i, c := range scn.Containers {
		x := c.X + c.PixelWidth(testCanvas)/2
		y := c.Y + c.PixelHeight(testCanvas)/2
		if px := frame.RGBAAt(x, y); px != want {
			t.Errorf("container %d center = %v, want %v after advancing", i, px, want)
		}
	}
}

type failingSource struct{}

func (failingSource) Next(ctx context.Context) (image.Image, error) {
	return nil, context.DeadlineExceeded
}
func (failingSource) Close() error { return nil }

func TestRenderFrameDegradesOnSourceError(t *testing.T) {
	scn := newTestScene(t)
	d, err := New(scn, failingSource{}, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()

	frame, err := d.RenderFrame(context.Background())
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}

	// Containers fall back to black tiles; the frame still renders.
	c := scn.Containers[0]
	x := c.X + c.PixelWidth(testCanvas)/2
	y := c.Y + c.PixelHeight(testCanvas)/2
	if px := frame.RGBAAt(x, y); px.R != 0 || px.G != 0 || px.B != 0 {
		t.Errorf("tile center = %v, want black fallback", px)
	}
}

func TestRenderFrameCanceledContext(t *testing.T) {
	d, err := New(newTestScene(t), whiteSource(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.RenderFrame(ctx); err == nil {
		t.Error("expected error from canceled context")
	}
}

func TestRenderFrameWithDecorAndTelemetry(t *testing.T) {
	d, err := New(newTestScene(t), whiteSource(), Options{Decor: true, Telemetry: true, Workers: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()

	for i := 0; i < 3; i++ {
		if _, err := d.RenderFrame(context.Background()); err != nil {
			t.Fatalf("RenderFrame %d: %v", i, err)
		}
	}
}

func TestRenderFrameDecorVisible(t *testing.T) {
	scn := newTestScene(t)
	d, err := New(scn, whiteSource(), Options{Decor: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()

	frame, err := d.RenderFrame(context.Background())
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}

	inside := func(x, y int) bool {
		for _, c := range scn.Containers {
			if x >= c.X && x < c.X+c.PixelWidth(testCanvas) && y >= c.Y && y < c.Y+c.PixelHeight(testCanvas) {
				return true
			}
		}
		return false
	}
	lit := false
	for y := 0; y < testCanvas.Height && !lit; y++ {
		for x := 0; x < testCanvas.Width; x++ {
			if inside(x, y) {
				continue
			}
			if px := frame.RGBAAt(x, y); px.R > 0 || px.G > 0 || px.B > 0 {
				lit = true
				break
			}
		}
	}
	if !lit {
		t.Error("decor enabled but background is entirely black")
	}
}

type recordingHooks struct {
	mu         sync.Mutex
	frames     int
	composites int
	fallbacks  int
}

func (h *recordingHooks) OnFrameStart(context.Context, int) {}

func (h *recordingHooks) OnFrameComplete(_ context.Context, _ int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames++
}

func (h *recordingHooks) OnComposite(_ context.Context, _ int, _ time.Duration, fallback bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.composites++
	if fallback {
		h.fallbacks++
	}
}

func TestRenderFrameFiresHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPlaybackHooks(hooks)
	observability.SetCompositorHooks(hooks)
	defer observability.Reset()

	scn := newTestScene(t)
	d, err := New(scn, whiteSource(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()

	if _, err := d.RenderFrame(context.Background()); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.frames != 1 {
		t.Errorf("frame hook fired %d times, want 1", hooks.frames)
	}
	if hooks.composites != len(scn.Containers) {
		t.Errorf("composite hook fired %d times, want %d", hooks.composites, len(scn.Containers))
	}
	if hooks.fallbacks != 0 {
		t.Errorf("%d fallbacks reported for a healthy source", hooks.fallbacks)
	}
}

func TestNewRejectsInvalidScene(t *testing.T) {
	scn := newTestScene(t)
	scn.Containers = nil

	if _, err := New(scn, whiteSource(), Options{}); err == nil {
		t.Error("expected error for invalid scene")
	}
}
