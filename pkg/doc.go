// Package pkg provides the core libraries for the videowall ambient display.
//
// # Overview
//
// Videowall cuts a source video frame into several independently sized
// rectangular containers tiled across a canvas, each showing a cropped and
// rescaled fragment of the current frame. The pkg directory is organized
// around that flow:
//
//	Frame source (pkg/source)
//	         ↓
//	    [layout] package (plan container rectangles, once per scene)
//	         ↓
//	    [compose] package (per container: rotate → cutout → fill → crop)
//	         ↓
//	    [playback] package (blit onto the shared canvas, draw overlays)
//
// # Quick Start
//
// Plan a scene and render one frame:
//
//	cv := canvas.Spec{Width: 1920, Height: 1080}
//	sc, err := scene.New(ctx, cv, 2, 10, 42, nil)
//	if err != nil { ... }
//
//	src, err := source.OpenDir("frames", sc.Seed)
//	if err != nil { ... }
//	defer src.Close()
//
//	drv, err := playback.New(sc, src, playback.Options{Workers: 4})
//	if err != nil { ... }
//	out, err := drv.RenderFrame(ctx)
//
// # Main Packages
//
// [canvas] - Canvas dimensions and clipped blitting of composited tiles.
//
// [layout] - The layout planner: retry-bounded randomized placement of
// container rectangles over a coarse occupancy grid.
//
// [compose] - The frame compositor: deterministic crop → scale → crop
// pipeline producing exact-size tiles with a black-frame fallback.
//
// [scene] - A planned layout bound to a canvas, with JSON serialization.
//
// [source] - Frame sources standing in for the external video decoder
// (image directories, single stills, uniform test frames).
//
// [playback] - The per-frame driver: parallel compositing, synchronized
// blitting, and decorative overlays.
//
// [observability] - Optional hooks for planner, compositor, and playback
// instrumentation without hard backend dependencies.
//
// [errors] - Structured error codes for caller-facing surfaces.
//
// [canvas]: https://pkg.go.dev/github.com/mhuebner/videowall/pkg/canvas
// [layout]: https://pkg.go.dev/github.com/mhuebner/videowall/pkg/layout
// [compose]: https://pkg.go.dev/github.com/mhuebner/videowall/pkg/compose
// [scene]: https://pkg.go.dev/github.com/mhuebner/videowall/pkg/scene
// [source]: https://pkg.go.dev/github.com/mhuebner/videowall/pkg/source
// [playback]: https://pkg.go.dev/github.com/mhuebner/videowall/pkg/playback
// [observability]: https://pkg.go.dev/github.com/mhuebner/videowall/pkg/observability
// [errors]: https://pkg.go.dev/github.com/mhuebner/videowall/pkg/errors
package pkg
