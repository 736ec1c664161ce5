package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/mhuebner/videowall/pkg/canvas"
	"github.com/mhuebner/videowall/pkg/playback"
	"github.com/mhuebner/videowall/pkg/scene"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string // listen address
	scenePath string // optional scene file; fresh plan otherwise
	media     string // media directory with frame files
	width     int    // canvas width for fresh plans
	height    int    // canvas height for fresh plans
	min       int    // minimum container count for fresh plans
	max       int    // maximum container count for fresh plans
	seed      uint64 // layout seed for fresh plans
	fps       int    // stream frame rate
	decor     bool   // draw background ornaments
	telemetry bool   // draw telemetry captions
	workers   int    // compositing concurrency
}

// newServeCmd creates the serve command exposing the display over HTTP.
//
// Routes:
//   - GET /scene.json: the active scene
//   - GET /frame.png: one freshly rendered frame
//   - GET /stream: continuous MJPEG stream
func newServeCmd(cfg Settings) *cobra.Command {
	opts := serveOpts{
		addr:      ":8080",
		media:     cfg.MediaDir,
		width:     cfg.Width,
		height:    cfg.Height,
		min:       cfg.MinContainers,
		max:       cfg.MaxContainers,
		seed:      cfg.Seed,
		fps:       cfg.FPS,
		decor:     cfg.Decor,
		telemetry: cfg.Telemetry,
		workers:   cfg.Workers,
	}

	cmd := &cobra.Command{
		Use:   "serve [scene.json]",
		Short: "Expose scene and frames over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.scenePath = args[0]
			}
			return runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", opts.addr, "listen address")
	cmd.Flags().StringVarP(&opts.media, "media", "m", opts.media, "directory with frame files")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "canvas width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "canvas height in pixels")
	cmd.Flags().IntVar(&opts.min, "min", opts.min, "minimum container count")
	cmd.Flags().IntVar(&opts.max, "max", opts.max, "maximum container count")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "layout seed")
	cmd.Flags().IntVar(&opts.fps, "fps", opts.fps, "stream frame rate")
	cmd.Flags().BoolVar(&opts.decor, "decor", opts.decor, "draw background ornaments")
	cmd.Flags().BoolVar(&opts.telemetry, "telemetry", opts.telemetry, "draw telemetry captions")
	cmd.Flags().IntVar(&opts.workers, "workers", opts.workers, "compositing concurrency")

	return cmd
}

// frameServer wraps a playback driver for concurrent HTTP handlers. The
// driver is single-threaded and reuses its frame buffer, so every render and
// encode happens under the mutex.
type frameServer struct {
	mu     sync.Mutex
	driver *playback.Driver
}

// renderJPEG renders one frame and encodes it as JPEG.
func (fs *frameServer) renderJPEG(ctx context.Context, w *bytes.Buffer) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	frame, err := fs.driver.RenderFrame(ctx)
	if err != nil {
		return err
	}
	return jpeg.Encode(w, frame, &jpeg.Options{Quality: 85})
}

// runServe builds the driver and blocks serving HTTP until ctx is canceled.
func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	cv := canvas.Spec{Width: opts.width, Height: opts.height}
	s, err := loadOrPlanScene(ctx, opts.scenePath, cv, opts.min, opts.max, opts.seed)
	if err != nil {
		return err
	}

	src, err := openSource(opts.media, s)
	if err != nil {
		return err
	}

	d, err := playback.New(s, src, playback.Options{
		Workers:   opts.workers,
		Decor:     opts.decor,
		Telemetry: opts.telemetry,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	defer d.Close()

	fps := opts.fps
	if fps < 1 {
		fps = 1
	}
	fs := &frameServer{driver: d}

	srv := &http.Server{
		Addr:        opts.addr,
		Handler:     newRouter(s, fs, time.Second/time.Duration(fps)),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Infof("Serving scene %s on %s", s.ID, opts.addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newRouter builds the HTTP routes for a scene and its frame server.
func newRouter(s *scene.Scene, fs *frameServer, interval time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/scene.json", func(w http.ResponseWriter, req *http.Request) {
		data, err := s.Marshal()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	r.Get("/frame.png", func(w http.ResponseWriter, req *http.Request) {
		fs.mu.Lock()
		defer fs.mu.Unlock()

		frame, err := fs.driver.RenderFrame(req.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		png.Encode(w, frame)
	})

	r.Get("/stream", func(w http.ResponseWriter, req *http.Request) {
		streamMJPEG(req.Context(), w, fs, interval)
	})

	return r
}

// streamMJPEG writes a multipart MJPEG stream until the client disconnects.
func streamMJPEG(ctx context.Context, w http.ResponseWriter, fs *frameServer, interval time.Duration) {
	const boundary = "videowallframe"
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)

	flusher, _ := w.(http.Flusher)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var buf bytes.Buffer
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		buf.Reset()
		if err := fs.renderJPEG(ctx, &buf); err != nil {
			return
		}
		fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", boundary, buf.Len())
		if _, err := w.Write(buf.Bytes()); err != nil {
			return
		}
		fmt.Fprint(w, "\r\n")
		if flusher != nil {
			flusher.Flush()
		}
	}
}
