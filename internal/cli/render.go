package cli

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/mhuebner/videowall/pkg/canvas"
	"github.com/mhuebner/videowall/pkg/playback"
	"github.com/mhuebner/videowall/pkg/scene"
	"github.com/mhuebner/videowall/pkg/source"
)

// demoColor is the frame color of the built-in demo source used when no
// media directory is configured.
var demoColor = color.NRGBA{R: 0x2a, G: 0x9d, B: 0x8f, A: 0xff}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output image path
	media     string // media directory with frame files
	decor     bool   // draw background ornaments
	telemetry bool   // draw telemetry captions
	workers   int    // compositing concurrency
}

// newRenderCmd creates the render command for compositing a scene file into
// a still image. Output format follows the file extension (png, jpg, bmp,
// gif), via imaging.Save.
func newRenderCmd(cfg Settings) *cobra.Command {
	opts := renderOpts{
		media:     cfg.MediaDir,
		decor:     cfg.Decor,
		telemetry: cfg.Telemetry,
		workers:   cfg.Workers,
	}

	cmd := &cobra.Command{
		Use:   "render [scene.json]",
		Short: "Composite a scene into an image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output image path (default: scene name with .png)")
	cmd.Flags().StringVarP(&opts.media, "media", "m", opts.media, "directory with frame files")
	cmd.Flags().BoolVar(&opts.decor, "decor", opts.decor, "draw background ornaments")
	cmd.Flags().BoolVar(&opts.telemetry, "telemetry", opts.telemetry, "draw telemetry captions")
	cmd.Flags().IntVar(&opts.workers, "workers", opts.workers, "compositing concurrency")

	return cmd
}

// openSource builds the frame source for a scene: the media directory when
// one is configured, the solid-color demo source otherwise.
func openSource(media string, scn *scene.Scene) (source.Source, error) {
	if media != "" {
		return source.OpenDir(media, scn.Seed)
	}
	cv := scn.Canvas()
	return &source.Uniform{W: cv.Width, H: cv.Height, Color: demoColor}, nil
}

// runRender loads the scene, renders one frame, and saves it.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	s, err := scene.ReadFile(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded scene %s: %d containers on %dx%d", s.ID, len(s.Containers), s.Width, s.Height)

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

	p := newProgress(logger)
	frame, err := d.RenderFrame(ctx)
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Composited %d containers", len(s.Containers)))

	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(input, ".json") + ".png"
	}
	if err := imaging.Save(frame, output); err != nil {
		return err
	}
	logger.Infof("Generated %s", output)
	return nil
}

// loadOrPlanScene reads a scene file when path is set, otherwise plans a
// fresh scene from the settings-derived options. Shared by play and serve.
func loadOrPlanScene(ctx context.Context, path string, cv canvas.Spec, min, max int, seed uint64) (*scene.Scene, error) {
	if path != "" {
		return scene.ReadFile(path)
	}
	return scene.New(ctx, cv, min, max, seed, nil)
}
