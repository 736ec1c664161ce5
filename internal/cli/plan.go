package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhuebner/videowall/pkg/canvas"
	"github.com/mhuebner/videowall/pkg/scene"
)

// planOpts holds the command-line flags for the plan command.
type planOpts struct {
	width  int    // canvas width in pixels
	height int    // canvas height in pixels
	min    int    // minimum container count
	max    int    // maximum container count
	seed   uint64 // layout seed
	output string // scene file path; "-" or empty prints to stdout
}

// newPlanCmd creates the plan command for generating scene files.
// Defaults come from the settings file.
func newPlanCmd(cfg Settings) *cobra.Command {
	opts := planOpts{
		width:  cfg.Width,
		height: cfg.Height,
		min:    cfg.MinContainers,
		max:    cfg.MaxContainers,
		seed:   cfg.Seed,
	}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a container layout and write it as a scene file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.Context(), cmd, &opts)
		},
	}

	cmd.Flags().IntVar(&opts.width, "width", opts.width, "canvas width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "canvas height in pixels")
	cmd.Flags().IntVar(&opts.min, "min", opts.min, "minimum container count")
	cmd.Flags().IntVar(&opts.max, "max", opts.max, "maximum container count")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "layout seed")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "scene file path (default: stdout)")

	return cmd
}

// runPlan plans a scene and writes it to the requested destination.
func runPlan(ctx context.Context, cmd *cobra.Command, opts *planOpts) error {
	logger := loggerFromContext(ctx)
	p := newProgress(logger)

	cv := canvas.Spec{Width: opts.width, Height: opts.height}
	s, err := scene.New(ctx, cv, opts.min, opts.max, opts.seed, nil)
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Planned %d containers on %dx%d", len(s.Containers), cv.Width, cv.Height))

	if opts.output == "" || opts.output == "-" {
		data, err := s.Marshal()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if err := s.WriteFile(opts.output); err != nil {
		return err
	}
	logger.Infof("Wrote %s", opts.output)
	return nil
}
