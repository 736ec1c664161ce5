package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mhuebner/videowall/pkg/buildinfo"
)

// Execute runs the videowall CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (plan, render,
// play, serve, settings), configures logging based on the --verbose flag, and
// executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	cfg := loadSettingsOrDefault()

	root := &cobra.Command{
		Use:          "videowall",
		Short:        "Videowall plays ambient video-art container layouts",
		Long:         `Videowall plans randomized container layouts on a canvas and composites video frames into them, producing an ambient video-art display. Scenes are reproducible from a seed and serializable to JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newPlanCmd(cfg))
	root.AddCommand(newRenderCmd(cfg))
	root.AddCommand(newPlayCmd(cfg))
	root.AddCommand(newServeCmd(cfg))
	root.AddCommand(newSettingsCmd())

	return root.ExecuteContext(ctx)
}
