// Command mopi-demo is a small movie for mopi. It draws a disc orbiting the
// centre of the frame and answers mopi's requests on stdin/stdout.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"motionpicture/internal/logging"
	"motionpicture/internal/movie"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "mopi-demo: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	demo := &orbit{}
	var verbose bool

	cmd := &cobra.Command{
		Use:           "mopi-demo",
		Short:         "Demo movie drawing an orbiting disc",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := demo.validate(); err != nil {
				return err
			}
			level := "info"
			if verbose {
				level = "debug"
			}
			logger, err := logging.New(logging.Options{Level: level, Format: "console", Output: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			demo.logger = logging.NewComponentLogger(logger, "mopi-demo")
			return movie.Serve(cmd.Context(), demo, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&demo.count, "frames", 50, "Number of frames")
	flags.IntVar(&demo.width, "width", 320, "Frame width in pixels")
	flags.IntVar(&demo.height, "height", 240, "Frame height in pixels")
	flags.BoolVar(&demo.realFrames, "real-frames", false, "Identify frames by time in seconds instead of by number")
	flags.IntVar(&demo.fps, "fps", 25, "Frames per second used with --real-frames")
	flags.IntVar(&demo.failEvery, "fail-every", 0, "Refuse to render every Nth frame (0 = never)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log every rendered frame")
	return cmd
}
