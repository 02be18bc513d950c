package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"motionpicture/internal/movie"
)

const rootLong = `Make a video from a movie plugin.

A movie is an executable that lists frames and renders one frame per request.
Pass the name of a movie found in the movies directory (MOPI_MOVIES_DIR) as
the first argument, or point at a file with --movie-file. Arguments after
"--" are passed to the movie.`

func newRootCommand() *cobra.Command {
	var configFlag string
	flags := &renderFlags{}

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "mopi [movie] [flags] [-- movie-args...]",
		Short:         "Render movie plugins into videos",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, ctx, flags, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	flags.register(rootCmd)

	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		defaultHelp(cmd, args)
		if cmd == rootCmd {
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), moviesEpilog(ctx, flags))
		}
	})

	rootCmd.AddCommand(newMoviesCommand(ctx, flags))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

// moviesEpilog lists the movies available for the positional argument.
func moviesEpilog(ctx *commandContext, flags *renderFlags) string {
	dir := flags.moviesDir
	if dir == "" {
		if cfg := ctx.configValue(); cfg != nil {
			dir = cfg.Paths.MoviesDir
		}
	}
	if dir == "" {
		return "No movies directory configured"
	}
	movies, err := movie.Discover(dir)
	if err != nil || len(movies) == 0 {
		return fmt.Sprintf("No movies found in the MOPI_MOVIES_DIR (%s)", dir)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Movies found in the MOPI_MOVIES_DIR (%s):", dir)
	for _, m := range movies {
		fmt.Fprintf(&b, "\n* %s", m.Name)
	}
	return b.String()
}
