package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"motionpicture/internal/config"
	"motionpicture/internal/movie"
)

func newMoviesCommand(ctx *commandContext, flags *renderFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "movies",
		Short: "List the movies found in the movies directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := cfg.Paths.MoviesDir
			if f := cmd.Flag("movies-dir"); f != nil && f.Changed {
				if dir, err = config.ExpandPath(flags.moviesDir); err != nil {
					return err
				}
			}

			movies, err := movie.Discover(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(movies) == 0 {
				fmt.Fprintf(out, "No movies found in %s\n", dir)
				return nil
			}
			rows := make([][]string, 0, len(movies))
			for _, m := range movies {
				rows = append(rows, []string{m.Name, formatSize(m.Size), m.Path})
			}
			fmt.Fprintln(out, renderTable([]string{"Movie", "Size", "Path"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft}))
			return nil
		},
	}
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
