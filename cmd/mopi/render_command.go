package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"motionpicture/internal/config"
	"motionpicture/internal/encoding"
	"motionpicture/internal/frames"
	"motionpicture/internal/logging"
	"motionpicture/internal/movie"
	"motionpicture/internal/pipeline"
	"motionpicture/internal/render"
	"motionpicture/internal/services"
)

// newRunner builds the pipeline runner. Tests replace it to avoid spawning
// movie processes and ffmpeg.
var newRunner = func() *pipeline.Runner {
	return &pipeline.Runner{}
}

func runRender(cmd *cobra.Command, ctx *commandContext, flags *renderFlags, args []string) error {
	loaded, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg := *loaded
	if err := flags.apply(cmd, &cfg); err != nil {
		return services.Wrap(services.ErrConfiguration, "cli", "flags", "", err)
	}

	movieName, movieArgs := splitArgs(cmd, args)
	if movieName == "" && flags.movieFile == "" && !flags.onlyRenderMovie {
		return cmd.Help()
	}

	logger, err := ctx.logger(cmd, &cfg, flags.verbose)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "cli", "logging", "", err)
	}
	for _, warning := range cfg.Warnings() {
		logging.WarnWithContext(logger, warning, "config_warning",
			logging.String(logging.FieldImpact, "run continues"),
		)
	}

	settings, err := buildSettings(&cfg, flags, movieName, movieArgs)
	if err != nil {
		return err
	}

	runner := newRunner()
	runner.Logger = logger
	result, err := runner.Run(cmd.Context(), settings)
	if result.Report != nil || result.Artifact != "" {
		printSummary(cmd.OutOrStdout(), result, shouldColorize(cmd.OutOrStdout()))
	}
	if err != nil {
		return err
	}
	if result.Artifact != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Movie %s successfully created\n", cfg.Video.Name)
	}
	return nil
}

// splitArgs separates the movie name from the arguments forwarded to it.
func splitArgs(cmd *cobra.Command, args []string) (string, []string) {
	dash := cmd.ArgsLenAtDash()
	positional := args
	var movieArgs []string
	if dash >= 0 {
		positional = args[:dash]
		movieArgs = append(movieArgs, args[dash:]...)
	}
	name := ""
	if len(positional) > 0 {
		name = positional[0]
		movieArgs = append(append([]string{}, positional[1:]...), movieArgs...)
	}
	return name, movieArgs
}

func buildSettings(cfg *config.Config, flags *renderFlags, movieName string, movieArgs []string) (pipeline.Settings, error) {
	settings := pipeline.Settings{
		MovieArgs: movieArgs,
		OutDir:    cfg.Paths.OutDir,
		Selection: frames.Selection{
			Min:   string(cfg.Frames.Min),
			Max:   string(cfg.Frames.Max),
			Every: cfg.Frames.Every,
		},
		Snapshot:        flags.snapshot,
		FrameExtension:  cfg.Render.FrameExtension,
		FrameNameFormat: flags.frameNameFormat,
		OnlyRenderMovie: flags.onlyRenderMovie,
		Overwrite:       cfg.Render.Overwrite,
		Render: render.Options{
			Parallel:         cfg.Render.Parallel,
			Workers:          cfg.Render.NumWorkers,
			ChunkSize:        cfg.Render.ChunkSize,
			MaxTasksPerChild: cfg.Render.MaxTasksPerChild,
			SkipExisting:     cfg.Render.SkipExisting,
			Verbose:          flags.verbose,
			DisableProgress:  cfg.Render.DisableProgressBar,
		},
		Video: pipeline.VideoSettings{
			Name:      cfg.Video.Name,
			Extension: cfg.Video.Extension,
			FPS:       cfg.Video.FPS,
			Codec:     cfg.Video.Codec,
			Metadata: encoding.Metadata{
				Artist:  cfg.Video.Author,
				Title:   cfg.Video.Title,
				Comment: cfg.Video.Comment,
			},
		},
		EncoderBinary: cfg.EncoderBinary(),
		Verbose:       flags.verbose,
	}

	if flags.onlyRenderMovie && flags.frameNameFormat != "" {
		return settings, nil
	}
	path, err := movie.Resolve(movieName, flags.movieFile, cfg.Paths.MoviesDir)
	if err != nil {
		return settings, err
	}
	settings.MoviePath = path
	return settings, nil
}

func printSummary(out io.Writer, result pipeline.Result, colorize bool) {
	rows := [][]string{{"Run", result.RunID}}
	if result.Movie != "" {
		rows = append(rows, []string{"Movie", result.Movie})
	}
	rows = append(rows, []string{"Frame format", result.Format.Pattern()})
	if r := result.Report; r != nil {
		rows = append(rows,
			[]string{"Frames", fmt.Sprintf("%d", r.Total)},
			[]string{"Rendered", fmt.Sprintf("%d", r.Succeeded)},
			[]string{"Failed", fmt.Sprintf("%d", r.Failed)},
			[]string{"Skipped", fmt.Sprintf("%d", r.Skipped)},
			[]string{"Worker restarts", fmt.Sprintf("%d", r.Recycled)},
			[]string{"Elapsed", r.Elapsed.Round(time.Millisecond).String()},
		)
	}
	if result.Artifact != "" {
		rows = append(rows, []string{"Video", result.Artifact})
	}
	fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))

	if r := result.Report; r != nil && len(r.Failures) > 0 {
		failRows := make([][]string, 0, len(r.Failures))
		for _, f := range r.Failures {
			failRows = append(failRows, []string{fmt.Sprintf("%d", f.Task.Index), f.Task.Frame.String(), errorText(f.Err)})
		}
		fmt.Fprintln(out, renderStatusLine("Failed frames", statusWarn, fmt.Sprintf("%d", len(r.Failures)), colorize))
		fmt.Fprintln(out, renderTable([]string{"Index", "Frame", "Error"}, failRows, []columnAlignment{alignRight, alignRight, alignLeft}))
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	var remote *movie.RemoteError
	if errors.As(err, &remote) {
		return remote.Error()
	}
	return err.Error()
}
