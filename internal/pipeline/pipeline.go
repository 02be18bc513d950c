package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"motionpicture/internal/encoding"
	"motionpicture/internal/frames"
	"motionpicture/internal/logging"
	"motionpicture/internal/movie"
	"motionpicture/internal/naming"
	"motionpicture/internal/preflight"
	"motionpicture/internal/render"
	"motionpicture/internal/services"
)

// Settings is the validated input of a run.
type Settings struct {
	MoviePath string
	MovieArgs []string
	OutDir    string

	Selection frames.Selection
	// Snapshot renders only this frame and skips encoding.
	Snapshot        string
	FrameExtension  string
	FrameNameFormat string
	OnlyRenderMovie bool

	Overwrite bool
	Render    render.Options

	Video         VideoSettings
	EncoderBinary string
	Verbose       bool
}

// VideoSettings describes the final video.
type VideoSettings struct {
	Name      string
	Extension string
	FPS       int
	Codec     string
	Metadata  encoding.Metadata
}

// Result summarises a run.
type Result struct {
	RunID     string
	Movie     string
	Frames    int
	Format    naming.Format
	Report    *render.Report
	Artifact  string
	Snapshot  bool
	LockPath  string
	OutputDir string
}

// Movie is a loaded movie instance.
type Movie interface {
	render.Instance
	Frames(ctx context.Context) ([]frames.ID, error)
}

// Runner executes runs. The zero value starts movie processes and ffmpeg.
type Runner struct {
	Logger *slog.Logger
	// Launch starts a movie instance for settings. Defaults to a movie.Loader.
	Launch func(ctx context.Context, s Settings) (Movie, error)
	// Encode runs the encoder. Defaults to encoding.Encoder.
	Encode func(ctx context.Context, job encoding.Job) (string, error)
	// Progress overrides the scheduler display.
	Progress render.Progress
}

// Run executes s with the default runner.
func Run(ctx context.Context, s Settings, logger *slog.Logger) (Result, error) {
	return (&Runner{Logger: logger}).Run(ctx, s)
}

// Run executes one render.
func (r *Runner) Run(ctx context.Context, s Settings) (Result, error) {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(r.Logger, "pipeline"))
	result := Result{RunID: runID, Snapshot: s.Snapshot != "", OutputDir: s.OutDir}

	if err := checkSettings(s); err != nil {
		return result, err
	}
	skipMovie := s.OnlyRenderMovie && s.FrameNameFormat != ""

	var (
		primary  Movie
		selected []frames.ID
		format   naming.Format
		err      error
	)
	if skipMovie {
		logger.Debug("ignoring frame generation")
		format, err = naming.ParseFormat(s.FrameNameFormat)
		if err != nil {
			return result, err
		}
		logger.Info("using frame name format", logging.String("format", format.Pattern()))
	} else {
		logger.Info("initializing movie", logging.String("path", s.MoviePath))
		primary, err = r.launch(ctx, s)
		if err != nil {
			return result, services.Wrap(services.ErrConfiguration, "pipeline", "load", "Load movie", err)
		}
		defer func() { closeMovie(primary, logger) }()
		if n, ok := primary.(movie.Namer); ok && n.Name() != "" {
			result.Movie = n.Name()
			ctx = services.WithMovie(ctx, result.Movie)
			logger = logger.With(logging.String(logging.FieldMovie, result.Movie))
		}

		selected, err = r.selectFrames(ctx, primary, s, logger)
		if err != nil {
			return result, err
		}
		format, err = naming.NewFormat(len(selected), s.FrameExtension)
		if err != nil {
			return result, err
		}
		logger.Info("chosen frame name format", logging.String("format", format.Pattern()))
	}
	result.Format = format
	result.Frames = len(selected)

	job := r.encoderJob(s, format)
	if err := preflight.Guard(preflight.Request{
		Dir:          s.OutDir,
		FrameExt:     format.Ext,
		Artifact:     job.OutputPath(),
		Overwrite:    s.Overwrite,
		SkipExisting: s.Render.SkipExisting,
		SkipFrames:   s.OnlyRenderMovie,
	}); err != nil {
		return result, err
	}
	lock, err := preflight.Lock(s.OutDir)
	if err != nil {
		return result, err
	}
	defer func() { _ = lock.Release() }()
	result.LockPath = lock.Path()

	if !s.OnlyRenderMovie {
		report, err := r.renderFrames(services.WithStage(ctx, "render"), primary, s, format, selected)
		result.Report = &report
		if err != nil {
			return result, err
		}
		if report.Failed > 0 {
			logging.WarnWithContext(logger, "some frames failed to render", "frames_failed",
				logging.Int("failed", report.Failed),
				logging.String(logging.FieldImpact, "the video will be missing these frames"),
			)
		}
	}

	if s.Snapshot != "" {
		return result, nil
	}

	closeMovie(primary, logger)
	primary = nil
	logger.Info("animating frames")
	artifact, err := r.encode(services.WithStage(ctx, "encode"), s.EncoderBinary, job)
	if err != nil {
		return result, err
	}
	result.Artifact = artifact
	logger.Info("video rendered", logging.String("artifact", artifact))
	return result, nil
}

func checkSettings(s Settings) error {
	if strings.TrimSpace(s.OutDir) == "" {
		return services.Wrap(services.ErrConfiguration, "pipeline", "settings", "Output directory not set", nil)
	}
	if s.FrameNameFormat != "" && !s.OnlyRenderMovie {
		return services.Wrap(services.ErrConfiguration, "pipeline", "settings",
			"frame name format can only be used together with only-render-movie", nil)
	}
	if s.Snapshot != "" && s.OnlyRenderMovie {
		return services.Wrap(services.ErrConfiguration, "pipeline", "settings",
			"snapshot and only-render-movie are mutually exclusive", nil)
	}
	if s.Video.FPS <= 0 {
		return services.Wrap(services.ErrConfiguration, "pipeline", "settings",
			fmt.Sprintf("fps must be positive, got %d", s.Video.FPS), nil)
	}
	return nil
}

func (r *Runner) selectFrames(ctx context.Context, m Movie, s Settings, logger *slog.Logger) ([]frames.ID, error) {
	logger.Info("getting frames")
	ids, err := m.Frames(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "frames", "List movie frames", err)
	}
	logger.Debug("frames available", logging.Int("count", len(ids)))

	if s.Snapshot != "" {
		id, err := frames.Snapshot(ids, s.Snapshot)
		if err != nil {
			return nil, err
		}
		logger.Info("rendering snapshot", logging.String(logging.FieldFrame, id.String()))
		return []frames.ID{id}, nil
	}
	selected, err := frames.Select(ids, s.Selection)
	if err != nil {
		return nil, err
	}
	logger.Info("frames selected",
		logging.Int("available", len(ids)),
		logging.Int("selected", len(selected)),
	)
	return selected, nil
}

func (r *Runner) renderFrames(ctx context.Context, primary Movie, s Settings, format naming.Format, ids []frames.ID) (render.Report, error) {
	opts := s.Render
	opts.Verbose = s.Verbose
	scheduler := &render.Scheduler{
		Renderer: primary,
		Loader: render.LoaderFunc(func(ctx context.Context) (render.Instance, error) {
			m, err := r.launch(ctx, s)
			if err != nil {
				return nil, err
			}
			return m, nil
		}),
		Options:  opts,
		Logger:   logging.WithContext(ctx, r.Logger),
		Progress: r.Progress,
	}
	return scheduler.Run(ctx, render.BuildTasks(s.OutDir, format, ids))
}

func (r *Runner) encoderJob(s Settings, format naming.Format) encoding.Job {
	return encoding.Job{
		Dir:       s.OutDir,
		Pattern:   format.Pattern(),
		FPS:       s.Video.FPS,
		Codec:     s.Video.Codec,
		Name:      s.Video.Name,
		Extension: s.Video.Extension,
		Metadata:  s.Video.Metadata,
		Overwrite: s.Overwrite,
		Verbose:   s.Verbose,
	}
}

func (r *Runner) launch(ctx context.Context, s Settings) (Movie, error) {
	if r.Launch != nil {
		return r.Launch(ctx, s)
	}
	loader := movie.Loader{Path: s.MoviePath, Args: s.MovieArgs, Logger: r.Logger}
	p, err := loader.Start(ctx)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Runner) encode(ctx context.Context, binary string, job encoding.Job) (string, error) {
	if r.Encode != nil {
		return r.Encode(ctx, job)
	}
	enc := &encoding.Encoder{Binary: binary, Logger: logging.WithContext(ctx, r.Logger)}
	return enc.Encode(ctx, job)
}

func closeMovie(m Movie, logger *slog.Logger) {
	if m == nil {
		return
	}
	if err := m.Close(); err != nil {
		logger.Debug("movie close failed", logging.Error(err))
	}
}
