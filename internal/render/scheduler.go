package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"motionpicture/internal/logging"
	"motionpicture/internal/services"
)

// Options control batch execution.
type Options struct {
	Parallel bool
	// Workers defaults to runtime.NumCPU().
	Workers int
	// ChunkSize is the number of tasks a worker takes at a time (default 1).
	ChunkSize int
	// MaxTasksPerChild is the number of chunks after which a worker's
	// instance is replaced. Zero keeps instances for the whole batch.
	MaxTasksPerChild int
	SkipExisting     bool
	Verbose          bool
	DisableProgress  bool
}

// Scheduler runs render batches.
type Scheduler struct {
	// Renderer serves the sequential path when set. It is never closed by
	// the scheduler.
	Renderer Renderer
	// Loader supplies worker instances, and the sequential instance when
	// Renderer is nil.
	Loader  Loader
	Options Options
	Logger  *slog.Logger
	// Progress overrides the display chosen from Options.
	Progress Progress
}

// Run attempts every task once and reports the results. Render failures are
// contained; an error is returned only for unusable options or when ctx ends
// before the batch drains, in which case remaining tasks fail immediately.
func (s *Scheduler) Run(ctx context.Context, tasks []Task) (Report, error) {
	start := time.Now()
	opts, err := s.options()
	if err != nil {
		return Report{}, err
	}
	logger := logging.NewComponentLogger(s.Logger, "render")

	report := Report{Total: len(tasks)}
	pending := tasks
	if opts.SkipExisting {
		pending = dropExisting(tasks)
		report.Skipped = len(tasks) - len(pending)
		if report.Skipped > 0 {
			logger.Info("skipping existing frames",
				logging.Int("skipped", report.Skipped),
				logging.Int("remaining", len(pending)),
			)
		}
	}
	report.Dispatched = len(pending)

	progress := s.Progress
	if progress == nil {
		progress = NewProgress(os.Stderr, len(pending), opts.DisableProgress, logger)
	}
	c := &collector{report: &report, logger: logger, verbose: opts.Verbose, progress: progress}

	logger.Info("rendering frames",
		logging.Int("tasks", len(pending)),
		logging.Bool("parallel", opts.Parallel),
		logging.Int("workers", opts.Workers),
	)
	var interrupted error
	if opts.Parallel {
		interrupted = s.runParallel(ctx, opts, pending, c, logger)
	} else {
		s.runSequential(ctx, pending, c, logger)
	}
	progress.Finish()

	report.sortFailures()
	report.Elapsed = time.Since(start)
	logger.Info("render batch complete",
		logging.Int("succeeded", report.Succeeded),
		logging.Int("failed", report.Failed),
		logging.Int("skipped", report.Skipped),
		logging.Duration("elapsed", report.Elapsed),
	)
	if interrupted == nil {
		interrupted = ctx.Err()
	}
	if interrupted != nil {
		return report, services.Wrap(services.ErrRender, "render", "run", "Render interrupted", interrupted)
	}
	return report, nil
}

func (s *Scheduler) options() (Options, error) {
	opts := s.Options
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 1
	}
	if opts.MaxTasksPerChild < 0 {
		return opts, services.Wrap(services.ErrConfiguration, "render", "options",
			fmt.Sprintf("max tasks per child must not be negative, got %d", opts.MaxTasksPerChild), nil)
	}
	if opts.Parallel && s.Loader == nil {
		return opts, services.Wrap(services.ErrConfiguration, "render", "options", "Parallel rendering needs a movie loader", nil)
	}
	if !opts.Parallel && s.Renderer == nil && s.Loader == nil {
		return opts, services.Wrap(services.ErrConfiguration, "render", "options", "No renderer configured", nil)
	}
	return opts, nil
}

// dropExisting removes tasks whose output is already on disk. Content is
// not inspected.
func dropExisting(tasks []Task) []Task {
	pending := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if _, err := os.Stat(task.Path); err == nil {
			continue
		}
		pending = append(pending, task)
	}
	return pending
}

func (s *Scheduler) runSequential(ctx context.Context, tasks []Task, c *collector, logger *slog.Logger) {
	if len(tasks) == 0 {
		return
	}
	renderer := s.Renderer
	if renderer == nil {
		inst, err := s.Loader.Load(ctx)
		if err != nil {
			logging.ErrorWithContext(logger, "movie load failed", "movie_load_failed", logging.Error(err))
			c.recordAll(failAll(tasks, loadError(err)))
			return
		}
		defer closeInstance(inst, logger)
		renderer = inst
	}
	g := newGuard(renderer)
	for _, task := range tasks {
		c.record(g.run(ctx, task))
	}
}

// runParallel feeds chunks to the workers in index order. When ctx ends the
// chunks not yet handed out are failed by the dispatcher and its error is
// returned once every worker has drained.
func (s *Scheduler) runParallel(ctx context.Context, opts Options, tasks []Task, c *collector, logger *slog.Logger) error {
	chunks := chunkTasks(tasks, opts.ChunkSize)
	if len(chunks) == 0 {
		return nil
	}
	workers := min(opts.Workers, len(chunks))

	work := make(chan []Task)
	var group errgroup.Group
	group.Go(func() error {
		defer close(work)
		for i, chunk := range chunks {
			select {
			case work <- chunk:
			case <-ctx.Done():
				undispatched := 0
				for _, rest := range chunks[i:] {
					c.recordAll(failAll(rest, ctx.Err()))
					undispatched += len(rest)
				}
				logger.Debug("dispatch stopped", logging.Int("undispatched", undispatched))
				return ctx.Err()
			}
		}
		return nil
	})
	for id := 1; id <= workers; id++ {
		w := &worker{
			id:       id,
			loader:   s.Loader,
			maxTasks: opts.MaxTasksPerChild,
			logger:   logger.With(logging.Int(logging.FieldWorker, id)),
			collect:  c,
		}
		group.Go(func() error {
			w.serve(services.WithWorker(ctx, id), work)
			return nil
		})
	}
	return group.Wait()
}

func chunkTasks(tasks []Task, size int) [][]Task {
	chunks := make([][]Task, 0, (len(tasks)+size-1)/size)
	for start := 0; start < len(tasks); start += size {
		end := min(start+size, len(tasks))
		chunks = append(chunks, tasks[start:end])
	}
	return chunks
}

func loadError(err error) error {
	return services.Wrap(services.ErrRender, "render", "load", "Movie could not be started", err)
}

func closeInstance(inst Instance, logger *slog.Logger) {
	if err := inst.Close(); err != nil && !errors.Is(err, context.Canceled) {
		logging.WarnWithContext(logger, "movie close failed", "movie_close_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "frames already rendered are kept"),
		)
	}
}

// collector serialises outcome accounting across workers.
type collector struct {
	mu       sync.Mutex
	report   *Report
	logger   *slog.Logger
	verbose  bool
	progress Progress
}

func (c *collector) record(out Outcome) {
	c.mu.Lock()
	if out.Succeeded() {
		c.report.Succeeded++
	} else {
		c.report.Failed++
		c.report.Failures = append(c.report.Failures, out)
	}
	c.mu.Unlock()

	if out.Succeeded() {
		c.logger.Debug("frame rendered",
			logging.Int(logging.FieldFrameIndex, out.Task.Index),
			logging.String(logging.FieldFrame, out.Task.Frame.String()),
		)
	} else {
		attrs := []logging.Attr{
			logging.Int(logging.FieldFrameIndex, out.Task.Index),
			logging.String(logging.FieldFrame, out.Task.Frame.String()),
			logging.Error(out.Err),
			logging.String(logging.FieldImpact, "frame skipped, batch continues"),
		}
		if c.verbose && out.Trace != "" {
			attrs = append(attrs, logging.String("trace", out.Trace))
		}
		logging.WarnWithContext(c.logger, fmt.Sprintf("frame %d generated an error", out.Task.Index), "frame_render_failed", attrs...)
	}
	c.progress.Add(1)
}

func (c *collector) recordAll(outcomes []Outcome) {
	for _, out := range outcomes {
		c.record(out)
	}
}

func (c *collector) recycled() {
	c.mu.Lock()
	c.report.Recycled++
	c.mu.Unlock()
}
