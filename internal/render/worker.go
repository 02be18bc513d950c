package render

import (
	"context"
	"log/slog"

	"motionpicture/internal/logging"
)

// worker owns at most one instance at a time and replaces it after maxTasks
// chunks.
type worker struct {
	id       int
	loader   Loader
	maxTasks int
	logger   *slog.Logger
	collect  *collector

	inst   Instance
	guard  guard
	served int
}

func (w *worker) serve(ctx context.Context, work <-chan []Task) {
	defer w.retire()
	for chunk := range work {
		if w.inst == nil && !w.start(ctx, chunk) {
			continue
		}
		for _, task := range chunk {
			w.collect.record(w.guard.run(ctx, task))
		}
		w.served++
		if w.maxTasks > 0 && w.served >= w.maxTasks {
			w.logger.Debug("recycling worker", logging.Int("chunks", w.served))
			w.retire()
			w.collect.recycled()
		}
	}
}

// start loads an instance for chunk. On failure the chunk is resolved as
// failed and the next chunk tries again.
func (w *worker) start(ctx context.Context, chunk []Task) bool {
	if err := ctx.Err(); err != nil {
		w.collect.recordAll(failAll(chunk, err))
		return false
	}
	inst, err := w.loader.Load(ctx)
	if err != nil {
		logging.ErrorWithContext(w.logger, "worker could not load movie", "movie_load_failed",
			logging.Error(err),
			logging.Int("tasks", len(chunk)),
		)
		w.collect.recordAll(failAll(chunk, loadError(err)))
		return false
	}
	w.inst = inst
	w.guard = newGuard(inst)
	w.served = 0
	return true
}

func (w *worker) retire() {
	if w.inst == nil {
		return
	}
	closeInstance(w.inst, w.logger)
	w.inst = nil
	w.guard = guard{}
}
