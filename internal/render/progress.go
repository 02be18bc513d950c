package render

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"motionpicture/internal/logging"
)

// Progress displays completed task counts. Implementations must tolerate
// concurrent callers.
type Progress interface {
	Add(n int)
	Finish()
}

// NewProgress picks a terminal bar when w is a terminal and sampled log lines
// otherwise. Disabled progress discards updates.
func NewProgress(w io.Writer, total int, disabled bool, logger *slog.Logger) Progress {
	if disabled || total <= 0 {
		return nopProgress{}
	}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return newBarProgress(f, total)
	}
	return newLogProgress(logger, total)
}

type nopProgress struct{}

func (nopProgress) Add(int) {}
func (nopProgress) Finish() {}

type barProgress struct {
	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func newBarProgress(w io.Writer, total int) *barProgress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("rendering"),
		progressbar.OptionSetItsString("frames"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(w, "\n") }),
	)
	return &barProgress{bar: bar}
}

func (p *barProgress) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.bar.Add(n)
}

func (p *barProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.bar.Finish()
}

type logProgress struct {
	mu      sync.Mutex
	logger  *slog.Logger
	sampler *logging.ProgressSampler
	total   int
	done    int
}

func newLogProgress(logger *slog.Logger, total int) *logProgress {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &logProgress{logger: logger, sampler: logging.NewProgressSampler(10), total: total}
}

func (p *logProgress) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done += n
	if p.sampler.ShouldLog(p.done, p.total) {
		p.logger.Info("render progress",
			logging.Int("done", p.done),
			logging.Int("total", p.total),
			logging.String(logging.FieldEventType, "render_progress"),
		)
	}
}

func (p *logProgress) Finish() {}
