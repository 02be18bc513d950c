package render

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"motionpicture/internal/frames"
)

// Renderer writes exactly one frame file at path.
type Renderer interface {
	Render(ctx context.Context, path string, frame frames.ID) error
}

// Instance is a renderer with resources to release, such as a plugin process.
type Instance interface {
	Renderer
	Close() error
}

// Loader produces fresh, independent instances.
type Loader interface {
	Load(ctx context.Context) (Instance, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (Instance, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) (Instance, error) { return f(ctx) }

// tracer is implemented by errors that carry a diagnostic trace from the movie.
type tracer interface {
	Trace() string
}

// guard turns renderer calls into outcomes. Panics from in-process renderers
// are recovered and reported like any other failure.
type guard struct {
	renderer Renderer
}

func newGuard(r Renderer) guard {
	return guard{renderer: r}
}

func (g guard) run(ctx context.Context, task Task) (out Outcome) {
	out.Task = task
	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}
	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("render panicked: %v", r)
			out.Trace = string(debug.Stack())
		}
	}()
	if err := g.renderer.Render(ctx, task.Path, task.Frame); err != nil {
		out.Err = err
		var t tracer
		if errors.As(err, &t) {
			out.Trace = t.Trace()
		}
	}
	return out
}

// failAll resolves tasks that could not reach a renderer.
func failAll(tasks []Task, err error) []Outcome {
	outcomes := make([]Outcome, len(tasks))
	for i, task := range tasks {
		outcomes[i] = Outcome{Task: task, Err: err}
	}
	return outcomes
}
