package render

import (
	"sort"
	"time"

	"motionpicture/internal/frames"
	"motionpicture/internal/naming"
)

// Task is one frame to render. Path is fixed when the task is built.
type Task struct {
	Index int
	Frame frames.ID
	Path  string
}

// BuildTasks pairs each selected frame with its index and output path.
func BuildTasks(dir string, format naming.Format, ids []frames.ID) []Task {
	tasks := make([]Task, len(ids))
	for i, id := range ids {
		tasks[i] = Task{Index: i, Frame: id, Path: format.Path(dir, i)}
	}
	return tasks
}

// Outcome is the terminal state of a dispatched task.
type Outcome struct {
	Task  Task
	Err   error
	Trace string
}

// Succeeded reports whether the frame was rendered.
func (o Outcome) Succeeded() bool { return o.Err == nil }

// Report aggregates a batch.
type Report struct {
	Total      int
	Skipped    int
	Dispatched int
	Succeeded  int
	Failed     int
	// Failures is ordered by frame index.
	Failures []Outcome
	Recycled int
	Elapsed  time.Duration
}

// Completed counts tasks that reached a terminal state, skipped ones included.
func (r Report) Completed() int {
	return r.Skipped + r.Succeeded + r.Failed
}

func (r *Report) sortFailures() {
	sort.Slice(r.Failures, func(i, j int) bool {
		return r.Failures[i].Task.Index < r.Failures[j].Task.Index
	})
}
