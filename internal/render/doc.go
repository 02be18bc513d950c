// Package render executes frame tasks against movie renderers.
//
// A Scheduler runs a batch either sequentially on the calling goroutine or
// across a pool of workers, each owning a movie instance obtained from a
// Loader. Parallel dispatch hands out chunks of tasks in ascending index
// order over an unbuffered channel and retires a worker's instance after a
// configurable number of chunks so leaking plugins are restarted.
//
// Individual render failures never abort the batch. Every task ends in an
// Outcome; failures are logged as soon as they resolve and summarised in the
// returned Report. With SkipExisting, tasks whose output file is already on
// disk are dropped before dispatch without inspecting the file.
package render
