// Package pipeline runs one mopi render from start to finish.
//
// Run loads the primary movie instance, lists and selects its frames, names
// them, guards and locks the output directory, renders the frames through
// the scheduler, and finally hands the image sequence to ffmpeg. Snapshot
// mode renders a single frame and stops before encoding; only-render-movie
// mode encodes frames already on disk, optionally with a user supplied
// frame name format that makes loading the movie unnecessary.
package pipeline
