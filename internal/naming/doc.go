// Package naming maps dense frame indices to deterministic file names.
//
// A Format holds one zero-padded integer placeholder wide enough for every
// index of the run, rendered as a C-style pattern that ffmpeg reads back as
// an image sequence.
package naming
