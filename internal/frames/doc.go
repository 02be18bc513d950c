// Package frames models the opaque frame identifiers a movie produces and
// selects which of them a run renders.
//
// Identifiers are either integers or reals; a run never mixes the two. Select
// applies inclusive bounds first and the stride second, always preserving the
// order the movie returned its frames in.
package frames
