// Package movie talks to movie plugins.
//
// A movie is any executable that speaks newline-delimited JSON on its
// standard streams. mopi starts one process per renderer (the primary
// instance that lists frames, plus one per parallel worker), sends requests
// on stdin, and reads exactly one response per request from stdout:
//
//	{"id":1,"method":"hello"}                       -> {"id":1,"name":"orbit"}
//	{"id":2,"method":"frames"}                      -> {"id":2,"frames":[0,1,2]}
//	{"id":3,"method":"render","path":"0.png","frame":0} -> {"id":3}
//
// Failures come back as {"id":3,"error":{"message":"...","trace":"..."}}.
// Closing stdin asks the movie to exit. Anything written to stderr is
// forwarded to the debug log.
//
// Serve implements the plugin side so movies can be written in Go; Loader,
// Validate, Discover and Resolve cover the host side.
package movie
