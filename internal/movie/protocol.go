package movie

import (
	"encoding/json"
	"strings"

	"motionpicture/internal/frames"
)

const (
	methodHello  = "hello"
	methodFrames = "frames"
	methodRender = "render"
)

type request struct {
	ID     int64      `json:"id"`
	Method string     `json:"method"`
	Path   string     `json:"path,omitempty"`
	Frame  *frames.ID `json:"frame,omitempty"`
}

type response struct {
	ID     int64             `json:"id"`
	Name   string            `json:"name,omitempty"`
	Frames []json.RawMessage `json:"frames,omitempty"`
	Error  *RemoteError      `json:"error,omitempty"`
}

// RemoteError is a failure reported by the movie itself.
type RemoteError struct {
	Message   string `json:"message"`
	Traceback string `json:"trace,omitempty"`
}

func (e *RemoteError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "movie reported an error"
	}
	return msg
}

// Trace returns the movie's diagnostic trace, if any.
func (e *RemoteError) Trace() string { return e.Traceback }
