package movie

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime/debug"

	"motionpicture/internal/frames"
)

// Handler is the movie side of the protocol.
type Handler interface {
	Frames(ctx context.Context) ([]frames.ID, error)
	Render(ctx context.Context, path string, frame frames.ID) error
}

// Namer is optionally implemented by handlers to announce a name.
type Namer interface {
	Name() string
}

// Serve answers requests from r on w until r is closed or ctx ends.
func Serve(ctx context.Context, h Handler, r io.Reader, w io.Writer) error {
	dec := json.NewDecoder(bufio.NewReader(r))
	out := bufio.NewWriter(w)
	enc := json.NewEncoder(out)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var req request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode request: %w", err)
		}
		resp := handle(ctx, h, req)
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		if err := out.Flush(); err != nil {
			return fmt.Errorf("flush response: %w", err)
		}
	}
}

func handle(ctx context.Context, h Handler, req request) (resp response) {
	resp.ID = req.ID
	defer func() {
		if r := recover(); r != nil {
			resp = response{ID: req.ID, Error: &RemoteError{
				Message:   fmt.Sprintf("panic: %v", r),
				Traceback: string(debug.Stack()),
			}}
		}
	}()

	switch req.Method {
	case methodHello:
		if n, ok := h.(Namer); ok {
			resp.Name = n.Name()
		}
	case methodFrames:
		ids, err := h.Frames(ctx)
		if err != nil {
			resp.Error = remoteError(err)
			return resp
		}
		resp.Frames = make([]json.RawMessage, 0, len(ids))
		for _, id := range ids {
			raw, err := json.Marshal(id)
			if err != nil {
				resp.Frames = nil
				resp.Error = remoteError(err)
				return resp
			}
			resp.Frames = append(resp.Frames, raw)
		}
	case methodRender:
		if req.Frame == nil || req.Path == "" {
			resp.Error = &RemoteError{Message: "render needs path and frame"}
			return resp
		}
		if err := h.Render(ctx, req.Path, *req.Frame); err != nil {
			resp.Error = remoteError(err)
		}
	default:
		resp.Error = &RemoteError{Message: fmt.Sprintf("unknown method %q", req.Method)}
	}
	return resp
}

func remoteError(err error) *RemoteError {
	remote := &RemoteError{Message: err.Error()}
	var t interface{ Trace() string }
	if errors.As(err, &t) {
		remote.Traceback = t.Trace()
	}
	return remote
}
