package movie

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"motionpicture/internal/frames"
	"motionpicture/internal/services"
)

type stubHandler struct {
	ids []frames.ID
}

func (h stubHandler) Name() string { return "stub" }

func (h stubHandler) Frames(context.Context) ([]frames.ID, error) { return h.ids, nil }

func (h stubHandler) Render(_ context.Context, path string, frame frames.ID) error {
	switch frame.String() {
	case "3":
		return &RemoteError{Message: "frame 3 is cursed", Traceback: "line 42"}
	case "4":
		panic("frame 4 exploded")
	}
	return os.WriteFile(path, []byte(frame.String()), 0o644)
}

func helperLoader(t *testing.T, mode string) Loader {
	t.Helper()
	return Loader{
		Path: os.Args[0],
		Args: []string{"-test.run=TestHelperMovie", "--"},
		Env:  []string{"GO_WANT_HELPER_PROCESS=1", "MOPI_HELPER_MODE=" + mode},
	}
}

// TestHelperMovie is the plugin process used by the loader tests.
func TestHelperMovie(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("MOPI_HELPER_MODE") {
	case "silent":
		os.Exit(0)
	case "hang":
		fmt.Fprintln(os.Stderr, "hanging on purpose")
		time.Sleep(time.Minute)
		os.Exit(0)
	}
	fmt.Fprintln(os.Stderr, "helper movie ready")
	h := stubHandler{ids: []frames.ID{frames.Int(0), frames.Int(1), frames.Int(2), frames.Int(3), frames.Int(4)}}
	if err := Serve(context.Background(), h, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}

func TestProcessRoundTrip(t *testing.T) {
	p, err := helperLoader(t, "serve").Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer p.Close()

	if p.Name() != "stub" {
		t.Fatalf("unexpected name %q", p.Name())
	}
	ids, err := p.Frames(context.Background())
	if err != nil {
		t.Fatalf("Frames: %v", err)
	}
	if len(ids) != 5 || ids[4] != frames.Int(4) {
		t.Fatalf("unexpected frames %v", ids)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "0.png")
	if err := p.Render(context.Background(), path, frames.Int(0)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if data, err := os.ReadFile(path); err != nil || string(data) != "0" {
		t.Fatalf("expected rendered file, got %q (%v)", data, err)
	}

	err = p.Render(context.Background(), filepath.Join(dir, "3.png"), frames.Int(3))
	var remote *RemoteError
	if !errors.As(err, &remote) || remote.Trace() != "line 42" {
		t.Fatalf("expected remote error with trace, got %v", err)
	}

	err = p.Render(context.Background(), filepath.Join(dir, "4.png"), frames.Int(4))
	if !errors.As(err, &remote) || !strings.Contains(remote.Message, "exploded") || remote.Trace() == "" {
		t.Fatalf("expected recovered panic from movie, got %v", err)
	}

	// The process survives failed frames.
	if err := p.Render(context.Background(), filepath.Join(dir, "1.png"), frames.Int(1)); err != nil {
		t.Fatalf("Render after failures: %v", err)
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := p.Frames(context.Background()); !errors.Is(err, ErrProcessClosed) {
		t.Fatalf("expected ErrProcessClosed after close, got %v", err)
	}
}

func TestStartHandshakeFailure(t *testing.T) {
	_, err := helperLoader(t, "silent").Start(context.Background())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for a silent movie, got %v", err)
	}
}

func TestCallHonoursContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := helperLoader(t, "hang").Start(ctx)
	if err == nil {
		t.Fatal("expected handshake to fail on timeout")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if time.Since(start) > 10*time.Second {
		t.Fatal("hung movie was not killed")
	}
}

func TestServeProtocol(t *testing.T) {
	var in bytes.Buffer
	enc := json.NewEncoder(&in)
	one := frames.Int(1)
	dir := t.TempDir()
	for _, req := range []request{
		{ID: 1, Method: methodHello},
		{ID: 2, Method: methodFrames},
		{ID: 3, Method: methodRender, Path: filepath.Join(dir, "1.png"), Frame: &one},
		{ID: 4, Method: methodRender},
		{ID: 5, Method: "dance"},
	} {
		if err := enc.Encode(req); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	h := stubHandler{ids: []frames.ID{frames.Float(0.5), frames.Float(1)}}
	if err := Serve(context.Background(), h, &in, &out); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	dec := json.NewDecoder(&out)
	var responses []response
	for dec.More() {
		var resp response
		if err := dec.Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		responses = append(responses, resp)
	}
	if len(responses) != 5 {
		t.Fatalf("expected 5 responses, got %d", len(responses))
	}
	if responses[0].Name != "stub" {
		t.Fatalf("unexpected hello %+v", responses[0])
	}
	ids, err := frames.Decode(responses[1].Frames)
	if err != nil || len(ids) != 2 || ids[1].Kind() != frames.KindFloat {
		t.Fatalf("real frames must survive the wire, got %v (%v)", ids, err)
	}
	if responses[2].Error != nil {
		t.Fatalf("unexpected render error %v", responses[2].Error)
	}
	if responses[3].Error == nil || responses[4].Error == nil {
		t.Fatal("expected errors for malformed and unknown requests")
	}
	for i, resp := range responses {
		if resp.ID != int64(i+1) {
			t.Fatalf("response %d has id %d", i, resp.ID)
		}
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "orbit")
	plain := filepath.Join(dir, "notes.txt")
	writeExec(t, exe, 0o755)
	writeExec(t, plain, 0o644)

	if err := Validate(exe); err != nil {
		t.Fatalf("expected executable to validate: %v", err)
	}
	for _, path := range []string{plain, dir, filepath.Join(dir, "missing")} {
		if err := Validate(path); !errors.Is(err, services.ErrConfiguration) {
			t.Fatalf("expected configuration error for %s, got %v", path, err)
		}
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeExec(t, filepath.Join(dir, "zoom"), 0o755)
	writeExec(t, filepath.Join(dir, "alpha"), 0o755)
	writeExec(t, filepath.Join(dir, "readme.md"), 0o644)
	writeExec(t, filepath.Join(dir, ".hidden"), 0o755)
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	movies, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(movies) != 2 || movies[0].Name != "alpha" || movies[1].Name != "zoom" {
		t.Fatalf("unexpected movies %+v", movies)
	}
	if _, err := Discover(filepath.Join(dir, "nope")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	writeExec(t, filepath.Join(dir, "orbit"), 0o755)
	writeExec(t, filepath.Join(other, "spiral"), 0o755)

	path, err := Resolve("orbit", "", dir)
	if err != nil || path != filepath.Join(dir, "orbit") {
		t.Fatalf("Resolve by name = %q, %v", path, err)
	}
	path, err = Resolve("orbit", filepath.Join(other, "spiral"), dir)
	if err != nil || path != filepath.Join(other, "spiral") {
		t.Fatalf("explicit file must win, got %q, %v", path, err)
	}
	if _, err := Resolve("", "", dir); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error without a movie, got %v", err)
	}
	if _, err := Resolve("missing", "", dir); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for unknown movie, got %v", err)
	}
}

func writeExec(t *testing.T, path string, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), mode); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
