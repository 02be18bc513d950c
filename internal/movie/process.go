package movie

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"motionpicture/internal/frames"
	"motionpicture/internal/logging"
)

const closeTimeout = 5 * time.Second

// ErrProcessClosed is returned by calls on a closed or crashed process.
var ErrProcessClosed = errors.New("movie process closed")

// Process is one running movie plugin. Calls are serialised.
type Process struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	enc    *json.Encoder
	dec    *json.Decoder
	nextID int64
	name   string
	broken error
	closed bool
	logger *slog.Logger
}

// Name is the name the movie announced during the handshake.
func (p *Process) Name() string { return p.name }

// Frames asks the movie for its frame identifiers.
func (p *Process) Frames(ctx context.Context) ([]frames.ID, error) {
	resp, err := p.call(ctx, request{Method: methodFrames})
	if err != nil {
		return nil, err
	}
	return frames.Decode(resp.Frames)
}

// Render asks the movie to write frame to path.
func (p *Process) Render(ctx context.Context, path string, frame frames.ID) error {
	_, err := p.call(ctx, request{Method: methodRender, Path: path, Frame: &frame})
	return err
}

func (p *Process) hello(ctx context.Context) error {
	resp, err := p.call(ctx, request{Method: methodHello})
	if err != nil {
		return err
	}
	p.name = resp.Name
	return nil
}

type callResult struct {
	resp response
	err  error
}

func (p *Process) call(ctx context.Context, req request) (response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return response{}, ErrProcessClosed
	}
	if p.broken != nil {
		return response{}, fmt.Errorf("%w: %v", ErrProcessClosed, p.broken)
	}

	p.nextID++
	req.ID = p.nextID
	if err := p.enc.Encode(req); err != nil {
		p.broken = err
		return response{}, fmt.Errorf("send %s request: %w", req.Method, err)
	}

	done := make(chan callResult, 1)
	go func() {
		var resp response
		err := p.dec.Decode(&resp)
		done <- callResult{resp: resp, err: err}
	}()

	var result callResult
	select {
	case result = <-done:
	case <-ctx.Done():
		p.broken = ctx.Err()
		p.kill()
		<-done
		return response{}, ctx.Err()
	}

	if result.err != nil {
		if errors.Is(result.err, io.EOF) {
			result.err = errors.New("movie exited unexpectedly")
		}
		p.broken = result.err
		return response{}, fmt.Errorf("read %s response: %w", req.Method, result.err)
	}
	if result.resp.ID != req.ID {
		p.broken = fmt.Errorf("response id %d does not match request %d", result.resp.ID, req.ID)
		return response{}, p.broken
	}
	if result.resp.Error != nil {
		return response{}, result.resp.Error
	}
	return result.resp, nil
}

// Close asks the movie to exit by closing its input, killing it if it does
// not exit in time.
func (p *Process) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	_ = p.stdin.Close()

	waited := make(chan error, 1)
	go func() { waited <- p.cmd.Wait() }()
	select {
	case err := <-waited:
		if err != nil && p.broken == nil {
			return fmt.Errorf("movie exit: %w", err)
		}
		return nil
	case <-time.After(closeTimeout):
		p.logger.Warn("movie did not exit, killing",
			logging.String(logging.FieldEventType, "movie_kill"),
			logging.String(logging.FieldErrorHint, "make sure the movie exits when stdin is closed"),
			logging.String(logging.FieldImpact, "process terminated"),
		)
		p.kill()
		<-waited
		return nil
	}
}

func (p *Process) kill() {
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
}

// lineLogger forwards complete stderr lines to the debug log.
type lineLogger struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	logger *slog.Logger
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Write(p)
	for {
		line, err := l.buf.ReadString('\n')
		if err != nil {
			// Keep the partial line for the next write.
			l.buf.Reset()
			l.buf.WriteString(line)
			break
		}
		l.emit(line)
	}
	return len(p), nil
}

func (l *lineLogger) emit(line string) {
	line = string(bytes.TrimRight([]byte(line), "\r\n"))
	if line == "" {
		return
	}
	l.logger.Debug("movie stderr", logging.String("line", line))
}

func newDecoder(r io.Reader) *json.Decoder {
	return json.NewDecoder(bufio.NewReader(r))
}
