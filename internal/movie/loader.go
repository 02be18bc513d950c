package movie

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"motionpicture/internal/logging"
	"motionpicture/internal/services"
)

// Loader starts movie processes. Every Start returns an independent process
// running the same executable with the same arguments.
type Loader struct {
	Path string
	Args []string
	// Dir is the working directory of the process (default: current).
	Dir string
	// Env is appended to the current environment.
	Env    []string
	Logger *slog.Logger
}

// Start launches the movie and completes the handshake.
func (l Loader) Start(ctx context.Context) (*Process, error) {
	if l.Path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "movie", "start", "Movie path not set", nil)
	}
	logger := logging.NewComponentLogger(l.Logger, "movie").With(logging.String(logging.FieldMovie, filepath.Base(l.Path)))

	cmd := exec.Command(l.Path, l.Args...)
	cmd.Dir = l.Dir
	if len(l.Env) > 0 {
		cmd.Env = append(os.Environ(), l.Env...)
	}
	cmd.Stderr = &lineLogger{logger: logger}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("movie stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("movie stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "movie", "start",
			fmt.Sprintf("Start movie %s", l.Path), err)
	}

	p := &Process{
		cmd:    cmd,
		stdin:  stdin,
		enc:    json.NewEncoder(stdin),
		dec:    newDecoder(stdout),
		logger: logger,
	}
	if err := p.hello(ctx); err != nil {
		p.kill()
		_ = p.Close()
		return nil, services.Wrap(services.ErrConfiguration, "movie", "handshake",
			fmt.Sprintf("Movie %s did not answer the handshake", l.Path), err)
	}
	logger.Debug("movie started", logging.Int("pid", cmd.Process.Pid), logging.String("name", p.name))
	return p, nil
}
