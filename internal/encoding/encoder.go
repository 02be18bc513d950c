package encoding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"motionpicture/internal/logging"
	"motionpicture/internal/services"
)

// ErrEncodingFailed is returned when ffmpeg exits unsuccessfully outside
// verbose mode.
var ErrEncodingFailed = errors.New("encoding failed")

const stderrTailLines = 20

// Encoder runs ffmpeg.
type Encoder struct {
	// Binary defaults to "ffmpeg".
	Binary string
	// Stderr receives ffmpeg's diagnostics in verbose mode (default os.Stderr).
	Stderr io.Writer
	Logger *slog.Logger
}

// Encode runs a single ffmpeg process and returns the video path.
func (e *Encoder) Encode(ctx context.Context, job Job) (string, error) {
	if job.FPS <= 0 {
		return "", services.Wrap(services.ErrConfiguration, "encoding", "validate",
			fmt.Sprintf("fps must be positive, got %d", job.FPS), nil)
	}
	if strings.TrimSpace(job.Pattern) == "" || strings.TrimSpace(job.Name) == "" {
		return "", services.Wrap(services.ErrConfiguration, "encoding", "validate", "Frame pattern and movie name are required", nil)
	}

	binary := strings.TrimSpace(e.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	args := BuildArgs(job)
	logger := logging.NewComponentLogger(e.Logger, "encoding")
	logger.Info("launching ffmpeg",
		logging.String("command", binary+" "+strings.Join(args, " ")),
		logging.String("output", job.OutputPath()),
	)

	cmd := commandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	if job.Verbose {
		sink := e.Stderr
		if sink == nil {
			sink = os.Stderr
		}
		cmd.Stderr = io.MultiWriter(&stderr, sink)
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		if job.Verbose {
			detail := tail(stderr.String(), stderrTailLines)
			if detail == "" {
				detail = "ffmpeg produced no diagnostics"
			}
			return "", services.Wrap(services.ErrExternalTool, "encoding", "ffmpeg", detail, err)
		}
		return "", services.Wrap(services.ErrExternalTool, "encoding", "ffmpeg",
			"rerun with --verbose for encoder output", fmt.Errorf("%w: %v", ErrEncodingFailed, err))
	}
	logger.Info("video rendered", logging.String("output", job.OutputPath()))
	return job.OutputPath(), nil
}

// tail keeps the last n non-empty lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return strings.Join(kept, "\n")
}
