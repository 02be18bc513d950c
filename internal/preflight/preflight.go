package preflight

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"motionpicture/internal/services"
)

var (
	// ErrArtifactExists reports that the final video is already on disk.
	ErrArtifactExists = errors.New("artifact already exists")
	// ErrDirectoryNotEmpty reports frames left over from an earlier run.
	ErrDirectoryNotEmpty = errors.New("directory already contains frames")
)

// Request describes the output a run is about to produce.
type Request struct {
	Dir          string
	FrameExt     string
	Artifact     string
	Overwrite    bool
	SkipExisting bool
	// SkipFrames is set when frame generation is skipped entirely, so
	// existing frames are the input rather than a collision.
	SkipFrames bool
}

// Result reports the outcome of a single readiness check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Guard verifies the output location before rendering and creates the output
// directory. The artifact check always runs first.
func Guard(req Request) error {
	dir := strings.TrimSpace(req.Dir)
	if dir == "" {
		return services.Wrap(services.ErrConfiguration, "preflight", "guard", "Output directory not set", nil)
	}

	if req.Artifact != "" && !req.Overwrite {
		if _, err := os.Stat(req.Artifact); err == nil {
			return services.Wrap(services.ErrPreflight, "preflight", "artifact",
				fmt.Sprintf("File %s already exists (use overwrite to replace it)", req.Artifact), ErrArtifactExists)
		} else if !errors.Is(err, os.ErrNotExist) {
			return services.Wrap(services.ErrPreflight, "preflight", "artifact", "Inspect output video", err)
		}
	}

	if !req.SkipFrames && !req.Overwrite && !req.SkipExisting {
		found, err := hasFrames(dir, req.FrameExt)
		if err != nil {
			return services.Wrap(services.ErrPreflight, "preflight", "scan", "Inspect output directory", err)
		}
		if found {
			return services.Wrap(services.ErrPreflight, "preflight", "scan",
				fmt.Sprintf("Directory %s already contains %s frames", dir, req.FrameExt), ErrDirectoryNotEmpty)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrPreflight, "preflight", "mkdir", "Create output directory", err)
	}
	if check := CheckDirectoryAccess("Output directory", dir); !check.Passed {
		return services.Wrap(services.ErrPreflight, "preflight", "access", check.Detail, nil)
	}
	return nil
}

// hasFrames reports whether dir holds a regular file ending with ext. A
// missing directory holds nothing.
func hasFrames(dir, ext string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ext == "" || strings.HasSuffix(entry.Name(), ext) {
			return true, nil
		}
	}
	return false, nil
}
