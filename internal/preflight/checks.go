package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"motionpicture/internal/config"
	"motionpicture/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDependencies evaluates the external binaries needed for the given config.
// The encoder is probed for its version; everything else only has to resolve.
func CheckDependencies(ctx context.Context, cfg *config.Config) []deps.Status {
	if cfg == nil {
		return nil
	}
	return []deps.Status{deps.CheckFFmpeg(ctx, cfg.EncoderBinary())}
}

// RunAll executes the directory checks doctor reports for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{CheckDirectoryAccess("Output directory", cfg.Paths.OutDir)}
	if info, err := os.Stat(cfg.Paths.MoviesDir); err == nil && info.IsDir() {
		results = append(results, Result{Name: "Movies directory", Passed: true, Detail: cfg.Paths.MoviesDir})
	} else {
		results = append(results, Result{Name: "Movies directory", Detail: fmt.Sprintf("%s (error: not a directory)", cfg.Paths.MoviesDir)})
	}
	return results
}
