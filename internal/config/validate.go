package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"motionpicture/internal/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateFrames(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	return c.validateLogging()
}

// Warnings reports settings that are valid but probably unintended.
func (c *Config) Warnings() []string {
	var warnings []string
	if cpus := runtime.NumCPU(); c.Render.Parallel && c.Render.NumWorkers > cpus {
		warnings = append(warnings, fmt.Sprintf(
			"requested %d workers but the machine only has %d CPUs; this may result in performance loss",
			c.Render.NumWorkers, cpus))
	}
	return warnings
}

func (c *Config) validateRender() error {
	if err := ensurePositiveMap(map[string]int{
		"render.num_workers": c.Render.NumWorkers,
		"render.chunk_size":  c.Render.ChunkSize,
	}); err != nil {
		return err
	}
	if c.Render.MaxTasksPerChild < 0 {
		return errors.New("render.max_tasks_per_child must not be negative")
	}
	if c.Render.FrameExtension == "." {
		return errors.New("render.frame_extension must name an extension")
	}
	return nil
}

func (c *Config) validateFrames() error {
	if c.Frames.Every <= 0 {
		return errors.New("frames.every must be positive")
	}
	return nil
}

func (c *Config) validateVideo() error {
	if c.Video.FPS <= 0 {
		return errors.New("video.fps must be positive")
	}
	if strings.ContainsAny(c.Video.Name, `/\`) {
		return fmt.Errorf("video.name %q must not contain path separators", c.Video.Name)
	}
	if c.Video.Extension == "." {
		return errors.New("video.extension must name an extension")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
