package config

import (
	"fmt"
	"runtime"
	"strings"
)

// Normalize expands paths and fills blank values with defaults. Load calls it;
// the CLI calls it again after applying flag overrides.
func (c *Config) Normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRender()
	c.normalizeFrames()
	c.normalizeVideo()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.MoviesDir) == "" {
		c.Paths.MoviesDir = defaultMoviesDir
	}
	if strings.TrimSpace(c.Paths.OutDir) == "" {
		c.Paths.OutDir = defaultOutDir
	}
	var err error
	if c.Paths.MoviesDir, err = expandPath(strings.TrimSpace(c.Paths.MoviesDir)); err != nil {
		return fmt.Errorf("paths.movies_dir: %w", err)
	}
	if c.Paths.OutDir, err = expandPath(strings.TrimSpace(c.Paths.OutDir)); err != nil {
		return fmt.Errorf("paths.outdir: %w", err)
	}
	if c.Paths.LogFile, err = expandPath(strings.TrimSpace(c.Paths.LogFile)); err != nil {
		return fmt.Errorf("paths.log_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeRender() {
	if c.Render.NumWorkers <= 0 {
		c.Render.NumWorkers = runtime.NumCPU()
	}
	c.Render.FrameExtension = dotted(c.Render.FrameExtension, defaultFrameExtension)
}

func (c *Config) normalizeFrames() {
	c.Frames.Min = Bound(strings.TrimSpace(string(c.Frames.Min)))
	c.Frames.Max = Bound(strings.TrimSpace(string(c.Frames.Max)))
}

func (c *Config) normalizeVideo() {
	c.Video.Name = strings.TrimSpace(c.Video.Name)
	if c.Video.Name == "" {
		c.Video.Name = defaultMovieName
	}
	c.Video.Extension = dotted(c.Video.Extension, defaultMovieExtension)
	c.Video.Codec = strings.TrimSpace(c.Video.Codec)
	c.Video.EncoderBinary = strings.TrimSpace(c.Video.EncoderBinary)
	if c.Video.EncoderBinary == "" {
		c.Video.EncoderBinary = defaultEncoderBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func dotted(ext, fallback string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return fallback
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
