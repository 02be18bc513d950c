package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	MoviesDir string `toml:"movies_dir"`
	OutDir    string `toml:"outdir"`
	LogFile   string `toml:"log_file"`
}

// Render contains configuration for frame generation.
type Render struct {
	Parallel           bool   `toml:"parallel"`
	NumWorkers         int    `toml:"num_workers"`
	ChunkSize          int    `toml:"chunk_size"`
	MaxTasksPerChild   int    `toml:"max_tasks_per_child"`
	SkipExisting       bool   `toml:"skip_existing"`
	Overwrite          bool   `toml:"overwrite"`
	DisableProgressBar bool   `toml:"disable_progress_bar"`
	FrameExtension     string `toml:"frame_extension"`
}

// Frames contains the frame selection bounds. Min and Max are kept as text and
// coerced to the movie's frame kind once the frames are known.
type Frames struct {
	Min   Bound  `toml:"min"`
	Max   Bound  `toml:"max"`
	Every int    `toml:"every"`
}

// Video contains configuration for the final encode.
type Video struct {
	Name          string `toml:"name"`
	Extension     string `toml:"extension"`
	FPS           int    `toml:"fps"`
	Codec         string `toml:"codec"`
	Author        string `toml:"author"`
	Title         string `toml:"title"`
	Comment       string `toml:"comment"`
	EncoderBinary string `toml:"encoder_binary"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for mopi.
//
// Configuration sections by subsystem:
//   - Paths: movie discovery directory, output directory, optional log file
//   - Render: worker pool and resumability settings
//   - Frames: frame selection bounds and stride
//   - Video: encoder invocation and metadata
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Render  Render  `toml:"render"`
	Frames  Frames  `toml:"frames"`
	Video   Video   `toml:"video"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mopi/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		decoder.EnableUnmarshalerInterface()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// applyEnv lets the environment override the file; flags are applied later
// by the CLI and win over both.
func applyEnv(cfg *Config) {
	if value := strings.TrimSpace(os.Getenv(MoviesDirEnv)); value != "" {
		cfg.Paths.MoviesDir = value
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			return "", false, fmt.Errorf("config file %s: %w", expanded, err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config file %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mopi.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EncoderBinary returns the encoder executable name.
func (c *Config) EncoderBinary() string {
	if bin := strings.TrimSpace(c.Video.EncoderBinary); bin != "" {
		return bin
	}
	return defaultEncoderBinary
}

// Metadata returns the tags embedded into the final video.
func (c *Config) Metadata() map[string]string {
	return map[string]string{
		"artist":  c.Video.Author,
		"title":   c.Video.Title,
		"comment": c.Video.Comment,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
