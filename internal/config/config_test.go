package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"motionpicture/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.MoviesDirEnv, "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "mopi", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if !filepath.IsAbs(cfg.Paths.OutDir) || !filepath.IsAbs(cfg.Paths.MoviesDir) {
		t.Fatalf("expected absolute paths, got %q and %q", cfg.Paths.OutDir, cfg.Paths.MoviesDir)
	}
	if cfg.Render.NumWorkers != runtime.NumCPU() {
		t.Fatalf("expected worker default of %d, got %d", runtime.NumCPU(), cfg.Render.NumWorkers)
	}
	if cfg.Render.ChunkSize != 1 || cfg.Render.MaxTasksPerChild != 1 {
		t.Fatalf("unexpected pool defaults: %+v", cfg.Render)
	}
	if cfg.Video.Name != "video" || cfg.Video.Extension != ".mp4" || cfg.Video.FPS != 25 {
		t.Fatalf("unexpected video defaults: %+v", cfg.Video)
	}
	if cfg.Render.FrameExtension != ".png" {
		t.Fatalf("unexpected frame extension: %q", cfg.Render.FrameExtension)
	}
	if cfg.EncoderBinary() != "ffmpeg" {
		t.Fatalf("unexpected encoder binary: %q", cfg.EncoderBinary())
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "mopi.toml")

	type payload struct {
		Paths struct {
			OutDir string `toml:"outdir"`
		} `toml:"paths"`
		Render struct {
			Parallel       bool   `toml:"parallel"`
			ChunkSize      int    `toml:"chunk_size"`
			FrameExtension string `toml:"frame_extension"`
		} `toml:"render"`
		Frames struct {
			Min   string `toml:"min"`
			Every int    `toml:"every"`
		} `toml:"frames"`
		Video struct {
			Extension string `toml:"extension"`
			Author    string `toml:"author"`
		} `toml:"video"`
	}
	custom := payload{}
	custom.Paths.OutDir = filepath.Join(tempDir, "frames")
	custom.Render.Parallel = true
	custom.Render.ChunkSize = 4
	custom.Render.FrameExtension = "jpg"
	custom.Frames.Min = " 3 "
	custom.Frames.Every = 2
	custom.Video.Extension = "webm"
	custom.Video.Author = "Me"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.OutDir != filepath.Join(tempDir, "frames") {
		t.Fatalf("unexpected outdir: %q", cfg.Paths.OutDir)
	}
	if !cfg.Render.Parallel || cfg.Render.ChunkSize != 4 {
		t.Fatalf("unexpected render section: %+v", cfg.Render)
	}
	if cfg.Render.FrameExtension != ".jpg" {
		t.Fatalf("expected sanitized frame extension, got %q", cfg.Render.FrameExtension)
	}
	if cfg.Frames.Min != "3" || cfg.Frames.Every != 2 {
		t.Fatalf("unexpected frames section: %+v", cfg.Frames)
	}
	if cfg.Video.Extension != ".webm" {
		t.Fatalf("expected sanitized video extension, got %q", cfg.Video.Extension)
	}
	if cfg.Metadata()["artist"] != "Me" {
		t.Fatalf("expected author in metadata, got %v", cfg.Metadata())
	}
}

func TestLoadNumericFrameBounds(t *testing.T) {
	tests := []struct {
		name    string
		section string
		min     config.Bound
		max     config.Bound
	}{
		{"integers", "[frames]\nmin = 3\nmax = 12\n", "3", "12"},
		{"floats", "[frames]\nmin = 0.5\nmax = 2.25\n", "0.5", "2.25"},
		{"strings", "[frames]\nmin = \"3\"\nmax = \" 7.5 \"\n", "3", "7.5"},
		{"underscores", "[frames]\nmax = 1_000\n", "", "1000"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.section), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			cfg, _, _, err := config.Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.Frames.Min != tc.min || cfg.Frames.Max != tc.max {
				t.Fatalf("bounds = %q..%q, want %q..%q", cfg.Frames.Min, cfg.Frames.Max, tc.min, tc.max)
			}
		})
	}
}

func TestLoadRejectsNonNumericFrameBounds(t *testing.T) {
	for _, section := range []string{"[frames]\nmin = true\n", "[frames]\nmax = inf\n", "[frames]\nmin = [1]\n"} {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(section), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, _, _, err := config.Load(path); err == nil {
			t.Fatalf("expected error for %q", section)
		}
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "mopi.toml")
	if err := os.WriteFile(configPath, []byte("[render]\nthreads = 4\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, _, _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestMoviesDirFromEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	moviesDir := t.TempDir()
	t.Setenv(config.MoviesDirEnv, moviesDir)
	t.Chdir(t.TempDir())

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.MoviesDir != moviesDir {
		t.Fatalf("expected movies dir from env, got %q", cfg.Paths.MoviesDir)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "max_tasks_per_child") {
		t.Fatalf("sample config missing render settings: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Video.FPS != 25 {
		t.Fatalf("expected sample fps 25, got %d", cfg.Video.FPS)
	}

	t.Setenv("HOME", t.TempDir())
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	mutations := map[string]func(*config.Config){
		"zero chunk size":         func(c *config.Config) { c.Render.ChunkSize = 0 },
		"negative recycle":        func(c *config.Config) { c.Render.MaxTasksPerChild = -1 },
		"zero stride":             func(c *config.Config) { c.Frames.Every = 0 },
		"zero fps":                func(c *config.Config) { c.Video.FPS = 0 },
		"name with separator":     func(c *config.Config) { c.Video.Name = "a/b" },
		"unknown log format":      func(c *config.Config) { c.Logging.Format = "xml" },
		"unknown log level":       func(c *config.Config) { c.Logging.Level = "loud" },
		"zero workers after load": func(c *config.Config) { c.Render.NumWorkers = 0 },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadAcceptsKnownLogLevels(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "warning", "Warn", "error"} {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("[logging]\nlevel = \""+level+"\"\n"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			t.Fatalf("level %q: %v", level, err)
		}
		if cfg.Logging.Level != strings.ToLower(level) {
			t.Fatalf("level %q normalized to %q", level, cfg.Logging.Level)
		}
	}
}

func TestWarningsForOversubscribedWorkers(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Parallel = true
	cfg.Render.NumWorkers = runtime.NumCPU() + 1
	if len(cfg.Warnings()) != 1 {
		t.Fatalf("expected one warning, got %v", cfg.Warnings())
	}
	cfg.Render.Parallel = false
	if len(cfg.Warnings()) != 0 {
		t.Fatalf("expected no warnings for sequential runs, got %v", cfg.Warnings())
	}
}
