package config

import "runtime"

const (
	defaultMoviesDir        = "."
	defaultOutDir           = "."
	defaultChunkSize        = 1
	defaultMaxTasksPerChild = 1
	defaultFrameExtension   = ".png"
	defaultFramesEvery      = 1
	defaultMovieName        = "video"
	defaultMovieExtension   = ".mp4"
	defaultFPS              = 25
	defaultEncoderBinary    = "ffmpeg"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"

	// MoviesDirEnv overrides paths.movies_dir when set.
	MoviesDirEnv = "MOPI_MOVIES_DIR"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			MoviesDir: defaultMoviesDir,
			OutDir:    defaultOutDir,
		},
		Render: Render{
			NumWorkers:       runtime.NumCPU(),
			ChunkSize:        defaultChunkSize,
			MaxTasksPerChild: defaultMaxTasksPerChild,
			FrameExtension:   defaultFrameExtension,
		},
		Frames: Frames{
			Every: defaultFramesEvery,
		},
		Video: Video{
			Name:          defaultMovieName,
			Extension:     defaultMovieExtension,
			FPS:           defaultFPS,
			EncoderBinary: defaultEncoderBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
