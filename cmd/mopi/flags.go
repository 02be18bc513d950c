package main

import (
	"github.com/spf13/cobra"

	"motionpicture/internal/config"
)

// renderFlags mirrors the render settings that can be given on the command
// line. Values only override the configuration when the flag was set.
type renderFlags struct {
	movieFile       string
	moviesDir       string
	outDir          string
	snapshot        string
	overwrite       bool
	disableProgress bool
	parallel        bool
	skipExisting    bool
	numWorkers      int
	maxTasks        int
	chunkSize       int
	onlyRenderMovie bool
	frameNameFormat string
	verbose         bool

	minFrame    string
	maxFrame    string
	framesEvery int

	movieName      string
	extension      string
	fps            int
	codec          string
	author         string
	title          string
	comment        string
	frameExtension string
	logFormat      string
}

func (f *renderFlags) register(cmd *cobra.Command) {
	defaults := config.Default()

	general := cmd.Flags()
	general.StringVarP(&f.movieFile, "movie-file", "m", "", "Path of the movie file")
	cmd.PersistentFlags().StringVar(&f.moviesDir, "movies-dir", "", "Folder where to look for movies (env "+config.MoviesDirEnv+")")
	general.StringVarP(&f.outDir, "outdir", "o", defaults.Paths.OutDir, "Output directory for frames and video")
	general.StringVar(&f.snapshot, "snapshot", "", "Only produce the specified frame (useful for testing)")
	general.BoolVar(&f.overwrite, "overwrite", false, "Overwrite files that already exist")
	general.BoolVar(&f.disableProgress, "disable-progress-bar", false, "Do not display the progress bar when generating frames")
	general.BoolVar(&f.parallel, "parallel", false, "Render frames in parallel")
	general.BoolVar(&f.skipExisting, "skip-existing", false, "Do not generate frames that already exist; no consistency checks are performed")
	general.IntVar(&f.numWorkers, "num-workers", defaults.Render.NumWorkers, "Number of movie processes rendering at the same time")
	general.IntVar(&f.maxTasks, "max-tasks-per-child", defaults.Render.MaxTasksPerChild, "Chunks a worker processes before its movie is restarted (0 = never)")
	general.IntVar(&f.chunkSize, "chunk-size", defaults.Render.ChunkSize, "Frames a worker takes at a time")
	general.BoolVar(&f.onlyRenderMovie, "only-render-movie", false, "Do not generate frames but only render the final video")
	general.StringVar(&f.frameNameFormat, "frame-name-format", "", "With --only-render-movie, C-style frame name format to encode (e.g. '%04d.png')")
	cmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "Enable verbose output")

	general.StringVar(&f.minFrame, "min-frame", "", "Do not render frames before this one")
	general.StringVar(&f.maxFrame, "max-frame", "", "Do not render frames after this one")
	general.IntVar(&f.framesEvery, "frames-every", defaults.Frames.Every, "Render a frame every N")

	general.StringVar(&f.movieName, "movie-name", defaults.Video.Name, "Name of output video file, without extension")
	general.StringVar(&f.extension, "extension", defaults.Video.Extension, "File extension of the video")
	general.IntVar(&f.fps, "fps", defaults.Video.FPS, "Frames-per-second of the video")
	general.StringVar(&f.codec, "codec", "", "Codec for the final encoding (default: chosen from the extension)")
	general.StringVar(&f.author, "author", "", "Author metadata in the final video")
	general.StringVar(&f.title, "title", "", "Title metadata in the final video")
	general.StringVar(&f.comment, "comment", "", "Comment metadata in the final video")
	general.StringVar(&f.frameExtension, "frame-extension", defaults.Render.FrameExtension, "File extension of the frames")
	cmd.PersistentFlags().StringVar(&f.logFormat, "log-format", "", "Log format (console or json)")
}

// apply copies explicitly set flags into cfg, then normalises and validates
// the result.
func (f *renderFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := func(name string) bool {
		flag := cmd.Flag(name)
		return flag != nil && flag.Changed
	}

	if changed("movies-dir") {
		cfg.Paths.MoviesDir = f.moviesDir
	}
	if changed("outdir") {
		cfg.Paths.OutDir = f.outDir
	}
	if changed("overwrite") {
		cfg.Render.Overwrite = f.overwrite
	}
	if changed("disable-progress-bar") {
		cfg.Render.DisableProgressBar = f.disableProgress
	}
	if changed("parallel") {
		cfg.Render.Parallel = f.parallel
	}
	if changed("skip-existing") {
		cfg.Render.SkipExisting = f.skipExisting
	}
	if changed("num-workers") {
		cfg.Render.NumWorkers = f.numWorkers
	}
	if changed("max-tasks-per-child") {
		cfg.Render.MaxTasksPerChild = f.maxTasks
	}
	if changed("chunk-size") {
		cfg.Render.ChunkSize = f.chunkSize
	}
	if changed("frame-extension") {
		cfg.Render.FrameExtension = f.frameExtension
	}
	if changed("min-frame") {
		cfg.Frames.Min = config.Bound(f.minFrame)
	}
	if changed("max-frame") {
		cfg.Frames.Max = config.Bound(f.maxFrame)
	}
	if changed("frames-every") {
		cfg.Frames.Every = f.framesEvery
	}
	if changed("movie-name") {
		cfg.Video.Name = f.movieName
	}
	if changed("extension") {
		cfg.Video.Extension = f.extension
	}
	if changed("fps") {
		cfg.Video.FPS = f.fps
	}
	if changed("codec") {
		cfg.Video.Codec = f.codec
	}
	if changed("author") {
		cfg.Video.Author = f.author
	}
	if changed("title") {
		cfg.Video.Title = f.title
	}
	if changed("comment") {
		cfg.Video.Comment = f.comment
	}
	if changed("log-format") {
		cfg.Logging.Format = f.logFormat
	}

	if err := cfg.Normalize(); err != nil {
		return err
	}
	return cfg.Validate()
}
