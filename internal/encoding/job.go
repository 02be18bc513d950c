package encoding

import (
	"path/filepath"
	"strconv"
)

// Metadata holds the global tags written into the video.
type Metadata struct {
	Artist  string
	Title   string
	Comment string
}

// pairs lists tags in a fixed order, dropping empty values.
func (m Metadata) pairs() [][2]string {
	out := make([][2]string, 0, 3)
	for _, kv := range [][2]string{{"artist", m.Artist}, {"title", m.Title}, {"comment", m.Comment}} {
		if kv[1] != "" {
			out = append(out, kv)
		}
	}
	return out
}

// Job describes one encode.
type Job struct {
	// Dir holds the frames and receives the video.
	Dir string
	// Pattern is the printf-style frame file name, e.g. "%03d.png".
	Pattern   string
	FPS       int
	Codec     string
	Name      string
	Extension string
	Metadata  Metadata
	Overwrite bool
	Verbose   bool
}

// OutputPath is Dir/Name.Extension with the extension dotted.
func (j Job) OutputPath() string {
	return filepath.Join(j.Dir, j.Name+sanitizeExtension(j.Extension))
}

// BuildArgs returns the ffmpeg arguments for job, without the binary.
func BuildArgs(job Job) []string {
	fps := strconv.Itoa(job.FPS)
	logLevel := "error"
	if job.Verbose {
		logLevel = "info"
	}

	args := []string{
		"-hide_banner",
		"-nostdin",
		"-loglevel", logLevel,
		"-framerate", fps,
		"-i", filepath.Join(job.Dir, job.Pattern),
		"-vf", "fps=fps=" + fps + ":round=up",
	}
	args = append(args, CodecOptions(job.Extension, job.Codec)...)
	for _, kv := range job.Metadata.pairs() {
		args = append(args, "-metadata:g", kv[0]+"="+kv[1])
	}
	if job.Overwrite {
		args = append(args, "-y")
	} else {
		args = append(args, "-n")
	}
	return append(args, job.OutputPath())
}
