package deps

import (
	"context"
	"strings"
)

// FFmpegRequirement describes the encoder binary. An empty command means
// "ffmpeg" on PATH.
func FFmpegRequirement(command string) Requirement {
	command = strings.TrimSpace(command)
	if command == "" {
		command = "ffmpeg"
	}
	return Requirement{
		Name:        "FFmpeg",
		Command:     command,
		Description: "Encodes rendered frames into the final video",
		VersionArgs: []string{"-version"},
	}
}

// CheckFFmpeg reports whether the encoder binary resolves, with the first line
// of its -version output as Detail.
func CheckFFmpeg(ctx context.Context, command string) Status {
	return CheckBinaries(ctx, []Requirement{FFmpegRequirement(command)})[0]
}
