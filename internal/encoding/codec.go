package encoding

import "strings"

type codecEntry struct {
	codec string
	extra []string
}

// codecTable maps a container extension to the codec ffmpeg should use when
// none is requested. An entry with no codec leaves the choice to ffmpeg.
var codecTable = map[string]codecEntry{
	".mp4":  {codec: "libx264", extra: []string{"-pix_fmt", "yuv420p"}},
	".m4v":  {codec: "libx264", extra: []string{"-pix_fmt", "yuv420p"}},
	".mov":  {codec: "libx264", extra: []string{"-pix_fmt", "yuv420p"}},
	".mkv":  {codec: "libx264"},
	".webm": {codec: "libvpx-vp9"},
	".avi":  {codec: "mpeg4"},
	".gif":  {codec: "gif"},
	".ogv":  {},
}

// CodecOptions returns the codec arguments for a video extension. An explicit
// codec wins; unknown extensions produce no options.
func CodecOptions(ext, codec string) []string {
	if codec = strings.TrimSpace(codec); codec != "" {
		return []string{"-c:v", codec}
	}
	entry, ok := codecTable[strings.ToLower(sanitizeExtension(ext))]
	if !ok || entry.codec == "" {
		return nil
	}
	opts := []string{"-c:v", entry.codec}
	return append(opts, entry.extra...)
}

func sanitizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
