package naming

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"motionpicture/internal/services"
)

// ErrNoFrames reports an empty frame selection.
var ErrNoFrames = errors.New("no frames to render")

// Format names frame files. Indices are zero padded to Width unless
// SpacePad is set, which only user supplied formats such as "%5d.png" do.
type Format struct {
	Prefix   string
	Width    int
	Ext      string
	SpacePad bool
}

// NewFormat returns the narrowest format that gives each of n indices a
// distinct name.
func NewFormat(n int, ext string) (Format, error) {
	if n <= 0 {
		return Format{}, services.Wrap(services.ErrConfiguration, "naming", "format", "", ErrNoFrames)
	}
	return Format{Width: digits(n - 1), Ext: SanitizeExtension(ext)}, nil
}

// digits is ceil(log10(n+1)) for n >= 1 and 0 for n == 0.
func digits(n int) int {
	width := 0
	for n > 0 {
		width++
		n /= 10
	}
	return width
}

// SanitizeExtension returns ext with a leading dot.
func SanitizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Pattern renders the format as printf-style text, e.g. "%03d.png".
func (f Format) Pattern() string {
	if f.SpacePad {
		if f.Width == 0 {
			return f.Prefix + "%d" + f.Ext
		}
		return f.Prefix + "%" + strconv.Itoa(f.Width) + "d" + f.Ext
	}
	return f.Prefix + "%0" + strconv.Itoa(f.Width) + "d" + f.Ext
}

// Name returns the file name of frame i; at least one digit is printed.
func (f Format) Name(i int) string {
	if f.SpacePad {
		return fmt.Sprintf("%s%*d%s", f.Prefix, f.Width, i, f.Ext)
	}
	return fmt.Sprintf("%s%0*d%s", f.Prefix, f.Width, i, f.Ext)
}

// Path joins dir with the file name of frame i.
func (f Format) Path(dir string, i int) string {
	return filepath.Join(dir, f.Name(i))
}

var patternRE = regexp.MustCompile(`^([^%]*)%(0?\d*)d([^%]*)$`)

// ParseFormat reads a user supplied pattern such as "frame_%04d.png". Exactly
// one integer placeholder and an extension are required.
func ParseFormat(pattern string) (Format, error) {
	m := patternRE.FindStringSubmatch(strings.TrimSpace(pattern))
	if m == nil {
		return Format{}, services.Wrap(services.ErrConfiguration, "naming", "parse",
			fmt.Sprintf("frame name format %q must contain exactly one %%d placeholder", pattern), nil)
	}
	prefix, spec, suffix := m[1], m[2], m[3]
	if strings.ContainsAny(prefix, `/\`) {
		return Format{}, services.Wrap(services.ErrConfiguration, "naming", "parse",
			fmt.Sprintf("frame name format %q must not contain a directory", pattern), nil)
	}
	if !strings.HasPrefix(suffix, ".") || len(suffix) < 2 || strings.ContainsAny(suffix, `/\`) {
		return Format{}, services.Wrap(services.ErrConfiguration, "naming", "parse",
			fmt.Sprintf("frame name format %q must end with a file extension", pattern), nil)
	}
	// The flag is kept as given so the encoder reads the names on disk.
	spacePad := !strings.HasPrefix(spec, "0")
	widthText := strings.TrimPrefix(spec, "0")
	width := 0
	if widthText != "" {
		w, err := strconv.Atoi(widthText)
		if err != nil {
			return Format{}, services.Wrap(services.ErrConfiguration, "naming", "parse", "", err)
		}
		width = w
	}
	return Format{Prefix: prefix, Width: width, Ext: suffix, SpacePad: spacePad}, nil
}
