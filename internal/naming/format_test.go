package naming

import (
	"errors"
	"path/filepath"
	"testing"

	"motionpicture/internal/services"
)

func TestNewFormatWidth(t *testing.T) {
	tests := []struct {
		n     int
		width int
		last  string
	}{
		{1, 0, "0.png"},
		{2, 1, "1.png"},
		{9, 1, "8.png"},
		{10, 1, "9.png"},
		{11, 2, "10.png"},
		{100, 2, "99.png"},
		{101, 3, "100.png"},
		{1000, 3, "999.png"},
	}
	for _, tc := range tests {
		f, err := NewFormat(tc.n, "png")
		if err != nil {
			t.Fatalf("NewFormat(%d): %v", tc.n, err)
		}
		if f.Width != tc.width {
			t.Errorf("NewFormat(%d) width = %d, want %d", tc.n, f.Width, tc.width)
		}
		if got := f.Name(tc.n - 1); got != tc.last {
			t.Errorf("NewFormat(%d) last name = %q, want %q", tc.n, got, tc.last)
		}
		if len(f.Name(0)) != len(f.Name(tc.n-1)) {
			t.Errorf("NewFormat(%d) names have uneven width", tc.n)
		}
	}
}

func TestNewFormatDistinctPaths(t *testing.T) {
	f, err := NewFormat(250, ".jpg")
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[string]bool)
	for i := 0; i < 250; i++ {
		p := f.Path("out", i)
		if seen[p] {
			t.Fatalf("duplicate path %s", p)
		}
		seen[p] = true
	}
	if f.Path("out", 7) != filepath.Join("out", "007.jpg") {
		t.Fatalf("unexpected path %s", f.Path("out", 7))
	}
}

func TestNewFormatRejectsEmpty(t *testing.T) {
	_, err := NewFormat(0, ".png")
	if !errors.Is(err, ErrNoFrames) || !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrNoFrames configuration error, got %v", err)
	}
}

func TestPattern(t *testing.T) {
	f, _ := NewFormat(120, "png")
	if f.Pattern() != "%03d.png" {
		t.Fatalf("unexpected pattern %q", f.Pattern())
	}
	single, _ := NewFormat(1, ".png")
	if single.Pattern() != "%00d.png" {
		t.Fatalf("unexpected single-frame pattern %q", single.Pattern())
	}
}

func TestSanitizeExtension(t *testing.T) {
	for in, want := range map[string]string{"png": ".png", ".png": ".png", " jpg ": ".jpg"} {
		if got := SanitizeExtension(in); got != want {
			t.Errorf("SanitizeExtension(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		pattern string
		want    Format
	}{
		{"%03d.png", Format{Width: 3, Ext: ".png"}},
		{"%d.jpg", Format{Ext: ".jpg", SpacePad: true}},
		{"frame_%05d.tiff", Format{Prefix: "frame_", Width: 5, Ext: ".tiff"}},
		{"%5d.png", Format{Width: 5, Ext: ".png", SpacePad: true}},
	}
	for _, tc := range tests {
		got, err := ParseFormat(tc.pattern)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", tc.pattern, err)
		}
		if got != tc.want {
			t.Fatalf("ParseFormat(%q) = %+v, want %+v", tc.pattern, got, tc.want)
		}
		if got.Pattern() != tc.pattern {
			t.Fatalf("pattern did not round-trip: %q vs %q", got.Pattern(), tc.pattern)
		}
	}
}

func TestParseFormatKeepsPadding(t *testing.T) {
	tests := []struct {
		pattern string
		index   int
		name    string
	}{
		{"%5d.png", 1, "    1.png"},
		{"%05d.png", 1, "00001.png"},
		{"%d.png", 1, "1.png"},
		{"img%3d.jpg", 12, "img 12.jpg"},
	}
	for _, tc := range tests {
		f, err := ParseFormat(tc.pattern)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", tc.pattern, err)
		}
		if got := f.Name(tc.index); got != tc.name {
			t.Errorf("ParseFormat(%q).Name(%d) = %q, want %q", tc.pattern, tc.index, got, tc.name)
		}
	}
}

func TestParseFormatRejectsInvalid(t *testing.T) {
	for _, pattern := range []string{"", "frame.png", "%03d", "%d_%d.png", "%s.png", "dir/%03d.png", "%03d."} {
		if _, err := ParseFormat(pattern); !errors.Is(err, services.ErrConfiguration) {
			t.Errorf("ParseFormat(%q) expected configuration error, got %v", pattern, err)
		}
	}
}
