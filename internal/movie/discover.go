package movie

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sys/unix"

	"motionpicture/internal/services"
)

// Info describes a movie found in the movies directory.
type Info struct {
	Name string
	Path string
	Size int64
}

// Validate checks that path names an executable regular file.
func Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return services.Wrap(services.ErrConfiguration, "movie", "validate",
				fmt.Sprintf("Movie file %s does not exist", path), nil)
		}
		return services.Wrap(services.ErrConfiguration, "movie", "validate", "", err)
	}
	if !info.Mode().IsRegular() {
		return services.Wrap(services.ErrConfiguration, "movie", "validate",
			fmt.Sprintf("Movie file %s is not a regular file", path), nil)
	}
	if err := unix.Access(path, unix.X_OK); err != nil {
		return services.Wrap(services.ErrConfiguration, "movie", "validate",
			fmt.Sprintf("Movie file %s is not executable", path), err)
	}
	return nil
}

// Discover lists the valid movies in dir, sorted by name. Hidden files are
// ignored.
func Discover(dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "movie", "discover",
			fmt.Sprintf("Read movies directory %s", dir), err)
	}
	movies := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if Validate(path) != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		movies = append(movies, Info{Name: entry.Name(), Path: path, Size: info.Size()})
	}
	sort.Slice(movies, func(i, j int) bool { return movies[i].Name < movies[j].Name })
	return movies, nil
}

// Resolve picks the movie to run: an explicit file wins over a name looked up
// in dir.
func Resolve(name, file, dir string) (string, error) {
	var path string
	switch {
	case strings.TrimSpace(file) != "":
		path = strings.TrimSpace(file)
	case strings.TrimSpace(name) != "":
		path = filepath.Join(dir, strings.TrimSpace(name))
	default:
		return "", services.Wrap(services.ErrConfiguration, "movie", "resolve",
			"Movie not specified. Please, specify a movie", nil)
	}
	if err := Validate(path); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "movie", "resolve", "", err)
	}
	return abs, nil
}
