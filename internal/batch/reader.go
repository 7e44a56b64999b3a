package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultImageExtensions are the file types ListImages picks up
var DefaultImageExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".gif"}

// ReadListFile reads image filenames from a file, one per line. Blank lines
// and lines starting with '#' are ignored, and directories are stripped so
// only base names remain.
func ReadListFile(filename string) ([]string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read list file: %w", err)
	}

	var names []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, filepath.Base(filepath.ToSlash(line)))
	}
	return names, nil
}

// ListImages returns the sorted names of the image files directly inside dir.
// An empty exts uses DefaultImageExtensions.
func ListImages(dir string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultImageExtensions
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if slices.Contains(exts, ext) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}
