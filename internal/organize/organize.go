// Package organize copies images into one folder per category.
package organize

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"codeberg.org/snonux/flashsort/internal/corpus"
)

// Stats counts the outcome of an organize run
type Stats struct {
	Copied int
	Failed int
}

// Organizer copies SourceDir/{filename} to OutputDir/{categoryID}/{filename}
type Organizer struct {
	SourceDir string
	OutputDir string
}

// Organize copies every image of the corpus. A missing source or a failed
// copy is logged and counted; the run continues.
func (o *Organizer) Organize(ctx context.Context, c *corpus.Corpus) (Stats, error) {
	var stats Stats
	for _, cat := range c.Categories {
		dir := filepath.Join(o.OutputDir, cat.ID)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return stats, fmt.Errorf("failed to create category directory: %w", err)
		}

		for _, img := range cat.Images {
			if err := ctx.Err(); err != nil {
				return stats, err
			}

			src := filepath.Join(o.SourceDir, img.Filename)
			dst := filepath.Join(dir, img.Filename)
			if err := copyFile(src, dst); err != nil {
				slog.Warn("failed to copy image", "file", img.Filename, "category", cat.ID, "error", err)
				stats.Failed++
				continue
			}
			stats.Copied++
		}
	}
	return stats, nil
}

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		return err
	}
	return destination.Close()
}
