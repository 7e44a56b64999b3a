package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const timestampFormat = "20060102-150405"

// uniquePath returns archiveDir/{base}-{timestamp}{ext}, adding microseconds
// when that name is already taken
func uniquePath(archiveDir, base, ext string) string {
	now := time.Now()
	path := filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, now.Format(timestampFormat), ext))
	if _, err := os.Stat(path); err == nil {
		path = filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, now.Format(timestampFormat+".000000"), ext))
	}
	return path
}

// BackupFile copies an existing file into archiveDir under a timestamped
// name and returns the backup path. A missing file is not an error and
// yields an empty path.
func BackupFile(path, archiveDir string) (string, error) {
	src, err := os.Open(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer src.Close()

	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	name := filepath.Base(path)
	ext := filepath.Ext(name)
	backupPath := uniquePath(archiveDir, strings.TrimSuffix(name, ext), ext)

	dst, err := os.Create(backupPath)
	if err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return backupPath, nil
}

// ArchiveDir moves a directory into archiveDir under a timestamped name and
// returns the new location
func ArchiveDir(dir, archiveDir string) (string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return "", fmt.Errorf("directory does not exist: %s", dir)
	}

	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	archivePath := uniquePath(archiveDir, filepath.Base(dir), "")
	if err := os.Rename(dir, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive directory: %w", err)
	}
	return archivePath, nil
}
