// Package fileutils provides the file operations shared by the CLI and the bot.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/fincat/internal/parsererror"
)

// DefaultUploadName replaces an empty or unusable upload name.
const DefaultUploadName = "arquivo"

// WorkDirPrefix names the per-upload temporary directories.
const WorkDirPrefix = "fin-cat-"

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if !DirectoryExists(dirPath) {
		if err := os.MkdirAll(dirPath, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// SanitizeFilename keeps only the base name of a user-supplied file name,
// whatever its path separator style.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(strings.TrimSpace(name))
	switch base {
	case "", ".", "..", "/":
		return DefaultUploadName
	}
	return base
}

// CheckSize rejects sizes above limit bytes. Zero or negative sizes are
// unknown and accepted.
func CheckSize(size, limit int64) error {
	if limit > 0 && size > limit {
		return fmt.Errorf("%w: %d bytes exceeds the %d MB limit", parsererror.ErrFileTooLarge, size, limit/(1024*1024))
	}
	return nil
}

// NewWorkDir creates a private temporary directory under base, or under the
// system temp dir when base is empty.
func NewWorkDir(base string) (string, error) {
	if base != "" {
		if err := EnsureDirectoryExists(base); err != nil {
			return "", err
		}
	}
	dir, err := os.MkdirTemp(base, WorkDirPrefix)
	if err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	return dir, nil
}

// Stem returns the file name without directory and extension.
func Stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
