// Package parser defines the statement parser contract and the helpers every
// format-specific parser shares.
package parser

import (
	"io"
	"path/filepath"
	"strings"

	"fjacquet/fincat/internal/models"
)

// Parser turns one statement file into a canonical Statement.
//
// Implementations return a *parsererror.DocumentError when the file as a
// whole cannot be used. Row-level defects are logged and the row dropped.
type Parser interface {
	Parse(r io.Reader) (models.Statement, error)
}

// FormatFromFilename selects the statement format from the file extension.
// Content is never sniffed.
func FormatFromFilename(name string) models.Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return models.FormatCSV
	case ".ofx", ".qfx":
		return models.FormatOFX
	default:
		return models.FormatUnknown
	}
}

// SupportedExtensions lists the extensions FormatFromFilename recognizes.
func SupportedExtensions() []string {
	return []string{".csv", ".ofx", ".qfx"}
}
