package csvparser

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Supported input encodings.
const (
	EncodingAuto        = "auto"
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
	EncodingISO88591    = "iso-8859-1"
)

// lookupEncoding resolves an encoding name. Auto is handled by the caller.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EncodingUTF8, "utf8", "utf-8-sig":
		return unicode.UTF8BOM, nil
	case EncodingWindows1252, "cp1252":
		return charmap.Windows1252, nil
	case EncodingISO88591, "latin-1", "latin1":
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// ValidEncoding reports whether name is accepted by the parser.
func ValidEncoding(name string) bool {
	if strings.EqualFold(strings.TrimSpace(name), EncodingAuto) {
		return true
	}
	_, err := lookupEncoding(name)
	return err == nil
}

// decode converts raw file bytes to UTF-8 and strips a UTF-8 byte order mark.
// With auto, content that is not valid UTF-8 is read as windows-1252, the
// usual encoding of spreadsheet exports from Brazilian banks. The returned
// name is the encoding actually applied.
func decode(raw []byte, name string) ([]byte, string, error) {
	if strings.EqualFold(strings.TrimSpace(name), EncodingAuto) {
		if utf8.Valid(raw) {
			name = EncodingUTF8
		} else {
			name = EncodingWindows1252
		}
	}

	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, name, err
	}

	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), enc.NewDecoder()))
	if err != nil {
		return nil, name, fmt.Errorf("decoding %s: %w", name, err)
	}
	return out, name, nil
}
