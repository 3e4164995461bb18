package ioutils

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// MaxFileNameBytes is the file name budget of common filesystems.
const MaxFileNameBytes = 255

// NameEncoding is the on-disk encoding used to measure file names.
type NameEncoding string

const (
	EncodingUTF8  NameEncoding = "utf-8"
	EncodingUTF16 NameEncoding = "utf-16"
)

// DefaultNameEncoding returns UTF-16 on Windows and UTF-8 elsewhere.
func DefaultNameEncoding() NameEncoding {
	if runtime.GOOS == "windows" {
		return EncodingUTF16
	}
	return EncodingUTF8
}

// ErrNameTooLong is returned when no prefix of the base name fits the budget.
var ErrNameTooLong = errors.New("file name cannot be truncated")

// EncodedLen returns the number of bytes name occupies in enc.
func EncodedLen(name string, enc NameEncoding) (int, error) {
	switch enc {
	case EncodingUTF8, "":
		return len(name), nil
	case EncodingUTF16:
		// Surrogate halves make a plain rune count unreliable.
		out, err := utf16Encoding.NewEncoder().String(name)
		if err != nil {
			return 0, err
		}
		return len(out), nil
	default:
		return 0, fmt.Errorf("unsupported file name encoding %q", enc)
	}
}

var utf16Encoding encoding.Encoding = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// TruncateFileName shortens the base of name so that base and extension
// together fit within maxBytes when encoded with enc. Truncation only ever
// removes whole characters; the extension is kept intact.
//
// The second result reports whether the name was shortened.
//
// Example:
//
//	name, truncated, err := TruncateFileName(longTitle+".flac", 255, EncodingUTF8)
func TruncateFileName(name string, maxBytes int, enc NameEncoding) (string, bool, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	extLen, err := EncodedLen(ext, enc)
	if err != nil {
		return "", false, err
	}
	budget := maxBytes - extLen

	baseLen, err := EncodedLen(base, enc)
	if err != nil {
		return "", false, err
	}
	if baseLen <= budget {
		return name, false, nil
	}
	if budget <= 0 {
		return "", false, fmt.Errorf("%w: %q", ErrNameTooLong, name)
	}

	// Rune boundaries are monotonic in encoded length, so binary search the
	// longest prefix that fits.
	bounds := runeBoundaries(base)
	lo, hi := 0, len(bounds)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		n, err := EncodedLen(base[:bounds[mid]], enc)
		if err != nil {
			return "", false, err
		}
		if n <= budget {
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	truncated := base[:bounds[lo]]
	if truncated == "" {
		return "", false, fmt.Errorf("%w: %q", ErrNameTooLong, name)
	}
	return truncated + ext, true, nil
}

// runeBoundaries returns the byte offsets at which a prefix of s ends on a
// character boundary, starting with 0 and ending with len(s).
func runeBoundaries(s string) []int {
	bounds := make([]int, 0, utf8.RuneCountInString(s)+1)
	bounds = append(bounds, 0)
	for i := range s {
		if i > 0 {
			bounds = append(bounds, i)
		}
	}
	return append(bounds, len(s))
}
