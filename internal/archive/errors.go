package archive

import "fmt"

// UnknownFormatError is returned for an archive extension without an
// extractor.
type UnknownFormatError struct {
	Path string
	Ext  string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown archive format %q for %s", e.Ext, e.Path)
}

// ExtractError wraps a failed extraction.
type ExtractError struct {
	Archive string
	Err     error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Archive, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}
