package trackinfo

import "fmt"

// ParseError reports a line that does not follow the manifest grammar.
type ParseError struct {
	Line int
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q is not a valid trackinfo line", e.Line, e.Text)
}

// ValidationError reports a well-formed line, or a finished manifest, whose
// content is invalid. Line is zero when the problem is not tied to a line.
type ValidationError struct {
	Line int
	Msg  string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// UnresolvedInputError reports an INPUT that the archive resolver never saw.
type UnresolvedInputError struct {
	Line int
	Path string
}

func (e *UnresolvedInputError) Error() string {
	return fmt.Sprintf("line %d: input %s was not resolved", e.Line, e.Path)
}
