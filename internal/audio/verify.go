package audio

import (
	"fmt"
	"slices"

	"github.com/go-flac/flacvorbis"

	"github.com/handiism/tracktag/internal/codec"
	"github.com/handiism/tracktag/internal/model"
)

// VerifyOutput checks that a produced file carries the TRACKNUMBER and
// TITLE of fields in its Vorbis comment.
func VerifyOutput(path string, fields model.Fields) error {
	checks := []string{flacvorbis.FIELD_TRACKNUMBER, flacvorbis.FIELD_TITLE}
	for _, field := range checks {
		want, ok := fields[field]
		if !ok {
			continue
		}
		got, err := codec.Comment(path, field)
		if err != nil {
			return fmt.Errorf("verify %s: %w", path, err)
		}
		if !slices.Contains(got, want) {
			return fmt.Errorf("verify %s: %s is %q, want %q", path, field, got, want)
		}
	}
	return nil
}
