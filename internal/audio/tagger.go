package audio

import (
	"fmt"

	"github.com/handiism/tracktag/internal/model"
)

// Tagger builds the encoder arguments that carry a track's metadata.
//
// Every field except INPUT becomes a --tag=FIELD=VALUE argument, in field
// name order. COVER is replaced by --picture=PATH using the cover map, and
// dropped when the cover could not be resolved.
//
// Example:
//
//	tagger := NewTagger(covers)
//	args := tagger.Args(model.Fields{
//	    "TITLE":       "Intro",
//	    "TRACKNUMBER": "1",
//	    "COVER":       "/music/front.jpg",
//	})
//	// [--picture=/music/front.jpg --tag=TITLE=Intro --tag=TRACKNUMBER=1]
type Tagger struct {
	covers CoverMap
}

// NewTagger creates a Tagger that looks covers up in covers, which may be
// nil when no track has a cover.
func NewTagger(covers CoverMap) *Tagger {
	return &Tagger{covers: covers}
}

// Args returns the tag and picture arguments for fields.
func (t *Tagger) Args(fields model.Fields) []string {
	args := make([]string, 0, len(fields))
	for _, key := range fields.Keys() {
		value := fields[key]
		switch key {
		case model.FieldInput:
			continue
		case model.FieldCover:
			if path, ok := t.covers.Lookup(value); ok {
				args = append(args, "--picture="+path)
			}
		default:
			args = append(args, fmt.Sprintf("--tag=%s=%s", key, value))
		}
	}
	return args
}

// HasPicture reports whether Args will embed a picture for fields.
func (t *Tagger) HasPicture(fields model.Fields) bool {
	cover, ok := fields[model.FieldCover]
	if !ok {
		return false
	}
	_, ok = t.covers.Lookup(cover)
	return ok
}
