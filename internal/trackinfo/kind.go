package trackinfo

import "github.com/handiism/tracktag/internal/model"

// FieldKind selects how a value is validated and stored.
type FieldKind int

const (
	// KindText values are stored verbatim.
	KindText FieldKind = iota
	// KindInput values are paths looked up in the input map.
	KindInput
	// KindCover values are paths resolved against the track's input.
	KindCover
	// KindDiscNumber values must be non-negative integers.
	KindDiscNumber
	// KindAlbum values also select the album a track is filed under.
	KindAlbum
)

// KindOf returns the kind of an upper-case key.
func KindOf(key string) FieldKind {
	switch key {
	case model.FieldInput:
		return KindInput
	case model.FieldCover:
		return KindCover
	case model.FieldDiscNumber:
		return KindDiscNumber
	case model.FieldAlbum:
		return KindAlbum
	default:
		return KindText
	}
}

func (k FieldKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindCover:
		return "cover"
	case KindDiscNumber:
		return "disc number"
	case KindAlbum:
		return "album"
	default:
		return "text"
	}
}
