package model

import (
	"maps"
	"slices"
	"strconv"
)

// Standard trackinfo keys.
const (
	FieldInput       = "INPUT"
	FieldTitle       = "TITLE"
	FieldArtist      = "ARTIST"
	FieldLyricist    = "LYRICIST"
	FieldComposer    = "COMPOSER"
	FieldArranger    = "ARRANGER"
	FieldAlbum       = "ALBUM"
	FieldDiscNumber  = "DISCNUMBER"
	FieldGenre       = "GENRE"
	FieldDate        = "DATE"
	FieldLabel       = "LABEL"
	FieldComment     = "COMMENT"
	FieldCover       = "COVER"
	FieldTrackNumber = "TRACKNUMBER"
)

var standardFields = map[string]struct{}{
	FieldInput: {}, FieldTitle: {}, FieldArtist: {}, FieldLyricist: {},
	FieldComposer: {}, FieldArranger: {}, FieldAlbum: {}, FieldDiscNumber: {},
	FieldGenre: {}, FieldDate: {}, FieldLabel: {}, FieldComment: {}, FieldCover: {},
}

// IsStandardField reports whether key is one of the documented trackinfo keys.
func IsStandardField(key string) bool {
	_, ok := standardFields[key]
	return ok
}

// Fields is the effective metadata of one scope. Absent keys are unset;
// a present key never holds an empty value.
type Fields map[string]string

// Clone returns an independent copy.
func (f Fields) Clone() Fields {
	if f == nil {
		return Fields{}
	}
	return maps.Clone(f)
}

// Get returns the value for key and whether it is set.
func (f Fields) Get(key string) (string, bool) {
	v, ok := f[key]
	return v, ok
}

// Set assigns value to key. An empty value deletes the key instead.
func (f Fields) Set(key, value string) {
	if value == "" {
		delete(f, key)
		return
	}
	f[key] = value
}

// Album returns the album key derived from the ALBUM field.
func (f Fields) Album() AlbumKey {
	return NamedAlbum(f[FieldAlbum])
}

// Disc returns the disc key derived from the DISCNUMBER field. Values that
// are not integers yield NoDisc; the parser never stores those.
func (f Fields) Disc() DiscKey {
	v, ok := f[FieldDiscNumber]
	if !ok {
		return NoDisc
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return NoDisc
	}
	return Disc(n)
}

// TrackNumber returns the TRACKNUMBER field, or -1 when unset.
func (f Fields) TrackNumber() int {
	n, err := strconv.Atoi(f[FieldTrackNumber])
	if err != nil {
		return -1
	}
	return n
}

// Keys returns the field names in sorted order.
func (f Fields) Keys() []string {
	return slices.Sorted(maps.Keys(f))
}
