package model

import (
	"fmt"
	"strconv"
)

// AlbumKey identifies an album. The zero value is the unknown album, which
// is distinct from every named album.
type AlbumKey struct {
	Name  string
	Known bool
}

// UnknownAlbum is the key of tracks declared without an ALBUM.
var UnknownAlbum = AlbumKey{}

// NamedAlbum returns the key for a named album. An empty name yields the
// unknown album.
func NamedAlbum(name string) AlbumKey {
	if name == "" {
		return UnknownAlbum
	}
	return AlbumKey{Name: name, Known: true}
}

// String returns the album name, or "unknown album".
func (a AlbumKey) String() string {
	if !a.Known {
		return "unknown album"
	}
	return a.Name
}

// Less orders the unknown album before all named albums, then by name.
func (a AlbumKey) Less(b AlbumKey) bool {
	if a.Known != b.Known {
		return !a.Known
	}
	return a.Name < b.Name
}

// DiscKey identifies a disc within an album. The zero value means the album
// has no disc subdivision.
type DiscKey struct {
	Number int
	Known  bool
}

// NoDisc is the key of tracks declared without a DISCNUMBER.
var NoDisc = DiscKey{}

// Disc returns the key for disc n.
func Disc(n int) DiscKey {
	return DiscKey{Number: n, Known: true}
}

// Less orders NoDisc first, then by number.
func (d DiscKey) Less(b DiscKey) bool {
	if d.Known != b.Known {
		return !d.Known
	}
	return d.Number < b.Number
}

// String returns the disc number, or an empty string for NoDisc.
func (d DiscKey) String() string {
	if !d.Known {
		return ""
	}
	return strconv.Itoa(d.Number)
}

// TrackID addresses a single track.
type TrackID struct {
	Album  AlbumKey
	Disc   DiscKey
	Number int
}

// String formats the track without padding, e.g. "Album":#1.2.
func (id TrackID) String() string {
	return id.Format(0, 0)
}

// Format renders the track identifier for humans with zero-padded disc and
// track numbers:
//
//	TrackID{Album: NamedAlbum("Live"), Disc: Disc(1), Number: 3}.Format(1, 2)
//	// "Live":#1.03
func (id TrackID) Format(discWidth, trackWidth int) string {
	var album, disc string
	if id.Album.Known {
		album = fmt.Sprintf("%q:", id.Album.Name)
	}
	if id.Disc.Known {
		disc = zeroPad(id.Disc.Number, discWidth) + "."
	}
	return album + "#" + disc + zeroPad(id.Number, trackWidth)
}

func zeroPad(n, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}
