package model

import (
	"maps"
	"slices"
)

// Tree groups track metadata by album, disc and track number.
type Tree map[AlbumKey]map[DiscKey]map[int]Fields

// Lookup returns the fields of id, if declared.
func (t Tree) Lookup(id TrackID) (Fields, bool) {
	f, ok := t[id.Album][id.Disc][id.Number]
	return f, ok
}

// Ensure returns the fields of id, creating them with init when id has not
// been declared yet.
func (t Tree) Ensure(id TrackID, init func() Fields) Fields {
	discs, ok := t[id.Album]
	if !ok {
		discs = make(map[DiscKey]map[int]Fields)
		t[id.Album] = discs
	}
	tracks, ok := discs[id.Disc]
	if !ok {
		tracks = make(map[int]Fields)
		discs[id.Disc] = tracks
	}
	f, ok := tracks[id.Number]
	if !ok {
		f = init()
		tracks[id.Number] = f
	}
	return f
}

// Albums returns the album keys, unknown album first.
func (t Tree) Albums() []AlbumKey {
	return slices.SortedFunc(maps.Keys(t), func(a, b AlbumKey) int {
		return compareBy(a.Less(b), b.Less(a))
	})
}

// Discs returns the disc keys of album, NoDisc first.
func (t Tree) Discs(album AlbumKey) []DiscKey {
	return slices.SortedFunc(maps.Keys(t[album]), func(a, b DiscKey) int {
		return compareBy(a.Less(b), b.Less(a))
	})
}

// Tracks returns the track numbers of a disc in ascending order.
func (t Tree) Tracks(album AlbumKey, disc DiscKey) []int {
	return slices.Sorted(maps.Keys(t[album][disc]))
}

// Walk visits every track in stable order. It stops at the first error.
func (t Tree) Walk(fn func(TrackID, Fields) error) error {
	for _, album := range t.Albums() {
		for _, disc := range t.Discs(album) {
			for _, num := range t.Tracks(album, disc) {
				id := TrackID{Album: album, Disc: disc, Number: num}
				if err := fn(id, t[album][disc][num]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Len returns the number of tracks.
func (t Tree) Len() int {
	n := 0
	for _, discs := range t {
		for _, tracks := range discs {
			n += len(tracks)
		}
	}
	return n
}

func compareBy(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	default:
		return 0
	}
}
