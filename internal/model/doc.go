// Package model defines the core data structures shared by the tracktag
// packages.
//
// # Keys
//
// Tracks are addressed by album, disc and track number. Albums and discs are
// optional, so both keys carry a Known flag:
//
//	id := model.TrackID{
//	    Album:  model.NamedAlbum("Abbey Road"),
//	    Disc:   model.NoDisc,
//	    Number: 7,
//	}
//	fmt.Println(id) // "Abbey Road":#7
//
// # Fields
//
// Fields holds the effective metadata of one track. INPUT and COVER hold
// resolved physical paths, DISCNUMBER and TRACKNUMBER canonical integers.
//
// # Tree
//
// Tree groups Fields by album, disc and track number. Its iteration helpers
// always visit keys in a stable order (unknown album and missing disc first).
//
// # Output Paths
//
// OutputPath computes where a track is written:
//
//	path, truncated, err := model.OutputPath("/music", fields, discWidth, trackWidth, nil)
//	// /music/Abbey Road/1.07. The Beatles - Something.flac
package model
