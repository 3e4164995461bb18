// Package library locates the source file of every declared track inside
// its resolved input directory.
//
// A source file is a FLAC file whose first run of digits is the track
// number, so "01 - Intro.flac" and "Track 1.FLAC" both match track 1.
// Names that lead with another number, such as "cd2-01.flac", match the
// wrong track; give each disc its own INPUT instead.
//
//	files, err := library.MapTracks(tree)
//	var notFound *library.TrackNotFoundError
//	if errors.As(err, &notFound) {
//	    // could not find file for track "Album":#1.07
//	}
package library
