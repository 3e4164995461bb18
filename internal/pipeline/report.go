package pipeline

import "github.com/handiism/tracktag/internal/model"

// TrackResult is the phase 1 outcome of one track.
type TrackResult struct {
	ID     model.TrackID
	Output string
	State  TrackState
	Err    error
}

// AlbumResult is the phase 2 outcome of one album.
type AlbumResult struct {
	Album    model.AlbumKey
	Files    []string
	Skipped  bool
	Err      error
	Playlist string
}

// Report summarizes a run.
type Report struct {
	Tracks []TrackResult
	Albums []AlbumResult
}

// OK reports whether every track was produced and every album finished.
func (r *Report) OK() bool {
	return r.FailedTracks() == 0 && r.FailedAlbums() == 0
}

// FailedTracks counts tracks that did not reach StateTagged.
func (r *Report) FailedTracks() int {
	n := 0
	for _, t := range r.Tracks {
		if t.State != StateTagged {
			n++
		}
	}
	return n
}

// FailedAlbums counts albums that were skipped or failed normalization.
func (r *Report) FailedAlbums() int {
	n := 0
	for _, a := range r.Albums {
		if a.Skipped || a.Err != nil {
			n++
		}
	}
	return n
}
