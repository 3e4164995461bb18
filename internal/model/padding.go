package model

// DigitCount returns the number of decimal digits needed to print n.
// DigitCount(0) is 1.
func DigitCount(n int) int {
	if n < 0 {
		n = -n
	}
	count := 1
	for n >= 10 {
		n /= 10
		count++
	}
	return count
}

// Padding holds the zero-pad widths used when printing disc and track
// numbers. It is derived once from a complete Tree.
type Padding struct {
	Disc  map[AlbumKey]int
	Track map[AlbumKey]map[DiscKey]int
}

// CalcPadding computes disc widths per album and track widths per disc.
// Albums without numbered discs get a disc width of 0.
func CalcPadding(tree Tree) Padding {
	p := Padding{
		Disc:  make(map[AlbumKey]int, len(tree)),
		Track: make(map[AlbumKey]map[DiscKey]int, len(tree)),
	}
	for album, discs := range tree {
		maxDisc := -1
		p.Track[album] = make(map[DiscKey]int, len(discs))
		for disc, tracks := range discs {
			if disc.Known && disc.Number > maxDisc {
				maxDisc = disc.Number
			}
			maxTrack := 0
			for num := range tracks {
				maxTrack = max(maxTrack, num)
			}
			p.Track[album][disc] = DigitCount(maxTrack)
		}
		if maxDisc >= 0 {
			p.Disc[album] = DigitCount(maxDisc)
		} else {
			p.Disc[album] = 0
		}
	}
	return p
}

// Widths returns the disc and track widths for a track.
func (p Padding) Widths(id TrackID) (disc, track int) {
	return p.Disc[id.Album], p.Track[id.Album][id.Disc]
}
