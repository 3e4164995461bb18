package audio

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// PlaylistFormat represents supported playlist file formats.
//
// Each format has different features and compatibility:
//   - M3U: Simple text format, widely supported
//   - PLS: INI-style format, used by Winamp
//   - WPL: XML format, Windows Media Player
//   - ZPL: XML format, Zune/Groove Music
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for duration/title info.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	// INI-style format with file, title, and length info.
	FormatPLS

	// FormatWPL creates .wpl files (Windows Media Player).
	// XML-based SMIL format.
	FormatWPL

	// FormatZPL creates .zpl files (Zune/Groove Music).
	// XML-based SMIL format with extended metadata.
	FormatZPL
)

// ParsePlaylistFormat maps a configuration value (m3u, pls, wpl, zpl) to a
// PlaylistFormat.
func ParsePlaylistFormat(name string) (PlaylistFormat, error) {
	switch strings.ToLower(name) {
	case "m3u", "":
		return FormatM3U, nil
	case "pls":
		return FormatPLS, nil
	case "wpl":
		return FormatWPL, nil
	case "zpl":
		return FormatZPL, nil
	}
	return FormatM3U, fmt.Errorf("unknown playlist format %q", name)
}

// Extension returns the file extension of the format, including the dot.
func (f PlaylistFormat) Extension() string {
	switch f {
	case FormatPLS:
		return ".pls"
	case FormatWPL:
		return ".wpl"
	case FormatZPL:
		return ".zpl"
	default:
		return ".m3u"
	}
}

// PlaylistAlbum is the content of one album playlist.
type PlaylistAlbum struct {
	Title  string
	Tracks []PlaylistTrack
}

// PlaylistTrack is one produced file of an album.
type PlaylistTrack struct {
	Path     string
	Title    string
	Artist   string
	Duration time.Duration
}

// displayName returns "Artist - Title", or whichever part is set, or the
// file name.
func (t PlaylistTrack) displayName() string {
	switch {
	case t.Artist != "" && t.Title != "":
		return t.Artist + " - " + t.Title
	case t.Title != "":
		return t.Title
	case t.Artist != "":
		return t.Artist
	}
	return strings.TrimSuffix(filepath.Base(t.Path), filepath.Ext(t.Path))
}

// PlaylistCreator writes album playlists in one format. Entries refer to
// files by base name, so the playlist belongs next to the files.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	f, _ := os.Create(filepath.Join(albumDir, "Album.m3u"))
//	defer f.Close()
//	err := creator.WritePlaylist(f, album)
//
//	// #EXTM3U
//	// #EXTINF:180,Artist - Song Title
//	// 01. Artist - Song Title.flac
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // M3U only: emit #EXTINF lines
}

// NewPlaylistCreator creates a new PlaylistCreator. extended is ignored for
// formats other than M3U.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// CreatePlaylist returns the playlist for album as a string.
func (p *PlaylistCreator) CreatePlaylist(album *PlaylistAlbum) string {
	var sb strings.Builder
	_ = p.WritePlaylist(&sb, album)
	return sb.String()
}

// WritePlaylist writes the playlist for album to w.
func (p *PlaylistCreator) WritePlaylist(w io.Writer, album *PlaylistAlbum) error {
	bw := bufio.NewWriter(w)
	var err error
	switch p.format {
	case FormatPLS:
		err = writePLS(bw, album)
	case FormatWPL:
		err = writeSMIL(bw, "wpl", "1.0", wplDocument(album))
	case FormatZPL:
		err = writeSMIL(bw, "zpl", "2.0", zplDocument(album))
	default:
		err = p.writeM3U(bw, album)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

//	#EXTM3U
//	#EXTINF:180,Artist - Title
//	01. Artist - Title.flac
func (p *PlaylistCreator) writeM3U(w *bufio.Writer, album *PlaylistAlbum) error {
	if p.extended {
		w.WriteString("#EXTM3U\n")
	}
	for _, track := range album.Tracks {
		if p.extended {
			fmt.Fprintf(w, "#EXTINF:%d,%s\n", seconds(track.Duration), track.displayName())
		}
		fmt.Fprintln(w, filepath.Base(track.Path))
	}
	return nil
}

//	[playlist]
//	File1=01. Song Title.flac
//	Title1=Song Title
//	Length1=180
//	NumberOfEntries=1
//	Version=2
func writePLS(w *bufio.Writer, album *PlaylistAlbum) error {
	w.WriteString("[playlist]\n")
	for i, track := range album.Tracks {
		n := i + 1
		fmt.Fprintf(w, "File%d=%s\n", n, filepath.Base(track.Path))
		fmt.Fprintf(w, "Title%d=%s\n", n, track.displayName())
		fmt.Fprintf(w, "Length%d=%d\n", n, seconds(track.Duration))
	}
	fmt.Fprintf(w, "NumberOfEntries=%d\n", len(album.Tracks))
	w.WriteString("Version=2\n")
	return nil
}

// smil is the document shared by WPL (Windows Media Player) and ZPL
// (Zune) playlists.
type smil struct {
	XMLName xml.Name    `xml:"smil"`
	Title   string      `xml:"head>title"`
	Meta    []smilMeta  `xml:"head>meta,omitempty"`
	Media   []smilMedia `xml:"body>seq>media"`
}

type smilMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

type smilMedia struct {
	Src         string `xml:"src,attr"`
	AlbumTitle  string `xml:"albumTitle,attr,omitempty"`
	TrackTitle  string `xml:"trackTitle,attr,omitempty"`
	TrackArtist string `xml:"trackArtist,attr,omitempty"`
	Duration    int64  `xml:"duration,attr,omitempty"`
}

func wplDocument(album *PlaylistAlbum) smil {
	doc := smil{Title: album.Title}
	for _, track := range album.Tracks {
		doc.Media = append(doc.Media, smilMedia{Src: filepath.Base(track.Path)})
	}
	return doc
}

// zplDocument adds album, title, artist and duration (milliseconds) to
// every entry.
func zplDocument(album *PlaylistAlbum) smil {
	doc := smil{
		Title: album.Title,
		Meta: []smilMeta{
			{Name: "Generator", Content: "tracktag"},
			{Name: "ItemCount", Content: fmt.Sprint(len(album.Tracks))},
		},
	}
	for _, track := range album.Tracks {
		doc.Media = append(doc.Media, smilMedia{
			Src:         filepath.Base(track.Path),
			AlbumTitle:  album.Title,
			TrackTitle:  track.Title,
			TrackArtist: track.Artist,
			Duration:    track.Duration.Milliseconds(),
		})
	}
	return doc
}

func writeSMIL(w *bufio.Writer, target, version string, doc smil) error {
	fmt.Fprintf(w, "<?%s version=\"%s\"?>\n", target, version)
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode %s playlist: %w", target, err)
	}
	w.WriteString("\n")
	return nil
}

func seconds(d time.Duration) int {
	return int(d.Round(time.Second) / time.Second)
}
