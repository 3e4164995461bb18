package audio

import (
	"strings"
	"testing"
	"time"
)

func TestPlaylistCreator_M3U(t *testing.T) {
	album := createTestAlbum()
	creator := NewPlaylistCreator(FormatM3U, false)

	content := creator.CreatePlaylist(album)

	if content != "1.01. Test Artist - track1.flac\n1.02. track2.flac\n" {
		t.Errorf("unexpected M3U content:\n%s", content)
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	album := createTestAlbum()
	creator := NewPlaylistCreator(FormatM3U, true)

	content := creator.CreatePlaylist(album)

	if !strings.HasPrefix(content, "#EXTM3U") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:181,Test Artist - track1\n") {
		t.Errorf("Extended M3U should contain rounded duration and display name, got:\n%s", content)
	}
	if !strings.Contains(content, "#EXTINF:200,track2\n") {
		t.Error("Extended M3U should fall back to the title alone")
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	album := createTestAlbum()
	creator := NewPlaylistCreator(FormatPLS, false)

	content := creator.CreatePlaylist(album)

	if !strings.HasPrefix(content, "[playlist]") {
		t.Error("PLS should start with [playlist]")
	}
	if !strings.Contains(content, "File1=1.01. Test Artist - track1.flac") {
		t.Error("PLS should contain File1=")
	}
	if !strings.Contains(content, "NumberOfEntries=2") {
		t.Error("PLS should contain NumberOfEntries")
	}
}

func TestPlaylistCreator_WPL(t *testing.T) {
	album := createTestAlbum()
	creator := NewPlaylistCreator(FormatWPL, false)

	content := creator.CreatePlaylist(album)

	if !strings.Contains(content, "<?wpl") {
		t.Error("WPL should contain XML declaration")
	}
	if !strings.Contains(content, "<smil>") {
		t.Error("WPL should contain smil element")
	}
	if !strings.Contains(content, "<media src=") {
		t.Error("WPL should contain media elements")
	}
}

func TestPlaylistCreator_ZPL(t *testing.T) {
	album := createTestAlbum()
	creator := NewPlaylistCreator(FormatZPL, false)

	content := creator.CreatePlaylist(album)

	if !strings.Contains(content, "<?zpl") {
		t.Error("ZPL should contain XML declaration")
	}
	if !strings.Contains(content, `albumTitle="Test Album"`) {
		t.Error("ZPL should contain albumTitle attribute")
	}
	if !strings.Contains(content, `duration="180600"`) {
		t.Error("ZPL should contain durations in milliseconds")
	}
}

func TestPlaylistCreator_XMLEscape(t *testing.T) {
	album := &PlaylistAlbum{
		Title: "Album <Special>",
		Tracks: []PlaylistTrack{
			{Path: "/music/x/01. A & B.flac", Title: "Track & \"Quote\"", Artist: "Artist & Co"},
		},
	}

	creator := NewPlaylistCreator(FormatWPL, false)
	content := creator.CreatePlaylist(album)

	if strings.Contains(content, "&") && !strings.Contains(content, "&amp;") {
		t.Error("WPL should escape & as &amp;")
	}
	if strings.Contains(content, "<Special>") {
		t.Error("WPL should escape < and >")
	}
}

func TestParsePlaylistFormat(t *testing.T) {
	tests := map[string]PlaylistFormat{"": FormatM3U, "M3U": FormatM3U, "pls": FormatPLS, "wpl": FormatWPL, "zpl": FormatZPL}
	for name, want := range tests {
		got, err := ParsePlaylistFormat(name)
		if err != nil || got != want {
			t.Errorf("ParsePlaylistFormat(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParsePlaylistFormat("xspf"); err == nil {
		t.Error("expected error for unknown format")
	}
	if FormatZPL.Extension() != ".zpl" {
		t.Error("ZPL extension should be .zpl")
	}
}

func createTestAlbum() *PlaylistAlbum {
	return &PlaylistAlbum{
		Title: "Test Album",
		Tracks: []PlaylistTrack{
			{Path: "/music/Test Album/1.01. Test Artist - track1.flac", Title: "track1", Artist: "Test Artist", Duration: 180600 * time.Millisecond},
			{Path: "/music/Test Album/1.02. track2.flac", Title: "track2", Duration: 200 * time.Second},
		},
	}
}

func TestPlaylistCreator_WritePlaylist(t *testing.T) {
	var sb strings.Builder
	creator := NewPlaylistCreator(FormatZPL, false)

	if err := creator.WritePlaylist(&sb, createTestAlbum()); err != nil {
		t.Fatalf("WritePlaylist: %v", err)
	}
	if sb.String() != creator.CreatePlaylist(createTestAlbum()) {
		t.Error("WritePlaylist and CreatePlaylist should produce the same content")
	}
	if !strings.Contains(sb.String(), `<meta name="ItemCount" content="2"></meta>`) {
		t.Errorf("ZPL should carry the item count, got:\n%s", sb.String())
	}
}
