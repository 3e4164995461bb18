// Package audio prepares what the encoder embeds in each output file:
// cover art, tag arguments and album playlists.
//
// # Covers
//
// CoverResolver maps declared covers to files the encoder can embed,
// extracting pictures from FLAC and MP3 covers:
//
//	resolver := audio.NewCoverResolver(scratchDir, codec.New(cfg))
//	covers := resolver.MapCovers(ctx, tree)
//
// # Tags
//
// Tagger turns a track's fields into encoder arguments:
//
//	args := audio.NewTagger(covers).Args(fields)
//	// [--tag=ARTIST=... --picture=... --tag=TITLE=...]
//
// VerifyOutput reads a produced file back and checks its track number and
// title.
//
// # Playlist Generation
//
// Generate playlists in various formats:
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist(album)
//	os.WriteFile("Album.m3u", []byte(content), 0644)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
