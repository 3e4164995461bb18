// Package codec wraps the flac and metaflac command line tools and reads
// FLAC metadata in-process with go-flac.
//
// # Transcoding
//
// Transcode decodes a source file and pipes the audio into a fresh encode,
// which is how tags and pictures are applied without touching the source:
//
//	tools := codec.New(codec.Config{FlacBinary: "flac", MetaflacBinary: "metaflac"})
//	err := tools.Transcode(ctx, "/in/01.flac", "/out/01. Intro.flac",
//	    []string{"--tag=TITLE=Intro", "--picture=/tmp/cover.jpg"})
//
// runs
//
//	flac --decode --stdout /in/01.flac | flac --best --tag=TITLE=Intro --picture=/tmp/cover.jpg --output-name=/out/01. Intro.flac -
//
// # Pictures
//
// Both Tools and Builtin implement PictureExtractor. Tools shells out to
// metaflac --export-picture-to=-, Builtin reads the PICTURE block directly.
//
// # Metadata
//
// Duration and Comment read STREAMINFO and VORBIS_COMMENT blocks of
// produced files for playlists and output verification.
package codec
