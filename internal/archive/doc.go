// Package archive resolves declared input paths that may run through
// archives into physical directories.
//
// A declared path such as
//
//	/music/box-set.zip/CD1/disc.7z
//
// names a zip archive, a directory inside it and a 7z archive inside that.
// The Resolver extracts each archive it meets into the scratch directory and
// continues below the extracted tree, so the result maps the declared path
// to the directory holding the 7z contents:
//
//	r := archive.NewResolver(scratchDir, archive.WithExtractors(archive.DefaultExtractors("unrar", "7za")))
//	inputs, err := r.Resolve(ctx, []string{"/music/box-set.zip/CD1/disc.7z"})
//	dir := inputs["/music/box-set.zip/CD1/disc.7z"]
//
// Archives that contain nothing but a single directory are collapsed to that
// directory.
package archive
