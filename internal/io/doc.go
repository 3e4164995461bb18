// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - File copying and directory creation
//   - File name truncation to a filesystem byte budget
//   - Filename sanitization for cross-platform compatibility
//   - Cover art resizing
//
// # File Names
//
// TruncateFileName keeps names within the filesystem limit without splitting
// multi-byte characters:
//
//	name, truncated, err := ioutils.TruncateFileName(name, ioutils.MaxFileNameBytes, ioutils.EncodingUTF8)
//
// Use SanitizeFileName to remove characters some platforms reject:
//
//	safe := ioutils.SanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
//
// # Image Processing
//
// The ImageService shrinks cover art before it is embedded:
//
//	svc := ioutils.NewImageService()
//	resized, _ := svc.ResizeImage(ctx, imageData, 1000, 1000)
package ioutils
