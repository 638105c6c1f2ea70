// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation and collision-free destination paths
//   - Thumbnail resizing and JPEG conversion for embedded cover art
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("Clip: Part 1/2") // Returns "Clip_ Part 1_2"
//
// # Destination Paths
//
//	dest, err := ioutils.UniquePath("/videos/clip.mp4")
//	// "/videos/clip (1).mp4" when clip.mp4 already exists
//
// # Image Processing
//
//	svc := ioutils.NewImageService()
//	cover, err := svc.PrepareCover(ctx, thumbnail, ioutils.CoverOptions{MaxSize: 600, ToJPEG: true})
package ioutils
