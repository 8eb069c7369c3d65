// Package ioutils provides file system utilities for the background-removal
// tool.
//
// This package contains functions for:
//   - Scanning folders for processable images
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation
//
// # Folder Scanning
//
// Use ScanImages to list the processable images directly inside a folder:
//
//	images, err := ioutils.ScanImages("/data/shoot_01")
//	for _, img := range images {
//	    fmt.Println(img.Name)
//	}
//
// Recognized extensions: .jpg, .jpeg, .png, .bmp, .tiff, .webp (matched
// case-insensitively). Subdirectories and hidden files are skipped, and the
// result is sorted by filename so batch runs are reproducible.
//
// # Filename Sanitization
//
// Use SanitizeFileName to remove invalid characters from file and folder
// names:
//
//	safe := ioutils.SanitizeFileName("masks: v1/2") // Returns "masks_ v1_2"
package ioutils
