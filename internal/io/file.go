package ioutils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/model"
)

// validExtensions lists the image formats a scan picks up, matching the
// decoders registered by the imaging package.
var validExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tiff": true,
	".webp": true,
}

// IsImageFile reports whether the path carries a processable image
// extension. The check is case-insensitive and looks at the name only, not
// at the file contents.
func IsImageFile(path string) bool {
	return validExtensions[strings.ToLower(filepath.Ext(path))]
}

// ScanImages lists the processable images directly inside dir, sorted by
// filename so batch runs are reproducible.
//
// Subdirectories are not descended into and hidden files are skipped.
// Supported extensions: .jpg, .jpeg, .png, .bmp, .tiff, .webp.
//
// Returns an error wrapping model.ErrFilesystem if the directory cannot be
// read.
//
// Example:
//
//	images, err := ioutils.ScanImages("/data/shoot")
//	for _, img := range images {
//	    fmt.Println(img.Name)
//	}
func ScanImages(dir string) ([]model.SourceImage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", model.ErrFilesystem, dir, err)
	}

	var images []model.SourceImage
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !IsImageFile(entry.Name()) {
			continue
		}
		images = append(images, model.NewSourceImage(filepath.Join(dir, entry.Name())))
	}

	sort.Slice(images, func(i, j int) bool { return images[i].Name < images[j].Name })
	return images, nil
}

// SanitizeFileName removes or replaces characters that are invalid in
// file/folder names.
//
// This keeps user-supplied subfolder names and suffixes valid across
// operating systems, particularly Windows which has the most restrictive
// naming rules.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("masks: v1/2")  // Returns "masks_ v1_2"
//	SanitizeFileName("masks...")     // Returns "masks"
func SanitizeFileName(name string) string {
	// Replace invalid path/file characters with underscore
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	// Remove trailing dots (Windows doesn't allow filenames ending with dots)
	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")

	// Replace multiple whitespace with single space for cleaner names
	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")

	// Remove trailing whitespace
	name = strings.TrimRight(name, " ")

	return name
}

// EnsureDir creates a directory and all parent directories if they don't
// exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("/data/shoot/masks")
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
