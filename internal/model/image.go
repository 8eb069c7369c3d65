package model

import (
	"path/filepath"
	"strings"
	"time"
)

// SourceImage is one input image discovered by a folder scan.
//
// A SourceImage is immutable for the lifetime of a session: the scan records
// the path once and later configuration changes never mutate it. Re-scanning
// the folder produces fresh values.
type SourceImage struct {
	// Path is the full path to the image file as discovered.
	Path string

	// Name is the base filename, kept for display and progress events.
	Name string

	// DiscoveredAt records when the scan found the file.
	DiscoveredAt time.Time
}

// NewSourceImage builds a SourceImage for a path, stamped with the current
// time.
func NewSourceImage(path string) SourceImage {
	return SourceImage{
		Path:         path,
		Name:         filepath.Base(path),
		DiscoveredAt: time.Now(),
	}
}

// Stem returns the filename without its extension, the base every exported
// artifact name is derived from.
func (s SourceImage) Stem() string {
	return strings.TrimSuffix(s.Name, filepath.Ext(s.Name))
}

// Dir returns the directory holding the image.
func (s SourceImage) Dir() string {
	return filepath.Dir(s.Path)
}
