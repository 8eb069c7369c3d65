package model

import (
	"fmt"
	"strings"
)

// OutputMode selects where exported artifacts are written relative to the
// source images.
type OutputMode int

const (
	// ModeInsideSource writes into a subdirectory of the folder holding the
	// source image (the classic "masks next to the frames" layout).
	ModeInsideSource OutputMode = iota

	// ModeAdjacentToSource writes into a sibling directory next to the folder
	// holding the source image.
	ModeAdjacentToSource

	// ModeCustomPath writes into a user-supplied directory.
	ModeCustomPath
)

// String returns the settings-file name of the mode.
func (m OutputMode) String() string {
	switch m {
	case ModeInsideSource:
		return "inside"
	case ModeAdjacentToSource:
		return "sibling"
	case ModeCustomPath:
		return "custom"
	default:
		return "inside"
	}
}

// ParseOutputMode maps a settings-file string to an OutputMode.
//
// Accepted values are "inside", "sibling" (alias "adjacent") and "custom".
func ParseOutputMode(s string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inside":
		return ModeInsideSource, nil
	case "sibling", "adjacent":
		return ModeAdjacentToSource, nil
	case "custom":
		return ModeCustomPath, nil
	default:
		return 0, fmt.Errorf("%w: unknown output mode %q", ErrConfiguration, s)
	}
}

// NamingRule selects how exported filenames are derived from the source
// filename.
type NamingRule int

const (
	// NamingSuffixed appends a suffix to the source stem, e.g.
	// "img_001.jpg" -> "img_001_mask.png".
	NamingSuffixed NamingRule = iota

	// NamingSameName keeps the source stem unchanged, e.g.
	// "img_001.jpg" -> "img_001.png". When several artifact kinds are
	// exported at once, each kind falls back to its default suffix so the
	// paths cannot collide.
	NamingSameName
)

// String returns the settings-file name of the rule.
func (n NamingRule) String() string {
	switch n {
	case NamingSameName:
		return "original"
	default:
		return "suffix"
	}
}

// ParseNamingRule maps a settings-file string to a NamingRule.
//
// Accepted values are "suffix" (alias "append_suffix") and "original"
// (aliases "original_filename", "same").
func ParseNamingRule(s string) (NamingRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "suffix", "append_suffix":
		return NamingSuffixed, nil
	case "original", "original_filename", "same":
		return NamingSameName, nil
	default:
		return 0, fmt.Errorf("%w: unknown naming rule %q", ErrConfiguration, s)
	}
}

// ArtifactKind identifies one exportable output per source image.
//
// All artifacts are written as PNG. Each kind carries a default filename
// suffix so that exporting several kinds for the same image never produces
// colliding paths.
type ArtifactKind int

const (
	// ArtifactAlphaMask is the raw single-channel foreground mask.
	ArtifactAlphaMask ArtifactKind = iota

	// ArtifactTransparentPNG is the source image with the background removed
	// (mask applied as the alpha channel).
	ArtifactTransparentPNG

	// ArtifactSolidBackgroundPNG is the cutout composited over a solid
	// background color.
	ArtifactSolidBackgroundPNG
)

// String returns the settings-file token for the kind.
func (k ArtifactKind) String() string {
	switch k {
	case ArtifactAlphaMask:
		return "mask"
	case ArtifactTransparentPNG:
		return "nobg"
	case ArtifactSolidBackgroundPNG:
		return "bg"
	default:
		return "mask"
	}
}

// DefaultSuffix returns the filename suffix used for the kind when no user
// suffix applies, or when several kinds are exported together.
func (k ArtifactKind) DefaultSuffix() string {
	switch k {
	case ArtifactTransparentPNG:
		return "_nobg"
	case ArtifactSolidBackgroundPNG:
		return "_bg"
	default:
		return "_mask"
	}
}

// ParseArtifact maps a settings-file token to an ArtifactKind.
//
// Accepted values are "mask", "nobg" (alias "transparent") and "bg"
// (alias "composite").
func ParseArtifact(s string) (ArtifactKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mask":
		return ArtifactAlphaMask, nil
	case "nobg", "transparent":
		return ArtifactTransparentPNG, nil
	case "bg", "composite":
		return ArtifactSolidBackgroundPNG, nil
	default:
		return 0, fmt.Errorf("%w: unknown artifact kind %q", ErrConfiguration, s)
	}
}

// BackgroundStyle selects how the removed background is rendered in previews
// and in the solid-background artifact.
type BackgroundStyle int

const (
	// BackgroundAlphaMatte displays the raw mask in white on black.
	BackgroundAlphaMatte BackgroundStyle = iota

	// BackgroundTransparent keeps the background transparent.
	BackgroundTransparent

	// BackgroundWhite composites the cutout over white.
	BackgroundWhite

	// BackgroundBlack composites the cutout over black.
	BackgroundBlack
)

// String returns the settings-file name of the style.
func (b BackgroundStyle) String() string {
	switch b {
	case BackgroundTransparent:
		return "transparent"
	case BackgroundWhite:
		return "white"
	case BackgroundBlack:
		return "black"
	default:
		return "matte"
	}
}

// ParseBackgroundStyle maps a settings-file string to a BackgroundStyle.
func ParseBackgroundStyle(s string) (BackgroundStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "matte", "alpha_matte":
		return BackgroundAlphaMatte, nil
	case "transparent":
		return BackgroundTransparent, nil
	case "white":
		return BackgroundWhite, nil
	case "black":
		return BackgroundBlack, nil
	default:
		return 0, fmt.Errorf("%w: unknown background style %q", ErrConfiguration, s)
	}
}

// DefaultArtifactsFor returns the artifact set the original tool produced for
// a background style: the raw mask for alpha-matte mode, a transparent PNG
// for transparent mode, and a composite for the solid styles.
func DefaultArtifactsFor(style BackgroundStyle) []ArtifactKind {
	switch style {
	case BackgroundTransparent:
		return []ArtifactKind{ArtifactTransparentPNG}
	case BackgroundWhite, BackgroundBlack:
		return []ArtifactKind{ArtifactSolidBackgroundPNG}
	default:
		return []ArtifactKind{ArtifactAlphaMask}
	}
}

// ExportConfig holds every setting the path resolver and the exporters need
// to place and name artifacts for one run.
//
// An ExportConfig is treated as an immutable snapshot once a batch or a
// preview computation starts; use Clone when handing it across goroutines.
//
// Example:
//
//	cfg := ExportConfig{
//	    Mode:      ModeInsideSource,
//	    Subfolder: "masks",
//	    Naming:    NamingSuffixed,
//	    Suffix:    "_mask",
//	    Artifacts: []ArtifactKind{ArtifactAlphaMask},
//	}
//	// /data/shoot/img_001.jpg resolves to /data/shoot/masks/img_001_mask.png
type ExportConfig struct {
	// Mode selects the base output directory rule.
	Mode OutputMode

	// CustomDir is the base directory for ModeCustomPath. Required for that
	// mode, ignored otherwise.
	CustomDir string

	// Subfolder is the output directory name for ModeInsideSource and
	// ModeAdjacentToSource, and an optional child directory for
	// ModeCustomPath. Empty means no subdirectory.
	Subfolder string

	// Naming selects how filenames are derived from the source stem.
	Naming NamingRule

	// Suffix is the user suffix for NamingSuffixed. A leading underscore is
	// optional; the resolver normalizes it.
	Suffix string

	// Artifacts lists the output kinds to produce per image. Must be
	// non-empty and free of duplicates.
	Artifacts []ArtifactKind

	// Background selects the composite color and the preview rendering.
	Background BackgroundStyle

	// Overwrite allows replacing existing output files. When false, images
	// whose artifacts all exist already are skipped.
	Overwrite bool
}

// Clone returns a deep copy, so a batch snapshot is unaffected by later
// edits to the interactive configuration.
func (c ExportConfig) Clone() ExportConfig {
	out := c
	out.Artifacts = append([]ArtifactKind(nil), c.Artifacts...)
	return out
}

// HasArtifact reports whether the config requests the given kind.
func (c ExportConfig) HasArtifact(kind ArtifactKind) bool {
	for _, k := range c.Artifacts {
		if k == kind {
			return true
		}
	}
	return false
}

// Validate checks the config for the problems that make a run impossible.
//
// Returns an error wrapping ErrConfiguration when:
//   - the output mode, naming rule, background style or an artifact kind is
//     out of range
//   - ModeCustomPath is selected without a custom directory
//   - NamingSuffixed is selected with an empty (or underscore-only) suffix
//   - the artifact list is empty or contains duplicates
func (c ExportConfig) Validate() error {
	switch c.Mode {
	case ModeInsideSource, ModeAdjacentToSource:
	case ModeCustomPath:
		if strings.TrimSpace(c.CustomDir) == "" {
			return fmt.Errorf("%w: custom output directory not set", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown output mode %d", ErrConfiguration, c.Mode)
	}

	switch c.Naming {
	case NamingSameName:
	case NamingSuffixed:
		if strings.Trim(c.Suffix, "_ ") == "" {
			return fmt.Errorf("%w: filename suffix required for suffixed naming", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown naming rule %d", ErrConfiguration, c.Naming)
	}

	switch c.Background {
	case BackgroundAlphaMatte, BackgroundTransparent, BackgroundWhite, BackgroundBlack:
	default:
		return fmt.Errorf("%w: unknown background style %d", ErrConfiguration, c.Background)
	}

	if len(c.Artifacts) == 0 {
		return fmt.Errorf("%w: no artifacts selected", ErrConfiguration)
	}
	seen := make(map[ArtifactKind]bool, len(c.Artifacts))
	for _, k := range c.Artifacts {
		switch k {
		case ArtifactAlphaMask, ArtifactTransparentPNG, ArtifactSolidBackgroundPNG:
		default:
			return fmt.Errorf("%w: unknown artifact kind %d", ErrConfiguration, k)
		}
		if seen[k] {
			return fmt.Errorf("%w: artifact %q selected twice", ErrConfiguration, k)
		}
		seen[k] = true
	}

	return nil
}
