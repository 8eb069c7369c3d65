package paths

import (
	"fmt"
	"path/filepath"
	"strings"

	ioutils "github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/io"
	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/model"
)

// Artifact pairs an artifact kind with its resolved destination path.
type Artifact struct {
	Kind model.ArtifactKind
	Path string
}

// Resolver computes destination paths for exported artifacts from an
// ExportConfig snapshot.
//
// Resolution is deterministic and idempotent: the same image, config and
// artifact kind always produce the same path, and resolving never touches
// the filesystem. Directory creation is a separate, explicitly requested
// side effect (EnsureOutputDir).
//
// Example:
//
//	cfg := model.ExportConfig{
//	    Mode:      model.ModeInsideSource,
//	    Subfolder: "masks",
//	    Naming:    model.NamingSuffixed,
//	    Suffix:    "_mask",
//	    Artifacts: []model.ArtifactKind{model.ArtifactAlphaMask},
//	}
//	r, _ := paths.NewResolver(cfg)
//	dest, _ := r.Resolve(model.NewSourceImage("/data/shoot/img_001.jpg"), model.ArtifactAlphaMask)
//	// dest = "/data/shoot/masks/img_001_mask.png"
type Resolver struct {
	cfg model.ExportConfig
}

// NewResolver validates the config and returns a Resolver bound to a private
// copy of it.
//
// Returns an error wrapping model.ErrConfiguration when the config cannot
// support a run (see model.ExportConfig.Validate).
func NewResolver(cfg model.ExportConfig) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{cfg: cfg.Clone()}, nil
}

// Config returns a copy of the snapshot the resolver was built from.
func (r *Resolver) Config() model.ExportConfig {
	return r.cfg.Clone()
}

// OutputDir computes the destination directory for an image. Pure: no
// directories are created.
//
// Directory rules by output mode:
//   - ModeInsideSource: <sourceDir>/<subfolder>
//   - ModeAdjacentToSource: <parent(sourceDir)>/<subfolder>
//   - ModeCustomPath: <customDir>/<subfolder>
//
// An empty subfolder collapses to the base directory. Subfolder names pass
// through filename sanitization so a stray ":" or "?" cannot produce an
// invalid path on Windows.
func (r *Resolver) OutputDir(img model.SourceImage) string {
	var base string
	switch r.cfg.Mode {
	case model.ModeAdjacentToSource:
		base = filepath.Dir(img.Dir())
	case model.ModeCustomPath:
		base = r.cfg.CustomDir
	default:
		base = img.Dir()
	}

	sub := ioutils.SanitizeFileName(r.cfg.Subfolder)
	if sub == "" {
		return base
	}
	return filepath.Join(base, sub)
}

// Resolve computes the destination path for one artifact of one image.
//
// Filename rules by naming convention:
//   - NamingSameName: "<stem>.png"; when the config requests several
//     artifact kinds, each kind falls back to its default suffix instead so
//     the paths cannot collide.
//   - NamingSuffixed: "<stem><suffix>.png"; with several kinds the kind
//     default is appended after the user suffix.
//
// Returns an error wrapping model.ErrConfiguration when the kind is not in
// the config's artifact set, or when the destination would be the source
// file itself (possible with same-name naming, a .png source and no
// subfolder).
func (r *Resolver) Resolve(img model.SourceImage, kind model.ArtifactKind) (string, error) {
	if !r.cfg.HasArtifact(kind) {
		return "", fmt.Errorf("%w: artifact %q not selected for this run", model.ErrConfiguration, kind)
	}

	dir := r.OutputDir(img)
	stem, tail := img.Stem(), r.nameTail(kind)
	dest := truncatePath(dir, stem, tail)

	if filepath.Clean(dest) == filepath.Clean(img.Path) {
		return "", fmt.Errorf("%w: destination %s would overwrite the source image", model.ErrConfiguration, dest)
	}
	return dest, nil
}

// ResolveAll resolves every artifact kind the config requests, in config
// order.
func (r *Resolver) ResolveAll(img model.SourceImage) ([]Artifact, error) {
	artifacts := make([]Artifact, 0, len(r.cfg.Artifacts))
	for _, kind := range r.cfg.Artifacts {
		dest, err := r.Resolve(img, kind)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, Artifact{Kind: kind, Path: dest})
	}
	return artifacts, nil
}

// EnsureOutputDir creates the destination directory for an image and
// returns it. Idempotent: pre-existing directories are reused, never an
// error.
//
// Returns an error wrapping model.ErrFilesystem when the directory cannot
// be created, including the existing-file-not-a-directory conflict.
func (r *Resolver) EnsureOutputDir(img model.SourceImage) (string, error) {
	dir := r.OutputDir(img)
	if err := ioutils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("%w: creating %s: %v", model.ErrFilesystem, dir, err)
	}
	return dir, nil
}

// nameTail returns everything that follows the stem in the output filename,
// suffix and extension included.
func (r *Resolver) nameTail(kind model.ArtifactKind) string {
	multi := len(r.cfg.Artifacts) > 1

	switch r.cfg.Naming {
	case model.NamingSameName:
		if multi {
			return kind.DefaultSuffix() + ".png"
		}
		return ".png"
	default:
		suffix := normalizeSuffix(r.cfg.Suffix)
		if multi {
			suffix += kind.DefaultSuffix()
		}
		return suffix + ".png"
	}
}

// normalizeSuffix sanitizes a user suffix and gives it exactly one leading
// underscore, so "mask" and "_mask" configure the same filenames.
func normalizeSuffix(s string) string {
	s = strings.TrimLeft(strings.TrimSpace(s), "_")
	return "_" + ioutils.SanitizeFileName(s)
}

// truncatePath joins dir, stem and tail, shortening the stem when the total
// would exceed the Windows MAX_PATH limit. The tail survives truncation so
// per-kind suffixes keep multi-artifact paths distinct.
func truncatePath(dir, stem, tail string) string {
	filePath := filepath.Join(dir, stem+tail)
	if len(filePath) < 260 {
		return filePath
	}

	budget := 259 - len(dir) - len(string(filepath.Separator)) - len(tail)
	if budget > 0 && budget < len(stem) {
		filePath = filepath.Join(dir, stem[:budget]+tail)
	}
	return filePath
}
