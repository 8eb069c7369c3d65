// Package paths resolves destination paths for exported artifacts.
//
// The Resolver turns a source image plus an ExportConfig snapshot into the
// concrete file path for each requested artifact kind, honoring the output
// mode (inside the shoot folder, next to it, or a custom directory), the
// subfolder name and the naming convention:
//
//	r, err := paths.NewResolver(cfg)
//	dest, err := r.Resolve(img, model.ArtifactAlphaMask)
//	all, err := r.ResolveAll(img)
//
// Resolution is pure; EnsureOutputDir performs the one filesystem side
// effect (idempotent directory creation). Invalid settings surface as
// model.ErrConfiguration, directory conflicts as model.ErrFilesystem.
package paths
