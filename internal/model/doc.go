// Package model defines the core data structures and the error taxonomy
// shared by every component of the background-removal tool.
//
// # ExportConfig
//
// ExportConfig captures where artifacts go and how they are named. It is the
// immutable snapshot handed to the path resolver, the preview scheduler and
// the batch runner:
//
//	cfg := model.ExportConfig{
//	    Mode:      model.ModeInsideSource,
//	    Subfolder: "masks",
//	    Naming:    model.NamingSuffixed,
//	    Suffix:    "_mask",
//	    Artifacts: []model.ArtifactKind{model.ArtifactAlphaMask},
//	}
//	if err := cfg.Validate(); err != nil { ... }
//
// # SourceImage
//
// SourceImage is one scanned input file, immutable for the session:
//
//	img := model.NewSourceImage("/data/shoot/img_001.jpg")
//	fmt.Println(img.Stem()) // "img_001"
//
// # Error taxonomy
//
// Every user-facing failure wraps one of three sentinels so callers can
// classify it with errors.Is:
//
//	model.ErrConfiguration // invalid settings, fatal to the operation
//	model.ErrInference     // segmentation failure, reported per image
//	model.ErrFilesystem    // path/permission conflict, reported per image
package model
