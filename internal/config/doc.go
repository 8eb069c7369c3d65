// Package config provides configuration management for bgremove.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Conversion to the typed option structs consumed by other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// u2netp model, masks written to a "masks" subfolder
//	// Up to 4 workers, half-resolution processing
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    // Malformed file; a missing file just yields defaults
//	}
//
// # Saving Settings
//
//	settings.Model = "isnet-general-use"
//	err := settings.Save(config.DefaultPath())
//
// # Adapters
//
// Settings is flat JSON with string enums; the To* methods convert it into
// the typed configuration the processing packages take, validating as they
// go:
//
//	export, err := settings.ToExportConfig()  // model.ExportConfig
//	matte := settings.ToMatteOptions()        // segment.MatteOptions
//	policy, err := settings.ToResizePolicy()  // imaging.ResizePolicy
//	opts, err := settings.ToBatchOptions()    // batch.Options
//
// # Configuration Options
//
// Settings includes options for:
//   - Model selection and the models directory
//   - Matte refinement thresholds and mask post-processing
//   - Background style and export artifact selection
//   - Output placement, subfolder, and file naming
//   - Batch concurrency, dispatch delay, and memory limits
//   - Preview debounce and working resolution
package config
