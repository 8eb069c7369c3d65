package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/batch"
	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/imaging"
	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/model"
	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/preview"
	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/segment"
)

// Settings holds all configuration options.
type Settings struct {
	// Model settings
	Model     string `json:"model"`
	ModelsDir string `json:"models_dir"`

	// Matte refinement
	AlphaMatting        bool `json:"alpha_matting"`
	ForegroundThreshold int  `json:"alpha_matting_foreground_threshold"`
	BackgroundThreshold int  `json:"alpha_matting_background_threshold"`
	PostProcessMask     bool `json:"post_process_mask"`

	// Background rendering
	Background string `json:"background"` // matte, transparent, white, black

	// Processing size
	ResizeEnabled  bool    `json:"resize_enabled"`
	ResizeMode     string  `json:"resize_mode"` // fraction, pixels
	ResizeMaxSize  int     `json:"resize_max_size"`
	ResizeFraction float64 `json:"resize_fraction"`

	// Output settings
	OutputMode        string   `json:"output_mode"` // inside, sibling, custom
	CustomOutputDir   string   `json:"custom_output_dir"`
	OutputSubfolder   string   `json:"output_subfolder"`
	Naming            string   `json:"naming"` // suffix, original
	FilenameSuffix    string   `json:"filename_suffix"`
	Artifacts         []string `json:"artifacts"` // mask, nobg, bg; empty derives from background
	OverwriteExisting bool     `json:"overwrite_existing"`

	// Batch settings
	BatchWorkers  int `json:"batch_workers"`
	BatchDelayMS  int `json:"batch_delay_ms"`
	MemoryLimitMB int `json:"memory_limit_mb"`

	// Preview settings
	PreviewDebounceMS int `json:"preview_debounce_ms"`
	PreviewMaxSize    int `json:"preview_max_size"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	workers := runtime.NumCPU()
	if workers > 4 {
		workers = 4
	}
	return &Settings{
		Model: segment.DefaultModel,

		AlphaMatting:        false,
		ForegroundThreshold: 240,
		BackgroundThreshold: 10,
		PostProcessMask:     false,

		Background: "matte",

		ResizeEnabled:  true,
		ResizeMode:     "fraction",
		ResizeMaxSize:  800,
		ResizeFraction: 0.5,

		OutputMode:        "inside",
		OutputSubfolder:   "masks",
		Naming:            "suffix",
		FilenameSuffix:    "_mask",
		OverwriteExisting: false,

		BatchWorkers:  workers,
		BatchDelayMS:  100,
		MemoryLimitMB: 2048,

		PreviewDebounceMS: 500,
		PreviewMaxSize:    800,
	}
}

// DefaultPath returns the settings file location under the user's
// configuration directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "settings.json"
	}
	return filepath.Join(dir, "bgremove", "settings.json")
}

// Load reads settings from a JSON file. A missing file yields defaults;
// keys absent from the file keep their default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("%w: reading settings: %v", model.ErrFilesystem, err)
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("%w: parsing settings: %v", model.ErrConfiguration, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", model.ErrFilesystem, err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", model.ErrFilesystem, err)
	}
	return nil
}

// Validate runs every adapter and reports the first invalid setting.
func (s *Settings) Validate() error {
	if _, err := segment.LookupModel(s.Model); err != nil {
		return err
	}
	if _, err := s.ToExportConfig(); err != nil {
		return err
	}
	if err := s.ToMatteOptions().Validate(); err != nil {
		return err
	}
	if _, err := s.ToResizePolicy(); err != nil {
		return err
	}
	return nil
}

// ToExportConfig converts settings to the typed export configuration. An
// empty artifact list derives the artifacts from the background style, the
// way the interactive tool behaves.
func (s *Settings) ToExportConfig() (model.ExportConfig, error) {
	mode, err := model.ParseOutputMode(s.OutputMode)
	if err != nil {
		return model.ExportConfig{}, err
	}
	naming, err := model.ParseNamingRule(s.Naming)
	if err != nil {
		return model.ExportConfig{}, err
	}
	style, err := model.ParseBackgroundStyle(s.Background)
	if err != nil {
		return model.ExportConfig{}, err
	}

	var artifacts []model.ArtifactKind
	if len(s.Artifacts) == 0 {
		artifacts = model.DefaultArtifactsFor(style)
	} else {
		for _, name := range s.Artifacts {
			kind, err := model.ParseArtifact(name)
			if err != nil {
				return model.ExportConfig{}, err
			}
			artifacts = append(artifacts, kind)
		}
	}

	cfg := model.ExportConfig{
		Mode:       mode,
		CustomDir:  s.CustomOutputDir,
		Subfolder:  s.OutputSubfolder,
		Naming:     naming,
		Suffix:     s.FilenameSuffix,
		Artifacts:  artifacts,
		Background: style,
		Overwrite:  s.OverwriteExisting,
	}
	if err := cfg.Validate(); err != nil {
		return model.ExportConfig{}, err
	}
	return cfg, nil
}

// ToMatteOptions converts settings to matte refinement options, clamping
// thresholds into byte range.
func (s *Settings) ToMatteOptions() segment.MatteOptions {
	return segment.MatteOptions{
		AlphaMatting:        s.AlphaMatting,
		ForegroundThreshold: clampByte(s.ForegroundThreshold),
		BackgroundThreshold: clampByte(s.BackgroundThreshold),
		PostProcess:         s.PostProcessMask,
	}
}

// ToResizePolicy converts settings to the processing resize policy.
func (s *Settings) ToResizePolicy() (imaging.ResizePolicy, error) {
	var mode imaging.ResizeMode
	switch s.ResizeMode {
	case "fraction", "":
		mode = imaging.ResizeFraction
	case "pixels":
		mode = imaging.ResizePixels
	default:
		return imaging.ResizePolicy{}, fmt.Errorf("%w: unknown resize mode %q", model.ErrConfiguration, s.ResizeMode)
	}
	return imaging.ResizePolicy{
		Enabled:  s.ResizeEnabled,
		Mode:     mode,
		MaxSize:  s.ResizeMaxSize,
		Fraction: s.ResizeFraction,
	}, nil
}

// ToBatchOptions converts settings to batch runner options. DryRun is a
// command-line concern and stays false here.
func (s *Settings) ToBatchOptions() (batch.Options, error) {
	export, err := s.ToExportConfig()
	if err != nil {
		return batch.Options{}, err
	}
	resize, err := s.ToResizePolicy()
	if err != nil {
		return batch.Options{}, err
	}
	return batch.Options{
		Export:  export,
		Matte:   s.ToMatteOptions(),
		Resize:  resize,
		Workers: s.BatchWorkers,
		Delay:   time.Duration(s.BatchDelayMS) * time.Millisecond,
	}, nil
}

// ToPreviewParams converts settings to preview computation parameters.
func (s *Settings) ToPreviewParams() (preview.Params, error) {
	style, err := model.ParseBackgroundStyle(s.Background)
	if err != nil {
		return preview.Params{}, err
	}
	return preview.Params{
		Matte:   s.ToMatteOptions(),
		Style:   style,
		MaxSide: s.PreviewMaxSize,
	}, nil
}

// PreviewDebounce returns the preview settle window.
func (s *Settings) PreviewDebounce() time.Duration {
	if s.PreviewDebounceMS <= 0 {
		return preview.DefaultDebounce
	}
	return time.Duration(s.PreviewDebounceMS) * time.Millisecond
}

// EngineOptions assembles the segmentation engine options implied by the
// settings: models directory, one session per batch worker, and the memory
// limit.
func (s *Settings) EngineOptions() []segment.Option {
	opts := []segment.Option{
		segment.WithPoolSize(s.BatchWorkers),
		segment.WithMemoryLimit(s.MemoryLimitMB),
	}
	if s.ModelsDir != "" {
		opts = append(opts, segment.WithModelsDir(s.ModelsDir))
	}
	return opts
}

// ApplyBackgroundPreset switches the background style and realigns the
// output naming defaults with it, matching how the interactive tool
// repopulates those fields when the style changes.
func (s *Settings) ApplyBackgroundPreset(style string) {
	s.Background = style
	switch style {
	case "matte":
		s.OutputSubfolder = "masks"
		s.FilenameSuffix = "_mask"
	case "transparent":
		s.OutputSubfolder = "output"
		s.FilenameSuffix = "_nobg"
	default:
		s.OutputSubfolder = "output"
		s.FilenameSuffix = "_bg"
	}
	s.Artifacts = nil
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
