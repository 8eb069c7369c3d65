package segment

import (
	"context"
	"fmt"
	"image"

	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/model"
)

var (
	// ErrModelNotFound reports a missing .onnx file for the selected model.
	// Models are downloaded out of band into the models directory.
	ErrModelNotFound = fmt.Errorf("%w: model file not found", model.ErrInference)

	// ErrEngineClosed reports use of an engine after Close.
	ErrEngineClosed = fmt.Errorf("%w: engine closed", model.ErrInference)
)

// Engine computes foreground masks. Implementations must be safe for
// concurrent use; the batch runner calls ComputeMask from several workers.
type Engine interface {
	// ComputeMask segments img and returns an 8-bit mask with the same
	// dimensions, 255 meaning foreground. Failures wrap model.ErrInference.
	ComputeMask(ctx context.Context, img image.Image, opts MatteOptions) (*image.Gray, error)

	// ModelName identifies the loaded model, e.g. "u2netp".
	ModelName() string

	// Close releases inference resources. Subsequent ComputeMask calls
	// return ErrEngineClosed.
	Close() error
}

// MatteOptions tunes the edge refinement applied to a raw model mask.
type MatteOptions struct {
	// AlphaMatting enables trimap-style clamping: pixels at or above
	// ForegroundThreshold become fully opaque, pixels at or below
	// BackgroundThreshold fully transparent, and the band in between is
	// rescaled across the full range.
	AlphaMatting bool

	// ForegroundThreshold is the confident-foreground cutoff (default 240).
	ForegroundThreshold uint8

	// BackgroundThreshold is the confident-background cutoff (default 10).
	BackgroundThreshold uint8

	// PostProcess smooths the mask with a small blur to soften staircase
	// edges.
	PostProcess bool
}

// DefaultMatteOptions mirrors the original tool: matting off, 240/10
// thresholds, no post-processing.
func DefaultMatteOptions() MatteOptions {
	return MatteOptions{
		ForegroundThreshold: 240,
		BackgroundThreshold: 10,
	}
}

// Validate checks threshold sanity.
func (o MatteOptions) Validate() error {
	if o.AlphaMatting && o.ForegroundThreshold <= o.BackgroundThreshold {
		return fmt.Errorf("%w: foreground threshold %d must exceed background threshold %d",
			model.ErrConfiguration, o.ForegroundThreshold, o.BackgroundThreshold)
	}
	return nil
}
