package segment

import (
	"fmt"

	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/model"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "u2netp"

// ModelSpec describes a supported segmentation model: where to find it,
// the square input side it expects, and its input normalization constants.
type ModelSpec struct {
	Name        string
	File        string
	Side        int
	Mean        [3]float32
	Std         [3]float32
	Description string
}

var (
	imagenetMean = [3]float32{0.485, 0.456, 0.406}
	imagenetStd  = [3]float32{0.229, 0.224, 0.225}
)

// The u2net family shares ImageNet normalization and a 320px input.
// ISNet takes a 1024px input normalized around 0.5 with unit variance.
var catalog = []ModelSpec{
	{
		Name:        "u2netp",
		File:        "u2netp.onnx",
		Side:        320,
		Mean:        imagenetMean,
		Std:         imagenetStd,
		Description: "Lightweight model, fast processing, good for most images",
	},
	{
		Name:        "u2net",
		File:        "u2net.onnx",
		Side:        320,
		Mean:        imagenetMean,
		Std:         imagenetStd,
		Description: "Standard model, balanced speed and accuracy",
	},
	{
		Name:        "u2net_human_seg",
		File:        "u2net_human_seg.onnx",
		Side:        320,
		Mean:        imagenetMean,
		Std:         imagenetStd,
		Description: "Human segmentation, best for people and portraits",
	},
	{
		Name:        "isnet-general-use",
		File:        "isnet-general-use.onnx",
		Side:        1024,
		Mean:        [3]float32{0.5, 0.5, 0.5},
		Std:         [3]float32{1, 1, 1},
		Description: "High quality model, slower but most accurate",
	},
}

// Models returns the supported models in display order.
func Models() []ModelSpec {
	out := make([]ModelSpec, len(catalog))
	copy(out, catalog)
	return out
}

// ModelNames returns the supported model names in display order.
func ModelNames() []string {
	names := make([]string, len(catalog))
	for i, m := range catalog {
		names[i] = m.Name
	}
	return names
}

// LookupModel resolves a model name to its spec.
//
// Returns an error wrapping model.ErrConfiguration if the name is unknown.
func LookupModel(name string) (ModelSpec, error) {
	for _, m := range catalog {
		if m.Name == name {
			return m, nil
		}
	}
	return ModelSpec{}, fmt.Errorf("%w: unknown model %q", model.ErrConfiguration, name)
}
