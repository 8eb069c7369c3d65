package segment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/http"
	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/model"
)

// modelBaseURL is where the pretrained model files are published.
const modelBaseURL = "https://github.com/danielgatis/rembg/releases/download/v0.0.0"

// URL returns the download location for the model file.
func (m ModelSpec) URL() string {
	return modelBaseURL + "/" + m.File
}

// FetchModel ensures the named model file exists in dir, downloading it
// when missing. It returns the path to the model file.
//
// An empty dir means DefaultModelsDir(). The optional onProgress callback
// receives (bytesWritten, totalBytes) while a download is in flight; it is
// never called when the file is already present.
//
// Returns an error if:
//   - The model name is not in the catalog
//   - The models directory cannot be created
//   - The download fails or is cancelled
func FetchModel(ctx context.Context, name, dir string, onProgress func(written, total int64)) (string, error) {
	spec, err := LookupModel(name)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = DefaultModelsDir()
	}

	path := filepath.Join(dir, spec.File)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: creating models directory: %v", model.ErrFilesystem, err)
	}

	client := http.NewClient()
	if onProgress != nil {
		// Announce the total up front so a UI can size its progress bar
		// before the first chunk lands. Best effort: some mirrors reject
		// HEAD, and the GET response carries the length anyway.
		if size, err := client.GetFileSize(ctx, spec.URL()); err == nil && size > 0 {
			onProgress(0, size)
		}
	}
	if err := client.DownloadFile(ctx, spec.URL(), path, onProgress); err != nil {
		return "", fmt.Errorf("%w: downloading model %s: %v", model.ErrInference, spec.Name, err)
	}
	return path, nil
}
