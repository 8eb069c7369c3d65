package segment

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/model"
)

// testModelsDir skips the test unless the default model is available,
// either under $BGREMOVE_MODELS_DIR or the standard models directory.
func testModelsDir(t *testing.T) string {
	t.Helper()
	dir := os.Getenv("BGREMOVE_MODELS_DIR")
	if dir == "" {
		dir = DefaultModelsDir()
	}
	if _, err := os.Stat(filepath.Join(dir, "u2netp.onnx")); err != nil {
		t.Skipf("u2netp.onnx not available in %s", dir)
	}
	return dir
}

func testPhoto(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 5), B: 90, A: 255})
		}
	}
	return img
}

func TestNew_UnknownModel(t *testing.T) {
	_, err := New("not-a-model")
	if !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("New(unknown) error = %v, want model.ErrConfiguration", err)
	}
}

func TestNew_MissingModelFile(t *testing.T) {
	_, err := New(DefaultModel, WithModelsDir(t.TempDir()))
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("New with empty models dir: error = %v, want ErrModelNotFound", err)
	}
	if !errors.Is(err, model.ErrInference) {
		t.Errorf("ErrModelNotFound should wrap model.ErrInference, got %v", err)
	}
}

func TestONNXEngine_ComputeMask(t *testing.T) {
	dir := testModelsDir(t)
	eng, err := New(DefaultModel, WithModelsDir(dir))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer eng.Close()

	img := testPhoto(64, 48)
	mask, err := eng.ComputeMask(context.Background(), img, DefaultMatteOptions())
	if err != nil {
		t.Fatalf("ComputeMask: %v", err)
	}
	if b := mask.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("mask size = %dx%d, want 64x48", b.Dx(), b.Dy())
	}
	if eng.ModelName() != DefaultModel {
		t.Errorf("ModelName = %q, want %q", eng.ModelName(), DefaultModel)
	}
}

func TestONNXEngine_Closed(t *testing.T) {
	dir := testModelsDir(t)
	eng, err := New(DefaultModel, WithModelsDir(dir))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := eng.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	_, err = eng.ComputeMask(context.Background(), testPhoto(8, 8), DefaultMatteOptions())
	if !errors.Is(err, ErrEngineClosed) {
		t.Errorf("ComputeMask after Close: error = %v, want ErrEngineClosed", err)
	}
	if err := eng.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestONNXEngine_CancelledContext(t *testing.T) {
	dir := testModelsDir(t)
	eng, err := New(DefaultModel, WithModelsDir(dir))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer eng.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := eng.ComputeMask(ctx, testPhoto(8, 8), DefaultMatteOptions()); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled context: error = %v, want context.Canceled", err)
	}
}
