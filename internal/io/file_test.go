package ioutils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/model"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"masks", "masks"},
		{"masks: v2", "masks_ v2"},
		{"a/b\\c", "a_b_c"},
		{"out|put", "out_put"},
		{"what?*", "what__"},
		{"\"quoted\"", "_quoted_"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"img.jpg", true},
		{"img.JPG", true},
		{"img.jpeg", true},
		{"img.png", true},
		{"img.bmp", true},
		{"img.tiff", true},
		{"img.webp", true},
		{"img.gif", false},
		{"img.txt", false},
		{"img", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsImageFile(tt.path); got != tt.want {
				t.Errorf("IsImageFile(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestScanImages(t *testing.T) {
	dir := t.TempDir()

	files := []string{"b_002.jpg", "a_001.png", "notes.txt", ".hidden.jpg", "c_003.WEBP"}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.jpg"), 0755); err != nil {
		t.Fatal(err)
	}

	images, err := ScanImages(dir)
	if err != nil {
		t.Fatalf("ScanImages() unexpected error: %v", err)
	}

	want := []string{"a_001.png", "b_002.jpg", "c_003.WEBP"}
	if len(images) != len(want) {
		t.Fatalf("ScanImages() returned %d images, want %d", len(images), len(want))
	}
	for i, name := range want {
		if images[i].Name != name {
			t.Errorf("images[%d].Name = %q, want %q", i, images[i].Name, name)
		}
		if images[i].Path != filepath.Join(dir, name) {
			t.Errorf("images[%d].Path = %q, want %q", i, images[i].Path, filepath.Join(dir, name))
		}
	}
}

func TestScanImages_MissingDir(t *testing.T) {
	_, err := ScanImages(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("ScanImages() expected error for missing directory")
	}
	if !errors.Is(err, model.ErrFilesystem) {
		t.Errorf("ScanImages() error = %v, want ErrFilesystem", err)
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir() first call: %v", err)
	}
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir() second call: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("EnsureDir() did not create directory: %v", err)
	}
}
