package paths

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/model"
)

func maskOnly() []model.ArtifactKind {
	return []model.ArtifactKind{model.ArtifactAlphaMask}
}

func allKinds() []model.ArtifactKind {
	return []model.ArtifactKind{
		model.ArtifactAlphaMask,
		model.ArtifactTransparentPNG,
		model.ArtifactSolidBackgroundPNG,
	}
}

func TestResolver_Resolve(t *testing.T) {
	img := model.NewSourceImage(filepath.Join("/data", "shoot", "img_001.jpg"))

	tests := []struct {
		name string
		cfg  model.ExportConfig
		kind model.ArtifactKind
		want string
	}{
		{
			name: "inside source with suffix",
			cfg: model.ExportConfig{
				Mode: model.ModeInsideSource, Subfolder: "masks",
				Naming: model.NamingSuffixed, Suffix: "_mask",
				Artifacts: maskOnly(),
			},
			kind: model.ArtifactAlphaMask,
			want: filepath.Join("/data", "shoot", "masks", "img_001_mask.png"),
		},
		{
			name: "suffix without leading underscore",
			cfg: model.ExportConfig{
				Mode: model.ModeInsideSource, Subfolder: "masks",
				Naming: model.NamingSuffixed, Suffix: "mask",
				Artifacts: maskOnly(),
			},
			kind: model.ArtifactAlphaMask,
			want: filepath.Join("/data", "shoot", "masks", "img_001_mask.png"),
		},
		{
			name: "adjacent to source with default subfolder",
			cfg: model.ExportConfig{
				Mode: model.ModeAdjacentToSource, Subfolder: "masks",
				Naming: model.NamingSuffixed, Suffix: "_mask",
				Artifacts: maskOnly(),
			},
			kind: model.ArtifactAlphaMask,
			want: filepath.Join("/data", "masks", "img_001_mask.png"),
		},
		{
			name: "adjacent to source with renamed subfolder",
			cfg: model.ExportConfig{
				Mode: model.ModeAdjacentToSource, Subfolder: "alpha",
				Naming: model.NamingSuffixed, Suffix: "_mask",
				Artifacts: maskOnly(),
			},
			kind: model.ArtifactAlphaMask,
			want: filepath.Join("/data", "alpha", "img_001_mask.png"),
		},
		{
			name: "custom path with subfolder",
			cfg: model.ExportConfig{
				Mode: model.ModeCustomPath, CustomDir: filepath.Join("/out"), Subfolder: "alpha",
				Naming: model.NamingSuffixed, Suffix: "_mask",
				Artifacts: maskOnly(),
			},
			kind: model.ArtifactAlphaMask,
			want: filepath.Join("/out", "alpha", "img_001_mask.png"),
		},
		{
			name: "custom path without subfolder",
			cfg: model.ExportConfig{
				Mode: model.ModeCustomPath, CustomDir: filepath.Join("/out"),
				Naming: model.NamingSuffixed, Suffix: "_mask",
				Artifacts: maskOnly(),
			},
			kind: model.ArtifactAlphaMask,
			want: filepath.Join("/out", "img_001_mask.png"),
		},
		{
			name: "same-name naming with a single artifact",
			cfg: model.ExportConfig{
				Mode: model.ModeInsideSource, Subfolder: "masks",
				Naming: model.NamingSameName,
				Artifacts: maskOnly(),
			},
			kind: model.ArtifactAlphaMask,
			want: filepath.Join("/data", "shoot", "masks", "img_001.png"),
		},
		{
			name: "same-name naming falls back to kind suffix for multiple artifacts",
			cfg: model.ExportConfig{
				Mode: model.ModeInsideSource, Subfolder: "masks",
				Naming: model.NamingSameName,
				Artifacts: allKinds(),
			},
			kind: model.ArtifactTransparentPNG,
			want: filepath.Join("/data", "shoot", "masks", "img_001_nobg.png"),
		},
		{
			name: "user suffix plus kind suffix for multiple artifacts",
			cfg: model.ExportConfig{
				Mode: model.ModeInsideSource, Subfolder: "masks",
				Naming: model.NamingSuffixed, Suffix: "_v2",
				Artifacts: allKinds(),
			},
			kind: model.ArtifactSolidBackgroundPNG,
			want: filepath.Join("/data", "shoot", "masks", "img_001_v2_bg.png"),
		},
		{
			name: "subfolder name is sanitized",
			cfg: model.ExportConfig{
				Mode: model.ModeInsideSource, Subfolder: "masks: v1",
				Naming: model.NamingSuffixed, Suffix: "_mask",
				Artifacts: maskOnly(),
			},
			kind: model.ArtifactAlphaMask,
			want: filepath.Join("/data", "shoot", "masks_ v1", "img_001_mask.png"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewResolver(tt.cfg)
			if err != nil {
				t.Fatalf("NewResolver() unexpected error: %v", err)
			}

			got, err := r.Resolve(img, tt.kind)
			if err != nil {
				t.Fatalf("Resolve() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}

			// Resolution is deterministic and idempotent.
			again, err := r.Resolve(img, tt.kind)
			if err != nil {
				t.Fatalf("Resolve() second call errored: %v", err)
			}
			if again != got {
				t.Errorf("Resolve() second call = %q, want %q", again, got)
			}
		})
	}
}

func TestResolver_ResolveAll_NoCollisions(t *testing.T) {
	img := model.NewSourceImage(filepath.Join("/data", "shoot", "img_001.jpg"))

	configs := []model.ExportConfig{
		{
			Mode: model.ModeInsideSource, Subfolder: "masks",
			Naming: model.NamingSameName, Artifacts: allKinds(),
		},
		{
			Mode: model.ModeInsideSource, Subfolder: "masks",
			Naming: model.NamingSuffixed, Suffix: "_mask", Artifacts: allKinds(),
		},
	}

	for _, cfg := range configs {
		t.Run(cfg.Naming.String(), func(t *testing.T) {
			r, err := NewResolver(cfg)
			if err != nil {
				t.Fatalf("NewResolver() unexpected error: %v", err)
			}

			artifacts, err := r.ResolveAll(img)
			if err != nil {
				t.Fatalf("ResolveAll() unexpected error: %v", err)
			}
			if len(artifacts) != len(cfg.Artifacts) {
				t.Fatalf("ResolveAll() returned %d artifacts, want %d", len(artifacts), len(cfg.Artifacts))
			}

			seen := make(map[string]model.ArtifactKind)
			for _, a := range artifacts {
				if prev, dup := seen[a.Path]; dup {
					t.Errorf("path %q resolved for both %v and %v", a.Path, prev, a.Kind)
				}
				seen[a.Path] = a.Kind
			}
		})
	}
}

func TestNewResolver_CustomPathWithoutDir(t *testing.T) {
	_, err := NewResolver(model.ExportConfig{
		Mode:      model.ModeCustomPath,
		Naming:    model.NamingSuffixed,
		Suffix:    "_mask",
		Artifacts: maskOnly(),
	})
	if err == nil {
		t.Fatal("NewResolver() expected error for custom mode without directory")
	}
	if !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("NewResolver() error = %v, want ErrConfiguration", err)
	}
}

func TestResolver_Resolve_UnselectedKind(t *testing.T) {
	r, err := NewResolver(model.ExportConfig{
		Mode: model.ModeInsideSource, Subfolder: "masks",
		Naming: model.NamingSuffixed, Suffix: "_mask",
		Artifacts: maskOnly(),
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = r.Resolve(model.NewSourceImage("/data/shoot/img.jpg"), model.ArtifactTransparentPNG)
	if !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("Resolve() error = %v, want ErrConfiguration", err)
	}
}

func TestResolver_Resolve_WouldOverwriteSource(t *testing.T) {
	// Same-name naming, no subfolder, PNG source: the resolved destination
	// is the source file itself and must be refused.
	r, err := NewResolver(model.ExportConfig{
		Mode: model.ModeInsideSource, Subfolder: "",
		Naming: model.NamingSameName,
		Artifacts: maskOnly(),
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = r.Resolve(model.NewSourceImage(filepath.Join("/data", "shoot", "img_001.png")), model.ArtifactAlphaMask)
	if !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("Resolve() error = %v, want ErrConfiguration", err)
	}

	// A JPEG source resolves fine: the .png destination differs.
	dest, err := r.Resolve(model.NewSourceImage(filepath.Join("/data", "shoot", "img_001.jpg")), model.ArtifactAlphaMask)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if dest != filepath.Join("/data", "shoot", "img_001.png") {
		t.Errorf("Resolve() = %q, want %q", dest, filepath.Join("/data", "shoot", "img_001.png"))
	}
}

func TestResolver_EnsureOutputDir(t *testing.T) {
	dir := t.TempDir()
	img := model.NewSourceImage(filepath.Join(dir, "img_001.jpg"))

	r, err := NewResolver(model.ExportConfig{
		Mode: model.ModeInsideSource, Subfolder: "masks",
		Naming: model.NamingSuffixed, Suffix: "_mask",
		Artifacts: maskOnly(),
	})
	if err != nil {
		t.Fatal(err)
	}

	created, err := r.EnsureOutputDir(img)
	if err != nil {
		t.Fatalf("EnsureOutputDir() first call: %v", err)
	}
	if created != filepath.Join(dir, "masks") {
		t.Errorf("EnsureOutputDir() = %q, want %q", created, filepath.Join(dir, "masks"))
	}

	// Pre-existing directory is reuse, not an error.
	if _, err := r.EnsureOutputDir(img); err != nil {
		t.Fatalf("EnsureOutputDir() second call: %v", err)
	}
}

func TestResolver_EnsureOutputDir_FileConflict(t *testing.T) {
	dir := t.TempDir()
	// A regular file occupies the masks name.
	if err := os.WriteFile(filepath.Join(dir, "masks"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := NewResolver(model.ExportConfig{
		Mode: model.ModeInsideSource, Subfolder: "masks",
		Naming: model.NamingSuffixed, Suffix: "_mask",
		Artifacts: maskOnly(),
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = r.EnsureOutputDir(model.NewSourceImage(filepath.Join(dir, "img_001.jpg")))
	if err == nil {
		t.Fatal("EnsureOutputDir() expected error when a file occupies the directory name")
	}
	if !errors.Is(err, model.ErrFilesystem) {
		t.Errorf("EnsureOutputDir() error = %v, want ErrFilesystem", err)
	}
}

func TestResolver_LongPathKeepsSuffix(t *testing.T) {
	stem := strings.Repeat("x", 300)
	img := model.NewSourceImage(filepath.Join("/data", "shoot", stem+".jpg"))

	r, err := NewResolver(model.ExportConfig{
		Mode: model.ModeInsideSource, Subfolder: "masks",
		Naming: model.NamingSuffixed, Suffix: "_mask",
		Artifacts: maskOnly(),
	})
	if err != nil {
		t.Fatal(err)
	}

	dest, err := r.Resolve(img, model.ArtifactAlphaMask)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if len(dest) >= 260 {
		t.Errorf("Resolve() path length = %d, want < 260", len(dest))
	}
	if !strings.HasSuffix(dest, "_mask.png") {
		t.Errorf("Resolve() = %q, want suffix %q preserved", dest, "_mask.png")
	}
}
