package model

import (
	"errors"
	"testing"
)

func TestParseOutputMode(t *testing.T) {
	tests := []struct {
		input   string
		want    OutputMode
		wantErr bool
	}{
		{"inside", ModeInsideSource, false},
		{"sibling", ModeAdjacentToSource, false},
		{"adjacent", ModeAdjacentToSource, false},
		{"custom", ModeCustomPath, false},
		{" Inside ", ModeInsideSource, false},
		{"nested", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOutputMode(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseOutputMode(%q) expected error, got %v", tt.input, got)
				}
				if !errors.Is(err, ErrConfiguration) {
					t.Errorf("ParseOutputMode(%q) error = %v, want ErrConfiguration", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOutputMode(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseOutputMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNamingRule(t *testing.T) {
	tests := []struct {
		input   string
		want    NamingRule
		wantErr bool
	}{
		{"suffix", NamingSuffixed, false},
		{"append_suffix", NamingSuffixed, false},
		{"original", NamingSameName, false},
		{"original_filename", NamingSameName, false},
		{"same", NamingSameName, false},
		{"prefix", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNamingRule(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseNamingRule(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseNamingRule(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestArtifactKind_DefaultSuffix(t *testing.T) {
	tests := []struct {
		kind ArtifactKind
		want string
	}{
		{ArtifactAlphaMask, "_mask"},
		{ArtifactTransparentPNG, "_nobg"},
		{ArtifactSolidBackgroundPNG, "_bg"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.DefaultSuffix(); got != tt.want {
				t.Errorf("DefaultSuffix() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultArtifactsFor(t *testing.T) {
	tests := []struct {
		style BackgroundStyle
		want  ArtifactKind
	}{
		{BackgroundAlphaMatte, ArtifactAlphaMask},
		{BackgroundTransparent, ArtifactTransparentPNG},
		{BackgroundWhite, ArtifactSolidBackgroundPNG},
		{BackgroundBlack, ArtifactSolidBackgroundPNG},
	}

	for _, tt := range tests {
		t.Run(tt.style.String(), func(t *testing.T) {
			got := DefaultArtifactsFor(tt.style)
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("DefaultArtifactsFor(%v) = %v, want [%v]", tt.style, got, tt.want)
			}
		})
	}
}

func TestExportConfig_Validate(t *testing.T) {
	valid := ExportConfig{
		Mode:      ModeInsideSource,
		Subfolder: "masks",
		Naming:    NamingSuffixed,
		Suffix:    "_mask",
		Artifacts: []ArtifactKind{ArtifactAlphaMask},
	}

	tests := []struct {
		name    string
		mutate  func(*ExportConfig)
		wantErr bool
	}{
		{"valid default", func(c *ExportConfig) {}, false},
		{"custom mode without dir", func(c *ExportConfig) {
			c.Mode = ModeCustomPath
			c.CustomDir = ""
		}, true},
		{"custom mode with dir", func(c *ExportConfig) {
			c.Mode = ModeCustomPath
			c.CustomDir = "/out"
		}, false},
		{"suffixed naming without suffix", func(c *ExportConfig) {
			c.Suffix = ""
		}, true},
		{"suffixed naming with underscore-only suffix", func(c *ExportConfig) {
			c.Suffix = "___"
		}, true},
		{"same-name naming without suffix", func(c *ExportConfig) {
			c.Naming = NamingSameName
			c.Suffix = ""
		}, false},
		{"no artifacts", func(c *ExportConfig) {
			c.Artifacts = nil
		}, true},
		{"duplicate artifacts", func(c *ExportConfig) {
			c.Artifacts = []ArtifactKind{ArtifactAlphaMask, ArtifactAlphaMask}
		}, true},
		{"unknown artifact", func(c *ExportConfig) {
			c.Artifacts = []ArtifactKind{ArtifactKind(99)}
		}, true},
		{"unknown mode", func(c *ExportConfig) {
			c.Mode = OutputMode(99)
		}, true},
		{"unknown background", func(c *ExportConfig) {
			c.Background = BackgroundStyle(99)
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid.Clone()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrConfiguration) {
				t.Errorf("Validate() error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestExportConfig_Clone(t *testing.T) {
	cfg := ExportConfig{
		Mode:      ModeInsideSource,
		Artifacts: []ArtifactKind{ArtifactAlphaMask, ArtifactTransparentPNG},
	}

	snapshot := cfg.Clone()
	cfg.Artifacts[0] = ArtifactSolidBackgroundPNG

	if snapshot.Artifacts[0] != ArtifactAlphaMask {
		t.Errorf("Clone() shares the artifact slice with the original")
	}
}

func TestSourceImage_Stem(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/data/shoot/img_001.jpg", "img_001"},
		{"/data/shoot/img.two.dots.png", "img.two.dots"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			img := NewSourceImage(tt.path)
			if got := img.Stem(); got != tt.want {
				t.Errorf("Stem() = %q, want %q", got, tt.want)
			}
		})
	}
}
