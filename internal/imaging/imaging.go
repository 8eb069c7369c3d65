package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/model"

	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration

	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// Load decodes the image at path.
//
// Returns an error wrapping model.ErrFilesystem when the file cannot be
// read or decoded.
func Load(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", model.ErrFilesystem, path, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", model.ErrFilesystem, path, err)
	}
	return img, nil
}

// LoadUpright decodes the image at path and rotates it upright according to
// its EXIF orientation tag.
//
// The returned Orientation is the tag value found in the file (OrientUpright
// when the file has none), so callers can re-apply it to exported artifacts
// and keep the saved pixel grid aligned with the source file.
func LoadUpright(path string) (image.Image, Orientation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, OrientUpright, fmt.Errorf("%w: reading %s: %v", model.ErrFilesystem, path, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, OrientUpright, fmt.Errorf("%w: decoding %s: %v", model.ErrFilesystem, path, err)
	}

	orient := ReadOrientation(bytes.NewReader(data))
	return ApplyOrientation(img, orient), orient, nil
}

// SavePNG writes img to path as a PNG.
//
// Returns an error wrapping model.ErrFilesystem when the file cannot be
// created or written.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", model.ErrFilesystem, path, err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("%w: encoding %s: %v", model.ErrFilesystem, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: writing %s: %v", model.ErrFilesystem, path, err)
	}
	return nil
}

// ToNRGBA returns img as *image.NRGBA with bounds anchored at the origin,
// copying only when the representation differs.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == image.Pt(0, 0) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}

// ToGray returns img as *image.Gray with bounds anchored at the origin,
// copying only when the representation differs.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == image.Pt(0, 0) {
		return g
	}
	dst := image.NewGray(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
