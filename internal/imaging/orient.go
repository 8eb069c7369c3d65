package imaging

import (
	"image"
	"io"

	"github.com/rwcarlsen/goexif/exif"
)

// Orientation is the EXIF orientation tag value (1 through 8).
//
// Cameras store the sensor pixel grid and record how to rotate it for
// display. Processing happens on the upright pixels; exported artifacts get
// the original orientation re-applied so their rows align with the source
// file the way photogrammetry pipelines read it (raw pixel order, no EXIF).
type Orientation int

const (
	// OrientUpright means no transform is needed.
	OrientUpright Orientation = 1

	orientFlipH      Orientation = 2
	orientRotate180  Orientation = 3
	orientFlipV      Orientation = 4
	orientTranspose  Orientation = 5
	orientRotate90   Orientation = 6
	orientTransverse Orientation = 7
	orientRotate270  Orientation = 8
)

// ReadOrientation extracts the EXIF orientation from an encoded image
// stream. Files without EXIF data (PNG, BMP, WebP, stripped JPEGs) report
// OrientUpright.
func ReadOrientation(r io.Reader) Orientation {
	x, err := exif.Decode(r)
	if err != nil {
		return OrientUpright
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return OrientUpright
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return OrientUpright
	}
	return Orientation(v)
}

// Inverse returns the orientation that undoes this one. Re-applying the
// inverse of the upright transform restores the stored pixel order.
func (o Orientation) Inverse() Orientation {
	switch o {
	case orientRotate90:
		return orientRotate270
	case orientRotate270:
		return orientRotate90
	default:
		return o
	}
}

// ApplyOrientation performs the pixel transform named by the orientation
// value: the result displays upright for an image stored with that tag.
func ApplyOrientation(img image.Image, o Orientation) image.Image {
	switch o {
	case orientFlipH:
		return flipH(ToNRGBA(img))
	case orientRotate180:
		return rotate180(ToNRGBA(img))
	case orientFlipV:
		return flipV(ToNRGBA(img))
	case orientTranspose:
		return transpose(ToNRGBA(img))
	case orientRotate90:
		return rotate90(ToNRGBA(img))
	case orientTransverse:
		return transverse(ToNRGBA(img))
	case orientRotate270:
		return rotate270(ToNRGBA(img))
	default:
		return img
	}
}

// RestoreOrientation maps an upright image back to the stored pixel order of
// the original file.
func RestoreOrientation(img image.Image, original Orientation) image.Image {
	return ApplyOrientation(img, original.Inverse())
}

func flipH(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.SetNRGBA(x, y, src.NRGBAAt(b.Dx()-1-x, y))
		}
	}
	return dst
}

func flipV(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.SetNRGBA(x, y, src.NRGBAAt(x, b.Dy()-1-y))
		}
	}
	return dst
}

func rotate180(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.SetNRGBA(x, y, src.NRGBAAt(b.Dx()-1-x, b.Dy()-1-y))
		}
	}
	return dst
}

// rotate90 rotates a quarter turn clockwise.
func rotate90(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := 0; y < b.Dx(); y++ {
		for x := 0; x < b.Dy(); x++ {
			dst.SetNRGBA(x, y, src.NRGBAAt(y, b.Dy()-1-x))
		}
	}
	return dst
}

// rotate270 rotates a quarter turn counter-clockwise.
func rotate270(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := 0; y < b.Dx(); y++ {
		for x := 0; x < b.Dy(); x++ {
			dst.SetNRGBA(x, y, src.NRGBAAt(b.Dx()-1-y, x))
		}
	}
	return dst
}

// transpose reflects across the main diagonal.
func transpose(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := 0; y < b.Dx(); y++ {
		for x := 0; x < b.Dy(); x++ {
			dst.SetNRGBA(x, y, src.NRGBAAt(y, x))
		}
	}
	return dst
}

// transverse reflects across the anti-diagonal.
func transverse(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := 0; y < b.Dx(); y++ {
		for x := 0; x < b.Dy(); x++ {
			dst.SetNRGBA(x, y, src.NRGBAAt(b.Dx()-1-y, b.Dy()-1-x))
		}
	}
	return dst
}
