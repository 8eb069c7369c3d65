package imaging

import (
	"image"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// ResizeMode selects how the working size is derived from the source size.
type ResizeMode int

const (
	// ResizeFraction scales both dimensions by a fixed factor.
	ResizeFraction ResizeMode = iota

	// ResizePixels caps the longest side at a pixel count.
	ResizePixels
)

// ResizePolicy is the pre-inference downscale configuration. Disabled means
// images are processed and exported at their native size.
type ResizePolicy struct {
	Enabled  bool
	Mode     ResizeMode
	MaxSize  int
	Fraction float64
}

// DefaultResizePolicy mirrors the original tool: halve each dimension.
func DefaultResizePolicy() ResizePolicy {
	return ResizePolicy{Enabled: true, Mode: ResizeFraction, MaxSize: 800, Fraction: 0.5}
}

// Apply returns the image at its working size. Lanczos resampling, never an
// upscale; disabled or no-op policies return the input unchanged.
func (p ResizePolicy) Apply(img image.Image) image.Image {
	if !p.Enabled {
		return img
	}

	switch p.Mode {
	case ResizePixels:
		return ResizeToFit(img, p.MaxSize)
	default:
		if p.Fraction <= 0 || p.Fraction >= 1 {
			return img
		}
		w := max(1, int(float64(img.Bounds().Dx())*p.Fraction))
		h := max(1, int(float64(img.Bounds().Dy())*p.Fraction))
		return resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
	}
}

// ResizeToFit scales the image down so its longest side is at most maxSize,
// preserving aspect ratio. Images already within the limit are returned
// unchanged.
func ResizeToFit(img image.Image, maxSize int) image.Image {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	longest := max(w, h)
	if maxSize <= 0 || longest <= maxSize {
		return img
	}

	scale := float64(maxSize) / float64(longest)
	newW := max(1, int(float64(w)*scale))
	newH := max(1, int(float64(h)*scale))
	return resize.Resize(uint(newW), uint(newH), img, resize.Lanczos3)
}

// ResizeExact stretches the image to exactly w by h, ignoring aspect ratio.
// Model inputs are square; the mask is stretched back afterwards.
func ResizeExact(img image.Image, w, h int) image.Image {
	if img.Bounds().Dx() == w && img.Bounds().Dy() == h {
		return img
	}
	return resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
}

// ScaleMask resizes a mask to w by h with bilinear interpolation, which
// keeps soft edges smooth without the ringing a sharper kernel introduces.
func ScaleMask(mask *image.Gray, w, h int) *image.Gray {
	if mask.Bounds().Dx() == w && mask.Bounds().Dy() == h {
		return mask
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), mask, mask.Bounds(), draw.Src, nil)
	return dst
}
