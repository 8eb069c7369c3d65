package imaging

import (
	"image"
	"image/color"

	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/model"
)

// checkerCell is the square size of the transparency checkerboard, in
// pixels.
const checkerCell = 10

// ApplyMask cuts the background out of src by writing the mask into the
// alpha channel. Mask and source must share dimensions; use ScaleMask first
// if they do not.
func ApplyMask(src image.Image, mask *image.Gray) *image.NRGBA {
	n := ToNRGBA(src)
	out := image.NewNRGBA(n.Bounds())
	copy(out.Pix, n.Pix)

	w, h := n.Bounds().Dx(), n.Bounds().Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Pix[out.PixOffset(x, y)+3] = mask.GrayAt(x, y).Y
		}
	}
	return out
}

// CompositeSolid blends the masked foreground over a solid background color.
func CompositeSolid(src image.Image, mask *image.Gray, bg color.NRGBA) *image.NRGBA {
	n := ToNRGBA(src)
	w, h := n.Bounds().Dx(), n.Bounds().Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := uint32(mask.GrayAt(x, y).Y)
			p := n.NRGBAAt(x, y)
			out.SetNRGBA(x, y, color.NRGBA{
				R: uint8((uint32(p.R)*a + uint32(bg.R)*(255-a)) / 255),
				G: uint8((uint32(p.G)*a + uint32(bg.G)*(255-a)) / 255),
				B: uint8((uint32(p.B)*a + uint32(bg.B)*(255-a)) / 255),
				A: 255,
			})
		}
	}
	return out
}

// Checkerboard returns the classic light-gray transparency board.
func Checkerboard(w, h int) *image.NRGBA {
	light := color.NRGBA{R: 240, G: 240, B: 240, A: 255}
	dark := color.NRGBA{R: 200, G: 200, B: 200, A: 255}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/checkerCell+y/checkerCell)%2 == 0 {
				out.SetNRGBA(x, y, light)
			} else {
				out.SetNRGBA(x, y, dark)
			}
		}
	}
	return out
}

// OverCheckerboard blends an image with transparency over a checkerboard,
// the way the preview displays transparent results.
func OverCheckerboard(img image.Image) *image.NRGBA {
	n := ToNRGBA(img)
	w, h := n.Bounds().Dx(), n.Bounds().Dy()
	out := Checkerboard(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := n.NRGBAAt(x, y)
			a := uint32(p.A)
			q := out.NRGBAAt(x, y)
			out.SetNRGBA(x, y, color.NRGBA{
				R: uint8((uint32(p.R)*a + uint32(q.R)*(255-a)) / 255),
				G: uint8((uint32(p.G)*a + uint32(q.G)*(255-a)) / 255),
				B: uint8((uint32(p.B)*a + uint32(q.B)*(255-a)) / 255),
				A: 255,
			})
		}
	}
	return out
}

// RenderArtifact produces the pixels to export for one artifact kind. The
// mask must already match the source dimensions.
func RenderArtifact(src image.Image, mask *image.Gray, kind model.ArtifactKind, style model.BackgroundStyle) image.Image {
	switch kind {
	case model.ArtifactTransparentPNG:
		return ApplyMask(src, mask)
	case model.ArtifactSolidBackgroundPNG:
		return CompositeSolid(src, mask, solidColor(style))
	default:
		return mask
	}
}

// RenderPreview produces the displayable preview for a background style:
// the raw matte, the cutout over a checkerboard, or a solid composite.
func RenderPreview(src image.Image, mask *image.Gray, style model.BackgroundStyle) image.Image {
	switch style {
	case model.BackgroundTransparent:
		return OverCheckerboard(ApplyMask(src, mask))
	case model.BackgroundWhite, model.BackgroundBlack:
		return CompositeSolid(src, mask, solidColor(style))
	default:
		return mask
	}
}

// solidColor maps a background style to its composite color. Styles without
// a solid color fall back to white.
func solidColor(style model.BackgroundStyle) color.NRGBA {
	if style == model.BackgroundBlack {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
}

// MaskCoverage returns the mean foreground opacity of a mask in [0, 1],
// a quick sanity number for previews and logs.
func MaskCoverage(mask *image.Gray) float64 {
	b := mask.Bounds()
	if b.Empty() {
		return 0
	}

	var sum uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			sum += uint64(mask.GrayAt(x, y).Y)
		}
	}
	return float64(sum) / float64(uint64(b.Dx())*uint64(b.Dy())*255)
}
