package segment

import (
	"image"
	"image/color"
)

// Refine applies MatteOptions to a raw model mask. The input is not
// modified; when no refinement is enabled the input is returned as is.
func Refine(mask *image.Gray, opts MatteOptions) *image.Gray {
	out := mask
	if opts.AlphaMatting {
		out = clampMatte(out, opts.ForegroundThreshold, opts.BackgroundThreshold)
	}
	if opts.PostProcess {
		out = blur3(out)
	}
	return out
}

// clampMatte forces confident pixels to the extremes and stretches the
// uncertain band across the full range, the trimap treatment the original
// tool applies when alpha matting is on.
func clampMatte(mask *image.Gray, fg, bg uint8) *image.Gray {
	b := mask.Bounds()
	out := image.NewGray(b)
	span := int(fg) - int(bg)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := mask.GrayAt(x, y).Y
			var r uint8
			switch {
			case v >= fg:
				r = 255
			case v <= bg:
				r = 0
			default:
				r = uint8((int(v) - int(bg)) * 255 / span)
			}
			out.SetGray(x, y, color.Gray{Y: r})
		}
	}
	return out
}

// blur3 runs a single 3x3 box blur with clamped edges. Enough to knock the
// staircase off model-resolution masks without eating thin structures.
func blur3(mask *image.Gray) *image.Gray {
	b := mask.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var sum, n int
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					sx, sy := x+dx, y+dy
					if sx < b.Min.X || sx >= b.Max.X || sy < b.Min.Y || sy >= b.Max.Y {
						continue
					}
					sum += int(mask.GrayAt(sx, sy).Y)
					n++
				}
			}
			out.SetGray(x, y, color.Gray{Y: uint8(sum / n)})
		}
	}
	return out
}
