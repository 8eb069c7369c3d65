// Package imaging handles the pixel work around segmentation: decoding the
// supported input formats, EXIF orientation round trips, the processing
// resize policy, mask application and background compositing, and PNG
// export.
//
// # Loading and Orientation
//
// LoadUpright decodes an image and rotates it upright per its EXIF
// orientation tag, returning the original orientation so exports can put it
// back:
//
//	src, orient, err := imaging.LoadUpright("/data/shoot/IMG_0001.jpg")
//	// ... segment the upright pixels ...
//	out := imaging.RestoreOrientation(rendered, orient)
//
// Supported formats: JPEG, PNG, BMP, TIFF, and WebP. Outputs are always
// PNG, written with SavePNG.
//
// # Resizing
//
// ResizePolicy scales images down before inference, either to a fraction of
// the original size or to fit a pixel bound:
//
//	policy := imaging.ResizePolicy{Enabled: true, Mode: imaging.ResizeFraction, Fraction: 0.5}
//	work := policy.Apply(src)
//
// ScaleMask brings a model-resolution mask back up to the working size.
//
// # Compositing
//
// RenderArtifact turns a source image and its mask into one export
// artifact; RenderPreview does the same for the on-screen preview,
// substituting a checkerboard where an export would be transparent:
//
//	cutout := imaging.RenderArtifact(src, mask, model.ArtifactTransparentPNG, style)
//	onWhite := imaging.RenderArtifact(src, mask, model.ArtifactCompositePNG, model.BackgroundWhite)
package imaging
