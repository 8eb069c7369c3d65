// Package segment computes foreground masks with ONNX segmentation models.
//
// An Engine wraps a pool of onnxruntime sessions for one model from the
// catalog (the u2net family and ISNet). ComputeMask handles preprocessing,
// inference, scaling back to source resolution, and matte refinement. The
// pool bounds concurrent native sessions and sheds idle ones when a memory
// limit is configured.
package segment
