// Package batch runs background removal over many images with a bounded
// worker pool.
//
// A Runner snapshots its export configuration up front, so settings changed
// mid-run never affect images already queued. Per-image failures are
// recorded and reported; they never abort the rest of the batch.
// Cancelling the context stops dispatching new images while letting
// in-flight ones finish, and the Summary reflects the partial run.
package batch
