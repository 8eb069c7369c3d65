// Package http provides an HTTP client configured for downloading
// segmentation model files.
//
// The Client in this package handles:
//   - User-Agent headers
//   - File downloads with progress tracking
//   - File size retrieval via HEAD requests
//   - Atomic downloads via a temporary file renamed into place
//
// # Basic Usage
//
//	client := http.NewClient()
//
//	// Download a model with a progress callback
//	err := client.DownloadFile(ctx, modelURL, "/models/u2netp.onnx", func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress
// tracking. A Step spaces out the callbacks on large payloads:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    Step:     1 << 20, // report at most once per MiB
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
