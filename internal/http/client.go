package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Client wraps HTTP operations for fetching segmentation model files.
//
// Client provides:
//   - Timeout handling sized for multi-hundred-megabyte model downloads
//   - File download with progress tracking
//   - File size retrieval via HEAD requests
//
// Example usage:
//
//	client := NewClient()
//	err := client.DownloadFile(ctx, modelURL, "/models/u2netp.onnx", func(written, total int64) {
//	    percent := float64(written) / float64(total) * 100
//	    fmt.Printf("%.1f%%\n", percent)
//	})
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client for model downloads.
//
// The client has no overall timeout; large models on slow links take
// minutes, so cancellation is left to the request context.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: 60 * time.Second,
			},
		},
		userAgent: "bgremove",
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes. With a
// positive Step the callback only fires after at least Step bytes have
// accumulated since the previous report, plus once at the end when Total
// is known; model files run to hundreds of megabytes, and a terminal
// redrawing on every copy chunk wastes more time than the writes.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// Step is the minimum byte distance between OnUpdate calls.
	// Zero reports every write.
	Step int64

	// OnUpdate is called with current progress.
	// Parameters are (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)

	lastReport int64
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil && pw.shouldReport() {
		pw.lastReport = pw.Written
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

func (pw *ProgressWriter) shouldReport() bool {
	if pw.Step <= 0 {
		return true
	}
	if pw.Total > 0 && pw.Written >= pw.Total {
		return true
	}
	return pw.Written-pw.lastReport >= pw.Step
}

// GetFileSize returns the size of a file at the given URL via HEAD request.
//
// Returns an error if:
//   - The request fails or the response status is not 200 OK
//   - The server doesn't return a Content-Length header
func (c *Client) GetFileSize(ctx context.Context, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("no Content-Length header for %s", url)
	}

	return resp.ContentLength, nil
}

// progressStep spaces out download progress callbacks: four updates per
// megabyte is smooth on a redrawn terminal line without dominating the
// copy loop.
const progressStep = 256 << 10

// DownloadFile downloads a file to the specified path with optional progress
// callback.
//
// The content is streamed to a temporary file next to destPath and renamed
// into place on success, so an interrupted download never leaves a
// truncated file behind.
//
// Parameters:
//   - ctx: Context for cancellation
//   - url: URL to download from
//   - destPath: Local file path to save to
//   - onProgress: Optional callback called with (bytesWritten, totalBytes)
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	tmpPath := destPath + ".partial"
	file, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    resp.ContentLength,
			Step:     progressStep,
			OnUpdate: onProgress,
		}
	}

	if _, err = io.Copy(writer, resp.Body); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, destPath)
}
