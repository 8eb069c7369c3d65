package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestProgressWriter_StepThrottle(t *testing.T) {
	var updates []int64
	pw := &ProgressWriter{
		Writer: io.Discard,
		Total:  300,
		Step:   100,
		OnUpdate: func(written, total int64) {
			updates = append(updates, written)
		},
	}

	chunk := make([]byte, 60)
	for i := 0; i < 5; i++ {
		if _, err := pw.Write(chunk); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	// 60 and 180 sit inside a step window; 300 reports as the final byte.
	want := []int64{120, 240, 300}
	if len(updates) != len(want) {
		t.Fatalf("updates = %v, want %v", updates, want)
	}
	for i := range want {
		if updates[i] != want[i] {
			t.Errorf("updates[%d] = %d, want %d", i, updates[i], want[i])
		}
	}
}

func TestProgressWriter_NoStepReportsEveryWrite(t *testing.T) {
	var count int
	pw := &ProgressWriter{
		Writer:   io.Discard,
		OnUpdate: func(written, total int64) { count++ },
	}
	for i := 0; i < 4; i++ {
		if _, err := pw.Write([]byte("abc")); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if count != 4 {
		t.Errorf("OnUpdate fired %d times, want 4", count)
	}
	if pw.Written != 12 {
		t.Errorf("Written = %d, want 12", pw.Written)
	}
}

func TestGetFileSize(t *testing.T) {
	payload := strings.Repeat("x", 4096)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "model.onnx", time.Time{}, strings.NewReader(payload))
	}))
	defer server.Close()

	client := NewClient()
	size, err := client.GetFileSize(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetFileSize() error = %v", err)
	}
	if size != int64(len(payload)) {
		t.Errorf("GetFileSize() = %d, want %d", size, len(payload))
	}
}

func TestDownloadFile(t *testing.T) {
	payload := strings.Repeat("onnx", 1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "model.onnx", time.Time{}, strings.NewReader(payload))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "model.onnx")
	var lastWritten, lastTotal int64
	client := NewClient()
	err := client.DownloadFile(context.Background(), server.URL, dest, func(written, total int64) {
		lastWritten = written
		lastTotal = total
	})
	if err != nil {
		t.Fatalf("DownloadFile() error = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(data) != payload {
		t.Errorf("downloaded %d bytes, want %d", len(data), len(payload))
	}
	if lastWritten != int64(len(payload)) {
		t.Errorf("final progress written = %d, want %d", lastWritten, len(payload))
	}
	if lastTotal != int64(len(payload)) {
		t.Errorf("progress total = %d, want %d", lastTotal, len(payload))
	}
	if _, err := os.Stat(dest + ".partial"); !os.IsNotExist(err) {
		t.Error("temporary file left behind after successful download")
	}
}

func TestDownloadFile_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "model.onnx")
	client := NewClient()
	if err := client.DownloadFile(context.Background(), server.URL, dest, nil); err == nil {
		t.Fatal("DownloadFile() error = nil, want HTTP status error")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("destination file created despite HTTP error")
	}
}

func TestDownloadFile_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("partial"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dest := filepath.Join(t.TempDir(), "model.onnx")
	client := NewClient()
	if err := client.DownloadFile(ctx, server.URL, dest, nil); err == nil {
		t.Fatal("DownloadFile() error = nil, want context error")
	}
}
