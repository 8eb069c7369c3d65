package segment

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/imaging"
	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/model"
)

// DefaultModelsDir returns the directory models are expected in,
// ~/.u2net, the same location the original downloaders use.
func DefaultModelsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".u2net"
	}
	return filepath.Join(home, ".u2net")
}

// Option configures an ONNXEngine.
type Option func(*engineOptions)

type engineOptions struct {
	modelsDir     string
	poolSize      int
	threads       int
	memoryLimitMB int
	log           *logrus.Logger
}

// WithModelsDir sets the directory containing .onnx files.
func WithModelsDir(dir string) Option {
	return func(o *engineOptions) { o.modelsDir = dir }
}

// WithPoolSize caps concurrent inference sessions. Defaults to 1; the
// batch runner raises it to its worker count.
func WithPoolSize(n int) Option {
	return func(o *engineOptions) { o.poolSize = n }
}

// WithThreads pins the intra- and inter-op thread counts of each session.
// Zero leaves onnxruntime's defaults in place.
func WithThreads(n int) Option {
	return func(o *engineOptions) { o.threads = n }
}

// WithMemoryLimit makes the engine shed idle sessions after an inference
// whenever the Go heap exceeds mb megabytes. Zero disables the check.
func WithMemoryLimit(mb int) Option {
	return func(o *engineOptions) { o.memoryLimitMB = mb }
}

// WithLogger routes engine diagnostics to log.
func WithLogger(log *logrus.Logger) Option {
	return func(o *engineOptions) { o.log = log }
}

// ONNXEngine runs a segmentation model through onnxruntime. It is safe for
// concurrent use; parallelism is bounded by the session pool.
type ONNXEngine struct {
	spec          ModelSpec
	pool          *sessionPool
	memoryLimitMB int
	log           *logrus.Logger
}

// New loads the named model from the models directory and prepares an
// inference pool for it.
//
// Returns an error if:
//   - the model name is not in the catalog (wraps model.ErrConfiguration)
//   - the .onnx file is missing (wraps ErrModelNotFound)
//   - onnxruntime cannot load the model
func New(modelName string, opts ...Option) (*ONNXEngine, error) {
	spec, err := LookupModel(modelName)
	if err != nil {
		return nil, err
	}

	o := engineOptions{
		modelsDir: DefaultModelsDir(),
		poolSize:  1,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logrus.New()
		o.log.SetOutput(io.Discard)
	}

	path := filepath.Join(o.modelsDir, spec.File)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, path)
	}

	pool, err := newSessionPool(path, spec, o.poolSize, o.threads)
	if err != nil {
		return nil, fmt.Errorf("%w: loading %s: %v", model.ErrInference, spec.Name, err)
	}

	o.log.WithFields(logrus.Fields{
		"model": spec.Name,
		"side":  spec.Side,
		"pool":  o.poolSize,
	}).Debug("segmentation engine ready")

	return &ONNXEngine{
		spec:          spec,
		pool:          pool,
		memoryLimitMB: o.memoryLimitMB,
		log:           o.log,
	}, nil
}

// ComputeMask segments img and returns a refined mask matching its
// dimensions. The context cancels waiting for a free session and is
// checked again before the model runs.
func (e *ONNXEngine) ComputeMask(ctx context.Context, img image.Image, opts MatteOptions) (*image.Gray, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	s, err := e.pool.acquire(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	raw, err := s.infer(ctx, img)
	e.pool.release(s)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", model.ErrInference, err)
	}

	b := img.Bounds()
	mask := imaging.ScaleMask(raw, b.Dx(), b.Dy())
	mask = Refine(mask, opts)

	e.log.WithFields(logrus.Fields{
		"model":   e.spec.Name,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("mask computed")

	e.maybeRecycle()
	return mask, nil
}

// ModelName identifies the loaded model.
func (e *ONNXEngine) ModelName() string { return e.spec.Name }

// Close tears down the session pool. In-flight inferences finish; their
// sessions are closed on release.
func (e *ONNXEngine) Close() error { return e.pool.close() }

// maybeRecycle sheds idle sessions when the heap passes the configured
// limit. Session native memory is only reclaimed on destroy, so long
// batches on large models creep without this.
func (e *ONNXEngine) maybeRecycle() {
	if e.memoryLimitMB <= 0 {
		return
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	if ms.HeapAlloc <= uint64(e.memoryLimitMB)<<20 {
		return
	}
	if n := e.pool.recycle(); n > 0 {
		runtime.GC()
		e.log.WithFields(logrus.Fields{
			"sessions":  n,
			"heapAlloc": ms.HeapAlloc >> 20,
			"limitMB":   e.memoryLimitMB,
		}).Debug("recycled idle sessions")
	}
}

var _ Engine = (*ONNXEngine)(nil)
