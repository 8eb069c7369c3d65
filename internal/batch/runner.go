package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/imaging"
	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/model"
	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/paths"
	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/segment"
)

// DefaultDelay is the pause between dispatching images, giving the
// inference backend breathing room between heavy calls.
const DefaultDelay = 100 * time.Millisecond

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a batch progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
	Image   string // source image name; empty for run-level messages
}

// ItemError records one failed image.
type ItemError struct {
	Image model.SourceImage
	Err   error
}

// Summary reports the outcome of one batch run. Every image lands in
// exactly one of Succeeded, Failed, Skipped, or Cancelled.
type Summary struct {
	RunID            string
	Model            string
	Total            int
	Succeeded        int
	Failed           int
	Skipped          int
	Cancelled        int // never dispatched: the run was interrupted first
	ArtifactsWritten int
	Interrupted      bool
	DryRun           bool
	Elapsed          time.Duration
	Errors           []ItemError
}

// Options configures a batch run. The export config is validated and
// snapshotted when the Runner is created.
type Options struct {
	Export  model.ExportConfig
	Matte   segment.MatteOptions
	Resize  imaging.ResizePolicy
	Workers int           // concurrent images, minimum 1
	Delay   time.Duration // pause between dispatches
	DryRun  bool          // resolve and report without writing
	Log     *logrus.Logger
}

// Runner processes a set of images against one configuration snapshot.
type Runner struct {
	engine   segment.Engine
	resolver *paths.Resolver
	opts     Options
	log      *logrus.Logger

	total     int32
	processed int32

	onProgress func(ProgressEvent)
}

// NewRunner validates the options and prepares a runner bound to engine.
// A nil engine is allowed for dry runs, which never infer. Progress events
// are delivered through onProgress, possibly from several goroutines at
// once; nil disables them.
//
// Returns an error wrapping model.ErrConfiguration if the export config or
// matte thresholds are invalid, or if engine is nil outside a dry run.
func NewRunner(engine segment.Engine, opts Options, onProgress func(ProgressEvent)) (*Runner, error) {
	resolver, err := paths.NewResolver(opts.Export)
	if err != nil {
		return nil, err
	}
	if err := opts.Matte.Validate(); err != nil {
		return nil, err
	}
	if engine == nil && !opts.DryRun {
		return nil, fmt.Errorf("%w: a segmentation engine is required outside dry runs", model.ErrConfiguration)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	log := opts.Log
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}

	return &Runner{
		engine:     engine,
		resolver:   resolver,
		opts:       opts,
		log:        log,
		onProgress: onProgress,
	}, nil
}

// Run processes images and returns a summary. Per-image failures are
// recorded in the summary and do not stop the run. Cancelling ctx stops
// dispatching; images already being processed finish and their outputs
// are written, while images never dispatched count as cancelled.
func (r *Runner) Run(ctx context.Context, images []model.SourceImage) (*Summary, error) {
	start := time.Now()
	sum := &Summary{
		RunID:  ksuid.New().String(),
		Total:  len(images),
		DryRun: r.opts.DryRun,
	}
	if r.engine != nil {
		sum.Model = r.engine.ModelName()
	}

	if len(images) == 0 {
		r.progress(ProgressEvent{Message: "No images to process", Level: LevelWarning})
		return sum, nil
	}

	atomic.StoreInt32(&r.total, int32(len(images)))
	atomic.StoreInt32(&r.processed, 0)
	label := fmt.Sprintf("Processing %d images with %s (%d workers)", len(images), sum.Model, r.opts.Workers)
	if r.opts.DryRun {
		label = fmt.Sprintf("Dry run: resolving outputs for %d images", len(images))
	}
	r.progress(ProgressEvent{Message: label, Level: LevelInfo})
	r.log.WithFields(logrus.Fields{
		"run":     sum.RunID,
		"images":  len(images),
		"model":   sum.Model,
		"workers": r.opts.Workers,
		"dryRun":  sum.DryRun,
	}).Info("batch started")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)

	// In-flight images finish even after cancellation; only dispatch stops.
	workCtx := context.WithoutCancel(ctx)

	var mu sync.Mutex
	for i, img := range images {
		if gctx.Err() != nil {
			sum.Cancelled = len(images) - i
			break
		}

		img := img // capture
		g.Go(func() error {
			out := r.processOne(workCtx, img)
			mu.Lock()
			switch {
			case out.err != nil:
				sum.Failed++
				sum.Errors = append(sum.Errors, ItemError{Image: img, Err: out.err})
			case out.skipped:
				sum.Skipped++
			default:
				sum.Succeeded++
				sum.ArtifactsWritten += out.written
			}
			mu.Unlock()
			atomic.AddInt32(&r.processed, 1)
			return nil // keep going after per-image failures
		})

		if r.opts.Delay > 0 && i < len(images)-1 {
			select {
			case <-gctx.Done():
			case <-time.After(r.opts.Delay):
			}
		}
	}

	g.Wait()
	if ctx.Err() != nil {
		sum.Interrupted = true
	}
	sum.Elapsed = time.Since(start)

	r.reportOutcome(sum)
	return sum, nil
}

// GetProgress returns how many images have finished out of the total.
func (r *Runner) GetProgress() (processed, total int32) {
	return atomic.LoadInt32(&r.processed), atomic.LoadInt32(&r.total)
}

type itemOutcome struct {
	written int
	skipped bool
	err     error
}

func (r *Runner) processOne(ctx context.Context, img model.SourceImage) itemOutcome {
	arts, err := r.resolver.ResolveAll(img)
	if err != nil {
		return r.fail(img, err)
	}

	// Without overwrite, only the missing artifacts are produced. An image
	// whose outputs all exist skips inference entirely.
	pending := arts
	if !r.opts.Export.Overwrite {
		pending = make([]paths.Artifact, 0, len(arts))
		for _, a := range arts {
			if _, err := os.Stat(a.Path); err == nil {
				continue
			}
			pending = append(pending, a)
		}
		if len(pending) == 0 {
			r.progress(ProgressEvent{
				Message: fmt.Sprintf("Skipping existing: %s", img.Name),
				Level:   LevelVerbose,
				Image:   img.Name,
			})
			return itemOutcome{skipped: true}
		}
	}

	if r.opts.DryRun {
		for _, a := range pending {
			r.progress(ProgressEvent{
				Message: fmt.Sprintf("Would write %s", a.Path),
				Level:   LevelVerbose,
				Image:   img.Name,
			})
		}
		return itemOutcome{written: len(pending)}
	}

	if _, err := r.resolver.EnsureOutputDir(img); err != nil {
		return r.fail(img, err)
	}

	src, orient, err := imaging.LoadUpright(img.Path)
	if err != nil {
		return r.fail(img, err)
	}
	work := r.opts.Resize.Apply(src)

	mask, err := r.engine.ComputeMask(ctx, work, r.opts.Matte)
	if err != nil {
		return r.fail(img, err)
	}

	written := 0
	for _, a := range pending {
		rendered := imaging.RenderArtifact(work, mask, a.Kind, r.opts.Export.Background)
		rendered = imaging.RestoreOrientation(rendered, orient)
		if a.Kind == model.ArtifactAlphaMask {
			rendered = imaging.ToGray(rendered)
		}
		if err := imaging.SavePNG(a.Path, rendered); err != nil {
			return r.fail(img, err)
		}
		written++
		r.progress(ProgressEvent{
			Message: fmt.Sprintf("Wrote: %s", a.Path),
			Level:   LevelVerbose,
			Image:   img.Name,
		})
	}

	r.progress(ProgressEvent{
		Message: fmt.Sprintf("Processed: %s (%d artifacts)", img.Name, written),
		Level:   LevelVerbose,
		Image:   img.Name,
	})
	return itemOutcome{written: written}
}

func (r *Runner) fail(img model.SourceImage, err error) itemOutcome {
	r.progress(ProgressEvent{
		Message: fmt.Sprintf("Error processing %s: %v", img.Name, err),
		Level:   LevelError,
		Image:   img.Name,
	})
	r.log.WithField("image", img.Name).WithError(err).Warn("image failed")
	return itemOutcome{err: err}
}

func (r *Runner) reportOutcome(sum *Summary) {
	switch {
	case sum.Interrupted:
		r.progress(ProgressEvent{
			Message: fmt.Sprintf("Cancelled after %d of %d images (%d never started)", sum.Succeeded+sum.Failed+sum.Skipped, sum.Total, sum.Cancelled),
			Level:   LevelWarning,
		})
	case sum.Failed > 0:
		r.progress(ProgressEvent{
			Message: fmt.Sprintf("Finished with %d of %d images failed", sum.Failed, sum.Total),
			Level:   LevelWarning,
		})
	case sum.DryRun:
		r.progress(ProgressEvent{
			Message: fmt.Sprintf("Dry run: %d artifacts planned for %d images", sum.ArtifactsWritten, sum.Total),
			Level:   LevelSuccess,
		})
	default:
		r.progress(ProgressEvent{
			Message: fmt.Sprintf("Successfully processed %d images (%d artifacts)", sum.Succeeded, sum.ArtifactsWritten),
			Level:   LevelSuccess,
		})
	}

	r.log.WithFields(logrus.Fields{
		"run":       sum.RunID,
		"succeeded": sum.Succeeded,
		"failed":    sum.Failed,
		"skipped":   sum.Skipped,
		"cancelled": sum.Cancelled,
		"artifacts": sum.ArtifactsWritten,
		"elapsed":   sum.Elapsed.Round(time.Millisecond),
	}).Info("batch finished")
}

func (r *Runner) progress(event ProgressEvent) {
	if r.onProgress != nil {
		r.onProgress(event)
	}
}
