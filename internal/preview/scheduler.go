package preview

import (
	"context"
	"image"
	"io"
	"sync"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"

	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/imaging"
	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/model"
	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/segment"
)

// DefaultDebounce is the settle time before a parameter change triggers a
// recompute.
const DefaultDebounce = 500 * time.Millisecond

// DefaultMaxSide caps the preview working resolution. Masks preview fine
// well below export resolution, and small inputs keep the UI responsive.
const DefaultMaxSide = 800

// State is the scheduler's lifecycle position for the selected image.
type State int

const (
	// StateIdle means no preview has been requested yet.
	StateIdle State = iota

	// StatePending means a request is waiting out the debounce window.
	StatePending

	// StateComputing means an inference is in flight.
	StateComputing

	// StateDisplayed means the latest request has been delivered.
	StateDisplayed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateComputing:
		return "computing"
	case StateDisplayed:
		return "displayed"
	default:
		return "idle"
	}
}

// Params are the knobs that affect preview pixels. Changing any of them
// warrants a recompute; presentation toggles like side-by-side do not
// belong here.
type Params struct {
	Matte   segment.MatteOptions
	Style   model.BackgroundStyle
	MaxSide int
}

// DefaultParams mirrors the initial UI state: raw matte view, default
// thresholds.
func DefaultParams() Params {
	return Params{
		Matte:   segment.DefaultMatteOptions(),
		Style:   model.BackgroundAlphaMatte,
		MaxSide: DefaultMaxSide,
	}
}

// Result is one delivered preview.
type Result struct {
	Image    model.SourceImage
	Source   image.Image // upright source at working resolution
	Mask     *image.Gray
	Rendered image.Image // mask composited per the requested style
	Style    model.BackgroundStyle
	Token    string
	Elapsed  time.Duration
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDebounce overrides the settle window.
func WithDebounce(d time.Duration) Option {
	return func(s *Scheduler) { s.debounce = d }
}

// WithLogger routes scheduler diagnostics to log.
func WithLogger(log *logrus.Logger) Option {
	return func(s *Scheduler) { s.log = log }
}

// WithResultHandler sets the delivery callback. It runs on the compute
// goroutine; handlers that feed a UI should hand off quickly.
func WithResultHandler(fn func(Result)) Option {
	return func(s *Scheduler) { s.onResult = fn }
}

// WithErrorHandler sets the failure callback. Cancelled computations are
// not reported.
func WithErrorHandler(fn func(model.SourceImage, error)) Option {
	return func(s *Scheduler) { s.onError = fn }
}

// Scheduler debounces and runs preview computations for one selected image.
// All methods are safe for concurrent use.
type Scheduler struct {
	engine   segment.Engine
	debounce time.Duration
	log      *logrus.Logger
	onResult func(Result)
	onError  func(model.SourceImage, error)

	mu         sync.Mutex
	state      State
	params     Params
	current    model.SourceImage
	hasImage   bool
	sideBySide bool
	token      string
	timer      *time.Timer
	cancel     context.CancelFunc
	inflight   chan struct{}
	closed     bool

	cachePath string
	cacheImg  image.Image

	wg sync.WaitGroup
}

// NewScheduler wires a scheduler to an inference engine.
func NewScheduler(engine segment.Engine, opts ...Option) *Scheduler {
	s := &Scheduler{
		engine:   engine,
		debounce: DefaultDebounce,
		params:   DefaultParams(),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logrus.New()
		s.log.SetOutput(io.Discard)
	}
	return s
}

// Select switches the previewed image and computes immediately, skipping
// the debounce. Re-selecting the current image is a no-op; any in-flight
// computation for the previous image becomes stale.
func (s *Scheduler) Select(img model.SourceImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.hasImage && s.current.Path == img.Path {
		return
	}
	s.current = img
	s.hasImage = true
	s.stopTimerLocked()
	s.startComputeLocked(ksuid.New().String())
}

// SetParams stores new computation parameters and, if an image is
// selected, schedules a debounced recompute. Each call restarts the
// window, so a burst of changes costs a single inference.
func (s *Scheduler) SetParams(p Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if p.MaxSide <= 0 {
		p.MaxSide = DefaultMaxSide
	}
	s.params = p
	if !s.hasImage {
		return
	}
	s.scheduleLocked()
}

// Params returns the current computation parameters.
func (s *Scheduler) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// SetSideBySide toggles the split view. Purely presentational: it never
// invalidates a token or triggers a recompute.
func (s *Scheduler) SetSideBySide(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sideBySide = on
}

// SideBySide reports whether the split view is on.
func (s *Scheduler) SideBySide() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sideBySide
}

// State reports the scheduler's current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close cancels any pending timer and in-flight computation and waits for
// the compute goroutine to exit. No callbacks run after Close returns.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopTimerLocked()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// scheduleLocked restarts the debounce window for the current image. The
// fresh token makes any in-flight result stale on arrival.
func (s *Scheduler) scheduleLocked() {
	s.state = StatePending
	tok := ksuid.New().String()
	s.token = tok
	s.stopTimerLocked()
	s.timer = time.AfterFunc(s.debounce, func() { s.fire(tok) })
}

func (s *Scheduler) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// fire runs when a debounce window elapses. A token mismatch means the
// window was restarted or superseded after this timer was armed.
func (s *Scheduler) fire(tok string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || tok != s.token {
		return
	}
	s.startComputeLocked(tok)
}

func (s *Scheduler) startComputeLocked(tok string) {
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.token = tok
	s.state = StateComputing

	prev := s.inflight
	done := make(chan struct{})
	s.inflight = done

	img := s.current
	p := s.params
	s.wg.Add(1)
	go s.compute(ctx, prev, done, img, p, tok)
}

func (s *Scheduler) compute(ctx context.Context, prev, done chan struct{}, img model.SourceImage, p Params, tok string) {
	defer s.wg.Done()
	defer close(done)

	// The superseded computation was cancelled just before this one
	// started; wait for it to unwind so engine calls stay strictly serial.
	if prev != nil {
		<-prev
	}
	start := time.Now()

	src, err := s.loadSource(img)
	if err != nil {
		s.deliverError(tok, img, err)
		return
	}
	work := imaging.ResizeToFit(src, p.MaxSide)

	mask, err := s.engine.ComputeMask(ctx, work, p.Matte)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.deliverError(tok, img, err)
		return
	}

	s.deliver(tok, Result{
		Image:    img,
		Source:   work,
		Mask:     mask,
		Rendered: imaging.RenderPreview(work, mask, p.Style),
		Style:    p.Style,
		Token:    tok,
		Elapsed:  time.Since(start),
	})
}

// loadSource decodes and uprights the image, with a one-entry cache so
// slider drags on the same image decode once.
func (s *Scheduler) loadSource(img model.SourceImage) (image.Image, error) {
	s.mu.Lock()
	if s.cachePath == img.Path && s.cacheImg != nil {
		cached := s.cacheImg
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	src, _, err := imaging.LoadUpright(img.Path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cachePath = img.Path
	s.cacheImg = src
	s.mu.Unlock()
	return src, nil
}

func (s *Scheduler) deliver(tok string, r Result) {
	s.mu.Lock()
	if s.closed || tok != s.token {
		stale := s.token
		s.mu.Unlock()
		s.log.WithFields(logrus.Fields{
			"image":   r.Image.Name,
			"token":   tok,
			"current": stale,
		}).Debug("discarding stale preview")
		return
	}
	s.state = StateDisplayed
	cb := s.onResult
	s.mu.Unlock()

	if cb != nil {
		cb(r)
	}
}

func (s *Scheduler) deliverError(tok string, img model.SourceImage, err error) {
	s.mu.Lock()
	if s.closed || tok != s.token {
		s.mu.Unlock()
		return
	}
	s.state = StateIdle
	cb := s.onError
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"image": img.Name}).WithError(err).Debug("preview failed")
	if cb != nil {
		cb(img, err)
	}
}
