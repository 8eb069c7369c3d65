package segment

import (
	"context"
	"errors"
	"sync"
)

// sessionPool bounds the number of live onnxruntime sessions for one model.
// The first session is created up front so a broken model file fails fast;
// the rest are created on demand up to size. Sessions are native-memory
// heavy, so recycle can shed idle ones between batches.
type sessionPool struct {
	modelPath string
	spec      ModelSpec
	threads   int
	size      int

	mu      sync.Mutex
	closed  bool
	created int
	idle    chan *ortSession
}

func newSessionPool(modelPath string, spec ModelSpec, size, threads int) (*sessionPool, error) {
	if size < 1 {
		size = 1
	}
	p := &sessionPool{
		modelPath: modelPath,
		spec:      spec,
		threads:   threads,
		size:      size,
		idle:      make(chan *ortSession, size),
	}
	s, err := newORTSession(modelPath, spec, threads)
	if err != nil {
		return nil, err
	}
	p.created = 1
	p.idle <- s
	return p, nil
}

func (p *sessionPool) acquire(ctx context.Context) (*ortSession, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrEngineClosed
	}
	select {
	case s := <-p.idle:
		p.mu.Unlock()
		return s, nil
	default:
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()
		s, err := newORTSession(p.modelPath, p.spec, p.threads)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}
		return s, nil
	}
	p.mu.Unlock()

	select {
	case s, ok := <-p.idle:
		if !ok {
			return nil, ErrEngineClosed
		}
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *sessionPool) release(s *ortSession) {
	if s == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		s.close()
		return
	}
	select {
	case p.idle <- s:
	default:
		p.created--
		s.close()
	}
}

// recycle closes idle sessions so their native memory returns to the
// runtime. Busy sessions keep running; replacements are created on demand.
func (p *sessionPool) recycle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0
	}
	n := 0
	for {
		select {
		case s := <-p.idle:
			s.close()
			p.created--
			n++
		default:
			return n
		}
	}
}

func (p *sessionPool) close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.idle)
	p.mu.Unlock()

	var errs []error
	for s := range p.idle {
		if err := s.close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
