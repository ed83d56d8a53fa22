package bubble

import (
	"context"
	"errors"
	"sync"

	"github.com/bep/debounce"

	"github.com/ha1tch/f1-bubbles/pkg/label"
	"github.com/ha1tch/f1-bubbles/pkg/pilot"
	"github.com/ha1tch/f1-bubbles/pkg/viewport"
)

// Sink receives the outcome of layout passes started by a Shell.
type Sink interface {
	Present(*Result)
	Skip(error)
}

// Shell owns the layout lifecycle of one surface. Resize bursts are
// debounced; every accepted size cancels the pass in flight before a new
// one starts, and a cancelled pass never reaches the sink.
type Shell struct {
	chart    *Chart
	sink     Sink
	debounce func(func())

	root     context.Context
	stopRoot context.CancelFunc

	mu     sync.Mutex
	pilots []pilot.Pilot
	labels []label.Request
	cancel context.CancelFunc
	gen    uint64
	closed bool

	deliver sync.Mutex
	wg      sync.WaitGroup
}

// NewShell creates a shell using the chart's configured debounce delay.
func NewShell(chart *Chart, sink Sink, pilots []pilot.Pilot, labels []label.Request) *Shell {
	root, stop := context.WithCancel(context.Background())
	s := &Shell{
		chart:    chart,
		sink:     sink,
		root:     root,
		stopRoot: stop,
		pilots:   pilots,
		labels:   labels,
	}
	if d := chart.cfg.Shell.Debounce; d > 0 {
		s.debounce = debounce.New(d)
	} else {
		s.debounce = func(f func()) { f() }
	}
	return s
}

// Resize schedules a pass for the new surface size.
func (s *Shell) Resize(size viewport.Size) {
	s.debounce(func() { s.start(size) })
}

// Refresh starts a pass immediately, bypassing the debounce.
func (s *Shell) Refresh(size viewport.Size) {
	s.start(size)
}

// SetData replaces the pilots and labels used by subsequent passes.
func (s *Shell) SetData(pilots []pilot.Pilot, labels []label.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pilots = pilots
	s.labels = labels
}

// Wait blocks until every started pass has finished.
func (s *Shell) Wait() {
	s.wg.Wait()
}

// Close cancels the pass in flight and waits for it. Later resizes are
// ignored.
func (s *Shell) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.stopRoot()
	s.wg.Wait()
}

func (s *Shell) start(size viewport.Size) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(s.root)
	s.cancel = cancel
	s.gen++
	gen := s.gen
	pilots, labels := s.pilots, s.labels
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer cancel()

		res, err := s.chart.Layout(ctx, size, pilots, labels)
		if errors.Is(err, context.Canceled) {
			return
		}

		s.deliver.Lock()
		defer s.deliver.Unlock()
		if !s.current(gen) {
			return
		}
		if err != nil {
			s.sink.Skip(err)
			return
		}
		s.sink.Present(res)
	}()
}

func (s *Shell) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && gen == s.gen
}
