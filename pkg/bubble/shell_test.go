package bubble

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ha1tch/f1-bubbles/pkg/config"
	"github.com/ha1tch/f1-bubbles/pkg/viewport"
)

type recordingSink struct {
	mu        sync.Mutex
	presented []*Result
	skipped   []error
}

func (s *recordingSink) Present(r *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presented = append(s.presented, r)
}

func (s *recordingSink) Skip(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipped = append(s.skipped, err)
}

func (s *recordingSink) snapshot() ([]*Result, []error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Result(nil), s.presented...), append([]error(nil), s.skipped...)
}

func shellConfig(debounce time.Duration) config.Config {
	cfg := config.Default()
	cfg.Shell.Debounce = debounce
	return cfg
}

func TestShellDebouncesResizeBursts(t *testing.T) {
	sink := &recordingSink{}
	shell := NewShell(New(shellConfig(50*time.Millisecond)), sink, grid(10), nil)
	defer shell.Close()

	for w := 1300.0; w <= 1400; w += 20 {
		shell.Resize(viewport.Size{Width: w, Height: 700})
	}
	time.Sleep(250 * time.Millisecond)
	shell.Wait()

	presented, skipped := sink.snapshot()
	if len(skipped) != 0 {
		t.Errorf("unexpected skips: %v", skipped)
	}
	if len(presented) != 1 {
		t.Fatalf("presented %d results, want 1 for one burst", len(presented))
	}
	if got := presented[0].Params.Outer.Width; got != 1400 {
		t.Errorf("presented width %v, want the last size 1400", got)
	}
}

func TestShellSkipsUnreadySurface(t *testing.T) {
	sink := &recordingSink{}
	shell := NewShell(New(shellConfig(0)), sink, grid(3), nil)
	defer shell.Close()

	shell.Resize(viewport.Size{Width: 0, Height: 700})
	shell.Wait()

	presented, skipped := sink.snapshot()
	if len(presented) != 0 {
		t.Errorf("presented %d results for a zero-width surface", len(presented))
	}
	if len(skipped) != 1 || !errors.Is(skipped[0], viewport.ErrNotReady) {
		t.Errorf("skipped = %v, want one ErrNotReady", skipped)
	}
}

func TestShellLatestSizeWins(t *testing.T) {
	sink := &recordingSink{}
	shell := NewShell(New(shellConfig(0)), sink, grid(40), nil)
	defer shell.Close()

	shell.Refresh(viewport.Size{Width: 1300, Height: 700})
	shell.Refresh(viewport.Size{Width: 1000, Height: 600})
	shell.Wait()

	presented, _ := sink.snapshot()
	if len(presented) == 0 || len(presented) > 2 {
		t.Fatalf("presented %d results", len(presented))
	}
	if last := presented[len(presented)-1]; last.Params.Outer.Width != 1000 {
		t.Errorf("last presented width %v, want 1000", last.Params.Outer.Width)
	}
}

func TestShellClose(t *testing.T) {
	sink := &recordingSink{}
	shell := NewShell(New(shellConfig(0)), sink, grid(3), nil)
	shell.Close()

	shell.Refresh(desktopSize)
	shell.Resize(desktopSize)
	shell.Wait()

	presented, skipped := sink.snapshot()
	if len(presented)+len(skipped) != 0 {
		t.Errorf("closed shell delivered %d results and %d skips", len(presented), len(skipped))
	}
}

func TestShellSetData(t *testing.T) {
	sink := &recordingSink{}
	shell := NewShell(New(shellConfig(0)), sink, grid(3), nil)
	defer shell.Close()

	shell.SetData(grid(6), nil)
	shell.Refresh(desktopSize)
	shell.Wait()

	presented, _ := sink.snapshot()
	if len(presented) != 1 || len(presented[0].Shapes) != 10 {
		t.Fatalf("presented %d results", len(presented))
	}
}
