package workout

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tailscale.com/tstime"
)

type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (f *fakeTicker) Reset(time.Duration) {}
func (f *fakeTicker) Stop()               { f.stopped.Store(true) }

// fire offers one tick, reporting false if nothing received it.
func (f *fakeTicker) fire() bool {
	select {
	case f.ch <- time.Now():
		return true
	case <-time.After(50 * time.Millisecond):
		return false
	}
}

// fakeSource hands out manually fired tickers.
type fakeSource struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (s *fakeSource) NewTicker(time.Duration) (tstime.TickerController, <-chan time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time)}
	s.tickers = append(s.tickers, t)
	return t, t.ch
}

func (s *fakeSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickers)
}

func (s *fakeSource) ticker(i int) *fakeTicker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickers[i]
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestSchedulerArmReplacesHandle verifies re-arming cancels the previous
// handle so only one ticker is ever live.
func TestSchedulerArmReplacesHandle(t *testing.T) {
	src := &fakeSource{}
	delivered := make(chan uint64, 4)
	s := NewScheduler(src, TickInterval, func(gen uint64) { delivered <- gen })

	s.Arm()
	if !src.ticker(0).fire() {
		t.Fatal("first handle did not accept a tick")
	}
	if gen := <-delivered; gen != 1 {
		t.Errorf("delivered gen = %d, want 1", gen)
	}

	s.Arm()
	if src.count() != 2 {
		t.Fatalf("tickers = %d, want 2", src.count())
	}
	if !src.ticker(0).stopped.Load() {
		t.Error("re-arm did not stop the first ticker")
	}
	if s.Current(1) || !s.Current(2) {
		t.Errorf("Current(1)=%v Current(2)=%v, want false/true", s.Current(1), s.Current(2))
	}
	src.ticker(0).fire()

	s.Disarm()
	s.Disarm()
	if s.Armed() {
		t.Error("Armed() after Disarm")
	}
	if !src.ticker(1).stopped.Load() {
		t.Error("Disarm did not stop the ticker")
	}
	src.ticker(1).fire()
	select {
	case gen := <-delivered:
		t.Errorf("unexpected delivery from gen %d", gen)
	default:
	}
}

// TestEngineTicksFromScheduler drives a running engine through real
// scheduler deliveries.
func TestEngineTicksFromScheduler(t *testing.T) {
	src := &fakeSource{}
	e := NewEngine(DefaultConfig(), testLogger(), WithTickerSource(src))
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	if src.count() != 1 {
		t.Fatalf("tickers after start = %d, want 1", src.count())
	}

	for range 3 {
		if !src.ticker(0).fire() {
			t.Fatal("live handle rejected a tick")
		}
	}
	waitFor(t, func() bool { return approx(e.Runtime().ElapsedInPhase, 0.3) })

	e.Pause()
	if !src.ticker(0).stopped.Load() {
		t.Error("pause did not stop the ticker")
	}
	src.ticker(0).fire()
	time.Sleep(10 * time.Millisecond)
	if got := e.Runtime().ElapsedInPhase; !approx(got, 0.3) {
		t.Errorf("tick on paused handle moved elapsed to %v", got)
	}

	e.Resume()
	if src.count() != 2 {
		t.Fatalf("tickers after resume = %d, want 2", src.count())
	}
	if !src.ticker(1).fire() {
		t.Fatal("resumed handle rejected a tick")
	}
	waitFor(t, func() bool { return approx(e.Runtime().ElapsedInPhase, 0.4) })
	e.Close()
}

// TestStaleDeliveryDropped verifies a tick already in flight when pause is
// issued does not advance the run.
func TestStaleDeliveryDropped(t *testing.T) {
	src := &fakeSource{}
	e := NewEngine(DefaultConfig(), testLogger(), WithTickerSource(src))
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	e.deliver(1)
	before := e.Runtime()
	if !approx(before.ElapsedInPhase, TickResolution) {
		t.Fatalf("live delivery: elapsed = %v", before.ElapsedInPhase)
	}

	e.Pause()
	e.deliver(1)
	e.Resume()
	e.deliver(1) // gen 1 was replaced by the resume handle
	if got := e.Runtime(); got.ElapsedInPhase != before.ElapsedInPhase {
		t.Errorf("stale delivery advanced elapsed to %v", got.ElapsedInPhase)
	}
	e.deliver(2)
	if got := e.Runtime(); !approx(got.ElapsedInPhase, 2*TickResolution) {
		t.Errorf("live delivery after resume: elapsed = %v", got.ElapsedInPhase)
	}
	e.Close()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
