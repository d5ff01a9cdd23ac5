package workout

import (
	"time"

	"tailscale.com/tstime"
)

// TickInterval is the wall-clock period between scheduler ticks.
const TickInterval = 100 * time.Millisecond

// TickerSource creates periodic tickers. tstime.StdClock satisfies it.
type TickerSource interface {
	NewTicker(d time.Duration) (tstime.TickerController, <-chan time.Time)
}

// Scheduler owns the single periodic timer that drives a Machine. Arm and
// Disarm must be called from the engine's critical section; deliveries are
// tagged with the generation of the handle that produced them so a tick
// from a cancelled handle can be recognised and dropped.
type Scheduler struct {
	source   TickerSource
	interval time.Duration
	deliver  func(gen uint64)

	gen    uint64
	handle *tickHandle
}

type tickHandle struct {
	gen    uint64
	ticker tstime.TickerController
	done   chan struct{}
}

// NewScheduler returns a disarmed scheduler that calls deliver from its own
// goroutine on every tick.
func NewScheduler(source TickerSource, interval time.Duration, deliver func(gen uint64)) *Scheduler {
	if source == nil {
		source = tstime.StdClock{}
	}
	return &Scheduler{source: source, interval: interval, deliver: deliver}
}

// Arm cancels any live handle and starts a new one.
func (s *Scheduler) Arm() {
	s.Disarm()
	s.gen++
	ticker, ch := s.source.NewTicker(s.interval)
	h := &tickHandle{gen: s.gen, ticker: ticker, done: make(chan struct{})}
	s.handle = h
	go s.run(h, ch)
}

// Disarm cancels the live handle, if any.
func (s *Scheduler) Disarm() {
	if s.handle == nil {
		return
	}
	s.handle.ticker.Stop()
	close(s.handle.done)
	s.handle = nil
}

// Armed reports whether a handle is live.
func (s *Scheduler) Armed() bool {
	return s.handle != nil
}

// Current reports whether gen identifies the live handle.
func (s *Scheduler) Current(gen uint64) bool {
	return s.handle != nil && s.handle.gen == gen
}

func (s *Scheduler) run(h *tickHandle, ch <-chan time.Time) {
	for {
		select {
		case <-h.done:
			return
		case <-ch:
			select {
			case <-h.done:
				return
			default:
			}
			s.deliver(h.gen)
		}
	}
}
