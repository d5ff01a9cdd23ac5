// Package workout implements the phased set/rep timer: configuration,
// progress calculation, the runtime state machine and the tick scheduler
// that drives it.
package workout

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// PhaseView is the read-only presentation of one phase's bar.
type PhaseView struct {
	Duration        float64 `json:"duration"`
	Beats           int     `json:"beats"`
	SubBeatDuration float64 `json:"sub_beat_duration"`
	Progress        float64 `json:"progress"`
	SteppedProgress float64 `json:"stepped_progress"`
	CompletedBeats  int     `json:"completed_beats"`
	ActiveBeat      int     `json:"active_beat"`
	ElapsedDisplay  float64 `json:"elapsed_display"`
	ShowBeatNumbers bool    `json:"show_beat_numbers"`
	CoachCue        string  `json:"coach_cue"`
}

// State is a consistent snapshot of the engine for the presentation layer.
type State struct {
	RuntimeState
	Status     Status    `json:"status"`
	PhaseTotal float64   `json:"phase_total"`
	Sets       int       `json:"sets"`
	RepsPerSet int       `json:"reps_per_set"`
	Concentric PhaseView `json:"concentric"`
	Eccentric  PhaseView `json:"eccentric"`
}

// Event is published after every transition, tick and configuration edit.
type Event struct {
	Kind  string `json:"kind"`
	State State  `json:"state"`
}

// Event kinds that are not machine transitions.
const (
	EventTick   = "tick"
	EventConfig = "config"
)

// Engine is the serialization point for a run: user actions and scheduler
// ticks all take the same lock before touching the machine.
type Engine struct {
	mu      sync.Mutex
	cfg     Config
	machine *Machine
	sched   *Scheduler
	notify  func(Event)
	log     *slog.Logger
}

// Option customises an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	source   TickerSource
	interval time.Duration
	notify   func(Event)
}

// WithTickerSource replaces the wall clock used by the scheduler.
func WithTickerSource(src TickerSource) Option {
	return func(o *engineOptions) { o.source = src }
}

// WithTickInterval changes the wall-clock tick period. Elapsed time still
// advances by TickResolution per tick.
func WithTickInterval(d time.Duration) Option {
	return func(o *engineOptions) { o.interval = d }
}

// WithObserver registers fn to receive every Event. It runs with the engine
// lock held and must not block or call back into the engine.
func WithObserver(fn func(Event)) Option {
	return func(o *engineOptions) { o.notify = fn }
}

// NewEngine creates a pristine engine using cfg.
func NewEngine(cfg Config, log *slog.Logger, opts ...Option) *Engine {
	o := engineOptions{interval: TickInterval}
	for _, opt := range opts {
		opt(&o)
	}
	e := &Engine{cfg: cfg, notify: o.notify, log: log}
	e.sched = NewScheduler(o.source, o.interval, e.deliver)
	e.machine = NewMachine(e.sched, e.observe)
	return e
}

// Start begins a new run from set 1 rep 1, discarding any previous progress.
// It returns ErrInvalidDuration, leaving the engine pristine, when a phase
// duration is out of range.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.machine.Start(e.cfg); err != nil {
		e.log.Warn("workout start refused", "error", err)
		return fmt.Errorf("cannot start: %w", err)
	}
	return nil
}

// Pause stops a running workout. It reports whether anything changed.
func (e *Engine) Pause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Pause()
}

// Resume continues a paused workout. It reports whether anything changed.
func (e *Engine) Resume() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Resume()
}

// Reset stops the timer and returns to the pristine state.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.machine.Reset()
}

// Close disarms the scheduler. The engine remains usable.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.machine.Pause()
}

// Runtime returns the raw runtime state.
func (e *Engine) Runtime() RuntimeState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.State()
}

// State returns the runtime state together with every progress value.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return buildState(e.cfg, e.machine.State())
}

func buildState(cfg Config, rs RuntimeState) State {
	pos := rs.Position()
	view := func(p Phase) PhaseView {
		v := PhaseView{
			Duration:        cfg.PhaseDuration(p),
			Beats:           cfg.Beats(p),
			SubBeatDuration: SubBeatDuration(cfg, p),
			Progress:        ContinuousProgress(cfg, pos, p),
			SteppedProgress: SteppedProgress(cfg, pos, p),
			ActiveBeat:      ActiveBeatIndex(cfg, pos, p),
			ElapsedDisplay:  ElapsedDisplay(cfg, pos, p),
			ShowBeatNumbers: cfg.ShowBeatNumbers(p),
			CoachCue:        cfg.CoachCue(p),
		}
		if pos.Rep > 0 && p == pos.Phase {
			v.CompletedBeats = CompletedBeats(cfg, p, pos.Elapsed)
		}
		return v
	}
	return State{
		RuntimeState: rs,
		Status:       rs.Status(),
		PhaseTotal:   cfg.PhaseDuration(rs.Phase),
		Sets:         cfg.Sets,
		RepsPerSet:   cfg.RepsPerSet,
		Concentric:   view(Concentric),
		Eccentric:    view(Eccentric),
	}
}

// Configuration returns a copy of the current configuration.
func (e *Engine) Configuration() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// ExportConfiguration returns a copy suitable for saving as a preset.
func (e *Engine) ExportConfiguration() Config {
	return e.Configuration()
}

// ApplyConfiguration overwrites every configuration field. Runtime state is
// untouched; callers reset before starting again.
func (e *Engine) ApplyConfiguration(cfg Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = cfg
	e.publish(EventConfig)
}

// Patch applies p to the configuration after validating the result. The
// configuration is unchanged when an error is returned.
func (e *Engine) Patch(p ConfigPatch) (Config, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	next := p.Apply(e.cfg)
	if err := next.Validate(); err != nil {
		return e.cfg, err
	}
	e.cfg = next
	e.publish(EventConfig)
	return next, nil
}

// SetSets sets the number of sets.
func (e *Engine) SetSets(n int) {
	e.update(func(c *Config) { c.Sets = n })
}

// SetRepsPerSet sets the number of reps in each set.
func (e *Engine) SetRepsPerSet(n int) {
	e.update(func(c *Config) { c.RepsPerSet = n })
}

// SetBeats stores the beat count for p. Out-of-range values are kept and
// clamped when read.
func (e *Engine) SetBeats(p Phase, n int) {
	e.update(func(c *Config) {
		if p == Eccentric {
			c.EccentricBeats = n
		} else {
			c.ConcentricBeats = n
		}
	})
}

// SetShowBeatNumbers toggles beat number display for p.
func (e *Engine) SetShowBeatNumbers(p Phase, show bool) {
	e.update(func(c *Config) {
		if p == Eccentric {
			c.ShowEccentricBeatNumbers = show
		} else {
			c.ShowConcentricBeatNumbers = show
		}
	})
}

// SetDuration sets the duration of p, rejecting values outside
// [MinDuration, MaxDuration] with ErrInvalidDuration.
func (e *Engine) SetDuration(p Phase, seconds float64) error {
	if !validDuration(seconds) {
		return durationError(p.String(), seconds)
	}
	e.update(func(c *Config) {
		if p == Eccentric {
			c.EccentricDuration = seconds
		} else {
			c.ConcentricDuration = seconds
		}
	})
	return nil
}

func (e *Engine) update(fn func(*Config)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.cfg)
	e.publish(EventConfig)
}

// tick advances the machine by one step as if delivered by the live handle.
func (e *Engine) tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.machine.Tick(e.cfg)
	e.publish(EventTick)
}

// deliver is the scheduler callback. Ticks from a cancelled handle, or that
// raced a pause, are dropped.
func (e *Engine) deliver(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.sched.Current(gen) {
		return
	}
	e.machine.Tick(e.cfg)
	e.publish(EventTick)
}

func (e *Engine) publish(kind string) {
	if e.notify != nil {
		e.notify(Event{Kind: kind, State: buildState(e.cfg, e.machine.State())})
	}
}

func (e *Engine) observe(t Transition, s RuntimeState) {
	attrs := []any{
		"transition", t.String(),
		"set", s.CurrentSet,
		"rep", s.CurrentRep,
		"phase", s.Phase.String(),
	}
	if e.notify != nil {
		e.notify(Event{Kind: t.String(), State: buildState(e.cfg, s)})
	}
	switch t {
	case TransitionStart, TransitionFinish:
		e.log.Info("workout "+t.String(), attrs...)
	default:
		e.log.Debug("workout transition", attrs...)
	}
}
