package workout

// TickResolution is how far elapsedInPhase moves per scheduler tick, in seconds.
const TickResolution = 0.1

// RuntimeState is the authoritative progress of a run.
type RuntimeState struct {
	CurrentSet     int     `json:"current_set"`
	CurrentRep     int     `json:"current_rep"`
	Phase          Phase   `json:"phase"`
	ElapsedInPhase float64 `json:"elapsed_in_phase"`
	Running        bool    `json:"running"`
	Finished       bool    `json:"finished"`
}

func pristine() RuntimeState {
	return RuntimeState{CurrentSet: 1, Phase: Concentric}
}

// Status derives the lifecycle state.
func (s RuntimeState) Status() Status {
	switch {
	case s.Running:
		return StatusRunning
	case s.Finished:
		return StatusFinished
	case s.CurrentRep > 0:
		return StatusPaused
	default:
		return StatusPristine
	}
}

// Transition names a state change made by the machine.
type Transition int

const (
	TransitionStart Transition = iota
	TransitionPause
	TransitionResume
	TransitionReset
	// TransitionPhaseComplete is the boundary tick: elapsed is snapped to
	// the phase total and the switch is queued for the next tick.
	TransitionPhaseComplete
	TransitionPhaseAdvance
	TransitionRepAdvance
	TransitionSetAdvance
	TransitionFinish
)

func (t Transition) String() string {
	switch t {
	case TransitionStart:
		return "start"
	case TransitionPause:
		return "pause"
	case TransitionResume:
		return "resume"
	case TransitionReset:
		return "reset"
	case TransitionPhaseComplete:
		return "phase_complete"
	case TransitionPhaseAdvance:
		return "phase_advance"
	case TransitionRepAdvance:
		return "rep_advance"
	case TransitionSetAdvance:
		return "set_advance"
	case TransitionFinish:
		return "finish"
	default:
		return "unknown"
	}
}

// Timer is the scheduler as seen by the machine.
type Timer interface {
	Arm()
	Disarm()
}

// Machine owns RuntimeState and applies the set/rep/phase transition rules.
// It is not safe for concurrent use; Engine serializes access.
type Machine struct {
	state   RuntimeState
	pending bool
	timer   Timer
	observe func(Transition, RuntimeState)
}

// NewMachine returns a machine in the pristine state. observe may be nil.
func NewMachine(timer Timer, observe func(Transition, RuntimeState)) *Machine {
	return &Machine{state: pristine(), timer: timer, observe: observe}
}

// State returns a copy of the current runtime state.
func (m *Machine) State() RuntimeState {
	return m.state
}

// PhaseCompletePending reports whether a boundary has been reached and the
// phase switch is waiting for the next tick.
func (m *Machine) PhaseCompletePending() bool {
	return m.pending
}

// Start resets and, if cfg has valid durations, begins a run at set 1 rep 1.
// An invalid configuration leaves the machine pristine.
func (m *Machine) Start(cfg Config) error {
	m.Reset()
	if err := cfg.validateDurations(); err != nil {
		return err
	}
	m.state.CurrentRep = 1
	m.state.Running = true
	m.timer.Arm()
	m.emit(TransitionStart)
	return nil
}

// Resume continues a paused run. It reports false when there was nothing to
// resume.
func (m *Machine) Resume() bool {
	if m.state.Status() != StatusPaused {
		return false
	}
	m.state.Running = true
	m.timer.Arm()
	m.emit(TransitionResume)
	return true
}

// Pause stops ticking. It always disarms the timer and reports whether the
// run was actually running.
func (m *Machine) Pause() bool {
	m.timer.Disarm()
	if !m.state.Running {
		return false
	}
	m.state.Running = false
	m.emit(TransitionPause)
	return true
}

// Reset disarms the timer and restores the pristine state.
func (m *Machine) Reset() {
	m.timer.Disarm()
	m.state = pristine()
	m.pending = false
	m.emit(TransitionReset)
}

// Tick advances the run by one TickResolution step. A transition queued by
// the previous tick is applied first.
func (m *Machine) Tick(cfg Config) {
	if !m.state.Running {
		return
	}
	if m.pending {
		m.pending = false
		m.advancePhase(cfg)
		if !m.state.Running {
			return
		}
	}

	m.state.ElapsedInPhase += TickResolution
	total := cfg.PhaseDuration(m.state.Phase)
	if m.state.ElapsedInPhase+epsilon >= total {
		m.state.ElapsedInPhase = total
		m.pending = true
		m.emit(TransitionPhaseComplete)
	}
}

func (m *Machine) advancePhase(cfg Config) {
	if m.state.Phase == Concentric {
		m.state.Phase = Eccentric
		m.state.ElapsedInPhase = 0
		m.emit(TransitionPhaseAdvance)
		return
	}
	m.state.ElapsedInPhase = 0
	m.state.Phase = Concentric
	m.advanceRepOrSet(cfg)
}

func (m *Machine) advanceRepOrSet(cfg Config) {
	switch {
	case m.state.CurrentRep < cfg.RepsPerSet:
		m.state.CurrentRep++
		m.emit(TransitionRepAdvance)
	case m.state.CurrentSet < cfg.Sets:
		m.state.CurrentSet++
		m.state.CurrentRep = 1
		m.emit(TransitionSetAdvance)
	default:
		m.finish()
	}
}

func (m *Machine) finish() {
	m.timer.Disarm()
	m.state.Running = false
	m.state.Finished = true
	m.emit(TransitionFinish)
}

func (m *Machine) emit(t Transition) {
	if m.observe != nil {
		m.observe(t, m.state)
	}
}
