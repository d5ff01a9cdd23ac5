package workout

import (
	"encoding/json"
	"errors"
	"testing"
)

func newTestEngine(cfg Config) *Engine {
	return NewEngine(cfg, testLogger(), WithTickerSource(&fakeSource{}))
}

// TestEngineStartRefused verifies the engine reports why it did not start.
func TestEngineStartRefused(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConcentricDuration = 0
	e := newTestEngine(cfg)

	err := e.Start()
	if !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("Start() = %v, want ErrInvalidDuration", err)
	}
	if got := e.Runtime(); got != pristineState {
		t.Errorf("state after refused start = %+v, want pristine", got)
	}
	if e.State().Status != StatusPristine {
		t.Errorf("status = %v, want pristine", e.State().Status)
	}
}

// TestEngineFullRun runs the 2x2 scenario through the engine's tick path.
func TestEngineFullRun(t *testing.T) {
	e := newTestEngine(shortConfig(2, 2))
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	for range 17 {
		e.tick()
	}
	s := e.State()
	if !s.Finished || s.Running || s.CurrentSet != 2 || s.CurrentRep != 2 {
		t.Errorf("final state = %+v", s.RuntimeState)
	}
	if s.Status != StatusFinished {
		t.Errorf("status = %v, want finished", s.Status)
	}
	if e.Resume() {
		t.Error("Resume after finish reported a change")
	}

	e.Reset()
	if got := e.Runtime(); got != pristineState {
		t.Errorf("after reset = %+v, want pristine", got)
	}
}

// TestEngineStateViews verifies the snapshot carries every progress output
// for both bars.
func TestEngineStateViews(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConcentricDuration = 3.0
	cfg.ConcentricBeats = 3
	cfg.EccentricDuration = 2.0
	cfg.EccentricBeats = 2
	cfg.ShowEccentricBeatNumbers = false
	e := newTestEngine(cfg)
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	for range 15 {
		e.tick()
	}

	s := e.State()
	if s.Phase != Concentric || s.PhaseTotal != 3.0 {
		t.Fatalf("phase=%v total=%v", s.Phase, s.PhaseTotal)
	}
	c := s.Concentric
	if !approx(c.Progress, 0.5) {
		t.Errorf("concentric progress = %v, want 0.5", c.Progress)
	}
	if !approx(c.SteppedProgress, 1.0/3) {
		t.Errorf("concentric stepped = %v, want 1/3", c.SteppedProgress)
	}
	if c.CompletedBeats != 1 || c.ActiveBeat != 2 {
		t.Errorf("concentric beats completed=%d active=%d, want 1/2", c.CompletedBeats, c.ActiveBeat)
	}
	if c.CoachCue != "1-2-3" || !c.ShowBeatNumbers {
		t.Errorf("concentric cue=%q show=%v", c.CoachCue, c.ShowBeatNumbers)
	}
	ecc := s.Eccentric
	if ecc.Progress != 0 || ecc.SteppedProgress != 0 || ecc.ActiveBeat != 0 {
		t.Errorf("eccentric view while concentric = %+v", ecc)
	}
	if ecc.ShowBeatNumbers || ecc.Beats != 2 || !approx(ecc.SubBeatDuration, 1.0) {
		t.Errorf("eccentric static view = %+v", ecc)
	}

	// Into the eccentric half: concentric reads full.
	for range 16 {
		e.tick()
	}
	s = e.State()
	if s.Phase != Eccentric {
		t.Fatalf("phase = %v, want eccentric", s.Phase)
	}
	if s.Concentric.SteppedProgress != 1 || s.Concentric.ActiveBeat != 0 {
		t.Errorf("concentric during eccentric = %+v", s.Concentric)
	}
	if s.Eccentric.ActiveBeat != 1 {
		t.Errorf("eccentric active beat = %d, want 1", s.Eccentric.ActiveBeat)
	}
}

// TestEngineStateJSON verifies the wire names the presentation layer reads.
func TestEngineStateJSON(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	b, err := json.Marshal(e.State())
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"current_set", "current_rep", "phase", "elapsed_in_phase", "phase_total", "running", "finished", "status", "concentric", "eccentric"} {
		if _, ok := m[key]; !ok {
			t.Errorf("state JSON missing %q: %s", key, b)
		}
	}
	if m["phase"] != "concentric" || m["status"] != "pristine" {
		t.Errorf("phase=%v status=%v", m["phase"], m["status"])
	}
}

// TestApplyConfigurationDoesNotReset verifies configuration replacement
// leaves runtime state for the caller to reset.
func TestApplyConfigurationDoesNotReset(t *testing.T) {
	e := newTestEngine(shortConfig(2, 2))
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	e.tick()
	e.Pause()
	before := e.Runtime()

	next := DefaultConfig()
	next.Sets = 5
	next.ConcentricBeats = 1
	e.ApplyConfiguration(next)

	if got := e.Runtime(); got != before {
		t.Errorf("apply changed runtime state: %+v", got)
	}
	if got := e.Configuration(); got != next {
		t.Errorf("configuration = %+v, want %+v", got, next)
	}
}

// TestExportConfigurationIsCopy verifies the export does not alias engine state.
func TestExportConfigurationIsCopy(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	snap := e.ExportConfiguration()
	e.SetSets(9)
	if snap.Sets != DefaultConfig().Sets {
		t.Errorf("exported snapshot changed to %d sets", snap.Sets)
	}
	if e.ExportConfiguration().Sets != 9 {
		t.Error("export missed the update")
	}
}

// TestSetters verifies the field setters and duration rejection.
func TestSetters(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	e.SetSets(4)
	e.SetRepsPerSet(8)
	e.SetBeats(Concentric, 5)
	e.SetBeats(Eccentric, 2)
	e.SetShowBeatNumbers(Concentric, false)
	if err := e.SetDuration(Eccentric, 1.5); err != nil {
		t.Fatal(err)
	}
	if err := e.SetDuration(Concentric, 11); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("SetDuration(11) = %v, want ErrInvalidDuration", err)
	}

	cfg := e.Configuration()
	want := DefaultConfig()
	want.Sets = 4
	want.RepsPerSet = 8
	want.ConcentricBeats = 5
	want.EccentricBeats = 2
	want.ShowConcentricBeatNumbers = false
	want.EccentricDuration = 1.5
	if cfg != want {
		t.Errorf("config = %+v, want %+v", cfg, want)
	}
	if cfg.Beats(Concentric) != 3 {
		t.Errorf("stored 5 beats read as %d, want 3", cfg.Beats(Concentric))
	}
}

// TestObserverEvents verifies the event stream for a one-rep run.
func TestObserverEvents(t *testing.T) {
	var kinds []string
	var last State
	e := NewEngine(shortConfig(1, 1), testLogger(),
		WithTickerSource(&fakeSource{}),
		WithObserver(func(ev Event) {
			kinds = append(kinds, ev.Kind)
			last = ev.State
		}))

	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		e.tick()
	}
	e.SetSets(2)

	want := []string{
		"reset", "start",
		"tick",
		"phase_complete", "tick",
		"phase_advance", "tick",
		"phase_complete", "tick",
		"finish", "tick",
		"config",
	}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, kinds[i], want[i])
		}
	}
	if last.Status != StatusFinished || last.Sets != 2 {
		t.Errorf("last state = %+v, want finished with 2 sets", last)
	}
}

// TestPatchValidates verifies a rejected patch leaves the configuration alone.
func TestPatchValidates(t *testing.T) {
	e := newTestEngine(DefaultConfig())

	reps, bad := 10, 0.05
	if _, err := e.Patch(ConfigPatch{RepsPerSet: &reps, EccentricDuration: &bad}); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("Patch = %v, want ErrInvalidDuration", err)
	}
	if e.Configuration() != DefaultConfig() {
		t.Errorf("config changed by rejected patch: %+v", e.Configuration())
	}

	cfg, err := e.Patch(ConfigPatch{RepsPerSet: &reps})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if cfg.RepsPerSet != 10 || e.Configuration().RepsPerSet != 10 {
		t.Errorf("reps = %d, want 10", e.Configuration().RepsPerSet)
	}
}
