package workout

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestSteppedProgressStaircase accumulates elapsed time the way the machine
// does and verifies the bar only jumps at whole-beat boundaries.
func TestSteppedProgressStaircase(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConcentricBeats = 3
	cfg.ConcentricDuration = 3.0

	elapsed := 0.0
	for step := 0; step <= 30; step++ {
		pos := Position{Rep: 1, Phase: Concentric, Elapsed: elapsed}
		got := SteppedProgress(cfg, pos, Concentric)

		var want float64
		switch {
		case step < 10:
			want = 0
		case step < 20:
			want = 1.0 / 3
		case step < 30:
			want = 2.0 / 3
		default:
			want = 1
		}
		if !approx(got, want) {
			t.Errorf("step %d (elapsed %.17g): stepped = %v, want %v", step, elapsed, got, want)
		}
		elapsed += TickResolution
	}
}

// TestContinuousProgress verifies the continuous bar ramps with elapsed time
// and is clamped.
func TestContinuousProgress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConcentricDuration = 2.0

	tests := []struct {
		name    string
		elapsed float64
		want    float64
	}{
		{"start", 0, 0},
		{"quarter", 0.5, 0.25},
		{"end", 2.0, 1},
		{"overshoot", 2.3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := Position{Rep: 1, Phase: Concentric, Elapsed: tt.elapsed}
			if got := ContinuousProgress(cfg, pos, Concentric); !approx(got, tt.want) {
				t.Errorf("ContinuousProgress = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestInactivePhaseBars verifies that concentric reads full while eccentric
// runs, and eccentric reads empty while concentric runs.
func TestInactivePhaseBars(t *testing.T) {
	cfg := DefaultConfig()

	inEcc := Position{Rep: 1, Phase: Eccentric, Elapsed: 0.5}
	if got := SteppedProgress(cfg, inEcc, Concentric); got != 1 {
		t.Errorf("concentric stepped during eccentric = %v, want 1", got)
	}
	if got := ContinuousProgress(cfg, inEcc, Concentric); got != 1 {
		t.Errorf("concentric continuous during eccentric = %v, want 1", got)
	}
	if got := ElapsedDisplay(cfg, inEcc, Concentric); got != cfg.ConcentricDuration {
		t.Errorf("concentric elapsed display during eccentric = %v, want %v", got, cfg.ConcentricDuration)
	}

	inConc := Position{Rep: 1, Phase: Concentric, Elapsed: 2.5}
	if got := SteppedProgress(cfg, inConc, Eccentric); got != 0 {
		t.Errorf("eccentric stepped during concentric = %v, want 0", got)
	}
	if got := ActiveBeatIndex(cfg, inConc, Eccentric); got != 0 {
		t.Errorf("eccentric active beat during concentric = %d, want 0", got)
	}
	if got := ElapsedDisplay(cfg, inConc, Eccentric); got != 0 {
		t.Errorf("eccentric elapsed display during concentric = %v, want 0", got)
	}
}

// TestNotStartedIsZero verifies every output is zero before the first rep.
func TestNotStartedIsZero(t *testing.T) {
	cfg := DefaultConfig()
	pos := Position{Rep: 0, Phase: Concentric, Elapsed: 1.5}
	for _, p := range []Phase{Concentric, Eccentric} {
		if got := ContinuousProgress(cfg, pos, p); got != 0 {
			t.Errorf("%v continuous = %v, want 0", p, got)
		}
		if got := SteppedProgress(cfg, pos, p); got != 0 {
			t.Errorf("%v stepped = %v, want 0", p, got)
		}
		if got := ActiveBeatIndex(cfg, pos, p); got != 0 {
			t.Errorf("%v active beat = %d, want 0", p, got)
		}
		if got := ElapsedDisplay(cfg, pos, p); got != 0 {
			t.Errorf("%v elapsed display = %v, want 0", p, got)
		}
	}
}

// TestActiveBeatIndex verifies the 1-based beat never exceeds the beat count,
// even once the phase is complete.
func TestActiveBeatIndex(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EccentricDuration = 2.0
	cfg.EccentricBeats = 2

	tests := []struct {
		elapsed float64
		want    int
	}{
		{0, 1},
		{0.9, 1},
		{1.0, 2},
		{1.9, 2},
		{2.0, 2},
	}
	for _, tt := range tests {
		pos := Position{Rep: 3, Phase: Eccentric, Elapsed: tt.elapsed}
		if got := ActiveBeatIndex(cfg, pos, Eccentric); got != tt.want {
			t.Errorf("ActiveBeatIndex(elapsed=%v) = %d, want %d", tt.elapsed, got, tt.want)
		}
	}
}

// TestBeatClamp verifies stored beat counts outside [1,3] behave exactly like
// the nearest bound in every calculation.
func TestBeatClamp(t *testing.T) {
	tests := []struct {
		stored, equivalent int
	}{
		{0, 1},
		{-4, 1},
		{5, 3},
		{99, 3},
	}
	for _, tt := range tests {
		raw := DefaultConfig()
		raw.ConcentricDuration = 3.0
		raw.ConcentricBeats = tt.stored
		ref := raw
		ref.ConcentricBeats = tt.equivalent

		if raw.Beats(Concentric) != tt.equivalent {
			t.Errorf("Beats(stored=%d) = %d, want %d", tt.stored, raw.Beats(Concentric), tt.equivalent)
		}
		for elapsed := 0.0; elapsed <= 3.0; elapsed += 0.25 {
			pos := Position{Rep: 1, Phase: Concentric, Elapsed: elapsed}
			if a, b := SteppedProgress(raw, pos, Concentric), SteppedProgress(ref, pos, Concentric); a != b {
				t.Errorf("stored=%d elapsed=%v: stepped %v, want %v", tt.stored, elapsed, a, b)
			}
			if a, b := ActiveBeatIndex(raw, pos, Concentric), ActiveBeatIndex(ref, pos, Concentric); a != b {
				t.Errorf("stored=%d elapsed=%v: active beat %d, want %d", tt.stored, elapsed, a, b)
			}
			if a, b := CompletedBeats(raw, Concentric, elapsed), CompletedBeats(ref, Concentric, elapsed); a != b {
				t.Errorf("stored=%d elapsed=%v: completed %d, want %d", tt.stored, elapsed, a, b)
			}
		}
	}
}

func TestSubBeatDuration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EccentricDuration = 1.5
	cfg.EccentricBeats = 3
	if got := SubBeatDuration(cfg, Eccentric); !approx(got, 0.5) {
		t.Errorf("SubBeatDuration = %v, want 0.5", got)
	}
}
