package workout

import "math"

// epsilon absorbs floating-point drift from summing TickResolution steps.
const epsilon = 1e-6

// Position is the part of RuntimeState the progress functions depend on.
type Position struct {
	Rep     int
	Phase   Phase
	Elapsed float64
}

// Position returns the progress-relevant view of s.
func (s RuntimeState) Position() Position {
	return Position{Rep: s.CurrentRep, Phase: s.Phase, Elapsed: s.ElapsedInPhase}
}

// SubBeatDuration is the length of a single beat within p.
func SubBeatDuration(c Config, p Phase) float64 {
	return c.PhaseDuration(p) / float64(c.Beats(p))
}

// CompletedBeats counts the beats of p fully elapsed after elapsed seconds,
// capped at the phase's beat count.
func CompletedBeats(c Config, p Phase, elapsed float64) int {
	sub := SubBeatDuration(c, p)
	if sub <= 0 {
		return c.Beats(p)
	}
	n := int(math.Floor((elapsed + epsilon) / sub))
	return min(max(n, 0), c.Beats(p))
}

// ContinuousProgress is the fraction of p elapsed, in [0, 1]. A phase that
// already ran earlier in the rep reads 1 and one not yet reached reads 0.
func ContinuousProgress(c Config, pos Position, p Phase) float64 {
	if pos.Rep == 0 {
		return 0
	}
	if p != pos.Phase {
		return inactive(pos, p)
	}
	total := c.PhaseDuration(p)
	if total <= 0 {
		return 1
	}
	return clamp01(pos.Elapsed / total)
}

// SteppedProgress is like ContinuousProgress but only advances at beat
// boundaries.
func SteppedProgress(c Config, pos Position, p Phase) float64 {
	if pos.Rep == 0 {
		return 0
	}
	if p != pos.Phase {
		return inactive(pos, p)
	}
	return float64(CompletedBeats(c, p, pos.Elapsed)) / float64(c.Beats(p))
}

// ActiveBeatIndex returns the 1-based beat currently sounding in p, or 0
// when nothing has started or p is not the active phase.
func ActiveBeatIndex(c Config, pos Position, p Phase) int {
	if pos.Rep == 0 || p != pos.Phase {
		return 0
	}
	return min(CompletedBeats(c, p, pos.Elapsed)+1, c.Beats(p))
}

// ElapsedDisplay is the elapsed time shown beside the bar for p.
func ElapsedDisplay(c Config, pos Position, p Phase) float64 {
	if pos.Rep == 0 {
		return 0
	}
	if p != pos.Phase {
		return inactive(pos, p) * c.PhaseDuration(p)
	}
	return pos.Elapsed
}

// inactive resolves the bar for a phase that is not running: concentric
// always precedes eccentric within a rep.
func inactive(pos Position, p Phase) float64 {
	if p == Concentric && pos.Phase == Eccentric {
		return 1
	}
	return 0
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
