package main

import (
	"fmt"
	"strings"

	"github.com/claude/repcounter/internal/models"
	"github.com/claude/repcounter/internal/workout"
)

// describe renders a command result for the terminal.
func describe(v any) string {
	switch v := v.(type) {
	case workout.State:
		return describeState(v)
	case *models.ActionResult:
		s := describeState(v.State)
		if !v.Changed {
			s += " (unchanged)"
		}
		return s
	case workout.Config:
		return describeConfig(v)
	case []models.WorkoutPreset:
		if len(v) == 0 {
			return "no presets"
		}
		var b strings.Builder
		for i, p := range v {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%s  %-24s %s", p.ID, p.Name, describeConfig(p.Config))
		}
		return b.String()
	case *models.WorkoutPreset:
		return fmt.Sprintf("saved %s  %s", v.ID, v.Name)
	default:
		return fmt.Sprint(v)
	}
}

func describeState(st workout.State) string {
	if st.Status == workout.StatusPristine {
		return fmt.Sprintf("%s  %d x %d", st.Status, st.Sets, st.RepsPerSet)
	}
	view := st.Concentric
	if st.Phase == workout.Eccentric {
		view = st.Eccentric
	}
	return fmt.Sprintf("%s  set %d/%d  rep %d/%d  %s %.1f/%.1fs  beat %s",
		st.Status, st.CurrentSet, st.Sets, st.CurrentRep, st.RepsPerSet,
		st.Phase, st.ElapsedInPhase, st.PhaseTotal, beatLabel(view))
}

func beatLabel(v workout.PhaseView) string {
	if !v.ShowBeatNumbers {
		return "-"
	}
	return fmt.Sprintf("%d/%d", v.ActiveBeat, v.Beats)
}

func describeConfig(c workout.Config) string {
	return fmt.Sprintf("%d x %d  %.1fs/%.1fs  cue %s / %s",
		c.Sets, c.RepsPerSet, c.ConcentricDuration, c.EccentricDuration,
		c.CoachCue(workout.Concentric), c.CoachCue(workout.Eccentric))
}
