package main

import (
	"strings"
	"testing"

	"github.com/claude/repcounter/internal/workout"
)

func TestParsePatch(t *testing.T) {
	p, err := parsePatch([]string{"sets=4", "eccentric_duration=2.5", "show_concentric_beat_numbers=false"})
	if err != nil {
		t.Fatalf("parsePatch: %v", err)
	}
	if p.Sets == nil || *p.Sets != 4 {
		t.Errorf("sets = %v, want 4", p.Sets)
	}
	if p.EccentricDuration == nil || *p.EccentricDuration != 2.5 {
		t.Errorf("eccentric_duration = %v, want 2.5", p.EccentricDuration)
	}
	if p.ShowConcentricBeatNumbers == nil || *p.ShowConcentricBeatNumbers {
		t.Errorf("show_concentric_beat_numbers = %v, want false", p.ShowConcentricBeatNumbers)
	}

	for _, bad := range [][]string{nil, {"sets"}, {"bogus=1"}, {"sets=abc"}} {
		if _, err := parsePatch(bad); err == nil {
			t.Errorf("parsePatch(%q) accepted", bad)
		}
	}
}

func TestDescribeState(t *testing.T) {
	st := workout.State{
		RuntimeState: workout.RuntimeState{CurrentSet: 2, CurrentRep: 3, Phase: workout.Eccentric, ElapsedInPhase: 1.2, Running: true},
		Status:       workout.StatusRunning,
		PhaseTotal:   2,
		Sets:         3,
		RepsPerSet:   10,
		Eccentric:    workout.PhaseView{Beats: 2, ActiveBeat: 2, ShowBeatNumbers: true},
	}
	got := describe(st)
	for _, want := range []string{"running", "set 2/3", "rep 3/10", "eccentric 1.2/2.0s", "beat 2/2"} {
		if !strings.Contains(got, want) {
			t.Errorf("describe = %q, missing %q", got, want)
		}
	}
	if got := describe(workout.State{Status: workout.StatusPristine, Sets: 3, RepsPerSet: 25}); got != "pristine  3 x 25" {
		t.Errorf("pristine = %q", got)
	}
}
