package workout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MinDuration and MaxDuration bound each phase duration, in seconds.
	MinDuration = 0.1
	MaxDuration = 10.0

	// MinBeats and MaxBeats bound the beats per phase. Stored values outside
	// the range are clamped on every read.
	MinBeats = 1
	MaxBeats = 3
)

var (
	// ErrInvalidDuration is returned when a phase duration lies outside
	// [MinDuration, MaxDuration].
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidCount is returned when sets or reps per set is below 1.
	ErrInvalidCount = errors.New("invalid count")

	// ErrRunning is returned by callers that refuse configuration edits
	// while a run is in progress.
	ErrRunning = errors.New("workout is running")
)

// Config holds the user-editable workout parameters.
type Config struct {
	Sets       int `json:"sets" yaml:"sets"`
	RepsPerSet int `json:"reps_per_set" yaml:"reps_per_set"`

	ConcentricDuration float64 `json:"concentric_duration" yaml:"concentric_duration"`
	EccentricDuration  float64 `json:"eccentric_duration" yaml:"eccentric_duration"`

	ConcentricBeats int `json:"concentric_beats" yaml:"concentric_beats"`
	EccentricBeats  int `json:"eccentric_beats" yaml:"eccentric_beats"`

	ShowConcentricBeatNumbers bool `json:"show_concentric_beat_numbers" yaml:"show_concentric_beat_numbers"`
	ShowEccentricBeatNumbers  bool `json:"show_eccentric_beat_numbers" yaml:"show_eccentric_beat_numbers"`
}

// DefaultConfig returns the configuration a fresh engine starts with.
func DefaultConfig() Config {
	return Config{
		Sets:                      3,
		RepsPerSet:                25,
		ConcentricDuration:        3.0,
		EccentricDuration:         2.0,
		ConcentricBeats:           3,
		EccentricBeats:            3,
		ShowConcentricBeatNumbers: true,
		ShowEccentricBeatNumbers:  true,
	}
}

// PhaseDuration returns the configured duration of p.
func (c Config) PhaseDuration(p Phase) float64 {
	if p == Eccentric {
		return c.EccentricDuration
	}
	return c.ConcentricDuration
}

// Beats returns the beat count of p, clamped to [MinBeats, MaxBeats].
func (c Config) Beats(p Phase) int {
	n := c.ConcentricBeats
	if p == Eccentric {
		n = c.EccentricBeats
	}
	return min(max(n, MinBeats), MaxBeats)
}

// ShowBeatNumbers reports whether beat numbers are displayed for p.
func (c Config) ShowBeatNumbers(p Phase) bool {
	if p == Eccentric {
		return c.ShowEccentricBeatNumbers
	}
	return c.ShowConcentricBeatNumbers
}

// RepDuration is the length of one full rep.
func (c Config) RepDuration() float64 {
	return c.ConcentricDuration + c.EccentricDuration
}

// CoachCue returns the count-out for p, e.g. "1-2-3" for three beats.
func (c Config) CoachCue(p Phase) string {
	n := c.Beats(p)
	parts := make([]string, n)
	for i := range n {
		parts[i] = strconv.Itoa(i + 1)
	}
	return strings.Join(parts, "-")
}

// Startable reports whether both phase durations are in range.
func (c Config) Startable() bool {
	return validDuration(c.ConcentricDuration) && validDuration(c.EccentricDuration)
}

// Validate checks every field a run depends on. Beat counts are not checked
// since they are clamped on read.
func (c Config) Validate() error {
	if err := c.validateDurations(); err != nil {
		return err
	}
	if c.Sets < 1 {
		return fmt.Errorf("sets must be at least 1, got %d: %w", c.Sets, ErrInvalidCount)
	}
	if c.RepsPerSet < 1 {
		return fmt.Errorf("reps_per_set must be at least 1, got %d: %w", c.RepsPerSet, ErrInvalidCount)
	}
	return nil
}

func (c Config) validateDurations() error {
	if !validDuration(c.ConcentricDuration) {
		return durationError("concentric", c.ConcentricDuration)
	}
	if !validDuration(c.EccentricDuration) {
		return durationError("eccentric", c.EccentricDuration)
	}
	return nil
}

func validDuration(d float64) bool {
	return d >= MinDuration && d <= MaxDuration
}

func durationError(name string, d float64) error {
	return fmt.Errorf("%s duration %g outside [%g, %g]: %w", name, d, MinDuration, MaxDuration, ErrInvalidDuration)
}

// ConfigPatch is a partial configuration update. Nil fields are left as is.
type ConfigPatch struct {
	Sets       *int `json:"sets,omitempty"`
	RepsPerSet *int `json:"reps_per_set,omitempty"`

	ConcentricDuration *float64 `json:"concentric_duration,omitempty"`
	EccentricDuration  *float64 `json:"eccentric_duration,omitempty"`

	ConcentricBeats *int `json:"concentric_beats,omitempty"`
	EccentricBeats  *int `json:"eccentric_beats,omitempty"`

	ShowConcentricBeatNumbers *bool `json:"show_concentric_beat_numbers,omitempty"`
	ShowEccentricBeatNumbers  *bool `json:"show_eccentric_beat_numbers,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ConfigPatch) Empty() bool {
	return p == ConfigPatch{}
}

// Apply returns c with the patch's fields overwritten.
func (p ConfigPatch) Apply(c Config) Config {
	setInt(&c.Sets, p.Sets)
	setInt(&c.RepsPerSet, p.RepsPerSet)
	setInt(&c.ConcentricBeats, p.ConcentricBeats)
	setInt(&c.EccentricBeats, p.EccentricBeats)
	if p.ConcentricDuration != nil {
		c.ConcentricDuration = *p.ConcentricDuration
	}
	if p.EccentricDuration != nil {
		c.EccentricDuration = *p.EccentricDuration
	}
	if p.ShowConcentricBeatNumbers != nil {
		c.ShowConcentricBeatNumbers = *p.ShowConcentricBeatNumbers
	}
	if p.ShowEccentricBeatNumbers != nil {
		c.ShowEccentricBeatNumbers = *p.ShowEccentricBeatNumbers
	}
	return c
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
