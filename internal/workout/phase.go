package workout

import "fmt"

// Phase is one of the two timed halves of a rep.
type Phase int

const (
	// Concentric is the contraction half.
	Concentric Phase = iota
	// Eccentric is the lengthening half.
	Eccentric
)

func (p Phase) String() string {
	switch p {
	case Concentric:
		return "concentric"
	case Eccentric:
		return "eccentric"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(b []byte) error {
	switch string(b) {
	case "concentric":
		*p = Concentric
	case "eccentric":
		*p = Eccentric
	default:
		return fmt.Errorf("unknown phase %q", b)
	}
	return nil
}

// Status is the coarse lifecycle state derived from RuntimeState.
type Status int

const (
	StatusPristine Status = iota
	StatusRunning
	StatusPaused
	StatusFinished
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusFinished:
		return "finished"
	default:
		return "pristine"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "pristine":
		*s = StatusPristine
	case "running":
		*s = StatusRunning
	case "paused":
		*s = StatusPaused
	case "finished":
		*s = StatusFinished
	default:
		return fmt.Errorf("unknown status %q", b)
	}
	return nil
}
