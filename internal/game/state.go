package game

import "encoding/json"

// State is the lifecycle state of a Session.
type State int

const (
	StateRunning State = iota
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes State as a string.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// DropOutcome is the result of a drop request.
type DropOutcome int

const (
	DropIgnored DropOutcome = iota
	DropCorrect
	DropIncorrect
)

func (d DropOutcome) String() string {
	switch d {
	case DropCorrect:
		return "correct"
	case DropIncorrect:
		return "incorrect"
	default:
		return "ignored"
	}
}

// Outcome is how a finished run ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeGameOver
	OutcomeWin
)

func (o Outcome) String() string {
	switch o {
	case OutcomeGameOver:
		return "game_over"
	case OutcomeWin:
		return "win"
	default:
		return "none"
	}
}
