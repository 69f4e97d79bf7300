package game

import (
	"encoding/json"
	"time"
)

type EventKind int

const (
	EventItemSpawned EventKind = iota + 1
	EventItemSettled
	EventCorrectSort
	EventIncorrectSort
	EventSpeedTierReached
	EventBalanceReachedWin
	EventGameOver
)

func (k EventKind) String() string {
	switch k {
	case EventItemSpawned:
		return "item_spawned"
	case EventItemSettled:
		return "item_settled"
	case EventCorrectSort:
		return "correct_sort"
	case EventIncorrectSort:
		return "incorrect_sort"
	case EventSpeedTierReached:
		return "speed_tier_reached"
	case EventBalanceReachedWin:
		return "balance_reached_win"
	case EventGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes EventKind as a string.
func (k EventKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Event is a fire-and-forget notification for audio/visual collaborators.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind      EventKind `json:"kind"`
	ItemID    int       `json:"item_id"`
	Material  Material  `json:"material,omitempty"`
	Speed     float64   `json:"speed,omitempty"`
	Milestone float64   `json:"milestone,omitempty"`
	Balance   float64   `json:"balance"`
	At        time.Time `json:"at"`
}

type Sound int

const (
	SoundGlassBreak Sound = iota + 1
	SoundCanCrush
	SoundPlasticCrush
	SoundSuccess
	SoundError
	SoundSpeedUp
)

func (s Sound) String() string {
	switch s {
	case SoundGlassBreak:
		return "glass_break"
	case SoundCanCrush:
		return "can_crush"
	case SoundPlasticCrush:
		return "plastic_crush"
	case SoundSuccess:
		return "success"
	case SoundError:
		return "error"
	case SoundSpeedUp:
		return "speed_up"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes Sound as a string.
func (s Sound) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// CrushSound is the material-specific sound of a correct drop.
func CrushSound(m Material) Sound {
	switch m {
	case MaterialGlass:
		return SoundGlassBreak
	case MaterialAluminum:
		return SoundCanCrush
	default:
		return SoundPlasticCrush
	}
}
