package game

import (
	"encoding/json"
	"math"
)

type Bin int

const (
	BinDRS Bin = iota + 1
	BinGreen
	BinClear
	BinBrown
)

func (b Bin) String() string {
	switch b {
	case BinDRS:
		return "drs"
	case BinGreen:
		return "green"
	case BinClear:
		return "clear"
	case BinBrown:
		return "brown"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes Bin as a string.
func (b Bin) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// ParseBin maps a client bin id to a Bin. Unknown ids return false.
func ParseBin(s string) (Bin, bool) {
	switch s {
	case "drs":
		return BinDRS, true
	case "green":
		return BinGreen, true
	case "clear":
		return BinClear, true
	case "brown":
		return BinBrown, true
	default:
		return 0, false
	}
}

// IsCorrectBin reports whether dropping item into bin is a correct sort:
// deposit items go to DRS, glass goes to the bin of its color.
func IsCorrectBin(item Item, bin Bin) bool {
	switch item.Material {
	case MaterialPlastic, MaterialAluminum:
		return bin == BinDRS
	case MaterialGlass:
		switch item.Color {
		case ColorGreen:
			return bin == BinGreen
		case ColorClear:
			return bin == BinClear
		case ColorBrown:
			return bin == BinBrown
		}
	}
	return false
}

// Reward is the balance gained by a correct sort, in euros. Glass pays nothing.
func Reward(item Item) float64 {
	if !item.Material.IsDeposit() {
		return 0
	}
	return float64(item.DepositValue) / 100
}

// SpeedTier is the number of full TierStep amounts in balance.
func (s ScoringTuning) SpeedTier(balance float64) int {
	if balance <= 0 {
		return 0
	}
	return int(math.Floor(balance / s.TierStep))
}

// SpeedMultiplier derives the belt speed from balance alone.
func (s ScoringTuning) SpeedMultiplier(balance float64) float64 {
	return math.Min(1+float64(s.SpeedTier(balance))*s.TierSpeedBonus, s.MaxBeltSpeed)
}

// Penalize applies the wrong-bin deduction without going below zero.
func (s ScoringTuning) Penalize(balance float64) float64 {
	return math.Max(0, roundCents(balance-s.WrongBinPenalty))
}

// roundCents keeps balances on whole cents so repeated additions do not drift.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// TierTracker remembers the highest tier announced so each threshold
// crossing is celebrated exactly once.
type TierTracker struct {
	last int
}

// Observe returns true when tier is above every tier seen before.
func (t *TierTracker) Observe(tier int) bool {
	if tier <= t.last || tier <= 0 {
		return false
	}
	t.last = tier
	return true
}

func (t *TierTracker) Last() int {
	return t.last
}

func (t *TierTracker) Reset() {
	t.last = 0
}
