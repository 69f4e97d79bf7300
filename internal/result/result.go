package result

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/ugaemi/binsort-server/internal/game"
)

// Result is the record of one finished run.
type Result struct {
	ID              string    `json:"id"`
	SessionID       string    `json:"session_id"`
	Nickname        string    `json:"nickname"`
	Outcome         string    `json:"outcome"`
	FinalBalance    float64   `json:"final_balance"`
	PeakBalance     float64   `json:"peak_balance"`
	PeakTier        int       `json:"peak_tier"`
	Spawned         int       `json:"spawned"`
	SortedCorrect   int       `json:"sorted_correct"`
	SortedIncorrect int       `json:"sorted_incorrect"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
}

// NewResult builds a result from the stats a session reported when its run ended.
func NewResult(sessionID, nickname string, outcome game.Outcome, balance float64, stats game.Stats, endedAt time.Time) *Result {
	return &Result{
		ID:              uuid.New().String(),
		SessionID:       sessionID,
		Nickname:        nickname,
		Outcome:         outcome.String(),
		FinalBalance:    balance,
		PeakBalance:     stats.PeakBalance,
		PeakTier:        stats.PeakTier,
		Spawned:         stats.Spawned,
		SortedCorrect:   stats.SortedCorrect,
		SortedIncorrect: stats.SortedIncorrect,
		StartedAt:       stats.StartedAt,
		EndedAt:         endedAt,
	}
}

// Duration is the wall time the run lasted.
func (r *Result) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// Accuracy is the share of drops that went into the right bin.
func (r *Result) Accuracy() float64 {
	total := r.SortedCorrect + r.SortedIncorrect
	if total == 0 {
		return 0
	}
	return float64(r.SortedCorrect) / float64(total)
}

// MarshalJSON adds the derived duration and accuracy to the stored fields.
func (r Result) MarshalJSON() ([]byte, error) {
	type stored Result
	return json.Marshal(struct {
		stored
		DurationMs int64   `json:"duration_ms"`
		Accuracy   float64 `json:"accuracy"`
	}{
		stored:     stored(r),
		DurationMs: r.Duration().Milliseconds(),
		Accuracy:   r.Accuracy(),
	})
}
