package result

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ugaemi/binsort-server/internal/game"
)

func TestNewResult(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ended := started.Add(90 * time.Second)
	stats := game.Stats{
		Spawned:         30,
		SortedCorrect:   18,
		SortedIncorrect: 2,
		PeakBalance:     6.4,
		PeakTier:        1,
		StartedAt:       started,
	}

	r := NewResult("session-1", "sorter", game.OutcomeGameOver, 5.9, stats, ended)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "session-1", r.SessionID)
	assert.Equal(t, "sorter", r.Nickname)
	assert.Equal(t, "game_over", r.Outcome)
	assert.Equal(t, 5.9, r.FinalBalance)
	assert.Equal(t, 6.4, r.PeakBalance)
	assert.Equal(t, 1, r.PeakTier)
	assert.Equal(t, 30, r.Spawned)
	assert.Equal(t, 90*time.Second, r.Duration())
	assert.InDelta(t, 0.9, r.Accuracy(), 1e-9)
}

func TestNewResult_UniqueIDs(t *testing.T) {
	r1 := NewResult("s", "a", game.OutcomeWin, 100, game.Stats{}, time.Now())
	r2 := NewResult("s", "a", game.OutcomeWin, 100, game.Stats{}, time.Now())

	assert.NotEqual(t, r1.ID, r2.ID)
}

func TestAccuracy_NoDrops(t *testing.T) {
	r := &Result{}
	assert.Zero(t, r.Accuracy())
}

func TestResult_MarshalJSON(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	r := Result{
		ID:              "r-1",
		Outcome:         "win",
		FinalBalance:    100.05,
		SortedCorrect:   3,
		SortedIncorrect: 1,
		StartedAt:       started,
		EndedAt:         started.Add(1500 * time.Millisecond),
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "r-1", got["id"])
	assert.Equal(t, "win", got["outcome"])
	assert.Equal(t, 100.05, got["final_balance"])
	assert.Equal(t, 1500.0, got["duration_ms"])
	assert.Equal(t, 0.75, got["accuracy"])

	var back Result
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r.ID, back.ID)
	assert.True(t, r.EndedAt.Equal(back.EndedAt))
}
