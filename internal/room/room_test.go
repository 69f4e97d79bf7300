package room

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ugaemi/binsort-server/internal/game"
	"github.com/ugaemi/binsort-server/internal/ws"
)

func TestRoom_BroadcastsGameState(t *testing.T) {
	c := mockClient("owner")
	startRoom(t, c, Options{Tuning: fastTuning()})

	msg := waitForMessage(t, c, func(m ws.Message) bool {
		if m.Type != ws.TypeGameState {
			return false
		}
		var snap struct {
			State string `json:"state"`
			Items []struct {
				ID int `json:"id"`
			} `json:"items"`
		}
		return json.Unmarshal(m.Data, &snap) == nil && len(snap.Items) > 0
	})

	var snap map[string]any
	require.NoError(t, json.Unmarshal(msg.Data, &snap))
	assert.Equal(t, "running", snap["state"])
	assert.Equal(t, true, snap["running"])
}

func TestRoom_EmitsSpawnEventAndJournal(t *testing.T) {
	c := mockClient("owner")
	j := &fakeJournal{}
	r := startRoom(t, c, Options{Tuning: fastTuning(), Journal: j})

	waitForMessage(t, c, isEvent("item_spawned"))
	assert.Eventually(t, func() bool { return j.count(r.ID) > 0 }, time.Second, 5*time.Millisecond)
}

func TestRoom_CorrectDrop(t *testing.T) {
	c := mockClient("owner")
	r := startRoom(t, c, Options{Tuning: fastSpawnTuning()})
	item := waitForItemWhere(t, r, func(it game.ItemView) bool { return it.Material.IsDeposit() })

	require.NoError(t, r.DragStart(item.ID))
	require.NoError(t, r.Drop(item.ID, correctBin(item.Item)))

	waitForMessage(t, c, func(m ws.Message) bool {
		if m.Type != ws.TypeSound {
			return false
		}
		var s struct {
			Sound string `json:"sound"`
		}
		return json.Unmarshal(m.Data, &s) == nil && s.Sound == game.CrushSound(item.Material).String()
	})
	waitForMessage(t, c, isEvent("correct_sort"))

	snap, err := r.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, game.Reward(item.Item), snap.Balance)
	assert.Greater(t, snap.Balance, 0.0)
	assert.Equal(t, 1, snap.Stats.SortedCorrect)
	assert.Nil(t, snap.DraggedID)
}

func TestRoom_IncorrectDrop(t *testing.T) {
	c := mockClient("owner")
	r := startRoom(t, c, Options{Tuning: fastTuning()})
	item := waitForItem(t, r)

	require.NoError(t, r.Drop(item.ID, wrongBin(item.Item)))
	waitForMessage(t, c, isEvent("incorrect_sort"))

	snap, err := r.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Zero(t, snap.Balance)
	assert.Equal(t, 1, snap.Stats.SortedIncorrect)
}

func TestRoom_PauseFreezesBelt(t *testing.T) {
	c := mockClient("owner")
	r := startRoom(t, c, Options{Tuning: fastTuning()})
	waitForItem(t, r)

	require.NoError(t, r.Pause())
	before, err := r.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, game.StatePaused, before.State)

	time.Sleep(60 * time.Millisecond)
	after, err := r.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before.Items, after.Items)

	require.NoError(t, r.Resume())
	resumed, err := r.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, game.StateRunning, resumed.State)
}

func TestRoom_PausedRoomExpiresDelayedEffects(t *testing.T) {
	tuning := fastTuning()
	tuning.Timing.ChimeDelayMs = 30
	tuning.Timing.CrushEffectMs = 40
	c := mockClient("owner")
	r := startRoom(t, c, Options{Tuning: tuning})
	item := waitForItem(t, r)

	require.NoError(t, r.Drop(item.ID, correctBin(item.Item)))
	require.NoError(t, r.Pause())
	paused, err := r.Snapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, game.StatePaused, paused.State)

	waitForMessage(t, c, func(m ws.Message) bool {
		if m.Type != ws.TypeSound {
			return false
		}
		var s struct {
			Sound string `json:"sound"`
		}
		return json.Unmarshal(m.Data, &s) == nil && s.Sound == game.SoundSuccess.String()
	})
	assert.Eventually(t, func() bool {
		snap, err := r.Snapshot(context.Background())
		return err == nil && len(snap.Crushing) == 0
	}, time.Second, 5*time.Millisecond)

	after, err := r.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, game.StatePaused, after.State)
	assert.Equal(t, paused.Items, after.Items)
}

func TestRoom_RecordsOneResultPerRun(t *testing.T) {
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	now := func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	rec := newFakeRecorder()
	r := NewRoom("TESTS", "tester", mockClient("owner"), Options{Results: rec, Now: now})

	r.onEvent(game.Event{Kind: game.EventBalanceReachedWin, Balance: 100.05, At: now()})
	r.onEvent(game.Event{Kind: game.EventGameOver, Balance: 100.05, At: now()})

	r.session.Restart(now())
	r.onEvent(game.Event{Kind: game.EventGameOver, Balance: 2, At: now()})
	r.WaitRecords()

	require.Len(t, rec.results, 2)
	balances := map[string]float64{}
	for range 2 {
		res := <-rec.results
		balances[res.Outcome] = res.FinalBalance
	}
	assert.Equal(t, map[string]float64{"win": 100.05, "game_over": 2}, balances)
}

func TestRoom_GameOverRecordsResult(t *testing.T) {
	c := mockClient("owner")
	rec := newFakeRecorder()
	r := startRoom(t, c, Options{Tuning: instantGameOver(), Results: rec})

	waitForMessage(t, c, isEvent("game_over"))

	select {
	case res := <-rec.results:
		assert.Equal(t, r.ID, res.SessionID)
		assert.Equal(t, "tester", res.Nickname)
		assert.Equal(t, "game_over", res.Outcome)
		assert.Equal(t, 1, res.Spawned)
		assert.False(t, res.EndedAt.Before(res.StartedAt))
	case <-time.After(2 * time.Second):
		t.Fatal("result not recorded")
	}

	snap, err := r.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, game.StateGameOver, snap.State)
	assert.False(t, snap.Running)
}

func TestRoom_RestartAfterGameOver(t *testing.T) {
	c := mockClient("owner")
	r := startRoom(t, c, Options{Tuning: instantGameOver()})
	waitForMessage(t, c, isEvent("game_over"))

	require.NoError(t, r.Restart())

	waitForMessage(t, c, func(m ws.Message) bool {
		if m.Type != ws.TypeGameState {
			return false
		}
		var snap struct {
			State   string            `json:"state"`
			Balance float64           `json:"balance"`
			Items   []json.RawMessage `json:"items"`
		}
		return json.Unmarshal(m.Data, &snap) == nil &&
			snap.State == "running" && len(snap.Items) == 0 && snap.Balance == 0
	})
}

func TestRoom_WatcherReceivesBroadcasts(t *testing.T) {
	owner := mockClient("owner")
	watcher := mockClient("watcher")
	r := startRoom(t, owner, Options{Tuning: fastTuning()})

	r.AddWatcher(watcher.ID, watcher)
	assert.Equal(t, 1, r.WatcherCount())
	waitForMessage(t, watcher, isType(ws.TypeGameState))

	r.RemoveWatcher(watcher.ID)
	assert.Equal(t, 0, r.WatcherCount())
	drainMessages(watcher)
	time.Sleep(40 * time.Millisecond)
	assert.Empty(t, drainMessages(watcher))
}

func TestRoom_StoppedRoomRejectsCommands(t *testing.T) {
	r := NewRoom("TESTS", "tester", mockClient("owner"), Options{Tuning: fastTuning()})
	go r.Run(context.Background())

	r.Stop()
	r.Stop()
	<-r.Done()

	assert.ErrorIs(t, r.Drop(1, "drs"), ErrClosed)
	assert.ErrorIs(t, r.Pause(), ErrClosed)
	_, err := r.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRoom_ContextCancelStopsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRoom("TESTS", "tester", mockClient("owner"), Options{Tuning: fastTuning()})
	go r.Run(ctx)

	cancel()
	select {
	case <-r.Done():
	case <-time.After(time.Second):
		t.Fatal("room did not stop")
	}
}
