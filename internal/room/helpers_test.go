package room

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ugaemi/binsort-server/internal/game"
	"github.com/ugaemi/binsort-server/internal/result"
	"github.com/ugaemi/binsort-server/internal/ws"
)

// mockClient creates a ws.Client with a buffered Send channel for testing.
func mockClient(id string) *ws.Client {
	return &ws.Client{
		ID:   id,
		Send: make(chan []byte, 4096),
	}
}

// drainMessages reads all pending messages from a client's send channel.
func drainMessages(client *ws.Client) []ws.Message {
	var msgs []ws.Message
	for {
		select {
		case data := <-client.Send:
			var msg ws.Message
			if err := json.Unmarshal(data, &msg); err == nil {
				msgs = append(msgs, msg)
			}
		default:
			return msgs
		}
	}
}

// waitForMessage keeps draining until a message matching ok arrives.
func waitForMessage(t *testing.T, client *ws.Client, ok func(ws.Message) bool) ws.Message {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case data := <-client.Send:
			var msg ws.Message
			require.NoError(t, json.Unmarshal(data, &msg))
			if ok(msg) {
				return msg
			}
		case <-deadline:
			t.Fatal("timed out waiting for message")
			return ws.Message{}
		}
	}
}

func isType(msgType string) func(ws.Message) bool {
	return func(m ws.Message) bool { return m.Type == msgType }
}

func isEvent(kind string) func(ws.Message) bool {
	return func(m ws.Message) bool {
		if m.Type != ws.TypeEvent {
			return false
		}
		var e struct {
			Kind string `json:"kind"`
		}
		return json.Unmarshal(m.Data, &e) == nil && e.Kind == kind
	}
}

// fastTuning ticks every 10ms so tests do not wait on real cadence.
func fastTuning() *game.Tuning {
	t := game.DefaultTuning()
	t.Timing.MainTickMs = 10
	t.Timing.PhysicsTickMs = 10
	return t
}

// fastSpawnTuning also spawns an item every few ticks.
func fastSpawnTuning() *game.Tuning {
	t := fastTuning()
	t.Timing.SpawnIntervalMs = 20
	return t
}

// instantGameOver ends the game on the first main tick.
func instantGameOver() *game.Tuning {
	t := fastTuning()
	t.Conveyor.BacklogX = 10_000
	t.Conveyor.MaxBacklog = 0
	return t
}

type fakeRecorder struct {
	results chan *result.Result
	err     error
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{results: make(chan *result.Result, 16)}
}

func (f *fakeRecorder) Record(_ context.Context, r *result.Result) error {
	f.results <- r
	return f.err
}

type fakeJournal struct {
	mu     sync.Mutex
	events map[string][]game.Event
}

func (j *fakeJournal) Sink(sessionID string) game.EventSink {
	return game.EventSinkFunc(func(e game.Event) {
		j.mu.Lock()
		defer j.mu.Unlock()
		if j.events == nil {
			j.events = make(map[string][]game.Event)
		}
		j.events[sessionID] = append(j.events[sessionID], e)
	})
}

func (j *fakeJournal) count(sessionID string) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.events[sessionID])
}

// startRoom runs a room until the test ends.
func startRoom(t *testing.T, owner Sender, opts Options) *Room {
	t.Helper()
	if opts.Seed == 0 {
		opts.Seed = 7
	}
	r := NewRoom("TESTS", "tester", owner, opts)
	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-r.Done()
		r.WaitRecords()
	})
	return r
}

// waitForItem polls snapshots until at least one item is on the belt.
func waitForItem(t *testing.T, r *Room) game.ItemView {
	t.Helper()
	return waitForItemWhere(t, r, func(game.ItemView) bool { return true })
}

// waitForItemWhere polls snapshots until an item matching ok is on the belt.
func waitForItemWhere(t *testing.T, r *Room, ok func(game.ItemView) bool) game.ItemView {
	t.Helper()
	var item game.ItemView
	require.Eventually(t, func() bool {
		snap, err := r.Snapshot(context.Background())
		if err != nil {
			return false
		}
		for _, it := range snap.Items {
			if ok(it) {
				item = it
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond)
	return item
}

func correctBin(it game.Item) string {
	if it.Material.IsDeposit() {
		return "drs"
	}
	return it.Color.String()
}

func wrongBin(it game.Item) string {
	if it.Material.IsDeposit() {
		return "green"
	}
	return "drs"
}
