package room

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ugaemi/binsort-server/internal/game"
	"github.com/ugaemi/binsort-server/internal/result"
	"github.com/ugaemi/binsort-server/internal/ws"
)

// recordTimeout bounds how long a finished run may wait on the result store.
const recordTimeout = 5 * time.Second

// ErrClosed is returned for commands sent to a room that has stopped.
var ErrClosed = errors.New("room closed")

// Sender receives messages for one connected client. *ws.Client satisfies it.
type Sender interface {
	SendMessage(msg ws.Message)
}

// ResultRecorder persists finished runs. store.ResultStore satisfies it.
type ResultRecorder interface {
	Record(ctx context.Context, r *result.Result) error
}

// Journal hands out a per-session event sink. *eventlog.Journal satisfies it.
type Journal interface {
	Sink(sessionID string) game.EventSink
}

// Options are shared by every room a Manager creates.
type Options struct {
	Tuning  *game.Tuning
	Seed    int64 // 0 seeds each room from the clock
	Assets  game.AssetResolver
	Results ResultRecorder
	Journal Journal
	Now     func() time.Time
}

// Room owns one Session on a single goroutine. Ticks and player commands
// are serialized through Run, so the Session needs no locking.
type Room struct {
	ID       string
	Code     string
	Nickname string

	session *game.Session
	opts    Options

	owner    Sender
	watchers map[string]Sender
	mu       sync.RWMutex

	inbox    chan command
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	records  sync.WaitGroup

	// recordedRun is the start time of the last run a result was taken for.
	recordedRun time.Time
}

// NewRoom creates a room for one player. The game starts when Run is called.
func NewRoom(code, nickname string, owner Sender, opts Options) *Room {
	if opts.Tuning == nil {
		opts.Tuning = game.DefaultTuning()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	r := &Room{
		ID:       uuid.New().String(),
		Code:     code,
		Nickname: nickname,
		opts:     opts,
		owner:    owner,
		watchers: make(map[string]Sender),
		inbox:    make(chan command, 64),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	sinks := game.MultiSink{game.EventSinkFunc(r.onEvent)}
	if opts.Journal != nil {
		sinks = append(sinks, opts.Journal.Sink(r.ID))
	}
	sessionOpts := []game.Option{
		game.WithTuning(opts.Tuning),
		game.WithRandom(game.NewRandom(opts.Seed)),
		game.WithEventSink(sinks),
		game.WithAudioSink(game.AudioSinkFunc(r.onSound)),
	}
	if opts.Assets != nil {
		sessionOpts = append(sessionOpts, game.WithAssetResolver(opts.Assets))
	}
	r.session = game.NewSession(opts.Now(), sessionOpts...)
	return r
}

// Run drives the session until ctx is done or Stop is called.
func (r *Room) Run(ctx context.Context) {
	defer close(r.done)

	timing := r.opts.Tuning.Timing
	var mainTicker, physicsTicker *time.Ticker
	var mainC, physicsC <-chan time.Time

	// syncTickers starts or stops each ticker to match the session state.
	// Physics runs only while the game runs; outside of it the main ticker
	// stays up as long as delayed effects are still pending.
	syncTickers := func() {
		state := r.session.State()
		wantMain := state == game.StateRunning || r.session.HasPendingTimers()
		wantPhysics := state == game.StateRunning

		if wantMain && mainTicker == nil {
			mainTicker = time.NewTicker(timing.MainTick())
			mainC = mainTicker.C
		} else if !wantMain && mainTicker != nil {
			mainTicker.Stop()
			mainTicker, mainC = nil, nil
		}
		if wantPhysics && physicsTicker == nil {
			physicsTicker = time.NewTicker(timing.PhysicsTick())
			physicsC = physicsTicker.C
		} else if !wantPhysics && physicsTicker != nil {
			physicsTicker.Stop()
			physicsTicker, physicsC = nil, nil
		}
	}
	defer func() {
		if mainTicker != nil {
			mainTicker.Stop()
		}
		if physicsTicker != nil {
			physicsTicker.Stop()
		}
	}()

	slog.Info("session started", "session", r.ID, "code", r.Code, "nickname", r.Nickname)
	syncTickers()
	r.broadcastState()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session stopped", "session", r.ID, "reason", ctx.Err())
			return
		case <-r.quit:
			slog.Info("session stopped", "session", r.ID, "reason", "quit")
			return
		case cmd := <-r.inbox:
			r.handleCommand(cmd)
		case <-mainC:
			r.session.MainTick(r.opts.Now())
			r.broadcastState()
		case <-physicsC:
			r.session.PhysicsTick(r.opts.Now())
		}
		syncTickers()
	}
}

// Stop ends Run. It is safe to call more than once.
func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
}

// Done is closed when Run has returned.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

// WaitRecords blocks until every pending result write has finished.
func (r *Room) WaitRecords() {
	r.records.Wait()
}

// AddWatcher subscribes a spectator to the room's broadcasts.
func (r *Room) AddWatcher(clientID string, s Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watchers[clientID] = s
}

// RemoveWatcher unsubscribes a spectator.
func (r *Room) RemoveWatcher(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.watchers, clientID)
}

// WatcherCount returns the number of spectators.
func (r *Room) WatcherCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.watchers)
}

// BroadcastMessage sends a message to the owner and every watcher.
func (r *Room) BroadcastMessage(msg ws.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.owner != nil {
		r.owner.SendMessage(msg)
	}
	for _, w := range r.watchers {
		w.SendMessage(msg)
	}
}

func (r *Room) broadcastState() {
	msg, err := ws.NewMessage(ws.TypeGameState, r.session.Snapshot())
	if err != nil {
		slog.Error("failed to encode game state", "session", r.ID, "error", err)
		return
	}
	r.BroadcastMessage(msg)
}

// onEvent runs on the room goroutine, inside a session call.
func (r *Room) onEvent(e game.Event) {
	msg, err := ws.NewMessage(ws.TypeEvent, e)
	if err == nil {
		r.BroadcastMessage(msg)
	}

	switch e.Kind {
	case game.EventGameOver:
		slog.Info("game over", "session", r.ID, "balance", e.Balance)
		r.recordResult(game.OutcomeGameOver, e)
	case game.EventBalanceReachedWin:
		slog.Info("balance goal reached", "session", r.ID, "balance", e.Balance)
		r.recordResult(game.OutcomeWin, e)
	case game.EventSpeedTierReached:
		slog.Debug("speed tier reached", "session", r.ID, "speed", e.Speed, "milestone", e.Milestone)
	}
}

type soundMessage struct {
	Sound game.Sound `json:"sound"`
}

func (r *Room) onSound(s game.Sound) {
	msg, err := ws.NewMessage(ws.TypeSound, soundMessage{Sound: s})
	if err == nil {
		r.BroadcastMessage(msg)
	}
}

// recordResult writes the finished run off the room goroutine.
// A run yields at most one result: a game over during the win celebration
// is not recorded again.
func (r *Room) recordResult(outcome game.Outcome, e game.Event) {
	stats := r.session.Stats()
	if !r.recordedRun.IsZero() && r.recordedRun.Equal(stats.StartedAt) {
		slog.Debug("result already recorded for run", "session", r.ID, "outcome", outcome)
		return
	}
	r.recordedRun = stats.StartedAt
	if r.opts.Results == nil {
		return
	}
	res := result.NewResult(r.ID, r.Nickname, outcome, e.Balance, stats, e.At)

	r.records.Add(1)
	go func() {
		defer r.records.Done()
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := r.opts.Results.Record(ctx, res); err != nil {
			slog.Error("failed to record result", "session", r.ID, "error", err)
			return
		}
		slog.Info("result recorded", "session", r.ID, "result", res.ID, "outcome", res.Outcome)
	}()
}
