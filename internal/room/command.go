package room

import (
	"context"
	"log/slog"

	"github.com/ugaemi/binsort-server/internal/game"
)

type command any

type dragStartCmd struct{ itemID int }

type dropCmd struct {
	itemID int
	bin    string
}

type pauseCmd struct{}

type resumeCmd struct{}

type restartCmd struct{}

type snapshotCmd struct{ reply chan game.Snapshot }

// DragStart marks an item as picked up by the player.
func (r *Room) DragStart(itemID int) error {
	return r.send(dragStartCmd{itemID: itemID})
}

// Drop sorts an item into a bin.
func (r *Room) Drop(itemID int, bin string) error {
	return r.send(dropCmd{itemID: itemID, bin: bin})
}

func (r *Room) Pause() error {
	return r.send(pauseCmd{})
}

func (r *Room) Resume() error {
	return r.send(resumeCmd{})
}

// Restart throws away the current game and starts a fresh one.
func (r *Room) Restart() error {
	return r.send(restartCmd{})
}

// Snapshot asks the room goroutine for a copy of the current state.
func (r *Room) Snapshot(ctx context.Context) (game.Snapshot, error) {
	reply := make(chan game.Snapshot, 1)
	if err := r.send(snapshotCmd{reply: reply}); err != nil {
		return game.Snapshot{}, err
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-r.done:
		return game.Snapshot{}, ErrClosed
	case <-ctx.Done():
		return game.Snapshot{}, ctx.Err()
	}
}

func (r *Room) send(cmd command) error {
	select {
	case <-r.done:
		return ErrClosed
	default:
	}
	select {
	case r.inbox <- cmd:
		return nil
	case <-r.done:
		return ErrClosed
	}
}

// handleCommand applies one player command. Every command except a
// snapshot request is followed by a state broadcast.
func (r *Room) handleCommand(cmd command) {
	now := r.opts.Now()
	switch c := cmd.(type) {
	case dragStartCmd:
		r.session.DragStart(c.itemID)
	case dropCmd:
		outcome := r.session.Drop(c.itemID, c.bin, now)
		slog.Debug("drop", "session", r.ID, "item", c.itemID, "bin", c.bin, "outcome", outcome.String())
	case pauseCmd:
		r.session.Pause()
	case resumeCmd:
		r.session.Resume()
	case restartCmd:
		r.session.Restart(now)
		slog.Info("session restarted", "session", r.ID)
	case snapshotCmd:
		c.reply <- r.session.Snapshot()
		return
	default:
		slog.Warn("unknown room command", "session", r.ID)
		return
	}
	r.broadcastState()
}
