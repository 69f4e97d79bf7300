package handler

import (
	"errors"
	"log/slog"

	"github.com/ugaemi/binsort-server/internal/room"
	"github.com/ugaemi/binsort-server/internal/ws"
)

// GameplayHandler forwards in-game input to the client's room.
type GameplayHandler struct {
	rm *room.Manager
}

// NewGameplayHandler creates a new gameplay handler.
func NewGameplayHandler(rm *room.Manager) *GameplayHandler {
	return &GameplayHandler{rm: rm}
}

type dragStartRequest struct {
	ItemID *int `json:"item_id"`
}

type dropRequest struct {
	ItemID *int   `json:"item_id"`
	Bin    string `json:"bin"`
}

// HandleDragStart records which item the player picked up.
func (h *GameplayHandler) HandleDragStart(client *ws.Client, msg ws.Message) {
	var req dragStartRequest
	if err := msg.Decode(&req); err != nil || req.ItemID == nil {
		client.SendMessage(ws.NewErrorMessage("item_id is required"))
		return
	}
	h.withRoom(client, func(r *room.Room) error {
		return r.DragStart(*req.ItemID)
	})
}

// HandleDrop sorts an item into a bin. Unknown bins and items are passed
// through; the session ignores them.
func (h *GameplayHandler) HandleDrop(client *ws.Client, msg ws.Message) {
	var req dropRequest
	if err := msg.Decode(&req); err != nil || req.ItemID == nil {
		client.SendMessage(ws.NewErrorMessage("item_id is required"))
		return
	}
	h.withRoom(client, func(r *room.Room) error {
		return r.Drop(*req.ItemID, req.Bin)
	})
}

func (h *GameplayHandler) HandlePause(client *ws.Client, _ ws.Message) {
	h.withRoom(client, (*room.Room).Pause)
}

func (h *GameplayHandler) HandleResume(client *ws.Client, _ ws.Message) {
	h.withRoom(client, (*room.Room).Resume)
}

func (h *GameplayHandler) HandleRestart(client *ws.Client, _ ws.Message) {
	h.withRoom(client, (*room.Room).Restart)
}

// withRoom runs fn against the room the client owns.
func (h *GameplayHandler) withRoom(client *ws.Client, fn func(r *room.Room) error) {
	r := h.rm.RoomFor(client.ID)
	if r == nil {
		client.SendMessage(ws.NewErrorMessage("no active session"))
		return
	}
	if err := fn(r); err != nil {
		if errors.Is(err, room.ErrClosed) {
			client.SendMessage(ws.NewErrorMessage("session has ended"))
			return
		}
		slog.Error("room command failed", "client", client.ID, "session", r.ID, "error", err)
	}
}
