package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/ugaemi/binsort-server/internal/game"
	"github.com/ugaemi/binsort-server/internal/room"
	"github.com/ugaemi/binsort-server/internal/ws"
)

// Router dispatches incoming messages to the appropriate handler.
type Router struct {
	session  *SessionHandler
	gameplay *GameplayHandler
}

// NewRouter creates a new message router.
func NewRouter(rm *room.Manager, tuning *game.Tuning) *Router {
	return &Router{
		session:  NewSessionHandler(rm, tuning),
		gameplay: NewGameplayHandler(rm),
	}
}

// HandleMessage parses and routes an incoming client message.
func (r *Router) HandleMessage(cm *ws.ClientMessage) {
	var msg ws.Message
	if err := json.Unmarshal(cm.Data, &msg); err != nil {
		slog.Warn("invalid message format", "client", cm.Client.ID, "error", err)
		cm.Client.SendMessage(ws.NewErrorMessage("invalid message format"))
		return
	}

	switch msg.Type {
	// Session messages
	case ws.TypeStartSession:
		r.session.HandleStartSession(cm.Client, msg)
	case ws.TypeWatchSession:
		r.session.HandleWatchSession(cm.Client, msg)
	case ws.TypeLeaveSession:
		r.session.HandleLeaveSession(cm.Client, msg)

	// Gameplay messages
	case ws.TypeDragStart:
		r.gameplay.HandleDragStart(cm.Client, msg)
	case ws.TypeDrop:
		r.gameplay.HandleDrop(cm.Client, msg)
	case ws.TypePause:
		r.gameplay.HandlePause(cm.Client, msg)
	case ws.TypeResume:
		r.gameplay.HandleResume(cm.Client, msg)
	case ws.TypeRestart:
		r.gameplay.HandleRestart(cm.Client, msg)

	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", cm.Client.ID)
		cm.Client.SendMessage(ws.NewErrorMessage("unknown message type: " + msg.Type))
	}
}

// HandleDisconnect handles client disconnection.
func (r *Router) HandleDisconnect(client *ws.Client) {
	r.session.HandleDisconnect(client)
}
