package handler

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ugaemi/binsort-server/internal/game"
	"github.com/ugaemi/binsort-server/internal/room"
	"github.com/ugaemi/binsort-server/internal/ws"
)

const maxNicknameLength = 16

// SessionHandler opens, watches and closes game sessions.
type SessionHandler struct {
	rm     *room.Manager
	tuning *game.Tuning
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(rm *room.Manager, tuning *game.Tuning) *SessionHandler {
	if tuning == nil {
		tuning = game.DefaultTuning()
	}
	return &SessionHandler{rm: rm, tuning: tuning}
}

type startSessionRequest struct {
	Nickname string `json:"nickname"`
}

type watchSessionRequest struct {
	Code string `json:"code"`
}

type viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type sessionStartedResponse struct {
	SessionID string   `json:"session_id"`
	Code      string   `json:"code"`
	Nickname  string   `json:"nickname"`
	Spectator bool     `json:"spectator"`
	Viewport  viewport `json:"viewport"`
	Bins      []string `json:"bins"`
}

var binIDs = []string{
	game.BinDRS.String(),
	game.BinGreen.String(),
	game.BinClear.String(),
	game.BinBrown.String(),
}

// HandleStartSession starts a fresh game owned by the client. A game the
// client already owns is discarded.
func (h *SessionHandler) HandleStartSession(client *ws.Client, msg ws.Message) {
	var req startSessionRequest
	if err := msg.Decode(&req); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid session data"))
		return
	}
	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" {
		client.SendMessage(ws.NewErrorMessage("nickname is required"))
		return
	}
	if utf8.RuneCountInString(nickname) > maxNicknameLength {
		client.SendMessage(ws.NewErrorMessage("nickname is too long"))
		return
	}

	r := h.rm.StartSession(client.ID, nickname, client)
	h.sendStarted(client, r, false)

	slog.Info("session opened", "client", client.ID, "nickname", nickname, "code", r.Code)
}

// HandleWatchSession subscribes the client to another player's game.
func (h *SessionHandler) HandleWatchSession(client *ws.Client, msg ws.Message) {
	var req watchSessionRequest
	if err := msg.Decode(&req); err != nil || req.Code == "" {
		client.SendMessage(ws.NewErrorMessage("code is required"))
		return
	}

	r, ok := h.rm.Watch(client.ID, strings.TrimSpace(req.Code), client)
	if !ok {
		client.SendMessage(ws.NewErrorMessage("session not found"))
		return
	}
	h.sendStarted(client, r, true)

	slog.Info("spectator joined", "client", client.ID, "code", r.Code)
}

// HandleLeaveSession ends the client's own game and any spectating.
func (h *SessionHandler) HandleLeaveSession(client *ws.Client, _ ws.Message) {
	h.rm.Leave(client.ID)
}

// HandleDisconnect cleans up after a dropped connection.
func (h *SessionHandler) HandleDisconnect(client *ws.Client) {
	h.rm.Leave(client.ID)
}

func (h *SessionHandler) sendStarted(client *ws.Client, r *room.Room, spectator bool) {
	resp, err := ws.NewMessage(ws.TypeSessionStarted, sessionStartedResponse{
		SessionID: r.ID,
		Code:      r.Code,
		Nickname:  r.Nickname,
		Spectator: spectator,
		Viewport: viewport{
			Width:  h.tuning.Viewport.Width,
			Height: h.tuning.Viewport.Height,
		},
		Bins: binIDs,
	})
	if err != nil {
		slog.Error("failed to encode session_started", "error", err)
		return
	}
	client.SendMessage(resp)
}
