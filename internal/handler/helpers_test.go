package handler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ugaemi/binsort-server/internal/game"
	"github.com/ugaemi/binsort-server/internal/room"
	"github.com/ugaemi/binsort-server/internal/ws"
)

type sentMessage struct {
	Type string
	Data json.RawMessage
}

// newTestClient creates a client whose sent messages are decoded onto ch.
func newTestClient(id string) (*ws.Client, chan sentMessage) {
	ch := make(chan sentMessage, 10)
	client := &ws.Client{
		ID:   id,
		Send: make(chan []byte, 256),
	}

	// Read sent messages in background
	go func() {
		for data := range client.Send {
			var msg sentMessage
			json.Unmarshal(data, &msg)
			ch <- msg
		}
	}()

	return client, ch
}

// readResponse returns the next message of the given type, skipping the
// game_state stream.
func readResponse(t *testing.T, ch chan sentMessage, msgType string) sentMessage {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-ch:
			if msg.Type == msgType {
				return msg
			}
		case <-deadline:
			t.Fatalf("timeout waiting for %s", msgType)
			return sentMessage{}
		}
	}
}

func errorText(t *testing.T, msg sentMessage) string {
	t.Helper()
	var e ws.ErrorMessage
	if err := json.Unmarshal(msg.Data, &e); err != nil {
		t.Fatalf("decode error message: %v", err)
	}
	return e.Message
}

func send(r *Router, client *ws.Client, raw string) {
	r.HandleMessage(&ws.ClientMessage{Client: client, Data: []byte(raw)})
}

func setupRouter(t *testing.T) (*Router, *room.Manager) {
	t.Helper()
	tuning := game.DefaultTuning()
	tuning.Timing.MainTickMs = 10
	tuning.Timing.PhysicsTickMs = 10

	ctx, cancel := context.WithCancel(context.Background())
	rm := room.NewManager(ctx, room.Options{Tuning: tuning, Seed: 11})
	t.Cleanup(func() {
		cancel()
		rm.Shutdown()
	})
	return NewRouter(rm, tuning), rm
}
