package eventlog

import (
	"log/slog"
	"time"

	"github.com/ugaemi/binsort-server/internal/game"
)

// Entry is one journal line.
type Entry struct {
	SessionID string        `json:"session_id"`
	Kind      string        `json:"kind"`
	ItemID    int           `json:"item_id"`
	Material  game.Material `json:"material,omitempty"`
	Speed     float64       `json:"speed,omitempty"`
	Milestone float64       `json:"milestone,omitempty"`
	Balance   float64       `json:"balance"`
	At        time.Time     `json:"at"`
}

// Journal records the core events of every session into one writer.
type Journal struct {
	w *JSONLZstdWriter
}

// NewJournal writes events-<hour>.jsonl.zst files under dir.
func NewJournal(dir string) *Journal {
	return &Journal{w: NewJSONLZstdWriter(dir, "events")}
}

// Sink returns an EventSink that tags events with sessionID.
func (j *Journal) Sink(sessionID string) game.EventSink {
	return game.EventSinkFunc(func(e game.Event) {
		j.Record(sessionID, e)
	})
}

// Record appends one event. Write failures are logged and dropped so the
// game never stalls on disk.
func (j *Journal) Record(sessionID string, e game.Event) {
	entry := Entry{
		SessionID: sessionID,
		Kind:      e.Kind.String(),
		ItemID:    e.ItemID,
		Material:  e.Material,
		Speed:     e.Speed,
		Milestone: e.Milestone,
		Balance:   e.Balance,
		At:        e.At,
	}
	if err := j.w.Write(entry); err != nil {
		slog.Error("event journal write failed", "session", sessionID, "kind", entry.Kind, "error", err)
	}
}

func (j *Journal) Close() error {
	return j.w.Close()
}
