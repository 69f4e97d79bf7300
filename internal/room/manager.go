package room

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Manager manages all active rooms. A client owns at most one room and may
// watch at most one other.
type Manager struct {
	opts Options
	ctx  context.Context

	rooms    map[string]*Room // code -> room
	owned    map[string]*Room // owner client id -> room
	watching map[string]*Room // watcher client id -> room
	mu       sync.RWMutex
	wg       sync.WaitGroup
}

// NewManager creates a room manager. Rooms stop when ctx is done.
func NewManager(ctx context.Context, opts Options) *Manager {
	return &Manager{
		opts:     opts,
		ctx:      ctx,
		rooms:    make(map[string]*Room),
		owned:    make(map[string]*Room),
		watching: make(map[string]*Room),
	}
}

// StartSession replaces any room the client owns with a fresh one and starts
// its loop.
func (m *Manager) StartSession(clientID, nickname string, owner Sender) *Room {
	m.mu.Lock()
	if old, ok := m.owned[clientID]; ok {
		m.removeLocked(old)
		delete(m.owned, clientID)
	}
	code := GenerateCode(func(c string) bool {
		_, taken := m.rooms[c]
		return taken
	})
	r := NewRoom(code, nickname, owner, m.opts)
	m.rooms[code] = r
	m.owned[clientID] = r
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		r.Run(m.ctx)
	}()

	slog.Info("room created", "code", code, "session", r.ID, "client", clientID)
	return r
}

// Watch subscribes a client to the room with the given code.
func (m *Manager) Watch(clientID, code string, s Sender) (*Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[strings.ToUpper(code)]
	if !ok {
		return nil, false
	}
	if prev, ok := m.watching[clientID]; ok {
		prev.RemoveWatcher(clientID)
	}
	r.AddWatcher(clientID, s)
	m.watching[clientID] = r
	return r, true
}

// RoomFor returns the room the client owns, or nil.
func (m *Manager) RoomFor(clientID string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.owned[clientID]
}

// GetRoom returns a room by its code.
func (m *Manager) GetRoom(code string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[strings.ToUpper(code)]
}

// Leave stops the client's own room and drops its spectator subscription.
func (m *Manager) Leave(clientID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.watching[clientID]; ok {
		r.RemoveWatcher(clientID)
		delete(m.watching, clientID)
	}
	if r, ok := m.owned[clientID]; ok {
		m.removeLocked(r)
		delete(m.owned, clientID)
	}
}

// RoomCount returns the number of active rooms.
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// Shutdown stops every room and waits for their loops and pending result
// writes to finish.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
		m.removeLocked(r)
	}
	m.mu.Unlock()

	m.wg.Wait()
	for _, r := range rooms {
		r.WaitRecords()
	}
}

// removeLocked stops a room and forgets it. Caller must hold m.mu.
func (m *Manager) removeLocked(r *Room) {
	r.Stop()
	delete(m.rooms, r.Code)
	for id, w := range m.watching {
		if w == r {
			delete(m.watching, id)
		}
	}
	slog.Info("room removed", "code", r.Code, "session", r.ID)
}
