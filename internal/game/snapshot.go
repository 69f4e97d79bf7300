package game

import "sort"

// ItemView is an item as the renderer sees it.
type ItemView struct {
	Item
	Asset string `json:"asset,omitempty"`
}

// Snapshot is the state a renderer consumes each frame. It shares no memory
// with the Session.
type Snapshot struct {
	State         State         `json:"state"`
	Running       bool          `json:"running"`
	Balance       float64       `json:"balance"`
	BeltSpeed     float64       `json:"belt_speed"`
	SpeedTier     int           `json:"speed_tier"`
	NextSpeedAt   float64       `json:"next_speed_at"`
	Backlog       int           `json:"backlog"`
	PhysicsActive int           `json:"physics_active"`
	Items         []ItemView    `json:"items"`
	DraggedID     *int          `json:"dragged_id,omitempty"`
	Crushing      []int         `json:"crushing"`
	ErrorEffects  []ErrorEffect `json:"error_effects"`
	SpeedUp       *Celebration  `json:"speed_up,omitempty"`
	Win           bool          `json:"win"`
	Stats         Stats         `json:"stats"`
}

// Snapshot copies the current state for rendering.
func (s *Session) Snapshot() Snapshot {
	sc := s.tuning.Scoring
	tier := sc.SpeedTier(s.balance)
	census := Census(s.items, s.tuning.Conveyor.BacklogX)

	snap := Snapshot{
		State:         s.state,
		Running:       s.Running(),
		Balance:       s.balance,
		BeltSpeed:     s.speed,
		SpeedTier:     tier,
		NextSpeedAt:   float64(tier+1) * sc.TierStep,
		Backlog:       census.Backlog,
		PhysicsActive: census.PhysicsActive,
		Items:         make([]ItemView, 0, len(s.items)),
		Crushing:      make([]int, 0, len(s.crushing)),
		ErrorEffects:  make([]ErrorEffect, len(s.errorEffects)),
		Win:           s.winActive,
		Stats:         s.stats,
	}
	copy(snap.ErrorEffects, s.errorEffects)
	for _, it := range s.items {
		snap.Items = append(snap.Items, ItemView{Item: *it, Asset: s.assets.Resolve(*it)})
	}
	if s.dragging {
		id := s.draggedID
		snap.DraggedID = &id
	}
	for id := range s.crushing {
		snap.Crushing = append(snap.Crushing, id)
	}
	sort.Ints(snap.Crushing)
	if s.speedUp != nil {
		c := *s.speedUp
		snap.SpeedUp = &c
	}
	return snap
}
