package game

import "time"

// Spawner gates item creation to a fixed cadence. The cadence does not
// follow belt speed: difficulty comes from transport speed, not density.
type Spawner struct {
	Interval time.Duration
	last     time.Time
}

// NewSpawner creates a spawner that fires on its first check.
func NewSpawner(interval time.Duration) Spawner {
	return Spawner{Interval: interval}
}

// Due reports whether an item should spawn at now and, if so, records now as
// the last spawn time.
func (s *Spawner) Due(now time.Time) bool {
	if !s.last.IsZero() && now.Sub(s.last) <= s.Interval {
		return false
	}
	s.last = now
	return true
}

// LastSpawn returns the time of the most recent spawn.
func (s *Spawner) LastSpawn() time.Time {
	return s.last
}

// Reset makes the next check fire immediately.
func (s *Spawner) Reset() {
	s.last = time.Time{}
}
