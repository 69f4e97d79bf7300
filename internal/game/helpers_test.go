package game

import "time"

// scriptedRandom replays fixed draws, then falls back to the midpoint so
// jitter is zero.
type scriptedRandom struct {
	floats []float64
	ints   []int
}

func (r *scriptedRandom) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.5
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRandom) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

// recorder captures everything the session emits.
type recorder struct {
	events []Event
	sounds []Sound
}

func (r *recorder) Emit(e Event) { r.events = append(r.events, e) }
func (r *recorder) Play(s Sound) { r.sounds = append(r.sounds, s) }

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) soundCount(s Sound) int {
	n := 0
	for _, got := range r.sounds {
		if got == s {
			n++
		}
	}
	return n
}

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestSession(rng Random) (*Session, *recorder) {
	rec := &recorder{}
	if rng == nil {
		rng = &scriptedRandom{}
	}
	s := NewSession(t0, WithRandom(rng), WithEventSink(rec), WithAudioSink(rec))
	return s, rec
}

// place puts items on the belt directly and holds back the spawner until
// the next interval.
func place(s *Session, now time.Time, items ...Item) {
	for i := range items {
		it := items[i]
		s.items = append(s.items, &it)
		if it.ID >= s.nextItemID {
			s.nextItemID = it.ID + 1
		}
	}
	s.spawner.last = now
}

func plastic(id int, deposit int, x float64) Item {
	it := NewItem(id, MaterialPlastic, ColorNone, deposit)
	it.X = x
	return it
}

func glass(id int, color GlassColor, x float64) Item {
	it := NewItem(id, MaterialGlass, color, 0)
	it.X = x
	return it
}
