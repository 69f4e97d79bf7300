package game

import (
	"math/rand"
	"time"
)

// Random is the randomness the simulation draws from. *rand.Rand satisfies it.
type Random interface {
	Float64() float64
	Intn(n int) int
}

// NewRandom returns a seeded source. A zero seed picks one from the clock.
func NewRandom(seed int64) Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// jitter returns a uniform value in [-spread, spread).
func jitter(rng Random, spread float64) float64 {
	return (rng.Float64() - 0.5) * 2 * spread
}

// EventSink receives core events. Implementations must not block.
type EventSink interface {
	Emit(e Event)
}

// AudioSink plays feedback sounds. Implementations must not block and must
// tolerate missing audio resources on their own.
type AudioSink interface {
	Play(s Sound)
}

// AssetResolver picks the image a renderer should use for an item. An empty
// string means no asset is available.
type AssetResolver interface {
	Resolve(item Item) string
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(e Event)

func (f EventSinkFunc) Emit(e Event) { f(e) }

// AudioSinkFunc adapts a function to AudioSink.
type AudioSinkFunc func(s Sound)

func (f AudioSinkFunc) Play(s Sound) { f(s) }

// MultiSink fans an event out to every non-nil sink in order.
type MultiSink []EventSink

func (m MultiSink) Emit(e Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(e)
		}
	}
}

type nopSink struct{}

func (nopSink) Emit(Event)          {}
func (nopSink) Play(Sound)          {}
func (nopSink) Resolve(Item) string { return "" }
