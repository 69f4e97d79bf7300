package game

import "time"

// ErrorEffect marks a wrong drop on screen until it expires.
type ErrorEffect struct {
	ID    int       `json:"id"`
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	Until time.Time `json:"-"`
}

// Celebration is the speed-up banner shown after a tier crossing.
type Celebration struct {
	Speed     float64   `json:"speed"`
	Milestone float64   `json:"milestone"`
	Until     time.Time `json:"-"`
}

// Stats are the running totals of one game.
type Stats struct {
	Spawned         int       `json:"spawned"`
	SortedCorrect   int       `json:"sorted_correct"`
	SortedIncorrect int       `json:"sorted_incorrect"`
	PeakBalance     float64   `json:"peak_balance"`
	PeakTier        int       `json:"peak_tier"`
	StartedAt       time.Time `json:"started_at"`
}

// Session is the authoritative state of one game. It is not safe for
// concurrent use: the owner must call its methods from a single goroutine.
type Session struct {
	tuning *Tuning
	rng    Random
	events EventSink
	audio  AudioSink
	assets AssetResolver

	state      State
	balance    float64
	speed      float64
	items      []*Item
	nextItemID int
	spawner    Spawner
	tiers      TierTracker

	dragging  bool
	draggedID int

	crushing     map[int]time.Time
	errorEffects []ErrorEffect
	nextEffectID int
	speedUp      *Celebration
	winActive    bool
	winResetAt   time.Time
	chimes       []time.Time

	stats Stats
}

// Option configures a Session.
type Option func(*Session)

func WithTuning(t *Tuning) Option {
	return func(s *Session) { s.tuning = t }
}

func WithRandom(r Random) Option {
	return func(s *Session) { s.rng = r }
}

func WithEventSink(e EventSink) Option {
	return func(s *Session) { s.events = e }
}

func WithAudioSink(a AudioSink) Option {
	return func(s *Session) { s.audio = a }
}

func WithAssetResolver(a AssetResolver) Option {
	return func(s *Session) { s.assets = a }
}

// NewSession creates a running game started at now.
func NewSession(now time.Time, opts ...Option) *Session {
	s := &Session{
		tuning: DefaultTuning(),
		events: nopSink{},
		audio:  nopSink{},
		assets: nopSink{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = NewRandom(0)
	}
	s.reset(now)
	return s
}

// reset puts every field back to the start-of-game values.
func (s *Session) reset(now time.Time) {
	s.state = StateRunning
	s.balance = 0
	s.speed = 1
	s.items = nil
	s.nextItemID = 0
	s.spawner = NewSpawner(s.tuning.Timing.Spawn())
	s.tiers.Reset()
	s.dragging = false
	s.draggedID = 0
	s.crushing = make(map[int]time.Time)
	s.errorEffects = nil
	s.nextEffectID = 0
	s.speedUp = nil
	s.winActive = false
	s.winResetAt = time.Time{}
	s.chimes = nil
	s.stats = Stats{StartedAt: now}
}

func (s *Session) State() State         { return s.state }
func (s *Session) Running() bool        { return s.state != StateGameOver }
func (s *Session) Balance() float64     { return s.balance }
func (s *Session) BeltSpeed() float64   { return s.speed }
func (s *Session) Stats() Stats         { return s.stats }
func (s *Session) Tuning() *Tuning      { return s.tuning }
func (s *Session) ItemCount() int       { return len(s.items) }
func (s *Session) WinCelebrating() bool { return s.winActive }

// Item returns a copy of the item with the given id.
func (s *Session) Item(id int) (Item, bool) {
	if i := s.indexOf(id); i >= 0 {
		return *s.items[i], true
	}
	return Item{}, false
}

// HasPendingTimers reports whether a delayed effect is still scheduled.
func (s *Session) HasPendingTimers() bool {
	return len(s.chimes) > 0 || len(s.crushing) > 0 || len(s.errorEffects) > 0 ||
		s.speedUp != nil || s.winActive
}

// MainTick runs one main-loop step: expire delayed effects, then spawn,
// transport and speed recomputation in that order.
func (s *Session) MainTick(now time.Time) {
	s.runTimers(now)
	if s.state != StateRunning {
		return
	}

	if s.spawner.Due(now) {
		s.spawn(now)
	}

	res := StepConveyor(s.items, s.speed, s.rng, s.tuning.Conveyor)
	if res.Overflowing(s.tuning.Conveyor) {
		s.gameOver(now)
	}

	s.updateSpeed(now)
}

// PhysicsTick integrates settling items.
func (s *Session) PhysicsTick(now time.Time) {
	if s.state != StateRunning {
		return
	}
	for _, id := range StepPhysics(s.items, s.rng, s.tuning.Physics, s.tuning.Viewport) {
		s.emit(Event{Kind: EventItemSettled, ItemID: id}, now)
	}
}

// DragStart records the item the player picked up.
func (s *Session) DragStart(itemID int) bool {
	if s.state != StateRunning || s.indexOf(itemID) < 0 {
		return false
	}
	s.dragging = true
	s.draggedID = itemID
	return true
}

// Drop sorts an item into a bin. Unknown bins and unknown items leave the
// session untouched.
func (s *Session) Drop(itemID int, binID string, now time.Time) DropOutcome {
	if s.state != StateRunning {
		return DropIgnored
	}
	bin, ok := ParseBin(binID)
	if !ok {
		return DropIgnored
	}
	idx := s.indexOf(itemID)
	if idx < 0 {
		return DropIgnored
	}

	item := *s.items[idx]
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	if s.dragging && s.draggedID == itemID {
		s.dragging = false
	}

	if IsCorrectBin(item, bin) {
		s.correctDrop(item, now)
		return DropCorrect
	}
	s.incorrectDrop(now)
	return DropIncorrect
}

// Pause suspends ticking. Only a running session can pause.
func (s *Session) Pause() bool {
	if s.state != StateRunning {
		return false
	}
	s.state = StatePaused
	return true
}

// Resume continues a paused session.
func (s *Session) Resume() bool {
	if s.state != StatePaused {
		return false
	}
	s.state = StateRunning
	return true
}

// Restart discards the current game and starts a fresh one from any state.
func (s *Session) Restart(now time.Time) {
	s.reset(now)
}

func (s *Session) spawn(now time.Time) {
	item := NewRandomItem(s.nextItemID, s.rng, s.tuning.Viewport)
	s.items = append(s.items, &item)
	s.nextItemID++
	s.stats.Spawned++
	s.emit(Event{Kind: EventItemSpawned, ItemID: item.ID, Material: item.Material}, now)
}

func (s *Session) gameOver(now time.Time) {
	s.state = StateGameOver
	s.dragging = false
	s.audio.Play(SoundError)
	s.emit(Event{Kind: EventGameOver}, now)
}

func (s *Session) updateSpeed(now time.Time) {
	sc := s.tuning.Scoring
	tier := sc.SpeedTier(s.balance)
	s.speed = sc.SpeedMultiplier(s.balance)
	if !s.tiers.Observe(tier) {
		return
	}

	milestone := float64(tier) * sc.TierStep
	s.speedUp = &Celebration{
		Speed:     s.speed,
		Milestone: milestone,
		Until:     now.Add(s.tuning.Timing.Celebration()),
	}
	if tier > s.stats.PeakTier {
		s.stats.PeakTier = tier
	}
	s.audio.Play(SoundSpeedUp)
	s.emit(Event{Kind: EventSpeedTierReached, Speed: s.speed, Milestone: milestone}, now)
}

func (s *Session) correctDrop(item Item, now time.Time) {
	timing := s.tuning.Timing
	s.crushing[item.ID] = now.Add(timing.CrushEffect())
	s.audio.Play(CrushSound(item.Material))
	s.chimes = append(s.chimes, now.Add(timing.Chime()))

	s.balance = roundCents(s.balance + Reward(item))
	s.stats.SortedCorrect++
	if s.balance > s.stats.PeakBalance {
		s.stats.PeakBalance = s.balance
	}
	s.emit(Event{Kind: EventCorrectSort, ItemID: item.ID, Material: item.Material}, now)

	if s.balance >= s.tuning.Scoring.WinBalance && !s.winActive {
		s.winActive = true
		s.winResetAt = now.Add(timing.WinReset())
		s.audio.Play(SoundSuccess)
		s.emit(Event{Kind: EventBalanceReachedWin}, now)
	}
}

func (s *Session) incorrectDrop(now time.Time) {
	vp := s.tuning.Viewport
	s.audio.Play(SoundError)
	s.nextEffectID++
	s.errorEffects = append(s.errorEffects, ErrorEffect{
		ID:    s.nextEffectID,
		X:     vp.Width / 2,
		Y:     vp.Height / 2,
		Until: now.Add(s.tuning.Timing.ErrorEffect()),
	})

	s.balance = s.tuning.Scoring.Penalize(s.balance)
	s.stats.SortedIncorrect++
	s.emit(Event{Kind: EventIncorrectSort}, now)
}

// runTimers fires or expires every delayed effect whose deadline has passed.
func (s *Session) runTimers(now time.Time) {
	pending := s.chimes[:0]
	for _, at := range s.chimes {
		if now.Before(at) {
			pending = append(pending, at)
			continue
		}
		s.audio.Play(SoundSuccess)
	}
	s.chimes = pending

	for id, until := range s.crushing {
		if !now.Before(until) {
			delete(s.crushing, id)
		}
	}

	effects := s.errorEffects[:0]
	for _, e := range s.errorEffects {
		if now.Before(e.Until) {
			effects = append(effects, e)
		}
	}
	s.errorEffects = effects

	if s.speedUp != nil && !now.Before(s.speedUp.Until) {
		s.speedUp = nil
	}

	if s.winActive && !now.Before(s.winResetAt) {
		s.reset(now)
	}
}

func (s *Session) emit(e Event, now time.Time) {
	e.Balance = s.balance
	e.At = now
	s.events.Emit(e)
}

func (s *Session) indexOf(id int) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
