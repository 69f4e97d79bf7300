package game

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Tuning holds every numeric knob of the simulation. DefaultTuning mirrors
// the constants in constants.go; a YAML file may override any subset.
type Tuning struct {
	Viewport ViewportTuning `yaml:"viewport"`
	Conveyor ConveyorTuning `yaml:"conveyor"`
	Physics  PhysicsTuning  `yaml:"physics"`
	Scoring  ScoringTuning  `yaml:"scoring"`
	Timing   TimingTuning   `yaml:"timing"`
}

type ViewportTuning struct {
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	SpawnMargin    float64 `yaml:"spawn_margin"`
	RightEdgeInset float64 `yaml:"right_edge_inset"`
}

type ConveyorTuning struct {
	BeltStep            float64 `yaml:"belt_step"`
	BlockDistance       float64 `yaml:"block_distance"`
	WallX               float64 `yaml:"wall_x"`
	BacklogX            float64 `yaml:"backlog_x"`
	MaxBacklog          int     `yaml:"max_backlog"`
	MaxPhysicsActive    int     `yaml:"max_physics_active"`
	BlockedVelocityX    float64 `yaml:"blocked_velocity_x"`
	WallBounceVelocityX float64 `yaml:"wall_bounce_velocity_x"`
	BlockedJitter       float64 `yaml:"blocked_jitter"`
	WallJitter          float64 `yaml:"wall_jitter"`
}

type PhysicsTuning struct {
	Gravity             float64 `yaml:"gravity"`
	Friction            float64 `yaml:"friction"`
	BounceDamping       float64 `yaml:"bounce_damping"`
	GroundLevel         float64 `yaml:"ground_level"`
	WallX               float64 `yaml:"wall_x"`
	WallRestitution     float64 `yaml:"wall_restitution"`
	EdgeRestitution     float64 `yaml:"edge_restitution"`
	PushWallRestitution float64 `yaml:"push_wall_restitution"`
	WallImpactJitter    float64 `yaml:"wall_impact_jitter"`
	RotationPerVelocity float64 `yaml:"rotation_per_velocity"`
	MinItemDistance     float64 `yaml:"min_item_distance"`
	PushStrength        float64 `yaml:"push_strength"`
	PushVelocityShare   float64 `yaml:"push_velocity_share"`
	SettleVelocity      float64 `yaml:"settle_velocity"`
	SettleHeight        float64 `yaml:"settle_height"`
}

type ScoringTuning struct {
	WrongBinPenalty float64 `yaml:"wrong_bin_penalty"`
	TierStep        float64 `yaml:"tier_step"`
	TierSpeedBonus  float64 `yaml:"tier_speed_bonus"`
	MaxBeltSpeed    float64 `yaml:"max_belt_speed"`
	WinBalance      float64 `yaml:"win_balance"`
}

// TimingTuning is expressed in milliseconds, like the YAML it is read from.
type TimingTuning struct {
	MainTickMs      int `yaml:"main_tick_ms"`
	PhysicsTickMs   int `yaml:"physics_tick_ms"`
	SpawnIntervalMs int `yaml:"spawn_interval_ms"`
	ChimeDelayMs    int `yaml:"chime_delay_ms"`
	CrushEffectMs   int `yaml:"crush_effect_ms"`
	ErrorEffectMs   int `yaml:"error_effect_ms"`
	CelebrationMs   int `yaml:"celebration_ms"`
	WinResetDelayMs int `yaml:"win_reset_delay_ms"`
}

// DefaultTuning returns the stock game balance.
func DefaultTuning() *Tuning {
	return &Tuning{
		Viewport: ViewportTuning{
			Width:          ViewportWidth,
			Height:         ViewportHeight,
			SpawnMargin:    SpawnMargin,
			RightEdgeInset: RightEdgeInset,
		},
		Conveyor: ConveyorTuning{
			BeltStep:            BeltStep,
			BlockDistance:       BlockDistance,
			WallX:               WallX,
			BacklogX:            BacklogX,
			MaxBacklog:          MaxBacklog,
			MaxPhysicsActive:    MaxPhysicsActive,
			BlockedVelocityX:    BlockedVelocityX,
			WallBounceVelocityX: WallBounceVelocityX,
			BlockedJitter:       BlockedJitter,
			WallJitter:          WallJitter,
		},
		Physics: PhysicsTuning{
			Gravity:             Gravity,
			Friction:            Friction,
			BounceDamping:       BounceDamping,
			GroundLevel:         GroundLevel,
			WallX:               WallX,
			WallRestitution:     WallRestitution,
			EdgeRestitution:     EdgeRestitution,
			PushWallRestitution: PushWallRestitution,
			WallImpactJitter:    WallImpactJitter,
			RotationPerVelocity: RotationPerVelocity,
			MinItemDistance:     MinItemDistance,
			PushStrength:        PushStrength,
			PushVelocityShare:   PushVelocityShare,
			SettleVelocity:      SettleVelocity,
			SettleHeight:        SettleHeight,
		},
		Scoring: ScoringTuning{
			WrongBinPenalty: WrongBinPenalty,
			TierStep:        TierStep,
			TierSpeedBonus:  TierSpeedBonus,
			MaxBeltSpeed:    MaxBeltSpeed,
			WinBalance:      WinBalance,
		},
		Timing: TimingTuning{
			MainTickMs:      int(MainTickInterval / time.Millisecond),
			PhysicsTickMs:   int(PhysicsTickInterval / time.Millisecond),
			SpawnIntervalMs: int(SpawnInterval / time.Millisecond),
			ChimeDelayMs:    int(SuccessChimeDelay / time.Millisecond),
			CrushEffectMs:   int(CrushEffectDuration / time.Millisecond),
			ErrorEffectMs:   int(ErrorEffectDuration / time.Millisecond),
			CelebrationMs:   int(CelebrationDuration / time.Millisecond),
			WinResetDelayMs: int(WinResetDelay / time.Millisecond),
		},
	}
}

// LoadTuning reads a YAML file on top of DefaultTuning. An empty path yields
// the defaults.
func LoadTuning(path string) (*Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, t); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Validate rejects values that would stall or explode the simulation.
func (t *Tuning) Validate() error {
	switch {
	case t.Viewport.Width <= 0 || t.Viewport.Height <= 0:
		return fmt.Errorf("viewport must be positive")
	case t.Conveyor.BeltStep <= 0:
		return fmt.Errorf("conveyor.belt_step must be positive")
	case t.Physics.Friction <= 0 || t.Physics.Friction > 1:
		return fmt.Errorf("physics.friction must be in (0, 1]")
	case t.Scoring.TierStep <= 0:
		return fmt.Errorf("scoring.tier_step must be positive")
	case t.Scoring.MaxBeltSpeed < 1:
		return fmt.Errorf("scoring.max_belt_speed must be >= 1")
	case t.Timing.MainTickMs <= 0 || t.Timing.PhysicsTickMs <= 0 || t.Timing.SpawnIntervalMs <= 0:
		return fmt.Errorf("timing intervals must be positive")
	}
	return nil
}

func (t TimingTuning) MainTick() time.Duration    { return ms(t.MainTickMs) }
func (t TimingTuning) PhysicsTick() time.Duration { return ms(t.PhysicsTickMs) }
func (t TimingTuning) Spawn() time.Duration       { return ms(t.SpawnIntervalMs) }
func (t TimingTuning) Chime() time.Duration       { return ms(t.ChimeDelayMs) }
func (t TimingTuning) CrushEffect() time.Duration { return ms(t.CrushEffectMs) }
func (t TimingTuning) ErrorEffect() time.Duration { return ms(t.ErrorEffectMs) }
func (t TimingTuning) Celebration() time.Duration { return ms(t.CelebrationMs) }
func (t TimingTuning) WinReset() time.Duration    { return ms(t.WinResetDelayMs) }

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
