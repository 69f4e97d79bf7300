package game

import "time"

// Viewport (belt-local units, must match the browser client)
const (
	ViewportWidth  = 1280.0
	ViewportHeight = 720.0
	SpawnMargin    = 100.0 // items enter this far beyond the right edge
	RightEdgeInset = 20.0
)

// Conveyor transport
const (
	BeltStep            = 1.5  // units per main tick at speed 1
	BlockDistance       = 40.0 // horizontal reach of the "item ahead" check
	WallX               = 50.0
	BacklogX            = 80.0
	MaxBacklog          = 8
	MaxPhysicsActive    = 12
	BlockedVelocityX    = -0.3
	WallBounceVelocityX = 0.2
	BlockedJitter       = 2.0 // ± degrees
	WallJitter          = 3.0 // ± degrees
)

// Physics settling
const (
	Gravity             = 0.08
	Friction            = 0.92
	BounceDamping       = 0.05
	GroundLevel         = 0.0
	WallRestitution     = 0.3
	EdgeRestitution     = 0.3
	PushWallRestitution = 0.2
	WallImpactJitter    = 2.5 // ± degrees
	RotationPerVelocity = 0.01
	MinItemDistance     = 35.0
	PushStrength        = 0.03
	PushVelocityShare   = 0.15
	SettleVelocity      = 0.05
	SettleHeight        = 1.0
)

// Scoring and speed tiers
const (
	WrongBinPenalty = 0.5   // euros
	TierStep        = 5.0   // euros per speed tier
	TierSpeedBonus  = 0.2   // multiplier added per tier
	MaxBeltSpeed    = 3.0   // multiplier cap
	WinBalance      = 100.0 // euros
)

// Timing
const (
	MainTickInterval    = 60 * time.Millisecond
	PhysicsTickInterval = 50 * time.Millisecond
	SpawnInterval       = 2500 * time.Millisecond
	SuccessChimeDelay   = 200 * time.Millisecond
	CrushEffectDuration = 600 * time.Millisecond
	ErrorEffectDuration = 1000 * time.Millisecond
	CelebrationDuration = 3000 * time.Millisecond
	WinResetDelay       = 3000 * time.Millisecond
)
