package game

import (
	"encoding/json"
	"fmt"
)

type Material int

const (
	MaterialPlastic Material = iota + 1
	MaterialAluminum
	MaterialGlass
)

func (m Material) String() string {
	switch m {
	case MaterialPlastic:
		return "plastic"
	case MaterialAluminum:
		return "aluminum"
	case MaterialGlass:
		return "glass"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes Material as a string.
func (m Material) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON deserializes Material from a string.
func (m *Material) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "plastic":
		*m = MaterialPlastic
	case "aluminum":
		*m = MaterialAluminum
	case "glass":
		*m = MaterialGlass
	default:
		return fmt.Errorf("unknown material %q", s)
	}
	return nil
}

// IsDeposit reports whether the material belongs to the deposit return scheme.
func (m Material) IsDeposit() bool {
	return m == MaterialPlastic || m == MaterialAluminum
}

type Container int

const (
	ContainerBottle Container = iota + 1
	ContainerCan
)

func (c Container) String() string {
	switch c {
	case ContainerBottle:
		return "bottle"
	case ContainerCan:
		return "can"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes Container as a string.
func (c Container) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// ContainerFor derives the container shape from the material.
func ContainerFor(m Material) Container {
	if m == MaterialAluminum {
		return ContainerCan
	}
	return ContainerBottle
}

// GlassColor is only set for glass items. The zero value means "no color".
type GlassColor int

const (
	ColorNone GlassColor = iota
	ColorGreen
	ColorClear
	ColorBrown
)

var glassColors = []GlassColor{ColorGreen, ColorClear, ColorBrown}

func (c GlassColor) String() string {
	switch c {
	case ColorGreen:
		return "green"
	case ColorClear:
		return "clear"
	case ColorBrown:
		return "brown"
	default:
		return ""
	}
}

// MarshalJSON serializes GlassColor as a string.
func (c GlassColor) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// Transport is the motion regime of an item.
type Transport int

const (
	// TransportOnBelt items move by a fixed decrement per main tick.
	TransportOnBelt Transport = iota
	// TransportSettling items carry a velocity integrated by the physics tick.
	TransportSettling
	// TransportSettled items are at rest and skipped by both conveyor and physics.
	TransportSettled
)

func (t Transport) String() string {
	switch t {
	case TransportOnBelt:
		return "on_belt"
	case TransportSettling:
		return "settling"
	case TransportSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes Transport as a string.
func (t Transport) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Item is a sortable bottle or can.
type Item struct {
	ID           int        `json:"id"`
	Material     Material   `json:"material"`
	Container    Container  `json:"container"`
	Color        GlassColor `json:"color,omitempty"`
	DepositValue int        `json:"deposit_value,omitempty"` // cents
	X            float64    `json:"x"`
	Y            float64    `json:"y"`
	Rotation     float64    `json:"rotation"` // degrees
	VX           float64    `json:"vx"`
	VY           float64    `json:"vy"`
	Transport    Transport  `json:"transport"`
}

// NewItem builds a well-formed item at the origin. It panics on a
// material/attribute combination that cannot exist.
func NewItem(id int, material Material, color GlassColor, depositValue int) Item {
	switch material {
	case MaterialPlastic:
		if color != ColorNone || (depositValue != 15 && depositValue != 25) {
			panic(fmt.Sprintf("game: invalid plastic item color=%v deposit=%d", color, depositValue))
		}
	case MaterialAluminum:
		if color != ColorNone || depositValue != 15 {
			panic(fmt.Sprintf("game: invalid aluminum item color=%v deposit=%d", color, depositValue))
		}
	case MaterialGlass:
		if color == ColorNone || depositValue != 0 {
			panic(fmt.Sprintf("game: invalid glass item color=%v deposit=%d", color, depositValue))
		}
	default:
		panic(fmt.Sprintf("game: unknown material %d", material))
	}
	return Item{
		ID:           id,
		Material:     material,
		Container:    ContainerFor(material),
		Color:        color,
		DepositValue: depositValue,
		Transport:    TransportOnBelt,
	}
}

func (it *Item) IsSettled() bool {
	return it.Transport == TransportSettled
}

// InPhysics reports whether the physics tick integrates this item.
func (it *Item) InPhysics() bool {
	return it.Transport == TransportSettling
}

// startSettling hands the item over to the physics integrator.
func (it *Item) startSettling(vx, vy float64) {
	it.VX = vx
	it.VY = vy
	it.Transport = TransportSettling
}

func (it *Item) settle() {
	it.VX = 0
	it.VY = 0
	it.Transport = TransportSettled
}
