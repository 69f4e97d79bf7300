package game

// Category split of freshly spawned items.
const (
	plasticShare  = 0.4
	aluminumShare = 0.3
)

var plasticDeposits = []int{15, 25}

const aluminumDeposit = 15

// NewRandomItem creates the next item for the belt. Plastic bottles make up
// 40% of spawns, aluminum cans 30% and glass bottles the rest.
func NewRandomItem(id int, rng Random, vp ViewportTuning) Item {
	var item Item
	r := rng.Float64()
	switch {
	case r < plasticShare:
		item = NewItem(id, MaterialPlastic, ColorNone, plasticDeposits[rng.Intn(len(plasticDeposits))])
	case r < plasticShare+aluminumShare:
		item = NewItem(id, MaterialAluminum, ColorNone, aluminumDeposit)
	default:
		item = NewItem(id, MaterialGlass, glassColors[rng.Intn(len(glassColors))], 0)
	}
	item.X = vp.Width + vp.SpawnMargin
	item.Y = 0
	return item
}
