package game

// ConveyorResult summarizes the belt after one transport pass.
type ConveyorResult struct {
	Backlog       int // items within BacklogX of the origin
	PhysicsActive int // items currently integrated by physics
}

// Overflowing reports whether the pile is too large to keep playing.
func (r ConveyorResult) Overflowing(c ConveyorTuning) bool {
	return r.Backlog > c.MaxBacklog || r.PhysicsActive > c.MaxPhysicsActive
}

// StepConveyor advances every non-settled item by one main tick. Blocking is
// decided against the positions at the start of the pass so the outcome does
// not depend on item order.
func StepConveyor(items []*Item, speed float64, rng Random, c ConveyorTuning) ConveyorResult {
	prevX := make([]float64, len(items))
	for i, it := range items {
		prevX[i] = it.X
	}

	for i, it := range items {
		if it.IsSettled() {
			continue
		}

		if blockedAhead(prevX, i, c.BlockDistance) {
			it.startSettling(c.BlockedVelocityX, 0)
			it.Rotation = jitter(rng, c.BlockedJitter)
			continue
		}

		newX := it.X - speed*c.BeltStep
		if newX <= c.WallX {
			it.X = c.WallX
			it.startSettling(c.WallBounceVelocityX, 0)
			it.Rotation = jitter(rng, c.WallJitter)
			continue
		}
		it.X = newX
	}

	return Census(items, c.BacklogX)
}

// Census counts backlog and physics-active items.
func Census(items []*Item, backlogX float64) ConveyorResult {
	var res ConveyorResult
	for _, it := range items {
		if it.X <= backlogX {
			res.Backlog++
		}
		if it.InPhysics() {
			res.PhysicsActive++
		}
	}
	return res
}

// blockedAhead checks for another item strictly ahead (smaller x) within reach.
func blockedAhead(xs []float64, i int, reach float64) bool {
	x := xs[i]
	for j, other := range xs {
		if j == i {
			continue
		}
		if other < x && x-other < reach {
			return true
		}
	}
	return false
}
