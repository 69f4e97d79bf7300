package game

import "math"

type bodyState struct {
	x, y      float64
	transport Transport
}

type impulse struct {
	vx, vy float64
}

// StepPhysics integrates every settling item by one physics tick and returns
// the ids of items that came to rest. Each item reads the positions every
// other item had at the start of the tick.
//
// Pairwise repulsion is O(n²); item counts stay well under twenty before the
// backlog check ends the game.
func StepPhysics(items []*Item, rng Random, p PhysicsTuning, vp ViewportTuning) []int {
	prev := make([]bodyState, len(items))
	for i, it := range items {
		prev[i] = bodyState{x: it.X, y: it.Y, transport: it.Transport}
	}

	rightEdge := vp.Width - vp.RightEdgeInset
	wakes := make(map[int]impulse)
	var settled []int

	for i, it := range items {
		if !it.InPhysics() {
			continue
		}

		vx, vy := it.VX, it.VY
		if it.Y > p.GroundLevel {
			vy += p.Gravity
		}
		vx *= p.Friction
		vy *= p.Friction

		newX := it.X + vx
		newY := math.Max(p.GroundLevel, it.Y+vy)
		rot := it.Rotation + vx*p.RotationPerVelocity

		if newY <= p.GroundLevel && vy < 0 {
			newY = p.GroundLevel
			vy = math.Abs(vy) * p.BounceDamping
		}

		if newX < p.WallX {
			newX = p.WallX
			vx = math.Abs(vx) * p.WallRestitution
			rot += jitter(rng, p.WallImpactJitter)
		}

		if newX > rightEdge {
			newX = rightEdge
			vx = -math.Abs(vx) * p.EdgeRestitution
		}

		for j, other := range prev {
			if j == i {
				continue
			}
			dx := newX - other.x
			dy := newY - other.y
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist <= 0 || dist >= p.MinItemDistance {
				continue
			}

			push := (p.MinItemDistance - dist) * p.PushStrength
			pushX := dx / dist * push
			pushY := dy / dist * push

			newX += pushX
			newY = math.Max(p.GroundLevel, newY+pushY)
			vx += pushX * p.PushVelocityShare
			vy += pushY * p.PushVelocityShare

			// A resting neighbour gets the opposite share and wakes up.
			if other.transport == TransportSettled {
				w := wakes[j]
				w.vx -= pushX * p.PushVelocityShare
				w.vy -= pushY * p.PushVelocityShare
				wakes[j] = w
			}

			if newX < p.WallX {
				newX = p.WallX
				vx = math.Abs(vx) * p.PushWallRestitution
			}
		}

		it.X = newX
		it.Y = newY
		it.Rotation = rot
		it.VX = vx
		it.VY = vy

		if math.Abs(vx) < p.SettleVelocity && math.Abs(vy) < p.SettleVelocity && newY <= p.GroundLevel+p.SettleHeight {
			it.settle()
			settled = append(settled, it.ID)
		}
	}

	for j, w := range wakes {
		if it := items[j]; it.IsSettled() {
			it.startSettling(w.vx, w.vy)
		}
	}

	return settled
}
