package sim

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/kinetic/components"
)

// distanceFloorSq is the squared-distance floor below which a contact has
// no meaningful normal and the response is skipped.
const distanceFloorSq = 0.01

// pushEpsilon is the extra separation added when pushing a particle out of
// a body, so the next step starts contact-free.
const pushEpsilon = 0.01

// absorbRelocateAttempts bounds the search for a respawn point outside all
// absorbing circles before falling back to the fixed edge position.
const absorbRelocateAttempts = 20

// collideShape resolves particle i against one body. (px, py) is the
// particle's pre-step position, needed for the swept rectangle fallback.
func (s *Simulation) collideShape(i int, px, py float32, e ecs.Entity) {
	tf := s.tfMap.Get(e)

	if rect := s.rectMap.Get(e); rect != nil {
		rot := s.rotMap.Get(e)
		if rot.Angle == 0 && rot.Speed == 0 {
			s.collideStaticRect(i, px, py, tf, rect)
		} else {
			s.collideRotatingRect(i, tf, rot, rect)
		}
		return
	}

	circ := s.circMap.Get(e)
	switch circ.Mode {
	case components.CircleGhost:
		// Visual-only body, never collides.
	case components.CircleAbsorbing:
		s.absorbParticle(i, tf, circ, s.motMap.Get(e))
	default:
		s.collideCircle(i, tf, circ, s.motMap.Get(e))
	}
}

// collideStaticRect runs the closest-point-on-AABB test against an
// axis-aligned rectangle, with a swept-segment fallback for particles
// fast enough to tunnel straight through.
func (s *Simulation) collideStaticRect(i int, px, py float32, tf *components.Transform, rect *components.Rect) {
	minX := tf.X - rect.W*0.5
	maxX := tf.X + rect.W*0.5
	minY := tf.Y - rect.H*0.5
	maxY := tf.Y + rect.H*0.5

	x := s.positions[2*i]
	y := s.positions[2*i+1]

	cx := clamp32(x, minX, maxX)
	cy := clamp32(y, minY, maxY)
	dx := x - cx
	dy := y - cy
	d2 := dx*dx + dy*dy

	if d2 < s.radius*s.radius {
		var nx, ny, depth float32

		if d2 > distanceFloorSq {
			// Center outside the rectangle: normal points from the
			// closest surface point to the center.
			d := float32(math.Sqrt(float64(d2)))
			nx = dx / d
			ny = dy / d
			depth = s.radius - d
		} else {
			// Center inside: push out through the nearest face.
			nx, ny, depth = nearestFaceNormal(x, y, minX, maxX, minY, maxY)
			depth += s.radius
		}

		s.positions[2*i] += nx * (depth + pushEpsilon)
		s.positions[2*i+1] += ny * (depth + pushEpsilon)
		if s.reflectOffRect(i, nx, ny, rect) {
			s.collector.RecordShapeHit()
		}
		return
	}

	// Swept fallback: the endpoint test missed but the motion segment
	// crossed the radius-padded rectangle, so the particle tunneled.
	if segmentCrossesAABB(px, py, x, y, minX-s.radius, maxX+s.radius, minY-s.radius, maxY+s.radius) {
		vx := s.velocities[2*i]
		vy := s.velocities[2*i+1]

		if abs32(vx) > abs32(vy) {
			if vx > 0 {
				s.positions[2*i] = minX - s.radius - pushEpsilon
			} else {
				s.positions[2*i] = maxX + s.radius + pushEpsilon
			}
			s.velocities[2*i] = -vx * s.damping * rect.BounceX
		} else {
			if vy > 0 {
				s.positions[2*i+1] = minY - s.radius - pushEpsilon
			} else {
				s.positions[2*i+1] = maxY + s.radius + pushEpsilon
			}
			s.velocities[2*i+1] = -vy * s.damping * rect.BounceY
		}
		s.collector.RecordShapeHit()
	}
}

// reflectOffRect reflects the velocity component along the contact normal,
// scaled by the global damping and the rectangle's bounce coefficient for
// the dominant axis. Reports whether a reflection was applied; a particle
// already separating keeps its velocity.
func (s *Simulation) reflectOffRect(i int, nx, ny float32, rect *components.Rect) bool {
	vx := s.velocities[2*i]
	vy := s.velocities[2*i+1]

	vn := vx*nx + vy*ny
	if vn >= 0 {
		return false
	}

	bounce := rect.BounceX
	if abs32(ny) > abs32(nx) {
		bounce = rect.BounceY
	}

	k := (1 + s.damping*bounce) * vn
	s.velocities[2*i] = vx - k*nx
	s.velocities[2*i+1] = vy - k*ny
	return true
}

// collideRotatingRect transforms the particle into the rectangle's local
// frame, runs the same closest-point test, and reflects the velocity
// relative to the moving surface so a spinning rectangle imparts energy.
func (s *Simulation) collideRotatingRect(i int, tf *components.Transform, rot *components.Rotation, rect *components.Rect) {
	sin := float32(math.Sin(float64(rot.Angle)))
	cos := float32(math.Cos(float64(rot.Angle)))

	// World -> local (inverse rotation about the rectangle center).
	wx := s.positions[2*i] - tf.X
	wy := s.positions[2*i+1] - tf.Y
	lx := wx*cos + wy*sin
	ly := -wx*sin + wy*cos

	hw := rect.W * 0.5
	hh := rect.H * 0.5

	cx := clamp32(lx, -hw, hw)
	cy := clamp32(ly, -hh, hh)
	dx := lx - cx
	dy := ly - cy
	d2 := dx*dx + dy*dy

	if d2 >= s.radius*s.radius {
		return
	}

	var lnx, lny, depth float32
	if d2 > distanceFloorSq {
		d := float32(math.Sqrt(float64(d2)))
		lnx = dx / d
		lny = dy / d
		depth = s.radius - d
	} else {
		lnx, lny, depth = nearestFaceNormal(lx, ly, -hw, hw, -hh, hh)
		depth += s.radius
	}

	// Local -> world.
	nx := lnx*cos - lny*sin
	ny := lnx*sin + lny*cos

	s.positions[2*i] += nx * (depth + pushEpsilon)
	s.positions[2*i+1] += ny * (depth + pushEpsilon)

	// Surface velocity at the contact point: omega x r.
	contactX := cx*cos - cy*sin
	contactY := cx*sin + cy*cos
	surfVX := -rot.Speed * contactY
	surfVY := rot.Speed * contactX

	relVX := s.velocities[2*i] - surfVX
	relVY := s.velocities[2*i+1] - surfVY

	vn := relVX*nx + relVY*ny
	if vn >= 0 {
		return
	}

	bounce := rect.BounceX
	if abs32(lny) > abs32(lnx) {
		bounce = rect.BounceY
	}

	k := (1 + s.damping*bounce) * vn
	s.velocities[2*i] = relVX - k*nx + surfVX
	s.velocities[2*i+1] = relVY - k*ny + surfVY
	s.collector.RecordShapeHit()
}

// collideCircle resolves particle i against a static or movable circle:
// push-out along the center-to-center normal, then either a mass-weighted
// elastic impulse (movable) or a damped reflection (static).
func (s *Simulation) collideCircle(i int, tf *components.Transform, circ *components.Circle, mot *components.Motion) {
	dx := s.positions[2*i] - tf.X
	dy := s.positions[2*i+1] - tf.Y
	rsum := circ.R + s.radius
	d2 := dx*dx + dy*dy

	if d2 >= rsum*rsum || d2 < distanceFloorSq {
		return
	}

	d := float32(math.Sqrt(float64(d2)))
	nx := dx / d
	ny := dy / d

	s.positions[2*i] += nx * (rsum - d + pushEpsilon)
	s.positions[2*i+1] += ny * (rsum - d + pushEpsilon)

	vx := s.velocities[2*i]
	vy := s.velocities[2*i+1]

	if circ.Mode == components.CircleMovable {
		relVN := (vx-mot.VX)*nx + (vy-mot.VY)*ny
		if relVN >= 0 {
			return
		}

		// Fully elastic momentum split between particle and circle.
		impulse := 2 * relVN / (s.mass + circ.Mass)
		s.velocities[2*i] = vx - impulse*circ.Mass*nx
		s.velocities[2*i+1] = vy - impulse*circ.Mass*ny
		mot.VX += impulse * s.mass * nx
		mot.VY += impulse * s.mass * ny
	} else {
		vn := vx*nx + vy*ny
		if vn >= 0 {
			return
		}
		k := (1 + s.damping) * vn
		s.velocities[2*i] = vx - k*nx
		s.velocities[2*i+1] = vy - k*ny
	}

	s.collector.RecordShapeHit()
}

// absorbParticle handles absorbing circles: on penetration the particle's
// momentum transfers into the circle (scaled by the mass ratio) and the
// particle respawns at a random point outside every absorbing circle with
// a fresh random velocity. This models absorption and re-emission, not a
// bounce.
func (s *Simulation) absorbParticle(i int, tf *components.Transform, circ *components.Circle, mot *components.Motion) {
	dx := s.positions[2*i] - tf.X
	dy := s.positions[2*i+1] - tf.Y
	rsum := circ.R + s.radius

	if dx*dx+dy*dy >= rsum*rsum {
		return
	}

	if circ.Mass > 0 {
		mot.VX += s.velocities[2*i] * s.mass / circ.Mass
		mot.VY += s.velocities[2*i+1] * s.mass / circ.Mass
	}

	x, y := s.relocationPoint()
	s.positions[2*i] = x
	s.positions[2*i+1] = y

	speed := 50 + s.rng.Float32()*100
	angle := s.rng.Float32() * 2 * math.Pi
	s.velocities[2*i] = float32(math.Cos(float64(angle))) * speed
	s.velocities[2*i+1] = float32(math.Sin(float64(angle))) * speed

	s.collector.RecordAbsorbed()
}

// relocationPoint picks a random point outside every absorbing circle,
// falling back to a fixed left-edge position when the attempt budget runs
// out.
func (s *Simulation) relocationPoint() (float32, float32) {
	for attempt := 0; attempt < absorbRelocateAttempts; attempt++ {
		x := s.rng.Float32() * s.width
		y := s.rng.Float32() * s.height
		if !s.insideAnyAbsorber(x, y) {
			return x, y
		}
	}
	return s.radius, s.height * 0.5
}

// insideAnyAbsorber reports whether the point is within any absorbing
// circle's radius.
func (s *Simulation) insideAnyAbsorber(x, y float32) bool {
	for _, e := range s.shapes {
		circ := s.circMap.Get(e)
		if circ == nil || circ.Mode != components.CircleAbsorbing {
			continue
		}
		tf := s.tfMap.Get(e)
		dx := x - tf.X
		dy := y - tf.Y
		if dx*dx+dy*dy < circ.R*circ.R {
			return true
		}
	}
	return false
}

// resolvePairs rebuilds the spatial hash and runs the particle-particle
// broad and narrow phases.
func (s *Simulation) resolvePairs() {
	s.grid.Clear()

	n := s.activeCount()
	for i := 0; i < n; i++ {
		s.grid.Insert(s.positions[2*i], s.positions[2*i+1], int32(i))
	}

	minDist := 2 * s.radius
	minDistSq := minDist * minDist
	restitution := 0.5 + s.damping*0.5

	s.grid.ForEachPair(func(a, b int32) {
		s.resolveParticlePair(int(a), int(b), minDist, minDistSq, restitution)
	})
}

// resolveParticlePair separates an overlapping pair symmetrically along
// the contact normal and applies an elastic impulse when approaching.
func (s *Simulation) resolveParticlePair(a, b int, minDist, minDistSq, restitution float32) {
	dx := s.positions[2*b] - s.positions[2*a]
	dy := s.positions[2*b+1] - s.positions[2*a+1]
	d2 := dx*dx + dy*dy

	if d2 >= minDistSq || d2 < distanceFloorSq {
		return
	}

	d := float32(math.Sqrt(float64(d2)))
	nx := dx / d
	ny := dy / d

	half := (minDist - d) * 0.5
	s.positions[2*a] -= nx * half
	s.positions[2*a+1] -= ny * half
	s.positions[2*b] += nx * half
	s.positions[2*b+1] += ny * half

	relVN := (s.velocities[2*b]-s.velocities[2*a])*nx + (s.velocities[2*b+1]-s.velocities[2*a+1])*ny
	if relVN >= 0 {
		return
	}

	// Equal particle masses: each side takes half the impulse.
	j := (1 + restitution) * relVN * 0.5
	s.velocities[2*a] += j * nx
	s.velocities[2*a+1] += j * ny
	s.velocities[2*b] -= j * nx
	s.velocities[2*b+1] -= j * ny

	s.collector.RecordPairCollision()
}

// nearestFaceNormal returns the outward normal and distance of the face
// closest to a point inside an AABB.
func nearestFaceNormal(x, y, minX, maxX, minY, maxY float32) (nx, ny, dist float32) {
	left := x - minX
	right := maxX - x
	top := y - minY
	bottom := maxY - y

	nx, ny, dist = -1, 0, left
	if right < dist {
		nx, ny, dist = 1, 0, right
	}
	if top < dist {
		nx, ny, dist = 0, -1, top
	}
	if bottom < dist {
		nx, ny, dist = 0, 1, bottom
	}
	return nx, ny, dist
}

// segmentCrossesAABB reports whether the segment (x0,y0)->(x1,y1) enters
// the rectangle, via the slab method.
func segmentCrossesAABB(x0, y0, x1, y1, minX, maxX, minY, maxY float32) bool {
	dx := x1 - x0
	dy := y1 - y0

	tMin := float32(0)
	tMax := float32(1)

	if dx == 0 {
		if x0 < minX || x0 > maxX {
			return false
		}
	} else {
		t1 := (minX - x0) / dx
		t2 := (maxX - x0) / dx
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = max32(tMin, t1)
		tMax = min32(tMax, t2)
		if tMin > tMax {
			return false
		}
	}

	if dy == 0 {
		if y0 < minY || y0 > maxY {
			return false
		}
	} else {
		t1 := (minY - y0) / dy
		t2 := (maxY - y0) / dy
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = max32(tMin, t1)
		tMax = min32(tMax, t2)
		if tMin > tMax {
			return false
		}
	}

	return true
}

func clamp32(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
