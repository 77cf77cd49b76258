package sim

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/kinetic/components"
	"github.com/pthm-cable/kinetic/telemetry"
)

// circleVelocityDamping is the per-step drag on movable circles, distinct
// from the global particle damping coefficient.
const circleVelocityDamping = 0.9995

// restoreSpeedFloor is the speed below which constant-speed restoration
// resets to a canonical velocity instead of renormalizing.
const restoreSpeedFloor = 0.01

// Step advances the simulation by one tick. rawDT is elapsed wall time;
// the speed multiplier is applied here and everything downstream sees
// scaled time. The phase order is part of the observable behavior: shape
// updates, emission, force-field rebuild, sensor decay, per-particle
// integration with boundary + shape collision, then the pair pass.
func (s *Simulation) Step(rawDT float32) {
	dt := rawDT * s.speedScale

	s.perfCollector.StartTick()

	s.perfCollector.StartPhase(telemetry.PhaseShapes)
	s.updateShapes(dt)

	s.perfCollector.StartPhase(telemetry.PhaseEmitter)
	if s.emitter != nil {
		emitted := s.emitter.Update(dt, s.positions, s.velocities, s.rng)
		s.collector.RecordEmitted(emitted)
	}

	s.perfCollector.StartPhase(telemetry.PhaseForceField)
	if s.field != nil {
		s.field.Rebuild(s.positions, s.velocities, s.activeCount())
	}

	s.perfCollector.StartPhase(telemetry.PhaseSensor)
	if s.sensor != nil {
		s.sensor.Decay()
	}

	s.perfCollector.StartPhase(telemetry.PhaseIntegrate)
	s.integrate(dt)

	s.perfCollector.StartPhase(telemetry.PhasePairs)
	if s.pairCollisions {
		s.resolvePairs()
	}

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()

	s.tick++
	s.perfCollector.EndTick()
}

// integrate advances each active particle, runs the sensor segment test,
// applies the boundary policy, and resolves collisions against every
// registered body in registration order.
func (s *Simulation) integrate(dt float32) {
	n := s.activeCount()
	for i := 0; i < n; i++ {
		px := s.positions[2*i]
		py := s.positions[2*i+1]

		s.positions[2*i] += s.velocities[2*i] * dt
		s.positions[2*i+1] += s.velocities[2*i+1] * dt

		if s.sensor != nil {
			if s.sensor.Observe(px, py, s.positions[2*i], s.positions[2*i+1]) {
				s.collector.RecordSensorHit()
			}
		}

		s.applyBoundary(i)

		for _, e := range s.shapes {
			s.collideShape(i, px, py, e)
		}
	}
}

// applyBoundary keeps particle i inside the domain under the active policy.
func (s *Simulation) applyBoundary(i int) {
	x := s.positions[2*i]
	y := s.positions[2*i+1]

	if s.boundary == BoundaryWrap {
		s.positions[2*i] = mod32(x, s.width)
		s.positions[2*i+1] = mod32(y, s.height)
		return
	}

	if x < s.radius {
		s.positions[2*i] = s.radius
		s.velocities[2*i] = -s.velocities[2*i] * s.damping
		s.collector.RecordWallBounce()
	} else if x > s.width-s.radius {
		s.positions[2*i] = s.width - s.radius
		s.velocities[2*i] = -s.velocities[2*i] * s.damping
		s.collector.RecordWallBounce()
	}

	if y < s.radius {
		s.positions[2*i+1] = s.radius
		s.velocities[2*i+1] = -s.velocities[2*i+1] * s.damping
		s.collector.RecordWallBounce()
	} else if y > s.height-s.radius {
		s.positions[2*i+1] = s.height - s.radius
		s.velocities[2*i+1] = -s.velocities[2*i+1] * s.damping
		s.collector.RecordWallBounce()
	}
}

// updateShapes advances rotating bodies and movable circles, applies their
// boundary bounces, and resolves movable-circle pair collisions.
func (s *Simulation) updateShapes(dt float32) {
	for _, e := range s.shapes {
		if rot := s.rotMap.Get(e); rot != nil && rot.Speed != 0 {
			rot.Angle += rot.Speed * dt
		}

		circ := s.circMap.Get(e)
		if circ == nil || circ.Mode != components.CircleMovable {
			continue
		}

		tf := s.tfMap.Get(e)
		mot := s.motMap.Get(e)

		tf.X += mot.VX * dt
		tf.Y += mot.VY * dt

		mot.VX *= circleVelocityDamping
		mot.VY *= circleVelocityDamping

		if circ.RestoreSpeed > 0 {
			speed := float32(math.Sqrt(float64(mot.VX*mot.VX + mot.VY*mot.VY)))
			if speed < restoreSpeedFloor {
				mot.VX = circ.RestoreSpeed
				mot.VY = 0
			} else {
				scale := circ.RestoreSpeed / speed
				mot.VX *= scale
				mot.VY *= scale
			}
		}

		s.bounceCircleOffWalls(tf, mot, circ)
	}

	s.resolveMovableCircles()
}

// bounceCircleOffWalls clamps a movable circle into the domain, reflecting
// velocity with its per-axis bounce coefficients.
func (s *Simulation) bounceCircleOffWalls(tf *components.Transform, mot *components.Motion, circ *components.Circle) {
	if tf.X < circ.R {
		tf.X = circ.R
		mot.VX = -mot.VX * circ.BounceX
	} else if tf.X > s.width-circ.R {
		tf.X = s.width - circ.R
		mot.VX = -mot.VX * circ.BounceX
	}

	if tf.Y < circ.R {
		tf.Y = circ.R
		mot.VY = -mot.VY * circ.BounceY
	} else if tf.Y > s.height-circ.R {
		tf.Y = s.height - circ.R
		mot.VY = -mot.VY * circ.BounceY
	}
}

// resolveMovableCircles runs the pairwise movable-circle collision pass in
// registration order: symmetric separation plus a mass-weighted impulse
// when the pair is approaching.
func (s *Simulation) resolveMovableCircles() {
	for a := 0; a < len(s.shapes); a++ {
		ca := s.circMap.Get(s.shapes[a])
		if ca == nil || ca.Mode != components.CircleMovable {
			continue
		}

		for b := a + 1; b < len(s.shapes); b++ {
			cb := s.circMap.Get(s.shapes[b])
			if cb == nil || cb.Mode != components.CircleMovable {
				continue
			}

			s.resolveCirclePair(s.shapes[a], s.shapes[b], ca, cb)
		}
	}
}

// resolveCirclePair separates two overlapping movable circles by half the
// penetration each and applies a mass-weighted elastic impulse with
// restitution derived from the global damping. Coincident centers have no
// meaningful normal and are skipped.
func (s *Simulation) resolveCirclePair(ea, eb ecs.Entity, ca, cb *components.Circle) {
	ta := s.tfMap.Get(ea)
	tb := s.tfMap.Get(eb)

	dx := tb.X - ta.X
	dy := tb.Y - ta.Y
	rsum := ca.R + cb.R
	d2 := dx*dx + dy*dy
	if d2 >= rsum*rsum || d2 < distanceFloorSq {
		return
	}

	d := float32(math.Sqrt(float64(d2)))
	nx := dx / d
	ny := dy / d

	half := (rsum - d) * 0.5
	ta.X -= nx * half
	ta.Y -= ny * half
	tb.X += nx * half
	tb.Y += ny * half

	ma := s.motMap.Get(ea)
	mb := s.motMap.Get(eb)

	relVN := (mb.VX-ma.VX)*nx + (mb.VY-ma.VY)*ny
	if relVN >= 0 {
		return
	}

	e := 0.5 + s.damping*0.5
	j := -(1 + e) * relVN / (1/ca.Mass + 1/cb.Mass)

	ma.VX -= j / ca.Mass * nx
	ma.VY -= j / ca.Mass * ny
	mb.VX += j / cb.Mass * nx
	mb.VY += j / cb.Mass * ny
}

// mod32 returns the positive modulo (Go's math.Mod can return negative).
func mod32(a, b float32) float32 {
	m := float32(math.Mod(float64(a), float64(b)))
	if m < 0 {
		m += b
	}
	return m
}
