package actor

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/snowfight/config"
)

const (
	CollisionSnowball cp.CollisionType = iota + 1
	CollisionWall
	CollisionTarget
)

const (
	// lobGravity pulls the simulated height of a snowball back to the ground.
	lobGravity   = 400.0
	launchHeight = 12.0
)

// Snowball is a thrown projectile. Chipmunk moves it across the ground
// plane; its height above the ground is tracked here so it can land.
type Snowball struct {
	Body   *cp.Body
	Shape  *cp.Shape
	Height float64

	vz       float64
	age      time.Duration
	lifetime time.Duration
	dead     bool
}

// ThrowSnowball adds a snowball to space at (x, y) and launches it along
// angle.
func ThrowSnowball(space *cp.Space, t config.Throwing, x, y, angle float64) *Snowball {
	body := cp.NewBody(t.Mass, cp.MomentForCircle(t.Mass, 0, t.Radius, cp.Vector{}))
	body.SetPosition(cp.Vector{X: x, Y: y})
	shape := cp.NewCircle(body, t.Radius, cp.Vector{})
	shape.SetCollisionType(CollisionSnowball)
	shape.SetElasticity(0)
	shape.SetFriction(0.5)

	space.AddBody(body)
	space.AddShape(shape)

	sin, cos := math.Sincos(angle)
	body.ApplyImpulseAtWorldPoint(cp.Vector{X: cos * t.ForwardForce, Y: sin * t.ForwardForce}, body.Position())

	return &Snowball{
		Body:     body,
		Shape:    shape,
		Height:   launchHeight,
		vz:       t.UpwardForce / t.Mass,
		lifetime: t.Lifetime,
	}
}

// Update ages the snowball and advances its lob. It dies when it lands or
// its lifetime runs out.
func (s *Snowball) Update(dt time.Duration) {
	if s.dead {
		return
	}
	secs := dt.Seconds()
	s.age += dt
	s.Height += s.vz * secs
	s.vz -= lobGravity * secs
	if s.age >= s.lifetime || s.Height <= 0 {
		s.dead = true
	}
}

// Hit marks the snowball as destroyed by a collision.
func (s *Snowball) Hit() { s.dead = true }

func (s *Snowball) Dead() bool { return s.dead }

func (s *Snowball) Position() (float64, float64) {
	p := s.Body.Position()
	return p.X, p.Y
}

// Remove takes the snowball's shape and body out of space.
func (s *Snowball) Remove(space *cp.Space) {
	if s.Shape != nil {
		space.RemoveShape(s.Shape)
		s.Shape = nil
	}
	if s.Body != nil {
		space.RemoveBody(s.Body)
		s.Body = nil
	}
}
