// Package actor holds the player avatar, its snowballs and level
// decorations. Physics bodies live in a Chipmunk space owned by the caller.
package actor

import (
	"math"
	"time"

	"github.com/milk9111/snowfight/config"
)

// AvatarRadius is the avatar's footprint; snowballs leave from its edge.
const AvatarRadius = 16.0

// Input is one frame of player intent. MoveX strafes, MoveY moves along the
// facing; both are in -1..1. The cursor is in world coordinates.
type Input struct {
	MoveX, MoveY     float64
	Aim              bool
	Fire             bool
	CursorX, CursorY float64
}

type CameraMode int

const (
	CameraFollow CameraMode = iota
	CameraAim
)

func (m CameraMode) String() string {
	if m == CameraAim {
		return "aim"
	}
	return "follow"
}

// Avatar is the player-controlled thrower.
type Avatar struct {
	X, Y  float64
	Angle float64 // radians, 0 faces +X

	cfg *config.Config

	aiming         bool
	camera         CameraMode
	crosshair      bool
	crosshairWait  time.Duration
	crosshairArmed bool
	cooldownLeft   time.Duration
}

func NewAvatar(cfg *config.Config, x, y float64) *Avatar {
	return &Avatar{X: x, Y: y, cfg: cfg, camera: CameraFollow}
}

// Place moves the avatar to a spawn point and clears transient state.
func (a *Avatar) Place(x, y float64) {
	a.X, a.Y = x, y
	a.Angle = -math.Pi / 2
	a.aiming = false
	a.camera = CameraFollow
	a.crosshair = false
	a.crosshairArmed = false
	a.cooldownLeft = 0
}

// Update advances the avatar by dt and reports whether a snowball should be
// thrown this frame.
func (a *Avatar) Update(in Input, dt time.Duration) bool {
	if a.cooldownLeft > 0 {
		a.cooldownLeft -= dt
		if a.cooldownLeft < 0 {
			a.cooldownLeft = 0
		}
	}
	a.aiming = in.Aim

	a.updateCamera(dt)
	a.move(in, dt)
	a.rotate(in, dt)
	return a.throw(in)
}

func (a *Avatar) updateCamera(dt time.Duration) {
	if a.aiming && a.camera != CameraAim {
		a.camera = CameraAim
		a.crosshairArmed = true
		a.crosshairWait = a.cfg.Camera.CrosshairDelay
	} else if !a.aiming && a.camera != CameraFollow {
		a.camera = CameraFollow
		a.crosshair = false
		a.crosshairArmed = false
	}

	if a.crosshairArmed {
		a.crosshairWait -= dt
		if a.crosshairWait <= 0 {
			a.crosshair = true
			a.crosshairArmed = false
		}
	}
}

func (a *Avatar) move(in Input, dt time.Duration) {
	mx, my := in.MoveX, in.MoveY
	l := math.Hypot(mx, my)
	if l <= 0 {
		return
	}
	// diagonals are no faster than a single axis; partial stick stays partial
	if l > 1 {
		mx, my = mx/l, my/l
	}
	sin, cos := math.Sincos(a.Angle)
	// forward is (cos, sin); right is the facing turned a quarter clockwise
	dx := cos*my - sin*mx
	dy := sin*my + cos*mx
	dist := a.cfg.Movement.Speed * dt.Seconds()
	a.X += dx * dist
	a.Y += dy * dist
}

func (a *Avatar) rotate(in Input, dt time.Duration) {
	tx, ty := in.CursorX-a.X, in.CursorY-a.Y
	if tx == 0 && ty == 0 {
		return
	}
	target := math.Atan2(ty, tx)
	ratio := dt.Seconds() * (a.cfg.Movement.RotationSpeed * math.Pi / 180) * a.RotationMultiplier()
	if ratio > 1 {
		ratio = 1
	}
	a.Angle = wrapAngle(a.Angle + wrapAngle(target-a.Angle)*ratio)
}

func (a *Avatar) throw(in Input) bool {
	if !a.aiming || !in.Fire || a.cooldownLeft > 0 {
		return false
	}
	a.cooldownLeft = a.cfg.Throwing.Cooldown
	return true
}

// RotationMultiplier slows turning while aiming.
func (a *Avatar) RotationMultiplier() float64 {
	if a.aiming {
		return a.cfg.Movement.AimRotationMultiplier
	}
	return 1
}

func (a *Avatar) Aiming() bool           { return a.aiming }
func (a *Avatar) Camera() CameraMode     { return a.camera }
func (a *Avatar) CrosshairVisible() bool { return a.crosshair }
func (a *Avatar) OnCooldown() bool       { return a.cooldownLeft > 0 }

func (a *Avatar) Zoom() float64 {
	if a.camera == CameraAim {
		return a.cfg.Camera.AimZoom
	}
	return a.cfg.Camera.FollowZoom
}

// AimPoint is where the crosshair sits: aim_distance along the facing.
func (a *Avatar) AimPoint() (float64, float64) {
	sin, cos := math.Sincos(a.Angle)
	d := a.cfg.Camera.AimDistance
	return a.X + cos*d, a.Y + sin*d
}

// Emitter is the spawn point for a thrown snowball.
func (a *Avatar) Emitter() (float64, float64) {
	sin, cos := math.Sincos(a.Angle)
	d := AvatarRadius + a.cfg.Throwing.Radius + 1
	return a.X + cos*d, a.Y + sin*d
}

// wrapAngle maps r into (-pi, pi].
func wrapAngle(r float64) float64 {
	r = math.Mod(r, 2*math.Pi)
	if r <= -math.Pi {
		r += 2 * math.Pi
	} else if r > math.Pi {
		r -= 2 * math.Pi
	}
	return r
}
