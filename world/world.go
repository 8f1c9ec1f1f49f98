// Package world is the running game world: a persistent root holding the
// avatar's snowballs plus additive level layers, all sharing one Chipmunk
// space.
package world

import (
	"fmt"
	"log"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/snowfight/actor"
	"github.com/milk9111/snowfight/config"
	"github.com/milk9111/snowfight/levels"
	"github.com/milk9111/snowfight/scene"
	"github.com/milk9111/snowfight/script"
)

type Wall struct {
	levels.Rect
	shape *cp.Shape
}

type Target struct {
	X, Y   float64
	Radius float64
	Hits   int
	shape  *cp.Shape
}

// Layer is one loaded level.
type Layer struct {
	Index      scene.Index
	Name       string
	Background string
	Level      *levels.Level
	Walls      []*Wall
	Spinners   []*actor.Spinner
	Targets    []*Target
}

// NewLayer builds a layer from a parsed level and the spawns its script
// asked for. Nothing touches the physics space until Attach.
func NewLayer(index scene.Index, entry levels.Entry, lvl *levels.Level, spawns []script.Spawn) *Layer {
	l := &Layer{Index: index, Name: entry.Name, Background: entry.Background, Level: lvl}
	for _, r := range lvl.Walls {
		l.Walls = append(l.Walls, &Wall{Rect: r})
	}
	for _, s := range lvl.Spinners {
		l.Spinners = append(l.Spinners, &actor.Spinner{X: s.X, Y: s.Y, Size: s.Size, Speed: s.Speed})
	}
	for _, tg := range lvl.Targets {
		l.Targets = append(l.Targets, &Target{X: tg.X, Y: tg.Y, Radius: tg.Radius})
	}
	for _, s := range spawns {
		switch s.Kind {
		case script.SpawnSpinner:
			l.Spinners = append(l.Spinners, &actor.Spinner{X: s.X, Y: s.Y, Size: s.Size, Speed: s.Speed})
		case script.SpawnTarget:
			l.Targets = append(l.Targets, &Target{X: s.X, Y: s.Y, Radius: s.Radius})
		}
	}
	return l
}

type World struct {
	space     *cp.Space
	layers    []*Layer
	snowballs []*actor.Snowball

	shapeToSnowball map[*cp.Shape]*actor.Snowball
	shapeToTarget   map[*cp.Shape]*Target
}

func New() *World {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})

	w := &World{
		space:           space,
		shapeToSnowball: make(map[*cp.Shape]*actor.Snowball),
		shapeToTarget:   make(map[*cp.Shape]*Target),
	}
	w.setupHandlers()
	return w
}

// Layers returns the loaded layers in load order.
func (w *World) Layers() []*Layer {
	return append([]*Layer(nil), w.layers...)
}

func (w *World) Layer(index scene.Index) (*Layer, bool) {
	for _, l := range w.layers {
		if l.Index == index {
			return l, true
		}
	}
	return nil, false
}

// Attach adds l's static shapes to the space and makes it resident.
func (w *World) Attach(l *Layer) error {
	if l == nil {
		return fmt.Errorf("world: nil layer")
	}
	if _, ok := w.Layer(l.Index); ok {
		return fmt.Errorf("world: level %d (%s) already loaded", l.Index, l.Name)
	}

	static := w.space.StaticBody
	for _, wall := range l.Walls {
		bb := cp.BB{L: wall.X, B: wall.Y, R: wall.X + wall.W, T: wall.Y + wall.H}
		shape := cp.NewBox2(static, bb, 0)
		shape.SetCollisionType(actor.CollisionWall)
		shape.SetFriction(1)
		w.space.AddShape(shape)
		wall.shape = shape
	}
	for _, tg := range l.Targets {
		shape := cp.NewCircle(static, tg.Radius, cp.Vector{X: tg.X, Y: tg.Y})
		shape.SetCollisionType(actor.CollisionTarget)
		w.space.AddShape(shape)
		w.shapeToTarget[shape] = tg
		tg.shape = shape
	}

	w.layers = append(w.layers, l)
	log.Printf("world: attached level %d (%s): %d walls, %d targets, %d spinners",
		l.Index, l.Name, len(l.Walls), len(l.Targets), len(l.Spinners))
	return nil
}

// Detach removes the layer for index from the space.
func (w *World) Detach(index scene.Index) error {
	pos := -1
	for i, l := range w.layers {
		if l.Index == index {
			pos = i
			break
		}
	}
	if pos < 0 {
		return fmt.Errorf("world: level %d not loaded", index)
	}

	l := w.layers[pos]
	for _, wall := range l.Walls {
		if wall.shape != nil {
			w.space.RemoveShape(wall.shape)
			wall.shape = nil
		}
	}
	for _, tg := range l.Targets {
		if tg.shape != nil {
			w.space.RemoveShape(tg.shape)
			delete(w.shapeToTarget, tg.shape)
			tg.shape = nil
		}
	}
	w.layers = append(w.layers[:pos], w.layers[pos+1:]...)
	// Snowballs in flight belong to the level being left.
	w.ClearSnowballs()
	log.Printf("world: detached level %d (%s)", l.Index, l.Name)
	return nil
}

// Throw launches a snowball from the avatar's emitter along its facing.
func (w *World) Throw(a *actor.Avatar, t config.Throwing) *actor.Snowball {
	x, y := a.Emitter()
	ball := actor.ThrowSnowball(w.space, t, x, y, a.Angle)
	w.snowballs = append(w.snowballs, ball)
	w.shapeToSnowball[ball.Shape] = ball
	return ball
}

func (w *World) Snowballs() []*actor.Snowball {
	return append([]*actor.Snowball(nil), w.snowballs...)
}

func (w *World) ClearSnowballs() {
	for _, ball := range w.snowballs {
		w.removeSnowball(ball)
	}
	w.snowballs = nil
}

// Step advances decorations, snowballs and the physics space by dt.
func (w *World) Step(dt time.Duration) {
	for _, l := range w.layers {
		for _, s := range l.Spinners {
			s.Update(dt)
		}
	}
	for _, ball := range w.snowballs {
		ball.Update(dt)
	}
	w.space.Step(dt.Seconds())

	// Bodies can only leave the space outside of Step.
	kept := w.snowballs[:0]
	for _, ball := range w.snowballs {
		if ball.Dead() {
			w.removeSnowball(ball)
			continue
		}
		kept = append(kept, ball)
	}
	for i := len(kept); i < len(w.snowballs); i++ {
		w.snowballs[i] = nil
	}
	w.snowballs = kept
}

// Bounds returns the size of the most recently loaded layer.
func (w *World) Bounds() (float64, float64, bool) {
	if len(w.layers) == 0 {
		return 0, 0, false
	}
	lvl := w.layers[len(w.layers)-1].Level
	return lvl.Width, lvl.Height, true
}

func (w *World) removeSnowball(ball *actor.Snowball) {
	if ball.Shape != nil {
		delete(w.shapeToSnowball, ball.Shape)
	}
	ball.Remove(w.space)
}

func (w *World) setupHandlers() {
	wallHandler := w.space.NewCollisionHandler(actor.CollisionSnowball, actor.CollisionWall)
	wallHandler.UserData = w
	wallHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		world.hitSnowball(shapeA, shapeB)
		return false
	}

	targetHandler := w.space.NewCollisionHandler(actor.CollisionSnowball, actor.CollisionTarget)
	targetHandler.UserData = w
	targetHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		if !world.hitSnowball(shapeA, shapeB) {
			return false
		}
		for _, s := range []*cp.Shape{shapeA, shapeB} {
			if tg, ok := world.shapeToTarget[s]; ok {
				tg.Hits++
			}
		}
		return false
	}
}

// hitSnowball kills whichever of the shapes is a live snowball and reports
// whether one was found.
func (w *World) hitSnowball(shapes ...*cp.Shape) bool {
	for _, s := range shapes {
		ball, ok := w.shapeToSnowball[s]
		if !ok || ball.Dead() {
			continue
		}
		ball.Hit()
		return true
	}
	return false
}
