package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/snowfight/actor"
	"github.com/milk9111/snowfight/assets"
	"github.com/milk9111/snowfight/scene"
	"github.com/milk9111/snowfight/world"
)

func (g *Game) Draw(screen *ebiten.Image) {
	state := g.seq.Snapshot()
	menu := g.library.MenuIndex()

	bg := color.Color(assets.DefaultBackground)
	if layer, ok := g.world.Layer(state.Current); ok {
		bg = assets.Background(layer.Background)
	}
	screen.Fill(bg)

	onMenu := state.Current == menu
	cam := g.camera
	if onMenu {
		// the menu is laid out in screen space
		cam = NewCamera(baseWidth, baseHeight)
	}
	for _, layer := range g.world.Layers() {
		g.drawLayer(screen, cam, layer)
	}

	if onMenu {
		g.menuView.Draw(screen)
	} else if state.Current != scene.NoLevel {
		g.drawSnowballs(screen)
		g.drawAvatar(screen)
	}
	g.overlayView.Draw(screen)

	if g.debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f\nlevel: %s transitioning: %v\ncamera: %s zoom %.2f snowballs: %d",
			g.frames, ebiten.ActualFPS(), g.levelName(state.Current), state.Transitioning,
			g.avatar.Camera(), g.camera.Zoom(), len(g.world.Snowballs())))
	}
}

func (g *Game) drawLayer(screen *ebiten.Image, cam *Camera, layer *world.Layer) {
	zoom := cam.Zoom()
	for _, wall := range layer.Walls {
		x, y := cam.WorldToScreen(wall.X, wall.Y)
		vector.FillRect(screen, float32(x), float32(y), float32(wall.W*zoom), float32(wall.H*zoom), assets.Rock, false)
	}
	for _, tg := range layer.Targets {
		x, y := cam.WorldToScreen(tg.X, tg.Y)
		clr := assets.Target
		if tg.Hits > 0 {
			clr = assets.TargetHit
		}
		vector.FillCircle(screen, float32(x), float32(y), float32(tg.Radius*zoom), clr, true)
		vector.StrokeCircle(screen, float32(x), float32(y), float32(tg.Radius*zoom*0.5), 2, assets.Snow, true)
	}
	for _, s := range layer.Spinners {
		drawSpinner(screen, cam, s)
	}
}

// drawSpinner outlines a square of side Size turned by the spinner's angle.
func drawSpinner(screen *ebiten.Image, cam *Camera, s *actor.Spinner) {
	half := s.Size / 2
	sin, cos := math.Sincos(s.Angle * math.Pi / 180)
	corners := [4][2]float64{{-half, -half}, {half, -half}, {half, half}, {-half, half}}
	var pts [4][2]float32
	for i, c := range corners {
		x, y := cam.WorldToScreen(s.X+c[0]*cos-c[1]*sin, s.Y+c[0]*sin+c[1]*cos)
		pts[i] = [2]float32{float32(x), float32(y)}
	}
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		vector.StrokeLine(screen, a[0], a[1], b[0], b[1], 2, assets.Spinner, true)
	}
}

func (g *Game) drawSnowballs(screen *ebiten.Image) {
	zoom := g.camera.Zoom()
	for _, ball := range g.world.Snowballs() {
		if ball.Body == nil {
			continue
		}
		px, py := ball.Position()
		// shadow on the ground, ball raised by its lob height
		sx, sy := g.camera.WorldToScreen(px, py)
		r := g.cfg.Throwing.Radius * zoom
		vector.FillCircle(screen, float32(sx), float32(sy), float32(r), color.NRGBA{A: 60}, true)
		vector.FillCircle(screen, float32(sx), float32(sy-ball.Height*zoom*0.25), float32(r), assets.Snow, true)
	}
}

func (g *Game) drawAvatar(screen *ebiten.Image) {
	a := g.avatar
	zoom := g.camera.Zoom()
	x, y := g.camera.WorldToScreen(a.X, a.Y)
	vector.FillCircle(screen, float32(x), float32(y), float32(actor.AvatarRadius*zoom), assets.Avatar, true)

	ex, ey := g.camera.WorldToScreen(a.Emitter())
	vector.StrokeLine(screen, float32(x), float32(y), float32(ex), float32(ey), 3, assets.Snow, true)

	if a.CrosshairVisible() {
		cx, cy := g.camera.WorldToScreen(a.AimPoint())
		clr := color.Color(assets.Crosshair)
		if a.OnCooldown() {
			clr = assets.Ice
		}
		const arm = 8
		vector.StrokeLine(screen, float32(cx-arm), float32(cy), float32(cx+arm), float32(cy), 2, clr, true)
		vector.StrokeLine(screen, float32(cx), float32(cy-arm), float32(cx), float32(cy+arm), 2, clr, true)
	}
}
