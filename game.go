package main

import (
	"errors"
	"fmt"
	"log"
	"math"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/time/rate"

	"github.com/milk9111/snowfight/actor"
	"github.com/milk9111/snowfight/config"
	"github.com/milk9111/snowfight/levels"
	"github.com/milk9111/snowfight/scene"
	"github.com/milk9111/snowfight/ui"
	"github.com/milk9111/snowfight/world"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Options struct {
	ConfigPath string
	// Level is a catalog name or index to open once the menu is up.
	Level string
	Watch bool
	Debug bool
}

type Game struct {
	frames int
	debug  bool

	cfg     *config.Config
	library *levels.Library
	world   *world.World
	host    *world.Host
	seq     *scene.Sequencer

	avatar *actor.Avatar
	camera *Camera

	menu        *ui.MenuController
	menuView    *ui.MenuView
	overlay     *ui.LoadingOverlay
	overlayView *ui.OverlayView

	// arrivals carries the level index of each completed transition from the
	// sequencer goroutine to Update.
	arrivals chan scene.Index
	startAt  scene.Index

	watcher       *levels.Watcher
	reloadLimit   *rate.Limiter
	reloadPending bool
	catalogStale  bool
	reloading     *scene.Operation
}

func NewGame(opts Options) (*Game, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	cat, err := levels.LoadCatalog()
	if err != nil {
		return nil, err
	}
	startAt, err := resolveLevel(cat, opts.Level)
	if err != nil {
		return nil, err
	}

	library := levels.NewLibrary(cat)
	w := world.New()
	host := world.NewHost(w, library)
	seq := scene.NewSequencer(host, library)
	if err := scene.Install(seq); err != nil {
		return nil, err
	}

	g := &Game{
		debug:    opts.Debug,
		cfg:      cfg,
		library:  library,
		world:    w,
		host:     host,
		seq:      seq,
		avatar:   actor.NewAvatar(cfg, baseWidth/2, baseHeight/2),
		camera:   NewCamera(baseWidth, baseHeight),
		arrivals: make(chan scene.Index, 8),
		startAt:  startAt,
		// an editor saving several files at once rebuilds the level once
		reloadLimit: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
	g.menu = ui.NewMenuController(scene.Instance(), library.MenuIndex)
	g.menuView = ui.NewMenuView("snowfight", baseWidth, baseHeight)
	g.overlay = ui.NewLoadingOverlay(g.levelName)
	g.overlayView = ui.NewOverlayView(g.overlay, baseWidth)
	g.overlay.Attach(seq)

	seq.Subscribe(scene.TransitionComplete, scene.ListenerFunc(func(evt scene.Event) {
		select {
		case g.arrivals <- evt.To:
		default:
			log.Printf("game: dropped arrival at level %d", evt.To)
		}
	}))
	if opts.Debug {
		logTransitions(seq)
	}

	if opts.Watch {
		dirs := []string{levels.DiskDir, filepath.Join(levels.DiskDir, "scripts")}
		watcher, err := levels.NewWatcher(dirs...)
		if err != nil {
			log.Printf("game: level watcher disabled: %v", err)
		} else {
			g.watcher = watcher
		}
	}

	if _, err := seq.Start(); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

// logTransitions logs every lifecycle event of seq.
func logTransitions(seq *scene.Sequencer) {
	logEvent := scene.ListenerFunc(func(evt scene.Event) {
		log.Printf("scene: %s %d -> %d err=%v", evt.Type, evt.From, evt.To, evt.Err)
	})
	seq.Subscribe(scene.TransitionBegin, logEvent)
	seq.Subscribe(scene.TransitionComplete, logEvent)
	seq.Subscribe(scene.TransitionFailed, logEvent)
}

// menuPrompt is the line under the menu title.
func menuPrompt(state scene.State, startAt scene.Index) string {
	if state.Transitioning || startAt != scene.NoLevel {
		return "loading..."
	}
	return "press any key"
}

// resolveLevel accepts a catalog name or an index; "" means none.
func resolveLevel(cat *levels.Catalog, s string) (scene.Index, error) {
	if s == "" {
		return scene.NoLevel, nil
	}
	if i, ok := cat.Find(s); ok {
		return i, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return scene.NoLevel, fmt.Errorf("%w: unknown level %q", scene.ErrInvalidLevelIndex, s)
	}
	if _, ok := cat.Entry(scene.Index(n)); !ok {
		return scene.NoLevel, fmt.Errorf("%w: %d", scene.ErrInvalidLevelIndex, n)
	}
	return scene.Index(n), nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
		g.watcher = nil
	}
}

func (g *Game) levelName(i scene.Index) string {
	if e, ok := g.library.Entry(i); ok {
		return e.Name
	}
	return fmt.Sprintf("level %d", i)
}

func (g *Game) Update() error {
	g.frames++
	dt := time.Second / time.Duration(ebiten.TPS())

	g.host.Pump()
	g.drainArrivals()
	g.hotReload()

	state := g.seq.Snapshot()
	menu := g.library.MenuIndex()
	ctl := sampleControls(g.camera, g.avatar.X, g.avatar.Y)

	switch {
	case state.Current == scene.NoLevel:
	case state.Current == menu:
		if g.startAt != scene.NoLevel && !state.Transitioning {
			g.request(func() (*scene.Transition, error) { return g.seq.GoToLevel(g.startAt) })
			g.startAt = scene.NoLevel
		} else {
			g.menu.OnAdvance(ctl.Any)
		}
		g.menuView.SetPrompt(menuPrompt(g.seq.Snapshot(), g.startAt))
		g.menuView.Update()
	default:
		g.updatePlay(ctl, dt)
	}

	g.world.Step(dt)
	g.overlayView.Update()
	return nil
}

func (g *Game) updatePlay(ctl Controls, dt time.Duration) {
	switch {
	case ctl.Menu:
		g.request(g.seq.GoToMenu)
	case ctl.Next:
		g.request(g.seq.LoadNext)
	case ctl.Previous:
		g.request(g.seq.LoadPrevious)
	}

	if g.avatar.Update(ctl.Input, dt) {
		g.world.Throw(g.avatar, g.cfg.Throwing)
	}
	if w, h, ok := g.world.Bounds(); ok {
		g.avatar.X = clamp(g.avatar.X, actor.AvatarRadius, w-actor.AvatarRadius)
		g.avatar.Y = clamp(g.avatar.Y, actor.AvatarRadius, h-actor.AvatarRadius)
	}

	tx, ty := g.avatar.X, g.avatar.Y
	if g.avatar.Camera() == actor.CameraAim {
		tx, ty = g.avatar.AimPoint()
	}
	g.camera.Update(tx, ty, g.avatar.Zoom())
}

func (g *Game) request(fn func() (*scene.Transition, error)) {
	if _, err := fn(); err != nil && !errors.Is(err, scene.ErrTransitionInProgress) {
		log.Printf("game: transition request: %v", err)
	}
}

// drainArrivals places the avatar on the spawn point of each level the
// sequencer finished loading.
func (g *Game) drainArrivals() {
	for {
		select {
		case idx := <-g.arrivals:
			g.arrive(idx)
		default:
			return
		}
	}
}

func (g *Game) arrive(idx scene.Index) {
	layer, ok := g.world.Layer(idx)
	if !ok {
		return
	}
	spawn := layer.Level.Spawn
	g.avatar.Place(spawn.X, spawn.Y)
	g.camera.SetWorldBounds(layer.Level.Width, layer.Level.Height)
	g.camera.SnapTo(spawn.X, spawn.Y, g.avatar.Zoom())
	if g.debug {
		log.Printf("game: arrived at %s", layer.Name)
	}
}

// hotReload reacts to edited level files: the catalog is re-read and the
// current level rebuilt once no transition is running.
func (g *Game) hotReload() {
	if g.reloading != nil {
		select {
		case <-g.reloading.Done():
			if err := g.reloading.Err(); err != nil {
				log.Printf("game: reload: %v", err)
			}
			g.reloading = nil
		default:
			return
		}
	}

	if g.watcher != nil {
	drain:
		for {
			select {
			case name, ok := <-g.watcher.Events:
				if !ok {
					g.watcher = nil
					break drain
				}
				log.Printf("game: %s changed", name)
				g.reloadPending = true
				g.catalogStale = g.catalogStale || levels.IsCatalogFile(name)
			case err, ok := <-g.watcher.Errors:
				if !ok {
					g.watcher = nil
					break drain
				}
				log.Printf("game: watcher: %v", err)
			default:
				break drain
			}
		}
	}

	if !g.reloadPending || g.seq.IsTransitioning() || !g.reloadLimit.Allow() {
		return
	}
	g.reloadPending = false
	if g.catalogStale {
		g.catalogStale = false
		if err := g.library.Reload(); err != nil {
			log.Printf("game: reload catalog: %v", err)
		}
	}
	if cur := g.seq.CurrentLevel(); cur != scene.NoLevel {
		g.reloading = g.host.Reload(cur)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
