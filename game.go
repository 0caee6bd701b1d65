package main

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
	"github.com/milk9111/sideeffect/ecs/entity"
	"github.com/milk9111/sideeffect/ecs/system"
	"github.com/milk9111/sideeffect/levels"
	"github.com/milk9111/sideeffect/prefabs"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	tps        = 60
)

type Game struct {
	frames int

	levelName string
	debug     bool
	paused    bool

	world     *ecs.World
	pipeline  *system.Pipeline
	scheduler *ecs.Scheduler
	render    *system.RenderSystem
	watcher   *prefabs.Watcher
}

func NewGame(levelName string, debug bool) (*Game, error) {
	g := &Game{
		levelName: levelName,
		debug:     debug,
		render:    system.NewRenderSystem(),
	}
	if err := g.loadLevel(); err != nil {
		return nil, err
	}

	watcher, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
	if err != nil {
		log.Printf("prefabs: hot reload disabled: %v", err)
	} else {
		g.watcher = watcher
	}
	return g, nil
}

// loadLevel throws away the current world and builds a fresh one.
func (g *Game) loadLevel() error {
	lvl, err := levels.LoadLevel(g.levelName)
	if err != nil {
		return fmt.Errorf("game: load level %s: %w", g.levelName, err)
	}

	world := ecs.NewWorld()
	if err := entity.LoadLevelToWorld(world, lvl); err != nil {
		return fmt.Errorf("game: build level %s: %w", g.levelName, err)
	}

	pipeline := system.NewPipeline(1.0/tps, system.NewInputSystem())
	pipeline.SetDebug(g.debug)
	pipeline.Physics.Sync(world)

	g.world = world
	g.pipeline = pipeline
	g.scheduler = pipeline.Scheduler()
	g.render.SetPhysicsDebug(pipeline.Physics, g.debug)
	return nil
}

func (g *Game) Update() error {
	g.frames++
	g.drainWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.loadLevel(); err != nil {
			log.Printf("game: restart: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
		g.pipeline.SetDebug(g.debug)
		g.render.SetPhysicsDebug(g.pipeline.Physics, g.debug)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		return nil
	}

	g.scheduler.Update(g.world)
	return nil
}

// drainWatcher applies prefab edits between ticks.
func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.applyChange(change)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("prefabs: watch: %v", err)
		default:
			return
		}
	}
}

func (g *Game) applyChange(change prefabs.Change) {
	if change.Script {
		g.pipeline.Patrol.InvalidateScripts()
		log.Printf("prefabs: reloaded script %s", change.Name())
		return
	}

	switch change.Name() {
	case "player.yaml":
		if err := entity.ReloadPlayerTuning(g.world); err != nil {
			log.Printf("prefabs: %v", err)
			return
		}
		log.Printf("prefabs: reloaded player tuning")
	case "physics.yaml":
		spec, err := prefabs.LoadPhysicsSpec()
		if err != nil {
			log.Printf("prefabs: %v", err)
			return
		}
		if cfg, ok := ecs.Singleton(g.world, component.PhysicsConfigComponent.Kind()); ok {
			cfg.Gravity = spec.Gravity.Vec()
			cfg.Iterations = spec.Iterations
		}
		log.Printf("prefabs: reloaded physics")
	default:
		log.Printf("prefabs: %s changed, press R to rebuild the level", change.Name())
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.Draw(g.world, screen)

	status := fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS())
	if g.paused {
		status += "    PAUSED"
	}
	ebitenutil.DebugPrintAt(screen, status, 0, baseHeight-16)
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
