package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
	"github.com/milk9111/sideeffect/ecs/entity"
	"github.com/milk9111/sideeffect/ecs/system"
	"github.com/milk9111/sideeffect/levels"
)

const dt = 1.0 / 60.0

func main() {
	levelName := flag.String("level", "dev.json", "level file, read from disk if present, otherwise from levels/")
	ticks := flag.Int("ticks", 600, "number of fixed steps to run")
	script := flag.String("script", "", `input timeline, e.g. "0:right,60:jump,90:holdjump,150:release,200:left@1"`)
	every := flag.Int("every", 60, "log player state every N ticks, 0 for the final state only")
	debug := flag.Bool("debug", false, "trace player state changes and pickups")
	flag.Parse()

	steps, err := parseTimeline(*script)
	if err != nil {
		log.Fatal(err)
	}

	lvl, err := levels.LoadLevel(*levelName)
	if err != nil {
		log.Fatal(err)
	}
	world := ecs.NewWorld()
	if err := entity.LoadLevelToWorld(world, lvl); err != nil {
		log.Fatal(err)
	}

	keys := newScriptedKeys(steps, system.DefaultKeyBindings())
	pipeline := system.NewPipeline(dt, system.NewInputSystemWithReader(keys, system.DefaultKeyBindings()))
	pipeline.SetDebug(*debug)
	pipeline.Physics.Sync(world)
	scheduler := pipeline.Scheduler()

	for tick := 0; tick < *ticks; tick++ {
		keys.advance(tick)
		scheduler.Update(world)
		if *every > 0 && (tick+1)%*every == 0 {
			logPlayers(world, tick+1)
		}
	}
	logPlayers(world, *ticks)
}

func logPlayers(w *ecs.World, tick int) {
	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, p *component.Player, t *component.Transform) {
		log.Printf("sim: tick=%d player=%d pos=(%.3f, %.3f) rot=%.3f %s", tick, p.ID, t.X, t.Y, t.Rotation, describe(p))
	})
}

func describe(p *component.Player) string {
	var b strings.Builder
	if p.Landed.Active {
		b.WriteString("landed")
	} else {
		b.WriteString("air")
	}
	if p.WallStick.Active {
		b.WriteString(" wallstick")
	}
	b.WriteString(" edges=[")
	for i, eff := range p.Effects {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s:%s", component.EdgeName(i), eff)
	}
	b.WriteByte(']')
	return b.String()
}
