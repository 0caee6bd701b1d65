package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/sideeffect/ecs/system"
)

// step is one scripted action, e.g. "60:jump" or "120:left@1".
type step struct {
	tick   int
	action string
	player uint32
}

var actions = map[string]bool{
	"left":     true,
	"right":    true,
	"stop":     true,
	"jump":     true,
	"spinup":   true,
	"spindown": true,
	"holdjump": true,
	"release":  true,
}

func parseTimeline(script string) ([]step, error) {
	var steps []step
	for _, part := range strings.Split(script, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tickStr, action, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("timeline: %q is not tick:action", part)
		}
		tick, err := strconv.Atoi(strings.TrimSpace(tickStr))
		if err != nil || tick < 0 {
			return nil, fmt.Errorf("timeline: bad tick in %q", part)
		}

		var player uint32
		if name, who, found := strings.Cut(action, "@"); found {
			id, err := strconv.ParseUint(strings.TrimSpace(who), 10, 32)
			if err != nil {
				return nil, fmt.Errorf("timeline: bad player in %q", part)
			}
			action, player = name, uint32(id)
		}
		action = strings.ToLower(strings.TrimSpace(action))
		if !actions[action] {
			return nil, fmt.Errorf("timeline: unknown action %q", action)
		}
		steps = append(steps, step{tick: tick, action: action, player: player})
	}
	return steps, nil
}

// scriptedKeys replays a timeline through the regular input system. Moves
// are held until the next move or stop. A jump or spin presses for one tick;
// holdjump keeps jump down until release, so it fires again whenever the
// controller allows.
type scriptedKeys struct {
	bindings map[uint32]system.KeyBindings
	steps    []step
	held     map[ebiten.Key]bool
	pressed  map[ebiten.Key]bool
}

func newScriptedKeys(steps []step, bindings map[uint32]system.KeyBindings) *scriptedKeys {
	return &scriptedKeys{
		bindings: bindings,
		steps:    steps,
		held:     map[ebiten.Key]bool{},
		pressed:  map[ebiten.Key]bool{},
	}
}

// advance applies every step scheduled for tick.
func (k *scriptedKeys) advance(tick int) {
	clear(k.pressed)
	for _, s := range k.steps {
		if s.tick != tick {
			continue
		}
		b, ok := k.bindings[s.player]
		if !ok {
			continue
		}
		switch s.action {
		case "left":
			k.held[b.Right] = false
			k.held[b.Left] = true
		case "right":
			k.held[b.Left] = false
			k.held[b.Right] = true
		case "stop":
			k.held[b.Left] = false
			k.held[b.Right] = false
		case "jump":
			k.pressed[b.Jump] = true
		case "holdjump":
			k.held[b.Jump] = true
			k.pressed[b.Jump] = true
		case "release":
			k.held[b.Jump] = false
		case "spinup":
			k.pressed[b.SpinUp] = true
		case "spindown":
			k.pressed[b.SpinDown] = true
		}
	}
}

func (k *scriptedKeys) Pressed(key ebiten.Key) bool {
	return k.held[key] || k.pressed[key]
}

func (k *scriptedKeys) JustPressed(key ebiten.Key) bool {
	return k.pressed[key]
}

func (k *scriptedKeys) Gamepad(int) (system.GamepadState, bool) {
	return system.GamepadState{}, false
}
