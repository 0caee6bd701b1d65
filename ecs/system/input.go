package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
)

const stickDeadzone = 0.2

// KeyBindings maps one player's controls to keys.
type KeyBindings struct {
	Left     ebiten.Key
	Right    ebiten.Key
	Jump     ebiten.Key
	SpinUp   ebiten.Key
	SpinDown ebiten.Key
}

// DefaultKeyBindings returns WASD+Space for player 0 and the arrows with
// right shift for player 1.
func DefaultKeyBindings() map[uint32]KeyBindings {
	return map[uint32]KeyBindings{
		0: {Left: ebiten.KeyA, Right: ebiten.KeyD, Jump: ebiten.KeySpace, SpinUp: ebiten.KeyW, SpinDown: ebiten.KeyS},
		1: {Left: ebiten.KeyArrowLeft, Right: ebiten.KeyArrowRight, Jump: ebiten.KeyShiftRight, SpinUp: ebiten.KeyArrowUp, SpinDown: ebiten.KeyArrowDown},
	}
}

// KeyReader is the keyboard and gamepad state the input system polls.
type KeyReader interface {
	Pressed(key ebiten.Key) bool
	JustPressed(key ebiten.Key) bool
	Gamepad(index int) (GamepadState, bool)
}

// GamepadState is the subset of a standard gamepad the players use.
type GamepadState struct {
	MoveX    float64
	Jump     bool
	SpinUp   bool
	SpinDown bool
}

type ebitenKeys struct{}

func (ebitenKeys) Pressed(key ebiten.Key) bool     { return ebiten.IsKeyPressed(key) }
func (ebitenKeys) JustPressed(key ebiten.Key) bool { return inpututil.IsKeyJustPressed(key) }

func (ebitenKeys) Gamepad(index int) (GamepadState, bool) {
	gamepads := ebiten.GamepadIDs()
	if index < 0 || index >= len(gamepads) {
		return GamepadState{}, false
	}
	id := gamepads[index]
	if !ebiten.IsStandardGamepadLayoutAvailable(id) {
		return GamepadState{}, false
	}
	return GamepadState{
		MoveX:    ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal),
		Jump:     ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom),
		SpinUp:   inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontTopRight),
		SpinDown: inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontTopLeft),
	}, true
}

// InputSystem writes this frame's controls into each player's Input.
// Movement and jump are level-triggered, so a held jump fires again once the
// controller's debounce allows it. Spins fire on the press only.
type InputSystem struct {
	keys     KeyReader
	bindings map[uint32]KeyBindings
}

func NewInputSystem() *InputSystem {
	return NewInputSystemWithReader(ebitenKeys{}, DefaultKeyBindings())
}

func NewInputSystemWithReader(keys KeyReader, bindings map[uint32]KeyBindings) *InputSystem {
	return &InputSystem{keys: keys, bindings: bindings}
}

func (i *InputSystem) Update(w *ecs.World) {
	if i == nil || w == nil || i.keys == nil {
		return
	}

	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.InputComponent.Kind(), func(_ ecs.Entity, p *component.Player, input *component.Input) {
		*input = component.Input{}

		if b, ok := i.bindings[p.ID]; ok {
			input.Left = i.keys.Pressed(b.Left)
			input.Right = i.keys.Pressed(b.Right)
			input.Jump = i.keys.Pressed(b.Jump)
			input.SpinUp = i.keys.JustPressed(b.SpinUp)
			input.SpinDown = i.keys.JustPressed(b.SpinDown)
		}

		if pad, ok := i.keys.Gamepad(int(p.ID)); ok {
			if pad.MoveX < -stickDeadzone {
				input.Left = true
			}
			if pad.MoveX > stickDeadzone {
				input.Right = true
			}
			input.Jump = input.Jump || pad.Jump
			input.SpinUp = input.SpinUp || pad.SpinUp
			input.SpinDown = input.SpinDown || pad.SpinDown
		}
	})
}
