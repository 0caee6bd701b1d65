package system

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/sideeffect/common"
	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

const (
	defaultPixelsPerUnit = 80.0
	cameraSmoothness     = 0.1
	edgeStrokeWidth      = 4
	hudLineHeight        = 16
)

// effectPalette is indexed by SideEffect.Index.
var effectPalette = [...]color.RGBA{
	component.SideEffectNone:       colornames.Lightgray,
	component.SideEffectSticky:     colornames.Gold,
	component.SideEffectSlippery:   colornames.Lightskyblue,
	component.SideEffectShield:     colornames.Steelblue,
	component.SideEffectThorns:     colornames.Crimson,
	component.SideEffectFlashlight: colornames.Lightyellow,
	component.SideEffectLaser:      colornames.Magenta,
	component.SideEffectSpring:     colornames.Limegreen,
}

func effectColor(index uint32) color.RGBA {
	if int(index) >= len(effectPalette) {
		return colornames.White
	}
	return effectPalette[index]
}

// camera maps world units (y up) to screen pixels (y down).
type camera struct {
	center mgl64.Vec2
	zoom   float64
	width  float64
	height float64
}

func (c camera) toScreen(p mgl64.Vec2) (float32, float32) {
	x := (p.X()-c.center.X())*c.zoom + c.width/2
	y := c.height/2 - (p.Y()-c.center.Y())*c.zoom
	return float32(x), float32(y)
}

// RenderSystem draws a flat debug view: walls, bonuses, monsters, players
// with their edge effects, and a text HUD.
type RenderSystem struct {
	cam     camera
	placed  bool
	face    text.Face
	physics *PhysicsSystem
	debug   bool
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{
		cam:  camera{zoom: defaultPixelsPerUnit},
		face: text.NewGoXFace(basicfont.Face7x13),
	}
}

// SetPhysicsDebug overlays the Chipmunk shapes of physics when enabled.
func (r *RenderSystem) SetPhysicsDebug(physics *PhysicsSystem, enabled bool) {
	if r == nil {
		return
	}
	r.physics = physics
	r.debug = enabled
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	bounds := screen.Bounds()
	r.cam.width = float64(bounds.Dx())
	r.cam.height = float64(bounds.Dy())
	r.followPlayers(w)

	screen.Fill(colornames.Midnightblue)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, body *component.PhysicsBody, t *component.Transform) {
		switch {
		case ecs.Has(w, e, component.WallTagComponent.Kind()):
			r.drawBox(screen, *t, body.Width, body.Height, colornames.Slategray, true)
		case ecs.Has(w, e, component.MonsterComponent.Kind()):
			r.drawBox(screen, *t, body.Width+2*body.CornerRadius, body.Height+2*body.CornerRadius, colornames.Orangered, true)
		}
	})

	ecs.ForEach2(w, component.BonusComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, b *component.Bonus, t *component.Transform) {
		x, y := r.cam.toScreen(t.Position())
		radius := float32(b.Radius * r.cam.zoom)
		vector.FillCircle(screen, x, y, radius, effectColor(b.Effect.Index()), true)
		vector.StrokeCircle(screen, x, y, radius, 1, colornames.White, true)
	})

	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Player, t *component.Transform) {
		r.drawPlayer(w, screen, e, p, *t)
	})

	if r.debug && r.physics != nil {
		drawPhysicsDebug(r.physics.Space(), r.cam, screen)
	}

	r.drawHUD(w, screen)
}

// followPlayers eases the camera towards the mean player position.
func (r *RenderSystem) followPlayers(w *ecs.World) {
	var sum mgl64.Vec2
	n := 0
	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.Player, t *component.Transform) {
		sum = sum.Add(t.Position())
		n++
	})
	if n == 0 {
		return
	}
	target := sum.Mul(1 / float64(n))
	if !r.placed {
		r.cam.center = target
		r.placed = true
		return
	}
	r.cam.center = mgl64.Vec2{
		common.Lerp(r.cam.center.X(), target.X(), cameraSmoothness),
		common.Lerp(r.cam.center.Y(), target.Y(), cameraSmoothness),
	}
}

func (r *RenderSystem) drawBox(screen *ebiten.Image, t component.Transform, width, height float64, clr color.Color, fill bool) {
	hw, hh := width/2, height/2
	corners := [4]mgl64.Vec2{
		t.Apply(mgl64.Vec2{-hw, -hh}),
		t.Apply(mgl64.Vec2{hw, -hh}),
		t.Apply(mgl64.Vec2{hw, hh}),
		t.Apply(mgl64.Vec2{-hw, hh}),
	}
	if fill && math.Abs(common.WrapAngle(t.Rotation)) < 1e-6 {
		x, y := r.cam.toScreen(corners[3])
		vector.FillRect(screen, x, y, float32(width*r.cam.zoom), float32(height*r.cam.zoom), clr, false)
		return
	}
	for i := range corners {
		x0, y0 := r.cam.toScreen(corners[i])
		x1, y1 := r.cam.toScreen(corners[(i+1)%len(corners)])
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, clr, true)
	}
}

func (r *RenderSystem) drawPlayer(w *ecs.World, screen *ebiten.Image, e ecs.Entity, p *component.Player, t component.Transform) {
	size := 2 * (p.Probe.HalfWidth + p.Probe.Radius)
	r.drawBox(screen, t, size, size, colornames.Whitesmoke, false)

	indices := component.ProjectEffects(p.Effects)
	if mat, ok := ecs.Get(w, e, component.PlayerMaterialComponent.Kind()); ok {
		indices = mat.EffectIndex
	}

	half := size / 2
	for i := 0; i < component.EdgeCount; i++ {
		dir := component.EdgeDirection(i)
		tangent := common.Perp(dir)
		mid := dir.Mul(half)
		a := t.Apply(mid.Add(tangent.Mul(half * 0.9)))
		b := t.Apply(mid.Sub(tangent.Mul(half * 0.9)))
		x0, y0 := r.cam.toScreen(a)
		x1, y1 := r.cam.toScreen(b)
		vector.StrokeLine(screen, x0, y0, x1, y1, edgeStrokeWidth, effectColor(indices[i]), true)
	}
}

func (r *RenderSystem) drawHUD(w *ecs.World, screen *ebiten.Image) {
	line := 0
	ecs.ForEach(w, component.PlayerComponent.Kind(), func(_ ecs.Entity, p *component.Player) {
		r.drawText(screen, playerSummary(p), 10, float64(10+line*hudLineHeight))
		line++
	})
}

func (r *RenderSystem) drawText(screen *ebiten.Image, s string, x, y float64) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(colornames.White)
	text.Draw(screen, s, r.face, op)
}

func playerSummary(p *component.Player) string {
	var flags []string
	for _, f := range []struct {
		name  string
		state component.PlayerState
	}{
		{"landed", p.Landed},
		{"air", p.InAir},
		{"wall", p.WallStick},
		{"stick", p.AnyStick},
		{"slip", p.SlipperyBelow},
	} {
		if f.state.Active {
			flags = append(flags, f.name)
		}
	}
	edges := make([]string, component.EdgeCount)
	for i, eff := range p.Effects {
		edges[i] = fmt.Sprintf("%s=%s", component.EdgeName(i), eff)
	}
	return fmt.Sprintf("P%d [%s] %s", p.ID, strings.Join(flags, " "), strings.Join(edges, " "))
}
