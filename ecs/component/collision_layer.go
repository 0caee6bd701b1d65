package component

// Collision categories.
const (
	CategoryWall uint32 = 1 << iota
	CategoryPlayer
	CategoryBonus
	CategoryMonster
)

const (
	MaskWall    = CategoryPlayer | CategoryBonus | CategoryMonster
	MaskPlayer  = CategoryWall | CategoryPlayer | CategoryBonus | CategoryMonster
	MaskBonus   = CategoryWall | CategoryPlayer
	MaskMonster = CategoryWall | CategoryPlayer
	// MaskProbe is what players treat as solid when probing for contact.
	MaskProbe = CategoryWall | CategoryPlayer
)

// CollisionLayer allows entities to declare a collision category and mask
// so the physics system can selectively enable/disable collisions between
// groups of objects.
type CollisionLayer struct {
	// Category is a bitmask of this entity's collision category. If zero,
	// the physics system will treat it as CategoryWall.
	Category uint32 `yaml:"category,omitempty"`
	// Mask is a bitmask of categories this entity should collide with. If
	// zero, the physics system will treat it as all-bits set (collide with all).
	Mask uint32 `yaml:"mask,omitempty"`
}

var CollisionLayerComponent = NewComponent[CollisionLayer]()
