package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed *.json
var LevelsFS embed.FS

// Level is a scene in world units, y up.
type Level struct {
	Name     string   `json:"name"`
	Bounds   Bounds   `json:"bounds"`
	Physics  *Physics `json:"physics,omitempty"`
	Walls    []Wall   `json:"walls"`
	Entities []Entity `json:"entities,omitempty"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Bounds struct {
	Min       Point   `json:"min"`
	Max       Point   `json:"max"`
	ViewRange float64 `json:"view_range,omitempty"`
}

// Physics overrides the physics prefab for one level.
type Physics struct {
	Gravity    *Point `json:"gravity,omitempty"`
	Iterations int    `json:"iterations,omitempty"`
}

// Wall is an axis-aligned block spanning two opposite corners.
type Wall struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

type Entity struct {
	Type  string                 `json:"type"`
	X     float64                `json:"x"`
	Y     float64                `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

// String reads a string prop, falling back to def.
func (e Entity) String(key, def string) string {
	if v, ok := e.Props[key].(string); ok {
		return v
	}
	return def
}

// Float reads a numeric prop, falling back to def.
func (e Entity) Float(key string, def float64) float64 {
	if v, ok := e.Props[key].(float64); ok {
		return v
	}
	return def
}

func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return parse(name, data)
}

// LoadLevel reads a level from disk when the path exists, otherwise from the
// embedded set.
func LoadLevel(name string) (*Level, error) {
	if data, err := os.ReadFile(name); err == nil {
		return parse(name, data)
	}
	return LoadLevelFromFS(filepath.Base(name))
}

func parse(name string, data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level %s: %w", name, err)
	}
	if lvl.Bounds.Max.X <= lvl.Bounds.Min.X || lvl.Bounds.Max.Y <= lvl.Bounds.Min.Y {
		return nil, fmt.Errorf("invalid level bounds in %s", name)
	}
	return &lvl, nil
}
