package defs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ShapeSpec is the palette and surface tuning shared by every placed shape.
// Colors are keyed by the property flags that carry physics meaning; unknown
// flags stay cosmetic and fall back to the base color.
type ShapeSpec struct {
	Name        string     `yaml:"name"`
	DefaultSize float64    `yaml:"default_size"`
	Friction    float64    `yaml:"friction"`
	StickyFric  float64    `yaml:"sticky_friction"`
	Elasticity  float64    `yaml:"elasticity"`
	SpinRate    float64    `yaml:"spin_rate"`
	BaseColor   *YAMLColor `yaml:"base_color"`
	DangerColor *YAMLColor `yaml:"danger_color"`
	StickyColor *YAMLColor `yaml:"sticky_color"`
	SpinColor   *YAMLColor `yaml:"spin_color"`
	RingColor   *YAMLColor `yaml:"ring_color"`
}

type PlayerSpec struct {
	Name           string     `yaml:"name"`
	Radius         float64    `yaml:"radius"`
	Mass           float64    `yaml:"mass"`
	Friction       float64    `yaml:"friction"`
	Elasticity     float64    `yaml:"elasticity"`
	MaxHealth      int        `yaml:"max_health"`
	Invincibility  float64    `yaml:"invincibility"`
	MoveAccel      float64    `yaml:"move_accel"`
	MaxSpeed       float64    `yaml:"max_speed"`
	GroundDamping  float64    `yaml:"ground_damping"`
	AirDamping     float64    `yaml:"air_damping"`
	StickyDamping  float64    `yaml:"sticky_damping"`
	AirControl     float64    `yaml:"air_control"`
	StickyMove     float64    `yaml:"sticky_move_factor"`
	StickyJump     float64    `yaml:"sticky_jump_factor"`
	JumpImpulse    float64    `yaml:"jump_impulse"`
	VarJumpCut     float64    `yaml:"variable_jump_cut"`
	VarJumpTime    float64    `yaml:"variable_jump_time"`
	CoyoteTime     float64    `yaml:"coyote_time"`
	JumpBuffer     float64    `yaml:"jump_buffer"`
	StuckSpeed     float64    `yaml:"stuck_speed"`
	StuckTime      float64    `yaml:"stuck_time"`
	NudgeImpulse   float64    `yaml:"nudge_impulse"`
	BodyColor      *YAMLColor `yaml:"body_color"`
	InvincibleTint *YAMLColor `yaml:"invincible_tint"`
}

type WorldSpec struct {
	Name             string  `yaml:"name"`
	Width            float64 `yaml:"width"`
	Height           float64 `yaml:"height"`
	Gravity          float64 `yaml:"gravity"`
	Iterations       uint    `yaml:"iterations"`
	BoundaryWidth    float64 `yaml:"boundary_width"`
	BoundaryFriction float64 `yaml:"boundary_friction"`
	BoundaryBounce   float64 `yaml:"boundary_bounce"`
	CheckpointRadius float64 `yaml:"checkpoint_radius"`
	CameraSmoothing  float64 `yaml:"camera_smoothing"`
}

// Defs bundles every tuning file into one repository handed to the world and
// editor at startup instead of package-level caches.
type Defs struct {
	Shape  *ShapeSpec
	Player *PlayerSpec
	World  *WorldSpec
}

func LoadAll() (*Defs, error) {
	shape, err := LoadSpec[*ShapeSpec]("shapes.yaml")
	if err != nil {
		return nil, err
	}
	player, err := LoadSpec[*PlayerSpec]("player.yaml")
	if err != nil {
		return nil, err
	}
	world, err := LoadSpec[*WorldSpec]("world.yaml")
	if err != nil {
		return nil, err
	}
	return &Defs{Shape: shape, Player: player, World: world}, nil
}

// Reload re-reads a single definition file in place. Unknown names are
// ignored so the watcher can forward any path it sees.
func (d *Defs) Reload(name string) error {
	switch base(name) {
	case "shapes.yaml":
		spec, err := LoadSpec[*ShapeSpec]("shapes.yaml")
		if err != nil {
			return err
		}
		*d.Shape = *spec
	case "player.yaml":
		spec, err := LoadSpec[*PlayerSpec]("player.yaml")
		if err != nil {
			return err
		}
		*d.Player = *spec
	case "world.yaml":
		spec, err := LoadSpec[*WorldSpec]("world.yaml")
		if err != nil {
			return err
		}
		*d.World = *spec
	}
	return nil
}

func base(path string) string {
	s := strings.ReplaceAll(path, "\\", "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("defs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("defs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// NRGBA unwraps a possibly-nil color with a fallback, keeping callers free of
// nil checks when a palette entry is omitted from the file.
func (c *YAMLColor) NRGBA(fallback color.NRGBA) color.NRGBA {
	if c == nil || c.Color == nil {
		return fallback
	}
	r, g, b, a := c.Color.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}
