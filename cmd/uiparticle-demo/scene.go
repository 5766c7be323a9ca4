package main

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/gekko3d/uiparticle"
	"github.com/gekko3d/uiparticle/core"
	"github.com/gekko3d/uiparticle/particles"
	"github.com/gekko3d/uiparticle/uitree"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

//go:embed default_scene.yaml
var defaultScene []byte

// SceneDef is the YAML description of a demo canvas.
type SceneDef struct {
	Canvas CanvasDef `yaml:"canvas"`
	Nodes  []NodeDef `yaml:"nodes"`
}

type CanvasDef struct {
	Mode  string     `yaml:"mode,omitempty"` // overlay, camera or world
	Scale [3]float32 `yaml:"scale,omitempty"`
}

type NodeDef struct {
	Name               string       `yaml:"name"`
	Parent             string       `yaml:"parent,omitempty"`
	Position           [3]float32   `yaml:"position,omitempty"`
	Scale              float32      `yaml:"scale,omitempty"`
	IgnoreParentScale  bool         `yaml:"ignore_parent_scale,omitempty"`
	IgnoreCanvasScaler bool         `yaml:"ignore_canvas_scaler,omitempty"`
	FollowCursor       bool         `yaml:"follow_cursor,omitempty"`
	Emitters           []EmitterDef `yaml:"emitters"`
}

type EmitterDef struct {
	Name         string     `yaml:"name"`
	Offset       [3]float32 `yaml:"offset,omitempty"`
	Space        string     `yaml:"space,omitempty"`
	RenderMode   string     `yaml:"render_mode,omitempty"`
	MaxParticles int        `yaml:"max_particles,omitempty"`
	SpawnRate    float32    `yaml:"spawn_rate,omitempty"`
	Lifetime     [2]float32 `yaml:"lifetime,omitempty"`
	Speed        [2]float32 `yaml:"speed,omitempty"`
	Size         [2]float32 `yaml:"size,omitempty"`
	Gravity      float32    `yaml:"gravity,omitempty"`
	Drag         float32    `yaml:"drag,omitempty"`
	Cone         float32    `yaml:"cone,omitempty"`
	Color        [4]uint8   `yaml:"color,omitempty"`
	Seed         int64      `yaml:"seed,omitempty"`
	Trails       *TrailDef  `yaml:"trails,omitempty"`
}

type TrailDef struct {
	Enabled           bool    `yaml:"enabled"`
	MaxPoints         int     `yaml:"max_points,omitempty"`
	Width             float32 `yaml:"width,omitempty"`
	MinVertexDistance float32 `yaml:"min_vertex_distance,omitempty"`
}

// LoadScene reads a scene file; an empty path selects the built-in scene.
func LoadScene(path string) (*SceneDef, error) {
	data := defaultScene
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read scene: %w", err)
		}
	}
	return ParseScene(data)
}

func ParseScene(data []byte) (*SceneDef, error) {
	var def SceneDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if len(def.Nodes) == 0 {
		return nil, fmt.Errorf("parse scene: no nodes")
	}
	return &def, nil
}

// Scene is a built demo: the UI tree, its emitters and the node system.
type Scene struct {
	Tree     *uitree.Tree
	Canvas   *uitree.Canvas
	System   *uiparticle.System
	Emitters []*particles.Emitter
	Nodes    map[string]uiparticle.NodeId
	// Followers are the transforms moved by the cursor.
	Followers []uitree.TransformId
}

// Build creates the tree, emitters and enabled nodes described by def.
func (def *SceneDef) Build(output uiparticle.CanvasRenderer, cfg uiparticle.Config) (*Scene, error) {
	tree := uitree.NewTree()
	rootLocal := core.IdentityTransform()
	if def.Canvas.Scale != [3]float32{} {
		rootLocal.Scale = mgl32.Vec3(def.Canvas.Scale)
	}
	root := tree.MustAdd("canvas", uitree.NoTransform, rootLocal)

	mode, err := parseCanvasMode(def.Canvas.Mode)
	if err != nil {
		return nil, err
	}
	canvas := uitree.NewCanvas(tree.Ref(root), mode)
	if mode != uitree.ScreenSpaceOverlay {
		cam := core.NewCamera("main")
		cam.Position = mgl32.Vec3{0, 0, 10}
		canvas.WorldCamera = cam
	}

	sc := &Scene{
		Tree:   tree,
		Canvas: canvas,
		System: uiparticle.NewSystem(tree, output, cfg),
		Nodes:  make(map[string]uiparticle.NodeId),
	}
	transforms := make(map[string]uitree.TransformId)

	for _, nd := range def.Nodes {
		parent := root
		if nd.Parent != "" {
			p, ok := transforms[nd.Parent]
			if !ok {
				return nil, fmt.Errorf("node %q: parent %q must be declared first", nd.Name, nd.Parent)
			}
			parent = p
		}
		local := core.IdentityTransform()
		local.Position = mgl32.Vec3(nd.Position)
		t, err := tree.Add(nd.Name, parent, local)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", nd.Name, err)
		}
		transforms[nd.Name] = t
		if nd.FollowCursor {
			sc.Followers = append(sc.Followers, t)
		}

		opts := uiparticle.NodeOptions{
			Name:               nd.Name,
			Transform:          tree.Ref(t),
			Canvas:             canvas,
			Scale:              nd.Scale,
			IgnoreParentScale:  nd.IgnoreParentScale,
			IgnoreCanvasScaler: nd.IgnoreCanvasScaler,
		}
		for _, ed := range nd.Emitters {
			e, err := buildEmitter(tree, t, ed)
			if err != nil {
				return nil, fmt.Errorf("node %q: %w", nd.Name, err)
			}
			sc.Emitters = append(sc.Emitters, e)
			opts.Sources = append(opts.Sources, uiparticle.Source{Particles: e, Renderer: e.Renderer()})
		}

		id, err := sc.System.NewNode(opts)
		if err != nil {
			return nil, err
		}
		if err := sc.System.Enable(id); err != nil {
			return nil, err
		}
		sc.Nodes[nd.Name] = id
	}
	return sc, nil
}

func buildEmitter(tree *uitree.Tree, node uitree.TransformId, ed EmitterDef) (*particles.Emitter, error) {
	cfg := particles.DefaultEmitterConfig()
	space, err := parseSpace(ed.Space)
	if err != nil {
		return nil, err
	}
	cfg.Space = space
	if ed.MaxParticles > 0 {
		cfg.MaxParticles = ed.MaxParticles
	}
	if ed.SpawnRate > 0 {
		cfg.SpawnRate = ed.SpawnRate
	}
	if ed.Lifetime != [2]float32{} {
		cfg.LifetimeRange = ed.Lifetime
	}
	if ed.Speed != [2]float32{} {
		cfg.StartSpeedRange = ed.Speed
	}
	if ed.Size != [2]float32{} {
		cfg.StartSizeRange = ed.Size
	}
	cfg.Gravity = ed.Gravity
	cfg.Drag = ed.Drag
	cfg.ConeAngleDegrees = ed.Cone
	cfg.Seed = ed.Seed
	if ed.Trails != nil {
		cfg.Trails.Enabled = ed.Trails.Enabled
		if ed.Trails.MaxPoints > 0 {
			cfg.Trails.MaxPoints = ed.Trails.MaxPoints
		}
		if ed.Trails.Width > 0 {
			cfg.Trails.Width = ed.Trails.Width
		}
		if ed.Trails.MinVertexDistance > 0 {
			cfg.Trails.MinVertexDistance = ed.Trails.MinVertexDistance
		}
	}

	t := node
	if ed.Offset != [3]float32{} {
		local := core.IdentityTransform()
		local.Position = mgl32.Vec3(ed.Offset)
		if t, err = tree.Add(ed.Name, node, local); err != nil {
			return nil, fmt.Errorf("emitter %q: %w", ed.Name, err)
		}
	}

	e := particles.NewEmitter(ed.Name, tree.Ref(t), cfg)
	mode, err := parseRenderMode(ed.RenderMode)
	if err != nil {
		return nil, fmt.Errorf("emitter %q: %w", ed.Name, err)
	}
	e.Renderer().SetRenderMode(mode)
	if ed.Color != [4]uint8{} {
		c := color.RGBA{ed.Color[0], ed.Color[1], ed.Color[2], ed.Color[3]}
		e.Renderer().SetMaterial(core.NewMaterial(ed.Name, core.NewSolidTexture(ed.Name, 4, 4, c)))
		e.Renderer().SetTrailMaterial(core.NewMaterial(ed.Name+" trail", core.NewSolidTexture(ed.Name+" trail", 4, 4, c)))
	}
	return e, nil
}

func parseCanvasMode(s string) (uitree.RenderMode, error) {
	switch strings.ToLower(s) {
	case "", "overlay":
		return uitree.ScreenSpaceOverlay, nil
	case "camera":
		return uitree.ScreenSpaceCamera, nil
	case "world":
		return uitree.WorldSpace, nil
	}
	return 0, fmt.Errorf("unknown canvas mode %q", s)
}

func parseSpace(s string) (core.SimulationSpace, error) {
	switch strings.ToLower(s) {
	case "", "local":
		return core.SimulationSpaceLocal, nil
	case "world":
		return core.SimulationSpaceWorld, nil
	case "custom":
		return core.SimulationSpaceCustom, nil
	}
	return 0, fmt.Errorf("unknown simulation space %q", s)
}

func parseRenderMode(s string) (core.RenderMode, error) {
	switch strings.ToLower(s) {
	case "", "billboard":
		return core.RenderModeBillboard, nil
	case "stretch":
		return core.RenderModeStretch, nil
	case "horizontal":
		return core.RenderModeHorizontalBillboard, nil
	case "vertical":
		return core.RenderModeVerticalBillboard, nil
	case "none":
		return core.RenderModeNone, nil
	}
	return 0, fmt.Errorf("unknown render mode %q", s)
}
