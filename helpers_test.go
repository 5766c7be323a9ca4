package uiparticle

import (
	"errors"

	"github.com/gekko3d/uiparticle/core"
	"github.com/gekko3d/uiparticle/uitree"
	"github.com/go-gl/mathgl/mgl32"
)

var errBoom = errors.New("boom")

// fakeSource is both the simulation and the renderer of a test source.
// BakeMesh emits a unit quad centered on every particle position.
type fakeSource struct {
	name      string
	ref       uitree.Ref
	alive     bool
	space     core.SimulationSpace
	custom    uitree.Ref
	hasCustom bool
	trails    bool
	sheet     *core.SpriteSheet
	particles []core.Particle

	mode          core.RenderMode
	mesh          *core.Mesh
	material      *core.Material
	trailMaterial *core.Material

	bakeErr    error
	bakePanic  bool
	trailPanic bool
	setCalls   int
}

func newFakeSource(name string, ref uitree.Ref, space core.SimulationSpace, positions ...mgl32.Vec3) *fakeSource {
	f := &fakeSource{name: name, ref: ref, alive: true, space: space, mode: core.RenderModeBillboard}
	for _, p := range positions {
		f.particles = append(f.particles, core.Particle{Position: p, Size: 1, Color: [4]float32{1, 1, 1, 1}, Lifetime: 1})
	}
	return f
}

func (f *fakeSource) source() Source { return Source{Particles: f, Renderer: f} }

func (f *fakeSource) Name() string                          { return f.name }
func (f *fakeSource) Transform() uitree.Ref                 { return f.ref }
func (f *fakeSource) IsAlive() bool                         { return f.alive }
func (f *fakeSource) ParticleCount() int                    { return len(f.particles) }
func (f *fakeSource) SimulationSpace() core.SimulationSpace { return f.space }
func (f *fakeSource) TrailsEnabled() bool                   { return f.trails }
func (f *fakeSource) TextureSheet() *core.SpriteSheet       { return f.sheet }
func (f *fakeSource) RenderMode() core.RenderMode           { return f.mode }
func (f *fakeSource) Mesh() *core.Mesh                      { return f.mesh }
func (f *fakeSource) Material() *core.Material              { return f.material }
func (f *fakeSource) TrailMaterial() *core.Material         { return f.trailMaterial }

func (f *fakeSource) CustomSimulationSpace() (uitree.Ref, bool) {
	return f.custom, f.hasCustom
}

func (f *fakeSource) GetParticles(dst []core.Particle) int {
	return copy(dst, f.particles)
}

func (f *fakeSource) SetParticles(src []core.Particle) {
	f.setCalls++
	f.particles = append(f.particles[:0], src...)
}

func (f *fakeSource) BakeMesh(dst *core.Mesh, cam *core.Camera) error {
	if f.bakePanic {
		panic("bake exploded")
	}
	if f.bakeErr != nil {
		return f.bakeErr
	}
	for _, p := range f.particles {
		addQuad(dst, p.Position, p.Color)
	}
	return nil
}

func (f *fakeSource) BakeTrailsMesh(dst *core.Mesh, cam *core.Camera) error {
	if f.trailPanic {
		panic("trail exploded")
	}
	if !f.trails {
		return errBoom
	}
	for _, p := range f.particles {
		addQuad(dst, p.Position.Add(mgl32.Vec3{0, -1, 0}), p.Color)
	}
	return nil
}

func addQuad(dst *core.Mesh, c mgl32.Vec3, color [4]float32) {
	dst.AddQuad([4]mgl32.Vec3{
		c.Add(mgl32.Vec3{-0.5, -0.5, 0}),
		c.Add(mgl32.Vec3{-0.5, 0.5, 0}),
		c.Add(mgl32.Vec3{0.5, 0.5, 0}),
		c.Add(mgl32.Vec3{0.5, -0.5, 0}),
	}, color, mgl32.Vec4{0, 0, 1, 1})
}

// recorder is a CanvasRenderer keeping the last upload per node.
type recorder struct {
	meshes   map[NodeId]*core.Mesh
	textures map[NodeId]*core.Texture
	uploads  int
}

func newRecorder() *recorder {
	return &recorder{meshes: map[NodeId]*core.Mesh{}, textures: map[NodeId]*core.Texture{}}
}

func (r *recorder) SetMesh(id NodeId, m *core.Mesh) {
	r.uploads++
	r.meshes[id] = m
}

func (r *recorder) SetTexture(id NodeId, tex *core.Texture) {
	r.textures[id] = tex
}

type fixture struct {
	sys    *System
	tree   *uitree.Tree
	canvas *uitree.Canvas
	out    *recorder
}

func newFixture(cfg Config) *fixture {
	tree := uitree.NewTree()
	root := tree.MustAdd("canvas", uitree.NoTransform, core.IdentityTransform())
	out := newRecorder()
	return &fixture{
		sys:    NewSystem(tree, out, cfg),
		tree:   tree,
		canvas: uitree.NewCanvas(tree.Ref(root), uitree.ScreenSpaceOverlay),
		out:    out,
	}
}

// transform adds a transform under parent (the canvas root when NoTransform).
func (f *fixture) transform(name string, parent uitree.TransformId, pos mgl32.Vec3) uitree.TransformId {
	if parent == uitree.NoTransform {
		parent = f.canvas.Root.Id()
	}
	local := core.IdentityTransform()
	local.Position = pos
	return f.tree.MustAdd(name, parent, local)
}

func (f *fixture) node(name string, t uitree.TransformId, scale float32, sources ...*fakeSource) NodeId {
	opts := NodeOptions{Name: name, Transform: f.tree.Ref(t), Canvas: f.canvas, Scale: scale}
	for _, s := range sources {
		opts.Sources = append(opts.Sources, s.source())
	}
	id, err := f.sys.NewNode(opts)
	if err != nil {
		panic(err)
	}
	return id
}

func (f *fixture) enabled(name string, t uitree.TransformId, scale float32, sources ...*fakeSource) NodeId {
	id := f.node(name, t, scale, sources...)
	if err := f.sys.Enable(id); err != nil {
		panic(err)
	}
	return id
}

func (f *fixture) get(id NodeId) *Node {
	n, err := f.sys.Node(id)
	if err != nil {
		panic(err)
	}
	return n
}

func mat4InDelta(a, b mgl32.Mat4, delta float32) bool {
	for i := range a {
		d := a[i] - b[i]
		if d > delta || d < -delta {
			return false
		}
	}
	return true
}
