package uiparticle

import (
	"testing"

	"github.com/gekko3d/uiparticle/core"
	"github.com/gekko3d/uiparticle/uitree"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestComposeMatrix_LocalCancelsSourceTransform(t *testing.T) {
	f := newFixture(DefaultConfig())
	tr := f.transform("emitter", uitree.NoTransform, mgl32.Vec3{7, -3, 2})
	f.tree.SetLocalRotation(tr, mgl32.QuatRotate(0.8, mgl32.Vec3{0, 0, 1}))
	f.tree.SetLocalScale(tr, mgl32.Vec3{2, 0.5, 3})
	ref := f.tree.Ref(tr)
	src := newFakeSource("local", ref, core.SimulationSpaceLocal)
	id := f.node("a", tr, 1.5, src)

	rs := ref.Rotation().Mat4().Mul4(mgl32.Scale3D(2, 0.5, 3))
	got := ComposeMatrix(f.get(id), src, 1.5).Mul4(rs)

	assert.True(t, mat4InDelta(core.UniformScaleMatrix(1.5), got, 1e-5), "got %v", got)
}

func TestComposeMatrix_WorldUsesWorldToLocal(t *testing.T) {
	f := newFixture(DefaultConfig())
	tr := f.transform("emitter", uitree.NoTransform, mgl32.Vec3{4, 1, 0})
	f.tree.SetLocalRotation(tr, mgl32.QuatRotate(0.3, mgl32.Vec3{0, 1, 0}))
	ref := f.tree.Ref(tr)
	src := newFakeSource("world", ref, core.SimulationSpaceWorld)
	id := f.node("a", tr, 2, src)

	want := core.UniformScaleMatrix(2).Mul4(ref.WorldToLocal())
	assert.True(t, mat4InDelta(want, ComposeMatrix(f.get(id), src, 2), 1e-6))

	// The world position of the node maps to its local origin.
	p := core.MultiplyPoint3x4(ComposeMatrix(f.get(id), src, 1), ref.Position())
	assert.InDelta(t, 0, p.Len(), 1e-5)
}

func TestComposeMatrix_CustomSpace(t *testing.T) {
	f := newFixture(DefaultConfig())
	tr := f.transform("emitter", uitree.NoTransform, mgl32.Vec3{1, 0, 0})
	anchor := f.transform("anchor", uitree.NoTransform, mgl32.Vec3{0, 5, 0})
	ref := f.tree.Ref(tr)
	src := newFakeSource("custom", ref, core.SimulationSpaceCustom)
	src.custom, src.hasCustom = f.tree.Ref(anchor), true
	id := f.node("a", tr, 1, src)

	// An offset of zero from the anchor lands on the anchor.
	p := core.MultiplyPoint3x4(ComposeMatrix(f.get(id), src, 1), mgl32.Vec3{})
	assert.InDelta(t, 0, p.Sub(mgl32.Vec3{-1, 5, 0}).Len(), 1e-5)

	// Without a reference custom space falls back to local.
	src.hasCustom = false
	local := newFakeSource("local", ref, core.SimulationSpaceLocal)
	assert.Equal(t, SimulationMatrix(local), SimulationMatrix(src))
}

func TestComposeMatrix_ChildSourceOffsets(t *testing.T) {
	f := newFixture(DefaultConfig())
	tr := f.transform("node", uitree.NoTransform, mgl32.Vec3{10, 0, 0})
	child := f.transform("child", tr, mgl32.Vec3{5, 2, 0})
	id := f.node("a", tr, 1)

	local := newFakeSource("local", f.tree.Ref(child), core.SimulationSpaceLocal)
	p := core.MultiplyPoint3x4(ComposeMatrix(f.get(id), local, 1), mgl32.Vec3{})
	assert.InDelta(t, 0, p.Sub(mgl32.Vec3{5, 2, 0}).Len(), 1e-5)

	world := newFakeSource("world", f.tree.Ref(child), core.SimulationSpaceWorld)
	p = core.MultiplyPoint3x4(ComposeMatrix(f.get(id), world, 1), mgl32.Vec3{12, 1, 0})
	assert.InDelta(t, 0, p.Sub(mgl32.Vec3{2, 1, 0}).Len(), 1e-5)
}

func TestCanvasScaler_ZeroAxisKeepsUnitFactor(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.tree.SetLocalScale(f.canvas.Root.Id(), mgl32.Vec3{0, 2, 0})
	tr := f.transform("node", uitree.NoTransform, mgl32.Vec3{})
	id := f.node("a", tr, 1)
	n := f.get(id)
	n.ignoreCanvasScaler = true

	assert.True(t, compensateCanvasScale(n))
	assert.Equal(t, mgl32.Vec3{1, 0.5, 1}, f.tree.Local(tr).Scale)
	assert.Equal(t, core.UniformScaleMatrix(0), OuterScale(n, 3))
}
