package uiparticle

import (
	"testing"

	"github.com/gekko3d/uiparticle/uitree"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHierarchy_EffectiveScaleIsInherited(t *testing.T) {
	f := newFixture(DefaultConfig())
	ta := f.transform("a", uitree.NoTransform, mgl32.Vec3{})
	tb := f.transform("b", ta, mgl32.Vec3{})
	tc := f.transform("c", tb, mgl32.Vec3{})
	a := f.enabled("a", ta, 3)
	b := f.enabled("b", tb, 7)
	c := f.enabled("c", tc, 11)
	h := f.sys.Hierarchy()

	assert.Equal(t, a, f.get(b).Parent())
	assert.Equal(t, b, f.get(c).Parent())
	assert.Equal(t, float32(3), h.EffectiveScale(a))
	assert.Equal(t, float32(3), h.EffectiveScale(b))
	assert.Equal(t, float32(3), h.EffectiveScale(c))

	require.NoError(t, f.sys.SetIgnoreParentScale(b, true))
	assert.Equal(t, NoNode, f.get(b).Parent())
	assert.NotContains(t, f.get(a).Children(), b)
	assert.Equal(t, float32(7), h.EffectiveScale(b))
	assert.Equal(t, float32(7), h.EffectiveScale(c))

	require.NoError(t, f.sys.SetIgnoreParentScale(b, false))
	assert.Equal(t, a, f.get(b).Parent())
	assert.Equal(t, float32(3), h.EffectiveScale(c))
}

func TestHierarchy_ResolveParentSkipsGapsAndDisabledNodes(t *testing.T) {
	f := newFixture(DefaultConfig())
	ta := f.transform("a", uitree.NoTransform, mgl32.Vec3{})
	gap := f.transform("gap", ta, mgl32.Vec3{})
	tb := f.transform("b", gap, mgl32.Vec3{})
	tc := f.transform("c", tb, mgl32.Vec3{})
	a := f.enabled("a", ta, 2)
	b := f.node("b", tb, 1)
	c := f.enabled("c", tc, 1)
	h := f.sys.Hierarchy()

	assert.Equal(t, a, h.ResolveParent(c), "disabled b is skipped")
	assert.Equal(t, NoNode, h.ResolveParent(b), "disabled nodes have no parent")

	require.NoError(t, f.sys.Enable(b))
	assert.Equal(t, a, f.get(b).Parent(), "transforms without a node are walked through")
	assert.Equal(t, b, f.get(c).Parent(), "enable re-resolves the subtree")
	assert.ElementsMatch(t, []NodeId{b}, f.get(a).Children())
}

func TestHierarchy_DisableReparentsChildren(t *testing.T) {
	f := newFixture(DefaultConfig())
	ta := f.transform("a", uitree.NoTransform, mgl32.Vec3{})
	tb := f.transform("b", ta, mgl32.Vec3{})
	tc := f.transform("c", tb, mgl32.Vec3{})
	a := f.enabled("a", ta, 4)
	b := f.enabled("b", tb, 1)
	c := f.enabled("c", tc, 1)

	require.NoError(t, f.sys.Disable(b))
	assert.Equal(t, a, f.get(c).Parent())
	assert.Equal(t, []NodeId{c}, f.get(a).Children())
	assert.Equal(t, NoNode, f.get(b).Parent())
	assert.Empty(t, f.get(b).Children())
	assert.Equal(t, float32(4), f.sys.Hierarchy().EffectiveScale(c))

	require.NoError(t, f.sys.Enable(b))
	assert.Equal(t, b, f.get(c).Parent())
	assert.Equal(t, []NodeId{b}, f.get(a).Children())
}

func TestHierarchy_SetParent(t *testing.T) {
	f := newFixture(DefaultConfig())
	ta := f.transform("a", uitree.NoTransform, mgl32.Vec3{})
	tb := f.transform("b", ta, mgl32.Vec3{})
	tc := f.transform("c", uitree.NoTransform, mgl32.Vec3{})
	a := f.enabled("a", ta, 1)
	b := f.enabled("b", tb, 1)
	c := f.enabled("c", tc, 1)
	h := f.sys.Hierarchy()

	require.NoError(t, h.SetParent(b, b))
	assert.Equal(t, a, f.get(b).Parent(), "self parent is a no-op")

	require.NoError(t, h.SetParent(b, a))
	assert.Equal(t, []NodeId{b}, f.get(a).Children(), "unchanged parent does not duplicate")

	assert.ErrorIs(t, h.SetParent(a, b), ErrNodeCycle)

	require.NoError(t, h.SetParent(b, c))
	assert.Empty(t, f.get(a).Children())
	assert.Equal(t, []NodeId{b}, f.get(c).Children())

	assert.ErrorIs(t, h.SetParent(NodeId(99), a), ErrUnknownNode)
}

func TestHierarchy_PrunesDestroyedChildren(t *testing.T) {
	f := newFixture(DefaultConfig())
	ta := f.transform("a", uitree.NoTransform, mgl32.Vec3{})
	tb := f.transform("b", ta, mgl32.Vec3{})
	tc := f.transform("c", ta, mgl32.Vec3{})
	a := f.enabled("a", ta, 1)
	b := f.enabled("b", tb, 1)
	c := f.node("c", tc, 1)

	// Drop b from the arena without going through Disable.
	f.sys.nodes.remove(b)
	require.Equal(t, []NodeId{b}, f.get(a).Children())

	require.NoError(t, f.sys.Enable(c))
	assert.Equal(t, []NodeId{c}, f.get(a).Children())
}
