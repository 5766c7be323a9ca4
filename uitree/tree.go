// Package uitree is a minimal UI transform hierarchy: an arena of TRS
// transforms addressed by stable ids, plus the canvases rooted in it.
package uitree

import (
	"errors"
	"fmt"

	"github.com/gekko3d/uiparticle/core"
	"github.com/go-gl/mathgl/mgl32"
)

type TransformId int32

const NoTransform TransformId = -1

var (
	ErrUnknownTransform = errors.New("uitree: unknown transform")
	ErrCycle            = errors.New("uitree: transform would become its own ancestor")
)

type entry struct {
	name     string
	alive    bool
	gen      uint32
	local    core.Transform
	parent   TransformId
	children []TransformId
}

// Tree owns every transform of a UI hierarchy.
type Tree struct {
	entries []entry
	free    []TransformId
}

func NewTree() *Tree {
	return &Tree{}
}

// Add creates a transform under parent (NoTransform for a root).
func (t *Tree) Add(name string, parent TransformId, local core.Transform) (TransformId, error) {
	if parent != NoTransform && !t.Exists(parent) {
		return NoTransform, fmt.Errorf("add %q under %d: %w", name, parent, ErrUnknownTransform)
	}
	var id TransformId
	if n := len(t.free); n > 0 {
		id = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		id = TransformId(len(t.entries))
		t.entries = append(t.entries, entry{})
	}
	t.entries[id] = entry{
		name:   name,
		alive:  true,
		gen:    t.entries[id].gen,
		local:  local,
		parent: NoTransform,
	}
	if parent != NoTransform {
		t.link(id, parent)
	}
	return id, nil
}

// MustAdd is Add for static setup code; it panics on error.
func (t *Tree) MustAdd(name string, parent TransformId, local core.Transform) TransformId {
	id, err := t.Add(name, parent, local)
	if err != nil {
		panic(err)
	}
	return id
}

func (t *Tree) Exists(id TransformId) bool {
	return id >= 0 && int(id) < len(t.entries) && t.entries[id].alive
}

// Remove deletes id and its whole subtree.
func (t *Tree) Remove(id TransformId) {
	if !t.Exists(id) {
		return
	}
	for _, c := range append([]TransformId(nil), t.entries[id].children...) {
		t.Remove(c)
	}
	t.unlink(id)
	// Bumping the generation invalidates every Ref to the removed transform.
	t.entries[id] = entry{parent: NoTransform, gen: t.entries[id].gen + 1}
	t.free = append(t.free, id)
}

func (t *Tree) Name(id TransformId) string {
	if !t.Exists(id) {
		return ""
	}
	return t.entries[id].name
}

func (t *Tree) Parent(id TransformId) TransformId {
	if !t.Exists(id) {
		return NoTransform
	}
	return t.entries[id].parent
}

func (t *Tree) Children(id TransformId) []TransformId {
	if !t.Exists(id) {
		return nil
	}
	return t.entries[id].children
}

// Descendants returns id followed by its subtree in depth-first pre-order.
func (t *Tree) Descendants(id TransformId) []TransformId {
	if !t.Exists(id) {
		return nil
	}
	out := []TransformId{id}
	for _, c := range t.entries[id].children {
		out = append(out, t.Descendants(c)...)
	}
	return out
}

// Root returns the top-most ancestor of id.
func (t *Tree) Root(id TransformId) TransformId {
	if !t.Exists(id) {
		return NoTransform
	}
	for t.entries[id].parent != NoTransform {
		id = t.entries[id].parent
	}
	return id
}

// IsAncestor reports whether a is a strict ancestor of id.
func (t *Tree) IsAncestor(a, id TransformId) bool {
	for p := t.Parent(id); p != NoTransform; p = t.Parent(p) {
		if p == a {
			return true
		}
	}
	return false
}

// SetParent moves id under parent, keeping its local TRS.
func (t *Tree) SetParent(id, parent TransformId) error {
	if !t.Exists(id) {
		return fmt.Errorf("reparent %d: %w", id, ErrUnknownTransform)
	}
	if parent != NoTransform {
		if !t.Exists(parent) {
			return fmt.Errorf("reparent %d under %d: %w", id, parent, ErrUnknownTransform)
		}
		if parent == id || t.IsAncestor(id, parent) {
			return fmt.Errorf("reparent %d under %d: %w", id, parent, ErrCycle)
		}
	}
	if t.entries[id].parent == parent {
		return nil
	}
	t.unlink(id)
	if parent != NoTransform {
		t.link(id, parent)
	}
	return nil
}

func (t *Tree) link(id, parent TransformId) {
	t.entries[id].parent = parent
	t.entries[parent].children = append(t.entries[parent].children, id)
}

func (t *Tree) unlink(id TransformId) {
	p := t.entries[id].parent
	if p == NoTransform {
		return
	}
	siblings := t.entries[p].children
	for i, c := range siblings {
		if c == id {
			t.entries[p].children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	t.entries[id].parent = NoTransform
}

func (t *Tree) Local(id TransformId) core.Transform {
	if !t.Exists(id) {
		return core.IdentityTransform()
	}
	return t.entries[id].local
}

func (t *Tree) SetLocal(id TransformId, local core.Transform) {
	if t.Exists(id) {
		t.entries[id].local = local
	}
}

func (t *Tree) SetLocalPosition(id TransformId, p mgl32.Vec3) {
	if t.Exists(id) {
		t.entries[id].local.Position = p
	}
}

func (t *Tree) SetLocalRotation(id TransformId, q mgl32.Quat) {
	if t.Exists(id) {
		t.entries[id].local.Rotation = q
	}
}

func (t *Tree) SetLocalScale(id TransformId, s mgl32.Vec3) {
	if t.Exists(id) {
		t.entries[id].local.Scale = s
	}
}

// World composes id's TRS with all of its ancestors. Scale is propagated
// per component so reflections keep their sign.
func (t *Tree) World(id TransformId) core.Transform {
	if !t.Exists(id) {
		return core.IdentityTransform()
	}
	local := t.entries[id].local
	parent := t.entries[id].parent
	if parent == NoTransform {
		return local
	}
	parentWorld := t.World(parent)

	// WorldPos = ParentPos + ParentRot * (ParentScale * LocalPos)
	scaledLocalPos := mgl32.Vec3{
		local.Position.X() * parentWorld.Scale.X(),
		local.Position.Y() * parentWorld.Scale.Y(),
		local.Position.Z() * parentWorld.Scale.Z(),
	}
	return core.Transform{
		Position: parentWorld.Position.Add(parentWorld.Rotation.Rotate(scaledLocalPos)),
		Rotation: parentWorld.Rotation.Mul(local.Rotation).Normalize(),
		Scale: mgl32.Vec3{
			parentWorld.Scale.X() * local.Scale.X(),
			parentWorld.Scale.Y() * local.Scale.Y(),
			parentWorld.Scale.Z() * local.Scale.Z(),
		},
	}
}

// LocalToWorldMatrix is the product of every TRS matrix from the root down.
func (t *Tree) LocalToWorldMatrix(id TransformId) mgl32.Mat4 {
	if !t.Exists(id) {
		return mgl32.Ident4()
	}
	m := t.entries[id].local.ObjectToWorld()
	if p := t.entries[id].parent; p != NoTransform {
		return t.LocalToWorldMatrix(p).Mul4(m)
	}
	return m
}

// WorldToLocalMatrix inverts LocalToWorldMatrix one level at a time, so a
// zero scale axis degrades to a factor of 1 instead of a singular matrix.
func (t *Tree) WorldToLocalMatrix(id TransformId) mgl32.Mat4 {
	if !t.Exists(id) {
		return mgl32.Ident4()
	}
	m := t.entries[id].local.WorldToObject()
	if p := t.entries[id].parent; p != NoTransform {
		return m.Mul4(t.WorldToLocalMatrix(p))
	}
	return m
}

// Ref returns a handle to the transform currently at id. The handle stops
// being valid once that transform is removed, even if id is reused.
func (t *Tree) Ref(id TransformId) Ref {
	var gen uint32
	if t.Exists(id) {
		gen = t.entries[id].gen
	}
	return Ref{tree: t, id: id, gen: gen}
}
