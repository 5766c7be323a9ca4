package uitree

import (
	"github.com/gekko3d/uiparticle/core"
	"github.com/go-gl/mathgl/mgl32"
)

// Ref is a comparable handle to one transform of a Tree. The zero Ref, and
// a Ref whose transform was removed, are invalid and read as an identity
// transform at the origin.
type Ref struct {
	tree *Tree
	id   TransformId
	gen  uint32
}

func (r Ref) Valid() bool {
	return r.tree != nil && r.tree.Exists(r.id) && r.tree.entries[r.id].gen == r.gen
}

func (r Ref) Id() TransformId {
	if r.tree == nil {
		return NoTransform
	}
	return r.id
}

func (r Ref) Tree() *Tree { return r.tree }

func (r Ref) Name() string {
	if !r.Valid() {
		return ""
	}
	return r.tree.Name(r.id)
}

func (r Ref) Parent() Ref {
	if !r.Valid() {
		return Ref{}
	}
	p := r.tree.Parent(r.id)
	if p == NoTransform {
		return Ref{}
	}
	return r.tree.Ref(p)
}

func (r Ref) world() core.Transform {
	if !r.Valid() {
		return core.IdentityTransform()
	}
	return r.tree.World(r.id)
}

// Position is the world position.
func (r Ref) Position() mgl32.Vec3 { return r.world().Position }

// Rotation is the world rotation.
func (r Ref) Rotation() mgl32.Quat { return r.world().Rotation }

// LossyScale is the world scale, exact only without skew from rotated
// non-uniformly scaled ancestors.
func (r Ref) LossyScale() mgl32.Vec3 { return r.world().Scale }

func (r Ref) Local() core.Transform {
	if !r.Valid() {
		return core.IdentityTransform()
	}
	return r.tree.Local(r.id)
}

func (r Ref) LocalToWorld() mgl32.Mat4 {
	if !r.Valid() {
		return mgl32.Ident4()
	}
	return r.tree.LocalToWorldMatrix(r.id)
}

func (r Ref) WorldToLocal() mgl32.Mat4 {
	if !r.Valid() {
		return mgl32.Ident4()
	}
	return r.tree.WorldToLocalMatrix(r.id)
}

// InverseTransformPoint maps a world position into this transform's local space.
func (r Ref) InverseTransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	return core.MultiplyPoint3x4(r.WorldToLocal(), p)
}

// TransformPoint maps a local position into world space.
func (r Ref) TransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	return core.MultiplyPoint3x4(r.LocalToWorld(), p)
}
