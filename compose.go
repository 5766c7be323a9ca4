package uiparticle

import (
	"github.com/gekko3d/uiparticle/core"
	"github.com/go-gl/mathgl/mgl32"
)

// OuterScale is the uniform scale applied after every source matrix.
func OuterScale(n *Node, scale float32) mgl32.Mat4 {
	if n.ignoreCanvasScaler && n.canvas != nil {
		return core.UniformScaleMatrix(n.canvas.Scale().X() * scale)
	}
	return core.UniformScaleMatrix(scale)
}

// SimulationMatrix maps a source's baked vertices into the source's own
// local space. Custom space without a reference behaves as local.
func SimulationMatrix(src ParticleSource) mgl32.Mat4 {
	tr := src.Transform()
	space := src.SimulationSpace()
	custom, hasCustom := src.CustomSimulationSpace()
	if space == core.SimulationSpaceCustom && !hasCustom {
		space = core.SimulationSpaceLocal
	}

	switch space {
	case core.SimulationSpaceLocal:
		return core.InverseRotationMatrix(tr.Rotation()).Mul4(core.InverseScaleMatrix(tr.LossyScale()))
	case core.SimulationSpaceWorld:
		return tr.WorldToLocal()
	case core.SimulationSpaceCustom:
		p := custom.Position()
		return tr.WorldToLocal().Mul4(mgl32.Translate3D(p.X(), p.Y(), p.Z()))
	}
	return mgl32.Ident4()
}

// ComposeMatrix maps src's baked vertices into n's local space, including
// the outer scale. Sources on other transforms are offset so child emitters
// keep their placement relative to the node.
func ComposeMatrix(n *Node, src ParticleSource, scale float32) mgl32.Mat4 {
	root := n.transform
	srcTr := src.Transform()

	var m mgl32.Mat4
	if srcTr != root {
		m = core.InverseRotationMatrix(root.Rotation()).Mul4(core.InverseScaleMatrix(root.LossyScale()))
		if src.SimulationSpace() == core.SimulationSpaceLocal {
			rel := root.InverseTransformPoint(srcTr.Position())
			m = mgl32.Translate3D(rel.X(), rel.Y(), rel.Z()).Mul4(m)
		} else {
			p := root.Position()
			m = m.Mul4(mgl32.Translate3D(-p.X(), -p.Y(), -p.Z()))
		}
	} else {
		m = SimulationMatrix(src)
	}
	return OuterScale(n, scale).Mul4(m)
}
