package uiparticle

import (
	"github.com/gekko3d/uiparticle/core"
	"github.com/gekko3d/uiparticle/uitree"
)

// ParticleSource is a live particle simulation owned by an external engine.
// The pipeline only queries it and patches particle positions.
type ParticleSource interface {
	Name() string
	Transform() uitree.Ref
	IsAlive() bool
	ParticleCount() int
	SimulationSpace() core.SimulationSpace
	// CustomSimulationSpace returns the reference transform of the custom
	// simulation space; false when none is set.
	CustomSimulationSpace() (uitree.Ref, bool)
	TrailsEnabled() bool
	// TextureSheet may return nil.
	TextureSheet() *core.SpriteSheet
	GetParticles(dst []core.Particle) int
	SetParticles(src []core.Particle)
}

// ParticleRenderer bakes a source into geometry. Baked positions are:
// world-oriented offsets from the source pivot for local space, absolute
// world positions for world space, and offsets from the custom reference
// for custom space. Bakes append to dst.
type ParticleRenderer interface {
	RenderMode() core.RenderMode
	// Mesh is the instanced mesh for core.RenderModeMesh; nil when unassigned.
	Mesh() *core.Mesh
	Material() *core.Material
	TrailMaterial() *core.Material
	BakeMesh(dst *core.Mesh, cam *core.Camera) error
	BakeTrailsMesh(dst *core.Mesh, cam *core.Camera) error
}

// Source binds a simulation to the renderer that bakes it.
type Source struct {
	Particles ParticleSource
	Renderer  ParticleRenderer
}

// CanvasRenderer receives each active node's combined mesh and texture once
// per frame. A nil mesh means the node was disabled and its geometry released.
type CanvasRenderer interface {
	SetMesh(node NodeId, mesh *core.Mesh)
	SetTexture(node NodeId, tex *core.Texture)
}

func canBakeMesh(r ParticleRenderer) bool {
	if r == nil {
		return false
	}
	// Mesh mode without a mesh has nothing to instance.
	if r.RenderMode() == core.RenderModeMesh && r.Mesh() == nil {
		return false
	}
	return r.RenderMode() != core.RenderModeNone
}
