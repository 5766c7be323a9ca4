package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Particle is one entry of a source's particle buffer as exposed by get/set.
// Position is expressed in the source's simulation space.
type Particle struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Size     float32
	Color    [4]float32 // RGBA (0..1)
	Age      float32
	Lifetime float32
}

type SimulationSpace int

const (
	SimulationSpaceLocal SimulationSpace = iota
	SimulationSpaceWorld
	SimulationSpaceCustom
)

func (s SimulationSpace) String() string {
	switch s {
	case SimulationSpaceLocal:
		return "local"
	case SimulationSpaceWorld:
		return "world"
	case SimulationSpaceCustom:
		return "custom"
	}
	return "unknown"
}

type RenderMode int

const (
	RenderModeBillboard RenderMode = iota
	RenderModeStretch
	RenderModeHorizontalBillboard
	RenderModeVerticalBillboard
	RenderModeMesh
	RenderModeNone
)

func (m RenderMode) String() string {
	switch m {
	case RenderModeBillboard:
		return "billboard"
	case RenderModeStretch:
		return "stretch"
	case RenderModeHorizontalBillboard:
		return "horizontal-billboard"
	case RenderModeVerticalBillboard:
		return "vertical-billboard"
	case RenderModeMesh:
		return "mesh"
	case RenderModeNone:
		return "none"
	}
	return "unknown"
}
