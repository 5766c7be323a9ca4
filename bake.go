package uiparticle

import (
	"fmt"

	"github.com/gekko3d/uiparticle/core"
	"github.com/go-gl/mathgl/mgl32"
)

func mainSlot(i int) int  { return 2 * i }
func trailSlot(i int) int { return 2*i + 1 }

// bakeNode rebuilds n's mesh from its sources. Nothing is written to the
// node's mesh unless every main bake succeeds, so a failing node keeps its
// previous geometry.
func (s *System) bakeNode(n *Node, scale float32) error {
	s.slots.Clear()
	cam := s.cameras.BakingCamera(n.canvas)

	// A proxy shares its owner's particles, which the owner already patched.
	var diff mgl32.Vec3
	if !n.isTrailProxy {
		pos := n.transform.Position()
		diff = DriftOffset(pos, n.cachedPosition, scale)
		n.cachedPosition = pos
	}

	for i, src := range n.sources {
		ps, r := src.Particles, src.Renderer
		if ps == nil || r == nil || !ps.IsAlive() || ps.ParticleCount() == 0 {
			continue
		}
		if ps.SimulationSpace() == core.SimulationSpaceWorld && diff.LenSqr() > 0 {
			patched := s.patch.Apply(ps, diff)
			s.nodeLog(n).Debugf("patched %d particles of %q by %v", patched, ps.Name(), diff)
		}

		// Unbakeable renderers contribute neither main nor trail geometry.
		if !canBakeMesh(r) {
			continue
		}

		s.slots.SetTransform(ComposeMatrix(n, ps, scale))

		if !n.isTrailProxy {
			m := s.slots.Temporary(mainSlot(i))
			if err := r.BakeMesh(m, cam); err != nil {
				s.slots.Discard()
				return fmt.Errorf("bake %q: %w", ps.Name(), err)
			}
			if m.IsEmpty() {
				s.slots.Discard()
			}
		}

		if ps.TrailsEnabled() && (n.isTrailProxy || !s.delegatesTrail(n, i)) {
			s.bakeTrail(n, ps, r, trailSlot(i), cam)
		}
	}

	s.slots.Combine(n.bakedMesh)
	n.activeSlots = s.slots.Active()
	return nil
}

// bakeTrail bakes into slot index. Any failure discards that slot only.
func (s *System) bakeTrail(n *Node, ps ParticleSource, r ParticleRenderer, index int, cam *core.Camera) {
	m := s.slots.Temporary(index)
	if err := safeBake(func() error { return r.BakeTrailsMesh(m, cam) }); err != nil {
		s.nodeLog(n).Debugf("trail bake of %q discarded: %v", ps.Name(), err)
		s.slots.Discard()
		return
	}
	if m.IsEmpty() {
		s.slots.Discard()
	}
}

func (s *System) nodeLog(n *Node) Logger {
	return WithNode(s.log, s.frame, n.id, n.name)
}

func safeBake(bake func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrBakePanic, r)
		}
	}()
	return bake()
}

// delegatesTrail reports whether source i's trail is drawn by n's proxy.
func (s *System) delegatesTrail(n *Node, i int) bool {
	if i != 0 || !s.cfg.TrailProxies {
		return false
	}
	p := s.nodes.get(n.trail)
	return p != nil && p.enabled
}
