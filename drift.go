package uiparticle

import (
	"math/bits"

	"github.com/gekko3d/uiparticle/core"
	"github.com/go-gl/mathgl/mgl32"
)

// DriftOffset is the correction for world-space particles when the node moved
// from cached to current. A zero or non-finite scale yields no correction.
func DriftOffset(current, cached mgl32.Vec3, scale float32) mgl32.Vec3 {
	if scale == 0 || !core.IsFinite(scale) {
		return mgl32.Vec3{}
	}
	d := current.Sub(cached).Mul(1 - 1/scale)
	if !core.IsFinite(d.X()) || !core.IsFinite(d.Y()) || !core.IsFinite(d.Z()) {
		return mgl32.Vec3{}
	}
	return d
}

// PatchBuffer is the shared scratch buffer for reading and rewriting particle
// positions. It grows to the next power of two and never shrinks.
type PatchBuffer struct {
	particles []core.Particle
}

func NewPatchBuffer(capacity int) *PatchBuffer {
	if capacity <= 0 {
		capacity = defaultPatchBufferCapacity
	}
	return &PatchBuffer{particles: make([]core.Particle, capacity)}
}

func (b *PatchBuffer) Cap() int {
	return len(b.particles)
}

// Reserve returns a buffer of at least n particles.
func (b *PatchBuffer) Reserve(n int) []core.Particle {
	if len(b.particles) < n {
		b.particles = make([]core.Particle, nextPowerOfTwo(n))
	}
	return b.particles
}

// Apply adds diff to every live particle of src and writes them back.
// It returns the number of particles patched.
func (b *PatchBuffer) Apply(src ParticleSource, diff mgl32.Vec3) int {
	buf := b.Reserve(src.ParticleCount())
	n := src.GetParticles(buf)
	for i := 0; i < n; i++ {
		buf[i].Position = buf[i].Position.Add(diff)
	}
	src.SetParticles(buf[:n])
	return n
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
