package particles

import (
	"testing"

	"github.com/gekko3d/uiparticle/core"
	"github.com/gekko3d/uiparticle/uitree"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietConfig() EmitterConfig {
	cfg := DefaultEmitterConfig()
	cfg.SpawnRate = 0
	cfg.StartSpeedRange = [2]float32{0, 0}
	cfg.LifetimeRange = [2]float32{10, 10}
	return cfg
}

func emitterAt(pos mgl32.Vec3, cfg EmitterConfig) (*Emitter, *uitree.Tree, uitree.TransformId) {
	tree := uitree.NewTree()
	local := core.IdentityTransform()
	local.Position = pos
	id := tree.MustAdd("emitter", uitree.NoTransform, local)
	return NewEmitter("e", tree.Ref(id), cfg), tree, id
}

func TestEmitter_SpawnRate(t *testing.T) {
	cfg := quietConfig()
	cfg.SpawnRate = 10
	e, _, _ := emitterAt(mgl32.Vec3{}, cfg)

	e.Simulate(0.5)
	assert.Equal(t, 5, e.ParticleCount())

	e.Stop()
	e.Simulate(0.5)
	assert.Equal(t, 5, e.ParticleCount())
	assert.True(t, e.IsAlive())
}

func TestEmitter_EmitIsBoundedByCapacity(t *testing.T) {
	cfg := quietConfig()
	cfg.MaxParticles = 4
	e, _, _ := emitterAt(mgl32.Vec3{}, cfg)

	e.Emit(10)
	assert.Equal(t, 4, e.ParticleCount())
	e.Emit(1)
	assert.Equal(t, 4, e.ParticleCount())
}

func TestEmitter_ParticlesExpire(t *testing.T) {
	cfg := quietConfig()
	cfg.LifetimeRange = [2]float32{0.1, 0.1}
	e, _, _ := emitterAt(mgl32.Vec3{}, cfg)

	e.Emit(3)
	e.Stop()
	e.Simulate(0.2)

	assert.Equal(t, 0, e.ParticleCount())
	assert.False(t, e.IsAlive())

	e.Play()
	assert.True(t, e.IsAlive())
	e.SetEnabled(false)
	assert.False(t, e.IsAlive())
}

func TestEmitter_SpawnOriginFollowsSimulationSpace(t *testing.T) {
	tests := []struct {
		name  string
		space core.SimulationSpace
		want  mgl32.Vec3
	}{
		{"local", core.SimulationSpaceLocal, mgl32.Vec3{}},
		{"world", core.SimulationSpaceWorld, mgl32.Vec3{5, 1, 0}},
		{"custom", core.SimulationSpaceCustom, mgl32.Vec3{3, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := quietConfig()
			cfg.Space = tt.space
			e, tree, _ := emitterAt(mgl32.Vec3{5, 1, 0}, cfg)
			local := core.IdentityTransform()
			local.Position = mgl32.Vec3{2, 0, 0}
			e.SetCustomSimulationSpace(tree.Ref(tree.MustAdd("anchor", uitree.NoTransform, local)))

			e.Emit(1)
			buf := make([]core.Particle, 4)
			require.Equal(t, 1, e.GetParticles(buf))
			assert.Equal(t, tt.want, buf[0].Position)
		})
	}
}

func TestEmitter_CustomWithoutReferenceSimulatesLocally(t *testing.T) {
	cfg := quietConfig()
	cfg.Space = core.SimulationSpaceCustom
	e, _, _ := emitterAt(mgl32.Vec3{5, 0, 0}, cfg)

	_, ok := e.CustomSimulationSpace()
	assert.False(t, ok)
	assert.True(t, e.simulatesLocally())
}

func TestEmitter_GetSetParticles(t *testing.T) {
	e, _, _ := emitterAt(mgl32.Vec3{}, quietConfig())
	e.Emit(3)

	in := []core.Particle{
		{Position: mgl32.Vec3{1, 0, 0}, Size: 2, Lifetime: 5, Color: [4]float32{1, 0, 0, 1}},
		{Position: mgl32.Vec3{0, 1, 0}, Size: 1, Lifetime: 5, Color: [4]float32{0, 1, 0, 1}},
	}
	e.SetParticles(in)
	assert.Equal(t, 2, e.ParticleCount())

	out := make([]core.Particle, 1)
	assert.Equal(t, 1, e.GetParticles(out), "copy is bounded by dst")
	assert.Equal(t, in[0], out[0])

	out = make([]core.Particle, 8)
	require.Equal(t, 2, e.GetParticles(out))
	assert.Equal(t, in, out[:2])

	e.Clear()
	assert.Equal(t, 0, e.ParticleCount())
}

func TestEmitter_TrailHistoryIsBounded(t *testing.T) {
	cfg := quietConfig()
	cfg.StartSpeedRange = [2]float32{1, 1}
	cfg.Trails = TrailConfig{Enabled: true, MaxPoints: 3, Width: 1, MinVertexDistance: 0}
	e, _, _ := emitterAt(mgl32.Vec3{}, cfg)

	e.Emit(1)
	for i := 0; i < 10; i++ {
		e.Simulate(0.1)
	}

	require.Equal(t, 1, e.ParticleCount())
	assert.Len(t, e.pool.trail[0], 3)
	assert.Equal(t, e.pool.pos[0], e.pool.trail[0][2])
}

func TestEmitter_GravityAndDrag(t *testing.T) {
	cfg := quietConfig()
	cfg.Gravity = 10
	cfg.Space = core.SimulationSpaceWorld
	e, _, _ := emitterAt(mgl32.Vec3{}, cfg)
	e.SetParticles([]core.Particle{{Lifetime: 10, Size: 1}})

	e.Simulate(0.1)

	buf := make([]core.Particle, 1)
	e.GetParticles(buf)
	assert.InDelta(t, -1, buf[0].Velocity.Y(), 1e-5)
	assert.InDelta(t, -0.1, buf[0].Position.Y(), 1e-5)
}
