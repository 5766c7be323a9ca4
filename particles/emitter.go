// Package particles is a small CPU particle simulation that satisfies the
// source and renderer contracts consumed by the UI particle pipeline.
package particles

import (
	"math"
	"math/rand"

	"github.com/gekko3d/uiparticle/core"
	"github.com/gekko3d/uiparticle/uitree"
	"github.com/go-gl/mathgl/mgl32"
)

// EmitterConfig controls a CPU-simulated particle emitter.
type EmitterConfig struct {
	MaxParticles int

	SpawnRate        float32    // particles per second
	LifetimeRange    [2]float32 // seconds (min,max)
	StartSpeedRange  [2]float32 // units/sec (min,max)
	StartSizeRange   [2]float32 // units (min,max)
	StartColorMin    [4]float32 // RGBA min (0..1)
	StartColorMax    [4]float32 // RGBA max (0..1)
	Gravity          float32    // positive acceleration downward
	Drag             float32    // per-second linear drag (0..inf)
	ConeAngleDegrees float32    // 0=along emitter up axis; larger spreads

	Space  core.SimulationSpace
	Trails TrailConfig
	Seed   int64
}

type TrailConfig struct {
	Enabled           bool
	MaxPoints         int     // history points kept per particle
	Width             float32 // ribbon width as a fraction of particle size
	MinVertexDistance float32
}

func DefaultEmitterConfig() EmitterConfig {
	return EmitterConfig{
		MaxParticles:    256,
		SpawnRate:       20,
		LifetimeRange:   [2]float32{1, 2},
		StartSpeedRange: [2]float32{1, 3},
		StartSizeRange:  [2]float32{0.5, 1},
		StartColorMin:   [4]float32{1, 1, 1, 1},
		StartColorMax:   [4]float32{1, 1, 1, 1},
		Space:           core.SimulationSpaceLocal,
		Trails: TrailConfig{
			MaxPoints:         8,
			Width:             0.5,
			MinVertexDistance: 0.1,
		},
	}
}

// Emitter owns a particle pool. Positions are kept in the configured
// simulation space: emitter-local, world, or relative to the custom
// reference transform.
type Emitter struct {
	name      string
	cfg       EmitterConfig
	transform uitree.Ref
	custom    uitree.Ref

	enabled  bool
	emitting bool

	pool     particlePool
	renderer *Renderer
	sheet    *core.SpriteSheet
	rng      *rand.Rand
}

// SoA pool with swap-remove.
type particlePool struct {
	pos   []mgl32.Vec3
	vel   []mgl32.Vec3
	age   []float32
	life  []float32
	size  []float32
	color [][4]float32
	trail [][]mgl32.Vec3

	alive    int
	spawnAcc float32 // fractional spawns accumulator
	capacity int
}

func (p *particlePool) ensure(capacity int) {
	if capacity <= 0 {
		capacity = 1
	}
	if p.capacity == capacity && p.pos != nil {
		return
	}
	p.capacity = capacity
	p.pos = make([]mgl32.Vec3, capacity)
	p.vel = make([]mgl32.Vec3, capacity)
	p.age = make([]float32, capacity)
	p.life = make([]float32, capacity)
	p.size = make([]float32, capacity)
	p.color = make([][4]float32, capacity)
	p.trail = make([][]mgl32.Vec3, capacity)
	p.alive = 0
	p.spawnAcc = 0
}

func (p *particlePool) killAt(i int) {
	last := p.alive - 1
	p.pos[i] = p.pos[last]
	p.vel[i] = p.vel[last]
	p.age[i] = p.age[last]
	p.life[i] = p.life[last]
	p.size[i] = p.size[last]
	p.color[i] = p.color[last]
	p.trail[i], p.trail[last] = p.trail[last], p.trail[i][:0]
	p.alive--
}

func NewEmitter(name string, transform uitree.Ref, cfg EmitterConfig) *Emitter {
	e := &Emitter{
		name:      name,
		cfg:       cfg,
		transform: transform,
		enabled:   true,
		emitting:  true,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
	}
	e.pool.ensure(cfg.MaxParticles)
	e.renderer = newRenderer(e)
	return e
}

func (e *Emitter) Name() string                          { return e.name }
func (e *Emitter) Transform() uitree.Ref                 { return e.transform }
func (e *Emitter) SimulationSpace() core.SimulationSpace { return e.cfg.Space }
func (e *Emitter) Config() EmitterConfig                 { return e.cfg }
func (e *Emitter) Renderer() *Renderer                   { return e.renderer }
func (e *Emitter) TextureSheet() *core.SpriteSheet       { return e.sheet }
func (e *Emitter) TrailsEnabled() bool                   { return e.cfg.Trails.Enabled }
func (e *Emitter) ParticleCount() int                    { return e.pool.alive }

// IsAlive reports whether the emitter is still emitting or has live particles.
func (e *Emitter) IsAlive() bool {
	return e.enabled && (e.emitting || e.pool.alive > 0)
}

func (e *Emitter) SetEnabled(enabled bool)                   { e.enabled = enabled }
func (e *Emitter) SetTrailsEnabled(enabled bool)             { e.cfg.Trails.Enabled = enabled }
func (e *Emitter) SetSimulationSpace(s core.SimulationSpace) { e.cfg.Space = s }
func (e *Emitter) SetTextureSheet(s *core.SpriteSheet)       { e.sheet = s }

// SetCustomSimulationSpace sets the reference transform used by the custom
// simulation space. A zero Ref clears it.
func (e *Emitter) SetCustomSimulationSpace(ref uitree.Ref) { e.custom = ref }

func (e *Emitter) CustomSimulationSpace() (uitree.Ref, bool) {
	return e.custom, e.custom.Valid()
}

// simulatesLocally is true for local space and for custom space without a reference.
func (e *Emitter) simulatesLocally() bool {
	switch e.cfg.Space {
	case core.SimulationSpaceLocal:
		return true
	case core.SimulationSpaceCustom:
		return !e.custom.Valid()
	}
	return false
}

// Play resumes spawning; Stop halts spawning and lets live particles expire.
func (e *Emitter) Play() { e.emitting = true }
func (e *Emitter) Stop() { e.emitting = false }

// Clear kills every particle.
func (e *Emitter) Clear() {
	for i := 0; i < e.pool.alive; i++ {
		e.pool.trail[i] = e.pool.trail[i][:0]
	}
	e.pool.alive = 0
	e.pool.spawnAcc = 0
}

// GetParticles copies live particles into dst and returns how many were copied.
func (e *Emitter) GetParticles(dst []core.Particle) int {
	n := min(len(dst), e.pool.alive)
	for i := 0; i < n; i++ {
		dst[i] = core.Particle{
			Position: e.pool.pos[i],
			Velocity: e.pool.vel[i],
			Size:     e.pool.size[i],
			Color:    e.pool.color[i],
			Age:      e.pool.age[i],
			Lifetime: e.pool.life[i],
		}
	}
	return n
}

// SetParticles replaces the live set with src, truncated to capacity.
func (e *Emitter) SetParticles(src []core.Particle) {
	n := min(len(src), e.pool.capacity)
	for i := 0; i < n; i++ {
		p := src[i]
		if i >= e.pool.alive {
			e.pool.trail[i] = append(e.pool.trail[i][:0], p.Position)
		}
		e.pool.pos[i] = p.Position
		e.pool.vel[i] = p.Velocity
		e.pool.size[i] = p.Size
		e.pool.color[i] = p.Color
		e.pool.age[i] = p.Age
		e.pool.life[i] = p.Lifetime
	}
	for i := n; i < e.pool.alive; i++ {
		e.pool.trail[i] = e.pool.trail[i][:0]
	}
	e.pool.alive = n
}

// Emit spawns n particles immediately, bounded by free capacity.
func (e *Emitter) Emit(n int) {
	if n > e.pool.capacity-e.pool.alive {
		n = e.pool.capacity - e.pool.alive
	}
	origin, rot := e.spawnFrame()
	for i := 0; i < n; i++ {
		e.spawn(origin, rot)
	}
}

// spawnFrame returns the spawn origin and orientation in simulation space.
func (e *Emitter) spawnFrame() (mgl32.Vec3, mgl32.Quat) {
	switch e.cfg.Space {
	case core.SimulationSpaceWorld:
		return e.transform.Position(), e.transform.Rotation()
	case core.SimulationSpaceCustom:
		if ref, ok := e.CustomSimulationSpace(); ok {
			return e.transform.Position().Sub(ref.Position()), e.transform.Rotation()
		}
	}
	return mgl32.Vec3{}, mgl32.QuatIdent()
}

func (e *Emitter) spawn(origin mgl32.Vec3, rot mgl32.Quat) {
	pl := &e.pool
	idx := pl.alive
	pl.alive++

	pl.pos[idx] = origin

	dir := sampleDirection(e.rng, rot, e.cfg.ConeAngleDegrees)
	speed := lerp(e.cfg.StartSpeedRange[0], e.cfg.StartSpeedRange[1], e.rng.Float32())
	pl.vel[idx] = dir.Mul(speed)

	pl.age[idx] = 0
	pl.life[idx] = lerp(e.cfg.LifetimeRange[0], e.cfg.LifetimeRange[1], e.rng.Float32())
	pl.size[idx] = lerp(e.cfg.StartSizeRange[0], e.cfg.StartSizeRange[1], e.rng.Float32())

	var c [4]float32
	for j := 0; j < 4; j++ {
		c[j] = lerp(e.cfg.StartColorMin[j], e.cfg.StartColorMax[j], e.rng.Float32())
	}
	pl.color[idx] = c
	pl.trail[idx] = append(pl.trail[idx][:0], origin)
}

// Simulate advances the emitter by dt seconds.
func (e *Emitter) Simulate(dt float32) {
	if !e.enabled {
		return
	}
	if dt <= 0 {
		dt = 1.0 / 60.0
	}
	pl := &e.pool

	if e.emitting {
		pl.spawnAcc += e.cfg.SpawnRate * dt
		spawnCount := int(pl.spawnAcc)
		if spawnCount > 0 {
			pl.spawnAcc -= float32(spawnCount)
		}
		if spawnCount > 0 {
			e.Emit(spawnCount)
		}
	}

	// Gravity points down in world space; local particles see it rotated.
	gravity := mgl32.Vec3{0, -e.cfg.Gravity * dt, 0}
	if e.simulatesLocally() {
		gravity = e.transform.Rotation().Conjugate().Rotate(gravity)
	}
	drag := float32(math.Max(0, float64(1.0-e.cfg.Drag*dt)))

	i := 0
	for i < pl.alive {
		age := pl.age[i] + dt
		if age >= pl.life[i] {
			pl.killAt(i)
			continue
		}
		v := pl.vel[i].Add(gravity).Mul(drag)
		p := pl.pos[i].Add(v.Mul(dt))

		pl.vel[i] = v
		pl.pos[i] = p
		pl.age[i] = age
		e.recordTrail(i, p)
		i++
	}
}

func (e *Emitter) recordTrail(i int, p mgl32.Vec3) {
	if !e.cfg.Trails.Enabled {
		return
	}
	tr := e.pool.trail[i]
	if n := len(tr); n > 0 && tr[n-1].Sub(p).Len() < e.cfg.Trails.MinVertexDistance {
		return
	}
	tr = append(tr, p)
	if maxPoints := e.cfg.Trails.MaxPoints; maxPoints > 1 && len(tr) > maxPoints {
		tr = append(tr[:0], tr[len(tr)-maxPoints:]...)
	}
	e.pool.trail[i] = tr
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

// sampleDirection picks a direction uniformly in a cone around the emitter's
// up axis (0,1,0), then rotates it by rot.
func sampleDirection(rng *rand.Rand, rot mgl32.Quat, coneDeg float32) mgl32.Vec3 {
	axis := mgl32.Vec3{0, 1, 0}
	if coneDeg <= 0.0 {
		return rot.Rotate(axis).Normalize()
	}
	thetaMax := float32(math.Pi) * (coneDeg / 180.0)
	u := rng.Float32()
	v := rng.Float32()
	cosTheta := lerp(float32(math.Cos(float64(thetaMax))), 1.0, u)
	sinTheta := float32(math.Sqrt(float64(1.0 - cosTheta*cosTheta)))
	phi := 2.0 * float32(math.Pi) * v

	local := mgl32.Vec3{
		float32(math.Cos(float64(phi))) * sinTheta,
		cosTheta,
		float32(math.Sin(float64(phi))) * sinTheta,
	}
	return rot.Rotate(local).Normalize()
}
