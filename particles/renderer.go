package particles

import (
	"errors"

	"github.com/gekko3d/uiparticle/core"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrNothingToBake  = errors.New("particles: render mode produces no geometry")
	ErrTrailsDisabled = errors.New("particles: trails are disabled")
)

// Renderer turns an emitter's particles into geometry. Baked positions follow
// the emitter's simulation space:
//   - local: world-oriented offsets from the emitter pivot (rotation and
//     lossy scale applied, translation not)
//   - world: absolute world positions
//   - custom: offsets from the custom reference position
type Renderer struct {
	emitter *Emitter

	mode          core.RenderMode
	mesh          *core.Mesh
	material      *core.Material
	trailMaterial *core.Material

	// LengthScale stretches RenderModeStretch quads along velocity.
	LengthScale float32
}

func newRenderer(e *Emitter) *Renderer {
	return &Renderer{
		emitter:     e,
		mode:        core.RenderModeBillboard,
		LengthScale: 1,
	}
}

func (r *Renderer) RenderMode() core.RenderMode       { return r.mode }
func (r *Renderer) Mesh() *core.Mesh                  { return r.mesh }
func (r *Renderer) Material() *core.Material          { return r.material }
func (r *Renderer) TrailMaterial() *core.Material     { return r.trailMaterial }
func (r *Renderer) SetRenderMode(m core.RenderMode)   { r.mode = m }
func (r *Renderer) SetMesh(m *core.Mesh)              { r.mesh = m }
func (r *Renderer) SetMaterial(m *core.Material)      { r.material = m }
func (r *Renderer) SetTrailMaterial(m *core.Material) { r.trailMaterial = m }

// bakePosition converts a simulation-space position into bake space.
func (r *Renderer) bakePosition(p mgl32.Vec3) mgl32.Vec3 {
	if !r.emitter.simulatesLocally() {
		return p
	}
	tr := r.emitter.transform
	s := tr.LossyScale()
	return tr.Rotation().Rotate(mgl32.Vec3{p.X() * s.X(), p.Y() * s.Y(), p.Z() * s.Z()})
}

// axes returns the quad half-axes for one particle.
func (r *Renderer) axes(cam *core.Camera, vel mgl32.Vec3, size float32) (mgl32.Vec3, mgl32.Vec3) {
	half := size * 0.5
	switch r.mode {
	case core.RenderModeHorizontalBillboard:
		return mgl32.Vec3{half, 0, 0}, mgl32.Vec3{0, 0, -half}
	case core.RenderModeVerticalBillboard:
		right := cam.Right()
		right[1] = 0
		if right.Len() < 1e-6 {
			right = mgl32.Vec3{1, 0, 0}
		}
		return right.Normalize().Mul(half), mgl32.Vec3{0, half, 0}
	case core.RenderModeStretch:
		speed := vel.Len()
		if speed > 1e-6 {
			up := vel.Mul(1 / speed)
			right := up.Cross(cam.Forward())
			if right.Len() > 1e-6 {
				length := half * max(1, speed*r.LengthScale)
				return right.Normalize().Mul(half), up.Mul(length)
			}
		}
	}
	return cam.Right().Mul(half), cam.Up().Mul(half)
}

// BakeMesh writes one quad (or one mesh instance) per live particle into dst.
// dst is not cleared.
func (r *Renderer) BakeMesh(dst *core.Mesh, cam *core.Camera) error {
	if r.mode == core.RenderModeNone || (r.mode == core.RenderModeMesh && r.mesh == nil) {
		return ErrNothingToBake
	}
	if cam == nil {
		cam = core.NewCamera("default")
	}
	pl := &r.emitter.pool
	for i := 0; i < pl.alive; i++ {
		center := r.bakePosition(pl.pos[i])
		color := pl.color[i]
		size := pl.size[i]

		if r.mode == core.RenderModeMesh {
			base := uint32(dst.VertexCount())
			for j, v := range r.mesh.Vertices {
				uv := mgl32.Vec2{}
				if j < len(r.mesh.UVs) {
					uv = r.mesh.UVs[j]
				}
				dst.AddVertex(center.Add(v.Mul(size)), color, uv)
			}
			for _, idx := range r.mesh.Indices {
				dst.Indices = append(dst.Indices, base+idx)
			}
			continue
		}

		right, up := r.axes(cam, r.bakePosition(pl.vel[i]), size)
		dst.AddQuad([4]mgl32.Vec3{
			center.Sub(right).Sub(up),
			center.Sub(right).Add(up),
			center.Add(right).Add(up),
			center.Add(right).Sub(up),
		}, color, mgl32.Vec4{0, 0, 1, 1})
	}
	return nil
}

// BakeTrailsMesh writes a camera-facing ribbon along each particle's recorded
// history into dst. Alpha fades towards the tail.
func (r *Renderer) BakeTrailsMesh(dst *core.Mesh, cam *core.Camera) error {
	cfg := r.emitter.cfg.Trails
	if !cfg.Enabled {
		return ErrTrailsDisabled
	}
	if cam == nil {
		cam = core.NewCamera("default")
	}
	forward := cam.Forward()
	pl := &r.emitter.pool
	for i := 0; i < pl.alive; i++ {
		points := pl.trail[i]
		if len(points) == 0 || points[len(points)-1] != pl.pos[i] {
			points = append(points, pl.pos[i])
		}
		if len(points) < 2 {
			continue
		}
		halfWidth := pl.size[i] * cfg.Width * 0.5
		n := len(points)
		for j := 0; j < n-1; j++ {
			a := r.bakePosition(points[j])
			b := r.bakePosition(points[j+1])
			dir := b.Sub(a)
			side := dir.Cross(forward)
			if side.Len() < 1e-6 {
				continue
			}
			side = side.Normalize().Mul(halfWidth)

			color := pl.color[i]
			color[3] *= float32(j+1) / float32(n)
			u0 := float32(j) / float32(n-1)
			u1 := float32(j+1) / float32(n-1)
			dst.AddQuad([4]mgl32.Vec3{
				a.Sub(side),
				a.Add(side),
				b.Add(side),
				b.Sub(side),
			}, color, mgl32.Vec4{u0, 0, u1, 1})
		}
	}
	return nil
}
