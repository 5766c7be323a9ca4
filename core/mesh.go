package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an indexed triangle list with per-vertex color and UV streams.
// Colors and UVs are either empty or the same length as Vertices.
type Mesh struct {
	Name     string
	Vertices []mgl32.Vec3
	Colors   [][4]float32
	UVs      []mgl32.Vec2
	Indices  []uint32
}

func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// Clear drops all geometry but keeps the backing arrays for reuse.
func (m *Mesh) Clear() {
	m.Vertices = m.Vertices[:0]
	m.Colors = m.Colors[:0]
	m.UVs = m.UVs[:0]
	m.Indices = m.Indices[:0]
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// AddVertex appends one vertex and returns its index.
func (m *Mesh) AddVertex(p mgl32.Vec3, color [4]float32, uv mgl32.Vec2) uint32 {
	idx := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, p)
	m.Colors = append(m.Colors, color)
	m.UVs = append(m.UVs, uv)
	return idx
}

// AddQuad appends a quad as two triangles. Corners are ordered
// bottom-left, top-left, top-right, bottom-right; uv is (minU, minV, maxU, maxV).
func (m *Mesh) AddQuad(corners [4]mgl32.Vec3, color [4]float32, uv mgl32.Vec4) {
	i0 := m.AddVertex(corners[0], color, mgl32.Vec2{uv[0], uv[1]})
	i1 := m.AddVertex(corners[1], color, mgl32.Vec2{uv[0], uv[3]})
	i2 := m.AddVertex(corners[2], color, mgl32.Vec2{uv[2], uv[3]})
	i3 := m.AddVertex(corners[3], color, mgl32.Vec2{uv[2], uv[1]})
	m.Indices = append(m.Indices, i0, i1, i2, i2, i3, i0)
}

// AppendTransformed appends src to m with every position mapped through mat.
func (m *Mesh) AppendTransformed(src *Mesh, mat mgl32.Mat4) {
	if src == nil || src.IsEmpty() {
		return
	}
	base := uint32(len(m.Vertices))
	for i, v := range src.Vertices {
		m.Vertices = append(m.Vertices, MultiplyPoint3x4(mat, v))
		if i < len(src.Colors) {
			m.Colors = append(m.Colors, src.Colors[i])
		} else {
			m.Colors = append(m.Colors, [4]float32{1, 1, 1, 1})
		}
		if i < len(src.UVs) {
			m.UVs = append(m.UVs, src.UVs[i])
		} else {
			m.UVs = append(m.UVs, mgl32.Vec2{})
		}
	}
	for _, idx := range src.Indices {
		m.Indices = append(m.Indices, base+idx)
	}
}

// Transform maps all positions through mat in place.
func (m *Mesh) Transform(mat mgl32.Mat4) {
	for i, v := range m.Vertices {
		m.Vertices[i] = MultiplyPoint3x4(mat, v)
	}
}

// ModifyColorSpaceToLinear converts vertex colors from gamma (sRGB) to linear.
// Alpha is left untouched.
func (m *Mesh) ModifyColorSpaceToLinear() {
	for i, c := range m.Colors {
		m.Colors[i] = [4]float32{GammaToLinear(c[0]), GammaToLinear(c[1]), GammaToLinear(c[2]), c[3]}
	}
}

func GammaToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return float32(math.Pow((float64(c)+0.055)/1.055, 2.4))
}
