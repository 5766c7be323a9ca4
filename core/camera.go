package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera orients particle billboards during a bake. Only its pose and
// projection are read; nothing here renders.
type Camera struct {
	Name         string
	Position     mgl32.Vec3
	Rotation     mgl32.Quat
	Orthographic bool
	OrthoSize    float32 // half height of the view volume
	FieldOfView  float32 // degrees, perspective only
	Aspect       float32
	Near         float32
	Far          float32
	// Hidden cameras exist only for baking and are never listed as scene cameras.
	Hidden bool
}

func NewCamera(name string) *Camera {
	return &Camera{
		Name:        name,
		Position:    mgl32.Vec3{0, 0, 0},
		Rotation:    mgl32.QuatIdent(),
		FieldOfView: 60,
		Aspect:      1,
		Near:        0.3,
		Far:         1000,
	}
}

// NewOrthographicCamera creates a hidden orthographic camera looking down -Z.
func NewOrthographicCamera(name string, position mgl32.Vec3, size float32) *Camera {
	if size <= 0 {
		size = 10
	}
	return &Camera{
		Name:         name,
		Position:     position,
		Rotation:     mgl32.QuatIdent(),
		Orthographic: true,
		OrthoSize:    size,
		Aspect:       1,
		Near:         -100,
		Far:          100,
		Hidden:       true,
	}
}

// Y-up, looking down -Z at identity rotation.
func (c *Camera) Forward() mgl32.Vec3 {
	return c.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

func (c *Camera) Right() mgl32.Vec3 {
	return c.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
}

func (c *Camera) Up() mgl32.Vec3 {
	return c.Rotation.Rotate(mgl32.Vec3{0, 1, 0})
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	eye := c.Position
	target := eye.Add(c.Forward())
	return mgl32.LookAtV(eye, target, c.Up())
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	if c.Orthographic {
		h := c.OrthoSize
		w := h * c.Aspect
		return mgl32.Ortho(-w, w, -h, h, c.Near, c.Far)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FieldOfView), c.Aspect, c.Near, c.Far)
}
