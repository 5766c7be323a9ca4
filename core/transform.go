package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() *Transform {
	return &Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// IdentityTransform is the value form of NewTransform.
func IdentityTransform() Transform {
	return *NewTransform()
}

func (t Transform) ObjectToWorld() mgl32.Mat4 {
	// M = T * R * S
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())

	return translate.Mul4(rotate).Mul4(scale)
}

func (t Transform) WorldToObject() mgl32.Mat4 {
	// inv(M) = inv(S) * inv(R) * inv(T)
	invScale := InverseScaleMatrix(t.Scale)
	// Conjugate is the inverse for a unit quaternion.
	invRotate := t.Rotation.Conjugate().Mat4()
	invTranslate := mgl32.Translate3D(-t.Position.X(), -t.Position.Y(), -t.Position.Z())

	return invScale.Mul4(invRotate).Mul4(invTranslate)
}

// InverseRotationMatrix returns R(q)^-1.
func InverseRotationMatrix(q mgl32.Quat) mgl32.Mat4 {
	return q.Normalize().Conjugate().Mat4()
}

// InverseScaleMatrix returns S(s)^-1. An axis with a zero scale keeps a factor of 1.
func InverseScaleMatrix(s mgl32.Vec3) mgl32.Mat4 {
	inv := SafeReciprocal3(s)
	return mgl32.Scale3D(inv.X(), inv.Y(), inv.Z())
}

// UniformScaleMatrix scales all three axes by s.
func UniformScaleMatrix(s float32) mgl32.Mat4 {
	return mgl32.Scale3D(s, s, s)
}

// MultiplyPoint3x4 transforms p by the affine part of m, ignoring projection.
func MultiplyPoint3x4(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12],
		m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13],
		m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14],
	}
}

// Approximately reports whether a and b are equal within a relative epsilon.
func Approximately(a, b float32) bool {
	diff := math.Abs(float64(b - a))
	rel := 1e-6 * math.Max(math.Abs(float64(a)), math.Abs(float64(b)))
	return diff < math.Max(rel, 8*float64(math.SmallestNonzeroFloat32))
}

// SafeReciprocal returns 1/v, or 1 when v is approximately zero.
func SafeReciprocal(v float32) float32 {
	if Approximately(v, 0) {
		return 1
	}
	return 1 / v
}

func SafeReciprocal3(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{SafeReciprocal(v.X()), SafeReciprocal(v.Y()), SafeReciprocal(v.Z())}
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
