package core

import (
	"device-showcase/math"
)

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
)

// Vertex is the interleaved layout uploaded to the GPU. Field order is part of
// the shader contract in internal/opengl.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
}

type Transform struct {
	Position math.Vec3
	Rotation math.Quaternion
	Scale    math.Vec3
}

func NewTransform() Transform {
	return Transform{
		Position: math.Vec3Zero,
		Rotation: math.QuaternionIdentity(),
		Scale:    math.Vec3One,
	}
}

// GetMatrix composes scale, then rotation, then translation.
func (t Transform) GetMatrix() math.Mat4 {
	return math.Mat4Scale(t.Scale).
		Mul(t.Rotation.ToMat4()).
		Mul(math.Mat4Translation(t.Position))
}
