package math

// Vec2 is a texture coordinate.
type Vec2 struct {
	X, Y float32
}
