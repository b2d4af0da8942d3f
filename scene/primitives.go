package scene

import (
	"device-showcase/core"
	"device-showcase/math"
)

// CreateQuad returns a w×h quad in the XY plane facing +Z. UV (0,0) is the
// top-left corner, matching the glTF convention used for screen textures.
func CreateQuad(name string, w, h float32) *Mesh {
	x, y := w/2, h/2
	n := math.Vec3{X: 0, Y: 0, Z: 1}
	vertices := []core.Vertex{
		{Position: math.Vec3{X: -x, Y: -y}, Normal: n, UV: math.Vec2{X: 0, Y: 1}},
		{Position: math.Vec3{X: x, Y: -y}, Normal: n, UV: math.Vec2{X: 1, Y: 1}},
		{Position: math.Vec3{X: x, Y: y}, Normal: n, UV: math.Vec2{X: 1, Y: 0}},
		{Position: math.Vec3{X: -x, Y: y}, Normal: n, UV: math.Vec2{X: 0, Y: 0}},
	}
	return CreateMeshFromData(name, vertices, []uint32{0, 1, 2, 2, 3, 0})
}

// CreateBox returns an axis-aligned box centred on the origin.
func CreateBox(name string, w, h, d float32) *Mesh {
	x, y, z := w/2, h/2, d/2

	type face struct {
		n       math.Vec3
		corners [4]math.Vec3
	}
	faces := []face{
		{math.Vec3{Z: 1}, [4]math.Vec3{{X: -x, Y: -y, Z: z}, {X: x, Y: -y, Z: z}, {X: x, Y: y, Z: z}, {X: -x, Y: y, Z: z}}},
		{math.Vec3{Z: -1}, [4]math.Vec3{{X: x, Y: -y, Z: -z}, {X: -x, Y: -y, Z: -z}, {X: -x, Y: y, Z: -z}, {X: x, Y: y, Z: -z}}},
		{math.Vec3{Y: 1}, [4]math.Vec3{{X: -x, Y: y, Z: z}, {X: x, Y: y, Z: z}, {X: x, Y: y, Z: -z}, {X: -x, Y: y, Z: -z}}},
		{math.Vec3{Y: -1}, [4]math.Vec3{{X: -x, Y: -y, Z: -z}, {X: x, Y: -y, Z: -z}, {X: x, Y: -y, Z: z}, {X: -x, Y: -y, Z: z}}},
		{math.Vec3{X: 1}, [4]math.Vec3{{X: x, Y: -y, Z: z}, {X: x, Y: -y, Z: -z}, {X: x, Y: y, Z: -z}, {X: x, Y: y, Z: z}}},
		{math.Vec3{X: -1}, [4]math.Vec3{{X: -x, Y: -y, Z: -z}, {X: -x, Y: -y, Z: z}, {X: -x, Y: y, Z: z}, {X: -x, Y: y, Z: -z}}},
	}
	uvs := [4]math.Vec2{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0}}

	vertices := make([]core.Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		for i, c := range f.corners {
			vertices = append(vertices, core.Vertex{Position: c, Normal: f.n, UV: uvs[i]})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}
	return CreateMeshFromData(name, vertices, indices)
}
