package scene

import "device-showcase/math"

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

// Size returns the box extents (the getSize query of the showcase).
func (b AABB) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the box midpoint.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) union(o AABB) AABB {
	return AABB{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// transformAABB transforms a local AABB by a world matrix by testing all 8 corners.
func transformAABB(local AABB, m math.Mat4) AABB {
	mn, mx := local.Min, local.Max
	corners := [8]math.Vec3{
		{X: mn.X, Y: mn.Y, Z: mn.Z},
		{X: mx.X, Y: mn.Y, Z: mn.Z},
		{X: mn.X, Y: mx.Y, Z: mn.Z},
		{X: mx.X, Y: mx.Y, Z: mn.Z},
		{X: mn.X, Y: mn.Y, Z: mx.Z},
		{X: mx.X, Y: mn.Y, Z: mx.Z},
		{X: mn.X, Y: mx.Y, Z: mx.Z},
		{X: mx.X, Y: mx.Y, Z: mx.Z},
	}
	first := m.TransformPoint(corners[0])
	out := AABB{Min: first, Max: first}
	for _, c := range corners[1:] {
		p := m.TransformPoint(c)
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// ComputeBounds returns the bounding box of every mesh under root, expressed
// in root's parent space. ok is false when the subtree has no geometry.
func ComputeBounds(root *Node) (box AABB, ok bool) {
	root.Traverse(func(n *Node) {
		if n.Mesh == nil || !n.Mesh.HasLocalAABB {
			return
		}
		wb := transformAABB(n.Mesh.LocalAABB, relativeMatrix(n, root))
		if !ok {
			box, ok = wb, true
			return
		}
		box = box.union(wb)
	})
	return box, ok
}

// relativeMatrix is n's transform accumulated up to and including root,
// ignoring anything above root.
func relativeMatrix(n, root *Node) math.Mat4 {
	m := n.Transform.GetMatrix()
	for p := n; p != root && p.Parent != nil; p = p.Parent {
		m = m.Mul(p.Parent.Transform.GetMatrix())
	}
	return m
}
