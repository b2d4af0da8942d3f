package scene

import (
	"device-showcase/core"
	"device-showcase/math"
)

// Scene manages a collection of nodes and the active camera
type Scene struct {
	Root       *Node
	Camera     *Camera
	Background core.Color

	// Directional key light used by lit materials.
	LightDir math.Vec3
	Ambient  float32
}

func NewScene() *Scene {
	return &Scene{
		Root:       NewNode("Root"),
		Background: core.Color{R: 0, G: 0, B: 0, A: 0},
		LightDir:   math.Vec3{X: -0.4, Y: -0.8, Z: -0.6}.Normalize(),
		Ambient:    0.45,
	}
}

func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

func (s *Scene) AddNode(node *Node) {
	s.Root.AddChild(node)
}

// GetVisibleNodes returns all nodes with meshes that are visible
func (s *Scene) GetVisibleNodes() []*Node {
	var visible []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if !n.Visible {
			return
		}
		if n.Mesh != nil {
			visible = append(visible, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(s.Root)
	return visible
}

// Textures returns every distinct texture referenced by the scene's materials.
func (s *Scene) Textures() []*Texture {
	seen := make(map[*Texture]bool)
	var out []*Texture
	s.Root.Traverse(func(n *Node) {
		if n.Mesh == nil || n.Mesh.Material == nil || n.Mesh.Material.AlbedoTexture == nil {
			return
		}
		if tex := n.Mesh.Material.AlbedoTexture; !seen[tex] {
			seen[tex] = true
			out = append(out, tex)
		}
	})
	return out
}
