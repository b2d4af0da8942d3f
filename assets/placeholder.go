package assets

import (
	"device-showcase/core"
	"device-showcase/math"
	"device-showcase/scene"
)

// bodyDepth is the slab thickness of every placeholder device.
const bodyDepth = 0.08

var placeholderSizes = map[string][2]float32{
	"phone":  {0.75, 1.55},
	"tablet": {1.8, 1.3},
	"watch":  {0.4, 0.48},
	"laptop": {1.6, 1.0},
}

// PlaceholderDevice builds a flat slab with a "screen" quad on its
// front face, sized after the device type. Unknown types get phone
// proportions.
func PlaceholderDevice(deviceType string) *scene.Node {
	size, ok := placeholderSizes[deviceType]
	if !ok {
		size = placeholderSizes["phone"]
	}
	w, h := size[0], size[1]
	bezel := 0.04 * min(w, h) * 2

	root := scene.NewNode("placeholder_" + deviceType)

	body := scene.NewNode("body")
	body.Mesh = scene.CreateBox("body", w, h, bodyDepth)
	body.Mesh.Material = scene.NewMaterial("body", core.Color{R: 0.12, G: 0.12, B: 0.14, A: 1})
	root.AddChild(body)

	screen := scene.NewNode("screen")
	screen.Mesh = scene.CreateQuad("screen", w-bezel, h-bezel)
	screen.Mesh.Material = scene.NewMaterial("screen", core.ColorBlack)
	screen.SetPosition(math.Vec3{Z: bodyDepth/2 + 0.001})
	root.AddChild(screen)

	return root
}
