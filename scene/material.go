package scene

import "device-showcase/core"

// Material describes surface appearance properties for a mesh.
type Material struct {
	Name   string
	Albedo core.Color // multiplied with AlbedoTexture when set
	Unlit  bool       // output raw albedo/texture colour, no lighting

	// Optional albedo texture, uploaded lazily by the renderer.
	AlbedoTexture *Texture
}

// DefaultMaterial returns a plain white lit material.
func DefaultMaterial() *Material {
	return &Material{
		Name:   "Default",
		Albedo: core.ColorWhite,
	}
}

func NewMaterial(name string, albedo core.Color) *Material {
	return &Material{Name: name, Albedo: albedo}
}

// NewScreenMaterial returns the material put on a device screen: unlit, so the
// screenshot shows at its true colours regardless of scene lighting.
func NewScreenMaterial(tex *Texture) *Material {
	return &Material{
		Name:          "screen",
		Albedo:        core.ColorWhite,
		Unlit:         true,
		AlbedoTexture: tex,
	}
}
