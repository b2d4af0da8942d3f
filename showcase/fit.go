package showcase

import (
	"fmt"
	"math"
)

const (
	// fillFraction is how much of the binding container dimension the model's
	// scaled size covers, in model units per container pixel.
	fillFraction = 0.15
	// referenceFOV is the field of view the base distance is derived for.
	referenceFOV = 45.0
	// startBack pushes the camera out from the exact-fit distance.
	startBack = 4.0
	// fovExponent and fovFactor shape the initial distance for other FOVs.
	fovExponent = 2.5
	fovFactor   = 0.5
)

// Size2 is a width/height pair: container pixels or model extents.
type Size2 struct {
	W, H float64
}

// Fit is the result of framing a model in a container.
type Fit struct {
	Scale    float64
	Distance float64
}

// ComputeFit scales the model so its binding dimension fills a fixed share of
// the container and places the camera far enough back to frame it at fovDeg.
func ComputeFit(model, container Size2, fovDeg float64) (Fit, error) {
	if !positive(model.W) || !positive(model.H) {
		return Fit{}, fmt.Errorf("%w: model size %gx%g", ErrDegenerateGeometry, model.W, model.H)
	}
	if !positive(container.W) || !positive(container.H) {
		return Fit{}, invalidf("container size %gx%g", container.W, container.H)
	}
	if err := checkFOV(fovDeg); err != nil {
		return Fit{}, err
	}

	containerAspect := container.W / container.H
	modelAspect := model.W / model.H

	var scale float64
	if containerAspect > modelAspect {
		scale = container.H / model.H * fillFraction
	} else {
		scale = container.W / model.W * fillFraction
	}

	scaled := math.Max(model.W, model.H) * scale
	base := (scaled / 2) / math.Tan(radians(referenceFOV)/2) * startBack
	distance := base * math.Pow(referenceFOV/fovDeg, fovExponent) * fovFactor

	if !positive(scale) || !positive(distance) {
		return Fit{}, fmt.Errorf("%w: fit overflowed (scale %g, distance %g)", ErrDegenerateGeometry, scale, distance)
	}
	return Fit{Scale: scale, Distance: distance}, nil
}

// Refit returns the camera distance that keeps a subject's apparent size
// unchanged when the field of view goes from oldFov to newFov (dolly zoom).
func Refit(distance, oldFov, newFov float64) (float64, error) {
	if !positive(distance) {
		return 0, invalidf("distance %g", distance)
	}
	if err := checkFOV(oldFov); err != nil {
		return 0, err
	}
	if err := checkFOV(newFov); err != nil {
		return 0, err
	}
	d := distance * math.Tan(radians(oldFov)/2) / math.Tan(radians(newFov)/2)
	if !positive(d) {
		return 0, invalidf("dolly zoom from %g° to %g° overflowed", oldFov, newFov)
	}
	return d, nil
}

// ApparentSize is the height of the view frustum at distance, the quantity a
// dolly zoom holds constant.
func ApparentSize(distance, fovDeg float64) float64 {
	return 2 * distance * math.Tan(radians(fovDeg)/2)
}

// ClipPlanes returns near/far planes that keep a model framed at distance
// inside the frustum.
func ClipPlanes(distance float64) (near, far float64) {
	return 0.1, 2*distance + 1000
}

func checkFOV(deg float64) error {
	if !(deg > 0 && deg < 180) {
		return invalidf("field of view %g° outside (0°,180°)", deg)
	}
	return nil
}

// positive reports v > 0 and finite.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
