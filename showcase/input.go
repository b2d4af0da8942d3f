package showcase

const (
	// pointerRange is the total swing of the pointer contribution per axis;
	// the contribution spans [-pointerRange/2, pointerRange/2] radians.
	pointerRange = 0.2
	// scrollYawPerPixel converts scroll offset into yaw radians.
	scrollYawPerPixel = 0.0005
)

// PointerContribution maps a pointer position inside a viewW x viewH viewport
// to a pitch/yaw target offset. Pitch follows the vertical position and yaw
// the horizontal one. Positions outside the viewport are clamped to its edge
// and a viewport without area contributes nothing.
func PointerContribution(x, y, viewW, viewH float64) Tilt {
	if !(viewW > 0) || !(viewH > 0) {
		return Tilt{}
	}
	nx := clamp01(x / viewW)
	ny := clamp01(y / viewH)
	return Tilt{
		X: (ny - 0.5) * pointerRange,
		Y: (nx - 0.5) * pointerRange,
	}
}

// ScrollYaw is the yaw overlay for a page scrolled by offset pixels.
func ScrollYaw(offset float64) float64 {
	if !finite(offset) {
		return 0
	}
	return offset * scrollYawPerPixel
}

func clamp01(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v >= 0:
		return v
	}
	// Negative values and NaN.
	return 0
}
