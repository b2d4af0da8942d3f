package showcase

import "time"

// tiltState is the mutable rotation state shared between the control methods
// and the frame tick. The owning Showcase guards it with its mutex.
type tiltState struct {
	base    Tilt
	pointer Tilt
	spring  SpringState

	// scrollYaw is added to the integrated yaw when the model is posed. It
	// never feeds the spring.
	scrollYaw float64

	cfg        SpringConfig
	integrator Integrator
}

func newTiltState(cfg SpringConfig, base Tilt, integrator Integrator) tiltState {
	return tiltState{
		base:       base,
		cfg:        cfg,
		integrator: integrator,
	}
}

func (t *tiltState) target() Tilt { return t.base.Add(t.pointer) }

// step advances the spring one frame and returns the pose to apply.
func (t *tiltState) step(dt time.Duration) Tilt {
	t.integrator.Step(&t.spring, t.target(), t.cfg, dt)
	if !t.spring.Current.finite() || !t.spring.Velocity.finite() {
		t.spring = SpringState{Current: t.target()}
	}
	return t.pose()
}

// pose is the integrated rotation with the scroll overlay on yaw.
func (t *tiltState) pose() Tilt {
	return Tilt{X: t.spring.Current.X, Y: t.spring.Current.Y + t.scrollYaw}
}

// TiltSnapshot is a copy of the tilt state for inspection.
type TiltSnapshot struct {
	Base      Tilt
	Pointer   Tilt
	Current   Tilt
	Velocity  Tilt
	ScrollYaw float64
}

func (t *tiltState) snapshot() TiltSnapshot {
	return TiltSnapshot{
		Base:      t.base,
		Pointer:   t.pointer,
		Current:   t.spring.Current,
		Velocity:  t.spring.Velocity,
		ScrollYaw: t.scrollYaw,
	}
}
