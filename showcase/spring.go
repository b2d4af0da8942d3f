package showcase

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

const (
	// smoothing is the per-tick approach factor used while the spring is off.
	smoothing = 0.1
	// maxDamping keeps the per-tick system strictly dissipative.
	maxDamping = 0.995
	// nominalFPS relates the per-tick constants to per-second ones.
	nominalFPS = 60.0
)

// Integrator advances the tilt state one frame towards target.
type Integrator interface {
	Step(s *SpringState, target Tilt, cfg SpringConfig, dt time.Duration)
}

// SpringState is the integrated rotation and its velocity.
type SpringState struct {
	Current  Tilt
	Velocity Tilt
}

// TickSpring performs exactly one spring step per call regardless of the
// elapsed time, so its response follows the display refresh rate.
//
// The step is v = (v + (target-current)·k)·d with d = Damping and
// k = Strength/Mass. It is exact only for Damping <= 0.995 and
// k <= (1+d)/d; outside that range d and k are clamped to those bounds so
// the spring cannot diverge.
type TickSpring struct{}

func (TickSpring) Step(s *SpringState, target Tilt, cfg SpringConfig, _ time.Duration) {
	if !cfg.Enabled {
		s.Current.X += (target.X - s.Current.X) * smoothing
		s.Current.Y += (target.Y - s.Current.Y) * smoothing
		s.Velocity = Tilt{}
		return
	}

	d := math.Min(cfg.Damping, maxDamping)
	k := cfg.Strength / cfg.Mass
	// With v' = d(v + k·e) the step is stable for d·k < 2(1+d); stay at half.
	if d > 0 {
		k = math.Min(k, (1+d)/d)
	}

	s.Velocity.X = (s.Velocity.X + (target.X-s.Current.X)*k) * d
	s.Velocity.Y = (s.Velocity.Y + (target.Y-s.Current.Y)*k) * d
	s.Current.X += s.Velocity.X
	s.Current.Y += s.Velocity.Y
}

// TimedSpring integrates with the measured frame time using a damped
// harmonic oscillator. The per-tick constants are converted at a nominal
// 60 Hz so both integrators feel alike on a 60 Hz display.
type TimedSpring struct {
	// MaxStep caps dt so a stalled frame does not fling the model.
	MaxStep time.Duration
}

func (t TimedSpring) Step(s *SpringState, target Tilt, cfg SpringConfig, dt time.Duration) {
	if t.MaxStep > 0 && dt > t.MaxStep {
		dt = t.MaxStep
	}
	secs := dt.Seconds()
	if secs <= 0 {
		return
	}

	if !cfg.Enabled {
		a := 1 - math.Pow(1-smoothing, secs*nominalFPS)
		s.Current.X += (target.X - s.Current.X) * a
		s.Current.Y += (target.Y - s.Current.Y) * a
		s.Velocity = Tilt{}
		return
	}

	omega, zeta := timedConstants(cfg)
	spring := harmonica.NewSpring(secs, omega, zeta)
	s.Current.X, s.Velocity.X = spring.Update(s.Current.X, s.Velocity.X, target.X)
	s.Current.Y, s.Velocity.Y = spring.Update(s.Current.Y, s.Velocity.Y, target.Y)
}

// timedConstants maps per-tick stiffness and velocity retention onto an
// angular frequency and damping ratio.
func timedConstants(cfg SpringConfig) (omega, zeta float64) {
	omega = math.Sqrt(cfg.Strength/cfg.Mass) * nominalFPS
	d := math.Min(math.Max(cfg.Damping, 1e-3), maxDamping)
	zeta = -math.Log(d) * nominalFPS / (2 * omega)
	return omega, math.Min(math.Max(zeta, 0.05), 10)
}
