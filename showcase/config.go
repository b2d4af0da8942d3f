package showcase

import (
	"log/slog"
	"math"
)

// SpringConfig tunes the tilt spring. Strength scales the restoring force,
// Damping is the per-tick velocity retention and Mass divides the force.
type SpringConfig struct {
	Enabled  bool    `json:"enabled"`
	Strength float64 `json:"strength"`
	Damping  float64 `json:"damping"`
	Mass     float64 `json:"mass"`
}

func DefaultSpringConfig() SpringConfig {
	return SpringConfig{
		Enabled:  true,
		Strength: 0.1,
		Damping:  0.85,
		Mass:     1,
	}
}

// Validate reports ErrInvalidInput for parameters that would make the spring
// produce non-finite state.
func (c SpringConfig) Validate() error {
	switch {
	case !(c.Strength > 0) || math.IsInf(c.Strength, 0):
		return invalidf("spring strength %v must be positive and finite", c.Strength)
	case !(c.Damping >= 0 && c.Damping <= 1):
		return invalidf("spring damping %v must be within [0,1]", c.Damping)
	case !(c.Mass > 0) || math.IsInf(c.Mass, 0):
		return invalidf("spring mass %v must be positive and finite", c.Mass)
	}
	return nil
}

// SpringPatch is a sparse update for SetSpringConfig; nil fields keep their
// current value.
type SpringPatch struct {
	Enabled  *bool
	Strength *float64
	Damping  *float64
	Mass     *float64
}

// Apply merges p into c field by field.
func (p SpringPatch) Apply(c SpringConfig) SpringConfig {
	if p.Enabled != nil {
		c.Enabled = *p.Enabled
	}
	if p.Strength != nil {
		c.Strength = *p.Strength
	}
	if p.Damping != nil {
		c.Damping = *p.Damping
	}
	if p.Mass != nil {
		c.Mass = *p.Mass
	}
	return c
}

// Tilt is a rotation pair in radians: X is pitch, Y is yaw.
type Tilt struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (t Tilt) Add(o Tilt) Tilt { return Tilt{X: t.X + o.X, Y: t.Y + o.Y} }

func (t Tilt) finite() bool { return finite(t.X) && finite(t.Y) }

// TiltPatch is a sparse update for SetBaseTilt.
type TiltPatch struct {
	X *float64
	Y *float64
}

// Config is the request handed to New. It is read once; later changes go
// through the Showcase control methods.
type Config struct {
	Host   Host
	Loader AssetLoader

	Device     DeviceID
	ModelsRoot string
	Screenshot string

	// ModelPath, when set, is loaded instead of the device's path below
	// ModelsRoot.
	ModelPath string

	// FallbackImage is shown in fallback mode. When empty the screenshot is
	// shown instead.
	FallbackImage string

	// UseFallback is evaluated exactly once, before anything else is built.
	// A nil predicate never selects the fallback.
	UseFallback func() bool

	Spring      SpringConfig
	BaseTilt    Tilt
	FOV         float64 // degrees
	TiltEnabled bool
	ScrollTilt  bool

	// FrameRateIndependent steps the spring with the measured frame time
	// instead of once per frame.
	FrameRateIndependent bool

	Logger *slog.Logger
}

func (c Config) fallbackImage() string {
	if c.FallbackImage != "" {
		return c.FallbackImage
	}
	return c.Screenshot
}

func (c Config) modelPath() string {
	if c.ModelPath != "" {
		return c.ModelPath
	}
	return c.Device.ModelPath(c.ModelsRoot)
}

// DefaultConfig returns the settings used when a field is left at its zero
// value by callers that start from it.
func DefaultConfig() Config {
	return Config{
		Spring:      DefaultSpringConfig(),
		FOV:         35,
		TiltEnabled: true,
		ScrollTilt:  true,
	}
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T { return &v }
