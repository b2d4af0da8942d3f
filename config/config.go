// Package config reads showcase settings from a JSON file and merges command
// line overrides into them.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"device-showcase/showcase"
)

// File is the on-disk configuration. Every field is optional; Load starts
// from Default so absent fields keep their defaults.
type File struct {
	Device     string `json:"device"`
	ModelsRoot string `json:"models_root"`
	Screenshot string `json:"screenshot"`

	// Model overrides the path derived from Device and ModelsRoot.
	Model string `json:"model,omitempty"`

	FallbackImage string `json:"fallback_image"`

	// Fallback forces fallback mode.
	Fallback bool `json:"fallback"`

	// Placeholder renders a built-in device of this type instead of a model
	// file, e.g. "phone" or "tablet".
	Placeholder string `json:"placeholder,omitempty"`

	Spring               showcase.SpringConfig `json:"spring"`
	BaseTilt             showcase.Tilt         `json:"base_tilt"`
	FOV                  float64               `json:"fov"`
	TiltEnabled          bool                  `json:"tilt_enabled"`
	ScrollTilt           bool                  `json:"scroll_tilt"`
	FrameRateIndependent bool                  `json:"frame_rate_independent"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// Watch reloads the screenshot when its file changes.
	Watch bool `json:"watch"`
}

func Default() File {
	d := showcase.DefaultConfig()
	return File{
		ModelsRoot:  "models",
		Spring:      d.Spring,
		FOV:         d.FOV,
		TiltEnabled: d.TiltEnabled,
		ScrollTilt:  d.ScrollTilt,
		Width:       1280,
		Height:      720,
	}
}

// Load reads a JSON config file. Relative paths in it are resolved against
// the file's directory.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	f := Default()
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	f.ModelsRoot = relativeTo(dir, f.ModelsRoot)
	f.Model = relativeTo(dir, f.Model)
	f.Screenshot = relativeTo(dir, f.Screenshot)
	f.FallbackImage = relativeTo(dir, f.FallbackImage)
	return f, nil
}

// relativeTo joins local relative paths to dir. URLs and absolute paths are
// returned unchanged.
func relativeTo(dir, p string) string {
	if p == "" || filepath.IsAbs(p) || isURL(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func isURL(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") || strings.HasPrefix(p, "file://")
}

// Flags holds command line values that override file settings. Empty strings
// and nil pointers leave the file value in place.
type Flags struct {
	Device        string
	ModelsRoot    string
	Model         string
	Screenshot    string
	FallbackImage string
	Placeholder   string

	Fallback             *bool
	FOV                  *float64
	TiltEnabled          *bool
	ScrollTilt           *bool
	FrameRateIndependent *bool
	Watch                *bool

	Width  int
	Height int
}

// Resolve applies flags on top of the file values.
func (f *File) Resolve(flags Flags) {
	setString(&f.Device, flags.Device)
	setString(&f.ModelsRoot, flags.ModelsRoot)
	setString(&f.Model, flags.Model)
	setString(&f.Screenshot, flags.Screenshot)
	setString(&f.FallbackImage, flags.FallbackImage)
	setString(&f.Placeholder, flags.Placeholder)

	setPtr(&f.Fallback, flags.Fallback)
	setPtr(&f.FOV, flags.FOV)
	setPtr(&f.TiltEnabled, flags.TiltEnabled)
	setPtr(&f.ScrollTilt, flags.ScrollTilt)
	setPtr(&f.FrameRateIndependent, flags.FrameRateIndependent)
	setPtr(&f.Watch, flags.Watch)

	if flags.Width > 0 {
		f.Width = flags.Width
	}
	if flags.Height > 0 {
		f.Height = flags.Height
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setPtr[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// ShowcaseConfig converts the settings into a showcase request. Host, Loader
// and Logger are left for the caller. The device id, spring and field of view
// are validated here so a bad file fails before any window opens.
func (f File) ShowcaseConfig() (showcase.Config, error) {
	cfg := showcase.Config{
		ModelsRoot:           f.ModelsRoot,
		ModelPath:            f.Model,
		Screenshot:           f.Screenshot,
		FallbackImage:        f.FallbackImage,
		Spring:               f.Spring,
		BaseTilt:             f.BaseTilt,
		FOV:                  f.FOV,
		TiltEnabled:          f.TiltEnabled,
		ScrollTilt:           f.ScrollTilt,
		FrameRateIndependent: f.FrameRateIndependent,
	}

	fallback := f.Fallback
	cfg.UseFallback = func() bool { return fallback }
	if fallback {
		// Without a fallback image the screenshot is shown.
		if f.FallbackImage == "" && f.Screenshot == "" {
			return showcase.Config{}, fmt.Errorf("config: fallback requested without an image or screenshot: %w", showcase.ErrInvalidInput)
		}
		return cfg, nil
	}

	switch {
	case f.Device != "":
		id, err := showcase.ParseDeviceID(f.Device)
		if err != nil {
			return showcase.Config{}, fmt.Errorf("config: %w", err)
		}
		cfg.Device = id
	case f.Model == "" && f.Placeholder == "":
		return showcase.Config{}, fmt.Errorf("config: no device, model or placeholder: %w", showcase.ErrInvalidInput)
	}
	if f.Placeholder != "" && cfg.ModelPath == "" && f.Device == "" {
		cfg.ModelPath = "placeholder:" + f.Placeholder
	}

	if err := f.Spring.Validate(); err != nil {
		return showcase.Config{}, fmt.Errorf("config: %w", err)
	}
	if !(f.FOV > 0 && f.FOV < 180) {
		return showcase.Config{}, fmt.Errorf("config: fov %g outside (0,180): %w", f.FOV, showcase.ErrInvalidInput)
	}
	return cfg, nil
}
