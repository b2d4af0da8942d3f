package main

import (
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"device-showcase/config"
)

// options are the settings shared by view and poster: an optional config
// file plus flags that override it.
type options struct {
	configPath string
	flags      config.Flags

	fov                  float64
	tilt                 bool
	scrollTilt           bool
	frameRateIndependent bool
}

func (o *options) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&o.configPath, "config", "c", "", "JSON config file")
	fs.StringVarP(&o.flags.Device, "device", "d", "", "Device id, manufacturer/type-model[-year]")
	fs.StringVar(&o.flags.ModelsRoot, "models", "", "Directory holding <device>.glb models (default \"models\")")
	fs.StringVar(&o.flags.Model, "model", "", "Model file, overriding the device path")
	fs.StringVarP(&o.flags.Screenshot, "screenshot", "s", "", "Screenshot file or http(s) URL")
	fs.StringVar(&o.flags.FallbackImage, "fallback-image", "", "Image shown instead of the 3D view in fallback mode")
	fs.StringVar(&o.flags.Placeholder, "placeholder", "", "Render a built-in device (phone, tablet, watch, laptop)")
	fs.Float64Var(&o.fov, "fov", 35, "Vertical field of view in degrees")
	fs.BoolVar(&o.tilt, "tilt", true, "Tilt towards the pointer")
	fs.BoolVar(&o.scrollTilt, "scroll-tilt", true, "Yaw with the scroll position")
	fs.BoolVar(&o.frameRateIndependent, "frame-rate-independent", false, "Step the spring with the frame time")
	fs.IntVar(&o.flags.Width, "width", 0, "Window width (default 1280)")
	fs.IntVar(&o.flags.Height, "height", 0, "Window height (default 720)")
}

// file loads the config file, if any, and applies the flags the user set.
func (o *options) file(cmd *cobra.Command) (config.File, error) {
	f := config.Default()
	if o.configPath != "" {
		var err error
		if f, err = config.Load(o.configPath); err != nil {
			return config.File{}, err
		}
	}

	fs := cmd.Flags()
	flags := o.flags
	if fs.Changed("fov") {
		flags.FOV = &o.fov
	}
	if fs.Changed("tilt") {
		flags.TiltEnabled = &o.tilt
	}
	if fs.Changed("scroll-tilt") {
		flags.ScrollTilt = &o.scrollTilt
	}
	if fs.Changed("frame-rate-independent") {
		flags.FrameRateIndependent = &o.frameRateIndependent
	}
	f.Resolve(flags)
	return f, nil
}

// localPath returns the file path behind a screenshot locator, or false for
// remote URLs.
func localPath(locator string) (string, bool) {
	if strings.HasPrefix(locator, "file://") {
		u, err := url.Parse(locator)
		if err != nil {
			return "", false
		}
		return u.Path, true
	}
	if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		return "", false
	}
	return locator, locator != ""
}
