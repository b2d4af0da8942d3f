package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"device-showcase/assets"
	"device-showcase/host"
	"device-showcase/poster"
	"device-showcase/showcase"
)

func newPosterCmd() *cobra.Command {
	var (
		opts        options
		out         string
		frames      int
		supersample int
	)
	cmd := &cobra.Command{
		Use:   "poster",
		Short: "Render the device once and save it as a WebP image",
		Long: `Render the device in an offscreen window, let the tilt spring settle and
save the frame as a WebP image. The result can serve as the fallback image.`,
		Example: `  showcase poster -d apple/phone-iphone-15-pro-2023 -s home.png -o poster.webp`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if frames < 1 {
				return fmt.Errorf("--frames must be at least 1")
			}
			if supersample < 1 || supersample > 4 {
				return fmt.Errorf("--supersample must be within 1..4")
			}
			return runPoster(cmd, &opts, out, frames, supersample)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "poster.webp", "Output WebP file")
	cmd.Flags().IntVar(&frames, "frames", 120, "Frames rendered before capture")
	cmd.Flags().IntVar(&supersample, "supersample", 2, "Render at this multiple of the output size")
	return cmd
}

func runPoster(cmd *cobra.Command, opts *options, out string, frames, supersample int) error {
	log := slog.Default()
	f, err := opts.file(cmd)
	if err != nil {
		return err
	}
	f.Fallback = false
	cfg, err := f.ShowcaseConfig()
	if err != nil {
		return err
	}

	win, err := host.NewWindow(host.WindowConfig{
		Width:  f.Width * supersample,
		Height: f.Height * supersample,
		Title:  "Device Showcase poster",
		Hidden: true,
	})
	if err != nil {
		return err
	}
	defer win.Destroy()

	loader := &assets.Loader{Logger: log, Placeholder: f.Placeholder}
	h := host.New(win, loader, log)
	defer h.Close()

	cfg.Host = h
	cfg.Loader = loader
	cfg.Logger = log
	sc, err := showcase.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer sc.Destroy()

	// A fixed clock keeps the result independent of how fast frames render.
	now := time.Now()
	for i := range frames {
		if i > 0 {
			win.SwapBuffers()
		}
		h.Step(now.Add(time.Duration(i) * time.Second / 60))
	}

	img, ok := h.Capture()
	if !ok {
		return errors.New("poster: nothing was rendered")
	}
	img = poster.Downsample(img, supersample)
	if err := poster.Write(out, img); err != nil {
		return fmt.Errorf("poster: %w", err)
	}
	log.Info("poster written", "path", out,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy(), "frames", sc.Frames())
	return nil
}
