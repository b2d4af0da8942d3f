package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"device-showcase/assets"
	"device-showcase/host"
	"device-showcase/showcase"
	"device-showcase/watch"
)

// fallbackEnv forces fallback mode when set to any non-empty value, for
// machines without a usable GPU.
const fallbackEnv = "SHOWCASE_FALLBACK"

// fovStep is the field of view change per +/- key press, in degrees.
const fovStep = 5

func newViewCmd() *cobra.Command {
	var (
		opts     options
		fallback bool
		watchSS  bool
	)
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open a window showing the device",
		Example: `  showcase view -d apple/phone-iphone-15-pro-2023 -s home.png
  showcase view --placeholder tablet -s https://example.com/shot.png
  showcase view -c showcase.json --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("fallback") {
				opts.flags.Fallback = &fallback
			}
			if cmd.Flags().Changed("watch") {
				opts.flags.Watch = &watchSS
			}
			return runView(cmd, &opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&fallback, "fallback", false, "Show the fallback image instead of the 3D view (also $"+fallbackEnv+")")
	cmd.Flags().BoolVar(&watchSS, "watch", false, "Reload the screenshot when its file changes")
	return cmd
}

func runView(cmd *cobra.Command, opts *options) error {
	log := slog.Default()
	f, err := opts.file(cmd)
	if err != nil {
		return err
	}
	if os.Getenv(fallbackEnv) != "" {
		f.Fallback = true
	}
	cfg, err := f.ShowcaseConfig()
	if err != nil {
		return err
	}

	wc := host.DefaultWindowConfig()
	wc.Width, wc.Height = f.Width, f.Height
	win, err := host.NewWindow(wc)
	if err != nil {
		return err
	}
	defer win.Destroy()

	loader := &assets.Loader{Logger: log, Placeholder: f.Placeholder}
	h := host.New(win, loader, log)
	defer h.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Host = h
	cfg.Loader = loader
	cfg.Logger = log
	sc, err := showcase.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer sc.Destroy()

	title := func() {
		switch sc.Mode() {
		case showcase.ModeLive:
			win.SetTitle(fmt.Sprintf("Device Showcase - %s - fov %.0f°", f.Device, sc.FOV()))
		default:
			win.SetTitle("Device Showcase - " + sc.Mode().String())
		}
	}
	title()

	unlisten := h.Listen(showcase.EventKey, func(ev showcase.Event) {
		handleKey(sc, win, ev.Key, log)
		title()
	})
	defer unlisten()

	g, gctx := errgroup.WithContext(ctx)
	if f.Watch {
		if path, ok := localPath(f.Screenshot); ok {
			w := watch.New(path, sc.UpdateScreenshot, log)
			g.Go(func() error { return w.Run(gctx) })
		} else {
			log.Warn("--watch needs a local screenshot file", "screenshot", f.Screenshot)
		}
	}

	runErr := h.Run(gctx)
	stop()
	if err := g.Wait(); err != nil {
		return err
	}
	if runErr != nil && ctx.Err() == nil {
		return runErr
	}
	return nil
}

func handleKey(sc *showcase.Showcase, win *host.Window, key int, log *slog.Logger) {
	switch key {
	case host.KeyEscape:
		win.Close()
	case host.KeyT:
		sc.SetTiltEnabled(!sc.TiltEnabled())
		log.Info("pointer tilt", "enabled", sc.TiltEnabled())
	case host.KeyS:
		sc.SetScrollTilt(!sc.ScrollTilt())
		log.Info("scroll tilt", "enabled", sc.ScrollTilt())
	case host.KeyEqual, host.KeyKPAdd:
		setFOV(sc, sc.FOV()+fovStep, log)
	case host.KeyMinus, host.KeyKPSubtract:
		setFOV(sc, sc.FOV()-fovStep, log)
	}
}

func setFOV(sc *showcase.Showcase, deg float64, log *slog.Logger) {
	if err := sc.SetFOV(deg); err != nil {
		log.Warn("field of view unchanged", "fov", deg, "err", err)
		return
	}
	log.Info("field of view", "fov", deg, "distance", sc.Fit().Distance)
}

