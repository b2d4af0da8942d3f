package showcase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"device-showcase/math"
	"device-showcase/scene"
)

// screenPart is the reserved name of the model part that shows the screenshot.
const screenPart = "screen"

// maxTimedStep caps the frame time fed to the time-based spring.
const maxTimedStep = 100 * time.Millisecond

// Mode is the lifecycle state of a Showcase.
type Mode int

const (
	ModeUninitialized Mode = iota
	ModeLive
	ModeFallback
	ModeDestroyed
)

func (m Mode) String() string {
	switch m {
	case ModeUninitialized:
		return "uninitialized"
	case ModeLive:
		return "live"
	case ModeFallback:
		return "fallback"
	case ModeDestroyed:
		return "destroyed"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Showcase is a mounted device mockup. A live showcase owns a scene, a
// rendering surface, its input listeners and the frame scheduler; a fallback
// showcase owns only the image shown in their place.
//
// All methods are safe for concurrent use. Destroy must be called on the
// host's loop thread.
type Showcase struct {
	mu   sync.Mutex
	mode Mode
	host Host
	log  *slog.Logger

	// Fallback mode.
	image string

	// Live mode.
	loader     AssetLoader
	surface    Surface
	scene      *scene.Scene
	camera     *scene.Camera
	pivot      *scene.Node
	screens    []*scene.Mesh
	screenMat  *scene.Material
	screenTex  *scene.Texture
	screenshot string

	fit         Fit
	fov         float64
	tilt        tiltState
	tiltEnabled bool
	scrollTilt  bool
	rotation    Tilt
	frames      uint64

	sched          *Scheduler
	unlisten       []func()
	unlistenScroll func()
}

// New mounts a showcase into cfg.Host. The fallback predicate is consulted
// first and exactly once: when it holds, only the fallback image is shown.
// Otherwise the model and screenshot are loaded, the camera is fitted and the
// frame loop starts. On error nothing stays mounted.
func New(ctx context.Context, cfg Config) (*Showcase, error) {
	if cfg.Host == nil {
		return nil, invalidf("no host")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Showcase{host: cfg.Host, log: log}

	if cfg.UseFallback != nil && cfg.UseFallback() {
		image := cfg.fallbackImage()
		if err := cfg.Host.ShowImage(image); err != nil {
			return nil, fmt.Errorf("show fallback image: %w", err)
		}
		s.mode = ModeFallback
		s.image = image
		log.Info("showcase in fallback mode", "image", image)
		return s, nil
	}

	if err := checkLiveConfig(cfg); err != nil {
		return nil, err
	}

	model, tex, err := loadAssets(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := s.build(cfg, model, tex); err != nil {
		return nil, err
	}
	return s, nil
}

func checkLiveConfig(cfg Config) error {
	if cfg.Loader == nil {
		return invalidf("no asset loader")
	}
	if cfg.ModelPath == "" {
		if err := cfg.Device.Validate(); err != nil {
			return err
		}
	}
	if err := cfg.Spring.Validate(); err != nil {
		return err
	}
	if !cfg.BaseTilt.finite() {
		return invalidf("base tilt %v is not finite", cfg.BaseTilt)
	}
	return checkFOV(cfg.FOV)
}

// loadAssets fetches the model and the screenshot concurrently. An empty
// screenshot locator leaves the model's own screen material in place.
func loadAssets(ctx context.Context, cfg Config) (*scene.Node, *scene.Texture, error) {
	var (
		model *scene.Node
		tex   *scene.Texture
	)
	path := cfg.modelPath()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := cfg.Loader.LoadModel(gctx, path)
		if err == nil && n == nil {
			err = errors.New("loader returned no model")
		}
		if err != nil {
			return assetError(AssetModel, path, err)
		}
		model = n
		return nil
	})
	if cfg.Screenshot != "" {
		g.Go(func() error {
			t, err := cfg.Loader.LoadTexture(gctx, cfg.Screenshot)
			if err == nil && t == nil {
				err = errors.New("loader returned no texture")
			}
			if err != nil {
				return assetError(AssetTexture, cfg.Screenshot, err)
			}
			tex = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return model, tex, nil
}

func assetError(kind AssetKind, locator string, err error) error {
	var ae *AssetError
	if errors.As(err, &ae) {
		return err
	}
	return &AssetError{Kind: kind, Locator: locator, Err: err}
}

// build assembles the live scene around the loaded model, attaches the
// surface and starts listening and ticking.
func (s *Showcase) build(cfg Config, model *scene.Node, tex *scene.Texture) error {
	box, ok := scene.ComputeBounds(model)
	if !ok {
		return fmt.Errorf("%w: model %q has no vertices", ErrDegenerateGeometry, model.Name)
	}
	size := box.Size()
	width, height := cfg.Host.ClientSize()
	fit, err := ComputeFit(
		Size2{W: float64(size.X), H: float64(size.Y)},
		Size2{W: float64(width), H: float64(height)},
		cfg.FOV,
	)
	if err != nil {
		return fmt.Errorf("fit model %q: %w", model.Name, err)
	}

	screens := model.FindMeshes(screenPart)
	if len(screens) == 0 {
		s.log.Warn("model has no screen part, showing it without a screenshot",
			"model", model.Name, "err", ErrMissingScreenMesh)
	} else if tex != nil {
		s.screenMat = scene.NewScreenMaterial(tex)
		for _, m := range screens {
			m.Material = s.screenMat
		}
	}

	// scene root -> pivot (tilt) -> frame (fit scale, centring) -> model
	sc := scene.NewScene()
	pivot := scene.NewNode("pivot")
	frame := scene.NewNode("fit")
	scale := float32(fit.Scale)
	frame.SetScale(math.NewVec3(scale, scale, scale))
	frame.SetPosition(box.Center().Mul(-scale))
	frame.AddChild(model)
	pivot.AddChild(frame)
	sc.AddNode(pivot)

	near, far := ClipPlanes(fit.Distance)
	cam := scene.NewCamera(float32(radians(cfg.FOV)), float32(width)/float32(height), float32(near), float32(far))
	cam.SetPosition(math.NewVec3(0, 0, float32(fit.Distance)))
	cam.LookAt(math.Vec3Zero)
	sc.SetCamera(cam)

	surface, err := cfg.Host.AttachSurface()
	if err != nil {
		return fmt.Errorf("attach surface: %w", err)
	}
	surface.Resize(width, height)

	var integrator Integrator = TickSpring{}
	if cfg.FrameRateIndependent {
		integrator = TimedSpring{MaxStep: maxTimedStep}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loader = cfg.Loader
	s.surface = surface
	s.scene = sc
	s.camera = cam
	s.pivot = pivot
	s.screens = screens
	if s.screenMat != nil {
		s.screenTex = tex
	}
	s.screenshot = cfg.Screenshot
	s.fit = fit
	s.fov = cfg.FOV
	s.tilt = newTiltState(cfg.Spring, cfg.BaseTilt, integrator)
	s.tiltEnabled = cfg.TiltEnabled
	s.mode = ModeLive

	s.unlisten = append(s.unlisten,
		cfg.Host.Listen(EventPointerMove, s.onPointerMove),
		cfg.Host.Listen(EventResize, s.onResize),
	)
	if cfg.ScrollTilt {
		s.enableScrollLocked()
	}
	s.applyPoseLocked(s.tilt.pose())

	s.sched = NewScheduler(cfg.Host, s.tick)
	s.sched.Start()

	s.log.Info("showcase live",
		"model", model.Name,
		"screen", len(screens) > 0,
		"scale", fit.Scale,
		"distance", fit.Distance,
		"fov", cfg.FOV)
	return nil
}

func (s *Showcase) tick(dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeLive {
		return
	}
	s.applyPoseLocked(s.tilt.step(dt))
	s.surface.Render(s.scene)
	s.frames++
}

func (s *Showcase) applyPoseLocked(p Tilt) {
	s.pivot.SetRotation(math.QuaternionFromPitchYaw(float32(p.X), float32(p.Y)))
	s.rotation = p
}

func (s *Showcase) onPointerMove(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeLive || !s.tiltEnabled {
		return
	}
	s.tilt.pointer = PointerContribution(ev.X, ev.Y, ev.ViewW, ev.ViewH)
}

func (s *Showcase) onScroll(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeLive || !s.scrollTilt {
		return
	}
	s.tilt.scrollYaw = ScrollYaw(ev.ScrollOffset)
	s.applyPoseLocked(s.tilt.pose())
}

func (s *Showcase) onResize(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeLive || ev.Width <= 0 || ev.Height <= 0 {
		// Minimised windows report a zero size.
		return
	}
	s.camera.UpdateAspectRatio(float32(ev.Width), float32(ev.Height))
	s.surface.Resize(ev.Width, ev.Height)
}

func (s *Showcase) enableScrollLocked() {
	s.scrollTilt = true
	s.unlistenScroll = s.host.Listen(EventScroll, s.onScroll)
	s.tilt.scrollYaw = ScrollYaw(s.host.ScrollOffset())
}

func (s *Showcase) disableScrollLocked() {
	s.scrollTilt = false
	if s.unlistenScroll != nil {
		s.unlistenScroll()
		s.unlistenScroll = nil
	}
	s.tilt.scrollYaw = 0
}

// UpdateScreenshot replaces the texture on the screen part. In fallback mode
// it replaces the fallback image instead.
func (s *Showcase) UpdateScreenshot(ctx context.Context, locator string) error {
	s.mu.Lock()
	mode := s.mode
	if mode == ModeFallback {
		defer s.mu.Unlock()
		if err := s.host.ShowImage(locator); err != nil {
			return fmt.Errorf("show fallback image: %w", err)
		}
		s.image = locator
		return nil
	}
	loader := s.loader
	s.mu.Unlock()

	if mode != ModeLive {
		return nil
	}

	tex, err := loader.LoadTexture(ctx, locator)
	if err == nil && tex == nil {
		err = errors.New("loader returned no texture")
	}
	if err != nil {
		return assetError(AssetTexture, locator, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeLive {
		return nil
	}
	s.screenshot = locator
	if len(s.screens) == 0 {
		s.log.Warn("screenshot has nowhere to go", "locator", locator, "err", ErrMissingScreenMesh)
		return nil
	}
	if s.screenMat == nil {
		s.screenMat = scene.NewScreenMaterial(nil)
		for _, m := range s.screens {
			m.Material = s.screenMat
		}
	}
	old := s.screenTex
	s.screenMat.AlbedoTexture = tex
	s.screenTex = tex
	if old != nil && old != tex {
		s.surface.ReleaseTexture(old)
	}
	s.log.Debug("screenshot updated", "locator", locator, "width", tex.Width, "height", tex.Height)
	return nil
}

// SetScrollTilt starts or stops the scroll-driven yaw overlay. Enabling it
// takes the current scroll position into account at once.
func (s *Showcase) SetScrollTilt(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeLive || enabled == s.scrollTilt {
		return
	}
	if enabled {
		s.enableScrollLocked()
	} else {
		s.disableScrollLocked()
	}
	s.applyPoseLocked(s.tilt.pose())
}

// SetSpringConfig merges p into the spring configuration. An invalid result
// is rejected and nothing changes.
func (s *Showcase) SetSpringConfig(p SpringPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeLive {
		return nil
	}
	next := p.Apply(s.tilt.cfg)
	if err := next.Validate(); err != nil {
		return err
	}
	s.tilt.cfg = next
	return nil
}

// SetBaseTilt changes the resting rotation; nil fields keep their value.
func (s *Showcase) SetBaseTilt(p TiltPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeLive {
		return nil
	}
	next := s.tilt.base
	if p.X != nil {
		next.X = *p.X
	}
	if p.Y != nil {
		next.Y = *p.Y
	}
	if !next.finite() {
		return invalidf("base tilt %v is not finite", next)
	}
	s.tilt.base = next
	return nil
}

// SetFOV changes the field of view and moves the camera so the model keeps
// its apparent size.
func (s *Showcase) SetFOV(deg float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeLive {
		return nil
	}
	d, err := Refit(s.fit.Distance, s.fov, deg)
	if err != nil {
		return err
	}
	s.fit.Distance = d
	s.fov = deg

	near, far := ClipPlanes(d)
	s.camera.SetFOV(float32(radians(deg)))
	s.camera.SetClipPlanes(float32(near), float32(far))
	s.camera.SetPosition(math.NewVec3(0, 0, float32(d)))
	return nil
}

// SetTiltEnabled turns pointer tilt on or off. Turning it off drops the
// pointer contribution immediately.
func (s *Showcase) SetTiltEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeLive {
		return
	}
	s.tiltEnabled = enabled
	if !enabled {
		s.tilt.pointer = Tilt{}
	}
}

// Destroy stops the frame loop, removes every listener the showcase
// registered and releases the surface or fallback image. Calls after the
// first do nothing.
func (s *Showcase) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.mode {
	case ModeFallback:
		s.host.RemoveImage()
	case ModeLive:
		s.sched.Stop()
		for _, unlisten := range s.unlisten {
			unlisten()
		}
		s.unlisten = nil
		s.disableScrollLocked()
		s.host.DetachSurface(s.surface)
		s.surface.Destroy()
		s.surface = nil
		s.scene = nil
	default:
		return
	}
	s.log.Debug("showcase destroyed", "mode", s.mode, "frames", s.frames)
	s.mode = ModeDestroyed
}

func (s *Showcase) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Fit returns the current framing. Zero outside live mode.
func (s *Showcase) Fit() Fit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fit
}

func (s *Showcase) FOV() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fov
}

func (s *Showcase) Tilt() TiltSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tilt.snapshot()
}

// Rotation is the pitch/yaw last applied to the model.
func (s *Showcase) Rotation() Tilt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotation
}

func (s *Showcase) SpringConfig() SpringConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tilt.cfg
}

func (s *Showcase) TiltEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tiltEnabled
}

func (s *Showcase) ScrollTilt() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrollTilt
}

// ScreenFound reports whether the model's screen part carries the screenshot.
func (s *Showcase) ScreenFound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.screens) > 0
}

// Image is the shown image locator: the screenshot in live mode, the
// fallback image in fallback mode.
func (s *Showcase) Image() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeFallback {
		return s.image
	}
	return s.screenshot
}

// Frames counts rendered frames.
func (s *Showcase) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}
