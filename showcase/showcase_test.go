package showcase

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
)

func newLive(t *testing.T, cfg Config) *Showcase {
	t.Helper()
	s, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Mode() != ModeLive {
		t.Fatalf("expected live mode, got %v", s.Mode())
	}
	return s
}

func TestNewFitsModel(t *testing.T) {
	h := newFakeHost(800, 600)
	l := &fakeLoader{model: phoneModel}
	s := newLive(t, testConfig(h, l))
	defer s.Destroy()

	fit := s.Fit()
	if !approxEqual(fit.Scale, 60, 1e-4) {
		t.Errorf("scale: expected 60, got %v", fit.Scale)
	}
	if !approxEqual(fit.Distance, 289.7056, 1e-3) {
		t.Errorf("distance: expected 289.7056, got %v", fit.Distance)
	}
	if want := "models/acme/phone-one-2024.glb"; l.lastPath != want && l.lastPath != strings.ReplaceAll(want, "/", `\`) {
		t.Errorf("model path: expected %q, got %q", want, l.lastPath)
	}
	if len(h.attached) != 1 {
		t.Fatalf("expected one attached surface, got %d", len(h.attached))
	}
	if got := h.attached[0]; got.width != 800 || got.height != 600 {
		t.Errorf("surface size: expected 800x600, got %dx%d", got.width, got.height)
	}
	if !s.ScreenFound() {
		t.Error("expected the screen part to be found")
	}
	screens := s.pivot.FindMeshes("screen")
	if len(screens) != 1 || screens[0].Material.AlbedoTexture == nil || screens[0].Material.AlbedoTexture.Name != "shot.png" {
		t.Errorf("screen material does not sample the screenshot")
	}
	if !screens[0].Material.Unlit {
		t.Error("screen material should be unlit")
	}
	// pointer + resize
	if n := h.listenerCount(); n != 2 {
		t.Errorf("expected 2 listeners, got %d", n)
	}
	if h.pendingFrames() != 1 {
		t.Errorf("expected the first frame to be requested")
	}
}

func TestNewRendersEveryFrame(t *testing.T) {
	h := newFakeHost(800, 600)
	s := newLive(t, testConfig(h, &fakeLoader{model: phoneModel}))
	defer s.Destroy()

	h.step(10)
	if got := s.Frames(); got != 10 {
		t.Errorf("expected 10 frames, got %d", got)
	}
	if got := h.attached[0].renders; got != 10 {
		t.Errorf("expected 10 renders, got %d", got)
	}
}

func TestFallbackBuildsNothing(t *testing.T) {
	h := newFakeHost(800, 600)
	l := &fakeLoader{model: phoneModel}
	cfg := testConfig(h, l)
	calls := 0
	cfg.UseFallback = func() bool { calls++; return true }

	s, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Mode() != ModeFallback {
		t.Fatalf("expected fallback mode, got %v", s.Mode())
	}
	if calls != 1 {
		t.Errorf("predicate evaluated %d times", calls)
	}
	if l.modelCalls != 0 || l.textureCalls != 0 {
		t.Errorf("fallback mode loaded assets (%d models, %d textures)", l.modelCalls, l.textureCalls)
	}
	if len(h.attached) != 0 || h.listenerCount() != 0 || h.pendingFrames() != 0 {
		t.Error("fallback mode created rendering resources")
	}
	if h.image != "poster.webp" {
		t.Errorf("expected poster.webp to be shown, got %q", h.image)
	}

	if err := s.SetFOV(500); err != nil {
		t.Errorf("SetFOV should be a no-op, got %v", err)
	}
	if err := s.SetSpringConfig(SpringPatch{Mass: Ptr(-1.0)}); err != nil {
		t.Errorf("SetSpringConfig should be a no-op, got %v", err)
	}
	if err := s.SetBaseTilt(TiltPatch{X: Ptr(1.0)}); err != nil {
		t.Errorf("SetBaseTilt should be a no-op, got %v", err)
	}
	s.SetTiltEnabled(false)
	s.SetScrollTilt(true)
	if s.Fit() != (Fit{}) || s.Tilt() != (TiltSnapshot{}) {
		t.Error("fallback mode acquired tilt or fit state")
	}
	if h.listenerCount() != 0 {
		t.Error("SetScrollTilt registered a listener in fallback mode")
	}

	if err := s.UpdateScreenshot(context.Background(), "other.webp"); err != nil {
		t.Fatalf("UpdateScreenshot: %v", err)
	}
	if h.image != "other.webp" || s.Image() != "other.webp" {
		t.Errorf("expected the fallback image to change, got host %q, showcase %q", h.image, s.Image())
	}
	if l.textureCalls != 0 {
		t.Error("fallback UpdateScreenshot loaded a texture")
	}

	s.Destroy()
	if h.imageShown {
		t.Error("Destroy left the fallback image mounted")
	}
	if calls != 1 {
		t.Errorf("predicate re-evaluated, %d calls", calls)
	}
}

func TestFallbackShowsScreenshotWithoutImage(t *testing.T) {
	h, l := newFakeHost(800, 600), &fakeLoader{model: phoneModel}
	cfg := testConfig(h, l)
	cfg.FallbackImage = ""
	cfg.UseFallback = func() bool { return true }

	s, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Destroy()
	if h.image != "shot.png" || s.Image() != "shot.png" {
		t.Errorf("expected the screenshot to stand in, got host %q, showcase %q", h.image, s.Image())
	}
	if l.textureCalls != 0 {
		t.Error("fallback mode loaded the screenshot as a texture")
	}
}

func TestDefaultConfigEnablesScrollTilt(t *testing.T) {
	if cfg := DefaultConfig(); !cfg.ScrollTilt || !cfg.TiltEnabled {
		t.Errorf("expected scroll and pointer tilt on by default, got %+v", cfg)
	}
}

func TestAssetFailureLeavesNothingMounted(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name   string
		loader *fakeLoader
		kind   AssetKind
	}{
		{"model", &fakeLoader{model: phoneModel, modelErr: boom}, AssetModel},
		{"texture", &fakeLoader{model: phoneModel, texErr: boom}, AssetTexture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newFakeHost(800, 600)
			s, err := New(context.Background(), testConfig(h, tt.loader))
			if s != nil {
				t.Fatal("expected no instance")
			}
			if !errors.Is(err, ErrAssetLoad) {
				t.Fatalf("expected ErrAssetLoad, got %v", err)
			}
			if !errors.Is(err, boom) {
				t.Errorf("expected the cause to be kept, got %v", err)
			}
			var ae *AssetError
			if !errors.As(err, &ae) || ae.Kind != tt.kind {
				t.Errorf("expected an AssetError of kind %s, got %v", tt.kind, err)
			}
			if len(h.attached) != 0 || h.listenerCount() != 0 || h.pendingFrames() != 0 {
				t.Error("failed construction left resources behind")
			}
		})
	}
}

func TestDegenerateGeometryFails(t *testing.T) {
	h := newFakeHost(800, 600)
	_, err := New(context.Background(), testConfig(h, &fakeLoader{model: flatModel}))
	if !errors.Is(err, ErrDegenerateGeometry) {
		t.Fatalf("expected ErrDegenerateGeometry, got %v", err)
	}
	if len(h.attached) != 0 || h.listenerCount() != 0 {
		t.Error("failed construction left resources behind")
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"fov", func(c *Config) { c.FOV = 180 }, ErrInvalidInput},
		{"mass", func(c *Config) { c.Spring.Mass = 0 }, ErrInvalidInput},
		{"tilt", func(c *Config) { c.BaseTilt.X = math.Inf(1) }, ErrInvalidInput},
		{"device", func(c *Config) { c.Device.Manufacturer = "Acme" }, ErrInvalidDeviceID},
		{"loader", func(c *Config) { c.Loader = nil }, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newFakeHost(800, 600)
			cfg := testConfig(h, &fakeLoader{model: phoneModel})
			tt.mutate(&cfg)
			if _, err := New(context.Background(), cfg); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if len(h.attached) != 0 {
				t.Error("surface attached for a rejected config")
			}
		})
	}
}

func TestMissingScreenIsWarned(t *testing.T) {
	var buf bytes.Buffer
	h := newFakeHost(800, 600)
	cfg := testConfig(h, &fakeLoader{model: bareModel})
	cfg.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	s := newLive(t, cfg)
	defer s.Destroy()

	if s.ScreenFound() {
		t.Error("expected no screen part")
	}
	if !strings.Contains(buf.String(), ErrMissingScreenMesh.Error()) {
		t.Errorf("expected a warning about the missing screen, log was %q", buf.String())
	}
	if err := s.UpdateScreenshot(context.Background(), "next.png"); err != nil {
		t.Errorf("UpdateScreenshot without a screen part: %v", err)
	}
}

func TestDestroyReleasesEverything(t *testing.T) {
	h := newFakeHost(800, 600)
	cfg := testConfig(h, &fakeLoader{model: phoneModel})
	cfg.ScrollTilt = true
	s := newLive(t, cfg)
	surface := h.attached[0]

	h.step(5)
	h.emit(Event{Kind: EventPointerMove, X: 100, Y: 100, ViewW: 800, ViewH: 600})
	h.step(1)

	s.Destroy()
	if s.Mode() != ModeDestroyed {
		t.Errorf("expected destroyed mode, got %v", s.Mode())
	}
	if n := h.listenerCount(); n != 0 {
		t.Errorf("%d listeners still registered", n)
	}
	if n := h.pendingFrames(); n != 0 {
		t.Errorf("%d frames still pending", n)
	}
	if len(h.attached) != 0 || surface.destroyed != 1 {
		t.Errorf("surface not released (attached %d, destroyed %d)", len(h.attached), surface.destroyed)
	}

	before := s.Tilt()
	renders := surface.renders
	h.emit(Event{Kind: EventPointerMove, X: 700, Y: 500, ViewW: 800, ViewH: 600})
	h.emit(Event{Kind: EventScroll, ScrollOffset: 900})
	h.emit(Event{Kind: EventResize, Width: 10, Height: 10})
	h.step(10)
	if s.Tilt() != before {
		t.Error("events after Destroy changed the tilt state")
	}
	if surface.renders != renders {
		t.Error("frames rendered after Destroy")
	}

	s.Destroy()
	if surface.destroyed != 1 {
		t.Errorf("second Destroy released the surface again")
	}
}

func TestDestroyCancelsDequeuedFrame(t *testing.T) {
	h := newFakeHost(800, 600)
	s := newLive(t, testConfig(h, &fakeLoader{model: phoneModel}))
	surface := h.attached[0]

	// Grab the pending callback as a host would before running it.
	h.mu.Lock()
	pending := h.frames
	h.frames = nil
	h.mu.Unlock()

	s.Destroy()
	for _, fn := range pending {
		fn(h.clock)
	}
	if surface.renders != 0 {
		t.Errorf("a frame dequeued before Destroy still rendered")
	}
}

func TestPointerMoveSetsTarget(t *testing.T) {
	h := newFakeHost(800, 600)
	s := newLive(t, testConfig(h, &fakeLoader{model: phoneModel}))
	defer s.Destroy()

	h.emit(Event{Kind: EventPointerMove, X: 600, Y: 150, ViewW: 800, ViewH: 600})
	want := Tilt{X: -0.05, Y: 0.05}
	if got := s.Tilt().Pointer; !approxTilt(got, want, 1e-12) {
		t.Fatalf("pointer: expected %v, got %v", want, got)
	}

	h.step(600)
	snap := s.Tilt()
	if !approxTilt(snap.Current, want, 1e-9) {
		t.Errorf("expected the model to settle at %v, got %v", want, snap.Current)
	}
	if !approxTilt(s.Rotation(), want, 1e-9) {
		t.Errorf("rotation: expected %v, got %v", want, s.Rotation())
	}
}

func TestSetTiltEnabledFalseZeroesPointer(t *testing.T) {
	h := newFakeHost(800, 600)
	s := newLive(t, testConfig(h, &fakeLoader{model: phoneModel}))
	defer s.Destroy()

	h.emit(Event{Kind: EventPointerMove, X: 0, Y: 0, ViewW: 800, ViewH: 600})
	if s.Tilt().Pointer == (Tilt{}) {
		t.Fatal("expected a pointer contribution")
	}

	s.SetTiltEnabled(false)
	if got := s.Tilt().Pointer; got != (Tilt{}) {
		t.Errorf("expected the contribution to reset at once, got %v", got)
	}

	h.emit(Event{Kind: EventPointerMove, X: 800, Y: 600, ViewW: 800, ViewH: 600})
	if got := s.Tilt().Pointer; got != (Tilt{}) {
		t.Errorf("pointer moves while disabled changed the contribution to %v", got)
	}

	s.SetTiltEnabled(true)
	h.emit(Event{Kind: EventPointerMove, X: 800, Y: 600, ViewW: 800, ViewH: 600})
	if got := s.Tilt().Pointer; !approxTilt(got, Tilt{X: 0.1, Y: 0.1}, 1e-12) {
		t.Errorf("expected (0.1, 0.1) after re-enabling, got %v", got)
	}
}

func TestScrollOverlayIsAppliedOnce(t *testing.T) {
	h := newFakeHost(800, 600)
	cfg := testConfig(h, &fakeLoader{model: phoneModel})
	cfg.ScrollTilt = true
	s := newLive(t, cfg)
	defer s.Destroy()

	h.emit(Event{Kind: EventPointerMove, X: 800, Y: 300, ViewW: 800, ViewH: 600})
	h.step(3)

	h.emit(Event{Kind: EventScroll, ScrollOffset: 1000})
	snap := s.Tilt()
	if got, want := s.Rotation().Y, snap.Current.Y+0.5; !approxEqual(got, want, 1e-12) {
		t.Errorf("after scroll: expected yaw %v, got %v", want, got)
	}

	for i := 0; i < 20; i++ {
		h.step(1)
		snap := s.Tilt()
		if got, want := s.Rotation().Y, snap.Current.Y+0.5; !approxEqual(got, want, 1e-12) {
			t.Fatalf("tick %d: expected yaw %v, got %v", i, want, got)
		}
		// The overlay never becomes a spring target; the spring alone
		// overshoots 0.1 by less than half.
		if snap.Current.Y > 0.15 {
			t.Fatalf("tick %d: scroll overlay leaked into the spring (%v)", i, snap.Current.Y)
		}
	}

	s.SetScrollTilt(false)
	if got, want := s.Rotation().Y, s.Tilt().Current.Y; got != want {
		t.Errorf("after disabling: expected yaw %v, got %v", want, got)
	}
	if n := h.listenerCount(); n != 2 {
		t.Errorf("expected the scroll listener to be removed, %d listeners", n)
	}

	h.mu.Lock()
	h.scroll = 400
	h.mu.Unlock()
	s.SetScrollTilt(true)
	if got := s.Tilt().ScrollYaw; !approxEqual(got, 0.2, 1e-12) {
		t.Errorf("re-enabling should pick up the scroll position at once, overlay %v", got)
	}
}

func TestSetFOVKeepsApparentSize(t *testing.T) {
	h := newFakeHost(800, 600)
	s := newLive(t, testConfig(h, &fakeLoader{model: phoneModel}))
	defer s.Destroy()

	d45 := s.Fit().Distance
	before := ApparentSize(d45, 45)
	if err := s.SetFOV(90); err != nil {
		t.Fatalf("SetFOV: %v", err)
	}
	d90 := s.Fit().Distance
	want := d45 * math.Tan(radians(22.5)) / math.Tan(radians(45))
	if !approxEqual(d90, want, 1e-9) {
		t.Errorf("expected distance %v, got %v", want, d90)
	}
	if after := ApparentSize(d90, 90); !approxEqual(after, before, 1e-9) {
		t.Errorf("apparent size changed from %v to %v", before, after)
	}
	if s.FOV() != 90 {
		t.Errorf("expected fov 90, got %v", s.FOV())
	}
	if got := float64(s.camera.Position.Z); !approxEqual(got, d90, 1e-3) {
		t.Errorf("camera not moved: z=%v, want %v", got, d90)
	}
	if _, far := ClipPlanes(d90); s.camera.FarPlane != float32(far) {
		t.Errorf("far plane not updated")
	}

	for _, bad := range []float64{0, -10, 180, math.NaN()} {
		if err := s.SetFOV(bad); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("SetFOV(%v): expected ErrInvalidInput, got %v", bad, err)
		}
	}
	if s.Fit().Distance != d90 || s.FOV() != 90 {
		t.Error("rejected SetFOV changed the state")
	}
}

func TestSetSpringConfigMergesPatch(t *testing.T) {
	h := newFakeHost(800, 600)
	s := newLive(t, testConfig(h, &fakeLoader{model: phoneModel}))
	defer s.Destroy()

	if err := s.SetSpringConfig(SpringPatch{Strength: Ptr(0.3)}); err != nil {
		t.Fatalf("SetSpringConfig: %v", err)
	}
	want := DefaultSpringConfig()
	want.Strength = 0.3
	if got := s.SpringConfig(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	if err := s.SetSpringConfig(SpringPatch{Enabled: Ptr(false)}); err != nil {
		t.Fatalf("SetSpringConfig: %v", err)
	}
	if s.SpringConfig().Enabled {
		t.Error("expected the spring to be disabled")
	}

	err := s.SetSpringConfig(SpringPatch{Damping: Ptr(0.5), Mass: Ptr(-1.0)})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if got := s.SpringConfig().Damping; got != want.Damping {
		t.Errorf("rejected patch was partly applied, damping %v", got)
	}
}

func TestSetBaseTiltMergesPatch(t *testing.T) {
	h := newFakeHost(800, 600)
	cfg := testConfig(h, &fakeLoader{model: phoneModel})
	cfg.BaseTilt = Tilt{X: 0.1, Y: 0.2}
	s := newLive(t, cfg)
	defer s.Destroy()

	if err := s.SetBaseTilt(TiltPatch{Y: Ptr(-0.3)}); err != nil {
		t.Fatalf("SetBaseTilt: %v", err)
	}
	if got, want := s.Tilt().Base, (Tilt{X: 0.1, Y: -0.3}); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
	if err := s.SetBaseTilt(TiltPatch{X: Ptr(math.NaN())}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	h.step(600)
	if got := s.Tilt().Current; !approxTilt(got, Tilt{X: 0.1, Y: -0.3}, 1e-9) {
		t.Errorf("expected the model to settle at the base tilt, got %v", got)
	}
}

func TestUpdateScreenshotSwapsTexture(t *testing.T) {
	h := newFakeHost(800, 600)
	l := &fakeLoader{model: phoneModel}
	s := newLive(t, testConfig(h, l))
	defer s.Destroy()

	old := s.screenMat.AlbedoTexture
	if err := s.UpdateScreenshot(context.Background(), "next.png"); err != nil {
		t.Fatalf("UpdateScreenshot: %v", err)
	}
	if got := s.screenMat.AlbedoTexture; got == nil || got.Name != "next.png" {
		t.Errorf("screen does not show the new screenshot")
	}
	if s.Image() != "next.png" {
		t.Errorf("expected image next.png, got %q", s.Image())
	}
	released := h.attached[0].released
	if len(released) != 1 || released[0] != old {
		t.Errorf("previous texture not released: %v", released)
	}

	l.texErr = errors.New("gone")
	err := s.UpdateScreenshot(context.Background(), "missing.png")
	if !errors.Is(err, ErrAssetLoad) {
		t.Errorf("expected ErrAssetLoad, got %v", err)
	}
	if s.Image() != "next.png" {
		t.Error("failed update replaced the screenshot")
	}
}

func TestResizeUpdatesCameraAndSurface(t *testing.T) {
	h := newFakeHost(800, 600)
	s := newLive(t, testConfig(h, &fakeLoader{model: phoneModel}))
	defer s.Destroy()
	fit := s.Fit()

	h.emit(Event{Kind: EventResize, Width: 300, Height: 600})
	surface := h.attached[0]
	if surface.width != 300 || surface.height != 600 {
		t.Errorf("surface size: expected 300x600, got %dx%d", surface.width, surface.height)
	}
	if got := s.camera.AspectRatio; !approxEqual(float64(got), 0.5, 1e-6) {
		t.Errorf("aspect: expected 0.5, got %v", got)
	}
	if s.Fit() != fit {
		t.Error("resize refitted the model")
	}

	h.emit(Event{Kind: EventResize, Width: 0, Height: 0})
	if surface.width != 300 {
		t.Error("zero-size resize reached the surface")
	}
}

func TestFrameRateIndependentSettles(t *testing.T) {
	h := newFakeHost(800, 600)
	cfg := testConfig(h, &fakeLoader{model: phoneModel})
	cfg.FrameRateIndependent = true
	cfg.BaseTilt = Tilt{X: 0.05, Y: -0.05}
	s := newLive(t, cfg)
	defer s.Destroy()

	h.step(600)
	if got := s.Tilt().Current; !approxTilt(got, cfg.BaseTilt, 1e-6) {
		t.Errorf("expected to settle at %v, got %v", cfg.BaseTilt, got)
	}
}

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func approxTilt(a, b Tilt, eps float64) bool {
	return approxEqual(a.X, b.X, eps) && approxEqual(a.Y, b.Y, eps)
}
