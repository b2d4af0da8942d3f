// Package host mounts showcases into a desktop window. It implements
// showcase.Host on top of a GLFW window and the OpenGL render engine.
package host

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"slices"
	"sync"
	"time"

	"device-showcase/core"
	"device-showcase/renderer"
	"device-showcase/scene"
	"device-showcase/showcase"
)

// scrollStep is the page offset one wheel notch scrolls by.
const scrollStep = 40.0

var errSurfaceAttached = errors.New("host: a surface is already attached")

// Host drives a window's event and frame loop. Run, Step, Capture and Close
// must be called from the main thread; the showcase.Host methods may be
// called from any goroutine.
type Host struct {
	win    *Window
	loader showcase.AssetLoader
	log    *slog.Logger

	// Backdrop gradient for attached surfaces, and the letterbox colour
	// behind fallback images.
	BackdropTop    core.Color
	BackdropBottom core.Color

	mu           sync.Mutex
	listeners    map[showcase.EventKind]map[uint64]func(showcase.Event)
	nextListener uint64
	frames       map[showcase.FrameID]func(time.Time)
	nextFrame    showcase.FrameID
	scroll       float64

	surface *renderer.RenderEngine

	images imageSlot

	// imageEngine draws fallback images. It is created on the loop thread the
	// first time an image is drawn and only used there.
	imageEngine *renderer.RenderEngine
}

// New wraps win. loader decodes the images passed to ShowImage.
func New(win *Window, loader showcase.AssetLoader, log *slog.Logger) *Host {
	if log == nil {
		log = slog.Default()
	}
	h := &Host{
		win:            win,
		loader:         loader,
		log:            log,
		BackdropTop:    core.Color{R: 0.16, G: 0.17, B: 0.2, A: 1},
		BackdropBottom: core.Color{R: 0.05, G: 0.05, B: 0.06, A: 1},
		listeners:      make(map[showcase.EventKind]map[uint64]func(showcase.Event)),
		frames:         make(map[showcase.FrameID]func(time.Time)),
	}

	win.OnCursor = func(x, y float64) {
		w, hgt := win.GetSize()
		h.emit(showcase.Event{
			Kind: showcase.EventPointerMove,
			X:    x, Y: y,
			ViewW: float64(w), ViewH: float64(hgt),
		})
	}
	win.OnScroll = func(_, dy float64) {
		h.mu.Lock()
		h.scroll = max(0, h.scroll-dy*scrollStep)
		offset := h.scroll
		h.mu.Unlock()
		h.emit(showcase.Event{Kind: showcase.EventScroll, ScrollOffset: offset})
	}
	win.OnResize = func(width, height int) {
		if h.imageEngine != nil && width > 0 && height > 0 {
			h.imageEngine.Resize(width, height)
		}
		h.emit(showcase.Event{Kind: showcase.EventResize, Width: width, Height: height})
	}
	win.OnKey = func(key int) {
		h.emit(showcase.Event{Kind: showcase.EventKey, Key: key})
	}
	return h
}

func (h *Host) ClientSize() (width, height int) {
	return h.win.GetFramebufferSize()
}

func (h *Host) ScrollOffset() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scroll
}

// AttachSurface creates the render engine for a live showcase. Only one
// surface can be attached at a time. Must be called on the loop thread.
func (h *Host) AttachSurface() (showcase.Surface, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.surface != nil {
		return nil, errSurfaceAttached
	}
	w, hgt := h.win.GetFramebufferSize()
	engine, err := renderer.NewRenderEngine(w, hgt, h.log)
	if err != nil {
		return nil, err
	}
	engine.SetBackdrop(h.BackdropTop, h.BackdropBottom)
	h.surface = engine
	return engine, nil
}

func (h *Host) DetachSurface(s showcase.Surface) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if engine, ok := s.(*renderer.RenderEngine); ok && engine == h.surface {
		h.surface = nil
	}
}

// ShowImage decodes the image at locator and displays it letterboxed in place
// of a rendered scene. A failed load leaves the current image in place.
func (h *Host) ShowImage(locator string) error {
	tex, err := h.loader.LoadTexture(context.Background(), locator)
	if err != nil {
		return err
	}
	h.images.set(tex)
	return nil
}

func (h *Host) RemoveImage() {
	h.images.set(nil)
}

func (h *Host) Listen(kind showcase.EventKind, fn func(showcase.Event)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextListener++
	id := h.nextListener
	if h.listeners[kind] == nil {
		h.listeners[kind] = make(map[uint64]func(showcase.Event))
	}
	h.listeners[kind][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners[kind], id)
			h.mu.Unlock()
		})
	}
}

func (h *Host) RequestFrame(fn func(now time.Time)) showcase.FrameID {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextFrame++
	h.frames[h.nextFrame] = fn
	return h.nextFrame
}

func (h *Host) CancelFrame(id showcase.FrameID) {
	h.mu.Lock()
	delete(h.frames, id)
	h.mu.Unlock()
}

// emit delivers ev to the current listeners of its kind in registration
// order. The lock is not held while they run, so listeners may unlisten.
func (h *Host) emit(ev showcase.Event) {
	h.mu.Lock()
	ids := make([]uint64, 0, len(h.listeners[ev.Kind]))
	for id := range h.listeners[ev.Kind] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(showcase.Event), len(ids))
	for i, id := range ids {
		fns[i] = h.listeners[ev.Kind][id]
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Step runs one loop iteration at time now: pending input events, then the
// frame callbacks requested before this step, then the fallback image if one
// is shown. It does not swap buffers, so the frame can still be captured.
func (h *Host) Step(now time.Time) {
	h.win.PollEvents()

	h.mu.Lock()
	due := h.frames
	h.frames = make(map[showcase.FrameID]func(time.Time))
	h.mu.Unlock()

	ids := make([]showcase.FrameID, 0, len(due))
	for id := range due {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		due[id](now)
	}

	img, retired := h.images.take()
	h.releaseImages(retired)
	if img != nil {
		h.drawImage(img)
	}
}

// releaseImages frees retired fallback images. Textures retired before the
// image renderer existed were never uploaded.
func (h *Host) releaseImages(retired []*scene.Texture) {
	if h.imageEngine == nil {
		return
	}
	for _, tex := range retired {
		h.imageEngine.ReleaseTexture(tex)
	}
}

func (h *Host) drawImage(img *scene.Texture) {
	if h.imageEngine == nil {
		w, hgt := h.win.GetFramebufferSize()
		engine, err := renderer.NewRenderEngine(w, hgt, h.log)
		if err != nil {
			h.log.Error("fallback image renderer", "err", err)
			return
		}
		h.imageEngine = engine
	}
	h.imageEngine.DrawImage(img, h.BackdropBottom)
}

// Run steps the loop once per display refresh until ctx is done or the
// window is asked to close.
func (h *Host) Run(ctx context.Context) error {
	for !h.win.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		h.Step(time.Now())
		h.win.SwapBuffers()
	}
	return nil
}

// Capture reads back the frame drawn by the last Step.
func (h *Host) Capture() (*image.RGBA, bool) {
	h.mu.Lock()
	engine := h.surface
	h.mu.Unlock()
	if engine == nil && h.images.shown() {
		engine = h.imageEngine
	}
	if engine == nil {
		return nil, false
	}
	return engine.Capture(), true
}

// Close frees the fallback renderer. The window stays open and is owned by
// the caller.
func (h *Host) Close() {
	h.images.set(nil)
	if h.imageEngine != nil {
		_, retired := h.images.take()
		h.releaseImages(retired)
		h.imageEngine.Destroy()
		h.imageEngine = nil
	}
}
