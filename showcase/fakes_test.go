package showcase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"device-showcase/core"
	"device-showcase/math"
	"device-showcase/scene"
)

// fakeHost is an in-memory Host. Frames run only when the test calls step.
type fakeHost struct {
	mu sync.Mutex

	width, height int
	scroll        float64

	listeners  map[EventKind]map[int]func(Event)
	nextListen int

	frames    map[FrameID]func(time.Time)
	nextFrame FrameID
	clock     time.Time

	attached  []*fakeSurface
	attachErr error

	image      string
	imageShown bool
}

func newFakeHost(w, h int) *fakeHost {
	return &fakeHost{
		width:     w,
		height:    h,
		listeners: make(map[EventKind]map[int]func(Event)),
		frames:    make(map[FrameID]func(time.Time)),
		clock:     time.Unix(1700000000, 0),
	}
}

func (h *fakeHost) ClientSize() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height
}

func (h *fakeHost) ScrollOffset() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scroll
}

func (h *fakeHost) AttachSurface() (Surface, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.attachErr != nil {
		return nil, h.attachErr
	}
	s := &fakeSurface{}
	h.attached = append(h.attached, s)
	return s, nil
}

func (h *fakeHost) DetachSurface(s Surface) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, a := range h.attached {
		if a == s {
			h.attached = append(h.attached[:i], h.attached[i+1:]...)
			return
		}
	}
}

func (h *fakeHost) ShowImage(locator string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if locator == "" {
		return errors.New("no image")
	}
	h.image = locator
	h.imageShown = true
	return nil
}

func (h *fakeHost) RemoveImage() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.image = ""
	h.imageShown = false
}

func (h *fakeHost) Listen(kind EventKind, fn func(Event)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listeners[kind] == nil {
		h.listeners[kind] = make(map[int]func(Event))
	}
	h.nextListen++
	id := h.nextListen
	h.listeners[kind][id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners[kind], id)
	}
}

func (h *fakeHost) RequestFrame(fn func(time.Time)) FrameID {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextFrame++
	h.frames[h.nextFrame] = fn
	return h.nextFrame
}

func (h *fakeHost) CancelFrame(id FrameID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.frames, id)
}

// emit delivers ev to every listener registered for its kind.
func (h *fakeHost) emit(ev Event) {
	h.mu.Lock()
	var fns []func(Event)
	ids := make([]int, 0, len(h.listeners[ev.Kind]))
	for id := range h.listeners[ev.Kind] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fns = append(fns, h.listeners[ev.Kind][id])
	}
	if ev.Kind == EventScroll {
		h.scroll = ev.ScrollOffset
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// step runs n frames, 1/60 s apart.
func (h *fakeHost) step(n int) {
	for i := 0; i < n; i++ {
		h.mu.Lock()
		h.clock = h.clock.Add(time.Second / 60)
		now := h.clock
		pending := h.frames
		h.frames = make(map[FrameID]func(time.Time))
		h.mu.Unlock()

		for _, fn := range pending {
			fn(now)
		}
	}
}

func (h *fakeHost) listenerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, m := range h.listeners {
		n += len(m)
	}
	return n
}

func (h *fakeHost) pendingFrames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.frames)
}

type fakeSurface struct {
	width, height int
	renders       int
	released      []*scene.Texture
	destroyed     int
}

func (s *fakeSurface) Resize(w, h int) { s.width, s.height = w, h }
func (s *fakeSurface) Render(*scene.Scene) { s.renders++ }
func (s *fakeSurface) ReleaseTexture(t *scene.Texture) { s.released = append(s.released, t) }
func (s *fakeSurface) Destroy() { s.destroyed++ }

type fakeLoader struct {
	mu sync.Mutex

	model    func() *scene.Node
	modelErr error
	texErr   error

	modelCalls   int
	textureCalls int
	lastPath     string
}

func (l *fakeLoader) LoadModel(ctx context.Context, path string) (*scene.Node, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.modelCalls++
	l.lastPath = path
	if l.modelErr != nil {
		return nil, l.modelErr
	}
	return l.model(), nil
}

func (l *fakeLoader) LoadTexture(ctx context.Context, locator string) (*scene.Texture, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.textureCalls++
	if l.texErr != nil {
		return nil, l.texErr
	}
	return scene.NewSolidTexture(locator, 255, 255, 255, 255), nil
}

// phoneModel is a 2x1 slab with a screen quad on its front face.
func phoneModel() *scene.Node {
	root := scene.NewNode("phone")

	body := scene.NewNode("body")
	body.Mesh = scene.CreateBox("body", 2, 1, 0.1)
	root.AddChild(body)

	screen := scene.NewNode("screen")
	screen.Mesh = scene.CreateQuad("screen", 1.8, 0.9)
	screen.SetPosition(math.NewVec3(0, 0, 0.051))
	root.AddChild(screen)
	return root
}

// bareModel has no screen part.
func bareModel() *scene.Node {
	root := scene.NewNode("slab")
	body := scene.NewNode("body")
	body.Mesh = scene.CreateBox("body", 2, 1, 0.1)
	root.AddChild(body)
	return root
}

// flatModel has no vertical extent.
func flatModel() *scene.Node {
	root := scene.NewNode("flat")
	line := scene.NewNode("line")
	line.Mesh = scene.CreateMeshFromData("line", []core.Vertex{
		{Position: math.NewVec3(-1, 0, 0)},
		{Position: math.NewVec3(1, 0, 0)},
		{Position: math.NewVec3(0, 0, 1)},
	}, []uint32{0, 1, 2})
	root.AddChild(line)
	return root
}

func testDevice() DeviceID {
	return DeviceID{Manufacturer: "acme", Type: "phone", Model: "one", Year: 2024}
}

func testConfig(h *fakeHost, l *fakeLoader) Config {
	cfg := DefaultConfig()
	cfg.Host = h
	cfg.Loader = l
	cfg.Device = testDevice()
	cfg.ModelsRoot = "models"
	cfg.Screenshot = "shot.png"
	cfg.FallbackImage = "poster.webp"
	cfg.FOV = 45
	// Scroll tilt defaults on; tests that need it opt back in.
	cfg.ScrollTilt = false
	return cfg
}
