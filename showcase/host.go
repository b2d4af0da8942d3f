package showcase

import (
	"context"
	"time"

	"device-showcase/scene"
)

// AssetLoader fetches the device model and screenshot textures. Both calls
// may block; failures must be reported as errors, never as empty results.
type AssetLoader interface {
	LoadModel(ctx context.Context, path string) (*scene.Node, error)
	LoadTexture(ctx context.Context, locator string) (*scene.Texture, error)
}

// Surface is a rendering surface attached to the host container.
type Surface interface {
	Resize(width, height int)
	Render(s *scene.Scene)
	// ReleaseTexture frees GPU storage for a texture no longer referenced by
	// the scene. It may be called off the render thread; the release itself
	// happens on the next Render.
	ReleaseTexture(t *scene.Texture)
	Destroy()
}

// EventKind selects which host events a listener receives.
type EventKind int

const (
	EventPointerMove EventKind = iota
	EventScroll
	EventResize
	EventKey
)

func (k EventKind) String() string {
	switch k {
	case EventPointerMove:
		return "pointermove"
	case EventScroll:
		return "scroll"
	case EventResize:
		return "resize"
	case EventKey:
		return "key"
	}
	return "unknown"
}

// Event is a host input event. Fields are filled according to Kind.
type Event struct {
	Kind EventKind

	// Pointer position and the viewport it is measured in.
	X, Y         float64
	ViewW, ViewH float64

	// Accumulated vertical scroll of the host page.
	ScrollOffset float64

	// New client size for EventResize.
	Width, Height int

	Key int
}

// FrameID identifies a pending frame callback.
type FrameID uint64

// Host is the container the showcase mounts into. Every callback it invokes
// (listeners, frame callbacks) runs on the host's loop thread.
type Host interface {
	ClientSize() (width, height int)
	ScrollOffset() float64

	AttachSurface() (Surface, error)
	DetachSurface(s Surface)

	ShowImage(locator string) error
	RemoveImage()

	Listen(kind EventKind, fn func(Event)) (unlisten func())

	RequestFrame(fn func(now time.Time)) FrameID
	CancelFrame(id FrameID)
}
