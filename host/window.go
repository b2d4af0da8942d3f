package host

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	// GLFW and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	// Input callbacks, invoked from PollEvents on the main thread. Any may be
	// nil. Cursor coordinates are in window units, sizes in framebuffer pixels.
	OnCursor func(x, y float64)
	OnScroll func(dx, dy float64)
	OnResize func(width, height int)
	OnKey    func(key int)
}

type WindowConfig struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
	VSync     bool
	// Hidden creates an offscreen window, for rendering posters.
	Hidden bool
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     1280,
		Height:    720,
		Title:     "Device Showcase",
		Resizable: true,
		VSync:     true,
	}
}

// NewWindow initialises GLFW and opens a window with a current OpenGL 4.1
// core context.
func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))
	glfw.WindowHint(glfw.Visible, boolToInt(!config.Hidden))

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	window := &Window{
		Handle: handle,
		Title:  config.Title,
	}
	window.Width, window.Height = handle.GetFramebufferSize()

	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
		if window.OnResize != nil {
			window.OnResize(width, height)
		}
	})
	handle.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if window.OnCursor != nil {
			window.OnCursor(x, y)
		}
	})
	handle.SetScrollCallback(func(_ *glfw.Window, dx, dy float64) {
		if window.OnScroll != nil {
			window.OnScroll(dx, dy)
		}
	})
	handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Press && window.OnKey != nil {
			window.OnKey(int(key))
		}
	})

	return window, nil
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) Close() {
	w.Handle.SetShouldClose(true)
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

// GetSize returns the window size in the units cursor positions use.
func (w *Window) GetSize() (int, int) {
	return w.Handle.GetSize()
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

func boolToInt(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

// Keys the showcase viewer binds.
const (
	KeyEscape     = int(glfw.KeyEscape)
	KeyT          = int(glfw.KeyT)
	KeyS          = int(glfw.KeyS)
	KeyEqual      = int(glfw.KeyEqual)
	KeyMinus      = int(glfw.KeyMinus)
	KeyKPAdd      = int(glfw.KeyKPAdd)
	KeyKPSubtract = int(glfw.KeyKPSubtract)
)
