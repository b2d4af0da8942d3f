package renderer

import (
	"fmt"
	"image"
	"log/slog"
	"sync"

	"device-showcase/core"
	"device-showcase/internal/opengl"
	"device-showcase/scene"
)

// RenderEngine is the high-level renderer that drives the OpenGL backend. It
// is the rendering surface a showcase draws into.
//
// Every method except ReleaseTexture must run on the thread that owns the GL
// context.
type RenderEngine struct {
	gl  *opengl.Renderer
	log *slog.Logger

	width, height int

	// Textures this engine uploaded, so Destroy can free them.
	uploaded map[*scene.Texture]bool

	mu       sync.Mutex
	released []*scene.Texture

	// Per-frame stats (populated during Render)
	lastObjects   int
	lastVertices  int
	lastTriangles int
}

// NewRenderEngine creates the OpenGL backend. The GL context must be current.
func NewRenderEngine(width, height int, log *slog.Logger) (*RenderEngine, error) {
	if log == nil {
		log = slog.Default()
	}
	glRenderer, err := opengl.NewRenderer(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL renderer: %w", err)
	}
	glRenderer.SetViewport(width, height)

	return &RenderEngine{
		gl:       glRenderer,
		log:      log,
		width:    width,
		height:   height,
		uploaded: make(map[*scene.Texture]bool),
	}, nil
}

// SetBackdrop paints a vertical gradient behind the scene.
func (re *RenderEngine) SetBackdrop(top, bottom core.Color) {
	re.gl.Backdrop().SetColors(top, bottom)
}

func (re *RenderEngine) Resize(width, height int) {
	re.width, re.height = width, height
	re.gl.SetViewport(width, height)
}

func (re *RenderEngine) Size() (width, height int) {
	return re.width, re.height
}

// Render draws every visible mesh of s from its camera. Textures referenced by
// materials are uploaded on first use; textures queued by ReleaseTexture are
// freed first.
func (re *RenderEngine) Render(s *scene.Scene) {
	re.drainReleased()
	if s == nil || s.Camera == nil {
		return
	}

	re.gl.BeginFrame(s.Background, s.LightDir, s.Ambient)

	view := s.Camera.GetViewMatrix()
	proj := s.Camera.GetProjectionMatrix()

	objects, vertices, triangles := 0, 0, 0
	for _, node := range s.GetVisibleNodes() {
		mesh := node.Mesh
		if mat := mesh.Material; mat != nil && mat.AlbedoTexture != nil {
			re.ensureTexture(mat.AlbedoTexture)
		}

		model := node.GetWorldMatrix()
		mvp := model.Mul(view).Mul(proj)
		re.gl.DrawMesh(mesh, mvp, model)

		objects++
		vertices += len(mesh.Vertices)
		triangles += len(mesh.Indices) / 3
	}

	re.lastObjects = objects
	re.lastVertices = vertices
	re.lastTriangles = triangles
}

// DrawImage fills the surface with tex, letterboxed. Used in place of Render
// when a showcase runs in fallback mode.
func (re *RenderEngine) DrawImage(tex *scene.Texture, background core.Color) {
	re.drainReleased()
	re.ensureTexture(tex)
	re.gl.DrawImage(tex, background)
}

// ReleaseTexture queues tex for deletion on the next Render. Safe to call
// from any goroutine.
func (re *RenderEngine) ReleaseTexture(tex *scene.Texture) {
	if tex == nil {
		return
	}
	re.mu.Lock()
	re.released = append(re.released, tex)
	re.mu.Unlock()
}

// Capture reads back the last rendered frame.
func (re *RenderEngine) Capture() *image.RGBA {
	return opengl.ReadPixels(re.width, re.height)
}

func (re *RenderEngine) Destroy() {
	re.drainReleased()
	for tex := range re.uploaded {
		opengl.DeleteTexture(tex)
	}
	re.uploaded = nil
	re.gl.Destroy()
}

// DrawStats returns stats from the most recent Render call.
func (re *RenderEngine) DrawStats() (objects, vertices, triangles int) {
	return re.lastObjects, re.lastVertices, re.lastTriangles
}

func (re *RenderEngine) ensureTexture(tex *scene.Texture) {
	if tex == nil || tex.GLID != 0 {
		return
	}
	if err := opengl.UploadTexture(tex); err != nil {
		// Drawn untextured; drop the pixels so the upload is not retried
		// every frame.
		re.log.Warn("texture upload failed", "texture", tex.Name, "err", err)
		tex.Pixels = nil
		return
	}
	re.uploaded[tex] = true
}

func (re *RenderEngine) drainReleased() {
	re.mu.Lock()
	released := re.released
	re.released = nil
	re.mu.Unlock()

	for _, tex := range released {
		if re.uploaded[tex] {
			opengl.DeleteTexture(tex)
			delete(re.uploaded, tex)
		}
	}
}
