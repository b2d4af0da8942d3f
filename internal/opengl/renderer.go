package opengl

import (
	"fmt"
	"log/slog"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"device-showcase/core"
	"device-showcase/math"
	"device-showcase/scene"
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
	HasIndices bool
}

// Renderer is the OpenGL rendering backend.
type Renderer struct {
	program uint32

	// Vertex transform uniforms
	mvpLoc   int32
	modelLoc int32

	// Lighting uniforms
	lightDirLoc int32
	ambientLoc  int32

	// Material uniforms
	matAlbedoLoc  int32
	albedoTexLoc  int32
	hasTextureLoc int32
	unlitLoc      int32

	viewportW int32
	viewportH int32

	backdrop *Backdrop
	blitter  *Blitter

	gpuMeshes map[*scene.Mesh]*GPUMesh
}

// ── Shaders ───────────────────────────────────────────────────────────────────

// vertex shader: MVP + model transform, world-space normal to fragment.
const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;

uniform mat4 mvp;
uniform mat4 model;

out vec3 fragNormal;
out vec2 fragUV;

void main() {
    fragNormal  = mat3(model) * inNormal;
    fragUV      = inUV;
    gl_Position = mvp * vec4(inPosition, 1.0);
}
` + "\x00"

// fragment shader: Lambert key light plus ambient. Unlit materials (device
// screens) output the texel untouched.
const fragSrc = `
#version 410 core
in vec3 fragNormal;
in vec2 fragUV;
out vec4 outColor;

uniform vec3 lightDir;
uniform float ambient;

uniform vec4 matAlbedo;
uniform sampler2D albedoTex;
uniform bool hasTexture;
uniform bool unlit;

void main() {
    vec4 base = matAlbedo;
    if (hasTexture) {
        base *= texture(albedoTex, fragUV);
    }
    if (unlit) {
        outColor = base;
        return;
    }
    vec3 n = normalize(fragNormal);
    float diffuse = max(dot(n, -lightDir), 0.0);
    outColor = vec4(base.rgb * (ambient + (1.0 - ambient) * diffuse), base.a);
}
` + "\x00"

// ── NewRenderer ───────────────────────────────────────────────────────────────

// NewRenderer initialises OpenGL.
// Must be called after the GLFW window context is made current.
func NewRenderer(log *slog.Logger) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("main shader compile: %w", err)
	}

	backdrop, err := NewBackdrop()
	if err != nil {
		gl.DeleteProgram(prog)
		return nil, err
	}
	blitter, err := NewBlitter()
	if err != nil {
		gl.DeleteProgram(prog)
		backdrop.Destroy()
		return nil, err
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	r := &Renderer{
		program: prog,

		mvpLoc:   gl.GetUniformLocation(prog, gl.Str("mvp\x00")),
		modelLoc: gl.GetUniformLocation(prog, gl.Str("model\x00")),

		lightDirLoc: gl.GetUniformLocation(prog, gl.Str("lightDir\x00")),
		ambientLoc:  gl.GetUniformLocation(prog, gl.Str("ambient\x00")),

		matAlbedoLoc:  gl.GetUniformLocation(prog, gl.Str("matAlbedo\x00")),
		albedoTexLoc:  gl.GetUniformLocation(prog, gl.Str("albedoTex\x00")),
		hasTextureLoc: gl.GetUniformLocation(prog, gl.Str("hasTexture\x00")),
		unlitLoc:      gl.GetUniformLocation(prog, gl.Str("unlit\x00")),

		backdrop: backdrop,
		blitter:  blitter,

		gpuMeshes: make(map[*scene.Mesh]*GPUMesh),
	}

	gl.UseProgram(prog)
	gl.Uniform1i(r.albedoTexLoc, 0)

	return r, nil
}

// ── Viewport ──────────────────────────────────────────────────────────────────

func (r *Renderer) SetViewport(width, height int) {
	r.viewportW = int32(width)
	r.viewportH = int32(height)
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (r *Renderer) Viewport() (width, height int) {
	return int(r.viewportW), int(r.viewportH)
}

// ── Frame ─────────────────────────────────────────────────────────────────────

// BeginFrame clears the framebuffer, draws the backdrop when one is set and
// loads the per-frame lighting uniforms.
func (r *Renderer) BeginFrame(clear core.Color, lightDir math.Vec3, ambient float32) {
	gl.ClearColor(clear.R, clear.G, clear.B, clear.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.backdrop.Draw()

	gl.Enable(gl.DEPTH_TEST)
	gl.UseProgram(r.program)
	gl.Uniform3f(r.lightDirLoc, lightDir.X, lightDir.Y, lightDir.Z)
	gl.Uniform1f(r.ambientLoc, ambient)
}

func (r *Renderer) Backdrop() *Backdrop { return r.backdrop }

// ── DrawMesh ──────────────────────────────────────────────────────────────────

// DrawMesh draws a mesh with the given MVP and model matrices.
// Material properties are read from mesh.Material; its albedo texture must
// already be uploaded.
func (r *Renderer) DrawMesh(mesh *scene.Mesh, mvp, model math.Mat4) {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, (*float32)(unsafe.Pointer(&mvp[0][0])))
	gl.UniformMatrix4fv(r.modelLoc, 1, false, (*float32)(unsafe.Pointer(&model[0][0])))

	mat := mesh.Material
	if mat == nil {
		mat = scene.DefaultMaterial()
	}
	r.applyMaterial(mat)

	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElements(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(mesh.Vertices)))
	}
	gl.BindVertexArray(0)
}

func (r *Renderer) applyMaterial(mat *scene.Material) {
	a := mat.Albedo
	gl.Uniform4f(r.matAlbedoLoc, a.R, a.G, a.B, a.A)
	gl.Uniform1i(r.unlitLoc, boolToInt32(mat.Unlit))

	gl.ActiveTexture(gl.TEXTURE0)
	if tex := mat.AlbedoTexture; tex != nil && tex.GLID != 0 {
		gl.BindTexture(gl.TEXTURE_2D, tex.GLID)
		gl.Uniform1i(r.hasTextureLoc, 1)
	} else {
		gl.BindTexture(gl.TEXTURE_2D, 0)
		gl.Uniform1i(r.hasTextureLoc, 0)
	}
}

// DrawImage draws tex over the whole viewport, letterboxed to keep its aspect
// ratio. Used for the fallback image.
func (r *Renderer) DrawImage(tex *scene.Texture, clear core.Color) {
	gl.ClearColor(clear.R, clear.G, clear.B, clear.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.blitter.Draw(tex, int(r.viewportW), int(r.viewportH))
}

// ── Resource management ───────────────────────────────────────────────────────

// ReleaseMesh frees GPU buffers for the given mesh.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		if gpu.HasIndices {
			gl.DeleteBuffers(1, &gpu.EBO)
		}
		delete(r.gpuMeshes, mesh)
		mesh.GPUData = nil
	}
}

// Destroy releases all GPU resources owned by the renderer. Textures are
// owned by their uploader.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	r.backdrop.Destroy()
	r.blitter.Destroy()
	gl.DeleteProgram(r.program)
}

// ── Internal helpers ──────────────────────────────────────────────────────────

// ensureUploaded uploads vertex/index data if not already done.
func (r *Renderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		return gpu
	}
	if len(mesh.Vertices) == 0 {
		return nil
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))

	gpu := &GPUMesh{
		IndexCount: int32(len(mesh.Indices)),
		HasIndices: len(mesh.Indices) > 0,
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v core.Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))
	uvOff := int(unsafe.Offsetof(v.UV))

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))

	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))

	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(uvOff))

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(mesh.Indices)*4,
			gl.Ptr(mesh.Indices),
			gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu
}

// ── Shader helpers ────────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", log)
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
