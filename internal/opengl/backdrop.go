package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"device-showcase/core"
)

// Backdrop paints a vertical gradient behind the device. It is a single
// fullscreen triangle drawn with depth testing off, so any geometry drawn
// afterwards lands in front of it.
type Backdrop struct {
	vao  uint32
	prog uint32

	topLoc    int32
	bottomLoc int32

	// Top is the colour at the top edge of the viewport.
	Top core.Color
	// Bottom is the colour at the bottom edge.
	Bottom core.Color
	// Enabled is false until colours are set.
	Enabled bool
}

// ── Shaders ───────────────────────────────────────────────────────────────────

// fullscreenVertSrc: fullscreen triangle via gl_VertexID (no VBO needed).
// fragUV is (0,0) at the bottom-left corner of the viewport.
const fullscreenVertSrc = `
#version 410 core
out vec2 fragUV;
void main() {
    const vec2 pos[3] = vec2[3](
        vec2(-1.0, -1.0),
        vec2( 3.0, -1.0),
        vec2(-1.0,  3.0)
    );
    gl_Position = vec4(pos[gl_VertexID], 0.0, 1.0);
    fragUV      = pos[gl_VertexID] * 0.5 + 0.5;
}
` + "\x00"

// backdropFragSrc: smoothstep blend from bottom to top.
const backdropFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform vec4 top;
uniform vec4 bottom;

void main() {
    outColor = mix(bottom, top, smoothstep(0.0, 1.0, fragUV.y));
}
` + "\x00"

// NewBackdrop compiles the gradient shader. The backdrop starts disabled.
func NewBackdrop() (*Backdrop, error) {
	prog, err := newProgram(fullscreenVertSrc, backdropFragSrc)
	if err != nil {
		return nil, fmt.Errorf("backdrop shader: %w", err)
	}
	b := &Backdrop{
		prog:      prog,
		topLoc:    gl.GetUniformLocation(prog, gl.Str("top\x00")),
		bottomLoc: gl.GetUniformLocation(prog, gl.Str("bottom\x00")),
	}
	gl.GenVertexArrays(1, &b.vao)
	return b, nil
}

// SetColors enables the backdrop with the given gradient stops.
func (b *Backdrop) SetColors(top, bottom core.Color) {
	b.Top = top
	b.Bottom = bottom
	b.Enabled = true
}

// Draw renders the gradient if enabled. Call right after clearing.
func (b *Backdrop) Draw() {
	if !b.Enabled {
		return
	}
	gl.Disable(gl.DEPTH_TEST)
	gl.DepthMask(false)

	gl.UseProgram(b.prog)
	gl.Uniform4f(b.topLoc, b.Top.R, b.Top.G, b.Top.B, b.Top.A)
	gl.Uniform4f(b.bottomLoc, b.Bottom.R, b.Bottom.G, b.Bottom.B, b.Bottom.A)
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)

	gl.DepthMask(true)
	gl.Enable(gl.DEPTH_TEST)
}

func (b *Backdrop) Destroy() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
	if b.prog != 0 {
		gl.DeleteProgram(b.prog)
		b.prog = 0
	}
}
