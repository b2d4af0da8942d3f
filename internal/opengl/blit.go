package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"device-showcase/scene"
)

// Blitter draws a texture over the viewport, letterboxed to its own aspect
// ratio.
type Blitter struct {
	vao  uint32
	prog uint32

	texLoc   int32
	scaleLoc int32
}

// blitVertSrc: a quad from a triangle strip via gl_VertexID. UV (0,0) is the
// top-left texel, matching textures uploaded top row first.
const blitVertSrc = `
#version 410 core
uniform vec2 scale;
out vec2 fragUV;
void main() {
    vec2 corner = vec2(float(gl_VertexID & 1), float(gl_VertexID >> 1));
    vec2 pos    = corner * 2.0 - 1.0;
    gl_Position = vec4(pos * scale, 0.0, 1.0);
    fragUV      = vec2(corner.x, 1.0 - corner.y);
}
` + "\x00"

const blitFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;
uniform sampler2D image;
void main() {
    outColor = texture(image, fragUV);
}
` + "\x00"

func NewBlitter() (*Blitter, error) {
	prog, err := newProgram(blitVertSrc, blitFragSrc)
	if err != nil {
		return nil, fmt.Errorf("blit shader: %w", err)
	}
	b := &Blitter{
		prog:     prog,
		texLoc:   gl.GetUniformLocation(prog, gl.Str("image\x00")),
		scaleLoc: gl.GetUniformLocation(prog, gl.Str("scale\x00")),
	}
	gl.UseProgram(prog)
	gl.Uniform1i(b.texLoc, 0)
	gl.GenVertexArrays(1, &b.vao)
	return b, nil
}

// Draw blits tex, uploading it first if needed.
func (b *Blitter) Draw(tex *scene.Texture, viewW, viewH int) {
	if tex == nil || viewW <= 0 || viewH <= 0 || tex.Width <= 0 || tex.Height <= 0 {
		return
	}
	if tex.GLID == 0 {
		if err := UploadTexture(tex); err != nil {
			return
		}
	}
	sx, sy := LetterboxScale(tex.Width, tex.Height, viewW, viewH)

	gl.Disable(gl.DEPTH_TEST)
	gl.UseProgram(b.prog)
	gl.Uniform2f(b.scaleLoc, sx, sy)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex.GLID)
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

func (b *Blitter) Destroy() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
	if b.prog != 0 {
		gl.DeleteProgram(b.prog)
		b.prog = 0
	}
}

// LetterboxScale returns the NDC half-extents of an image of imgW x imgH
// fitted inside a viewW x viewH viewport without distortion.
func LetterboxScale(imgW, imgH, viewW, viewH int) (sx, sy float32) {
	imgAspect := float32(imgW) / float32(imgH)
	viewAspect := float32(viewW) / float32(viewH)
	if imgAspect > viewAspect {
		return 1, viewAspect / imgAspect
	}
	return imgAspect / viewAspect, 1
}
