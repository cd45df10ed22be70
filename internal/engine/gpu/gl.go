package gpu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/logger"
)

var _ Device = (*GL)(nil)

// GL implements Device on top of an OpenGL 4.1 core context.
// All methods must be called from the thread owning the context.
type GL struct {
	// uniform locations per program, looked up once
	uniforms map[Handle]map[string]int32
}

// NewGL loads the OpenGL entry points for the current context and sets the
// default pipeline state.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func NewGL() (*GL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.PROGRAM_POINT_SIZE)

	return &GL{uniforms: make(map[Handle]map[string]int32)}, nil
}

// CreateBuffers uploads static vertex (and optional index) data.
func (d *GL) CreateBuffers(vertexData []byte, layout VertexLayout, indices []uint32) Buffers {
	var vao, vbo, ebo uint32

	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(vertexData) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertexData), unsafe.Pointer(&vertexData[0]), gl.STATIC_DRAW)
	}

	if len(indices) > 0 {
		gl.GenBuffers(1, &ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)
	}

	for _, a := range layout.Attributes {
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointerWithOffset(a.Location, a.Size, gl.FLOAT, false, layout.Stride, uintptr(a.Offset))
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return Buffers{VAO: Handle(vao), VBO: Handle(vbo), EBO: Handle(ebo)}
}

// DeleteBuffers releases the objects in b. Zero handles are skipped.
func (d *GL) DeleteBuffers(b Buffers) {
	if b.VAO != 0 {
		vao := uint32(b.VAO)
		gl.DeleteVertexArrays(1, &vao)
	}
	if b.VBO != 0 {
		vbo := uint32(b.VBO)
		gl.DeleteBuffers(1, &vbo)
	}
	if b.EBO != 0 {
		ebo := uint32(b.EBO)
		gl.DeleteBuffers(1, &ebo)
	}
}

// CreateTexture2D uploads an RGBA image with a full mip chain and repeat wrapping.
// An empty image yields 0.
func (d *GL) CreateTexture2D(img *image.RGBA) Handle {
	if img == nil || img.Bounds().Empty() || len(img.Pix) == 0 {
		return 0
	}

	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)

	w, h := int32(img.Bounds().Dx()), int32(img.Bounds().Dy())
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return Handle(texID)
}

// DeleteTexture releases a texture. Zero is ignored.
func (d *GL) DeleteTexture(h Handle) {
	if h == 0 {
		return
	}
	id := uint32(h)
	gl.DeleteTextures(1, &id)
}

// ActiveTexture selects texture unit GL_TEXTURE0+unit.
func (d *GL) ActiveTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
}

// BindTexture2D binds h to the active unit.
func (d *GL) BindTexture2D(h Handle) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(h))
}

// UseProgram makes program current.
func (d *GL) UseProgram(program Handle) {
	gl.UseProgram(uint32(program))
}

// DeleteProgram releases a linked program and forgets its uniform locations.
func (d *GL) DeleteProgram(program Handle) {
	if program == 0 {
		return
	}
	delete(d.uniforms, program)
	gl.DeleteProgram(uint32(program))
}

// SetInt sets an int (or sampler) uniform on the current program.
func (d *GL) SetInt(program Handle, name string, v int32) {
	gl.Uniform1i(d.location(program, name), v)
}

// SetFloat sets a float uniform on the current program.
func (d *GL) SetFloat(program Handle, name string, v float32) {
	gl.Uniform1f(d.location(program, name), v)
}

// SetVec3 sets a vec3 uniform on the current program.
func (d *GL) SetVec3(program Handle, name string, v mgl32.Vec3) {
	gl.Uniform3f(d.location(program, name), v[0], v[1], v[2])
}

// SetMat4 sets a column-major mat4 uniform on the current program.
func (d *GL) SetMat4(program Handle, name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(d.location(program, name), 1, false, &m[0])
}

// location caches uniform lookups. Missing uniforms resolve to -1, which GL
// silently ignores on upload.
func (d *GL) location(program Handle, name string) int32 {
	locs, ok := d.uniforms[program]
	if !ok {
		locs = make(map[string]int32)
		d.uniforms[program] = locs
	}
	if loc, ok := locs[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(uint32(program), gl.Str(name+"\x00"))
	locs[name] = loc
	return loc
}

// DrawIndexed issues an indexed triangle draw over count indices.
func (d *GL) DrawIndexed(b Buffers, count int32) {
	gl.BindVertexArray(uint32(b.VAO))
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// DrawPoints draws count vertices as points.
func (d *GL) DrawPoints(b Buffers, count int32) {
	gl.BindVertexArray(uint32(b.VAO))
	gl.DrawArrays(gl.POINTS, 0, count)
	gl.BindVertexArray(0)
}

// DrawLines draws count vertices as line segment pairs.
func (d *GL) DrawLines(b Buffers, count int32) {
	gl.BindVertexArray(uint32(b.VAO))
	gl.DrawArrays(gl.LINES, 0, count)
	gl.BindVertexArray(0)
}

// Clear clears color and depth.
func (d *GL) Clear(r, g, b float32) {
	gl.ClearColor(r, g, b, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Viewport resizes the viewport.
func (d *GL) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// ReadPixels reads the back buffer as bottom-up RGBA rows.
func (d *GL) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels
}
