// Package gpu defines the slice of the graphics pipeline the viewer relies on
// and provides an OpenGL implementation of it.
package gpu

import (
	"image"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Handle is an opaque graphics resource id. Zero means "no resource"; binding
// it is always safe and leaves the target unbound.
type Handle uint32

// Attribute describes one float vertex attribute inside an interleaved buffer.
type Attribute struct {
	Location uint32
	Size     int32 // float components
	Offset   int   // bytes from the start of the vertex
}

// VertexLayout is the interleaved layout of a vertex buffer.
type VertexLayout struct {
	Stride     int32
	Attributes []Attribute
}

// Buffers groups the objects backing one drawable vertex/index set.
type Buffers struct {
	VAO Handle
	VBO Handle
	EBO Handle // zero when the geometry is not indexed
}

// Device is the render contract: buffer and texture lifetime, binding,
// uniforms and draw submission.
type Device interface {
	CreateBuffers(vertexData []byte, layout VertexLayout, indices []uint32) Buffers
	DeleteBuffers(b Buffers)

	// CreateTexture2D uploads img with mipmaps and repeat wrapping.
	CreateTexture2D(img *image.RGBA) Handle
	DeleteTexture(h Handle)
	ActiveTexture(unit uint32)
	BindTexture2D(h Handle)

	UseProgram(program Handle)
	DeleteProgram(program Handle)
	SetInt(program Handle, name string, v int32)
	SetFloat(program Handle, name string, v float32)
	SetVec3(program Handle, name string, v mgl32.Vec3)
	SetMat4(program Handle, name string, m mgl32.Mat4)

	DrawIndexed(b Buffers, count int32)
	DrawPoints(b Buffers, count int32)
	DrawLines(b Buffers, count int32)

	Clear(r, g, b float32)
	Viewport(width, height int)
	ReadPixels(width, height int) []byte
}

// PositionLayout is a tightly packed vec3 position stream at location 0.
var PositionLayout = VertexLayout{
	Stride:     12,
	Attributes: []Attribute{{Location: 0, Size: 3, Offset: 0}},
}

// Float32Bytes reinterprets v as raw bytes without copying.
func Float32Bytes(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}
