// Package gputest provides a recording gpu.Device for tests that run without
// a graphics context.
package gputest

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/gpu"
)

// Call is one recorded device call.
type Call struct {
	Op      string
	Handle  gpu.Handle
	Unit    uint32
	Name    string
	Int     int32
	Float   float32
	Vec     mgl32.Vec3
	Mat     mgl32.Mat4
	Count   int32
	Buffers gpu.Buffers
}

// Upload captures the data passed to CreateBuffers.
type Upload struct {
	Buffers    gpu.Buffers
	VertexData []byte
	Layout     gpu.VertexLayout
	Indices    []uint32
}

// Recorder implements gpu.Device by appending every call to Calls and
// handing out sequential non-zero handles.
type Recorder struct {
	Calls   []Call
	Uploads []Upload

	// TextureUploads counts CreateTexture2D calls.
	TextureUploads int

	Live    map[gpu.Handle]string // handle -> kind, for leak checks
	Deleted map[gpu.Handle]int    // handle -> delete count

	next gpu.Handle
}

var _ gpu.Device = (*Recorder)(nil)

// New returns an empty recorder.
func New() *Recorder {
	return &Recorder{
		Live:    make(map[gpu.Handle]string),
		Deleted: make(map[gpu.Handle]int),
	}
}

func (r *Recorder) alloc(kind string) gpu.Handle {
	r.next++
	r.Live[r.next] = kind
	return r.next
}

func (r *Recorder) free(h gpu.Handle) {
	if h == 0 {
		return
	}
	r.Deleted[h]++
	delete(r.Live, h)
}

func (r *Recorder) record(c Call) {
	r.Calls = append(r.Calls, c)
}

// CreateBuffers implements gpu.Device.
func (r *Recorder) CreateBuffers(vertexData []byte, layout gpu.VertexLayout, indices []uint32) gpu.Buffers {
	b := gpu.Buffers{VAO: r.alloc("vao"), VBO: r.alloc("vbo")}
	if len(indices) > 0 {
		b.EBO = r.alloc("ebo")
	}
	r.Uploads = append(r.Uploads, Upload{
		Buffers:    b,
		VertexData: append([]byte(nil), vertexData...),
		Layout:     layout,
		Indices:    append([]uint32(nil), indices...),
	})
	r.record(Call{Op: "CreateBuffers", Buffers: b})
	return b
}

// DeleteBuffers implements gpu.Device.
func (r *Recorder) DeleteBuffers(b gpu.Buffers) {
	r.free(b.VAO)
	r.free(b.VBO)
	r.free(b.EBO)
	r.record(Call{Op: "DeleteBuffers", Buffers: b})
}

// CreateTexture2D implements gpu.Device.
func (r *Recorder) CreateTexture2D(img *image.RGBA) gpu.Handle {
	r.TextureUploads++
	h := r.alloc("texture")
	r.record(Call{Op: "CreateTexture2D", Handle: h})
	return h
}

// DeleteTexture implements gpu.Device.
func (r *Recorder) DeleteTexture(h gpu.Handle) {
	r.free(h)
	r.record(Call{Op: "DeleteTexture", Handle: h})
}

// ActiveTexture implements gpu.Device.
func (r *Recorder) ActiveTexture(unit uint32) {
	r.record(Call{Op: "ActiveTexture", Unit: unit})
}

// BindTexture2D implements gpu.Device.
func (r *Recorder) BindTexture2D(h gpu.Handle) {
	r.record(Call{Op: "BindTexture2D", Handle: h})
}

// UseProgram implements gpu.Device.
func (r *Recorder) UseProgram(program gpu.Handle) {
	r.record(Call{Op: "UseProgram", Handle: program})
}

// DeleteProgram implements gpu.Device.
func (r *Recorder) DeleteProgram(program gpu.Handle) {
	r.record(Call{Op: "DeleteProgram", Handle: program})
}

// SetInt implements gpu.Device.
func (r *Recorder) SetInt(program gpu.Handle, name string, v int32) {
	r.record(Call{Op: "SetInt", Handle: program, Name: name, Int: v})
}

// SetFloat implements gpu.Device.
func (r *Recorder) SetFloat(program gpu.Handle, name string, v float32) {
	r.record(Call{Op: "SetFloat", Handle: program, Name: name, Float: v})
}

// SetVec3 implements gpu.Device.
func (r *Recorder) SetVec3(program gpu.Handle, name string, v mgl32.Vec3) {
	r.record(Call{Op: "SetVec3", Handle: program, Name: name, Vec: v})
}

// SetMat4 implements gpu.Device.
func (r *Recorder) SetMat4(program gpu.Handle, name string, m mgl32.Mat4) {
	r.record(Call{Op: "SetMat4", Handle: program, Name: name, Mat: m})
}

// DrawIndexed implements gpu.Device.
func (r *Recorder) DrawIndexed(b gpu.Buffers, count int32) {
	r.record(Call{Op: "DrawIndexed", Buffers: b, Count: count})
}

// DrawPoints implements gpu.Device.
func (r *Recorder) DrawPoints(b gpu.Buffers, count int32) {
	r.record(Call{Op: "DrawPoints", Buffers: b, Count: count})
}

// DrawLines implements gpu.Device.
func (r *Recorder) DrawLines(b gpu.Buffers, count int32) {
	r.record(Call{Op: "DrawLines", Buffers: b, Count: count})
}

// Clear implements gpu.Device.
func (r *Recorder) Clear(red, green, blue float32) {
	r.record(Call{Op: "Clear"})
}

// Viewport implements gpu.Device.
func (r *Recorder) Viewport(width, height int) {
	r.record(Call{Op: "Viewport", Int: int32(width), Count: int32(height)})
}

// ReadPixels implements gpu.Device. It returns an opaque white frame.
func (r *Recorder) ReadPixels(width, height int) []byte {
	r.record(Call{Op: "ReadPixels"})
	pixels := make([]byte, width*height*4)
	for i := range pixels {
		pixels[i] = 0xff
	}
	return pixels
}

// Ops returns the recorded operation names filtered to the given set, or all
// of them when none are given.
func (r *Recorder) Ops(filter ...string) []string {
	keep := make(map[string]bool, len(filter))
	for _, f := range filter {
		keep[f] = true
	}
	var ops []string
	for _, c := range r.Calls {
		if len(keep) == 0 || keep[c.Op] {
			ops = append(ops, c.Op)
		}
	}
	return ops
}

// Find returns the recorded calls with the given op.
func (r *Recorder) Find(op string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset clears recorded calls while keeping resource bookkeeping.
func (r *Recorder) Reset() {
	r.Calls = nil
}
