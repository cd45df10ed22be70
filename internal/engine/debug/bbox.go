package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/gpu"
)

// BoxVertexCount is the number of vertices in a box wireframe (12 edges x 2).
const BoxVertexCount = 24

// BoxWireframeVertices returns line-pair positions for the edges of the box
// [lo, hi] grown by padding on every side. Format: x, y, z per vertex.
func BoxWireframeVertices(lo, hi mgl32.Vec3, padding float32) []float32 {
	minX, minY, minZ := lo[0]-padding, lo[1]-padding, lo[2]-padding
	maxX, maxY, maxZ := hi[0]+padding, hi[1]+padding, hi[2]+padding

	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// Wireframe draws an axis-aligned box outline.
type Wireframe struct {
	device  gpu.Device
	buffers gpu.Buffers
}

// NewWireframe uploads the outline of [lo, hi].
func NewWireframe(device gpu.Device, lo, hi mgl32.Vec3, padding float32) *Wireframe {
	verts := BoxWireframeVertices(lo, hi, padding)
	return &Wireframe{
		device:  device,
		buffers: device.CreateBuffers(gpu.Float32Bytes(verts), gpu.PositionLayout, nil),
	}
}

// Draw draws the outline with the current program.
func (w *Wireframe) Draw() {
	w.device.DrawLines(w.buffers, BoxVertexCount)
}

// Release frees the GPU buffers. Calling it again is a no-op.
func (w *Wireframe) Release() {
	if w.buffers == (gpu.Buffers{}) {
		return
	}
	w.device.DeleteBuffers(w.buffers)
	w.buffers = gpu.Buffers{}
}
