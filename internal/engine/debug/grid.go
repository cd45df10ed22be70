// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Faultbox/meshview/internal/engine/gpu"
)

// PlaneVertices returns the four corners of a square on y=0 spanning
// [-halfExtent, halfExtent] on X and Z, and its two triangles.
func PlaneVertices(halfExtent float32) ([]float32, []uint32) {
	h := halfExtent
	return []float32{
			-h, 0, -h,
			h, 0, -h,
			h, 0, h,
			-h, 0, h,
		}, []uint32{
			0, 1, 2,
			2, 3, 0,
		}
}

// Grid is the ground plane the grid shader draws lines on.
type Grid struct {
	device  gpu.Device
	buffers gpu.Buffers
	Spacing float32
}

// NewGrid uploads a ground plane of the given half extent.
func NewGrid(device gpu.Device, halfExtent, spacing float32) *Grid {
	verts, idx := PlaneVertices(halfExtent)
	return &Grid{
		device:  device,
		buffers: device.CreateBuffers(gpu.Float32Bytes(verts), gpu.PositionLayout, idx),
		Spacing: spacing,
	}
}

// Draw sets the spacing uniform and draws the plane. The caller binds the
// program and its matrices.
func (g *Grid) Draw(program gpu.Handle) {
	g.device.SetFloat(program, "spacing", g.Spacing)
	g.device.DrawIndexed(g.buffers, 6)
}

// Release frees the GPU buffers. Calling it again is a no-op.
func (g *Grid) Release() {
	if g.buffers == (gpu.Buffers{}) {
		return
	}
	g.device.DeleteBuffers(g.buffers)
	g.buffers = gpu.Buffers{}
}

// Marker is a single point drawn as a sprite, used for the world origin.
type Marker struct {
	device  gpu.Device
	buffers gpu.Buffers
}

// NewMarker uploads a point at x, y, z.
func NewMarker(device gpu.Device, x, y, z float32) *Marker {
	return &Marker{
		device:  device,
		buffers: device.CreateBuffers(gpu.Float32Bytes([]float32{x, y, z}), gpu.PositionLayout, nil),
	}
}

// Draw draws the point with the current program.
func (m *Marker) Draw() {
	m.device.DrawPoints(m.buffers, 1)
}

// Release frees the GPU buffers. Calling it again is a no-op.
func (m *Marker) Release() {
	if m.buffers == (gpu.Buffers{}) {
		return
	}
	m.device.DeleteBuffers(m.buffers)
	m.buffers = gpu.Buffers{}
}
