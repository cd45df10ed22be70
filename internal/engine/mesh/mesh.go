// Package mesh holds drawable vertex/index/texture groups and their GPU buffers.
package mesh

import (
	"strconv"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/gpu"
	"github.com/Faultbox/meshview/internal/engine/texture"
)

// Vertex is the fixed per-vertex layout. Field order defines attribute
// locations 0..4.
type Vertex struct {
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	TexCoords mgl32.Vec2
	Tangent   mgl32.Vec3
	Bitangent mgl32.Vec3
}

// VertexSize is the byte stride of Vertex.
const VertexSize = int(unsafe.Sizeof(Vertex{}))

// Layout describes Vertex to the device.
var Layout = gpu.VertexLayout{
	Stride: int32(VertexSize),
	Attributes: []gpu.Attribute{
		{Location: 0, Size: 3, Offset: int(unsafe.Offsetof(Vertex{}.Position))},
		{Location: 1, Size: 3, Offset: int(unsafe.Offsetof(Vertex{}.Normal))},
		{Location: 2, Size: 2, Offset: int(unsafe.Offsetof(Vertex{}.TexCoords))},
		{Location: 3, Size: 3, Offset: int(unsafe.Offsetof(Vertex{}.Tangent))},
		{Location: 4, Size: 3, Offset: int(unsafe.Offsetof(Vertex{}.Bitangent))},
	},
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extents.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Union returns the smallest box containing b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		Min: mgl32.Vec3{min(b.Min[0], o.Min[0]), min(b.Min[1], o.Min[1]), min(b.Min[2], o.Min[2])},
		Max: mgl32.Vec3{max(b.Max[0], o.Max[0]), max(b.Max[1], o.Max[1]), max(b.Max[2], o.Max[2])},
	}
}

// Mesh is one drawable group. Its vertex, index and texture lists are fixed
// at construction; it exclusively owns its VAO/VBO/EBO.
type Mesh struct {
	device   gpu.Device
	vertices []Vertex
	indices  []uint32
	textures []texture.Texture
	bounds   Bounds

	buffers  gpu.Buffers
	released bool
}

// New uploads vertices and indices and returns the mesh owning the buffers.
// Textures are shared records owned by the texture cache.
func New(device gpu.Device, vertices []Vertex, indices []uint32, textures []texture.Texture) *Mesh {
	m := &Mesh{
		device:   device,
		vertices: vertices,
		indices:  indices,
		textures: textures,
		bounds:   computeBounds(vertices),
	}
	m.buffers = device.CreateBuffers(vertexBytes(vertices), Layout, indices)
	return m
}

func vertexBytes(vertices []Vertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), len(vertices)*VertexSize)
}

func computeBounds(vertices []Vertex) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		for i := 0; i < 3; i++ {
			b.Min[i] = min(b.Min[i], v.Position[i])
			b.Max[i] = max(b.Max[i], v.Position[i])
		}
	}
	return b
}

// Draw binds the textures to consecutive units starting at 0, each sampler
// named <type uniform><n> with n counted per type from 1, then draws every
// index. Blank textures are skipped. Unit 0 is active on return.
func (m *Mesh) Draw(program gpu.Handle) {
	counts := make(map[texture.Type]int, len(texture.Types))
	unit := uint32(0)

	for _, tex := range m.textures {
		if tex.Blank() {
			continue
		}
		counts[tex.Type]++
		name := tex.Type.Uniform() + strconv.Itoa(counts[tex.Type])

		m.device.ActiveTexture(unit)
		m.device.SetInt(program, name, int32(unit))
		m.device.BindTexture2D(tex.Handle)
		unit++
	}

	m.device.DrawIndexed(m.buffers, int32(len(m.indices)))
	m.device.ActiveTexture(0)
}

// Release deletes the mesh's buffers. Calling it again is a no-op.
func (m *Mesh) Release() {
	if m.released {
		return
	}
	m.released = true
	m.device.DeleteBuffers(m.buffers)
	m.buffers = gpu.Buffers{}
}

// Vertices returns the vertex list. Callers must not modify it.
func (m *Mesh) Vertices() []Vertex { return m.vertices }

// Indices returns the triangle index list. Callers must not modify it.
func (m *Mesh) Indices() []uint32 { return m.indices }

// HasTexture reports whether the mesh binds a non-blank texture of typ.
func (m *Mesh) HasTexture(typ texture.Type) bool {
	for _, tex := range m.textures {
		if tex.Type == typ && !tex.Blank() {
			return true
		}
	}
	return false
}

// Textures returns the texture records in resolution order.
func (m *Mesh) Textures() []texture.Texture { return m.textures }

// Bounds returns the bounding box of the vertex positions.
func (m *Mesh) Bounds() Bounds { return m.bounds }

// Buffers returns the GPU buffers owned by the mesh.
func (m *Mesh) Buffers() gpu.Buffers { return m.buffers }
