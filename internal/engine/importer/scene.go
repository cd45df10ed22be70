package importer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/texture"
)

// Channel identifies a texture slot on a source material.
type Channel int

// Material channels readers may fill.
const (
	ChannelDiffuse Channel = iota
	ChannelSpecular
	ChannelNormals
	ChannelHeight
	ChannelAmbient
	ChannelEmissive
	ChannelOcclusion
)

var channelNames = [...]string{
	ChannelDiffuse:   "diffuse",
	ChannelSpecular:  "specular",
	ChannelNormals:   "normals",
	ChannelHeight:    "height",
	ChannelAmbient:   "ambient",
	ChannelEmissive:  "emissive",
	ChannelOcclusion: "occlusion",
}

func (c Channel) String() string {
	if c < 0 || int(c) >= len(channelNames) {
		return "unknown"
	}
	return channelNames[c]
}

// channelFor is the fixed mapping from semantic texture type to the
// material channel it is read from.
var channelFor = map[texture.Type]Channel{
	texture.Diffuse:  ChannelDiffuse,
	texture.Specular: ChannelSpecular,
	texture.Normal:   ChannelNormals,
	texture.Height:   ChannelHeight,
}

// Scene is an imported asset before GPU upload.
type Scene struct {
	Root      *Node
	Meshes    []*SourceMesh
	Materials []*Material
	Dir       string // directory texture paths were resolved against

	// BottomLeftUV is set by formats whose V axis starts at the bottom of
	// the image (OBJ); such coordinates are flipped when FlipUVs is enabled.
	BottomLeftUV bool
}

// Node is one scene graph node referencing meshes by index into Scene.Meshes.
type Node struct {
	Name     string
	Meshes   []int
	Children []*Node
}

// SourceMesh is per-vertex geometry as read from the file. Optional
// channels are nil when absent. Faces may have any arity until triangulated.
type SourceMesh struct {
	Name       string
	Positions  []mgl32.Vec3
	Normals    []mgl32.Vec3
	TexCoords  []mgl32.Vec2
	Tangents   []mgl32.Vec3
	Bitangents []mgl32.Vec3
	Faces      [][]uint32
	Material   int // index into Scene.Materials, -1 for none
}

// HasTexCoords reports whether the mesh carries a UV channel.
func (m *SourceMesh) HasTexCoords() bool {
	return len(m.TexCoords) == len(m.Positions) && len(m.TexCoords) > 0
}

// Material lists texture references per channel.
type Material struct {
	Name     string
	Textures map[Channel][]texture.Ref
}

func newMaterial(name string) *Material {
	return &Material{Name: name, Textures: make(map[Channel][]texture.Ref)}
}

func (m *Material) add(ch Channel, ref texture.Ref) {
	m.Textures[ch] = append(m.Textures[ch], ref)
}

// Walk visits nodes in pre-order: a node before its children, children in
// their stored order.
func (s *Scene) Walk(fn func(n *Node, depth int)) {
	if s.Root == nil {
		return
	}
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	visit(s.Root, 0)
}

// material returns the material at i, or nil when out of range.
func (s *Scene) material(i int) *Material {
	if i < 0 || i >= len(s.Materials) {
		return nil
	}
	return s.Materials[i]
}
