package importer

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/texture"
	"github.com/Faultbox/meshview/internal/logger"
)

// gltfReader converts a glTF/GLB document. Node transforms are not applied;
// the graph only decides mesh order.
type gltfReader struct {
	path string
	dir  string
	doc  *gltf.Document
	log  *zap.Logger

	scene     *Scene
	meshPrims map[int][]int // glTF mesh index -> SourceMesh indices
	imageRefs map[int]texture.Ref
	visiting  map[int]bool
}

func readGLTF(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	r := &gltfReader{
		path:      path,
		dir:       filepath.Dir(path),
		doc:       doc,
		log:       logger.Named("importer"),
		scene:     &Scene{Dir: filepath.Dir(path)},
		meshPrims: make(map[int][]int),
		imageRefs: make(map[int]texture.Ref),
		visiting:  make(map[int]bool),
	}

	for _, m := range doc.Materials {
		r.scene.Materials = append(r.scene.Materials, r.material(m))
	}

	roots := r.rootNodes()
	if len(roots) == 0 {
		return r.scene, nil
	}

	root := &Node{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	for _, idx := range roots {
		if n := r.node(idx); n != nil {
			root.Children = append(root.Children, n)
		}
	}
	r.scene.Root = root
	return r.scene, nil
}

// rootNodes returns the default scene's roots, or every parentless node
// when the document declares no scenes.
func (r *gltfReader) rootNodes() []int {
	doc := r.doc
	if len(doc.Scenes) > 0 {
		i := 0
		if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
			i = *doc.Scene
		}
		return doc.Scenes[i].Nodes
	}

	child := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			child[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func (r *gltfReader) node(idx int) *Node {
	if idx < 0 || idx >= len(r.doc.Nodes) || r.visiting[idx] {
		return nil
	}
	r.visiting[idx] = true
	defer delete(r.visiting, idx)

	src := r.doc.Nodes[idx]
	n := &Node{Name: src.Name}
	if src.Mesh != nil {
		n.Meshes = r.mesh(*src.Mesh)
	}
	for _, c := range src.Children {
		if child := r.node(c); child != nil {
			n.Children = append(n.Children, child)
		}
	}
	return n
}

// mesh converts each primitive of a glTF mesh once; instancing nodes share
// the resulting SourceMesh indices.
func (r *gltfReader) mesh(idx int) []int {
	if ids, ok := r.meshPrims[idx]; ok {
		return ids
	}
	if idx < 0 || idx >= len(r.doc.Meshes) {
		return nil
	}

	m := r.doc.Meshes[idx]
	var ids []int
	for pi, prim := range m.Primitives {
		sm, err := r.primitive(prim)
		if err != nil {
			r.log.Warn("gltf primitive skipped",
				zap.String("mesh", m.Name), zap.Int("primitive", pi), zap.Error(err))
			continue
		}
		if sm == nil {
			continue
		}
		sm.Name = m.Name
		ids = append(ids, len(r.scene.Meshes))
		r.scene.Meshes = append(r.scene.Meshes, sm)
	}
	r.meshPrims[idx] = ids
	return ids
}

func (r *gltfReader) accessor(prim *gltf.Primitive, attr string) (*gltf.Accessor, bool) {
	i, ok := prim.Attributes[attr]
	if !ok || i >= len(r.doc.Accessors) {
		return nil, false
	}
	return r.doc.Accessors[i], true
}

func (r *gltfReader) primitive(prim *gltf.Primitive) (*SourceMesh, error) {
	doc := r.doc

	posAcc, ok := r.accessor(prim, gltf.POSITION)
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, posAcc, nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	sm := &SourceMesh{Material: -1, Positions: toVec3s(positions)}
	if prim.Material != nil {
		sm.Material = *prim.Material
	}

	if acc, ok := r.accessor(prim, gltf.NORMAL); ok {
		if normals, err := modeler.ReadNormal(doc, acc, nil); err == nil && len(normals) == len(positions) {
			sm.Normals = toVec3s(normals)
		}
	}

	if acc, ok := r.accessor(prim, gltf.TEXCOORD_0); ok {
		if uvs, err := modeler.ReadTextureCoord(doc, acc, nil); err == nil && len(uvs) == len(positions) {
			sm.TexCoords = make([]mgl32.Vec2, len(uvs))
			for i, uv := range uvs {
				sm.TexCoords[i] = uv
			}
		}
	}

	if acc, ok := r.accessor(prim, gltf.TANGENT); ok && sm.Normals != nil {
		if tangents, err := modeler.ReadTangent(doc, acc, nil); err == nil && len(tangents) == len(positions) {
			sm.Tangents = make([]mgl32.Vec3, len(tangents))
			sm.Bitangents = make([]mgl32.Vec3, len(tangents))
			for i, t := range tangents {
				tan := mgl32.Vec3{t[0], t[1], t[2]}
				sm.Tangents[i] = tan
				// w carries the handedness of the bitangent
				sm.Bitangents[i] = sm.Normals[i].Cross(tan).Mul(t[3])
			}
		}
	}

	var indices []uint32
	if prim.Indices != nil && *prim.Indices < len(doc.Accessors) {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	switch prim.Mode {
	case gltf.PrimitiveTriangles:
		for i := 0; i+2 < len(indices); i += 3 {
			sm.Faces = append(sm.Faces, []uint32{indices[i], indices[i+1], indices[i+2]})
		}
	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(indices); i++ {
			if i%2 == 0 {
				sm.Faces = append(sm.Faces, []uint32{indices[i], indices[i+1], indices[i+2]})
			} else {
				sm.Faces = append(sm.Faces, []uint32{indices[i+1], indices[i], indices[i+2]})
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < len(indices); i++ {
			sm.Faces = append(sm.Faces, []uint32{indices[0], indices[i], indices[i+1]})
		}
	default:
		r.log.Debug("gltf primitive mode not drawable as triangles", zap.Int("mode", int(prim.Mode)))
		return nil, nil
	}

	for _, f := range sm.Faces {
		for _, i := range f {
			if int(i) >= len(positions) {
				return nil, fmt.Errorf("index %d out of range (%d vertices)", i, len(positions))
			}
		}
	}
	return sm, nil
}

func toVec3s(in [][3]float32) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func (r *gltfReader) material(m *gltf.Material) *Material {
	mat := newMaterial(m.Name)

	if pbr := m.PBRMetallicRoughness; pbr != nil && pbr.BaseColorTexture != nil {
		r.addTexture(mat, ChannelDiffuse, pbr.BaseColorTexture.Index)
	}
	if m.NormalTexture != nil && m.NormalTexture.Index != nil {
		r.addTexture(mat, ChannelNormals, *m.NormalTexture.Index)
	}
	if m.OcclusionTexture != nil && m.OcclusionTexture.Index != nil {
		r.addTexture(mat, ChannelOcclusion, *m.OcclusionTexture.Index)
	}
	if m.EmissiveTexture != nil {
		r.addTexture(mat, ChannelEmissive, m.EmissiveTexture.Index)
	}
	return mat
}

func (r *gltfReader) addTexture(mat *Material, ch Channel, texIdx int) {
	if texIdx < 0 || texIdx >= len(r.doc.Textures) || r.doc.Textures[texIdx].Source == nil {
		return
	}
	ref, err := r.image(*r.doc.Textures[texIdx].Source)
	if err != nil {
		r.log.Warn("gltf image unavailable",
			zap.String("material", mat.Name), zap.Stringer("channel", ch), zap.Error(err))
		return
	}
	mat.add(ch, ref)
}

// image builds the texture reference for an image. Embedded images get a
// synthetic path of the form "<scene>#image<n>" so the cache can key them.
func (r *gltfReader) image(idx int) (texture.Ref, error) {
	if ref, ok := r.imageRefs[idx]; ok {
		return ref, nil
	}
	if idx < 0 || idx >= len(r.doc.Images) {
		return texture.Ref{}, fmt.Errorf("image index %d out of range", idx)
	}
	img := r.doc.Images[idx]
	embedded := texture.Ref{Path: fmt.Sprintf("%s#image%d", r.path, idx)}

	var ref texture.Ref
	switch {
	case img.BufferView != nil:
		if *img.BufferView >= len(r.doc.BufferViews) {
			return ref, fmt.Errorf("image %d: buffer view out of range", idx)
		}
		data, err := modeler.ReadBufferView(r.doc, r.doc.BufferViews[*img.BufferView])
		if err != nil {
			return ref, fmt.Errorf("image %d: %w", idx, err)
		}
		ref = embedded
		ref.Data = data
	case img.IsEmbeddedResource():
		data, err := img.MarshalData()
		if err != nil {
			return ref, fmt.Errorf("image %d: %w", idx, err)
		}
		ref = embedded
		ref.Data = data
	case img.URI != "":
		uri, err := url.PathUnescape(img.URI)
		if err != nil {
			uri = img.URI
		}
		ref = texture.Ref{Path: filepath.Join(r.dir, filepath.FromSlash(uri))}
	default:
		return ref, fmt.Errorf("image %d has no source", idx)
	}

	r.imageRefs[idx] = ref
	return ref, nil
}
