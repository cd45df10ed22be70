package importer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/texture"
	"github.com/Faultbox/meshview/internal/logger"
)

// objCorner is one face corner: 0-based indices, -1 when absent.
type objCorner struct{ v, vt, vn int }

// objMesh accumulates one usemtl run, deduplicating corners into vertices.
type objMesh struct {
	name     string
	material string
	corners  map[objCorner]uint32
	order    []objCorner
	faces    [][]uint32
}

func newObjMesh(name, material string) *objMesh {
	return &objMesh{name: name, material: material, corners: make(map[objCorner]uint32)}
}

type objNode struct {
	name   string
	meshes []*objMesh
}

func (n *objNode) current() *objMesh {
	return n.meshes[len(n.meshes)-1]
}

// objReader holds parse state for one OBJ file.
type objReader struct {
	dir string

	positions []mgl32.Vec3
	texCoords []mgl32.Vec2
	normals   []mgl32.Vec3

	root     *objNode
	groups   []*objNode
	node     *objNode
	material string

	materials map[string]*Material
	matOrder  []string
}

func readOBJ(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	r := &objReader{
		dir:       filepath.Dir(path),
		root:      &objNode{name: name, meshes: []*objMesh{newObjMesh(name, "")}},
		materials: make(map[string]*Material),
	}
	r.node = r.root

	if err := r.parse(f); err != nil {
		return nil, fmt.Errorf("obj %s: %w", filepath.Base(path), err)
	}
	return r.scene(), nil
}

func (r *objReader) parse(src io.Reader) error {
	s := bufio.NewScanner(src)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0

	for s.Scan() {
		line++
		fields := strings.Fields(s.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			var p mgl32.Vec3
			p, err = parseVec3(fields[1:])
			r.positions = append(r.positions, p)
		case "vn":
			var n mgl32.Vec3
			n, err = parseVec3(fields[1:])
			r.normals = append(r.normals, n)
		case "vt":
			var uv mgl32.Vec2
			uv, err = parseVec2(fields[1:])
			r.texCoords = append(r.texCoords, uv)
		case "f":
			err = r.face(fields[1:])
		case "o", "g":
			r.group(strings.Join(fields[1:], " "))
		case "usemtl":
			r.useMaterial(strings.Join(fields[1:], " "))
		case "mtllib":
			for _, lib := range fields[1:] {
				r.loadMaterials(filepath.Join(r.dir, lib))
			}
		}
		// s, l, p and other statements are ignored
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return s.Err()
}

func (r *objReader) group(name string) {
	if name == "" {
		name = "default"
	}
	n := &objNode{name: name, meshes: []*objMesh{newObjMesh(name, r.material)}}
	r.groups = append(r.groups, n)
	r.node = n
}

func (r *objReader) useMaterial(name string) {
	cur := r.node.current()
	if len(cur.faces) == 0 {
		cur.material = name
	} else {
		r.node.meshes = append(r.node.meshes, newObjMesh(r.node.name, name))
	}
	r.material = name
}

func (r *objReader) face(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face needs at least 3 vertices, got %d", len(fields))
	}
	m := r.node.current()
	face := make([]uint32, 0, len(fields))

	for _, f := range fields {
		c, err := r.corner(f)
		if err != nil {
			return err
		}
		idx, ok := m.corners[c]
		if !ok {
			idx = uint32(len(m.order))
			m.corners[c] = idx
			m.order = append(m.order, c)
		}
		face = append(face, idx)
	}
	m.faces = append(m.faces, face)
	return nil
}

// corner parses v, v/vt, v//vn or v/vt/vn with 1-based or negative indices.
func (r *objReader) corner(s string) (objCorner, error) {
	parts := strings.Split(s, "/")
	c := objCorner{v: -1, vt: -1, vn: -1}

	var err error
	if c.v, err = resolveIndex(parts[0], len(r.positions)); err != nil {
		return c, fmt.Errorf("vertex %q: %w", s, err)
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.vt, err = resolveIndex(parts[1], len(r.texCoords)); err != nil {
			return c, fmt.Errorf("texcoord %q: %w", s, err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.vn, err = resolveIndex(parts[2], len(r.normals)); err != nil {
			return c, fmt.Errorf("normal %q: %w", s, err)
		}
	}
	return c, nil
}

func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	}
	return 0, fmt.Errorf("index %d out of range (%d defined)", i, n)
}

func parseVec3(fields []string) (mgl32.Vec3, error) {
	var v mgl32.Vec3
	if len(fields) < 3 {
		return v, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return v, err
		}
		v[i] = float32(f)
	}
	return v, nil
}

func parseVec2(fields []string) (mgl32.Vec2, error) {
	var v mgl32.Vec2
	if len(fields) < 1 {
		return v, fmt.Errorf("expected at least 1 component")
	}
	for i := 0; i < 2 && i < len(fields); i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return v, err
		}
		v[i] = float32(f)
	}
	return v, nil
}

// scene converts the parse state into a Scene. Returns a scene with a nil
// root when the file defined no faces.
func (r *objReader) scene() *Scene {
	s := &Scene{Dir: r.dir, BottomLeftUV: true}

	matIndex := make(map[string]int, len(r.matOrder))
	for _, name := range r.matOrder {
		matIndex[name] = len(s.Materials)
		s.Materials = append(s.Materials, r.materials[name])
	}

	faces := 0
	convert := func(n *objNode) *Node {
		node := &Node{Name: n.name}
		for _, m := range n.meshes {
			if len(m.faces) == 0 {
				continue
			}
			faces += len(m.faces)
			node.Meshes = append(node.Meshes, len(s.Meshes))
			s.Meshes = append(s.Meshes, r.sourceMesh(m, matIndex))
		}
		return node
	}

	root := convert(r.root)
	for _, g := range r.groups {
		root.Children = append(root.Children, convert(g))
	}
	if faces > 0 {
		s.Root = root
	}
	return s
}

func (r *objReader) sourceMesh(m *objMesh, matIndex map[string]int) *SourceMesh {
	sm := &SourceMesh{
		Name:      m.name,
		Positions: make([]mgl32.Vec3, len(m.order)),
		Faces:     m.faces,
		Material:  -1,
	}

	if m.material != "" {
		if i, ok := matIndex[m.material]; ok {
			sm.Material = i
		} else {
			logger.Named("importer").Warn("obj material not defined",
				zap.String("material", m.material), zap.String("mesh", m.name))
		}
	}

	hasUV, allNormals := false, true
	for _, c := range m.order {
		hasUV = hasUV || c.vt >= 0
		allNormals = allNormals && c.vn >= 0
	}
	if hasUV {
		sm.TexCoords = make([]mgl32.Vec2, len(m.order))
	}
	if allNormals {
		sm.Normals = make([]mgl32.Vec3, len(m.order))
	}

	for i, c := range m.order {
		sm.Positions[i] = r.positions[c.v]
		if hasUV && c.vt >= 0 {
			sm.TexCoords[i] = r.texCoords[c.vt]
		}
		if allNormals {
			sm.Normals[i] = r.normals[c.vn]
		}
	}
	return sm
}

// loadMaterials reads an MTL library. A missing or unreadable library is
// logged; faces referring to its materials render untextured.
func (r *objReader) loadMaterials(path string) {
	log := logger.Named("importer")

	f, err := os.Open(path)
	if err != nil {
		log.Warn("mtl library unavailable", zap.String("path", path), zap.Error(err))
		return
	}
	defer f.Close()

	dir := filepath.Dir(path)
	var cur *Material

	s := bufio.NewScanner(f)
	for s.Scan() {
		fields := strings.Fields(s.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		if fields[0] == "newmtl" {
			name := strings.Join(fields[1:], " ")
			cur = newMaterial(name)
			if _, dup := r.materials[name]; !dup {
				r.matOrder = append(r.matOrder, name)
			}
			r.materials[name] = cur
			continue
		}
		if cur == nil || len(fields) < 2 {
			continue
		}

		ch, ok := mtlChannels[strings.ToLower(fields[0])]
		if !ok {
			continue
		}
		// map statements may carry options (-bm 0.5, -o u v w); the file
		// name comes last
		file := filepath.FromSlash(strings.ReplaceAll(fields[len(fields)-1], `\`, "/"))
		cur.add(ch, texture.Ref{Path: filepath.Join(dir, file)})
	}
	if err := s.Err(); err != nil {
		log.Warn("mtl library read failed", zap.String("path", path), zap.Error(err))
	}
}

var mtlChannels = map[string]Channel{
	"map_kd":   ChannelDiffuse,
	"map_ks":   ChannelSpecular,
	"map_ka":   ChannelAmbient,
	"map_ke":   ChannelEmissive,
	"norm":     ChannelNormals,
	"map_kn":   ChannelNormals,
	"map_bump": ChannelHeight,
	"bump":     ChannelHeight,
	"disp":     ChannelHeight,
}
