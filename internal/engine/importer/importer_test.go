package importer

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/gpu/gputest"
	"github.com/Faultbox/meshview/internal/engine/texture"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func writePNG(t *testing.T, dir, name string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
}

func newImporter(flip bool) (*Importer, *gputest.Recorder) {
	rec := gputest.New()
	return New(rec, texture.NewCache(rec), Options{FlipUVs: flip}), rec
}

func marker(x float32) *SourceMesh {
	return &SourceMesh{
		Positions: []mgl32.Vec3{{x, 0, 0}, {x, 1, 0}, {x, 0, 1}},
		Faces:     [][]uint32{{0, 1, 2}},
		Material:  -1,
	}
}

func TestBuildPreOrder(t *testing.T) {
	s := &Scene{
		Meshes: []*SourceMesh{marker(0), marker(1), marker(2), marker(3)},
		Root: &Node{
			Name:   "root",
			Meshes: []int{0, 1},
			Children: []*Node{
				{Name: "empty", Children: []*Node{{Name: "leaf", Meshes: []int{2}}}},
				{Name: "second", Meshes: []int{3}},
			},
		},
	}
	postProcess(s, false)

	im, _ := newImporter(false)
	meshes := im.Build(s)
	if len(meshes) != 4 {
		t.Fatalf("meshes = %d, want 4", len(meshes))
	}
	for i, m := range meshes {
		if got := m.Vertices()[0].Position[0]; got != float32(i) {
			t.Errorf("mesh %d came from source %v", i, got)
		}
	}
}

func TestImportOBJNodesAndMaterials(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "wood.png")
	writePNG(t, dir, "wood_spec.png")
	writePNG(t, dir, "metal.png")
	writeFile(t, dir, "scene.mtl", `
newmtl wood
Kd 1 1 1
map_Kd wood.png
map_Ks wood_spec.png

newmtl metal
map_Kd metal.png
map_Bump -bm 0.5 metal_h.png
`)
	path := writeFile(t, dir, "scene.obj", `
mtllib scene.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl wood
f 1/1/1 2/2/1 3/3/1
usemtl metal
f 1/1/1 3/3/1 4/4/1
o child
usemtl wood
f -4/-4/-1 -3/-3/-1 -2/-2/-1 -1/-1/-1
`)

	im, rec := newImporter(true)
	meshes := im.Import(path)
	if len(meshes) != 3 {
		t.Fatalf("meshes = %d, want 3", len(meshes))
	}

	// root: wood then metal, child: wood (quad split into two triangles)
	wantIdx := []int{3, 3, 6}
	for i, m := range meshes {
		if len(m.Indices()) != wantIdx[i] {
			t.Errorf("mesh %d indices = %d, want %d", i, len(m.Indices()), wantIdx[i])
		}
	}

	wood := meshes[0].Textures()
	if len(wood) != 2 || wood[0].Type != texture.Diffuse || wood[1].Type != texture.Specular {
		t.Fatalf("wood textures = %+v", wood)
	}
	if wood[0].Path != filepath.Join(dir, "wood.png") {
		t.Errorf("diffuse path = %s", wood[0].Path)
	}

	metal := meshes[1].Textures()
	if len(metal) != 2 || metal[1].Type != texture.Height {
		t.Fatalf("metal textures = %+v", metal)
	}
	if !metal[1].Blank() {
		t.Error("missing height map should resolve to a blank texture")
	}

	if meshes[2].Textures()[0] != wood[0] {
		t.Error("child mesh did not share the cached wood texture")
	}
	// wood, wood_spec, metal; the height map failed
	if rec.TextureUploads != 3 {
		t.Errorf("texture uploads = %d, want 3", rec.TextureUploads)
	}
}

func TestImportOBJWithoutUVs(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "plain.obj", `
v 0 0 0
v 1 0 0
v 0 0 -1
f 1 2 3
`)
	im, _ := newImporter(true)
	meshes := im.Import(path)
	if len(meshes) != 1 {
		t.Fatalf("meshes = %d, want 1", len(meshes))
	}

	for i, v := range meshes[0].Vertices() {
		if v.TexCoords != (mgl32.Vec2{}) {
			t.Errorf("vertex %d uv = %v, want zero", i, v.TexCoords)
		}
		if v.Tangent != (mgl32.Vec3{}) || v.Bitangent != (mgl32.Vec3{}) {
			t.Errorf("vertex %d tangent space = %v/%v, want zero", i, v.Tangent, v.Bitangent)
		}
		if !v.Normal.ApproxEqual(mgl32.Vec3{0, 1, 0}) {
			t.Errorf("vertex %d normal = %v, want generated +Y", i, v.Normal)
		}
	}
	if len(meshes[0].Textures()) != 0 {
		t.Errorf("untextured mesh has textures: %+v", meshes[0].Textures())
	}
}

func TestImportOBJFlipUVs(t *testing.T) {
	obj := `
v 0 0 0
v 1 0 0
v 0 1 0
vt 0.5 0.25
f 1/1 2/1 3/1
`
	for _, flip := range []bool{true, false} {
		dir := t.TempDir()
		path := writeFile(t, dir, "uv.obj", obj)
		im, _ := newImporter(flip)
		meshes := im.Import(path)
		if len(meshes) != 1 {
			t.Fatalf("flip=%v: meshes = %d", flip, len(meshes))
		}
		want := float32(0.25)
		if flip {
			want = 0.75
		}
		if got := meshes[0].Vertices()[0].TexCoords[1]; got != want {
			t.Errorf("flip=%v: v = %v, want %v", flip, got, want)
		}
	}
}

func TestImportFailures(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty.obj", "# nothing\nv 0 0 0\n")
	broken := writeFile(t, dir, "broken.obj", "v 0 0 0\nf 1 2 9\n")
	unknown := writeFile(t, dir, "model.fbx", "binary")

	im, rec := newImporter(true)

	tests := []struct {
		name string
		path string
		want error
	}{
		{"missing", filepath.Join(dir, "nope.obj"), os.ErrNotExist},
		{"no geometry", empty, ErrNoRootNode},
		{"bad index", broken, nil},
		{"unknown format", unknown, ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := im.Load(tt.path)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if meshes := im.Import(tt.path); len(meshes) != 0 {
				t.Errorf("Import returned %d meshes", len(meshes))
			}
		})
	}
	if len(rec.Uploads) != 0 {
		t.Errorf("failed imports uploaded %d buffers", len(rec.Uploads))
	}
}

func TestTriangulate(t *testing.T) {
	m := &SourceMesh{Faces: [][]uint32{{0, 1}, {0, 1, 2}, {0, 1, 2, 3, 4}}}
	triangulate(m)

	want := [][]uint32{{0, 1, 2}, {0, 1, 2}, {0, 2, 3}, {0, 3, 4}}
	if len(m.Faces) != len(want) {
		t.Fatalf("faces = %v, want %v", m.Faces, want)
	}
	for i := range want {
		for j := range want[i] {
			if m.Faces[i][j] != want[i][j] {
				t.Errorf("face %d = %v, want %v", i, m.Faces[i], want[i])
				break
			}
		}
	}
}

func TestTangentSpaceOrthonormal(t *testing.T) {
	m := &SourceMesh{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		TexCoords: []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Faces:     [][]uint32{{0, 1, 2, 3}},
	}
	postProcess(&Scene{Meshes: []*SourceMesh{m}}, false)

	for i := range m.Positions {
		n, tan, b := m.Normals[i], m.Tangents[i], m.Bitangents[i]
		if !n.ApproxEqual(mgl32.Vec3{0, 0, 1}) {
			t.Errorf("normal %d = %v", i, n)
		}
		if !tan.ApproxEqual(mgl32.Vec3{1, 0, 0}) {
			t.Errorf("tangent %d = %v, want +X", i, tan)
		}
		if !b.ApproxEqual(mgl32.Vec3{0, 1, 0}) {
			t.Errorf("bitangent %d = %v, want +Y", i, b)
		}
	}
}

func TestChannelPolicy(t *testing.T) {
	want := map[texture.Type]Channel{
		texture.Diffuse:  ChannelDiffuse,
		texture.Specular: ChannelSpecular,
		texture.Normal:   ChannelNormals,
		texture.Height:   ChannelHeight,
	}
	for typ, ch := range want {
		if channelFor[typ] != ch {
			t.Errorf("%v reads %v, want %v", typ, channelFor[typ], ch)
		}
	}
}
