package importer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// postProcess prepares a freshly read scene for upload.
func postProcess(s *Scene, flipUVs bool) {
	for _, m := range s.Meshes {
		triangulate(m)
		if len(m.Normals) != len(m.Positions) {
			smoothNormals(m)
		}
		if m.HasTexCoords() {
			if s.BottomLeftUV && flipUVs {
				for i := range m.TexCoords {
					m.TexCoords[i][1] = 1 - m.TexCoords[i][1]
				}
			}
			if len(m.Tangents) != len(m.Positions) {
				tangentSpace(m)
			}
		}
	}
}

// triangulate fans polygons around their first vertex and drops faces with
// fewer than three corners.
func triangulate(m *SourceMesh) {
	out := make([][]uint32, 0, len(m.Faces))
	for _, f := range m.Faces {
		switch {
		case len(f) < 3:
			continue
		case len(f) == 3:
			out = append(out, f)
		default:
			for i := 1; i+1 < len(f); i++ {
				out = append(out, []uint32{f[0], f[i], f[i+1]})
			}
		}
	}
	m.Faces = out
}

// quantize groups positions that are equal within epsilon.
func quantize(p mgl32.Vec3) [3]int32 {
	const epsilon float32 = 0.0001
	return [3]int32{int32(p[0] / epsilon), int32(p[1] / epsilon), int32(p[2] / epsilon)}
}

// smoothNormals accumulates area-weighted face normals at shared positions.
// Split vertices (same position, different UV) end up with the same normal.
func smoothNormals(m *SourceMesh) {
	acc := make(map[[3]int32]mgl32.Vec3)

	for _, f := range m.Faces {
		p0, p1, p2 := m.Positions[f[0]], m.Positions[f[1]], m.Positions[f[2]]
		// unnormalized cross product: length is twice the triangle area
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		for _, i := range f {
			k := quantize(m.Positions[i])
			acc[k] = acc[k].Add(n)
		}
	}

	m.Normals = make([]mgl32.Vec3, len(m.Positions))
	for i, p := range m.Positions {
		n := acc[quantize(p)]
		if n.Len() < 1e-8 {
			m.Normals[i] = mgl32.Vec3{0, 1, 0}
			continue
		}
		m.Normals[i] = n.Normalize()
	}
}

// tangentSpace derives per-vertex tangents and bitangents from UV gradients,
// orthogonalized against the normal.
func tangentSpace(m *SourceMesh) {
	tan := make([]mgl32.Vec3, len(m.Positions))
	bit := make([]mgl32.Vec3, len(m.Positions))

	for _, f := range m.Faces {
		p0, p1, p2 := m.Positions[f[0]], m.Positions[f[1]], m.Positions[f[2]]
		uv0, uv1, uv2 := m.TexCoords[f[0]], m.TexCoords[f[1]], m.TexCoords[f[2]]

		e1, e2 := p1.Sub(p0), p2.Sub(p0)
		d1, d2 := uv1.Sub(uv0), uv2.Sub(uv0)

		det := d1[0]*d2[1] - d2[0]*d1[1]
		if det > -1e-8 && det < 1e-8 {
			continue
		}
		r := 1 / det
		t := e1.Mul(d2[1]).Sub(e2.Mul(d1[1])).Mul(r)
		b := e2.Mul(d1[0]).Sub(e1.Mul(d2[0])).Mul(r)

		for _, i := range f {
			tan[i] = tan[i].Add(t)
			bit[i] = bit[i].Add(b)
		}
	}

	m.Tangents = make([]mgl32.Vec3, len(m.Positions))
	m.Bitangents = make([]mgl32.Vec3, len(m.Positions))
	for i, n := range m.Normals {
		t := tan[i].Sub(n.Mul(n.Dot(tan[i])))
		if t.Len() < 1e-8 {
			t = orthogonal(n)
		}
		t = t.Normalize()

		b := n.Cross(t)
		if b.Dot(bit[i]) < 0 {
			b = b.Mul(-1)
		}
		m.Tangents[i] = t
		m.Bitangents[i] = b
	}
}

// orthogonal returns some unit vector perpendicular to n.
func orthogonal(n mgl32.Vec3) mgl32.Vec3 {
	axis := mgl32.Vec3{1, 0, 0}
	if n[0] > 0.9 || n[0] < -0.9 {
		axis = mgl32.Vec3{0, 1, 0}
	}
	return n.Cross(axis).Normalize()
}
