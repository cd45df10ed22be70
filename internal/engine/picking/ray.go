// Package picking provides ray casting against the ground plane and bounding
// boxes.
package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // normalized
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// ScreenToRay converts pixel coordinates to a world-space ray.
// invViewProj is the inverse of projection * view.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // flip Y

	near := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, 1, 1})

	dir := far.Sub(near)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: near, Direction: dir}
}

func unproject(inv mgl32.Mat4, ndc mgl32.Vec4) mgl32.Vec3 {
	p := inv.Mul4x1(ndc)
	if p[3] != 0 {
		return p.Vec3().Mul(1 / p[3])
	}
	return p.Vec3()
}

// IntersectPlaneY intersects the ray with the horizontal plane y = planeY.
func (r Ray) IntersectPlaneY(planeY float32) (mgl32.Vec3, bool) {
	if math.Abs(float64(r.Direction[1])) < 0.001 {
		return mgl32.Vec3{}, false // parallel
	}

	t := (planeY - r.Origin[1]) / r.Direction[1]
	if t < 0 {
		return mgl32.Vec3{}, false // behind the origin
	}
	return r.At(t), true
}

// IntersectAABB tests the ray against the box [lo, hi] with the slab method.
// It returns the entry distance, or the exit distance when the ray starts
// inside the box.
func (r Ray) IntersectAABB(lo, hi mgl32.Vec3) (t float32, hit bool) {
	tmin := float32(-math.MaxFloat32)
	tmax := float32(math.MaxFloat32)

	for a := 0; a < 3; a++ {
		if r.Direction[a] == 0 {
			if r.Origin[a] < lo[a] || r.Origin[a] > hi[a] {
				return 0, false
			}
			continue
		}
		t1 := (lo[a] - r.Origin[a]) / r.Direction[a]
		t2 := (hi[a] - r.Origin[a]) / r.Direction[a]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// TransformAABB returns the world-space box enclosing the local box [lo, hi]
// under m. All eight corners are transformed so rotation is handled.
func TransformAABB(m mgl32.Mat4, lo, hi mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	var wlo, whi mgl32.Vec3
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{lo[0], lo[1], lo[2]}
		if i&1 != 0 {
			corner[0] = hi[0]
		}
		if i&2 != 0 {
			corner[1] = hi[1]
		}
		if i&4 != 0 {
			corner[2] = hi[2]
		}
		p := m.Mul4x1(corner.Vec4(1)).Vec3()
		if i == 0 {
			wlo, whi = p, p
			continue
		}
		for a := 0; a < 3; a++ {
			wlo[a] = min(wlo[a], p[a])
			whi[a] = max(whi[a], p[a])
		}
	}
	return wlo, whi
}
