package picking

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestScreenToRayCenter(t *testing.T) {
	eye := mgl32.Vec3{0, 5, 10}
	view := mgl32.LookAtV(eye, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(45), 800.0/600.0, 0.1, 100)

	r := ScreenToRay(400, 300, 800, 600, proj.Mul4(view).Inv())

	want := mgl32.Vec3{0, -5, -10}.Normalize()
	if !r.Direction.ApproxEqualThreshold(want, 1e-3) {
		t.Errorf("direction = %v, want %v", r.Direction, want)
	}
	if d := r.Origin.Sub(eye).Len(); d > 0.2 {
		t.Errorf("origin %v is %v away from the eye", r.Origin, d)
	}
}

func TestIntersectPlaneY(t *testing.T) {
	tests := []struct {
		name string
		ray  Ray
		want mgl32.Vec3
		ok   bool
	}{
		{"down", Ray{mgl32.Vec3{1, 5, 2}, mgl32.Vec3{0, -1, 0}}, mgl32.Vec3{1, 0, 2}, true},
		{"diagonal", Ray{mgl32.Vec3{0, 2, 0}, mgl32.Vec3{1, -1, 0}.Normalize()}, mgl32.Vec3{2, 0, 0}, true},
		{"parallel", Ray{mgl32.Vec3{0, 2, 0}, mgl32.Vec3{1, 0, 0}}, mgl32.Vec3{}, false},
		{"away", Ray{mgl32.Vec3{0, 2, 0}, mgl32.Vec3{0, 1, 0}}, mgl32.Vec3{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.ray.IntersectPlaneY(0)
			if ok != tt.ok || !got.ApproxEqualThreshold(tt.want, 1e-5) {
				t.Errorf("got %v %v, want %v %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestIntersectAABB(t *testing.T) {
	lo, hi := mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}
	tests := []struct {
		name  string
		ray   Ray
		wantT float32
		hit   bool
	}{
		{"front", Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}}, 4, true},
		{"inside", Ray{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}}, 1, true},
		{"miss", Ray{mgl32.Vec3{5, 5, 5}, mgl32.Vec3{0, 0, -1}}, 0, false},
		{"behind", Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectAABB(lo, hi)
			if hit != tt.hit || (hit && got != tt.wantT) {
				t.Errorf("got %v %v, want %v %v", got, hit, tt.wantT, tt.hit)
			}
		})
	}
}

func TestTransformAABB(t *testing.T) {
	m := mgl32.Translate3D(10, 0, 0).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(90))).Mul4(mgl32.Scale3D(2, 2, 2))
	lo, hi := TransformAABB(m, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 3})

	// x spans [0,1] -> z in [-2,0]; z spans [0,3] -> x in [0,6] before translation
	wantLo, wantHi := mgl32.Vec3{10, 0, -2}, mgl32.Vec3{16, 2, 0}
	if !lo.ApproxEqualThreshold(wantLo, 1e-4) || !hi.ApproxEqualThreshold(wantHi, 1e-4) {
		t.Errorf("got [%v, %v], want [%v, %v]", lo, hi, wantLo, wantHi)
	}
}
