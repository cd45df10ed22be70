package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Orbit radius limits.
const (
	MinRadius = 1.0
	MaxRadius = 100.0
)

// OrbitCamera circles a target point at a fixed radius.
type OrbitCamera struct {
	target     mgl32.Vec3
	radius     float32
	yaw, pitch float32

	position         mgl32.Vec3
	front, right, up mgl32.Vec3

	Sensitivity float32
	PanSpeed    float32
}

var _ Camera = (*OrbitCamera)(nil)

// NewOrbitCamera creates an orbit camera; radius and pitch are clamped.
func NewOrbitCamera(target mgl32.Vec3, radius, yaw, pitch float32) *OrbitCamera {
	c := &OrbitCamera{
		target:      target,
		radius:      mgl32.Clamp(radius, MinRadius, MaxRadius),
		yaw:         yaw,
		pitch:       clampPitch(pitch),
		Sensitivity: DefaultSensitivity,
		PanSpeed:    0.01,
	}
	c.update()
	return c
}

// update places the camera on the sphere and rebuilds its basis.
func (c *OrbitCamera) update() {
	c.position = c.target.Add(spherical(c.yaw, c.pitch).Mul(c.radius))
	c.front = c.target.Sub(c.position).Normalize()
	c.right, c.up = basis(c.front)
}

// ViewMatrix looks from the orbit position at the target.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.target, c.up)
}

// Eye returns the camera position.
func (c *OrbitCamera) Eye() mgl32.Vec3 { return c.position }

// Target returns the orbit center.
func (c *OrbitCamera) Target() mgl32.Vec3 { return c.target }

// Radius returns the distance to the target.
func (c *OrbitCamera) Radius() float32 { return c.radius }

// Yaw returns the yaw angle in degrees.
func (c *OrbitCamera) Yaw() float32 { return c.yaw }

// Pitch returns the pitch angle in degrees.
func (c *OrbitCamera) Pitch() float32 { return c.pitch }

// Front returns the unit vector toward the target.
func (c *OrbitCamera) Front() mgl32.Vec3 { return c.front }

// Right returns the unit right vector.
func (c *OrbitCamera) Right() mgl32.Vec3 { return c.right }

// Up returns the unit up vector.
func (c *OrbitCamera) Up() mgl32.Vec3 { return c.up }

// Drag applies mouse deltas to yaw and pitch.
func (c *OrbitCamera) Drag(dx, dy float32) {
	c.yaw += dx * c.Sensitivity
	c.pitch = clampPitch(c.pitch + dy*c.Sensitivity)
	c.update()
}

// Zoom moves toward the target by delta (wheel units).
func (c *OrbitCamera) Zoom(delta float32) {
	c.radius = mgl32.Clamp(c.radius-delta, MinRadius, MaxRadius)
	c.update()
}

// SetTarget moves the orbit center.
func (c *OrbitCamera) SetTarget(target mgl32.Vec3) {
	c.target = target
	c.update()
}

// Set replaces the whole orbit state; radius and pitch are clamped.
func (c *OrbitCamera) Set(target mgl32.Vec3, radius, yaw, pitch float32) {
	c.target = target
	c.radius = mgl32.Clamp(radius, MinRadius, MaxRadius)
	c.yaw = yaw
	c.pitch = clampPitch(pitch)
	c.update()
}

// Pan moves the target along the camera's horizontal forward and right axes
// and world up. Speed scales with radius.
func (c *OrbitCamera) Pan(forward, right, up float32) {
	speed := c.radius * c.PanSpeed

	fwd := mgl32.Vec3{c.front[0], 0, c.front[2]}
	if fwd.Len() > 1e-6 {
		fwd = fwd.Normalize()
	}
	side := mgl32.Vec3{c.right[0], 0, c.right[2]}
	if side.Len() > 1e-6 {
		side = side.Normalize()
	}

	delta := fwd.Mul(forward).Add(side.Mul(right)).Add(WorldUp.Mul(up))
	c.target = c.target.Add(delta.Mul(speed))
	c.update()
}

// FitBounds centers the target on a box and backs off far enough to see it.
func (c *OrbitCamera) FitBounds(lo, hi mgl32.Vec3) {
	c.target = lo.Add(hi).Mul(0.5)

	extent := hi.Sub(lo).Len()
	c.radius = mgl32.Clamp(extent*1.5, MinRadius, MaxRadius)
	c.update()
}
