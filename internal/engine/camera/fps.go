package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// FPS camera defaults.
const (
	Gravity            float32 = -9.81
	JumpImpulse        float32 = 5
	StandHeight        float32 = 1
	DefaultSpeed       float32 = 10
	DefaultSensitivity float32 = 0.1
)

// FPSCamera is a first-person camera with vertical physics. Its state is
// Grounded, Airborne or Flying, implied by the grounded and flying flags.
type FPSCamera struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3

	yaw, pitch       float32
	front, right, up mgl32.Vec3

	Speed       float32
	Sensitivity float32

	grounded bool
	flying   bool
}

var _ Camera = (*FPSCamera)(nil)

// NewFPSCamera creates a grounded camera at position facing yaw/pitch degrees.
func NewFPSCamera(position mgl32.Vec3, yaw, pitch float32) *FPSCamera {
	c := &FPSCamera{
		Position:    position,
		yaw:         yaw,
		pitch:       clampPitch(pitch),
		Speed:       DefaultSpeed,
		Sensitivity: DefaultSensitivity,
		grounded:    true,
	}
	c.updateVectors()
	return c
}

func (c *FPSCamera) updateVectors() {
	c.front = spherical(c.yaw, c.pitch).Normalize()
	c.right, c.up = basis(c.front)
}

// ViewMatrix looks from the position along the front vector.
func (c *FPSCamera) ViewMatrix() mgl32.Mat4 {
	target := c.Position.Add(c.front)
	return mgl32.LookAtV(c.Position, target, c.up)
}

// Eye returns the camera position.
func (c *FPSCamera) Eye() mgl32.Vec3 { return c.Position }

// Yaw returns the yaw angle in degrees.
func (c *FPSCamera) Yaw() float32 { return c.yaw }

// Pitch returns the pitch angle in degrees.
func (c *FPSCamera) Pitch() float32 { return c.pitch }

// Front returns the unit view direction.
func (c *FPSCamera) Front() mgl32.Vec3 { return c.front }

// Right returns the unit right vector.
func (c *FPSCamera) Right() mgl32.Vec3 { return c.right }

// Up returns the unit up vector.
func (c *FPSCamera) Up() mgl32.Vec3 { return c.up }

// Grounded reports whether the camera stands on the floor.
func (c *FPSCamera) Grounded() bool { return c.grounded }

// Flying reports whether gravity is suspended.
func (c *FPSCamera) Flying() bool { return c.flying }

// Look applies mouse deltas to yaw and pitch.
func (c *FPSCamera) Look(dx, dy float32) {
	c.yaw += dx * c.Sensitivity
	c.pitch = clampPitch(c.pitch + dy*c.Sensitivity)
	c.updateVectors()
}

// Move steps the camera in direction for dt seconds. Forward and backward
// follow the full view direction while flying and stay horizontal otherwise.
func (c *FPSCamera) Move(dir Direction, dt float32) {
	forward := c.front
	if !c.flying {
		forward = mgl32.Vec3{c.front[0], 0, c.front[2]}
	}

	var move mgl32.Vec3
	switch dir {
	case Forward:
		move = forward
	case Backward:
		move = forward.Mul(-1)
	case Left:
		move = c.right.Mul(-1)
	case Right:
		move = c.right
	}

	// looking straight up or down leaves no horizontal component
	if move.Len() < 1e-6 {
		return
	}
	c.Position = c.Position.Add(move.Normalize().Mul(c.Speed * dt))
}

// Jump starts a jump when grounded and not flying. Otherwise it is a no-op.
func (c *FPSCamera) Jump() {
	if !c.grounded || c.flying {
		return
	}
	c.Velocity[1] = JumpImpulse
	c.grounded = false
}

// ToggleFly switches flight. Entering flight cancels vertical motion.
func (c *FPSCamera) ToggleFly() {
	c.flying = !c.flying
	if c.flying {
		c.Velocity[1] = 0
		c.grounded = false
	}
}

// Update integrates gravity over dt seconds and clamps to the floor at
// StandHeight. Flying cameras are unaffected.
func (c *FPSCamera) Update(dt float32) {
	if c.flying {
		return
	}
	c.Velocity[1] += Gravity * dt
	c.Position[1] += c.Velocity[1] * dt

	if c.Position[1] <= StandHeight {
		c.Position[1] = StandHeight
		c.Velocity[1] = 0
		c.grounded = true
	}
}
