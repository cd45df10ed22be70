// Package model positions drawable entities in the world.
package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/gpu"
)

// Renderable is anything the frame driver can place and draw.
type Renderable interface {
	Draw(program gpu.Handle)
	ModelMatrix() mgl32.Mat4
}

// Transform places a model: rotation is Euler angles in degrees, scale is
// per-axis.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// Identity is the transform that leaves a model in its local space.
func Identity() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// ModelMatrix composes translate * rotX * rotY * rotZ * scale. It is
// recomputed on every call.
func (t Transform) ModelMatrix() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	m = m.Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(t.Rotation[0])))
	m = m.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(t.Rotation[1])))
	m = m.Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(t.Rotation[2])))
	return m.Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}
