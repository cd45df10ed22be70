// Package camera provides the first-person and orbit cameras.
package camera

import (
	"fmt"
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Pitch limits in degrees for every camera.
const (
	MinPitch = -89.0
	MaxPitch = 89.0
)

// WorldUp is the fixed up reference for orientation vectors.
var WorldUp = mgl32.Vec3{0, 1, 0}

// Camera supplies the view transform for a frame.
type Camera interface {
	ViewMatrix() mgl32.Mat4
	Eye() mgl32.Vec3
}

// Direction is a horizontal movement direction.
type Direction int

// Movement directions.
const (
	Forward Direction = iota
	Backward
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

func clampPitch(p float32) float32 {
	return mgl32.Clamp(p, MinPitch, MaxPitch)
}

// spherical converts yaw/pitch in degrees to a unit direction.
func spherical(yaw, pitch float32) mgl32.Vec3 {
	y := float64(mgl32.DegToRad(yaw))
	p := float64(mgl32.DegToRad(pitch))
	return mgl32.Vec3{
		float32(gomath.Cos(y) * gomath.Cos(p)),
		float32(gomath.Sin(p)),
		float32(gomath.Sin(y) * gomath.Cos(p)),
	}
}

// basis derives right and up from a front vector and WorldUp.
func basis(front mgl32.Vec3) (right, up mgl32.Vec3) {
	right = front.Cross(WorldUp).Normalize()
	up = right.Cross(front).Normalize()
	return right, up
}
