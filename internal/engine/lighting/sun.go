// Package lighting provides the directional light used to shade the world.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/gpu"
)

// SunDirection converts azimuth/elevation angles in degrees to a unit vector
// pointing towards the light. Azimuth rotates around Y starting at +Z,
// elevation is measured up from the horizon.
func SunDirection(azimuth, elevation float32) mgl32.Vec3 {
	az := float64(mgl32.DegToRad(azimuth))
	el := float64(mgl32.DegToRad(mgl32.Clamp(elevation, -90, 90)))

	return mgl32.Vec3{
		float32(math.Cos(el) * math.Sin(az)),
		float32(math.Sin(el)),
		float32(math.Cos(el) * math.Cos(az)),
	}
}

// Sun is a directional light with an ambient floor.
type Sun struct {
	Direction mgl32.Vec3
	Ambient   float32
}

// NewSun builds a light from angles in degrees.
func NewSun(azimuth, elevation, ambient float32) Sun {
	return Sun{
		Direction: SunDirection(azimuth, elevation),
		Ambient:   mgl32.Clamp(ambient, 0, 1),
	}
}

// Apply uploads the light to program, which must be in use.
func (s Sun) Apply(device gpu.Device, program gpu.Handle) {
	device.SetVec3(program, "lightDir", s.Direction)
	device.SetFloat(program, "ambient", s.Ambient)
}
