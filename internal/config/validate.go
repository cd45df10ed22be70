package config

import (
	"fmt"

	"go.uber.org/multierr"
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error

	g := c.Graphics
	if g.Width <= 0 || g.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("graphics: window size %dx%d must be positive", g.Width, g.Height))
	}
	if g.FOV <= 0 || g.FOV >= 180 {
		err = multierr.Append(err, fmt.Errorf("graphics: fov %.1f must be in (0, 180)", g.FOV))
	}
	if g.Near <= 0 || g.Near >= g.Far {
		err = multierr.Append(err, fmt.Errorf("graphics: near %.3f must be positive and below far %.3f", g.Near, g.Far))
	}
	if g.MaxTextureSize < 0 {
		err = multierr.Append(err, fmt.Errorf("graphics: max_texture_size %d must not be negative", g.MaxTextureSize))
	}

	for i, s := range c.Scene.Scale {
		if s == 0 {
			err = multierr.Append(err, fmt.Errorf("scene: scale component %d is zero", i))
		}
	}

	if l := c.Light; l.Elevation < -90 || l.Elevation > 90 || l.Ambient < 0 || l.Ambient > 1 {
		err = multierr.Append(err, fmt.Errorf("light: elevation %.1f must be in [-90, 90] and ambient %.2f in [0, 1]", l.Elevation, l.Ambient))
	}

	cam := c.Camera
	if cam.Mode != CameraOrbit && cam.Mode != CameraFPS {
		err = multierr.Append(err, fmt.Errorf("camera: unknown mode %q (want %q or %q)", cam.Mode, CameraOrbit, CameraFPS))
	}
	if cam.MouseSensitivity <= 0 {
		err = multierr.Append(err, fmt.Errorf("camera: mouse_sensitivity %.3f must be positive", cam.MouseSensitivity))
	}
	if cam.MoveSpeed <= 0 {
		err = multierr.Append(err, fmt.Errorf("camera: move_speed %.3f must be positive", cam.MoveSpeed))
	}
	if cam.Orbit.Radius < 1 || cam.Orbit.Radius > 100 {
		err = multierr.Append(err, fmt.Errorf("camera: orbit radius %.2f must be in [1, 100]", cam.Orbit.Radius))
	}

	if c.Grid.Enabled && (c.Grid.Spacing <= 0 || c.Grid.HalfExtent <= 0) {
		err = multierr.Append(err, fmt.Errorf("grid: spacing %.2f and half_extent %.2f must be positive", c.Grid.Spacing, c.Grid.HalfExtent))
	}

	return err
}
