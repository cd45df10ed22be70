package viewer

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/camera"
	"github.com/Faultbox/meshview/internal/engine/gpu"
	"github.com/Faultbox/meshview/internal/engine/input"
	"github.com/Faultbox/meshview/internal/engine/picking"
)

var moveKeys = []struct {
	key input.Key
	dir camera.Direction
}{
	{input.KeyW, camera.Forward},
	{input.KeyS, camera.Backward},
	{input.KeyA, camera.Left},
	{input.KeyD, camera.Right},
}

func (a *App) handleInput(dt float32) {
	in := a.input

	if in.QuitRequested() || in.IsKeyPressed(input.KeyEscape) {
		a.running = false
		return
	}

	if w, h, ok := in.Resized(); ok && w > 0 && h > 0 {
		a.width, a.height = w, h
		a.device.Viewport(w, h)
	}

	if in.IsKeyPressed(input.KeyC) {
		a.toggleMode()
	}
	if in.IsKeyPressed(input.KeyB) {
		a.showBounds = !a.showBounds
	}
	if in.IsKeyPressed(input.KeyR) {
		a.resetOrbit()
	}
	if in.IsKeyPressed(input.KeyF12) {
		a.screenshot()
	}

	if in.IsButtonPressed(input.ButtonMiddle) {
		a.focus()
	}

	// screen Y grows downward
	dx, dy := in.MouseDelta()
	dy = -dy

	switch a.mode {
	case ModeOrbit:
		if dx != 0 || dy != 0 {
			a.orbit.Drag(dx, dy)
		}
		if w := in.Wheel(); w != 0 {
			a.orbit.Zoom(w)
		}
	case ModeFPS:
		if dx != 0 || dy != 0 {
			a.fps.Look(dx, dy)
		}
		if in.IsKeyPressed(input.KeyF) {
			a.fps.ToggleFly()
		}
		if in.IsKeyHeld(input.KeySpace) {
			a.fps.Jump()
		}
		for _, m := range moveKeys {
			if in.IsKeyHeld(m.key) {
				a.fps.Move(m.dir, dt)
			}
		}
	}
}

func (a *App) toggleMode() {
	if a.mode == ModeOrbit {
		a.mode = ModeFPS
	} else {
		a.mode = ModeOrbit
	}
	a.surface.SetTitle(a.title())
	a.log.Debug("camera mode", zap.Stringer("mode", a.mode))
}

// worldBounds returns the world-space box around the model.
func (a *App) worldBounds() (lo, hi mgl32.Vec3, ok bool) {
	if a.world.Empty() {
		return lo, hi, false
	}
	b := a.world.Bounds()
	lo, hi = picking.TransformAABB(a.world.ModelMatrix(), b.Min, b.Max)
	return lo, hi, true
}

// resetOrbit frames the world when it has geometry, else restores the
// configured pose.
func (a *App) resetOrbit() {
	if lo, hi, ok := a.worldBounds(); ok {
		a.orbit.FitBounds(lo, hi)
		return
	}
	o := a.cfg.Camera.Orbit
	a.orbit.Set(mgl32.Vec3(o.Target), o.Radius, o.Yaw, o.Pitch)
}

// focus moves the orbit target to what lies under the view center: the
// model's box if the ray hits it, else the ground plane.
func (a *App) focus() {
	inv := a.Projection().Mul4(a.Camera().ViewMatrix()).Inv()
	ray := picking.ScreenToRay(float32(a.width)/2, float32(a.height)/2, float32(a.width), float32(a.height), inv)

	if lo, hi, ok := a.worldBounds(); ok {
		if t, hit := ray.IntersectAABB(lo, hi); hit {
			a.orbit.SetTarget(ray.At(t))
			return
		}
	}
	if p, ok := ray.IntersectPlaneY(0); ok {
		a.orbit.SetTarget(p)
	}
}

func (a *App) screenshot() {
	name, err := a.screenshots.Capture(a.device, a.width, a.height)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", name))
}

func (a *App) setMatrices(program gpu.Handle, modelM, view, projection mgl32.Mat4) {
	a.device.UseProgram(program)
	a.device.SetMat4(program, "model", modelM)
	a.device.SetMat4(program, "view", view)
	a.device.SetMat4(program, "projection", projection)
}

func (a *App) render() {
	c := a.cfg.Graphics.ClearColor
	a.device.Clear(c[0], c[1], c[2])

	view := a.Camera().ViewMatrix()
	projection := a.Projection()
	ident := mgl32.Ident4()

	if a.grid != nil {
		a.setMatrices(a.programs.Grid, ident, view, projection)
		a.grid.Draw(a.programs.Grid)
	}

	a.setMatrices(a.programs.Origin, ident, view, projection)
	a.origin.Draw()

	worldM := a.world.ModelMatrix()
	a.setMatrices(a.programs.World, worldM, view, projection)
	a.sun.Apply(a.device, a.programs.World)
	a.world.Draw(a.programs.World)

	if a.showBounds && a.bounds != nil {
		a.setMatrices(a.programs.Origin, worldM, view, projection)
		a.bounds.Draw()
	}
}
