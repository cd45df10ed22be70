// Package viewer implements the frame loop: input, camera update, render and
// present.
package viewer

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/camera"
	"github.com/Faultbox/meshview/internal/engine/debug"
	"github.com/Faultbox/meshview/internal/engine/gpu"
	"github.com/Faultbox/meshview/internal/engine/input"
	"github.com/Faultbox/meshview/internal/engine/lighting"
	"github.com/Faultbox/meshview/internal/engine/model"
	"github.com/Faultbox/meshview/internal/logger"
)

// Surface is the window the viewer presents to.
type Surface interface {
	Poll(in *input.Input)
	SwapBuffers()
	GetDrawableSize() (int, int)
	SetRelativeMouse(enabled bool)
	SetTitle(title string)
}

// Programs holds the compiled shader programs.
type Programs struct {
	Grid   gpu.Handle
	Origin gpu.Handle
	World  gpu.Handle
}

// Mode selects the active camera.
type Mode int

const (
	ModeOrbit Mode = iota
	ModeFPS
)

func (m Mode) String() string {
	if m == ModeFPS {
		return config.CameraFPS
	}
	return config.CameraOrbit
}

// App is the viewer state. It owns the world and the GPU objects it creates.
type App struct {
	cfg      *config.Config
	surface  Surface
	device   gpu.Device
	programs Programs
	input    *input.Input
	log      *zap.Logger

	world  *model.World
	grid   *debug.Grid
	origin *debug.Marker
	bounds *debug.Wireframe
	white  gpu.Handle
	sun    lighting.Sun

	orbit *camera.OrbitCamera
	fps   *camera.FPSCamera
	mode  Mode

	screenshots *debug.ScreenshotCapture
	showBounds  bool

	width, height int
	running       bool

	// Clock returns seconds on a monotonic timeline.
	Clock func() float64
}

// New builds the viewer around an already imported world.
func New(cfg *config.Config, surface Surface, device gpu.Device, programs Programs, world *model.World) *App {
	a := &App{
		cfg:         cfg,
		surface:     surface,
		device:      device,
		programs:    programs,
		input:       input.New(),
		log:         logger.Named("viewer"),
		world:       world,
		origin:      debug.NewMarker(device, 0, 0, 0),
		white:       device.CreateTexture2D(whitePixel()),
		sun:         lighting.NewSun(cfg.Light.Azimuth, cfg.Light.Elevation, cfg.Light.Ambient),
		screenshots: debug.NewScreenshotCapture(cfg.Debug.ScreenshotDir, "meshview"),
	}

	world.SetFallback(device, a.white)

	if cfg.Grid.Enabled {
		a.grid = debug.NewGrid(device, cfg.Grid.HalfExtent, cfg.Grid.Spacing)
	}
	if !world.Empty() {
		b := world.Bounds()
		a.bounds = debug.NewWireframe(device, b.Min, b.Max, 0)
	}

	o := cfg.Camera.Orbit
	a.orbit = camera.NewOrbitCamera(mgl32.Vec3(o.Target), o.Radius, o.Yaw, o.Pitch)
	a.orbit.Sensitivity = cfg.Camera.MouseSensitivity

	f := cfg.Camera.FPS
	a.fps = camera.NewFPSCamera(mgl32.Vec3(f.Position), f.Yaw, f.Pitch)
	a.fps.Sensitivity = cfg.Camera.MouseSensitivity
	a.fps.Speed = cfg.Camera.MoveSpeed

	if cfg.Camera.Mode == config.CameraFPS {
		a.mode = ModeFPS
	}

	a.width, a.height = surface.GetDrawableSize()
	device.Viewport(a.width, a.height)
	surface.SetRelativeMouse(true)
	surface.SetTitle(a.title())

	return a
}

func whitePixel() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)
	return img
}

// Run drives frames until a quit is requested.
func (a *App) Run() error {
	if a.Clock == nil {
		return fmt.Errorf("viewer: no clock configured")
	}

	a.running = true
	last := a.Clock()
	frames, fpsTimer := 0, last

	a.log.Info("starting frame loop", zap.String("camera", a.mode.String()))

	for a.running {
		now := a.Clock()
		dt := float32(now - last)
		last = now

		a.Frame(dt)

		frames++
		if now-fpsTimer >= 1 {
			a.log.Debug("fps", zap.Int("count", frames), zap.Float32("dt_ms", dt*1000))
			frames, fpsTimer = 0, now
		}
	}
	return nil
}

// Frame runs one iteration: poll, apply input, step physics, render, present.
func (a *App) Frame(dt float32) {
	a.surface.Poll(a.input)
	a.handleInput(dt)
	if !a.running {
		return
	}
	a.fps.Update(dt)
	a.render()
	a.surface.SwapBuffers()
}

// Running reports whether the loop continues.
func (a *App) Running() bool { return a.running }

// Mode returns the active camera mode.
func (a *App) Mode() Mode { return a.mode }

// Camera returns the active camera.
func (a *App) Camera() camera.Camera {
	if a.mode == ModeFPS {
		return a.fps
	}
	return a.orbit
}

// Orbit returns the orbit camera.
func (a *App) Orbit() *camera.OrbitCamera { return a.orbit }

// FPS returns the first-person camera.
func (a *App) FPS() *camera.FPSCamera { return a.fps }

// Projection returns the perspective matrix for the current drawable size.
func (a *App) Projection() mgl32.Mat4 {
	g := a.cfg.Graphics
	aspect := float32(1)
	if a.height > 0 {
		aspect = float32(a.width) / float32(a.height)
	}
	return mgl32.Perspective(mgl32.DegToRad(g.FOV), aspect, g.Near, g.Far)
}

func (a *App) title() string {
	name := "empty"
	if p := a.world.Path(); p != "" {
		name = filepath.Base(p)
	}
	return fmt.Sprintf("meshview - %s [%s]", name, a.mode)
}

// Close releases everything the viewer owns, the world included.
func (a *App) Close() {
	a.log.Info("closing viewer")

	a.surface.SetRelativeMouse(false)
	if a.bounds != nil {
		a.bounds.Release()
	}
	if a.grid != nil {
		a.grid.Release()
	}
	a.origin.Release()
	a.device.DeleteTexture(a.white)
	a.white = 0
	a.world.Release()

	for _, p := range []gpu.Handle{a.programs.Grid, a.programs.Origin, a.programs.World} {
		if p != 0 {
			a.device.DeleteProgram(p)
		}
	}
	a.programs = Programs{}
}
