// Package main is the entry point for the meshview scene viewer.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/gpu"
	"github.com/Faultbox/meshview/internal/engine/importer"
	"github.com/Faultbox/meshview/internal/engine/model"
	"github.com/Faultbox/meshview/internal/engine/shader"
	"github.com/Faultbox/meshview/internal/engine/texture"
	"github.com/Faultbox/meshview/internal/engine/window"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if path := config.SavePath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			logger.Error("saving config", zap.String("path", path), zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config written", zap.String("path", path))
		return
	}

	logger.Info("=== meshview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

func run(cfg *config.Config) error {
	if cfg.Scene.ModelPath == "" {
		cfg.Scene.ModelPath = pickModel()
	}

	win, err := window.New(window.Config{
		Title:      "meshview",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer win.Close()

	// GL entry points need the context the window just created
	device, err := gpu.NewGL()
	if err != nil {
		return err
	}

	programs, err := buildPrograms(device, cfg.Shaders.Dir)
	if err != nil {
		return err
	}

	cache := texture.NewCache(device, texture.WithMaxSize(cfg.Graphics.MaxTextureSize))
	imp := importer.New(device, cache, importer.Options{FlipUVs: cfg.Scene.FlipUVs})

	world := model.NewWorld(imp, cfg.Scene.ModelPath, model.Transform{
		Position: mgl32.Vec3(cfg.Scene.Position),
		Rotation: mgl32.Vec3(cfg.Scene.Rotation),
		Scale:    mgl32.Vec3(cfg.Scene.Scale),
	})
	logger.Info("scene ready",
		zap.String("path", cfg.Scene.ModelPath),
		zap.Int("meshes", len(world.Meshes())),
		zap.Int("textures", cache.Len()),
	)

	app := viewer.New(cfg, win, device, programs, world)
	app.Clock = window.Seconds
	defer app.Close()

	return app.Run()
}

func buildPrograms(device gpu.Device, dir string) (viewer.Programs, error) {
	var p viewer.Programs
	targets := []struct {
		name string
		dst  *gpu.Handle
	}{
		{shader.Grid, &p.Grid},
		{shader.Origin, &p.Origin},
		{shader.World, &p.World},
	}

	for _, t := range targets {
		h, err := shader.Build(t.name, dir)
		if err != nil {
			for _, built := range targets {
				if *built.dst != 0 {
					device.DeleteProgram(*built.dst)
				}
			}
			return viewer.Programs{}, err
		}
		*t.dst = h
	}
	return p, nil
}

// pickModel asks for a scene file. Cancelling returns "" and the viewer
// starts with an empty world.
func pickModel() string {
	filename, err := dialog.File().
		Filter("3D scenes", importer.Extensions()...).
		Filter("All Files", "*").
		Title("Open scene").
		Load()
	if err != nil {
		if !errors.Is(err, dialog.ErrCancelled) {
			logger.Warn("file dialog failed", zap.Error(err))
		}
		return ""
	}
	return filename
}
