package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/multierr"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1200 || cfg.Graphics.Height != 768 {
		t.Errorf("expected 1200x768, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Graphics.FOV != 45 {
		t.Errorf("expected fov 45, got %f", cfg.Graphics.FOV)
	}
	if cfg.Graphics.Near != 0.1 || cfg.Graphics.Far != 100 {
		t.Errorf("expected near/far 0.1/100, got %f/%f", cfg.Graphics.Near, cfg.Graphics.Far)
	}
	if cfg.Scene.Position != [3]float32{0, 1, 0} {
		t.Errorf("expected model position (0,1,0), got %v", cfg.Scene.Position)
	}
	if cfg.Scene.Scale != [3]float32{1, 1, 1} {
		t.Errorf("expected unit scale, got %v", cfg.Scene.Scale)
	}
	if cfg.Camera.Mode != CameraOrbit {
		t.Errorf("expected orbit camera by default, got %s", cfg.Camera.Mode)
	}
	if cfg.Camera.Orbit.Radius != 15 || cfg.Camera.Orbit.Yaw != -45 || cfg.Camera.Orbit.Pitch != 20 {
		t.Errorf("unexpected orbit pose %+v", cfg.Camera.Orbit)
	}
	if cfg.Camera.FPS.Position != [3]float32{0, 1, 3} || cfg.Camera.FPS.Yaw != -90 {
		t.Errorf("unexpected fps pose %+v", cfg.Camera.FPS)
	}
	if cfg.Grid.Spacing != 10 {
		t.Errorf("expected grid spacing 10, got %f", cfg.Grid.Spacing)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "meshview.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  vsync: false
  fov: 60
  clear_color: [0.2, 0.3, 0.4]

scene:
  model_path: "assets/mountain.obj"
  position: [1, 2, 3]
  rotation: [0, 90, 0]
  scale: [2, 2, 2]
  flip_uvs: false

camera:
  mode: fps
  move_speed: 4
  orbit:
    radius: 30

logging:
  level: "debug"
  log_file: "viewer.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Graphics.ClearColor != [3]float32{0.2, 0.3, 0.4} {
		t.Errorf("unexpected clear color %v", cfg.Graphics.ClearColor)
	}
	if cfg.Scene.ModelPath != "assets/mountain.obj" {
		t.Errorf("unexpected model path %q", cfg.Scene.ModelPath)
	}
	if cfg.Scene.Rotation != [3]float32{0, 90, 0} {
		t.Errorf("unexpected rotation %v", cfg.Scene.Rotation)
	}
	if cfg.Scene.FlipUVs {
		t.Error("expected flip_uvs to be false")
	}
	if cfg.Camera.Mode != CameraFPS {
		t.Errorf("expected fps mode, got %s", cfg.Camera.Mode)
	}
	if cfg.Camera.Orbit.Radius != 30 {
		t.Errorf("expected orbit radius 30, got %f", cfg.Camera.Orbit.Radius)
	}
	// Untouched nested values keep their defaults.
	if cfg.Camera.Orbit.Yaw != -45 {
		t.Errorf("expected default orbit yaw to survive merge, got %f", cfg.Camera.Orbit.Yaw)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/meshview.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errors int
		want   string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:   "bad window",
			mutate: func(c *Config) { c.Graphics.Width = 0 },
			errors: 1,
			want:   "window size",
		},
		{
			name:   "near beyond far",
			mutate: func(c *Config) { c.Graphics.Near = 200 },
			errors: 1,
			want:   "near",
		},
		{
			name:   "unknown camera",
			mutate: func(c *Config) { c.Camera.Mode = "tps" },
			errors: 1,
			want:   "unknown mode",
		},
		{
			name:   "orbit radius out of range",
			mutate: func(c *Config) { c.Camera.Orbit.Radius = 500 },
			errors: 1,
			want:   "orbit radius",
		},
		{
			name:   "light below the nadir",
			mutate: func(c *Config) { c.Light.Elevation = -95 },
			errors: 1,
			want:   "light",
		},
		{
			name: "several problems reported together",
			mutate: func(c *Config) {
				c.Graphics.FOV = 0
				c.Scene.Scale = [3]float32{1, 0, 1}
				c.Grid.Spacing = -1
			},
			errors: 3,
		},
		{
			name: "disabled grid is not checked",
			mutate: func(c *Config) {
				c.Grid.Enabled = false
				c.Grid.Spacing = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			if got := len(multierr.Errors(err)); got != tt.errors {
				t.Fatalf("expected %d errors, got %d: %v", tt.errors, got, err)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Fatal("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "meshview.yaml"), []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find meshview.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "model flag",
			setup: func() { *flagModel = "scenes/world.glb" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Scene.ModelPath != "scenes/world.glb" {
					t.Errorf("expected model path from flag, got %s", cfg.Scene.ModelPath)
				}
			},
			teardown: func() { *flagModel = "" },
		},
		{
			name:  "camera flag",
			setup: func() { *flagCamera = CameraFPS },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Camera.Mode != CameraFPS {
					t.Errorf("expected fps camera, got %s", cfg.Camera.Mode)
				}
			},
			teardown: func() { *flagCamera = "" },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "meshview.yaml")
	yamlContent := `
graphics:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "meshview.yaml")
	if err := os.WriteFile(configPath, []byte("camera:\n  mode: spectator\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for unknown camera mode")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "meshview.yaml")

	cfg := Default()
	cfg.Scene.ModelPath = "models/terrain.obj"
	cfg.Camera.Mode = CameraFPS
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Scene.ModelPath != cfg.Scene.ModelPath || loaded.Camera.Mode != CameraFPS {
		t.Errorf("saved config did not round trip: %+v", loaded.Scene)
	}
}
