// Package config handles viewer configuration loading and management.
package config

// Camera modes accepted by CameraConfig.Mode.
const (
	CameraOrbit = "orbit"
	CameraFPS   = "fps"
)

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Scene    SceneConfig    `yaml:"scene"`
	Light    LightConfig    `yaml:"light"`
	Camera   CameraConfig   `yaml:"camera"`
	Grid     GridConfig     `yaml:"grid"`
	Shaders  ShadersConfig  `yaml:"shaders"`
	Debug    DebugConfig    `yaml:"debug"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and projection settings.
type GraphicsConfig struct {
	Width          int        `yaml:"width"`
	Height         int        `yaml:"height"`
	Fullscreen     bool       `yaml:"fullscreen"`
	VSync          bool       `yaml:"vsync"`
	FOV            float32    `yaml:"fov"` // vertical, degrees
	Near           float32    `yaml:"near"`
	Far            float32    `yaml:"far"`
	ClearColor     [3]float32 `yaml:"clear_color"`
	MaxTextureSize int        `yaml:"max_texture_size"` // 0 disables downscaling
}

// LightConfig places the directional light lighting the world model.
type LightConfig struct {
	Azimuth   float32 `yaml:"azimuth"`   // degrees around Y, 0 = +Z
	Elevation float32 `yaml:"elevation"` // degrees above the horizon
	Ambient   float32 `yaml:"ambient"`   // 0..1 floor of the diffuse term
}

// SceneConfig describes the model loaded at startup and its placement.
type SceneConfig struct {
	ModelPath string     `yaml:"model_path"`
	Position  [3]float32 `yaml:"position"`
	Rotation  [3]float32 `yaml:"rotation"` // Euler degrees
	Scale     [3]float32 `yaml:"scale"`
	FlipUVs   bool       `yaml:"flip_uvs"`
}

// CameraConfig holds settings shared by both camera models plus their start poses.
type CameraConfig struct {
	Mode             string      `yaml:"mode"`
	MouseSensitivity float32     `yaml:"mouse_sensitivity"`
	MoveSpeed        float32     `yaml:"move_speed"`
	Orbit            OrbitConfig `yaml:"orbit"`
	FPS              FPSConfig   `yaml:"fps"`
}

// OrbitConfig is the orbit camera start pose.
type OrbitConfig struct {
	Target [3]float32 `yaml:"target"`
	Radius float32    `yaml:"radius"`
	Yaw    float32    `yaml:"yaw"`
	Pitch  float32    `yaml:"pitch"`
}

// FPSConfig is the first-person camera start pose.
type FPSConfig struct {
	Position [3]float32 `yaml:"position"`
	Yaw      float32    `yaml:"yaw"`
	Pitch    float32    `yaml:"pitch"`
}

// GridConfig controls the ground grid plane.
type GridConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Spacing    float32 `yaml:"spacing"`
	HalfExtent float32 `yaml:"half_extent"`
}

// ShadersConfig points at an optional directory overriding the embedded GLSL.
type ShadersConfig struct {
	Dir string `yaml:"dir"`
}

// DebugConfig holds debug tooling settings.
type DebugConfig struct {
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:          1200,
			Height:         768,
			Fullscreen:     false,
			VSync:          true,
			FOV:            45,
			Near:           0.1,
			Far:            100,
			ClearColor:     [3]float32{0.1, 0.1, 0.1},
			MaxTextureSize: 4096,
		},
		Scene: SceneConfig{
			Position: [3]float32{0, 1, 0},
			Scale:    [3]float32{1, 1, 1},
			FlipUVs:  true,
		},
		Light: LightConfig{
			Azimuth:   53,
			Elevation: 62,
			Ambient:   0.35,
		},
		Camera: CameraConfig{
			Mode:             CameraOrbit,
			MouseSensitivity: 0.1,
			MoveSpeed:        10,
			Orbit: OrbitConfig{
				Radius: 15,
				Yaw:    -45,
				Pitch:  20,
			},
			FPS: FPSConfig{
				Position: [3]float32{0, 1, 3},
				Yaw:      -90,
			},
		},
		Grid: GridConfig{
			Enabled:    true,
			Spacing:    10,
			HalfExtent: 1000,
		},
		Debug: DebugConfig{
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
