package model

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/gpu"
	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/texture"
	"github.com/Faultbox/meshview/internal/logger"
)

// MeshSource produces the mesh list for a scene file.
type MeshSource interface {
	Import(path string) []*mesh.Mesh
	Cache() *texture.Cache
}

// World is the imported scene: a fixed, ordered mesh list drawn under one
// transform.
type World struct {
	Transform

	path   string
	meshes []*mesh.Mesh
	cache  *texture.Cache
	bounds mesh.Bounds

	device   gpu.Device
	fallback gpu.Handle
}

var _ Renderable = (*World)(nil)

// NewWorld imports path and keeps the resulting meshes for the world's
// lifetime. An empty path or an import failure yields an empty world.
func NewWorld(src MeshSource, path string, t Transform) *World {
	w := &World{
		Transform: t,
		path:      path,
		cache:     src.Cache(),
	}
	if path != "" {
		w.meshes = src.Import(path)
	}

	for i, m := range w.meshes {
		if i == 0 {
			w.bounds = m.Bounds()
			continue
		}
		w.bounds = w.bounds.Union(m.Bounds())
	}

	logger.Named("world").Debug("world created",
		zap.String("path", path), zap.Int("meshes", len(w.meshes)))
	return w
}

// FallbackUnit is the texture unit reserved for the fallback diffuse map.
// Meshes bind their own maps from unit 0 upward and stay below it.
const FallbackUnit = 15

var fallbackSampler = texture.Diffuse.Uniform() + "1"

// SetFallback makes meshes without a diffuse map sample h. The world does
// not own h.
func (w *World) SetFallback(device gpu.Device, h gpu.Handle) {
	w.device = device
	w.fallback = h
}

// Draw draws every mesh in import order.
func (w *World) Draw(program gpu.Handle) {
	for _, m := range w.meshes {
		if w.fallback != 0 && !m.HasTexture(texture.Diffuse) {
			w.device.ActiveTexture(FallbackUnit)
			w.device.BindTexture2D(w.fallback)
			w.device.SetInt(program, fallbackSampler, FallbackUnit)
		}
		m.Draw(program)
	}
}

// Path returns the scene file the world was imported from.
func (w *World) Path() string { return w.path }

// Meshes returns the mesh list. Callers must not modify it.
func (w *World) Meshes() []*mesh.Mesh { return w.meshes }

// Empty reports whether the world has nothing to draw.
func (w *World) Empty() bool { return len(w.meshes) == 0 }

// Bounds returns the local-space bounding box of all meshes.
func (w *World) Bounds() mesh.Bounds { return w.bounds }

// Release frees every mesh and then the texture cache. The world must not
// be drawn afterwards.
func (w *World) Release() {
	for _, m := range w.meshes {
		m.Release()
	}
	w.meshes = nil
	if w.cache != nil {
		w.cache.Release()
	}
}
