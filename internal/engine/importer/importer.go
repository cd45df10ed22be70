// Package importer reads scene files and turns their node graphs into a flat,
// ordered list of GPU meshes.
package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/gpu"
	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/texture"
	"github.com/Faultbox/meshview/internal/logger"
)

// Import errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported scene format")
	ErrNoRootNode        = errors.New("scene has no root node")
)

type reader func(path string) (*Scene, error)

var readers = map[string]reader{
	".obj":  readOBJ,
	".gltf": readGLTF,
	".glb":  readGLTF,
}

// Extensions returns the file extensions Load understands.
func Extensions() []string {
	return []string{"obj", "gltf", "glb"}
}

// Options configures post-processing.
type Options struct {
	// FlipUVs flips V for formats whose texture origin is bottom-left.
	FlipUVs bool
}

// Importer builds meshes on a device, resolving textures through a shared
// cache.
type Importer struct {
	device gpu.Device
	cache  *texture.Cache
	opts   Options
	log    *zap.Logger
}

// New creates an importer.
func New(device gpu.Device, cache *texture.Cache, opts Options) *Importer {
	return &Importer{
		device: device,
		cache:  cache,
		opts:   opts,
		log:    logger.Named("importer"),
	}
}

// Cache returns the texture cache meshes reference.
func (im *Importer) Cache() *texture.Cache {
	return im.cache
}

// Load reads path and post-processes it: polygons are triangulated,
// missing normals generated, and tangent space computed where UVs exist.
func (im *Importer) Load(path string) (*Scene, error) {
	read, ok := readers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	s, err := read(path)
	if err != nil {
		return nil, err
	}
	if s.Root == nil {
		return nil, ErrNoRootNode
	}

	postProcess(s, im.opts.FlipUVs)
	return s, nil
}

// Build converts the scene into meshes, visiting nodes in pre-order. Each
// mesh resolves its diffuse, specular, normal and height textures in that
// order.
func (im *Importer) Build(s *Scene) []*mesh.Mesh {
	var out []*mesh.Mesh
	s.Walk(func(n *Node, depth int) {
		for _, idx := range n.Meshes {
			if idx < 0 || idx >= len(s.Meshes) {
				im.log.Warn("node references missing mesh", zap.String("node", n.Name), zap.Int("mesh", idx))
				continue
			}
			out = append(out, im.buildMesh(s, s.Meshes[idx]))
		}
	})
	return out
}

func (im *Importer) buildMesh(s *Scene, src *SourceMesh) *mesh.Mesh {
	hasUV := src.HasTexCoords()
	hasTangents := hasUV && len(src.Tangents) == len(src.Positions) && len(src.Bitangents) == len(src.Positions)

	vertices := make([]mesh.Vertex, len(src.Positions))
	for i, p := range src.Positions {
		v := mesh.Vertex{Position: p}
		if i < len(src.Normals) {
			v.Normal = src.Normals[i]
		}
		if hasUV {
			v.TexCoords = src.TexCoords[i]
		}
		if hasTangents {
			v.Tangent = src.Tangents[i]
			v.Bitangent = src.Bitangents[i]
		}
		vertices[i] = v
	}

	indices := make([]uint32, 0, len(src.Faces)*3)
	for _, f := range src.Faces {
		indices = append(indices, f...)
	}

	var textures []texture.Texture
	if mat := s.material(src.Material); mat != nil {
		for _, typ := range texture.Types {
			for _, ref := range mat.Textures[channelFor[typ]] {
				textures = append(textures, im.cache.Resolve(ref, typ))
			}
		}
	}

	return mesh.New(im.device, vertices, indices, textures)
}

// Import loads path and builds its meshes. Failures are logged and yield
// an empty list.
func (im *Importer) Import(path string) []*mesh.Mesh {
	start := time.Now()

	s, err := im.Load(path)
	if err != nil {
		im.log.Warn("scene import failed", zap.String("path", path), zap.Error(err))
		return nil
	}

	meshes := im.Build(s)
	im.log.Info("scene imported",
		zap.String("path", path),
		zap.Int("meshes", len(meshes)),
		zap.Int("materials", len(s.Materials)),
		zap.Int("textures", im.cache.Len()),
		zap.Duration("took", time.Since(start)))
	return meshes
}
