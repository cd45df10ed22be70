// Package texture decodes images and uploads them as deduplicated GPU textures.
package texture

import (
	"fmt"

	"github.com/Faultbox/meshview/internal/engine/gpu"
)

// Type is the semantic role a texture plays in shading.
type Type int

// Texture types in the order the importer resolves them.
const (
	Diffuse Type = iota
	Specular
	Normal
	Height
)

// Types lists every semantic type in resolution order.
var Types = []Type{Diffuse, Specular, Normal, Height}

var typeNames = [...]string{
	Diffuse:  "diffuse",
	Specular: "specular",
	Normal:   "normal",
	Height:   "height",
}

// String returns the short type name ("diffuse").
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Uniform returns the sampler uniform prefix shaders use for this type
// ("texture_diffuse"); the mesh appends a per-type ordinal.
func (t Type) Uniform() string {
	return "texture_" + t.String()
}

// Texture is an uploaded image record. Records are shared by value between
// meshes; only the cache owns the underlying handle.
type Texture struct {
	Handle gpu.Handle
	Type   Type
	Path   string
}

// Blank reports whether the texture has no uploaded data behind it.
func (t Texture) Blank() bool {
	return t.Handle == 0
}

// Ref identifies an image to resolve. Path is the cache key; Data, when set,
// holds the encoded image bytes (images embedded in a scene file).
type Ref struct {
	Path string
	Data []byte
}
