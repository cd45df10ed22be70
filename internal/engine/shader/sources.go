package shader

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Built-in program names.
const (
	Grid   = "grid"
	Origin = "origin"
	World  = "world"
)

//go:embed glsl/*.vert glsl/*.frag
var builtin embed.FS

// Source holds the GLSL text of one program.
type Source struct {
	Vertex   string
	Fragment string
}

// Load returns the sources for a named program. When dir is set and holds
// <dir>/<name>/vertex.glsl and frag.glsl, those override the built-in text.
func Load(name, dir string) (Source, error) {
	if dir != "" {
		src, err := readPair(os.DirFS(filepath.Join(dir, name)), "vertex.glsl", "frag.glsl")
		if err == nil {
			return src, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return Source{}, fmt.Errorf("shader %s: %w", name, err)
		}
	}

	src, err := readPair(builtin, "glsl/"+name+".vert", "glsl/"+name+".frag")
	if err != nil {
		return Source{}, fmt.Errorf("shader %s: %w", name, err)
	}
	return src, nil
}

func readPair(fsys fs.FS, vert, frag string) (Source, error) {
	v, err := fs.ReadFile(fsys, vert)
	if err != nil {
		return Source{}, err
	}
	f, err := fs.ReadFile(fsys, frag)
	if err != nil {
		return Source{}, err
	}
	return Source{Vertex: string(v), Fragment: string(f)}, nil
}
