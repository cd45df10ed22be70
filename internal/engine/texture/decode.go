package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedImage is returned for data that is recognisably an image
// in a format no registered decoder handles.
var ErrUnsupportedImage = errors.New("unsupported image format")

// decodable lists filetype extensions with a registered image decoder.
var decodable = map[string]bool{
	"png":  true,
	"jpg":  true,
	"gif":  true,
	"bmp":  true,
	"tif":  true,
	"webp": true,
}

// Decode decodes encoded image bytes. name is only used to pick the TGA
// decoder, since TGA has no magic number to sniff.
func Decode(data []byte, name string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		return DecodeTGA(data)
	}

	kind, _ := filetype.Match(data)
	if kind != filetype.Unknown && !decodable[kind.Extension] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, kind.MIME.Value)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, name)
		}
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	return img, nil
}

// Load reads and decodes ref, preferring embedded data over the file system,
// and returns RGBA pixels no larger than maxSize on either side (0 = no limit).
func Load(ref Ref, maxSize int) (*image.RGBA, error) {
	data := ref.Data
	if data == nil {
		var err error
		data, err = os.ReadFile(ref.Path)
		if err != nil {
			return nil, err
		}
	}

	img, err := Decode(data, ref.Path)
	if err != nil {
		return nil, err
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %s has no pixels", ErrUnsupportedImage, ref.Path)
	}
	return ToRGBA(img, maxSize), nil
}

// ToRGBA converts img to RGBA, downscaling proportionally when either side
// exceeds maxSize.
func ToRGBA(img image.Image, maxSize int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			h = max(1, h*maxSize/w)
			w = maxSize
		} else {
			w = max(1, w*maxSize/h)
			h = maxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst
	}

	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
