package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDecodePNG(t *testing.T) {
	img, err := Decode(encodePNG(t, 4, 3), "wall.png")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(4, 3) {
		t.Errorf("size = %v, want 4x3", got)
	}
}

func TestDecodeUnsupported(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"garbage.png", []byte("definitely not an image")},
		// Photoshop signature: recognised as an image, but no decoder
		{"layers.psd", append([]byte("8BPS"), make([]byte, 32)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data, tt.name)
			if !errors.Is(err, ErrUnsupportedImage) {
				t.Errorf("err = %v, want ErrUnsupportedImage", err)
			}
		})
	}
}

func TestDecodeTGA(t *testing.T) {
	// 2x1 uncompressed 24-bit, bottom-up: first stored pixel lands on the last row
	header := make([]byte, 18)
	header[2] = TGATypeUncompressed
	header[12] = 2
	header[14] = 1
	header[16] = 24
	data := append(header, 0, 0, 255, 255, 0, 0) // red, blue (BGR)

	img, err := Decode(data, "bricks.TGA")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	r, _, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 255 || b != 0 {
		t.Errorf("pixel 0 = %v, want red", img.At(0, 0))
	}
	_, _, b, _ = img.At(1, 0).RGBA()
	if b>>8 != 255 {
		t.Errorf("pixel 1 = %v, want blue", img.At(1, 0))
	}
}

func TestDecodeTGARLE(t *testing.T) {
	header := make([]byte, 18)
	header[2] = TGATypeRLE
	header[12] = 3
	header[14] = 1
	header[16] = 32
	header[17] = 0x20 // top-to-bottom
	// one run packet repeating a green pixel three times
	data := append(header, 0x82, 0, 255, 0, 128)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	for x := 0; x < 3; x++ {
		got := img.(*image.RGBA).RGBAAt(x, 0)
		if got != (color.RGBA{G: 255, A: 128}) {
			t.Errorf("pixel %d = %v", x, got)
		}
	}
}

func TestDecodeTGAInvalid(t *testing.T) {
	if _, err := DecodeTGA([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated header")
	}
	header := make([]byte, 18)
	header[2] = 1 // color-mapped
	header[12], header[14], header[16] = 1, 1, 24
	if _, err := DecodeTGA(header); err == nil {
		t.Error("expected error for unsupported image type")
	}
}

func TestToRGBADownscale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 16))

	tests := []struct {
		maxSize int
		want    image.Point
	}{
		{0, image.Pt(64, 16)},
		{128, image.Pt(64, 16)},
		{32, image.Pt(32, 8)},
		{2, image.Pt(2, 1)},
	}
	for _, tt := range tests {
		got := ToRGBA(src, tt.maxSize).Bounds().Size()
		if got != tt.want {
			t.Errorf("ToRGBA(max=%d) size = %v, want %v", tt.maxSize, got, tt.want)
		}
	}
}

func TestLoadPrefersEmbeddedData(t *testing.T) {
	// path does not exist; embedded bytes must be used
	img, err := Load(Ref{Path: "scene.glb#image0", Data: encodePNG(t, 2, 2)}, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Bounds().Dx() != 2 {
		t.Errorf("width = %d, want 2", img.Bounds().Dx())
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diffuse.png")
	if err := os.WriteFile(path, encodePNG(t, 8, 8), 0o644); err != nil {
		t.Fatal(err)
	}
	img, err := Load(Ref{Path: path}, 4)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(4, 4) {
		t.Errorf("size = %v, want 4x4", got)
	}

	if _, err := Load(Ref{Path: filepath.Join(t.TempDir(), "missing.png")}, 0); err == nil {
		t.Error("expected error for missing file")
	}
}

// zeroSizeGIF is a valid GIF89a with a 0x0 logical screen and frame.
var zeroSizeGIF = []byte{
	'G', 'I', 'F', '8', '9', 'a',
	0, 0, 0, 0, // screen 0x0
	0x80, 0, 0, // global color table of 2 entries
	0, 0, 0, 0xff, 0xff, 0xff,
	0x2c, 0, 0, 0, 0, 0, 0, 0, 0, 0, // image descriptor, 0x0
	2,          // LZW minimum code size
	1, 0x2c, 0, // clear + end of information
	0x3b,
}

func TestLoadRejectsEmptyImage(t *testing.T) {
	img, err := Load(Ref{Path: "empty.gif", Data: zeroSizeGIF}, 0)
	if err == nil {
		t.Fatalf("expected an error, got %v", img.Bounds())
	}
	if img != nil {
		t.Errorf("expected no image, got %v", img.Bounds())
	}
}
