package texture

import (
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

// DecodeTGA decodes uncompressed (type 2) and RLE (type 10) true-color TGA
// images at 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("tga: header truncated")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := int(data[2])
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("tga: color-mapped images not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("tga: empty image %dx%d", width, height)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("tga: data truncated")
	}

	d := tgaDecoder{
		img:           image.NewRGBA(image.Rect(0, 0, width, height)),
		src:           data[offset:],
		width:         width,
		height:        height,
		bytesPerPixel: bpp / 8,
		topToBottom:   descriptor&0x20 != 0,
	}

	if imageType == TGATypeUncompressed {
		if len(d.src) < width*height*d.bytesPerPixel {
			return nil, fmt.Errorf("tga: pixel data truncated")
		}
		for i := 0; i < width*height; i++ {
			d.put(i, d.pixel(i*d.bytesPerPixel))
		}
		return d.img, nil
	}

	d.decodeRLE()
	return d.img, nil
}

type tgaDecoder struct {
	img           *image.RGBA
	src           []byte
	width, height int
	bytesPerPixel int
	topToBottom   bool
}

// pixel reads one BGR(A) pixel at byte offset i.
func (d *tgaDecoder) pixel(i int) color.RGBA {
	c := color.RGBA{R: d.src[i+2], G: d.src[i+1], B: d.src[i], A: 255}
	if d.bytesPerPixel == 4 {
		c.A = d.src[i+3]
	}
	return c
}

// put stores the n-th pixel in file order, honoring the vertical origin bit.
func (d *tgaDecoder) put(n int, c color.RGBA) {
	x, y := n%d.width, n/d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	d.img.SetRGBA(x, y, c)
}

// decodeRLE stops quietly at truncated input, leaving the rest transparent.
func (d *tgaDecoder) decodeRLE() {
	total := d.width * d.height
	n, i := 0, 0

	for n < total && i < len(d.src) {
		packet := d.src[i]
		i++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if i+d.bytesPerPixel > len(d.src) {
				return
			}
			c := d.pixel(i)
			i += d.bytesPerPixel
			for k := 0; k < count && n < total; k++ {
				d.put(n, c)
				n++
			}
			continue
		}

		for k := 0; k < count && n < total; k++ {
			if i+d.bytesPerPixel > len(d.src) {
				return
			}
			d.put(n, d.pixel(i))
			i += d.bytesPerPixel
			n++
		}
	}
}
