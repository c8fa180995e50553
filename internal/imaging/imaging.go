// Package imaging prepares label artwork for embedding in the label sheet.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxDimension is the maximum width or height of embedded artwork. A label
// is 65mm wide, so this is well above 300 dpi.
const MaxDimension = 1600

// JPEGQuality is the compression quality for re-encoded JPEG artwork.
const JPEGQuality = 90

// Image formats, named the way the PDF writer expects them.
const (
	FormatPNG  = "PNG"
	FormatJPEG = "JPG"
)

var allowedMIME = map[string]string{
	"image/jpeg": FormatJPEG,
	"image/png":  FormatPNG,
}

// Artwork is decoded and possibly downscaled image data.
type Artwork struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// AspectRatio returns height over width.
func (a *Artwork) AspectRatio() float64 {
	if a.Width == 0 {
		return 0
	}
	return float64(a.Height) / float64(a.Width)
}

// Prepare reads image data, checks the format by sniffing bytes, and
// downscales it if larger than MaxDimension. PNG stays PNG so the banner
// keeps its transparency; JPEG stays JPEG.
func Prepare(r io.Reader) (*Artwork, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	detected := http.DetectContentType(data)
	format, ok := allowedMIME[detected]
	if !ok {
		return nil, fmt.Errorf("unsupported image format: %s (only JPEG and PNG accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	scaled, resized := downscale(img, MaxDimension)
	b := scaled.Bounds()
	art := &Artwork{Data: data, Format: format, Width: b.Dx(), Height: b.Dy()}
	if !resized {
		return art, nil
	}

	var buf bytes.Buffer
	switch format {
	case FormatPNG:
		err = png.Encode(&buf, scaled)
	default:
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: JPEGQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", format, err)
	}
	art.Data = buf.Bytes()
	return art, nil
}

// downscale resizes the image so neither dimension exceeds maxDim,
// preserving aspect ratio. Returns the original image and false if already
// within bounds.
func downscale(img image.Image, maxDim int) (image.Image, bool) {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img, false
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}

	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	// Src keeps transparent pixels transparent.
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst, true
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
