// Package imaging turns an arbitrary uploaded picture into a square JPEG of a
// fixed size.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/cursomc/commerce-api/internal/core/domain"
)

const (
	ContentTypeJPEG = "image/jpeg"

	DefaultSize      = 200
	DefaultQuality   = 90
	DefaultMaxPixels = 40_000_000
)

// Decode parses the upload into a raster. Transparent pixels are composited
// onto white so the result can be stored as JPEG. Any failure, including a
// declared size above maxPixels, is reported as domain.ErrUnsupportedImageFormat.
func Decode(upload domain.UploadedImage, maxPixels int) (image.Image, error) {
	if len(upload.Data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", domain.ErrUnsupportedImageFormat)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(upload.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedImageFormat, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: zero-sized %s image", domain.ErrUnsupportedImageFormat, format)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", domain.ErrUnsupportedImageFormat, cfg.Width, cfg.Height, maxPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(upload.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedImageFormat, err)
	}
	return flatten(src), nil
}

func flatten(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}

// CropSquare returns the centered min(W,H) square of img. When the excess is
// odd the extra pixel is dropped from the right or bottom edge.
func CropSquare(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	side := min(w, h)

	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(dst, dst.Bounds(), img, image.Pt(x0, y0), draw.Src)
	return dst
}

// Resize scales img to exactly size×size, upsampling when needed.
func Resize(img image.Image, size int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Encode writes img as baseline JPEG.
func Encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Pipeline runs decode, crop, resize and encode with fixed parameters.
type Pipeline struct {
	size      int
	quality   int
	maxPixels int
}

// NewPipeline builds a pipeline; non-positive values fall back to the defaults.
func NewPipeline(size, quality, maxPixels int) *Pipeline {
	if size <= 0 {
		size = DefaultSize
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &Pipeline{size: size, quality: quality, maxPixels: maxPixels}
}

func (p *Pipeline) Size() int { return p.size }

// Normalize produces a size×size JPEG from the upload.
func (p *Pipeline) Normalize(upload domain.UploadedImage) (*domain.NormalizedImage, error) {
	src, err := Decode(upload, p.maxPixels)
	if err != nil {
		return nil, err
	}

	out := Resize(CropSquare(src), p.size)

	data, err := Encode(out, p.quality)
	if err != nil {
		return nil, err
	}

	return &domain.NormalizedImage{
		Data:        data,
		ContentType: ContentTypeJPEG,
		Width:       p.size,
		Height:      p.size,
	}, nil
}
