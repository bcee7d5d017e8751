package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/cursomc/commerce-api/internal/core/domain"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestCropSquare_Dimensions(t *testing.T) {
	cases := []struct {
		w, h, side int
	}{
		{800, 600, 600},
		{600, 800, 600},
		{300, 300, 300},
		{1, 5, 1},
		{201, 200, 200},
	}

	for _, tc := range cases {
		got := CropSquare(solid(tc.w, tc.h, color.Black)).Bounds()
		if got.Dx() != tc.side || got.Dy() != tc.side {
			t.Errorf("%dx%d: expected %dx%d, got %dx%d", tc.w, tc.h, tc.side, tc.side, got.Dx(), got.Dy())
		}
	}
}

func TestCropSquare_CenteredWithOddRemainderOnTrailingEdge(t *testing.T) {
	// 5x2: excess 3, so 1 column is dropped on the left and 2 on the right.
	img := solid(5, 2, color.Black)
	red := color.RGBA{R: 255, A: 255}
	img.Set(1, 0, red)

	cropped := CropSquare(img)

	r, _, _, _ := cropped.At(0, 0).RGBA()
	if r>>8 != 255 {
		t.Fatalf("expected column 1 of the source at crop origin, got %v", cropped.At(0, 0))
	}
}

func TestCropSquare_PortraitOddRemainderOnBottomEdge(t *testing.T) {
	// 2x5: excess 3, so 1 row is dropped at the top and 2 at the bottom.
	img := solid(2, 5, color.Black)
	red := color.RGBA{R: 255, A: 255}
	img.Set(0, 1, red)

	cropped := CropSquare(img)

	if b := cropped.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("expected 2x2, got %v", b)
	}
	r, _, _, _ := cropped.At(0, 0).RGBA()
	if r>>8 != 255 {
		t.Fatalf("expected row 1 of the source at crop origin, got %v", cropped.At(0, 0))
	}
}

func TestCropSquare_NonZeroOrigin(t *testing.T) {
	full := solid(10, 6, color.Black)
	sub := full.SubImage(image.Rect(2, 2, 10, 6)) // 8x4

	got := CropSquare(sub).Bounds()
	if got.Dx() != 4 || got.Dy() != 4 {
		t.Fatalf("expected 4x4, got %v", got)
	}
}

func TestResize_AlwaysSquare(t *testing.T) {
	for _, side := range []int{1, 50, 200, 1000} {
		got := Resize(solid(side, side, color.Black), 200).Bounds()
		if got.Dx() != 200 || got.Dy() != 200 {
			t.Errorf("source %d: expected 200x200, got %v", side, got)
		}
	}
}

func TestDecode_RejectsGarbage(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("not an image"), {0xFF, 0xD8, 0xFF}} {
		_, err := Decode(domain.UploadedImage{Data: data}, 0)
		if !errors.Is(err, domain.ErrUnsupportedImageFormat) {
			t.Errorf("%q: expected ErrUnsupportedImageFormat, got %v", data, err)
		}
	}
}

func TestDecode_RejectsOversizedImages(t *testing.T) {
	data := pngBytes(t, solid(100, 100, color.Black))

	_, err := Decode(domain.UploadedImage{Data: data}, 100*99)
	if !errors.Is(err, domain.ErrUnsupportedImageFormat) {
		t.Fatalf("expected ErrUnsupportedImageFormat, got %v", err)
	}
}

func TestDecode_FlattensTransparencyOntoWhite(t *testing.T) {
	data := pngBytes(t, image.NewNRGBA(image.Rect(0, 0, 4, 4))) // fully transparent

	img, err := Decode(domain.UploadedImage{Data: data}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, g, b, a := img.At(1, 1).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 || a>>8 != 255 {
		t.Fatalf("expected opaque white, got %v", img.At(1, 1))
	}
}

func TestPipeline_Normalize(t *testing.T) {
	var gifBuf bytes.Buffer
	pal := image.NewPaletted(image.Rect(0, 0, 30, 90), []color.Color{color.White, color.Black})
	if err := gif.Encode(&gifBuf, pal, nil); err != nil {
		t.Fatalf("gif encode: %v", err)
	}

	inputs := map[string][]byte{
		"png landscape": pngBytes(t, solid(800, 600, color.RGBA{B: 200, A: 255})),
		"png tiny":      pngBytes(t, solid(10, 10, color.Black)),
		"gif portrait":  gifBuf.Bytes(),
	}

	p := NewPipeline(200, 85, 0)

	for name, data := range inputs {
		out, err := p.Normalize(domain.UploadedImage{Data: data})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if out.ContentType != ContentTypeJPEG {
			t.Errorf("%s: expected %s, got %s", name, ContentTypeJPEG, out.ContentType)
		}

		decoded, err := jpeg.Decode(bytes.NewReader(out.Data))
		if err != nil {
			t.Fatalf("%s: output is not a JPEG: %v", name, err)
		}
		if b := decoded.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
			t.Errorf("%s: expected 200x200, got %v", name, b)
		}
		if out.Width != 200 || out.Height != 200 {
			t.Errorf("%s: unexpected reported size %dx%d", name, out.Width, out.Height)
		}
	}
}

func TestNewPipeline_Defaults(t *testing.T) {
	p := NewPipeline(0, 0, 0)
	if p.Size() != DefaultSize {
		t.Fatalf("expected default size %d, got %d", DefaultSize, p.Size())
	}
}
