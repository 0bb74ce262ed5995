package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// gradient builds a test image with per-pixel variation so re-encoding is
// not trivially compressible.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), uint8(x ^ y), 255})
		}
	}
	return img
}

func asJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encoding fixture JPEG: %v", err)
	}
	return buf.Bytes()
}

func asPNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture PNG: %v", err)
	}
	return buf.Bytes()
}

// minimalWebP is a valid 1x1 lossless WebP (VP8L) file: RIFF header, VP8L
// chunk, 1x1 dimensions, and a single-symbol huffman stream per channel.
// The standard library has no WebP encoder, so the fixture is spelled out.
var minimalWebP = []byte{
	'R', 'I', 'F', 'F', 0x14, 0x00, 0x00, 0x00,
	'W', 'E', 'B', 'P',
	'V', 'P', '8', 'L', 0x08, 0x00, 0x00, 0x00,
	0x2f, 0x00, 0x00, 0x00, 0x00, 0x88, 0x88, 0x08,
}

func TestProcessAcceptedFormats(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"jpeg", asJPEG(t, gradient(64, 48))},
		{"png", asPNG(t, gradient(64, 48))},
		{"webp", minimalWebP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Process(bytes.NewReader(tt.data))
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			// Stored output is always JPEG regardless of input format.
			if result.MIME != "image/jpeg" {
				t.Errorf("expected image/jpeg output, got %s", result.MIME)
			}
			if _, format, err := image.Decode(bytes.NewReader(result.Data)); err != nil || format != "jpeg" {
				t.Errorf("output not decodable as JPEG: format=%q err=%v", format, err)
			}
		})
	}
}

func TestProcessWebPDimensions(t *testing.T) {
	result, err := Process(bytes.NewReader(minimalWebP))
	if err != nil {
		t.Fatalf("Process WebP: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 1 || bounds.Dy() != 1 {
		t.Errorf("expected 1x1 output, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestProcessDownscaleKeepsAspectRatio(t *testing.T) {
	data := asJPEG(t, gradient(1600, 900))
	result, err := Process(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Process large image: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != MaxDimension {
		t.Errorf("expected width %d, got %d", MaxDimension, bounds.Dx())
	}
	if bounds.Dy() != 576 { // 900 * 1024 / 1600
		t.Errorf("expected height 576, got %d", bounds.Dy())
	}
}

func TestProcessSmallImageNotResized(t *testing.T) {
	data := asPNG(t, gradient(40, 30))
	result, err := Process(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Process small image: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 40 || bounds.Dy() != 30 {
		t.Errorf("small image was resized: got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestProcessRejectsNonImage(t *testing.T) {
	_, err := Process(bytes.NewReader([]byte("definitely not pixels")))
	if err == nil {
		t.Error("expected error for non-image input")
	}
}

func TestProcessRejectsGIF(t *testing.T) {
	// GIF sniffs as image/gif, which is not in the allowlist.
	_, err := Process(bytes.NewReader([]byte("GIF89a\x01\x00\x01\x00")))
	if err == nil {
		t.Error("expected error for GIF input")
	}
}
