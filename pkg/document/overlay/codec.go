package overlay

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"

	// Accepted upload encodings; png decoding registers via the encode
	// import above.
	_ "image/jpeg"

	_ "golang.org/x/image/tiff"

	"github.com/iQuantC/docsight/pkg/errx"
)

// Decode decodes PNG, JPEG, or TIFF image bytes and reports the format.
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", errx.Wrap(err, "unsupported or corrupt image (want PNG, JPEG, or TIFF)", errx.TypeValidation)
	}
	return img, format, nil
}

// EncodePNG encodes the rendered overlay for transport.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errx.Wrap(err, "failed to encode overlay image", errx.TypeInternal)
	}
	return buf.Bytes(), nil
}

// namedColors covers the outline colors the service accepts by name.
var namedColors = map[string]color.RGBA{
	"red":     {R: 255, A: 255},
	"green":   {G: 128, A: 255},
	"blue":    {B: 255, A: 255},
	"yellow":  {R: 255, G: 255, A: 255},
	"magenta": {R: 255, B: 255, A: 255},
	"cyan":    {G: 255, B: 255, A: 255},
	"black":   {A: 255},
	"white":   {R: 255, G: 255, B: 255, A: 255},
}

// ParseColor resolves a color name or "#RRGGBB" string, falling back to
// red for anything it does not recognize.
func ParseColor(s string) color.Color {
	if c, ok := namedColors[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c
	}

	if hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#"); ok && len(hex) == 6 {
		if v, err := strconv.ParseUint(hex, 16, 32); err == nil {
			return color.RGBA{
				R: uint8(v >> 16),
				G: uint8(v >> 8),
				B: uint8(v),
				A: 255,
			}
		}
	}

	return namedColors["red"]
}
