package certificate

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // Register JPEG templates
	"image/png"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const shadowOffset = 2

var (
	ErrInvalidTemplate = errors.New("invalid certificate template")
	ErrEmptyName       = errors.New("name is empty")

	shadowColor = color.NRGBA{A: 0x80}
	guideColor  = color.NRGBA{R: 0xe5, G: 0x39, B: 0x35, A: 0xb0}
)

type fontKey struct{ bold, italic bool }

var (
	fontsOnce sync.Once
	fonts     map[fontKey]*opentype.Font
	fontsErr  error
)

func loadFonts() (map[fontKey]*opentype.Font, error) {
	fontsOnce.Do(func() {
		sources := map[fontKey][]byte{
			{false, false}: goregular.TTF,
			{true, false}:  gobold.TTF,
			{false, true}:  goitalic.TTF,
			{true, true}:   gobolditalic.TTF,
		}
		fonts = make(map[fontKey]*opentype.Font, len(sources))
		for key, ttf := range sources {
			f, err := opentype.Parse(ttf)
			if err != nil {
				fontsErr = fmt.Errorf("failed to parse bundled font: %w", err)
				return
			}
			fonts[key] = f
		}
	})
	return fonts, fontsErr
}

// DecodeTemplate decodes a PNG or JPEG template given as raw base64 or as a
// data URI. maxBytes bounds the encoded image size and maxPixels bounds its
// declared width times height. Zero disables either limit.
func DecodeTemplate(encoded string, maxBytes, maxPixels int64) (image.Image, error) {
	encoded = strings.TrimSpace(encoded)
	if strings.HasPrefix(encoded, "data:") {
		comma := strings.IndexByte(encoded, ',')
		if comma < 0 || !strings.Contains(encoded[:comma], ";base64") {
			return nil, fmt.Errorf("%w: malformed data URI", ErrInvalidTemplate)
		}
		encoded = encoded[comma+1:]
	}

	if maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(encoded))) > maxBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrInvalidTemplate, maxBytes)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidTemplate)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidTemplate, cfg.Width, cfg.Height, maxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	return img, nil
}

// Render stamps name onto a copy of template, centred on pos, with a fixed
// drop shadow. With guide set, a crosshair marks pos.
func Render(template image.Image, name string, pos Position, style Style, guide bool) (*image.RGBA, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	all, err := loadFonts()
	if err != nil {
		return nil, err
	}

	face, err := opentype.NewFace(all[fontKey{style.Bold, style.Italic}], &opentype.FaceOptions{
		Size:    style.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	defer face.Close()

	bounds := template.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), template, bounds.Min, draw.Src)

	pos = pos.Clamped()
	cx := pos.X * float64(bounds.Dx())
	cy := pos.Y * float64(bounds.Dy())

	d := &font.Drawer{Dst: canvas, Face: face}
	width := d.MeasureString(name)
	m := face.Metrics()
	// Vertically centre on the ink box between ascent and descent
	origin := fixed.Point26_6{
		X: fixed.Int26_6(cx*64) - width/2,
		Y: fixed.Int26_6(cy*64) + (m.Ascent-m.Descent)/2,
	}

	d.Src = image.NewUniform(shadowColor)
	d.Dot = origin.Add(fixed.P(shadowOffset, shadowOffset))
	d.DrawString(name)

	d.Src = image.NewUniform(style.Color)
	d.Dot = origin
	d.DrawString(name)

	if guide {
		drawCrosshair(canvas, int(cx), int(cy))
	}

	return canvas, nil
}

func drawCrosshair(dst *image.RGBA, x, y int) {
	src := image.NewUniform(guideColor)
	b := dst.Bounds()
	draw.Draw(dst, image.Rect(b.Min.X, y, b.Max.X, y+1), src, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(x, b.Min.Y, x+1, b.Max.Y), src, image.Point{}, draw.Over)
}

// EncodePNG encodes a rendered certificate
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
