package certificate

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalibrate(t *testing.T) {
	tests := []struct {
		name           string
		clickX, clickY float64
		want           Position
	}{
		{name: "centre", clickX: 400, clickY: 300, want: Position{X: 0.5, Y: 0.5}},
		{name: "top-left corner clamps", clickX: 0, clickY: 0, want: Position{X: MinX, Y: MinY}},
		{name: "bottom-right corner clamps", clickX: 800, clickY: 600, want: Position{X: MaxX, Y: MaxY}},
		{name: "inside band untouched", clickX: 200, clickY: 120, want: Position{X: 0.25, Y: 0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calibrate(tt.clickX, tt.clickY, 800, 600)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}

	assert.Equal(t, Position{X: 0.5, Y: 0.5}, Calibrate(10, 10, 0, 600))
}

func TestParseStyle(t *testing.T) {
	style, err := ParseStyle("italic bold 36px 'Noto Kufi'", "#c0a060")
	require.NoError(t, err)
	assert.Equal(t, 36.0, style.Size)
	assert.True(t, style.Bold)
	assert.True(t, style.Italic)
	assert.Equal(t, "Noto Kufi", style.Family)
	assert.Equal(t, color.NRGBA{R: 0xc0, G: 0xa0, B: 0x60, A: 0xff}, style.Color)

	short, err := ParseStyle("", "#fff")
	require.NoError(t, err)
	assert.Equal(t, 48.0, short.Size)
	assert.True(t, short.Bold)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, short.Color)
}

func TestParseStyle_Invalid(t *testing.T) {
	_, err := ParseStyle("bold Arial", "#000")
	assert.ErrorIs(t, err, ErrInvalidFont)

	_, err = ParseStyle("2px Arial", "#000")
	assert.ErrorIs(t, err, ErrInvalidFont)

	_, err = ParseStyle("20px Arial", "#12345")
	assert.ErrorIs(t, err, ErrInvalidColor)

	_, err = ParseStyle("20px Arial", "#zzzzzz")
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func whiteTemplate(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func encodeBase64PNG(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeTemplate(t *testing.T) {
	raw := encodeBase64PNG(t, whiteTemplate(40, 20))

	img, err := DecodeTemplate(raw, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())

	img, err = DecodeTemplate("data:image/png;base64,"+raw, 1<<20, 800)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dy())

	_, err = DecodeTemplate(raw, 10, 0)
	assert.ErrorIs(t, err, ErrInvalidTemplate)

	_, err = DecodeTemplate("data:image/png,"+raw, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidTemplate)

	_, err = DecodeTemplate(base64.StdEncoding.EncodeToString([]byte("not an image")), 0, 0)
	assert.ErrorIs(t, err, ErrInvalidTemplate)
}

// pngWithDeclaredSize encodes a 1x1 PNG and rewrites its header to claim w x h
func pngWithDeclaredSize(t *testing.T, w, h uint32) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
	data := buf.Bytes()

	// signature(8) length(4) "IHDR"(4) width(4) height(4) ... crc at 29
	require.Equal(t, "IHDR", string(data[12:16]))
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return base64.StdEncoding.EncodeToString(data)
}

func TestDecodeTemplate_RejectsOversizedDimensions(t *testing.T) {
	huge := pngWithDeclaredSize(t, 40000, 40000)
	assert.Less(t, len(huge), 200)

	_, err := DecodeTemplate(huge, 1<<20, 25_000_000)
	assert.ErrorIs(t, err, ErrInvalidTemplate)

	_, err = DecodeTemplate(encodeBase64PNG(t, whiteTemplate(40, 20)), 1<<20, 799)
	assert.ErrorIs(t, err, ErrInvalidTemplate)
}

func isWhite(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff
}

func TestRender_StampsNameAroundPosition(t *testing.T) {
	tpl := whiteTemplate(400, 200)
	style, err := ParseStyle("bold 32px Arial", "#000000")
	require.NoError(t, err)

	out, err := Render(tpl, "Sara", Position{X: 0.5, Y: 0.5}, style, false)
	require.NoError(t, err)
	assert.Equal(t, tpl.Bounds(), out.Bounds())

	inked := 0
	for y := 80; y < 120; y++ {
		for x := 150; x < 250; x++ {
			if !isWhite(out.At(x, y)) {
				inked++
			}
		}
	}
	assert.Positive(t, inked)

	// Far corners stay untouched and the template itself is not modified
	assert.True(t, isWhite(out.At(0, 0)))
	assert.True(t, isWhite(out.At(399, 199)))
	assert.True(t, isWhite(tpl.At(200, 100)))
}

func TestRender_Guide(t *testing.T) {
	tpl := whiteTemplate(400, 200)
	style, err := ParseStyle("24px Arial", "#000")
	require.NoError(t, err)

	plain, err := Render(tpl, "Sara", Position{X: 0.5, Y: 0.5}, style, false)
	require.NoError(t, err)
	guided, err := Render(tpl, "Sara", Position{X: 0.5, Y: 0.5}, style, true)
	require.NoError(t, err)

	assert.True(t, isWhite(plain.At(5, 100)))
	assert.False(t, isWhite(guided.At(5, 100)))
	assert.False(t, isWhite(guided.At(200, 5)))
}

func TestRender_EmptyName(t *testing.T) {
	style, err := ParseStyle("", "")
	require.NoError(t, err)

	_, err = Render(whiteTemplate(10, 10), "  ", Position{X: 0.5, Y: 0.5}, style, false)
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestEncodePNG(t *testing.T) {
	data, err := EncodePNG(whiteTemplate(4, 4))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}
