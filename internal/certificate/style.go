package certificate

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

const (
	DefaultFont  = "bold 48px Arial"
	DefaultColor = "#1a1a1a"

	minFontSize = 8
	maxFontSize = 400
)

var (
	ErrInvalidFont  = errors.New("invalid font")
	ErrInvalidColor = errors.New("invalid color")
)

// Style describes how the name is drawn
type Style struct {
	Size   float64
	Bold   bool
	Italic bool
	Family string // informational; rendering always uses the bundled Go fonts
	Color  color.NRGBA
}

// ParseStyle parses a CSS-like font shorthand ("italic bold 36px Tajawal") and a
// hex colour ("#c0a060" or "#fff"). Empty values fall back to the defaults.
func ParseStyle(fontSpec, hex string) (Style, error) {
	if strings.TrimSpace(fontSpec) == "" {
		fontSpec = DefaultFont
	}
	if strings.TrimSpace(hex) == "" {
		hex = DefaultColor
	}

	style, err := parseFont(fontSpec)
	if err != nil {
		return Style{}, err
	}
	style.Color, err = parseHexColor(hex)
	if err != nil {
		return Style{}, err
	}
	return style, nil
}

func parseFont(shorthand string) (Style, error) {
	var style Style
	var family []string

	for _, tok := range strings.Fields(shorthand) {
		lower := strings.ToLower(tok)
		switch {
		case style.Size == 0 && strings.HasSuffix(lower, "px"):
			size, err := strconv.ParseFloat(strings.TrimSuffix(lower, "px"), 64)
			if err != nil {
				return Style{}, fmt.Errorf("%w: size %q", ErrInvalidFont, tok)
			}
			style.Size = size
		case style.Size == 0 && isBoldWeight(lower):
			style.Bold = true
		case style.Size == 0 && (lower == "italic" || lower == "oblique"):
			style.Italic = true
		case style.Size == 0 && lower == "normal":
		case style.Size == 0:
			return Style{}, fmt.Errorf("%w: unexpected %q before size", ErrInvalidFont, tok)
		default:
			family = append(family, strings.Trim(tok, `"',`))
		}
	}

	if style.Size < minFontSize || style.Size > maxFontSize {
		return Style{}, fmt.Errorf("%w: size must be between %d and %d px", ErrInvalidFont, minFontSize, maxFontSize)
	}
	style.Family = strings.Join(family, " ")
	return style, nil
}

func isBoldWeight(tok string) bool {
	switch tok {
	case "bold", "bolder", "600", "700", "800", "900":
		return true
	}
	return false
}

func parseHexColor(hex string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
