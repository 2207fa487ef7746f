package palette

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// RGBA is a color with channels in [0,1], not premultiplied.
type RGBA struct {
	R, G, B, A float64
}

// FromColor converts any color.Color to non-premultiplied float channels.
func FromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

// NRGBA converts to 8-bit channels, clamping each channel to [0,1].
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: to8(c.R),
		G: to8(c.G),
		B: to8(c.B),
		A: to8(c.A),
	}
}

// RGBA implements color.Color.
func (c RGBA) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

func to8(v float64) uint8 {
	v = math.Max(0, math.Min(1, v))
	return uint8(math.Round(v * 255))
}

// Blend returns the per-channel mean of a and b.
func Blend(a, b RGBA) RGBA {
	return RGBA{
		R: (a.R + b.R) / 2,
		G: (a.G + b.G) / 2,
		B: (a.B + b.B) / 2,
		A: (a.A + b.A) / 2,
	}
}

// WithAlpha returns c with its alpha channel replaced. Alpha is not
// validated: values outside [0,1] are kept as given and only clamped when
// the color is converted to 8-bit channels.
func WithAlpha(c RGBA, alpha float64) RGBA {
	c.A = alpha
	return c
}

// ParseHex parses "#RRGGBB" or "#RRGGBBAA" (the leading '#' is optional).
func ParseHex(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	c := color.NRGBA{A: 255}
	channels := []*uint8{&c.R, &c.G, &c.B, &c.A}
	for i := 0; i < len(hex); i += 2 {
		v, err := strconv.ParseUint(hex[i:i+2], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		*channels[i/2] = uint8(v)
	}
	return c, nil
}
