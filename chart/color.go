package chart

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color is a non-premultiplied RGBA color that can be decoded from CSS-like
// strings such as "#3b82f6" or "rgba(0, 0, 0, 0.2)".
type Color color.NRGBA

// DefaultColor is used whenever a dataset carries no usable color.
var DefaultColor = MustParseColor("#3b82f6")

// NRGBA converts c for use with image/color APIs.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA(c)
}

// WithAlpha returns c with its alpha channel replaced by a (0..1).
func (c Color) WithAlpha(a float64) Color {
	c.A = uint8(clamp(a, 0, 1)*255 + .5)
	return c
}

// Lighten moves every channel percent percent of the way towards white.
func (c Color) Lighten(percent float64) Color {
	f := clamp(percent, 0, 100) / 100
	lift := func(v uint8) uint8 {
		return uint8(float64(v) + (255-float64(v))*f + .5)
	}
	c.R, c.G, c.B = lift(c.R), lift(c.G), lift(c.B)
	return c
}

func (c Color) String() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor understands #rgb, #rrggbb, #rrggbbaa, rgb(), rgba() and a handful
// of keywords.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "transparent", "":
		return Color{}, nil
	case "white":
		return Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, nil
	case "black":
		return Color{A: 0xff}, nil
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	if open := strings.IndexByte(s, '('); open > 0 && strings.HasSuffix(s, ")") {
		fn := s[:open]
		args := strings.Split(s[open+1:len(s)-1], ",")
		switch {
		case fn == "rgb" && len(args) == 3, fn == "rgba" && len(args) == 4:
			return parseFunctional(args)
		}
	}
	return Color{}, fmt.Errorf("unrecognized color %q", s)
}

// MustParseColor is ParseColor for literals known to be valid.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHex(h string) (Color, error) {
	if len(h) == 3 || len(h) == 4 {
		var b strings.Builder
		for _, r := range h {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		h = b.String()
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Color{}, fmt.Errorf("invalid hex color #%s", h)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color #%s: %w", h, err)
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func parseFunctional(args []string) (Color, error) {
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(args[i]), 64)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color channel %q: %w", args[i], err)
		}
		ch[i] = uint8(clamp(v, 0, 255))
	}
	c := Color{R: ch[0], G: ch[1], B: ch[2], A: 0xff}
	if len(args) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(args[3]), 64)
		if err != nil {
			return Color{}, fmt.Errorf("invalid alpha %q: %w", args[3], err)
		}
		c = c.WithAlpha(a)
	}
	return c, nil
}

func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}

func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*c = parsed
	return nil
}

// Colors is either a single color applied to every element or a palette that
// is cycled by element index.
type Colors []Color

// At returns the color for element i, cycling through the palette.
func (cs Colors) At(i int) Color {
	if len(cs) == 0 {
		return DefaultColor
	}
	if i < 0 {
		i = 0
	}
	return cs[i%len(cs)]
}

func (cs *Colors) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		var c Color
		if err := n.Decode(&c); err != nil {
			return err
		}
		*cs = Colors{c}
		return nil
	}
	var list []Color
	if err := n.Decode(&list); err != nil {
		return err
	}
	*cs = list
	return nil
}
