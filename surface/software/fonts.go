package software

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"git.sr.ht/~whereswaldon/chartmaster/chart"
)

const faceCacheSize = 32

// faceKey identifies a sized face. Sizes are rounded to quarter pixels so
// that nearly equal sizes share a face.
type faceKey struct {
	quarterPx int
	bold      bool
}

// Fonts measures and draws text with the Go fonts. When the fonts cannot be
// parsed every size falls back to a 7×13 bitmap face.
type Fonts struct {
	regular *opentype.Font
	bold    *opentype.Font
	faces   *lru.Cache[faceKey, font.Face]
}

// NewFonts parses the embedded Go fonts.
func NewFonts() (*Fonts, error) {
	faces, err := lru.New[faceKey, font.Face](faceCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating face cache: %w", err)
	}
	f := &Fonts{faces: faces}
	if f.regular, err = opentype.Parse(goregular.TTF); err != nil {
		return nil, fmt.Errorf("parsing regular font: %w", err)
	}
	if f.bold, err = opentype.Parse(gobold.TTF); err != nil {
		return nil, fmt.Errorf("parsing bold font: %w", err)
	}
	return f, nil
}

// BitmapFonts returns Fonts that only use the fixed bitmap face.
func BitmapFonts() *Fonts {
	faces, _ := lru.New[faceKey, font.Face](1)
	return &Fonts{faces: faces}
}

func (f *Fonts) face(cf chart.Font) (font.Face, error) {
	key := faceKey{quarterPx: int(math.Round(cf.Size * 4)), bold: cf.Bold}
	if face, ok := f.faces.Get(key); ok {
		return face, nil
	}
	src := f.regular
	if cf.Bold {
		src = f.bold
	}
	if src == nil || key.quarterPx <= 0 {
		return basicfont.Face7x13, nil
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    float64(key.quarterPx) / 4,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("sizing font at %vpx: %w", cf.Size, err)
	}
	f.faces.Add(key, face)
	return face, nil
}

// Measure returns the advance width and vertical extent of s.
func (f *Fonts) Measure(s string, cf chart.Font) (chart.TextMetrics, error) {
	face, err := f.face(cf)
	if err != nil {
		return chart.TextMetrics{}, err
	}
	m := face.Metrics()
	return chart.TextMetrics{
		Width:   toFloat(font.MeasureString(face, s)),
		Ascent:  toFloat(m.Ascent),
		Descent: toFloat(m.Descent),
	}, nil
}

// Draw paints s onto dst with its vertical middle at y.
func (f *Fonts) Draw(dst draw.Image, s string, x, y float64, cf chart.Font, c color.NRGBA, anchor chart.TextAnchor) {
	if s == "" {
		return
	}
	face, err := f.face(cf)
	if err != nil {
		return
	}
	m := face.Metrics()
	w := toFloat(font.MeasureString(face, s))
	switch anchor {
	case chart.AnchorMiddle:
		x -= w / 2
	case chart.AnchorEnd:
		x -= w
	}
	baseline := y + (toFloat(m.Ascent)-toFloat(m.Descent))/2
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fromFloat(x), Y: fromFloat(baseline)},
	}
	d.DrawString(s)
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func fromFloat(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
