package render

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	stdfnt "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// SerifFont is the typeface used for all figure text.
var SerifFont = font.Font{Typeface: "Latin Modern", Variant: "Serif"}

// Style holds the drawing defaults shared by every figure. It is a plain
// value: figures copy it on creation, so changing a Style after a figure was
// created has no effect on that figure.
type Style struct {
	Font font.Font

	// Latex selects LaTeX text rendering (math between $...$) for labels,
	// tick labels and legend entries.
	Latex bool

	AxisWidth      vg.Length
	MajorTickWidth vg.Length
	TickLength     vg.Length

	LineWidth       vg.Length
	MarkerEdgeWidth vg.Length
	MarkerFaceAlpha float64

	GridColor  color.Color
	GridWidth  vg.Length
	GridDashes []vg.Length

	LegendFrameAlpha float64
	LegendFrameWidth vg.Length
	LegendEdgeColor  color.Color

	// Margin is the fraction of the data span added on each unclamped side.
	Margin float64
	// TightPad is the figure border in units of the font size.
	TightPad float64
	DPI      int
}

func DefaultStyle() Style {
	return Style{
		Font:             SerifFont,
		Latex:            true,
		AxisWidth:        vg.Points(0.5),
		MajorTickWidth:   vg.Points(0.5),
		TickLength:       vg.Points(3.5),
		LineWidth:        vg.Points(0.3),
		MarkerEdgeWidth:  vg.Points(0.5),
		MarkerFaceAlpha:  0.3,
		GridColor:        color.NRGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff},
		GridWidth:        vg.Points(0.3),
		GridDashes:       []vg.Length{vg.Points(5), vg.Points(5)},
		LegendFrameAlpha: 0.6,
		LegendFrameWidth: vg.Points(0.2),
		LegendEdgeColor:  color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff},
		Margin:           0.05,
		TightPad:         0.2,
		DPI:              300,
	}
}

var (
	styleMu sync.RWMutex
	current = DefaultStyle()

	fontsOnce sync.Once
	fonts     *font.Cache
	pdfFaces  map[*opentype.Font]font.Face
)

// ConfigureStyle installs s as the process default: figures created without
// an explicit style use it, and gonum/plot's package defaults are pointed at
// the same font and text handler. Calling it repeatedly with the same style
// is harmless.
func ConfigureStyle(s Style) {
	styleMu.Lock()
	defer styleMu.Unlock()

	current = s
	plot.DefaultFont = s.Font
	plot.DefaultTextHandler = s.TextHandler()
	plotter.DefaultLineStyle.Width = s.LineWidth
	plotter.DefaultGridLineStyle = s.gridLine()
}

// CurrentStyle returns the style installed by ConfigureStyle, or
// DefaultStyle if it was never called.
func CurrentStyle() Style {
	styleMu.RLock()
	defer styleMu.RUnlock()
	return current
}

// Fonts returns the font cache holding Latin Modern Roman, with the
// Liberation fonts as fallback for other typefaces.
func Fonts() *font.Cache {
	loadFonts()
	return fonts
}

func loadFonts() {
	fontsOnce.Do(func() {
		lm := latinModern()
		fonts = font.NewCache(lm)
		fonts.Add(liberation.Collection())
		pdfFaces = trueTypeSubstitutes(lm, liberation.Collection())
	})
}

// pdfFace returns the TrueType face drawn in place of face in PDF output.
// vgpdf embeds TrueType outlines only and the Latin Modern faces are CFF.
func pdfFace(face *opentype.Font) (font.Face, bool) {
	loadFonts()
	sub, ok := pdfFaces[face]
	return sub, ok
}

// trueTypeSubstitutes maps every face of coll to the serif face of lib with
// the same style and weight.
func trueTypeSubstitutes(coll, lib font.Collection) map[*opentype.Font]font.Face {
	out := make(map[*opentype.Font]font.Face, len(coll))
	for _, f := range coll {
		for _, l := range lib {
			if l.Font.Variant != "Serif" || l.Font.Style != f.Font.Style || l.Font.Weight != f.Font.Weight {
				continue
			}
			// vgpdf registers a face under its name and selects it again
			// with a style suffix, so style and weight go into the variant.
			out[f.Face] = font.Face{
				Font: font.Font{Typeface: l.Font.Typeface, Variant: faceVariant(l.Font)},
				Face: l.Face,
			}
		}
	}
	return out
}

func faceVariant(f font.Font) font.Variant {
	v := f.Variant
	if f.Weight == stdfnt.WeightBold {
		v += "Bold"
	}
	if f.Style == stdfnt.StyleItalic {
		v += "Italic"
	}
	return v
}

func latinModern() font.Collection {
	faces := []struct {
		style  stdfnt.Style
		weight stdfnt.Weight
		ttf    []byte
	}{
		{stdfnt.StyleNormal, stdfnt.WeightNormal, lmroman10regular.TTF},
		{stdfnt.StyleItalic, stdfnt.WeightNormal, lmroman10italic.TTF},
		{stdfnt.StyleNormal, stdfnt.WeightBold, lmroman10bold.TTF},
		{stdfnt.StyleItalic, stdfnt.WeightBold, lmroman10bolditalic.TTF},
	}

	var coll font.Collection
	for _, f := range faces {
		face, err := opentype.Parse(f.ttf)
		if err != nil {
			panic(fmt.Errorf("render: could not parse Latin Modern font: %w", err))
		}
		fnt := SerifFont
		fnt.Style = f.style
		fnt.Weight = f.weight
		coll = append(coll, font.Face{Font: fnt, Face: face})
	}
	return coll
}

// TextHandler returns the gonum text handler for the style.
func (s Style) TextHandler() text.Handler {
	if s.Latex {
		return text.Latex{Fonts: Fonts()}
	}
	return text.Plain{Fonts: Fonts()}
}

func (s Style) gridLine() draw.LineStyle {
	return draw.LineStyle{
		Color:  s.GridColor,
		Width:  s.GridWidth,
		Dashes: s.GridDashes,
	}
}

func (s Style) textStyle(size float64) text.Style {
	return text.Style{
		Color:   color.Black,
		Font:    font.From(s.Font, vg.Points(size)),
		Handler: s.TextHandler(),
	}
}

// apply sets fonts, handlers and line widths on p.
func (s Style) apply(p *plot.Plot, fontSize float64) {
	hdlr := s.TextHandler()
	size := vg.Points(fontSize)

	p.TextHandler = hdlr
	p.Title.TextStyle.Handler = hdlr
	p.Title.TextStyle.Font = font.From(s.Font, size)

	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Label.TextStyle.Handler = hdlr
		ax.Label.TextStyle.Font = font.From(s.Font, size)
		ax.Label.Padding = size / 2
		ax.Tick.Label.Handler = hdlr
		ax.Tick.Label.Font = font.From(s.Font, size)
		ax.LineStyle.Width = s.AxisWidth
		ax.Tick.LineStyle.Width = s.MajorTickWidth
		ax.Tick.Length = s.TickLength
		ax.Padding = 0
	}
}

// majorTicks is plot.DefaultTicks without the unlabelled minor ticks.
type majorTicks struct{}

func (majorTicks) Ticks(min, max float64) []plot.Tick {
	var out []plot.Tick
	for _, t := range (plot.DefaultTicks{}).Ticks(min, max) {
		if !t.IsMinor() {
			out = append(out, t)
		}
	}
	return out
}
