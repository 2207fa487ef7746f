package render

import (
	"fmt"
	"image/color"
	"math"

	"acadplot/internal/palette"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Legend layout, in units of the font size.
const (
	legendBorderPad     = 0.4
	legendLabelSpacing  = 0.5
	legendHandleLength  = 2.0
	legendHandleTextPad = 0.8
	legendBorderAxesPad = 0.5
)

// LocationBest places the legend where it covers the fewest data points.
const LocationBest = "best"

// anchor is the legend position inside the data area: 0 is left/bottom,
// 1 is right/top.
type anchor struct{ x, y float64 }

// Candidate order also decides ties for LocationBest.
var locationOrder = []string{
	"upper right", "upper left", "lower left", "lower right", "right",
	"center left", "center right", "lower center", "upper center", "center",
}

var locations = map[string]anchor{
	"upper right":  {1, 1},
	"upper left":   {0, 1},
	"lower left":   {0, 0},
	"lower right":  {1, 0},
	"right":        {1, 0.5},
	"center left":  {0, 0.5},
	"center right": {1, 0.5},
	"lower center": {0.5, 0},
	"upper center": {0.5, 1},
	"center":       {0.5, 0.5},
}

// ValidLocation reports whether loc names a legend location.
func ValidLocation(loc string) bool {
	if loc == LocationBest {
		return true
	}
	_, ok := locations[loc]
	return ok
}

// Locations returns every accepted legend location.
func Locations() []string {
	return append([]string{LocationBest}, locationOrder...)
}

type legendEntry struct {
	label  string
	thumbs []plot.Thumbnailer
}

// Legend collects labelled entries in insertion order and draws them in
// one or more columns inside a semi-transparent frame.
type Legend struct {
	Location      string
	Columns       int
	ColumnSpacing float64

	TextStyle  text.Style
	FrameAlpha float64
	FrameWidth vg.Length
	EdgeColor  color.Color

	// Visible is false until the legend is built; entries are collected
	// either way.
	Visible bool

	entries []legendEntry
}

func (l *Legend) Add(label string, thumbs ...plot.Thumbnailer) {
	l.entries = append(l.entries, legendEntry{label: label, thumbs: thumbs})
}

func (l *Legend) Len() int {
	return len(l.entries)
}

// Labels returns the entry labels in legend order.
func (l *Legend) Labels() []string {
	labels := make([]string, len(l.entries))
	for i, e := range l.entries {
		labels[i] = e.label
	}
	return labels
}

// columns splits the entries column-major, giving the first columns one
// extra row when the entries do not divide evenly.
func (l *Legend) columns() [][]legendEntry {
	n := len(l.entries)
	if n == 0 {
		return nil
	}
	ncols := l.Columns
	if ncols < 1 {
		ncols = 1
	}
	if ncols > n {
		ncols = n
	}
	rows, large := n/ncols, n%ncols

	cols := make([][]legendEntry, 0, ncols)
	start := 0
	for i := 0; i < ncols; i++ {
		size := rows
		if i < large {
			size++
		}
		cols = append(cols, l.entries[start:start+size])
		start += size
	}
	return cols
}

type legendLayout struct {
	cols      [][]legendEntry
	colWidths []vg.Length
	rowHeight vg.Length
	width     vg.Length
	height    vg.Length
	em        vg.Length
}

func (l *Legend) layout() legendLayout {
	em := l.TextStyle.Font.Size
	lay := legendLayout{
		cols:      l.columns(),
		rowHeight: l.TextStyle.FontExtents().Height,
		em:        em,
	}

	rows := 0
	for _, col := range lay.cols {
		var w vg.Length
		for _, e := range col {
			w = vg.Length(math.Max(float64(w), float64(l.TextStyle.Width(e.label))))
		}
		w += (legendHandleLength + legendHandleTextPad) * em
		lay.colWidths = append(lay.colWidths, w)
		lay.width += w
		if len(col) > rows {
			rows = len(col)
		}
	}
	if n := len(lay.cols); n > 1 {
		lay.width += vg.Length(n-1) * vg.Length(l.ColumnSpacing) * em
	}
	lay.width += 2 * legendBorderPad * em

	lay.height = vg.Length(rows)*lay.rowHeight + 2*legendBorderPad*em
	if rows > 1 {
		lay.height += vg.Length(rows-1) * legendLabelSpacing * em
	}
	return lay
}

// box returns the legend frame for a location inside the data canvas.
func (l *Legend) box(c draw.Canvas, lay legendLayout, loc string) (vg.Rectangle, error) {
	a, ok := locations[loc]
	if !ok {
		return vg.Rectangle{}, fmt.Errorf("%w: %q", ErrUnknownLocation, loc)
	}
	pad := legendBorderAxesPad * lay.em
	freeX := c.Max.X - c.Min.X - 2*pad - lay.width
	freeY := c.Max.Y - c.Min.Y - 2*pad - lay.height
	origin := vg.Point{
		X: c.Min.X + pad + vg.Length(a.x)*freeX,
		Y: c.Min.Y + pad + vg.Length(a.y)*freeY,
	}
	return vg.Rectangle{Min: origin, Max: vg.Point{X: origin.X + lay.width, Y: origin.Y + lay.height}}, nil
}

// bestLocation picks the candidate covering the fewest points.
func (l *Legend) bestLocation(c draw.Canvas, lay legendLayout, points []vg.Point) string {
	best, bestCount := locationOrder[0], math.MaxInt
	for _, loc := range locationOrder {
		r, _ := l.box(c, lay, loc)
		count := 0
		for _, pt := range points {
			if pt.X >= r.Min.X && pt.X <= r.Max.X && pt.Y >= r.Min.Y && pt.Y <= r.Max.Y {
				count++
			}
		}
		if count < bestCount {
			best, bestCount = loc, count
		}
	}
	return best
}

// Draw draws the legend into the data canvas c. points are the data
// points in canvas coordinates, used to resolve LocationBest.
func (l *Legend) Draw(c draw.Canvas, points []vg.Point) error {
	if !l.Visible || len(l.entries) == 0 {
		return nil
	}
	lay := l.layout()

	loc := l.Location
	if loc == "" || loc == LocationBest {
		loc = l.bestLocation(c, lay, points)
	}
	frame, err := l.box(c, lay, loc)
	if err != nil {
		return err
	}

	outline := []vg.Point{
		frame.Min,
		{X: frame.Max.X, Y: frame.Min.Y},
		frame.Max,
		{X: frame.Min.X, Y: frame.Max.Y},
		frame.Min,
	}
	c.FillPolygon(frameColor(color.White, l.FrameAlpha), outline[:4])
	c.StrokeLines(draw.LineStyle{Color: frameColor(l.EdgeColor, l.FrameAlpha), Width: l.FrameWidth}, outline)

	sty := l.TextStyle
	sty.XAlign = draw.XLeft
	sty.YAlign = draw.YCenter

	em := lay.em
	x := frame.Min.X + legendBorderPad*em
	for i, col := range lay.cols {
		top := frame.Max.Y - legendBorderPad*em
		for _, e := range col {
			icon := draw.Canvas{
				Canvas: c.Canvas,
				Rectangle: vg.Rectangle{
					Min: vg.Point{X: x, Y: top - lay.rowHeight},
					Max: vg.Point{X: x + legendHandleLength*em, Y: top},
				},
			}
			for _, t := range e.thumbs {
				t.Thumbnail(&icon)
			}
			textX := x + (legendHandleLength+legendHandleTextPad)*em
			c.FillText(sty, vg.Point{X: textX, Y: top - lay.rowHeight/2}, e.label)
			top -= lay.rowHeight + legendLabelSpacing*em
		}
		x += lay.colWidths[i] + vg.Length(l.ColumnSpacing)*em
	}
	return nil
}

func frameColor(c color.Color, alpha float64) color.Color {
	if c == nil {
		c = color.Gray{Y: 0xcc}
	}
	return palette.WithAlpha(palette.FromColor(c), alpha).NRGBA()
}
