package render

import (
	"fmt"

	"acadplot/internal/glyph"
	"acadplot/internal/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Series is one labelled line of a plot request.
type Series struct {
	X, Y   []float64
	Color  palette.Selector
	Marker palette.Selector
	Label  string
}

// DrawSeries draws x against y on fig as a thin line with markers and
// registers label in the figure's legend. The marker face is the line
// color at the style's face alpha; the edge is the opaque color.
func DrawSeries(fig *Figure, x, y []float64, color, marker palette.Selector, label string) error {
	if len(x) != len(y) {
		return fmt.Errorf("series %q: %d x values, %d y values: %w", label, len(x), len(y), ErrLengthMismatch)
	}
	c, err := palette.ResolveColor(color)
	if err != nil {
		return fmt.Errorf("series %q: %w", label, err)
	}
	m, err := palette.ResolveMarker(marker)
	if err != nil {
		return fmt.Errorf("series %q: %w", label, err)
	}
	shape, err := glyph.Lookup(m.Glyph)
	if err != nil {
		return fmt.Errorf("series %q: %w", label, err)
	}

	xys := make(plotter.XYs, len(x))
	for i := range x {
		xys[i].X, xys[i].Y = x[i], y[i]
	}
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("failed to build series %q: %w", label, err)
	}

	style := fig.style
	line.LineStyle = draw.LineStyle{Color: c.Color, Width: style.LineWidth}
	points.GlyphStyle = draw.GlyphStyle{
		Color:  c.Color,
		Radius: vg.Points(m.Size / 2),
		Shape: glyph.Marker{
			Shape:     shape,
			Face:      palette.WithAlpha(c.RGBA(), style.MarkerFaceAlpha).NRGBA(),
			EdgeWidth: style.MarkerEdgeWidth,
		},
	}

	fig.plot.Add(line, points)
	fig.addData(xys)
	fig.legend.Add(label, line, points)
	return nil
}
