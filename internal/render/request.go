package render

import (
	"fmt"

	"gonum.org/v1/plot/vg"
)

const (
	DefaultFontSize      = 6.0
	DefaultWidth         = 3.0
	DefaultHeight        = 2.0
	DefaultColumnSpacing = 0.5
	DefaultOutput        = "plot.pdf"
)

// Request describes one plot. Width and Height are in inches, FontSize in
// points and ColumnSpacing in font-size units. A nil tick slice keeps the
// automatic ticks; a nil start leaves the lower bound to the data.
type Request struct {
	Series []Series
	Legend string

	Width, Height  float64
	XLabel, YLabel string
	XTicks, YTicks []float64
	XStart, YStart *float64

	FontSize      float64
	LegendColumns int
	ColumnSpacing float64

	// Output is the destination file. Empty means the figure is only
	// returned.
	Output string

	// Figure, when set, is drawn on instead of a new figure.
	Figure *Figure
	// Style overrides the process default for a new figure.
	Style *Style
}

// DefaultRequest returns a request carrying every default value.
func DefaultRequest() Request {
	return Request{
		Legend:        LocationBest,
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		XLabel:        "x-label",
		YLabel:        "y-label",
		FontSize:      DefaultFontSize,
		LegendColumns: 1,
		ColumnSpacing: DefaultColumnSpacing,
		Output:        DefaultOutput,
	}
}

// withDefaults fills zero numeric fields. Labels and Output are left
// as given: empty is meaningful for both.
func (r Request) withDefaults() Request {
	if r.Width <= 0 {
		r.Width = DefaultWidth
	}
	if r.Height <= 0 {
		r.Height = DefaultHeight
	}
	if r.FontSize <= 0 {
		r.FontSize = DefaultFontSize
	}
	if r.LegendColumns < 1 {
		r.LegendColumns = 1
	}
	if r.ColumnSpacing <= 0 {
		r.ColumnSpacing = DefaultColumnSpacing
	}
	if r.Legend == "" {
		r.Legend = LocationBest
	}
	return r
}

// RenderPlot draws every series of req with grid and legend. When
// req.Output is set the figure is written there; otherwise nothing
// touches the filesystem. The figure is returned either way.
func RenderPlot(req Request) (*Figure, error) {
	req = req.withDefaults()
	if !ValidLocation(req.Legend) {
		return nil, fmt.Errorf("legend location %q: %w", req.Legend, ErrUnknownLocation)
	}

	fig := req.Figure
	if fig == nil {
		style := CurrentStyle()
		if req.Style != nil {
			style = *req.Style
		}
		fig = NewFigure(style, vg.Length(req.Width)*vg.Inch, vg.Length(req.Height)*vg.Inch)
	}

	fig.SetFontSize(req.FontSize)
	fig.SetLabels(req.XLabel, req.YLabel)
	fig.ShowGrid()

	for i, s := range req.Series {
		if err := DrawSeries(fig, s.X, s.Y, s.Color, s.Marker, s.Label); err != nil {
			return nil, fmt.Errorf("failed to draw series %d: %w", i, err)
		}
	}

	lg := fig.legend
	lg.Location = req.Legend
	lg.Columns = req.LegendColumns
	lg.ColumnSpacing = req.ColumnSpacing
	lg.Visible = true

	if req.XTicks != nil {
		fig.SetTicks(XAxis, req.XTicks)
	}
	if req.YTicks != nil {
		fig.SetTicks(YAxis, req.YTicks)
	}
	if req.XStart != nil {
		fig.SetStart(XAxis, req.XStart)
	}
	if req.YStart != nil {
		fig.SetStart(YAxis, req.YStart)
	}

	if req.Output == "" {
		return fig, nil
	}
	if err := fig.Save(req.Output); err != nil {
		return nil, err
	}
	return fig, nil
}
