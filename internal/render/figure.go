package render

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Axis selects the horizontal or vertical axis of a figure.
type Axis int

const (
	XAxis Axis = iota
	YAxis
)

func (a Axis) String() string {
	if a == YAxis {
		return "y"
	}
	return "x"
}

// axisState is what the figure needs to recompute an axis range: the span
// of the drawn data, tick overrides and the lower clamp.
type axisState struct {
	dataMin, dataMax float64
	ticks            []float64
	start            *float64
}

// Figure is a drawing surface: one plot area with its legend. It is
// created by NewFigure or RenderPlot and can be filled by several calls
// before it is saved, or handed to a Grid as one of its panels.
type Figure struct {
	style    Style
	width    vg.Length
	height   vg.Length
	fontSize float64

	plot   *plot.Plot
	legend *Legend
	grid   *plotter.Grid

	axes   [2]axisState
	series []plotter.XYs
}

// NewFigure returns an empty figure of the given size.
func NewFigure(style Style, width, height vg.Length) *Figure {
	f := &Figure{
		style:  style,
		width:  width,
		height: height,
		plot:   plot.New(),
		legend: &Legend{
			Columns:       1,
			ColumnSpacing: DefaultColumnSpacing,
			FrameAlpha:    style.LegendFrameAlpha,
			FrameWidth:    style.LegendFrameWidth,
			EdgeColor:     style.LegendEdgeColor,
		},
	}
	f.plot.X.Tick.Marker = majorTicks{}
	f.plot.Y.Tick.Marker = majorTicks{}
	for i := range f.axes {
		f.axes[i].dataMin = math.Inf(+1)
		f.axes[i].dataMax = math.Inf(-1)
	}
	f.updateRange(XAxis)
	f.updateRange(YAxis)
	f.SetFontSize(DefaultFontSize)
	return f
}

// SetFontSize applies size (points) to axis labels, tick labels and the
// legend.
func (f *Figure) SetFontSize(size float64) {
	f.fontSize = size
	f.style.apply(f.plot, size)
	f.legend.TextStyle = f.style.textStyle(size)
}

func (f *Figure) Style() Style           { return f.style }
func (f *Figure) Plot() *plot.Plot       { return f.plot }
func (f *Figure) Legend() *Legend        { return f.legend }
func (f *Figure) FontSize() float64      { return f.fontSize }
func (f *Figure) Size() (w, h vg.Length) { return f.width, f.height }

// LegendLabels returns the labels registered so far, in drawing order.
func (f *Figure) LegendLabels() []string {
	return f.legend.Labels()
}

func (f *Figure) axis(a Axis) *plot.Axis {
	if a == YAxis {
		return &f.plot.Y
	}
	return &f.plot.X
}

// SetLabels sets the axis label texts.
func (f *Figure) SetLabels(x, y string) {
	f.plot.X.Label.Text = x
	f.plot.Y.Label.Text = y
}

// SetTicks replaces the automatic ticks of an axis with exactly the given
// positions. A nil slice restores automatic ticks.
func (f *Figure) SetTicks(a Axis, ticks []float64) {
	ax := f.axis(a)
	if ticks == nil {
		f.axes[a].ticks = nil
		ax.Tick.Marker = majorTicks{}
		f.updateRange(a)
		return
	}
	f.axes[a].ticks = append([]float64(nil), ticks...)
	marks := make(plot.ConstantTicks, len(ticks))
	for i, v := range ticks {
		marks[i] = plot.Tick{Value: v, Label: formatTick(v)}
	}
	ax.Tick.Marker = marks
	f.updateRange(a)
}

// SetStart clamps the lower bound of an axis. nil removes the clamp.
// A start above both the data and the ticks is kept as given, so the axis
// runs from start down to the upper limit and shows no ticks.
func (f *Figure) SetStart(a Axis, start *float64) {
	if start != nil {
		v := *start
		start = &v
	}
	f.axes[a].start = start
	f.updateRange(a)
}

// Ticks returns the major tick positions the axis will draw.
func (f *Figure) Ticks(a Axis) []float64 {
	ax := f.axis(a)
	var out []float64
	for _, t := range ax.Tick.Marker.Ticks(ax.Min, ax.Max) {
		if t.IsMinor() || t.Value < ax.Min || t.Value > ax.Max {
			continue
		}
		out = append(out, t.Value)
	}
	return out
}

// Range returns the current limits of an axis.
func (f *Figure) Range(a Axis) (lo, hi float64) {
	ax := f.axis(a)
	return ax.Min, ax.Max
}

// ShowGrid adds the dashed grid once; later calls are no-ops.
func (f *Figure) ShowGrid() {
	if f.grid != nil {
		return
	}
	f.grid = plotter.NewGrid()
	f.grid.Vertical = f.style.gridLine()
	f.grid.Horizontal = f.style.gridLine()
	f.plot.Add(f.grid)
}

func (f *Figure) addData(xys plotter.XYs) {
	f.series = append(f.series, xys)
	for _, p := range xys {
		f.axes[XAxis].extend(p.X)
		f.axes[YAxis].extend(p.Y)
	}
	f.updateRange(XAxis)
	f.updateRange(YAxis)
}

func (s *axisState) extend(v float64) {
	s.dataMin = math.Min(s.dataMin, v)
	s.dataMax = math.Max(s.dataMax, v)
}

// updateRange recomputes an axis range: data span plus margins, widened
// to include tick overrides, then the lower clamp.
func (f *Figure) updateRange(a Axis) {
	st := f.axes[a]
	lo, hi := st.dataMin, st.dataMax
	if lo > hi {
		lo, hi = 0, 1
	}
	span := hi - lo
	if span == 0 {
		span = math.Max(math.Abs(lo), 1)
	}
	if st.start == nil {
		lo -= f.style.Margin * span
	}
	hi += f.style.Margin * span

	for _, t := range st.ticks {
		lo = math.Min(lo, t)
		hi = math.Max(hi, t)
	}
	if st.start != nil {
		lo = *st.start
	}

	ax := f.axis(a)
	ax.Min, ax.Max = lo, hi
}

// Draw draws the figure into c, leaving the tight-layout border free.
func (f *Figure) Draw(c draw.Canvas) error {
	pad := vg.Length(f.style.TightPad) * vg.Points(f.fontSize)
	c = draw.Crop(c, pad, -pad, pad, -pad)

	f.plot.Draw(c)

	dc := f.plot.DataCanvas(c)
	trX, trY := f.plot.Transforms(&dc)
	var pts []vg.Point
	for _, xys := range f.series {
		for _, p := range xys {
			pts = append(pts, vg.Point{X: trX(p.X), Y: trY(p.Y)})
		}
	}
	return f.legend.Draw(dc, pts)
}

// Encode renders the figure in the given format ("png", "pdf", ...).
func (f *Figure) Encode(format string) ([]byte, error) {
	var drawErr error
	data, err := encode(format, f.width, f.height, f.style.DPI, func(c draw.Canvas) {
		drawErr = f.Draw(c)
	})
	if err != nil {
		return nil, err
	}
	if drawErr != nil {
		return nil, drawErr
	}
	return data, nil
}

// Save renders the figure and writes it to path, creating missing parent
// directories. The format follows the file extension; raster formats use
// the style's DPI.
func (f *Figure) Save(path string) error {
	data, err := f.Encode(FormatOf(path))
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return writeFile(path, data)
}

func formatTick(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
