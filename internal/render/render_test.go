package render

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"acadplot/internal/palette"
	stdfnt "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/recorder"
)

func threeSeries() []Series {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	return []Series{
		{X: x, Y: []float64{1, 4, 9, 16, 25, 36, 49, 64}, Color: palette.ByName("blue"), Marker: palette.ByName("circle"), Label: "quadratic"},
		{X: x, Y: []float64{1, 2, 3, 4, 5, 6, 7, 8}, Color: palette.ByIndex(1), Marker: palette.ByIndex(0), Label: "linear"},
		{X: x, Y: []float64{2, 2, 2, 2, 2, 2, 2, 2}, Color: palette.ByName("red"), Marker: palette.ByName("plus"), Label: "constant"},
	}
}

// inTempDir runs the test from an empty directory and returns it.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files in %s, found %d", dir, len(entries))
	}
}

func TestRenderPlot_NoOutputWritesNothing(t *testing.T) {
	dir := inTempDir(t)

	req := DefaultRequest()
	req.Series = threeSeries()
	req.Legend = "upper left"
	req.Output = ""

	fig, err := RenderPlot(req)
	if err != nil {
		t.Fatalf("RenderPlot failed: %v", err)
	}
	want := []string{"quadratic", "linear", "constant"}
	got := fig.LegendLabels()
	if len(got) != len(want) {
		t.Fatalf("expected %d legend entries, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("legend entry %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	assertEmptyDir(t, dir)
}

func TestRenderPlot_CreatesOutputDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out", "sub", "plot.png")

	req := DefaultRequest()
	req.Series = threeSeries()
	req.Output = out

	if _, err := RenderPlot(req); err != nil {
		t.Fatalf("RenderPlot failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("output is not a PNG")
	}

	// Second render into the same existing directory.
	if _, err := RenderPlot(req); err != nil {
		t.Fatalf("second RenderPlot failed: %v", err)
	}
}

func TestRenderPlot_TickOverride(t *testing.T) {
	req := DefaultRequest()
	req.Series = threeSeries()
	req.Output = ""
	req.XTicks = []float64{0, 5, 10}

	fig, err := RenderPlot(req)
	if err != nil {
		t.Fatalf("RenderPlot failed: %v", err)
	}
	got := fig.Ticks(XAxis)
	want := []float64{0, 5, 10}
	if len(got) != len(want) {
		t.Fatalf("expected ticks %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected ticks %v, got %v", want, got)
		}
	}
	if len(fig.Ticks(YAxis)) == 0 {
		t.Fatalf("expected automatic y ticks")
	}
}

func TestRenderPlot_StartClamp(t *testing.T) {
	start := 0.0
	req := DefaultRequest()
	req.Series = threeSeries()
	req.Output = ""
	req.YStart = &start

	fig, err := RenderPlot(req)
	if err != nil {
		t.Fatalf("RenderPlot failed: %v", err)
	}
	lo, hi := fig.Range(YAxis)
	if lo != 0 {
		t.Fatalf("expected y to start at 0, got %v", lo)
	}
	if hi < 64 {
		t.Fatalf("expected y max above data, got %v", hi)
	}
	if xlo, _ := fig.Range(XAxis); xlo >= 1 {
		t.Fatalf("expected x margin below first value, got %v", xlo)
	}
}

func TestRenderPlot_StartAboveData(t *testing.T) {
	start := 20.0
	req := DefaultRequest()
	req.Series = threeSeries()
	req.Output = ""
	req.XTicks = []float64{0, 5, 10}
	req.XStart = &start

	fig, err := RenderPlot(req)
	if err != nil {
		t.Fatalf("RenderPlot failed: %v", err)
	}
	lo, hi := fig.Range(XAxis)
	if lo != 20 || hi != 10 {
		t.Fatalf("expected inverted range [20,10], got [%v,%v]", lo, hi)
	}
	if ticks := fig.Ticks(XAxis); len(ticks) != 0 {
		t.Fatalf("expected no visible ticks, got %v", ticks)
	}
}

func TestRenderPlot_LengthMismatch(t *testing.T) {
	dir := inTempDir(t)

	req := DefaultRequest()
	req.Output = "plot.pdf"
	req.Series = []Series{{
		X:      []float64{1, 2, 3},
		Y:      []float64{1, 2},
		Color:  palette.ByIndex(0),
		Marker: palette.ByIndex(0),
		Label:  "broken",
	}}

	_, err := RenderPlot(req)
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	assertEmptyDir(t, dir)
}

func TestRenderPlot_LookupFailures(t *testing.T) {
	tests := []struct {
		name  string
		color palette.Selector
		want  error
	}{
		{"unknown name", palette.ByName("chartreuse"), palette.ErrKeyNotFound},
		{"index past end", palette.ByIndex(palette.NumColors()), palette.ErrIndexOutOfRange},
		{"negative index", palette.ByIndex(-1), palette.ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := DefaultRequest()
			req.Output = ""
			req.Series = []Series{{
				X: []float64{1}, Y: []float64{1},
				Color: tt.color, Marker: palette.ByIndex(0), Label: "x",
			}}
			_, err := RenderPlot(req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRenderPlot_UnknownLocation(t *testing.T) {
	req := DefaultRequest()
	req.Output = ""
	req.Series = threeSeries()
	req.Legend = "top middle"

	if _, err := RenderPlot(req); !errors.Is(err, ErrUnknownLocation) {
		t.Fatalf("expected ErrUnknownLocation, got %v", err)
	}
}

func TestRenderPlot_IOError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("file"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	req := DefaultRequest()
	req.Series = threeSeries()
	req.Output = filepath.Join(blocker, "plot.png")

	_, err := RenderPlot(req)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	var ioErr *IOError
	if !errors.As(err, &ioErr) || ioErr.Op != "mkdir" {
		t.Fatalf("expected mkdir IOError, got %v", err)
	}
}

func TestRenderPlot_ReuseFigure(t *testing.T) {
	fig := NewFigure(DefaultStyle(), 3*vg.Inch, 2*vg.Inch)

	req := DefaultRequest()
	req.Output = ""
	req.Figure = fig
	req.Series = threeSeries()[:1]

	if _, err := RenderPlot(req); err != nil {
		t.Fatalf("first RenderPlot failed: %v", err)
	}
	lo1, hi1 := fig.Range(XAxis)
	grid := fig.grid

	req.Series = threeSeries()[1:2]
	got, err := RenderPlot(req)
	if err != nil {
		t.Fatalf("second RenderPlot failed: %v", err)
	}
	if got != fig {
		t.Fatalf("expected the given figure to be returned")
	}
	if fig.grid != grid {
		t.Fatalf("grid added twice")
	}
	if lo2, hi2 := fig.Range(XAxis); lo2 != lo1 || hi2 != hi1 {
		t.Fatalf("x range changed from [%v,%v] to [%v,%v]", lo1, hi1, lo2, hi2)
	}
	if n := fig.Legend().Len(); n != 2 {
		t.Fatalf("expected 2 legend entries, got %d", n)
	}
}

func TestFigure_EncodePDF(t *testing.T) {
	req := DefaultRequest()
	req.Output = ""
	req.Series = threeSeries()
	req.LegendColumns = 2

	fig, err := RenderPlot(req)
	if err != nil {
		t.Fatalf("RenderPlot failed: %v", err)
	}
	data, err := fig.Encode("pdf")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected PDF output")
	}
}

func TestRenderPlot_DefaultPDFOutput(t *testing.T) {
	for _, latex := range []bool{true, false} {
		style := DefaultStyle()
		style.Latex = latex

		req := DefaultRequest()
		req.Series = threeSeries()
		req.XLabel = "$x$ (italic)"
		req.Style = &style
		req.Output = filepath.Join(t.TempDir(), DefaultOutput)

		if _, err := RenderPlot(req); err != nil {
			t.Fatalf("RenderPlot(latex=%v) failed: %v", latex, err)
		}
		data, err := os.ReadFile(req.Output)
		if err != nil {
			t.Fatalf("expected %s to be written: %v", req.Output, err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF")) {
			t.Fatalf("expected PDF output for latex=%v", latex)
		}
	}
}

func TestPDFFace_SubstitutesEveryFigureFace(t *testing.T) {
	names := make(map[string]bool)
	for _, f := range latinModernFaces(t) {
		sub, ok := pdfFace(f)
		if !ok {
			t.Fatalf("expected a TrueType substitute for every Latin Modern face")
		}
		names[sub.Name()] = true
	}
	if len(names) != 4 {
		t.Fatalf("expected 4 distinct substitute names, got %v", names)
	}
}

func latinModernFaces(t *testing.T) []*opentype.Font {
	t.Helper()
	var out []*opentype.Font
	for _, sty := range []stdfnt.Style{stdfnt.StyleNormal, stdfnt.StyleItalic} {
		for _, w := range []stdfnt.Weight{stdfnt.WeightNormal, stdfnt.WeightBold} {
			fnt := SerifFont
			fnt.Style = sty
			fnt.Weight = w
			if !Fonts().Has(fnt) {
				t.Fatalf("font cache is missing %v", fnt)
			}
			out = append(out, Fonts().Lookup(fnt, vg.Points(6)).Face)
		}
	}
	return out
}

func TestConfigureStyle_Idempotent(t *testing.T) {
	defer ConfigureStyle(DefaultStyle())

	s := DefaultStyle()
	s.DPI = 150
	ConfigureStyle(s)
	ConfigureStyle(s)

	if got := CurrentStyle(); got.DPI != 150 || !got.Latex {
		t.Fatalf("unexpected current style: %+v", got)
	}
	if plot.DefaultFont != SerifFont {
		t.Fatalf("expected default font %v, got %v", SerifFont, plot.DefaultFont)
	}
}

func TestLegend_Columns(t *testing.T) {
	l := &Legend{Columns: 2}
	for _, label := range []string{"a", "b", "c", "d", "e"} {
		l.Add(label)
	}
	cols := l.columns()
	if len(cols) != 2 || len(cols[0]) != 3 || len(cols[1]) != 2 {
		t.Fatalf("unexpected column split: %v", cols)
	}
	if cols[1][0].label != "d" {
		t.Fatalf("expected column-major order, got %q first in column 2", cols[1][0].label)
	}

	l.Columns = 10
	if n := len(l.columns()); n != 5 {
		t.Fatalf("expected columns capped at entry count, got %d", n)
	}
}

func TestLegend_BestAvoidsData(t *testing.T) {
	l := &Legend{Columns: 1, TextStyle: DefaultStyle().textStyle(DefaultFontSize), Visible: true}
	l.Add("entry")

	c := draw.Canvas{
		Canvas:    &recorder.Canvas{},
		Rectangle: vg.Rectangle{Max: vg.Point{X: 200, Y: 200}},
	}
	var pts []vg.Point
	for i := 0; i < 20; i++ {
		pts = append(pts, vg.Point{X: 170 + vg.Length(i), Y: 170 + vg.Length(i)})
	}
	lay := l.layout()
	if loc := l.bestLocation(c, lay, pts); loc == "upper right" {
		t.Fatalf("expected legend away from the data, got %q", loc)
	}
	if loc := l.bestLocation(c, lay, nil); loc != "upper right" {
		t.Fatalf("expected first candidate without data, got %q", loc)
	}
}

func TestLegend_DrawUnknownLocation(t *testing.T) {
	l := &Legend{Location: "nowhere", TextStyle: DefaultStyle().textStyle(DefaultFontSize), Visible: true}
	l.Add("entry")
	c := draw.Canvas{
		Canvas:    &recorder.Canvas{},
		Rectangle: vg.Rectangle{Max: vg.Point{X: 200, Y: 200}},
	}
	if err := l.Draw(c, nil); !errors.Is(err, ErrUnknownLocation) {
		t.Fatalf("expected ErrUnknownLocation, got %v", err)
	}
}

func TestGrid_Save(t *testing.T) {
	g, err := NewGrid(DefaultStyle(), 1, 2, 6*vg.Inch, 2*vg.Inch)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	for c := 0; c < 2; c++ {
		req := DefaultRequest()
		req.Output = ""
		req.Figure = g.Panel(0, c)
		req.Series = threeSeries()[c : c+1]
		if _, err := RenderPlot(req); err != nil {
			t.Fatalf("panel %d: %v", c, err)
		}
	}
	if g.Panel(1, 0) != nil {
		t.Fatalf("expected nil outside the grid")
	}

	out := filepath.Join(t.TempDir(), "grid.svg")
	if err := g.Save(out); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected grid file: %v", err)
	}
}

func TestNewGrid_Invalid(t *testing.T) {
	if _, err := NewGrid(DefaultStyle(), 0, 2, vg.Inch, vg.Inch); err == nil {
		t.Fatalf("expected error for empty grid")
	}
}

func TestFormatOf(t *testing.T) {
	if got := FormatOf("out/Plot.PNG"); got != "png" {
		t.Fatalf("expected png, got %q", got)
	}
}
