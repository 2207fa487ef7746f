package render

import (
	"fmt"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Grid arranges figures in rows and columns on one page.
type Grid struct {
	Rows, Cols int
	// Spacing is the horizontal gap between panels.
	Spacing vg.Length

	width, height vg.Length
	style         Style
	panels        [][]*Figure
}

// NewGrid returns a rows x cols grid of empty panels sharing a page of the
// given size.
func NewGrid(style Style, rows, cols int, width, height vg.Length) (*Grid, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("invalid grid %dx%d", rows, cols)
	}
	g := &Grid{
		Rows:    rows,
		Cols:    cols,
		Spacing: vg.Points(DefaultFontSize),
		width:   width,
		height:  height,
		style:   style,
		panels:  make([][]*Figure, rows),
	}
	pw, ph := width/vg.Length(cols), height/vg.Length(rows)
	for r := range g.panels {
		g.panels[r] = make([]*Figure, cols)
		for c := range g.panels[r] {
			g.panels[r][c] = NewFigure(g.style, pw, ph)
		}
	}
	return g, nil
}

// Panel returns the figure at row r and column c, counted from the top
// left. It returns nil outside the grid.
func (g *Grid) Panel(r, c int) *Figure {
	if r < 0 || r >= g.Rows || c < 0 || c >= g.Cols {
		return nil
	}
	return g.panels[r][c]
}

// Draw draws every panel into its tile of c.
func (g *Grid) Draw(c draw.Canvas) error {
	tiles := draw.Tiles{Rows: g.Rows, Cols: g.Cols, PadX: g.Spacing}
	for r, row := range g.panels {
		for col, fig := range row {
			if err := fig.Draw(tiles.At(c, col, r)); err != nil {
				return fmt.Errorf("panel (%d,%d): %w", r, col, err)
			}
		}
	}
	return nil
}

// Encode renders the whole grid in the given format.
func (g *Grid) Encode(format string) ([]byte, error) {
	var drawErr error
	data, err := encode(format, g.width, g.height, g.style.DPI, func(c draw.Canvas) {
		drawErr = g.Draw(c)
	})
	if err != nil {
		return nil, err
	}
	if drawErr != nil {
		return nil, drawErr
	}
	return data, nil
}

// Save writes the whole grid to path like Figure.Save.
func (g *Grid) Save(path string) error {
	data, err := g.Encode(FormatOf(path))
	if err != nil {
		return fmt.Errorf("failed to render grid %s: %w", path, err)
	}
	return writeFile(path, data)
}
