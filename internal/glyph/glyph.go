// Package glyph draws plot markers with a separate face and edge color.
//
// Shapes are keyed by single-character glyph ids ("s", "^", "*", "8", ...)
// and defined in unit coordinates where 1 is the glyph radius, i.e. half
// the marker size.
package glyph

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var ErrUnknownGlyph = errors.New("unknown glyph")

type kind uint8

const (
	kindNone kind = iota
	kindPolygon
	kindCircle
	kindStrokes
)

// Shape is the outline of a marker.
type Shape struct {
	ID string

	kind kind
	// polygon vertices, or segment end points in pairs for kindStrokes
	points []vg.Point
	// circle radius relative to the glyph radius
	scale float64
}

// Filled reports whether the shape has a face that can be filled.
func (s Shape) Filled() bool {
	return s.kind == kindPolygon || s.kind == kindCircle
}

var shapes = map[string]Shape{
	"":  {kind: kindNone},
	"o": {kind: kindCircle, scale: 1},
	".": {kind: kindCircle, scale: 0.5},
	",": {kind: kindPolygon, points: square(0.5)},
	"s": {kind: kindPolygon, points: square(1)},
	"^": {kind: kindPolygon, points: pts(0, 1, -1, -1, 1, -1)},
	"v": {kind: kindPolygon, points: pts(0, -1, -1, 1, 1, 1)},
	"<": {kind: kindPolygon, points: pts(-1, 0, 1, 1, 1, -1)},
	">": {kind: kindPolygon, points: pts(1, 0, -1, 1, -1, -1)},
	"D": {kind: kindPolygon, points: pts(0, math.Sqrt2, math.Sqrt2, 0, 0, -math.Sqrt2, -math.Sqrt2, 0)},
	"d": {kind: kindPolygon, points: pts(0, math.Sqrt2, 0.6*math.Sqrt2, 0, 0, -math.Sqrt2, -0.6*math.Sqrt2, 0)},
	"p": {kind: kindPolygon, points: regular(5, 0)},
	"h": {kind: kindPolygon, points: regular(6, 0)},
	"H": {kind: kindPolygon, points: regular(6, math.Pi/6)},
	"8": {kind: kindPolygon, points: regular(8, math.Pi/8)},
	"*": {kind: kindPolygon, points: star(5, 0.381966)},
	"P": {kind: kindPolygon, points: cross(1.0/3, 0)},
	"X": {kind: kindPolygon, points: cross(1.0/3, math.Pi/4)},
	"+": {kind: kindStrokes, points: pts(-1, 0, 1, 0, 0, -1, 0, 1)},
	"x": {kind: kindStrokes, points: pts(-1, -1, 1, 1, -1, 1, 1, -1)},
	"|": {kind: kindStrokes, points: pts(0, -1, 0, 1)},
	"_": {kind: kindStrokes, points: pts(-1, 0, 1, 0)},
	"1": {kind: kindStrokes, points: pts(0, 0, 0, -1, 0, 0, 0.8, 0.5, 0, 0, -0.8, 0.5)},
	"2": {kind: kindStrokes, points: pts(0, 0, 0, 1, 0, 0, 0.8, -0.5, 0, 0, -0.8, -0.5)},
	"3": {kind: kindStrokes, points: pts(0, 0, -1, 0, 0, 0, 0.5, 0.8, 0, 0, 0.5, -0.8)},
	"4": {kind: kindStrokes, points: pts(0, 0, 1, 0, 0, 0, -0.5, 0.8, 0, 0, -0.5, -0.8)},
}

func init() {
	for id, s := range shapes {
		s.ID = id
		shapes[id] = s
	}
}

// Lookup returns the shape registered for a glyph id.
func Lookup(id string) (Shape, error) {
	s, ok := shapes[id]
	if !ok {
		return Shape{}, fmt.Errorf("%w: %q", ErrUnknownGlyph, id)
	}
	return s, nil
}

// IDs returns all known glyph ids, sorted.
func IDs() []string {
	ids := make([]string, 0, len(shapes))
	for id := range shapes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Marker is a draw.GlyphDrawer. The face is filled with Face and the
// outline is stroked with the glyph style color at EdgeWidth. Open shapes
// such as "+" only have an outline.
type Marker struct {
	Shape     Shape
	Face      color.Color
	EdgeWidth vg.Length
}

// DrawGlyph implements draw.GlyphDrawer.
func (m Marker) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	r := sty.Radius
	switch m.Shape.kind {
	case kindNone:
		return
	case kindStrokes:
		c.SetLineDash(nil, 0)
		c.SetLineWidth(m.EdgeWidth)
		c.SetColor(sty.Color)
		pts := m.Shape.points
		for i := 0; i+1 < len(pts); i += 2 {
			var p vg.Path
			p.Move(offset(pt, pts[i], r))
			p.Line(offset(pt, pts[i+1], r))
			c.Stroke(p)
		}
		return
	}

	p := m.Shape.outline(pt, r)
	if m.Face != nil {
		c.SetColor(m.Face)
		c.Fill(p)
	}
	if m.EdgeWidth > 0 {
		c.SetLineDash(nil, 0)
		c.SetLineWidth(m.EdgeWidth)
		c.SetColor(sty.Color)
		c.Stroke(p)
	}
}

func (s Shape) outline(pt vg.Point, r vg.Length) vg.Path {
	var p vg.Path
	if s.kind == kindCircle {
		rad := r * vg.Length(s.scale)
		p.Move(vg.Point{X: pt.X + rad, Y: pt.Y})
		p.Arc(pt, rad, 0, 2*math.Pi)
		p.Close()
		return p
	}
	for i, v := range s.points {
		if i == 0 {
			p.Move(offset(pt, v, r))
			continue
		}
		p.Line(offset(pt, v, r))
	}
	p.Close()
	return p
}

func offset(pt, unit vg.Point, r vg.Length) vg.Point {
	return vg.Point{X: pt.X + unit.X*r, Y: pt.Y + unit.Y*r}
}

func pts(xy ...float64) []vg.Point {
	out := make([]vg.Point, len(xy)/2)
	for i := range out {
		out[i] = vg.Point{X: vg.Length(xy[2*i]), Y: vg.Length(xy[2*i+1])}
	}
	return out
}

func square(half float64) []vg.Point {
	return pts(-half, -half, half, -half, half, half, -half, half)
}

// regular returns an n-gon with its first vertex at the top, rotated
// counterclockwise by rot.
func regular(n int, rot float64) []vg.Point {
	out := make([]vg.Point, n)
	for i := range out {
		theta := math.Pi/2 + rot + 2*math.Pi*float64(i)/float64(n)
		out[i] = vg.Point{X: vg.Length(math.Cos(theta)), Y: vg.Length(math.Sin(theta))}
	}
	return out
}

func star(n int, inner float64) []vg.Point {
	out := make([]vg.Point, 2*n)
	for i := range out {
		rad := 1.0
		if i%2 == 1 {
			rad = inner
		}
		theta := math.Pi/2 + math.Pi*float64(i)/float64(n)
		out[i] = vg.Point{X: vg.Length(rad * math.Cos(theta)), Y: vg.Length(rad * math.Sin(theta))}
	}
	return out
}

// cross returns a filled plus sign with arms of half width w, rotated by rot.
func cross(w, rot float64) []vg.Point {
	base := [][2]float64{
		{-w, 1}, {w, 1}, {w, w}, {1, w}, {1, -w}, {w, -w},
		{w, -1}, {-w, -1}, {-w, -w}, {-1, -w}, {-1, w}, {-w, w},
	}
	sin, cos := math.Sincos(rot)
	out := make([]vg.Point, len(base))
	for i, v := range base {
		out[i] = vg.Point{
			X: vg.Length(v[0]*cos - v[1]*sin),
			Y: vg.Length(v[0]*sin + v[1]*cos),
		}
	}
	return out
}
