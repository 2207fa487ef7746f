package palette

import (
	"image/color"
)

// ColorEntry is a named palette color.
type ColorEntry struct {
	Name  string
	Hex   string
	Color color.NRGBA
}

// RGBA returns the entry as floating point channels.
func (e ColorEntry) RGBA() RGBA {
	return FromColor(e.Color)
}

// MarkerEntry is a named marker: a glyph id and its diameter in points.
type MarkerEntry struct {
	Name  string
	Glyph string
	Size  float64
}

// Colorblind-friendly qualitative colors first, then plain web colors.
var colorDefs = []struct{ name, hex string }{
	{"blue", "#0173B2"},
	{"orange", "#DE8F05"},
	{"green", "#029E73"},
	{"purple", "#CC78BC"},
	{"brown", "#CA9161"},
	{"yellow", "#ECE133"},
	{"sky_blue", "#56B4E9"},
	{"gray", "#949494"},
	{"red", "#D55E00"},
	{"pink", "#CC79A7"},
	{"teal", "#009E73"},
	{"olive", "#808000"},
	{"navy", "#0072B2"},
	{"maroon", "#800000"},
	{"lime", "#00FF00"},
	{"cyan", "#00FFFF"},
	{"magenta", "#FF00FF"},
	{"dark_gray", "#404040"},
	{"light_gray", "#D3D3D3"},
}

var markerDefs = []MarkerEntry{
	{Name: "square", Glyph: "s", Size: 3.5},
	{Name: "triangle_up", Glyph: "^", Size: 4},
	{Name: "pentagon", Glyph: "p", Size: 5},
	{Name: "circle", Glyph: "o", Size: 4},
	{Name: "star", Glyph: "*", Size: 4.5},
	{Name: "plus_filled", Glyph: "P", Size: 3.5},
	{Name: "triangle_down", Glyph: "v", Size: 4},
	{Name: "diamond", Glyph: "D", Size: 3},
	{Name: "x_filled", Glyph: "X", Size: 3.5},
	{Name: "triangle_left", Glyph: "<", Size: 4},
	{Name: "triangle_right", Glyph: ">", Size: 4},
	{Name: "thin_diamond", Glyph: "d", Size: 3},
	{Name: "hexagon1", Glyph: "h", Size: 4},
	{Name: "hexagon2", Glyph: "H", Size: 4},
	{Name: "plus", Glyph: "+", Size: 4},
	{Name: "x", Glyph: "x", Size: 4},
	{Name: "vline", Glyph: "|", Size: 4},
	{Name: "hline", Glyph: "_", Size: 4},
	{Name: "point", Glyph: ".", Size: 2},
	{Name: "pixel", Glyph: ",", Size: 1},
	{Name: "tri_down", Glyph: "1", Size: 4},
	{Name: "tri_up", Glyph: "2", Size: 4},
	{Name: "tri_left", Glyph: "3", Size: 4},
	{Name: "tri_right", Glyph: "4", Size: 4},
	{Name: "octagon", Glyph: "8", Size: 4},
	{Name: "none", Glyph: "", Size: 0},
}

var (
	colors      []ColorEntry
	colorIndex  map[string]int
	markerIndex map[string]int
)

func init() {
	colors = make([]ColorEntry, len(colorDefs))
	colorIndex = make(map[string]int, len(colorDefs))
	for i, def := range colorDefs {
		c, err := ParseHex(def.hex)
		if err != nil {
			panic("palette: invalid color " + def.name + ": " + err.Error())
		}
		colors[i] = ColorEntry{Name: def.name, Hex: def.hex, Color: c}
		colorIndex[def.name] = i
	}

	markerIndex = make(map[string]int, len(markerDefs))
	for i, m := range markerDefs {
		markerIndex[m.Name] = i
	}
}

// Colors returns the color registry in definition order.
func Colors() []ColorEntry {
	out := make([]ColorEntry, len(colors))
	copy(out, colors)
	return out
}

// Markers returns the marker registry in definition order.
func Markers() []MarkerEntry {
	out := make([]MarkerEntry, len(markerDefs))
	copy(out, markerDefs)
	return out
}

func NumColors() int  { return len(colors) }
func NumMarkers() int { return len(markerDefs) }

func ColorByName(name string) (ColorEntry, error) {
	return ResolveColor(ByName(name))
}

func ColorByIndex(i int) (ColorEntry, error) {
	return ResolveColor(ByIndex(i))
}

func MarkerByName(name string) (MarkerEntry, error) {
	return ResolveMarker(ByName(name))
}

func MarkerByIndex(i int) (MarkerEntry, error) {
	return ResolveMarker(ByIndex(i))
}

// ResolveColor looks a selector up in the color registry.
func ResolveColor(sel Selector) (ColorEntry, error) {
	i, err := resolve("color", sel, colorIndex, len(colors))
	if err != nil {
		return ColorEntry{}, err
	}
	return colors[i], nil
}

// ResolveMarker looks a selector up in the marker registry.
func ResolveMarker(sel Selector) (MarkerEntry, error) {
	i, err := resolve("marker", sel, markerIndex, len(markerDefs))
	if err != nil {
		return MarkerEntry{}, err
	}
	return markerDefs[i], nil
}

func resolve(registry string, sel Selector, index map[string]int, size int) (int, error) {
	if sel.IsIndex() {
		if sel.Index() < 0 || sel.Index() >= size {
			return 0, &LookupError{Registry: registry, Selector: sel, Size: size, Err: ErrIndexOutOfRange}
		}
		return sel.Index(), nil
	}
	i, ok := index[sel.Name()]
	if !ok {
		return 0, &LookupError{Registry: registry, Selector: sel, Size: size, Err: ErrKeyNotFound}
	}
	return i, nil
}
