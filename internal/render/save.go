package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
)

// Formats lists the file extensions Save understands.
var Formats = []string{"png", "jpg", "jpeg", "tif", "tiff", "pdf", "svg", "eps", "tex"}

// FormatOf returns the lower-case extension of path without the dot.
func FormatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// newCanvas returns a canvas for the format. Raster formats are rendered at
// dpi; vector formats ignore it.
func newCanvas(format string, w, h vg.Length, dpi int) (vg.CanvasWriterTo, error) {
	switch format {
	case "png":
		return vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))}, nil
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))}, nil
	case "tif", "tiff":
		return vgimg.TiffCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))}, nil
	case "pdf":
		return pdfCanvas{vgpdf.New(w, h)}, nil
	default:
		return draw.NewFormattedCanvas(w, h, format)
	}
}

// pdfCanvas writes text with the TrueType substitutes of the figure fonts.
type pdfCanvas struct {
	*vgpdf.Canvas
}

func (c pdfCanvas) FillString(f font.Face, pt vg.Point, str string) {
	if sub, ok := pdfFace(f.Face); ok {
		sub.Font.Size = f.Font.Size
		f = sub
	}
	c.Canvas.FillString(f, pt, str)
}

// encode draws into a canvas of the given format and returns the encoded
// bytes. Panics raised by the drawing library are returned as errors.
func encode(format string, w, h vg.Length, dpi int, drawFn func(draw.Canvas)) (out []byte, err error) {
	cw, err := newCanvas(format, w, h, dpi)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("failed to draw figure: %v", r)
		}
	}()
	drawFn(draw.New(cw))

	var buf bytes.Buffer
	if _, err := cw.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// writeFile creates the parent directories of path and writes data.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &IOError{Op: "mkdir", Path: dir, Err: err}
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
