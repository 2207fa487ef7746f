package palette

import (
	"image/color"
	"math"
	"testing"
)

var sampleColors = []RGBA{
	{R: 0, G: 0, B: 0, A: 1},
	{R: 1, G: 1, B: 1, A: 1},
	{R: 0.2, G: 0.4, B: 0.6, A: 0.8},
	{R: 0.004, G: 0.45, B: 0.7, A: 0.3},
}

func TestBlendCommutative(t *testing.T) {
	for _, a := range sampleColors {
		for _, b := range sampleColors {
			if Blend(a, b) != Blend(b, a) {
				t.Errorf("Blend(%v, %v) != Blend(%v, %v)", a, b, b, a)
			}
		}
	}
}

func TestBlendMean(t *testing.T) {
	got := Blend(RGBA{R: 0, G: 1, B: 0.5, A: 1}, RGBA{R: 1, G: 0, B: 0.5, A: 0})
	want := RGBA{R: 0.5, G: 0.5, B: 0.5, A: 0.5}
	if got != want {
		t.Fatalf("Blend = %v, want %v", got, want)
	}
}

func TestWithAlpha(t *testing.T) {
	for _, c := range sampleColors {
		for _, alpha := range []float64{0, 0.3, 1, 1.7, -0.5} {
			got := WithAlpha(c, alpha)
			if got.R != c.R || got.G != c.G || got.B != c.B {
				t.Errorf("WithAlpha(%v, %v) changed color channels: %v", c, alpha, got)
			}
			if got.A != alpha {
				t.Errorf("WithAlpha(%v, %v).A = %v", c, alpha, got.A)
			}
		}
	}
}

func TestNRGBAClampsOutOfRangeAlpha(t *testing.T) {
	c := WithAlpha(RGBA{R: 1}, 1.7).NRGBA()
	if c.A != 255 {
		t.Fatalf("expected clamped alpha 255, got %d", c.A)
	}
	c = WithAlpha(RGBA{R: 1}, -1).NRGBA()
	if c.A != 0 {
		t.Fatalf("expected clamped alpha 0, got %d", c.A)
	}
}

func TestFromColorRoundTrip(t *testing.T) {
	in := color.NRGBA{R: 0x01, G: 0x73, B: 0xB2, A: 0xFF}
	if got := FromColor(in).NRGBA(); got != in {
		t.Fatalf("round trip = %v, want %v", got, in)
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#DE8F05")
	if err != nil {
		t.Fatalf("ParseHex: %v", err)
	}
	if c != (color.NRGBA{R: 0xDE, G: 0x8F, B: 0x05, A: 0xFF}) {
		t.Fatalf("unexpected color %v", c)
	}

	c, err = ParseHex("00000080")
	if err != nil {
		t.Fatalf("ParseHex: %v", err)
	}
	if c.A != 0x80 {
		t.Fatalf("expected alpha 0x80, got %#x", c.A)
	}

	for _, bad := range []string{"", "#12345", "#GGGGGG", "blue"} {
		if _, err := ParseHex(bad); err == nil {
			t.Errorf("ParseHex(%q): expected error", bad)
		}
	}
}

func TestColorEntryRGBA(t *testing.T) {
	blue, _ := ColorByName("blue")
	c := blue.RGBA()
	if math.Abs(c.B-float64(0xB2)/255) > 1e-12 || c.A != 1 {
		t.Fatalf("unexpected channels %v", c)
	}
}
