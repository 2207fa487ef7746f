package palette

import (
	"errors"
	"testing"
)

func TestColorByNameMatchesIndex(t *testing.T) {
	for i, entry := range Colors() {
		byName, err := ColorByName(entry.Name)
		if err != nil {
			t.Fatalf("ColorByName(%q): %v", entry.Name, err)
		}
		byIndex, err := ColorByIndex(i)
		if err != nil {
			t.Fatalf("ColorByIndex(%d): %v", i, err)
		}
		if byName != byIndex {
			t.Errorf("color %q: by name %+v, by index %+v", entry.Name, byName, byIndex)
		}
	}
}

func TestMarkerByNameMatchesIndex(t *testing.T) {
	for i, entry := range Markers() {
		byName, err := MarkerByName(entry.Name)
		if err != nil {
			t.Fatalf("MarkerByName(%q): %v", entry.Name, err)
		}
		byIndex, err := MarkerByIndex(i)
		if err != nil {
			t.Fatalf("MarkerByIndex(%d): %v", i, err)
		}
		if byName != byIndex {
			t.Errorf("marker %q: by name %+v, by index %+v", entry.Name, byName, byIndex)
		}
	}
}

func TestRegistryOrder(t *testing.T) {
	if NumColors() != 19 {
		t.Fatalf("expected 19 colors, got %d", NumColors())
	}
	if NumMarkers() != 26 {
		t.Fatalf("expected 26 markers, got %d", NumMarkers())
	}

	first, _ := ColorByIndex(0)
	if first.Name != "blue" || first.Hex != "#0173B2" {
		t.Fatalf("unexpected first color %+v", first)
	}
	last, _ := MarkerByIndex(NumMarkers() - 1)
	if last.Name != "none" || last.Glyph != "" || last.Size != 0 {
		t.Fatalf("unexpected last marker %+v", last)
	}
	star, _ := MarkerByName("star")
	if star.Glyph != "*" || star.Size != 4.5 {
		t.Fatalf("unexpected star marker %+v", star)
	}
}

func TestColorByIndex_OutOfRange(t *testing.T) {
	for _, i := range []int{-1, NumColors(), NumColors() + 10} {
		_, err := ColorByIndex(i)
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("ColorByIndex(%d): expected ErrIndexOutOfRange, got %v", i, err)
		}
	}
}

func TestMarkerByIndex_OutOfRange(t *testing.T) {
	_, err := MarkerByIndex(NumMarkers())
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestColorByName_Unknown(t *testing.T) {
	_, err := ColorByName("chartreuse")
	if !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected *LookupError, got %T", err)
	}
	if lookupErr.Registry != "color" || lookupErr.Selector.Name() != "chartreuse" {
		t.Fatalf("unexpected lookup error %+v", lookupErr)
	}
}

func TestColorByName_ExactMatch(t *testing.T) {
	if _, err := ColorByName("Blue"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected names to be case sensitive, got %v", err)
	}
}

func TestColorsReturnsCopy(t *testing.T) {
	c := Colors()
	c[0].Name = "mutated"
	if first, _ := ColorByIndex(0); first.Name != "blue" {
		t.Fatalf("registry was mutated through Colors()")
	}
}
