package palette

import (
	"fmt"
	"strconv"
	"strings"
)

type selectorKind uint8

const (
	byName selectorKind = iota
	byIndex
)

// Selector identifies a registry entry either by name or by its position
// in the registry's definition order.
type Selector struct {
	kind  selectorKind
	name  string
	index int
}

func ByName(name string) Selector {
	return Selector{kind: byName, name: name}
}

func ByIndex(index int) Selector {
	return Selector{kind: byIndex, index: index}
}

// ParseSelector reads a selector from text: a plain integer selects by
// position, anything else selects by name.
func ParseSelector(s string) Selector {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return ByIndex(i)
	}
	return ByName(s)
}

func (s Selector) IsIndex() bool {
	return s.kind == byIndex
}

func (s Selector) Name() string {
	return s.name
}

func (s Selector) Index() int {
	return s.index
}

func (s Selector) String() string {
	if s.kind == byIndex {
		return fmt.Sprintf("#%d", s.index)
	}
	return strconv.Quote(s.name)
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseSelector.
func (s *Selector) UnmarshalText(text []byte) error {
	*s = ParseSelector(string(text))
	return nil
}

func (s Selector) MarshalText() ([]byte, error) {
	if s.kind == byIndex {
		return []byte(strconv.Itoa(s.index)), nil
	}
	return []byte(s.name), nil
}
