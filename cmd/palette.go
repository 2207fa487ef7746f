package cmd

import (
	"fmt"
	"io"
	"strings"

	"acadplot/internal/palette"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newPaletteCmd() *cobra.Command {
	var showColors, showMarkers bool

	paletteCmd := &cobra.Command{
		Use:   "palette",
		Short: "List the color and marker registries",
		Long:  "Print every named color with a swatch and every marker with its glyph and size, in index order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !showColors && !showMarkers {
				showColors, showMarkers = true, true
			}
			out := cmd.OutOrStdout()
			if showColors {
				printColors(out)
			}
			if showColors && showMarkers {
				fmt.Fprintln(out)
			}
			if showMarkers {
				printMarkers(out)
			}
			return nil
		},
	}

	paletteCmd.Flags().BoolVar(&showColors, "colors", false, "Only list colors")
	paletteCmd.Flags().BoolVar(&showMarkers, "markers", false, "Only list markers")
	return paletteCmd
}

var headerStyle = lipgloss.NewStyle().Bold(true)

func printColors(w io.Writer) {
	fmt.Fprintln(w, headerStyle.Render("Colors"))
	for i, c := range palette.Colors() {
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(c.Hex)).Render("    ")
		fmt.Fprintf(w, "%3d  %s  %-10s %s\n", i, swatch, c.Name, strings.ToUpper(c.Hex))
	}
}

func printMarkers(w io.Writer) {
	fmt.Fprintln(w, headerStyle.Render("Markers"))
	for i, m := range palette.Markers() {
		glyph := m.Glyph
		if glyph == "" {
			glyph = `""`
		}
		fmt.Fprintf(w, "%3d  %-4s %-15s %.1fpt\n", i, glyph, m.Name, m.Size)
	}
}
