package latex

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"time"
)

const WrapperTemplate = `% Generated on {{.GeneratedDate}}
% Figure: {{.Name}}
{{- range .Series}}
% Series: {{.}}
{{- end}}
\begin{figure}[{{.Placement}}]
    \centering
    \includegraphics[width={{.Width}}\linewidth]{ {{.GraphicsPath}} }
{{- if .Caption}}
    \caption{ {{.Caption}} }
{{- end}}
    \label{fig:{{.Label}}}
\end{figure}
`

type WrapperData struct {
	GeneratedDate string
	Name          string
	Series        []string
	Placement     string
	Width         float64
	GraphicsPath  string
	Caption       string
	Label         string
}

var labelUnsafe = regexp.MustCompile(`[^A-Za-z0-9:_-]+`)

// LabelID turns a figure name into a \label-safe identifier.
func LabelID(name string) string {
	id := strings.Trim(labelUnsafe.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if id == "" {
		return "figure"
	}
	return id
}

// WrapperPath returns where the wrapper snippet for an image is written:
// next to the image, with the extension replaced by ".fig.tex".
func WrapperPath(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".fig.tex"
}

// NewWrapperData fills the fields derived from the image path and figure
// name. GraphicsPath is relative to the wrapper file, without extension
// for vector formats so LaTeX picks the best one.
func NewWrapperData(name, imagePath, caption string, series []string) WrapperData {
	graphics := filepath.ToSlash(filepath.Base(imagePath))
	switch strings.ToLower(filepath.Ext(imagePath)) {
	case ".pdf", ".eps":
		graphics = strings.TrimSuffix(graphics, filepath.Ext(graphics))
	}
	return WrapperData{
		GeneratedDate: time.Now().Format("2006-01-02 15:04:05"),
		Name:          name,
		Series:        series,
		Placement:     "htbp",
		Width:         1,
		GraphicsPath:  graphics,
		Caption:       caption,
		Label:         LabelID(name),
	}
}

// GenerateWrapper renders the figure environment for data.
func GenerateWrapper(data WrapperData) (string, error) {
	tmpl, err := template.New("wrapper").Parse(WrapperTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse wrapper template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute wrapper template: %w", err)
	}
	return buf.String(), nil
}
