package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/ianfmc/livewell-nadex/internal/domain"
	"github.com/ianfmc/livewell-nadex/internal/ports"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

const defaultTemplate = "kpi_dashboard"

var _ ports.ReportRenderer = (*HTMLRenderer)(nil)

// HTMLRenderer implementa ports.ReportRenderer con html/template.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer parsea las plantillas embebidas.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("report.NewHTMLRenderer: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

// Templates devuelve los nombres de plantilla disponibles.
func (r *HTMLRenderer) Templates() []string {
	var names []string
	for _, t := range r.tmpl.Templates() {
		// ParseFS también registra cada fichero por su nombre
		if !strings.HasSuffix(t.Name(), ".tmpl") {
			names = append(names, t.Name())
		}
	}
	sort.Strings(names)
	return names
}

// view añade a Dashboard las series como template.JS: ya vienen serializadas
// por report.BuildDashboard y no deben escaparse como string.
type view struct {
	domain.Dashboard
	Dates         template.JS
	CumulativePnL template.JS
	Drawdown      template.JS
}

// Render implementa ports.ReportRenderer.
func (r *HTMLRenderer) Render(d domain.Dashboard) (string, error) {
	name := d.Template
	if name == "" {
		name = defaultTemplate
	}
	if r.tmpl.Lookup(name) == nil {
		return "", fmt.Errorf("report.Render: unknown template %q", name)
	}

	v := view{
		Dashboard:     d,
		Dates:         jsArray(d.DatesJSON),
		CumulativePnL: jsArray(d.CumulativePnLJSON),
		Drawdown:      jsArray(d.DrawdownJSON),
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, v); err != nil {
		return "", fmt.Errorf("report.Render: %s: %w", name, err)
	}
	return buf.String(), nil
}

func jsArray(s string) template.JS {
	if s == "" {
		return "[]"
	}
	return template.JS(s)
}
