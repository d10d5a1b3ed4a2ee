package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/skycast/skycast/internal/i18n"
	"github.com/skycast/skycast/internal/settings"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page is the data behind the full HTML page.
type Page struct {
	Settings  *settings.Settings
	Languages []i18n.Language
	City      string

	// Dashboard is nil until a search succeeds.
	Dashboard *Dashboard

	// Notice is a localized error shown in place of a browser alert.
	Notice string

	ThemeIcon string
}

// Renderer executes the embedded HTML templates and serves static assets.
type Renderer struct {
	templates *template.Template
	static    fs.FS
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"upper": func(l i18n.Language) string { return strings.ToUpper(string(l)) },
	}

	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("opening static assets: %w", err)
	}

	return &Renderer{templates: tmpl, static: static}, nil
}

// Page writes the full HTML page.
func (r *Renderer) Page(w io.Writer, p *Page) error {
	if p.Languages == nil {
		p.Languages = i18n.Supported()
	}
	if p.ThemeIcon == "" {
		p.ThemeIcon = ThemeIcon(p.Settings.Theme)
	}
	return r.templates.ExecuteTemplate(w, "page.html", p)
}

// Fragment renders the dashboard markup the page script swaps in after a search.
func (r *Renderer) Fragment(d *Dashboard) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "dashboard", d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Static serves the embedded assets. Mount it with http.StripPrefix.
func (r *Renderer) Static() http.Handler {
	return http.FileServer(http.FS(r.static))
}
