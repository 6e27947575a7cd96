package transport

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/forms"
	"storefront/internal/middleware"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutTemplate = "templates/layout.html"

// Page is the data handed to every template
type Page struct {
	Title    string
	Identity domain.Identity
	Form     url.Values
	Errors   forms.FieldErrors
	Data     interface{}
}

// Renderer executes the embedded page templates inside the shared layout
type Renderer struct {
	pages  map[string]*template.Template
	logger *zap.Logger
}

var templateFuncs = template.FuncMap{
	"statusOptions": func() []domain.OrderStatus { return domain.OrderStatuses },
}

// NewRenderer parses every page template once
func NewRenderer(logger *zap.Logger) (*Renderer, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		if name == layoutTemplate {
			continue
		}

		tmpl, err := template.New(path.Base(layoutTemplate)).Funcs(templateFuncs).ParseFS(templateFS, layoutTemplate, name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[strings.TrimSuffix(path.Base(name), ".html")] = tmpl
	}

	return &Renderer{pages: pages, logger: logger}, nil
}

// Render writes the named page with status. The identity is taken from the
// request context.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, page Page) {
	tmpl, ok := rd.pages[name]
	if !ok {
		rd.logger.Error("Unknown template", zap.String("template", name))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	page.Identity = middleware.GetIdentity(r.Context())

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page); err != nil {
		rd.logger.Error("Failed to render template", zap.String("template", name), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
