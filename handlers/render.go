// handlers/render.go
package handlers

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded page templates.
type Renderer struct {
	tmpl   *template.Template
	logger *logrus.Logger
}

// NewRenderer parses the embedded templates. It panics on a template syntax
// error.
func NewRenderer(logger *logrus.Logger) *Renderer {
	return &Renderer{
		tmpl:   template.Must(template.ParseFS(templateFS, "templates/*.html")),
		logger: logger,
	}
}

// Render writes the named template with status. The page is buffered so a
// template error never leaves a half-written response.
func (rd *Renderer) Render(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := rd.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		rd.logger.WithError(err).WithField("template", name).Error("Failed to render template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
