// Package web renders the server-side HTML pages of the gateway.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"gradelookup/backend/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

// SearchPage is the data behind the search form.
type SearchPage struct {
	StudentID string
	Error     string
}

// ErrorPage replaces a whole page with a single message.
type ErrorPage struct {
	Message string
}

// Pages holds the parsed page templates.
type Pages struct {
	search  *template.Template
	results *template.Template
	failure *template.Template
}

// NewPages parses the embedded templates.
func NewPages() (*Pages, error) {
	funcs := template.FuncMap{
		"noDataMessage": func() string { return report.NoDataMessage },
	}

	parse := func(page string) (*template.Template, error) {
		t, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", page, err)
		}
		return t, nil
	}

	p := &Pages{}
	var err error
	if p.search, err = parse("search.html"); err != nil {
		return nil, err
	}
	if p.results, err = parse("results.html"); err != nil {
		return nil, err
	}
	if p.failure, err = parse("error.html"); err != nil {
		return nil, err
	}
	return p, nil
}

// MustNewPages is NewPages for package initialisation and tests.
func MustNewPages() *Pages {
	p, err := NewPages()
	if err != nil {
		panic(err)
	}
	return p
}

// RenderSearch writes the search page.
func (p *Pages) RenderSearch(w http.ResponseWriter, status int, data SearchPage) error {
	return render(w, p.search, status, data)
}

// RenderResults writes the report for one student.
func (p *Pages) RenderResults(w http.ResponseWriter, view report.View) error {
	return render(w, p.results, http.StatusOK, view)
}

// RenderError writes a full-page message with a link back to search.
func (p *Pages) RenderError(w http.ResponseWriter, status int, message string) error {
	return render(w, p.failure, status, ErrorPage{Message: message})
}

func render(w http.ResponseWriter, t *template.Template, status int, data any) error {
	// Execute into a buffer so a template error never leaves half a page.
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
