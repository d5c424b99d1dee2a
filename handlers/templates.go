package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"savefood/models"
)

// OrderStatuses are the values the orders page offers as filters.
var OrderStatuses = []string{"pending", "confirmed", "completed", "cancelled"}

// TemplateCache holds parsed pages and fragments.
// Pages are parsed together with html/base.html, fragments on their own.
type TemplateCache struct {
	cache map[string]*template.Template
	funcs template.FuncMap
}

func NewTemplateCache(files fs.FS) (*TemplateCache, error) {
	tc := &TemplateCache{
		cache: make(map[string]*template.Template),
		funcs: template.FuncMap{
			"money": func(v float64) string {
				return fmt.Sprintf("%.2f", v)
			},
			"pickup": func(t models.Timestamp) string {
				if t.IsZero() {
					return "TBA"
				}
				return t.Local().Format("Jan 2, 3:04 PM")
			},
			"statuses": func() []string {
				return OrderStatuses
			},
		},
	}

	pages, err := fs.Glob(files, "html/*.html")
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		name := path.Base(page)
		if name == "base.html" {
			continue
		}
		tmpl, err := template.New(name).Funcs(tc.funcs).ParseFS(files, "html/base.html", page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		tc.cache[name] = tmpl
	}

	fragments, err := fs.Glob(files, "html/fragments/*.html")
	if err != nil {
		return nil, err
	}
	for _, frag := range fragments {
		name := path.Base(frag)
		tmpl, err := template.New(name).Funcs(tc.funcs).ParseFS(files, frag)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", frag, err)
		}
		tc.cache["fragments/"+name] = tmpl
	}
	return tc, nil
}

func (tc *TemplateCache) Get(name string) *template.Template {
	return tc.cache[name]
}

// Render executes the named template into a buffer first so a failing
// template never leaves a half written page behind.
func (tc *TemplateCache) Render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl := tc.Get(name)
	if tmpl == nil {
		return fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
