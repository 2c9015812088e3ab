package web

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"intro.html",
	"table.html",
	"metrics.html",
	"insights.html",
	"predict.html",
}

// parsePages builds one template set per page, each with the shared layout
// and chart partials.
func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templateFS,
			"templates/layout.html",
			"templates/charts.html",
			"templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}
