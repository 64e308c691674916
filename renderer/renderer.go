// Package renderer renders trade journal snapshots as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/tradejournal"
)

//go:embed templates/*.md
var embedded embed.FS

var templates, _ = fs.Sub(embedded, "templates")

// Options holds configuration for rendering a snapshot report.
type Options struct {
	SkipClosed bool // Do not render the closed trades section.
	SkipIssues bool // Do not render unpriced, excluded and dropped entries.
}

var funcs = template.FuncMap{
	// cell makes free text safe inside a markdown table cell.
	"cell": func(s string) string {
		s = strings.ReplaceAll(s, "|", `\|`)
		return strings.Join(strings.Fields(s), " ")
	},
}

// Render renders the full snapshot report.
func Render(s *tradejournal.Snapshot, opts Options) string {
	partials := map[string]string{
		"snapshot_title":     "snapshot_title.md",
		"snapshot_summary":   "snapshot_summary.md",
		"snapshot_positions": "snapshot_positions.md",
		"snapshot_closed":    "snapshot_closed.md",
		"snapshot_insights":  "snapshot_insights.md",
		"snapshot_issues":    "snapshot_issues.md",
	}
	// An empty file name results in an empty template.
	if opts.SkipClosed {
		partials["snapshot_closed"] = ""
	}
	if opts.SkipIssues {
		partials["snapshot_issues"] = ""
	}
	return renderTemplate("snapshot", "snapshot.md", partials, s)
}

// RenderPositions renders the open positions table only.
func RenderPositions(s *tradejournal.Snapshot) string {
	return renderTemplate("positions", "snapshot_positions.md", nil, s)
}

// RenderClosed renders the closed trades journal and its statistics.
func RenderClosed(s *tradejournal.Snapshot) string {
	return renderTemplate("closed", "snapshot_closed.md", nil, s)
}

// RenderInsights renders the insights list, empty when there is none.
func RenderInsights(s *tradejournal.Snapshot) string {
	return renderTemplate("insights", "snapshot_insights.md", nil, s)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
