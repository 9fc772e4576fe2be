// Package tmpl renders the user-configurable line formats of the CLI.
package tmpl

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

var funcs = template.FuncMap{
	"join":    strings.Join,
	"upper":   strings.ToUpper,
	"lower":   strings.ToLower,
	"trunc":   truncate,
	"default": stringOrDefault,
}

func stringOrDefault(def, s string) string {
	if s != "" {
		return s
	}
	return def
}

// truncate shortens s to n runes, marking the cut with "…".
func truncate(n int, s string) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// Template is a parsed format that can be rendered repeatedly.
type Template struct {
	t *template.Template
}

// Parse compiles a format. Missing keys are errors at render time.
//
// Available template functions:
//   - join: Join string slice with separator (e.g., join .Tags ", ")
//   - upper, lower: Change case
//   - trunc: Shorten to n runes (e.g., trunc 20 .Text)
//   - default: Fallback for empty strings (e.g., default "-" .Due)
func Parse(name, format string) (*Template, error) {
	t, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(format)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &Template{t: t}, nil
}

// Render executes the template with data.
func (t *Template) Render(data any) (string, error) {
	var buf bytes.Buffer
	if err := t.t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

// Render parses and executes format in one step.
func Render(format string, data any) (string, error) {
	t, err := Parse("", format)
	if err != nil {
		return "", err
	}
	return t.Render(data)
}
