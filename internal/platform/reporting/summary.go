// Package reporting renders printable summaries and tabular exports.
package reporting

import (
	"html/template"
	"io"
)

type Row struct {
	Label string
	Value string
}

type Section struct {
	Title string
	Rows  []Row
}

// Summary is a print-oriented document: a title followed by labelled
// sections. It renders as a self-contained HTML page.
type Summary struct {
	Title    string
	Sections []Section
}

var summaryTmpl = template.Must(template.New("summary").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 24px; color: #222; }
h1 { font-size: 20px; border-bottom: 2px solid #222; padding-bottom: 8px; }
h2 { font-size: 14px; margin-top: 20px; background: #f0f0f0; padding: 6px; }
table { border-collapse: collapse; width: 100%; }
td { padding: 4px 8px; font-size: 13px; vertical-align: top; }
td.label { width: 220px; font-weight: bold; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Sections}}<h2>{{.Title}}</h2>
<table>
{{range .Rows}}<tr><td class="label">{{.Label}}</td><td>{{.Value}}</td></tr>
{{end}}</table>
{{end}}</body>
</html>
`))

func WriteSummaryHTML(w io.Writer, s Summary) error {
	return summaryTmpl.Execute(w, s)
}
