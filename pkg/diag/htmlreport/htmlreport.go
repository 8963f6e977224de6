// Package htmlreport renders a diag.Report to a single self-contained HTML
// page: one row per diagnostic, grouped by severity, mirroring the report
// shape original_source/util/html_generator.py produces for the Python
// implementation this module was distilled from (a fresh Go html/template
// rendering, not a translation of that file).
package htmlreport

import (
	"fmt"
	"html/template"
	"io"
	"sort"

	"github.com/svdkit/svdkit/pkg/diag"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>svdkit diagnostic report</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.6rem; text-align: left; }
tr.error { background: #fde2e2; }
tr.warning { background: #fff6d8; }
tr.info { background: #eef6ff; }
h2 { margin-top: 2rem; }
</style>
</head>
<body>
<h1>svdkit diagnostic report</h1>
<p>{{.Total}} diagnostic(s): {{.ErrorCount}} error(s), {{.WarningCount}} warning(s), {{.InfoCount}} info</p>
{{range .Groups}}
<h2>{{.Severity}}</h2>
<table>
<tr><th>Kind</th><th>Path</th><th>Message</th></tr>
{{range .Diagnostics}}
<tr class="{{.Severity}}"><td>{{.Kind}}</td><td>{{.Path}}</td><td>{{.Message}}</td></tr>
{{end}}
</table>
{{end}}
</body>
</html>
`

var tmpl = template.Must(template.New("report").Parse(pageTemplate))

type group struct {
	Severity    diag.Severity
	Diagnostics []diag.Diagnostic
}

type pageData struct {
	Total        int
	ErrorCount   int
	WarningCount int
	InfoCount    int
	Groups       []group
}

// Render writes r to w as a single HTML page, most severe group first.
func Render(w io.Writer, r *diag.Report) error {
	bySev := r.BySeverity()

	order := []diag.Severity{diag.SeverityError, diag.SeverityWarning, diag.SeverityInfo}
	data := pageData{Total: len(r.Diagnostics)}
	for _, sev := range order {
		diags := bySev[sev]
		if len(diags) == 0 {
			continue
		}
		switch sev {
		case diag.SeverityError:
			data.ErrorCount = len(diags)
		case diag.SeverityWarning:
			data.WarningCount = len(diags)
		case diag.SeverityInfo:
			data.InfoCount = len(diags)
		}
		data.Groups = append(data.Groups, group{Severity: sev, Diagnostics: diags})
	}
	sort.SliceStable(data.Groups, func(i, j int) bool { return data.Groups[i].Severity > data.Groups[j].Severity })

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("htmlreport: render: %w", err)
	}
	return nil
}
