// Package render produces a printable trial schedule: an HTML page and,
// through headless Chromium, a PDF of it.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"

	"github.com/Anthonyjrchen/LegalClerk/internal/deadline"
	"github.com/Anthonyjrchen/LegalClerk/internal/draft"
	"github.com/Anthonyjrchen/LegalClerk/internal/model"
)

// ReadySelector matches the element the page marks once it is complete.
const ReadySelector = `[data-ready="true"]`

var scheduleTmpl = template.Must(template.New("schedule").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Georgia, serif; margin: 2em; color: #111; }
h1 { font-size: 1.4em; margin-bottom: 0.2em; }
table { border-collapse: collapse; width: 100%; margin-bottom: 1.5em; }
th, td { border-bottom: 1px solid #ccc; padding: 0.3em 0.5em; text-align: left; }
td.date { white-space: nowrap; width: 8em; }
tr.pending td { color: #a00; font-style: italic; }
</style>
</head>
<body>
<div class="schedule" data-ready="true">
<h1>{{.Title}}</h1>
<p>
{{- if .Trial.CourtFileNo}}Court file {{.Trial.CourtFileNo}}<br>{{end}}
{{- if .Span}}Trial: {{.Span}}{{else}}Trial date not set{{end}}
{{- if .Trial.TrialDuration}} ({{.Trial.TrialDuration}}){{end}}
</p>
{{- if .Trial.Notes}}<p>{{.Trial.Notes}}</p>{{end}}
{{- range .Groups}}
<h2>{{.Name}}</h2>
<table>
<tr><th>Date</th><th>Deadline</th><th>Rule</th></tr>
{{- range .Rows}}
<tr{{if .Pending}} class="pending"{{end}}><td class="date">{{if .Pending}}pending{{else}}{{.Date}}{{end}}</td><td>{{.Name}}</td><td>{{.Rule}}</td></tr>
{{- end}}
</table>
{{- end}}
</div>
</body>
</html>
`))

type scheduleView struct {
	Title  string
	Trial  model.TrialFields
	Span   string
	Groups []groupView
}

type groupView struct {
	Name string
	Rows []rowView
}

type rowView struct {
	Date    string
	Name    string
	Rule    string
	Pending bool
}

// Schedule renders the snapshot's deadlines grouped by template, in
// template id order. templates may be nil; ids then stand in for names.
func Schedule(snap draft.Snapshot, templates deadline.Templates) ([]byte, error) {
	view := scheduleView{
		Title: "Trial Schedule",
		Trial: snap.Trial,
	}
	if snap.Trial.StyleOfCause != "" {
		view.Title = snap.Trial.StyleOfCause
	}
	if first, last, ok := snap.Trial.Span(); ok {
		view.Span = first.String()
		if !last.Equal(first) {
			view.Span += " to " + last.String()
		}
	}

	ids := make([]string, 0, len(snap.CalculatedDeadlines))
	for id := range snap.CalculatedDeadlines {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		g := groupView{Name: id}
		if templates != nil {
			if tpl, ok := templates.Get(id); ok && tpl.Name != "" {
				g.Name = tpl.Name
			}
		}
		for _, dl := range snap.CalculatedDeadlines[id] {
			g.Rows = append(g.Rows, rowView{
				Date:    dl.CalculatedDate.String(),
				Name:    dl.DeadlineName,
				Rule:    ruleText(dl),
				Pending: dl.Pending(),
			})
		}
		view.Groups = append(view.Groups, g)
	}

	var buf bytes.Buffer
	if err := scheduleTmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render schedule: %w", err)
	}
	return buf.Bytes(), nil
}

func ruleText(dl model.CalculatedDeadline) string {
	unit := "calendar days"
	if dl.IsBusinessDays {
		unit = "business days"
	}
	return fmt.Sprintf("%d %s before %s", dl.DaysBefore, unit, dl.ReferenceLabel)
}
