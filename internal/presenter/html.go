package presenter

import (
	"html/template"
	"io"

	"github.com/tgvmax-weekends/pkg/tgvmax/models"
)

// PageData is what the HTML page needs on top of the view.
type PageData struct {
	View     View
	Routes   []models.Route
	Selected string
	Swapped  bool
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"columns": func(s Section) []Column {
		return []Column{s.Outbound, s.Return}
	},
	"colour": func(d models.Direction) string {
		if d == models.Outbound {
			return "#1f77b4"
		}
		return "#ff7f0e"
	},
	"background": func(d models.Direction) string {
		if d == models.Outbound {
			return "#e6f2ff"
		}
		return "#fff0e6"
	},
}).Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>TGVmax {{.View.Route}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
.columns { display: flex; gap: 2rem; }
.columns > div { flex: 1; }
.day { padding: 10px; margin-bottom: 5px; border-radius: 5px; }
.none { color: #d62728; }
</style>
</head>
<body>
<h1>🚄 TGVmax - Week-ends {{.View.Route}}</h1>
<p>Nous sommes le <b>{{.View.TodayLabel}}</b>, demain les trains pour le <b>{{.View.ReleaseLabel}}</b> sortiront.</p>
<nav>
{{range .Routes}}<a href="?route={{.Name}}">{{.}}</a> {{end}}
<a href="?route={{.Selected}}{{if not .Swapped}}&amp;swap=1{{end}}">↔ Inverser</a>
</nav>
{{range .View.Sections}}
<section>
<h3>{{.Label}}</h3>
<div class="columns">
{{range $col := (columns .)}}
<div>
<b>{{$col.Title}}</b>
{{if $col.Empty}}<p class="none">{{$col.EmptyText}}</p>{{end}}
{{range $col.Days}}
<div class="day" style="background-color:{{background $col.Direction}}"><b>{{.Label}} :</b>
{{range $i, $t := .Times}}{{if $i}}, {{end}}<span style="color:{{colour $col.Direction}};font-weight:bold">{{$t}}</span>{{end}}
</div>
{{end}}
</div>
{{end}}
</div>
</section>
{{end}}
</body>
</html>
`))

// RenderHTML writes the full page.
func RenderHTML(w io.Writer, data PageData) error {
	return pageTemplate.Execute(w, data)
}
