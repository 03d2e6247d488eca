package share

import "html/template"

type pageData struct {
	Title    string
	Body     template.HTML
	ImageURL template.URL
	Wish     string
}

var page = template.Must(template.New("share").Parse(`<!DOCTYPE html>
<html lang="ko">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>
    body { font-family: sans-serif; max-width: 36rem; margin: 2rem auto; padding: 0 1rem; }
    table { border-collapse: collapse; width: 100%; }
    td, th { border: 2px solid #000; padding: .4rem; }
    .talisman img { width: 16rem; height: 16rem; border: 4px solid #000; border-radius: 1rem; }
  </style>
</head>
<body>
  <article>
    {{.Body}}
  </article>
  {{if .ImageURL}}
  <section class="talisman">
    <h2>행운의 부적</h2>
    <img src="{{.ImageURL}}" alt="{{.Wish}}">
    {{if .Wish}}<p>{{.Wish}}</p>{{end}}
  </section>
  {{end}}
</body>
</html>`))
