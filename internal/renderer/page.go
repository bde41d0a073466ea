package renderer

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed static/style.css
var stylesheet string

// Stylesheet returns the CSS every page uses, including the rules for
// highlighted code.
func Stylesheet() string {
	return stylesheet + "\n" + HighlightCSS()
}

// Page describes one preview page.
type Page struct {
	Title       string
	Filename    string
	Content     []byte
	Wide        bool
	UserContent bool
	// InlineStyle embeds the stylesheet, for exported standalone files.
	InlineStyle bool
	// StyleURL links the stylesheet when InlineStyle is false.
	StyleURL string
	// RefreshURL is the event stream the page listens on for changes.
	// Empty disables auto-refresh.
	RefreshURL string
}

// PageTitle returns title when set, otherwise "<filename> - Grip".
func PageTitle(title, filename string) string {
	if title != "" {
		return title
	}
	return fmt.Sprintf("%s - Grip", filename)
}

type pageData struct {
	Title       string
	Filename    string
	Content     template.HTML
	Wide        bool
	UserContent bool
	Style       template.CSS
	StyleURL    string
	RefreshURL  string
}

// WritePage renders p as a complete HTML document.
func WritePage(w io.Writer, p Page) error {
	data := pageData{
		Title:       p.Title,
		Filename:    p.Filename,
		Content:     template.HTML(p.Content),
		Wide:        p.Wide,
		UserContent: p.UserContent,
		StyleURL:    p.StyleURL,
		RefreshURL:  p.RefreshURL,
	}
	if p.InlineStyle {
		data.Style = template.CSS(Stylesheet())
	}
	return pageTemplate.Execute(w, data)
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  {{- if .Style}}
  <style>{{.Style}}</style>
  {{- else if .StyleURL}}
  <link rel="stylesheet" href="{{.StyleURL}}">
  {{- end}}
</head>
<body>
  <div class="page{{if .Wide}} wide{{end}}{{if .UserContent}} user-content{{end}}">
    <div class="box">
      {{- if not .UserContent}}
      <div class="box-header">{{.Filename}}</div>
      {{- end}}
      <article class="markdown-body" id="grip-content">
{{.Content}}
      </article>
    </div>
  </div>
  {{- if .RefreshURL}}
  <script>
    (function () {
      var source = new EventSource({{.RefreshURL}});
      var version = null;
      source.onmessage = function (ev) {
        if (version !== null && ev.data !== version) {
          window.location.reload();
        }
        version = ev.data;
      };
    })();
  </script>
  {{- end}}
</body>
</html>
`))
