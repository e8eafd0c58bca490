package rendering

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"time"
)

// Page template names.
const (
	PageProfile  = "profile"
	PageProjects = "projects"
	PageBlog     = "blog"
	PagePost     = "post"
	PageContact  = "contact"
	PageError    = "error"
)

var pageNames = []string{PageProfile, PageProjects, PageBlog, PagePost, PageContact, PageError}

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the embedded static assets, rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

var funcs = template.FuncMap{
	"join": strings.Join,
	"clock": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("15:04:05")
	},
}

// Renderer executes page templates. Each page is parsed together with the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every embedded page template.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, &TemplateError{Page: name, Message: "failed to parse template", Cause: err}
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render executes page with data into w. Output is buffered so a failing template
// writes nothing.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return &TemplateError{Page: page, Message: "unknown page"}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return &TemplateError{Page: page, Message: "failed to execute template", Cause: err}
	}
	if _, err := buf.WriteTo(w); err != nil {
		return &RenderError{Message: "failed to write page", Cause: err}
	}
	return nil
}

// RenderString executes page with data and returns the HTML.
func (r *Renderer) RenderString(page string, data any) (string, error) {
	var sb strings.Builder
	if err := r.Render(&sb, page, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
