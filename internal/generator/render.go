package generator

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-pagination/internal/dates"
	"github.com/goliatone/go-pagination/internal/pagination"
	"github.com/goliatone/go-pagination/pkg/interfaces"
)

// TemplateContext is the data contract passed to page layouts.
type TemplateContext struct {
	Site  SiteMetadata
	Page  PageView
	Build BuildMetadata
}

// SiteMetadata exposes site wide values to layouts.
type SiteMetadata struct {
	BaseURL string
}

// BuildMetadata surfaces high level build information to layouts.
type BuildMetadata struct {
	ID          string
	GeneratedAt time.Time
	DryRun      bool
}

// PageView describes the document being rendered.
type PageView struct {
	Name       string
	Output     string
	URL        string
	Title      string
	Attributes interfaces.Document
	Body       template.HTML
	Pagination *PaginationView
}

// PaginationView is the template friendly form of interfaces.PageInfo.
type PaginationView struct {
	Year  int
	Posts []PostView
	Prev  *LinkView
	Next  *LinkView
}

// PostView is one entry of a year page.
type PostView struct {
	Title      string
	URL        string
	Date       time.Time
	HasDate    bool
	Summary    bool
	Attributes interfaces.Document
	// Value is the raw iteratee result.
	Value any
}

// LinkView points at an adjacent year page.
type LinkView struct {
	Name string
	URL  string
	Year int
}

// RenderedPage captures the rendered HTML output for a document.
type RenderedPage struct {
	Name         string
	Output       string
	Route        string
	Year         int
	HTML         string
	Checksum     string
	LastModified time.Time
	Duration     time.Duration
}

// RenderDiagnostic records rendering timing and errors for individual documents.
type RenderDiagnostic struct {
	Name     string
	Output   string
	Duration time.Duration
	Err      error
}

type renderOutcome struct {
	page       RenderedPage
	diagnostic RenderDiagnostic
	err        error
}

type renderJob struct {
	site    SiteMetadata
	build   BuildMetadata
	layout  *layout
	files   interfaces.Files
	outputs map[string]string
}

const defaultLayout = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Page.Title }}</title>
</head>
<body>
<main>
{{ .Page.Body }}
</main>
{{- with .Page.Pagination }}
<section class="pagination" data-year="{{ .Year }}">
<h2>{{ .Year }}</h2>
<ul>
{{- range .Posts }}
<li class="{{ if .Summary }}summary{{ else }}entry{{ end }}"><a href="{{ .URL }}">{{ .Title }}</a>{{ if .HasDate }} <time datetime="{{ .Date.Format "2006-01-02" }}">{{ .Date.Format "Jan 2, 2006" }}</time>{{ end }}</li>
{{- end }}
</ul>
<nav>
{{- with .Prev }}
<a rel="prev" href="{{ .URL }}">{{ .Year }}</a>
{{- end }}
{{- with .Next }}
<a rel="next" href="{{ .URL }}">{{ .Year }}</a>
{{- end }}
</nav>
</section>
{{- end }}
</body>
</html>
`

type layout struct {
	tmpl *template.Template
}

func loadLayout(file string) (*layout, error) {
	source := defaultLayout
	name := "layout"
	if trimmed := strings.TrimSpace(file); trimmed != "" {
		data, err := os.ReadFile(trimmed)
		if err != nil {
			return nil, fmt.Errorf("generator: read layout %s: %w", trimmed, err)
		}
		source = string(data)
		name = trimmed
	}
	return parseLayout(name, source)
}

func parseLayout(name, source string) (*layout, error) {
	tmpl, err := template.New(name).Option("missingkey=zero").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("generator: parse layout %s: %w", name, err)
	}
	return &layout{tmpl: tmpl}, nil
}

func (l *layout) render(data TemplateContext) (string, error) {
	var buf bytes.Buffer
	if err := l.tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// usesLayout reports whether the document opts out with `layout: false` or
// `layout: none`.
func usesLayout(doc interfaces.Document) bool {
	switch v := doc["layout"].(type) {
	case bool:
		return v
	case string:
		return !strings.EqualFold(strings.TrimSpace(v), "none")
	default:
		return true
	}
}

func newPageView(name string, doc interfaces.Document, body []byte, job renderJob) PageView {
	output := job.outputs[name]
	view := PageView{
		Name:       name,
		Output:     output,
		URL:        urlFor(job.site.BaseURL, output),
		Title:      titleFor(name, doc),
		Attributes: doc,
		Body:       template.HTML(body),
	}
	if info, ok := doc.Pagination(); ok {
		view.Pagination = newPaginationView(info, job)
	}
	return view
}

func newPaginationView(info *interfaces.PageInfo, job renderJob) *PaginationView {
	view := &PaginationView{
		Year:  info.Year,
		Posts: make([]PostView, 0, len(info.Posts)),
	}
	for _, post := range info.Posts {
		view.Posts = append(view.Posts, newPostView(post, job))
	}
	if info.PrevName != "" {
		view.Prev = newLinkView(info.PrevName, info.Prev, job)
	}
	if info.NextName != "" {
		view.Next = newLinkView(info.NextName, info.Next, job)
	}
	return view
}

func newPostView(post any, job renderJob) PostView {
	view := PostView{Value: post, Summary: true}
	if item, ok := post.(pagination.SummaryItem); ok {
		view.Summary = item.DisplayAsSummary
	}
	doc, ok := pagination.PostDocument(post)
	if !ok {
		view.Title = fmt.Sprint(post)
		return view
	}

	view.Attributes = doc
	source := doc.String(interfaces.AttrPath)
	view.Title = titleFor(source, doc)
	if source != "" {
		view.URL = urlFor(job.site.BaseURL, outputPath(source))
	}
	if date, ok := dates.Parse(doc[interfaces.AttrDate], time.UTC); ok {
		view.Date = date
		view.HasDate = true
	}
	return view
}

func newLinkView(name string, doc interfaces.Document, job renderJob) *LinkView {
	link := &LinkView{Name: name}
	output, ok := job.outputs[name]
	if !ok {
		output = outputPath(name)
	}
	link.URL = urlFor(job.site.BaseURL, output)
	if info, ok := doc.Pagination(); ok {
		link.Year = info.Year
	}
	return link
}

func titleFor(name string, doc interfaces.Document) string {
	if title := strings.TrimSpace(doc.String(interfaces.AttrTitle)); title != "" {
		return title
	}
	return name
}
