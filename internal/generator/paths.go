package generator

import (
	"path"
	"strings"

	"github.com/goliatone/go-pagination/internal/markdown"
	"github.com/goliatone/go-pagination/pkg/interfaces"
)

// outputPath maps a source document name to its artifact path. Markdown
// sources become .html files; everything else keeps its name.
func outputPath(name string) string {
	name = strings.TrimLeft(strings.TrimSpace(name), "/")
	if name == "" {
		return "index.html"
	}
	if markdown.IsMarkdown(name) {
		return strings.TrimSuffix(name, path.Ext(name)) + ".html"
	}
	return name
}

func outputIndex(files interfaces.Files) map[string]string {
	index := make(map[string]string, len(files))
	for name := range files {
		index[name] = outputPath(name)
	}
	return index
}

func routeFor(output string) string {
	return "/" + strings.TrimLeft(output, "/")
}

func urlFor(baseURL, output string) string {
	return strings.TrimRight(baseURL, "/") + routeFor(output)
}
