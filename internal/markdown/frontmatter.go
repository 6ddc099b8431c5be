package markdown

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-pagination/pkg/interfaces"
)

// Attributes added by BuildDocument next to the front matter values.
const (
	AttrModified = "mtime"
	AttrChecksum = "checksum"
)

// ParseFrontMatter extracts metadata and body content from source. Sources
// without front matter return an empty attribute map and the full body.
func ParseFrontMatter(source []byte) (map[string]any, []byte, error) {
	meta := map[string]any{}

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	attrs := make(map[string]any, len(meta))
	for key, value := range meta {
		attrs[key] = normalizeValue(value)
	}
	return attrs, body, nil
}

// BuildDocument assembles a pipeline document from a named source file. The
// body is stored under "contents"; "path", "mtime" and "checksum" describe the
// source. Front matter keys never override those reserved attributes.
func BuildDocument(name string, source []byte, modified time.Time) (interfaces.Document, error) {
	attrs, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	doc := make(interfaces.Document, len(attrs)+4)
	for key, value := range attrs {
		doc[key] = value
	}

	sum := sha256.Sum256(source)
	doc[interfaces.AttrContents] = body
	doc[interfaces.AttrPath] = name
	doc[AttrModified] = modified
	doc[AttrChecksum] = hex.EncodeToString(sum[:])
	return doc, nil
}

// IsMarkdown reports whether name carries a Markdown extension.
func IsMarkdown(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown", ".mdown", ".mkd":
		return true
	default:
		return false
	}
}

// normalizeValue converts YAML decoder maps keyed by any into string keyed
// maps so nested attributes can be walked uniformly.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalizeValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return value
	}
}
