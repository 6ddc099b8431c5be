package markdown

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-pagination/pkg/interfaces"
)

func contentFS() fstest.MapFS {
	modified := time.Date(2017, time.January, 1, 0, 0, 0, 0, time.UTC)
	file := func(body string) *fstest.MapFile {
		return &fstest.MapFile{Data: []byte(body), ModTime: modified}
	}
	return fstest.MapFS{
		"blog.md":               file("---\ntitle: Blog\npaginate: posts\n---\nWelcome"),
		"posts/first.md":        file("---\ntitle: First\ndate: 2016-01-02\ncollection: posts\n---\nOne"),
		"posts/second.markdown": file("---\ntitle: Second\ndate: 2015-03-04\ncollection: posts\n---\nTwo"),
		"posts/drafts/wip.md":   file("---\ntitle: WIP\n---\nsoon"),
		"about.html":            file("<p>about</p>"),
		"styles.css":            file("body{}"),
		".hidden/secret.md":     file("nope"),
		"posts/.DS_Store":       file("junk"),
	}
}

func newTestService(t *testing.T, recursive bool) *Service {
	t.Helper()
	svc, err := NewService(Config{FS: contentFS(), Recursive: recursive}, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestServiceLoad(t *testing.T) {
	svc := newTestService(t, true)

	doc, err := svc.Load(context.Background(), "posts/first.md")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.String("title") != "First" {
		t.Fatalf("expected title First, got %#v", doc["title"])
	}
	if doc.String(interfaces.AttrPath) != "posts/first.md" {
		t.Fatalf("expected path attribute, got %#v", doc[interfaces.AttrPath])
	}
	if string(doc.Contents()) != "One" {
		t.Fatalf("unexpected contents %q", string(doc.Contents()))
	}
}

func TestServiceLoadAllRecursive(t *testing.T) {
	svc := newTestService(t, true)

	files, err := svc.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	want := []string{"about.html", "blog.md", "posts/drafts/wip.md", "posts/first.md", "posts/second.markdown"}
	got := Names(files)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected files %v, want %v", got, want)
	}
	for name, doc := range files {
		if doc.String(AttrChecksum) == "" {
			t.Fatalf("expected checksum set for %s", name)
		}
	}
}

func TestServiceLoadAllTopLevelOnly(t *testing.T) {
	svc := newTestService(t, false)

	files, err := svc.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 top level documents, got %v", Names(files))
	}
}

func TestLoaderPatterns(t *testing.T) {
	loader := NewLoader(contentFS(), LoaderConfig{Patterns: []string{"posts/*.md"}, Recursive: true}, nil)

	files, err := loader.LoadFiles(context.Background(), ".")
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected only posts/first.md, got %v", Names(files))
	}
	if _, ok := files["posts/first.md"]; !ok {
		t.Fatalf("expected posts/first.md, got %v", Names(files))
	}
}

func TestLoaderHonoursContext(t *testing.T) {
	loader := NewLoader(contentFS(), LoaderConfig{Recursive: true}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := loader.LoadFiles(ctx, "."); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestServiceRenderDocument(t *testing.T) {
	svc := newTestService(t, true)
	ctx := context.Background()

	doc := interfaces.Document{interfaces.AttrContents: []byte("Hello **there**")}
	html, err := svc.RenderDocument(ctx, "posts/x.md", doc)
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}
	if !strings.Contains(string(html), "<strong>there</strong>") {
		t.Fatalf("expected rendered markdown, got %q", string(html))
	}

	raw, err := svc.RenderDocument(ctx, "about.html", interfaces.Document{interfaces.AttrContents: []byte("<p>a</p>")})
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}
	if string(raw) != "<p>a</p>" {
		t.Fatalf("expected html to pass through, got %q", string(raw))
	}

	if _, err := svc.RenderDocument(ctx, "x.md", nil); err == nil {
		t.Fatalf("expected error for nil document")
	}
}

func TestNewServiceRejectsMissingBasePath(t *testing.T) {
	if _, err := NewService(Config{BasePath: t.TempDir() + "/missing"}, nil, nil); err == nil {
		t.Fatalf("expected error for missing base path")
	}
}
