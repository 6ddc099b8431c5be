package pagination_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-pagination"
	"github.com/goliatone/go-pagination/internal/di"
	"github.com/goliatone/go-pagination/internal/generator"
)

func blogFiles() (pagination.Files, pagination.Collections) {
	files := pagination.Files{
		"blog.md": {"paginate": "posts", "title": "Blog"},
	}
	collections := pagination.Collections{}
	for i := 0; i < 6; i++ {
		year := 2016 - i/2
		name := fmt.Sprintf("posts/post-%d.md", i)
		files[name] = pagination.Document{
			"title":      fmt.Sprintf("Post %d", i),
			"collection": "posts",
			"date":       time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC),
		}
		collections["posts"] = append(collections["posts"], files[name])
	}
	return files, collections
}

func TestPaginate(t *testing.T) {
	files, collections := blogFiles()

	result, err := pagination.Paginate(files, collections, pagination.Options{})
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if result.Created() != 2 {
		t.Fatalf("expected 2 created pages, got %d", result.Created())
	}
	for _, name := range []string{"blog-2015.md", "blog-2014.md"} {
		if _, ok := files[name]; !ok {
			t.Fatalf("expected %s in files", name)
		}
	}

	info, ok := files["blog.md"].Pagination()
	if !ok {
		t.Fatal("expected pagination on anchor")
	}
	if info.Year != 2016 || len(info.Posts) != 2 || info.NextName != "blog-2015.md" || info.Prev != nil {
		t.Fatalf("unexpected anchor pagination %+v", info)
	}
}

func TestPaginateRejectsMissingCollection(t *testing.T) {
	files := pagination.Files{"blog.md": {"paginate": "missing"}}
	_, err := pagination.Paginate(files, pagination.Collections{}, pagination.Options{})
	if !errors.Is(err, pagination.ErrCollectionNotFound) {
		t.Fatalf("expected ErrCollectionNotFound, got %v", err)
	}
}

func TestRunInvokesDoneOnce(t *testing.T) {
	files, collections := blogFiles()
	calls := 0
	pagination.Run(files, collections, pagination.Options{Iteratee: pagination.Summary(1)}, func(err error) {
		calls++
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	})
	if calls != 1 {
		t.Fatalf("expected done once, got %d", calls)
	}

	info, _ := files["blog.md"].Pagination()
	first, ok := info.Posts[0].(pagination.SummaryItem)
	if !ok || !first.DisplayAsSummary {
		t.Fatalf("expected first post flagged for summary, got %#v", info.Posts[0])
	}
}

func TestRunReportsInvalidOptions(t *testing.T) {
	var got error
	pagination.Run(pagination.Files{}, pagination.Collections{}, pagination.Options{Path: "/abs"}, func(err error) {
		got = err
	})
	if got == nil {
		t.Fatal("expected options error")
	}
}

func TestLookupIteratee(t *testing.T) {
	if _, err := pagination.LookupIteratee("nope", pagination.IterateeOptions{}); !errors.Is(err, pagination.ErrUnknownIteratee) {
		t.Fatalf("expected ErrUnknownIteratee, got %v", err)
	}
	iteratee, err := pagination.LookupIteratee("identity", pagination.IterateeOptions{})
	if err != nil {
		t.Fatalf("LookupIteratee: %v", err)
	}
	doc := pagination.Document{"title": "x"}
	if got, ok := iteratee(doc, 0).(pagination.Document); !ok || got["title"] != "x" {
		t.Fatalf("identity should return the document, got %#v", got)
	}
}

type discardWriter struct{ paths []string }

func (w *discardWriter) EnsureDir(context.Context, string) error { return nil }

func (w *discardWriter) WriteFile(_ context.Context, req generator.WriteFileRequest) error {
	w.paths = append(w.paths, req.Path)
	return nil
}

func TestModuleBuild(t *testing.T) {
	cfg := pagination.DefaultConfig()
	cfg.Logging.Provider = "none"

	content := fstest.MapFS{
		"blog.md":        {Data: []byte("---\ntitle: Blog\npaginate: posts\n---\nIndex")},
		"posts/first.md": {Data: []byte("---\ntitle: First\ncollection: posts\ndate: 2016-07-01\n---\nOne")},
		"posts/older.md": {Data: []byte("---\ntitle: Older\ncollection: posts\ndate: 2015-07-01\n---\nTwo")},
	}
	writer := &discardWriter{}

	module, err := pagination.New(cfg, di.WithContentFS(content), di.WithArtifactWriter(writer))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if module.Paginator() == nil || module.Content() == nil || module.Container() == nil {
		t.Fatal("expected module services to be wired")
	}

	result, err := module.Build(context.Background(), pagination.BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(result.Chains) != 1 || len(result.Chains[0].Pages) != 2 {
		t.Fatalf("unexpected chains %+v", result.Chains)
	}
	if len(writer.paths) == 0 {
		t.Fatal("expected artifacts to be written")
	}
}
