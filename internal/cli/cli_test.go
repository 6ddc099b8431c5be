package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeContent(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"blog.md":          "---\ntitle: Blog\npaginate: posts\n---\nIndex",
		"posts/one.md":     "---\ntitle: One\ncollection: posts\ndate: 2016-07-01\n---\nOne",
		"posts/two.md":     "---\ntitle: Two\ncollection: posts\ndate: 2016-03-01\n---\nTwo",
		"posts/three.md":   "---\ntitle: Three\ncollection: posts\ndate: 2015-07-01\n---\nThree",
		"posts/undated.md": "---\ntitle: Undated\ncollection: posts\n---\nNo date",
	}
	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-provider", "none"))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBuildCommandWritesYearPages(t *testing.T) {
	content := writeContent(t)
	out := t.TempDir()

	stdout, err := execute(t, "build", "--content", content, "--out", out)
	require.NoError(t, err)

	assert.Contains(t, stdout, "blog.md -> blog.html, blog-2015.html")
	for _, name := range []string{"blog.html", "blog-2015.html", "posts/one.html", "pagination-manifest.json"} {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(name)))
	}

	page, err := os.ReadFile(filepath.Join(out, "blog-2015.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), `<a rel="prev" href="/blog.html">2016</a>`)
	assert.Contains(t, string(page), ">Three</a>")
	assert.NotContains(t, string(page), "Undated")
}

func TestBuildCommandPathTemplate(t *testing.T) {
	content := writeContent(t)
	out := t.TempDir()

	stdout, err := execute(t, "build", "--content", content, "--out", out, "--path", ":collection/page")
	require.NoError(t, err)

	assert.Contains(t, stdout, "blog.md -> blog.html, posts/page-2015.html")
	assert.FileExists(t, filepath.Join(out, "posts", "page-2015.html"))
}

func TestBuildCommandDryRunWritesNothing(t *testing.T) {
	content := writeContent(t)
	out := t.TempDir()

	stdout, err := execute(t, "build", "--content", content, "--out", out, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "(dry run)")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBuildCommandRejectsInvalidFlags(t *testing.T) {
	content := writeContent(t)

	_, err := execute(t, "build", "--content", content, "--out", t.TempDir(), "--summary-limit", "-1")
	require.Error(t, err)

	_, err = execute(t, "build", "--content", content, "--out", t.TempDir(), "--iteratee", "shuffle")
	require.Error(t, err)

	_, err = execute(t, "build", "--content", filepath.Join(content, "missing"), "--out", t.TempDir())
	require.Error(t, err)
}

func TestBuildCommandReadsConfigFile(t *testing.T) {
	content := writeContent(t)
	out := t.TempDir()
	config := filepath.Join(t.TempDir(), "paginate.yaml")
	source := fmt.Sprintf("content:\n  dir: %q\ngenerator:\n  output_dir: %q\n  generate_sitemap: true\npagination:\n  path: archive/page\n", content, out)
	require.NoError(t, os.WriteFile(config, []byte(source), 0o644))

	_, err := execute(t, "build", "--config", config)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, "archive", "page-2015.html"))
	assert.FileExists(t, filepath.Join(out, "sitemap.xml"))
}

func TestInspectCommandPrintsChains(t *testing.T) {
	content := writeContent(t)

	stdout, err := execute(t, "inspect", "--content", content)
	require.NoError(t, err)

	assert.Contains(t, stdout, "ANCHOR")
	assert.Regexp(t, `blog\.md\s+2016\s+blog\.md\s+2\s+-\s+blog-2015\.html`, stdout)
	assert.Regexp(t, `blog\.md\s+2015\s+blog-2015\.md\s+1\s+blog\.html\s+-`, stdout)
}

func TestInspectCommandWithoutAnchors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "about.md"), []byte("# About"), 0o644))

	stdout, err := execute(t, "inspect", "--content", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "no paginated documents found")
}

func TestWatcherDebouncesRebuilds(t *testing.T) {
	dir := t.TempDir()
	rebuilds := make(chan []string, 4)

	watcher, err := NewWatcher(dir, 50*time.Millisecond, func(_ context.Context, changed []string) error {
		rebuilds <- changed
		return nil
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	var changed []string
	for i := 0; changed == nil; i++ {
		select {
		case changed = <-rebuilds:
		case <-tick.C:
			name := filepath.Join(dir, fmt.Sprintf("post-%d.md", i))
			require.NoError(t, os.WriteFile(name, []byte("x"), 0o644))
		case <-deadline:
			t.Fatal("watcher did not trigger a rebuild")
		}
	}
	assert.NotEmpty(t, changed)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}

func TestNewWatcherValidatesArguments(t *testing.T) {
	_, err := NewWatcher("", time.Second, func(context.Context, []string) error { return nil }, nil)
	require.Error(t, err)

	_, err = NewWatcher(t.TempDir(), time.Second, nil, nil)
	require.Error(t, err)

	watcher, err := NewWatcher(filepath.Join(t.TempDir(), "missing"), 0, func(context.Context, []string) error { return nil }, nil)
	require.NoError(t, err)
	assert.Error(t, watcher.Run(context.Background()))
}
