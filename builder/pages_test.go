package builder

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()

	return &Builder{
		loader:       &Loader{Markdown: GoMarkdown{}},
		renderer:     Renderer{Missing: PassthroughLiteral},
		summaryWords: DefaultSummaryWords,
		now:          func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func writeTestFile(t *testing.T, path, text string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func slugs(recs []Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Slug())
	}
	return out
}

func TestMakePages_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "src", "2023-01-01-a.md"), "# Hi")
	writeTestFile(t, filepath.Join(dir, "src", "2023-02-01-b.md"), "# Bye")

	b := newTestBuilder(t)
	recs, err := b.MakePages(
		filepath.Join(dir, "src", "*.md"),
		filepath.Join(dir, "out", "{{ slug }}", "index.html"),
		"{{ content }}",
		NewParams(nil),
	)
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"b", "a"}, slugs(recs)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	a := readTestFile(t, filepath.Join(dir, "out", "a", "index.html"))
	assert.Contains(t, a, "Hi</h1>")
	assert.Equal(t, recs[1].Content(), a)

	bye := readTestFile(t, filepath.Join(dir, "out", "b", "index.html"))
	assert.Contains(t, bye, "Bye</h1>")
}

func TestMakePages_StableSortForEqualDates(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "src", "a.html"), "<!-- date: 2023-01-01 -->\nA")
	writeTestFile(t, filepath.Join(dir, "src", "b.html"), "<!-- date: 2023-03-01 -->\nB")
	writeTestFile(t, filepath.Join(dir, "src", "c.html"), "<!-- date: 2023-01-01 -->\nC")

	b := newTestBuilder(t)
	recs, err := b.MakePages(
		filepath.Join(dir, "src", "*.html"),
		filepath.Join(dir, "out", "{{ slug }}.html"),
		"{{ content }}",
		NewParams(nil),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "c"}, slugs(recs))
}

func TestMakePages_RenderSelfReferencingContent(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "src", "about.html"),
		"<!-- title: About me -->\n<!-- render: yes -->\n<h1>{{ title }}</h1> by {{ author }} {{ unknown }}")
	writeTestFile(t, filepath.Join(dir, "src", "plain.html"),
		"<!-- title: Plain -->\n<h1>{{ title }}</h1>")

	b := newTestBuilder(t)
	recs, err := b.MakePages(
		filepath.Join(dir, "src", "*.html"),
		filepath.Join(dir, "out", "{{ slug }}", "index.html"),
		"<title>{{ title }}</title>{{ content }}",
		NewParams(map[string]string{"author": "Ann"}),
	)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	about := readTestFile(t, filepath.Join(dir, "out", "about", "index.html"))
	assert.Equal(t, "<title>About me</title><h1>About me</h1> by Ann {{ unknown }}", about)

	plain := readTestFile(t, filepath.Join(dir, "out", "plain", "index.html"))
	assert.Equal(t, "<title>Plain</title><h1>{{ title }}</h1>", plain)

	for _, r := range recs {
		if r.Slug() == "about" {
			assert.Equal(t, "<h1>About me</h1> by Ann {{ unknown }}", r.Content())
		}
	}
}

func TestMakePages_RenderFromCallParams(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "src", "_index.html"), "Latest: {{ most_recent_post }}")

	b := newTestBuilder(t)
	_, err := b.MakePages(
		filepath.Join(dir, "src", "_index.html"),
		filepath.Join(dir, "out", "index.html"),
		"{{ content }}",
		NewParams(map[string]string{"render": "yes", "most_recent_post": "<li>post</li>"}),
	)
	require.NoError(t, err)

	assert.Equal(t, "Latest: <li>post</li>", readTestFile(t, filepath.Join(dir, "out", "index.html")))
}

func TestMakePages_NoMatches(t *testing.T) {
	b := newTestBuilder(t)

	recs, err := b.MakePages(filepath.Join(t.TempDir(), "*.md"), "unused", "", NewParams(nil))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestMakePages_InvalidDateAborts(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "src", "bad.html"), "<!-- date: 01/02/2023 -->\nx")

	b := newTestBuilder(t)
	_, err := b.MakePages(filepath.Join(dir, "src", "*.html"), filepath.Join(dir, "out", "x"), "", NewParams(nil))
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestMakePages_FailOnMissingPolicy(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "src", "a.html"), "x")

	b := newTestBuilder(t)
	b.renderer = Renderer{Missing: FailOnMissing}

	_, err := b.MakePages(filepath.Join(dir, "src", "*.html"), filepath.Join(dir, "out", "{{ slug }}"), "{{ nope }}", NewParams(nil))
	require.ErrorIs(t, err, ErrMissingKey)
}
