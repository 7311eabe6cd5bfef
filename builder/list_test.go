package builder

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	words := make([]string, 30)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i+1)
	}
	text := "<p>" + strings.Join(words, " ") + "</p>"

	got := Truncate(text, 25)

	assert.Equal(t, strings.Join(words[:25], " "), got)
	assert.Len(t, strings.Fields(got), 25)
	assert.NotContains(t, got, "<")
	assert.NotContains(t, got, ">")
}

func TestTruncate_TagsSeparateWords(t *testing.T) {
	assert.Equal(t, "one two three", Truncate("<h1>one</h1><p>two\n<a\nhref='x'>three</a></p>", 25))
	assert.Equal(t, "a b", Truncate("a b", 25))
	assert.Equal(t, "", Truncate("<br/>", 25))
}

func TestTruncateProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(99)

	properties := gopter.NewProperties(parameters)

	properties.Property("summaries keep at most n tag-free words", prop.ForAll(
		func(words []string, n int) bool {
			text := "<p>" + strings.Join(words, " <b>x</b> ") + "</p>"
			got := strings.Fields(Truncate(text, n))

			want := n
			total := len(words)
			if total > 0 {
				total = 2*len(words) - 1
			}
			if total < want {
				want = total
			}
			return len(got) == want && !strings.ContainsAny(strings.Join(got, " "), "<>")
		},
		gen.SliceOf(gen.Identifier()),
		gen.IntRange(1, 40),
	))

	properties.TestingRun(t)
}

func TestMakeList(t *testing.T) {
	dir := t.TempDir()
	posts := []Record{
		{"slug": "b", "title": "B", "content": "<p>second post body</p>"},
		{"slug": "hidden", "title": "Hidden", "content": "secret", "unlisted": "yes"},
		{"slug": "a", "title": "A", "content": "<p>first post body</p>"},
	}

	b := newTestBuilder(t)
	b.summaryWords = 2

	err := b.MakeList(posts,
		filepath.Join(dir, "{{ blog }}", "index.html"),
		"<h1>{{ title }}</h1><ul>{{ content }}</ul>",
		`<li><a href="{{ base_path }}/{{ blog }}/{{ slug }}/">{{ title }}</a> {{ summary }}</li>`,
		NewParams(map[string]string{"base_path": "/site"}).With(map[string]string{"blog": "blog", "title": "Notes"}),
	)
	require.NoError(t, err)

	got := readTestFile(t, filepath.Join(dir, "blog", "index.html"))
	assert.Equal(t,
		`<h1>Notes</h1><ul>`+
			`<li><a href="/site/blog/b/">B</a> second post</li>`+
			`<li><a href="/site/blog/a/">A</a> first post</li>`+
			`</ul>`,
		got)
}

func TestMakeList_Feed(t *testing.T) {
	dir := t.TempDir()
	posts := []Record{
		{"slug": "a", "title": "A", "content": "<p>Body</p>", "rfc_2822_date": "Sun, 01 Jan 2023 00:00:00 +0000"},
	}

	b := newTestBuilder(t)
	err := b.MakeList(posts,
		filepath.Join(dir, "news", "rss.xml"),
		"<rss><channel><title>{{ title }}</title>{{ content }}</channel></rss>",
		"<item><title>{{ title }}</title><pubDate>{{ rfc_2822_date }}</pubDate><description>{{ summary }}</description></item>",
		NewParams(map[string]string{"title": "Journal"}),
	)
	require.NoError(t, err)

	assert.Equal(t,
		"<rss><channel><title>Journal</title><item><title>A</title><pubDate>Sun, 01 Jan 2023 00:00:00 +0000</pubDate><description>Body</description></item></channel></rss>",
		readTestFile(t, filepath.Join(dir, "news", "rss.xml")))
}

func TestMakeList_Empty(t *testing.T) {
	dir := t.TempDir()

	b := newTestBuilder(t)
	require.NoError(t, b.MakeList(nil, filepath.Join(dir, "index.html"), "[{{ content }}]", "x", NewParams(nil)))

	assert.Equal(t, "[]", readTestFile(t, filepath.Join(dir, "index.html")))
}
