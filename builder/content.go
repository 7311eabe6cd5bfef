package builder

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ErrInvalidDate is returned when a content date is not yyyy-mm-dd.
	ErrInvalidDate = errors.New("invalid content date")
	// ErrEmptySlug is returned for files whose name yields no slug.
	ErrEmptySlug = errors.New("empty content slug")
)

const (
	defaultDate = "1970-01-01"
	dateLayout  = "2006-01-02"
	rfc2822     = "Mon, 02 Jan 2006 15:04:05 +0000"
)

var dateSlugRe = regexp.MustCompile(`^(?:(\d{4}-\d{2}-\d{2})-)?(.+)$`)

// Record holds the fields of one content file: the filename-derived
// defaults, its headers, the rendered body and derived dates.
type Record map[string]string

// Date returns the yyyy-mm-dd date of the record.
func (r Record) Date() string { return r["date"] }

// Slug returns the URL name of the record.
func (r Record) Slug() string { return r["slug"] }

// Title returns the title header or the one derived from the slug.
func (r Record) Title() string { return r["title"] }

// Content returns the body, rendered to HTML for markdown files.
func (r Record) Content() string { return r["content"] }

// RenderEnabled reports whether the body should be rendered as a template.
func (r Record) RenderEnabled() bool { return r["render"] == "yes" }

// Unlisted reports whether the record is kept out of lists and feeds.
func (r Record) Unlisted() bool {
	switch strings.ToLower(r["unlisted"]) {
	case "yes", "true":
		return true
	}
	return false
}

// Loader reads content files into records.
type Loader struct {
	Markdown Converter
}

// Load builds a record from the file at path with the given text.
func (l *Loader) Load(path, text string) (Record, error) {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}

	m := dateSlugRe.FindStringSubmatch(base)
	if m == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmptySlug, path)
	}

	rec := Record{
		"date":   defaultDate,
		"slug":   m[2],
		"title":  titleFromSlug(m[2]),
		"source": path,
	}
	if m[1] != "" {
		rec["date"] = m[1]
	}

	headers, body := SplitHeaders(text)
	for _, h := range headers {
		rec[h.Key] = h.Value
	}

	if isMarkdown(path) {
		body = l.markdown(path, body)
	}
	rec["content"] = body

	rfc, err := rfc2822Date(rec.Date())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	rec["rfc_2822_date"] = rfc

	return rec, nil
}

func (l *Loader) markdown(path, body string) string {
	conv := l.Markdown
	if conv == nil {
		conv = Unavailable{}
	}

	html, err := conv.Convert([]byte(body))
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Cannot render markdown")
		return body
	}
	return string(html)
}

// rfc2822Date converts a yyyy-mm-dd date to RFC 2822 form at midnight UTC.
func rfc2822Date(date string) (string, error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrInvalidDate, date, err)
	}
	return d.Format(rfc2822), nil
}

// titleFromSlug turns "my-first_post" into "My First Post".
func titleFromSlug(slug string) string {
	words := strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(slug))
	return cases.Title(language.English).String(strings.Join(words, " "))
}
