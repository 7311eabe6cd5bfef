package builder

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"adventune/skrivsite/config"
)

// Layout files read from the layout directory.
const (
	pageLayoutFile        = "page.html"
	postLayoutFile        = "post.html"
	listLayoutFile        = "list.html"
	itemLayoutFile        = "item.html"
	previewItemLayoutFile = "preview_item.html"
	feedLayoutFile        = "feed.xml"
	feedItemLayoutFile    = "item.xml"
)

// Builder turns a content tree into a site. One Builder can run any
// number of builds, one at a time.
type Builder struct {
	cfg          config.Config
	loader       *Loader
	renderer     Renderer
	summaryWords int
	now          func() time.Time
}

// New creates a builder for cfg.
func New(cfg config.Config) (*Builder, error) {
	conv, err := NewConverter(cfg.Markdown)
	if err != nil {
		return nil, err
	}
	policy, err := ParseMissingKeyPolicy(cfg.MissingKeys)
	if err != nil {
		return nil, err
	}

	words := cfg.SummaryWords
	if words <= 0 {
		words = DefaultSummaryWords
	}

	return &Builder{
		cfg:          cfg,
		loader:       &Loader{Markdown: conv},
		renderer:     Renderer{Missing: policy},
		summaryWords: words,
		now:          time.Now,
	}, nil
}

type layouts struct {
	page, post, list, item, previewItem, feed, feedItem string
}

func loadLayouts(dir string) (layouts, error) {
	var l layouts
	files := []struct {
		name string
		dst  *string
	}{
		{pageLayoutFile, &l.page},
		{postLayoutFile, &l.post},
		{listLayoutFile, &l.list},
		{itemLayoutFile, &l.item},
		{previewItemLayoutFile, &l.previewItem},
		{feedLayoutFile, &l.feed},
		{feedItemLayoutFile, &l.feedItem},
	}

	for _, f := range files {
		text, err := readFile(filepath.Join(dir, f.name))
		if err != nil {
			return layouts{}, fmt.Errorf("load layout: %w", err)
		}
		*f.dst = text
	}
	return l, nil
}

// Build removes the output directory and generates the whole site again:
// static files, section posts, the home page, other pages, section
// listings and feeds, in that order.
func (b *Builder) Build() error {
	cfg := b.cfg
	out := cfg.OutputDir

	log.Info().
		Str("target", string(cfg.Target)).
		Str("output", out).
		Msg("Building site")

	if err := resetDir(out); err != nil {
		return err
	}
	if err := copyTree(cfg.StaticDir, out); err != nil {
		return fmt.Errorf("copy static files: %w", err)
	}

	site, err := cfg.SiteParams(b.now())
	if err != nil {
		return err
	}
	params := NewParams(site)
	log.Debug().Interface("params", params.Flatten()).Msg("Site parameters")

	l, err := loadLayouts(cfg.LayoutDir)
	if err != nil {
		return err
	}

	// Posts and lists are shown inside the page layout.
	postLayout := Render(l.page, NewParams(map[string]string{"content": l.post}))
	listLayout := Render(l.page, NewParams(map[string]string{"content": l.list}))

	posts := make(map[string][]Record, len(cfg.Sections))
	for _, s := range cfg.Sections {
		recs, err := b.MakePages(
			filepath.Join(cfg.ContentDir, s.Name, "*.md"),
			filepath.Join(out, s.Name, "{{ slug }}", "index.html"),
			postLayout,
			params.Set("blog", s.Name),
		)
		if err != nil {
			return err
		}
		posts[s.Name] = recs
	}

	var mostRecent string
	if len(cfg.Sections) > 0 {
		if post, ok := latestListed(posts[cfg.Sections[0].Name]); ok {
			mostRecent, err = b.renderItem(post, l.previewItem, params)
			if err != nil {
				return err
			}
		}
	}

	pageParams := params.Set("render", "yes")

	_, err = b.MakePages(
		filepath.Join(cfg.ContentDir, "_index.html"),
		filepath.Join(out, "index.html"),
		l.page,
		pageParams.Set("most_recent_post", mostRecent),
	)
	if err != nil {
		return err
	}

	for _, ext := range []string{"html", "md"} {
		_, err = b.MakePages(
			filepath.Join(cfg.ContentDir, "[^_]*."+ext),
			filepath.Join(out, "{{ slug }}", "index.html"),
			l.page,
			pageParams,
		)
		if err != nil {
			return err
		}
	}

	for _, s := range cfg.Sections {
		title := s.Title
		if title == "" {
			title = titleFromSlug(s.Name)
		}
		feedTitle := s.FeedTitle
		if feedTitle == "" {
			feedTitle = title
		}
		feedPath := s.FeedPath
		if feedPath == "" {
			feedPath = filepath.Join(s.Name, "rss.xml")
		}

		err := b.MakeList(posts[s.Name],
			filepath.Join(out, s.Name, "index.html"),
			listLayout, l.item,
			params.With(map[string]string{"blog": s.Name, "title": title}),
		)
		if err != nil {
			return err
		}

		err = b.MakeList(posts[s.Name],
			filepath.Join(out, feedPath),
			l.feed, l.feedItem,
			params.With(map[string]string{"blog": s.Name, "title": feedTitle}),
		)
		if err != nil {
			return err
		}
	}

	log.Info().Str("output", out).Msg("Site built")
	return nil
}

// latestListed returns the first post that is not unlisted.
func latestListed(posts []Record) (Record, bool) {
	for _, p := range posts {
		if !p.Unlisted() {
			return p, true
		}
	}
	return nil, false
}
