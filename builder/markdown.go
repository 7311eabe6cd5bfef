package builder

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	mdparser "github.com/gomarkdown/markdown/parser"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// ErrConverterUnavailable is returned by a converter that cannot render
// markdown at all.
var ErrConverterUnavailable = errors.New("markdown converter unavailable")

// Extensions of content files whose body is markdown.
var markdownExts = []string{".md", ".mkd", ".mkdn", ".mdown", ".markdown"}

// Converter turns markdown into HTML.
type Converter interface {
	Convert(src []byte) ([]byte, error)
}

// NewConverter returns the converter registered under name.
// Known names are "gomarkdown" (the default for ""), "goldmark" and "none".
func NewConverter(name string) (Converter, error) {
	switch strings.ToLower(name) {
	case "", "gomarkdown":
		return GoMarkdown{}, nil
	case "goldmark":
		return NewGoldmark(), nil
	case "none":
		return Unavailable{}, nil
	default:
		return nil, fmt.Errorf("unknown markdown engine %q", name)
	}
}

// isMarkdown reports whether path has one of the markdown extensions.
func isMarkdown(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range markdownExts {
		if ext == e {
			return true
		}
	}
	return false
}

// GoMarkdown converts markdown elements to raw unstyled HTML.
type GoMarkdown struct{}

// Convert renders md with common extensions and auto heading IDs.
func (GoMarkdown) Convert(md []byte) ([]byte, error) {
	// create markdown parser with extensions
	extensions := mdparser.CommonExtensions | mdparser.AutoHeadingIDs | mdparser.NoEmptyLineBeforeBlock
	p := mdparser.NewWithExtensions(extensions)
	doc := p.Parse(md)

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})

	return markdown.Render(doc, renderer), nil
}

// Goldmark converts CommonMark with GitHub extensions. Raw HTML in the
// source is kept.
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark returns a goldmark converter with GFM enabled.
func NewGoldmark() *Goldmark {
	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

// Convert renders src to HTML.
func (g *Goldmark) Convert(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.md.Convert(src, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unavailable stands in when no markdown engine can be used.
type Unavailable struct{}

// Convert always fails with ErrConverterUnavailable.
func (Unavailable) Convert([]byte) ([]byte, error) {
	return nil, ErrConverterUnavailable
}
