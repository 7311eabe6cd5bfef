package builder

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultSummaryWords is how many words of a post go into its summary.
const DefaultSummaryWords = 25

var tagRe = regexp.MustCompile(`(?s)<.*?>`)

// Truncate strips markup tags from text and keeps its first words words.
func Truncate(text string, words int) string {
	fields := strings.Fields(tagRe.ReplaceAllString(text, " "))
	if len(fields) > words {
		fields = fields[:words]
	}
	return strings.Join(fields, " ")
}

// MakeList renders each post into itemLayout, joins the items and renders
// them as the content of listLayout at the path given by the dst template.
// The same call produces listing pages and RSS feeds.
func (b *Builder) MakeList(posts []Record, dst, listLayout, itemLayout string, params Params) error {
	var items strings.Builder
	count := 0
	for _, post := range posts {
		if post.Unlisted() {
			continue
		}
		item, err := b.renderItem(post, itemLayout, params)
		if err != nil {
			return err
		}
		items.WriteString(item)
		count++
	}

	listParams := params.Set("content", items.String())

	dstPath, err := b.renderer.Render(dst, listParams)
	if err != nil {
		return fmt.Errorf("render list destination: %w", err)
	}
	output, err := b.renderer.Render(listLayout, listParams)
	if err != nil {
		return fmt.Errorf("render list layout for %s: %w", dstPath, err)
	}

	log.Info().Str("dst", dstPath).Int("items", count).Msg("Rendering list")
	return writeFile(dstPath, output)
}

// renderItem renders one post with its summary into layout.
func (b *Builder) renderItem(post Record, layout string, params Params) (string, error) {
	itemParams := params.With(post).Set("summary", Truncate(post.Content(), b.summaryWords))

	item, err := b.renderer.Render(layout, itemParams)
	if err != nil {
		return "", fmt.Errorf("render item %s: %w", post.Slug(), err)
	}
	return item, nil
}
