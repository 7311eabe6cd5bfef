package builder

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

// MakePages renders every file matching the glob src into layout and
// writes it to the path given by the dst template. It returns the loaded
// records, newest first; records with the same date keep glob order.
func (b *Builder) MakePages(src, dst, layout string, params Params) ([]Record, error) {
	paths, err := filepath.Glob(src)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", src, err)
	}

	items := make([]Record, 0, len(paths))
	for _, srcPath := range paths {
		text, err := readFile(srcPath)
		if err != nil {
			return nil, err
		}

		rec, err := b.loader.Load(srcPath, text)
		if err != nil {
			return nil, err
		}

		pageParams := params.With(rec)

		// Content may reference its own fields and the site params.
		if pageParams.Get("render") == "yes" {
			rendered, err := b.renderer.Render(rec.Content(), pageParams)
			if err != nil {
				return nil, fmt.Errorf("render content of %s: %w", srcPath, err)
			}
			pageParams = pageParams.Set("content", rendered)
			rec["content"] = rendered
		}

		dstPath, err := b.renderer.Render(dst, pageParams)
		if err != nil {
			return nil, fmt.Errorf("render destination for %s: %w", srcPath, err)
		}
		output, err := b.renderer.Render(layout, pageParams)
		if err != nil {
			return nil, fmt.Errorf("render layout for %s: %w", srcPath, err)
		}

		log.Info().Str("src", srcPath).Str("dst", dstPath).Msg("Rendering page")
		if err := writeFile(dstPath, output); err != nil {
			return nil, err
		}

		items = append(items, rec)
	}

	slices.SortStableFunc(items, func(x, y Record) int {
		return strings.Compare(y.Date(), x.Date())
	})

	return items, nil
}
