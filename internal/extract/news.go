package extract

import (
	"time"

	"github.com/directorycat/catalog-pipeline/internal/model"
)

// News scans the News section for (Link, DateLine) pairs within two blocks
// of each other, emitting one row per pair. A link with no nearby date is
// still emitted with a null PublishedDate. Duplicate URLs within the page
// are collapsed, keeping the first occurrence.
func News(slug string, news model.Section) []model.NewsItem {
	seen := make(map[string]bool)
	var out []model.NewsItem

	blocks := news.Blocks
	for i, b := range blocks {
		if b.Kind != model.BlockLink {
			continue
		}
		if seen[b.LinkPayload.URL] {
			continue
		}

		var published *time.Time
		for j := i + 1; j <= i+2 && j < len(blocks); j++ {
			if blocks[j].Kind == model.BlockDateLine {
				if t, err := time.Parse("2006-01-02", blocks[j].ISODate); err == nil {
					published = &t
				}
				break
			}
		}

		seen[b.LinkPayload.URL] = true
		out = append(out, model.NewsItem{
			Slug:          slug,
			URL:           b.LinkPayload.URL,
			Title:         b.LinkPayload.Text,
			PublishedDate: published,
		})
	}
	return out
}
