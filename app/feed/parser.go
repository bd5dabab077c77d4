package feed

import (
	"bytes"
	"cmp"
	"fmt"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses a persisted feed document back into items. Entries missing a
// guid fall back to the link-derived one, so feeds written before guid
// support still merge correctly.
func (p *Parser) Run(data []byte) ([]Item, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		item := Item{
			GUID:        cmp.Or(it.GUID, GUIDFromLink(it.Link)),
			Title:       it.Title,
			Link:        it.Link,
			Description: it.Description,
		}

		if it.PublishedParsed != nil {
			item.PublishedAt = *it.PublishedParsed
		}

		if it.Categories != nil {
			item.Categories = it.Categories
		}

		items = append(items, item)
	}

	return items, nil
}
