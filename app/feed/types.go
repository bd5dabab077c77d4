package feed

import (
	"time"
)

// Item is a single vacancy entry in the persisted feed. Once written, an
// item is never modified; later runs only append new items.
type Item struct {
	GUID        string
	Title       string
	Link        string
	Description string
	PublishedAt time.Time
	Categories  []string
}
