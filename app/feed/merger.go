package feed

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

type Merger struct{}

func NewMerger() *Merger {
	return &Merger{}
}

// Run merges newly collected items into the previously persisted ones,
// keyed by GUID. Existing entries are kept verbatim in their persisted
// order; collected items with an unseen GUID are appended in collection
// order. An item whose GUID already exists is dropped, never merged into
// the stored entry, so a posting edited on the portal does not rewrite
// history. Returns the merged feed and the number of items added.
func (m *Merger) Run(existing, collected []Item) ([]Item, int) {
	seen := mapset.NewSet[string]()
	for _, item := range existing {
		seen.Add(item.GUID)
	}

	merged := slices.Clone(existing)
	added := 0

	for _, item := range collected {
		if item.GUID == "" {
			item.GUID = GUIDFromLink(item.Link)
		}
		if seen.Contains(item.GUID) {
			continue
		}
		seen.Add(item.GUID)
		merged = append(merged, item)
		added++
	}

	return merged, added
}
