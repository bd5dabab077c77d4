package feed

import (
	"fmt"
	"reflect"
	"testing"
	"time"
)

func TestMergerPreservesExistingEntries(t *testing.T) {
	merger := NewMerger()

	existing := []Item{
		{GUID: "A", Title: "Old", Link: "https://example.org/jobs/1"},
	}
	collected := []Item{
		{GUID: "A", Title: "Updated", Link: "https://example.org/jobs/1"},
		{GUID: "B", Title: "New", Link: "https://example.org/jobs/2"},
	}

	merged, added := merger.Run(existing, collected)

	if added != 1 {
		t.Errorf("Expected 1 added item, got %d", added)
	}
	if len(merged) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(merged))
	}
	if merged[0].GUID != "A" || merged[0].Title != "Old" {
		t.Errorf("Existing entry was modified: %+v", merged[0])
	}
	if merged[1].GUID != "B" || merged[1].Title != "New" {
		t.Errorf("New entry missing or wrong: %+v", merged[1])
	}
}

func TestMergerIdempotent(t *testing.T) {
	merger := NewMerger()

	collected := []Item{
		{GUID: "A", Title: "First"},
		{GUID: "B", Title: "Second"},
	}

	merged, added := merger.Run(nil, collected)
	if added != 2 {
		t.Fatalf("Expected 2 added, got %d", added)
	}

	again, added := merger.Run(merged, collected)
	if added != 0 {
		t.Errorf("Re-merging the same set should add nothing, added %d", added)
	}
	if !reflect.DeepEqual(merged, again) {
		t.Errorf("Re-merge changed the feed: %+v vs %+v", merged, again)
	}
}

func TestMergerMonotonicGrowth(t *testing.T) {
	merger := NewMerger()

	var feed []Item
	var allGUIDs []string

	// Simulate N runs, each collecting an overlapping window of postings.
	for run := 0; run < 5; run++ {
		var collected []Item
		for i := run; i < run+3; i++ {
			guid := fmt.Sprintf("job-%d", i)
			collected = append(collected, Item{GUID: guid, Title: fmt.Sprintf("Job %d", i)})
			if i >= len(allGUIDs) {
				allGUIDs = append(allGUIDs, guid)
			}
		}

		previous := len(feed)
		feed, _ = merger.Run(feed, collected)

		if len(feed) < previous {
			t.Fatalf("Feed shrank from %d to %d on run %d", previous, len(feed), run)
		}
	}

	// Final feed is the union of everything ever collected, in first-seen order.
	if len(feed) != len(allGUIDs) {
		t.Fatalf("Expected %d items, got %d", len(allGUIDs), len(feed))
	}
	for i, guid := range allGUIDs {
		if feed[i].GUID != guid {
			t.Errorf("Position %d: expected %s, got %s", i, guid, feed[i].GUID)
		}
	}
}

func TestMergerDerivesMissingGUID(t *testing.T) {
	merger := NewMerger()

	link := "https://example.org/jobs/42"
	merged, added := merger.Run(nil, []Item{{Link: link, Title: "No GUID"}})

	if added != 1 {
		t.Fatalf("Expected 1 added, got %d", added)
	}
	if merged[0].GUID != GUIDFromLink(link) {
		t.Errorf("Expected derived GUID %s, got %s", GUIDFromLink(link), merged[0].GUID)
	}

	// Same link collected again dedupes against the derived GUID.
	_, added = merger.Run(merged, []Item{{Link: link, Title: "No GUID"}})
	if added != 0 {
		t.Errorf("Duplicate link should not be added again")
	}
}

func TestMergerEmptyCollected(t *testing.T) {
	merger := NewMerger()

	existing := []Item{{GUID: "A", Title: "Old", PublishedAt: time.Now()}}
	merged, added := merger.Run(existing, nil)

	if added != 0 {
		t.Errorf("Expected 0 added, got %d", added)
	}
	if !reflect.DeepEqual(existing, merged) {
		t.Errorf("Merging nothing should leave the feed unchanged")
	}
}
