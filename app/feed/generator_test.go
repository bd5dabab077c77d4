package feed

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cinfoposte/unwomen-jobs/app/cfg"
)

func setupTestConfig(t *testing.T) {
	t.Helper()

	oldArgs := os.Args
	os.Args = []string{"test"}
	defer func() { os.Args = oldArgs }()

	if _, err := cfg.Load(); err != nil {
		t.Fatalf("cfg.Load failed: %v", err)
	}
}

func sampleItems() []Item {
	return []Item{
		{
			GUID:        "1234567890123456",
			Title:       "Programme Specialist, P-4",
			Link:        "https://example.org/jobs/1001",
			Description: "UN Women has a vacancy for the position of Programme Specialist. Location: New York. Level: P-4.",
			PublishedAt: time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC),
			Categories:  []string{"P-4"},
		},
		{
			GUID:        "6543210987654321",
			Title:       "Internship - Communications",
			Link:        "https://example.org/jobs/1002",
			Description: "UN Women has a vacancy for the position of Internship - Communications.",
			PublishedAt: time.Date(2026, 8, 21, 14, 0, 0, 0, time.UTC),
		},
	}
}

func TestGeneratorStructure(t *testing.T) {
	setupTestConfig(t)
	generator := NewGenerator()

	rss, err := generator.Run(sampleItems())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(rss, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("RSS should contain XML declaration")
	}
	if !strings.Contains(rss, `<rss version="2.0"`) {
		t.Error("RSS should contain RSS 2.0 declaration")
	}
	if !strings.Contains(rss, `xmlns:atom="http://www.w3.org/2005/Atom"`) {
		t.Error("RSS should contain atom namespace")
	}
	if !strings.Contains(rss, "<title>UN Women Job Vacancies</title>") {
		t.Error("RSS should contain channel title")
	}
	if !strings.Contains(rss, `rel="self" type="application/rss+xml"`) {
		t.Error("RSS should contain atom:link self reference")
	}
	if !strings.Contains(rss, `<guid isPermaLink="false">1234567890123456</guid>`) {
		t.Error("Numeric GUIDs should be marked non-permalink")
	}
	if !strings.Contains(rss, "<description><![CDATA[UN Women has a vacancy for the position of Programme Specialist.") {
		t.Error("Item descriptions should be wrapped in CDATA")
	}
	if !strings.Contains(rss, "<category>P-4</category>") {
		t.Error("Grade category should be emitted")
	}
	if !strings.Contains(rss, "<pubDate>Thu, 20 Aug 2026 09:30:00 +0000</pubDate>") {
		t.Error("Item pubDate should be RFC1123Z formatted")
	}
	if !strings.Contains(rss, "<lastBuildDate>Fri, 21 Aug 2026 14:00:00 +0000</lastBuildDate>") {
		t.Error("lastBuildDate should come from the newest item")
	}
	if !strings.Contains(rss, `<source url=`) {
		t.Error("Items should carry a source element")
	}
}

func TestGeneratorWellFormedForAnySize(t *testing.T) {
	setupTestConfig(t)
	generator := NewGenerator()

	items := sampleItems()
	for _, n := range []int{0, 1, 2} {
		rss, err := generator.Run(items[:n])
		if err != nil {
			t.Fatalf("Run failed for %d items: %v", n, err)
		}

		decoder := xml.NewDecoder(strings.NewReader(rss))
		for {
			_, err := decoder.Token()
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				t.Fatalf("Output for %d items is not well-formed XML: %v", n, err)
			}
		}
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	setupTestConfig(t)
	generator := NewGenerator()

	first, err := generator.Run(sampleItems())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	second, err := generator.Run(sampleItems())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if first != second {
		t.Error("Generating the same items twice should be byte-identical")
	}
}

func TestGeneratorRoundTripIdempotent(t *testing.T) {
	setupTestConfig(t)
	generator := NewGenerator()
	parser := NewParser()
	merger := NewMerger()

	collected := sampleItems()

	merged, _ := merger.Run(nil, collected)
	first, err := generator.Run(merged)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Parse the persisted document back, merge the identical collected set
	// again and regenerate: the document must not change.
	parsed, err := parser.Run([]byte(first))
	if err != nil {
		t.Fatalf("Parse of generated feed failed: %v", err)
	}

	remerged, added := merger.Run(parsed, collected)
	if added != 0 {
		t.Errorf("Re-merge of the same collected set added %d items", added)
	}

	second, err := generator.Run(remerged)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if first != second {
		t.Error("Merge/generate cycle with unchanged input should be byte-identical")
	}
}

func TestGeneratorSanitizesContent(t *testing.T) {
	setupTestConfig(t)
	generator := NewGenerator()

	items := []Item{{
		GUID:        "0000000000000001",
		Title:       "Title with \x08 control char",
		Link:        "https://example.org/jobs/1003",
		Description: "Description with ]]> inside and \x0B control char",
		PublishedAt: time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC),
	}}

	rss, err := generator.Run(items)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if strings.Contains(rss, "\x08") || strings.Contains(rss, "\x0B") {
		t.Error("Illegal XML characters should be stripped")
	}

	decoder := xml.NewDecoder(strings.NewReader(rss))
	for {
		_, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatalf("Sanitized output is not well-formed XML: %v", err)
		}
	}

	parsed, err := NewParser().Run([]byte(rss))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !strings.Contains(parsed[0].Description, "]]>") {
		t.Error("CDATA escaping should preserve the ]]> text")
	}
}
