package collector

import (
	"context"
)

// PageFetcher renders portal pages to HTML. The production implementation
// drives a headless browser; tests substitute fixture HTML so the
// extraction and filter logic never needs a live portal.
type PageFetcher interface {
	// FetchListing loads the portal listing page, drives pagination until
	// no further postings appear, and returns the rendered HTML.
	FetchListing(ctx context.Context, url string) (string, error)

	// FetchPage loads a single job detail page and returns its rendered HTML.
	FetchPage(ctx context.Context, url string) (string, error)

	Close() error
}
