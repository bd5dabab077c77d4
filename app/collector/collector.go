package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cinfoposte/unwomen-jobs/app/cfg"
	"github.com/cinfoposte/unwomen-jobs/app/feed"
	"github.com/cinfoposte/unwomen-jobs/app/grade"
)

var (
	// ErrNoListings means the listing page yielded no job cards at all: the
	// portal is down or its markup changed. Distinct from a successful run
	// that filtered everything out.
	ErrNoListings = errors.New("no job listings found on portal page")

	// ErrNoneExtracted means every detail page failed to parse.
	ErrNoneExtracted = errors.New("no job details could be extracted")
)

// Collector drives one scrape of the portal and produces the postings that
// pass the grade filter. It touches no persisted state.
type Collector struct {
	fetcher    PageFetcher
	classifier *grade.Classifier
	limiter    *rate.Limiter
	now        func() time.Time

	portalURL string
	maxItems  int

	stats Stats
}

func New(fetcher PageFetcher, classifier *grade.Classifier) *Collector {
	c := cfg.Get()

	return &Collector{
		fetcher:    fetcher,
		classifier: classifier,
		limiter:    rate.NewLimiter(rate.Limit(c.RequestRate), 1),
		now:        time.Now,
		portalURL:  c.PortalURL,
		maxItems:   c.MaxItems,
	}
}

// Run scrapes the listing page, visits each detail page and returns the
// included postings in listing order. Individual detail failures are
// skipped with a warning; a run where nothing could be extracted fails.
func (c *Collector) Run(ctx context.Context) ([]feed.Item, error) {
	c.stats = Stats{Reasons: make(map[string]int)}

	slog.Info("Loading job listing page", "url", c.portalURL)
	listing, err := c.fetcher.FetchListing(ctx, c.portalURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing page: %w", err)
	}

	urls, err := ExtractJobURLs(listing, c.portalURL)
	if err != nil {
		return nil, err
	}
	c.stats.CardsFound = len(urls)
	slog.Info("Job URLs collected", "count", len(urls))

	if len(urls) == 0 {
		return nil, ErrNoListings
	}

	var included []feed.Item

	for i, jobURL := range urls {
		if len(included) >= c.maxItems {
			slog.Info("Reached maximum included jobs, stopping", "max", c.maxItems)
			break
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		slog.Debug("Processing job", "index", i+1, "total", len(urls), "url", jobURL)
		c.stats.DetailsOpened++

		info, err := c.fetchDetail(ctx, jobURL)
		if err != nil {
			slog.Warn("Skipping job, detail page failed", "url", jobURL, "error", err)
			c.stats.ParseFailures++
			continue
		}

		if len(info.Title) < 5 {
			slog.Warn("Skipping job with short or empty title", "url", jobURL, "title", info.Title)
			c.stats.ParseFailures++
			continue
		}

		decision := c.classifier.Run(info.Title, info.BodyText)
		if !decision.Include {
			slog.Info("Excluded", "title", info.Title, "reason", decision.Reason)
			c.stats.Excluded++
			c.stats.Reasons[decision.Reason]++
			continue
		}

		slog.Info("Included", "title", info.Title, "reason", decision.Reason)
		c.stats.Included++

		grades := c.classifier.Detect(info.BodyText)

		included = append(included, feed.Item{
			GUID:        feed.GUIDFromLink(jobURL),
			Title:       info.Title,
			Link:        jobURL,
			Description: c.buildDescription(info, grades),
			PublishedAt: c.now().UTC().Truncate(time.Second),
			Categories:  grades,
		})
	}

	if c.stats.DetailsOpened > 0 && c.stats.ParseFailures == c.stats.DetailsOpened {
		return nil, ErrNoneExtracted
	}

	c.logSummary()

	return included, nil
}

// Stats returns the counters of the most recent Run.
func (c *Collector) Stats() Stats {
	return c.stats
}

func (c *Collector) fetchDetail(ctx context.Context, url string) (DetailInfo, error) {
	html, err := c.fetcher.FetchPage(ctx, url)
	if err != nil {
		// One retry after a short pause, detail pages fail transiently
		slog.Debug("Retrying detail page", "url", url, "error", err)
		if sleepErr := sleepCtx(ctx, 3*time.Second); sleepErr != nil {
			return DetailInfo{}, sleepErr
		}
		html, err = c.fetcher.FetchPage(ctx, url)
		if err != nil {
			return DetailInfo{}, err
		}
	}

	return ExtractDetail(html)
}

func (c *Collector) buildDescription(info DetailInfo, grades []string) string {
	parts := []string{fmt.Sprintf("UN Women has a vacancy for the position of %s.", info.Title)}

	if info.Location != "" {
		parts = append(parts, fmt.Sprintf("Location: %s.", info.Location))
	}
	if len(grades) > 0 {
		parts = append(parts, fmt.Sprintf("Level: %s.", strings.Join(grades, ", ")))
	}
	if info.ClosingDate != "" {
		parts = append(parts, fmt.Sprintf("Closing date: %s.", info.ClosingDate))
	}
	if info.Excerpt != "" {
		parts = append(parts, info.Excerpt)
	}

	return strings.Join(parts, " ")
}

func (c *Collector) logSummary() {
	slog.Info("Collection summary",
		"cards_found", c.stats.CardsFound,
		"details_opened", c.stats.DetailsOpened,
		"parse_failures", c.stats.ParseFailures,
		"included", c.stats.Included,
		"excluded", c.stats.Excluded)

	for reason, count := range c.stats.Reasons {
		slog.Debug("Exclusion reason", "reason", reason, "count", count)
	}
}
