package collector

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/cinfoposte/unwomen-jobs/app/cfg"
)

var _ PageFetcher = (*BrowserFetcher)(nil)

// BrowserFetcher renders portal pages with headless Chromium. The Oracle
// HCM candidate site is a JavaScript application and serves no usable
// markup to a plain HTTP client.
type BrowserFetcher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	bctx    playwright.BrowserContext

	initialWait    time.Duration
	pageTimeout    float64
	scrollAttempts int
}

func NewBrowserFetcher() (*BrowserFetcher, error) {
	c := cfg.Get()

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(c.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
			"--lang=en-US",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(c.UserAgent),
		Viewport:  &playwright.Size{Width: 1920, Height: 1080},
		Locale:    playwright.String("en-US"),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	return &BrowserFetcher{
		pw:             pw,
		browser:        browser,
		bctx:           bctx,
		initialWait:    time.Duration(c.InitialWait) * time.Second,
		pageTimeout:    float64(c.PageTimeout * 1000),
		scrollAttempts: c.ScrollAttempts,
	}, nil
}

func (f *BrowserFetcher) FetchListing(ctx context.Context, url string) (string, error) {
	page, err := f.bctx.NewPage()
	if err != nil {
		return "", fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(f.pageTimeout),
	}); err != nil {
		return "", fmt.Errorf("failed to load listing page: %w", err)
	}

	// The portal renders entirely client-side; give it time to settle.
	slog.Debug("Waiting for portal to render", "wait", f.initialWait)
	if err := sleepCtx(ctx, f.initialWait); err != nil {
		return "", err
	}

	if err := page.Locator(listingWaitSelector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(15000),
	}); err != nil {
		slog.Warn("Timed out waiting for job elements, proceeding anyway", "error", err)
	}

	if err := f.loadAllPostings(ctx, page); err != nil {
		return "", err
	}

	content, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read listing page content: %w", err)
	}
	return content, nil
}

func (f *BrowserFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	page, err := f.bctx.NewPage()
	if err != nil {
		return "", fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(f.pageTimeout),
	}); err != nil {
		return "", fmt.Errorf("failed to load page: %w", err)
	}

	if err := sleepCtx(ctx, 5*time.Second); err != nil {
		return "", err
	}

	content, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return content, nil
}

// loadAllPostings clicks "Load More"/"Show More" buttons and scrolls to the
// bottom until the number of job cards stops growing.
func (f *BrowserFetcher) loadAllPostings(ctx context.Context, page playwright.Page) error {
	stalled := 0
	lastCount := 0

	for attempt := 0; attempt < f.scrollAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		clicked := false
		buttons, err := page.Locator(`button:text-matches("load|more", "i")`).All()
		if err == nil {
			for _, btn := range buttons {
				visible, _ := btn.IsVisible()
				enabled, _ := btn.IsEnabled()
				if !visible || !enabled {
					continue
				}
				if err := btn.ScrollIntoViewIfNeeded(); err != nil {
					continue
				}
				if err := btn.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(5000)}); err != nil {
					continue
				}
				slog.Debug("Clicked load-more button")
				clicked = true
				if err := sleepCtx(ctx, 3*time.Second); err != nil {
					return err
				}
				break
			}
		}

		if !clicked {
			if _, err := page.Evaluate("window.scrollTo(0, document.body.scrollHeight)"); err != nil {
				slog.Debug("Scroll failed", "error", err)
			}
			if err := sleepCtx(ctx, 2*time.Second); err != nil {
				return err
			}
		}

		count, err := page.Locator(listingSelector).Count()
		if err != nil {
			count = lastCount
		}
		slog.Debug("Pagination attempt", "attempt", attempt+1, "cards", count)

		if count == lastCount {
			stalled++
			if stalled >= 3 {
				slog.Debug("No new postings loading, stopping pagination")
				break
			}
		} else {
			stalled = 0
			lastCount = count
		}
	}

	return nil
}

func (f *BrowserFetcher) Close() error {
	if f.bctx != nil {
		f.bctx.Close()
	}
	if f.browser != nil {
		f.browser.Close()
	}
	if f.pw != nil {
		return f.pw.Stop()
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
