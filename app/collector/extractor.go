package collector

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	readability "codeberg.org/readeck/go-readability"
	"github.com/PuerkitoBio/goquery"
)

// Selector strategies for Oracle HCM job cards, tried in order. The portal
// markup is an unversioned contract and has changed before, hence the
// ladder of fallbacks.
var listingSelectors = []string{
	"a[href*='/jobs/']",
	"a[href*='requisitionId']",
	".job-list-item",
	"[data-job-id]",
	"li[class*='job']",
	"[class*='requisition']",
	"[class*='JobCard']",
	"[class*='job-card']",
	"div[role='list'] a",
	"ul[role='list'] a",
	"section a[href]",
}

var (
	listingSelector     = strings.Join(listingSelectors, ", ")
	listingWaitSelector = "a[href*='/jobs/'], h1, h2"
)

var titleSelectors = []string{
	"h1",
	"h2",
	"[class*='title']",
	"[class*='Title']",
	"[data-test*='title']",
}

// Rendered page text arrives with block boundaries collapsed to spaces, so
// date captures are anchored to date-shaped tokens rather than line ends.
const datePattern = `(\d{1,2}\s+[A-Za-z]{3,9},?\s+\d{4}|[A-Za-z]{3,9}\s+\d{1,2},?\s+\d{4}|\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{2,4})`

var (
	locationRe = regexp.MustCompile(`(?i)Location\s*:?\s+([A-Za-z0-9 ,()/-]{2,60})`)
	postedRe   = regexp.MustCompile(`(?i)(?:Posted|Posting)(?:\s*Date)?\s*:?\s*` + datePattern)
	closingRe  = regexp.MustCompile(`(?i)(?:Closing|Close|End)(?:\s*Date)?\s*:?\s*` + datePattern)
)

// ExtractJobURLs finds unique job detail URLs in the rendered listing page,
// resolved against the portal URL and in document order.
func ExtractJobURLs(html, baseURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing HTML: %w", err)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid portal URL: %w", err)
	}

	seen := map[string]bool{}
	var urls []string

	collect := func(href string) {
		abs := resolveJobURL(base, href)
		if abs == "" || abs == baseURL || seen[abs] {
			return
		}
		seen[abs] = true
		urls = append(urls, abs)
	}

	for _, sel := range listingSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if href, ok := s.Attr("href"); ok {
				collect(href)
				return
			}
			// Container card: take the first job-looking link inside
			s.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
				href, _ := a.Attr("href")
				if abs := resolveJobURL(base, href); abs != "" {
					collect(href)
					return false
				}
				return true
			})
		})
		if len(urls) > 0 {
			return urls, nil
		}
	}

	// Fallback: any anchor whose text is long enough to be a job title
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if len(cleanText(a.Text())) > 10 {
			href, _ := a.Attr("href")
			collect(href)
		}
	})

	return urls, nil
}

// ExtractDetail pulls the fields of interest out of a rendered job detail
// page.
func ExtractDetail(html string) (DetailInfo, error) {
	var info DetailInfo

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return info, fmt.Errorf("failed to parse detail HTML: %w", err)
	}

	for _, sel := range titleSelectors {
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if t := cleanText(s.Text()); len(t) > 5 {
				info.Title = t
				return false
			}
			return true
		})
		if info.Title != "" {
			break
		}
	}

	info.BodyText = cleanText(doc.Find("body").Text())

	doc.Find("[class*='location'], [class*='Location']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if t := normalizeLocation(s.Text()); len(t) > 2 {
			info.Location = t
			return false
		}
		return true
	})
	if info.Location == "" {
		if m := locationRe.FindStringSubmatch(info.BodyText); m != nil {
			info.Location = strings.TrimSpace(m[1])
		}
	}

	if m := postedRe.FindStringSubmatch(info.BodyText); m != nil {
		info.PostingDate = strings.TrimSpace(m[1])
	}
	if m := closingRe.FindStringSubmatch(info.BodyText); m != nil {
		info.ClosingDate = strings.TrimSpace(m[1])
	}

	// Readability gives a usable summary on most detail pages; fall back to
	// the assembled description when it has nothing.
	if article, err := readability.FromReader(strings.NewReader(html), nil); err == nil {
		info.Excerpt = cleanText(article.Excerpt)
		if info.Title == "" {
			info.Title = cleanText(article.Title)
		}
	}

	return info, nil
}

func resolveJobURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return ""
	}

	u, err := base.Parse(href)
	if err != nil {
		return ""
	}

	abs := u.String()
	low := strings.ToLower(abs)
	if !strings.Contains(low, "/jobs/") && !strings.Contains(low, "requisition") {
		return ""
	}
	return abs
}

func normalizeLocation(s string) string {
	s = cleanText(s)
	for _, prefix := range []string{"Location:", "LOCATION:", "Locations:"} {
		s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
	}
	return s
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}
