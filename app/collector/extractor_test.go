package collector

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingFixture = `<html><body>
<div role="list">
  <a href="/jobs/1001">Programme Specialist, P-4</a>
  <a href="/jobs/1002">Finance Assistant, G-6</a>
  <a href="/jobs/1002">Finance Assistant, G-6 (duplicate link)</a>
  <a href="/jobs/1003">National Consultant: Gender Analysis</a>
  <a href="/about">About us</a>
</div>
</body></html>`

func detailFixture(title, location, body string) string {
	return fmt.Sprintf(`<html><body>
<h1>%s</h1>
<div class="job-location">Location: %s</div>
<div class="job-details">
  <p>%s</p>
  <p>Posting Date: 20 Aug 2026</p>
  <p>Closing Date: 30 Sep 2026</p>
</div>
</body></html>`, title, location, body)
}

func TestExtractJobURLs(t *testing.T) {
	urls, err := ExtractJobURLs(listingFixture, "https://portal.example.org/jobs")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://portal.example.org/jobs/1001",
		"https://portal.example.org/jobs/1002",
		"https://portal.example.org/jobs/1003",
	}, urls, "should dedupe links and drop non-job anchors")
}

func TestExtractJobURLsContainerCards(t *testing.T) {
	html := `<html><body>
<li class="job-list-row"><a href="https://portal.example.org/jobs/2001">First</a></li>
<li class="job-list-row"><a href="https://portal.example.org/jobs/2002">Second</a></li>
</body></html>`

	urls, err := ExtractJobURLs(html, "https://portal.example.org/jobs")
	require.NoError(t, err)
	assert.Len(t, urls, 2)
}

func TestExtractJobURLsEmptyPage(t *testing.T) {
	urls, err := ExtractJobURLs("<html><body><p>Maintenance</p></body></html>", "https://portal.example.org/jobs")
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestExtractJobURLsFallbackAnchors(t *testing.T) {
	// No job-card selector matches, but a long-text anchor points at a
	// requisition URL.
	html := `<html><body>
<p><a href="https://portal.example.org/hcm?requisitionId=77">Deputy Representative vacancy details</a></p>
</body></html>`

	urls, err := ExtractJobURLs(html, "https://portal.example.org/jobs")
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.Contains(t, urls[0], "requisitionId=77")
}

func TestExtractDetail(t *testing.T) {
	html := detailFixture("Programme Specialist, P-4", "New York, USA", "The position is graded P-4.")

	info, err := ExtractDetail(html)
	require.NoError(t, err)

	assert.Equal(t, "Programme Specialist, P-4", info.Title)
	assert.Equal(t, "New York, USA", info.Location, "location label prefix should be stripped")
	assert.Equal(t, "20 Aug 2026", info.PostingDate)
	assert.Equal(t, "30 Sep 2026", info.ClosingDate)
	assert.Contains(t, info.BodyText, "graded P-4")
}

func TestExtractDetailLocationFromBodyText(t *testing.T) {
	html := `<html><body><h1>Policy Analyst P-3</h1><p>Duty station. Location: Nairobi, Kenya. Apply now.</p></body></html>`

	info, err := ExtractDetail(html)
	require.NoError(t, err)
	assert.Contains(t, info.Location, "Nairobi")
}

func TestExtractDetailMissingTitle(t *testing.T) {
	info, err := ExtractDetail("<html><body><p>ad</p></body></html>")
	require.NoError(t, err)
	assert.Empty(t, info.Title)
}
